package handlers

import (
	stderrors "errors"
	"log/slog"
	"net/http"

	"finance-ledger/internal/errors"
	"finance-ledger/internal/models"
	"finance-ledger/internal/services"

	"github.com/labstack/echo/v4"
)

// Handlers report failures through two helpers only:
//
//   - SendError for client and business errors (4xx), e.g.
//     SendError(c, errors.TransactionInsufficientFunds)
//   - SendSystemError for everything the client must not see (5xx)
//
// sendServiceError picks between them for errors coming out of the service
// layer. Do not return echo.NewHTTPError or raw service errors from a handler.

const (
	// TraceIDContextKey is the context key for storing the trace ID
	TraceIDContextKey = "trace_id"
)

// SuccessResponse represents a standard success response
type SuccessResponse struct {
	Data    interface{} `json:"data,omitempty" swaggertype:"object"`
	Message string      `json:"message,omitempty"`
	Meta    interface{} `json:"meta,omitempty" swaggertype:"object"`
}

// ErrorResponse is an alias for the standardized error response type
type ErrorResponse = errors.ErrorResponse

func getTraceID(c echo.Context) string {
	traceID, ok := c.Get(TraceIDContextKey).(string)
	if !ok {
		return ""
	}
	return traceID
}

// SendError sends a standardized error response with trace ID from context
func SendError(c echo.Context, code errors.ErrorCode, opts ...errors.ErrorOption) error {
	traceID := getTraceID(c)
	errorResponse := errors.NewErrorResponse(code, traceID, opts...)
	return c.JSON(errorResponse.GetHTTPStatus(), errorResponse)
}

// SendSystemError logs the internal error and answers with a generic message
func SendSystemError(c echo.Context, err error) error {
	traceID := getTraceID(c)
	errorResponse, internalErr := errors.WrapSystemError(err, traceID)
	slog.ErrorContext(c.Request().Context(), "request failed",
		"trace_id", traceID,
		"method", c.Request().Method,
		"path", c.Path(),
		"error", internalErr,
	)
	return c.JSON(http.StatusInternalServerError, errorResponse)
}

// serviceErrorCodes maps service sentinels to API codes
var serviceErrorCodes = []struct {
	err  error
	code errors.ErrorCode
}{
	{services.ErrAccountNotFound, errors.AccountNotFound},
	{services.ErrTransactionNotFound, errors.TransactionNotFound},
	{services.ErrCategoryNotFound, errors.CategoryNotFound},
	{services.ErrAccountTypeNotFound, errors.AccountTypeNotFound},
	{services.ErrUserNotFound, errors.AuthInvalidCredentials},

	{services.ErrInvalidCategory, errors.TransactionInvalidCategory},
	{services.ErrInvalidAccountType, errors.AccountInvalidAccountType},
	{services.ErrInsufficientFunds, errors.TransactionInsufficientFunds},

	{services.ErrAccountNameTaken, errors.AccountNameTaken},
	{services.ErrAccountHasTransactions, errors.AccountHasTransactions},
	{services.ErrCategoryInUse, errors.CategoryInUse},
	{services.ErrAccountTypeInUse, errors.AccountTypeInUse},
	{services.ErrAccountTypeNameTaken, errors.AccountTypeNameTaken},
	{services.ErrUserAlreadyExists, errors.AuthEmailTaken},

	{services.ErrInvalidCredentials, errors.AuthInvalidCredentials},
	{services.ErrExpiredToken, errors.AuthExpiredToken},
	{services.ErrInvalidToken, errors.AuthInvalidTokenFormat},

	{models.ErrNegativeOpeningBalance, errors.AccountInvalidOpening},
	{models.ErrInvalidAmount, errors.TransactionInvalidAmount},
	{models.ErrInvalidKind, errors.TransactionInvalidKind},
	{models.ErrInvalidPeriod, errors.TransactionInvalidPeriod},
	{services.ErrInvalidExportFormat, errors.TransactionInvalidExport},
	{models.ErrMissingDate, errors.ValidationInvalidDate},
}

// sendServiceError translates an error returned by a service into the API
// error envelope. Anything unrecognised is treated as internal.
func sendServiceError(c echo.Context, err error) error {
	for _, m := range serviceErrorCodes {
		if stderrors.Is(err, m.err) {
			return SendError(c, m.code)
		}
	}

	if services.KindOf(err) == services.KindInvalidInput {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails(err.Error()))
	}
	return SendSystemError(c, err)
}
