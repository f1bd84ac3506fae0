package middleware

import (
	stderrors "errors"
	"log/slog"
	"net/http"
	"strconv"

	"finance-ledger/internal/errors"
	"finance-ledger/internal/validation"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var apiErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "api_errors_total",
		Help: "Total number of API errors by code, endpoint, and status",
	},
	[]string{"code", "endpoint", "status"},
)

// statusCodes maps statuses raised by echo itself (routing, body limit,
// binding) onto API error codes. Unlisted statuses become SYSTEM_001.
var statusCodes = map[int]errors.ErrorCode{
	http.StatusBadRequest:            errors.ValidationGeneral,
	http.StatusUnauthorized:          errors.AuthMissingToken,
	http.StatusForbidden:             errors.AuthInvalidTokenFormat,
	http.StatusNotFound:              errors.SystemRouteNotFound,
	http.StatusMethodNotAllowed:      errors.ValidationGeneral,
	http.StatusRequestEntityTooLarge: errors.ValidationOutOfRange,
	http.StatusUnprocessableEntity:   errors.ValidationGeneral,
	http.StatusTooManyRequests:       errors.SystemRateLimitExceeded,
	http.StatusServiceUnavailable:    errors.SystemServiceUnavailable,
}

func mapHTTPStatusToErrorCode(status int) errors.ErrorCode {
	if code, ok := statusCodes[status]; ok {
		return code
	}
	return errors.SystemInternalError
}

// CustomHTTPErrorHandler renders whatever a handler returned as the standard
// error envelope, logs it and counts it in api_errors_total.
func CustomHTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	traceID := GetTraceID(c)
	if traceID == "" {
		traceID = "unknown"
	}

	body, status, cause := classifyError(err, traceID)

	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	slog.Log(c.Request().Context(), level, "request error",
		"trace_id", traceID,
		"error_code", body.Error.Code,
		"status", status,
		"method", c.Request().Method,
		"path", c.Request().URL.Path,
		"error", cause,
	)

	apiErrorsTotal.WithLabelValues(body.Error.Code, c.Path(), strconv.Itoa(status)).Inc()

	if sendErr := c.JSON(status, body); sendErr != nil {
		slog.Error("failed to send error response", "trace_id", traceID, "error", sendErr)
	}
}

// classifyError returns the response body, the status to send and the error
// worth logging, which for wrapped echo errors is the internal cause
func classifyError(err error, traceID string) (*errors.ErrorResponse, int, error) {
	var httpErr *echo.HTTPError
	if stderrors.As(err, &httpErr) {
		var opts []errors.ErrorOption
		if msg, ok := httpErr.Message.(string); ok && msg != http.StatusText(httpErr.Code) {
			opts = append(opts, errors.WithMessage(msg))
		}
		cause := err
		if httpErr.Internal != nil {
			cause = httpErr.Internal
		}
		return errors.NewErrorResponse(mapHTTPStatusToErrorCode(httpErr.Code), traceID, opts...), httpErr.Code, cause
	}

	var validationErrs validator.ValidationErrors
	if stderrors.As(err, &validationErrs) {
		return errors.NewValidationError(validation.FieldErrors(validationErrs), traceID), http.StatusBadRequest, err
	}

	body, cause := errors.WrapSystemError(err, traceID)
	return body, body.GetHTTPStatus(), cause
}
