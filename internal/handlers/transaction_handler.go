package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"finance-ledger/internal/dto"
	"finance-ledger/internal/errors"
	"finance-ledger/internal/models"
	"finance-ledger/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 500
)

// TransactionHandler handles transaction-related HTTP requests
type TransactionHandler struct {
	ledger   services.LedgerServiceInterface
	exporter services.ExportServiceInterface
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(
	ledger services.LedgerServiceInterface,
	exporter services.ExportServiceInterface,
) *TransactionHandler {
	return &TransactionHandler{
		ledger:   ledger,
		exporter: exporter,
	}
}

// CreateTransaction posts a new income or expense
// @Summary Create transaction
// @Description Record an income or expense and apply it to the account balance
// @Tags Transactions
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.TransactionRequest true "Transaction details"
// @Success 201 {object} SuccessResponse{data=dto.TransactionResponse} "Transaction recorded"
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_001 - Invalid request body"
// @Failure 401 {object} errors.ErrorResponse "AUTH_002 - Missing or invalid authentication"
// @Failure 404 {object} errors.ErrorResponse "ACCOUNT_001 - Account not found"
// @Failure 422 {object} errors.ErrorResponse "TRANSACTION_003 - Insufficient funds or TRANSACTION_007 - Invalid category"
// @Failure 500 {object} errors.ErrorResponse "SYSTEM_001 - Internal server error"
// @Router /transactions [post]
func (h *TransactionHandler) CreateTransaction(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	var req dto.TransactionRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	posting, err := toPosting(&req)
	if err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails(err.Error()))
	}

	tx, err := h.ledger.Post(c.Request().Context(), userID, posting)
	if err != nil {
		return sendServiceError(c, err)
	}

	return c.JSON(http.StatusCreated, SuccessResponse{
		Data:    dto.NewTransactionResponse(tx),
		Message: "Transaction recorded",
	})
}

// UpdateTransaction amends a transaction, reversing its old effect before applying the new one
// @Summary Update transaction
// @Tags Transactions
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Transaction ID (UUID)"
// @Param request body dto.TransactionRequest true "Replacement transaction details"
// @Success 200 {object} SuccessResponse{data=dto.TransactionResponse}
// @Failure 404 {object} errors.ErrorResponse "TRANSACTION_001 - Transaction not found"
// @Failure 422 {object} errors.ErrorResponse "TRANSACTION_003 - Insufficient funds or TRANSACTION_007 - Invalid category"
// @Router /transactions/{id} [put]
func (h *TransactionHandler) UpdateTransaction(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	transactionID, ok := parseUUIDParam(c, "id")
	if !ok {
		return SendError(c, errors.TransactionInvalidID)
	}

	var req dto.TransactionRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	posting, err := toPosting(&req)
	if err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails(err.Error()))
	}

	tx, err := h.ledger.Amend(c.Request().Context(), userID, transactionID, posting)
	if err != nil {
		return sendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Data:    dto.NewTransactionResponse(tx),
		Message: "Transaction updated",
	})
}

// DeleteTransaction retracts a transaction and restores the account balance
// @Summary Delete transaction
// @Tags Transactions
// @Security BearerAuth
// @Param id path string true "Transaction ID (UUID)"
// @Success 204 "Transaction deleted"
// @Failure 404 {object} errors.ErrorResponse "TRANSACTION_001 - Transaction not found"
// @Router /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	transactionID, ok := parseUUIDParam(c, "id")
	if !ok {
		return SendError(c, errors.TransactionInvalidID)
	}

	if err := h.ledger.Retract(c.Request().Context(), userID, transactionID); err != nil {
		return sendServiceError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// GetTransaction returns a single transaction owned by the caller
// @Summary Get transaction
// @Tags Transactions
// @Security BearerAuth
// @Produce json
// @Param id path string true "Transaction ID (UUID)"
// @Success 200 {object} SuccessResponse{data=dto.TransactionResponse}
// @Failure 404 {object} errors.ErrorResponse "TRANSACTION_001 - Transaction not found"
// @Router /transactions/{id} [get]
func (h *TransactionHandler) GetTransaction(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	transactionID, ok := parseUUIDParam(c, "id")
	if !ok {
		return SendError(c, errors.TransactionInvalidID)
	}

	tx, err := h.ledger.Get(c.Request().Context(), userID, transactionID)
	if err != nil {
		return sendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Data: dto.NewTransactionResponse(tx)})
}

// ListTransactions retrieves the caller's transactions, newest first
// @Summary List transactions
// @Description Filter by kind, category, account and an inclusive date range. Legacy
// @Description parameter names (tipo, fecha_inicio, fecha_fin, categoria_id, cuenta_id) are accepted.
// @Tags Transactions
// @Security BearerAuth
// @Produce json
// @Param kind query string false "income or expense (ingreso / gasto accepted)"
// @Param start_date query string false "Start date (YYYY-MM-DD)"
// @Param end_date query string false "End date (YYYY-MM-DD)"
// @Param category_id query string false "Category ID"
// @Param account_id query string false "Account ID"
// @Param limit query int false "Page size (max 500)" default(50)
// @Param offset query int false "Rows to skip" default(0)
// @Success 200 {object} SuccessResponse{data=dto.ListTransactionsResponse}
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_001 - Invalid filter"
// @Router /transactions [get]
func (h *TransactionHandler) ListTransactions(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	filters, err := parseTransactionFilters(c, userID)
	if err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails(validationDetails(err)...))
	}

	transactions, total, err := h.ledger.List(c.Request().Context(), filters)
	if err != nil {
		return sendServiceError(c, err)
	}

	items := make([]dto.TransactionResponse, 0, len(transactions))
	for i := range transactions {
		items = append(items, dto.NewTransactionResponse(&transactions[i]))
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Data: dto.ListTransactionsResponse{
			Transactions: items,
			Pagination: dto.PaginationInfo{
				Limit:  filters.Limit,
				Offset: filters.Offset,
				Total:  total,
			},
		},
	})
}

// GetSummary totals transactions per category and kind, optionally bucketed by week or month
// @Summary Summarize transactions
// @Tags Transactions
// @Security BearerAuth
// @Produce json
// @Param period query string false "none, weekly or monthly (semanal / mensual accepted)"
// @Success 200 {object} SuccessResponse{data=dto.SummaryResponse}
// @Failure 400 {object} errors.ErrorResponse "TRANSACTION_005 - Invalid period"
// @Router /transactions/summary [get]
func (h *TransactionHandler) GetSummary(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	q := dto.SummaryQuery{Period: firstQueryParam(c, "period", "periodo")}
	if err := c.Validate(&q); err != nil {
		return SendError(c, errors.TransactionInvalidPeriod, errors.WithDetails(validationDetails(err)...))
	}
	period, err := models.ParsePeriod(q.Period)
	if err != nil {
		return SendError(c, errors.TransactionInvalidPeriod)
	}

	groups, err := h.ledger.Summarize(c.Request().Context(), userID, period)
	if err != nil {
		return sendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Data: dto.SummaryResponse{Period: period, Groups: groups},
	})
}

// ExportTransactions downloads the filtered transactions as CSV or XLSX
// @Summary Export transactions
// @Tags Transactions
// @Security BearerAuth
// @Produce text/csv
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param format query string false "csv or xlsx" default(csv)
// @Success 200 {file} file
// @Failure 400 {object} errors.ErrorResponse "TRANSACTION_008 - Unsupported export format"
// @Router /transactions/export [get]
func (h *TransactionHandler) ExportTransactions(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	format, err := services.ParseExportFormat(c.QueryParam("format"))
	if err != nil {
		return SendError(c, errors.TransactionInvalidExport)
	}

	filters, err := parseTransactionFilters(c, userID)
	if err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails(validationDetails(err)...))
	}

	// rendered into memory first so a failure can still produce a JSON error
	var buf bytes.Buffer
	if err := h.exporter.Export(c.Request().Context(), filters, format, &buf); err != nil {
		return sendServiceError(c, err)
	}

	filename := fmt.Sprintf("transactions-%s.%s", time.Now().UTC().Format("20060102"), format)
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Blob(http.StatusOK, format.ContentType(), buf.Bytes())
}

func toPosting(req *dto.TransactionRequest) (services.Posting, error) {
	accountID, err := uuid.Parse(req.AccountID)
	if err != nil {
		return services.Posting{}, fmt.Errorf("account_id: invalid UUID")
	}
	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		return services.Posting{}, fmt.Errorf("category_id: invalid UUID")
	}
	kind, err := models.ParseKind(req.Kind)
	if err != nil {
		return services.Posting{}, fmt.Errorf("kind: %w", err)
	}
	date, err := models.ParseDate(req.Date)
	if err != nil {
		return services.Posting{}, fmt.Errorf("date: must be YYYY-MM-DD")
	}

	return services.Posting{
		AccountID:   accountID,
		CategoryID:  categoryID,
		Kind:        kind,
		Amount:      req.Amount,
		Date:        date,
		Description: req.Description,
	}, nil
}

// parseTransactionFilters reads list filters, accepting the legacy Spanish parameter names
func parseTransactionFilters(c echo.Context, userID uuid.UUID) (models.TransactionFilters, error) {
	filters := models.TransactionFilters{UserID: userID, Limit: defaultPageLimit}

	q := dto.TransactionQuery{
		Kind:       firstQueryParam(c, "kind", "tipo"),
		StartDate:  firstQueryParam(c, "start_date", "fecha_inicio"),
		EndDate:    firstQueryParam(c, "end_date", "fecha_fin"),
		CategoryID: firstQueryParam(c, "category_id", "categoria_id"),
		AccountID:  firstQueryParam(c, "account_id", "cuenta_id"),
		Limit:      firstQueryParam(c, "limit"),
		Offset:     firstQueryParam(c, "offset"),
	}
	if err := c.Validate(&q); err != nil {
		return filters, err
	}

	if q.Kind != "" {
		kind, err := models.ParseKind(q.Kind)
		if err != nil {
			return filters, fmt.Errorf("kind: %w", err)
		}
		filters.Kind = kind
	}
	if q.StartDate != "" {
		start, err := models.ParseDate(q.StartDate)
		if err != nil {
			return filters, fmt.Errorf("start_date: must be YYYY-MM-DD")
		}
		filters.StartDate = &start
	}
	if q.EndDate != "" {
		end, err := models.ParseDate(q.EndDate)
		if err != nil {
			return filters, fmt.Errorf("end_date: must be YYYY-MM-DD")
		}
		filters.EndDate = &end
	}

	var err error
	if filters.CategoryID, err = parseUUIDQuery(q.CategoryID); err != nil {
		return filters, fmt.Errorf("category_id: invalid UUID")
	}
	if filters.AccountID, err = parseUUIDQuery(q.AccountID); err != nil {
		return filters, fmt.Errorf("account_id: invalid UUID")
	}

	if q.Limit != "" {
		limit, err := strconv.Atoi(q.Limit)
		if err != nil || limit < 1 || limit > maxPageLimit {
			return filters, fmt.Errorf("limit: must be between 1 and %d", maxPageLimit)
		}
		filters.Limit = limit
	}
	if q.Offset != "" {
		if filters.Offset, err = strconv.Atoi(q.Offset); err != nil {
			return filters, fmt.Errorf("offset: must be a whole number")
		}
	}

	return filters, nil
}
