package dto

import (
	"time"

	"finance-ledger/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionRequest is the body of both create and update calls
type TransactionRequest struct {
	AccountID   string          `json:"account_id" validate:"required,uuid"`
	CategoryID  string          `json:"category_id" validate:"required,uuid"`
	Kind        string          `json:"kind" validate:"required,kind"`
	Amount      decimal.Decimal `json:"amount" validate:"required,money"`
	Date        string          `json:"date" validate:"required,datetime=2006-01-02"`
	Description *string         `json:"description,omitempty" validate:"omitempty,max=500"`
}

// TransactionQuery holds the list/export filters as received. Limit and
// Offset stay strings so that a non-numeric value fails validation.
type TransactionQuery struct {
	Kind       string `json:"kind" validate:"omitempty,kind"`
	StartDate  string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate    string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	CategoryID string `json:"category_id" validate:"omitempty,uuid"`
	AccountID  string `json:"account_id" validate:"omitempty,uuid"`
	Limit      string `json:"limit" validate:"omitempty,number"`
	Offset     string `json:"offset" validate:"omitempty,number"`
}

// SummaryQuery is the summary endpoint's query string
type SummaryQuery struct {
	Period string `json:"period" validate:"omitempty,period"`
}

// TransactionResponse is the wire shape of a transaction
type TransactionResponse struct {
	ID           uuid.UUID   `json:"id"`
	AccountID    uuid.UUID   `json:"account_id"`
	AccountName  string      `json:"account_name,omitempty"`
	CategoryID   uuid.UUID   `json:"category_id"`
	CategoryName string      `json:"category_name,omitempty"`
	Kind         models.Kind `json:"kind"`
	Amount       string      `json:"amount"`
	Date         string      `json:"date"`
	Description  *string     `json:"description,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// PaginationInfo contains pagination metadata
type PaginationInfo struct {
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
	Total  int64 `json:"total"`
}

// ListTransactionsResponse represents the response for listing transactions
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Pagination   PaginationInfo        `json:"pagination"`
}

// SummaryResponse groups totals by period bucket, category and kind
type SummaryResponse struct {
	Period models.Period            `json:"period"`
	Groups []models.CategorySummary `json:"groups"`
}

// NewTransactionResponse maps a transaction (with preloaded associations) to its wire shape
func NewTransactionResponse(t *models.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:           t.ID,
		AccountID:    t.AccountID,
		AccountName:  t.Account.Name,
		CategoryID:   t.CategoryID,
		CategoryName: t.Category.Name,
		Kind:         t.Kind,
		Amount:       t.Amount.StringFixed(2),
		Date:         t.Date.Format(models.DateLayout),
		Description:  t.Description,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}
