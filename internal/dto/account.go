package dto

import (
	"time"

	"finance-ledger/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest represents the request payload for creating a new account
type CreateAccountRequest struct {
	Name           string          `json:"name" validate:"required,min=2,max=100"`
	AccountTypeID  string          `json:"account_type_id" validate:"required,uuid"`
	OpeningBalance decimal.Decimal `json:"opening_balance" validate:"nonnegative_money"`
}

// UpdateAccountRequest changes an account's name and/or type. Balance is not editable.
type UpdateAccountRequest struct {
	Name          *string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	AccountTypeID *string `json:"account_type_id,omitempty" validate:"omitempty,uuid"`
}

// AccountResponse represents an account in API responses
type AccountResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	AccountTypeID   uuid.UUID `json:"account_type_id"`
	AccountTypeName string    `json:"account_type_name,omitempty"`
	Balance         string    `json:"balance"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// AccountTypeRequest creates or renames an account type
type AccountTypeRequest struct {
	Name string `json:"name" validate:"required,min=2,max=50"`
}

// CategoryRequest creates or updates a category
type CategoryRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
	Kind string `json:"kind" validate:"required,kind"`
}

func NewAccountResponse(a *models.Account) AccountResponse {
	return AccountResponse{
		ID:              a.ID,
		Name:            a.Name,
		AccountTypeID:   a.AccountTypeID,
		AccountTypeName: a.AccountType.Name,
		Balance:         a.Balance.StringFixed(2),
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

func NewAccountResponses(accounts []models.Account) []AccountResponse {
	out := make([]AccountResponse, 0, len(accounts))
	for i := range accounts {
		out = append(out, NewAccountResponse(&accounts[i]))
	}
	return out
}
