package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountTypeTotal aggregates a user's accounts of one type.
type AccountTypeTotal struct {
	AccountTypeID   uuid.UUID       `json:"account_type_id"`
	AccountTypeName string          `json:"account_type_name"`
	AccountCount    int64           `json:"account_count"`
	TotalBalance    decimal.Decimal `json:"total_balance"`
}

// FinancialSummary is the per-user roll-up shown on the accounts dashboard.
type FinancialSummary struct {
	TotalAccounts int64              `json:"total_accounts"`
	TotalBalance  decimal.Decimal    `json:"total_balance"`
	ByType        []AccountTypeTotal `json:"by_type"`
}
