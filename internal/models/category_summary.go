package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CategorySummary is one (period bucket, category, kind) group of a summary.
type CategorySummary struct {
	Period           string          `json:"period"`
	CategoryID       uuid.UUID       `json:"category_id"`
	CategoryName     string          `json:"category_name"`
	Kind             Kind            `json:"kind"`
	TransactionCount int64           `json:"transaction_count"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
}

// SummaryEntry is the minimal projection Summarize aggregates over.
type SummaryEntry struct {
	CategoryID   uuid.UUID
	CategoryName string
	Kind         Kind
	Amount       decimal.Decimal
	Date         time.Time
}
