package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const DateLayout = "2006-01-02"

// MoneyPlaces matches the decimal(15,2) money columns
const MoneyPlaces = 2

var (
	ErrInvalidAmount   = errors.New("transaction amount must be positive")
	ErrAmountPrecision = fmt.Errorf("%w with at most %d decimal places", ErrInvalidAmount, MoneyPlaces)
	ErrMissingDate     = errors.New("transaction date is required")
)

// IsMoneyPrecise reports whether d is representable in a money column
// without rounding. 10.000 is, 10.004 is not.
func IsMoneyPrecise(d decimal.Decimal) bool {
	return d.Equal(d.Round(MoneyPlaces))
}

// Transaction is a single income or expense posted against an account.
type Transaction struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	AccountID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"account_id"`
	CategoryID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"category_id"`
	Kind        Kind            `gorm:"type:varchar(10);not null;index" json:"kind"`
	Amount      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Date        time.Time       `gorm:"type:date;not null;index" json:"date"`
	Description *string         `gorm:"type:text" json:"description,omitempty"`
	CreatedAt   time.Time       `gorm:"not null;index" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null" json:"updated_at"`

	// Associations
	Account  Account  `gorm:"foreignKey:AccountID" json:"-"`
	Category Category `gorm:"foreignKey:CategoryID" json:"-"`
}

// BeforeCreate hook for Transaction
func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	// v7 ids sort by creation time, which gives listings a stable tie-break
	if t.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		t.ID = id
	}

	t.Date = NormalizeDate(t.Date)

	now := time.Now()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = now
	}

	return t.Validate()
}

// Validate validates the transaction fields
func (t *Transaction) Validate() error {
	if t.AccountID == uuid.Nil {
		return errors.New("account ID is required")
	}

	if t.CategoryID == uuid.Nil {
		return errors.New("category ID is required")
	}

	if !t.Kind.IsValid() {
		return ErrInvalidKind
	}

	if !t.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if !IsMoneyPrecise(t.Amount) {
		return ErrAmountPrecision
	}

	if t.Date.IsZero() {
		return ErrMissingDate
	}

	return nil
}

// SignedAmount is the balance delta this transaction applies to its account.
func (t *Transaction) SignedAmount() decimal.Decimal {
	if t.Kind == KindExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}

// TableName returns the table name for Transaction
func (t *Transaction) TableName() string {
	return "transactions"
}

// NormalizeDate drops the clock and zone so dates compare as calendar days.
func NormalizeDate(d time.Time) time.Time {
	if d.IsZero() {
		return d
	}
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(raw string) (time.Time, error) {
	return time.Parse(DateLayout, raw)
}
