package models

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrInvalidAccountName     = errors.New("account name must be between 2 and 100 characters")
	ErrNegativeOpeningBalance = errors.New("opening balance cannot be negative")
)

// Account is a user-owned pocket of money. Balance is a cached running total
// maintained by the ledger; it may go negative after a retraction.
type Account struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	UserID        uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_accounts_user_name,priority:1" json:"user_id"`
	Name          string          `gorm:"type:varchar(100);not null;uniqueIndex:idx_accounts_user_name,priority:2" json:"name"`
	AccountTypeID uuid.UUID       `gorm:"type:uuid;not null;index" json:"account_type_id"`
	Balance       decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"balance"`
	CreatedAt     time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"not null" json:"updated_at"`

	// Associations
	User        User        `gorm:"foreignKey:UserID" json:"-"`
	AccountType AccountType `gorm:"foreignKey:AccountTypeID" json:"-"`
}

// BeforeCreate hook for Account
func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}

	a.Name = strings.TrimSpace(a.Name)

	now := time.Now()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	if a.UpdatedAt.IsZero() {
		a.UpdatedAt = now
	}

	if a.Balance.IsNegative() {
		return ErrNegativeOpeningBalance
	}

	return a.Validate()
}

// Validate validates the account fields
func (a *Account) Validate() error {
	if a.UserID == uuid.Nil {
		return errors.New("user ID is required")
	}

	if a.AccountTypeID == uuid.Nil {
		return errors.New("account type ID is required")
	}

	if !IsValidAccountName(a.Name) {
		return ErrInvalidAccountName
	}

	return nil
}

// TableName returns the table name for Account
func (a *Account) TableName() string {
	return "accounts"
}

// IsValidAccountName checks the 2..100 character bound on trimmed names.
func IsValidAccountName(name string) bool {
	n := utf8.RuneCountInString(strings.TrimSpace(name))
	return n >= 2 && n <= 100
}
