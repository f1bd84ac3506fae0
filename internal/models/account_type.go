package models

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	AccountTypeCash    = "cash"
	AccountTypeBank    = "bank"
	AccountTypeCard    = "card"
	AccountTypeDigital = "digital"
)

var ErrInvalidAccountTypeName = errors.New("account type name must be between 2 and 50 characters")

// AccountType classifies accounts (cash, bank, card, digital wallet). Types are shared by all users.
type AccountType struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name      string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (t *AccountType) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}

	now := time.Now()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = now
	}

	return t.Validate()
}

func (t *AccountType) Validate() error {
	n := utf8.RuneCountInString(strings.TrimSpace(t.Name))
	if n < 2 || n > 50 {
		return ErrInvalidAccountTypeName
	}
	return nil
}

func (t *AccountType) TableName() string {
	return "account_types"
}

// DefaultAccountTypes are seeded on first start.
func DefaultAccountTypes() []string {
	return []string{AccountTypeCash, AccountTypeBank, AccountTypeCard, AccountTypeDigital}
}
