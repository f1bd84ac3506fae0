package models

import (
	"errors"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const maxUserNameLength = 100

var (
	ErrUserEmailRequired = errors.New("email is required")
	ErrUserEmailInvalid  = errors.New("invalid email format")
	ErrUserNameRequired  = errors.New("name is required")
	ErrUserNameTooLong   = errors.New("name must not exceed 100 characters")
)

// User owns accounts and transactions; everything below it is scoped by UserID.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	Name         string    `gorm:"type:varchar(100);not null" json:"name"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null" json:"updated_at"`

	Accounts []Account `gorm:"foreignKey:UserID" json:"-"`
}

func (User) TableName() string { return "users" }

// NormalizeEmail is the form emails are stored and looked up in
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	u.Email = NormalizeEmail(u.Email)

	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = u.CreatedAt
	}
	return u.Validate()
}

func (u *User) Validate() error {
	switch {
	case u.Email == "":
		return ErrUserEmailRequired
	case !isPlainAddress(u.Email):
		return ErrUserEmailInvalid
	case strings.TrimSpace(u.Name) == "":
		return ErrUserNameRequired
	case utf8.RuneCountInString(u.Name) > maxUserNameLength:
		return ErrUserNameTooLong
	}
	return nil
}

// isPlainAddress rejects display-name forms like "Ana <ana@example.com>"
// and hosts without a dot.
func isPlainAddress(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return false
	}
	at := strings.LastIndexByte(email, '@')
	return strings.Contains(email[at+1:], ".")
}
