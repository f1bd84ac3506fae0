package services

import (
	"errors"

	"finance-ledger/internal/models"
)

var (
	ErrAccountNotFound        = errors.New("account not found")
	ErrTransactionNotFound    = errors.New("transaction not found")
	ErrCategoryNotFound       = errors.New("category not found")
	ErrAccountTypeNotFound    = errors.New("account type not found")
	ErrInvalidCategory        = errors.New("category does not exist or does not match the transaction kind")
	ErrInvalidAccountType     = errors.New("account type does not exist")
	ErrInsufficientFunds      = errors.New("insufficient funds")
	ErrAccountNameTaken       = errors.New("an account with this name already exists")
	ErrAccountHasTransactions = errors.New("account has transactions")
	ErrCategoryInUse          = errors.New("category is referenced by transactions")
	ErrAccountTypeInUse       = errors.New("account type is assigned to accounts")
	ErrAccountTypeNameTaken   = errors.New("an account type with this name already exists")
)

// ErrorKind is the coarse classification callers branch on
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindNotFound
	KindInvalidReference
	KindInsufficientFunds
	KindConflict
	KindInvalidInput
	KindUnauthorized
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindInvalidReference:
		return "invalid_reference"
	case KindInsufficientFunds:
		return "insufficient_funds"
	case KindConflict:
		return "conflict"
	case KindInvalidInput:
		return "invalid_input"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "internal"
	}
}

// KindOf classifies err. Anything not produced deliberately by a service is internal.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindInternal
	case errors.Is(err, ErrAccountNotFound),
		errors.Is(err, ErrTransactionNotFound),
		errors.Is(err, ErrCategoryNotFound),
		errors.Is(err, ErrAccountTypeNotFound),
		errors.Is(err, ErrUserNotFound):
		return KindNotFound
	case errors.Is(err, ErrInvalidCategory),
		errors.Is(err, ErrInvalidAccountType):
		return KindInvalidReference
	case errors.Is(err, ErrInsufficientFunds):
		return KindInsufficientFunds
	case errors.Is(err, ErrAccountNameTaken),
		errors.Is(err, ErrAccountHasTransactions),
		errors.Is(err, ErrCategoryInUse),
		errors.Is(err, ErrAccountTypeInUse),
		errors.Is(err, ErrAccountTypeNameTaken),
		errors.Is(err, ErrUserAlreadyExists):
		return KindConflict
	case errors.Is(err, models.ErrNegativeOpeningBalance),
		errors.Is(err, models.ErrInvalidAccountTypeName),
		errors.Is(err, models.ErrInvalidAmount),
		errors.Is(err, models.ErrInvalidKind),
		errors.Is(err, models.ErrMissingDate),
		errors.Is(err, models.ErrInvalidPeriod),
		errors.Is(err, models.ErrInvalidAccountName),
		errors.Is(err, models.ErrInvalidCategoryName),
		errors.Is(err, ErrInvalidExportFormat),
		errors.Is(err, ErrPasswordEmpty),
		errors.Is(err, ErrPasswordNoLetter),
		errors.Is(err, ErrPasswordNoNumber),
		errors.Is(err, ErrPasswordTooShort),
		errors.Is(err, ErrPasswordTooLong):
		return KindInvalidInput
	case errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrInvalidToken),
		errors.Is(err, ErrExpiredToken):
		return KindUnauthorized
	default:
		return KindInternal
	}
}
