package services

import (
	"context"
	"io"
	"time"

	"finance-ledger/internal/dto"
	"finance-ledger/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerServiceInterface owns the transaction lifecycle and keeps account balances in step
type LedgerServiceInterface interface {
	Post(ctx context.Context, userID uuid.UUID, posting Posting) (*models.Transaction, error)
	Amend(ctx context.Context, userID, transactionID uuid.UUID, posting Posting) (*models.Transaction, error)
	Retract(ctx context.Context, userID, transactionID uuid.UUID) error
	Get(ctx context.Context, userID, transactionID uuid.UUID) (*models.Transaction, error)
	List(ctx context.Context, filters models.TransactionFilters) ([]models.Transaction, int64, error)
	Summarize(ctx context.Context, userID uuid.UUID, period models.Period) ([]models.CategorySummary, error)
}

// AccountServiceInterface defines account-related business operations
type AccountServiceInterface interface {
	CreateAccount(ctx context.Context, userID uuid.UUID, name string, accountTypeID uuid.UUID, openingBalance decimal.Decimal) (*models.Account, error)
	GetAccount(ctx context.Context, userID, accountID uuid.UUID) (*models.Account, error)
	GetUserAccounts(ctx context.Context, userID uuid.UUID) ([]models.Account, error)
	UpdateAccount(ctx context.Context, userID, accountID uuid.UUID, name *string, accountTypeID *uuid.UUID) (*models.Account, error)
	DeleteAccount(ctx context.Context, userID, accountID uuid.UUID) error
	GetFinancialSummary(ctx context.Context, userID uuid.UUID) (*models.FinancialSummary, error)
}

// CategoryServiceInterface manages the global category catalogue
type CategoryServiceInterface interface {
	ListCategories(ctx context.Context, kind models.Kind) ([]models.Category, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, error)
	CreateCategory(ctx context.Context, name string, kind models.Kind) (*models.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, name string, kind models.Kind) (*models.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

// AccountTypeServiceInterface manages the global account type catalogue
type AccountTypeServiceInterface interface {
	ListAccountTypes(ctx context.Context) ([]models.AccountType, error)
	GetAccountType(ctx context.Context, id uuid.UUID) (*models.AccountType, error)
	CreateAccountType(ctx context.Context, name string) (*models.AccountType, error)
	UpdateAccountType(ctx context.Context, id uuid.UUID, name string) (*models.AccountType, error)
	DeleteAccountType(ctx context.Context, id uuid.UUID) error
}

// ExportServiceInterface renders a filtered transaction listing as a downloadable file
type ExportServiceInterface interface {
	Export(ctx context.Context, filters models.TransactionFilters, format ExportFormat, w io.Writer) error
}

// AuthServiceInterface handles registration, login and profile lookups
type AuthServiceInterface interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	GetUser(ctx context.Context, userID uuid.UUID) (*models.User, error)
}

// TokenServiceInterface issues and verifies access tokens
type TokenServiceInterface interface {
	GenerateAccessToken(user *models.User) (string, time.Time, error)
	ValidateAccessToken(tokenString string) (*models.CustomClaims, error)
	ExtractTokenFromHeader(authHeader string) (string, error)
}

// PasswordServiceInterface hashes and checks passwords
type PasswordServiceInterface interface {
	ValidatePassword(password string) error
	HashPassword(password string) (string, error)
	ComparePassword(password, hash string) bool
}

// MetricsRecorderInterface records ledger and auth metrics
type MetricsRecorderInterface interface {
	RecordPosting(operation, outcome string, duration time.Duration)
	RecordPostedAmount(kind models.Kind, amount decimal.Decimal)
	RecordAuthenticationEvent(event, outcome string)
}

// AuditLoggerInterface writes structured ledger events to the log
type AuditLoggerInterface interface {
	LogPostingApplied(ctx context.Context, userID uuid.UUID, t *models.Transaction)
	LogPostingReversed(ctx context.Context, userID uuid.UUID, t *models.Transaction)
	LogPostingRejected(ctx context.Context, userID uuid.UUID, operation string, err error)
}
