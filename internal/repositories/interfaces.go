package repositories

import (
	"context"

	"finance-ledger/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UserRepositoryInterface defines the contract for user repository operations
type UserRepositoryInterface interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// AccountTypeRepositoryInterface defines the contract for account type repository operations
type AccountTypeRepositoryInterface interface {
	Create(ctx context.Context, accountType *models.AccountType) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.AccountType, error)
	GetByName(ctx context.Context, name string) (*models.AccountType, error)
	List(ctx context.Context) ([]models.AccountType, error)
	Update(ctx context.Context, accountType *models.AccountType) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountAccounts(ctx context.Context, id uuid.UUID) (int64, error)
}

// AccountRepositoryInterface defines the contract for account repository operations
type AccountRepositoryInterface interface {
	Create(ctx context.Context, account *models.Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error)
	// AccountOwnedBy returns ErrAccountNotFound both for missing accounts and
	// for accounts owned by someone else.
	AccountOwnedBy(ctx context.Context, accountID, userID uuid.UUID) (*models.Account, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]models.Account, error)
	NameTaken(ctx context.Context, userID uuid.UUID, name string, excludeID *uuid.UUID) (bool, error)
	Update(ctx context.Context, account *models.Account) error
	Delete(ctx context.Context, id uuid.UUID) error
	AdjustBalance(ctx context.Context, accountID uuid.UUID, delta decimal.Decimal) error
	Withdraw(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal) error
	GetFinancialSummary(ctx context.Context, userID uuid.UUID) (*models.FinancialSummary, error)
}

// CategoryRepositoryInterface defines the contract for category repository operations
type CategoryRepositoryInterface interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	// CategoryOfKind returns ErrCategoryKindMismatch when the category is
	// missing or filed under the other kind.
	CategoryOfKind(ctx context.Context, categoryID uuid.UUID, kind models.Kind) (*models.Category, error)
	List(ctx context.Context, kind models.Kind) ([]models.Category, error)
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountTransactions(ctx context.Context, id uuid.UUID) (int64, error)
}

// TransactionRepositoryInterface defines the contract for transaction repository operations
type TransactionRepositoryInterface interface {
	Create(ctx context.Context, transaction *models.Transaction) error
	GetByIDForUser(ctx context.Context, id, userID uuid.UUID) (*models.Transaction, error)
	Update(ctx context.Context, transaction *models.Transaction) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetWithFilters(ctx context.Context, filters models.TransactionFilters) ([]models.Transaction, int64, error)
	GetSummaryEntries(ctx context.Context, userID uuid.UUID) ([]models.SummaryEntry, error)
	CountByAccountID(ctx context.Context, accountID uuid.UUID) (int64, error)
}

// UnitOfWork exposes repositories bound to one open database transaction
type UnitOfWork interface {
	Accounts() AccountRepositoryInterface
	Categories() CategoryRepositoryInterface
	Transactions() TransactionRepositoryInterface
}

// TransactionManagerInterface runs fn atomically. A non-nil error from fn
// rolls back every write made through the unit of work.
type TransactionManagerInterface interface {
	RunInTransaction(ctx context.Context, fn func(uow UnitOfWork) error) error
}
