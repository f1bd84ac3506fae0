package repositories

import (
	"context"

	"gorm.io/gorm"
)

type unitOfWork struct {
	accounts     AccountRepositoryInterface
	categories   CategoryRepositoryInterface
	transactions TransactionRepositoryInterface
}

func (u *unitOfWork) Accounts() AccountRepositoryInterface         { return u.accounts }
func (u *unitOfWork) Categories() CategoryRepositoryInterface      { return u.categories }
func (u *unitOfWork) Transactions() TransactionRepositoryInterface { return u.transactions }

type transactionManager struct {
	db *gorm.DB
}

// NewTransactionManager creates a transaction manager over db
func NewTransactionManager(db *gorm.DB) TransactionManagerInterface {
	return &transactionManager{db: db}
}

// RunInTransaction opens a database transaction, hands fn repositories bound
// to it, and commits only if fn returns nil
func (m *transactionManager) RunInTransaction(ctx context.Context, fn func(uow UnitOfWork) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&unitOfWork{
			accounts:     NewAccountRepository(tx),
			categories:   NewCategoryRepository(tx),
			transactions: &transactionRepository{db: tx, lockRows: true},
		})
	})
}
