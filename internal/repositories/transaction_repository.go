package repositories

import (
	"context"
	"errors"
	"fmt"

	"finance-ledger/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrTransactionNotFound = errors.New("transaction not found")

type transactionRepository struct {
	db *gorm.DB
	// set for repositories bound to a unit of work
	lockRows bool
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *gorm.DB) TransactionRepositoryInterface {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(ctx context.Context, transaction *models.Transaction) error {
	if err := r.db.WithContext(ctx).Omit("Account", "Category").Create(transaction).Error; err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// GetByIDForUser loads a transaction with its account and category, provided
// the account belongs to userID. Inside a unit of work the transaction row
// stays locked until commit.
func (r *transactionRepository) GetByIDForUser(ctx context.Context, id, userID uuid.UUID) (*models.Transaction, error) {
	query := r.db.WithContext(ctx)
	if r.lockRows {
		query = query.Clauses(clause.Locking{Strength: "UPDATE", Table: clause.Table{Name: "transactions"}})
	}

	var transaction models.Transaction
	if err := query.
		Preload("Account").
		Preload("Category").
		Joins("JOIN accounts ON accounts.id = transactions.account_id").
		Where("transactions.id = ? AND accounts.user_id = ?", id, userID).
		First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &transaction, nil
}

func (r *transactionRepository) Update(ctx context.Context, transaction *models.Transaction) error {
	result := r.db.WithContext(ctx).Model(&models.Transaction{}).
		Where("id = ?", transaction.ID).
		Updates(map[string]interface{}{
			"account_id":  transaction.AccountID,
			"category_id": transaction.CategoryID,
			"kind":        transaction.Kind,
			"amount":      transaction.Amount,
			"date":        models.NormalizeDate(transaction.Date),
			"description": transaction.Description,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update transaction: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTransactionNotFound
	}
	return nil
}

func (r *transactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Transaction{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete transaction: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTransactionNotFound
	}
	return nil
}

// GetWithFilters lists the user's transactions newest first. Date bounds are inclusive.
func (r *transactionRepository) GetWithFilters(ctx context.Context, filters models.TransactionFilters) ([]models.Transaction, int64, error) {
	scoped := func() *gorm.DB {
		query := r.db.WithContext(ctx).Model(&models.Transaction{}).
			Joins("JOIN accounts ON accounts.id = transactions.account_id").
			Where("accounts.user_id = ?", filters.UserID)

		if filters.AccountID != nil {
			query = query.Where("transactions.account_id = ?", *filters.AccountID)
		}
		if filters.CategoryID != nil {
			query = query.Where("transactions.category_id = ?", *filters.CategoryID)
		}
		if filters.Kind != "" {
			query = query.Where("transactions.kind = ?", filters.Kind)
		}
		if filters.StartDate != nil {
			query = query.Where("transactions.date >= ?", models.NormalizeDate(*filters.StartDate))
		}
		if filters.EndDate != nil {
			query = query.Where("transactions.date <= ?", models.NormalizeDate(*filters.EndDate))
		}
		return query
	}

	var total int64
	if err := scoped().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count filtered transactions: %w", err)
	}

	query := scoped().
		Select("transactions.*").
		Preload("Account").
		Preload("Category").
		Order("transactions.date DESC").
		Order("transactions.id DESC")
	if filters.Limit > 0 {
		query = query.Offset(filters.Offset).Limit(filters.Limit)
	}

	var transactions []models.Transaction
	if err := query.Find(&transactions).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to get filtered transactions: %w", err)
	}

	return transactions, total, nil
}

// GetSummaryEntries projects every transaction of the user down to what a summary needs
func (r *transactionRepository) GetSummaryEntries(ctx context.Context, userID uuid.UUID) ([]models.SummaryEntry, error) {
	var entries []models.SummaryEntry
	if err := r.db.WithContext(ctx).Table("transactions").
		Select("transactions.category_id, categories.name AS category_name, transactions.kind, transactions.amount, transactions.date").
		Joins("JOIN accounts ON accounts.id = transactions.account_id").
		Joins("JOIN categories ON categories.id = transactions.category_id").
		Where("accounts.user_id = ?", userID).
		Scan(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to load summary entries: %w", err)
	}
	return entries, nil
}

func (r *transactionRepository) CountByAccountID(ctx context.Context, accountID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Transaction{}).
		Where("account_id = ?", accountID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count transactions for account: %w", err)
	}
	return count, nil
}
