package repositories

import (
	"context"
	"errors"
	"fmt"

	"finance-ledger/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrAccountNotFound   = errors.New("account not found")
	ErrAccountNameExists = errors.New("account name already exists for this user")
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// accountRepository implements AccountRepository interface
type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *gorm.DB) AccountRepositoryInterface {
	return &accountRepository{
		db: db,
	}
}

// Create creates a new account
func (r *accountRepository) Create(ctx context.Context, account *models.Account) error {
	if err := r.db.WithContext(ctx).Create(account).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAccountNameExists
		}
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

// GetByID retrieves an account by ID
func (r *accountRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	var account models.Account
	if err := r.db.WithContext(ctx).Preload("AccountType").
		Where("id = ?", id).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}

func (r *accountRepository) AccountOwnedBy(ctx context.Context, accountID, userID uuid.UUID) (*models.Account, error) {
	var account models.Account
	if err := r.db.WithContext(ctx).Preload("AccountType").
		Where("id = ? AND user_id = ?", accountID, userID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account for user: %w", err)
	}
	return &account, nil
}

// GetByUserID retrieves all accounts for a user ordered by name
func (r *accountRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]models.Account, error) {
	var accounts []models.Account
	if err := r.db.WithContext(ctx).Preload("AccountType").
		Where("user_id = ?", userID).Order("name ASC").Find(&accounts).Error; err != nil {
		return nil, fmt.Errorf("failed to get accounts for user: %w", err)
	}
	return accounts, nil
}

func (r *accountRepository) NameTaken(ctx context.Context, userID uuid.UUID, name string, excludeID *uuid.UUID) (bool, error) {
	query := r.db.WithContext(ctx).Model(&models.Account{}).
		Where("user_id = ? AND LOWER(name) = LOWER(?)", userID, name)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check account name: %w", err)
	}
	return count > 0, nil
}

// Update persists name and type changes. Balance is never written here.
func (r *accountRepository) Update(ctx context.Context, account *models.Account) error {
	result := r.db.WithContext(ctx).Model(&models.Account{}).
		Where("id = ?", account.ID).
		Updates(map[string]interface{}{
			"name":            account.Name,
			"account_type_id": account.AccountTypeID,
		})
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return ErrAccountNameExists
		}
		return fmt.Errorf("failed to update account: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrAccountNotFound
	}
	return nil
}

// Delete removes an account
func (r *accountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Account{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete account: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrAccountNotFound
	}
	return nil
}

// AdjustBalance applies delta in a single statement. No floor is enforced,
// so reversals may leave the balance negative.
func (r *accountRepository) AdjustBalance(ctx context.Context, accountID uuid.UUID, delta decimal.Decimal) error {
	result := r.db.WithContext(ctx).Model(&models.Account{}).
		Where("id = ?", accountID).
		UpdateColumn("balance", gorm.Expr("balance + ?", delta))
	if result.Error != nil {
		return fmt.Errorf("failed to adjust account balance: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrAccountNotFound
	}
	return nil
}

// Withdraw subtracts amount only if the current balance covers it. The check
// and the write are one statement, so concurrent expenses cannot overdraw.
func (r *accountRepository) Withdraw(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal) error {
	result := r.db.WithContext(ctx).Model(&models.Account{}).
		Where("id = ? AND balance >= ?", accountID, amount).
		UpdateColumn("balance", gorm.Expr("balance - ?", amount))
	if result.Error != nil {
		return fmt.Errorf("failed to debit account: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&models.Account{}).
			Where("id = ?", accountID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check account: %w", err)
		}
		if count == 0 {
			return ErrAccountNotFound
		}
		return ErrInsufficientFunds
	}
	return nil
}

// GetFinancialSummary totals the user's accounts overall and per account type
func (r *accountRepository) GetFinancialSummary(ctx context.Context, userID uuid.UUID) (*models.FinancialSummary, error) {
	var totals struct {
		TotalAccounts int64
		TotalBalance  decimal.NullDecimal
	}
	if err := r.db.WithContext(ctx).Model(&models.Account{}).
		Select("COUNT(*) AS total_accounts, SUM(balance) AS total_balance").
		Where("user_id = ?", userID).
		Scan(&totals).Error; err != nil {
		return nil, fmt.Errorf("failed to total accounts: %w", err)
	}

	var rows []struct {
		AccountTypeID   uuid.UUID
		AccountTypeName string
		AccountCount    int64
		TotalBalance    decimal.NullDecimal
	}
	if err := r.db.WithContext(ctx).Table("accounts").
		Select("accounts.account_type_id, account_types.name AS account_type_name, COUNT(*) AS account_count, SUM(accounts.balance) AS total_balance").
		Joins("JOIN account_types ON account_types.id = accounts.account_type_id").
		Where("accounts.user_id = ?", userID).
		Group("accounts.account_type_id, account_types.name").
		Order("total_balance DESC").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to total accounts by type: %w", err)
	}

	summary := &models.FinancialSummary{
		TotalAccounts: totals.TotalAccounts,
		TotalBalance:  totals.TotalBalance.Decimal,
		ByType:        make([]models.AccountTypeTotal, 0, len(rows)),
	}
	for _, row := range rows {
		summary.ByType = append(summary.ByType, models.AccountTypeTotal{
			AccountTypeID:   row.AccountTypeID,
			AccountTypeName: row.AccountTypeName,
			AccountCount:    row.AccountCount,
			TotalBalance:    row.TotalBalance.Decimal,
		})
	}
	return summary, nil
}
