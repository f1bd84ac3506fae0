package repositories

import (
	"context"
	"errors"
	"fmt"

	"finance-ledger/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrAccountTypeNotFound   = errors.New("account type not found")
	ErrAccountTypeNameExists = errors.New("account type name already exists")
)

type accountTypeRepository struct {
	db *gorm.DB
}

// NewAccountTypeRepository creates a new account type repository
func NewAccountTypeRepository(db *gorm.DB) AccountTypeRepositoryInterface {
	return &accountTypeRepository{db: db}
}

func (r *accountTypeRepository) Create(ctx context.Context, accountType *models.AccountType) error {
	if err := r.db.WithContext(ctx).Create(accountType).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAccountTypeNameExists
		}
		return fmt.Errorf("failed to create account type: %w", err)
	}
	return nil
}

func (r *accountTypeRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.AccountType, error) {
	var accountType models.AccountType
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&accountType).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountTypeNotFound
		}
		return nil, fmt.Errorf("failed to get account type: %w", err)
	}
	return &accountType, nil
}

func (r *accountTypeRepository) GetByName(ctx context.Context, name string) (*models.AccountType, error) {
	var accountType models.AccountType
	if err := r.db.WithContext(ctx).Where("LOWER(name) = LOWER(?)", name).First(&accountType).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountTypeNotFound
		}
		return nil, fmt.Errorf("failed to get account type by name: %w", err)
	}
	return &accountType, nil
}

func (r *accountTypeRepository) List(ctx context.Context) ([]models.AccountType, error) {
	var accountTypes []models.AccountType
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&accountTypes).Error; err != nil {
		return nil, fmt.Errorf("failed to list account types: %w", err)
	}
	return accountTypes, nil
}

func (r *accountTypeRepository) Update(ctx context.Context, accountType *models.AccountType) error {
	result := r.db.WithContext(ctx).Model(&models.AccountType{}).
		Where("id = ?", accountType.ID).
		Update("name", accountType.Name)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return ErrAccountTypeNameExists
		}
		return fmt.Errorf("failed to update account type: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrAccountTypeNotFound
	}
	return nil
}

func (r *accountTypeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.AccountType{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete account type: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrAccountTypeNotFound
	}
	return nil
}

// CountAccounts reports how many accounts (of any user) use the type
func (r *accountTypeRepository) CountAccounts(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Account{}).
		Where("account_type_id = ?", id).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count accounts for type: %w", err)
	}
	return count, nil
}
