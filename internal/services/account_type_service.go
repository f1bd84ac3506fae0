package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"finance-ledger/internal/models"
	"finance-ledger/internal/repositories"

	"github.com/google/uuid"
)

type accountTypeService struct {
	accountTypeRepo repositories.AccountTypeRepositoryInterface
}

func NewAccountTypeService(accountTypeRepo repositories.AccountTypeRepositoryInterface) AccountTypeServiceInterface {
	return &accountTypeService{accountTypeRepo: accountTypeRepo}
}

func (s *accountTypeService) ListAccountTypes(ctx context.Context) ([]models.AccountType, error) {
	accountTypes, err := s.accountTypeRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list account types: %w", err)
	}
	return accountTypes, nil
}

func (s *accountTypeService) GetAccountType(ctx context.Context, id uuid.UUID) (*models.AccountType, error) {
	accountType, err := s.accountTypeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrAccountTypeNotFound) {
			return nil, ErrAccountTypeNotFound
		}
		return nil, fmt.Errorf("failed to get account type: %w", err)
	}
	return accountType, nil
}

func (s *accountTypeService) CreateAccountType(ctx context.Context, name string) (*models.AccountType, error) {
	accountType := &models.AccountType{Name: strings.TrimSpace(name)}
	if err := accountType.Validate(); err != nil {
		return nil, err
	}

	if err := s.ensureNameFree(ctx, accountType.Name, uuid.Nil); err != nil {
		return nil, err
	}

	if err := s.accountTypeRepo.Create(ctx, accountType); err != nil {
		if errors.Is(err, repositories.ErrAccountTypeNameExists) {
			return nil, ErrAccountTypeNameTaken
		}
		return nil, fmt.Errorf("failed to create account type: %w", err)
	}
	return accountType, nil
}

func (s *accountTypeService) UpdateAccountType(ctx context.Context, id uuid.UUID, name string) (*models.AccountType, error) {
	accountType, err := s.GetAccountType(ctx, id)
	if err != nil {
		return nil, err
	}

	accountType.Name = strings.TrimSpace(name)
	if err := accountType.Validate(); err != nil {
		return nil, err
	}
	if err := s.ensureNameFree(ctx, accountType.Name, id); err != nil {
		return nil, err
	}

	if err := s.accountTypeRepo.Update(ctx, accountType); err != nil {
		switch {
		case errors.Is(err, repositories.ErrAccountTypeNameExists):
			return nil, ErrAccountTypeNameTaken
		case errors.Is(err, repositories.ErrAccountTypeNotFound):
			return nil, ErrAccountTypeNotFound
		}
		return nil, fmt.Errorf("failed to update account type: %w", err)
	}
	return accountType, nil
}

// DeleteAccountType removes a type no account uses
func (s *accountTypeService) DeleteAccountType(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetAccountType(ctx, id); err != nil {
		return err
	}

	count, err := s.accountTypeRepo.CountAccounts(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check account type usage: %w", err)
	}
	if count > 0 {
		return ErrAccountTypeInUse
	}

	if err := s.accountTypeRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrAccountTypeNotFound) {
			return ErrAccountTypeNotFound
		}
		return fmt.Errorf("failed to delete account type: %w", err)
	}
	return nil
}

func (s *accountTypeService) ensureNameFree(ctx context.Context, name string, self uuid.UUID) error {
	existing, err := s.accountTypeRepo.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, repositories.ErrAccountTypeNotFound) {
			return nil
		}
		return fmt.Errorf("failed to check account type name: %w", err)
	}
	if existing.ID != self {
		return ErrAccountTypeNameTaken
	}
	return nil
}
