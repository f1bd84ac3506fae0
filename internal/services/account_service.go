package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"finance-ledger/internal/models"
	"finance-ledger/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// accountService implements AccountServiceInterface interface
type accountService struct {
	accountRepo     repositories.AccountRepositoryInterface
	accountTypeRepo repositories.AccountTypeRepositoryInterface
	transactionRepo repositories.TransactionRepositoryInterface
	logger          *slog.Logger
}

// NewAccountService creates an account service
func NewAccountService(
	accountRepo repositories.AccountRepositoryInterface,
	accountTypeRepo repositories.AccountTypeRepositoryInterface,
	transactionRepo repositories.TransactionRepositoryInterface,
	logger *slog.Logger,
) AccountServiceInterface {
	return &accountService{
		accountRepo:     accountRepo,
		accountTypeRepo: accountTypeRepo,
		transactionRepo: transactionRepo,
		logger:          logger,
	}
}

// CreateAccount opens an account for userID with the given opening balance
func (s *accountService) CreateAccount(ctx context.Context, userID uuid.UUID, name string, accountTypeID uuid.UUID, openingBalance decimal.Decimal) (*models.Account, error) {
	name = strings.TrimSpace(name)
	if !models.IsValidAccountName(name) {
		return nil, models.ErrInvalidAccountName
	}
	if openingBalance.IsNegative() {
		return nil, models.ErrNegativeOpeningBalance
	}

	accountType, err := s.resolveAccountType(ctx, accountTypeID)
	if err != nil {
		return nil, err
	}

	if err := s.ensureNameFree(ctx, userID, name, nil); err != nil {
		return nil, err
	}

	account := &models.Account{
		UserID:        userID,
		Name:          name,
		AccountTypeID: accountTypeID,
		Balance:       openingBalance.Round(2),
	}

	if err := s.accountRepo.Create(ctx, account); err != nil {
		if errors.Is(err, repositories.ErrAccountNameExists) {
			return nil, ErrAccountNameTaken
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	account.AccountType = *accountType

	s.logger.InfoContext(ctx, "account created",
		"user_id", userID,
		"account_id", account.ID,
		"account_type", accountType.Name)

	return account, nil
}

// GetAccount returns the account if userID owns it
func (s *accountService) GetAccount(ctx context.Context, userID, accountID uuid.UUID) (*models.Account, error) {
	account, err := s.accountRepo.AccountOwnedBy(ctx, accountID, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrAccountNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return account, nil
}

func (s *accountService) GetUserAccounts(ctx context.Context, userID uuid.UUID) ([]models.Account, error) {
	accounts, err := s.accountRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user accounts: %w", err)
	}
	return accounts, nil
}

// UpdateAccount renames or retypes an account. The balance is owned by the ledger.
func (s *accountService) UpdateAccount(ctx context.Context, userID, accountID uuid.UUID, name *string, accountTypeID *uuid.UUID) (*models.Account, error) {
	account, err := s.GetAccount(ctx, userID, accountID)
	if err != nil {
		return nil, err
	}

	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if !models.IsValidAccountName(trimmed) {
			return nil, models.ErrInvalidAccountName
		}
		if err := s.ensureNameFree(ctx, userID, trimmed, &account.ID); err != nil {
			return nil, err
		}
		account.Name = trimmed
	}

	if accountTypeID != nil {
		accountType, err := s.resolveAccountType(ctx, *accountTypeID)
		if err != nil {
			return nil, err
		}
		account.AccountTypeID = accountType.ID
		account.AccountType = *accountType
	}

	if err := s.accountRepo.Update(ctx, account); err != nil {
		switch {
		case errors.Is(err, repositories.ErrAccountNameExists):
			return nil, ErrAccountNameTaken
		case errors.Is(err, repositories.ErrAccountNotFound):
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to update account: %w", err)
	}

	return account, nil
}

// DeleteAccount removes an account that has no transactions
func (s *accountService) DeleteAccount(ctx context.Context, userID, accountID uuid.UUID) error {
	account, err := s.GetAccount(ctx, userID, accountID)
	if err != nil {
		return err
	}

	count, err := s.transactionRepo.CountByAccountID(ctx, account.ID)
	if err != nil {
		return fmt.Errorf("failed to check account transactions: %w", err)
	}
	if count > 0 {
		return ErrAccountHasTransactions
	}

	if err := s.accountRepo.Delete(ctx, account.ID); err != nil {
		if errors.Is(err, repositories.ErrAccountNotFound) {
			return ErrAccountNotFound
		}
		return fmt.Errorf("failed to delete account: %w", err)
	}

	s.logger.InfoContext(ctx, "account deleted", "user_id", userID, "account_id", account.ID)
	return nil
}

func (s *accountService) GetFinancialSummary(ctx context.Context, userID uuid.UUID) (*models.FinancialSummary, error) {
	summary, err := s.accountRepo.GetFinancialSummary(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get financial summary: %w", err)
	}
	return summary, nil
}

func (s *accountService) resolveAccountType(ctx context.Context, id uuid.UUID) (*models.AccountType, error) {
	accountType, err := s.accountTypeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrAccountTypeNotFound) {
			return nil, ErrInvalidAccountType
		}
		return nil, fmt.Errorf("failed to get account type: %w", err)
	}
	return accountType, nil
}

func (s *accountService) ensureNameFree(ctx context.Context, userID uuid.UUID, name string, excludeID *uuid.UUID) error {
	taken, err := s.accountRepo.NameTaken(ctx, userID, name, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check account name: %w", err)
	}
	if taken {
		return ErrAccountNameTaken
	}
	return nil
}
