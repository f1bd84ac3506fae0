package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"finance-ledger/internal/models"
	"finance-ledger/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Posting is the caller-supplied content of a transaction
type Posting struct {
	AccountID   uuid.UUID
	CategoryID  uuid.UUID
	Kind        models.Kind
	Amount      decimal.Decimal
	Date        time.Time
	Description *string
}

func (p Posting) validate() error {
	if !p.Kind.IsValid() {
		return models.ErrInvalidKind
	}
	if !p.Amount.IsPositive() {
		return models.ErrInvalidAmount
	}
	if !models.IsMoneyPrecise(p.Amount) {
		return models.ErrAmountPrecision
	}
	if p.Date.IsZero() {
		return models.ErrMissingDate
	}
	return nil
}

// LedgerService posts, amends and retracts transactions. Every write runs in
// one database transaction so a row and its balance effect commit together.
type LedgerService struct {
	txManager       repositories.TransactionManagerInterface
	transactionRepo repositories.TransactionRepositoryInterface
	metrics         MetricsRecorderInterface
	auditLogger     AuditLoggerInterface
	logger          *slog.Logger
}

func NewLedgerService(
	txManager repositories.TransactionManagerInterface,
	transactionRepo repositories.TransactionRepositoryInterface,
	metrics MetricsRecorderInterface,
	auditLogger AuditLoggerInterface,
	logger *slog.Logger,
) LedgerServiceInterface {
	return &LedgerService{
		txManager:       txManager,
		transactionRepo: transactionRepo,
		metrics:         metrics,
		auditLogger:     auditLogger,
		logger:          logger,
	}
}

// Post records a new transaction and applies it to the account balance.
// Checks run in order: account ownership, category kind, then funds.
func (s *LedgerService) Post(ctx context.Context, userID uuid.UUID, posting Posting) (*models.Transaction, error) {
	start := time.Now()
	if err := posting.validate(); err != nil {
		return nil, err
	}

	var created *models.Transaction
	err := s.txManager.RunInTransaction(ctx, func(uow repositories.UnitOfWork) error {
		account, category, err := s.resolveReferences(ctx, uow, userID, posting)
		if err != nil {
			return err
		}

		if err := s.apply(ctx, uow, posting.AccountID, posting.Kind, posting.Amount); err != nil {
			return err
		}

		t := &models.Transaction{
			AccountID:   posting.AccountID,
			CategoryID:  posting.CategoryID,
			Kind:        posting.Kind,
			Amount:      posting.Amount,
			Date:        posting.Date,
			Description: posting.Description,
		}
		if err := uow.Transactions().Create(ctx, t); err != nil {
			return err
		}

		t.Account = *account
		t.Category = *category
		created = t
		return nil
	})
	s.finish(ctx, userID, "post", start, err)
	if err != nil {
		return nil, err
	}

	s.metrics.RecordPostedAmount(created.Kind, created.Amount)
	s.auditLogger.LogPostingApplied(ctx, userID, created)
	return created, nil
}

// Amend replaces every field of an existing transaction. The old posting is
// reversed before the new one is checked, so re-saving an expense on the same
// account only needs the balance to cover the difference.
func (s *LedgerService) Amend(ctx context.Context, userID, transactionID uuid.UUID, posting Posting) (*models.Transaction, error) {
	start := time.Now()
	if err := posting.validate(); err != nil {
		return nil, err
	}

	var previous, amended *models.Transaction
	err := s.txManager.RunInTransaction(ctx, func(uow repositories.UnitOfWork) error {
		existing, err := uow.Transactions().GetByIDForUser(ctx, transactionID, userID)
		if err != nil {
			return mapTransactionError(err)
		}
		snapshot := *existing
		previous = &snapshot

		account, category, err := s.resolveReferences(ctx, uow, userID, posting)
		if err != nil {
			return err
		}

		if err := s.reverse(ctx, uow, existing); err != nil {
			return err
		}

		if err := s.apply(ctx, uow, posting.AccountID, posting.Kind, posting.Amount); err != nil {
			return err
		}

		existing.AccountID = posting.AccountID
		existing.CategoryID = posting.CategoryID
		existing.Kind = posting.Kind
		existing.Amount = posting.Amount
		existing.Date = models.NormalizeDate(posting.Date)
		existing.Description = posting.Description
		if err := uow.Transactions().Update(ctx, existing); err != nil {
			return mapTransactionError(err)
		}

		existing.Account = *account
		existing.Category = *category
		amended = existing
		return nil
	})
	s.finish(ctx, userID, "amend", start, err)
	if err != nil {
		return nil, err
	}

	s.metrics.RecordPostedAmount(amended.Kind, amended.Amount)
	s.auditLogger.LogPostingReversed(ctx, userID, previous)
	s.auditLogger.LogPostingApplied(ctx, userID, amended)
	return amended, nil
}

// Retract deletes a transaction and undoes its balance effect. No floor is
// enforced, so retracting an income may leave the account negative.
func (s *LedgerService) Retract(ctx context.Context, userID, transactionID uuid.UUID) error {
	start := time.Now()

	var retracted *models.Transaction
	err := s.txManager.RunInTransaction(ctx, func(uow repositories.UnitOfWork) error {
		existing, err := uow.Transactions().GetByIDForUser(ctx, transactionID, userID)
		if err != nil {
			return mapTransactionError(err)
		}

		if err := s.reverse(ctx, uow, existing); err != nil {
			return err
		}

		if err := uow.Transactions().Delete(ctx, existing.ID); err != nil {
			return mapTransactionError(err)
		}

		retracted = existing
		return nil
	})
	s.finish(ctx, userID, "retract", start, err)
	if err != nil {
		return err
	}

	s.auditLogger.LogPostingReversed(ctx, userID, retracted)
	return nil
}

func (s *LedgerService) Get(ctx context.Context, userID, transactionID uuid.UUID) (*models.Transaction, error) {
	t, err := s.transactionRepo.GetByIDForUser(ctx, transactionID, userID)
	if err != nil {
		return nil, mapTransactionError(err)
	}
	return t, nil
}

// List returns the user's transactions matching filters, newest first, and the unpaged total
func (s *LedgerService) List(ctx context.Context, filters models.TransactionFilters) ([]models.Transaction, int64, error) {
	if filters.Kind != "" && !filters.Kind.IsValid() {
		return nil, 0, models.ErrInvalidKind
	}
	if filters.StartDate != nil && filters.EndDate != nil && filters.StartDate.After(*filters.EndDate) {
		return []models.Transaction{}, 0, nil
	}

	transactions, total, err := s.transactionRepo.GetWithFilters(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}
	return transactions, total, nil
}

// Summarize groups the user's transactions by period bucket, category and kind
func (s *LedgerService) Summarize(ctx context.Context, userID uuid.UUID, period models.Period) ([]models.CategorySummary, error) {
	switch period {
	case "":
		period = models.PeriodNone
	case models.PeriodNone, models.PeriodWeekly, models.PeriodMonthly:
	default:
		return nil, models.ErrInvalidPeriod
	}

	entries, err := s.transactionRepo.GetSummaryEntries(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize transactions: %w", err)
	}

	return aggregateSummary(entries, period), nil
}

type summaryKey struct {
	period     string
	categoryID uuid.UUID
	kind       models.Kind
}

func aggregateSummary(entries []models.SummaryEntry, period models.Period) []models.CategorySummary {
	groups := make(map[summaryKey]*models.CategorySummary)
	for _, e := range entries {
		key := summaryKey{
			period:     period.Bucket(e.Date),
			categoryID: e.CategoryID,
			kind:       e.Kind,
		}
		group, ok := groups[key]
		if !ok {
			group = &models.CategorySummary{
				Period:       key.period,
				CategoryID:   e.CategoryID,
				CategoryName: e.CategoryName,
				Kind:         e.Kind,
				TotalAmount:  decimal.Zero,
			}
			groups[key] = group
		}
		group.TransactionCount++
		group.TotalAmount = group.TotalAmount.Add(e.Amount)
	}

	out := make([]models.CategorySummary, 0, len(groups))
	for _, g := range groups {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Period != b.Period {
			return a.Period > b.Period
		}
		if a.CategoryName != b.CategoryName {
			return a.CategoryName < b.CategoryName
		}
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		return a.CategoryID.String() < b.CategoryID.String()
	})
	return out
}

func (s *LedgerService) resolveReferences(ctx context.Context, uow repositories.UnitOfWork, userID uuid.UUID, posting Posting) (*models.Account, *models.Category, error) {
	account, err := uow.Accounts().AccountOwnedBy(ctx, posting.AccountID, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrAccountNotFound) {
			return nil, nil, ErrAccountNotFound
		}
		return nil, nil, err
	}

	category, err := uow.Categories().CategoryOfKind(ctx, posting.CategoryID, posting.Kind)
	if err != nil {
		if errors.Is(err, repositories.ErrCategoryKindMismatch) {
			return nil, nil, ErrInvalidCategory
		}
		return nil, nil, err
	}

	return account, category, nil
}

// apply moves amount into or out of the account. Expenses go through the
// guarded withdraw so the funds check and the debit are one statement.
func (s *LedgerService) apply(ctx context.Context, uow repositories.UnitOfWork, accountID uuid.UUID, kind models.Kind, amount decimal.Decimal) error {
	var err error
	if kind == models.KindExpense {
		err = uow.Accounts().Withdraw(ctx, accountID, amount)
	} else {
		err = uow.Accounts().AdjustBalance(ctx, accountID, amount)
	}
	return mapAccountError(err)
}

func (s *LedgerService) reverse(ctx context.Context, uow repositories.UnitOfWork, t *models.Transaction) error {
	return mapAccountError(uow.Accounts().AdjustBalance(ctx, t.AccountID, t.SignedAmount().Neg()))
}

func (s *LedgerService) finish(ctx context.Context, userID uuid.UUID, operation string, start time.Time, err error) {
	outcome := "success"
	if err != nil {
		kind := KindOf(err)
		outcome = kind.String()
		if kind == KindInternal {
			s.logger.ErrorContext(ctx, "ledger operation failed",
				"operation", operation,
				"user_id", userID,
				"error", err)
		} else {
			s.auditLogger.LogPostingRejected(ctx, userID, operation, err)
		}
	}
	s.metrics.RecordPosting(operation, outcome, time.Since(start))
}

func mapAccountError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrAccountNotFound):
		return ErrAccountNotFound
	case errors.Is(err, repositories.ErrInsufficientFunds):
		return ErrInsufficientFunds
	default:
		return err
	}
}

func mapTransactionError(err error) error {
	if errors.Is(err, repositories.ErrTransactionNotFound) {
		return ErrTransactionNotFound
	}
	return err
}
