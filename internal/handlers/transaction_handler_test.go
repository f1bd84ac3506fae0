package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"finance-ledger/internal/dto"
	"finance-ledger/internal/models"
	"finance-ledger/internal/services"
	"finance-ledger/internal/services/service_mocks"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type TransactionHandlerTestSuite struct {
	suite.Suite
	echo       *echo.Echo
	ctrl       *gomock.Controller
	ledger     *service_mocks.MockLedgerServiceInterface
	exporter   *service_mocks.MockExportServiceInterface
	handler    *TransactionHandler
	userID     uuid.UUID
	accountID  uuid.UUID
	categoryID uuid.UUID
}

func TestTransactionHandlerSuite(t *testing.T) {
	suite.Run(t, new(TransactionHandlerTestSuite))
}

func (s *TransactionHandlerTestSuite) SetupTest() {
	s.echo = newTestEcho()
	s.ctrl = gomock.NewController(s.T())
	s.ledger = service_mocks.NewMockLedgerServiceInterface(s.ctrl)
	s.exporter = service_mocks.NewMockExportServiceInterface(s.ctrl)
	s.handler = NewTransactionHandler(s.ledger, s.exporter)
	s.userID = uuid.New()
	s.accountID = uuid.New()
	s.categoryID = uuid.New()
}

func (s *TransactionHandlerTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *TransactionHandlerTestSuite) body(kind, amount, date string) map[string]interface{} {
	return map[string]interface{}{
		"account_id":  s.accountID.String(),
		"category_id": s.categoryID.String(),
		"kind":        kind,
		"amount":      amount,
		"date":        date,
		"description": gofakeit.Sentence(4),
	}
}

func (s *TransactionHandlerTestSuite) stored(kind models.Kind, amount string) *models.Transaction {
	return &models.Transaction{
		ID:         uuid.New(),
		AccountID:  s.accountID,
		CategoryID: s.categoryID,
		Kind:       kind,
		Amount:     decimal.RequireFromString(amount),
		Date:       time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Account:    models.Account{Name: "Wallet"},
		Category:   models.Category{Name: "Food"},
	}
}

func (s *TransactionHandlerTestSuite) TestCreateTransaction_Success() {
	c, rec := newContext(s.echo, http.MethodPost, "/api/v1/transactions", s.body("gasto", "12.50", "2024-01-15"), &s.userID)

	s.ledger.EXPECT().Post(gomock.Any(), s.userID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, p services.Posting) (*models.Transaction, error) {
			s.Equal(s.accountID, p.AccountID)
			s.Equal(s.categoryID, p.CategoryID)
			s.Equal(models.KindExpense, p.Kind)
			s.True(p.Amount.Equal(decimal.RequireFromString("12.50")))
			s.Equal(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), p.Date)
			s.NotNil(p.Description)
			return s.stored(models.KindExpense, "12.50"), nil
		})

	s.NoError(s.handler.CreateTransaction(c))
	s.Equal(http.StatusCreated, rec.Code)

	var got dto.TransactionResponse
	s.Require().NoError(decodeData(rec, &got))
	s.Equal("12.50", got.Amount)
	s.Equal("2024-01-15", got.Date)
	s.Equal(models.KindExpense, got.Kind)
	s.Equal("Wallet", got.AccountName)
	s.Equal("Food", got.CategoryName)
}

func (s *TransactionHandlerTestSuite) TestCreateTransaction_ValidationErrors() {
	cases := []struct {
		name string
		body map[string]interface{}
	}{
		{"zero amount", s.body("income", "0", "2024-01-15")},
		{"negative amount", s.body("income", "-5", "2024-01-15")},
		{"three decimals", s.body("income", "1.005", "2024-01-15")},
		{"unknown kind", s.body("transfer", "10", "2024-01-15")},
		{"bad date", s.body("income", "10", "15/01/2024")},
		{"missing account", func() map[string]interface{} {
			b := s.body("income", "10", "2024-01-15")
			delete(b, "account_id")
			return b
		}()},
	}

	for _, tc := range cases {
		s.Run(tc.name, func() {
			c, rec := newContext(s.echo, http.MethodPost, "/api/v1/transactions", tc.body, &s.userID)

			s.NoError(s.handler.CreateTransaction(c))
			s.Equal(http.StatusBadRequest, rec.Code)
			s.Equal("VALIDATION_001", decodeError(rec).Error.Code)
		})
	}
}

func (s *TransactionHandlerTestSuite) TestCreateTransaction_ServiceErrors() {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"foreign account", services.ErrAccountNotFound, http.StatusNotFound, "ACCOUNT_001"},
		{"category kind mismatch", services.ErrInvalidCategory, http.StatusUnprocessableEntity, "TRANSACTION_007"},
		{"insufficient funds", services.ErrInsufficientFunds, http.StatusUnprocessableEntity, "TRANSACTION_003"},
		{"store failure", fmt.Errorf("failed to debit account: %w", io.ErrUnexpectedEOF), http.StatusInternalServerError, "SYSTEM_001"},
	}

	for _, tc := range cases {
		s.Run(tc.name, func() {
			c, rec := newContext(s.echo, http.MethodPost, "/api/v1/transactions", s.body("expense", "20", "2024-01-15"), &s.userID)
			s.ledger.EXPECT().Post(gomock.Any(), s.userID, gomock.Any()).Return(nil, tc.err)

			s.NoError(s.handler.CreateTransaction(c))
			s.Equal(tc.status, rec.Code)
			body := decodeError(rec)
			s.Equal(tc.code, body.Error.Code)
			s.Equal("trace-test", body.Error.TraceID)
			s.NotContains(rec.Body.String(), "unexpected EOF")
		})
	}
}

func (s *TransactionHandlerTestSuite) TestCreateTransaction_Unauthenticated() {
	c, rec := newContext(s.echo, http.MethodPost, "/api/v1/transactions", s.body("income", "10", "2024-01-15"), nil)

	s.NoError(s.handler.CreateTransaction(c))
	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Equal("AUTH_002", decodeError(rec).Error.Code)
}

func (s *TransactionHandlerTestSuite) TestUpdateTransaction() {
	s.Run("success", func() {
		txID := uuid.New()
		c, rec := newContext(s.echo, http.MethodPut, "/api/v1/transactions/"+txID.String(), s.body("ingreso", "30", "2024-02-01"), &s.userID)
		withParam(c, "id", txID.String())

		s.ledger.EXPECT().Amend(gomock.Any(), s.userID, txID, gomock.Any()).
			DoAndReturn(func(_ context.Context, _, _ uuid.UUID, p services.Posting) (*models.Transaction, error) {
				s.Equal(models.KindIncome, p.Kind)
				return s.stored(models.KindIncome, "30"), nil
			})

		s.NoError(s.handler.UpdateTransaction(c))
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("invalid id", func() {
		c, rec := newContext(s.echo, http.MethodPut, "/api/v1/transactions/nope", s.body("income", "30", "2024-02-01"), &s.userID)
		withParam(c, "id", "nope")

		s.NoError(s.handler.UpdateTransaction(c))
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Equal("TRANSACTION_004", decodeError(rec).Error.Code)
	})

	s.Run("not found", func() {
		txID := uuid.New()
		c, rec := newContext(s.echo, http.MethodPut, "/api/v1/transactions/"+txID.String(), s.body("income", "30", "2024-02-01"), &s.userID)
		withParam(c, "id", txID.String())
		s.ledger.EXPECT().Amend(gomock.Any(), s.userID, txID, gomock.Any()).Return(nil, services.ErrTransactionNotFound)

		s.NoError(s.handler.UpdateTransaction(c))
		s.Equal(http.StatusNotFound, rec.Code)
		s.Equal("TRANSACTION_001", decodeError(rec).Error.Code)
	})
}

func (s *TransactionHandlerTestSuite) TestDeleteTransaction() {
	s.Run("success", func() {
		txID := uuid.New()
		c, rec := newContext(s.echo, http.MethodDelete, "/api/v1/transactions/"+txID.String(), nil, &s.userID)
		withParam(c, "id", txID.String())
		s.ledger.EXPECT().Retract(gomock.Any(), s.userID, txID).Return(nil)

		s.NoError(s.handler.DeleteTransaction(c))
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("already retracted", func() {
		txID := uuid.New()
		c, rec := newContext(s.echo, http.MethodDelete, "/api/v1/transactions/"+txID.String(), nil, &s.userID)
		withParam(c, "id", txID.String())
		s.ledger.EXPECT().Retract(gomock.Any(), s.userID, txID).Return(services.ErrTransactionNotFound)

		s.NoError(s.handler.DeleteTransaction(c))
		s.Equal(http.StatusNotFound, rec.Code)
	})
}

func (s *TransactionHandlerTestSuite) TestGetTransaction() {
	tx := s.stored(models.KindIncome, "99.90")
	c, rec := newContext(s.echo, http.MethodGet, "/api/v1/transactions/"+tx.ID.String(), nil, &s.userID)
	withParam(c, "id", tx.ID.String())
	s.ledger.EXPECT().Get(gomock.Any(), s.userID, tx.ID).Return(tx, nil)

	s.NoError(s.handler.GetTransaction(c))
	s.Equal(http.StatusOK, rec.Code)

	var got dto.TransactionResponse
	s.Require().NoError(decodeData(rec, &got))
	s.Equal(tx.ID, got.ID)
	s.Equal("99.90", got.Amount)
}

func (s *TransactionHandlerTestSuite) TestListTransactions_LegacyParameterNames() {
	target := fmt.Sprintf("/api/v1/transactions?tipo=gasto&fecha_inicio=2024-01-01&fecha_fin=2024-01-31&cuenta_id=%s&categoria_id=%s&limit=10&offset=20",
		s.accountID, s.categoryID)
	c, rec := newContext(s.echo, http.MethodGet, target, nil, &s.userID)

	s.ledger.EXPECT().List(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, f models.TransactionFilters) ([]models.Transaction, int64, error) {
			s.Equal(s.userID, f.UserID)
			s.Equal(models.KindExpense, f.Kind)
			s.Require().NotNil(f.StartDate)
			s.Require().NotNil(f.EndDate)
			s.Equal("2024-01-01", f.StartDate.Format(models.DateLayout))
			s.Equal("2024-01-31", f.EndDate.Format(models.DateLayout))
			s.Equal(&s.accountID, f.AccountID)
			s.Equal(&s.categoryID, f.CategoryID)
			s.Equal(10, f.Limit)
			s.Equal(20, f.Offset)
			return []models.Transaction{*s.stored(models.KindExpense, "5")}, 21, nil
		})

	s.NoError(s.handler.ListTransactions(c))
	s.Equal(http.StatusOK, rec.Code)

	var got dto.ListTransactionsResponse
	s.Require().NoError(decodeData(rec, &got))
	s.Len(got.Transactions, 1)
	s.Equal(int64(21), got.Pagination.Total)
	s.Equal(10, got.Pagination.Limit)
}

func (s *TransactionHandlerTestSuite) TestListTransactions_EnglishNamesWinOverLegacy() {
	c, rec := newContext(s.echo, http.MethodGet, "/api/v1/transactions?kind=income&tipo=gasto", nil, &s.userID)

	s.ledger.EXPECT().List(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, f models.TransactionFilters) ([]models.Transaction, int64, error) {
			s.Equal(models.KindIncome, f.Kind)
			s.Equal(defaultPageLimit, f.Limit)
			return nil, 0, nil
		})

	s.NoError(s.handler.ListTransactions(c))
	s.Equal(http.StatusOK, rec.Code)
}

func (s *TransactionHandlerTestSuite) TestListTransactions_NonNumericLimitNamesField() {
	c, rec := newContext(s.echo, http.MethodGet, "/api/v1/transactions?limit=abc", nil, &s.userID)

	s.NoError(s.handler.ListTransactions(c))
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal([]string{"limit: must be a whole number"}, decodeError(rec).Error.Details)
}

func (s *TransactionHandlerTestSuite) TestListTransactions_InvalidFilters() {
	for _, query := range []string{
		"tipo=transfer",
		"start_date=2024-13-01",
		"account_id=abc",
		"limit=0",
		"limit=501",
		"offset=-1",
		"limit=abc",
		"offset=ten",
		"limit=99999999999999999999",
	} {
		s.Run(query, func() {
			c, rec := newContext(s.echo, http.MethodGet, "/api/v1/transactions?"+query, nil, &s.userID)

			s.NoError(s.handler.ListTransactions(c))
			s.Equal(http.StatusBadRequest, rec.Code)
			s.Equal("VALIDATION_001", decodeError(rec).Error.Code)
		})
	}
}

func (s *TransactionHandlerTestSuite) TestGetSummary() {
	s.Run("legacy monthly alias", func() {
		c, rec := newContext(s.echo, http.MethodGet, "/api/v1/transactions/summary?periodo=mensual", nil, &s.userID)
		groups := []models.CategorySummary{{
			Period:           "2024-01",
			CategoryID:       s.categoryID,
			CategoryName:     "Food",
			Kind:             models.KindExpense,
			TransactionCount: 2,
			TotalAmount:      decimal.RequireFromString("40"),
		}}
		s.ledger.EXPECT().Summarize(gomock.Any(), s.userID, models.PeriodMonthly).Return(groups, nil)

		s.NoError(s.handler.GetSummary(c))
		s.Equal(http.StatusOK, rec.Code)

		var got dto.SummaryResponse
		s.Require().NoError(decodeData(rec, &got))
		s.Equal(models.PeriodMonthly, got.Period)
		s.Require().Len(got.Groups, 1)
		s.Equal("2024-01", got.Groups[0].Period)
	})

	s.Run("defaults to none", func() {
		c, rec := newContext(s.echo, http.MethodGet, "/api/v1/transactions/summary", nil, &s.userID)
		s.ledger.EXPECT().Summarize(gomock.Any(), s.userID, models.PeriodNone).Return(nil, nil)

		s.NoError(s.handler.GetSummary(c))
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("invalid period", func() {
		c, rec := newContext(s.echo, http.MethodGet, "/api/v1/transactions/summary?period=yearly", nil, &s.userID)

		s.NoError(s.handler.GetSummary(c))
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Equal("TRANSACTION_005", decodeError(rec).Error.Code)
	})
}

func (s *TransactionHandlerTestSuite) TestExportTransactions() {
	s.Run("csv download", func() {
		c, rec := newContext(s.echo, http.MethodGet, "/api/v1/transactions/export?format=csv&tipo=ingreso", nil, &s.userID)

		s.exporter.EXPECT().Export(gomock.Any(), gomock.Any(), services.ExportCSV, gomock.Any()).
			DoAndReturn(func(_ context.Context, f models.TransactionFilters, _ services.ExportFormat, w io.Writer) error {
				s.Equal(models.KindIncome, f.Kind)
				_, err := io.WriteString(w, "id,date\n")
				return err
			})

		s.NoError(s.handler.ExportTransactions(c))
		s.Equal(http.StatusOK, rec.Code)
		s.Equal("text/csv; charset=utf-8", rec.Header().Get(echo.HeaderContentType))
		s.Contains(rec.Header().Get(echo.HeaderContentDisposition), ".csv")
		s.Equal("id,date\n", rec.Body.String())
	})

	s.Run("xlsx content type", func() {
		c, rec := newContext(s.echo, http.MethodGet, "/api/v1/transactions/export?format=xlsx", nil, &s.userID)
		s.exporter.EXPECT().Export(gomock.Any(), gomock.Any(), services.ExportXLSX, gomock.Any()).Return(nil)

		s.NoError(s.handler.ExportTransactions(c))
		s.Equal(http.StatusOK, rec.Code)
		s.Equal(services.ExportXLSX.ContentType(), rec.Header().Get(echo.HeaderContentType))
		s.Contains(rec.Header().Get(echo.HeaderContentDisposition), ".xlsx")
	})

	s.Run("unsupported format", func() {
		c, rec := newContext(s.echo, http.MethodGet, "/api/v1/transactions/export?format=pdf", nil, &s.userID)

		s.NoError(s.handler.ExportTransactions(c))
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Equal("TRANSACTION_008", decodeError(rec).Error.Code)
	})

	s.Run("failure stays a json error", func() {
		c, rec := newContext(s.echo, http.MethodGet, "/api/v1/transactions/export", nil, &s.userID)
		s.exporter.EXPECT().Export(gomock.Any(), gomock.Any(), services.ExportCSV, gomock.Any()).Return(io.ErrClosedPipe)

		s.NoError(s.handler.ExportTransactions(c))
		s.Equal(http.StatusInternalServerError, rec.Code)
		s.Empty(rec.Header().Get(echo.HeaderContentDisposition))
	})
}
