package router

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"finance-ledger/internal/config"
	apierrors "finance-ledger/internal/errors"
	"finance-ledger/internal/handlers"
	"finance-ledger/internal/middleware"
	"finance-ledger/internal/models"
	"finance-ledger/internal/services"
	"finance-ledger/internal/services/service_mocks"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type RouterTestSuite struct {
	suite.Suite
	ctrl         *gomock.Controller
	e            *echo.Echo
	tokenService services.TokenServiceInterface
	accounts     *service_mocks.MockAccountServiceInterface
	categories   *service_mocks.MockCategoryServiceInterface
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterTestSuite))
}

func (s *RouterTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())

	privateKey, publicKey, err := config.GenerateRSAKeyPair()
	s.Require().NoError(err)
	s.tokenService = services.NewTokenService(&config.JWTConfig{
		PrivateKey:          privateKey,
		PublicKey:           publicKey,
		Issuer:              "router-test",
		AccessTokenDuration: time.Hour,
	})

	s.accounts = service_mocks.NewMockAccountServiceInterface(s.ctrl)
	s.categories = service_mocks.NewMockCategoryServiceInterface(s.ctrl)

	cfg := &config.Config{Server: config.ServerConfig{
		BodyLimit:        "1M",
		CORSAllowOrigins: []string{"*"},
	}}
	s.e = NewEcho(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))

	r := &Router{
		AuthHandler:    handlers.NewAuthHandler(service_mocks.NewMockAuthServiceInterface(s.ctrl)),
		AccountHandler: handlers.NewAccountHandler(s.accounts),
		CatalogHandler: handlers.NewCatalogHandler(s.categories, service_mocks.NewMockAccountTypeServiceInterface(s.ctrl)),
		TransactionHandler: handlers.NewTransactionHandler(
			service_mocks.NewMockLedgerServiceInterface(s.ctrl),
			service_mocks.NewMockExportServiceInterface(s.ctrl),
		),
		AuthMW:         middleware.RequireAuth(s.tokenService),
		MetricsHandler: promhttp.HandlerFor(prometheus.NewRegistry(), promhttp.HandlerOpts{}),
	}
	r.RegisterRoutes(s.e)
}

func (s *RouterTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *RouterTestSuite) do(method, target, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *RouterTestSuite) token(userID uuid.UUID) string {
	token, _, err := s.tokenService.GenerateAccessToken(&models.User{ID: userID, Email: "owner@example.com"})
	s.Require().NoError(err)
	return token
}

func errorCode(rec *httptest.ResponseRecorder) string {
	var body apierrors.ErrorResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	return body.Error.Code
}

func (s *RouterTestSuite) TestProtectedRouteRequiresToken() {
	rec := s.do(http.MethodGet, "/api/v1/accounts", "")

	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Equal(string(apierrors.AuthMissingToken), errorCode(rec))
	s.NotEmpty(rec.Header().Get(middleware.TraceIDHeader))
}

func (s *RouterTestSuite) TestCategoriesArePublic() {
	s.categories.EXPECT().ListCategories(gomock.Any(), gomock.Any()).
		Return([]models.Category{{ID: uuid.New(), Name: "Salary", Kind: models.KindIncome}}, nil)

	rec := s.do(http.MethodGet, "/api/v1/categories", "")

	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "Salary")
}

func (s *RouterTestSuite) TestSummaryIsNotTreatedAsAccountID() {
	userID := uuid.New()
	s.accounts.EXPECT().GetFinancialSummary(gomock.Any(), userID).
		Return(&models.FinancialSummary{TotalBalance: decimal.Zero}, nil)

	rec := s.do(http.MethodGet, "/api/v1/accounts/summary", s.token(userID))

	s.Equal(http.StatusOK, rec.Code)
}

func (s *RouterTestSuite) TestUnknownRoute() {
	rec := s.do(http.MethodGet, "/api/v1/nope", "")

	s.Equal(http.StatusNotFound, rec.Code)
	s.Equal(string(apierrors.SystemRouteNotFound), errorCode(rec))
}

func (s *RouterTestSuite) TestMetricsEndpoint() {
	rec := s.do(http.MethodGet, "/metrics", "")
	s.Equal(http.StatusOK, rec.Code)
}

func (s *RouterTestSuite) TestSecurityHeadersApplied() {
	rec := s.do(http.MethodGet, "/api/v1/accounts", "")
	s.Equal("nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func (s *RouterTestSuite) TestRegisteredRoutes() {
	registered := make(map[string]bool)
	for _, route := range s.e.Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	for _, want := range []string{
		"POST /api/v1/auth/register",
		"POST /api/v1/auth/login",
		"GET /api/v1/auth/me",
		"GET /api/v1/account-types",
		"POST /api/v1/account-types",
		"PUT /api/v1/account-types/:id",
		"DELETE /api/v1/account-types/:id",
		"GET /api/v1/categories",
		"GET /api/v1/categories/:id",
		"POST /api/v1/categories",
		"PUT /api/v1/categories/:id",
		"DELETE /api/v1/categories/:id",
		"GET /api/v1/accounts",
		"POST /api/v1/accounts",
		"GET /api/v1/accounts/summary",
		"GET /api/v1/accounts/:id",
		"PUT /api/v1/accounts/:id",
		"DELETE /api/v1/accounts/:id",
		"GET /api/v1/transactions",
		"POST /api/v1/transactions",
		"GET /api/v1/transactions/summary",
		"GET /api/v1/transactions/export",
		"GET /api/v1/transactions/:id",
		"PUT /api/v1/transactions/:id",
		"DELETE /api/v1/transactions/:id",
		"GET /metrics",
	} {
		s.True(registered[want], "missing route %s", want)
	}
}
