package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	apierrors "finance-ledger/internal/errors"
	"finance-ledger/internal/validation"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
)

type ErrorHandlerTestSuite struct {
	suite.Suite
	echo *echo.Echo
}

func TestErrorHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(ErrorHandlerTestSuite))
}

func (s *ErrorHandlerTestSuite) SetupTest() {
	s.echo = echo.New()
	s.echo.HTTPErrorHandler = CustomHTTPErrorHandler
}

// handle runs the error handler against a fresh context; an empty traceID
// leaves the context without one
func (s *ErrorHandlerTestSuite) handle(err error, traceID string) (*httptest.ResponseRecorder, apierrors.ErrorResponse) {
	rec := httptest.NewRecorder()
	c := s.echo.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	if traceID != "" {
		c.Set(TraceIDContextKey, traceID)
	}

	CustomHTTPErrorHandler(err, c)

	var body apierrors.ErrorResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func (s *ErrorHandlerTestSuite) TestEchoErrorKeepsCustomMessage() {
	rec, body := s.handle(echo.NewHTTPError(http.StatusNotFound, "no such ledger route"), "trace-1")

	s.Equal(http.StatusNotFound, rec.Code)
	s.Equal("SYSTEM_005", body.Error.Code)
	s.Equal("no such ledger route", body.Error.Message)
	s.Equal("trace-1", body.Error.TraceID)
}

func (s *ErrorHandlerTestSuite) TestEchoErrorDefaultTextUsesCatalogue() {
	_, body := s.handle(echo.NewHTTPError(http.StatusNotFound), "trace-1")

	s.Equal(apierrors.GetErrorMessage(apierrors.SystemRouteNotFound), body.Error.Message)
}

func (s *ErrorHandlerTestSuite) TestStatusMapping() {
	for status, want := range map[int]string{
		http.StatusBadRequest:            "VALIDATION_001",
		http.StatusUnauthorized:          "AUTH_002",
		http.StatusForbidden:             "AUTH_004",
		http.StatusNotFound:              "SYSTEM_005",
		http.StatusMethodNotAllowed:      "VALIDATION_001",
		http.StatusRequestEntityTooLarge: "VALIDATION_004",
		http.StatusTooManyRequests:       "SYSTEM_004",
		http.StatusServiceUnavailable:    "SYSTEM_003",
		http.StatusInternalServerError:   "SYSTEM_001",
		599:                              "SYSTEM_001",
	} {
		s.Run(fmt.Sprint(status), func() {
			rec, body := s.handle(echo.NewHTTPError(status), "trace-1")
			s.Equal(status, rec.Code)
			s.Equal(want, body.Error.Code)
		})
	}
}

func (s *ErrorHandlerTestSuite) TestPlainErrorIsHidden() {
	rec, body := s.handle(fmt.Errorf("load account: %w", errors.New("connection reset")), "")

	s.Equal(http.StatusInternalServerError, rec.Code)
	s.Equal("SYSTEM_001", body.Error.Code)
	s.Equal("unknown", body.Error.TraceID)
	s.NotContains(rec.Body.String(), "connection reset")
	s.Contains(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON)
}

func (s *ErrorHandlerTestSuite) TestCommittedResponseUntouched() {
	rec := httptest.NewRecorder()
	c := s.echo.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	s.Require().NoError(c.JSON(http.StatusOK, map[string]string{"status": "ok"}))

	CustomHTTPErrorHandler(errors.New("late failure"), c)

	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"status":"ok"}`, rec.Body.String())
}

func (s *ErrorHandlerTestSuite) TestValidationErrors() {
	payload := struct {
		Kind   string `json:"kind" validate:"required,kind"`
		Amount string `json:"amount" validate:"required,money"`
	}{Kind: "transfer", Amount: "-3"}
	err := validation.GetValidator().GetValidate().Struct(payload)
	s.Require().Error(err)

	rec, body := s.handle(err, "trace-1")

	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("VALIDATION_001", body.Error.Code)
	s.Equal([]string{
		"amount: must be a positive amount with at most 2 decimal places",
		"kind: must be income or expense",
	}, body.Error.Details)
}

func (s *ErrorHandlerTestSuite) TestCountsErrorsByRoute() {
	s.echo.GET("/api/v1/transactions/:id", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusTooManyRequests)
	})
	counter := apiErrorsTotal.WithLabelValues("SYSTEM_004", "/api/v1/transactions/:id", "429")
	before := testutil.ToFloat64(counter)

	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/transactions/abc", nil))

	s.Equal(http.StatusTooManyRequests, rec.Code)
	s.Equal(before+1, testutil.ToFloat64(counter))
}
