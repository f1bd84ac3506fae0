package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	apierrors "finance-ledger/internal/errors"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
)

type PanicRecoveryTestSuite struct {
	suite.Suite
	echo *echo.Echo
}

func TestPanicRecoveryTestSuite(t *testing.T) {
	suite.Run(t, new(PanicRecoveryTestSuite))
}

func (s *PanicRecoveryTestSuite) SetupTest() {
	s.echo = echo.New()
}

func (s *PanicRecoveryTestSuite) run(traceID string, next echo.HandlerFunc) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	c := s.echo.NewContext(httptest.NewRequest(http.MethodPost, "/api/v1/transactions", nil), rec)
	if traceID != "" {
		c.Set(TraceIDContextKey, traceID)
	}
	s.NotPanics(func() {
		_ = PanicRecovery()(next)(c)
	})
	return rec
}

func (s *PanicRecoveryTestSuite) TestRecoversAnyPanicValue() {
	for name, value := range map[string]interface{}{
		"string": "ledger exploded",
		"int":    42,
		"error":  apierrors.NewErrorResponse(apierrors.SystemInternalError, "x"),
		"nil":    nil,
	} {
		s.Run(name, func() {
			rec := s.run("trace-panic", func(c echo.Context) error { panic(value) })

			s.Equal(http.StatusInternalServerError, rec.Code)
			var body apierrors.ErrorResponse
			s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
			s.Equal("SYSTEM_001", body.Error.Code)
			s.Equal("trace-panic", body.Error.TraceID)
		})
	}
}

func (s *PanicRecoveryTestSuite) TestUnknownTraceID() {
	rec := s.run("", func(c echo.Context) error { panic("boom") })

	var body apierrors.ErrorResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	s.Equal("unknown", body.Error.TraceID)
}

func (s *PanicRecoveryTestSuite) TestPassThrough() {
	rec := s.run("trace-ok", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})
	s.Equal(http.StatusNoContent, rec.Code)
}

func (s *PanicRecoveryTestSuite) TestAbortHandlerIsRethrown() {
	c := s.echo.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	handler := PanicRecovery()(func(c echo.Context) error {
		panic(http.ErrAbortHandler)
	})

	s.PanicsWithValue(http.ErrAbortHandler, func() { _ = handler(c) })
}

func (s *PanicRecoveryTestSuite) TestCommittedResponseLeftAlone() {
	rec := s.run("trace-late", func(c echo.Context) error {
		_ = c.String(http.StatusOK, "partial")
		panic("late panic")
	})

	s.Equal(http.StatusOK, rec.Code)
	s.Equal("partial", rec.Body.String())
}
