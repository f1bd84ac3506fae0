package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ResponseTestSuite struct {
	suite.Suite
	traceID string
}

func TestResponseTestSuite(t *testing.T) {
	suite.Run(t, new(ResponseTestSuite))
}

func (s *ResponseTestSuite) SetupTest() {
	s.traceID = "550e8400-e29b-41d4-a716-446655440000"
}

func (s *ResponseTestSuite) TestNewErrorResponse_UsesCatalogueMessage() {
	response := NewErrorResponse(TransactionInsufficientFunds, s.traceID)

	s.Equal("TRANSACTION_003", response.Error.Code)
	s.Equal(GetErrorMessage(TransactionInsufficientFunds), response.Error.Message)
	s.Equal(s.traceID, response.Error.TraceID)
	s.Empty(response.Error.Details)
}

func (s *ResponseTestSuite) TestNewErrorResponse_Options() {
	response := NewErrorResponse(
		AccountNotFound,
		s.traceID,
		WithMessage("first"),
		WithDetails("a"),
		WithMessage("second"),
		WithDetails("b", "c"),
	)

	s.Equal("second", response.Error.Message, "the last option wins")
	s.Equal([]string{"b", "c"}, response.Error.Details)
}

func (s *ResponseTestSuite) TestNewValidationError_SortedDetails() {
	response := NewValidationError(map[string]string{
		"date":       "must be a date in YYYY-MM-DD format",
		"amount":     "must be a positive amount with at most 2 decimal places",
		"account_id": "is required",
	}, s.traceID)

	s.Equal(string(ValidationGeneral), response.Error.Code)
	s.Equal([]string{
		"account_id: is required",
		"amount: must be a positive amount with at most 2 decimal places",
		"date: must be a date in YYYY-MM-DD format",
	}, response.Error.Details)
}

func (s *ResponseTestSuite) TestNewValidationError_Empty() {
	response := NewValidationError(nil, s.traceID)

	s.Equal(string(ValidationGeneral), response.Error.Code)
	s.Empty(response.Error.Details)
}

func (s *ResponseTestSuite) TestWrapSystemError_HidesCause() {
	cause := errors.New("pq: relation \"accounts\" does not exist")

	response, internal := WrapSystemError(cause, s.traceID)

	s.Same(cause, internal)
	s.Equal(string(SystemInternalError), response.Error.Code)
	s.NotContains(response.Error.Message, "pq:")
	s.Empty(response.Error.Details)
}

func (s *ResponseTestSuite) TestJSONEnvelope() {
	raw, err := json.Marshal(NewErrorResponse(CategoryInUse, s.traceID, WithDetails("3 transactions")))
	s.Require().NoError(err)

	var decoded map[string]map[string]interface{}
	s.Require().NoError(json.Unmarshal(raw, &decoded))
	s.Equal("CATEGORY_002", decoded["error"]["code"])
	s.Equal(s.traceID, decoded["error"]["trace_id"])
	s.Len(decoded["error"]["details"], 1)

	raw, err = json.Marshal(NewErrorResponse(CategoryInUse, s.traceID))
	s.Require().NoError(err)
	s.NotContains(string(raw), "details")
}

func (s *ResponseTestSuite) TestGetHTTPStatus() {
	cases := map[ErrorCode]int{
		ValidationGeneral:            http.StatusBadRequest,
		ValidationInvalidDate:        http.StatusBadRequest,
		TransactionInvalidAmount:     http.StatusBadRequest,
		TransactionInvalidPeriod:     http.StatusBadRequest,
		TransactionInvalidExport:     http.StatusBadRequest,
		AccountInvalidOpening:        http.StatusBadRequest,
		AuthInvalidCredentials:       http.StatusUnauthorized,
		AuthExpiredToken:             http.StatusUnauthorized,
		AccountNotFound:              http.StatusNotFound,
		TransactionNotFound:          http.StatusNotFound,
		SystemRouteNotFound:          http.StatusNotFound,
		AuthEmailTaken:               http.StatusConflict,
		AccountHasTransactions:       http.StatusConflict,
		CategoryInUse:                http.StatusConflict,
		TransactionInsufficientFunds: http.StatusUnprocessableEntity,
		TransactionInvalidCategory:   http.StatusUnprocessableEntity,
		AccountInvalidAccountType:    http.StatusUnprocessableEntity,
		SystemRateLimitExceeded:      http.StatusTooManyRequests,
		SystemServiceUnavailable:     http.StatusServiceUnavailable,
		SystemDatabaseError:          http.StatusServiceUnavailable,
		SystemInternalError:          http.StatusInternalServerError,
		ErrorCode("NOPE_999"):        http.StatusInternalServerError,
	}

	for code, want := range cases {
		s.Equal(want, GetHTTPStatus(code), "code %s", code)
		s.Equal(want, NewErrorResponse(code, s.traceID).GetHTTPStatus(), "code %s", code)
	}
}
