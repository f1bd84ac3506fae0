package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"

	"finance-ledger/internal/errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

// newContext builds a request context; a non-nil userID simulates RequireAuth
func newContext(e *echo.Echo, method, target string, body interface{}, userID *uuid.UUID) (echo.Context, *httptest.ResponseRecorder) {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(TraceIDContextKey, "trace-test")
	if userID != nil {
		c.Set("user_id", *userID)
	}
	return c, rec
}

func withParam(c echo.Context, name, value string) echo.Context {
	c.SetParamNames(name)
	c.SetParamValues(value)
	return c
}

func decodeError(rec *httptest.ResponseRecorder) errors.ErrorResponse {
	var body errors.ErrorResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	return body
}

// decodeData unwraps SuccessResponse.Data into out
func decodeData(rec *httptest.ResponseRecorder, out interface{}) error {
	var envelope struct {
		Data    json.RawMessage `json:"data"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		return err
	}
	return json.Unmarshal(envelope.Data, out)
}
