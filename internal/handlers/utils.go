package handlers

import (
	"fmt"
	"sort"
	"strings"

	"finance-ledger/internal/errors"
	"finance-ledger/internal/validation"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ErrUnauthorized is returned when user context is invalid
var ErrUnauthorized = fmt.Errorf("unauthorized")

// Helper function to extract user ID from context
// Returns ErrUnauthorized if user ID is missing or invalid
func getUserIDFromContext(c echo.Context) (uuid.UUID, error) {
	userIDValue := c.Get("user_id")
	if userIDValue == nil {
		return uuid.UUID{}, ErrUnauthorized
	}

	userID, ok := userIDValue.(uuid.UUID)
	if !ok {
		return uuid.UUID{}, ErrUnauthorized
	}

	return userID, nil
}

// parseUUIDParam parses a path parameter as a UUID
func parseUUIDParam(c echo.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// parseUUIDQuery parses an optional query value. Empty input yields nil.
func parseUUIDQuery(raw string) (*uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// firstQueryParam returns the first non-empty value among the given names
func firstQueryParam(c echo.Context, names ...string) string {
	for _, name := range names {
		if v := strings.TrimSpace(c.QueryParam(name)); v != "" {
			return v
		}
	}
	return ""
}

// bindAndValidate binds the request body into req and runs the registered validator.
// On failure the error response has already been written and a non-nil error is
// returned so the caller can stop.
func bindAndValidate(c echo.Context, req interface{}) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}
	if err := c.Validate(req); err != nil {
		return false, SendError(c, errors.ValidationGeneral, errors.WithDetails(validationDetails(err)...))
	}
	return true, nil
}

func validationDetails(err error) []string {
	fieldErrors := validation.FieldErrors(err)
	if fieldErrors == nil {
		return []string{err.Error()}
	}
	details := make([]string, 0, len(fieldErrors))
	for field, message := range fieldErrors {
		details = append(details, fmt.Sprintf("%s: %s", field, message))
	}
	sort.Strings(details)
	return details
}

func getClientIP(c echo.Context) string {
	xff := c.Request().Header.Get("X-Forwarded-For")
	if xff != "" {
		ips := strings.Split(xff, ",")
		if len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}

	xri := c.Request().Header.Get("X-Real-IP")
	if xri != "" {
		return xri
	}

	return c.Request().RemoteAddr
}
