package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestSecurityHeaders(t *testing.T) {
	cases := map[string]echo.HandlerFunc{
		"success": func(c echo.Context) error {
			return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
		},
		"handler error": func(c echo.Context) error {
			return echo.NewHTTPError(http.StatusNotFound)
		},
		"plain error": func(c echo.Context) error {
			return errors.New("boom")
		},
	}

	for name, next := range cases {
		t.Run(name, func(t *testing.T) {
			e := echo.New()
			e.HTTPErrorHandler = CustomHTTPErrorHandler
			e.Use(SecurityHeaders())
			e.GET("/api/v1/accounts", next)

			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil))

			assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
			assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
			assert.Equal(t, "default-src 'none'; frame-ancestors 'none'", rec.Header().Get("Content-Security-Policy"))
			assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
			assert.Equal(t, "no-cache", rec.Header().Get("Pragma"))
			assert.Len(t, securityHeaders, 8)
		})
	}
}
