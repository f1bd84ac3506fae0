package handlers

import (
	"context"
	"net/http"
	"time"

	"finance-ledger/internal/errors"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

const healthPingTimeout = 2 * time.Second

// HealthCheckHandler reports whether the ledger database is reachable
type HealthCheckHandler struct {
	db *gorm.DB
}

// NewHealthCheckHandler creates a new health check handler
func NewHealthCheckHandler(db *gorm.DB) *HealthCheckHandler {
	return &HealthCheckHandler{db: db}
}

// HealthCheck adds the health check endpoint
// @Summary Health check
// @Description Check API and ledger database connectivity
// @Tags Health
// @Produce json
// @Success 200 {object} object{status=string,time=string} "Service is healthy"
// @Failure 503 {object} errors.ErrorResponse "SYSTEM_003 - Service unavailable (database connection failed)"
// @Router /health [get]
func (h *HealthCheckHandler) HealthCheck(c echo.Context) error {
	if err := h.ping(c); err != nil {
		return c.JSON(http.StatusServiceUnavailable, errors.NewErrorResponse(
			errors.SystemServiceUnavailable,
			getTraceIDFromContext(c),
			errors.WithDetails("Database connection failed"),
		))
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *HealthCheckHandler) ping(c echo.Context) error {
	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), healthPingTimeout)
	defer cancel()
	return sqlDB.PingContext(ctx)
}

// getTraceIDFromContext falls back to the response header when the request id
// middleware has not stored the id on the context
func getTraceIDFromContext(c echo.Context) string {
	if traceID := getTraceID(c); traceID != "" {
		return traceID
	}
	if traceID := c.Response().Header().Get("X-Trace-ID"); traceID != "" {
		return traceID
	}
	return "unknown"
}
