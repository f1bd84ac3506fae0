package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"finance-ledger/internal/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheck_Healthy(t *testing.T) {
	db := database.SetupTestDB(t)
	handler := NewHealthCheckHandler(db.DB)

	c, rec := newContext(newTestEcho(), http.MethodGet, "/api/v1/health", nil, nil)
	require.NoError(t, handler.HealthCheck(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.NotEmpty(t, body["time"])
}

func TestHealthCheck_DatabaseDown(t *testing.T) {
	db := database.SetupTestDB(t)
	sqlDB, err := db.DB.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	handler := NewHealthCheckHandler(db.DB)
	c, rec := newContext(newTestEcho(), http.MethodGet, "/api/v1/health", nil, nil)
	require.NoError(t, handler.HealthCheck(c))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := decodeError(rec)
	assert.Equal(t, "SYSTEM_003", body.Error.Code)
	assert.Equal(t, "trace-test", body.Error.TraceID)
}
