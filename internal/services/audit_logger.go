package services

import (
	"context"
	"log/slog"
	"time"

	"finance-ledger/internal/models"

	"github.com/google/uuid"
)

type contextKey string

// CorrelationIDKey carries the request id from the HTTP layer into service logs
const CorrelationIDKey contextKey = "correlation_id"

// WithCorrelationID returns a context tagged with id for audit log lines
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, CorrelationIDKey, id)
}

type AuditLogger struct {
	logger *slog.Logger
}

func NewAuditLogger(logger *slog.Logger) AuditLoggerInterface {
	return &AuditLogger{
		logger: logger,
	}
}

func (al *AuditLogger) LogPostingApplied(ctx context.Context, userID uuid.UUID, t *models.Transaction) {
	al.logger.InfoContext(ctx, "posting applied",
		slog.String("event_type", "posting_applied"),
		slog.String("user_id", userID.String()),
		slog.String("transaction_id", t.ID.String()),
		slog.String("account_id", t.AccountID.String()),
		slog.String("kind", t.Kind.String()),
		slog.String("amount", t.Amount.StringFixed(2)),
		slog.Time("timestamp", time.Now()),
		slog.String("correlation_id", getCorrelationID(ctx)),
	)
}

func (al *AuditLogger) LogPostingReversed(ctx context.Context, userID uuid.UUID, t *models.Transaction) {
	al.logger.InfoContext(ctx, "posting reversed",
		slog.String("event_type", "posting_reversed"),
		slog.String("user_id", userID.String()),
		slog.String("transaction_id", t.ID.String()),
		slog.String("account_id", t.AccountID.String()),
		slog.String("kind", t.Kind.String()),
		slog.String("amount", t.Amount.StringFixed(2)),
		slog.Time("timestamp", time.Now()),
		slog.String("correlation_id", getCorrelationID(ctx)),
	)
}

func (al *AuditLogger) LogPostingRejected(ctx context.Context, userID uuid.UUID, operation string, err error) {
	al.logger.WarnContext(ctx, "posting rejected",
		slog.String("event_type", "posting_rejected"),
		slog.String("user_id", userID.String()),
		slog.String("operation", operation),
		slog.String("reason", KindOf(err).String()),
		slog.String("error", err.Error()),
		slog.Time("timestamp", time.Now()),
		slog.String("correlation_id", getCorrelationID(ctx)),
	)
}

func getCorrelationID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	if correlationID, ok := ctx.Value(CorrelationIDKey).(string); ok {
		return correlationID
	}

	return ""
}
