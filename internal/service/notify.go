package service

import (
	"context"
	"log/slog"

	"github.com/divvy-app/backend/internal/lifecycle"
	"github.com/divvy-app/backend/internal/metrics"
	"github.com/divvy-app/backend/internal/storage"
)

// notifyAfterSave fires the after-save point for a record whose primary write
// already committed. Failures here are best-effort notifications: they are
// logged and counted, never surfaced to the caller, so a broken activity feed
// cannot fail group or membership writes.
func notifyAfterSave(ctx context.Context, reg *lifecycle.Registry, store storage.Store, kind lifecycle.Kind, record any, created bool) {
	err := reg.Fire(ctx, lifecycle.Event{
		Kind:    kind,
		Point:   lifecycle.AfterSave,
		Created: created,
		Record:  record,
		Store:   store,
	})
	if err != nil {
		metrics.NotificationFailures.WithLabelValues(string(kind)).Inc()
		slog.Warn("post-save reaction failed", "kind", kind, "error", err)
	}
}
