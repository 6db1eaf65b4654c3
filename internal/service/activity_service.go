package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/divvy-app/backend/internal/metrics"
	"github.com/divvy-app/backend/internal/models"
	"github.com/divvy-app/backend/internal/storage"
)

// ActivityCreator persists feed entries.
type ActivityCreator interface {
	CreateActivity(ctx context.Context, store storage.Store, typ, groupID string, recipientIDs []string, metadata map[string]any) (*models.Activity, error)
}

// ActivityService implements ActivityCreator over the activities tables.
type ActivityService struct{}

// NewActivityService creates the activity feed service.
func NewActivityService() *ActivityService {
	return &ActivityService{}
}

// CreateActivity persists one feed entry addressed to the recipients.
func (s *ActivityService) CreateActivity(ctx context.Context, store storage.Store, typ, groupID string, recipientIDs []string, metadata map[string]any) (*models.Activity, error) {
	activity := &models.Activity{
		Type:         typ,
		GroupID:      groupID,
		RecipientIDs: recipientIDs,
		Metadata:     metadata,
	}
	if err := store.CreateActivity(ctx, activity); err != nil {
		return nil, fmt.Errorf("failed to record %s activity: %w", typ, err)
	}

	metrics.ActivitiesCreated.WithLabelValues(typ).Inc()
	slog.Debug("activity recorded", "type", typ, "group_id", groupID, "recipients", len(recipientIDs))
	return activity, nil
}
