package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/divvy-app/backend/internal/models"
	"github.com/divvy-app/backend/internal/storage"
)

// CreateActivity inserts a feed entry and its recipient fan-out rows in one
// transaction. Metadata is stored as JSON.
func (s *SQLiteStore) CreateActivity(ctx context.Context, activity *models.Activity) error {
	if activity.ID == "" {
		activity.ID = uuid.New().String()
	}
	if activity.CreatedAt == 0 {
		activity.CreatedAt = time.Now().Unix()
	}

	metadata, err := json.Marshal(activity.Metadata)
	if err != nil {
		return fmt.Errorf("failed to encode activity metadata: %w", err)
	}

	var groupID any
	if activity.GroupID != "" {
		groupID = activity.GroupID
	}

	return s.WithTx(ctx, func(tx storage.Store) error {
		st := tx.(*SQLiteStore)
		_, err := st.q.ExecContext(ctx,
			`INSERT INTO activities (id, type, group_id, metadata, created_at)
			 VALUES (?, ?, ?, ?, ?)`,
			activity.ID, activity.Type, groupID, string(metadata), activity.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert activity: %w", err)
		}

		for _, userID := range activity.RecipientIDs {
			_, err := st.q.ExecContext(ctx,
				"INSERT OR IGNORE INTO activity_recipients (activity_id, user_id) VALUES (?, ?)",
				activity.ID, userID,
			)
			if err != nil {
				return fmt.Errorf("failed to insert activity recipient: %w", err)
			}
		}
		return nil
	})
}

// ListGroupActivities retrieves a group's feed entries, newest first.
func (s *SQLiteStore) ListGroupActivities(ctx context.Context, groupID string) ([]*models.Activity, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT id, type, group_id, metadata, created_at
		 FROM activities WHERE group_id = ?
		 ORDER BY created_at DESC, id`, groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	defer rows.Close()

	var activities []*models.Activity
	for rows.Next() {
		a := &models.Activity{}
		var groupID sql.NullString
		var metadata string
		if err := rows.Scan(&a.ID, &a.Type, &groupID, &metadata, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		a.GroupID = groupID.String
		if err := json.Unmarshal([]byte(metadata), &a.Metadata); err != nil {
			return nil, fmt.Errorf("failed to decode activity metadata: %w", err)
		}
		activities = append(activities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate activities: %w", err)
	}

	for _, a := range activities {
		recipients, err := s.listActivityRecipients(ctx, a.ID)
		if err != nil {
			return nil, err
		}
		a.RecipientIDs = recipients
	}
	return activities, nil
}

func (s *SQLiteStore) listActivityRecipients(ctx context.Context, activityID string) ([]string, error) {
	rows, err := s.q.QueryContext(ctx,
		"SELECT user_id FROM activity_recipients WHERE activity_id = ? ORDER BY user_id", activityID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity recipients: %w", err)
	}
	defer rows.Close()

	var recipients []string
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return nil, fmt.Errorf("failed to scan recipient: %w", err)
		}
		recipients = append(recipients, userID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate recipients: %w", err)
	}
	return recipients, nil
}
