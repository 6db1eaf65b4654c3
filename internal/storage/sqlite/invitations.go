package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/divvy-app/backend/internal/models"
	"github.com/divvy-app/backend/internal/storage"
)

// CreateInvitation inserts a new pending invitation into the database.
func (s *SQLiteStore) CreateInvitation(ctx context.Context, inv *models.PendingInvitation) error {
	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}
	if inv.CreatedAt == 0 {
		inv.CreatedAt = time.Now().Unix()
	}

	_, err := s.q.ExecContext(ctx,
		`INSERT INTO pending_invitations (id, group_id, user_id, invited_by_id, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		inv.ID, inv.GroupID, inv.UserID, inv.InvitedByID, inv.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create invitation: %w", err)
	}
	return nil
}

// GetInvitation retrieves a pending invitation by ID.
func (s *SQLiteStore) GetInvitation(ctx context.Context, id string) (*models.PendingInvitation, error) {
	inv := &models.PendingInvitation{}
	err := s.q.QueryRowContext(ctx,
		`SELECT id, group_id, user_id, invited_by_id, created_at
		 FROM pending_invitations WHERE id = ?`, id,
	).Scan(&inv.ID, &inv.GroupID, &inv.UserID, &inv.InvitedByID, &inv.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get invitation: %w", err)
	}
	return inv, nil
}

// DeleteInvitation removes a pending invitation by ID.
func (s *SQLiteStore) DeleteInvitation(ctx context.Context, id string) error {
	res, err := s.q.ExecContext(ctx, "DELETE FROM pending_invitations WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete invitation: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return storage.ErrNotFound
	}
	return nil
}
