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

// CreateMembership inserts a new membership into the database.
func (s *SQLiteStore) CreateMembership(ctx context.Context, m *models.Membership) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if m.CreatedAt == 0 {
		m.CreatedAt = now
	}
	if m.UpdatedAt == 0 {
		m.UpdatedAt = now
	}

	_, err := s.q.ExecContext(ctx,
		`INSERT INTO memberships (id, group_id, user_id, added_by_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		m.ID, m.GroupID, m.UserID, m.AddedByID, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create membership: %w", err)
	}
	return nil
}

// UpdateMembership updates an existing membership.
func (s *SQLiteStore) UpdateMembership(ctx context.Context, m *models.Membership) error {
	m.UpdatedAt = time.Now().Unix()

	res, err := s.q.ExecContext(ctx,
		"UPDATE memberships SET added_by_id = ?, updated_at = ? WHERE id = ?",
		m.AddedByID, m.UpdatedAt, m.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update membership: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// GetMembership retrieves the membership joining a group and a user.
func (s *SQLiteStore) GetMembership(ctx context.Context, groupID, userID string) (*models.Membership, error) {
	m := &models.Membership{}
	err := s.q.QueryRowContext(ctx,
		`SELECT id, group_id, user_id, added_by_id, created_at, updated_at
		 FROM memberships WHERE group_id = ? AND user_id = ?`,
		groupID, userID,
	).Scan(&m.ID, &m.GroupID, &m.UserID, &m.AddedByID, &m.CreatedAt, &m.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}
	return m, nil
}

// DeleteMembership removes the membership joining a group and a user.
func (s *SQLiteStore) DeleteMembership(ctx context.Context, groupID, userID string) error {
	res, err := s.q.ExecContext(ctx,
		"DELETE FROM memberships WHERE group_id = ? AND user_id = ?",
		groupID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete membership: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return storage.ErrNotFound
	}
	return nil
}
