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

// CreateGroupBalances bulk-inserts ledger rows. The UNIQUE(group_id,
// friendship_id) constraint rejects a second row for the same slot.
func (s *SQLiteStore) CreateGroupBalances(ctx context.Context, balances []*models.GroupBalance) error {
	now := time.Now().Unix()
	for _, b := range balances {
		if b.ID == "" {
			b.ID = uuid.New().String()
		}
		if b.CreatedAt == 0 {
			b.CreatedAt = now
		}
		if b.UpdatedAt == 0 {
			b.UpdatedAt = now
		}

		_, err := s.q.ExecContext(ctx,
			`INSERT INTO group_balances (id, group_id, friendship_id, amount, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			b.ID, b.GroupID, b.FriendshipID, b.Amount, b.CreatedAt, b.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert group balance: %w", err)
		}
	}
	return nil
}

// ListGroupBalances retrieves all balance rows of a group.
func (s *SQLiteStore) ListGroupBalances(ctx context.Context, groupID string) ([]*models.GroupBalance, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT id, group_id, friendship_id, amount, created_at, updated_at
		 FROM group_balances WHERE group_id = ?`, groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list group balances: %w", err)
	}
	return scanBalances(rows)
}

// ListMemberBalances retrieves the balance rows of a group whose friendship
// involves the given user.
func (s *SQLiteStore) ListMemberBalances(ctx context.Context, groupID, userID string) ([]*models.GroupBalance, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT b.id, b.group_id, b.friendship_id, b.amount, b.created_at, b.updated_at
		 FROM group_balances b
		 JOIN friendships f ON f.id = b.friendship_id
		 WHERE b.group_id = ? AND (f.user_a_id = ? OR f.user_b_id = ?)`,
		groupID, userID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list member balances: %w", err)
	}
	return scanBalances(rows)
}

// ListGroupBalanceEdges retrieves a group's balances joined with the user
// pair of each friendship.
func (s *SQLiteStore) ListGroupBalanceEdges(ctx context.Context, groupID string) ([]models.BalanceEdge, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT b.friendship_id, f.user_a_id, f.user_b_id, b.amount
		 FROM group_balances b
		 JOIN friendships f ON f.id = b.friendship_id
		 WHERE b.group_id = ?`, groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list balance edges: %w", err)
	}
	defer rows.Close()

	var edges []models.BalanceEdge
	for rows.Next() {
		var e models.BalanceEdge
		if err := rows.Scan(&e.FriendshipID, &e.UserAID, &e.UserBID, &e.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan balance edge: %w", err)
		}
		edges = append(edges, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate balance edges: %w", err)
	}
	return edges, nil
}

// AdjustGroupBalance adds delta to the ledger slot for (group, friendship).
func (s *SQLiteStore) AdjustGroupBalance(ctx context.Context, groupID, friendshipID string, delta float64) error {
	res, err := s.q.ExecContext(ctx,
		`UPDATE group_balances SET amount = amount + ?, updated_at = ?
		 WHERE group_id = ? AND friendship_id = ?`,
		delta, time.Now().Unix(), groupID, friendshipID,
	)
	if err != nil {
		return fmt.Errorf("failed to adjust group balance: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func scanBalances(rows *sql.Rows) ([]*models.GroupBalance, error) {
	defer rows.Close()

	var balances []*models.GroupBalance
	for rows.Next() {
		b := &models.GroupBalance{}
		if err := rows.Scan(&b.ID, &b.GroupID, &b.FriendshipID, &b.Amount, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan group balance: %w", err)
		}
		balances = append(balances, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate group balances: %w", err)
	}
	return balances, nil
}
