package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/divvy-app/backend/internal/models"
)

// BulkAddFriendships inserts any missing friendships between userID and each
// peer, then selects back the complete resulting set. Pairs are stored in
// canonical order, inserts use INSERT OR IGNORE, so pre-existing friendships
// are returned rather than erroring.
func (s *SQLiteStore) BulkAddFriendships(ctx context.Context, userID string, peerIDs []string) ([]*models.Friendship, error) {
	now := time.Now().Unix()

	seen := make(map[string]bool, len(peerIDs))
	var pairs [][2]string
	for _, peer := range peerIDs {
		if peer == userID || peer == "" || seen[peer] {
			continue
		}
		seen[peer] = true
		a, b := models.OrderPair(userID, peer)
		pairs = append(pairs, [2]string{a, b})
	}
	if len(pairs) == 0 {
		return nil, nil
	}

	for _, p := range pairs {
		_, err := s.q.ExecContext(ctx,
			`INSERT OR IGNORE INTO friendships (id, user_a_id, user_b_id, created_at)
			 VALUES (?, ?, ?, ?)`,
			uuid.New().String(), p[0], p[1], now,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to insert friendship: %w", err)
		}
	}

	// Select the full set back so callers see pre-existing rows too.
	query := fmt.Sprintf(
		`SELECT id, user_a_id, user_b_id, created_at
		 FROM friendships
		 WHERE (user_a_id = ? AND user_b_id IN (%s))
		    OR (user_b_id = ? AND user_a_id IN (%s))`,
		placeholders(len(pairs)), placeholders(len(pairs)),
	)
	args := make([]any, 0, 2*len(pairs)+2)
	args = append(args, userID)
	for _, p := range pairs {
		args = append(args, other(p, userID))
	}
	args = append(args, userID)
	for _, p := range pairs {
		args = append(args, other(p, userID))
	}

	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select friendships: %w", err)
	}
	defer rows.Close()

	var friendships []*models.Friendship
	for rows.Next() {
		f := &models.Friendship{}
		if err := rows.Scan(&f.ID, &f.UserAID, &f.UserBID, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan friendship: %w", err)
		}
		friendships = append(friendships, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate friendships: %w", err)
	}
	return friendships, nil
}

// ListFriendshipsForUser retrieves every friendship involving the user.
func (s *SQLiteStore) ListFriendshipsForUser(ctx context.Context, userID string) ([]*models.Friendship, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT id, user_a_id, user_b_id, created_at
		 FROM friendships
		 WHERE user_a_id = ? OR user_b_id = ?
		 ORDER BY created_at, id`,
		userID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list friendships: %w", err)
	}
	defer rows.Close()

	var friendships []*models.Friendship
	for rows.Next() {
		f := &models.Friendship{}
		if err := rows.Scan(&f.ID, &f.UserAID, &f.UserBID, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan friendship: %w", err)
		}
		friendships = append(friendships, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate friendships: %w", err)
	}
	return friendships, nil
}

// placeholders returns n comma-separated SQL placeholders.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

// other returns the member of the pair that is not userID.
func other(pair [2]string, userID string) string {
	if pair[0] == userID {
		return pair[1]
	}
	return pair[0]
}
