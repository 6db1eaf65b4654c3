package service

import (
	"context"
	"log/slog"

	"github.com/divvy-app/backend/internal/models"
	"github.com/divvy-app/backend/internal/storage"
)

// FriendshipFanout creates any missing friendships between a user and a set
// of peers and returns the full resulting set, new and pre-existing alike.
// Implementations must be idempotent: existing friendships are returned, not
// errors. The store parameter lets the fan-out join the caller's transaction.
type FriendshipFanout interface {
	BulkAddFriends(ctx context.Context, store storage.Store, userID string, peerIDs []string) ([]*models.Friendship, error)
}

// FriendshipService implements FriendshipFanout over the friendships table.
type FriendshipService struct {
	store storage.Store
}

// NewFriendshipService creates the friendship service over the root store.
func NewFriendshipService(store storage.Store) *FriendshipService {
	return &FriendshipService{store: store}
}

// BulkAddFriends links the user to every peer, reusing existing friendships.
// Writes go through the passed store rather than the root one so the fan-out
// joins the caller's transaction.
func (s *FriendshipService) BulkAddFriends(ctx context.Context, store storage.Store, userID string, peerIDs []string) ([]*models.Friendship, error) {
	friendships, err := store.BulkAddFriendships(ctx, userID, peerIDs)
	if err != nil {
		return nil, err
	}
	slog.Debug("friendship fan-out", "user_id", userID, "peers", len(peerIDs), "friendships", len(friendships))
	return friendships, nil
}

// ListFriends retrieves every friendship involving the user.
func (s *FriendshipService) ListFriends(ctx context.Context, userID string) ([]*models.Friendship, error) {
	return s.store.ListFriendshipsForUser(ctx, userID)
}
