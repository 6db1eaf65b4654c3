// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/divvy-app/backend/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Store defines the interface for record storage operations. This
// abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	// WithTx runs fn against a store bound to a single transaction. The
	// transaction commits when fn returns nil and rolls back when it
	// returns an error, so every write fn makes applies as one unit or not
	// at all. Calling WithTx on a store that is already transaction-bound
	// reuses the open transaction.
	WithTx(ctx context.Context, fn func(tx Store) error) error

	// CreateUser persists a new user. Populates ID and timestamps if unset.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByID retrieves a user by ID. Returns ErrNotFound if absent.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// GetUserByEmail retrieves a user by email. Returns ErrNotFound if
	// absent.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// CreateGroup persists a new group. Populates ID and CreatedAt if unset.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group by ID. Returns ErrNotFound if absent.
	GetGroup(ctx context.Context, id string) (*models.Group, error)

	// DeleteGroup removes a group and, by cascade, its memberships,
	// invitations, and balance rows.
	DeleteGroup(ctx context.Context, id string) error

	// ListGroupsForUser retrieves the groups a user is a member of.
	ListGroupsForUser(ctx context.Context, userID string) ([]*models.Group, error)

	// ListGroupMembers retrieves the current members of a group, ordered by
	// display name.
	ListGroupMembers(ctx context.Context, groupID string) ([]*models.User, error)

	// CreateMembership persists a new membership.
	CreateMembership(ctx context.Context, m *models.Membership) error

	// UpdateMembership updates an existing membership.
	UpdateMembership(ctx context.Context, m *models.Membership) error

	// GetMembership retrieves the membership joining a group and a user.
	// Returns ErrNotFound if the user is not a member.
	GetMembership(ctx context.Context, groupID, userID string) (*models.Membership, error)

	// DeleteMembership removes the membership joining a group and a user.
	DeleteMembership(ctx context.Context, groupID, userID string) error

	// CreateInvitation persists a new pending invitation.
	CreateInvitation(ctx context.Context, inv *models.PendingInvitation) error

	// GetInvitation retrieves an invitation by ID. Returns ErrNotFound if
	// absent.
	GetInvitation(ctx context.Context, id string) (*models.PendingInvitation, error)

	// DeleteInvitation removes an invitation by ID.
	DeleteInvitation(ctx context.Context, id string) error

	// BulkAddFriendships inserts any missing friendships between userID and
	// each peer, then returns the complete resulting set (new and
	// pre-existing rows). Already-existing pairs are not an error, and the
	// user themselves is skipped if present among the peers.
	BulkAddFriendships(ctx context.Context, userID string, peerIDs []string) ([]*models.Friendship, error)

	// ListFriendshipsForUser retrieves every friendship involving the user.
	ListFriendshipsForUser(ctx context.Context, userID string) ([]*models.Friendship, error)

	// CreateGroupBalances bulk-inserts ledger rows. Each (group,
	// friendship) pair may have at most one row.
	CreateGroupBalances(ctx context.Context, rows []*models.GroupBalance) error

	// ListGroupBalances retrieves all balance rows of a group.
	ListGroupBalances(ctx context.Context, groupID string) ([]*models.GroupBalance, error)

	// ListMemberBalances retrieves the balance rows of a group whose
	// friendship involves the given user.
	ListMemberBalances(ctx context.Context, groupID, userID string) ([]*models.GroupBalance, error)

	// ListGroupBalanceEdges retrieves a group's balances joined with the
	// user pair of each friendship.
	ListGroupBalanceEdges(ctx context.Context, groupID string) ([]models.BalanceEdge, error)

	// AdjustGroupBalance adds delta to the balance row for (group,
	// friendship). Returns ErrNotFound if no such row exists.
	AdjustGroupBalance(ctx context.Context, groupID, friendshipID string, delta float64) error

	// CreateActivity persists a feed entry and its recipient fan-out.
	CreateActivity(ctx context.Context, activity *models.Activity) error

	// ListGroupActivities retrieves a group's feed entries, newest first.
	ListGroupActivities(ctx context.Context, groupID string) ([]*models.Activity, error)

	// Close releases any resources held by the store.
	Close() error
}
