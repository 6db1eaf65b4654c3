package service

import (
	"context"
	"log/slog"

	"github.com/divvy-app/backend/internal/calculator"
	"github.com/divvy-app/backend/internal/lifecycle"
	"github.com/divvy-app/backend/internal/models"
	"github.com/divvy-app/backend/internal/storage"
)

// GroupService implements the group use cases, firing the group lifecycle
// points around each store write.
type GroupService struct {
	store       storage.Store
	registry    *lifecycle.Registry
	memberships *MembershipService
}

// NewGroupService creates a new GroupService.
func NewGroupService(store storage.Store, registry *lifecycle.Registry, memberships *MembershipService) *GroupService {
	return &GroupService{store: store, registry: registry, memberships: memberships}
}

// Create creates a group and joins the creator as its first member, in one
// transaction. The group-created notification fires after commit, addressed
// to the member set at that point (the creator).
func (s *GroupService) Create(ctx context.Context, name, creatorID string) (*models.Group, error) {
	slog.Info("CreateGroup", "name", name, "creator_id", creatorID)

	if _, err := s.store.GetUserByID(ctx, creatorID); err != nil {
		return nil, err
	}

	group := &models.Group{Name: name, CreatorID: creatorID}
	creatorMembership := &models.Membership{UserID: creatorID, AddedByID: creatorID}

	err := s.store.WithTx(ctx, func(tx storage.Store) error {
		evt := lifecycle.Event{
			Kind:    lifecycle.KindGroup,
			Point:   lifecycle.BeforeSave,
			Created: true,
			Record:  group,
			Store:   tx,
		}
		if err := s.registry.Fire(ctx, evt); err != nil {
			return err
		}
		if err := tx.CreateGroup(ctx, group); err != nil {
			return err
		}
		creatorMembership.GroupID = group.ID
		return s.memberships.createInTx(ctx, tx, creatorMembership)
	})
	if err != nil {
		slog.Error("CreateGroup failed", "name", name, "error", err)
		return nil, err
	}

	notifyAfterSave(ctx, s.registry, s.store, lifecycle.KindGroup, group, true)
	notifyAfterSave(ctx, s.registry, s.store, lifecycle.KindMembership, creatorMembership, true)

	slog.Info("Group created", "group_id", group.ID)
	return group, nil
}

// Get retrieves a group by ID.
func (s *GroupService) Get(ctx context.Context, id string) (*models.Group, error) {
	return s.store.GetGroup(ctx, id)
}

// ListForUser retrieves the groups a user belongs to.
func (s *GroupService) ListForUser(ctx context.Context, userID string) ([]*models.Group, error) {
	return s.store.ListGroupsForUser(ctx, userID)
}

// Members retrieves the current members of a group.
func (s *GroupService) Members(ctx context.Context, groupID string) ([]*models.User, error) {
	if _, err := s.store.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}
	return s.store.ListGroupMembers(ctx, groupID)
}

// Delete removes a group. The settlement guard fires inside the delete
// transaction; its veto aborts the removal entirely. Memberships,
// invitations, and balance rows cascade with the group.
func (s *GroupService) Delete(ctx context.Context, id string) error {
	slog.Info("DeleteGroup", "group_id", id)

	group, err := s.store.GetGroup(ctx, id)
	if err != nil {
		return err
	}

	err = s.store.WithTx(ctx, func(tx storage.Store) error {
		evt := lifecycle.Event{
			Kind:   lifecycle.KindGroup,
			Point:  lifecycle.BeforeDelete,
			Record: group,
			Store:  tx,
		}
		if err := s.registry.Fire(ctx, evt); err != nil {
			return err
		}
		return tx.DeleteGroup(ctx, id)
	})
	if err != nil {
		slog.Warn("DeleteGroup blocked", "group_id", id, "error", err)
		return err
	}

	slog.Info("Group deleted", "group_id", id)
	return nil
}

// BalanceSheet returns a group's pairwise balances and the net position per
// member (positive = owed money, negative = owes money).
func (s *GroupService) BalanceSheet(ctx context.Context, groupID string) ([]models.BalanceEdge, map[string]float64, error) {
	if _, err := s.store.GetGroup(ctx, groupID); err != nil {
		return nil, nil, err
	}

	edges, err := s.store.ListGroupBalanceEdges(ctx, groupID)
	if err != nil {
		return nil, nil, err
	}

	calcEdges := make([]calculator.BalanceEdge, len(edges))
	for i, e := range edges {
		calcEdges[i] = calculator.BalanceEdge{UserAID: e.UserAID, UserBID: e.UserBID, Amount: e.Amount}
	}
	return edges, calculator.NetPositions(calcEdges), nil
}

// AdjustBalance adds delta to the ledger slot for (group, friendship). This
// is how expense and settlement entries recorded elsewhere in the app move
// the pairwise balances the deletion guards read.
func (s *GroupService) AdjustBalance(ctx context.Context, groupID, friendshipID string, delta float64) error {
	return s.store.AdjustGroupBalance(ctx, groupID, friendshipID, delta)
}

// Activities retrieves a group's feed entries, newest first.
func (s *GroupService) Activities(ctx context.Context, groupID string) ([]*models.Activity, error) {
	if _, err := s.store.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}
	return s.store.ListGroupActivities(ctx, groupID)
}
