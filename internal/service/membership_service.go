package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/divvy-app/backend/internal/lifecycle"
	"github.com/divvy-app/backend/internal/models"
	"github.com/divvy-app/backend/internal/storage"
)

// MembershipService implements the join-group and leave-group use cases,
// firing the membership lifecycle points around each store write.
type MembershipService struct {
	store    storage.Store
	registry *lifecycle.Registry
}

// NewMembershipService creates a new MembershipService.
func NewMembershipService(store storage.Store, registry *lifecycle.Registry) *MembershipService {
	return &MembershipService{store: store, registry: registry}
}

// AddMember joins a user to a group. The before-save fan-out (friendships
// and ledger slots) runs in the same transaction as the membership insert,
// so all of it commits or none of it does. The member-added notification
// fires after commit.
func (s *MembershipService) AddMember(ctx context.Context, groupID, userID, addedByID string) (*models.Membership, error) {
	slog.Info("AddMember", "group_id", groupID, "user_id", userID, "added_by", addedByID)

	if _, err := s.store.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}
	if _, err := s.store.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}
	if _, err := s.store.GetMembership(ctx, groupID, userID); err == nil {
		return nil, ErrAlreadyMember
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	m := &models.Membership{
		GroupID:   groupID,
		UserID:    userID,
		AddedByID: addedByID,
	}
	err := s.store.WithTx(ctx, func(tx storage.Store) error {
		return s.createInTx(ctx, tx, m)
	})
	if err != nil {
		slog.Error("AddMember failed", "group_id", groupID, "user_id", userID, "error", err)
		return nil, err
	}

	notifyAfterSave(ctx, s.registry, s.store, lifecycle.KindMembership, m, true)
	return m, nil
}

// createInTx fires the before-save point and inserts the membership against
// the given (transaction-bound) store. Shared with invitation acceptance so
// that path joins the same atomic unit.
func (s *MembershipService) createInTx(ctx context.Context, tx storage.Store, m *models.Membership) error {
	evt := lifecycle.Event{
		Kind:    lifecycle.KindMembership,
		Point:   lifecycle.BeforeSave,
		Created: true,
		Record:  m,
		Store:   tx,
	}
	if err := s.registry.Fire(ctx, evt); err != nil {
		return err
	}
	return tx.CreateMembership(ctx, m)
}

// Update saves changes to an existing membership. The before-save point
// fires with Created false, so creation-only reactions stay quiet.
func (s *MembershipService) Update(ctx context.Context, m *models.Membership) error {
	err := s.store.WithTx(ctx, func(tx storage.Store) error {
		evt := lifecycle.Event{
			Kind:    lifecycle.KindMembership,
			Point:   lifecycle.BeforeSave,
			Created: false,
			Record:  m,
			Store:   tx,
		}
		if err := s.registry.Fire(ctx, evt); err != nil {
			return err
		}
		return tx.UpdateMembership(ctx, m)
	})
	if err != nil {
		return fmt.Errorf("failed to update membership %s: %w", m.ID, err)
	}

	notifyAfterSave(ctx, s.registry, s.store, lifecycle.KindMembership, m, false)
	return nil
}

// RemoveMember removes a user from a group. The settlement guard fires
// inside the delete transaction; its veto aborts the removal entirely.
func (s *MembershipService) RemoveMember(ctx context.Context, groupID, userID string) error {
	slog.Info("RemoveMember", "group_id", groupID, "user_id", userID)

	m, err := s.store.GetMembership(ctx, groupID, userID)
	if err != nil {
		return err
	}

	err = s.store.WithTx(ctx, func(tx storage.Store) error {
		evt := lifecycle.Event{
			Kind:   lifecycle.KindMembership,
			Point:  lifecycle.BeforeDelete,
			Record: m,
			Store:  tx,
		}
		if err := s.registry.Fire(ctx, evt); err != nil {
			return err
		}
		return tx.DeleteMembership(ctx, groupID, userID)
	})
	if err != nil {
		slog.Warn("RemoveMember blocked", "group_id", groupID, "user_id", userID, "error", err)
		return err
	}
	return nil
}
