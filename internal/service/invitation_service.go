package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/divvy-app/backend/internal/lifecycle"
	"github.com/divvy-app/backend/internal/models"
	"github.com/divvy-app/backend/internal/storage"
)

// InvitationService implements the invite, accept, and decline use cases for
// pending group invitations.
type InvitationService struct {
	store       storage.Store
	registry    *lifecycle.Registry
	memberships *MembershipService
}

// NewInvitationService creates a new InvitationService.
func NewInvitationService(store storage.Store, registry *lifecycle.Registry, memberships *MembershipService) *InvitationService {
	return &InvitationService{store: store, registry: registry, memberships: memberships}
}

// Invite creates a pending invitation for a user to join a group. The
// member-invited notification fires after commit.
func (s *InvitationService) Invite(ctx context.Context, groupID, userID, invitedByID string) (*models.PendingInvitation, error) {
	slog.Info("Invite", "group_id", groupID, "user_id", userID, "invited_by", invitedByID)

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

	inv := &models.PendingInvitation{
		GroupID:     groupID,
		UserID:      userID,
		InvitedByID: invitedByID,
	}
	err := s.store.WithTx(ctx, func(tx storage.Store) error {
		evt := lifecycle.Event{
			Kind:    lifecycle.KindInvitation,
			Point:   lifecycle.BeforeSave,
			Created: true,
			Record:  inv,
			Store:   tx,
		}
		if err := s.registry.Fire(ctx, evt); err != nil {
			return err
		}
		return tx.CreateInvitation(ctx, inv)
	})
	if err != nil {
		slog.Error("Invite failed", "group_id", groupID, "user_id", userID, "error", err)
		return nil, err
	}

	notifyAfterSave(ctx, s.registry, s.store, lifecycle.KindInvitation, inv, true)
	return inv, nil
}

// Accept turns a pending invitation into a membership. The invitation
// delete and the membership creation (with its friendship and ledger
// fan-out) run in one transaction; the member-added notification fires after
// commit.
func (s *InvitationService) Accept(ctx context.Context, invitationID, userID string) (*models.Membership, error) {
	slog.Info("AcceptInvitation", "invitation_id", invitationID, "user_id", userID)

	inv, err := s.store.GetInvitation(ctx, invitationID)
	if err != nil {
		return nil, err
	}
	if inv.UserID != userID {
		return nil, ErrNotInvitee
	}

	m := &models.Membership{
		GroupID:   inv.GroupID,
		UserID:    inv.UserID,
		AddedByID: inv.InvitedByID,
	}
	err = s.store.WithTx(ctx, func(tx storage.Store) error {
		if err := tx.DeleteInvitation(ctx, inv.ID); err != nil {
			return err
		}
		return s.memberships.createInTx(ctx, tx, m)
	})
	if err != nil {
		slog.Error("AcceptInvitation failed", "invitation_id", invitationID, "error", err)
		return nil, err
	}

	notifyAfterSave(ctx, s.registry, s.store, lifecycle.KindMembership, m, true)
	return m, nil
}

// Decline removes a pending invitation without creating a membership.
func (s *InvitationService) Decline(ctx context.Context, invitationID, userID string) error {
	slog.Info("DeclineInvitation", "invitation_id", invitationID, "user_id", userID)

	inv, err := s.store.GetInvitation(ctx, invitationID)
	if err != nil {
		return err
	}
	if inv.UserID != userID {
		return ErrNotInvitee
	}
	return s.store.DeleteInvitation(ctx, inv.ID)
}
