package service

import (
	"context"
	"fmt"

	"github.com/divvy-app/backend/internal/lifecycle"
	"github.com/divvy-app/backend/internal/metrics"
	"github.com/divvy-app/backend/internal/models"
)

// Reactions holds the rules bound to record lifecycle points: the settlement
// guards on deletion, the friendship/balance fan-out on membership creation,
// and the activity notifications after creation.
type Reactions struct {
	oracle     SettlementOracle
	friends    FriendshipFanout
	activities ActivityCreator
}

// NewReactions creates the reaction set over its collaborator services.
func NewReactions(oracle SettlementOracle, friends FriendshipFanout, activities ActivityCreator) *Reactions {
	return &Reactions{
		oracle:     oracle,
		friends:    friends,
		activities: activities,
	}
}

// Register binds every rule to its lifecycle point. One reaction per point
// per kind; bind order is the fire order.
func (r *Reactions) Register(reg *lifecycle.Registry) {
	reg.Bind(lifecycle.KindGroup, lifecycle.BeforeDelete, r.GuardGroupDeletion)
	reg.Bind(lifecycle.KindMembership, lifecycle.BeforeDelete, r.GuardMembershipDeletion)
	reg.Bind(lifecycle.KindMembership, lifecycle.BeforeSave, r.FanOutFriendships)
	reg.Bind(lifecycle.KindMembership, lifecycle.AfterSave, r.MemberAddedActivity)
	reg.Bind(lifecycle.KindGroup, lifecycle.AfterSave, r.GroupCreatedActivity)
	reg.Bind(lifecycle.KindInvitation, lifecycle.AfterSave, r.InvitationSentActivity)
}

// GuardGroupDeletion vetoes group deletion while any balance in the group is
// outstanding.
func (r *Reactions) GuardGroupDeletion(ctx context.Context, evt lifecycle.Event) error {
	group := evt.Record.(*models.Group)

	settled, err := r.oracle.IsGroupSettled(ctx, evt.Store, group.ID)
	if err != nil {
		return fmt.Errorf("settlement check for group %s: %w", group.ID, err)
	}
	if !settled {
		metrics.SettlementVetoes.WithLabelValues(string(lifecycle.KindGroup)).Inc()
		return ErrGroupUnsettled
	}
	return nil
}

// GuardMembershipDeletion vetoes leaving a group while the member has an
// outstanding balance in it.
func (r *Reactions) GuardMembershipDeletion(ctx context.Context, evt lifecycle.Event) error {
	m := evt.Record.(*models.Membership)

	settled, err := r.oracle.IsMemberSettled(ctx, evt.Store, m.GroupID, m.UserID)
	if err != nil {
		return fmt.Errorf("settlement check for member %s in group %s: %w", m.UserID, m.GroupID, err)
	}
	if !settled {
		metrics.SettlementVetoes.WithLabelValues(string(lifecycle.KindMembership)).Inc()
		return ErrMemberUnsettled
	}
	return nil
}

// FanOutFriendships runs before a membership save. On creation it links the
// joining user to every existing member and creates one ledger slot per
// resulting friendship not yet tracked in the group. The event fires inside the membership-creation
// transaction, so friendships, balance rows, and the membership itself
// commit or roll back as one unit. Saves of existing memberships are a
// no-op.
func (r *Reactions) FanOutFriendships(ctx context.Context, evt lifecycle.Event) error {
	if !evt.Created {
		return nil
	}
	m := evt.Record.(*models.Membership)

	// The membership row is not inserted yet, so this is the set of
	// existing members only; a first member fans out to nobody.
	members, err := evt.Store.ListGroupMembers(ctx, m.GroupID)
	if err != nil {
		return fmt.Errorf("failed to list members of group %s: %w", m.GroupID, err)
	}
	peerIDs := make([]string, 0, len(members))
	for _, member := range members {
		peerIDs = append(peerIDs, member.ID)
	}

	friendships, err := r.friends.BulkAddFriends(ctx, evt.Store, m.UserID, peerIDs)
	if err != nil {
		return fmt.Errorf("friendship fan-out for group %s: %w", m.GroupID, err)
	}
	if len(friendships) == 0 {
		return nil
	}
	metrics.FriendshipsFannedOut.Add(float64(len(friendships)))

	// A rejoin reintroduces friendships whose ledger slots survived the
	// member leaving; those slots are reused, not recreated.
	existing, err := evt.Store.ListGroupBalances(ctx, m.GroupID)
	if err != nil {
		return fmt.Errorf("failed to read balances of group %s: %w", m.GroupID, err)
	}
	occupied := make(map[string]bool, len(existing))
	for _, b := range existing {
		occupied[b.FriendshipID] = true
	}

	balances := make([]*models.GroupBalance, 0, len(friendships))
	for _, f := range friendships {
		if occupied[f.ID] {
			continue
		}
		balances = append(balances, &models.GroupBalance{
			GroupID:      m.GroupID,
			FriendshipID: f.ID,
		})
	}
	if len(balances) == 0 {
		return nil
	}
	if err := evt.Store.CreateGroupBalances(ctx, balances); err != nil {
		return fmt.Errorf("balance fan-out for group %s: %w", m.GroupID, err)
	}
	return nil
}

// MemberAddedActivity records a "member_added" feed entry after a membership
// is created, addressed to the full member set including the new member.
func (r *Reactions) MemberAddedActivity(ctx context.Context, evt lifecycle.Event) error {
	if !evt.Created {
		return nil
	}
	m := evt.Record.(*models.Membership)

	group, err := evt.Store.GetGroup(ctx, m.GroupID)
	if err != nil {
		return fmt.Errorf("failed to load group %s: %w", m.GroupID, err)
	}
	user, err := evt.Store.GetUserByID(ctx, m.UserID)
	if err != nil {
		return fmt.Errorf("failed to load user %s: %w", m.UserID, err)
	}
	addedBy, err := evt.Store.GetUserByID(ctx, m.AddedByID)
	if err != nil {
		return fmt.Errorf("failed to load user %s: %w", m.AddedByID, err)
	}
	recipients, err := memberIDs(ctx, evt)
	if err != nil {
		return err
	}

	_, err = r.activities.CreateActivity(ctx, evt.Store, models.ActivityMemberAdded, group.ID, recipients, map[string]any{
		"added_by":   addedBy.MiniProfile(),
		"user":       user.MiniProfile(),
		"group_name": group.Name,
	})
	return err
}

// GroupCreatedActivity records a "group_created" feed entry after a group is
// created.
func (r *Reactions) GroupCreatedActivity(ctx context.Context, evt lifecycle.Event) error {
	if !evt.Created {
		return nil
	}
	group := evt.Record.(*models.Group)

	creator, err := evt.Store.GetUserByID(ctx, group.CreatorID)
	if err != nil {
		return fmt.Errorf("failed to load user %s: %w", group.CreatorID, err)
	}
	recipients, err := memberIDsOf(ctx, evt, group.ID)
	if err != nil {
		return err
	}

	_, err = r.activities.CreateActivity(ctx, evt.Store, models.ActivityGroupCreated, group.ID, recipients, map[string]any{
		"creator":    creator.MiniProfile(),
		"group_name": group.Name,
	})
	return err
}

// InvitationSentActivity records a "member_invited" feed entry after a
// pending invitation is created, addressed to the group's current members.
func (r *Reactions) InvitationSentActivity(ctx context.Context, evt lifecycle.Event) error {
	if !evt.Created {
		return nil
	}
	inv := evt.Record.(*models.PendingInvitation)

	invited, err := evt.Store.GetUserByID(ctx, inv.UserID)
	if err != nil {
		return fmt.Errorf("failed to load user %s: %w", inv.UserID, err)
	}
	invitedBy, err := evt.Store.GetUserByID(ctx, inv.InvitedByID)
	if err != nil {
		return fmt.Errorf("failed to load user %s: %w", inv.InvitedByID, err)
	}
	recipients, err := memberIDsOf(ctx, evt, inv.GroupID)
	if err != nil {
		return err
	}

	_, err = r.activities.CreateActivity(ctx, evt.Store, models.ActivityMemberInvited, inv.GroupID, recipients, map[string]any{
		"invited_by":   invitedBy.MiniProfile(),
		"invited_user": invited.MiniProfile(),
	})
	return err
}

func memberIDs(ctx context.Context, evt lifecycle.Event) ([]string, error) {
	return memberIDsOf(ctx, evt, evt.Record.(*models.Membership).GroupID)
}

func memberIDsOf(ctx context.Context, evt lifecycle.Event, groupID string) ([]string, error) {
	members, err := evt.Store.ListGroupMembers(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members of group %s: %w", groupID, err)
	}
	ids := make([]string, 0, len(members))
	for _, member := range members {
		ids = append(ids, member.ID)
	}
	return ids, nil
}
