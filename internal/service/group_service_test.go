package service

import (
	"context"
	"errors"
	"testing"

	"github.com/divvy-app/backend/internal/lifecycle"
	"github.com/divvy-app/backend/internal/models"
	"github.com/divvy-app/backend/internal/storage"
)

func TestDeleteGroupSettlementGuard(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.createUser(t, "alice@example.com", "Alice")
	bob := env.createUser(t, "bob@example.com", "Bob")

	group, err := env.groups.Create(ctx, "Trip", alice.ID)
	if err != nil {
		t.Fatalf("Create group failed: %v", err)
	}
	if _, err := env.memberships.AddMember(ctx, group.ID, bob.ID, alice.ID); err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}

	edges, err := env.store.ListGroupBalanceEdges(ctx, group.ID)
	if err != nil {
		t.Fatalf("ListGroupBalanceEdges failed: %v", err)
	}
	if len(edges) != 1 {
		t.Fatalf("expected 1 balance row, got %d", len(edges))
	}
	friendshipID := edges[0].FriendshipID

	if err := env.groups.AdjustBalance(ctx, group.ID, friendshipID, 42.50); err != nil {
		t.Fatalf("AdjustBalance failed: %v", err)
	}

	err = env.groups.Delete(ctx, group.ID)
	if !errors.Is(err, ErrGroupUnsettled) {
		t.Fatalf("expected ErrGroupUnsettled, got %v", err)
	}
	if _, err := env.store.GetGroup(ctx, group.ID); err != nil {
		t.Fatalf("vetoed delete should leave the group intact: %v", err)
	}

	// Settling the balance lifts the veto.
	if err := env.groups.AdjustBalance(ctx, group.ID, friendshipID, -42.50); err != nil {
		t.Fatalf("AdjustBalance failed: %v", err)
	}
	if err := env.groups.Delete(ctx, group.ID); err != nil {
		t.Fatalf("Delete of settled group failed: %v", err)
	}
	if _, err := env.store.GetGroup(ctx, group.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected group to be gone, got %v", err)
	}
}

func TestDeleteGroupWithNoBalances(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.createUser(t, "alice@example.com", "Alice")
	group, err := env.groups.Create(ctx, "Solo", alice.ID)
	if err != nil {
		t.Fatalf("Create group failed: %v", err)
	}

	// A creator-only group has no balance rows at all; it counts as settled.
	if err := env.groups.Delete(ctx, group.ID); err != nil {
		t.Fatalf("Delete of empty group failed: %v", err)
	}
	if _, err := env.store.GetMembership(ctx, group.ID, alice.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected creator membership to cascade away, got %v", err)
	}
}

func TestCreateGroupProducesActivity(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.createUser(t, "alice@example.com", "Alice")
	group, err := env.groups.Create(ctx, "Ski Weekend", alice.ID)
	if err != nil {
		t.Fatalf("Create group failed: %v", err)
	}

	created := env.activitiesByType(t, group.ID, models.ActivityGroupCreated)
	if len(created) != 1 {
		t.Fatalf("expected exactly 1 group_created activity, got %d", len(created))
	}
	act := created[0]
	if len(act.RecipientIDs) != 1 || act.RecipientIDs[0] != alice.ID {
		t.Errorf("expected the creator as sole recipient, got %v", act.RecipientIDs)
	}
	if got := profileName(t, act.Metadata, "creator"); got != "Alice" {
		t.Errorf("creator profile = %q, want Alice", got)
	}
	if name, _ := act.Metadata["group_name"].(string); name != "Ski Weekend" {
		t.Errorf("group_name = %q, want Ski Weekend", name)
	}

	// The creator's own membership also lands one member_added entry.
	added := env.activitiesByType(t, group.ID, models.ActivityMemberAdded)
	if len(added) != 1 {
		t.Errorf("expected 1 member_added activity for the creator, got %d", len(added))
	}
}

func TestGroupSaveOfExistingRecordSkipsActivity(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.createUser(t, "alice@example.com", "Alice")
	group, err := env.groups.Create(ctx, "Brunch Club", alice.ID)
	if err != nil {
		t.Fatalf("Create group failed: %v", err)
	}
	before := len(env.activitiesByType(t, group.ID, models.ActivityGroupCreated))

	// An after-save of an existing group must not notify again.
	evt := lifecycle.Event{
		Kind:    lifecycle.KindGroup,
		Point:   lifecycle.AfterSave,
		Created: false,
		Record:  group,
		Store:   env.store,
	}
	if err := env.registry.Fire(ctx, evt); err != nil {
		t.Fatalf("Fire failed: %v", err)
	}

	after := len(env.activitiesByType(t, group.ID, models.ActivityGroupCreated))
	if after != before {
		t.Errorf("expected no new group_created activity, got %d -> %d", before, after)
	}
}

func TestBalanceSheetNetPositions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.createUser(t, "alice@example.com", "Alice")
	bob := env.createUser(t, "bob@example.com", "Bob")

	group, err := env.groups.Create(ctx, "Dinner", alice.ID)
	if err != nil {
		t.Fatalf("Create group failed: %v", err)
	}
	if _, err := env.memberships.AddMember(ctx, group.ID, bob.ID, alice.ID); err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}

	edges, err := env.store.ListGroupBalanceEdges(ctx, group.ID)
	if err != nil {
		t.Fatalf("ListGroupBalanceEdges failed: %v", err)
	}
	if err := env.groups.AdjustBalance(ctx, group.ID, edges[0].FriendshipID, 30); err != nil {
		t.Fatalf("AdjustBalance failed: %v", err)
	}

	edges, net, err := env.groups.BalanceSheet(ctx, group.ID)
	if err != nil {
		t.Fatalf("BalanceSheet failed: %v", err)
	}
	if len(edges) != 1 || edges[0].Amount != 30 {
		t.Fatalf("unexpected edges: %+v", edges)
	}
	// Positive amount means user A is owed by user B.
	if net[edges[0].UserAID] != 30 || net[edges[0].UserBID] != -30 {
		t.Errorf("unexpected net positions: %v", net)
	}
}
