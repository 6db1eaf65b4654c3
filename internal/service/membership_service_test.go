package service

import (
	"context"
	"errors"
	"testing"

	"github.com/divvy-app/backend/internal/lifecycle"
	"github.com/divvy-app/backend/internal/models"
	"github.com/divvy-app/backend/internal/storage"
)

func TestAddMemberFansOutFriendshipsAndBalances(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.createUser(t, "alice@example.com", "Alice")
	bob := env.createUser(t, "bob@example.com", "Bob")
	carol := env.createUser(t, "carol@example.com", "Carol")

	group, err := env.groups.Create(ctx, "Roommates", alice.ID)
	if err != nil {
		t.Fatalf("Create group failed: %v", err)
	}

	if _, err := env.memberships.AddMember(ctx, group.ID, bob.ID, alice.ID); err != nil {
		t.Fatalf("AddMember(bob) failed: %v", err)
	}

	edges, err := env.store.ListGroupBalanceEdges(ctx, group.ID)
	if err != nil {
		t.Fatalf("ListGroupBalanceEdges failed: %v", err)
	}
	if len(edges) != 1 {
		t.Fatalf("after bob joins a 1-member group: expected 1 balance row, got %d", len(edges))
	}

	// Carol joins a 2-member group: one friendship and one ledger slot per
	// existing member.
	if _, err := env.memberships.AddMember(ctx, group.ID, carol.ID, alice.ID); err != nil {
		t.Fatalf("AddMember(carol) failed: %v", err)
	}

	edges, err = env.store.ListGroupBalanceEdges(ctx, group.ID)
	if err != nil {
		t.Fatalf("ListGroupBalanceEdges failed: %v", err)
	}
	if len(edges) != 3 {
		t.Fatalf("expected 3 balance rows total, got %d", len(edges))
	}

	seen := make(map[string]bool)
	for _, e := range edges {
		if seen[e.FriendshipID] {
			t.Errorf("friendship %s has more than one ledger slot", e.FriendshipID)
		}
		seen[e.FriendshipID] = true
		if e.Amount != 0 {
			t.Errorf("new ledger slot should start at zero, got %v", e.Amount)
		}
	}

	friendships, err := env.store.ListFriendshipsForUser(ctx, carol.ID)
	if err != nil {
		t.Fatalf("ListFriendshipsForUser failed: %v", err)
	}
	if len(friendships) != 2 {
		t.Errorf("expected carol linked to 2 members, got %d friendships", len(friendships))
	}
}

func TestAddMemberIntoEmptyGroup(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.createUser(t, "alice@example.com", "Alice")

	// Creating a group joins the creator into a group with zero existing
	// members: no friendships, no balance rows, no error.
	group, err := env.groups.Create(ctx, "Solo", alice.ID)
	if err != nil {
		t.Fatalf("Create group failed: %v", err)
	}

	edges, err := env.store.ListGroupBalanceEdges(ctx, group.ID)
	if err != nil {
		t.Fatalf("ListGroupBalanceEdges failed: %v", err)
	}
	if len(edges) != 0 {
		t.Errorf("expected no balance rows, got %d", len(edges))
	}

	friendships, err := env.store.ListFriendshipsForUser(ctx, alice.ID)
	if err != nil {
		t.Fatalf("ListFriendshipsForUser failed: %v", err)
	}
	if len(friendships) != 0 {
		t.Errorf("expected no friendships, got %d", len(friendships))
	}
}

func TestUpdateMembershipDoesNotFanOut(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.createUser(t, "alice@example.com", "Alice")
	bob := env.createUser(t, "bob@example.com", "Bob")

	group, err := env.groups.Create(ctx, "Roommates", alice.ID)
	if err != nil {
		t.Fatalf("Create group failed: %v", err)
	}
	m, err := env.memberships.AddMember(ctx, group.ID, bob.ID, alice.ID)
	if err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}

	before, err := env.store.ListGroupBalanceEdges(ctx, group.ID)
	if err != nil {
		t.Fatalf("ListGroupBalanceEdges failed: %v", err)
	}

	m.AddedByID = bob.ID
	if err := env.memberships.Update(ctx, m); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	after, err := env.store.ListGroupBalanceEdges(ctx, group.ID)
	if err != nil {
		t.Fatalf("ListGroupBalanceEdges failed: %v", err)
	}
	if len(after) != len(before) {
		t.Errorf("update changed balance rows: %d -> %d", len(before), len(after))
	}

	added := env.activitiesByType(t, group.ID, models.ActivityMemberAdded)
	if len(added) != 2 { // creator join + bob join, nothing for the update
		t.Errorf("expected 2 member_added activities, got %d", len(added))
	}
}

// failingFanout performs the real friendship inserts, then fails, simulating
// a fault between friendship creation and the balance bulk-insert.
type failingFanout struct{}

func (failingFanout) BulkAddFriends(ctx context.Context, store storage.Store, userID string, peerIDs []string) ([]*models.Friendship, error) {
	if _, err := store.BulkAddFriendships(ctx, userID, peerIDs); err != nil {
		return nil, err
	}
	return nil, errors.New("injected fan-out failure")
}

func TestAddMemberRollsBackAtomically(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.createUser(t, "alice@example.com", "Alice")
	bob := env.createUser(t, "bob@example.com", "Bob")

	group, err := env.groups.Create(ctx, "Roommates", alice.ID)
	if err != nil {
		t.Fatalf("Create group failed: %v", err)
	}

	// Same wiring, but the fan-out fails after writing its friendships.
	registry := lifecycle.NewRegistry()
	NewReactions(NewBalanceOracle(), failingFanout{}, NewActivityService()).Register(registry)
	memberships := NewMembershipService(env.store, registry)

	if _, err := memberships.AddMember(ctx, group.ID, bob.ID, alice.ID); err == nil {
		t.Fatal("expected AddMember to fail")
	}

	// The whole unit rolls back: no membership, no friendships, no balances.
	if _, err := env.store.GetMembership(ctx, group.ID, bob.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected no membership, got %v", err)
	}
	friendships, err := env.store.ListFriendshipsForUser(ctx, bob.ID)
	if err != nil {
		t.Fatalf("ListFriendshipsForUser failed: %v", err)
	}
	if len(friendships) != 0 {
		t.Errorf("expected friendships rolled back, found %d", len(friendships))
	}
	edges, err := env.store.ListGroupBalanceEdges(ctx, group.ID)
	if err != nil {
		t.Fatalf("ListGroupBalanceEdges failed: %v", err)
	}
	if len(edges) != 0 {
		t.Errorf("expected no balance rows, found %d", len(edges))
	}
}

func TestRemoveMemberSettlementGuard(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.createUser(t, "alice@example.com", "Alice")
	bob := env.createUser(t, "bob@example.com", "Bob")

	group, err := env.groups.Create(ctx, "Roommates", alice.ID)
	if err != nil {
		t.Fatalf("Create group failed: %v", err)
	}
	if _, err := env.memberships.AddMember(ctx, group.ID, bob.ID, alice.ID); err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}

	edges, err := env.store.ListGroupBalanceEdges(ctx, group.ID)
	if err != nil || len(edges) != 1 {
		t.Fatalf("expected 1 balance row, got %d (err %v)", len(edges), err)
	}
	friendshipID := edges[0].FriendshipID

	t.Run("outstanding balance vetoes leave", func(t *testing.T) {
		if err := env.groups.AdjustBalance(ctx, group.ID, friendshipID, 20); err != nil {
			t.Fatalf("AdjustBalance failed: %v", err)
		}

		err := env.memberships.RemoveMember(ctx, group.ID, bob.ID)
		if !errors.Is(err, ErrMemberUnsettled) {
			t.Fatalf("expected ErrMemberUnsettled, got %v", err)
		}
		if _, err := env.store.GetMembership(ctx, group.ID, bob.ID); err != nil {
			t.Errorf("membership should still exist: %v", err)
		}
	})

	t.Run("settled member may leave", func(t *testing.T) {
		if err := env.groups.AdjustBalance(ctx, group.ID, friendshipID, -20); err != nil {
			t.Fatalf("AdjustBalance failed: %v", err)
		}

		if err := env.memberships.RemoveMember(ctx, group.ID, bob.ID); err != nil {
			t.Fatalf("RemoveMember failed: %v", err)
		}
		if _, err := env.store.GetMembership(ctx, group.ID, bob.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected membership gone, got %v", err)
		}
	})
}

func TestRejoinAfterLeaveReusesLedgerSlot(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.createUser(t, "alice@example.com", "Alice")
	bob := env.createUser(t, "bob@example.com", "Bob")

	group, err := env.groups.Create(ctx, "Roommates", alice.ID)
	if err != nil {
		t.Fatalf("Create group failed: %v", err)
	}
	if _, err := env.memberships.AddMember(ctx, group.ID, bob.ID, alice.ID); err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}
	if err := env.memberships.RemoveMember(ctx, group.ID, bob.ID); err != nil {
		t.Fatalf("RemoveMember failed: %v", err)
	}

	// The friendship and its ledger slot outlive the membership, so the
	// rejoin fan-out must reuse them instead of inserting duplicates.
	if _, err := env.memberships.AddMember(ctx, group.ID, bob.ID, alice.ID); err != nil {
		t.Fatalf("rejoin failed: %v", err)
	}

	edges, err := env.store.ListGroupBalanceEdges(ctx, group.ID)
	if err != nil {
		t.Fatalf("ListGroupBalanceEdges failed: %v", err)
	}
	if len(edges) != 1 {
		t.Errorf("expected 1 balance row after rejoin, got %d", len(edges))
	}
	friendships, err := env.store.ListFriendshipsForUser(ctx, bob.ID)
	if err != nil {
		t.Fatalf("ListFriendshipsForUser failed: %v", err)
	}
	if len(friendships) != 1 {
		t.Errorf("expected 1 friendship after rejoin, got %d", len(friendships))
	}
}

func TestAddMemberRejectsDuplicates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.createUser(t, "alice@example.com", "Alice")
	group, err := env.groups.Create(ctx, "Roommates", alice.ID)
	if err != nil {
		t.Fatalf("Create group failed: %v", err)
	}

	if _, err := env.memberships.AddMember(ctx, group.ID, alice.ID, alice.ID); !errors.Is(err, ErrAlreadyMember) {
		t.Errorf("expected ErrAlreadyMember, got %v", err)
	}
}
