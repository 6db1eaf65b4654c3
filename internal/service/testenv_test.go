package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/divvy-app/backend/internal/lifecycle"
	"github.com/divvy-app/backend/internal/models"
	"github.com/divvy-app/backend/internal/storage/sqlite"
)

// testEnv wires the real sqlite store, registry, reactions, and services the
// way cmd/server does, against a temp database.
type testEnv struct {
	store       *sqlite.SQLiteStore
	registry    *lifecycle.Registry
	groups      *GroupService
	memberships *MembershipService
	invitations *InvitationService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "divvy-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	registry := lifecycle.NewRegistry()
	NewReactions(NewBalanceOracle(), NewFriendshipService(store), NewActivityService()).Register(registry)

	memberships := NewMembershipService(store, registry)
	return &testEnv{
		store:       store,
		registry:    registry,
		groups:      NewGroupService(store, registry, memberships),
		memberships: memberships,
		invitations: NewInvitationService(store, registry, memberships),
	}
}

func (e *testEnv) createUser(t *testing.T, email, name string) *models.User {
	t.Helper()
	user := models.NewUser(email, name, "hash")
	if err := e.store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser(%s) failed: %v", email, err)
	}
	return user
}

// activitiesByType filters a group's feed down to one activity type.
func (e *testEnv) activitiesByType(t *testing.T, groupID, typ string) []*models.Activity {
	t.Helper()
	all, err := e.store.ListGroupActivities(context.Background(), groupID)
	if err != nil {
		t.Fatalf("ListGroupActivities failed: %v", err)
	}
	var out []*models.Activity
	for _, a := range all {
		if a.Type == typ {
			out = append(out, a)
		}
	}
	return out
}

// profileName digs the display name out of a metadata profile entry.
func profileName(t *testing.T, metadata map[string]any, key string) string {
	t.Helper()
	profile, ok := metadata[key].(map[string]any)
	if !ok {
		t.Fatalf("metadata[%s] is not a profile: %v", key, metadata[key])
	}
	name, _ := profile["display_name"].(string)
	return name
}
