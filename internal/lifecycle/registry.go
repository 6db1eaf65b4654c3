// Package lifecycle implements the dispatch table binding reactions to
// record lifecycle points.
//
// The table is explicit process state owned by whoever constructs it
// (cmd/server in production, the test directly in tests): a mapping from
// (record kind, lifecycle point) to an ordered list of reaction functions.
// Reactions run synchronously on the calling goroutine, in bind order; the
// first error stops the chain and propagates to the caller, which is how a
// pre-phase reaction vetoes the triggering mutation.
package lifecycle

import (
	"context"

	"github.com/divvy-app/backend/internal/metrics"
	"github.com/divvy-app/backend/internal/storage"
)

// Kind identifies a watched record kind.
type Kind string

const (
	KindGroup      Kind = "group"
	KindMembership Kind = "membership"
	KindInvitation Kind = "pending_invitation"
)

// Point identifies a lifecycle point on a record kind.
type Point string

const (
	// BeforeSave fires before a record is inserted or updated. Reactions
	// that only care about creation must check Event.Created themselves.
	BeforeSave Point = "before_save"

	// AfterSave fires after a record insert or update has committed.
	AfterSave Point = "after_save"

	// BeforeDelete fires before a record is removed; an error from a
	// reaction here vetoes the removal.
	BeforeDelete Point = "before_delete"
)

// Event describes one record mutation passing a lifecycle point.
type Event struct {
	Kind  Kind
	Point Point

	// Created reports whether the save is an insert rather than an update.
	// Set explicitly by the use-case service; always false on delete points.
	Created bool

	// Record is the changed record: *models.Group, *models.Membership, or
	// *models.PendingInvitation depending on Kind.
	Record any

	// Store is the store reactions must read and write through. When the
	// event fires inside a transaction this is the transaction-bound store,
	// so reaction side effects commit or roll back with the triggering
	// mutation.
	Store storage.Store
}

// Reaction is one rule bound to a lifecycle point.
type Reaction func(ctx context.Context, evt Event) error

type binding struct {
	kind  Kind
	point Point
}

// Registry maps (kind, point) to the ordered reactions bound there.
type Registry struct {
	reactions map[binding][]Reaction
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{reactions: make(map[binding][]Reaction)}
}

// Bind appends a reaction to the list for (kind, point). Reactions fire in
// bind order. Not safe for concurrent use with Fire; bind everything during
// startup.
func (r *Registry) Bind(kind Kind, point Point, fn Reaction) {
	key := binding{kind: kind, point: point}
	r.reactions[key] = append(r.reactions[key], fn)
}

// Fire runs the reactions bound to the event's (kind, point) in order,
// stopping at and returning the first error. Events with no bound reactions
// are a no-op.
func (r *Registry) Fire(ctx context.Context, evt Event) error {
	for _, fn := range r.reactions[binding{kind: evt.Kind, point: evt.Point}] {
		metrics.ReactionsFired.WithLabelValues(string(evt.Kind), string(evt.Point)).Inc()
		if err := fn(ctx, evt); err != nil {
			return err
		}
	}
	return nil
}
