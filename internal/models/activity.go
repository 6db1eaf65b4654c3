package models

// Activity type tags emitted by the reaction pipeline.
const (
	ActivityGroupCreated  = "group_created"
	ActivityMemberAdded   = "member_added"
	ActivityMemberInvited = "member_invited"
)

// Activity is an immutable feed entry fanned out to a set of recipients.
// Entries are append-only; nothing in the backend mutates or deletes them.
type Activity struct {
	// ID is the unique identifier for the activity (UUID format).
	ID string

	// Type is the activity type tag (e.g., "member_added").
	Type string

	// GroupID is the owning group, or "" for activities without one.
	GroupID string

	// RecipientIDs are the users whose feeds include this entry.
	RecipientIDs []string

	// Metadata is the free-form payload for rendering the entry.
	Metadata map[string]any

	// CreatedAt is the Unix timestamp when the activity was recorded.
	CreatedAt int64
}
