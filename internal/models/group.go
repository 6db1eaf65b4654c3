package models

// Group represents a shared-expense group.
//
// The member list is not stored on the group itself: a user is a member of a
// group exactly when a Membership row joining the two exists.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Roommates", "Ski Trip").
	Name string

	// CreatorID is the user who created the group.
	CreatorID string

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}

// Membership joins a User to a Group. Its presence is the membership
// relation; deleting it is the "leave group" action.
type Membership struct {
	// ID is the unique identifier for the membership (UUID format).
	ID string

	// GroupID is the group joined.
	GroupID string

	// UserID is the joining user.
	UserID string

	// AddedByID is the user who performed the add. Equal to UserID when the
	// user joined on their own (e.g., by accepting an invitation).
	AddedByID string

	// CreatedAt is the Unix timestamp when the membership was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last membership change.
	UpdatedAt int64
}
