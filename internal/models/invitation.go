package models

// PendingInvitation represents a not-yet-accepted offer of group membership.
// Accepting it creates a Membership and removes the invitation; declining
// just removes it.
type PendingInvitation struct {
	// ID is the unique identifier for the invitation (UUID format).
	ID string

	// GroupID is the group the user is invited to.
	GroupID string

	// UserID is the invited user.
	UserID string

	// InvitedByID is the user who sent the invitation.
	InvitedByID string

	// CreatedAt is the Unix timestamp when the invitation was sent.
	CreatedAt int64
}
