package models

// GroupBalance is the ledger slot for one friendship within one group:
// exactly one row exists per (group, friendship) pair, created atomically
// with the friendship when a member joins the group.
type GroupBalance struct {
	// ID is the unique identifier for the balance row (UUID format).
	ID string

	// GroupID is the owning group.
	GroupID string

	// FriendshipID is the friendship this slot tracks.
	FriendshipID string

	// Amount is the current pairwise balance. Positive means the
	// canonically-first user of the friendship is owed money by the second;
	// negative means the reverse. Zero means settled.
	Amount float64

	// CreatedAt is the Unix timestamp when the row was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last balance change.
	UpdatedAt int64
}

// BalanceEdge is a balance row joined with the user pair of its friendship,
// the shape settlement math works on.
type BalanceEdge struct {
	FriendshipID string  `json:"friendship_id"`
	UserAID      string  `json:"user_a_id"`
	UserBID      string  `json:"user_b_id"`
	Amount       float64 `json:"amount"`
}
