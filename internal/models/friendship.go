package models

// Friendship records a bidirectional relation between two users.
//
// The pair is stored in canonical order (UserAID < UserBID lexicographically)
// so that (a, b) and (b, a) are the same row; use OrderPair before querying
// or inserting.
type Friendship struct {
	// ID is the unique identifier for the friendship (UUID format).
	ID string

	// UserAID is the lexicographically smaller user ID of the pair.
	UserAID string

	// UserBID is the lexicographically larger user ID of the pair.
	UserBID string

	// CreatedAt is the Unix timestamp when the friendship was created.
	CreatedAt int64
}

// OrderPair returns the two user IDs in canonical storage order.
func OrderPair(a, b string) (string, string) {
	if b < a {
		return b, a
	}
	return a, b
}

// Peer returns the other user of the pair, or "" if userID is not part of
// the friendship.
func (f *Friendship) Peer(userID string) string {
	switch userID {
	case f.UserAID:
		return f.UserBID
	case f.UserBID:
		return f.UserAID
	}
	return ""
}
