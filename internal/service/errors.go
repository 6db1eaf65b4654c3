package service

import "errors"

var (
	// ErrGroupUnsettled vetoes group deletion while any balance in the
	// group is outstanding.
	ErrGroupUnsettled = errors.New("cannot delete group with outstanding balances")

	// ErrMemberUnsettled vetoes leaving a group while the member has an
	// outstanding balance in it.
	ErrMemberUnsettled = errors.New("cannot leave group with outstanding balances")

	// ErrAlreadyMember is returned when adding or inviting a user who is
	// already a member of the group.
	ErrAlreadyMember = errors.New("user is already a member of this group")

	// ErrNotInvitee is returned when a user acts on an invitation addressed
	// to someone else.
	ErrNotInvitee = errors.New("invitation is addressed to a different user")
)
