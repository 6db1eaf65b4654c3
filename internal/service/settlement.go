package service

import (
	"context"
	"fmt"

	"github.com/divvy-app/backend/internal/calculator"
	"github.com/divvy-app/backend/internal/storage"
)

// SettlementOracle reports whether balances are settled. Pure query, no side
// effects. The store parameter lets callers inside a transaction read under
// its isolation.
type SettlementOracle interface {
	// IsGroupSettled reports whether every balance in the group is zero.
	IsGroupSettled(ctx context.Context, store storage.Store, groupID string) (bool, error)

	// IsMemberSettled reports whether every balance in the group involving
	// the user is zero.
	IsMemberSettled(ctx context.Context, store storage.Store, groupID, userID string) (bool, error)
}

// BalanceOracle implements SettlementOracle over the group_balances ledger.
type BalanceOracle struct{}

// NewBalanceOracle creates the ledger-backed settlement oracle.
func NewBalanceOracle() *BalanceOracle {
	return &BalanceOracle{}
}

// IsGroupSettled reports whether every balance row of the group is settled.
// A group with no balance rows is settled.
func (o *BalanceOracle) IsGroupSettled(ctx context.Context, store storage.Store, groupID string) (bool, error) {
	balances, err := store.ListGroupBalances(ctx, groupID)
	if err != nil {
		return false, fmt.Errorf("failed to read group balances: %w", err)
	}
	for _, b := range balances {
		if !calculator.Settled(b.Amount) {
			return false, nil
		}
	}
	return true, nil
}

// IsMemberSettled reports whether every balance row of the group involving
// the user is settled.
func (o *BalanceOracle) IsMemberSettled(ctx context.Context, store storage.Store, groupID, userID string) (bool, error) {
	balances, err := store.ListMemberBalances(ctx, groupID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to read member balances: %w", err)
	}
	for _, b := range balances {
		if !calculator.Settled(b.Amount) {
			return false, nil
		}
	}
	return true, nil
}
