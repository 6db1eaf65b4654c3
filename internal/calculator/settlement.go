// Package calculator implements settlement arithmetic over pairwise group
// balances.
package calculator

import "math"

// settleEpsilon is the threshold under which a balance counts as settled.
// Amounts are currency floats; anything under one cent is rounding noise.
const settleEpsilon = 0.01

// BalanceEdge is one pairwise balance with the minimal information needed
// for settlement checks. Amount follows the ledger convention: positive
// means UserAID is owed by UserBID, negative the reverse.
type BalanceEdge struct {
	UserAID string
	UserBID string
	Amount  float64
}

// Settled reports whether a single balance amount counts as zero.
func Settled(amount float64) bool {
	return math.Abs(amount) < settleEpsilon
}

// AllSettled reports whether every edge is settled.
func AllSettled(edges []BalanceEdge) bool {
	for _, e := range edges {
		if !Settled(e.Amount) {
			return false
		}
	}
	return true
}

// NetPositions nets pairwise balances into one position per member.
// Positive = owed money overall, negative = owes money overall. Members with
// no edges do not appear in the result.
func NetPositions(edges []BalanceEdge) map[string]float64 {
	positions := make(map[string]float64)
	for _, e := range edges {
		positions[e.UserAID] += e.Amount
		positions[e.UserBID] -= e.Amount
	}
	return positions
}
