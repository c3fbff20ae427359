package ports

import "context"

// Claim describes a booking or membership request against a catalog counter.
type Claim struct {
	Scope    string // domain.ScopeActivity or domain.ScopeCommunity
	ItemID   int
	Username string
	// Capacity is the maximum count; 0 means unlimited.
	Capacity int
	// Baseline is the catalog count used when the ledger has not seen the item yet.
	Baseline int
}

// ClaimLedger is the single point of contention for catalog counters.
// Claim must be atomic: the already-claimed check runs first, then the capacity
// check, and only then the counter is incremented and the holder recorded.
type ClaimLedger interface {
	// Claim returns the new count, domain.ErrAlreadyClaimed or domain.ErrCapacityFull.
	Claim(ctx context.Context, c Claim) (int, error)

	// Release removes the holder and decrements the counter.
	// Returns domain.ErrNotClaimed if the user does not hold the item.
	Release(ctx context.Context, c Claim) (int, error)

	// Count returns the current counter value.
	Count(ctx context.Context, scope string, itemID int, baseline int) (int, error)

	// Holdings returns the item IDs held by username in scope.
	Holdings(ctx context.Context, scope, username string) ([]int, error)
}
