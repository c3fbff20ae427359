package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/aretw0/silverconnect/pkg/domain"
	"github.com/aretw0/silverconnect/pkg/ports"
)

type itemKey struct {
	scope string
	id    int
}

type holderKey struct {
	scope    string
	username string
}

// Ledger implements ports.ClaimLedger in memory.
// Safe for concurrent use; every operation runs under a single mutex.
type Ledger struct {
	mu       sync.Mutex
	counts   map[itemKey]int
	members  map[itemKey]map[string]bool
	holdings map[holderKey]map[int]bool
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		counts:   make(map[itemKey]int),
		members:  make(map[itemKey]map[string]bool),
		holdings: make(map[holderKey]map[int]bool),
	}
}

// Claim records the user's claim, checking membership before capacity.
func (l *Ledger) Claim(ctx context.Context, c ports.Claim) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := itemKey{c.Scope, c.ItemID}
	if l.members[key][c.Username] {
		return l.countLocked(key, c.Baseline), fmt.Errorf("%w: %s on %s/%d", domain.ErrAlreadyClaimed, c.Username, c.Scope, c.ItemID)
	}
	count := l.countLocked(key, c.Baseline)
	if c.Capacity > 0 && count >= c.Capacity {
		return count, fmt.Errorf("%w: %s/%d at %d/%d", domain.ErrCapacityFull, c.Scope, c.ItemID, count, c.Capacity)
	}

	count++
	l.counts[key] = count
	if l.members[key] == nil {
		l.members[key] = make(map[string]bool)
	}
	l.members[key][c.Username] = true

	hk := holderKey{c.Scope, c.Username}
	if l.holdings[hk] == nil {
		l.holdings[hk] = make(map[int]bool)
	}
	l.holdings[hk][c.ItemID] = true
	return count, nil
}

// Release drops the user's claim.
func (l *Ledger) Release(ctx context.Context, c ports.Claim) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := itemKey{c.Scope, c.ItemID}
	if !l.members[key][c.Username] {
		return l.countLocked(key, c.Baseline), fmt.Errorf("%w: %s on %s/%d", domain.ErrNotClaimed, c.Username, c.Scope, c.ItemID)
	}
	count := l.countLocked(key, c.Baseline) - 1
	l.counts[key] = count
	delete(l.members[key], c.Username)
	delete(l.holdings[holderKey{c.Scope, c.Username}], c.ItemID)
	return count, nil
}

// Count returns the live counter, or baseline when nothing was claimed yet.
func (l *Ledger) Count(ctx context.Context, scope string, itemID int, baseline int) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.countLocked(itemKey{scope, itemID}, baseline), nil
}

// Holdings lists the items claimed by username in scope, sorted.
func (l *Ledger) Holdings(ctx context.Context, scope string, username string) ([]int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	held := make([]int, 0, len(l.holdings[holderKey{scope, username}]))
	for id := range l.holdings[holderKey{scope, username}] {
		held = append(held, id)
	}
	slices.Sort(held)
	return held, nil
}

func (l *Ledger) countLocked(key itemKey, baseline int) int {
	if count, ok := l.counts[key]; ok {
		return count
	}
	return baseline
}
