package redis

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"

	"github.com/aretw0/silverconnect/pkg/domain"
	"github.com/aretw0/silverconnect/pkg/ports"
	backend "github.com/redis/go-redis/v9"
)

// claimScript checks membership, then capacity, then increments and records the holder.
// Returns {status, count}: 1 claimed, 0 already claimed, -1 full.
var claimScript = backend.NewScript(`
local count = tonumber(redis.call("GET", KEYS[1]) or ARGV[3])
if redis.call("SISMEMBER", KEYS[2], ARGV[1]) == 1 then
	return {0, count}
end
local capacity = tonumber(ARGV[2])
if capacity > 0 and count >= capacity then
	return {-1, count}
end
count = count + 1
redis.call("SET", KEYS[1], count)
redis.call("SADD", KEYS[2], ARGV[1])
redis.call("SADD", KEYS[3], ARGV[4])
return {1, count}
`)

// releaseScript removes the holder and decrements. Returns {status, count}: 1 released, 0 not held.
var releaseScript = backend.NewScript(`
local count = tonumber(redis.call("GET", KEYS[1]) or ARGV[2])
if redis.call("SREM", KEYS[2], ARGV[1]) == 0 then
	return {0, count}
end
count = count - 1
redis.call("SET", KEYS[1], count)
redis.call("SREM", KEYS[3], ARGV[3])
return {1, count}
`)

// Ledger implements ports.ClaimLedger with Lua scripts so every claim is atomic
// across replicas.
type Ledger struct {
	client *backend.Client
	prefix string
}

var _ ports.ClaimLedger = (*Ledger)(nil)

// NewLedger creates a ledger sharing client. An empty prefix uses DefaultPrefix.
func NewLedger(client *backend.Client, prefix string) *Ledger {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Ledger{client: client, prefix: prefix}
}

func (l *Ledger) countKey(scope string, id int) string {
	return fmt.Sprintf("%sclaim:%s:%d:count", l.prefix, scope, id)
}

func (l *Ledger) membersKey(scope string, id int) string {
	return fmt.Sprintf("%sclaim:%s:%d:members", l.prefix, scope, id)
}

func (l *Ledger) holdingsKey(scope, username string) string {
	return fmt.Sprintf("%sholdings:%s:%s", l.prefix, scope, username)
}

func (l *Ledger) keys(c ports.Claim) []string {
	return []string{l.countKey(c.Scope, c.ItemID), l.membersKey(c.Scope, c.ItemID), l.holdingsKey(c.Scope, c.Username)}
}

// Claim records the user's claim atomically.
func (l *Ledger) Claim(ctx context.Context, c ports.Claim) (int, error) {
	res, err := claimScript.Run(ctx, l.client, l.keys(c), c.Username, c.Capacity, c.Baseline, c.ItemID).Int64Slice()
	if err != nil {
		return 0, fmt.Errorf("failed to run claim script: %w", err)
	}
	status, count := res[0], int(res[1])
	switch status {
	case 0:
		return count, fmt.Errorf("%w: %s on %s/%d", domain.ErrAlreadyClaimed, c.Username, c.Scope, c.ItemID)
	case -1:
		return count, fmt.Errorf("%w: %s/%d at %d/%d", domain.ErrCapacityFull, c.Scope, c.ItemID, count, c.Capacity)
	}
	return count, nil
}

// Release drops the user's claim atomically.
func (l *Ledger) Release(ctx context.Context, c ports.Claim) (int, error) {
	res, err := releaseScript.Run(ctx, l.client, l.keys(c), c.Username, c.Baseline, c.ItemID).Int64Slice()
	if err != nil {
		return 0, fmt.Errorf("failed to run release script: %w", err)
	}
	if res[0] == 0 {
		return int(res[1]), fmt.Errorf("%w: %s on %s/%d", domain.ErrNotClaimed, c.Username, c.Scope, c.ItemID)
	}
	return int(res[1]), nil
}

// Count returns the live counter, or baseline when nothing was claimed yet.
func (l *Ledger) Count(ctx context.Context, scope string, itemID int, baseline int) (int, error) {
	n, err := l.client.Get(ctx, l.countKey(scope, itemID)).Int()
	if errors.Is(err, backend.Nil) {
		return baseline, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read counter: %w", err)
	}
	return n, nil
}

// Holdings lists the items claimed by username in scope, sorted.
func (l *Ledger) Holdings(ctx context.Context, scope, username string) ([]int, error) {
	members, err := l.client.SMembers(ctx, l.holdingsKey(scope, username)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read holdings: %w", err)
	}
	held := make([]int, 0, len(members))
	for _, m := range members {
		id, err := strconv.Atoi(m)
		if err != nil {
			return nil, fmt.Errorf("corrupt holding %q: %w", m, err)
		}
		held = append(held, id)
	}
	slices.Sort(held)
	return held, nil
}
