package ports

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/silverconnect/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contractSnapshot(id string, state domain.StateKind) *domain.Snapshot {
	return &domain.Snapshot{
		ID:       id,
		Engine:   domain.EngineActivity,
		Username: "elder1",
		State:    state,
		Fields: map[string]any{
			"difficulty": "mudah",
			"booked":     true,
		},
		UpdatedAt: time.Now().UTC().Truncate(time.Second),
	}
}

// RunSessionStoreContract runs a suite of tests to verify that a SessionStore implementation
// adheres to the defined interface contract.
func RunSessionStoreContract(t *testing.T, store SessionStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		snap := contractSnapshot(sessionID, domain.KindBookActivity)

		err := store.Save(ctx, sessionID, snap)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, snap.State, loaded.State)
		assert.Equal(t, snap.Username, loaded.Username)
		assert.Equal(t, snap.Engine, loaded.Engine)
		assert.Equal(t, "mudah", loaded.Fields["difficulty"])
		assert.Equal(t, true, loaded.Fields["booked"])
		assert.True(t, snap.UpdatedAt.Equal(loaded.UpdatedAt), "UpdatedAt must survive the round trip")
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, sessionID, contractSnapshot(sessionID, domain.KindFindActivity)))
		require.NoError(t, store.Save(ctx, sessionID, contractSnapshot(sessionID, domain.Idle)))

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, domain.Idle, loaded.State)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, sessionID, contractSnapshot(sessionID, domain.KindFindActivity))
		require.NoError(t, err)

		err = store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, id1, contractSnapshot(id1, domain.KindFindActivity))
		_ = store.Save(ctx, id2, contractSnapshot(id2, domain.KindFindActivity))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}

// RunClaimLedgerContract verifies idempotence, capacity and release semantics of a ClaimLedger.
func RunClaimLedgerContract(t *testing.T, ledger ClaimLedger) {
	ctx := context.Background()

	t.Run("Claim increments from baseline", func(t *testing.T) {
		count, err := ledger.Claim(ctx, Claim{Scope: domain.ScopeActivity, ItemID: 1, Username: "alice", Capacity: 10, Baseline: 4})
		require.NoError(t, err)
		assert.Equal(t, 5, count)

		current, err := ledger.Count(ctx, domain.ScopeActivity, 1, 4)
		require.NoError(t, err)
		assert.Equal(t, 5, current)
	})

	t.Run("Second claim is rejected", func(t *testing.T) {
		_, err := ledger.Claim(ctx, Claim{Scope: domain.ScopeActivity, ItemID: 1, Username: "alice", Capacity: 10, Baseline: 4})
		assert.ErrorIs(t, err, domain.ErrAlreadyClaimed)

		current, err := ledger.Count(ctx, domain.ScopeActivity, 1, 4)
		require.NoError(t, err)
		assert.Equal(t, 5, current, "a rejected claim must not mutate the counter")
	})

	t.Run("Already claimed wins over capacity", func(t *testing.T) {
		_, err := ledger.Claim(ctx, Claim{Scope: domain.ScopeActivity, ItemID: 2, Username: "bob", Capacity: 1, Baseline: 0})
		require.NoError(t, err)

		_, err = ledger.Claim(ctx, Claim{Scope: domain.ScopeActivity, ItemID: 2, Username: "bob", Capacity: 1, Baseline: 0})
		assert.ErrorIs(t, err, domain.ErrAlreadyClaimed)

		_, err = ledger.Claim(ctx, Claim{Scope: domain.ScopeActivity, ItemID: 2, Username: "carol", Capacity: 1, Baseline: 0})
		assert.ErrorIs(t, err, domain.ErrCapacityFull)
	})

	t.Run("Unlimited capacity", func(t *testing.T) {
		for _, user := range []string{"u1", "u2", "u3"} {
			_, err := ledger.Claim(ctx, Claim{Scope: domain.ScopeCommunity, ItemID: 7, Username: user, Baseline: 12})
			require.NoError(t, err)
		}
		current, err := ledger.Count(ctx, domain.ScopeCommunity, 7, 12)
		require.NoError(t, err)
		assert.Equal(t, 15, current)
	})

	t.Run("Holdings and Release", func(t *testing.T) {
		_, err := ledger.Claim(ctx, Claim{Scope: domain.ScopeActivity, ItemID: 3, Username: "alice", Capacity: 5, Baseline: 0})
		require.NoError(t, err)

		held, err := ledger.Holdings(ctx, domain.ScopeActivity, "alice")
		require.NoError(t, err)
		assert.ElementsMatch(t, []int{1, 3}, held)

		count, err := ledger.Release(ctx, Claim{Scope: domain.ScopeActivity, ItemID: 3, Username: "alice", Baseline: 0})
		require.NoError(t, err)
		assert.Equal(t, 0, count)

		_, err = ledger.Release(ctx, Claim{Scope: domain.ScopeActivity, ItemID: 3, Username: "alice", Baseline: 0})
		assert.ErrorIs(t, err, domain.ErrNotClaimed)

		held, err = ledger.Holdings(ctx, domain.ScopeActivity, "alice")
		require.NoError(t, err)
		assert.Equal(t, []int{1}, held)
	})

	t.Run("Concurrent claims respect capacity", func(t *testing.T) {
		const capacity = 5
		var wg sync.WaitGroup
		var mu sync.Mutex
		accepted := 0
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				user := "racer-" + string(rune('a'+i))
				if _, err := ledger.Claim(ctx, Claim{Scope: domain.ScopeActivity, ItemID: 99, Username: user, Capacity: capacity, Baseline: 2}); err == nil {
					mu.Lock()
					accepted++
					mu.Unlock()
				}
			}(i)
		}
		wg.Wait()

		assert.Equal(t, capacity-2, accepted)
		current, err := ledger.Count(ctx, domain.ScopeActivity, 99, 2)
		require.NoError(t, err)
		assert.Equal(t, capacity, current)
	})
}
