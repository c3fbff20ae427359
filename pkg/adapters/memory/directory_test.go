package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/silverconnect/pkg/adapters/memory"
	"github.com/aretw0/silverconnect/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectory(t *testing.T) {
	ctx := context.Background()
	dir := memory.NewDirectory(domain.UserRecord{Username: "elder1", PasswordHash: "hashed_pass123"})

	t.Run("Create Duplicate", func(t *testing.T) {
		err := dir.Create(ctx, domain.UserRecord{Username: "elder1"})
		assert.ErrorIs(t, err, domain.ErrUserExists)
	})

	t.Run("Lookup Returns Copy", func(t *testing.T) {
		require.NoError(t, dir.Create(ctx, domain.UserRecord{Username: "elder2", Hobbies: []string{"Yoga"}}))
		rec, err := dir.Lookup(ctx, "elder2")
		require.NoError(t, err)
		rec.Hobbies[0] = "Chess"

		again, err := dir.Lookup(ctx, "elder2")
		require.NoError(t, err)
		assert.Equal(t, []string{"Yoga"}, again.Hobbies)
	})

	t.Run("Update", func(t *testing.T) {
		err := dir.Update(ctx, "elder1", func(rec *domain.UserRecord) error {
			rec.ProfileCompleted = true
			return nil
		})
		require.NoError(t, err)
		rec, err := dir.Lookup(ctx, "elder1")
		require.NoError(t, err)
		assert.True(t, rec.ProfileCompleted)
	})

	t.Run("Failed Update Is Discarded", func(t *testing.T) {
		boom := errors.New("boom")
		err := dir.Update(ctx, "elder1", func(rec *domain.UserRecord) error {
			rec.Email = "changed@example.com"
			return boom
		})
		assert.ErrorIs(t, err, boom)
		rec, _ := dir.Lookup(ctx, "elder1")
		assert.Empty(t, rec.Email)
	})

	t.Run("Unknown User", func(t *testing.T) {
		_, err := dir.Lookup(ctx, "ghost")
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
		assert.ErrorIs(t, dir.Update(ctx, "ghost", func(*domain.UserRecord) error { return nil }), domain.ErrUserNotFound)
	})
}
