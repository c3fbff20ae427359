package middleware_test

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"io"
	"testing"

	"github.com/aretw0/silverconnect/pkg/adapters/memory"
	"github.com/aretw0/silverconnect/pkg/domain"
	"github.com/aretw0/silverconnect/pkg/persistence/middleware"
	"github.com/aretw0/silverconnect/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generateKey(t *testing.T) []byte {
	t.Helper()
	k := make([]byte, middleware.KeySize)
	_, err := io.ReadFull(rand.Reader, k)
	require.NoError(t, err)
	return k
}

func encrypted(t *testing.T, next ports.SessionStore, cfg middleware.EncryptionConfig) ports.SessionStore {
	t.Helper()
	mw, err := middleware.NewEncryptionMiddleware(cfg)
	require.NoError(t, err)
	return mw(next)
}

func settingsSnapshot(value string) *domain.Snapshot {
	return &domain.Snapshot{
		ID:       "elder1:settings",
		Engine:   domain.EngineSettings,
		Username: "elder1",
		State:    domain.Idle,
		Fields:   map[string]any{"fontSize": value},
	}
}

func TestEncryptionMiddleware_Roundtrip(t *testing.T) {
	underlying := memory.NewStore()
	store := encrypted(t, underlying, middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "elder1:settings", settingsSnapshot("Large")))

	raw, err := underlying.Load(ctx, "elder1:settings")
	require.NoError(t, err)
	assert.NotContains(t, raw.Fields, "fontSize")
	assert.Contains(t, raw.Fields, middleware.EnvelopeField)
	assert.Equal(t, "elder1", raw.Username, "metadata stays readable")
	assert.Equal(t, domain.EngineSettings, raw.Engine)

	loaded, err := store.Load(ctx, "elder1:settings")
	require.NoError(t, err)
	assert.Equal(t, "Large", loaded.Fields["fontSize"])

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"elder1:settings"}, ids)

	require.NoError(t, store.Delete(ctx, "elder1:settings"))
	_, err = store.Load(ctx, "elder1:settings")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestEncryptionMiddleware_KeyRotation(t *testing.T) {
	underlying := memory.NewStore()
	oldKey, newKey := generateKey(t), generateKey(t)
	ctx := context.Background()

	before := encrypted(t, underlying, middleware.EncryptionConfig{ActiveKey: oldKey})
	require.NoError(t, before.Save(ctx, "elder1:settings", settingsSnapshot("Medium")))

	after := encrypted(t, underlying, middleware.EncryptionConfig{
		ActiveKey:    newKey,
		FallbackKeys: [][]byte{oldKey},
	})
	loaded, err := after.Load(ctx, "elder1:settings")
	require.NoError(t, err)
	assert.Equal(t, "Medium", loaded.Fields["fontSize"])

	require.NoError(t, after.Save(ctx, "elder1:settings", settingsSnapshot("Large")))
	_, err = before.Load(ctx, "elder1:settings")
	assert.Error(t, err, "the retired key cannot read snapshots sealed with the new one")
}

func TestEncryptionMiddleware_RefusesPlainSnapshots(t *testing.T) {
	underlying := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, underlying.Save(ctx, "elder1:settings", settingsSnapshot("Small")))

	store := encrypted(t, underlying, middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	_, err := store.Load(ctx, "elder1:settings")
	assert.ErrorIs(t, err, middleware.ErrNotEncrypted)
}

func TestNewEncryptionMiddleware_InvalidKeys(t *testing.T) {
	tests := []struct {
		name string
		cfg  middleware.EncryptionConfig
	}{
		{"Short Active Key", middleware.EncryptionConfig{ActiveKey: []byte("short-key")}},
		{"Short Fallback Key", middleware.EncryptionConfig{ActiveKey: generateKey(t), FallbackKeys: [][]byte{[]byte("old")}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := middleware.NewEncryptionMiddleware(tt.cfg)
			assert.Error(t, err)
		})
	}
}

func TestParseKey(t *testing.T) {
	key := generateKey(t)
	parsed, err := middleware.ParseKey(base64.StdEncoding.EncodeToString(key))
	require.NoError(t, err)
	assert.Equal(t, key, parsed)

	_, err = middleware.ParseKey("not base64!")
	assert.Error(t, err)
	_, err = middleware.ParseKey(base64.StdEncoding.EncodeToString([]byte("short")))
	assert.Error(t, err)
}
