package session_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/silverconnect/pkg/adapters/memory"
	"github.com/aretw0/silverconnect/pkg/domain"
	"github.com/aretw0/silverconnect/pkg/ports"
	"github.com/aretw0/silverconnect/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var defaults = map[string]any{
	"booked":   false,
	"bookings": []domain.Booking{},
	"names":    []string{},
	"count":    0,
	"selected": domain.Activity{},
	"level":    "",
}

func fresh(user string) func() *domain.Session {
	return func() *domain.Session {
		return domain.NewSession(user+":activity", domain.EngineActivity, user, defaults)
	}
}

// jsonStore round-trips snapshots through JSON like the redis and sqlite stores do.
type jsonStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (s *jsonStore) Save(_ context.Context, id string, snap *domain.Snapshot) error {
	b, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		s.data = map[string][]byte{}
	}
	s.data[id] = b
	return nil
}

func (s *jsonStore) Load(_ context.Context, id string) (*domain.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.data[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	var snap domain.Snapshot
	return &snap, json.Unmarshal(b, &snap)
}

func (s *jsonStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
	return nil
}

func (s *jsonStore) List(context.Context) ([]string, error) { return nil, nil }

var _ ports.SessionStore = (*jsonStore)(nil)

func TestRestore_TypedFields(t *testing.T) {
	bookedAt := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	s := fresh("elder1")()
	s.SetState(domain.KindBookActivity)
	s.Set("booked", true)
	s.Set("count", 3)
	s.Set("names", []string{"Diana", "Sri"})
	s.Set("selected", domain.Activity{ID: 1, Name: "Yoga", Participants: 9, MaxParticipants: 15})
	s.Set("bookings", []domain.Booking{{ID: "BK_elder1_1_1", ActivityID: 1, BookedAt: bookedAt}})
	s.Set("extra", "kept")

	store := &jsonStore{}
	snap := s.Snapshot()
	require.NoError(t, store.Save(context.Background(), s.ID(), &snap))
	loaded, err := store.Load(context.Background(), s.ID())
	require.NoError(t, err)

	restored, err := session.Restore(loaded, defaults)
	require.NoError(t, err)

	assert.Equal(t, domain.KindBookActivity, restored.CurrentState())
	assert.Equal(t, "elder1", restored.Username())
	assert.True(t, restored.Bool("booked"))
	assert.Equal(t, 3, restored.Int("count"))
	assert.Equal(t, []string{"Diana", "Sri"}, restored.Strings("names"))
	assert.Equal(t, 9, domain.Value[domain.Activity](restored, "selected").Participants)
	bookings := domain.Value[[]domain.Booking](restored, "bookings")
	require.Len(t, bookings, 1)
	assert.True(t, bookedAt.Equal(bookings[0].BookedAt))
	assert.Equal(t, "kept", restored.String("extra"))
	assert.Equal(t, "", restored.String("level"), "unset fields keep their default")
}

func TestRestore_Errors(t *testing.T) {
	_, err := session.Restore(nil, defaults)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	_, err = session.Restore(&domain.Snapshot{ID: "x", Fields: map[string]any{"count": "many"}}, defaults)
	assert.ErrorContains(t, err, `field "count"`)
}

func TestManager_Run(t *testing.T) {
	ctx := context.Background()
	mgr := session.NewManager(&jsonStore{})

	err := mgr.Run(ctx, "elder1:activity", fresh("elder1"), func(_ context.Context, s *domain.Session) error {
		s.Set("count", s.Int("count")+1)
		return nil
	})
	require.NoError(t, err)

	boom := errors.New("boom")
	err = mgr.Run(ctx, "elder1:activity", fresh("elder1"), func(_ context.Context, s *domain.Session) error {
		s.Set("count", s.Int("count")+1)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	s, err := mgr.Load(ctx, "elder1:activity", defaults)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Int("count"), "progress is saved even when the operation fails")
}

func TestManager_Run_Serializes(t *testing.T) {
	ctx := context.Background()
	mgr := session.NewManager(memory.NewStore())
	id := "elder1:activity"

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := mgr.Run(ctx, id, fresh("elder1"), func(_ context.Context, s *domain.Session) error {
				n := s.Int("count")
				time.Sleep(time.Millisecond)
				s.Set("count", n+1)
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	s, err := mgr.Load(ctx, id, defaults)
	require.NoError(t, err)
	assert.Equal(t, 20, s.Int("count"), "read-modify-write must not lose updates")
}

func TestManager_LoadOrStart(t *testing.T) {
	ctx := context.Background()
	mgr := session.NewManager(memory.NewStore())

	_, err := mgr.Load(ctx, "elder1:activity", defaults)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	s, err := mgr.LoadOrStart(ctx, "elder1:activity", fresh("elder1"))
	require.NoError(t, err)
	assert.Equal(t, domain.Idle, s.CurrentState())

	ids, err := mgr.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"elder1:activity"}, ids)
}

type stubLocker struct {
	mu       sync.Mutex
	locked   []string
	unlocked int
	fail     error
}

func (l *stubLocker) Lock(_ context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	if l.fail != nil {
		return nil, l.fail
	}
	l.mu.Lock()
	l.locked = append(l.locked, key)
	l.mu.Unlock()
	return func(context.Context) error {
		l.mu.Lock()
		l.unlocked++
		l.mu.Unlock()
		return nil
	}, nil
}

func TestManager_DistributedLocker(t *testing.T) {
	ctx := context.Background()
	locker := &stubLocker{}
	mgr := session.NewManager(memory.NewStore(), session.WithLocker(locker), session.WithLockTTL(time.Second))

	require.NoError(t, mgr.WithLock(ctx, "a", func(context.Context) error { return nil }))
	assert.Equal(t, []string{"a"}, locker.locked)
	assert.Equal(t, 1, locker.unlocked)

	locker.fail = errors.New("redis down")
	err := mgr.WithLock(ctx, "a", func(context.Context) error {
		t.Fatal("fn must not run without the lock")
		return nil
	})
	assert.ErrorContains(t, err, "failed to acquire distributed lock")
}
