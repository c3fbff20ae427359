// Package notification implements the notification digest engine.
package notification

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/aretw0/silverconnect/internal/runtime"
	"github.com/aretw0/silverconnect/pkg/domain"
	"github.com/aretw0/silverconnect/pkg/ports"
)

// FieldNotifications holds the latest digest.
const FieldNotifications = "notifications"

// Placeholder input keys.
const (
	InputActivityName  = "activity_name"
	InputCommunityName = "community_name"
	InputTime          = "time"
	InputFriendName    = "friend_name"
)

const unknownValue = "TBA"

// Engine owns the notification state machine and its template pools.
type Engine struct {
	machine *runtime.Machine
	pools   map[string][]string

	mu  sync.Mutex
	rnd *rand.Rand
}

// Option configures the Engine.
type Option func(*Engine, *[]runtime.Option)

// WithRand injects the random source used to pick templates.
func WithRand(rnd *rand.Rand) Option {
	return func(e *Engine, _ *[]runtime.Option) {
		e.rnd = rnd
	}
}

// WithMachineOptions forwards options to the underlying machine.
func WithMachineOptions(opts ...runtime.Option) Option {
	return func(_ *Engine, ro *[]runtime.Option) {
		*ro = append(*ro, opts...)
	}
}

// New builds the engine. Every category in ports.NotificationCategories needs a non-empty pool.
func New(templates map[string][]string, opts ...Option) (*Engine, error) {
	e := &Engine{
		pools: make(map[string][]string, len(ports.NotificationCategories)),
		rnd:   rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, category := range ports.NotificationCategories {
		pool := templates[category]
		if len(pool) == 0 {
			return nil, fmt.Errorf("notification pool %q is empty", category)
		}
		e.pools[category] = append([]string(nil), pool...)
	}
	var machineOpts []runtime.Option
	for _, opt := range opts {
		opt(e, &machineOpts)
	}

	defaults := map[string]any{FieldNotifications: []domain.Notification{}}
	m, err := runtime.NewMachine(domain.EngineNotification, runtime.ModeDrain, domain.KindCheckNotifications,
		[]runtime.State{&checkNotifications{e: e}}, defaults, machineOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build notification machine: %w", err)
	}
	e.machine = m
	return e, nil
}

// Machine returns the underlying state machine.
func (e *Engine) Machine() *runtime.Machine { return e.machine }

// NewSession creates an idle notification session for username.
func (e *Engine) NewSession(username string) *domain.Session {
	return e.machine.NewSession(username)
}

// Start points the session at CheckNotifications.
func (e *Engine) Start(s *domain.Session) error {
	return e.machine.Enter(s, domain.KindCheckNotifications)
}

// Digest draws one template per category and fills its placeholders.
func (e *Engine) Digest(in domain.Input) []domain.Notification {
	replacer := strings.NewReplacer(
		"{activity_name}", valueOr(in, InputActivityName),
		"{community_name}", valueOr(in, InputCommunityName),
		"{time}", valueOr(in, InputTime),
		"{friend_name}", valueOr(in, InputFriendName),
	)

	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]domain.Notification, 0, len(ports.NotificationCategories))
	for _, category := range ports.NotificationCategories {
		pool := e.pools[category]
		out = append(out, domain.Notification{
			Category: category,
			Text:     replacer.Replace(pool[e.rnd.IntN(len(pool))]),
		})
	}
	return out
}

func valueOr(in domain.Input, key string) string {
	if v := in.String(key); v != "" {
		return v
	}
	return unknownValue
}

type checkNotifications struct{ e *Engine }

func (st *checkNotifications) Kind() domain.StateKind { return domain.KindCheckNotifications }

func (st *checkNotifications) Successors() []domain.StateKind { return nil }

func (st *checkNotifications) Handle(_ context.Context, s *domain.Session, in domain.Input) domain.Transition {
	s.Set(FieldNotifications, st.e.Digest(in))
	return domain.Terminal()
}
