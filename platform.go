package silverconnect

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/aretw0/silverconnect/internal/i18n"
	"github.com/aretw0/silverconnect/internal/logging"
	"github.com/aretw0/silverconnect/internal/runtime"
	"github.com/aretw0/silverconnect/internal/services/activity"
	"github.com/aretw0/silverconnect/internal/services/auth"
	"github.com/aretw0/silverconnect/internal/services/chat"
	"github.com/aretw0/silverconnect/internal/services/community"
	"github.com/aretw0/silverconnect/internal/services/dashboard"
	"github.com/aretw0/silverconnect/internal/services/friends"
	"github.com/aretw0/silverconnect/internal/services/notification"
	"github.com/aretw0/silverconnect/internal/services/settings"
	"github.com/aretw0/silverconnect/pkg/adapters/memory"
	"github.com/aretw0/silverconnect/pkg/catalog"
	"github.com/aretw0/silverconnect/pkg/domain"
	"github.com/aretw0/silverconnect/pkg/observability"
	"github.com/aretw0/silverconnect/pkg/ports"
	"github.com/aretw0/silverconnect/pkg/session"
	"go.opentelemetry.io/otel/trace"
)

// DefaultMaxAttempts is how many invalid answers an interactive operation tolerates.
const DefaultMaxAttempts = 3

// ErrTooManyAttempts aborts an interactive operation after repeated invalid answers.
var ErrTooManyAttempts = errors.New("too many invalid answers")

// Platform is the coordinator behind every user-facing operation. It owns one engine per
// domain and the shared infrastructure (catalog, user directory, claim ledger, sessions).
// A Platform is safe for concurrent use by many users.
type Platform struct {
	catalog  ports.CatalogProvider
	users    ports.UserDirectory
	ledger   ports.ClaimLedger
	store    ports.SessionStore
	locker   ports.DistributedLocker
	sessions *session.Manager

	locale      string
	printer     *i18n.Printer
	maxAttempts int
	chatTarget  friends.ChatTarget
	clock       func() time.Time
	rnd         *rand.Rand
	hooks       domain.LifecycleHooks
	metrics     *observability.Metrics
	tracer      trace.Tracer
	logger      *slog.Logger

	engines atomic.Pointer[engineSet]
}

// engineSet is swapped as a whole when the catalog changes.
type engineSet struct {
	auth         *auth.Engine
	community    *community.Engine
	activity     *activity.Engine
	friends      *friends.Engine
	notification *notification.Engine
	settings     *settings.Engine
	dashboard    *dashboard.Engine
	chat         *chat.Engine
}

// Option configures the Platform.
type Option func(*Platform)

// WithLogger sets the structured logger for the platform and its engines.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Platform) {
		p.logger = logger
	}
}

// WithCatalog replaces the embedded default catalog.
func WithCatalog(c ports.CatalogProvider) Option {
	return func(p *Platform) {
		p.catalog = c
	}
}

// WithUserDirectory replaces the in-memory directory seeded from the catalog.
func WithUserDirectory(users ports.UserDirectory) Option {
	return func(p *Platform) {
		p.users = users
	}
}

// WithLedger replaces the in-memory claim ledger.
func WithLedger(ledger ports.ClaimLedger) Option {
	return func(p *Platform) {
		p.ledger = ledger
	}
}

// WithStore replaces the in-memory session store.
func WithStore(store ports.SessionStore) Option {
	return func(p *Platform) {
		p.store = store
	}
}

// WithLocker enables distributed per-session locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(p *Platform) {
		p.locker = locker
	}
}

// WithLocale selects the message language ("en" or "id").
func WithLocale(locale string) Option {
	return func(p *Platform) {
		p.locale = locale
	}
}

// WithMaxAttempts bounds how many invalid answers are re-prompted.
func WithMaxAttempts(n int) Option {
	return func(p *Platform) {
		p.maxAttempts = n
	}
}

// WithChatTarget selects who FriendChat messages ("first" or "selected").
func WithChatTarget(target string) Option {
	return func(p *Platform) {
		p.chatTarget = friends.ChatTarget(target)
	}
}

// WithClock overrides the time source used for bookings, memberships and messages.
func WithClock(clock func() time.Time) Option {
	return func(p *Platform) {
		p.clock = clock
	}
}

// WithRand makes notification digests reproducible.
func WithRand(rnd *rand.Rand) Option {
	return func(p *Platform) {
		p.rnd = rnd
	}
}

// WithLifecycleHooks registers state and transition callbacks on every engine.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(p *Platform) {
		p.hooks = hooks
	}
}

// WithMetrics records state, transition and operation metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(p *Platform) {
		p.metrics = m
	}
}

// WithTracer overrides the global OpenTelemetry tracer used for state spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(p *Platform) {
		p.tracer = tracer
	}
}

// New builds a Platform. Without options it runs fully in memory on the embedded catalog.
func New(opts ...Option) (*Platform, error) {
	p := &Platform{
		locale:      "en",
		maxAttempts: DefaultMaxAttempts,
		chatTarget:  friends.ChatTargetFirst,
		clock:       time.Now,
		logger:      logging.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.maxAttempts < 1 {
		return nil, fmt.Errorf("max attempts must be at least 1, got %d", p.maxAttempts)
	}

	if p.catalog == nil {
		c, err := catalog.Default()
		if err != nil {
			return nil, err
		}
		p.catalog = c
	}
	if p.users == nil {
		p.users = memory.NewDirectory(p.catalog.Users()...)
	}
	if p.ledger == nil {
		p.ledger = memory.NewLedger()
	}
	if p.store == nil {
		p.store = memory.NewStore()
	}

	printer, err := i18n.New(p.locale)
	if err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}
	p.printer = printer

	sessionOpts := []session.Option{session.WithLogger(p.logger)}
	if p.locker != nil {
		sessionOpts = append(sessionOpts, session.WithLocker(p.locker))
	}
	p.sessions = session.NewManager(p.store, sessionOpts...)

	set, err := p.build(p.catalog)
	if err != nil {
		return nil, err
	}
	p.engines.Store(set)
	return p, nil
}

func (p *Platform) machineOptions() []runtime.Option {
	hooks := p.hooks
	if p.metrics != nil {
		hooks = domain.ChainHooks(hooks, p.metrics.Hooks())
	}
	opts := []runtime.Option{runtime.WithLogger(p.logger), runtime.WithLifecycleHooks(hooks)}
	if p.tracer != nil {
		opts = append(opts, runtime.WithTracer(p.tracer))
	}
	return opts
}

func (p *Platform) build(c ports.CatalogProvider) (*engineSet, error) {
	mo := p.machineOptions()
	set := &engineSet{}
	var err error

	if set.auth, err = auth.New(p.users, auth.WithLogger(p.logger), auth.WithMachineOptions(mo...)); err != nil {
		return nil, err
	}
	if set.community, err = community.New(c.Communities(), p.ledger,
		community.WithLogger(p.logger), community.WithClock(p.clock), community.WithMachineOptions(mo...)); err != nil {
		return nil, err
	}
	if set.activity, err = activity.New(c.Activities(), p.ledger,
		activity.WithLogger(p.logger), activity.WithClock(p.clock), activity.WithMachineOptions(mo...)); err != nil {
		return nil, err
	}
	if set.friends, err = friends.New(c.People(),
		friends.WithLogger(p.logger), friends.WithChatTarget(p.chatTarget), friends.WithClock(p.clock), friends.WithMachineOptions(mo...)); err != nil {
		return nil, err
	}
	notificationOpts := []notification.Option{notification.WithMachineOptions(mo...)}
	if p.rnd != nil {
		notificationOpts = append(notificationOpts, notification.WithRand(p.rnd))
	}
	if set.notification, err = notification.New(c.NotificationTemplates(), notificationOpts...); err != nil {
		return nil, err
	}
	if set.settings, err = settings.New(settings.WithMachineOptions(mo...)); err != nil {
		return nil, err
	}
	if set.dashboard, err = dashboard.New(p.applySetting, dashboard.WithLogger(p.logger), dashboard.WithMachineOptions(mo...)); err != nil {
		return nil, err
	}
	if set.chat, err = chat.New(chat.WithClock(p.clock), chat.WithMachineOptions(mo...)); err != nil {
		return nil, err
	}
	return set, nil
}

// UseCatalog rebuilds the catalog-backed engines from c. Operations already in flight
// finish on the previous snapshot. Live counters stay in the claim ledger.
func (p *Platform) UseCatalog(c ports.CatalogProvider) error {
	set, err := p.build(c)
	if err != nil {
		return fmt.Errorf("failed to apply catalog: %w", err)
	}
	p.engines.Store(set)
	p.logger.Info("catalog applied",
		"communities", len(c.Communities()),
		"activities", len(c.Activities()),
	)
	return nil
}

func (set *engineSet) machines() map[string]*runtime.Machine {
	return map[string]*runtime.Machine{
		domain.EngineAuth:         set.auth.Machine(),
		domain.EngineCommunity:    set.community.Machine(),
		domain.EngineActivity:     set.activity.Machine(),
		domain.EngineFriends:      set.friends.Machine(),
		domain.EngineNotification: set.notification.Machine(),
		domain.EngineSettings:     set.settings.Machine(),
		domain.EngineDashboard:    set.dashboard.Machine(),
		domain.EngineChat:         set.chat.Machine(),
	}
}

// Machine returns the state machine of the named engine.
func (p *Platform) Machine(engine string) (*runtime.Machine, bool) {
	m, ok := p.current().machines()[engine]
	return m, ok
}

// CurrentState returns the state the user's session of engine is parked at, or Idle.
func (p *Platform) CurrentState(ctx context.Context, engine, username string) domain.StateKind {
	m, ok := p.Machine(engine)
	if !ok || username == "" {
		return domain.Idle
	}
	return p.peek(ctx, m, username).CurrentState()
}

// Sessions exposes the session manager, mainly for inspection and tests.
func (p *Platform) Sessions() *session.Manager { return p.sessions }

// Users exposes the user directory.
func (p *Platform) Users() ports.UserDirectory { return p.users }

// Locale returns the resolved message language.
func (p *Platform) Locale() string { return p.printer.Tag().String() }

func (p *Platform) current() *engineSet { return p.engines.Load() }

// within runs fn as one unit of work on the user's session of machine m and records the
// operation outcome.
func (p *Platform) within(ctx context.Context, op, username string, m *runtime.Machine, fn func(context.Context, *domain.Session) Result) Result {
	start := time.Now()
	var res Result
	if username == "" {
		res = p.fail(domain.InvalidInput("username is required"))
	} else {
		fresh := func() *domain.Session { return m.NewSession(username) }
		err := p.sessions.Run(ctx, m.SessionID(username), fresh, func(ctx context.Context, s *domain.Session) error {
			res = fn(ctx, s)
			return nil
		})
		if err != nil {
			res = p.fail(err)
		}
	}

	if p.metrics != nil {
		p.metrics.ObserveOperation(op, res.Success, time.Since(start))
	}
	if res.Success {
		p.logger.Debug("operation completed", "op", op, "user", username)
	} else {
		p.logger.Debug("operation failed", "op", op, "user", username, "err", res.Err)
	}
	return res
}

// peek reads another engine's session without holding its lock for the rest of the call.
// A missing session reads as a fresh one.
func (p *Platform) peek(ctx context.Context, m *runtime.Machine, username string) *domain.Session {
	s, err := p.sessions.Load(ctx, m.SessionID(username), m.Defaults())
	if err != nil {
		if !errors.Is(err, domain.ErrSessionNotFound) {
			p.logger.Warn("failed to read session", "session", m.SessionID(username), "err", err)
		}
		return m.NewSession(username)
	}
	return s
}

// applySetting is the dashboard's settings delegate. It runs under the settings
// session lock while the dashboard session lock is held; settings never locks back.
func (p *Platform) applySetting(ctx context.Context, username string, kind domain.StateKind, choice string) (domain.Transition, error) {
	e := p.current().settings
	var tr domain.Transition
	fresh := func() *domain.Session { return e.NewSession(username) }
	err := p.sessions.Run(ctx, e.Machine().SessionID(username), fresh, func(ctx context.Context, s *domain.Session) error {
		var err error
		tr, err = e.Apply(ctx, s, kind, choice)
		return err
	})
	return tr, err
}
