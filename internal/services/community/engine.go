// Package community implements the community browsing and membership engine.
package community

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/aretw0/silverconnect/internal/logging"
	"github.com/aretw0/silverconnect/internal/runtime"
	"github.com/aretw0/silverconnect/pkg/domain"
	"github.com/aretw0/silverconnect/pkg/ports"
)

// Session fields owned by the community engine.
const (
	FieldInterests   = "interests"
	FieldListing     = "listing"
	FieldRecommended = "recommendedCount"
	FieldSelected    = "selectedCommunity"
	FieldJoined      = "joined"
	FieldMembership  = "lastMembership"
	FieldMemberships = "memberships"
)

// Membership defaults.
const (
	RoleMember   = "member"
	StatusActive = "active"
)

var interestCategories = map[string][]string{
	"berkebun":   {"hobi"},
	"gardening":  {"hobi"},
	"memasak":    {"hobi"},
	"cooking":    {"hobi"},
	"membaca":    {"edukasi"},
	"reading":    {"edukasi"},
	"teknologi":  {"edukasi"},
	"technology": {"edukasi"},
	"jalan kaki": {"olahraga"},
	"walking":    {"olahraga"},
	"yoga":       {"kesehatan"},
	"olahraga":   {"olahraga", "kesehatan"},
	"seni":       {"kreatif"},
	"art":        {"kreatif"},
}

// Engine owns the community state machine and its catalog snapshot.
type Engine struct {
	machine     *runtime.Machine
	communities []domain.Community
	byID        map[int]domain.Community
	ledger      ports.ClaimLedger
	clock       func() time.Time
	logger      *slog.Logger
}

// Option configures the Engine.
type Option func(*Engine, *[]runtime.Option)

// WithLogger sets the logger for the engine and its machine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine, ro *[]runtime.Option) {
		e.logger = logger
		*ro = append(*ro, runtime.WithLogger(logger))
	}
}

// WithClock overrides the time source used for membership records.
func WithClock(clock func() time.Time) Option {
	return func(e *Engine, _ *[]runtime.Option) {
		e.clock = clock
	}
}

// WithMachineOptions forwards options to the underlying machine.
func WithMachineOptions(opts ...runtime.Option) Option {
	return func(_ *Engine, ro *[]runtime.Option) {
		*ro = append(*ro, opts...)
	}
}

// New builds a community engine over an immutable catalog snapshot.
func New(communities []domain.Community, ledger ports.ClaimLedger, opts ...Option) (*Engine, error) {
	if ledger == nil {
		return nil, errors.New("community engine requires a claim ledger")
	}
	e := &Engine{
		communities: slices.Clone(communities),
		byID:        make(map[int]domain.Community, len(communities)),
		ledger:      ledger,
		clock:       time.Now,
		logger:      logging.NewNop(),
	}
	var machineOpts []runtime.Option
	for _, opt := range opts {
		opt(e, &machineOpts)
	}
	for _, c := range e.communities {
		e.byID[c.ID] = c
	}

	defaults := map[string]any{
		FieldInterests:   []string{},
		FieldListing:     []domain.Community{},
		FieldRecommended: 0,
		FieldSelected:    domain.Community{},
		FieldJoined:      false,
		FieldMembership:  domain.Membership{},
		FieldMemberships: []domain.Membership{},
	}
	states := []runtime.State{&browseCommunity{e: e}, &joinCommunity{e: e}}
	m, err := runtime.NewMachine(domain.EngineCommunity, runtime.ModeDrain, domain.KindBrowseCommunity, states, defaults, machineOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build community machine: %w", err)
	}
	e.machine = m
	return e, nil
}

// Machine returns the underlying state machine.
func (e *Engine) Machine() *runtime.Machine { return e.machine }

// NewSession creates an idle community session for username.
func (e *Engine) NewSession(username string) *domain.Session {
	return e.machine.NewSession(username)
}

// Start points the session at BrowseCommunity.
func (e *Engine) Start(s *domain.Session) error {
	return e.machine.Enter(s, domain.KindBrowseCommunity)
}

// Community returns a catalog record with its live member count.
func (e *Engine) Community(ctx context.Context, id int) (domain.Community, bool) {
	c, ok := e.byID[id]
	if !ok {
		return domain.Community{}, false
	}
	return e.live(ctx, c), true
}

// Listing returns the catalog with communities matching interests first.
// The second result is the number of recommended entries at the head of the listing.
func (e *Engine) Listing(ctx context.Context, interests []string) ([]domain.Community, int) {
	categories := map[string]bool{}
	for _, interest := range interests {
		for _, c := range interestCategories[strings.ToLower(strings.TrimSpace(interest))] {
			categories[c] = true
		}
	}
	var recommended, rest []domain.Community
	for _, c := range e.communities {
		c = e.live(ctx, c)
		if categories[c.Category] {
			recommended = append(recommended, c)
		} else {
			rest = append(rest, c)
		}
	}
	return append(recommended, rest...), len(recommended)
}

func (e *Engine) live(ctx context.Context, c domain.Community) domain.Community {
	count, err := e.ledger.Count(ctx, domain.ScopeCommunity, c.ID, c.Members)
	if err != nil {
		e.logger.Warn("failed to read member count", "community", c.ID, "err", err)
		return c
	}
	c.Members = count
	return c
}

// Memberships returns the memberships recorded on the session.
func (e *Engine) Memberships(s *domain.Session) []domain.Membership {
	return slices.Clone(domain.Value[[]domain.Membership](s, FieldMemberships))
}

// Leave drops the user's membership.
func (e *Engine) Leave(ctx context.Context, s *domain.Session, communityID int) error {
	c, ok := e.byID[communityID]
	if !ok {
		return domain.InvalidInput("unknown community %d", communityID)
	}
	_, err := e.ledger.Release(ctx, ports.Claim{
		Scope:    domain.ScopeCommunity,
		ItemID:   c.ID,
		Username: s.Username(),
		Baseline: c.Members,
	})
	if errors.Is(err, domain.ErrNotClaimed) {
		return domain.RuleViolation(domain.RuleNotMember, "%s is not a member of %q", s.Username(), c.Name)
	}
	if err != nil {
		return fmt.Errorf("failed to leave community: %w", err)
	}
	s.Set(FieldMemberships, slices.DeleteFunc(e.Memberships(s), func(m domain.Membership) bool {
		return m.CommunityID == communityID
	}))
	return nil
}

func (e *Engine) join(ctx context.Context, s *domain.Session, selected domain.Community) domain.Transition {
	base, ok := e.byID[selected.ID]
	if !ok {
		return domain.Invalid(domain.InvalidInput("unknown community %d", selected.ID))
	}
	user := s.Username()
	count, err := e.ledger.Claim(ctx, ports.Claim{
		Scope:    domain.ScopeCommunity,
		ItemID:   base.ID,
		Username: user,
		Baseline: base.Members,
	})
	switch {
	case errors.Is(err, domain.ErrAlreadyClaimed):
		s.Set(FieldJoined, false)
		return domain.TerminalWith(domain.RuleViolation(domain.RuleAlreadyMember, "%s is already a member of %q", user, base.Name))
	case err != nil:
		s.Set(FieldJoined, false)
		return domain.TerminalWith(fmt.Errorf("failed to join community: %w", err))
	}

	selected.Members = count
	membership := domain.Membership{
		Username:      user,
		CommunityID:   base.ID,
		CommunityName: base.Name,
		Role:          RoleMember,
		Status:        StatusActive,
		JoinedAt:      e.clock(),
	}
	s.Set(FieldSelected, selected)
	s.Set(FieldMembership, membership)
	s.Set(FieldMemberships, append(e.Memberships(s), membership))
	s.Set(FieldJoined, true)
	e.logger.Info("community joined", "user", user, "community", base.ID)
	return domain.Terminal()
}
