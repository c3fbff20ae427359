// Package activity implements the activity discovery and booking engine.
package activity

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

// Session fields owned by the activity engine.
const (
	FieldDifficulty = "difficulty"
	FieldLevel      = "level"
	FieldInterests  = "interests"
	FieldListing    = "listing"
	FieldSelected   = "selectedActivity"
	FieldBooked     = "booked"
	FieldBooking    = "lastBooking"
	FieldBookings   = "bookings"
)

// BookingConfirmed is the status of a live booking.
const BookingConfirmed = "confirmed"

var levels = map[string][]string{
	"ringan": {"mudah"},
	"sedang": {"mudah", "sedang"},
	"aktif":  {"mudah", "sedang", "sulit"},
}

var interestCategories = map[string][]string{
	"berkebun":   {"hobi"},
	"gardening":  {"hobi"},
	"memasak":    {"hobi"},
	"cooking":    {"hobi"},
	"yoga":       {"olahraga", "kesehatan"},
	"seni":       {"kreatif"},
	"art":        {"kreatif"},
	"jalan kaki": {"olahraga"},
	"walking":    {"olahraga"},
	"olahraga":   {"olahraga"},
	"membaca":    {"edukasi"},
	"reading":    {"edukasi"},
}

// Engine owns the activity state machine, the catalog snapshot and the booking ledger.
type Engine struct {
	machine    *runtime.Machine
	activities []domain.Activity
	byID       map[int]domain.Activity
	ledger     ports.ClaimLedger
	clock      func() time.Time
	logger     *slog.Logger
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

// WithClock overrides the time source used for booking IDs.
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

// New builds an activity engine over an immutable catalog snapshot.
func New(activities []domain.Activity, ledger ports.ClaimLedger, opts ...Option) (*Engine, error) {
	if ledger == nil {
		return nil, errors.New("activity engine requires a claim ledger")
	}
	e := &Engine{
		activities: slices.Clone(activities),
		byID:       make(map[int]domain.Activity, len(activities)),
		ledger:     ledger,
		clock:      time.Now,
		logger:     logging.NewNop(),
	}
	var machineOpts []runtime.Option
	for _, opt := range opts {
		opt(e, &machineOpts)
	}
	for _, a := range e.activities {
		e.byID[a.ID] = a
	}

	defaults := map[string]any{
		FieldDifficulty: "",
		FieldLevel:      "",
		FieldInterests:  []string{},
		FieldListing:    []domain.Activity{},
		FieldSelected:   domain.Activity{},
		FieldBooked:     false,
		FieldBooking:    domain.Booking{},
		FieldBookings:   []domain.Booking{},
	}
	states := []runtime.State{&findActivity{e: e}, &bookActivity{e: e}}
	m, err := runtime.NewMachine(domain.EngineActivity, runtime.ModeDrain, domain.KindFindActivity, states, defaults, machineOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build activity machine: %w", err)
	}
	e.machine = m
	return e, nil
}

// Machine returns the underlying state machine.
func (e *Engine) Machine() *runtime.Machine { return e.machine }

// NewSession creates an idle activity session for username.
func (e *Engine) NewSession(username string) *domain.Session {
	return e.machine.NewSession(username)
}

// Start points the session at FindActivity.
func (e *Engine) Start(s *domain.Session) error {
	return e.machine.Enter(s, domain.KindFindActivity)
}

// Activity returns a catalog record with its live participant count.
func (e *Engine) Activity(ctx context.Context, id int) (domain.Activity, bool) {
	a, ok := e.byID[id]
	if !ok {
		return domain.Activity{}, false
	}
	return e.live(ctx, a), true
}

// Listing filters the catalog by exact difficulty, by activity level and by interests.
// The interest filter only narrows the listing when at least one activity matches.
func (e *Engine) Listing(ctx context.Context, difficulty, level string, interests []string) []domain.Activity {
	var out []domain.Activity
	allowed, hasLevel := levels[strings.ToLower(level)]
	if level != "" && !hasLevel {
		allowed = levels["ringan"]
	}
	for _, a := range e.activities {
		if difficulty != "" && !strings.EqualFold(a.Difficulty, difficulty) {
			continue
		}
		if level != "" && !slices.Contains(allowed, a.Difficulty) {
			continue
		}
		out = append(out, e.live(ctx, a))
	}

	categories := categoriesOf(interests)
	if len(categories) == 0 {
		return out
	}
	var recommended []domain.Activity
	for _, a := range out {
		if categories[a.Category] {
			recommended = append(recommended, a)
		}
	}
	if len(recommended) == 0 {
		return out
	}
	return recommended
}

func categoriesOf(interests []string) map[string]bool {
	categories := map[string]bool{}
	for _, interest := range interests {
		for _, c := range interestCategories[strings.ToLower(strings.TrimSpace(interest))] {
			categories[c] = true
		}
	}
	return categories
}

func (e *Engine) live(ctx context.Context, a domain.Activity) domain.Activity {
	count, err := e.ledger.Count(ctx, domain.ScopeActivity, a.ID, a.Participants)
	if err != nil {
		e.logger.Warn("failed to read participant count", "activity", a.ID, "err", err)
		return a
	}
	a.Participants = count
	return a
}

// Schedule returns the bookings recorded on the session.
func (e *Engine) Schedule(s *domain.Session) []domain.Booking {
	return slices.Clone(domain.Value[[]domain.Booking](s, FieldBookings))
}

// Cancel releases the user's seat and removes the booking from the session.
func (e *Engine) Cancel(ctx context.Context, s *domain.Session, activityID int) error {
	a, ok := e.byID[activityID]
	if !ok {
		return domain.InvalidInput("unknown activity %d", activityID)
	}
	_, err := e.ledger.Release(ctx, ports.Claim{
		Scope:    domain.ScopeActivity,
		ItemID:   a.ID,
		Username: s.Username(),
		Baseline: a.Participants,
	})
	if errors.Is(err, domain.ErrNotClaimed) {
		return domain.RuleViolation(domain.RuleNotBooked, "%s has no booking for %q", s.Username(), a.Name)
	}
	if err != nil {
		return fmt.Errorf("failed to release booking: %w", err)
	}
	bookings := slices.DeleteFunc(e.Schedule(s), func(b domain.Booking) bool {
		return b.ActivityID == activityID
	})
	s.Set(FieldBookings, bookings)
	return nil
}

func (e *Engine) book(ctx context.Context, s *domain.Session, selected domain.Activity) domain.Transition {
	base, ok := e.byID[selected.ID]
	if !ok {
		return domain.Invalid(domain.InvalidInput("unknown activity %d", selected.ID))
	}
	user := s.Username()
	count, err := e.ledger.Claim(ctx, ports.Claim{
		Scope:    domain.ScopeActivity,
		ItemID:   base.ID,
		Username: user,
		Capacity: base.MaxParticipants,
		Baseline: base.Participants,
	})
	switch {
	case errors.Is(err, domain.ErrAlreadyClaimed):
		s.Set(FieldBooked, false)
		return domain.TerminalWith(domain.RuleViolation(domain.RuleAlreadyBooked, "%s already booked %q", user, base.Name))
	case errors.Is(err, domain.ErrCapacityFull):
		s.Set(FieldBooked, false)
		return domain.TerminalWith(domain.RuleViolation(domain.RuleCapacityFull, "%q is full (%d/%d)", base.Name, base.MaxParticipants, base.MaxParticipants))
	case err != nil:
		s.Set(FieldBooked, false)
		return domain.TerminalWith(fmt.Errorf("failed to claim seat: %w", err))
	}

	now := e.clock()
	selected.Participants = count
	booking := domain.Booking{
		ID:           fmt.Sprintf("BK_%s_%d_%d", user, base.ID, now.Unix()),
		Username:     user,
		ActivityID:   base.ID,
		ActivityName: base.Name,
		Time:         base.Time,
		Location:     base.Location,
		Category:     base.Category,
		Status:       BookingConfirmed,
		BookedAt:     now,
	}
	s.Set(FieldSelected, selected)
	s.Set(FieldBooking, booking)
	s.Set(FieldBookings, append(e.Schedule(s), booking))
	s.Set(FieldBooked, true)
	e.logger.Info("activity booked", "user", user, "activity", base.ID, "booking", booking.ID)
	return domain.Terminal()
}
