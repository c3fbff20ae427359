package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/aretw0/silverconnect/internal/logging"
	"github.com/aretw0/silverconnect/pkg/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/aretw0/silverconnect/internal/runtime"

// Machine drives sessions through a fixed set of states.
type Machine struct {
	name     string
	mode     Mode
	initial  domain.StateKind
	states   map[domain.StateKind]State
	order    []domain.StateKind
	defaults map[string]any

	logger *slog.Logger
	hooks  domain.LifecycleHooks
	tracer trace.Tracer
}

// Option configures the Machine.
type Option func(*Machine)

// WithLogger sets the logger for the machine.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Machine) {
		m.logger = logger
	}
}

// WithLifecycleHooks registers observability callbacks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(m *Machine) {
		m.hooks = hooks
	}
}

// WithTracer overrides the global OpenTelemetry tracer.
func WithTracer(tracer trace.Tracer) Option {
	return func(m *Machine) {
		m.tracer = tracer
	}
}

// NewMachine builds a machine and validates its graph: kinds are unique, every successor
// exists, the initial state exists, and drain machines are acyclic.
func NewMachine(name string, mode Mode, initial domain.StateKind, states []State, defaults map[string]any, opts ...Option) (*Machine, error) {
	m := &Machine{
		name:     name,
		mode:     mode,
		initial:  initial,
		states:   make(map[domain.StateKind]State, len(states)),
		defaults: defaults,
		logger:   logging.NewNop(),
		tracer:   otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(m)
	}

	for _, st := range states {
		kind := st.Kind()
		if kind == domain.Idle {
			return nil, &GraphError{Machine: name, Reason: "state with empty kind"}
		}
		if _, dup := m.states[kind]; dup {
			return nil, &GraphError{Machine: name, State: kind, Reason: "duplicate state"}
		}
		m.states[kind] = st
		m.order = append(m.order, kind)
	}
	if _, ok := m.states[initial]; !ok {
		return nil, &GraphError{Machine: name, State: initial, Reason: "initial state not registered"}
	}
	for _, kind := range m.order {
		for _, next := range m.states[kind].Successors() {
			if next == kind {
				return nil, &GraphError{Machine: name, State: kind, Reason: "state lists itself as successor"}
			}
			if _, ok := m.states[next]; !ok {
				return nil, &GraphError{Machine: name, State: kind, Reason: fmt.Sprintf("successor '%s' not registered", next)}
			}
		}
	}
	if mode == ModeDrain {
		if kind, cyclic := m.findCycle(); cyclic {
			return nil, &GraphError{Machine: name, State: kind, Reason: "cycle in drain machine"}
		}
	}
	return m, nil
}

func (m *Machine) findCycle() (domain.StateKind, bool) {
	const (
		unvisited = iota
		visiting
		done
	)
	marks := make(map[domain.StateKind]int, len(m.states))
	var visit func(domain.StateKind) (domain.StateKind, bool)
	visit = func(kind domain.StateKind) (domain.StateKind, bool) {
		switch marks[kind] {
		case visiting:
			return kind, true
		case done:
			return domain.Idle, false
		}
		marks[kind] = visiting
		for _, next := range m.states[kind].Successors() {
			if at, cyclic := visit(next); cyclic {
				return at, true
			}
		}
		marks[kind] = done
		return domain.Idle, false
	}
	for _, kind := range m.order {
		if at, cyclic := visit(kind); cyclic {
			return at, true
		}
	}
	return domain.Idle, false
}

// Name returns the engine name the machine was built for.
func (m *Machine) Name() string { return m.name }

// Mode returns the drive mode.
func (m *Machine) Mode() Mode { return m.mode }

// Initial returns the initial state kind.
func (m *Machine) Initial() domain.StateKind { return m.initial }

// States lists the registered kinds in registration order.
func (m *Machine) States() []domain.StateKind {
	out := make([]domain.StateKind, len(m.order))
	copy(out, m.order)
	return out
}

// Successors returns the states kind may continue to, or nil for an unknown kind.
func (m *Machine) Successors(kind domain.StateKind) []domain.StateKind {
	st, ok := m.states[kind]
	if !ok {
		return nil
	}
	return append([]domain.StateKind(nil), st.Successors()...)
}

// Reentrant reports whether kind stays active after a Terminal outcome.
func (m *Machine) Reentrant(kind domain.StateKind) bool {
	st, ok := m.states[kind]
	return ok && isReentrant(st)
}

// Defaults returns a fresh copy of the declared field defaults.
func (m *Machine) Defaults() map[string]any {
	out := make(map[string]any, len(m.defaults))
	for k, v := range m.defaults {
		out[k] = v
	}
	return out
}

// SessionID derives the session identifier for a user on this machine.
func (m *Machine) SessionID(username string) string {
	return username + ":" + m.name
}

// NewSession creates an idle session for username.
func (m *Machine) NewSession(username string) *domain.Session {
	return domain.NewSession(m.SessionID(username), m.name, username, m.Defaults())
}

// Enter points the session at kind, or at Idle to reset it.
func (m *Machine) Enter(s *domain.Session, kind domain.StateKind) error {
	if kind != domain.Idle {
		if _, ok := m.states[kind]; !ok {
			return fmt.Errorf("%w: '%s' in machine '%s'", ErrUnknownState, kind, m.name)
		}
	}
	s.SetState(kind)
	return nil
}

// Step runs exactly one Handle on the session's current state and applies the transition.
func (m *Machine) Step(ctx context.Context, s *domain.Session, in domain.Input) (domain.Transition, error) {
	from := s.CurrentState()
	if from == domain.Idle {
		return domain.Transition{}, fmt.Errorf("%w: session '%s'", ErrNoActiveState, s.ID())
	}
	st, ok := m.states[from]
	if !ok {
		return domain.Transition{}, fmt.Errorf("%w: '%s' in machine '%s'", ErrUnknownState, from, m.name)
	}

	if m.hooks.OnStateEnter != nil {
		m.hooks.OnStateEnter(ctx, &domain.StateEvent{
			EventBase: m.eventBase(domain.EventStateEnter, s),
			State:     from,
		})
	}

	ctx, span := m.tracer.Start(ctx, "state."+string(from), trace.WithAttributes(
		attribute.String("silverconnect.engine", m.name),
		attribute.String("silverconnect.session", s.ID()),
		attribute.String("silverconnect.state", string(from)),
	))
	defer span.End()

	tr := st.Handle(ctx, s, in)
	span.SetAttributes(attribute.String("silverconnect.outcome", tr.Outcome.String()))
	if tr.Err != nil {
		span.RecordError(tr.Err)
	}

	switch tr.Outcome {
	case domain.OutcomeContinue:
		if tr.Next == from {
			span.SetStatus(codes.Error, ErrSelfTransition.Error())
			return tr, fmt.Errorf("%w: '%s'", ErrSelfTransition, from)
		}
		if !slices.Contains(st.Successors(), tr.Next) {
			span.SetStatus(codes.Error, ErrUnknownState.Error())
			return tr, fmt.Errorf("%w: '%s' is not a successor of '%s'", ErrUnknownState, tr.Next, from)
		}
		s.SetState(tr.Next)
	case domain.OutcomeTerminal:
		if !isReentrant(st) {
			s.SetState(domain.Idle)
		}
	case domain.OutcomeInvalid:
		// stays on the same state
	}

	to := s.CurrentState()
	m.logger.Debug("state handled",
		"engine", m.name,
		"session", s.ID(),
		"from", from,
		"to", to,
		"outcome", tr.Outcome.String(),
	)

	if m.hooks.OnTransition != nil {
		m.hooks.OnTransition(ctx, &domain.TransitionEvent{
			EventBase: m.eventBase(domain.EventTransition, s),
			From:      from,
			To:        to,
			Outcome:   tr.Outcome,
			Rule:      domain.RuleOf(tr.Err),
			Reason:    domain.ReasonOf(tr.Err),
		})
	}
	return tr, nil
}

// RunToCompletion steps a drain machine until a Terminal or Invalid outcome.
// The same input is offered to every state visited. An Invalid result is returned
// to the caller, which re-dispatches with corrected input.
func (m *Machine) RunToCompletion(ctx context.Context, s *domain.Session, in domain.Input) (domain.Transition, error) {
	if m.mode != ModeDrain {
		return domain.Transition{}, fmt.Errorf("%w: '%s'", ErrDrainUnsupported, m.name)
	}
	for i := 0; i < len(m.states); i++ {
		if err := ctx.Err(); err != nil {
			return domain.Invalid(domain.Canceled(err.Error())), nil
		}
		tr, err := m.Step(ctx, s, in)
		if err != nil {
			return tr, err
		}
		if tr.Outcome != domain.OutcomeContinue {
			return tr, nil
		}
	}
	return domain.Transition{}, fmt.Errorf("%w: %d steps in '%s'", ErrStepLimit, len(m.states), m.name)
}

func (m *Machine) eventBase(t domain.EventType, s *domain.Session) domain.EventBase {
	return domain.EventBase{
		Timestamp: time.Now(),
		Type:      t,
		Engine:    m.name,
		SessionID: s.ID(),
		Username:  s.Username(),
	}
}
