// Package chat implements the one-to-one chat engine.
package chat

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/aretw0/silverconnect/internal/runtime"
	"github.com/aretw0/silverconnect/pkg/domain"
)

// Session fields owned by the chat engine. Input keys use the same names.
const (
	FieldFriend  = "friend"
	FieldMessage = "message"
	FieldHistory = "history"
)

// Engine owns the chat state machine.
type Engine struct {
	machine *runtime.Machine
	clock   func() time.Time
}

// Option configures the Engine.
type Option func(*Engine, *[]runtime.Option)

// WithClock overrides the time source used for messages.
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

// New builds the chat engine.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{clock: time.Now}
	var machineOpts []runtime.Option
	for _, opt := range opts {
		opt(e, &machineOpts)
	}

	defaults := map[string]any{
		FieldFriend:  "",
		FieldHistory: []domain.Message{},
	}
	states := []runtime.State{&chatStart{}, &chatSendMessage{e: e}}
	m, err := runtime.NewMachine(domain.EngineChat, runtime.ModeStep, domain.KindChatStart, states, defaults, machineOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build chat machine: %w", err)
	}
	e.machine = m
	return e, nil
}

// Machine returns the underlying state machine.
func (e *Engine) Machine() *runtime.Machine { return e.machine }

// NewSession creates an idle chat session for username.
func (e *Engine) NewSession(username string) *domain.Session {
	return e.machine.NewSession(username)
}

// Start points the session at ChatStart.
func (e *Engine) Start(s *domain.Session) error {
	return e.machine.Enter(s, domain.KindChatStart)
}

// History returns the messages sent from the session.
func History(s *domain.Session) []domain.Message {
	return slices.Clone(domain.Value[[]domain.Message](s, FieldHistory))
}

type chatStart struct{}

func (st *chatStart) Kind() domain.StateKind { return domain.KindChatStart }

func (st *chatStart) Successors() []domain.StateKind {
	return []domain.StateKind{domain.KindChatSendMessage}
}

func (st *chatStart) Handle(_ context.Context, s *domain.Session, in domain.Input) domain.Transition {
	friend := in.String(FieldFriend)
	if friend == "" {
		return domain.Invalid(domain.MissingPrecondition("choose who to chat with"))
	}
	s.Set(FieldFriend, friend)
	return domain.Continue(domain.KindChatSendMessage)
}

type chatSendMessage struct{ e *Engine }

func (st *chatSendMessage) Kind() domain.StateKind { return domain.KindChatSendMessage }

func (st *chatSendMessage) Successors() []domain.StateKind { return nil }

// Reentrant keeps the conversation open for further messages.
func (st *chatSendMessage) Reentrant() bool { return true }

func (st *chatSendMessage) Handle(_ context.Context, s *domain.Session, in domain.Input) domain.Transition {
	text := in.String(FieldMessage)
	if text == "" {
		return domain.Invalid(domain.InvalidInput("message cannot be empty"))
	}
	msg := domain.Message{From: s.Username(), To: s.String(FieldFriend), Text: text, SentAt: st.e.clock()}
	s.Set(FieldHistory, append(History(s), msg))
	return domain.Terminal()
}
