// Package friends implements friend discovery, friend actions and friend chat.
package friends

import (
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/aretw0/silverconnect/internal/logging"
	"github.com/aretw0/silverconnect/internal/runtime"
	"github.com/aretw0/silverconnect/pkg/domain"
)

// Session fields owned by the friends engine.
const (
	FieldInterest     = "interest"
	FieldResults      = "results"
	FieldSelectedName = "selectedName"
	FieldAddedNames   = "addedNames"
	FieldLikedNames   = "likedNames"
	FieldFriends      = "friends"
	FieldOutbox       = "outbox"
	FieldChatTarget   = "chatTarget"
)

// Input keys.
const (
	InputName    = "name"
	InputActions = "actions"
	InputMessage = "message"
)

// Friend actions.
const (
	ActionAdd  = "add"
	ActionLike = "like"
	ActionChat = "chat"
)

// ChatTarget selects who FriendChat messages.
type ChatTarget string

const (
	// ChatTargetFirst always messages the first confirmed friend.
	ChatTargetFirst ChatTarget = "first"
	// ChatTargetSelected messages the named or last selected friend.
	ChatTargetSelected ChatTarget = "selected"
)

// ParseChatTarget validates a configured policy name.
func ParseChatTarget(s string) (ChatTarget, error) {
	switch ChatTarget(s) {
	case "", ChatTargetFirst:
		return ChatTargetFirst, nil
	case ChatTargetSelected:
		return ChatTargetSelected, nil
	}
	return "", fmt.Errorf("unknown chat target policy %q", s)
}

// Engine owns the friends state machine and the candidate catalog.
type Engine struct {
	machine    *runtime.Machine
	candidates []domain.Person
	target     ChatTarget
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

// WithChatTarget sets the FriendChat target policy.
func WithChatTarget(target ChatTarget) Option {
	return func(e *Engine, _ *[]runtime.Option) {
		e.target = target
	}
}

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

// New builds a friends engine over an immutable candidate snapshot.
func New(candidates []domain.Person, opts ...Option) (*Engine, error) {
	e := &Engine{
		candidates: slices.Clone(candidates),
		target:     ChatTargetFirst,
		clock:      time.Now,
		logger:     logging.NewNop(),
	}
	var machineOpts []runtime.Option
	for _, opt := range opts {
		opt(e, &machineOpts)
	}
	if _, err := ParseChatTarget(string(e.target)); err != nil {
		return nil, err
	}

	defaults := map[string]any{
		FieldInterest:     "",
		FieldResults:      []domain.Person{},
		FieldSelectedName: "",
		FieldAddedNames:   []string{},
		FieldLikedNames:   []string{},
		FieldFriends:      []string{},
		FieldOutbox:       []domain.Message{},
		FieldChatTarget:   "",
	}
	states := []runtime.State{&searchFriends{e: e}, &friendDetail{e: e}, &friendChat{e: e}}
	m, err := runtime.NewMachine(domain.EngineFriends, runtime.ModeStep, domain.KindSearchFriends, states, defaults, machineOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build friends machine: %w", err)
	}
	e.machine = m
	return e, nil
}

// Machine returns the underlying state machine.
func (e *Engine) Machine() *runtime.Machine { return e.machine }

// NewSession creates an idle friends session for username.
func (e *Engine) NewSession(username string) *domain.Session {
	return e.machine.NewSession(username)
}

// Start points the session at SearchFriends.
func (e *Engine) Start(s *domain.Session) error {
	return e.machine.Enter(s, domain.KindSearchFriends)
}

// StartChat points the session at FriendChat.
func (e *Engine) StartChat(s *domain.Session) error {
	return e.machine.Enter(s, domain.KindFriendChat)
}

// Search returns the candidates sharing interest, or all of them when interest is empty.
func (e *Engine) Search(interest string) []domain.Person {
	if interest == "" {
		return slices.Clone(e.candidates)
	}
	var out []domain.Person
	for _, p := range e.candidates {
		if p.SharesInterest(interest) {
			out = append(out, p)
		}
	}
	return out
}

// Candidate looks up a candidate by exact name.
func (e *Engine) Candidate(name string) (domain.Person, bool) {
	i := slices.IndexFunc(e.candidates, func(p domain.Person) bool { return p.Name == name })
	if i < 0 {
		return domain.Person{}, false
	}
	return e.candidates[i], true
}

func (e *Engine) send(s *domain.Session, to, text string) domain.Message {
	if text == "" {
		text = fmt.Sprintf("Hi %s!", to)
	}
	msg := domain.Message{From: s.Username(), To: to, Text: text, SentAt: e.clock()}
	s.Set(FieldOutbox, append(domain.Value[[]domain.Message](s, FieldOutbox), msg))
	s.Set(FieldChatTarget, to)
	return msg
}

func appendOnce(list []string, name string) []string {
	if slices.Contains(list, name) {
		return list
	}
	return append(list, name)
}
