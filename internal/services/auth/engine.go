// Package auth implements account signup, profile setup, login, onboarding and password reset.
package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"

	"github.com/aretw0/silverconnect/internal/logging"
	"github.com/aretw0/silverconnect/internal/runtime"
	"github.com/aretw0/silverconnect/pkg/domain"
	"github.com/aretw0/silverconnect/pkg/ports"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Session fields owned by the auth engine. Input keys use the same names.
const (
	FieldEmail             = "email"
	FieldPassword          = "password"
	FieldConfirmPassword   = "confirmPassword"
	FieldFullName          = "fullName"
	FieldMode              = "mode"
	FieldHobbies           = "hobbies"
	FieldStory             = "story"
	FieldRegistered        = "registered"
	FieldLoggedIn          = "loggedIn"
	FieldProfileCompleted  = "profileCompleted"
	FieldResetToken        = "resetToken"
	FieldTemporaryPassword = "temporaryPassword"
)

// DefaultTemporaryPassword is issued by ForgotPassword unless overridden.
const DefaultTemporaryPassword = "kata_sandi_baru_123"

var modeAliases = map[string]string{
	domain.ModeFriendship: domain.ModeFriendship,
	domain.ModeRomance:    domain.ModeRomance,
	"pertemanan":          domain.ModeFriendship,
	"cinta":               domain.ModeRomance,
}

// HashPassword is the placeholder credential hash.
func HashPassword(password string) string {
	return "hashed_" + password
}

// Engine owns the auth state machine and the user directory.
type Engine struct {
	machine       *runtime.Machine
	users         ports.UserDirectory
	validate      *validator.Validate
	tokens        func() string
	temporaryPass string
	logger        *slog.Logger
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

// WithTokenSource overrides the reset token generator.
func WithTokenSource(fn func() string) Option {
	return func(e *Engine, _ *[]runtime.Option) {
		e.tokens = fn
	}
}

// WithTemporaryPassword overrides the password issued on reset.
func WithTemporaryPassword(password string) Option {
	return func(e *Engine, _ *[]runtime.Option) {
		e.temporaryPass = password
	}
}

// WithMachineOptions forwards options to the underlying machine.
func WithMachineOptions(opts ...runtime.Option) Option {
	return func(_ *Engine, ro *[]runtime.Option) {
		*ro = append(*ro, opts...)
	}
}

// New builds the auth engine.
func New(users ports.UserDirectory, opts ...Option) (*Engine, error) {
	if users == nil {
		return nil, errors.New("auth engine requires a user directory")
	}
	e := &Engine{
		users:         users,
		validate:      validator.New(),
		tokens:        uuid.NewString,
		temporaryPass: DefaultTemporaryPassword,
		logger:        logging.NewNop(),
	}
	e.validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("field")
	})
	var machineOpts []runtime.Option
	for _, opt := range opts {
		opt(e, &machineOpts)
	}

	defaults := map[string]any{
		FieldEmail:             "",
		FieldPassword:          "",
		FieldConfirmPassword:   "",
		FieldFullName:          "",
		FieldMode:              "",
		FieldHobbies:           []string{},
		FieldStory:             "",
		FieldRegistered:        false,
		FieldLoggedIn:          false,
		FieldProfileCompleted:  false,
		FieldResetToken:        "",
		FieldTemporaryPassword: "",
	}
	states := []runtime.State{
		&signup{e: e},
		&profileSetup{e: e},
		&login{e: e},
		&onboarding{e: e},
		&forgotPassword{e: e},
	}
	m, err := runtime.NewMachine(domain.EngineAuth, runtime.ModeDrain, domain.KindSignup, states, defaults, machineOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build auth machine: %w", err)
	}
	e.machine = m
	return e, nil
}

// Machine returns the underlying state machine.
func (e *Engine) Machine() *runtime.Machine { return e.machine }

// NewSession creates an idle auth session for username.
func (e *Engine) NewSession(username string) *domain.Session {
	return e.machine.NewSession(username)
}

// Start points the session at one of the auth entry states.
func (e *Engine) Start(s *domain.Session, entry domain.StateKind) error {
	return e.machine.Enter(s, entry)
}

// Users exposes the directory the engine writes to.
func (e *Engine) Users() ports.UserDirectory { return e.users }
