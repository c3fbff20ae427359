// Package settings implements the font size and theme preference engine.
package settings

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/silverconnect/internal/runtime"
	"github.com/aretw0/silverconnect/internal/services"
	"github.com/aretw0/silverconnect/pkg/domain"
	"github.com/go-playground/validator/v10"
)

// Session fields owned by the settings engine.
const (
	FieldFontSize = "fontSize"
	FieldTheme    = "theme"
)

// Accepted values.
const (
	FontSmall  = "Small"
	FontMedium = "Medium"
	FontLarge  = "Large"
	ThemeLight = "Light"
	ThemeDark  = "Dark"
)

var aliases = map[string]string{
	"small": FontSmall, "kecil": FontSmall,
	"medium": FontMedium, "sedang": FontMedium,
	"large": FontLarge, "besar": FontLarge,
	"light": ThemeLight, "terang": ThemeLight,
	"dark": ThemeDark, "gelap": ThemeDark,
}

// Engine owns the settings state machine.
type Engine struct {
	machine  *runtime.Machine
	validate *validator.Validate
}

// Option configures the Engine.
type Option func(*Engine, *[]runtime.Option)

// WithMachineOptions forwards options to the underlying machine.
func WithMachineOptions(opts ...runtime.Option) Option {
	return func(_ *Engine, ro *[]runtime.Option) {
		*ro = append(*ro, opts...)
	}
}

// New builds the settings engine.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{validate: validator.New()}
	var machineOpts []runtime.Option
	for _, opt := range opts {
		opt(e, &machineOpts)
	}

	defaults := map[string]any{
		FieldFontSize: FontMedium,
		FieldTheme:    ThemeLight,
	}
	states := []runtime.State{
		&preference{e: e, kind: domain.KindFontSettings, field: FieldFontSize, rule: "oneof=Small Medium Large"},
		&preference{e: e, kind: domain.KindThemeSettings, field: FieldTheme, rule: "oneof=Light Dark"},
	}
	m, err := runtime.NewMachine(domain.EngineSettings, runtime.ModeDrain, domain.KindFontSettings, states, defaults, machineOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build settings machine: %w", err)
	}
	e.machine = m
	return e, nil
}

// Machine returns the underlying state machine.
func (e *Engine) Machine() *runtime.Machine { return e.machine }

// NewSession creates an idle settings session for username.
func (e *Engine) NewSession(username string) *domain.Session {
	return e.machine.NewSession(username)
}

// Apply enters kind and handles choice in a single step.
func (e *Engine) Apply(ctx context.Context, s *domain.Session, kind domain.StateKind, choice string) (domain.Transition, error) {
	if err := e.machine.Enter(s, kind); err != nil {
		return domain.Transition{}, err
	}
	return e.machine.Step(ctx, s, domain.Input{services.InputChoice: choice})
}

// preference validates a choice against a fixed set and stores it on field.
type preference struct {
	e     *Engine
	kind  domain.StateKind
	field string
	rule  string
}

func (st *preference) Kind() domain.StateKind { return st.kind }

func (st *preference) Successors() []domain.StateKind { return nil }

func (st *preference) Handle(_ context.Context, s *domain.Session, in domain.Input) domain.Transition {
	raw := in.String(services.InputChoice)
	choice, ok := aliases[strings.ToLower(raw)]
	if !ok {
		choice = raw
	}
	if err := st.e.validate.Var(choice, "required,"+st.rule); err != nil {
		options := strings.ReplaceAll(strings.TrimPrefix(st.rule, "oneof="), " ", ", ")
		return domain.Invalid(domain.InvalidInput("%q is not one of %s", raw, options))
	}
	s.Set(st.field, choice)
	return domain.Terminal()
}
