// Package dashboard implements the dashboard, profile and settings shortcut engine.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/silverconnect/internal/logging"
	"github.com/aretw0/silverconnect/internal/runtime"
	"github.com/aretw0/silverconnect/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// Session fields owned by the dashboard engine.
const (
	FieldSummary  = "summary"
	FieldFullName = "fullName"
	FieldDOB      = "dob"
	FieldPhoto    = "photo"
	FieldHobbies  = "hobbies"
)

// Input keys.
const (
	InputSummary = "summary"
	InputEdits   = "edits"
	InputSetting = "setting"
	InputChoice  = "choice"
)

// Setting names accepted by DashboardSettings.
const (
	SettingFont  = "font"
	SettingTheme = "theme"
)

// SettingsDelegate applies a preference change on behalf of the dashboard.
type SettingsDelegate func(ctx context.Context, username string, kind domain.StateKind, choice string) (domain.Transition, error)

// Profile is the editable part of the dashboard session.
type Profile struct {
	FullName string   `json:"fullName" mapstructure:"fullName"`
	DOB      string   `json:"dob" mapstructure:"dob"`
	Photo    string   `json:"photo" mapstructure:"photo"`
	Hobbies  []string `json:"hobbies" mapstructure:"hobbies"`
}

// Engine owns the dashboard state machine.
type Engine struct {
	machine  *runtime.Machine
	delegate SettingsDelegate
	logger   *slog.Logger
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

// WithMachineOptions forwards options to the underlying machine.
func WithMachineOptions(opts ...runtime.Option) Option {
	return func(_ *Engine, ro *[]runtime.Option) {
		*ro = append(*ro, opts...)
	}
}

// New builds the dashboard engine. delegate handles DashboardSettings.
func New(delegate SettingsDelegate, opts ...Option) (*Engine, error) {
	if delegate == nil {
		return nil, errors.New("dashboard engine requires a settings delegate")
	}
	e := &Engine{delegate: delegate, logger: logging.NewNop()}
	var machineOpts []runtime.Option
	for _, opt := range opts {
		opt(e, &machineOpts)
	}

	defaults := map[string]any{
		FieldSummary:  domain.Summary{},
		FieldFullName: "Unknown",
		FieldDOB:      "1900-01-01",
		FieldPhoto:    "https://example.com/photo.jpg",
		FieldHobbies:  []string{"Walking", "Gardening"},
	}
	states := []runtime.State{&viewDashboard{}, &viewProfile{e: e}, &dashboardSettings{e: e}}
	m, err := runtime.NewMachine(domain.EngineDashboard, runtime.ModeDrain, domain.KindViewDashboard, states, defaults, machineOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build dashboard machine: %w", err)
	}
	e.machine = m
	return e, nil
}

// Machine returns the underlying state machine.
func (e *Engine) Machine() *runtime.Machine { return e.machine }

// NewSession creates an idle dashboard session for username.
func (e *Engine) NewSession(username string) *domain.Session {
	return e.machine.NewSession(username)
}

// Start points the session at one of the dashboard states.
func (e *Engine) Start(s *domain.Session, kind domain.StateKind) error {
	return e.machine.Enter(s, kind)
}

// ProfileOf reads the profile fields from the session.
func ProfileOf(s *domain.Session) Profile {
	return Profile{
		FullName: s.String(FieldFullName),
		DOB:      s.String(FieldDOB),
		Photo:    s.String(FieldPhoto),
		Hobbies:  s.Strings(FieldHobbies),
	}
}

// decodeEdits decodes raw edits into p. Keys follow the Profile mapstructure tags.
func decodeEdits(raw any, p *Profile) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToSliceHookFunc(","),
		WeaklyTypedInput: true,
		Result:           p,
	})
	if err != nil {
		return err
	}
	return dec.Decode(raw)
}
