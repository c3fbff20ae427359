package dashboard_test

import (
	"context"
	"testing"

	"github.com/aretw0/silverconnect/internal/services/dashboard"
	"github.com/aretw0/silverconnect/internal/services/settings"
	"github.com/aretw0/silverconnect/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(t *testing.T) (*dashboard.Engine, *domain.Session) {
	t.Helper()
	prefs, err := settings.New()
	require.NoError(t, err)
	prefSession := prefs.NewSession("elder1")
	delegate := func(ctx context.Context, _ string, kind domain.StateKind, choice string) (domain.Transition, error) {
		return prefs.Apply(ctx, prefSession, kind, choice)
	}
	e, err := dashboard.New(delegate)
	require.NoError(t, err)
	return e, prefSession
}

func run(t *testing.T, e *dashboard.Engine, s *domain.Session, kind domain.StateKind, in domain.Input) domain.Transition {
	t.Helper()
	require.NoError(t, e.Start(s, kind))
	tr, err := e.Machine().RunToCompletion(context.Background(), s, in)
	require.NoError(t, err)
	return tr
}

func TestViewDashboard(t *testing.T) {
	e, _ := newEngine(t)
	s := e.NewSession("elder1")
	summary := domain.Summary{FullName: "Pak Budi", Communities: []string{"Klub Berkebun Jakarta"}, Notifications: 6, EngagementScore: 4.5}

	tr := run(t, e, s, domain.KindViewDashboard, domain.Input{dashboard.InputSummary: summary})
	assert.True(t, tr.IsTerminal())
	assert.Equal(t, summary, domain.Value[domain.Summary](s, dashboard.FieldSummary))
	assert.Equal(t, "Pak Budi", s.String(dashboard.FieldFullName))
}

func TestViewProfile(t *testing.T) {
	e, _ := newEngine(t)
	s := e.NewSession("elder1")

	tr := run(t, e, s, domain.KindViewProfile, nil)
	assert.True(t, tr.IsTerminal())
	assert.Equal(t, dashboard.Profile{
		FullName: "Unknown",
		DOB:      "1900-01-01",
		Photo:    "https://example.com/photo.jpg",
		Hobbies:  []string{"Walking", "Gardening"},
	}, dashboard.ProfileOf(s))

	tr = run(t, e, s, domain.KindViewProfile, domain.Input{dashboard.InputEdits: map[string]any{
		"fullName": "Elder One",
		"hobbies":  "Reading,Yoga",
	}})
	assert.True(t, tr.IsTerminal())
	profile := dashboard.ProfileOf(s)
	assert.Equal(t, "Elder One", profile.FullName)
	assert.Equal(t, "1900-01-01", profile.DOB, "untouched fields keep their values")
	assert.Equal(t, []string{"Reading", "Yoga"}, profile.Hobbies)

	tr = run(t, e, s, domain.KindViewProfile, domain.Input{dashboard.InputEdits: "not a map"})
	assert.True(t, tr.Succeeded(), "profile view always succeeds")
}

func TestDashboardSettings_Delegates(t *testing.T) {
	e, prefSession := newEngine(t)
	s := e.NewSession("elder1")

	tr := run(t, e, s, domain.KindDashboardSettings, domain.Input{dashboard.InputSetting: "theme", dashboard.InputChoice: "Dark"})
	assert.True(t, tr.IsTerminal())
	assert.NoError(t, tr.Err)
	assert.Equal(t, settings.ThemeDark, prefSession.String(settings.FieldTheme))

	tr = run(t, e, s, domain.KindDashboardSettings, domain.Input{dashboard.InputSetting: "font", dashboard.InputChoice: "Giant"})
	assert.True(t, tr.IsInvalid(), "invalid choices propagate")
	assert.Equal(t, domain.KindDashboardSettings, s.CurrentState())

	tr = run(t, e, s, domain.KindDashboardSettings, domain.Input{dashboard.InputSetting: "volume"})
	assert.ErrorIs(t, tr.Err, domain.ErrInvalidInput)
}

func TestNew_RequiresDelegate(t *testing.T) {
	_, err := dashboard.New(nil)
	assert.Error(t, err)
}
