package dashboard

import (
	"context"
	"strings"

	"github.com/aretw0/silverconnect/pkg/domain"
)

type viewDashboard struct{}

func (st *viewDashboard) Kind() domain.StateKind { return domain.KindViewDashboard }

func (st *viewDashboard) Successors() []domain.StateKind { return nil }

func (st *viewDashboard) Handle(_ context.Context, s *domain.Session, in domain.Input) domain.Transition {
	if v, ok := in.Value(InputSummary); ok {
		if summary, ok := v.(domain.Summary); ok {
			s.Set(FieldSummary, summary)
			if summary.FullName != "" {
				s.Set(FieldFullName, summary.FullName)
			}
		}
	}
	return domain.Terminal()
}

type viewProfile struct{ e *Engine }

func (st *viewProfile) Kind() domain.StateKind { return domain.KindViewProfile }

func (st *viewProfile) Successors() []domain.StateKind { return nil }

func (st *viewProfile) Handle(_ context.Context, s *domain.Session, in domain.Input) domain.Transition {
	raw, ok := in.Value(InputEdits)
	if !ok || raw == nil {
		return domain.Terminal()
	}
	var edits Profile
	if err := decodeEdits(raw, &edits); err != nil {
		st.e.logger.Warn("ignoring malformed profile edits", "user", s.Username(), "err", err)
		return domain.Terminal()
	}
	profile := ProfileOf(s)
	if edits.FullName != "" {
		profile.FullName = edits.FullName
	}
	if edits.DOB != "" {
		profile.DOB = edits.DOB
	}
	if edits.Photo != "" {
		profile.Photo = edits.Photo
	}
	if edits.Hobbies != nil {
		profile.Hobbies = edits.Hobbies
	}
	s.Set(FieldFullName, profile.FullName)
	s.Set(FieldDOB, profile.DOB)
	s.Set(FieldPhoto, profile.Photo)
	s.Set(FieldHobbies, profile.Hobbies)
	return domain.Terminal()
}

type dashboardSettings struct{ e *Engine }

func (st *dashboardSettings) Kind() domain.StateKind { return domain.KindDashboardSettings }

func (st *dashboardSettings) Successors() []domain.StateKind { return nil }

func (st *dashboardSettings) Handle(ctx context.Context, s *domain.Session, in domain.Input) domain.Transition {
	var kind domain.StateKind
	switch strings.ToLower(in.String(InputSetting)) {
	case SettingFont, "font_size", "fontsize":
		kind = domain.KindFontSettings
	case SettingTheme:
		kind = domain.KindThemeSettings
	default:
		return domain.Invalid(domain.InvalidInput("setting must be %s or %s", SettingFont, SettingTheme))
	}
	tr, err := st.e.delegate(ctx, s.Username(), kind, in.String(InputChoice))
	if err != nil {
		return domain.TerminalWith(err)
	}
	if tr.IsInvalid() {
		return tr
	}
	return domain.TerminalWith(tr.Err)
}
