package silverconnect

import (
	"context"
	"errors"
	"strings"

	"github.com/aretw0/silverconnect/internal/services/auth"
	"github.com/aretw0/silverconnect/internal/services/dashboard"
	"github.com/aretw0/silverconnect/internal/services/friends"
	"github.com/aretw0/silverconnect/internal/services/notification"
	"github.com/aretw0/silverconnect/internal/services/settings"
	"github.com/aretw0/silverconnect/pkg/domain"
)

// Preferences are the user's display settings.
type Preferences struct {
	FontSize string
	Theme    string
}

// Dashboard is returned by ShowDashboard.
type Dashboard struct {
	Summary     domain.Summary
	Profile     dashboard.Profile
	Preferences Preferences
}

func (p *Platform) preferences(ctx context.Context, set *engineSet, username string) Preferences {
	s := p.peek(ctx, set.settings.Machine(), username)
	return Preferences{FontSize: s.String(settings.FieldFontSize), Theme: s.String(settings.FieldTheme)}
}

// summary aggregates what every other engine knows about the user.
func (p *Platform) summary(ctx context.Context, set *engineSet, username string) domain.Summary {
	var sum domain.Summary
	rec, err := p.users.Lookup(ctx, username)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		p.logger.Warn("failed to read user record", "user", username, "err", err)
	}
	if rec.FullName == "" {
		rec.FullName = p.peek(ctx, set.auth.Machine(), username).String(auth.FieldFullName)
	}
	sum.FullName = rec.FullName

	for _, m := range set.community.Memberships(p.peek(ctx, set.community.Machine(), username)) {
		sum.Communities = append(sum.Communities, m.CommunityName)
	}
	for _, b := range set.activity.Schedule(p.peek(ctx, set.activity.Machine(), username)) {
		sum.Activities = append(sum.Activities, b.ActivityName)
	}
	sum.Friends = p.peek(ctx, set.friends.Machine(), username).Strings(friends.FieldFriends)
	sum.Notifications = len(domain.Value[[]domain.Notification](p.peek(ctx, set.notification.Machine(), username), notification.FieldNotifications))
	sum.ProfileCompletion = ProfileCompletion(rec)
	sum.EngagementScore = EngagementScore(rec, len(sum.Communities), len(sum.Activities))
	return sum
}

// ProfileCompletion is the percentage of filled profile fields: full name, age, hobbies,
// activity level and completed onboarding.
func ProfileCompletion(rec domain.UserRecord) int {
	filled := []bool{
		rec.FullName != "",
		rec.Age > 0,
		len(rec.Hobbies) > 0,
		rec.ActivityLevel != "",
		rec.ProfileCompleted,
	}
	return countTrue(filled) * 100 / len(filled)
}

// EngagementScore weighs profile fields (30%), community memberships (40%, two is
// optimal) and booked activities (30%, three is optimal). The result is in [0, 1].
func EngagementScore(rec domain.UserRecord, communities, activities int) float64 {
	profile := []bool{
		rec.FullName != "",
		rec.Age > 0,
		len(rec.Hobbies) > 0,
		rec.ActivityLevel != "",
		rec.Mode != "",
	}
	score := float64(countTrue(profile)) / float64(len(profile)) * 0.3
	score += min(float64(communities)/2, 1) * 0.4
	score += min(float64(activities)/3, 1) * 0.3
	return min(score, 1)
}

func countTrue(flags []bool) int {
	n := 0
	for _, f := range flags {
		if f {
			n++
		}
	}
	return n
}

// ShowDashboard aggregates the user's communities, bookings, friends and notifications.
func (p *Platform) ShowDashboard(ctx context.Context, username string) Result {
	set := p.current()
	var sum domain.Summary
	var prefs Preferences
	if username != "" {
		sum = p.summary(ctx, set, username)
		prefs = p.preferences(ctx, set, username)
	}
	e := set.dashboard
	return p.within(ctx, "show_dashboard", username, e.Machine(), func(ctx context.Context, s *domain.Session) Result {
		if err := e.Start(s, domain.KindViewDashboard); err != nil {
			return p.fail(err)
		}
		tr, err := e.Machine().RunToCompletion(ctx, s, domain.Input{dashboard.InputSummary: sum})
		return p.outcome(tr, err, func() Result {
			d := Dashboard{Summary: sum, Profile: dashboard.ProfileOf(s), Preferences: prefs}
			return p.ok(d, "platform.dashboard.ok", d.Profile.FullName)
		})
	})
}

// UpdateProfile applies edits (fullName, dob, photo, hobbies) to the dashboard profile and
// mirrors the name and hobbies onto the account. Malformed edits are ignored.
func (p *Platform) UpdateProfile(ctx context.Context, username string, edits map[string]any) Result {
	e := p.current().dashboard
	return p.within(ctx, "update_profile", username, e.Machine(), func(ctx context.Context, s *domain.Session) Result {
		if err := e.Start(s, domain.KindViewProfile); err != nil {
			return p.fail(err)
		}
		tr, err := e.Machine().RunToCompletion(ctx, s, domain.Input{dashboard.InputEdits: edits})
		return p.outcome(tr, err, func() Result {
			profile := dashboard.ProfileOf(s)
			err := p.users.Update(ctx, username, func(rec *domain.UserRecord) error {
				rec.FullName = profile.FullName
				rec.Hobbies = profile.Hobbies
				return nil
			})
			if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
				return p.fail(err)
			}
			return p.ok(profile, "platform.profile.updated", username)
		})
	})
}

// UpdateSettings changes a display setting ("font" or "theme") through the dashboard.
func (p *Platform) UpdateSettings(ctx context.Context, username, setting, choice string) Result {
	set := p.current()
	e := set.dashboard
	res := p.within(ctx, "update_settings", username, e.Machine(), func(ctx context.Context, s *domain.Session) Result {
		if err := e.Start(s, domain.KindDashboardSettings); err != nil {
			return p.fail(err)
		}
		tr, err := e.Machine().RunToCompletion(ctx, s, domain.Input{
			dashboard.InputSetting: setting,
			dashboard.InputChoice:  choice,
		})
		return p.outcome(tr, err, func() Result { return Result{Success: true} })
	})
	if !res.Success {
		return res
	}

	prefs := p.preferences(ctx, set, username)
	label, value := p.printer.Sprintf("setting.theme"), prefs.Theme
	if !strings.EqualFold(setting, dashboard.SettingTheme) {
		label, value = p.printer.Sprintf("setting.font"), prefs.FontSize
	}
	return p.ok(prefs, "platform.settings.ok", label, value)
}
