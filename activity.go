package silverconnect

import (
	"context"

	"github.com/aretw0/silverconnect/internal/services"
	"github.com/aretw0/silverconnect/internal/services/activity"
	"github.com/aretw0/silverconnect/pkg/domain"
	"github.com/aretw0/silverconnect/pkg/runner"
)

// ActivityQuery filters the activity catalog. Empty fields do not filter.
type ActivityQuery struct {
	// Difficulty is an exact tag: mudah, sedang or sulit.
	Difficulty string
	// Level is the user's activity level: ringan, sedang or aktif.
	Level     string
	Interests []string
}

func (q ActivityQuery) input() domain.Input {
	in := domain.Input{
		activity.FieldDifficulty: q.Difficulty,
		activity.FieldLevel:      q.Level,
	}
	if q.Interests != nil {
		in[activity.FieldInterests] = q.Interests
	}
	return in
}

// FindAndBookActivity lists the activities matching q and asks io which one to book.
// Data is the new domain.Booking, or nil when the user declined.
func (p *Platform) FindAndBookActivity(ctx context.Context, io runner.IOHandler, username string, q ActivityQuery) Result {
	e := p.current().activity
	return p.within(ctx, "book_activity", username, e.Machine(), func(ctx context.Context, s *domain.Session) Result {
		if err := e.Start(s); err != nil {
			return p.fail(err)
		}
		tr, err := p.converse(ctx, io, e.Machine(), s, q.input(), func(s *domain.Session) (question, bool) {
			switch s.CurrentState() {
			case domain.KindFindActivity:
				listing := domain.Value[[]domain.Activity](s, activity.FieldListing)
				return question{
					field:   services.InputChoice,
					content: p.activitiesView(listing),
					request: choiceRequest(p.printer.Sprintf("prompt.activity"), len(listing)),
				}, true
			case domain.KindBookActivity:
				selected := domain.Value[domain.Activity](s, activity.FieldSelected)
				return question{
					field:   services.InputConfirm,
					request: confirmRequest(p.printer.Sprintf("prompt.book", selected.Name)),
				}, true
			}
			return question{}, false
		})
		return p.outcome(tr, err, func() Result {
			if !s.Bool(activity.FieldBooked) {
				return p.ok(nil, "platform.activity.declined")
			}
			b := domain.Value[domain.Booking](s, activity.FieldBooking)
			return p.ok(b, "platform.activity.booked", b.ActivityName, b.ID)
		})
	})
}

// CancelBooking releases the user's seat on activityID.
func (p *Platform) CancelBooking(ctx context.Context, username string, activityID int) Result {
	e := p.current().activity
	return p.within(ctx, "cancel_booking", username, e.Machine(), func(ctx context.Context, s *domain.Session) Result {
		if err := e.Cancel(ctx, s, activityID); err != nil {
			return p.fail(err)
		}
		a, _ := e.Activity(ctx, activityID)
		return p.ok(a, "platform.activity.canceled", a.Name)
	})
}

// Schedule lists the user's bookings.
func (p *Platform) Schedule(ctx context.Context, username string) Result {
	e := p.current().activity
	return p.within(ctx, "schedule", username, e.Machine(), func(ctx context.Context, s *domain.Session) Result {
		bookings := e.Schedule(s)
		return p.ok(bookings, "platform.activity.schedule", len(bookings))
	})
}

// RecommendationQuery tunes RecommendActivities. Interests and Level default to the
// user's profile, then to the engine defaults.
type RecommendationQuery struct {
	Interests []string
	// Level is ringan, sedang or aktif.
	Level string
	// PreferredTime is pagi, siang or sore.
	PreferredTime string
	// Solo favors activities with fewer than activity.GroupSize participants.
	Solo bool
}

// RecommendActivities ranks the catalog for the user. Data is at most three
// []domain.Recommendation, best first.
func (p *Platform) RecommendActivities(ctx context.Context, username string, q RecommendationQuery) Result {
	prefs := activity.Preferences{
		Interests:     q.Interests,
		Level:         q.Level,
		PreferredTime: q.PreferredTime,
		Solo:          q.Solo,
	}
	if rec, err := p.users.Lookup(ctx, username); err == nil {
		if prefs.Interests == nil {
			prefs.Interests = rec.Hobbies
		}
		if prefs.Level == "" {
			prefs.Level = rec.ActivityLevel
		}
	}
	e := p.current().activity
	return p.within(ctx, "recommend_activities", username, e.Machine(), func(ctx context.Context, _ *domain.Session) Result {
		recs, err := e.Recommend(ctx, prefs)
		if err != nil {
			return p.fail(err)
		}
		return p.ok(recs, "platform.activity.recommended", len(recs))
	})
}
