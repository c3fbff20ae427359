package activity_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/silverconnect/internal/services/activity"
	"github.com/aretw0/silverconnect/pkg/adapters/memory"
	"github.com/aretw0/silverconnect/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixture() []domain.Activity {
	return []domain.Activity{
		{ID: 1, Name: "Yoga Sunrise Session", Participants: 8, MaxParticipants: 15, Difficulty: "mudah", Category: "kesehatan"},
		{ID: 2, Name: "Workshop Masak Rendang", Participants: 6, MaxParticipants: 12, Difficulty: "sedang", Category: "hobi"},
		{ID: 3, Name: "Terapi Lukis Mandala", Participants: 4, MaxParticipants: 10, Difficulty: "mudah", Category: "kreatif"},
		{ID: 4, Name: "Almost Full", Participants: 1, MaxParticipants: 2, Difficulty: "mudah", Category: "olahraga"},
		{ID: 5, Name: "Hiking", Participants: 0, MaxParticipants: 5, Difficulty: "sulit", Category: "olahraga"},
	}
}

func newEngine(t *testing.T) *activity.Engine {
	t.Helper()
	clock := func() time.Time { return time.Unix(1700000000, 0) }
	e, err := activity.New(fixture(), memory.NewLedger(), activity.WithClock(clock))
	require.NoError(t, err)
	return e
}

func start(t *testing.T, e *activity.Engine, user string) *domain.Session {
	t.Helper()
	s := e.NewSession(user)
	require.NoError(t, e.Start(s))
	return s
}

func TestNew_RequiresLedger(t *testing.T) {
	_, err := activity.New(fixture(), nil)
	assert.Error(t, err)
}

func TestListing_Filters(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	names := func(list []domain.Activity) []int {
		var ids []int
		for _, a := range list {
			ids = append(ids, a.ID)
		}
		return ids
	}

	assert.Equal(t, []int{1, 3, 4}, names(e.Listing(ctx, "mudah", "", nil)))
	assert.Equal(t, []int{1, 3, 4}, names(e.Listing(ctx, "", "ringan", nil)))
	assert.Equal(t, []int{1, 2, 3, 4}, names(e.Listing(ctx, "", "sedang", nil)))
	assert.Equal(t, []int{1, 2, 3, 4, 5}, names(e.Listing(ctx, "", "aktif", nil)))
	assert.Equal(t, []int{1, 3, 4}, names(e.Listing(ctx, "", "unknown", nil)), "unknown levels fall back to ringan")
	assert.Equal(t, []int{2}, names(e.Listing(ctx, "", "sedang", []string{"memasak"})))
	assert.Equal(t, []int{1, 3, 4}, names(e.Listing(ctx, "mudah", "", []string{"astronomy"})), "unmatched interests do not empty the listing")
}

// Difficulty filter, out-of-range re-presentation and a confirmed booking.
func TestFindAndBook_FilterAndBook(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	s := start(t, e, "elder1")
	m := e.Machine()

	tr, err := m.Step(ctx, s, domain.Input{activity.FieldDifficulty: "mudah"})
	require.NoError(t, err)
	require.True(t, tr.IsInvalid(), "no choice yet")
	listing := domain.Value[[]domain.Activity](s, activity.FieldListing)
	require.Len(t, listing, 3)
	for _, a := range listing {
		assert.Equal(t, "mudah", a.Difficulty)
	}

	tr, err = m.Step(ctx, s, domain.Input{"choice": "9"})
	require.NoError(t, err)
	assert.True(t, tr.IsInvalid())
	assert.ErrorIs(t, tr.Err, domain.ErrInvalidInput)
	assert.Equal(t, domain.KindFindActivity, s.CurrentState())
	assert.Equal(t, listing, domain.Value[[]domain.Activity](s, activity.FieldListing), "same listing is re-presented")

	tr, err = m.Step(ctx, s, domain.Input{"choice": "abc"})
	require.NoError(t, err)
	assert.ErrorIs(t, tr.Err, domain.ErrInvalidInput)

	tr, err = m.Step(ctx, s, domain.Input{"choice": "1"})
	require.NoError(t, err)
	assert.Equal(t, domain.KindBookActivity, s.CurrentState())

	tr, err = m.Step(ctx, s, domain.Input{"confirm": "ya"})
	require.NoError(t, err)
	assert.True(t, tr.IsTerminal())
	require.NoError(t, tr.Err)
	assert.True(t, s.Bool(activity.FieldBooked))

	booking := domain.Value[domain.Booking](s, activity.FieldBooking)
	assert.Regexp(t, `^BK_elder1_1_\d+$`, booking.ID)
	assert.Equal(t, "BK_elder1_1_1700000000", booking.ID)

	a, ok := e.Activity(ctx, 1)
	require.True(t, ok)
	assert.Equal(t, 9, a.Participants)
	assert.Len(t, e.Schedule(s), 1)
}

func TestFindActivity_Quit(t *testing.T) {
	e := newEngine(t)
	s := start(t, e, "elder1")
	tr, err := e.Machine().Step(context.Background(), s, domain.Input{"choice": "q"})
	require.NoError(t, err)
	assert.True(t, tr.IsInvalid())
	assert.ErrorIs(t, tr.Err, domain.ErrInputCanceled)
}

func TestFindActivity_NoMatchEndsTheFlow(t *testing.T) {
	e := newEngine(t)
	s := start(t, e, "elder1")
	tr, err := e.Machine().RunToCompletion(context.Background(), s, domain.Input{"difficulty": "ekstrem", "choice": "1"})
	require.NoError(t, err)
	assert.True(t, tr.IsTerminal(), "an empty listing ends the flow instead of re-prompting")
	assert.ErrorIs(t, tr.Err, domain.ErrMissingPrecondition)
	assert.Empty(t, domain.Value[[]domain.Activity](s, activity.FieldListing))
	assert.False(t, s.Bool(activity.FieldBooked))
}

func TestBookActivity_Declined(t *testing.T) {
	e := newEngine(t)
	s := start(t, e, "elder1")
	tr, err := e.Machine().RunToCompletion(context.Background(), s, domain.Input{"choice": 2, "confirm": "no"})
	require.NoError(t, err)
	assert.True(t, tr.IsTerminal())
	assert.NoError(t, tr.Err)
	assert.False(t, s.Bool(activity.FieldBooked))

	a, _ := e.Activity(context.Background(), 2)
	assert.Equal(t, 6, a.Participants)
}

func TestBookActivity_Idempotent(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		s := start(t, e, "elder1")
		tr, err := e.Machine().RunToCompletion(ctx, s, domain.Input{"choice": "1", "confirm": "yes"})
		require.NoError(t, err)
		require.True(t, tr.IsTerminal())
		if i == 1 {
			assert.ErrorIs(t, tr.Err, domain.ErrBusinessRule)
			assert.Equal(t, domain.RuleAlreadyBooked, domain.RuleOf(tr.Err))
		}
	}
	a, _ := e.Activity(ctx, 1)
	assert.Equal(t, 9, a.Participants, "second booking must not increment")
}

func TestBookActivity_CapacityFull(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	book := func(user string) domain.Transition {
		s := start(t, e, user)
		tr, err := e.Machine().RunToCompletion(ctx, s, domain.Input{activity.FieldDifficulty: "mudah", "choice": "3", "confirm": "y"})
		require.NoError(t, err)
		return tr
	}

	assert.NoError(t, book("alice").Err)
	tr := book("bob")
	assert.Equal(t, domain.RuleCapacityFull, domain.RuleOf(tr.Err))

	a, _ := e.Activity(ctx, 4)
	assert.Equal(t, 2, a.Participants)

	// already-booked wins over capacity when both hold
	tr = book("alice")
	assert.Equal(t, domain.RuleAlreadyBooked, domain.RuleOf(tr.Err))
}

func TestBookActivity_ConcurrentCapacity(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	results := make([]domain.Transition, 10)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s := e.NewSession("user-" + string(rune('a'+i)))
			_ = e.Start(s)
			results[i], _ = e.Machine().RunToCompletion(ctx, s, domain.Input{"choice": "5", "confirm": "yes", activity.FieldLevel: "aktif"})
		}(i)
	}
	wg.Wait()

	booked := 0
	for _, tr := range results {
		if tr.IsTerminal() && tr.Err == nil {
			booked++
		} else {
			assert.Equal(t, domain.RuleCapacityFull, domain.RuleOf(tr.Err))
		}
	}
	assert.Equal(t, 5, booked)
	a, _ := e.Activity(ctx, 5)
	assert.Equal(t, 5, a.Participants)
}

func TestCancel(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	s := start(t, e, "elder1")
	_, err := e.Machine().RunToCompletion(ctx, s, domain.Input{"choice": "1", "confirm": "yes"})
	require.NoError(t, err)

	require.NoError(t, e.Cancel(ctx, s, 1))
	assert.Empty(t, e.Schedule(s))
	a, _ := e.Activity(ctx, 1)
	assert.Equal(t, 8, a.Participants)

	err = e.Cancel(ctx, s, 1)
	assert.Equal(t, domain.RuleNotBooked, domain.RuleOf(err))
	assert.ErrorIs(t, e.Cancel(ctx, s, 42), domain.ErrInvalidInput)
}
