package friends_test

import (
	"context"
	"testing"

	"github.com/aretw0/silverconnect/internal/services/friends"
	"github.com/aretw0/silverconnect/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func candidates() []domain.Person {
	return []domain.Person{
		{Name: "Andi", Age: 68, Interests: []string{"Chess", "Reading"}},
		{Name: "Diana", Age: 63, Interests: []string{"Yoga", "Gardening"}},
		{Name: "Sri", Age: 70, Interests: []string{"Cooking", "Yoga"}},
	}
}

func newEngine(t *testing.T, opts ...friends.Option) *friends.Engine {
	t.Helper()
	e, err := friends.New(candidates(), opts...)
	require.NoError(t, err)
	return e
}

func step(t *testing.T, e *friends.Engine, s *domain.Session, in domain.Input) domain.Transition {
	t.Helper()
	tr, err := e.Machine().Step(context.Background(), s, in)
	require.NoError(t, err)
	return tr
}

// Interest filter and chatting before befriending.
func TestSearch_ChatRequiresFriend(t *testing.T) {
	e := newEngine(t)
	s := e.NewSession("elder1")
	require.NoError(t, e.Start(s))

	step(t, e, s, domain.Input{friends.FieldInterest: "Yoga"})
	results := domain.Value[[]domain.Person](s, friends.FieldResults)
	require.Len(t, results, 2)
	for _, p := range results {
		assert.Contains(t, p.Interests, "Yoga")
	}
	assert.Equal(t, domain.KindFriendDetail, s.CurrentState())

	tr := step(t, e, s, domain.Input{friends.InputName: "Diana", friends.InputActions: "chat"})
	assert.True(t, tr.IsInvalid())
	assert.ErrorIs(t, tr.Err, domain.ErrMissingPrecondition)
	assert.Equal(t, domain.RuleNotAFriend, domain.RuleOf(tr.Err))
	assert.Empty(t, domain.Value[[]domain.Message](s, friends.FieldOutbox), "nothing is sent")
	assert.Equal(t, domain.KindFriendDetail, s.CurrentState())

	tr = step(t, e, s, domain.Input{friends.InputName: "Diana", friends.InputActions: []string{"add", "chat"}})
	assert.Equal(t, domain.OutcomeContinue, tr.Outcome)
	outbox := domain.Value[[]domain.Message](s, friends.FieldOutbox)
	require.Len(t, outbox, 1)
	assert.Equal(t, "Diana", outbox[0].To)
	assert.Equal(t, "Hi Diana!", outbox[0].Text)
	assert.Equal(t, domain.KindSearchFriends, s.CurrentState())
}

func TestFriendDetail_ActionsIdempotent(t *testing.T) {
	e := newEngine(t)
	s := e.NewSession("elder1")
	require.NoError(t, e.Start(s))

	for i := 0; i < 3; i++ {
		step(t, e, s, nil)
		tr := step(t, e, s, domain.Input{friends.InputName: "Sri", friends.InputActions: "add, like"})
		require.Equal(t, domain.OutcomeContinue, tr.Outcome)
	}
	assert.Equal(t, []string{"Sri"}, s.Strings(friends.FieldAddedNames))
	assert.Equal(t, []string{"Sri"}, s.Strings(friends.FieldLikedNames))
	assert.Equal(t, []string{"Sri"}, s.Strings(friends.FieldFriends))
}

func TestFriendDetail_Validation(t *testing.T) {
	e := newEngine(t)
	s := e.NewSession("elder1")
	require.NoError(t, e.Start(s))
	step(t, e, s, nil)

	tr := step(t, e, s, nil)
	assert.ErrorIs(t, tr.Err, domain.ErrMissingPrecondition)

	tr = step(t, e, s, domain.Input{friends.InputName: "Nobody"})
	assert.ErrorIs(t, tr.Err, domain.ErrInvalidInput)

	tr = step(t, e, s, domain.Input{friends.InputName: "Andi", friends.InputActions: "add,poke"})
	assert.ErrorIs(t, tr.Err, domain.ErrInvalidInput)
	assert.Empty(t, s.Strings(friends.FieldFriends), "actions are validated before any is applied")
}

func TestFriendChat_Policies(t *testing.T) {
	befriend := func(t *testing.T, e *friends.Engine, s *domain.Session, names ...string) {
		require.NoError(t, e.Start(s))
		for _, name := range names {
			step(t, e, s, nil)
			step(t, e, s, domain.Input{friends.InputName: name, friends.InputActions: "add"})
		}
	}

	t.Run("No Friends", func(t *testing.T) {
		e := newEngine(t)
		s := e.NewSession("elder1")
		require.NoError(t, e.StartChat(s))
		tr := step(t, e, s, nil)
		assert.ErrorIs(t, tr.Err, domain.ErrMissingPrecondition)
	})

	t.Run("First", func(t *testing.T) {
		e := newEngine(t)
		s := e.NewSession("elder1")
		befriend(t, e, s, "Andi", "Diana")
		require.NoError(t, e.StartChat(s))

		tr := step(t, e, s, domain.Input{friends.InputName: "Diana"})
		assert.True(t, tr.IsTerminal())
		assert.Equal(t, "Andi", s.String(friends.FieldChatTarget), "first policy ignores the requested name")
	})

	t.Run("Selected", func(t *testing.T) {
		e := newEngine(t, friends.WithChatTarget(friends.ChatTargetSelected))
		s := e.NewSession("elder1")
		befriend(t, e, s, "Andi", "Diana")
		require.NoError(t, e.StartChat(s))

		tr := step(t, e, s, domain.Input{friends.InputName: "Diana", friends.InputMessage: "Yoga tomorrow?"})
		assert.True(t, tr.IsTerminal())
		assert.Equal(t, "Diana", s.String(friends.FieldChatTarget))

		require.NoError(t, e.StartChat(s))
		tr = step(t, e, s, domain.Input{friends.InputName: "Sri"})
		assert.Equal(t, domain.RuleNotAFriend, domain.RuleOf(tr.Err))
	})
}

func TestParseChatTarget(t *testing.T) {
	target, err := friends.ParseChatTarget("")
	require.NoError(t, err)
	assert.Equal(t, friends.ChatTargetFirst, target)

	_, err = friends.ParseChatTarget("random")
	assert.Error(t, err)

	_, err = friends.New(nil, friends.WithChatTarget("random"))
	assert.Error(t, err)
}
