package chat_test

import (
	"context"
	"testing"

	"github.com/aretw0/silverconnect/internal/services/chat"
	"github.com/aretw0/silverconnect/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChat(t *testing.T) {
	e, err := chat.New()
	require.NoError(t, err)
	ctx := context.Background()
	m := e.Machine()
	s := e.NewSession("elder1")
	require.NoError(t, e.Start(s))

	tr, err := m.Step(ctx, s, nil)
	require.NoError(t, err)
	assert.ErrorIs(t, tr.Err, domain.ErrMissingPrecondition)
	assert.Equal(t, domain.KindChatStart, s.CurrentState())

	_, err = m.Step(ctx, s, domain.Input{chat.FieldFriend: "Diana"})
	require.NoError(t, err)
	assert.Equal(t, domain.KindChatSendMessage, s.CurrentState())

	tr, err = m.Step(ctx, s, domain.Input{chat.FieldMessage: "   "})
	require.NoError(t, err)
	assert.True(t, tr.IsInvalid())

	for _, text := range []string{"Good morning!", "Yoga at 6?"} {
		tr, err = m.Step(ctx, s, domain.Input{chat.FieldMessage: text})
		require.NoError(t, err)
		assert.True(t, tr.IsTerminal())
		assert.Equal(t, domain.KindChatSendMessage, s.CurrentState(), "conversation stays open")
	}

	history := chat.History(s)
	require.Len(t, history, 2)
	assert.Equal(t, "Diana", history[1].To)
	assert.Equal(t, "elder1", history[1].From)
	assert.Equal(t, "Yoga at 6?", history[1].Text)
}

func TestChat_StepModeOnly(t *testing.T) {
	e, err := chat.New()
	require.NoError(t, err)
	s := e.NewSession("elder1")
	require.NoError(t, e.Start(s))
	_, err = e.Machine().RunToCompletion(context.Background(), s, nil)
	assert.Error(t, err)
}
