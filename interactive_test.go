package silverconnect_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/silverconnect"
	"github.com/aretw0/silverconnect/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockIO struct {
	mock.Mock
}

func (m *mockIO) Output(ctx context.Context, actions []domain.ActionRequest) error {
	return m.Called(actions).Error(0)
}

func (m *mockIO) Input(ctx context.Context, req domain.InputRequest) (string, error) {
	args := m.Called(req)
	return args.String(0), args.Error(1)
}

func ofType(kind domain.InputType) any {
	return mock.MatchedBy(func(req domain.InputRequest) bool { return req.Type == kind })
}

func TestBrowseAndJoinCommunity_DeclineThroughHandler(t *testing.T) {
	p := newPlatform(t)
	io := new(mockIO)
	io.On("Output", mock.MatchedBy(func(actions []domain.ActionRequest) bool {
		return len(actions) == 1 && actions[0].Type == domain.ActionRenderContent
	})).Return(nil).Once()
	io.On("Input", ofType(domain.InputChoice)).Return("2", nil).Once()
	io.On("Input", mock.MatchedBy(func(req domain.InputRequest) bool {
		return req.Type == domain.InputConfirm && req.Prompt == "Join Kelompok Baca Sastra?"
	})).Return("n", nil).Once()

	res := p.BrowseAndJoinCommunity(context.Background(), io, "elder1", nil)
	require.True(t, res.Success, res.Message)
	assert.Nil(t, res.Data)
	assert.Equal(t, "No community joined.", res.Message)
	io.AssertExpectations(t)
}

func TestFindAndBookActivity_HandlerFailures(t *testing.T) {
	t.Run("Output Error", func(t *testing.T) {
		p := newPlatform(t)
		io := new(mockIO)
		io.On("Output", mock.Anything).Return(errors.New("broken pipe"))

		res := p.FindAndBookActivity(context.Background(), io, "elder1", silverconnect.ActivityQuery{})
		assert.False(t, res.Success)
		assert.ErrorContains(t, res.Err, "broken pipe")
		assert.False(t, res.Canceled())
		io.AssertNotCalled(t, "Input", mock.Anything)
	})

	t.Run("Input Error", func(t *testing.T) {
		p := newPlatform(t)
		io := new(mockIO)
		io.On("Output", mock.Anything).Return(nil)
		io.On("Input", mock.Anything).Return("", errors.New("terminal detached"))

		res := p.FindAndBookActivity(context.Background(), io, "elder1", silverconnect.ActivityQuery{})
		assert.False(t, res.Success)
		assert.ErrorContains(t, res.Err, "terminal detached")
	})

	t.Run("Deadline", func(t *testing.T) {
		p := newPlatform(t)
		io := new(mockIO)
		io.On("Output", mock.Anything).Return(nil)
		io.On("Input", mock.Anything).Return("", context.DeadlineExceeded)

		res := p.FindAndBookActivity(context.Background(), io, "elder1", silverconnect.ActivityQuery{})
		assert.True(t, res.Canceled())
		assert.Equal(t, "Canceled.", res.Message)
	})
}

func TestFindAndBookActivity_RepromptShowsReason(t *testing.T) {
	p := newPlatform(t, silverconnect.WithMaxAttempts(5))
	io := new(mockIO)
	io.On("Output", mock.MatchedBy(func(actions []domain.ActionRequest) bool {
		return len(actions) == 1
	})).Return(nil).Once()
	io.On("Output", mock.MatchedBy(func(actions []domain.ActionRequest) bool {
		return len(actions) == 2 &&
			actions[0].Type == domain.ActionSystemMessage &&
			actions[0].Payload == "Invalid input: enter a number between 1 and 8 or 'q'"
	})).Return(nil).Once()
	io.On("Input", ofType(domain.InputChoice)).Return("satu", nil).Once()
	io.On("Input", ofType(domain.InputChoice)).Return("3", nil).Once()
	io.On("Input", ofType(domain.InputConfirm)).Return("ya", nil).Once()

	res := p.FindAndBookActivity(context.Background(), io, "elder1", silverconnect.ActivityQuery{})
	require.True(t, res.Success, res.Message)
	assert.Equal(t, "Terapi Lukis Mandala", res.Data.(domain.Booking).ActivityName)
	io.AssertExpectations(t)
}
