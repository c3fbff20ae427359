package runner

import (
	"context"
	"errors"

	"github.com/aretw0/silverconnect/pkg/domain"
)

// ErrNoMoreInput is returned by a ScriptedHandler whose answers ran out.
var ErrNoMoreInput = errors.New("no more scripted input")

// IOHandler defines the strategy for interacting with the user.
type IOHandler interface {
	// Output presents the actions to the user.
	Output(ctx context.Context, actions []domain.ActionRequest) error

	// Input asks the question described by req and returns the trimmed answer.
	// It returns ctx.Err() if ctx is done first.
	Input(ctx context.Context, req domain.InputRequest) (string, error)
}

// ContentRenderer transforms content before it is written (e.g. markdown to ANSI).
type ContentRenderer func(string) (string, error)
