package silverconnect

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/aretw0/silverconnect/internal/runtime"
	"github.com/aretw0/silverconnect/pkg/domain"
	"github.com/aretw0/silverconnect/pkg/runner"
)

// question is what an interactive operation asks while a state waits for input.
type question struct {
	field   string
	content string
	request domain.InputRequest
}

// asker builds the question for the session's current state. ok is false when the
// state cannot be answered interactively.
type asker func(s *domain.Session) (q question, ok bool)

// converse drains m and, whenever a state answers Invalid, asks io for the missing field
// and re-dispatches. Rejected answers are re-prompted up to maxAttempts times; q/quit,
// a closed input or a canceled context end the conversation as canceled.
func (p *Platform) converse(ctx context.Context, io runner.IOHandler, m *runtime.Machine, s *domain.Session, in domain.Input, ask asker) (domain.Transition, error) {
	failures := 0
	for {
		tr, err := m.RunToCompletion(ctx, s, in)
		if err != nil || !tr.IsInvalid() || errors.Is(tr.Err, domain.ErrInputCanceled) || io == nil {
			return tr, err
		}
		q, ok := ask(s)
		if !ok {
			return tr, nil
		}

		var actions []domain.ActionRequest
		if in.Has(q.field) {
			failures++
			if failures >= p.maxAttempts {
				return tr, fmt.Errorf("%w: %w", ErrTooManyAttempts, tr.Err)
			}
			actions = append(actions, domain.SystemMessage(p.printer.Failure(tr.Err)))
		}
		if q.content != "" {
			actions = append(actions, domain.Render(q.content))
		}
		if len(actions) > 0 {
			if err := io.Output(ctx, actions); err != nil {
				return tr, fmt.Errorf("failed to write output: %w", err)
			}
		}

		answer, err := io.Input(ctx, q.request)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, runner.ErrNoMoreInput) {
				return domain.Invalid(domain.Canceled(err.Error())), nil
			}
			return tr, fmt.Errorf("failed to read input: %w", err)
		}
		in = domain.Input{q.field: answer}
	}
}

func choiceRequest(prompt string, n int) domain.InputRequest {
	options := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		options = append(options, strconv.Itoa(i))
	}
	return domain.InputRequest{Prompt: prompt, Type: domain.InputChoice, Options: options}
}

func confirmRequest(prompt string) domain.InputRequest {
	return domain.InputRequest{Prompt: prompt, Type: domain.InputConfirm, Options: []string{"y", "n"}, Default: "y"}
}
