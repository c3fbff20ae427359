package runner

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/aretw0/silverconnect/pkg/domain"
)

// ScriptedHandler answers input requests from a fixed queue and records everything
// it was asked to show. When Echo is set, prompts and answers are also written there
// so a scripted run reads like an interactive one.
type ScriptedHandler struct {
	Echo io.Writer

	mu      sync.Mutex
	answers []string
	output  []domain.ActionRequest
	prompts []domain.InputRequest
}

// NewScriptedHandler queues answers in order.
func NewScriptedHandler(answers ...string) *ScriptedHandler {
	return &ScriptedHandler{answers: answers}
}

// Push appends more answers.
func (h *ScriptedHandler) Push(answers ...string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.answers = append(h.answers, answers...)
}

func (h *ScriptedHandler) Output(ctx context.Context, actions []domain.ActionRequest) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.output = append(h.output, actions...)
	if h.Echo == nil {
		return nil
	}
	for _, act := range actions {
		if msg, ok := act.Payload.(string); ok {
			fmt.Fprintln(h.Echo, strings.TrimRight(msg, "\n"))
		}
	}
	return nil
}

func (h *ScriptedHandler) Input(ctx context.Context, req domain.InputRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.prompts = append(h.prompts, req)
	if len(h.answers) == 0 {
		return "", ErrNoMoreInput
	}
	answer := h.answers[0]
	h.answers = h.answers[1:]
	if answer == "" && req.Default != "" {
		answer = req.Default
	}
	if h.Echo != nil {
		fmt.Fprintf(h.Echo, "%s%s\n", prompt(req), answer)
	}
	return answer, nil
}

// Remaining reports how many answers were not consumed.
func (h *ScriptedHandler) Remaining() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.answers)
}

// Prompts returns the input requests received so far.
func (h *ScriptedHandler) Prompts() []domain.InputRequest {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]domain.InputRequest(nil), h.prompts...)
}

// Transcript joins the string payloads shown so far.
func (h *ScriptedHandler) Transcript() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	var b strings.Builder
	for _, act := range h.output {
		if msg, ok := act.Payload.(string); ok {
			b.WriteString(msg)
			b.WriteString("\n")
		}
	}
	return b.String()
}
