package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/aretw0/silverconnect/pkg/domain"
)

// TextHandler implements line-based terminal I/O.
type TextHandler struct {
	Reader   *bufio.Reader
	Writer   io.Writer
	Renderer ContentRenderer

	inputChan chan inputResult
	startOnce sync.Once
}

type inputResult struct {
	text string
	err  error
}

// TextHandlerOption defines configuration for TextHandler.
type TextHandlerOption func(*TextHandler)

// WithTextHandlerRenderer configures the content renderer.
func WithTextHandlerRenderer(renderer ContentRenderer) TextHandlerOption {
	return func(h *TextHandler) {
		h.Renderer = renderer
	}
}

// NewTextHandler creates a handler for standard text IO. Nil streams default to
// stdin and stdout.
func NewTextHandler(r io.Reader, w io.Writer, opts ...TextHandlerOption) *TextHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	h := &TextHandler{
		Reader: bufio.NewReader(r),
		Writer: w,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// initPump starts the goroutine that owns the reader. A blocked read cannot be
// interrupted, so Input selects on the channel and the context instead.
func (h *TextHandler) initPump() {
	h.startOnce.Do(func() {
		h.inputChan = make(chan inputResult)
		go h.pump()
	})
}

func (h *TextHandler) pump() {
	defer close(h.inputChan)
	for {
		text, err := h.Reader.ReadString('\n')
		if text != "" {
			h.inputChan <- inputResult{text: text}
		}
		if err != nil {
			if err != io.EOF {
				h.inputChan <- inputResult{err: err}
			}
			return
		}
	}
}

// Output writes content and system messages. Input requests are ignored here;
// Input prints the prompt.
func (h *TextHandler) Output(ctx context.Context, actions []domain.ActionRequest) error {
	for _, act := range actions {
		msg, ok := act.Payload.(string)
		if !ok {
			continue
		}
		switch act.Type {
		case domain.ActionRenderContent:
			output := msg
			if h.Renderer != nil {
				if rendered, err := h.Renderer(msg); err == nil {
					output = rendered
				}
			}
			if _, err := fmt.Fprintln(h.Writer, strings.TrimRight(output, "\n")); err != nil {
				return err
			}
		case domain.ActionSystemMessage:
			if _, err := fmt.Fprintf(h.Writer, "[System] %s\n", msg); err != nil {
				return err
			}
		}
	}
	return nil
}

// Input prints the prompt and waits for a line, the context or the request timeout.
func (h *TextHandler) Input(ctx context.Context, req domain.InputRequest) (string, error) {
	h.initPump()
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
			fmt.Fprint(h.Writer, prompt(req))
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case res, ok := <-h.inputChan:
			if !ok {
				return "", io.EOF
			}
			if res.err != nil {
				return "", res.err
			}
			clean, err := SanitizeInput(strings.TrimSpace(res.text))
			if err != nil {
				fmt.Fprintf(h.Writer, "Error: %v. Please try again.\n", err)
				continue
			}
			if clean == "" && req.Default != "" {
				return req.Default, nil
			}
			return clean, nil
		}
	}
}

func prompt(req domain.InputRequest) string {
	var b strings.Builder
	if req.Prompt != "" {
		b.WriteString(req.Prompt)
		if len(req.Options) > 0 {
			fmt.Fprintf(&b, " [%s]", strings.Join(req.Options, "/"))
		}
		b.WriteString("\n")
	}
	b.WriteString("> ")
	return b.String()
}
