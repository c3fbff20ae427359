package runner

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/aretw0/silverconnect/pkg/domain"
)

// JSONHandler implements IOHandler for structured JSON-Lines communication.
// Every Output and every input request is emitted as one JSON array of actions.
// Answers are read one per line, either as a JSON string or as raw text.
type JSONHandler struct {
	Reader  *bufio.Reader
	Encoder *json.Encoder
}

// NewJSONHandler creates a handler for JSON IO.
func NewJSONHandler(r io.Reader, w io.Writer) *JSONHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	return &JSONHandler{
		Reader:  bufio.NewReader(r),
		Encoder: json.NewEncoder(w),
	}
}

func (h *JSONHandler) Output(ctx context.Context, actions []domain.ActionRequest) error {
	if len(actions) == 0 {
		return nil
	}
	return h.Encoder.Encode(actions)
}

func (h *JSONHandler) Input(ctx context.Context, req domain.InputRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := h.Encoder.Encode([]domain.ActionRequest{{Type: domain.ActionRequestInput, Payload: req}}); err != nil {
		return "", err
	}

	text, err := h.Reader.ReadString('\n')
	if err != nil && (err != io.EOF || text == "") {
		return "", err
	}
	text = strings.TrimSpace(text)

	var val string
	if err := json.Unmarshal([]byte(text), &val); err == nil {
		text = val
	}
	clean, err := SanitizeInput(text)
	if err != nil {
		return "", err
	}
	if clean == "" && req.Default != "" {
		return req.Default, nil
	}
	return clean, nil
}
