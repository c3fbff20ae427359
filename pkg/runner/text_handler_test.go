package runner_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/silverconnect/pkg/domain"
	"github.com/aretw0/silverconnect/pkg/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextHandler_Output(t *testing.T) {
	out := &bytes.Buffer{}
	h := runner.NewTextHandler(strings.NewReader(""), out,
		runner.WithTextHandlerRenderer(func(s string) (string, error) { return "Rendered: " + s, nil }))

	err := h.Output(context.Background(), []domain.ActionRequest{
		domain.Render("Hello World"),
		domain.SystemMessage("saved"),
		{Type: domain.ActionRequestInput, Payload: domain.InputRequest{Prompt: "ignored"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Rendered: Hello World\n[System] saved\n", out.String())
}

func TestTextHandler_Input(t *testing.T) {
	out := &bytes.Buffer{}
	h := runner.NewTextHandler(strings.NewReader("  ya \n\n"), out)
	ctx := context.Background()

	val, err := h.Input(ctx, domain.InputRequest{Prompt: "Konfirmasi?", Options: []string{"ya", "tidak"}})
	require.NoError(t, err)
	assert.Equal(t, "ya", val)
	assert.Equal(t, "Konfirmasi? [ya/tidak]\n> ", out.String())

	val, err = h.Input(ctx, domain.InputRequest{Default: "1"})
	require.NoError(t, err)
	assert.Equal(t, "1", val, "empty answers take the default")

	_, err = h.Input(ctx, domain.InputRequest{})
	assert.ErrorIs(t, err, io.EOF)
}

func TestTextHandler_Input_StripsControlChars(t *testing.T) {
	h := runner.NewTextHandler(strings.NewReader("Bu\x07di\n"), io.Discard)
	val, err := h.Input(context.Background(), domain.InputRequest{})
	require.NoError(t, err)
	assert.Equal(t, "Budi", val)
}

func TestTextHandler_Input_Canceled(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	h := runner.NewTextHandler(pr, io.Discard)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	_, err := h.Input(ctx, domain.InputRequest{})
	assert.ErrorIs(t, err, context.Canceled)

	_, err = h.Input(context.Background(), domain.InputRequest{Timeout: 20 * time.Millisecond})
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// The pump is still alive after a canceled read.
	go func() { _, _ = pw.Write([]byte("later\n")) }()
	val, err := h.Input(context.Background(), domain.InputRequest{})
	require.NoError(t, err)
	assert.Equal(t, "later", val)
}

func TestJSONHandler(t *testing.T) {
	out := &bytes.Buffer{}
	h := runner.NewJSONHandler(strings.NewReader("\"Hello World\"\nplain\n"), out)
	ctx := context.Background()

	require.NoError(t, h.Output(ctx, []domain.ActionRequest{domain.Render("Hello Intent")}))

	val, err := h.Input(ctx, domain.InputRequest{Prompt: "name", Type: domain.InputText})
	require.NoError(t, err)
	assert.Equal(t, "Hello World", val)

	val, err = h.Input(ctx, domain.InputRequest{})
	require.NoError(t, err)
	assert.Equal(t, "plain", val)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	var first []domain.ActionRequest
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "Hello Intent", first[0].Payload)
	assert.Contains(t, lines[1], `"type":"REQUEST_INPUT"`)
	assert.Contains(t, lines[1], `"prompt":"name"`)
}

func TestScriptedHandler(t *testing.T) {
	echo := &bytes.Buffer{}
	h := runner.NewScriptedHandler("1", "")
	h.Echo = echo
	ctx := context.Background()

	require.NoError(t, h.Output(ctx, []domain.ActionRequest{domain.Render("1. Yoga")}))
	val, err := h.Input(ctx, domain.InputRequest{Prompt: "Pilih"})
	require.NoError(t, err)
	assert.Equal(t, "1", val)

	val, err = h.Input(ctx, domain.InputRequest{Default: "ya"})
	require.NoError(t, err)
	assert.Equal(t, "ya", val)

	_, err = h.Input(ctx, domain.InputRequest{})
	assert.ErrorIs(t, err, runner.ErrNoMoreInput)

	h.Push("q")
	assert.Equal(t, 1, h.Remaining())
	assert.Len(t, h.Prompts(), 3)
	assert.Equal(t, "1. Yoga\n", h.Transcript())
	assert.Contains(t, echo.String(), "Pilih\n> 1")

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = h.Input(canceled, domain.InputRequest{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, h.Remaining(), "canceled reads do not consume answers")
}
