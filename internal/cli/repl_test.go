package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/penny/internal/dialogue"
)

func echoHandler(seen *[]string) HandlerFunc {
	return func(_ context.Context, text string) dialogue.Reply {
		*seen = append(*seen, text)
		return dialogue.Reply{Text: "got " + text}
	}
}

func TestREPL_Run(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantSeen []string
	}{
		{
			name:     "reads until EOF",
			input:    "нетфликс 599\nпокажи подписки\n",
			wantSeen: []string{"нетфликс 599", "покажи подписки"},
		},
		{
			name:     "blank lines are skipped",
			input:    "\n\nhello\n",
			wantSeen: []string{"hello"},
		},
		{
			name:     "quit stops the loop",
			input:    "first\n/quit\nnever\n",
			wantSeen: []string{"first"},
		},
		{
			name:     "quit is case insensitive",
			input:    "/QUIT\n",
			wantSeen: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen []string
			var out bytes.Buffer
			repl := NewREPL(strings.NewReader(tt.input), &out, echoHandler(&seen))

			n, err := repl.Run(context.Background())
			require.NoError(t, err)
			assert.Equal(t, len(tt.wantSeen), n)
			assert.Equal(t, tt.wantSeen, seen)
			for _, s := range tt.wantSeen {
				assert.Contains(t, out.String(), "got "+s)
			}
		})
	}
}

func TestREPL_RunCanceled(t *testing.T) {
	pr, pw := io.Pipe()
	defer func() { _ = pw.Close() }()

	var seen []string
	repl := NewREPL(pr, io.Discard, echoHandler(&seen))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := repl.Run(ctx)
		done <- err
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancellation")
	}
	assert.Empty(t, seen)
}

func TestFormatBotReply_IndentsContinuationLines(t *testing.T) {
	got := FormatBotReply("Ваши подписки:\n1. Netflix")
	lines := strings.Split(got, "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Ваши подписки:")
	assert.True(t, strings.HasPrefix(lines[1], "       1. Netflix"))
}
