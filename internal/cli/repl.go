package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Veraticus/penny/internal/dialogue"
)

// HandlerFunc processes one chat message.
type HandlerFunc func(ctx context.Context, text string) dialogue.Reply

// QuitCommand ends a REPL session.
const QuitCommand = "/quit"

// REPL is a line-oriented chat loop over the dialogue engine.
type REPL struct {
	reader  *LineReader
	out     io.Writer
	handler HandlerFunc
	prompt  string
}

// NewREPL creates a chat loop reading from in and writing to out.
func NewREPL(in io.Reader, out io.Writer, handler HandlerFunc) *REPL {
	return &REPL{
		reader:  NewLineReader(in),
		out:     out,
		handler: handler,
		prompt:  FormatPrompt("you"),
	}
}

// Run reads messages until EOF, /quit or context cancellation. It returns
// the number of messages handled.
func (r *REPL) Run(ctx context.Context) (int, error) {
	handled := 0
	for {
		if _, err := fmt.Fprint(r.out, r.prompt); err != nil {
			return handled, fmt.Errorf("failed to write prompt: %w", err)
		}

		line, err := r.reader.ReadLine(ctx)
		if errors.Is(err, io.EOF) {
			_, _ = fmt.Fprintln(r.out)
			return handled, nil
		}
		if errors.Is(err, ErrInputCancelled) {
			return handled, ctx.Err()
		}
		if err != nil {
			return handled, fmt.Errorf("failed to read input: %w", err)
		}

		if line == "" {
			continue
		}
		if strings.EqualFold(line, QuitCommand) {
			return handled, nil
		}

		reply := r.handler(ctx, line)
		handled++
		if _, err := fmt.Fprintln(r.out, FormatBotReply(reply.Text)); err != nil {
			return handled, fmt.Errorf("failed to write reply: %w", err)
		}
	}
}
