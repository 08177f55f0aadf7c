package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
)

// ErrInputCancelled is returned when input is canceled by context.
var ErrInputCancelled = errors.New("input canceled")

// LineReader reads lines from a terminal or pipe and gives up when its
// context is canceled.
type LineReader struct {
	reader      *bufio.Reader
	readingLock sync.Mutex
}

// NewLineReader creates a LineReader over reader.
func NewLineReader(reader io.Reader) *LineReader {
	if reader == nil {
		panic("reader cannot be nil")
	}
	return &LineReader{reader: bufio.NewReader(reader)}
}

// ReadLine returns the next line without surrounding whitespace. A final
// line without a newline is returned before io.EOF.
func (r *LineReader) ReadLine(ctx context.Context) (string, error) {
	if ctx.Err() != nil {
		return "", ErrInputCancelled
	}

	type result struct {
		err   error
		value string
	}
	resultCh := make(chan result, 1)

	go func() {
		r.readingLock.Lock()
		defer r.readingLock.Unlock()

		value, err := r.reader.ReadString('\n')
		resultCh <- result{value: value, err: err}
	}()

	// The reading goroutine outlives a canceled read; its line is lost.
	select {
	case <-ctx.Done():
		return "", ErrInputCancelled
	case res := <-resultCh:
		if errors.Is(res.err, io.EOF) && res.value != "" {
			return strings.TrimSpace(res.value), nil
		}
		if res.err != nil {
			return "", res.err
		}
		return strings.TrimSpace(res.value), nil
	}
}
