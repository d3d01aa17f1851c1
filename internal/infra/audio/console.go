package audio

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"first-aid/internal/domain"
)

// ConsoleSource reads typed lines, one utterance per line. It stands in for
// the microphone on machines without audio.
type ConsoleSource struct {
	in      io.Reader
	timeout time.Duration
	logger  *slog.Logger

	once  sync.Once
	lines chan string
	err   error
}

// NewConsoleSource reads from in. Typing is slower than speaking, so the
// capture window is replaced by timeout; zero waits indefinitely.
func NewConsoleSource(in io.Reader, timeout time.Duration, logger *slog.Logger) *ConsoleSource {
	return &ConsoleSource{
		in:      in,
		timeout: timeout,
		logger:  logger,
		lines:   make(chan string),
	}
}

func (c *ConsoleSource) Name() string {
	return "console"
}

func (c *ConsoleSource) Start(_ context.Context) error {
	c.once.Do(func() { go c.readLines() })
	return nil
}

func (c *ConsoleSource) Stop() error {
	return nil
}

func (c *ConsoleSource) readLines() {
	defer close(c.lines)

	scanner := bufio.NewScanner(c.in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		c.lines <- line
	}
	if err := scanner.Err(); err != nil {
		c.logger.Error("reading console input", "error", err)
		c.err = err
	}
}

// Capture waits for the next typed line. End of input is reported as
// domain.ErrSourceClosed.
func (c *ConsoleSource) Capture(ctx context.Context, _ domain.CaptureWindow) ([]byte, error) {
	c.once.Do(func() { go c.readLines() })

	var deadline <-chan time.Time
	if c.timeout > 0 {
		timer := time.NewTimer(c.timeout)
		defer timer.Stop()
		deadline = timer.C
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-deadline:
		return nil, domain.ErrNoSpeech
	case line, ok := <-c.lines:
		if !ok {
			if c.err != nil {
				return nil, fmt.Errorf("%w: %w", domain.ErrSourceClosed, c.err)
			}
			return nil, domain.ErrSourceClosed
		}
		return domain.TextCommand(line), nil
	}
}
