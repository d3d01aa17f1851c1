package console

import (
	"context"
	"fmt"
	"io"
	"sync"

	"first-aid/internal/application"
)

// Display prints assistant messages for the user, one per line.
type Display struct {
	mu  sync.Mutex
	out io.Writer
}

var _ application.Notifier = (*Display)(nil)

func NewDisplay(out io.Writer) *Display {
	return &Display{out: out}
}

func (d *Display) Notify(_ context.Context, message string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, err := fmt.Fprintln(d.out, message); err != nil {
		return fmt.Errorf("writing message: %w", err)
	}
	return nil
}
