package application

import (
	"context"

	"first-aid/internal/domain"
)

// AudioSource yields one bounded capture at a time. Text-only sources wrap
// their payload with domain.TextCommand.
type AudioSource interface {
	Start(ctx context.Context) error
	Stop() error
	Capture(ctx context.Context, window domain.CaptureWindow) ([]byte, error)
	Name() string
}
