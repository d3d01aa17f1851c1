//go:build !portaudio
// +build !portaudio

package audio

import (
	"context"
	"fmt"
	"log/slog"
)

// Player stub when portaudio is not available. Speech falls back to text.
type Player struct {
	logger *slog.Logger
}

func NewPlayer(logger *slog.Logger) *Player {
	return &Player{logger: logger}
}

func (p *Player) Play(_ context.Context, clip []byte) error {
	if _, err := Decode(clip); err != nil {
		return fmt.Errorf("decoding clip: %w", err)
	}
	return fmt.Errorf("audio playback not available: rebuild with -tags portaudio")
}
