package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"first-aid/internal/domain"
)

// Speaker turns text into audible speech and returns once playback is done.
type Speaker interface {
	Say(ctx context.Context, text string) error
}

// Synthesizer renders text as an encoded audio clip (MP3 or WAV).
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
	Name() string
}

type Player interface {
	Play(ctx context.Context, audio []byte) error
}

// Voice is the Speaker built from a Synthesizer and a Player.
type Voice struct {
	synth  Synthesizer
	player Player
	logger *slog.Logger
}

var _ Speaker = (*Voice)(nil)

func NewVoice(synth Synthesizer, player Player, logger *slog.Logger) *Voice {
	return &Voice{
		synth:  synth,
		player: player,
		logger: logger,
	}
}

func (v *Voice) Say(ctx context.Context, text string) error {
	audio, err := v.synth.Synthesize(ctx, text)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrSynthesis, v.synth.Name(), err)
	}

	v.logger.Debug("playing speech", "synthesizer", v.synth.Name(), "bytes", len(audio))

	if err := v.player.Play(ctx, audio); err != nil {
		return fmt.Errorf("%w: playing audio: %w", domain.ErrSynthesis, err)
	}
	return nil
}

// SilentSpeaker is used when speech output is disabled.
type SilentSpeaker struct{}

func (SilentSpeaker) Say(_ context.Context, _ string) error { return nil }

// FallbackSynthesizer tries each synthesizer in order and returns the first
// clip produced.
type FallbackSynthesizer struct {
	synths []Synthesizer
	logger *slog.Logger
}

var _ Synthesizer = (*FallbackSynthesizer)(nil)

func NewFallbackSynthesizer(logger *slog.Logger, synths ...Synthesizer) *FallbackSynthesizer {
	return &FallbackSynthesizer{synths: synths, logger: logger}
}

func (f *FallbackSynthesizer) Name() string { return "fallback" }

func (f *FallbackSynthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if len(f.synths) == 0 {
		return nil, errors.New("no synthesizers configured")
	}

	var errs []error
	for _, s := range f.synths {
		audio, err := s.Synthesize(ctx, text)
		if err == nil {
			return audio, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		f.logger.Warn("synthesizer failed, trying next", "synthesizer", s.Name(), "error", err)
		errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
	}

	return nil, fmt.Errorf("all synthesizers failed: %w", errors.Join(errs...))
}
