package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"first-aid/internal/domain"
)

type SpeechToText interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// Transcriber produces lower-case text for one utterance, or one of the
// domain capture errors.
type Transcriber interface {
	Listen(ctx context.Context, window domain.CaptureWindow) (string, error)
}

// NoopSTT is used with text-only sources. It fails if real audio reaches it.
type NoopSTT struct{}

func (n *NoopSTT) Transcribe(_ context.Context, _ []byte) (string, error) {
	return "", fmt.Errorf("speech-to-text not configured: set stt.provider to enable audio transcription")
}

// Listener is the Transcriber built from an AudioSource and a SpeechToText.
type Listener struct {
	source AudioSource
	stt    SpeechToText
	logger *slog.Logger
}

var _ Transcriber = (*Listener)(nil)

func NewListener(source AudioSource, stt SpeechToText, logger *slog.Logger) *Listener {
	return &Listener{
		source: source,
		stt:    stt,
		logger: logger,
	}
}

func (l *Listener) Listen(ctx context.Context, window domain.CaptureWindow) (string, error) {
	l.logger.Info("listening for a command", "source", l.source.Name())

	data, err := l.source.Capture(ctx, window)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if errors.Is(err, domain.ErrNoSpeech) || errors.Is(err, domain.ErrSourceClosed) {
			return "", err
		}
		return "", fmt.Errorf("%w: %w", domain.ErrCaptureFailed, err)
	}

	var text string
	if directText, isText := domain.ParseTextCommand(data); isText {
		l.logger.Debug("received text command directly", "text", directText)
		text = directText
	} else {
		if len(data) == 0 {
			return "", domain.ErrNoSpeech
		}

		l.logger.Debug("recognizing", "bytes", len(data))
		text, err = l.stt.Transcribe(ctx, data)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			if errors.Is(err, domain.ErrUnintelligible) {
				return "", err
			}
			return "", fmt.Errorf("%w: %w", domain.ErrServiceUnavailable, err)
		}
	}

	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return "", domain.ErrUnintelligible
	}

	l.logger.Info("you said", "text", text)
	return text, nil
}
