package application

import (
	"context"
	"errors"
	"log/slog"

	"first-aid/internal/domain"
)

type Assistant struct {
	listener   Transcriber
	matcher    *Matcher
	classifier InjuryClassifier
	session    *InstructionSession
	announcer  *Announcer
	window     domain.CaptureWindow
	logger     *slog.Logger
}

type AssistantOption func(*Assistant)

// WithClassifier consults c when the matcher finds no injury.
func WithClassifier(c InjuryClassifier) AssistantOption {
	return func(a *Assistant) { a.classifier = c }
}

func WithCaptureWindow(w domain.CaptureWindow) AssistantOption {
	return func(a *Assistant) { a.window = w }
}

func NewAssistant(
	listener Transcriber,
	matcher *Matcher,
	session *InstructionSession,
	announcer *Announcer,
	logger *slog.Logger,
	opts ...AssistantOption,
) *Assistant {
	a := &Assistant{
		listener:  listener,
		matcher:   matcher,
		session:   session,
		announcer: announcer,
		window:    domain.DefaultCaptureWindow(),
		logger:    logger,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run speaks the disclaimer and then serves utterances until an exit phrase,
// the input closing, or ctx being cancelled.
func (a *Assistant) Run(ctx context.Context) error {
	a.logger.Info("assistant ready", "injuries", a.matcher.Catalog().Len())
	a.announcer.Say(ctx, MsgDisclaimer)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			done, err := a.processOneUtterance(ctx)
			if errors.Is(err, domain.ErrSourceClosed) {
				a.logger.Info("input closed, stopping")
				return nil
			}
			if err != nil {
				return err
			}
			if done {
				return nil
			}
		}
	}
}

func (a *Assistant) processOneUtterance(ctx context.Context) (bool, error) {
	text, err := a.listener.Listen(ctx, a.window)
	if err != nil {
		if stopListening(ctx, err) {
			return false, err
		}
		a.logger.Debug("capture failed", "error", err)
		a.announcer.Say(ctx, captureFailureMessage(err))
		return false, nil
	}

	if ContainsWord(text, exitWords...) {
		a.announcer.Say(ctx, MsgGoodbye)
		return true, nil
	}

	key, ok := a.matcher.Match(text)
	if !ok {
		key, ok = a.classify(ctx, text)
	}
	if !ok {
		a.logger.Info("no injury recognised", "text", text)
		a.announcer.Say(ctx, MsgFallback)
		return false, nil
	}

	a.logger.Info("injury recognised", "injury", key)

	if _, err := a.session.Deliver(ctx, key); err != nil {
		return false, err
	}
	return false, nil
}

func (a *Assistant) classify(ctx context.Context, text string) (string, bool) {
	if a.classifier == nil {
		return "", false
	}

	key, err := a.classifier.Classify(ctx, text, a.matcher.Catalog())
	if err != nil {
		a.logger.Error("classifying utterance", "error", err)
		return "", false
	}
	if key == "" {
		return "", false
	}

	injury, ok := a.matcher.Catalog().Lookup(key)
	if !ok {
		a.logger.Warn("classifier returned unknown injury", "injury", key)
		return "", false
	}
	return injury.Key, true
}
