package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"first-aid/internal/domain"
)

// InstructionSession delivers the steps of one injury, pausing after each
// step until the user says "next" or "stop".
type InstructionSession struct {
	catalog   *domain.Catalog
	listener  Transcriber
	announcer *Announcer
	alerter   Notifier
	window    domain.CaptureWindow
	logger    *slog.Logger
}

type SessionOption func(*InstructionSession)

// WithAlerter sends an alert through n whenever a critical injury starts.
func WithAlerter(n Notifier) SessionOption {
	return func(s *InstructionSession) { s.alerter = n }
}

func WithSessionWindow(w domain.CaptureWindow) SessionOption {
	return func(s *InstructionSession) { s.window = w }
}

func NewInstructionSession(
	catalog *domain.Catalog,
	listener Transcriber,
	announcer *Announcer,
	logger *slog.Logger,
	opts ...SessionOption,
) *InstructionSession {
	s := &InstructionSession{
		catalog:   catalog,
		listener:  listener,
		announcer: announcer,
		alerter:   &NoopNotifier{},
		window:    domain.DefaultCaptureWindow(),
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Deliver runs the session for key. The returned error is non-nil only when
// ctx is done or the input source has closed.
func (s *InstructionSession) Deliver(ctx context.Context, key string) (domain.SessionResult, error) {
	result := domain.SessionResult{Injury: key, State: domain.StateUnavailable}

	injury, ok := s.catalog.Lookup(key)
	if !ok {
		result.Reason = fmt.Errorf("%w: %s", domain.ErrUnknownInjury, key)
		s.logger.Warn("cannot deliver instructions", "error", result.Reason)
		s.announcer.Say(ctx, unknownInjury(key))
		return result, nil
	}
	if !injury.HasInstructions() {
		result.Reason = fmt.Errorf("%w: %s", domain.ErrNoInstructions, injury.Key)
		s.logger.Warn("cannot deliver instructions", "error", result.Reason)
		s.announcer.Say(ctx, noInstructions(injury.Key))
		return result, nil
	}

	last := len(injury.Instructions) - 1
	step := 0
	state := domain.StateAnnouncing

	for !state.Terminal() {
		s.logger.Debug("session transition", "injury", injury.Key, "state", state, "step", step+1)

		switch state {
		case domain.StateAnnouncing:
			if injury.Critical {
				s.announcer.Say(ctx, criticalWarning(injury.Key))
				if err := s.alerter.Notify(ctx, criticalAlert(injury.Key)); err != nil {
					s.logger.Error("sending critical alert", "injury", injury.Key, "error", err)
				}
			}
			s.announcer.Show(ctx, instructionsHeader(injury.Key))
			s.announcer.Say(ctx, instructionsIntro(injury.Key))
			state = domain.StateDeliveringStep

		case domain.StateDeliveringStep:
			s.announcer.Say(ctx, stepMessage(step+1, injury.Instructions[step]))
			result.Delivered++

			if step == last {
				s.announcer.Show(ctx, MsgEndMarker)
				s.announcer.Say(ctx, closingReminder(injury.Key))
				state = domain.StateCompleted
				break
			}
			s.announcer.Say(ctx, MsgAdvancePrompt)
			state = domain.StateAwaitingAdvance

		case domain.StateAwaitingAdvance:
			advance, err := s.awaitAdvance(ctx)
			if err != nil {
				result.State = state
				return result, err
			}
			if !advance {
				s.announcer.Say(ctx, MsgStopped)
				state = domain.StateStopped
				break
			}
			step++
			state = domain.StateDeliveringStep
		}
	}

	result.State = state
	s.logger.Info("instruction session finished",
		"injury", injury.Key,
		"state", state,
		"delivered", result.Delivered,
	)
	return result, nil
}

// awaitAdvance blocks until a response containing "next" (true) or "stop"
// (false). Failed captures are announced and retried; other responses are
// ignored without re-prompting.
func (s *InstructionSession) awaitAdvance(ctx context.Context) (bool, error) {
	for {
		if err := ctx.Err(); err != nil {
			return false, err
		}

		text, err := s.listener.Listen(ctx, s.window)
		if err != nil {
			if stopListening(ctx, err) {
				return false, err
			}
			s.logger.Debug("capture failed while awaiting advance", "error", err)
			s.announcer.Say(ctx, captureFailureMessage(err))
			continue
		}

		switch {
		case ContainsWord(text, "next"):
			return true, nil
		case ContainsWord(text, "stop"):
			return false, nil
		default:
			s.logger.Debug("ignoring response while awaiting advance", "text", text)
		}
	}
}

// stopListening reports whether err ends the conversation rather than a
// single capture.
func stopListening(ctx context.Context, err error) bool {
	return ctx.Err() != nil ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, domain.ErrSourceClosed)
}
