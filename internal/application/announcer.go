package application

import (
	"context"
	"log/slog"
)

// Announcer shows every user-facing message on the display and then speaks
// it. Neither output failing stops the caller.
type Announcer struct {
	display Notifier
	speaker Speaker
	logger  *slog.Logger
}

func NewAnnouncer(display Notifier, speaker Speaker, logger *slog.Logger) *Announcer {
	return &Announcer{
		display: display,
		speaker: speaker,
		logger:  logger,
	}
}

// Say prints and speaks text.
func (a *Announcer) Say(ctx context.Context, text string) {
	a.Show(ctx, text)

	if err := a.speaker.Say(ctx, text); err != nil {
		if ctx.Err() != nil {
			return
		}
		a.logger.Warn("speech output failed, continuing with text only", "error", err)
	}
}

// Show prints text without speaking it.
func (a *Announcer) Show(ctx context.Context, text string) {
	if err := a.display.Notify(ctx, text); err != nil {
		a.logger.Error("writing to display", "error", err)
	}
}
