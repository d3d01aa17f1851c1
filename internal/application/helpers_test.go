package application_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"first-aid/internal/application"
	"first-aid/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type utterance struct {
	text string
	err  error
}

// scriptedTranscriber replays utterances in order and reports the source
// closed once they run out.
type scriptedTranscriber struct {
	script []utterance
	index  int
}

func said(texts ...string) *scriptedTranscriber {
	s := &scriptedTranscriber{}
	for _, t := range texts {
		s.script = append(s.script, utterance{text: t})
	}
	return s
}

func (s *scriptedTranscriber) then(err error) *scriptedTranscriber {
	s.script = append(s.script, utterance{err: err})
	return s
}

func (s *scriptedTranscriber) thenSaid(text string) *scriptedTranscriber {
	s.script = append(s.script, utterance{text: text})
	return s
}

func (s *scriptedTranscriber) Listen(ctx context.Context, _ domain.CaptureWindow) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.index >= len(s.script) {
		return "", domain.ErrSourceClosed
	}
	u := s.script[s.index]
	s.index++
	return u.text, u.err
}

// transcript records everything shown and spoken, in order.
type transcript struct {
	lines []string
}

func (t *transcript) Notify(_ context.Context, message string) error {
	t.lines = append(t.lines, "PRINT "+message)
	return nil
}

func (t *transcript) Say(_ context.Context, text string) error {
	t.lines = append(t.lines, "SPEAK "+text)
	return nil
}

func (t *transcript) spoken() []string {
	var out []string
	for _, l := range t.lines {
		if s, ok := strings.CutPrefix(l, "SPEAK "); ok {
			out = append(out, s)
		}
	}
	return out
}

func (t *transcript) count(prefix string) int {
	n := 0
	for _, s := range t.spoken() {
		if strings.HasPrefix(s, prefix) {
			n++
		}
	}
	return n
}

func (t *transcript) String() string {
	return strings.Join(t.lines, "\n") + "\n"
}

type recordingNotifier struct {
	messages []string
	err      error
}

func (r *recordingNotifier) Notify(_ context.Context, message string) error {
	r.messages = append(r.messages, message)
	return r.err
}

type failingSpeaker struct{}

func (failingSpeaker) Say(_ context.Context, _ string) error {
	return fmt.Errorf("%w: no audio device", domain.ErrSynthesis)
}

func testCatalog(t *testing.T) *domain.Catalog {
	t.Helper()

	catalog, err := domain.NewCatalog([]domain.Injury{
		{
			Key:          "burn",
			Synonyms:     []string{"scald"},
			Instructions: []string{"Cool the burn under running water", "Cover with a clean cloth"},
		},
		{
			Key:          "bleeding",
			Synonyms:     []string{"blood", "bleed"},
			Instructions: []string{"Apply firm pressure", "Raise the wound", "Keep pressure on"},
			Critical:     true,
		},
		{
			Key:          "heart attack",
			Synonyms:     []string{"chest pain"},
			Instructions: []string{"Call emergency services", "Keep the person calm"},
			Critical:     true,
		},
		{
			Key: "splinter",
		},
	})
	if err != nil {
		t.Fatalf("building catalog: %v", err)
	}
	return catalog
}

type harness struct {
	catalog    *domain.Catalog
	transcript *transcript
	alerts     *recordingNotifier
	session    *application.InstructionSession
	matcher    *application.Matcher
	announcer  *application.Announcer
}

func newHarness(t *testing.T, listener application.Transcriber) *harness {
	t.Helper()

	logger := discardLogger()
	h := &harness{
		catalog:    testCatalog(t),
		transcript: &transcript{},
		alerts:     &recordingNotifier{},
	}
	h.announcer = application.NewAnnouncer(h.transcript, h.transcript, logger)
	h.matcher = application.NewMatcher(h.catalog, logger)
	h.session = application.NewInstructionSession(h.catalog, listener, h.announcer, logger,
		application.WithAlerter(h.alerts),
	)
	return h
}

func newSessionWithSpeaker(h *harness, display application.Notifier, speaker application.Speaker, listener application.Transcriber) *application.InstructionSession {
	announcer := application.NewAnnouncer(display, speaker, discardLogger())
	return application.NewInstructionSession(h.catalog, listener, announcer, discardLogger())
}
