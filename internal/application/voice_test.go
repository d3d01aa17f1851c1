package application_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"first-aid/internal/application"
	"first-aid/internal/domain"
)

type stubSynth struct {
	name  string
	audio []byte
	err   error
	calls int
}

func (s *stubSynth) Name() string { return s.name }

func (s *stubSynth) Synthesize(_ context.Context, _ string) ([]byte, error) {
	s.calls++
	return s.audio, s.err
}

type stubPlayer struct {
	played [][]byte
	err    error
}

func (p *stubPlayer) Play(_ context.Context, audio []byte) error {
	p.played = append(p.played, audio)
	return p.err
}

func TestVoice_Say(t *testing.T) {
	player := &stubPlayer{}
	v := application.NewVoice(&stubSynth{name: "a", audio: []byte("mp3")}, player, discardLogger())

	if err := v.Say(context.Background(), "hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(player.played) != 1 || string(player.played[0]) != "mp3" {
		t.Errorf("unexpected playback %q", player.played)
	}
}

func TestVoice_FailuresWrapSynthesisError(t *testing.T) {
	v := application.NewVoice(&stubSynth{name: "a", err: errors.New("offline")}, &stubPlayer{}, discardLogger())
	if err := v.Say(context.Background(), "hello"); !errors.Is(err, domain.ErrSynthesis) {
		t.Errorf("expected ErrSynthesis, got %v", err)
	}

	v = application.NewVoice(&stubSynth{name: "a", audio: []byte("x")}, &stubPlayer{err: errors.New("no device")}, discardLogger())
	if err := v.Say(context.Background(), "hello"); !errors.Is(err, domain.ErrSynthesis) {
		t.Errorf("expected ErrSynthesis, got %v", err)
	}
}

func TestFallbackSynthesizer(t *testing.T) {
	first := &stubSynth{name: "gtts", err: errors.New("network down")}
	second := &stubSynth{name: "espeak", audio: []byte("wav")}
	third := &stubSynth{name: "unused", audio: []byte("never")}

	f := application.NewFallbackSynthesizer(discardLogger(), first, second, third)

	audio, err := f.Synthesize(context.Background(), "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(audio) != "wav" {
		t.Errorf("expected second synthesizer output, got %q", audio)
	}
	if third.calls != 0 {
		t.Error("expected chain to stop at first success")
	}
}

func TestFallbackSynthesizer_AllFail(t *testing.T) {
	f := application.NewFallbackSynthesizer(discardLogger(),
		&stubSynth{name: "gtts", err: errors.New("network down")},
		&stubSynth{name: "espeak", err: errors.New("not installed")},
	)

	_, err := f.Synthesize(context.Background(), "hello")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "network down") || !strings.Contains(err.Error(), "not installed") {
		t.Errorf("expected both causes in %q", err)
	}

	if _, err := application.NewFallbackSynthesizer(discardLogger()).Synthesize(context.Background(), "x"); err == nil {
		t.Error("expected error with no synthesizers")
	}
}

func TestAnnouncer_PrintsBeforeSpeakingAndSurvivesFailures(t *testing.T) {
	display := &transcript{}
	a := application.NewAnnouncer(display, failingSpeaker{}, discardLogger())

	a.Say(context.Background(), "Step 1: Cool the burn")
	a.Show(context.Background(), "--- End of Instructions ---")

	want := "PRINT Step 1: Cool the burn\nPRINT --- End of Instructions ---\n"
	if display.String() != want {
		t.Errorf("got %q, want %q", display.String(), want)
	}
}

func TestSilentSpeaker(t *testing.T) {
	if err := (application.SilentSpeaker{}).Say(context.Background(), "x"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
