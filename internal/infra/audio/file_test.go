package audio_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"first-aid/internal/domain"
	"first-aid/internal/infra/audio"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFileSource_ReplaysInNameOrder(t *testing.T) {
	tmpDir := t.TempDir()

	files := map[string][]byte{
		"02-next.wav":  []byte("RIFF....WAVEfmt audio data 2"),
		"01-burn.txt":  []byte("  I got a scald\n"),
		"notes.md":     []byte("ignored"),
		"03-final.wav": []byte("RIFF....WAVEfmt audio data 3"),
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(tmpDir, name), content, 0644); err != nil {
			t.Fatalf("writing test file: %v", err)
		}
	}

	source := audio.NewFileSource(tmpDir, discardLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := source.Start(ctx); err != nil {
		t.Fatalf("starting source: %v", err)
	}

	window := domain.CaptureWindow{Timeout: time.Second}

	first, err := source.Capture(ctx, window)
	if err != nil {
		t.Fatalf("reading first capture: %v", err)
	}
	if text, ok := domain.ParseTextCommand(first); !ok || text != "I got a scald" {
		t.Errorf("expected text command from .txt file, got %q", first)
	}

	second, err := source.Capture(ctx, window)
	if err != nil {
		t.Fatalf("reading second capture: %v", err)
	}
	if string(second) != "RIFF....WAVEfmt audio data 2" {
		t.Errorf("unexpected second capture %q", second)
	}

	if _, err := os.Stat(filepath.Join(tmpDir, "02-next.wav.processed")); err != nil {
		t.Errorf("expected consumed file to be renamed: %v", err)
	}

	if _, err := source.Capture(ctx, window); err != nil {
		t.Fatalf("reading third capture: %v", err)
	}
}

func TestFileSource_TimeoutIsNoSpeech(t *testing.T) {
	source := audio.NewFileSource(t.TempDir(), discardLogger())
	if err := source.Start(context.Background()); err != nil {
		t.Fatalf("starting source: %v", err)
	}

	_, err := source.Capture(context.Background(), domain.CaptureWindow{Timeout: 50 * time.Millisecond})
	if !errors.Is(err, domain.ErrNoSpeech) {
		t.Fatalf("expected ErrNoSpeech, got %v", err)
	}
}

func TestFileSource_PicksUpLateFile(t *testing.T) {
	tmpDir := t.TempDir()
	source := audio.NewFileSource(tmpDir, discardLogger())

	go func() {
		time.Sleep(100 * time.Millisecond)
		os.WriteFile(filepath.Join(tmpDir, "late.txt"), []byte("next"), 0644)
	}()

	data, err := source.Capture(context.Background(), domain.CaptureWindow{Timeout: 2 * time.Second})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text, _ := domain.ParseTextCommand(data); text != "next" {
		t.Errorf("expected next, got %q", data)
	}
}

func TestFileSource_ContextCancelled(t *testing.T) {
	source := audio.NewFileSource(t.TempDir(), discardLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := source.Capture(ctx, domain.CaptureWindow{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestFileSource_BlankTextFileIsNoSpeech(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmpDir, "01-blank.txt"), []byte("  \n\t"), 0644); err != nil {
		t.Fatalf("writing test file: %v", err)
	}
	if err := os.WriteFile(filepath.Join(tmpDir, "02-next.txt"), []byte("next"), 0644); err != nil {
		t.Fatalf("writing test file: %v", err)
	}

	source := audio.NewFileSource(tmpDir, discardLogger())
	window := domain.CaptureWindow{Timeout: time.Second}

	if _, err := source.Capture(context.Background(), window); !errors.Is(err, domain.ErrNoSpeech) {
		t.Fatalf("expected ErrNoSpeech for blank file, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(tmpDir, "01-blank.txt.processed")); err != nil {
		t.Errorf("expected blank file to be consumed: %v", err)
	}

	data, err := source.Capture(context.Background(), window)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text, _ := domain.ParseTextCommand(data); text != "next" {
		t.Errorf("expected next, got %q", data)
	}
}
