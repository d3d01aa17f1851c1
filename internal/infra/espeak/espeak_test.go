package espeak_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"first-aid/internal/infra/espeak"
)

// fakeBinary writes a shell script that echoes its arguments after a RIFF
// marker, standing in for espeak-ng.
func fakeBinary(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not supported")
	}

	path := filepath.Join(t.TempDir(), "espeak-ng")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0755); err != nil {
		t.Fatalf("writing fake binary: %v", err)
	}
	return path
}

func TestSynthesizer_Synthesize(t *testing.T) {
	bin := fakeBinary(t, `printf 'RIFF'; echo " $*"`)

	s := espeak.NewSynthesizer(bin, "en-us", 150)
	if s.Name() != "espeak" {
		t.Errorf("unexpected name %q", s.Name())
	}

	out, err := s.Synthesize(context.Background(), "  Goodbye! Stay safe. ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := string(out)
	if !strings.HasPrefix(got, "RIFF") {
		t.Fatalf("expected wav output, got %q", got)
	}
	for _, want := range []string{"--stdout", "-v en-us", "-s 150", "-- Goodbye! Stay safe."} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in args %q", want, got)
		}
	}
}

func TestSynthesizer_Failures(t *testing.T) {
	failing := fakeBinary(t, `echo "no voice" >&2; exit 1`)
	if _, err := espeak.NewSynthesizer(failing, "", 0).Synthesize(context.Background(), "hello"); err == nil || !strings.Contains(err.Error(), "no voice") {
		t.Errorf("expected stderr in error, got %v", err)
	}

	silent := fakeBinary(t, `exit 0`)
	if _, err := espeak.NewSynthesizer(silent, "", 0).Synthesize(context.Background(), "hello"); err == nil {
		t.Error("expected error for missing wav output")
	}

	if _, err := espeak.NewSynthesizer(filepath.Join(t.TempDir(), "missing"), "", 0).Synthesize(context.Background(), "hello"); err == nil {
		t.Error("expected error for missing binary")
	}

	if _, err := espeak.NewSynthesizer(silent, "", 0).Synthesize(context.Background(), "  "); err == nil {
		t.Error("expected error for empty text")
	}
}
