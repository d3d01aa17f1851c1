package espeak

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"first-aid/internal/application"
)

const defaultBinary = "espeak-ng"

// Synthesizer renders speech offline by running espeak-ng, which writes a
// WAV file to stdout.
type Synthesizer struct {
	binary string
	voice  string
	speed  int
}

var _ application.Synthesizer = (*Synthesizer)(nil)

func NewSynthesizer(binary, voice string, speed int) *Synthesizer {
	if binary == "" {
		binary = defaultBinary
	}
	if voice == "" {
		voice = "en"
	}
	return &Synthesizer{binary: binary, voice: voice, speed: speed}
}

func (s *Synthesizer) Name() string {
	return "espeak"
}

func (s *Synthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("nothing to synthesize")
	}

	args := []string{"--stdout", "-v", s.voice}
	if s.speed > 0 {
		args = append(args, "-s", strconv.Itoa(s.speed))
	}
	args = append(args, "--", text)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, s.binary, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("running %s: %w: %s", s.binary, err, strings.TrimSpace(stderr.String()))
	}

	out := stdout.Bytes()
	if len(out) < 4 || string(out[:4]) != "RIFF" {
		return nil, fmt.Errorf("%s produced no wav output", s.binary)
	}
	return out, nil
}
