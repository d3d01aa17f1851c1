//go:build portaudio
// +build portaudio

package audio

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gordonklaus/portaudio"
)

// Player plays WAV or MP3 clips on the default output device. Playback
// blocks until the clip has been written out.
type Player struct {
	logger *slog.Logger
}

func NewPlayer(logger *slog.Logger) *Player {
	return &Player{logger: logger}
}

func (p *Player) Play(ctx context.Context, clip []byte) error {
	pcm, err := Decode(clip)
	if err != nil {
		return fmt.Errorf("decoding clip: %w", err)
	}

	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("initializing portaudio: %w", err)
	}
	defer portaudio.Terminate()

	buf := make([]float32, framesPerBuffer)
	stream, err := portaudio.OpenDefaultStream(0, 1, float64(pcm.SampleRate), len(buf), buf)
	if err != nil {
		return fmt.Errorf("opening output stream: %w", err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return fmt.Errorf("starting output stream: %w", err)
	}
	defer stream.Stop()

	p.logger.Debug("playing clip", "seconds", pcm.Duration())

	for off := 0; off < len(pcm.Samples); off += len(buf) {
		if err := ctx.Err(); err != nil {
			return err
		}

		n := copy(buf, pcm.Samples[off:])
		clear(buf[n:])

		if err := stream.Write(); err != nil {
			return fmt.Errorf("writing to output stream: %w", err)
		}
	}

	return nil
}
