//go:build portaudio
// +build portaudio

package audio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gordonklaus/portaudio"

	"first-aid/internal/domain"
)

const framesPerBuffer = 1024

// MicrophoneSource records one utterance per Capture. The input stream only
// exists for the duration of a capture, so nothing is recorded while the
// assistant is speaking.
type MicrophoneSource struct {
	cfg     MicrophoneConfig
	logger  *slog.Logger
	frame   []float32
	started bool
}

func NewMicrophoneSource(cfg MicrophoneConfig, logger *slog.Logger) *MicrophoneSource {
	return &MicrophoneSource{
		cfg:    cfg.withDefaults(),
		logger: logger,
		frame:  make([]float32, framesPerBuffer),
	}
}

func (m *MicrophoneSource) Name() string {
	return "microphone"
}

func (m *MicrophoneSource) Start(_ context.Context) error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("initializing portaudio: %w", err)
	}
	m.started = true

	m.logger.Info("microphone ready",
		"sampleRate", m.cfg.SampleRate,
		"calibration", m.cfg.Calibration,
		"pause", m.cfg.Pause,
	)
	return nil
}

func (m *MicrophoneSource) Stop() error {
	if !m.started {
		return nil
	}
	m.started = false
	return portaudio.Terminate()
}

// Capture opens the input, calibrates against ambient noise, waits up to
// window.Timeout for speech and records until a pause or
// window.PhraseLimit. The utterance is returned as WAV.
func (m *MicrophoneSource) Capture(ctx context.Context, window domain.CaptureWindow) ([]byte, error) {
	if !m.started {
		return nil, fmt.Errorf("microphone not started")
	}

	stream, err := portaudio.OpenDefaultStream(1, 0, float64(m.cfg.SampleRate), len(m.frame), m.frame)
	if err != nil {
		return nil, fmt.Errorf("opening stream: %w", err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return nil, fmt.Errorf("starting stream: %w", err)
	}
	defer stream.Stop()

	next := func() ([]float32, error) {
		if err := stream.Read(); err != nil {
			if !errors.Is(err, portaudio.InputOverflowed) {
				return nil, fmt.Errorf("reading from stream: %w", err)
			}
			m.logger.Debug("input overflowed, keeping latest frame")
		}
		return m.frame, nil
	}

	threshold, err := measureThreshold(next, m.framesFor(m.cfg.Calibration))
	if err != nil {
		return nil, err
	}
	m.logger.Debug("calibrated", "threshold", threshold)

	samples, err := utterance{
		threshold: threshold,
		onset:     m.framesFor(window.Timeout),
		limit:     m.framesFor(window.PhraseLimit),
		pause:     m.framesFor(m.cfg.Pause),
	}.record(ctx, next)
	if err != nil {
		return nil, err
	}

	m.logger.Debug("captured utterance", "seconds", float64(len(samples))/float64(m.cfg.SampleRate))
	return EncodeWAV(samples, m.cfg.SampleRate)
}

func (m *MicrophoneSource) framesFor(d time.Duration) int {
	return int(d.Seconds() * float64(m.cfg.SampleRate) / float64(len(m.frame)))
}
