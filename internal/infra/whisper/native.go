//go:build whisper

package whisper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"strings"
	"sync"

	whispercpp "github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"

	"first-aid/internal/application"
	"first-aid/internal/infra/audio"
)

const modelSampleRate = 16000

// Native runs whisper.cpp in-process. Build with -tags whisper and link
// against libwhisper.
type Native struct {
	model    whispercpp.Model
	language string

	mu sync.Mutex
}

var _ application.SpeechToText = (*Native)(nil)

func NewNative(modelPath, language string) (*Native, error) {
	if modelPath == "" {
		return nil, errors.New("empty model path")
	}
	m, err := whispercpp.New(modelPath)
	if err != nil {
		return nil, fmt.Errorf("loading model: %w", err)
	}
	if language == "" {
		language = "auto"
	}
	return &Native{model: m, language: language}, nil
}

func (n *Native) Close() error {
	return n.model.Close()
}

func (n *Native) Transcribe(ctx context.Context, clip []byte) (string, error) {
	pcm, err := audio.Decode(clip)
	if err != nil {
		return "", fmt.Errorf("decoding audio: %w", err)
	}
	pcm = audio.Resample(pcm, modelSampleRate)
	if len(pcm.Samples) == 0 {
		return "", errors.New("no audio samples")
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	wctx, err := n.model.NewContext()
	if err != nil {
		return "", fmt.Errorf("new context: %w", err)
	}
	if err := wctx.SetLanguage(n.language); err != nil {
		return "", fmt.Errorf("set language: %w", err)
	}
	wctx.SetThreads(uint(runtime.NumCPU()))

	if err := wctx.Process(pcm.Samples, nil, nil, nil); err != nil {
		return "", fmt.Errorf("process: %w", err)
	}

	var parts []string
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		segment, err := wctx.NextSegment()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("next segment: %w", err)
		}
		parts = append(parts, strings.TrimSpace(segment.Text))
	}

	return strings.Join(parts, " "), nil
}
