package openai

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	sdk "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"first-aid/internal/application"
)

const defaultModel = "whisper-1"

// Transcriber sends captures to the OpenAI audio transcription endpoint.
type Transcriber struct {
	client   sdk.Client
	model    string
	language string
}

var _ application.SpeechToText = (*Transcriber)(nil)

type Config struct {
	APIKey   string
	Model    string
	Language string
	// BaseURL overrides the API endpoint, e.g. for a compatible local server.
	BaseURL    string
	MaxRetries int
}

func NewTranscriber(cfg Config) *Transcriber {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	model := cfg.Model
	if model == "" {
		model = defaultModel
	}

	return &Transcriber{
		client:   sdk.NewClient(opts...),
		model:    model,
		language: cfg.Language,
	}
}

func (t *Transcriber) Transcribe(ctx context.Context, audio []byte) (string, error) {
	params := sdk.AudioTranscriptionNewParams{
		File:  sdk.File(bytes.NewReader(audio), "audio.wav", "audio/wav"),
		Model: sdk.AudioModel(t.model),
	}
	if t.language != "" {
		params.Language = sdk.String(t.language)
	}

	res, err := t.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("transcribing: %w", err)
	}

	return strings.TrimSpace(res.Text), nil
}
