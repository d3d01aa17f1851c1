package whisper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"first-aid/internal/application"
	"first-aid/internal/infra"
)

// ServerClient talks to a whisper.cpp HTTP server (examples/server).
type ServerClient struct {
	httpClient *http.Client
	baseURL    string
	language   string
	retry      infra.RetryConfig
}

var _ application.SpeechToText = (*ServerClient)(nil)

type ServerOption func(*ServerClient)

func WithRetryConfig(cfg infra.RetryConfig) ServerOption {
	return func(c *ServerClient) { c.retry = cfg }
}

func NewServerClient(baseURL, language string, opts ...ServerOption) *ServerClient {
	c := &ServerClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		language:   language,
		retry:      infra.DefaultRetryConfig(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type inferenceResponse struct {
	Text  string `json:"text"`
	Error string `json:"error"`
}

func (c *ServerClient) Transcribe(ctx context.Context, audio []byte) (string, error) {
	var result inferenceResponse

	retryErr := infra.WithRetry(ctx, c.retry, func() error {
		body := &bytes.Buffer{}
		writer := multipart.NewWriter(body)

		part, err := writer.CreateFormFile("file", "audio.wav")
		if err != nil {
			return fmt.Errorf("creating form file: %w", err)
		}

		if _, err = part.Write(audio); err != nil {
			return fmt.Errorf("writing audio: %w", err)
		}

		fields := map[string]string{
			"response_format": "json",
			"temperature":     "0.0",
			"language":        c.language,
		}
		for k, v := range fields {
			if err = writer.WriteField(k, v); err != nil {
				return fmt.Errorf("writing %s field: %w", k, err)
			}
		}

		if err = writer.Close(); err != nil {
			return fmt.Errorf("closing writer: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/inference", body)
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
		}

		req.Header.Set("Content-Type", writer.FormDataContentType())

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("sending request: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			respBody, _ := io.ReadAll(resp.Body)
			if infra.IsRetryableHTTPStatus(resp.StatusCode) {
				return fmt.Errorf("whisper server error %d: %s (retryable)", resp.StatusCode, string(respBody))
			}
			return infra.Permanent(fmt.Errorf("whisper server error %d: %s", resp.StatusCode, string(respBody)))
		}

		if err = json.NewDecoder(resp.Body).Decode(&result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
		if result.Error != "" {
			return infra.Permanent(fmt.Errorf("whisper server: %s", result.Error))
		}

		return nil
	})

	if retryErr != nil {
		return "", retryErr
	}

	return strings.TrimSpace(result.Text), nil
}
