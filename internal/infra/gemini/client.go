package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"first-aid/internal/application"
	"first-aid/internal/domain"
	"first-aid/internal/infra"
	"first-aid/internal/infra/llm"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

var errEmptyReply = errors.New("empty response from gemini")

// Client classifies utterances with the Gemini generateContent API.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

var _ application.InjuryClassifier = (*Client)(nil)

func NewClient(apiKey, model string) *Client {
	return NewClientWithURL(apiKey, model, defaultBaseURL)
}

func NewClientWithURL(apiKey, model, baseURL string) *Client {
	if model == "" {
		model = "gemini-2.0-flash"
	}
	return &Client{
		apiKey:     apiKey,
		model:      model,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type textPart struct {
	Text string `json:"text"`
}

type turn struct {
	Role  string     `json:"role,omitempty"`
	Parts []textPart `json:"parts"`
}

type generateRequest struct {
	SystemInstruction *turn          `json:"systemInstruction,omitempty"`
	Contents          []turn         `json:"contents"`
	Config            generateConfig `json:"generationConfig"`
}

type generateConfig struct {
	MaxOutputTokens int     `json:"maxOutputTokens"`
	Temperature     float64 `json:"temperature"`
}

type generateResponse struct {
	Candidates []struct {
		Content turn `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (c *Client) Classify(ctx context.Context, text string, catalog *domain.Catalog) (string, error) {
	reply, err := c.generate(ctx, generateRequest{
		SystemInstruction: &turn{Parts: []textPart{{Text: llm.SystemPrompt(catalog)}}},
		Contents:          []turn{{Role: "user", Parts: []textPart{{Text: text}}}},
		Config:            generateConfig{MaxOutputTokens: 64, Temperature: 0.1},
	})
	if err != nil {
		return "", err
	}
	return llm.ParseReply(reply)
}

// generate sends one request and returns the text of the first candidate.
func (c *Client) generate(ctx context.Context, payload generateRequest) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)

	var result generateResponse
	err = infra.WithRetry(ctx, infra.DefaultRetryConfig(), func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
		if err != nil {
			return infra.Permanent(fmt.Errorf("creating request: %w", err))
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("sending request: %w", err)
		}
		defer resp.Body.Close()

		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("reading response: %w", err)
		}

		if resp.StatusCode != http.StatusOK {
			apiErr := fmt.Errorf("gemini API error %d: %s", resp.StatusCode, raw)
			if infra.IsRetryableHTTPStatus(resp.StatusCode) {
				return apiErr
			}
			return infra.Permanent(apiErr)
		}

		result = generateResponse{}
		if err := json.Unmarshal(raw, &result); err != nil {
			return infra.Permanent(fmt.Errorf("decoding response: %w", err))
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	if result.Error != nil {
		return "", fmt.Errorf("gemini error: %s", result.Error.Message)
	}
	if len(result.Candidates) == 0 {
		return "", errEmptyReply
	}

	var reply strings.Builder
	for _, p := range result.Candidates[0].Content.Parts {
		reply.WriteString(p.Text)
	}
	if strings.TrimSpace(reply.String()) == "" {
		return "", errEmptyReply
	}
	return reply.String(), nil
}
