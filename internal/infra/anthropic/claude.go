package anthropic

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

const (
	defaultBaseURL = "https://api.anthropic.com/v1"
	apiVersion     = "2023-06-01"
)

// ClaudeClient classifies utterances the lexical matcher could not place.
type ClaudeClient struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

var _ application.InjuryClassifier = (*ClaudeClient)(nil)

func NewClaudeClient(apiKey, model string) *ClaudeClient {
	return NewClaudeClientWithURL(apiKey, model, defaultBaseURL)
}

func NewClaudeClientWithURL(apiKey, model, baseURL string) *ClaudeClient {
	if model == "" {
		model = "claude-sonnet-4-20250514"
	}
	return &ClaudeClient{
		apiKey:     apiKey,
		model:      model,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesRequest struct {
	Model     string        `json:"model"`
	MaxTokens int           `json:"max_tokens"`
	System    string        `json:"system"`
	Messages  []chatMessage `json:"messages"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

func (c *ClaudeClient) Classify(ctx context.Context, text string, catalog *domain.Catalog) (string, error) {
	reply, err := c.complete(ctx, messagesRequest{
		Model:     c.model,
		MaxTokens: 64,
		System:    llm.SystemPrompt(catalog),
		Messages:  []chatMessage{{Role: "user", Content: text}},
	})
	if err != nil {
		return "", err
	}
	return llm.ParseReply(reply)
}

// complete posts to the messages endpoint and returns the concatenated text
// blocks of the reply.
func (c *ClaudeClient) complete(ctx context.Context, payload messagesRequest) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	var result messagesResponse
	err = infra.WithRetry(ctx, infra.DefaultRetryConfig(), func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/messages", bytes.NewReader(body))
		if err != nil {
			return infra.Permanent(fmt.Errorf("creating request: %w", err))
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-api-key", c.apiKey)
		req.Header.Set("anthropic-version", apiVersion)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("sending request: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			raw, _ := io.ReadAll(resp.Body)
			apiErr := fmt.Errorf("claude API error %d: %s", resp.StatusCode, raw)
			if infra.IsRetryableHTTPStatus(resp.StatusCode) {
				return apiErr
			}
			return infra.Permanent(apiErr)
		}

		result = messagesResponse{}
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			return infra.Permanent(fmt.Errorf("decoding response: %w", err))
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	var reply strings.Builder
	for _, block := range result.Content {
		if block.Type == "" || block.Type == "text" {
			reply.WriteString(block.Text)
		}
	}
	if strings.TrimSpace(reply.String()) == "" {
		return "", errors.New("empty response from claude")
	}
	return reply.String(), nil
}
