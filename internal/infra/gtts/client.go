package gtts

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"first-aid/internal/application"
	"first-aid/internal/infra"
)

const (
	defaultURL = "https://translate.google.com/translate_tts"
	// maxChunk is the longest text the endpoint accepts per request.
	maxChunk = 100
)

// Client synthesizes speech with the Google Translate TTS endpoint and
// returns MP3.
type Client struct {
	httpClient *http.Client
	baseURL    string
	language   string
	retry      infra.RetryConfig
}

var _ application.Synthesizer = (*Client)(nil)

func NewClient(language string) *Client {
	return NewClientWithURL(defaultURL, language)
}

// NewClientWithURL creates a client with a custom endpoint (for testing).
func NewClientWithURL(baseURL, language string) *Client {
	if language == "" {
		language = "en"
	}
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    baseURL,
		language:   language,
		retry:      infra.DefaultRetryConfig(),
	}
}

func (c *Client) Name() string {
	return "gtts"
}

func (c *Client) Synthesize(ctx context.Context, text string) ([]byte, error) {
	chunks := Chunk(text, maxChunk)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("nothing to synthesize")
	}

	var out bytes.Buffer
	for i, chunk := range chunks {
		audio, err := c.fetch(ctx, chunk, i, len(chunks))
		if err != nil {
			return nil, fmt.Errorf("chunk %d/%d: %w", i+1, len(chunks), err)
		}
		out.Write(audio)
	}

	return out.Bytes(), nil
}

func (c *Client) fetch(ctx context.Context, text string, idx, total int) ([]byte, error) {
	params := url.Values{}
	params.Set("ie", "UTF-8")
	params.Set("q", text)
	params.Set("tl", c.language)
	params.Set("client", "tw-ob")
	params.Set("idx", fmt.Sprint(idx))
	params.Set("total", fmt.Sprint(total))
	params.Set("textlen", fmt.Sprint(len(text)))

	var audio []byte

	err := infra.WithRetry(ctx, c.retry, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("User-Agent", "Mozilla/5.0")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("sending request: %w", err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("reading response: %w", err)
		}

		if resp.StatusCode != http.StatusOK {
			if infra.IsRetryableHTTPStatus(resp.StatusCode) {
				return fmt.Errorf("tts error %d (retryable)", resp.StatusCode)
			}
			return infra.Permanent(fmt.Errorf("tts error %d: %s", resp.StatusCode, string(body)))
		}
		if len(body) == 0 {
			return fmt.Errorf("empty audio response")
		}

		audio = body
		return nil
	})

	return audio, err
}

// Chunk splits text into pieces of at most limit bytes, preferring sentence
// punctuation, then spaces, as split points.
func Chunk(text string, limit int) []string {
	text = strings.Join(strings.Fields(text), " ")

	var chunks []string
	for len(text) > 0 {
		if len(text) <= limit {
			chunks = append(chunks, text)
			break
		}

		cut := splitPoint(text, limit)
		chunk := strings.TrimSpace(text[:cut])
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
		text = strings.TrimSpace(text[cut:])
	}

	return chunks
}

func splitPoint(text string, limit int) int {
	window := text[:limit+1]

	if i := strings.LastIndexAny(window[:limit], ".!?;:,"); i > 0 {
		return i + 1
	}
	if i := strings.LastIndexFunc(window, unicode.IsSpace); i > 0 {
		return i
	}

	// No boundary: cut on a rune boundary.
	cut := limit
	for cut > 1 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return cut
}
