package pushover

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"first-aid/internal/application"
)

const defaultURL = "https://api.pushover.net/1/messages.json"

// Client sends critical-injury alerts to a caregiver's phone.
type Client struct {
	token      string
	userKey    string
	url        string
	httpClient *http.Client
}

var _ application.Notifier = (*Client)(nil)

func NewClient(token, userKey string) *Client {
	return NewClientWithURL(token, userKey, defaultURL)
}

func NewClientWithURL(token, userKey, endpoint string) *Client {
	return &Client{
		token:      token,
		userKey:    userKey,
		url:        endpoint,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) Notify(ctx context.Context, message string) error {
	if c.token == "" || c.userKey == "" {
		return nil
	}

	data := url.Values{}
	data.Set("token", c.token)
	data.Set("user", c.userKey)
	data.Set("message", message)
	data.Set("title", "First-Aid Assistant")
	data.Set("priority", "1")

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.url,
		strings.NewReader(data.Encode()),
	)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("pushover error: %s", resp.Status)
	}

	return nil
}
