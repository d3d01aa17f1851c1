package anthropic_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"first-aid/internal/domain"
	"first-aid/internal/infra/anthropic"
)

func testCatalog() *domain.Catalog {
	c, _ := domain.NewCatalog([]domain.Injury{
		{Key: "burn", Synonyms: []string{"scald"}},
		{Key: "sprain"},
	})
	return c
}

func replyWith(t *testing.T, text string) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/messages" {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("missing api key header")
		}

		var req struct {
			Model  string `json:"model"`
			System string `json:"system"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		if req.Model != "claude-test" {
			t.Errorf("Model: got %s, want claude-test", req.Model)
		}
		if !strings.Contains(req.System, "- burn (also: scald)") {
			t.Errorf("expected catalog in system prompt, got %q", req.System)
		}

		response := map[string]any{
			"content": []map[string]string{{"text": text}},
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}))
}

func TestClaudeClient_Classify(t *testing.T) {
	server := replyWith(t, `{"injury":"burn","confidence":0.93}`)
	defer server.Close()

	client := anthropic.NewClaudeClientWithURL("test-key", "claude-test", server.URL)

	key, err := client.Classify(context.Background(), "my arm got singed on the stove", testCatalog())
	if err != nil {
		t.Fatalf("Classify error: %v", err)
	}
	if key != "burn" {
		t.Errorf("key: got %q, want burn", key)
	}
}

func TestClaudeClient_ClassifyNone(t *testing.T) {
	server := replyWith(t, "```json\n{\"injury\":\"none\",\"confidence\":0.2}\n```")
	defer server.Close()

	client := anthropic.NewClaudeClientWithURL("test-key", "claude-test", server.URL)

	key, err := client.Classify(context.Background(), "what time is it", testCatalog())
	if err != nil {
		t.Fatalf("Classify error: %v", err)
	}
	if key != "" {
		t.Errorf("key: got %q, want empty", key)
	}
}

func TestClaudeClient_ClientError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid key"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	client := anthropic.NewClaudeClientWithURL("bad", "claude-test", server.URL)

	if _, err := client.Classify(context.Background(), "burn", testCatalog()); err == nil {
		t.Fatal("expected error")
	}
}
