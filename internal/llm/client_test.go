package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"family-planner-go/internal/config"
	"family-planner-go/pkg/logger"
)

func testLogger() logger.Logger {
	return logger.New(io.Discard, slog.LevelError, "json")
}

func newTestClient(provider, url string) *Client {
	client := NewClient(config.LLMConfig{
		Provider:  provider,
		APIKey:    "test-key",
		Model:     "test-model",
		MaxTokens: 512,
		Timeout:   5 * time.Second,
	}, testLogger())
	client.anthropicURL = url
	client.geminiURL = url
	return client
}

func TestCompleteNotConfigured(t *testing.T) {
	client := NewClient(config.LLMConfig{Provider: ProviderAnthropic}, testLogger())
	if _, err := client.Complete(context.Background(), "hi"); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	if client.Configured() {
		t.Fatalf("expected Configured to be false without a key")
	}
}

func TestCompleteAnthropic(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("x-api-key"); got != "test-key" {
			t.Errorf("expected api key header, got %q", got)
		}
		if got := r.Header.Get("anthropic-version"); got == "" {
			t.Errorf("expected anthropic-version header")
		}
		var payload struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(payload.Messages) != 1 || payload.Messages[0].Content != "parse this" {
			t.Errorf("unexpected messages: %+v", payload.Messages)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]string{{"text": "[{...}]"}},
		})
	}))
	defer server.Close()

	client := newTestClient(ProviderAnthropic, server.URL)
	text, err := client.Complete(context.Background(), "parse this")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "[{...}]" {
		t.Fatalf("unexpected reply %q", text)
	}
}

func TestCompleteGemini(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("key"); got != "test-key" {
			t.Errorf("expected key query parameter, got %q", got)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{
					"parts": []map[string]string{{"text": "reply"}},
				},
			}},
		})
	}))
	defer server.Close()

	client := newTestClient(ProviderGemini, server.URL)
	text, err := client.Complete(context.Background(), "parse this")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "reply" {
		t.Fatalf("unexpected reply %q", text)
	}
}

func TestCompleteRetriesServerErrors(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]string{{"text": "ok"}},
		})
	}))
	defer server.Close()

	client := newTestClient(ProviderAnthropic, server.URL)
	text, err := client.Complete(context.Background(), "parse this")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "ok" {
		t.Fatalf("unexpected reply %q", text)
	}
	if attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", attempts)
	}
}

func TestCompleteGivesUpAfterMaxAttempts(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := newTestClient(ProviderAnthropic, server.URL)
	_, err := client.Complete(context.Background(), "parse this")
	if !errors.Is(err, ErrBadResponse) {
		t.Fatalf("expected ErrBadResponse, got %v", err)
	}
	if attempts != maxAttempts {
		t.Fatalf("expected %d attempts, got %d", maxAttempts, attempts)
	}
}

func TestCompleteUnsupportedProvider(t *testing.T) {
	client := newTestClient("openai", "http://unused")

	// A bad provider is a configuration error: one attempt, no backoff.
	started := time.Now()
	_, err := client.Complete(context.Background(), "hi")
	if !errors.Is(err, ErrUnsupportedProvider) {
		t.Fatalf("expected ErrUnsupportedProvider, got %v", err)
	}
	if elapsed := time.Since(started); elapsed >= time.Second {
		t.Fatalf("expected no retry backoff, took %v", elapsed)
	}
}
