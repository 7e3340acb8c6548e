// Package llm is a small client for chat completion APIs. It supports
// the Anthropic and Gemini REST endpoints and knows how to dig a JSON
// payload out of a model's free-form reply.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"family-planner-go/internal/config"
	"family-planner-go/pkg/logger"
)

const (
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"

	anthropicEndpoint = "https://api.anthropic.com/v1/messages"
	anthropicVersion  = "2023-06-01"
	geminiBaseURL     = "https://generativelanguage.googleapis.com/v1beta/models"

	maxAttempts = 3
)

var (
	ErrNotConfigured       = errors.New("LLM API key is not configured")
	ErrBadResponse         = errors.New("unexpected LLM response")
	ErrUnsupportedProvider = errors.New("unsupported LLM provider")
)

type Client struct {
	provider   string
	apiKey     string
	model      string
	maxTokens  int
	httpClient *http.Client
	log        logger.Logger

	// endpoint overrides for tests
	anthropicURL string
	geminiURL    string
}

func NewClient(cfg config.LLMConfig, log logger.Logger) *Client {
	return &Client{
		provider:     cfg.Provider,
		apiKey:       cfg.APIKey,
		model:        cfg.Model,
		maxTokens:    cfg.MaxTokens,
		httpClient:   &http.Client{Timeout: cfg.Timeout},
		log:          log,
		anthropicURL: anthropicEndpoint,
		geminiURL:    geminiBaseURL,
	}
}

// Configured reports whether an API key is present, for health checks.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// Complete sends the prompt and returns the model's text reply.
// Transient failures are retried with exponential backoff.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", ErrNotConfigured
	}

	var lastErr error
	backoff := time.Second
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		text, err := c.completeOnce(ctx, prompt)
		if err == nil {
			return text, nil
		}
		lastErr = err
		// Configuration errors are permanent; retrying cannot help.
		if errors.Is(err, ErrNotConfigured) || errors.Is(err, ErrUnsupportedProvider) || ctx.Err() != nil {
			break
		}
		c.log.Warn("LLM request failed", "attempt", attempt, "err", err)
		if attempt == maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(backoff):
		}
		if backoff < 6*time.Second {
			backoff *= 2
		}
	}
	return "", lastErr
}

func (c *Client) completeOnce(ctx context.Context, prompt string) (string, error) {
	switch c.provider {
	case ProviderAnthropic:
		return c.completeAnthropic(ctx, prompt)
	case ProviderGemini, "":
		return c.completeGemini(ctx, prompt)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedProvider, c.provider)
	}
}

func (c *Client) completeAnthropic(ctx context.Context, prompt string) (string, error) {
	payload := map[string]any{
		"model":      c.model,
		"max_tokens": c.maxTokens,
		"messages": []map[string]any{
			{"role": "user", "content": prompt},
		},
	}

	body, err := c.post(ctx, c.anthropicURL, payload, map[string]string{
		"x-api-key":         c.apiKey,
		"anthropic-version": anthropicVersion,
	})
	if err != nil {
		return "", err
	}

	var resp struct {
		Content []struct {
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("decode anthropic response: %w", err)
	}
	if len(resp.Content) == 0 {
		return "", fmt.Errorf("%w: empty anthropic content", ErrBadResponse)
	}
	return resp.Content[0].Text, nil
}

func (c *Client) completeGemini(ctx context.Context, prompt string) (string, error) {
	endpoint := fmt.Sprintf("%s/%s:generateContent?key=%s", c.geminiURL, c.model, c.apiKey)
	payload := map[string]any{
		"contents": []map[string]any{
			{"parts": []map[string]any{{"text": prompt}}},
		},
		"generationConfig": map[string]any{
			"temperature":     0.2,
			"maxOutputTokens": c.maxTokens,
		},
	}

	body, err := c.post(ctx, endpoint, payload, nil)
	if err != nil {
		return "", err
	}

	var resp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("decode gemini response: %w", err)
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: empty gemini candidates", ErrBadResponse)
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}

func (c *Client) post(ctx context.Context, endpoint string, payload any, headers map[string]string) ([]byte, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode LLM request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("build LLM request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("LLM request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read LLM response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrBadResponse, resp.StatusCode)
	}
	return body, nil
}

// ParseActivityArray extracts and decodes the JSON array of raw
// activity objects from model output.
func ParseActivityArray(text string) ([]json.RawMessage, error) {
	jsonBlob, err := ExtractFirstJSONBlob(text)
	if err != nil {
		return nil, err
	}

	var items []json.RawMessage
	if err := json.Unmarshal([]byte(jsonBlob), &items); err != nil {
		return nil, fmt.Errorf("%w: expected a JSON array of activities", ErrBadResponse)
	}
	return items, nil
}
