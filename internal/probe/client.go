package probe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

var transport = &http.Transport{
	MaxIdleConns:        10,
	MaxIdleConnsPerHost: 10,
	IdleConnTimeout:     60 * time.Second,
}

// Per-probe deadlines. Single attempt each, no retries: a smoke test should
// surface a slow or flaky router, not paper over it.
const (
	healthTimeout = 5 * time.Second
	modelsTimeout = 10 * time.Second
	chatTimeout   = 30 * time.Second
)

// Client issues probe requests against a running PM router.
type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	Logger     *log.Logger // optional request log, nil disables
}

// New creates a probe client for the router at baseURL.
func New(baseURL, apiKey string, logger *log.Logger) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		APIKey:     apiKey,
		HTTPClient: &http.Client{Transport: transport},
		Logger:     logger,
	}
}

// Health checks GET /api/health. Healthy means HTTP 200, nothing else.
func (c *Client) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/api/health", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.logf("GET /api/health - %s %v", time.Since(start), err)
		return fmt.Errorf("proxy unreachable: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	c.logf("GET /api/health %d %s", resp.StatusCode, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}

// ListModels fetches GET /v1/models and returns the model IDs the router
// advertises.
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, modelsTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/v1/models", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	start := time.Now()
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.logf("GET /v1/models - %s %v", time.Since(start), err)
		return nil, fmt.Errorf("http error: %w", err)
	}
	defer resp.Body.Close()

	c.logf("GET /v1/models %d %s", resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		errMsg, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API error (%d): %s", resp.StatusCode, errMsg)
	}

	var list ModelList
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	models := make([]string, 0, len(list.Data))
	for _, m := range list.Data {
		models = append(models, m.ID)
	}
	return models, nil
}

// ChatCompletion sends a single chat completion to POST /v1/chat/completions
// and reports which model the router actually used. The used model is the
// interesting part: the PM router is free to substitute a different backend
// model than the one requested.
func (c *Client) ChatCompletion(ctx context.Context, model, prompt string, maxTokens int) (*ChatResult, error) {
	ctx, cancel := context.WithTimeout(ctx, chatTimeout)
	defer cancel()

	body, err := json.Marshal(ChatCompletionRequest{
		Model:     model,
		Messages:  []Message{{Role: "user", Content: prompt}},
		MaxTokens: maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	start := time.Now()
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.logf("POST /v1/chat/completions - %s %v", time.Since(start), err)
		return nil, fmt.Errorf("http error: %w", err)
	}
	defer resp.Body.Close()
	duration := time.Since(start)

	c.logf("POST /v1/chat/completions %d %s model=%s", resp.StatusCode, duration, model)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		errMsg, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return nil, fmt.Errorf("API error (%d): failed to read error body: %w", resp.StatusCode, readErr)
		}
		return nil, fmt.Errorf("API error (%d): %s", resp.StatusCode, errMsg)
	}

	var chatResp ChatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	content := ""
	if len(chatResp.Choices) > 0 {
		content = chatResp.Choices[0].Message.Content
	}
	used := chatResp.Model
	if used == "" {
		used = "unknown"
	}

	return &ChatResult{
		RequestedModel: model,
		UsedModel:      used,
		Content:        content,
		Duration:       duration,
		PromptTokens:   chatResp.Usage.PromptTokens,
		OutputTokens:   chatResp.Usage.CompletionTokens,
	}, nil
}

func (c *Client) logf(format string, args ...interface{}) {
	if c.Logger != nil {
		c.Logger.Printf(format, args...)
	}
}
