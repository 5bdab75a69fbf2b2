package probe

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHealth_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/health" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(`{"status": "healthy"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "sk-test", nil)
	if err := c.Health(context.Background()); err != nil {
		t.Fatalf("expected healthy, got: %v", err)
	}
}

func TestHealth_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL, "sk-test", nil)
	err := c.Health(context.Background())
	if err == nil {
		t.Fatal("expected error on 500")
	}
	if !strings.Contains(err.Error(), "500") {
		t.Errorf("error should carry the status code, got: %v", err)
	}
}

func TestHealth_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := New(srv.URL, "sk-test", nil)
	if err := c.Health(context.Background()); err == nil {
		t.Fatal("expected error when proxy is unreachable")
	}
}

func TestListModels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/models" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("Authorization = %q, want %q", got, "Bearer sk-test")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[{"id":"a"},{"id":"b"}]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "sk-test", nil)
	models, err := c.ListModels(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(models) != 2 || models[0] != "a" || models[1] != "b" {
		t.Errorf("unexpected models: %v", models)
	}
}

func TestListModels_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": [`))
	}))
	defer srv.Close()

	c := New(srv.URL, "sk-test", nil)
	if _, err := c.ListModels(context.Background()); err == nil {
		t.Fatal("expected error on malformed JSON")
	}
}

func TestListModels_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "unauthorized"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := New(srv.URL, "bad-key", nil)
	_, err := c.ListModels(context.Background())
	if err == nil {
		t.Fatal("expected error on 401")
	}
	if !strings.Contains(err.Error(), "401") {
		t.Errorf("error should carry the status code, got: %v", err)
	}
}

func TestChatCompletion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("Content-Type = %q", got)
		}

		var req ChatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Model != "gemini-3-flash" {
			t.Errorf("model = %q, want gemini-3-flash", req.Model)
		}
		if req.MaxTokens != 10 {
			t.Errorf("max_tokens = %d, want 10", req.MaxTokens)
		}
		if len(req.Messages) != 1 || req.Messages[0].Role != "user" {
			t.Errorf("unexpected messages: %+v", req.Messages)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"model":"gemini-3-flash","choices":[{"message":{"role":"assistant","content":"Hi"}}]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "sk-test", nil)
	res, err := c.ChatCompletion(context.Background(), "gemini-3-flash", "Hello, respond with just 'Hi'", 10)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if res.UsedModel != "gemini-3-flash" {
		t.Errorf("UsedModel = %q, want gemini-3-flash", res.UsedModel)
	}
	if res.Content != "Hi" {
		t.Errorf("Content = %q, want Hi", res.Content)
	}
	if res.RequestedModel != "gemini-3-flash" {
		t.Errorf("RequestedModel = %q", res.RequestedModel)
	}
	if res.Duration <= 0 {
		t.Errorf("Duration should be positive, got %v", res.Duration)
	}
}

func TestChatCompletion_Substitution(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"model":"gemini-3-flash","choices":[{"message":{"content":"done"}}]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "sk-test", nil)
	res, err := c.ChatCompletion(context.Background(), "gpt-5.2-codex", "write a function", 10)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if res.RequestedModel != "gpt-5.2-codex" || res.UsedModel != "gemini-3-flash" {
		t.Errorf("substitution not surfaced: %+v", res)
	}
}

func TestChatCompletion_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"message": "rate limited"}}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := New(srv.URL, "sk-test", nil)
	_, err := c.ChatCompletion(context.Background(), "gpt-5.2-codex", "hello", 10)
	if err == nil {
		t.Fatal("expected error on 429")
	}
	if !strings.Contains(err.Error(), "429") || !strings.Contains(err.Error(), "rate limited") {
		t.Errorf("error should carry status and body, got: %v", err)
	}
}

func TestChatCompletion_MissingModelField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[{"message":{"content":"Hi"}}]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "sk-test", nil)
	res, err := c.ChatCompletion(context.Background(), "gemini-3-flash", "hello", 10)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if res.UsedModel != "unknown" {
		t.Errorf("UsedModel = %q, want unknown", res.UsedModel)
	}
}
