package probe

import "time"

// Message represents a chat message
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatCompletionRequest is the OpenAI-compatible chat completion request the
// router accepts on /v1/chat/completions. Only the fields the probes exercise
// are included; the router ignores anything else anyway.
type ChatCompletionRequest struct {
	Model     string    `json:"model"`
	Messages  []Message `json:"messages"`
	MaxTokens int       `json:"max_tokens"`
}

// ChatCompletionResponse is the OpenAI-compatible chat completion response.
// The top-level Model field carries the model the router actually served the
// request with, which may differ from the requested one.
type ChatCompletionResponse struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Created int64  `json:"created"`
	Model   string `json:"model"`
	Choices []struct {
		Index   int `json:"index"`
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// ModelList is the response shape of GET /v1/models.
type ModelList struct {
	Data []ModelInfo `json:"data"`
}

// ModelInfo is a single entry in the model list.
type ModelInfo struct {
	ID      string `json:"id"`
	Object  string `json:"object,omitempty"`
	OwnedBy string `json:"owned_by,omitempty"`
}

// ChatResult is what a successful chat probe hands back to the caller.
type ChatResult struct {
	RequestedModel string
	UsedModel      string
	Content        string
	Duration       time.Duration
	PromptTokens   int
	OutputTokens   int
}
