package verify

import (
	"context"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// anthropicClient adapts the Anthropic SDK to MessageClient. The gateway
// speaks the Messages protocol on /v1/messages, so the stock SDK pointed at
// a custom base URL is all the verification needs.
type anthropicClient struct {
	client anthropic.Client
}

// NewAnthropicClient returns a MessageClient backed by the Anthropic SDK,
// configured for the gateway at baseURL.
func NewAnthropicClient(baseURL, apiKey string) MessageClient {
	return &anthropicClient{
		client: anthropic.NewClient(
			option.WithBaseURL(baseURL),
			option.WithAPIKey(apiKey),
		),
	}
}

func (a *anthropicClient) CreateMessage(ctx context.Context, model, prompt string, maxTokens int64) (*MessageResult, error) {
	msg, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return nil, err
	}

	text := ""
	if len(msg.Content) > 0 {
		text = msg.Content[0].Text
	}
	return &MessageResult{
		Model: string(msg.Model),
		Text:  text,
	}, nil
}
