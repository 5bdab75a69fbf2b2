package verify

import (
	"context"
	"fmt"
	"io"
	"strings"
)

const (
	verifyPrompt    = "1+1 is?"
	verifyMaxTokens = 1024
)

// MessageResult is the slice of an SDK response the verification cares
// about: the text of the first content block and the reported model.
type MessageResult struct {
	Model string
	Text  string
}

// MessageClient sends a single chat message through an SDK-style client.
type MessageClient interface {
	CreateMessage(ctx context.Context, model, prompt string, maxTokens int64) (*MessageResult, error)
}

// Verifier checks that the gateway routes requests to a real Codex handler
// instead of silently falling back to another backend.
type Verifier struct {
	Client   MessageClient
	Out      io.Writer
	Expected string // exact model the strict check requires
}

// Run sends one message per model and strictly verifies the reported model.
// A non-nil return means the process should exit non-zero; remaining models
// are not attempted.
func (v *Verifier) Run(ctx context.Context, models []string) error {
	for _, model := range models {
		fmt.Fprintf(v.Out, "\nTesting model: %s\n", model)

		res, err := v.Client.CreateMessage(ctx, model, verifyPrompt, verifyMaxTokens)
		if err != nil {
			fmt.Fprintf(v.Out, "Error testing %s: %v\n", model, err)
			return fmt.Errorf("request failed for %s: %w", model, err)
		}

		fmt.Fprintf(v.Out, "Success! Response: %s\n", res.Text)
		fmt.Fprintf(v.Out, "Response Model: %s\n", res.Model)

		if strings.Contains(res.Model, "gpt-5") || strings.Contains(res.Model, "codex") {
			fmt.Fprintf(v.Out, "✅ Verified: Response came from a Codex model.\n")
			continue
		}

		fmt.Fprintf(v.Out, "⚠️ Warning: Response model is '%s', which might indicate fallback (expected '%s').\n",
			res.Model, v.Expected)
		if res.Model == v.Expected {
			fmt.Fprintf(v.Out, "✅ Strict Verification Passed: Model name matches.\n")
			continue
		}

		fmt.Fprintf(v.Out, "❌ Strict Verification Failed: Model name does not match.\n")
		return fmt.Errorf("strict verification failed: got %q, expected %q", res.Model, v.Expected)
	}
	return nil
}
