package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rpay/pmrouter-smoketest/internal/config"
	"github.com/rpay/pmrouter-smoketest/internal/verify"
)

func main() {
	cfg := config.LoadVerify()

	fmt.Printf("Connecting to %s with key %s...\n", cfg.BaseURL, keyPreview(cfg.APIKey))

	v := &verify.Verifier{
		Client:   verify.NewAnthropicClient(cfg.BaseURL, cfg.APIKey),
		Out:      os.Stdout,
		Expected: cfg.ExpectedModel,
	}

	if err := v.Run(context.Background(), cfg.Models); err != nil {
		os.Exit(1)
	}
}

// keyPreview shows just enough of the key to tell configurations apart.
func keyPreview(key string) string {
	if len(key) <= 6 {
		return key
	}
	return key[:6]
}
