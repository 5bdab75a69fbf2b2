package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Defaults mirror the literals the smoke tests have always used. The two
// tools target different ports with different keys; whether those are the
// same deployed router instance is deliberately left unreconciled, so the
// two configs stay independent.
const (
	defaultRouterURL    = "http://127.0.0.1:8045"
	defaultRouterAPIKey = "sk-test"
	defaultHistoryPath  = "probe_history.db"

	defaultGatewayURL    = "http://127.0.0.1:8080"
	defaultGatewayAPIKey = "sk-06ca1f5bb642459a8160f2945c4334bf"

	// ExpectedCodexModel is the model the gateway must report for the
	// strict verification to pass.
	ExpectedCodexModel = "gpt-5.2-codex"
)

// Smoke holds the settings for the router smoke test.
type Smoke struct {
	BaseURL     string
	APIKey      string
	HistoryPath string // empty disables the probe history database
}

// Verify holds the settings for the Codex SDK verification.
type Verify struct {
	BaseURL       string
	APIKey        string
	ExpectedModel string
	Models        []string
}

// LoadSmoke reads the router smoke-test configuration from the environment,
// falling back to the built-in defaults. A .env file is honored if present.
func LoadSmoke() *Smoke {
	godotenv.Load()

	return &Smoke{
		BaseURL:     getenv("PM_ROUTER_URL", defaultRouterURL),
		APIKey:      getenv("PM_ROUTER_API_KEY", defaultRouterAPIKey),
		HistoryPath: getenv("PM_HISTORY_DB", defaultHistoryPath),
	}
}

// LoadVerify reads the SDK verification configuration from the environment,
// falling back to the built-in defaults.
func LoadVerify() *Verify {
	godotenv.Load()

	return &Verify{
		BaseURL:       getenv("CODEX_GATEWAY_URL", defaultGatewayURL),
		APIKey:        getenv("CODEX_GATEWAY_API_KEY", defaultGatewayAPIKey),
		ExpectedModel: ExpectedCodexModel,
		Models:        []string{"codex"},
	}
}

// getenv returns the environment value when the variable is set, even if
// set to empty (that is how PM_HISTORY_DB disables the history database).
func getenv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}
