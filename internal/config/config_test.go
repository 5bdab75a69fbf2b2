package config

import "testing"

func TestLoadSmoke_Defaults(t *testing.T) {
	cfg := LoadSmoke()
	if cfg.BaseURL != "http://127.0.0.1:8045" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.APIKey != "sk-test" {
		t.Errorf("APIKey = %q", cfg.APIKey)
	}
	if cfg.HistoryPath != "probe_history.db" {
		t.Errorf("HistoryPath = %q", cfg.HistoryPath)
	}
}

func TestLoadSmoke_EnvOverride(t *testing.T) {
	t.Setenv("PM_ROUTER_URL", "http://10.0.0.5:9000")
	t.Setenv("PM_HISTORY_DB", "")

	cfg := LoadSmoke()
	if cfg.BaseURL != "http://10.0.0.5:9000" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	// Explicitly empty disables the history database.
	if cfg.HistoryPath != "" {
		t.Errorf("HistoryPath = %q, want empty", cfg.HistoryPath)
	}
}

func TestLoadVerify_Defaults(t *testing.T) {
	cfg := LoadVerify()
	if cfg.BaseURL != "http://127.0.0.1:8080" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.ExpectedModel != "gpt-5.2-codex" {
		t.Errorf("ExpectedModel = %q", cfg.ExpectedModel)
	}
	if len(cfg.Models) != 1 || cfg.Models[0] != "codex" {
		t.Errorf("Models = %v", cfg.Models)
	}
}

// The smoke test and the verification tool intentionally use different
// endpoints and keys; neither loader may leak into the other.
func TestConfigsStayIndependent(t *testing.T) {
	t.Setenv("PM_ROUTER_URL", "http://smoke.local")

	verify := LoadVerify()
	if verify.BaseURL != "http://127.0.0.1:8080" {
		t.Errorf("verify BaseURL picked up smoke override: %q", verify.BaseURL)
	}
}
