package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/rpay/pmrouter-smoketest/internal/config"
	"github.com/rpay/pmrouter-smoketest/internal/history"
	"github.com/rpay/pmrouter-smoketest/internal/probe"
	"github.com/rpay/pmrouter-smoketest/internal/smoketest"
)

func main() {
	logger := log.New(os.Stderr, "[router-smoke] ", log.LstdFlags)

	// Open probe.log (truncate on each run) for raw request logging
	probeFile, err := os.Create("probe.log")
	if err != nil {
		logger.Fatalf("Failed to create probe.log: %v", err)
	}
	defer probeFile.Close()
	probeLogger := log.New(probeFile, "", log.LstdFlags)

	cfg := config.LoadSmoke()
	logger.Printf("Target router: %s", cfg.BaseURL)

	var store *history.Store
	if cfg.HistoryPath != "" {
		store, err = history.Open(cfg.HistoryPath)
		if err != nil {
			// History is a convenience, not a requirement.
			logger.Printf("Probe history disabled: %v", err)
		} else {
			defer store.Close()
			logger.Printf("Probe history: %s", cfg.HistoryPath)
		}
	}

	runner := &smoketest.Runner{
		Client:  probe.New(cfg.BaseURL, cfg.APIKey, probeLogger),
		History: store,
		Out:     os.Stdout,
		Pause:   time.Second,
	}

	// Diagnostics only; the smoke test never fails the process.
	runner.Run(context.Background())
}
