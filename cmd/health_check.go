// ABOUTME: Container health check invoked with the -health-check flag
// ABOUTME: Probes the running service's health endpoint and exits non-zero when unhealthy

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"sync-hub/config"
)

// performHealthCheck hits the local health endpoint and mirrors its verdict
// in the exit code, for use as a container healthcheck command.
func performHealthCheck(logger *slog.Logger) {
	addr := config.HTTPAddrFromEnv()
	url := fmt.Sprintf("http://localhost%s/v1/health", addr)

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		fmt.Printf(`{"status": "error", "error": %q}`+"\n", err.Error())
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		fmt.Printf(`{"status": "error", "error": %q}`+"\n", err.Error())
		os.Exit(1)
	}

	// Pretty-print when the body is JSON, pass through otherwise.
	var pretty map[string]any
	if json.Unmarshal(body, &pretty) == nil {
		out, _ := json.MarshalIndent(pretty, "", "  ")
		fmt.Println(string(out))
	} else {
		fmt.Println(string(body))
	}

	if resp.StatusCode != http.StatusOK {
		logger.Error("Health check failed", "status_code", resp.StatusCode)
		os.Exit(1)
	}
}
