// Package sender uploads finished reports to the ingestion endpoint.
package sender

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/danzirulez/LogAnalyticsCollector/internal/auth"
	"github.com/danzirulez/LogAnalyticsCollector/internal/engine"
)

// ReportsPath is the ingestion route on the collector.
const ReportsPath = "/v1/reports"

const sendTimeout = 30 * time.Second

// Config holds the static upload configuration.
type Config struct {
	// Endpoint is the collector base URL, e.g. https://ingest.example.com.
	Endpoint    string
	WorkspaceID string
	// SharedKey is the base64 workspace key used to sign upload bodies.
	SharedKey string

	// HTTPClient overrides the default client, mainly for tests.
	HTTPClient *http.Client
}

// submitResponse is the collector's reply to a stored report.
type submitResponse struct {
	ID       int64     `json:"id"`
	StoredAt time.Time `json:"storedAt"`
}

// Send uploads one report, signing the body with the workspace shared key.
// Returns the record id assigned by the collector.
func Send(ctx context.Context, cfg Config, report *engine.Report) (int64, error) {
	if cfg.Endpoint == "" {
		return 0, fmt.Errorf("endpoint is required")
	}

	body, err := json.Marshal(report)
	if err != nil {
		return 0, fmt.Errorf("marshal report: %w", err)
	}

	target, err := url.JoinPath(cfg.Endpoint, ReportsPath)
	if err != nil {
		return 0, fmt.Errorf("build upload URL: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if cfg.SharedKey != "" {
		date := time.Now().UTC().Format(http.TimeFormat)
		sig, err := auth.Sign(cfg.SharedKey, http.MethodPost, ReportsPath, date, len(body))
		if err != nil {
			return 0, fmt.Errorf("sign report: %w", err)
		}
		req.Header.Set(auth.DateHeader, date)
		req.Header.Set("Authorization", auth.Authorization(cfg.WorkspaceID, sig))
	}

	client := cfg.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("submit report: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return 0, fmt.Errorf("submit report: %s: %s", resp.Status, bytes.TrimSpace(msg))
	}

	var result submitResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, fmt.Errorf("decode response: %w", err)
	}
	return result.ID, nil
}
