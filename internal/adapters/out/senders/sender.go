// Package senders implements the per-channel notification transports. Email,
// SMS and push go to the respective gateway services over HTTP; the in-app
// channel is served by the notification log itself.
package senders

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// gatewayConfig is the HTTP shape shared by all gateway-backed senders.
type gatewayConfig struct {
	baseURL    string
	authToken  string
	timeout    time.Duration
	maxRetries int
}

func (c gatewayConfig) withDefaults() gatewayConfig {
	if c.timeout <= 0 {
		c.timeout = 10 * time.Second
	}
	if c.maxRetries <= 0 {
		c.maxRetries = 2
	}
	c.baseURL = strings.TrimRight(c.baseURL, "/")
	return c
}

// gateway posts JSON payloads to one notification gateway, retrying server
// errors with a fixed short backoff. A returned error means the send budget
// is spent; the retry job may try again later.
type gateway struct {
	cfg        gatewayConfig
	httpClient *http.Client
}

func newGateway(cfg gatewayConfig) *gateway {
	cfg = cfg.withDefaults()
	return &gateway{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.timeout},
	}
}

func (g *gateway) post(ctx context.Context, path string, payload any) error {
	var lastErr error

	for attempt := 0; attempt <= g.cfg.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		retryable, err := g.postOnce(ctx, path, payload)
		if err == nil {
			return nil
		}
		lastErr = err

		if !retryable || attempt == g.cfg.maxRetries {
			break
		}

		select {
		case <-time.After(250 * time.Millisecond):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return lastErr
}

func (g *gateway) postOnce(ctx context.Context, path string, payload any) (bool, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return false, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.baseURL+path, &buf)
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/json")
	if g.cfg.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+g.cfg.authToken)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return true, err
	}

	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return true, readErr
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return false, nil
	}

	retryable := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
	return retryable, fmt.Errorf("gateway http %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
}
