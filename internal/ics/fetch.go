package ics

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Fetcher retrieves the raw text of an external calendar feed.
type Fetcher interface {
	Fetch(ctx context.Context, feedURL string) (string, error)
}

// HTTPFetcher downloads an ICS feed over HTTP. The feed is consumed as one
// whole-file string; this system never produces ICS.
type HTTPFetcher struct {
	UserAgent string
	MaxBytes  int64
	Client    *http.Client
}

// Fetch resolves unset fields to defaults locally, never on the receiver:
// one fetcher is shared by concurrent import requests.
func (f *HTTPFetcher) Fetch(ctx context.Context, feedURL string) (string, error) {
	client := f.Client
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	agent := f.UserAgent
	if agent == "" {
		agent = "labplanner-backend"
	}
	maxBytes := f.MaxBytes
	if maxBytes <= 0 {
		maxBytes = 4 << 20
	}
	if !strings.HasPrefix(feedURL, "http://") && !strings.HasPrefix(feedURL, "https://") {
		return "", fmt.Errorf("unsupported feed url %q", feedURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", agent)

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("ics feed http error: %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes))
	if err != nil {
		return "", err
	}
	return string(body), nil
}
