// Package wakatime implements the upstream WakaTime-compatible API client:
// single-range stats, the lifetime total, and chunked daily summaries.
package wakatime

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"wakadash/internal/logger"
	"wakadash/internal/models"
)

const (
	// DefaultBaseURL is the canonical service host.
	DefaultBaseURL = "https://wakatime.com"

	// summariesChunkDays is the upstream per-request day ceiling for the
	// summaries endpoint.
	summariesChunkDays = 365

	// chunkTimeout bounds each summaries chunk request independently of the
	// caller's context.
	chunkTimeout = 15 * time.Second

	requestTimeout = 30 * time.Second
)

// Config holds client configuration.
type Config struct {
	// BaseURL overrides the service host; a trailing slash is stripped.
	BaseURL string

	// ChunkConcurrency caps parallel summaries chunk fetches. The default of
	// 1 keeps chunk requests strictly sequential to stay under the upstream
	// rate limit.
	ChunkConcurrency int
}

// Client performs requests against a WakaTime-compatible API.
type Client struct {
	baseURL          string
	chunkConcurrency int
	httpClient       *http.Client
}

// NewClient creates a client for the given configuration.
func NewClient(cfg Config) *Client {
	base := strings.TrimSuffix(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}

	concurrency := cfg.ChunkConcurrency
	if concurrency < 1 {
		concurrency = 1
	}

	return &Client{
		baseURL:          base,
		chunkConcurrency: concurrency,
		httpClient:       &http.Client{Timeout: requestTimeout},
	}
}

// StatsRequest identifies the subject and window for a stats fetch.
type StatsRequest struct {
	Username string
	APIKey   string
	Range    models.Range
}

// resolveAuth decides between the public and authenticated request modes.
// With an API key the subject is the "current" alias and an HTTP Basic header
// is derived from the key plus a mandatory trailing colon (empty password
// field, per upstream convention). Without a key the request routes to the
// public endpoint for the named user.
func resolveAuth(username, apiKey string) (subject, authHeader string, err error) {
	if apiKey != "" {
		encoded := base64.StdEncoding.EncodeToString([]byte(apiKey + ":"))
		return "current", "Basic " + encoded, nil
	}
	if username == "" {
		return "", "", &models.MissingParamError{Param: "username"}
	}
	return username, "", nil
}

// statsEnvelope mirrors the upstream stats response body.
type statsEnvelope struct {
	Data struct {
		TotalSeconds       float64 `json:"total_seconds"`
		HumanReadableTotal string  `json:"human_readable_total"`
		DailyAverage       float64 `json:"daily_average"`
		Languages          []struct {
			Name         string  `json:"name"`
			TotalSeconds float64 `json:"total_seconds"`
			Hours        int     `json:"hours"`
			Minutes      int     `json:"minutes"`
			Percent      float64 `json:"percent"`
			Text         string  `json:"text"`
		} `json:"languages"`
	} `json:"data"`
}

// FetchStats retrieves the single-range stats payload for the request.
// A response status outside 2xx translates to UserNotFoundError for the
// resolved subject; transport and parse failures propagate as-is.
func (c *Client) FetchStats(ctx context.Context, req StatsRequest) (*models.Stats, error) {
	subject, authHeader, err := resolveAuth(req.Username, req.APIKey)
	if err != nil {
		return nil, err
	}

	rng := req.Range
	if rng == "" {
		rng = models.DefaultRange
	}

	endpoint := fmt.Sprintf("%s/api/v1/users/%s/stats/%s?is_including_today=true",
		c.baseURL, url.PathEscape(subject), url.PathEscape(string(rng)))

	body, status, err := c.get(ctx, endpoint, authHeader)
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		return nil, &models.UserNotFoundError{Subject: subject}
	}

	var envelope statsEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse stats response: %w", err)
	}

	data := envelope.Data
	stats := &models.Stats{
		Subject:            subject,
		Range:              rng,
		TotalSeconds:       int64(math.Round(data.TotalSeconds)),
		HumanReadableTotal: data.HumanReadableTotal,
		DailyAverage:       data.DailyAverage,
		FetchedAt:          time.Now(),
	}
	if stats.HumanReadableTotal == "" {
		stats.HumanReadableTotal = models.HumanizeSeconds(stats.TotalSeconds)
	}

	for _, lang := range data.Languages {
		stats.Languages = append(stats.Languages, models.LanguageStat{
			Name:         lang.Name,
			TotalSeconds: int64(math.Round(lang.TotalSeconds)),
			Hours:        lang.Hours,
			Minutes:      lang.Minutes,
			Percent:      lang.Percent,
			Text:         lang.Text,
		})
	}

	return stats, nil
}

// User is the authenticated account's public profile.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// FetchUser retrieves the authenticated account. Used to discover the
// signup date for diagnostic summaries spans.
func (c *Client) FetchUser(ctx context.Context, apiKey string) (*User, error) {
	_, authHeader, err := resolveAuth("", apiKey)
	if err != nil {
		return nil, err
	}

	body, status, err := c.get(ctx, c.baseURL+"/api/v1/users/current", authHeader)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("user request failed (status %d): %s", status, string(body))
	}

	var envelope struct {
		Data User `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse user response: %w", err)
	}

	return &envelope.Data, nil
}

// get performs a GET request and returns the body and status code.
func (c *Client) get(ctx context.Context, endpoint, authHeader string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Error("failed to close response body", "error", err)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}

	return body, resp.StatusCode, nil
}
