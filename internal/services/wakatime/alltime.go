package wakatime

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"strings"

	"wakadash/internal/models"
)

// FetchAllTime retrieves the authoritative lifetime total. The endpoint has
// no public mode, so a missing API key yields a typed "no api key" result.
// Every failure is captured in the result's Err field rather than returned;
// this call feeds diagnostics only and must never abort the primary path.
func (c *Client) FetchAllTime(ctx context.Context, apiKey string) *models.AllTimeResult {
	if apiKey == "" {
		return &models.AllTimeResult{Err: models.NoAPIKeyError()}
	}

	_, authHeader, err := resolveAuth("", apiKey)
	if err != nil {
		return &models.AllTimeResult{Err: &models.FetchError{Message: err.Error()}}
	}

	endpoint := c.baseURL + "/api/v1/users/current/all_time_since_today"
	body, status, err := c.get(ctx, endpoint, authHeader)
	if err != nil {
		return &models.AllTimeResult{Err: &models.FetchError{Status: status, Message: err.Error()}}
	}
	if status != http.StatusOK {
		return &models.AllTimeResult{Err: &models.FetchError{
			Status:  status,
			Message: strings.TrimSpace(string(body)),
		}}
	}

	var envelope struct {
		Data struct {
			TotalSeconds float64 `json:"total_seconds"`
			Text         string  `json:"text"`
			DailyAverage float64 `json:"daily_average"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return &models.AllTimeResult{Err: &models.FetchError{Message: "failed to parse all time response: " + err.Error()}}
	}

	result := &models.AllTimeResult{
		TotalSeconds: int64(math.Round(envelope.Data.TotalSeconds)),
		Text:         envelope.Data.Text,
		DailyAverage: envelope.Data.DailyAverage,
	}
	if result.Text == "" {
		result.Text = models.HumanizeSeconds(result.TotalSeconds)
	}

	return result
}
