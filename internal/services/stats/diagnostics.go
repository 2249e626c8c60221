package stats

import (
	"context"
	"sync"
	"time"

	"wakadash/internal/models"
)

// Diagnostics bundles the primary stats fetch with the two auxiliary lookups
// used for operational debugging. Auxiliary failures are embedded in their
// result fields and a primary failure lands in Error; this type never carries
// a partial silently and FetchDiagnostics never returns an error.
type Diagnostics struct {
	Stats   *models.Stats
	Error   string
	AllTime *models.AllTimeResult
	Summary *models.SummaryResult
}

// FetchDiagnostics runs the primary fetch, the lifetime total, and a
// summaries aggregation over the account's full history concurrently. The
// three legs share no state; each failure is isolated to its own field.
func (s *Service) FetchDiagnostics(ctx context.Context, username, apiKey, requestedRange string) *Diagnostics {
	diag := &Diagnostics{}
	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		payload, err := s.Fetch(ctx, username, apiKey, requestedRange)
		if err != nil {
			diag.Error = err.Error()
			return
		}
		diag.Stats = payload
	}()

	go func() {
		defer wg.Done()
		diag.AllTime = s.api.FetchAllTime(ctx, apiKey)
	}()

	go func() {
		defer wg.Done()
		diag.Summary = s.fetchLifetimeSummary(ctx, apiKey)
	}()

	wg.Wait()
	return diag
}

// fetchLifetimeSummary aggregates summaries from the account's signup date
// to today. When the signup date cannot be discovered the span falls back to
// the trailing year.
func (s *Service) fetchLifetimeSummary(ctx context.Context, apiKey string) *models.SummaryResult {
	if apiKey == "" {
		return &models.SummaryResult{Err: models.NoAPIKeyError()}
	}

	now := time.Now()
	start := now.AddDate(-1, 0, 0)
	if user, err := s.api.FetchUser(ctx, apiKey); err == nil && !user.CreatedAt.IsZero() {
		start = user.CreatedAt
	}

	return s.api.AggregateSummaries(ctx, apiKey, start, now)
}
