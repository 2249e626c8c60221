package wakatime

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"wakadash/internal/models"
)

// chunkTotals is the reduction of one chunk's daily summaries.
type chunkTotals struct {
	seconds   int64
	days      int
	languages map[string]int64
}

// AggregateSummaries fetches daily summaries for [start, end] (inclusive
// calendar dates) and reduces them into one aggregate. Spans longer than the
// upstream per-request ceiling are split into contiguous chunks fetched with
// at most ChunkConcurrency requests in flight (default 1, a deliberate
// rate-limit policy). Each chunk carries its own bounded timeout. Any chunk
// failure aborts the whole aggregation; a partial aggregate is never
// reported. Failures are captured in the result's Err field.
func (c *Client) AggregateSummaries(ctx context.Context, apiKey string, start, end time.Time) *models.SummaryResult {
	if apiKey == "" {
		return &models.SummaryResult{Err: models.NoAPIKeyError()}
	}

	start = truncateToDay(start)
	end = truncateToDay(end)
	if end.Before(start) {
		return &models.SummaryResult{Err: &models.FetchError{
			Message: fmt.Sprintf("invalid date span: %s is after %s", formatDay(start), formatDay(end)),
		}}
	}

	chunks := partitionSpan(start, end, summariesChunkDays)

	var totals []*chunkTotals
	var fetchErr *models.FetchError
	if c.chunkConcurrency <= 1 {
		totals, fetchErr = c.fetchChunksSequential(ctx, apiKey, chunks)
	} else {
		totals, fetchErr = c.fetchChunksBounded(ctx, apiKey, chunks)
	}
	if fetchErr != nil {
		return &models.SummaryResult{Err: fetchErr}
	}

	result := &models.SummaryResult{
		Start:         start,
		End:           end,
		ChunksFetched: len(chunks),
	}

	accumulated := make(map[string]int64)
	for _, t := range totals {
		result.TotalSeconds += t.seconds
		result.Days += t.days
		for name, secs := range t.languages {
			accumulated[name] += secs
		}
	}

	result.Languages = rankLanguages(accumulated, result.TotalSeconds)
	return result
}

// partitionSpan splits [start, end] into ascending contiguous chunks of at
// most maxDays calendar days, the last clipped to end. The chunks cover the
// span exactly once with no gaps or overlaps.
func partitionSpan(start, end time.Time, maxDays int) []models.DateChunk {
	var chunks []models.DateChunk
	for cur := start; !cur.After(end); {
		chunkEnd := cur.AddDate(0, 0, maxDays-1)
		if chunkEnd.After(end) {
			chunkEnd = end
		}
		chunks = append(chunks, models.DateChunk{Start: cur, End: chunkEnd})
		cur = chunkEnd.AddDate(0, 0, 1)
	}
	return chunks
}

// fetchChunksSequential fetches chunks one at a time in ascending order,
// stopping at the first failure.
func (c *Client) fetchChunksSequential(ctx context.Context, apiKey string, chunks []models.DateChunk) ([]*chunkTotals, *models.FetchError) {
	totals := make([]*chunkTotals, 0, len(chunks))
	for _, chunk := range chunks {
		t, err := c.fetchChunk(ctx, apiKey, chunk)
		if err != nil {
			return nil, err
		}
		totals = append(totals, t)
	}
	return totals, nil
}

// fetchChunksBounded fetches chunks with a concurrency semaphore. The first
// failure wins; remaining in-flight requests are left to finish.
func (c *Client) fetchChunksBounded(ctx context.Context, apiKey string, chunks []models.DateChunk) ([]*chunkTotals, *models.FetchError) {
	totals := make([]*chunkTotals, len(chunks))
	errs := make([]*models.FetchError, len(chunks))

	sem := make(chan struct{}, c.chunkConcurrency)
	var wg sync.WaitGroup

	for i, chunk := range chunks {
		wg.Add(1)
		go func(i int, chunk models.DateChunk) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			totals[i], errs[i] = c.fetchChunk(ctx, apiKey, chunk)
		}(i, chunk)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return totals, nil
}

// summariesEnvelope mirrors the upstream summaries response body.
type summariesEnvelope struct {
	Data []struct {
		GrandTotal struct {
			TotalSeconds float64 `json:"total_seconds"`
		} `json:"grand_total"`
		Languages []struct {
			Name         string  `json:"name"`
			TotalSeconds float64 `json:"total_seconds"`
		} `json:"languages"`
	} `json:"data"`
}

// fetchChunk fetches and reduces a single chunk under its own timeout.
func (c *Client) fetchChunk(ctx context.Context, apiKey string, chunk models.DateChunk) (*chunkTotals, *models.FetchError) {
	ctx, cancel := context.WithTimeout(ctx, chunkTimeout)
	defer cancel()

	_, authHeader, err := resolveAuth("", apiKey)
	if err != nil {
		return nil, &models.FetchError{Message: err.Error()}
	}

	endpoint := fmt.Sprintf("%s/api/v1/users/current/summaries?start=%s&end=%s",
		c.baseURL, formatDay(chunk.Start), formatDay(chunk.End))

	body, status, err := c.get(ctx, endpoint, authHeader)
	if err != nil {
		return nil, &models.FetchError{Status: status, Message: err.Error()}
	}
	if status != http.StatusOK {
		return nil, &models.FetchError{Status: status, Message: strings.TrimSpace(string(body))}
	}

	var envelope summariesEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, &models.FetchError{Message: "failed to parse summaries response: " + err.Error()}
	}

	totals := &chunkTotals{languages: make(map[string]int64)}
	for _, day := range envelope.Data {
		totals.days++
		totals.seconds += int64(math.Round(day.GrandTotal.TotalSeconds))
		for _, lang := range day.Languages {
			totals.languages[lang.Name] += int64(math.Round(lang.TotalSeconds))
		}
	}

	return totals, nil
}

// rankLanguages converts an accumulated language map to a sequence ordered
// by descending seconds, with percents against the grand total. A zero grand
// total yields zero percents.
func rankLanguages(accumulated map[string]int64, grandTotal int64) []models.LanguageStat {
	langs := make([]models.LanguageStat, 0, len(accumulated))
	for name, secs := range accumulated {
		stat := models.LanguageStat{
			Name:         name,
			TotalSeconds: secs,
			Hours:        int(secs / 3600),
			Minutes:      int((secs % 3600) / 60),
			Text:         models.HumanizeSeconds(secs),
		}
		if grandTotal > 0 {
			stat.Percent = float64(secs) / float64(grandTotal) * 100
		}
		langs = append(langs, stat)
	}

	sort.Slice(langs, func(i, j int) bool {
		if langs[i].TotalSeconds != langs[j].TotalSeconds {
			return langs[i].TotalSeconds > langs[j].TotalSeconds
		}
		return langs[i].Name < langs[j].Name
	})

	return langs
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func formatDay(t time.Time) string {
	return t.Format("2006-01-02")
}
