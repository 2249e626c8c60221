package models

import (
	"fmt"
	"time"
)

// LanguageStat is one language's share of a stats payload.
type LanguageStat struct {
	Name         string
	TotalSeconds int64
	Hours        int
	Minutes      int
	Percent      float64
	Text         string
}

// Stats is a normalized coding-activity payload for one subject and range.
// The sum of per-language seconds may be below TotalSeconds; the upstream
// keeps an uncategorized remainder.
type Stats struct {
	Subject            string
	Range              Range
	TotalSeconds       int64
	HumanReadableTotal string
	DailyAverage       float64
	Languages          []LanguageStat
	IsCorrected        bool
	CorrectionFactor   float64
	FetchedAt          time.Time
}

// AllTimeResult is the authoritative lifetime total from the dedicated
// endpoint. Failures are carried in Err rather than returned; this data is
// diagnostic-only and must never abort a primary request.
type AllTimeResult struct {
	TotalSeconds int64
	Text         string
	DailyAverage float64
	Err          *FetchError
}

// DateChunk is a sub-interval of a date span sized to respect the upstream
// per-request day ceiling. Start and End are inclusive calendar dates.
type DateChunk struct {
	Start time.Time
	End   time.Time
}

// Days returns the inclusive day count of the chunk.
func (c DateChunk) Days() int {
	return int(c.End.Sub(c.Start).Hours()/24) + 1
}

// SummaryResult is the reduction of daily summaries over a date span.
// Failures are carried in Err; a partial aggregate is never reported.
type SummaryResult struct {
	TotalSeconds  int64
	Languages     []LanguageStat
	Days          int
	ChunksFetched int
	Start         time.Time
	End           time.Time
	Err           *FetchError
}

// HumanizeSeconds formats a second count the way the upstream does,
// e.g. "34 hrs 21 mins".
func HumanizeSeconds(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	hrs := seconds / 3600
	mins := (seconds % 3600) / 60

	switch {
	case hrs == 0 && mins == 0:
		return fmt.Sprintf("%d secs", seconds)
	case hrs == 0:
		return fmt.Sprintf("%d mins", mins)
	case mins == 0:
		return fmt.Sprintf("%d hrs", hrs)
	default:
		return fmt.Sprintf("%d hrs %d mins", hrs, mins)
	}
}
