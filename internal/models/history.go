package models

import "time"

// TimeRange represents the selected history window in the History tab.
type TimeRange int

const (
	// TimeRange7Days shows the last week of recorded days.
	TimeRange7Days TimeRange = iota
	// TimeRange30Days shows the last month.
	TimeRange30Days
	// TimeRange90Days shows the last quarter.
	TimeRange90Days
	// TimeRangeAllTime shows everything recorded locally.
	TimeRangeAllTime
)

// String returns the display name for a time range.
func (t TimeRange) String() string {
	switch t {
	case TimeRange7Days:
		return "7 Days"
	case TimeRange30Days:
		return "30 Days"
	case TimeRange90Days:
		return "90 Days"
	case TimeRangeAllTime:
		return "All Time"
	default:
		return "Unknown"
	}
}

// Days returns the day count for the range (0 = unlimited).
func (t TimeRange) Days() int {
	switch t {
	case TimeRange7Days:
		return 7
	case TimeRange30Days:
		return 30
	case TimeRange90Days:
		return 90
	case TimeRangeAllTime:
		return 0
	default:
		return 30
	}
}

// Next cycles to the next time range.
func (t TimeRange) Next() TimeRange {
	return (t + 1) % 4
}

// DailyPoint is one recorded day's total for trend charts.
type DailyPoint struct {
	Day          time.Time
	TotalSeconds int64
}

// LanguageTotal is a language's accumulated seconds over a history window.
type LanguageTotal struct {
	Language     string
	TotalSeconds int64
}

// HistoryStats bundles everything the History tab renders for one profile.
type HistoryStats struct {
	Profile       string
	TimeRange     TimeRange
	Daily         []DailyPoint
	TopLanguages  []LanguageTotal
	StreakDays    int
	TotalSeconds  int64
	RecordedDays  int
	FirstRecorded time.Time
	LastRecorded  time.Time
}

// HasData reports whether anything has been recorded for the profile.
func (h *HistoryStats) HasData() bool {
	return h != nil && h.RecordedDays > 0
}

// PeakDay returns the recorded day with the highest total.
func (h *HistoryStats) PeakDay() (time.Time, int64) {
	var day time.Time
	var best int64
	for _, p := range h.Daily {
		if p.TotalSeconds > best {
			best = p.TotalSeconds
			day = p.Day
		}
	}
	return day, best
}
