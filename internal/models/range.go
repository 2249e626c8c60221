// Package models defines data structures and domain types.
package models

// Range represents a reporting window understood by the upstream stats API.
type Range string

const (
	// RangeLast7Days covers the trailing week.
	RangeLast7Days Range = "last_7_days"
	// RangeLast30Days covers the trailing month.
	RangeLast30Days Range = "last_30_days"
	// RangeLast6Months covers the trailing half year.
	RangeLast6Months Range = "last_6_months"
	// RangeLastYear covers the trailing year.
	RangeLastYear Range = "last_year"
	// RangeAllTime covers the full account lifetime.
	RangeAllTime Range = "all_time"
)

// DefaultRange is used whenever a requested range is missing or unrecognized.
const DefaultRange = RangeLast7Days

// NormalizeRange coerces a requested range string to a known Range.
// Unknown or empty input falls back to DefaultRange silently.
func NormalizeRange(requested string) Range {
	switch Range(requested) {
	case RangeLast7Days, RangeLast30Days, RangeLast6Months, RangeLastYear, RangeAllTime:
		return Range(requested)
	default:
		return DefaultRange
	}
}

// String returns the display name for a range.
func (r Range) String() string {
	switch r {
	case RangeLast7Days:
		return "Last 7 Days"
	case RangeLast30Days:
		return "Last 30 Days"
	case RangeLast6Months:
		return "Last 6 Months"
	case RangeLastYear:
		return "Last Year"
	case RangeAllTime:
		return "All Time"
	default:
		return "Unknown"
	}
}

// Next cycles to the next range, in the order the card can page through them.
func (r Range) Next() Range {
	switch r {
	case RangeLast7Days:
		return RangeLast30Days
	case RangeLast30Days:
		return RangeLast6Months
	case RangeLast6Months:
		return RangeLastYear
	case RangeLastYear:
		return RangeAllTime
	default:
		return RangeLast7Days
	}
}
