package models

import (
	"testing"
	"time"
)

func TestTimeRange_String(t *testing.T) {
	cases := map[TimeRange]string{
		TimeRange7Days:   "7 Days",
		TimeRange30Days:  "30 Days",
		TimeRange90Days:  "90 Days",
		TimeRangeAllTime: "All Time",
	}
	for tr, want := range cases {
		if got := tr.String(); got != want {
			t.Errorf("TimeRange(%d).String() = %q, want %q", tr, got, want)
		}
	}
}

func TestTimeRange_Days(t *testing.T) {
	if TimeRange7Days.Days() != 7 {
		t.Errorf("7 days range should be 7, got %d", TimeRange7Days.Days())
	}
	if TimeRangeAllTime.Days() != 0 {
		t.Errorf("all time should be unlimited (0), got %d", TimeRangeAllTime.Days())
	}
}

func TestTimeRange_Next_Cycles(t *testing.T) {
	tr := TimeRange7Days
	for i := 0; i < 4; i++ {
		tr = tr.Next()
	}
	if tr != TimeRange7Days {
		t.Errorf("Next should cycle back to start, got %v", tr)
	}
}

func TestHistoryStats_HasData(t *testing.T) {
	var nilStats *HistoryStats
	if nilStats.HasData() {
		t.Error("nil stats should report no data")
	}

	empty := &HistoryStats{}
	if empty.HasData() {
		t.Error("zero recorded days should report no data")
	}

	some := &HistoryStats{RecordedDays: 3}
	if !some.HasData() {
		t.Error("recorded days should report data")
	}
}

func TestHistoryStats_PeakDay(t *testing.T) {
	d1 := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2026, 8, 21, 0, 0, 0, 0, time.UTC)

	h := &HistoryStats{
		Daily: []DailyPoint{
			{Day: d1, TotalSeconds: 3600},
			{Day: d2, TotalSeconds: 7200},
		},
	}

	day, secs := h.PeakDay()
	if !day.Equal(d2) || secs != 7200 {
		t.Errorf("PeakDay() = (%v, %d), want (%v, 7200)", day, secs, d2)
	}
}
