package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
)

func TestNewSpinner(t *testing.T) {
	s := NewSpinner("Fetching stats...")
	if s.label != "Fetching stats..." {
		t.Error("Spinner label mismatch")
	}
	if s.Init() == nil {
		t.Error("Init should return the tick command")
	}
}

func TestSpinner_UpdateAndRender(t *testing.T) {
	s := NewSpinner("Loading profiles...")

	s, cmd := s.Update(spinner.TickMsg{})
	if cmd == nil {
		t.Error("Update should return a command for tick")
	}

	if s.View() == "" {
		t.Error("View returned empty")
	}
	if !strings.Contains(s.ViewWithLabel(), "Loading profiles...") {
		t.Error("ViewWithLabel should include the label")
	}

	s.SetLabel("Almost there...")
	if !strings.Contains(s.ViewWithLabel(), "Almost there...") {
		t.Error("SetLabel should swap the rendered label")
	}
}

func TestRenderSpinnerCentered(t *testing.T) {
	s := NewSpinner("Loading...")
	view := RenderSpinnerCentered(s, 40, 10)
	if !strings.Contains(view, "Loading...") {
		t.Error("centered spinner should include the label")
	}
}

func TestRenderLineChart(t *testing.T) {
	hours := []float64{2.5, 4, 1, 0, 6.5, 3}
	out := RenderLineChart(hours, 40, 6, "hours per day")
	if !strings.Contains(out, "hours per day") {
		t.Error("chart should carry its caption")
	}

	if out := RenderLineChart(nil, 40, 6, ""); !strings.Contains(out, "No data") {
		t.Error("empty series should render a placeholder")
	}
}

func TestRenderBarChart(t *testing.T) {
	values := []float64{12.5, 6.0, 1.5}
	labels := []string{"Go", "Python", "YAML"}

	out := RenderBarChart(values, labels, 50)
	for _, label := range labels {
		if !strings.Contains(out, label) {
			t.Errorf("bar chart should contain label %q", label)
		}
	}
	if !strings.Contains(out, "12.5") {
		t.Error("bar chart should print the value")
	}

	if RenderBarChart(nil, nil, 50) != "" {
		t.Error("empty bar chart should render nothing")
	}
}

func TestRenderWeeklyPattern(t *testing.T) {
	// Heavy weekend, quiet weekdays.
	pattern := []float64{8, 1, 0, 0, 1, 2, 7}

	out := RenderWeeklyPattern(pattern, nil)
	for _, day := range []string{"Sun", "Mon", "Sat"} {
		if !strings.Contains(out, day) {
			t.Errorf("pattern should name %q", day)
		}
	}
	if !strings.Contains(out, "█") {
		t.Error("the busiest day should render at full intensity")
	}

	// Short input is padded to a full week rather than panicking.
	if RenderWeeklyPattern([]float64{1, 2}, nil) == "" {
		t.Error("short pattern should still render")
	}
}

func TestRenderSparkline(t *testing.T) {
	values := []float64{0, 1, 2, 4, 8}
	out := RenderSparkline(values, len(values))
	if len([]rune(out)) != len(values) {
		t.Errorf("sparkline = %q, want one rune per value", out)
	}
	if !strings.HasSuffix(out, "█") {
		t.Errorf("sparkline = %q, max value should be the tallest bar", out)
	}

	if RenderSparkline(nil, 10) != "" {
		t.Error("empty sparkline should render nothing")
	}
}

func TestRenderSparkline_SamplesWideSeries(t *testing.T) {
	values := make([]float64, 90)
	for i := range values {
		values[i] = float64(i % 9)
	}
	out := RenderSparkline(values, 30)
	if got := len([]rune(out)); got > 30 {
		t.Errorf("sparkline has %d runes, want at most 30", got)
	}
}

func TestRenderColoredSparkline(t *testing.T) {
	values := []float64{0.5, 2, 6}
	out := RenderColoredSparkline(values, len(values))
	if out == "" {
		t.Error("colored sparkline returned empty")
	}

	if RenderColoredSparkline(nil, 10) != "" {
		t.Error("empty colored sparkline should render nothing")
	}
}

func TestRenderLegend(t *testing.T) {
	out := RenderLegend([]LegendItem{
		{Label: "4h+", Color: lipgloss.Color("42")},
		{Label: "<1h", Color: lipgloss.Color("196")},
	})
	if !strings.Contains(out, "4h+") || !strings.Contains(out, "<1h") {
		t.Error("legend should print every label")
	}
	if !strings.Contains(out, "■") {
		t.Error("legend should mark entries with a color box")
	}
}
