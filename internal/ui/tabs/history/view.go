package history

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"wakadash/internal/models"
	"wakadash/internal/ui/components"
	"wakadash/internal/ui/styles"
)

// View renders the history tab.
func (m *Model) View() string {
	if m.loading {
		return m.renderLoading()
	}
	if m.errorMsg != "" {
		return m.renderError()
	}
	if m.historyData == nil || !m.historyData.HasData() {
		return m.renderEmpty()
	}

	var sections []string

	sections = append(sections,
		m.renderHeader(),
		m.renderActivityChart(),
		m.renderLanguageChart(),
		m.renderSummary(),
	)

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderLoading() string {
	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(styles.HelpStyle.Render("Loading history data..."))
}

func (m *Model) renderError() string {
	content := fmt.Sprintf("%s %s",
		styles.ErrorTextStyle.Render("Error:"),
		m.errorMsg,
	)
	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(content)
}

func (m *Model) renderEmpty() string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.TitleStyle.Render("History"),
		"",
		styles.HelpStyle.Render("No recorded activity yet."),
		styles.HelpStyle.Render("Data will appear as daily totals are recorded."),
	)
	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(content)
}

func (m *Model) renderHeader() string {
	name := m.historyData.Profile
	if len(name) > 40 {
		name = name[:37] + "..."
	}

	title := styles.TitleStyle.Render("History: " + name)

	rangeStyle := lipgloss.NewStyle().
		Foreground(styles.Primary).
		Bold(true).
		Padding(0, 1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.Primary)

	rangeIndicator := rangeStyle.Render(fmt.Sprintf("[t] %s", m.timeRange.String()))

	header := lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", rangeIndicator)

	var subtitle string
	if !m.historyData.FirstRecorded.IsZero() {
		dataRange := fmt.Sprintf("Recorded: %s → %s (%d days)",
			m.historyData.FirstRecorded.Format("Jan 2, 2006"),
			m.historyData.LastRecorded.Format("Jan 2, 2006"),
			m.historyData.RecordedDays,
		)
		subtitle = styles.HelpStyle.Render(dataRange)
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, subtitle, "")
}

func (m *Model) renderActivityChart() string {
	cardWidth := max(m.width-6, 40)

	var rows []string

	titleIcon := lipgloss.NewStyle().Foreground(styles.Primary).Render("📈")
	rows = append(rows, fmt.Sprintf("%s %s", titleIcon, styles.CardTitleStyle.Render("Daily Coding Time")), "")

	daily := m.historyData.Daily
	if len(daily) == 0 {
		rows = append(rows, styles.HelpStyle.Render("  No daily data available"))
	} else {
		hoursPerDay := make([]float64, len(daily))
		for i, d := range daily {
			hoursPerDay[i] = float64(d.TotalSeconds) / 3600.0
		}

		chartWidth := max(cardWidth-12, 30) // More padding for axis labels
		chartHeight := 8

		chart := components.RenderLineChart(hoursPerDay, chartWidth, chartHeight,
			fmt.Sprintf("Last %d days (hours)", len(daily)))

		for _, line := range strings.Split(chart, "\n") {
			rows = append(rows, "  "+line)
		}

		rows = append(rows, "")
		rows = append(rows, "  "+components.RenderColoredSparkline(hoursPerDay, min(len(daily), chartWidth)))
		rows = append(rows, "")
		rows = append(rows, "  "+components.RenderLegend([]components.LegendItem{
			{Label: "4h+", Color: styles.Success},
			{Label: "1-4h", Color: styles.Warning},
			{Label: "<1h", Color: styles.Error},
		}))
	}

	rows = append(rows, "")

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderLanguageChart() string {
	cardWidth := max(m.width-6, 40)

	var rows []string

	titleIcon := lipgloss.NewStyle().Foreground(styles.Primary).Render("🗂")
	rows = append(rows,
		fmt.Sprintf("%s %s", titleIcon, styles.CardTitleStyle.Render("Top Languages")),
		"",
	)

	langs := m.historyData.TopLanguages
	if len(langs) == 0 {
		rows = append(rows, styles.HelpStyle.Render("  No language data available"))
	} else {
		values := make([]float64, len(langs))
		labels := make([]string, len(langs))
		for i, l := range langs {
			values[i] = float64(l.TotalSeconds) / 3600.0
			labels[i] = l.Language
		}

		chartWidth := max(cardWidth-12, 30)

		barChart := components.RenderBarChart(values, labels, chartWidth)

		for _, line := range strings.Split(barChart, "\n") {
			rows = append(rows, "  "+line)
		}

		rows = append(rows, "")
		rows = append(rows, "  "+styles.HelpStyle.Render("values in hours"))
	}

	rows = append(rows, "")

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderSummary() string {
	cardWidth := max(m.width-6, 40)

	var rows []string

	titleIcon := lipgloss.NewStyle().Foreground(styles.Primary).Render("🔥")
	rows = append(rows,
		fmt.Sprintf("%s %s", titleIcon, styles.CardTitleStyle.Render("Summary")),
		"",
	)

	total := models.HumanizeSeconds(m.historyData.TotalSeconds)
	rows = append(rows, fmt.Sprintf("  Total recorded: %s",
		lipgloss.NewStyle().Bold(true).Foreground(styles.Primary).Render(total)))

	streak := fmt.Sprintf("%d days", m.historyData.StreakDays)
	rows = append(rows, fmt.Sprintf("  Current streak: %s",
		styles.SuccessTextStyle.Bold(true).Render(streak)))

	if peakDay, peakSeconds := m.historyData.PeakDay(); peakSeconds > 0 {
		rows = append(rows, fmt.Sprintf("  Peak day: %s (%s)",
			lipgloss.NewStyle().Bold(true).Foreground(styles.Primary).
				Render(peakDay.Format("Jan 2, 2006")),
			models.HumanizeSeconds(peakSeconds),
		))
	}

	if m.historyData.RecordedDays > 0 {
		avg := m.historyData.TotalSeconds / int64(m.historyData.RecordedDays)
		rows = append(rows, fmt.Sprintf("  Daily average: %s", models.HumanizeSeconds(avg)))
	}

	if pattern := weekdayAverages(m.historyData.Daily); pattern != nil {
		rows = append(rows, fmt.Sprintf("  Weekly pattern: %s",
			components.RenderWeeklyPattern(pattern, nil)))
	}

	rows = append(rows, "")

	return styles.StreakCardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

// weekdayAverages folds the daily series into average hours per day of week,
// Sunday first. Returns nil when nothing has been recorded.
func weekdayAverages(daily []models.DailyPoint) []float64 {
	if len(daily) == 0 {
		return nil
	}

	var sums [7]float64
	var counts [7]int
	for _, p := range daily {
		wd := int(p.Day.Weekday())
		sums[wd] += float64(p.TotalSeconds) / 3600.0
		counts[wd]++
	}

	averages := make([]float64, 7)
	for i := range sums {
		if counts[i] > 0 {
			averages[i] = sums[i] / float64(counts[i])
		}
	}
	return averages
}
