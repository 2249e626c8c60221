package dashboard

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"wakadash/internal/models"
	"wakadash/internal/ui/components"
	"wakadash/internal/ui/styles"
)

// View renders the dashboard component.
func (m *Model) View() string {
	if m.state.IsInitialLoading() {
		return m.renderLoading()
	}

	var sections []string

	sections = append(sections, m.renderTitle())

	sections = append(sections, m.renderProfileList())

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

// renderLoading renders the loading state.
func (m *Model) renderLoading() string {
	return components.RenderSpinnerCentered(m.spinner, m.width, m.height)
}

// renderTitle renders the dashboard title.
func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("WakaDash")
	subtitle := styles.HelpStyle.Render("Multi-profile WakaTime stats monitor")

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

// renderProfileList renders the list of profiles with their stats.
func (m *Model) renderProfileList() string {
	profiles := m.state.GetProfiles()

	cardWidth := max(m.width-6, 40)

	var rows []string

	titleIcon := lipgloss.NewStyle().Foreground(styles.Primary).Render("◈")
	rows = append(rows, fmt.Sprintf("%s %s", titleIcon, styles.CardTitleStyle.Render("Coding Activity")))

	if len(profiles) == 0 {
		rows = append(rows, "")
		emptyIcon := lipgloss.NewStyle().Foreground(styles.Subtle).Render("○")
		rows = append(rows, fmt.Sprintf("  %s %s", emptyIcon, styles.HelpStyle.Render("No profiles configured")))
		rows = append(rows, "")
		rows = append(rows, styles.InfoTextStyle.Render("  ╰─▶ Add profiles by editing profiles.json"))

		return styles.CardStyle.Width(cardWidth).Render(
			lipgloss.JoinVertical(lipgloss.Left, rows...),
		)
	}

	dividerWidth := max(cardWidth-8, 20)
	divider := lipgloss.NewStyle().Foreground(styles.Subtle).Render(
		"  ├" + strings.Repeat("─", dividerWidth) + "┤",
	)

	rows = append(rows, "")

	for i, p := range profiles {
		profileRow := m.renderProfileRow(p, i == m.selectedIndex, cardWidth-4)
		rows = append(rows, profileRow)
		if i < len(profiles)-1 {
			rows = append(rows, "")
			rows = append(rows, divider)
			rows = append(rows, "")
		}
	}

	rows = append(rows, "")

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderProfileRow(p models.ProfileWithStats, selected bool, width int) string {
	var lines []string

	lines = append(lines, m.renderProfileHeader(p, selected))
	lines = append(lines, "")

	contentWidth := max(width-4, 20)

	switch {
	case p.Stats == nil:
		lines = append(lines, m.renderProfileLoading(contentWidth)...)
	default:
		lines = append(lines, m.renderProfileStats(p, contentWidth)...)
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m *Model) renderProfileHeader(p models.ProfileWithStats, selected bool) string {
	activeIndicator := lipgloss.NewStyle().Foreground(styles.Subtle).Render("○ ")
	if p.IsActive {
		activeIndicator = styles.SuccessTextStyle.Render("● ")
	}

	selectionPrefix := "  "
	if selected {
		selectionPrefix = styles.FocusedStyle.Render("▸ ")
	}

	name := p.Profile.Label()
	if len(name) > 35 {
		name = name[:32] + "..."
	}

	badge := ""
	if p.Profile.HasAPIKey() {
		badge = styles.SuccessTextStyle.Render("◆ KEYED")
	} else {
		badge = styles.HelpStyle.Render("◇ PUBLIC")
	}

	header := fmt.Sprintf("%s%s%s %s",
		selectionPrefix,
		activeIndicator,
		lipgloss.NewStyle().Bold(true).Render(name),
		badge,
	)

	if p.Stats != nil && p.Stats.IsCorrected {
		header += " " + styles.CorrectedStyle.Render(
			fmt.Sprintf("corrected ×%.2f", p.Stats.CorrectionFactor))
	}

	return header
}

func (m *Model) renderProfileStats(p models.ProfileWithStats, width int) []string {
	var lines []string
	stats := p.Stats

	totalIcon := lipgloss.NewStyle().Foreground(styles.Primary).Render("◈")
	totalLabel := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true).Render(
		fmt.Sprintf("%s (%s)", stats.HumanReadableTotal, stats.Range.String()))
	lines = append(lines, fmt.Sprintf("  %s %s", totalIcon, totalLabel))

	if stats.DailyAverage > 0 {
		avg := models.HumanizeSeconds(int64(stats.DailyAverage))
		lines = append(lines, "    "+styles.HelpStyle.Render("daily average "+avg))
	}

	if goal := p.Profile.DailyGoalMinutes; goal > 0 {
		coded := m.todaySeconds(p.Profile.Label())
		bar := components.NewGoalBar().ViewWithLabel(coded, int64(goal)*60, "today", max(width-8, 20))
		lines = append(lines, "    "+bar)
	}

	if history := m.state.GetHistory(p.Profile.Label()); history.HasData() {
		hours := make([]float64, len(history.Daily))
		for i, d := range history.Daily {
			hours[i] = float64(d.TotalSeconds) / 3600.0
		}
		spark := components.RenderSparkline(hours, min(len(hours), 24))
		lines = append(lines, "    "+styles.HelpStyle.Render("trend ")+spark)
	}

	if len(stats.Languages) == 0 {
		lines = append(lines, "")
		lines = append(lines, "    "+styles.HelpStyle.Render("No language breakdown available"))
		return lines
	}

	lines = append(lines, "")

	for i, lang := range stats.Languages {
		if i >= maxLanguageBars {
			remaining := len(stats.Languages) - maxLanguageBars
			lines = append(lines, "    "+styles.HelpStyle.Render(
				fmt.Sprintf("… and %d more", remaining)))
			break
		}
		lines = append(lines, m.renderLanguageBar(p.Profile.Label(), lang, width))
	}

	return lines
}

func (m *Model) renderLanguageBar(profile string, lang models.LanguageStat, width int) string {
	const (
		indentWidth  = 4
		labelWidth   = 12
		percentWidth = 6
		timeWidth    = 14
	)

	barWidth := max(width-indentWidth-labelWidth-percentWidth-timeWidth-6, 10)

	displayPercent := lang.Percent
	if anim, ok := m.animations[animationKey(profile, lang.Name)]; ok {
		displayPercent = anim.CurrentPercent
	}

	name := lang.Name
	if len(name) > labelWidth {
		name = name[:labelWidth-1] + "…"
	}
	labelStr := lipgloss.NewStyle().
		Foreground(styles.TextSecondary).
		Width(labelWidth).
		Render(name)

	bar := components.RenderGradientBar(displayPercent, barWidth)

	percentStr := lipgloss.NewStyle().
		Foreground(styles.TextPrimary).
		Width(percentWidth).
		Align(lipgloss.Right).
		Render(fmt.Sprintf("%.1f%%", lang.Percent))

	timeStr := styles.HelpStyle.
		Width(timeWidth).
		Align(lipgloss.Right).
		Render(lang.Text)

	return lipgloss.JoinHorizontal(lipgloss.Left,
		"    ",
		labelStr,
		bar,
		" ",
		percentStr,
		" ",
		timeStr,
	)
}

// todaySeconds returns the seconds recorded locally for the current day, or 0
// when no history has been loaded yet.
func (m *Model) todaySeconds(profile string) int64 {
	history := m.state.GetHistory(profile)
	if history == nil || len(history.Daily) == 0 {
		return 0
	}
	last := history.Daily[len(history.Daily)-1]
	now := time.Now()
	if last.Day.Year() == now.Year() && last.Day.YearDay() == now.YearDay() {
		return last.TotalSeconds
	}
	return 0
}

func (m *Model) renderProfileLoading(width int) []string {
	var lines []string

	statsIcon := lipgloss.NewStyle().Foreground(styles.Primary).Render("◈")
	statsLabel := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true).Render("Fetching stats")
	lines = append(lines, fmt.Sprintf("  %s %s", statsIcon, statsLabel))
	lines = append(lines, components.SimpleLangBarLoading("total", width, m.animationFrame))

	return lines
}
