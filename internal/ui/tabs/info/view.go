package info

import (
	"fmt"
	"runtime"

	"github.com/charmbracelet/lipgloss"

	"wakadash/internal/models"
	"wakadash/internal/services/wakatime"
	"wakadash/internal/ui/styles"
	"wakadash/internal/version"
)

// View renders the info tab.
func (m *Model) View() string {
	var sections []string

	sections = append(sections, m.renderTitle())

	sections = append(sections, m.renderConfigCard())

	sections = append(sections, m.renderDiagnosticsCard())

	sections = append(sections, m.renderAboutCard())

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

// renderTitle renders the info tab title.
func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Info")
	subtitle := styles.HelpStyle.Render("Configuration, diagnostics and application information")

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) cardWidth() int {
	w := m.width - 6
	if w < 50 {
		w = 50
	}
	if w > 80 {
		w = 80
	}
	return w
}

// renderConfigCard renders the configuration paths card.
func (m *Model) renderConfigCard() string {
	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Configuration"))
	rows = append(rows, "")

	if m.config != nil {
		apiURL := m.config.APIURL
		if apiURL == "" {
			apiURL = wakatime.DefaultBaseURL
		}
		rows = append(rows, m.renderConfigRow("API Endpoint", apiURL))
		rows = append(rows, m.renderConfigRow("Profiles File", m.config.ProfilesPath))
		rows = append(rows, m.renderConfigRow("Database", m.config.DatabasePath))
		rows = append(rows, m.renderConfigRow("Default Range", string(models.NormalizeRange(m.config.Range))))
		rows = append(rows, m.renderConfigRow("Refresh", m.config.RefreshInterval.String()))
		if m.config.DailyGoalMinutes > 0 {
			rows = append(rows, m.renderConfigRow("Daily Goal", fmt.Sprintf("%d min", m.config.DailyGoalMinutes)))
		}
	} else {
		rows = append(rows, styles.HelpStyle.Render("Configuration not loaded"))
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

// renderConfigRow renders a configuration key-value row.
func (m *Model) renderConfigRow(label, value string) string {
	labelStyle := lipgloss.NewStyle().
		Width(18).
		Foreground(styles.TextMuted)

	valueStyle := lipgloss.NewStyle().
		Foreground(styles.TextPrimary)

	return labelStyle.Render(label+":") + " " + valueStyle.Render(value)
}

// renderDiagnosticsCard renders the result of the three-leg diagnostic fetch.
func (m *Model) renderDiagnosticsCard() string {
	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Diagnostics"))
	rows = append(rows, "")

	switch {
	case m.diagnosing:
		rows = append(rows, styles.HelpStyle.Render("Running diagnostics..."))

	case m.diagnostics == nil:
		rows = append(rows, styles.HelpStyle.Render("Press 'd' to run a diagnostic fetch for the active profile"))

	default:
		rows = append(rows, m.renderConfigRow("Profile", m.diagnosticsProfile))
		rows = append(rows, m.renderDiagnosticsStats()...)
		rows = append(rows, m.renderDiagnosticsAllTime()...)
		rows = append(rows, m.renderDiagnosticsSummary()...)
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderDiagnosticsStats() []string {
	var rows []string
	if m.diagnostics.Error != "" {
		rows = append(rows, m.renderConfigRow("Stats", styles.ErrorTextStyle.Render(m.diagnostics.Error)))
		return rows
	}
	if s := m.diagnostics.Stats; s != nil {
		value := fmt.Sprintf("%s (%s)", s.HumanReadableTotal, s.Range.String())
		if s.IsCorrected {
			value += " " + styles.CorrectedStyle.Render(fmt.Sprintf("corrected ×%.2f", s.CorrectionFactor))
		}
		rows = append(rows, m.renderConfigRow("Stats", value))
	}
	return rows
}

func (m *Model) renderDiagnosticsAllTime() []string {
	at := m.diagnostics.AllTime
	if at == nil {
		return nil
	}
	if at.Err != nil {
		return []string{m.renderConfigRow("All Time", styles.WarningTextStyle.Render(at.Err.Error()))}
	}
	return []string{m.renderConfigRow("All Time", at.Text)}
}

func (m *Model) renderDiagnosticsSummary() []string {
	sum := m.diagnostics.Summary
	if sum == nil {
		return nil
	}
	if sum.Err != nil {
		return []string{m.renderConfigRow("Summaries", styles.WarningTextStyle.Render(sum.Err.Error()))}
	}
	value := fmt.Sprintf("%s over %d days (%d chunks)",
		models.HumanizeSeconds(sum.TotalSeconds), sum.Days, sum.ChunksFetched)
	return []string{m.renderConfigRow("Summaries", value)}
}

// renderAboutCard renders the about/version information card.
func (m *Model) renderAboutCard() string {
	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("About WakaDash"))
	rows = append(rows, "")

	rows = append(rows, m.renderConfigRow("Version", version.GetVersion()))
	rows = append(rows, m.renderConfigRow("Git Commit", version.GetCommit()))
	rows = append(rows, m.renderConfigRow("Build Date", version.GetDate()))
	rows = append(rows, m.renderConfigRow("Go Version", runtime.Version()))
	rows = append(rows, m.renderConfigRow("Platform", fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)))
	rows = append(rows, "")

	profileCount := m.state.GetProfileCount()
	rows = append(rows, fmt.Sprintf("Profiles: %s", styles.InfoTextStyle.Render(fmt.Sprintf("%d", profileCount))))

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}
