// Package components provides reusable UI components.
package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"wakadash/internal/logger"
	"wakadash/internal/ui/styles"
)

type AnimationTickMsg time.Time

func animationTick() tea.Cmd {
	return tea.Tick(time.Millisecond*50, func(t time.Time) tea.Msg {
		return AnimationTickMsg(t)
	})
}

// LangBar renders a language share bar with label and percentage.
type LangBar struct {
	progress       progress.Model
	label          string
	percent        float64
	animationFrame int
	isAnimating    bool
	targetPercent  float64
	currentPercent float64
}

// NewLangBar creates a new language bar with gradient colors.
func NewLangBar() LangBar {
	return NewLangBarWithWidth(30)
}

// NewLangBarWithWidth creates a language bar with a specific width.
func NewLangBarWithWidth(width int) LangBar {
	p := progress.New(
		progress.WithScaledGradient("#51cf66", "#7D56F4"),
		progress.WithWidth(width),
		progress.WithoutPercentage(),
	)

	return LangBar{
		progress:       p,
		label:          "",
		percent:        0,
		animationFrame: 0,
		isAnimating:    false,
		targetPercent:  0,
		currentPercent: 0,
	}
}

// Init initializes the progress bar model.
func (l LangBar) Init() tea.Cmd {
	return nil
}

// Update handles progress bar animation messages.
func (l LangBar) Update(msg tea.Msg) (LangBar, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg.(type) {
	case AnimationTickMsg:
		if l.isAnimating {
			l.animationFrame++

			if l.currentPercent < l.targetPercent {
				step := (l.targetPercent - l.currentPercent) / 10
				if step < 0.5 {
					step = 0.5
				}
				l.currentPercent += step
				if l.currentPercent > l.targetPercent {
					l.currentPercent = l.targetPercent
				}
				cmds = append(cmds, animationTick())
			} else if l.currentPercent > l.targetPercent {
				step := (l.currentPercent - l.targetPercent) / 10
				if step < 0.5 {
					step = 0.5
				}
				l.currentPercent -= step
				if l.currentPercent < l.targetPercent {
					l.currentPercent = l.targetPercent
				}
				cmds = append(cmds, animationTick())
			} else {
				l.isAnimating = false
			}
		}
	}

	var cmd tea.Cmd
	model, cmd := l.progress.Update(msg)
	l.progress = model.(progress.Model)
	cmds = append(cmds, cmd)

	return l, tea.Batch(cmds...)
}

// SetPercent sets the current percentage.
func (l *LangBar) SetPercent(percent float64) tea.Cmd {
	l.percent = percent
	l.targetPercent = percent

	if !l.isAnimating {
		l.isAnimating = true
		l.animationFrame = 0
		return tea.Batch(
			l.progress.SetPercent(percent/100),
			animationTick(),
		)
	}

	return l.progress.SetPercent(percent / 100)
}

// SetLabel sets the bar label.
func (l *LangBar) SetLabel(label string) {
	l.label = label
}

// SetWidth sets the progress bar width.
func (l *LangBar) SetWidth(width int) {
	l.progress.Width = width
}

// View renders the language bar with percentage and label.
func (l LangBar) View(percent float64, label string, width int) string {
	barWidth := width - 30 // Reserve space for label and percentage
	if barWidth < 10 {
		barWidth = 10
	}
	l.progress.Width = barWidth

	bar := l.progress.ViewAs(percent / 100)

	percentStr := styles.ProgressPercentStyle.Render(fmt.Sprintf("%.1f%%", percent))

	labelStr := styles.ProgressLabelStyle.Width(15).Render(label)

	return lipgloss.JoinHorizontal(
		lipgloss.Center,
		labelStr,
		bar,
		" ",
		percentStr,
	)
}

// ViewCompact renders a compact version without label.
func (l LangBar) ViewCompact(percent float64, width int) string {
	barWidth := width - 8
	if barWidth < 5 {
		barWidth = 5
	}
	l.progress.Width = barWidth

	bar := l.progress.ViewAs(percent / 100)
	percentStr := styles.ProgressPercentStyle.Render(fmt.Sprintf("%.1f%%", percent))

	return lipgloss.JoinHorizontal(lipgloss.Center, bar, " ", percentStr)
}

// RenderGradientBar renders just the bar part with gradient colors.
func RenderGradientBar(percent float64, width int) string {
	if width < 1 {
		return ""
	}

	filled := int(float64(width) * percent / 100)
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	var barChars []string
	for i := 0; i < width; i++ {
		if i < filled {
			t := float64(i) / float64(max(1, width-1))
			color := interpolateColor("#51cf66", "#7D56F4", t)
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(color))
			barChars = append(barChars, style.Render("█"))
		} else {
			style := lipgloss.NewStyle().Foreground(styles.Subtle)
			barChars = append(barChars, style.Render("░"))
		}
	}

	return strings.Join(barChars, "")
}

// SimpleLangBar renders a simple ASCII language bar with gradient colors.
func SimpleLangBar(percent float64, label string, width int) string {
	labelWidth := len(label) + 1
	percentWidth := 6
	barWidth := width - labelWidth - percentWidth - 4

	if barWidth < 5 {
		barWidth = 5
	}

	bar := RenderGradientBar(percent, barWidth)

	labelStr := lipgloss.NewStyle().
		Foreground(styles.TextSecondary).
		Render(label)

	percentStr := lipgloss.NewStyle().
		Foreground(styles.TextPrimary).
		Width(percentWidth).
		Align(lipgloss.Right).
		Render(fmt.Sprintf("%.1f%%", percent))

	return fmt.Sprintf("%s [%s] %s", labelStr, bar, percentStr)
}

// GoalBar renders progress toward a daily coding goal.
type GoalBar struct {
	progress progress.Model
}

// NewGoalBar creates a bar for visualizing daily goal progress.
func NewGoalBar() GoalBar {
	p := progress.New(
		progress.WithScaledGradient("#ffd93d", "#51cf66"),
		progress.WithWidth(30),
		progress.WithoutPercentage(),
	)

	return GoalBar{progress: p}
}

// ViewWithLabel renders the goal bar with the coded time against the goal.
func (g GoalBar) ViewWithLabel(codedSeconds, goalSeconds int64, label string, width int) string {
	percent := 0.0
	if goalSeconds > 0 {
		percent = float64(codedSeconds) / float64(goalSeconds)
		if percent > 1 {
			percent = 1
		}
	}

	hours := codedSeconds / 3600
	minutes := (codedSeconds % 3600) / 60
	timeStr := fmt.Sprintf("%dh %02dm", hours, minutes)

	labelWidth := len(label)
	timeWidth := 8
	barWidth := width - (labelWidth + 1) - timeWidth - 4
	if barWidth < 10 {
		barWidth = 10
	}

	g.progress.Width = barWidth
	bar := g.progress.ViewAs(percent)

	labelStr := lipgloss.NewStyle().
		Foreground(styles.TextSecondary).
		Render(label)

	timeStyle := lipgloss.NewStyle().
		Foreground(styles.TextSecondary).
		Width(timeWidth).
		Align(lipgloss.Right)

	return fmt.Sprintf("%s [%s] %s", labelStr, bar, timeStyle.Render(timeStr))
}

// SimpleLangBarLoading renders a shimmering placeholder bar while stats load.
func SimpleLangBarLoading(label string, width int, frame int) string {
	const (
		indentWidth  = 4
		percentWidth = 6
	)

	barWidth := width - indentWidth - percentWidth - 4
	if barWidth < 10 {
		barWidth = 10
	}

	accentColor := styles.Secondary
	if strings.Contains(strings.ToLower(label), "total") {
		accentColor = styles.Primary
	}

	cycle := 120

	t := float64(frame%cycle) / float64(cycle)
	var p float64
	if t < 0.5 {
		p = t * 2
	} else {
		p = (1 - t) * 2
	}
	eased := p * p * (3 - 2*p)
	shimmerPos := int(eased * float64(barWidth))
	var barChars []string

	for i := 0; i < barWidth; i++ {
		dist := shimmerPos - i
		if dist < 0 {
			dist = -dist
		}

		var char string
		var style lipgloss.Style

		if dist < 3 {
			char = "▓"
			style = lipgloss.NewStyle().Foreground(accentColor)
		} else if dist < 5 {
			char = "▒"
			style = lipgloss.NewStyle().Foreground(styles.TextSecondary)
		} else {
			char = "░"
			style = lipgloss.NewStyle().Foreground(styles.BgLight)
		}

		barChars = append(barChars, style.Render(char))
	}

	bar := strings.Join(barChars, "")

	indent := "    "

	dots := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	dot := dots[(frame/2)%len(dots)]

	loadingStr := lipgloss.NewStyle().
		Width(percentWidth).
		Align(lipgloss.Right).
		Foreground(accentColor).
		Render(dot)

	return lipgloss.JoinHorizontal(lipgloss.Left,
		indent,
		bar,
		" ",
		loadingStr,
	)
}

func interpolateColor(fromHex, toHex string, t float64) string {
	from := hexToRGB(fromHex)
	to := hexToRGB(toHex)

	r := int(float64(from[0]) + t*(float64(to[0])-float64(from[0])))
	g := int(float64(from[1]) + t*(float64(to[1])-float64(from[1])))
	b := int(float64(from[2]) + t*(float64(to[2])-float64(from[2])))

	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

func hexToRGB(hex string) [3]int {
	hex = strings.TrimPrefix(hex, "#")
	var r, g, b int
	if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b); err != nil {
		logger.Error("failed to parse hex color", "hex", hex, "error", err)
		return [3]int{0, 0, 0}
	}
	return [3]int{r, g, b}
}
