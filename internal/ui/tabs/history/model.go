// Package history provides the history tab for locally recorded activity.
package history

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"wakadash/internal/app"
	"wakadash/internal/models"
	"wakadash/internal/services"
)

// keyMap defines the key bindings specific to the history tab.
type keyMap struct {
	ToggleRange key.Binding
	Refresh     key.Binding
	Up          key.Binding
	Down        key.Binding
}

// defaultKeyMap returns the default key bindings for the history tab.
func defaultKeyMap() keyMap {
	return keyMap{
		ToggleRange: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "toggle time range"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
	}
}

// historyLoadedMsg is sent when history data is loaded.
type historyLoadedMsg struct {
	stats *models.HistoryStats
}

// historyErrorMsg is sent when there's an error loading history.
type historyErrorMsg struct {
	err string
}

// Model represents the history tab state.
type Model struct {
	state    *app.State
	services *services.Manager
	width    int
	height   int
	keys     keyMap
	viewport viewport.Model

	// Current view state
	timeRange   models.TimeRange
	historyData *models.HistoryStats
	loading     bool
	lastRefresh time.Time
	errorMsg    string
}

// New creates a new history model.
func New(state *app.State, svc *services.Manager) *Model {
	return &Model{
		state:     state,
		services:  svc,
		keys:      defaultKeyMap(),
		viewport:  viewport.New(0, 0),
		timeRange: models.TimeRange30Days,
	}
}

// Init initializes the history tab.
func (m *Model) Init() tea.Cmd {
	return m.loadHistoryCmd()
}

// loadHistoryCmd creates a command to load history data.
func (m *Model) loadHistoryCmd() tea.Cmd {
	return func() tea.Msg {
		if m.services == nil {
			return historyErrorMsg{err: "Services not initialized"}
		}

		// Get selected profile from shared state (synced with Dashboard)
		profiles := m.state.GetProfiles()
		if len(profiles) == 0 {
			return historyErrorMsg{err: "No profiles configured"}
		}

		// Use selected profile index from state, or active profile, or first
		selectedIdx := m.state.GetSelectedProfileIndex()
		var name string

		if selectedIdx >= 0 && selectedIdx < len(profiles) {
			name = profiles[selectedIdx].Profile.Label()
		} else {
			for i := range profiles {
				if profiles[i].IsActive {
					name = profiles[i].Profile.Label()
					break
				}
			}
			if name == "" {
				name = profiles[0].Profile.Label()
			}
		}

		if name == "" {
			return historyErrorMsg{err: "No profile selected"}
		}

		stats, err := m.services.GetHistory(name, m.timeRange)
		if err != nil {
			return historyErrorMsg{err: err.Error()}
		}
		return historyLoadedMsg{stats: stats}
	}
}

// Update handles messages for the history tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case historyLoadedMsg:
		m.historyData = msg.stats
		m.loading = false
		m.lastRefresh = time.Now()
		m.errorMsg = ""
		if msg.stats != nil {
			// Share it so the dashboard can render today's goal progress.
			m.state.SetHistory(msg.stats.Profile, msg.stats)
		}

	case historyErrorMsg:
		m.loading = false
		m.errorMsg = msg.err
		cmds = append(cmds, func() tea.Msg {
			return app.AddNotificationMsg{
				Type:     app.NotificationError,
				Message:  fmt.Sprintf("History error: %s", msg.err),
				Duration: app.LongNotificationDuration,
			}
		})

	case app.ProfilesLoadedMsg:
		return m.handleProfilesLoaded()

	case app.HistoryRecordedMsg:
		// A fresh day total landed in the store - reload if it is ours
		if !m.loading && m.historyData != nil && m.historyData.Profile == msg.Profile {
			m.loading = true
			cmds = append(cmds, m.loadHistoryCmd())
		}

	case app.TabSwitchMsg:
		if msg.Tab == app.TabHistory {
			return m.handleProfilesLoaded()
		}

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case app.SelectedProfileChangedMsg:
		// Selected profile changed from Dashboard - reload history
		if !m.loading {
			m.loading = true
			cmds = append(cmds, m.loadHistoryCmd())
		}
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleProfilesLoaded() (app.Tab, tea.Cmd) {
	var cmds []tea.Cmd
	// Profile data changed - might need to reload
	// If we have no history data yet (e.g. initial load failed), try again
	if m.historyData == nil {
		m.loading = true
		cmds = append(cmds, m.loadHistoryCmd())
		return m, tea.Batch(cmds...)
	}

	if !m.loading {
		// Check if selected profile changed
		profiles := m.state.GetProfiles()
		selectedIdx := m.state.GetSelectedProfileIndex()
		if selectedIdx >= 0 && selectedIdx < len(profiles) {
			if profiles[selectedIdx].Profile.Label() != m.historyData.Profile {
				m.loading = true
				cmds = append(cmds, m.loadHistoryCmd())
			}
		}
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (app.Tab, tea.Cmd) {
	var cmds []tea.Cmd
	switch {
	case key.Matches(msg, m.keys.ToggleRange):
		m.timeRange = m.timeRange.Next()
		m.loading = true
		cmds = append(cmds, m.loadHistoryCmd())

	case key.Matches(msg, m.keys.Refresh):
		m.loading = true
		cmds = append(cmds, m.loadHistoryCmd())

	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// SetSize sets the available size for the history tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{
		m.keys.ToggleRange,
		m.keys.Refresh,
	}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.ToggleRange, m.keys.Refresh},
		{m.keys.Up, m.keys.Down},
	}
}
