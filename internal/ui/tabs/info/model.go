// Package info provides the info tab with configuration and diagnostics.
package info

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"wakadash/internal/app"
	"wakadash/internal/config"
	"wakadash/internal/services"
	"wakadash/internal/services/stats"
)

const diagnosticsTimeout = 30 * time.Second

// keyMap defines the key bindings specific to the info tab.
type keyMap struct {
	Diagnose key.Binding
	Up       key.Binding
	Down     key.Binding
}

// defaultKeyMap returns the default key bindings for the info tab.
func defaultKeyMap() keyMap {
	return keyMap{
		Diagnose: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "run diagnostics"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
	}
}

// diagnosticsMsg carries a completed diagnostic run.
type diagnosticsMsg struct {
	profile string
	result  *stats.Diagnostics
}

// Model represents the info tab state.
type Model struct {
	state    *app.State
	config   *config.Config
	services *services.Manager
	width    int
	height   int
	keys     keyMap
	viewport viewport.Model

	diagnostics        *stats.Diagnostics
	diagnosticsProfile string
	diagnosing         bool
}

// New creates a new info model.
func New(state *app.State, cfg *config.Config, svc *services.Manager) *Model {
	return &Model{
		state:    state,
		config:   cfg,
		services: svc,
		keys:     defaultKeyMap(),
		viewport: viewport.New(0, 0),
	}
}

// Init initializes the info tab.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the info tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case diagnosticsMsg:
		m.diagnosing = false
		m.diagnostics = msg.result
		m.diagnosticsProfile = msg.profile

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Diagnose):
			if !m.diagnosing {
				if cmd := m.runDiagnosticsCmd(); cmd != nil {
					m.diagnosing = true
					cmds = append(cmds, cmd)
				}
			}
		default:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

// runDiagnosticsCmd returns a command that runs the three-leg diagnostic
// fetch for the active profile. Returns nil when nothing can be diagnosed.
func (m *Model) runDiagnosticsCmd() tea.Cmd {
	if m.services == nil {
		return nil
	}
	active := m.state.GetActiveProfile()
	if active == nil {
		return nil
	}

	profile := active.Profile
	requestedRange := ""
	if m.config != nil {
		requestedRange = m.config.Range
	}

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), diagnosticsTimeout)
		defer cancel()

		result := m.services.FetchDiagnostics(ctx, profile, requestedRange)
		return diagnosticsMsg{profile: profile.Label(), result: result}
	}
}

// SetSize sets the available size for the info tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{
		m.keys.Diagnose,
	}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Diagnose},
		{m.keys.Up, m.keys.Down},
	}
}
