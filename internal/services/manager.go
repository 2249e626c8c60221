// Package services provides service orchestration for the TUI.
package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gen2brain/beeep"

	"wakadash/internal/config"
	"wakadash/internal/db"
	"wakadash/internal/logger"
	"wakadash/internal/models"
	"wakadash/internal/services/profiles"
	"wakadash/internal/services/stats"
	"wakadash/internal/services/wakatime"
)

type (
	// ProfilesChangedEvent is emitted when the tracked profile list changes.
	ProfilesChangedEvent struct {
		Profiles      []models.Profile
		ActiveProfile *models.Profile
	}

	// StatsUpdatedEvent is emitted when fresh stats arrive for a profile.
	StatsUpdatedEvent struct {
		Profile string
		Stats   *models.Stats
	}

	// HistoryRecordedEvent is emitted after today's totals are persisted.
	HistoryRecordedEvent struct {
		Profile string
	}

	// ErrorEvent is emitted when an error occurs in any service.
	ErrorEvent struct {
		Service string
		Error   error
	}

	// TotalsEvent is emitted when global statistics change.
	TotalsEvent struct {
		ProfileCount int
		StatsCached  int
		TotalSeconds int64
	}
)

// ServiceEvent is the interface implemented by all service events.
type ServiceEvent interface {
	isServiceEvent()
}

func (ProfilesChangedEvent) isServiceEvent() {}
func (StatsUpdatedEvent) isServiceEvent()    {}
func (HistoryRecordedEvent) isServiceEvent() {}
func (ErrorEvent) isServiceEvent()           {}
func (TotalsEvent) isServiceEvent()          {}

// Manager orchestrates services and event routing.
type Manager struct {
	mu            sync.RWMutex
	profiles      *profiles.Service
	stats         *stats.Service
	api           stats.API
	database      *db.DB
	cfg           *config.Config
	eventChan     chan ServiceEvent
	stopChan      chan struct{}
	subscribers   []chan<- ServiceEvent
	previousToday map[string]int64
}

// NewManager creates a new service manager.
func NewManager(cfg *config.Config) (*Manager, error) {
	m := &Manager{
		cfg:           cfg,
		eventChan:     make(chan ServiceEvent, 100),
		stopChan:      make(chan struct{}),
		previousToday: make(map[string]int64),
	}

	var err error
	m.profiles, err = profiles.New(cfg.ProfilesPath)
	if err != nil {
		return nil, err
	}

	m.database, err = db.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	m.api = wakatime.NewClient(wakatime.Config{BaseURL: cfg.APIURL})

	m.seedDefaultProfile()

	statsConfig := stats.DefaultConfig()
	statsConfig.Range = cfg.Range
	statsConfig.ActualTotalHours = cfg.ActualTotalHours
	statsConfig.OverrideTotalHours = cfg.OverrideTotalHours
	statsConfig.DefaultUsername = cfg.Username
	statsConfig.DefaultAPIKey = cfg.APIKey
	statsConfig.PollInterval = cfg.RefreshInterval

	m.stats = stats.New(m.profiles, m.api, statsConfig)

	go m.routeEvents()

	return m, nil
}

// historyRetention bounds how far back recorded day totals are kept.
const historyRetention = 2 // years

// seedDefaultProfile registers the environment user as the first tracked
// profile when the profile store starts out empty. The API key is not
// persisted; it flows in through the stats service fallback instead.
func (m *Manager) seedDefaultProfile() {
	if m.cfg.Username == "" || m.profiles.Count() > 0 {
		return
	}

	if err := m.profiles.AddProfile(models.Profile{Username: m.cfg.Username}); err != nil {
		logger.Warn("failed to seed default profile", "username", m.cfg.Username, "error", err)
	}
}

// pruneHistory drops recorded totals past the retention window and compacts
// the database file.
func (m *Manager) pruneHistory() {
	cutoff := time.Now().AddDate(-historyRetention, 0, 0)

	if err := m.database.PruneBefore(cutoff); err != nil {
		logger.Warn("failed to prune old history", "cutoff", cutoff.Format("2006-01-02"), "error", err)
		return
	}

	if err := m.database.Vacuum(); err != nil {
		logger.Warn("failed to vacuum database", "error", err)
	}
}

// apiKeyFor resolves the key used for a profile's authenticated calls,
// falling back to the environment key when the profile has none and the
// subject is the default user.
func (m *Manager) apiKeyFor(profile models.Profile) string {
	if profile.APIKey != "" {
		return profile.APIKey
	}
	if profile.Username == "" || profile.Username == m.cfg.Username {
		return m.cfg.APIKey
	}
	return ""
}

// routeEvents routes events from individual services to subscribers.
func (m *Manager) routeEvents() {
	for {
		select {
		case event := <-m.profiles.Events():
			m.handleProfileEvent(event)

		case event := <-m.stats.Events():
			m.handleStatsEvent(event)

		case <-m.stopChan:
			return
		}
	}
}

// handleProfileEvent converts and broadcasts profile events.
func (m *Manager) handleProfileEvent(event profiles.Event) {
	switch event.Type {
	case profiles.EventProfilesLoaded, profiles.EventProfilesChanged,
		profiles.EventProfileAdded, profiles.EventProfileUpdated,
		profiles.EventProfileDeleted, profiles.EventActiveProfileChanged:

		m.broadcast(ProfilesChangedEvent{
			Profiles:      m.profiles.GetProfiles(),
			ActiveProfile: m.profiles.GetActiveProfile(),
		})

	case profiles.EventError:
		m.broadcast(ErrorEvent{
			Service: "profiles",
			Error:   event.Error,
		})
	}
}

func (m *Manager) handleStatsEvent(event stats.Event) {
	switch event.Type {
	case stats.EventStatsUpdated:
		m.broadcast(StatsUpdatedEvent{
			Profile: event.Profile,
			Stats:   event.Stats,
		})

		if profile := m.profiles.GetProfileByUsername(event.Profile); profile != nil {
			if key := m.apiKeyFor(*profile); key != "" {
				go m.recordToday(*profile, key)
			}
		}

	case stats.EventStatsError:
		m.broadcast(ErrorEvent{
			Service: "stats",
			Error:   event.Error,
		})
	}
}

// recordToday pulls today's summary for a keyed profile, persists it, and
// checks the daily goal.
func (m *Manager) recordToday(profile models.Profile, apiKey string) {
	today := time.Now()

	result := m.api.AggregateSummaries(context.Background(), apiKey, today, today)
	if result.Err != nil {
		logger.Warn("failed to fetch today's summary", "profile", profile.Label(), "error", result.Err)
		return
	}

	payload := &models.Stats{
		TotalSeconds: result.TotalSeconds,
		Languages:    result.Languages,
	}
	if err := m.database.RecordStats(profile.Label(), today, payload); err != nil {
		logger.Error("failed to persist today's totals", "profile", profile.Label(), "error", err)
		return
	}

	m.checkDailyGoal(profile, result.TotalSeconds)
	m.broadcast(HistoryRecordedEvent{Profile: profile.Label()})
}

// checkDailyGoal fires a desktop notification the first time today's total
// crosses the profile's goal.
func (m *Manager) checkDailyGoal(profile models.Profile, todaySeconds int64) {
	goalMinutes := profile.DailyGoalMinutes
	if goalMinutes == 0 {
		goalMinutes = m.cfg.DailyGoalMinutes
	}
	if goalMinutes <= 0 {
		return
	}

	m.mu.Lock()
	previous, seen := m.previousToday[profile.Label()]
	m.previousToday[profile.Label()] = todaySeconds
	m.mu.Unlock()

	if !seen {
		return
	}

	goalSeconds := int64(goalMinutes) * 60
	if todaySeconds >= goalSeconds && previous < goalSeconds {
		title := fmt.Sprintf("Daily Goal Reached: %s", profile.Label())
		body := fmt.Sprintf("You've coded %s today.", models.HumanizeSeconds(todaySeconds))
		_ = beeep.Notify(title, body, "")
	}
}

// broadcast sends an event to all subscribers.
func (m *Manager) broadcast(event ServiceEvent) {
	// Send to main event channel
	select {
	case m.eventChan <- event:
	default:
	}

	// Send to subscribers
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, sub := range m.subscribers {
		select {
		case sub <- event:
		default:
			// Subscriber channel full, skip
		}
	}
}

// Subscribe creates a channel for receiving service events.
// Returns a tea.Cmd that can be used in Bubble Tea's Init or Update.
func (m *Manager) Subscribe() (chan ServiceEvent, tea.Cmd) {
	ch := make(chan ServiceEvent, 50)

	m.mu.Lock()
	m.subscribers = append(m.subscribers, ch)
	m.mu.Unlock()

	return ch, waitForEvent(ch)
}

// waitForEvent returns a tea.Cmd that waits for the next event.
func waitForEvent(ch <-chan ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}

// WaitForEvent returns a tea.Cmd for the next event on a channel.
func WaitForEvent(ch <-chan ServiceEvent) tea.Cmd {
	return waitForEvent(ch)
}

// Unsubscribe removes a subscriber channel.
func (m *Manager) Unsubscribe(ch chan ServiceEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, sub := range m.subscribers {
		if sub == ch {
			m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

// GetProfilesWithStats returns all profiles paired with their cached stats.
func (m *Manager) GetProfilesWithStats() []models.ProfileWithStats {
	profs := m.profiles.GetProfiles()
	cached := m.stats.GetAllCached()
	activeID := m.profiles.GetActiveProfileID()

	result := make([]models.ProfileWithStats, len(profs))
	for i, p := range profs {
		result[i] = models.ProfileWithStats{
			Profile:  p,
			Stats:    cached[p.Label()],
			IsActive: p.ID == activeID || p.Username == activeID,
		}
	}
	return result
}

// RefreshStats forces a refresh for all tracked profiles.
func (m *Manager) RefreshStats() {
	go m.stats.RefreshAll(context.Background())
}

// RefreshStatsForProfile forces a refresh for a specific profile.
func (m *Manager) RefreshStatsForProfile(profile models.Profile) (*models.Stats, error) {
	return m.stats.Refresh(context.Background(), profile)
}

// FetchDiagnostics runs the full diagnostic fetch for a profile.
func (m *Manager) FetchDiagnostics(ctx context.Context, profile models.Profile, requestedRange string) *stats.Diagnostics {
	return m.stats.FetchDiagnostics(ctx, profile.Username, profile.APIKey, requestedRange)
}

// GetTotals returns aggregated statistics.
func (m *Manager) GetTotals() TotalsEvent {
	cached := m.stats.GetAllCached()

	var total int64
	for _, s := range cached {
		total += s.TotalSeconds
	}

	return TotalsEvent{
		ProfileCount: m.profiles.Count(),
		StatsCached:  len(cached),
		TotalSeconds: total,
	}
}

// Profiles returns the profiles service.
func (m *Manager) Profiles() *profiles.Service {
	return m.profiles
}

// Stats returns the stats service.
func (m *Manager) Stats() *stats.Service {
	return m.stats
}

// GetHistory retrieves locally recorded history for a profile.
func (m *Manager) GetHistory(profile string, timeRange models.TimeRange) (*models.HistoryStats, error) {
	if m.database == nil {
		return nil, fmt.Errorf("database not initialized")
	}
	return m.database.GetHistoryStats(profile, timeRange)
}

// Database returns the database instance for direct access.
func (m *Manager) Database() *db.DB {
	return m.database
}

// Start kicks off background polling and trims history past retention.
func (m *Manager) Start() {
	go m.pruneHistory()
	m.stats.Start()
}

// Close closes the manager and all its services.
func (m *Manager) Close() error {
	close(m.stopChan)

	m.mu.Lock()
	for _, sub := range m.subscribers {
		close(sub)
	}
	m.subscribers = nil
	m.mu.Unlock()

	var errs []error

	if err := m.profiles.Close(); err != nil {
		errs = append(errs, err)
	}

	if err := m.stats.Close(); err != nil {
		errs = append(errs, err)
	}

	if m.database != nil {
		if err := m.database.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}

// InitialState returns the initial state of all services for TUI initialization.
func (m *Manager) InitialState() ([]models.ProfileWithStats, TotalsEvent) {
	profilesWithStats := m.GetProfilesWithStats()
	totals := m.GetTotals()

	return profilesWithStats, totals
}
