package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"wakadash/internal/models"
	"wakadash/internal/services"
)

const (
	// DefaultTickInterval is the default interval between ticks.
	DefaultTickInterval = 2 * time.Second

	// DefaultNotificationDuration is the default duration for notifications.
	DefaultNotificationDuration = 5 * time.Second

	// QuickNotificationDuration is for brief notifications.
	QuickNotificationDuration = 3 * time.Second

	// LongNotificationDuration is for important notifications.
	LongNotificationDuration = 10 * time.Second
)

// tickCmd returns a command that sends a TickMsg after the specified interval.
func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

// defaultTickCmd returns a command that sends a TickMsg after the default interval.
func defaultTickCmd() tea.Cmd {
	return tickCmd(DefaultTickInterval)
}

// loadInitialData returns a command that loads all initial data.
func loadInitialData(mgr *services.Manager) tea.Cmd {
	return tea.Batch(
		loadProfilesCmd(mgr),
		loadTotalsCmd(mgr),
	)
}

// loadProfilesCmd returns a command that loads profiles with cached stats.
func loadProfilesCmd(mgr *services.Manager) tea.Cmd {
	return func() tea.Msg {
		profiles := mgr.GetProfilesWithStats()
		totals := mgr.GetTotals()

		return ProfilesLoadedMsg{
			Profiles: profiles,
			Totals:   totals,
		}
	}
}

// loadTotalsCmd returns a command that loads aggregate statistics.
func loadTotalsCmd(mgr *services.Manager) tea.Cmd {
	return func() tea.Msg {
		totals := mgr.GetTotals()
		return TotalsLoadedMsg{Totals: totals}
	}
}

// refreshStatsCmd returns a command that refreshes stats for one profile.
func refreshStatsCmd(mgr *services.Manager, profile models.Profile) tea.Cmd {
	return func() tea.Msg {
		stats, err := mgr.RefreshStatsForProfile(profile)
		return StatsRefreshedMsg{
			Profile: profile.Label(),
			Stats:   stats,
			Error:   err,
		}
	}
}

// refreshAllStatsCmd returns a command that refreshes stats for every profile.
func refreshAllStatsCmd(mgr *services.Manager) tea.Cmd {
	return func() tea.Msg {
		mgr.RefreshStats()
		profiles := mgr.GetProfilesWithStats()
		totals := mgr.GetTotals()
		return ProfilesLoadedMsg{
			Profiles: profiles,
			Totals:   totals,
		}
	}
}

// loadHistoryCmd returns a command that loads local history for a profile.
func loadHistoryCmd(mgr *services.Manager, profile string, timeRange models.TimeRange) tea.Cmd {
	return func() tea.Msg {
		history, err := mgr.GetHistory(profile, timeRange)
		return HistoryLoadedMsg{
			Profile: profile,
			History: history,
			Error:   err,
		}
	}
}

// subscribeToServicesCmd returns a command that subscribes to service events.
func subscribeToServicesCmd(mgr *services.Manager) tea.Cmd {
	ch, _ := mgr.Subscribe()
	return func() tea.Msg {
		return SubscriptionEventMsg{Channel: ch}
	}
}

// waitForServiceEventCmd returns a command that waits for the next service event.
func waitForServiceEventCmd(ch <-chan services.ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		return ServiceEventMsg{Event: event}
	}
}

// WaitForServiceEvent is the public version for use in models.
func WaitForServiceEvent(ch <-chan services.ServiceEvent) tea.Cmd {
	return services.WaitForEvent(ch)
}

// clearNotificationCmd returns a command that removes a notification after a delay.
func clearNotificationCmd(id string, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(_ time.Time) tea.Msg {
		return RemoveNotificationMsg{ID: id}
	})
}

// switchProfileCmd returns a command that switches the active profile.
func switchProfileCmd(mgr *services.Manager, profile string) tea.Cmd {
	return func() tea.Msg {
		err := mgr.Profiles().SetActiveProfile(profile)
		return SwitchProfileResultMsg{
			Profile: profile,
			Success: err == nil,
			Error:   err,
		}
	}
}

// deleteProfileCmd returns a command that deletes a tracked profile.
func deleteProfileCmd(mgr *services.Manager, profile string) tea.Cmd {
	return func() tea.Msg {
		err := mgr.Profiles().DeleteProfile(profile)
		return DeleteProfileResultMsg{
			Profile: profile,
			Success: err == nil,
			Error:   err,
		}
	}
}

// notifySuccessCmd returns a command that adds a success notification.
func notifySuccessCmd(message string) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{
			Type:     NotificationSuccess,
			Message:  message,
			Duration: DefaultNotificationDuration,
		}
	}
}

// notifyErrorCmd returns a command that adds an error notification.
func notifyErrorCmd(message string) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{
			Type:     NotificationError,
			Message:  message,
			Duration: LongNotificationDuration,
		}
	}
}

// notifyWarningCmd returns a command that adds a warning notification.
func notifyWarningCmd(message string) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{
			Type:     NotificationWarning,
			Message:  message,
			Duration: DefaultNotificationDuration,
		}
	}
}

// notifyInfoCmd returns a command that adds an info notification.
func notifyInfoCmd(message string) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{
			Type:     NotificationInfo,
			Message:  message,
			Duration: QuickNotificationDuration,
		}
	}
}

// delayedCmd returns a command that sends a message after a delay.
func delayedCmd(delay time.Duration, msg tea.Msg) tea.Cmd {
	return tea.Tick(delay, func(_ time.Time) tea.Msg {
		return msg
	})
}

// Commands provides a public interface to the command functions.
type Commands struct {
	manager *services.Manager
}

// NewCommands creates a new Commands instance.
func NewCommands(mgr *services.Manager) *Commands {
	return &Commands{manager: mgr}
}

// Tick returns a tick command with the specified interval.
func (c *Commands) Tick(interval time.Duration) tea.Cmd {
	return tickCmd(interval)
}

// DefaultTick returns a tick command with the default interval.
func (c *Commands) DefaultTick() tea.Cmd {
	return defaultTickCmd()
}

// LoadInitialData returns a command that loads all initial data.
func (c *Commands) LoadInitialData() tea.Cmd {
	return loadInitialData(c.manager)
}

// LoadProfiles returns a command that loads profiles.
func (c *Commands) LoadProfiles() tea.Cmd {
	return loadProfilesCmd(c.manager)
}

// LoadTotals returns a command that loads aggregate statistics.
func (c *Commands) LoadTotals() tea.Cmd {
	return loadTotalsCmd(c.manager)
}

// LoadHistory returns a command that loads local history for a profile.
func (c *Commands) LoadHistory(profile string, timeRange models.TimeRange) tea.Cmd {
	return loadHistoryCmd(c.manager, profile, timeRange)
}

// RefreshStats returns a command that refreshes stats for one profile.
func (c *Commands) RefreshStats(profile models.Profile) tea.Cmd {
	return refreshStatsCmd(c.manager, profile)
}

// RefreshAllStats returns a command that refreshes stats for every profile.
func (c *Commands) RefreshAllStats() tea.Cmd {
	return refreshAllStatsCmd(c.manager)
}

// SubscribeToServices returns a command that subscribes to service events.
func (c *Commands) SubscribeToServices() tea.Cmd {
	return subscribeToServicesCmd(c.manager)
}

// SwitchProfile returns a command that switches the active profile.
func (c *Commands) SwitchProfile(profile string) tea.Cmd {
	return switchProfileCmd(c.manager, profile)
}

// DeleteProfile returns a command that deletes a tracked profile.
func (c *Commands) DeleteProfile(profile string) tea.Cmd {
	return deleteProfileCmd(c.manager, profile)
}

// NotifySuccess returns a command that adds a success notification.
func (c *Commands) NotifySuccess(message string) tea.Cmd {
	return notifySuccessCmd(message)
}

// NotifyError returns a command that adds an error notification.
func (c *Commands) NotifyError(message string) tea.Cmd {
	return notifyErrorCmd(message)
}

// NotifyWarning returns a command that adds a warning notification.
func (c *Commands) NotifyWarning(message string) tea.Cmd {
	return notifyWarningCmd(message)
}

// NotifyInfo returns a command that adds an info notification.
func (c *Commands) NotifyInfo(message string) tea.Cmd {
	return notifyInfoCmd(message)
}

// ClearNotification returns a command that removes a notification after a delay.
func (c *Commands) ClearNotification(id string, delay time.Duration) tea.Cmd {
	return clearNotificationCmd(id, delay)
}

// Delayed returns a command that sends a message after a delay.
func (c *Commands) Delayed(delay time.Duration, msg tea.Msg) tea.Cmd {
	return delayedCmd(delay, msg)
}

// Quit returns a command that quits the application.
func (c *Commands) Quit() tea.Cmd {
	return tea.Quit
}
