package app

import (
	"time"

	"wakadash/internal/models"
	"wakadash/internal/services"
)

// TickMsg is sent periodically to trigger state refresh.
type TickMsg struct {
	Time time.Time
}

// StartLoadingMsg signals that a resource is starting to load.
type StartLoadingMsg struct {
	Resource string
}

// StopLoadingMsg signals that a resource has finished loading.
type StopLoadingMsg struct {
	Resource string
}

// ProfilesLoadedMsg contains loaded profile data with cached stats.
type ProfilesLoadedMsg struct {
	Profiles []models.ProfileWithStats
	Totals   services.TotalsEvent
}

// TotalsLoadedMsg contains loaded aggregate statistics.
type TotalsLoadedMsg struct {
	Totals services.TotalsEvent
}

// StatsRefreshedMsg contains refreshed stats for one profile.
type StatsRefreshedMsg struct {
	Profile string
	Stats   *models.Stats
	Error   error
}

// HistoryLoadedMsg contains locally recorded history for one profile.
type HistoryLoadedMsg struct {
	Profile string
	History *models.HistoryStats
	Error   error
}

// SwitchProfileMsg requests switching the active profile.
type SwitchProfileMsg struct {
	Profile string
}

// SwitchProfileResultMsg contains the result of a profile switch.
type SwitchProfileResultMsg struct {
	Profile string
	Success bool
	Error   error
}

// DeleteProfileMsg requests deletion of a tracked profile.
type DeleteProfileMsg struct {
	Profile string
}

// DeleteProfileResultMsg contains the result of a profile deletion.
type DeleteProfileResultMsg struct {
	Profile string
	Success bool
	Error   error
}

// RefreshMsg requests a refresh of data.
type RefreshMsg struct {
	Resource string // "all", "profiles", "stats", "history"
}

// AddNotificationMsg requests adding a new notification.
type AddNotificationMsg struct {
	Type     NotificationType
	Message  string
	Duration time.Duration
}

// RemoveNotificationMsg requests removal of a notification.
type RemoveNotificationMsg struct {
	ID string
}

// ServiceEventMsg wraps a service event from the service manager.
type ServiceEventMsg struct {
	Event services.ServiceEvent
}

// HistoryRecordedMsg signals that today's totals landed in the database.
type HistoryRecordedMsg struct {
	Profile string
}

// ErrorMsg represents a general error.
type ErrorMsg struct {
	Error   error
	Context string
}

// TabSwitchMsg requests switching to a specific tab.
type TabSwitchMsg struct {
	Tab TabID
}

// ToggleHelpMsg toggles the help display.
type ToggleHelpMsg struct{}

// SubscriptionEventMsg is the callback wrapper for service subscription.
type SubscriptionEventMsg struct {
	Channel chan services.ServiceEvent
}

// ClearExpiredNotificationsMsg triggers clearing of expired notifications.
type ClearExpiredNotificationsMsg struct{}

// SelectedProfileChangedMsg signals that the selected profile in the UI changed.
type SelectedProfileChangedMsg struct {
	Index   int
	Profile string
}
