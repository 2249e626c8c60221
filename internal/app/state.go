// Package app provides the main Bubble Tea application model and state management.
package app

import (
	"sync"
	"time"

	"wakadash/internal/models"
	"wakadash/internal/services"
)

// NotificationType defines the type of notification.
type NotificationType int

const (
	// NotificationSuccess represents a success notification.
	NotificationSuccess NotificationType = iota
	// NotificationError represents an error notification.
	NotificationError
	// NotificationWarning represents a warning notification.
	NotificationWarning
	// NotificationInfo represents an informational notification.
	NotificationInfo
	// NotificationLoading represents a loading notification with spinner.
	NotificationLoading
)

const (
	// LoadingNotificationID is the fixed ID for loading notifications.
	LoadingNotificationID = "__loading__"
)

// String returns the string representation of a NotificationType.
func (n NotificationType) String() string {
	switch n {
	case NotificationSuccess:
		return "success"
	case NotificationError:
		return "error"
	case NotificationWarning:
		return "warning"
	case NotificationInfo:
		return "info"
	default:
		return "unknown"
	}
}

// Notification represents a user-facing notification message.
type Notification struct {
	ID        string
	Type      NotificationType
	Message   string
	CreatedAt time.Time
	Duration  time.Duration
}

// IsExpired returns true if the notification has expired.
func (n *Notification) IsExpired() bool {
	if n.Duration <= 0 {
		return false
	}
	return time.Since(n.CreatedAt) > n.Duration
}

// LoadingState tracks loading states for different resources.
type LoadingState struct {
	Initial  bool
	Profiles bool
	Stats    bool
	History  bool
}

// State is the shared application state read by every tab.
type State struct {
	mu sync.RWMutex

	Profiles             []models.ProfileWithStats
	ActiveProfile        *models.ProfileWithStats
	Totals               *services.TotalsEvent
	History              map[string]*models.HistoryStats
	SelectedProfileIndex int

	Loading LoadingState

	LastUpdated time.Time

	notifications   []Notification
	notificationSeq int
}

// NewState creates an empty application state.
func NewState() *State {
	return &State{
		Profiles:             make([]models.ProfileWithStats, 0),
		History:              make(map[string]*models.HistoryStats),
		SelectedProfileIndex: 0,
		notifications:        make([]Notification, 0),
		Loading: LoadingState{
			Initial: true,
		},
	}
}

// SetLoading sets the loading state for a specific resource.
func (s *State) SetLoading(resource string, loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch resource {
	case "initial":
		s.Loading.Initial = loading
	case "profiles":
		s.Loading.Profiles = loading
	case "stats":
		s.Loading.Stats = loading
	case "history":
		s.Loading.History = loading
	}
}

// AnyLoading returns true if any resource is currently loading.
func (s *State) AnyLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.Loading.Initial ||
		s.Loading.Profiles ||
		s.Loading.Stats ||
		s.Loading.History
}

// IsInitialLoading returns true if initial data is still loading.
func (s *State) IsInitialLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Loading.Initial
}

// SetProfiles updates the profile list and finds the active profile.
func (s *State) SetProfiles(profiles []models.ProfileWithStats) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Profiles = profiles
	s.LastUpdated = time.Now()

	// Find and update active profile
	s.ActiveProfile = nil
	for i := range profiles {
		if profiles[i].IsActive {
			s.ActiveProfile = &profiles[i]
			break
		}
	}
}

// GetProfiles returns a copy of the profile list.
func (s *State) GetProfiles() []models.ProfileWithStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	profiles := make([]models.ProfileWithStats, len(s.Profiles))
	copy(profiles, s.Profiles)
	return profiles
}

// GetProfileCount returns the number of tracked profiles.
func (s *State) GetProfileCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.Profiles)
}

// GetActiveProfile returns the active profile.
func (s *State) GetActiveProfile() *models.ProfileWithStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ActiveProfile
}

// SetTotals updates the aggregate statistics.
func (s *State) SetTotals(totals services.TotalsEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Totals = &totals
}

// GetTotals returns the current aggregate statistics.
func (s *State) GetTotals() *services.TotalsEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Totals
}

// SetHistory stores a profile's local history.
func (s *State) SetHistory(profile string, history *models.HistoryStats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.History == nil {
		s.History = make(map[string]*models.HistoryStats)
	}
	s.History[profile] = history
}

// GetHistory returns a profile's local history, if loaded.
func (s *State) GetHistory(profile string) *models.HistoryStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.History == nil {
		return nil
	}
	return s.History[profile]
}

// AddNotification adds a new notification and returns its ID.
func (s *State) AddNotification(notifType NotificationType, message string, duration time.Duration) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notificationSeq++
	id := time.Now().Format("20060102150405") + "-" + string(rune('A'+s.notificationSeq%26))

	notification := Notification{
		ID:        id,
		Type:      notifType,
		Message:   message,
		CreatedAt: time.Now(),
		Duration:  duration,
	}

	s.notifications = append(s.notifications, notification)

	// Keep only the last 10 notifications
	if len(s.notifications) > 10 {
		s.notifications = s.notifications[len(s.notifications)-10:]
	}

	return id
}

// RemoveNotification removes a notification by ID.
func (s *State) RemoveNotification(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == id {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return
		}
	}
}

// ClearExpiredNotifications removes all expired notifications.
func (s *State) ClearExpiredNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()

	active := make([]Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		if !n.IsExpired() {
			active = append(active, n)
		}
	}
	s.notifications = active
}

// GetNotifications returns a copy of all active notifications.
func (s *State) GetNotifications() []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Clear expired inline when reading
	active := make([]Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		if !n.IsExpired() {
			active = append(active, n)
		}
	}

	return active
}

// ClearAllNotifications removes all notifications.
func (s *State) ClearAllNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = make([]Notification, 0)
}

// SetLoadingNotification sets a loading notification message.
func (s *State) SetLoadingNotification(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == LoadingNotificationID {
			s.notifications[i].Message = message
			return
		}
	}

	s.notifications = append(s.notifications, Notification{
		ID:        LoadingNotificationID,
		Type:      NotificationLoading,
		Message:   message,
		CreatedAt: time.Now(),
		Duration:  0,
	})
}

// ClearLoadingNotification removes the loading notification.
func (s *State) ClearLoadingNotification() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == LoadingNotificationID {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return
		}
	}
}

// GetLastUpdated returns the last time the state was updated.
func (s *State) GetLastUpdated() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.LastUpdated
}

// TimeSinceUpdate returns the duration since the last update.
func (s *State) TimeSinceUpdate() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.LastUpdated.IsZero() {
		return 0
	}
	return time.Since(s.LastUpdated)
}

// GetSelectedProfileIndex returns the currently selected profile index.
func (s *State) GetSelectedProfileIndex() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.SelectedProfileIndex
}

// SetSelectedProfileIndex updates the selected profile index.
func (s *State) SetSelectedProfileIndex(idx int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.SelectedProfileIndex = idx
}
