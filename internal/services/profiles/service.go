// Package profiles provides tracked-profile management with file watching
// and persistence.
package profiles

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"wakadash/internal/logger"
	"wakadash/internal/models"
)

// ProfilesFile represents the JSON file structure for profile storage.
type ProfilesFile struct {
	Profiles      []models.Profile `json:"profiles"`
	ActiveProfile string           `json:"activeProfile,omitempty"`
	Version       int              `json:"version,omitempty"`
}

// Event represents a profile service event.
type Event struct {
	Type    EventType
	Error   error
	Profile *models.Profile
}

// EventType defines the type of profile event.
type EventType int

const (
	EventProfilesLoaded EventType = iota
	EventProfilesChanged
	EventProfileAdded
	EventProfileUpdated
	EventProfileDeleted
	EventActiveProfileChanged
	EventError
)

// Service manages profiles with file watching and change notifications.
type Service struct {
	mu            sync.RWMutex
	profiles      []models.Profile
	activeProfile string
	filePath      string
	watcher       *fsnotify.Watcher
	onChange      func()
	eventChan     chan Event
	stopChan      chan struct{}
	debounceTimer *time.Timer
}

// defaultProfilesPath returns the default profiles file path.
func defaultProfilesPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "wakadash", "profiles.json")
}

// New creates a new profiles service and starts file watching.
func New(filePath string) (*Service, error) {
	if filePath == "" {
		filePath = defaultProfilesPath()
	}

	s := &Service{
		profiles:  make([]models.Profile, 0),
		filePath:  filePath,
		eventChan: make(chan Event, 100),
		stopChan:  make(chan struct{}),
	}

	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := s.loadProfiles(); err != nil {
		// First run: create an empty profiles file.
		if os.IsNotExist(err) {
			if err := s.saveProfiles(); err != nil {
				return nil, fmt.Errorf("failed to create profiles file: %w", err)
			}
		} else {
			return nil, fmt.Errorf("failed to load profiles: %w", err)
		}
	}

	if err := s.startWatcher(); err != nil {
		return nil, fmt.Errorf("failed to start file watcher: %w", err)
	}

	s.sendEvent(Event{Type: EventProfilesLoaded})

	return s, nil
}

// Events returns the event channel for subscribing to profile changes.
func (s *Service) Events() <-chan Event {
	return s.eventChan
}

// GetProfiles returns a copy of all profiles with the active flag set.
func (s *Service) GetProfiles() []models.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()

	profiles := make([]models.Profile, len(s.profiles))
	copy(profiles, s.profiles)
	for i := range profiles {
		profiles[i].IsActive = profiles[i].ID == s.activeProfile || profiles[i].Username == s.activeProfile
	}
	return profiles
}

// GetActiveProfile returns the currently active profile.
func (s *Service) GetActiveProfile() *models.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.profiles {
		if s.profiles[i].ID == s.activeProfile || s.profiles[i].Username == s.activeProfile {
			p := s.profiles[i]
			p.IsActive = true
			return &p
		}
	}

	// Fall back to the first profile if no active profile set
	if len(s.profiles) > 0 {
		p := s.profiles[0]
		p.IsActive = true
		return &p
	}

	return nil
}

// GetActiveProfileID returns the ID of the active profile.
func (s *Service) GetActiveProfileID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeProfile
}

// SetActiveProfile sets the active profile by ID or username.
func (s *Service) SetActiveProfile(idOrUsername string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	for _, p := range s.profiles {
		if p.ID == idOrUsername || p.Username == idOrUsername {
			found = true
			s.activeProfile = p.ID
			if s.activeProfile == "" {
				s.activeProfile = p.Username
			}
			break
		}
	}

	if !found {
		return fmt.Errorf("profile not found: %s", idOrUsername)
	}

	if err := s.saveProfilesLocked(); err != nil {
		return fmt.Errorf("failed to save profiles: %w", err)
	}

	s.sendEvent(Event{Type: EventActiveProfileChanged})
	return nil
}

// AddProfile adds a new tracked profile.
func (s *Service) AddProfile(profile models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.profiles {
		if p.Username == profile.Username {
			return fmt.Errorf("profile for %s already exists", profile.Username)
		}
	}

	if profile.ID == "" {
		profile.ID = fmt.Sprintf("prof_%d", time.Now().UnixNano())
	}
	if profile.AddedAt.IsZero() {
		profile.AddedAt = time.Now()
	}

	s.profiles = append(s.profiles, profile)

	// First profile becomes active
	if len(s.profiles) == 1 {
		s.activeProfile = profile.ID
	}

	if err := s.saveProfilesLocked(); err != nil {
		// Rollback
		s.profiles = s.profiles[:len(s.profiles)-1]
		return fmt.Errorf("failed to save profiles: %w", err)
	}

	s.sendEvent(Event{Type: EventProfileAdded, Profile: &profile})
	return nil
}

// UpdateProfile updates an existing profile.
func (s *Service) UpdateProfile(profile models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	for i, p := range s.profiles {
		if p.ID == profile.ID || p.Username == profile.Username {
			// Preserve ID when updating by username
			if profile.ID == "" {
				profile.ID = p.ID
			}
			if profile.AddedAt.IsZero() {
				profile.AddedAt = p.AddedAt
			}
			s.profiles[i] = profile
			found = true
			break
		}
	}

	if !found {
		return fmt.Errorf("profile not found: %s", profile.Username)
	}

	if err := s.saveProfilesLocked(); err != nil {
		return fmt.Errorf("failed to save profiles: %w", err)
	}

	s.sendEvent(Event{Type: EventProfileUpdated, Profile: &profile})
	return nil
}

// DeleteProfile removes a profile by ID or username.
func (s *Service) DeleteProfile(idOrUsername string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	var deleted models.Profile
	for i, p := range s.profiles {
		if p.ID == idOrUsername || p.Username == idOrUsername {
			idx = i
			deleted = p
			break
		}
	}

	if idx == -1 {
		return fmt.Errorf("profile not found: %s", idOrUsername)
	}

	s.profiles = append(s.profiles[:idx], s.profiles[idx+1:]...)

	if s.activeProfile == deleted.ID || s.activeProfile == deleted.Username {
		if len(s.profiles) > 0 {
			s.activeProfile = s.profiles[0].ID
			if s.activeProfile == "" {
				s.activeProfile = s.profiles[0].Username
			}
		} else {
			s.activeProfile = ""
		}
	}

	if err := s.saveProfilesLocked(); err != nil {
		return fmt.Errorf("failed to save profiles: %w", err)
	}

	s.sendEvent(Event{Type: EventProfileDeleted, Profile: &deleted})
	return nil
}

// GetProfileByUsername returns a profile by username.
func (s *Service) GetProfileByUsername(username string) *models.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.profiles {
		if s.profiles[i].Username == username {
			p := s.profiles[i]
			return &p
		}
	}
	return nil
}

// Count returns the number of tracked profiles.
func (s *Service) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.profiles)
}

// parseProfiles parses profile data handling both file formats.
func (s *Service) parseProfiles(data []byte) ([]models.Profile, string, error) {
	// 1. Standard ProfilesFile format
	var profilesFile ProfilesFile
	if err := json.Unmarshal(data, &profilesFile); err == nil && profilesFile.Profiles != nil {
		activeProfile := profilesFile.ActiveProfile

		if activeProfile != "" {
			found := false
			for _, p := range profilesFile.Profiles {
				if p.ID == activeProfile || p.Username == activeProfile {
					found = true
					break
				}
			}
			if !found && len(profilesFile.Profiles) > 0 {
				activeProfile = profilesFile.Profiles[0].ID
				if activeProfile == "" {
					activeProfile = profilesFile.Profiles[0].Username
				}
			}
		} else if len(profilesFile.Profiles) > 0 {
			activeProfile = profilesFile.Profiles[0].ID
			if activeProfile == "" {
				activeProfile = profilesFile.Profiles[0].Username
			}
		}
		return profilesFile.Profiles, activeProfile, nil
	}

	// 2. Legacy bare array format
	var list []models.Profile
	if err := json.Unmarshal(data, &list); err == nil {
		var activeProfile string
		if len(list) > 0 {
			activeProfile = list[0].ID
			if activeProfile == "" {
				activeProfile = list[0].Username
			}
		}
		return list, activeProfile, nil
	}

	return nil, "", fmt.Errorf("failed to parse profiles file: invalid format")
}

// loadProfiles loads profiles from the JSON file.
func (s *Service) loadProfiles() error {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return err
	}

	profiles, activeProfile, err := s.parseProfiles(data)
	if err != nil {
		return err
	}

	s.profiles = profiles
	s.activeProfile = activeProfile
	return nil
}

// saveProfiles saves profiles to the JSON file (public version).
func (s *Service) saveProfiles() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveProfilesLocked()
}

// saveProfilesLocked saves profiles to the JSON file (must hold lock).
func (s *Service) saveProfilesLocked() error {
	profilesFile := ProfilesFile{
		Profiles:      s.profiles,
		ActiveProfile: s.activeProfile,
		Version:       1,
	}

	data, err := json.MarshalIndent(profilesFile, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal profiles: %w", err)
	}

	// Write to temp file first, then rename
	tmpFile := s.filePath + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0600); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := os.Rename(tmpFile, s.filePath); err != nil {
		if removeErr := os.Remove(tmpFile); removeErr != nil {
			logger.Error("failed to remove temp file", "error", removeErr)
		}
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}

// startWatcher starts the file system watcher.
func (s *Service) startWatcher() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	s.watcher = watcher

	// Watch the directory (to catch file creation/deletion)
	dir := filepath.Dir(s.filePath)
	if err := watcher.Add(dir); err != nil {
		if closeErr := watcher.Close(); closeErr != nil {
			logger.Error("failed to close watcher", "error", closeErr)
		}
		return err
	}

	go s.watchLoop()
	return nil
}

// watchLoop handles file system events with debouncing.
func (s *Service) watchLoop() {
	const debounceInterval = 100 * time.Millisecond

	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}

			// Only care about our profiles file
			if filepath.Base(event.Name) != filepath.Base(s.filePath) {
				continue
			}

			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				// Debounce rapid changes
				if s.debounceTimer != nil {
					s.debounceTimer.Stop()
				}
				s.debounceTimer = time.AfterFunc(debounceInterval, func() {
					s.handleFileChange()
				})
			}

		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.sendEvent(Event{Type: EventError, Error: err})

		case <-s.stopChan:
			return
		}
	}
}

// handleFileChange reloads profiles from file after an external change.
func (s *Service) handleFileChange() {
	if err := s.loadProfilesWithLock(); err != nil {
		s.sendEvent(Event{Type: EventError, Error: err})
		return
	}

	s.sendEvent(Event{Type: EventProfilesChanged})

	s.mu.RLock()
	onChange := s.onChange
	s.mu.RUnlock()

	if onChange != nil {
		onChange()
	}
}

// loadProfilesWithLock loads profiles while holding the lock.
func (s *Service) loadProfilesWithLock() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return err
	}

	profiles, activeProfile, err := s.parseProfiles(data)
	if err != nil {
		return err
	}

	s.profiles = profiles
	s.activeProfile = activeProfile
	return nil
}

// OnChange registers a callback invoked after external file changes.
func (s *Service) OnChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

// sendEvent sends an event to the event channel non-blocking.
func (s *Service) sendEvent(event Event) {
	select {
	case s.eventChan <- event:
	default:
		// Channel full, drop oldest event
		select {
		case <-s.eventChan:
		default:
		}
		select {
		case s.eventChan <- event:
		default:
		}
	}
}

// Close stops the file watcher and cleans up resources.
func (s *Service) Close() error {
	close(s.stopChan)

	if s.debounceTimer != nil {
		s.debounceTimer.Stop()
	}

	if s.watcher != nil {
		return s.watcher.Close()
	}
	return nil
}
