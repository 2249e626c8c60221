// Package stats orchestrates the coding-activity pipeline: range
// normalization, auth-mode selection, the upstream fetch, and the optional
// all-time correction.
package stats

import (
	"context"
	"maps"
	"sync"
	"time"

	"wakadash/internal/logger"
	"wakadash/internal/models"
	"wakadash/internal/services/wakatime"
)

// API is the upstream client surface the service depends on.
type API interface {
	FetchStats(ctx context.Context, req wakatime.StatsRequest) (*models.Stats, error)
	FetchAllTime(ctx context.Context, apiKey string) *models.AllTimeResult
	AggregateSummaries(ctx context.Context, apiKey string, start, end time.Time) *models.SummaryResult
	FetchUser(ctx context.Context, apiKey string) (*wakatime.User, error)
}

// ProfileProvider is an interface for getting tracked profiles.
type ProfileProvider interface {
	GetProfiles() []models.Profile
	GetActiveProfile() *models.Profile
}

// Event represents a stats service event.
type Event struct {
	Error   error
	Stats   *models.Stats
	Profile string
	Type    EventType
}

// EventType defines the type of stats event.
type EventType int

const (
	// EventStatsRefreshing indicates a refresh is in progress.
	EventStatsRefreshing EventType = iota
	// EventStatsUpdated indicates fresh stats were cached.
	EventStatsUpdated
	// EventStatsError indicates a refresh failed.
	EventStatsError
)

// Config holds configuration for the stats service.
type Config struct {
	// Range is the reporting window refreshed in the background; any string
	// is accepted and normalized.
	Range string

	// ActualTotalHours is the operator-supplied ground-truth lifetime hour
	// count used to correct all_time payloads proportionally.
	ActualTotalHours float64

	// OverrideTotalHours wholesale-replaces the all_time total. Legacy;
	// mutually exclusive with ActualTotalHours.
	OverrideTotalHours float64

	// DefaultUsername and DefaultAPIKey are the environment credentials.
	// The key stands in for profiles that carry no key of their own but
	// belong to the default user; the key's owner is the only subject it
	// can fetch authenticated stats for.
	DefaultUsername string
	DefaultAPIKey   string

	PollInterval  time.Duration
	MaxConcurrent int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Range:         string(models.DefaultRange),
		PollInterval:  15 * time.Minute,
		MaxConcurrent: 3,
	}
}

// Service manages stats fetching and caching for tracked profiles.
type Service struct {
	profiles   ProfileProvider
	api        API
	cache      map[string]*models.Stats
	eventChan  chan Event
	stopChan   chan struct{}
	pollTicker *time.Ticker
	refreshSem chan struct{}
	config     Config
	mu         sync.RWMutex
}

// New creates a new stats service. Call Start to begin background polling.
func New(provider ProfileProvider, api API, config Config) *Service {
	if config.PollInterval == 0 {
		config.PollInterval = DefaultConfig().PollInterval
	}
	if config.MaxConcurrent < 1 {
		config.MaxConcurrent = DefaultConfig().MaxConcurrent
	}

	return &Service{
		profiles:   provider,
		api:        api,
		cache:      make(map[string]*models.Stats),
		eventChan:  make(chan Event, 100),
		stopChan:   make(chan struct{}),
		config:     config,
		refreshSem: make(chan struct{}, config.MaxConcurrent),
	}
}

// Events returns the event channel.
func (s *Service) Events() <-chan Event {
	return s.eventChan
}

// Fetch runs the full pipeline for one request: normalize the requested
// range, resolve the auth mode, fetch, and correct the all_time total when a
// ground-truth configuration value is present.
func (s *Service) Fetch(ctx context.Context, username, apiKey, requestedRange string) (*models.Stats, error) {
	rng := models.NormalizeRange(requestedRange)

	payload, err := s.api.FetchStats(ctx, wakatime.StatsRequest{
		Username: username,
		APIKey:   apiKey,
		Range:    rng,
	})
	if err != nil {
		return nil, err
	}

	if rng == models.RangeAllTime {
		switch {
		case s.config.ActualTotalHours > 0:
			payload = Correct(payload, s.config.ActualTotalHours)
		case s.config.OverrideTotalHours > 0:
			payload = ApplyOverride(payload, s.config.OverrideTotalHours)
		}
	}

	return payload, nil
}

// credentialsFor resolves the credentials to fetch a profile with, falling
// back to the environment key when the profile has none and the subject is
// the default user (an unrelated username must stay on the public endpoint).
func (s *Service) credentialsFor(profile models.Profile) (username, apiKey string) {
	username, apiKey = profile.Username, profile.APIKey
	if apiKey == "" && (username == "" || username == s.config.DefaultUsername) {
		apiKey = s.config.DefaultAPIKey
	}
	return username, apiKey
}

// Refresh fetches fresh stats for a profile and caches the result.
func (s *Service) Refresh(ctx context.Context, profile models.Profile) (*models.Stats, error) {
	key := profile.Label()

	s.sendEvent(Event{Type: EventStatsRefreshing, Profile: key})

	username, apiKey := s.credentialsFor(profile)
	payload, err := s.Fetch(ctx, username, apiKey, s.config.Range)
	if err != nil {
		s.sendEvent(Event{Type: EventStatsError, Profile: key, Error: err})
		return nil, err
	}

	s.mu.Lock()
	s.cache[key] = payload
	s.mu.Unlock()

	s.sendEvent(Event{Type: EventStatsUpdated, Profile: key, Stats: payload})
	return payload, nil
}

// RefreshAll refreshes stats for every tracked profile, bounded by the
// configured concurrency.
func (s *Service) RefreshAll(ctx context.Context) {
	if s.profiles == nil {
		return
	}

	profiles := s.profiles.GetProfiles()
	var wg sync.WaitGroup

	for i := range profiles {
		profile := profiles[i]
		wg.Add(1)
		go func() {
			defer wg.Done()

			s.refreshSem <- struct{}{}
			defer func() { <-s.refreshSem }()

			if _, err := s.Refresh(ctx, profile); err != nil {
				logger.Error("failed to refresh stats", "profile", profile.Label(), "error", err)
			}
		}()
	}

	wg.Wait()
}

// GetCached returns the cached stats for a profile label, if any.
func (s *Service) GetCached(profile string) *models.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cache[profile]
}

// GetAllCached returns all cached stats keyed by profile label.
func (s *Service) GetAllCached() map[string]*models.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]*models.Stats, len(s.cache))
	maps.Copy(result, s.cache)
	return result
}

// Start begins the background polling goroutine.
func (s *Service) Start() {
	go s.poll()
}

func (s *Service) poll() {
	s.RefreshAll(context.Background())

	s.pollTicker = time.NewTicker(s.config.PollInterval)
	defer s.pollTicker.Stop()

	for {
		select {
		case <-s.pollTicker.C:
			s.RefreshAll(context.Background())
		case <-s.stopChan:
			return
		}
	}
}

// sendEvent sends an event to the event channel non-blocking.
func (s *Service) sendEvent(event Event) {
	select {
	case s.eventChan <- event:
	default:
		// Channel full, drop oldest
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

// Close stops the service.
func (s *Service) Close() error {
	close(s.stopChan)
	return nil
}
