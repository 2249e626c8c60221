package services

import (
	"testing"
	"time"

	"wakadash/internal/config"
	"wakadash/internal/models"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()

	tmpDir := t.TempDir()
	cfg := &config.Config{
		DatabasePath:    tmpDir + "/test.db",
		ProfilesPath:    tmpDir + "/profiles.json",
		Range:           "last_7_days",
		RefreshInterval: time.Minute,
	}

	mgr, err := NewManager(cfg)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	t.Cleanup(func() {
		_ = mgr.Close()
	})

	return mgr
}

func TestNewManager(t *testing.T) {
	mgr := newTestManager(t)

	if mgr.Profiles() == nil {
		t.Error("Profiles service should be initialized")
	}
	if mgr.Stats() == nil {
		t.Error("Stats service should be initialized")
	}
	if mgr.Database() == nil {
		t.Error("Database should be initialized")
	}
}

func TestManager_GetTotals(t *testing.T) {
	mgr := newTestManager(t)

	totals := mgr.GetTotals()
	if totals.ProfileCount != 0 {
		t.Errorf("Totals.ProfileCount = %d, want 0", totals.ProfileCount)
	}
	if totals.TotalSeconds != 0 {
		t.Errorf("Totals.TotalSeconds = %d, want 0", totals.TotalSeconds)
	}
}

func TestManager_Subscription(t *testing.T) {
	mgr := newTestManager(t)

	ch, cmd := mgr.Subscribe()
	if ch == nil {
		t.Error("Subscribe returned nil channel")
	}
	if cmd == nil {
		t.Error("Subscribe returned nil command")
	}

	mgr.Unsubscribe(ch)

	// Check if channel is closed
	select {
	case _, ok := <-ch:
		if ok {
			t.Error("Channel should be closed")
		}
	default:
	}
}

func TestManager_InitialState(t *testing.T) {
	mgr := newTestManager(t)

	profs, totals := mgr.InitialState()
	if len(profs) != 0 {
		t.Error("Expected 0 profiles")
	}
	if totals.ProfileCount != 0 {
		t.Error("Expected 0 profiles in totals")
	}
}

func TestManager_Broadcast(t *testing.T) {
	mgr := newTestManager(t)

	ch, _ := mgr.Subscribe()
	defer mgr.Unsubscribe(ch)

	event := TotalsEvent{ProfileCount: 1}
	mgr.broadcast(event)

	deadline := time.After(time.Second)
	for {
		select {
		case e := <-ch:
			// The profiles service emits a loaded event at startup; skip
			// anything that isn't ours.
			if e == ServiceEvent(event) {
				return
			}
		case <-deadline:
			t.Fatal("Timeout waiting for broadcast")
		}
	}
}

func TestManager_ProfilesWithStats(t *testing.T) {
	mgr := newTestManager(t)

	if err := mgr.Profiles().AddProfile(models.Profile{Username: "alice"}); err != nil {
		t.Fatalf("AddProfile failed: %v", err)
	}

	profs := mgr.GetProfilesWithStats()
	if len(profs) != 1 {
		t.Fatalf("got %d profiles, want 1", len(profs))
	}
	if profs[0].Profile.Username != "alice" {
		t.Errorf("profile = %+v, want alice", profs[0].Profile)
	}
	if profs[0].Stats != nil {
		t.Error("no stats fetched yet; cached stats should be nil")
	}
	if !profs[0].IsActive {
		t.Error("the only profile should be active")
	}
}

func TestManager_CheckDailyGoal(t *testing.T) {
	mgr := newTestManager(t)

	profile := models.Profile{Username: "alice", DailyGoalMinutes: 60}

	// First observation records the baseline without notifying.
	mgr.checkDailyGoal(profile, 1800)

	// Crossing the goal upwards; beeep may be a no-op headless, the
	// important part is that the path does not panic.
	mgr.checkDailyGoal(profile, 3700)

	// Staying above the goal must not re-notify; exercise the path.
	mgr.checkDailyGoal(profile, 3800)

	mgr.mu.RLock()
	defer mgr.mu.RUnlock()
	if mgr.previousToday["alice"] != 3800 {
		t.Errorf("previousToday = %d, want 3800", mgr.previousToday["alice"])
	}
}

func TestManager_CheckDailyGoal_NoGoal(t *testing.T) {
	mgr := newTestManager(t)

	profile := models.Profile{Username: "bob"}
	mgr.checkDailyGoal(profile, 7200)

	mgr.mu.RLock()
	defer mgr.mu.RUnlock()
	if _, tracked := mgr.previousToday["bob"]; tracked {
		t.Error("profiles without a goal should not be tracked")
	}
}

func TestWaitForEvent(t *testing.T) {
	ch := make(chan ServiceEvent, 1)
	ch <- TotalsEvent{}

	cmd := WaitForEvent(ch)
	msg := cmd()
	if msg == nil {
		t.Error("WaitForEvent cmd returned nil msg")
	}
}

func TestServiceEvent_Interface(t *testing.T) {
	var _ ServiceEvent = ProfilesChangedEvent{}
	var _ ServiceEvent = StatsUpdatedEvent{}
	var _ ServiceEvent = HistoryRecordedEvent{}
	var _ ServiceEvent = ErrorEvent{}
	var _ ServiceEvent = TotalsEvent{}
}

func TestManager_SeedsDefaultProfile(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := &config.Config{
		DatabasePath:    tmpDir + "/test.db",
		ProfilesPath:    tmpDir + "/profiles.json",
		Username:        "alice",
		APIKey:          "env-key",
		Range:           "last_7_days",
		RefreshInterval: time.Minute,
	}

	mgr, err := NewManager(cfg)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	defer func() { _ = mgr.Close() }()

	profs := mgr.Profiles().GetProfiles()
	if len(profs) != 1 {
		t.Fatalf("got %d profiles, want 1 seeded", len(profs))
	}
	if profs[0].Username != "alice" {
		t.Errorf("seeded username = %q, want alice", profs[0].Username)
	}
	if profs[0].APIKey != "" {
		t.Error("the environment key must not be persisted on the profile")
	}
}

func TestManager_SeedSkipsExistingProfiles(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := &config.Config{
		DatabasePath:    tmpDir + "/test.db",
		ProfilesPath:    tmpDir + "/profiles.json",
		Username:        "alice",
		Range:           "last_7_days",
		RefreshInterval: time.Minute,
	}

	first, err := NewManager(cfg)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	_ = first.Close()

	cfg.Username = "bob"
	second, err := NewManager(cfg)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	defer func() { _ = second.Close() }()

	profs := second.Profiles().GetProfiles()
	if len(profs) != 1 || profs[0].Username != "alice" {
		t.Errorf("profiles = %+v, want only the original alice", profs)
	}
}

func TestManager_APIKeyFor(t *testing.T) {
	mgr := newTestManager(t)
	mgr.cfg.Username = "alice"
	mgr.cfg.APIKey = "env-key"

	cases := []struct {
		name    string
		profile models.Profile
		want    string
	}{
		{"own key wins", models.Profile{Username: "alice", APIKey: "own"}, "own"},
		{"default user falls back", models.Profile{Username: "alice"}, "env-key"},
		{"blank username falls back", models.Profile{ID: "p1"}, "env-key"},
		{"other user gets nothing", models.Profile{Username: "bob"}, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := mgr.apiKeyFor(tc.profile); got != tc.want {
				t.Errorf("apiKeyFor(%+v) = %q, want %q", tc.profile, got, tc.want)
			}
		})
	}
}

func TestManager_PruneHistory(t *testing.T) {
	mgr := newTestManager(t)

	stale := time.Now().AddDate(-3, 0, 0)
	fresh := time.Now().AddDate(0, 0, -1)
	for _, day := range []time.Time{stale, fresh} {
		if err := mgr.Database().UpsertDayTotal("alice", day, 3600); err != nil {
			t.Fatalf("UpsertDayTotal failed: %v", err)
		}
	}

	mgr.pruneHistory()

	series, err := mgr.Database().GetDailySeries("alice", models.TimeRangeAllTime)
	if err != nil {
		t.Fatalf("GetDailySeries failed: %v", err)
	}
	if len(series) != 1 {
		t.Fatalf("got %d recorded days after pruning, want 1", len(series))
	}
	if series[0].Day.Year() == stale.Year() {
		t.Error("pruning kept the stale day instead of the fresh one")
	}
}

func TestManager_GetHistory(t *testing.T) {
	mgr := newTestManager(t)

	history, err := mgr.GetHistory("alice", models.TimeRange30Days)
	if err != nil {
		t.Fatalf("GetHistory failed: %v", err)
	}
	if history == nil {
		t.Fatal("GetHistory returned nil")
	}
	if history.HasData() {
		t.Error("empty database should report no data")
	}
}
