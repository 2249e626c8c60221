package dashboard

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"wakadash/internal/app"
	"wakadash/internal/models"
)

func TestNew(t *testing.T) {
	state := app.NewState()
	m := New(state)
	if m == nil {
		t.Fatal("New returned nil")
	}
}

func TestModel_Init(t *testing.T) {
	state := app.NewState()
	m := New(state)
	if m.Init() == nil {
		t.Error("Init returned nil")
	}
}

func TestModel_Update(t *testing.T) {
	state := app.NewState()
	m := New(state)

	// Test nil msg
	updated, cmd := m.Update(nil)
	if updated == nil {
		t.Error("Update returned nil model")
	}
	_ = cmd
}

func TestModel_View(t *testing.T) {
	state := app.NewState()
	state.SetLoading("initial", false)
	m := New(state)

	// View with no data
	view := m.View()
	if view == "" {
		t.Error("View returned empty string")
	}

	// View with profiles
	profs := []models.ProfileWithStats{
		{
			Profile: models.Profile{ID: "1", Username: "alice", APIKey: "waka_x"},
			Stats: &models.Stats{
				Subject:            "alice",
				Range:              models.RangeLast7Days,
				TotalSeconds:       36000,
				HumanReadableTotal: "10 hrs",
				DailyAverage:       5142,
				Languages: []models.LanguageStat{
					{Name: "Go", TotalSeconds: 18000, Percent: 50.0, Text: "5 hrs"},
					{Name: "Python", TotalSeconds: 18000, Percent: 50.0, Text: "5 hrs"},
				},
			},
			IsActive: true,
		},
	}
	state.SetProfiles(profs)

	// Need to set size to ensure rendering
	m.SetSize(80, 24)

	view = m.View()
	if !strings.Contains(view, "alice") {
		t.Logf("View content: %q", view)
		t.Error("View should contain profile name")
	}
	if !strings.Contains(view, "Go") {
		t.Logf("View content: %q", view)
		t.Error("View should contain language name")
	}
	if !strings.Contains(view, "10 hrs") {
		t.Error("View should contain the human-readable total")
	}
}

func TestModel_View_CorrectedBadge(t *testing.T) {
	state := app.NewState()
	state.SetLoading("initial", false)
	m := New(state)
	m.SetSize(80, 24)

	state.SetProfiles([]models.ProfileWithStats{
		{
			Profile: models.Profile{ID: "1", Username: "alice"},
			Stats: &models.Stats{
				HumanReadableTotal: "4 hrs",
				IsCorrected:        true,
				CorrectionFactor:   2.0,
			},
		},
	})

	view := m.View()
	if !strings.Contains(view, "corrected") {
		t.Error("View should flag corrected stats")
	}
}

func TestModel_AnimationSync(t *testing.T) {
	state := app.NewState()
	m := New(state)

	state.SetProfiles([]models.ProfileWithStats{
		{
			Profile: models.Profile{ID: "1", Username: "alice"},
			Stats: &models.Stats{
				Languages: []models.LanguageStat{
					{Name: "Go", Percent: 60.0},
				},
			},
		},
	})

	animating, pending := m.syncAnimationTargets(time.Now())
	if !animating {
		t.Error("New language target should start animating")
	}
	if pending {
		t.Error("No stats should be pending")
	}

	// Animation converges after the easing duration
	m.stepAnimations(time.Now().Add(2 * time.Second))
	anim := m.animations[animationKey("alice", "Go")]
	if anim == nil {
		t.Fatal("Animation state missing")
	}
	if anim.CurrentPercent != 60.0 {
		t.Errorf("CurrentPercent = %f, want 60.0", anim.CurrentPercent)
	}
}

func TestModel_AnimationPendingStats(t *testing.T) {
	state := app.NewState()
	m := New(state)

	state.SetProfiles([]models.ProfileWithStats{
		{Profile: models.Profile{ID: "1", Username: "alice"}},
	})

	_, pending := m.syncAnimationTargets(time.Now())
	if !pending {
		t.Error("Profile without stats should count as pending")
	}
}

func TestModel_SetSize(t *testing.T) {
	state := app.NewState()
	m := New(state)
	m.SetSize(100, 50)
}

func TestModel_Help(t *testing.T) {
	state := app.NewState()
	m := New(state)
	if len(m.ShortHelp()) == 0 {
		t.Error("ShortHelp empty")
	}
	if len(m.FullHelp()) == 0 {
		t.Error("FullHelp empty")
	}
}

func TestModel_KeyBindings(t *testing.T) {
	state := app.NewState()
	m := New(state)

	state.SetProfiles([]models.ProfileWithStats{
		{Profile: models.Profile{ID: "1", Username: "alice"}},
		{Profile: models.Profile{ID: "2", Username: "bob"}},
	})

	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	if m.selectedIndex != 1 {
		t.Errorf("selectedIndex = %d, want 1", m.selectedIndex)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	if m.selectedIndex != 0 {
		t.Errorf("selectedIndex = %d, want 0", m.selectedIndex)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'G'}})
	if m.selectedIndex != 1 {
		t.Errorf("selectedIndex = %d, want last", m.selectedIndex)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'g'}})
	if m.selectedIndex != 0 {
		t.Errorf("selectedIndex = %d, want first", m.selectedIndex)
	}
}

func TestModel_GoalBar(t *testing.T) {
	state := app.NewState()
	state.SetLoading("initial", false)
	m := New(state)
	m.SetSize(100, 40)

	state.SetProfiles([]models.ProfileWithStats{
		{
			Profile: models.Profile{Username: "alice", DailyGoalMinutes: 120},
			Stats: &models.Stats{
				Range:              models.RangeLast7Days,
				TotalSeconds:       3600,
				HumanReadableTotal: "1 hr",
			},
		},
	})
	state.SetHistory("alice", &models.HistoryStats{
		Profile:      "alice",
		RecordedDays: 1,
		Daily: []models.DailyPoint{
			{Day: time.Now(), TotalSeconds: 5400},
		},
	})

	if got := m.todaySeconds("alice"); got != 5400 {
		t.Errorf("todaySeconds = %d, want 5400", got)
	}
	if got := m.todaySeconds("unknown"); got != 0 {
		t.Errorf("todaySeconds for unknown profile = %d, want 0", got)
	}

	view := m.View()
	if !strings.Contains(view, "1h 30m") {
		t.Error("view should show today's coded time against the goal")
	}
	if !strings.Contains(view, "trend") {
		t.Error("view should show the recent trend sparkline")
	}
}

func TestModel_TodaySecondsStaleDay(t *testing.T) {
	state := app.NewState()
	m := New(state)

	state.SetHistory("bob", &models.HistoryStats{
		Profile:      "bob",
		RecordedDays: 1,
		Daily: []models.DailyPoint{
			{Day: time.Now().AddDate(0, 0, -1), TotalSeconds: 5400},
		},
	})

	if got := m.todaySeconds("bob"); got != 0 {
		t.Errorf("todaySeconds for a stale day = %d, want 0", got)
	}
}
