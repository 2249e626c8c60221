package models

import "time"

// Profile describes one tracked WakaTime subject. A profile without an API
// key is limited to the public (privacy-reduced) endpoints.
type Profile struct {
	ID               string    `json:"id"`
	Username         string    `json:"username"`
	APIKey           string    `json:"apiKey,omitempty"`
	DailyGoalMinutes int       `json:"dailyGoalMinutes,omitempty"`
	AddedAt          time.Time `json:"addedAt,omitempty"`
	IsActive         bool      `json:"-"`
}

// HasAPIKey reports whether the profile can use authenticated endpoints.
func (p *Profile) HasAPIKey() bool {
	return p != nil && p.APIKey != ""
}

// Label returns the name shown in lists.
func (p *Profile) Label() string {
	if p.Username != "" {
		return p.Username
	}
	return p.ID
}

// ProfileWithStats pairs a profile with its most recent stats payload.
type ProfileWithStats struct {
	Profile  Profile
	Stats    *Stats
	IsActive bool
}
