package models

import "time"

// WeekSummary is the cached aggregate for one ISO week (YYYY-Www). It is
// fully derived from the week's entries plus current settings: safe to
// discard and rebuild at any time.
type WeekSummary struct {
	Week             string         `json:"week"`
	StartDate        string         `json:"start_date"` // Monday, YYYY-MM-DD
	EndDate          string         `json:"end_date"`   // Sunday, YYYY-MM-DD
	TotalMin         int            `json:"total_min"`
	CapMin           int            `json:"cap_min"`
	CapUsagePct      float64        `json:"cap_usage_pct"`
	OverCap          bool           `json:"over_cap"`
	ByCategory       map[string]int `json:"by_category,omitempty"`       // minutes per category
	ReplacementUsage map[string]int `json:"replacement_usage,omitempty"` // count per replacement activity
	StreakActive     bool           `json:"streak_active"`               // usage within cap for this week alone
	UpdatedAt        time.Time      `json:"updated_at"`
}
