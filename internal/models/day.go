package models

import "time"

// ChecklistMark records the completion state of one checklist item for a
// day. Items missing from a day's list fall back to the template's
// DefaultChecked flag.
type ChecklistMark struct {
	ItemID  string `json:"item_id"`
	Checked bool   `json:"checked"`
}

// DayLog holds per-day state keyed by calendar date (YYYY-MM-DD).
// TotalFastMin and ReplacementUsage are denormalized sums over the day's
// entries, written exclusively by the aggregation engine.
type DayLog struct {
	Day              string          `json:"day"`
	Checklist        []ChecklistMark `json:"checklist,omitempty"`
	Reflection       string          `json:"reflection,omitempty"`
	TotalFastMin     int             `json:"total_fast_min"`
	ReplacementUsage map[string]int  `json:"replacement_usage,omitempty"` // count per replacement activity
	UpdatedAt        time.Time       `json:"updated_at"`
}

// Mark returns the recorded state of an item, or ok=false if the day has
// no record for it (the template default applies then).
func (d DayLog) Mark(itemID string) (bool, bool) {
	for _, m := range d.Checklist {
		if m.ItemID == itemID {
			return m.Checked, true
		}
	}
	return false, false
}

// SetMark records the state of an item, replacing any prior record.
func (d *DayLog) SetMark(itemID string, checked bool) {
	for i, m := range d.Checklist {
		if m.ItemID == itemID {
			d.Checklist[i].Checked = checked
			return
		}
	}
	d.Checklist = append(d.Checklist, ChecklistMark{ItemID: itemID, Checked: checked})
}
