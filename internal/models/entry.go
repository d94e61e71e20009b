package models

import "time"

// Entry is a single logged fast-dopamine activity. Entries are the source
// of truth for minutes and categories; day and week aggregates are caches
// derived from them.
type Entry struct {
	ID          string    `json:"id"`
	Day         string    `json:"day"` // YYYY-MM-DD
	Minutes     int       `json:"minutes"`
	Category    string    `json:"category"`
	Triggers    []string  `json:"triggers,omitempty"`
	Note        string    `json:"note,omitempty"`
	Replacement string    `json:"replacement,omitempty"` // replacement activity done instead/afterwards
	CreatedAt   time.Time `json:"created_at"`
}

// EntryFields are the caller-supplied fields of a new entry; id and
// creation timestamp are generated on insert.
type EntryFields struct {
	Minutes     int      `json:"minutes"`
	Category    string   `json:"category"`
	Triggers    []string `json:"triggers,omitempty"`
	Note        string   `json:"note,omitempty"`
	Replacement string   `json:"replacement,omitempty"`
}

// EntryPatch is a partial entry update; nil fields are left untouched.
// Day may change, moving the entry to another day (and possibly week).
type EntryPatch struct {
	Day         *string   `json:"day,omitempty"`
	Minutes     *int      `json:"minutes,omitempty"`
	Category    *string   `json:"category,omitempty"`
	Triggers    *[]string `json:"triggers,omitempty"`
	Note        *string   `json:"note,omitempty"`
	Replacement *string   `json:"replacement,omitempty"`
}

// Apply merges a patch into the entry, replacing only non-nil fields.
// The id and creation timestamp are immutable.
func (e Entry) Apply(patch EntryPatch) Entry {
	if patch.Day != nil {
		e.Day = *patch.Day
	}
	if patch.Minutes != nil {
		e.Minutes = *patch.Minutes
	}
	if patch.Category != nil {
		e.Category = *patch.Category
	}
	if patch.Triggers != nil {
		e.Triggers = *patch.Triggers
	}
	if patch.Note != nil {
		e.Note = *patch.Note
	}
	if patch.Replacement != nil {
		e.Replacement = *patch.Replacement
	}
	return e
}
