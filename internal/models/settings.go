package models

import (
	"time"

	"github.com/julianstephens/dopalog/internal/constants"
)

// ChecklistItem is a single item of the daily checklist template.
type ChecklistItem struct {
	ID             string `json:"id"`
	Label          string `json:"label"`
	DefaultChecked bool   `json:"default_checked"`
}

// ChecklistSection groups checklist items under a heading, in template order.
type ChecklistSection struct {
	Title string          `json:"title"`
	Items []ChecklistItem `json:"items"`
}

// Settings represents application-wide settings. Exactly one logical
// settings row exists; it is created lazily with defaults on first read.
type Settings struct {
	WeeklyAllowanceMin int                     `json:"weekly_allowance_min"` // minute cap, or percent when mode is percentOfLeisure
	AllowanceMode      constants.AllowanceMode `json:"allowance_mode"`
	WeeklyLeisureMin   int                     `json:"weekly_leisure_min"` // required when mode is percentOfLeisure
	Checklist          []ChecklistSection      `json:"checklist"`
	Categories         []string                `json:"categories"`
	ReplacementOptions []string                `json:"replacement_options"`
	TriggerPresets     []string                `json:"trigger_presets"`
	Theme              string                  `json:"theme"`
	AccentHue          int                     `json:"accent_hue"`
	EncryptExports     bool                    `json:"encrypt_exports"`
	UpdatedAt          time.Time               `json:"updated_at"`
}

// SettingsPatch is a partial settings update; nil fields are left untouched.
type SettingsPatch struct {
	WeeklyAllowanceMin *int                     `json:"weekly_allowance_min,omitempty"`
	AllowanceMode      *constants.AllowanceMode `json:"allowance_mode,omitempty"`
	WeeklyLeisureMin   *int                     `json:"weekly_leisure_min,omitempty"`
	Checklist          *[]ChecklistSection      `json:"checklist,omitempty"`
	Categories         *[]string                `json:"categories,omitempty"`
	ReplacementOptions *[]string                `json:"replacement_options,omitempty"`
	TriggerPresets     *[]string                `json:"trigger_presets,omitempty"`
	Theme              *string                  `json:"theme,omitempty"`
	AccentHue          *int                     `json:"accent_hue,omitempty"`
	EncryptExports     *bool                    `json:"encrypt_exports,omitempty"`
}

// DefaultSettings returns the settings seeded on first run.
func DefaultSettings() Settings {
	return Settings{
		WeeklyAllowanceMin: constants.DefaultWeeklyAllowanceMin,
		AllowanceMode:      constants.AllowanceAbsolute,
		WeeklyLeisureMin:   constants.DefaultWeeklyLeisureMin,
		Checklist: []ChecklistSection{
			{
				Title: "Morning",
				Items: []ChecklistItem{
					{ID: "no-phone-first-hour", Label: "No phone for the first hour"},
					{ID: "plan-day", Label: "Plan the day"},
				},
			},
			{
				Title: "Evening",
				Items: []ChecklistItem{
					{ID: "screens-off", Label: "Screens off an hour before bed"},
					{ID: "reflect", Label: "Write a short reflection"},
				},
			},
		},
		Categories:         append([]string(nil), constants.DefaultCategories...),
		ReplacementOptions: append([]string(nil), constants.DefaultReplacementOptions...),
		TriggerPresets:     append([]string(nil), constants.DefaultTriggerPresets...),
		Theme:              constants.DefaultTheme,
		AccentHue:          constants.DefaultAccentHue,
	}
}

// Apply merges a patch into the settings, replacing only non-nil fields.
func (s Settings) Apply(patch SettingsPatch) Settings {
	if patch.WeeklyAllowanceMin != nil {
		s.WeeklyAllowanceMin = *patch.WeeklyAllowanceMin
	}
	if patch.AllowanceMode != nil {
		s.AllowanceMode = *patch.AllowanceMode
	}
	if patch.WeeklyLeisureMin != nil {
		s.WeeklyLeisureMin = *patch.WeeklyLeisureMin
	}
	if patch.Checklist != nil {
		s.Checklist = *patch.Checklist
	}
	if patch.Categories != nil {
		s.Categories = *patch.Categories
	}
	if patch.ReplacementOptions != nil {
		s.ReplacementOptions = *patch.ReplacementOptions
	}
	if patch.TriggerPresets != nil {
		s.TriggerPresets = *patch.TriggerPresets
	}
	if patch.Theme != nil {
		s.Theme = *patch.Theme
	}
	if patch.AccentHue != nil {
		s.AccentHue = *patch.AccentHue
	}
	if patch.EncryptExports != nil {
		s.EncryptExports = *patch.EncryptExports
	}
	return s
}

// TemplateItem looks up a checklist item by id across all sections.
func (s Settings) TemplateItem(itemID string) (ChecklistItem, bool) {
	for _, section := range s.Checklist {
		for _, item := range section.Items {
			if item.ID == itemID {
				return item, true
			}
		}
	}
	return ChecklistItem{}, false
}
