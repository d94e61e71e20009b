package constants

const (
	// Settings keys as persisted in the settings table
	SettingWeeklyAllowanceMin  = "weekly_allowance_min"
	SettingAllowanceMode       = "allowance_mode"
	SettingWeeklyLeisureMin    = "weekly_leisure_min"
	SettingChecklistTemplate   = "checklist_template"
	SettingCategories          = "categories"
	SettingReplacementOptions  = "replacement_options"
	SettingTriggerPresets      = "trigger_presets"
	SettingTheme               = "theme"
	SettingAccentHue           = "accent_hue"
	SettingEncryptExports      = "encrypt_exports"
	SettingUpdatedAt           = "updated_at"

	// Default settings values
	DefaultWeeklyAllowanceMin = 240
	DefaultAllowanceMode      = string(AllowanceAbsolute)
	DefaultWeeklyLeisureMin   = 0
	DefaultTheme              = "system"
	DefaultAccentHue          = 210
)

// DefaultCategories seed the activity category list on first run.
var DefaultCategories = []string{"doomscrolling", "video", "gaming", "snacking", "other"}

// DefaultReplacementOptions seed the replacement-activity list on first run.
var DefaultReplacementOptions = []string{"walk", "stretch", "read", "water", "breathe"}

// DefaultTriggerPresets seed the trigger tag presets on first run.
var DefaultTriggerPresets = []string{"boredom", "stress", "tiredness", "procrastination", "habit"}
