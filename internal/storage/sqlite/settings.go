package sqlite

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/julianstephens/dopalog/internal/constants"
	apperrors "github.com/julianstephens/dopalog/internal/errors"
	"github.com/julianstephens/dopalog/internal/models"
)

func (s *Store) GetSettings() (models.Settings, error) {
	rows, err := s.db.Query("SELECT key, value FROM settings")
	if err != nil {
		return models.Settings{}, err
	}
	defer rows.Close()

	settings := models.Settings{}
	count := 0
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return models.Settings{}, err
		}
		switch key {
		case constants.SettingWeeklyAllowanceMin:
			if _, err := fmt.Sscanf(value, "%d", &settings.WeeklyAllowanceMin); err != nil {
				return models.Settings{}, fmt.Errorf("parsing %s: %w", key, err)
			}
		case constants.SettingAllowanceMode:
			settings.AllowanceMode = constants.AllowanceMode(value)
		case constants.SettingWeeklyLeisureMin:
			if _, err := fmt.Sscanf(value, "%d", &settings.WeeklyLeisureMin); err != nil {
				return models.Settings{}, fmt.Errorf("parsing %s: %w", key, err)
			}
		case constants.SettingChecklistTemplate:
			if err := json.Unmarshal([]byte(value), &settings.Checklist); err != nil {
				return models.Settings{}, fmt.Errorf("parsing %s: %w", key, err)
			}
		case constants.SettingCategories:
			if err := json.Unmarshal([]byte(value), &settings.Categories); err != nil {
				return models.Settings{}, fmt.Errorf("parsing %s: %w", key, err)
			}
		case constants.SettingReplacementOptions:
			if err := json.Unmarshal([]byte(value), &settings.ReplacementOptions); err != nil {
				return models.Settings{}, fmt.Errorf("parsing %s: %w", key, err)
			}
		case constants.SettingTriggerPresets:
			if err := json.Unmarshal([]byte(value), &settings.TriggerPresets); err != nil {
				return models.Settings{}, fmt.Errorf("parsing %s: %w", key, err)
			}
		case constants.SettingTheme:
			settings.Theme = value
		case constants.SettingAccentHue:
			if _, err := fmt.Sscanf(value, "%d", &settings.AccentHue); err != nil {
				return models.Settings{}, fmt.Errorf("parsing %s: %w", key, err)
			}
		case constants.SettingEncryptExports:
			settings.EncryptExports = value == "true"
		case constants.SettingUpdatedAt:
			t, err := time.Parse(time.RFC3339, value)
			if err != nil {
				return models.Settings{}, fmt.Errorf("parsing %s: %w", key, err)
			}
			settings.UpdatedAt = t
		}
		count++
	}
	if err := rows.Err(); err != nil {
		return models.Settings{}, err
	}

	if count == 0 {
		return models.Settings{}, apperrors.NotFound("settings", "singleton")
	}

	return settings, nil
}

func (s *Store) SaveSettings(settings models.Settings) error {
	checklist, err := json.Marshal(settings.Checklist)
	if err != nil {
		return fmt.Errorf("encoding checklist template: %w", err)
	}
	categories, err := json.Marshal(settings.Categories)
	if err != nil {
		return fmt.Errorf("encoding categories: %w", err)
	}
	replacements, err := json.Marshal(settings.ReplacementOptions)
	if err != nil {
		return fmt.Errorf("encoding replacement options: %w", err)
	}
	triggers, err := json.Marshal(settings.TriggerPresets)
	if err != nil {
		return fmt.Errorf("encoding trigger presets: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	pairs := []struct {
		key   string
		value string
	}{
		{constants.SettingWeeklyAllowanceMin, fmt.Sprintf("%d", settings.WeeklyAllowanceMin)},
		{constants.SettingAllowanceMode, string(settings.AllowanceMode)},
		{constants.SettingWeeklyLeisureMin, fmt.Sprintf("%d", settings.WeeklyLeisureMin)},
		{constants.SettingChecklistTemplate, string(checklist)},
		{constants.SettingCategories, string(categories)},
		{constants.SettingReplacementOptions, string(replacements)},
		{constants.SettingTriggerPresets, string(triggers)},
		{constants.SettingTheme, settings.Theme},
		{constants.SettingAccentHue, fmt.Sprintf("%d", settings.AccentHue)},
		{constants.SettingEncryptExports, fmt.Sprintf("%v", settings.EncryptExports)},
		{constants.SettingUpdatedAt, settings.UpdatedAt.Format(time.RFC3339)},
	}
	for _, p := range pairs {
		if _, err := stmt.Exec(p.key, p.value); err != nil {
			return err
		}
	}

	return tx.Commit()
}
