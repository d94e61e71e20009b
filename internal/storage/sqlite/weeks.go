package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	apperrors "github.com/julianstephens/dopalog/internal/errors"
	"github.com/julianstephens/dopalog/internal/models"
)

const weekColumns = "week, start_date, end_date, total_min, cap_min, cap_usage_pct, over_cap, by_category, replacement_usage, streak_active, updated_at"

func (s *Store) GetWeek(week string) (models.WeekSummary, error) {
	row := s.db.QueryRow(`
		SELECT `+weekColumns+` FROM week_summaries WHERE week = ?`, week)

	w, err := scanWeek(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.WeekSummary{}, apperrors.NotFound("week", week)
	}
	return w, err
}

// PutWeek writes the full week summary row with overwrite semantics. The
// row is a pure cache, so clobbering it is always safe.
func (s *Store) PutWeek(w models.WeekSummary) error {
	byCategory, err := json.Marshal(w.ByCategory)
	if err != nil {
		return fmt.Errorf("encoding category breakdown: %w", err)
	}
	usage, err := json.Marshal(w.ReplacementUsage)
	if err != nil {
		return fmt.Errorf("encoding replacement usage: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO week_summaries (`+weekColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(week) DO UPDATE SET
			start_date = excluded.start_date,
			end_date = excluded.end_date,
			total_min = excluded.total_min,
			cap_min = excluded.cap_min,
			cap_usage_pct = excluded.cap_usage_pct,
			over_cap = excluded.over_cap,
			by_category = excluded.by_category,
			replacement_usage = excluded.replacement_usage,
			streak_active = excluded.streak_active,
			updated_at = excluded.updated_at`,
		w.Week, w.StartDate, w.EndDate, w.TotalMin, w.CapMin, w.CapUsagePct,
		boolToInt(w.OverCap), string(byCategory), string(usage),
		boolToInt(w.StreakActive), w.UpdatedAt.Format(time.RFC3339))

	return err
}

// GetWeeksInRange returns summaries whose start_date falls in
// [startDay, endDay], ordered by start_date.
func (s *Store) GetWeeksInRange(startDay, endDay string) ([]models.WeekSummary, error) {
	rows, err := s.db.Query(`
		SELECT `+weekColumns+` FROM week_summaries
		WHERE start_date >= ? AND start_date <= ?
		ORDER BY start_date`, startDay, endDay)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var weeks []models.WeekSummary
	for rows.Next() {
		w, err := scanWeek(rows)
		if err != nil {
			return nil, err
		}
		weeks = append(weeks, w)
	}
	return weeks, rows.Err()
}

func scanWeek(row rowScanner) (models.WeekSummary, error) {
	var w models.WeekSummary
	var byCategory, usage, updatedAt string
	var overCap, streakActive int

	if err := row.Scan(&w.Week, &w.StartDate, &w.EndDate, &w.TotalMin, &w.CapMin,
		&w.CapUsagePct, &overCap, &byCategory, &usage, &streakActive, &updatedAt); err != nil {
		return models.WeekSummary{}, err
	}

	if err := json.Unmarshal([]byte(byCategory), &w.ByCategory); err != nil {
		return models.WeekSummary{}, fmt.Errorf("parsing category breakdown for week %s: %w", w.Week, err)
	}
	if err := json.Unmarshal([]byte(usage), &w.ReplacementUsage); err != nil {
		return models.WeekSummary{}, fmt.Errorf("parsing replacement usage for week %s: %w", w.Week, err)
	}
	t, err := time.Parse(time.RFC3339, updatedAt)
	if err != nil {
		return models.WeekSummary{}, fmt.Errorf("failed to parse updated_at for week %s: %w", w.Week, err)
	}
	w.UpdatedAt = t
	w.OverCap = overCap != 0
	w.StreakActive = streakActive != 0

	return w, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
