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

const dayColumns = "day, checklist, reflection, total_fast_min, replacement_usage, updated_at"

func (s *Store) GetDay(day string) (models.DayLog, error) {
	row := s.db.QueryRow(`
		SELECT `+dayColumns+` FROM day_logs WHERE day = ?`, day)

	d, err := scanDay(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.DayLog{}, apperrors.NotFound("day", day)
	}
	return d, err
}

// PutDay writes the full day row. Callers own preserving checklist state
// and reflection text across writes; this is a destructive put.
func (s *Store) PutDay(d models.DayLog) error {
	checklist, err := json.Marshal(d.Checklist)
	if err != nil {
		return fmt.Errorf("encoding checklist: %w", err)
	}
	usage, err := json.Marshal(d.ReplacementUsage)
	if err != nil {
		return fmt.Errorf("encoding replacement usage: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO day_logs (`+dayColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(day) DO UPDATE SET
			checklist = excluded.checklist,
			reflection = excluded.reflection,
			total_fast_min = excluded.total_fast_min,
			replacement_usage = excluded.replacement_usage,
			updated_at = excluded.updated_at`,
		d.Day, string(checklist), d.Reflection, d.TotalFastMin, string(usage),
		d.UpdatedAt.Format(time.RFC3339))

	return err
}

// GetDaysInRange returns day logs with startDay <= day <= endDay in order.
func (s *Store) GetDaysInRange(startDay, endDay string) ([]models.DayLog, error) {
	rows, err := s.db.Query(`
		SELECT `+dayColumns+` FROM day_logs
		WHERE day >= ? AND day <= ?
		ORDER BY day`, startDay, endDay)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var days []models.DayLog
	for rows.Next() {
		d, err := scanDay(rows)
		if err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	return days, rows.Err()
}

func scanDay(row rowScanner) (models.DayLog, error) {
	var d models.DayLog
	var checklist, usage, updatedAt string

	if err := row.Scan(&d.Day, &checklist, &d.Reflection, &d.TotalFastMin, &usage, &updatedAt); err != nil {
		return models.DayLog{}, err
	}

	if err := json.Unmarshal([]byte(checklist), &d.Checklist); err != nil {
		return models.DayLog{}, fmt.Errorf("parsing checklist for day %s: %w", d.Day, err)
	}
	if err := json.Unmarshal([]byte(usage), &d.ReplacementUsage); err != nil {
		return models.DayLog{}, fmt.Errorf("parsing replacement usage for day %s: %w", d.Day, err)
	}
	t, err := time.Parse(time.RFC3339, updatedAt)
	if err != nil {
		return models.DayLog{}, fmt.Errorf("failed to parse updated_at for day %s: %w", d.Day, err)
	}
	d.UpdatedAt = t

	return d, nil
}
