package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	apperrors "github.com/julianstephens/dopalog/internal/errors"
	"github.com/julianstephens/dopalog/internal/models"
	"github.com/julianstephens/dopalog/internal/storage"
)

const entryColumns = "id, day, minutes, category, triggers, note, replacement, created_at"

// InsertEntry inserts a new entry, failing with storage.ErrDuplicate if an
// entry with the same id already exists.
func (s *Store) InsertEntry(entry models.Entry) error {
	triggers, err := json.Marshal(entry.Triggers)
	if err != nil {
		return fmt.Errorf("encoding triggers: %w", err)
	}

	result, err := s.db.Exec(`
		INSERT OR IGNORE INTO entries (`+entryColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.Day, entry.Minutes, entry.Category, string(triggers),
		entry.Note, entry.Replacement, entry.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("entry %s: %w", entry.ID, storage.ErrDuplicate)
	}
	return nil
}

// PutEntry upserts an entry by id.
func (s *Store) PutEntry(entry models.Entry) error {
	triggers, err := json.Marshal(entry.Triggers)
	if err != nil {
		return fmt.Errorf("encoding triggers: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO entries (`+entryColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			day = excluded.day,
			minutes = excluded.minutes,
			category = excluded.category,
			triggers = excluded.triggers,
			note = excluded.note,
			replacement = excluded.replacement`,
		entry.ID, entry.Day, entry.Minutes, entry.Category, string(triggers),
		entry.Note, entry.Replacement, entry.CreatedAt.Format(time.RFC3339))

	return err
}

func (s *Store) GetEntry(id string) (models.Entry, error) {
	row := s.db.QueryRow(`
		SELECT `+entryColumns+` FROM entries WHERE id = ?`, id)

	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Entry{}, apperrors.NotFound("entry", id)
	}
	return entry, err
}

// DeleteEntry removes an entry by id, reporting whether a row was deleted.
func (s *Store) DeleteEntry(id string) (bool, error) {
	result, err := s.db.Exec("DELETE FROM entries WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

// GetEntriesForDay returns a day's entries ordered by creation time, id as
// tie-break.
func (s *Store) GetEntriesForDay(day string) ([]models.Entry, error) {
	rows, err := s.db.Query(`
		SELECT `+entryColumns+` FROM entries
		WHERE day = ?
		ORDER BY created_at, id`, day)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectEntries(rows)
}

// GetEntriesInRange returns all entries with startDay <= day <= endDay,
// ordered by day then creation time.
func (s *Store) GetEntriesInRange(startDay, endDay string) ([]models.Entry, error) {
	rows, err := s.db.Query(`
		SELECT `+entryColumns+` FROM entries
		WHERE day >= ? AND day <= ?
		ORDER BY day, created_at, id`, startDay, endDay)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectEntries(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (models.Entry, error) {
	var e models.Entry
	var triggers, createdAt string

	if err := row.Scan(&e.ID, &e.Day, &e.Minutes, &e.Category, &triggers, &e.Note, &e.Replacement, &createdAt); err != nil {
		return models.Entry{}, err
	}

	if err := json.Unmarshal([]byte(triggers), &e.Triggers); err != nil {
		return models.Entry{}, fmt.Errorf("parsing triggers for entry %s: %w", e.ID, err)
	}
	t, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return models.Entry{}, fmt.Errorf("failed to parse created_at for entry %s: %w", e.ID, err)
	}
	e.CreatedAt = t

	return e, nil
}

func collectEntries(rows *sql.Rows) ([]models.Entry, error) {
	var entries []models.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
