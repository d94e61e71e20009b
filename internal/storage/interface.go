package storage

import (
	"errors"

	"github.com/julianstephens/dopalog/internal/models"
)

// ErrDuplicate is returned by InsertEntry when an entry with the same id
// already exists. Import relies on it to skip already-present rows.
var ErrDuplicate = errors.New("duplicate entry id")

// Provider is the durable key-indexed store behind the repository. Point
// reads of absent rows fail with errors.ErrNotFound; storage faults (quota,
// disabled backend) propagate wrapped and are never retried here.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings (singleton)
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Activity entries
	InsertEntry(models.Entry) error
	PutEntry(models.Entry) error
	GetEntry(id string) (models.Entry, error)
	DeleteEntry(id string) (bool, error)
	GetEntriesForDay(day string) ([]models.Entry, error)
	GetEntriesInRange(startDay, endDay string) ([]models.Entry, error)

	// Day logs
	GetDay(day string) (models.DayLog, error)
	PutDay(models.DayLog) error
	GetDaysInRange(startDay, endDay string) ([]models.DayLog, error)

	// Week summaries
	GetWeek(week string) (models.WeekSummary, error)
	PutWeek(models.WeekSummary) error
	GetWeeksInRange(startDay, endDay string) ([]models.WeekSummary, error)

	// Utils
	GetConfigPath() string
}
