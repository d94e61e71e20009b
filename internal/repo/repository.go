package repo

import (
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/dopalog/internal/calendar"
	"github.com/julianstephens/dopalog/internal/constants"
	apperrors "github.com/julianstephens/dopalog/internal/errors"
	"github.com/julianstephens/dopalog/internal/logger"
	"github.com/julianstephens/dopalog/internal/models"
	"github.com/julianstephens/dopalog/internal/storage"
)

// Repository is the single entry point for all reads and writes. Every
// entry mutation runs the aggregation recompute before returning, so
// callers always observe day and week totals consistent with the entry
// table. The design assumes a single logical writer.
type Repository struct {
	store storage.Provider
}

// New creates a repository over a loaded store.
func New(store storage.Provider) *Repository {
	return &Repository{store: store}
}

// Store exposes the underlying provider for maintenance commands.
func (r *Repository) Store() storage.Provider {
	return r.store
}

// Settings returns the singleton settings row, creating it with defaults
// on first read.
func (r *Repository) Settings() (models.Settings, error) {
	settings, err := r.store.GetSettings()
	if err == nil {
		return settings, nil
	}
	if !apperrors.IsNotFound(err) {
		return models.Settings{}, err
	}

	settings = models.DefaultSettings()
	// RFC3339 storage keeps second precision; stamp accordingly.
	settings.UpdatedAt = time.Now().UTC().Truncate(time.Second)
	if err := r.store.SaveSettings(settings); err != nil {
		return models.Settings{}, err
	}
	logger.Info("Created default settings")
	return settings, nil
}

// SaveSettings merge-patches the settings row and refreshes its timestamp.
func (r *Repository) SaveSettings(patch models.SettingsPatch) (models.Settings, error) {
	current, err := r.Settings()
	if err != nil {
		return models.Settings{}, err
	}

	merged := current.Apply(patch)
	if err := validateSettings(merged); err != nil {
		return models.Settings{}, err
	}
	merged.UpdatedAt = time.Now().UTC().Truncate(time.Second)

	if err := r.store.SaveSettings(merged); err != nil {
		return models.Settings{}, err
	}
	return merged, nil
}

// Day returns the stored day log, or a zero-valued one for days with no
// state yet. Day rows materialize on first checklist interaction,
// reflection, or entry.
func (r *Repository) Day(day string) (models.DayLog, error) {
	if _, err := calendar.ParseDay(day); err != nil {
		return models.DayLog{}, err
	}
	d, err := r.store.GetDay(day)
	if apperrors.IsNotFound(err) {
		return models.DayLog{Day: day}, nil
	}
	return d, err
}

// DaysInRange returns stored day logs in [startDay, endDay] inclusive.
func (r *Repository) DaysInRange(startDay, endDay string) ([]models.DayLog, error) {
	if err := validateRange(startDay, endDay); err != nil {
		return nil, err
	}
	return r.store.GetDaysInRange(startDay, endDay)
}

// SetChecklistItem records the completion state of a checklist item for a
// day. Denormalized totals are carried over untouched.
func (r *Repository) SetChecklistItem(day, itemID string, checked bool) (models.DayLog, error) {
	settings, err := r.Settings()
	if err != nil {
		return models.DayLog{}, err
	}
	if _, ok := settings.TemplateItem(itemID); !ok {
		return models.DayLog{}, apperrors.Invalid("item", "%q is not in the checklist template", itemID)
	}

	d, err := r.Day(day)
	if err != nil {
		return models.DayLog{}, err
	}
	d.SetMark(itemID, checked)
	d.UpdatedAt = time.Now().UTC().Truncate(time.Second)

	if err := r.store.PutDay(d); err != nil {
		return models.DayLog{}, err
	}
	return d, nil
}

// SetReflection sets a day's free-text reflection.
func (r *Repository) SetReflection(day, text string) (models.DayLog, error) {
	d, err := r.Day(day)
	if err != nil {
		return models.DayLog{}, err
	}
	d.Reflection = text
	d.UpdatedAt = time.Now().UTC().Truncate(time.Second)

	if err := r.store.PutDay(d); err != nil {
		return models.DayLog{}, err
	}
	return d, nil
}

// UpsertDay writes a full day row as-is. Callers importing foreign day
// rows are expected to recompute the day afterwards so the denormalized
// totals match the entries actually present.
func (r *Repository) UpsertDay(d models.DayLog) error {
	if _, err := calendar.ParseDay(d.Day); err != nil {
		return err
	}
	d.UpdatedAt = time.Now().UTC().Truncate(time.Second)
	return r.store.PutDay(d)
}

// AddEntry logs a new activity entry for a day and recomputes the affected
// day and week aggregates before returning the stored entry.
func (r *Repository) AddEntry(day string, fields models.EntryFields) (models.Entry, error) {
	entry := models.Entry{
		ID:          uuid.NewString(),
		Day:         day,
		Minutes:     fields.Minutes,
		Category:    fields.Category,
		Triggers:    fields.Triggers,
		Note:        fields.Note,
		Replacement: fields.Replacement,
		CreatedAt:   time.Now().UTC().Truncate(time.Second),
	}
	if err := r.insertEntry(entry); err != nil {
		return models.Entry{}, err
	}
	return entry, nil
}

// RestoreEntry re-inserts an entry preserving its id and creation
// timestamp, recomputing aggregates like any other add. Duplicate ids fail
// with storage.ErrDuplicate; import treats that as "already present".
func (r *Repository) RestoreEntry(entry models.Entry) error {
	return r.insertEntry(entry)
}

// UpdateEntry shallow-merges a patch into an entry. When the patch moves
// the entry to another day, both the old and new day (and their weeks, when
// they differ) are recomputed, in sequence.
func (r *Repository) UpdateEntry(id string, patch models.EntryPatch) (models.Entry, error) {
	existing, err := r.store.GetEntry(id)
	if err != nil {
		return models.Entry{}, err
	}

	updated := existing.Apply(patch)
	if err := validateEntry(updated); err != nil {
		return models.Entry{}, err
	}

	if err := r.store.PutEntry(updated); err != nil {
		return models.Entry{}, err
	}
	if err := r.recomputeAround(existing.Day, updated.Day); err != nil {
		return models.Entry{}, err
	}

	logger.Debug("Updated entry", "id", id, "from", existing.Day, "to", updated.Day)
	return updated, nil
}

// DeleteEntry removes an entry and recomputes its former day and week.
// Deleting an id that does not exist is a no-op, not an error.
func (r *Repository) DeleteEntry(id string) error {
	existing, err := r.store.GetEntry(id)
	if apperrors.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return err
	}

	if _, err := r.store.DeleteEntry(id); err != nil {
		return err
	}
	return r.recomputeAround(existing.Day, existing.Day)
}

// EntriesForDay returns a day's entries ordered by creation time.
func (r *Repository) EntriesForDay(day string) ([]models.Entry, error) {
	if _, err := calendar.ParseDay(day); err != nil {
		return nil, err
	}
	return r.store.GetEntriesForDay(day)
}

// EntriesInRange returns entries with days in [startDay, endDay] inclusive.
func (r *Repository) EntriesInRange(startDay, endDay string) ([]models.Entry, error) {
	if err := validateRange(startDay, endDay); err != nil {
		return nil, err
	}
	return r.store.GetEntriesInRange(startDay, endDay)
}

// WeekSummary returns the cached summary for a week, computing and storing
// it when absent. Weeks with no entries yield a zero-valued summary.
func (r *Repository) WeekSummary(weekID string) (models.WeekSummary, error) {
	w, err := r.store.GetWeek(weekID)
	if err == nil {
		return w, nil
	}
	if !apperrors.IsNotFound(err) {
		return models.WeekSummary{}, err
	}
	return r.RecomputeWeek(weekID)
}

// WeeksInRange returns stored summaries whose start date falls in
// [startDay, endDay].
func (r *Repository) WeeksInRange(startDay, endDay string) ([]models.WeekSummary, error) {
	if err := validateRange(startDay, endDay); err != nil {
		return nil, err
	}
	return r.store.GetWeeksInRange(startDay, endDay)
}

func validateRange(startDay, endDay string) error {
	if _, err := calendar.ParseDay(startDay); err != nil {
		return err
	}
	if _, err := calendar.ParseDay(endDay); err != nil {
		return err
	}
	if startDay > endDay {
		return apperrors.Invalid("range", "start %s after end %s", startDay, endDay)
	}
	return nil
}

func validateEntry(e models.Entry) error {
	if _, err := calendar.ParseDay(e.Day); err != nil {
		return err
	}
	if e.Minutes <= 0 {
		return apperrors.Invalid("minutes", "must be a positive integer, got %d", e.Minutes)
	}
	// Category and replacement strings are deliberately not checked against
	// the settings lists, so historical entries survive settings changes.
	return nil
}

func validateSettings(s models.Settings) error {
	switch s.AllowanceMode {
	case constants.AllowanceAbsolute:
	case constants.AllowancePercentOfLeisure:
		if s.WeeklyLeisureMin <= 0 {
			return apperrors.Invalid("weekly_leisure_min", "required for %s mode", constants.AllowancePercentOfLeisure)
		}
	default:
		return apperrors.Invalid("allowance_mode", "unknown mode %q", s.AllowanceMode)
	}
	if s.WeeklyAllowanceMin < 0 {
		return apperrors.Invalid("weekly_allowance_min", "must not be negative, got %d", s.WeeklyAllowanceMin)
	}
	return nil
}
