package repo

import (
	"math"
	"time"

	"github.com/julianstephens/dopalog/internal/calendar"
	"github.com/julianstephens/dopalog/internal/constants"
	apperrors "github.com/julianstephens/dopalog/internal/errors"
	"github.com/julianstephens/dopalog/internal/logger"
	"github.com/julianstephens/dopalog/internal/models"
)

// insertEntry validates and stores an entry, then recomputes its day and
// week. Shared by AddEntry and RestoreEntry.
func (r *Repository) insertEntry(entry models.Entry) error {
	if err := validateEntry(entry); err != nil {
		return err
	}
	if err := r.store.InsertEntry(entry); err != nil {
		return err
	}
	return r.recomputeAround(entry.Day, entry.Day)
}

// recomputeAround rebuilds the day and week aggregates touched by a
// mutation involving oldDay and newDay (equal for add/delete). Steps run
// in sequence; a week shared by both days is recomputed once.
func (r *Repository) recomputeAround(oldDay, newDay string) error {
	if err := r.RecomputeDay(oldDay); err != nil {
		return err
	}
	if newDay != oldDay {
		if err := r.RecomputeDay(newDay); err != nil {
			return err
		}
	}

	oldWeek, err := calendar.WeekIDOfDay(oldDay)
	if err != nil {
		return err
	}
	newWeek, err := calendar.WeekIDOfDay(newDay)
	if err != nil {
		return err
	}
	if _, err := r.RecomputeWeek(oldWeek); err != nil {
		return err
	}
	if newWeek != oldWeek {
		if _, err := r.RecomputeWeek(newWeek); err != nil {
			return err
		}
	}
	return nil
}

// RecomputeDay rebuilds a day's denormalized totals from its entries.
// Checklist state and reflection text are read first and written back
// unchanged; only the derived fields are replaced.
func (r *Repository) RecomputeDay(day string) error {
	if _, err := calendar.ParseDay(day); err != nil {
		return err
	}

	entries, err := r.store.GetEntriesForDay(day)
	if err != nil {
		return err
	}

	d, err := r.store.GetDay(day)
	if apperrors.IsNotFound(err) {
		d = models.DayLog{Day: day}
	} else if err != nil {
		return err
	}

	total := 0
	usage := map[string]int{}
	for _, e := range entries {
		total += e.Minutes
		if e.Replacement != "" {
			usage[e.Replacement]++
		}
	}

	d.TotalFastMin = total
	d.ReplacementUsage = usage
	d.UpdatedAt = time.Now().UTC()

	return r.store.PutDay(d)
}

// RecomputeWeek rebuilds a week's summary from the entries inside its date
// range and the current settings, overwriting the stored row.
func (r *Repository) RecomputeWeek(weekID string) (models.WeekSummary, error) {
	startDate, endDate, err := calendar.WeekRange(weekID)
	if err != nil {
		return models.WeekSummary{}, err
	}

	entries, err := r.store.GetEntriesInRange(startDate, endDate)
	if err != nil {
		return models.WeekSummary{}, err
	}
	settings, err := r.Settings()
	if err != nil {
		return models.WeekSummary{}, err
	}

	total := 0
	byCategory := map[string]int{}
	usage := map[string]int{}
	for _, e := range entries {
		total += e.Minutes
		byCategory[e.Category] += e.Minutes
		if e.Replacement != "" {
			usage[e.Replacement]++
		}
	}

	capMin := CapMinutes(settings)
	pct := 0.0
	if capMin > 0 {
		pct = float64(total) / float64(capMin) * 100
	}

	w := models.WeekSummary{
		Week:             weekID,
		StartDate:        startDate,
		EndDate:          endDate,
		TotalMin:         total,
		CapMin:           capMin,
		CapUsagePct:      pct,
		OverCap:          pct > 100,
		ByCategory:       byCategory,
		ReplacementUsage: usage,
		StreakActive:     pct <= 100,
		UpdatedAt:        time.Now().UTC(),
	}

	if err := r.store.PutWeek(w); err != nil {
		return models.WeekSummary{}, err
	}
	logger.Debug("Recomputed week", "week", weekID, "total_min", total, "cap_usage_pct", pct)
	return w, nil
}

// CapMinutes derives the weekly cap from settings: the allowance as-is in
// absolute mode, or a percentage of the weekly leisure budget.
func CapMinutes(s models.Settings) int {
	if s.AllowanceMode == constants.AllowancePercentOfLeisure {
		return int(math.Round(float64(s.WeeklyLeisureMin) * float64(s.WeeklyAllowanceMin) / 100))
	}
	return s.WeeklyAllowanceMin
}
