package repo

import (
	"path/filepath"
	"testing"

	"github.com/julianstephens/dopalog/internal/constants"
	apperrors "github.com/julianstephens/dopalog/internal/errors"
	"github.com/julianstephens/dopalog/internal/models"
	"github.com/julianstephens/dopalog/internal/storage/sqlite"
)

func setupRepo(t *testing.T) *Repository {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "dopalog-test.db")
	store := sqlite.NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return New(store)
}

// sumForDay recomputes a day's total minutes straight from the entry rows.
func sumForDay(t *testing.T, r *Repository, day string) int {
	t.Helper()
	entries, err := r.EntriesForDay(day)
	if err != nil {
		t.Fatalf("EntriesForDay(%s) failed: %v", day, err)
	}
	total := 0
	for _, e := range entries {
		total += e.Minutes
	}
	return total
}

// checkSumInvariant asserts DayLog.TotalFastMin equals the entry sum.
func checkSumInvariant(t *testing.T, r *Repository, day string) {
	t.Helper()
	d, err := r.Day(day)
	if err != nil {
		t.Fatalf("Day(%s) failed: %v", day, err)
	}
	if want := sumForDay(t, r, day); d.TotalFastMin != want {
		t.Errorf("day %s: TotalFastMin = %d, want entry sum %d", day, d.TotalFastMin, want)
	}
}

func TestSettingsLazyDefaults(t *testing.T) {
	r := setupRepo(t)

	settings, err := r.Settings()
	if err != nil {
		t.Fatalf("Settings() failed: %v", err)
	}
	if settings.WeeklyAllowanceMin != constants.DefaultWeeklyAllowanceMin {
		t.Errorf("WeeklyAllowanceMin = %d, want default %d", settings.WeeklyAllowanceMin, constants.DefaultWeeklyAllowanceMin)
	}
	if settings.AllowanceMode != constants.AllowanceAbsolute {
		t.Errorf("AllowanceMode = %q, want %q", settings.AllowanceMode, constants.AllowanceAbsolute)
	}
	if settings.UpdatedAt.IsZero() {
		t.Error("UpdatedAt not set on lazily created settings")
	}

	// Second read returns the persisted row, not a fresh default.
	again, err := r.Settings()
	if err != nil {
		t.Fatalf("second Settings() failed: %v", err)
	}
	if !again.UpdatedAt.Equal(settings.UpdatedAt) {
		t.Error("second read recreated the settings row")
	}
}

func TestSaveSettingsMergePatch(t *testing.T) {
	r := setupRepo(t)

	allowance := 300
	theme := "dark"
	saved, err := r.SaveSettings(models.SettingsPatch{
		WeeklyAllowanceMin: &allowance,
		Theme:              &theme,
	})
	if err != nil {
		t.Fatalf("SaveSettings failed: %v", err)
	}
	if saved.WeeklyAllowanceMin != 300 || saved.Theme != "dark" {
		t.Errorf("patched fields not applied: %+v", saved)
	}
	if len(saved.Categories) == 0 {
		t.Error("unpatched categories were lost in the merge")
	}

	t.Run("percent mode requires leisure minutes", func(t *testing.T) {
		mode := constants.AllowancePercentOfLeisure
		zero := 0
		_, err := r.SaveSettings(models.SettingsPatch{AllowanceMode: &mode, WeeklyLeisureMin: &zero})
		if !apperrors.IsValidation(err) {
			t.Errorf("expected validation error, got %v", err)
		}
	})
}

func TestAddEntry(t *testing.T) {
	r := setupRepo(t)

	entry, err := r.AddEntry("2025-03-10", models.EntryFields{
		Minutes:     25,
		Category:    "doomscrolling",
		Triggers:    []string{"boredom"},
		Replacement: "walk",
	})
	if err != nil {
		t.Fatalf("AddEntry failed: %v", err)
	}
	if entry.ID == "" || entry.CreatedAt.IsZero() {
		t.Error("AddEntry did not assign id and creation timestamp")
	}

	checkSumInvariant(t, r, "2025-03-10")

	d, err := r.Day("2025-03-10")
	if err != nil {
		t.Fatalf("Day failed: %v", err)
	}
	if d.TotalFastMin != 25 {
		t.Errorf("TotalFastMin = %d, want 25", d.TotalFastMin)
	}
	if d.ReplacementUsage["walk"] != 1 {
		t.Errorf("ReplacementUsage[walk] = %d, want 1", d.ReplacementUsage["walk"])
	}

	w, err := r.WeekSummary("2025-W11")
	if err != nil {
		t.Fatalf("WeekSummary failed: %v", err)
	}
	if w.TotalMin != 25 {
		t.Errorf("week TotalMin = %d, want 25", w.TotalMin)
	}
	if w.ByCategory["doomscrolling"] != 25 {
		t.Errorf("ByCategory[doomscrolling] = %d, want 25", w.ByCategory["doomscrolling"])
	}
}

func TestAddEntryValidation(t *testing.T) {
	r := setupRepo(t)

	tests := []struct {
		name    string
		day     string
		minutes int
	}{
		{"zero minutes", "2025-03-10", 0},
		{"negative minutes", "2025-03-10", -5},
		{"malformed day", "03/10/2025", 25},
		{"impossible day", "2025-02-30", 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.AddEntry(tt.day, models.EntryFields{Minutes: tt.minutes, Category: "video"})
			if !apperrors.IsValidation(err) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}

	// Nothing may have been stored by the rejected writes.
	entries, err := r.EntriesForDay("2025-03-10")
	if err != nil {
		t.Fatalf("EntriesForDay failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("rejected entries were stored: %d rows", len(entries))
	}
}

func TestAddEntryArbitraryCategory(t *testing.T) {
	// Categories are not validated against settings, so entries logged
	// under since-removed categories keep working.
	r := setupRepo(t)

	if _, err := r.AddEntry("2025-03-10", models.EntryFields{Minutes: 10, Category: "no-longer-configured"}); err != nil {
		t.Fatalf("AddEntry with unknown category failed: %v", err)
	}
}

func TestUpdateEntrySameDay(t *testing.T) {
	r := setupRepo(t)

	entry, err := r.AddEntry("2025-03-10", models.EntryFields{Minutes: 30, Category: "video"})
	if err != nil {
		t.Fatalf("AddEntry failed: %v", err)
	}

	minutes := 45
	category := "gaming"
	updated, err := r.UpdateEntry(entry.ID, models.EntryPatch{Minutes: &minutes, Category: &category})
	if err != nil {
		t.Fatalf("UpdateEntry failed: %v", err)
	}
	if updated.Minutes != 45 || updated.Category != "gaming" {
		t.Errorf("patch not applied: %+v", updated)
	}
	if updated.ID != entry.ID || !updated.CreatedAt.Equal(entry.CreatedAt) {
		t.Error("id or creation timestamp changed on update")
	}

	checkSumInvariant(t, r, "2025-03-10")

	w, err := r.WeekSummary("2025-W11")
	if err != nil {
		t.Fatalf("WeekSummary failed: %v", err)
	}
	if w.TotalMin != 45 {
		t.Errorf("week TotalMin = %d, want 45", w.TotalMin)
	}
	if w.ByCategory["video"] != 0 {
		t.Errorf("stale category total survived: %v", w.ByCategory)
	}
}

func TestUpdateEntryNotFound(t *testing.T) {
	r := setupRepo(t)

	minutes := 10
	_, err := r.UpdateEntry("no-such-id", models.EntryPatch{Minutes: &minutes})
	if !apperrors.IsNotFound(err) {
		t.Errorf("expected not-found error, got %v", err)
	}
}

func TestMoveEntryAcrossDays(t *testing.T) {
	r := setupRepo(t)

	// Both days inside the same ISO week.
	if _, err := r.AddEntry("2025-03-10", models.EntryFields{Minutes: 15, Category: "video"}); err != nil {
		t.Fatalf("AddEntry failed: %v", err)
	}
	entry, err := r.AddEntry("2025-03-10", models.EntryFields{Minutes: 40, Category: "gaming"})
	if err != nil {
		t.Fatalf("AddEntry failed: %v", err)
	}

	day := "2025-03-12"
	if _, err := r.UpdateEntry(entry.ID, models.EntryPatch{Day: &day}); err != nil {
		t.Fatalf("UpdateEntry failed: %v", err)
	}

	checkSumInvariant(t, r, "2025-03-10")
	checkSumInvariant(t, r, "2025-03-12")

	oldDay, _ := r.Day("2025-03-10")
	newDay, _ := r.Day("2025-03-12")
	if oldDay.TotalFastMin != 15 {
		t.Errorf("old day total = %d, want 15", oldDay.TotalFastMin)
	}
	if newDay.TotalFastMin != 40 {
		t.Errorf("new day total = %d, want 40", newDay.TotalFastMin)
	}

	w, err := r.WeekSummary("2025-W11")
	if err != nil {
		t.Fatalf("WeekSummary failed: %v", err)
	}
	if w.TotalMin != 55 {
		t.Errorf("week TotalMin = %d, want 55 (move within week must not change the total)", w.TotalMin)
	}
}

func TestMoveEntryAcrossWeeks(t *testing.T) {
	r := setupRepo(t)

	entry, err := r.AddEntry("2025-03-10", models.EntryFields{Minutes: 60, Category: "video"})
	if err != nil {
		t.Fatalf("AddEntry failed: %v", err)
	}

	// 2025-03-17 is the Monday of the following ISO week.
	day := "2025-03-17"
	if _, err := r.UpdateEntry(entry.ID, models.EntryPatch{Day: &day}); err != nil {
		t.Fatalf("UpdateEntry failed: %v", err)
	}

	checkSumInvariant(t, r, "2025-03-10")
	checkSumInvariant(t, r, "2025-03-17")

	oldWeek, err := r.WeekSummary("2025-W11")
	if err != nil {
		t.Fatalf("WeekSummary(old) failed: %v", err)
	}
	newWeek, err := r.WeekSummary("2025-W12")
	if err != nil {
		t.Fatalf("WeekSummary(new) failed: %v", err)
	}
	if oldWeek.TotalMin != 0 {
		t.Errorf("old week TotalMin = %d, want 0 after the move", oldWeek.TotalMin)
	}
	if newWeek.TotalMin != 60 {
		t.Errorf("new week TotalMin = %d, want 60 after the move", newWeek.TotalMin)
	}
}

func TestMoveEntryAcrossYearBoundaryWeek(t *testing.T) {
	r := setupRepo(t)

	// Dec 31 2024 and Jan 2 2025 share ISO week 2025-W01.
	entry, err := r.AddEntry("2024-12-31", models.EntryFields{Minutes: 20, Category: "video"})
	if err != nil {
		t.Fatalf("AddEntry failed: %v", err)
	}
	day := "2025-01-02"
	if _, err := r.UpdateEntry(entry.ID, models.EntryPatch{Day: &day}); err != nil {
		t.Fatalf("UpdateEntry failed: %v", err)
	}

	w, err := r.WeekSummary("2025-W01")
	if err != nil {
		t.Fatalf("WeekSummary failed: %v", err)
	}
	if w.TotalMin != 20 {
		t.Errorf("boundary week TotalMin = %d, want 20", w.TotalMin)
	}
}

func TestDeleteEntryIdempotent(t *testing.T) {
	r := setupRepo(t)

	entry, err := r.AddEntry("2025-03-10", models.EntryFields{Minutes: 30, Category: "video", Replacement: "walk"})
	if err != nil {
		t.Fatalf("AddEntry failed: %v", err)
	}

	if err := r.DeleteEntry(entry.ID); err != nil {
		t.Fatalf("DeleteEntry failed: %v", err)
	}
	checkSumInvariant(t, r, "2025-03-10")

	d, _ := r.Day("2025-03-10")
	if d.TotalFastMin != 0 {
		t.Errorf("TotalFastMin = %d after delete, want 0", d.TotalFastMin)
	}
	if d.ReplacementUsage["walk"] != 0 {
		t.Errorf("ReplacementUsage survived delete: %v", d.ReplacementUsage)
	}

	// Repeating the delete, and deleting ids that never existed, is a
	// silent no-op that leaves aggregates unchanged.
	if err := r.DeleteEntry(entry.ID); err != nil {
		t.Errorf("second DeleteEntry errored: %v", err)
	}
	if err := r.DeleteEntry("never-existed"); err != nil {
		t.Errorf("DeleteEntry of unknown id errored: %v", err)
	}
	checkSumInvariant(t, r, "2025-03-10")
}

func TestChecklistPreservedAcrossAggregation(t *testing.T) {
	r := setupRepo(t)

	if _, err := r.AddEntry("2025-03-10", models.EntryFields{Minutes: 30, Category: "video", Replacement: "walk"}); err != nil {
		t.Fatalf("AddEntry failed: %v", err)
	}

	// Toggling a checklist item must leave the denormalized totals alone.
	d, err := r.SetChecklistItem("2025-03-10", "plan-day", true)
	if err != nil {
		t.Fatalf("SetChecklistItem failed: %v", err)
	}
	if d.TotalFastMin != 30 || d.ReplacementUsage["walk"] != 1 {
		t.Errorf("checklist toggle disturbed aggregates: %+v", d)
	}

	if _, err := r.SetReflection("2025-03-10", "rough afternoon"); err != nil {
		t.Fatalf("SetReflection failed: %v", err)
	}

	// Adding an entry must preserve checklist state and reflection.
	if _, err := r.AddEntry("2025-03-10", models.EntryFields{Minutes: 10, Category: "gaming"}); err != nil {
		t.Fatalf("second AddEntry failed: %v", err)
	}

	d, err = r.Day("2025-03-10")
	if err != nil {
		t.Fatalf("Day failed: %v", err)
	}
	if checked, ok := d.Mark("plan-day"); !ok || !checked {
		t.Error("checklist state lost by entry aggregation")
	}
	if d.Reflection != "rough afternoon" {
		t.Errorf("reflection lost by entry aggregation: %q", d.Reflection)
	}
	if d.TotalFastMin != 40 {
		t.Errorf("TotalFastMin = %d, want 40", d.TotalFastMin)
	}
}

func TestSetChecklistItemUnknownItem(t *testing.T) {
	r := setupRepo(t)

	_, err := r.SetChecklistItem("2025-03-10", "not-in-template", true)
	if !apperrors.IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestWeekSummaryLazyMaterialization(t *testing.T) {
	r := setupRepo(t)

	w, err := r.WeekSummary("2025-W40")
	if err != nil {
		t.Fatalf("WeekSummary failed: %v", err)
	}
	if w.TotalMin != 0 || w.CapUsagePct != 0 {
		t.Errorf("empty week not zero-valued: %+v", w)
	}
	if w.StartDate != "2025-09-29" || w.EndDate != "2025-10-05" {
		t.Errorf("week range = [%s, %s], want [2025-09-29, 2025-10-05]", w.StartDate, w.EndDate)
	}

	// The lazily computed row must have been persisted.
	stored, err := r.Store().GetWeek("2025-W40")
	if err != nil {
		t.Fatalf("lazily materialized week was not stored: %v", err)
	}
	if stored.Week != "2025-W40" {
		t.Errorf("stored week id = %q", stored.Week)
	}
}

func TestWeekSummaryMalformedID(t *testing.T) {
	r := setupRepo(t)

	for _, weekID := range []string{"2025-40", "W40", "2025-W60"} {
		if _, err := r.WeekSummary(weekID); !apperrors.IsValidation(err) {
			t.Errorf("WeekSummary(%q): expected validation error, got %v", weekID, err)
		}
	}
}
