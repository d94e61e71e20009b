package repo

import (
	"math"
	"testing"

	"github.com/julianstephens/dopalog/internal/constants"
	"github.com/julianstephens/dopalog/internal/models"
)

func TestCapMinutes(t *testing.T) {
	tests := []struct {
		name     string
		settings models.Settings
		want     int
	}{
		{
			name:     "absolute mode",
			settings: models.Settings{AllowanceMode: constants.AllowanceAbsolute, WeeklyAllowanceMin: 240},
			want:     240,
		},
		{
			name:     "percent of leisure",
			settings: models.Settings{AllowanceMode: constants.AllowancePercentOfLeisure, WeeklyAllowanceMin: 10, WeeklyLeisureMin: 2800},
			want:     280,
		},
		{
			name:     "percent rounds to nearest minute",
			settings: models.Settings{AllowanceMode: constants.AllowancePercentOfLeisure, WeeklyAllowanceMin: 15, WeeklyLeisureMin: 1050},
			want:     158, // 157.5 rounds up
		},
		{
			name:     "zero allowance",
			settings: models.Settings{AllowanceMode: constants.AllowanceAbsolute, WeeklyAllowanceMin: 0},
			want:     0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CapMinutes(tt.settings); got != tt.want {
				t.Errorf("CapMinutes() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestWeekCapMathAbsolute(t *testing.T) {
	r := setupRepo(t)

	allowance := 240
	if _, err := r.SaveSettings(models.SettingsPatch{WeeklyAllowanceMin: &allowance}); err != nil {
		t.Fatalf("SaveSettings failed: %v", err)
	}

	// Entries spread over the week of 2025-03-10, totalling 300 minutes.
	for _, e := range []struct {
		day string
		min int
	}{
		{"2025-03-10", 120},
		{"2025-03-12", 100},
		{"2025-03-16", 80},
	} {
		if _, err := r.AddEntry(e.day, models.EntryFields{Minutes: e.min, Category: "video"}); err != nil {
			t.Fatalf("AddEntry(%s) failed: %v", e.day, err)
		}
	}

	w, err := r.WeekSummary("2025-W11")
	if err != nil {
		t.Fatalf("WeekSummary failed: %v", err)
	}
	if w.CapMin != 240 {
		t.Errorf("CapMin = %d, want 240", w.CapMin)
	}
	if math.Abs(w.CapUsagePct-125.0) > 1e-9 {
		t.Errorf("CapUsagePct = %v, want 125.0", w.CapUsagePct)
	}
	if !w.OverCap {
		t.Error("OverCap = false, want true")
	}
	if w.StreakActive {
		t.Error("StreakActive = true for an over-cap week")
	}
}

func TestWeekCapMathPercentOfLeisure(t *testing.T) {
	r := setupRepo(t)

	mode := constants.AllowancePercentOfLeisure
	percent := 10
	leisure := 2800
	if _, err := r.SaveSettings(models.SettingsPatch{
		AllowanceMode:      &mode,
		WeeklyAllowanceMin: &percent,
		WeeklyLeisureMin:   &leisure,
	}); err != nil {
		t.Fatalf("SaveSettings failed: %v", err)
	}

	if _, err := r.AddEntry("2025-03-11", models.EntryFields{Minutes: 140, Category: "gaming"}); err != nil {
		t.Fatalf("AddEntry failed: %v", err)
	}

	w, err := r.WeekSummary("2025-W11")
	if err != nil {
		t.Fatalf("WeekSummary failed: %v", err)
	}
	if w.CapMin != 280 {
		t.Errorf("CapMin = %d, want 280", w.CapMin)
	}
	if math.Abs(w.CapUsagePct-50.0) > 1e-9 {
		t.Errorf("CapUsagePct = %v, want 50.0", w.CapUsagePct)
	}
	if w.OverCap {
		t.Error("OverCap = true, want false")
	}
	if !w.StreakActive {
		t.Error("StreakActive = false for an in-cap week")
	}
}

func TestWeekZeroCapGuard(t *testing.T) {
	r := setupRepo(t)

	zero := 0
	if _, err := r.SaveSettings(models.SettingsPatch{WeeklyAllowanceMin: &zero}); err != nil {
		t.Fatalf("SaveSettings failed: %v", err)
	}
	if _, err := r.AddEntry("2025-03-11", models.EntryFields{Minutes: 60, Category: "video"}); err != nil {
		t.Fatalf("AddEntry failed: %v", err)
	}

	w, err := r.WeekSummary("2025-W11")
	if err != nil {
		t.Fatalf("WeekSummary failed: %v", err)
	}
	if w.CapUsagePct != 0 {
		t.Errorf("CapUsagePct = %v with zero cap, want 0", w.CapUsagePct)
	}
	if w.OverCap {
		t.Error("OverCap = true with zero cap, want false")
	}
}

func TestRecomputeWeekAfterSettingsChange(t *testing.T) {
	// Week summaries cache the cap that was current at recompute time; an
	// explicit recompute picks up new settings.
	r := setupRepo(t)

	if _, err := r.AddEntry("2025-03-11", models.EntryFields{Minutes: 200, Category: "video"}); err != nil {
		t.Fatalf("AddEntry failed: %v", err)
	}

	w, err := r.WeekSummary("2025-W11")
	if err != nil {
		t.Fatalf("WeekSummary failed: %v", err)
	}
	if w.OverCap {
		t.Fatalf("200 of %d minutes unexpectedly over cap", w.CapMin)
	}

	allowance := 100
	if _, err := r.SaveSettings(models.SettingsPatch{WeeklyAllowanceMin: &allowance}); err != nil {
		t.Fatalf("SaveSettings failed: %v", err)
	}

	w, err = r.RecomputeWeek("2025-W11")
	if err != nil {
		t.Fatalf("RecomputeWeek failed: %v", err)
	}
	if w.CapMin != 100 || !w.OverCap {
		t.Errorf("recompute did not pick up new settings: cap=%d overCap=%v", w.CapMin, w.OverCap)
	}
}

func TestWeekBreakdowns(t *testing.T) {
	r := setupRepo(t)

	entries := []models.EntryFields{
		{Minutes: 30, Category: "video", Replacement: "walk"},
		{Minutes: 20, Category: "video"},
		{Minutes: 10, Category: "snacking", Replacement: "walk"},
		{Minutes: 40, Category: "gaming", Replacement: "read"},
	}
	for _, f := range entries {
		if _, err := r.AddEntry("2025-03-13", f); err != nil {
			t.Fatalf("AddEntry failed: %v", err)
		}
	}

	w, err := r.WeekSummary("2025-W11")
	if err != nil {
		t.Fatalf("WeekSummary failed: %v", err)
	}
	if w.ByCategory["video"] != 50 || w.ByCategory["snacking"] != 10 || w.ByCategory["gaming"] != 40 {
		t.Errorf("ByCategory = %v", w.ByCategory)
	}
	if w.ReplacementUsage["walk"] != 2 || w.ReplacementUsage["read"] != 1 {
		t.Errorf("ReplacementUsage = %v", w.ReplacementUsage)
	}

	d, err := r.Day("2025-03-13")
	if err != nil {
		t.Fatalf("Day failed: %v", err)
	}
	if d.ReplacementUsage["walk"] != 2 || d.ReplacementUsage["read"] != 1 {
		t.Errorf("day ReplacementUsage = %v", d.ReplacementUsage)
	}
}

func TestRecomputeDayRebuildsFromScratch(t *testing.T) {
	// A recompute request rebuilds a dropped or drifted aggregate without
	// touching checklist state.
	r := setupRepo(t)

	if _, err := r.AddEntry("2025-03-13", models.EntryFields{Minutes: 30, Category: "video"}); err != nil {
		t.Fatalf("AddEntry failed: %v", err)
	}
	if _, err := r.SetChecklistItem("2025-03-13", "reflect", true); err != nil {
		t.Fatalf("SetChecklistItem failed: %v", err)
	}

	// Corrupt the derived total directly in the store, then recompute.
	d, err := r.Store().GetDay("2025-03-13")
	if err != nil {
		t.Fatalf("GetDay failed: %v", err)
	}
	d.TotalFastMin = 999
	if err := r.Store().PutDay(d); err != nil {
		t.Fatalf("PutDay failed: %v", err)
	}

	if err := r.RecomputeDay("2025-03-13"); err != nil {
		t.Fatalf("RecomputeDay failed: %v", err)
	}

	d, err = r.Store().GetDay("2025-03-13")
	if err != nil {
		t.Fatalf("GetDay failed: %v", err)
	}
	if d.TotalFastMin != 30 {
		t.Errorf("TotalFastMin = %d after recompute, want 30", d.TotalFastMin)
	}
	if checked, ok := d.Mark("reflect"); !ok || !checked {
		t.Error("recompute dropped checklist state")
	}
}
