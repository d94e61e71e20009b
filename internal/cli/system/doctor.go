package system

import (
	"fmt"
	"time"

	"github.com/julianstephens/dopalog/internal/backup"
	"github.com/julianstephens/dopalog/internal/calendar"
	"github.com/julianstephens/dopalog/internal/cli"
	"github.com/julianstephens/dopalog/internal/constants"
	"github.com/julianstephens/dopalog/internal/storage/sqlite"
)

// doctorWindowDays bounds the aggregate-consistency scan.
const doctorWindowDays = 28

type DoctorCmd struct {
	Fix bool `help:"Recompute any day or week aggregates found to be stale."`
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	dbReachable := false

	// Check 1: DB reachable
	if err := checkDBReachable(ctx); err != nil {
		fmt.Printf("❌ Database reachable: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Database reachable: OK\n")
		dbReachable = true
	}

	// Check 2: Schema version valid (only if DB is reachable)
	if dbReachable {
		if err := checkSchemaVersion(ctx); err != nil {
			fmt.Printf("❌ Schema version: FAIL\n")
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ Schema version: OK\n")
		}
	} else {
		fmt.Printf("⊘ Schema version: SKIPPED (database not reachable)\n")
	}

	// Check 3: Settings present and valid
	if dbReachable {
		if err := checkSettings(ctx); err != nil {
			fmt.Printf("❌ Settings: FAIL\n")
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ Settings: OK\n")
		}
	} else {
		fmt.Printf("⊘ Settings: SKIPPED (database not reachable)\n")
	}

	// Check 4: Backups present (warning only)
	if err := checkBackupsPresent(ctx); err != nil {
		fmt.Printf("⚠ Backups present: WARNING\n")
		fmt.Printf("   %v\n", err)
	} else {
		fmt.Printf("✓ Backups present: OK\n")
	}

	// Check 5: Entry date formats
	if dbReachable {
		if err := checkEntryDates(ctx); err != nil {
			fmt.Printf("❌ Entry date formats: FAIL\n")
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ Entry date formats: OK\n")
		}
	} else {
		fmt.Printf("⊘ Entry date formats: SKIPPED (database not reachable)\n")
	}

	// Check 6: Day aggregate consistency
	if dbReachable {
		if err := checkDayAggregates(ctx, cmd.Fix); err != nil {
			fmt.Printf("❌ Day aggregates: FAIL\n")
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ Day aggregates: OK\n")
		}
	} else {
		fmt.Printf("⊘ Day aggregates: SKIPPED (database not reachable)\n")
	}

	// Check 7: Week aggregate consistency
	if dbReachable {
		if err := checkWeekAggregates(ctx, cmd.Fix); err != nil {
			fmt.Printf("❌ Week aggregates: FAIL\n")
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ Week aggregates: OK\n")
		}
	} else {
		fmt.Printf("⊘ Week aggregates: SKIPPED (database not reachable)\n")
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	sqliteStore, ok := ctx.Store.(*sqlite.Store)
	if !ok {
		return fmt.Errorf("doctor only supports SQLite storage")
	}
	if err := sqliteStore.Open(); err != nil {
		return err
	}
	return sqliteStore.GetDB().Ping()
}

func checkSchemaVersion(ctx *cli.Context) error {
	return ctx.Store.Load()
}

func checkSettings(ctx *cli.Context) error {
	settings, err := ctx.Repo.Settings()
	if err != nil {
		return err
	}
	switch settings.AllowanceMode {
	case constants.AllowanceAbsolute:
	case constants.AllowancePercentOfLeisure:
		if settings.WeeklyLeisureMin <= 0 {
			return fmt.Errorf("percentOfLeisure mode with weekly leisure %d", settings.WeeklyLeisureMin)
		}
	default:
		return fmt.Errorf("unknown allowance mode %q", settings.AllowanceMode)
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	backups, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found; run 'dopalog backup create'")
	}
	return nil
}

func checkEntryDates(ctx *cli.Context) error {
	start, end := doctorWindow()
	entries, err := ctx.Repo.EntriesInRange(start, end)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if _, err := calendar.ParseDay(e.Day); err != nil {
			return fmt.Errorf("entry %s has malformed day %q", e.ID, e.Day)
		}
	}
	return nil
}

func checkDayAggregates(ctx *cli.Context, fix bool) error {
	start, end := doctorWindow()
	days, err := ctx.Repo.DaysInRange(start, end)
	if err != nil {
		return err
	}

	var stale []string
	for _, d := range days {
		entries, err := ctx.Repo.EntriesForDay(d.Day)
		if err != nil {
			return err
		}
		sum := 0
		for _, e := range entries {
			sum += e.Minutes
		}
		if sum != d.TotalFastMin {
			stale = append(stale, d.Day)
		}
	}

	if len(stale) == 0 {
		return nil
	}
	if !fix {
		return fmt.Errorf("%d day(s) with stale totals (%v); rerun with --fix", len(stale), stale)
	}
	for _, day := range stale {
		if err := ctx.Repo.RecomputeDay(day); err != nil {
			return fmt.Errorf("failed to recompute %s: %w", day, err)
		}
	}
	fmt.Printf("   Recomputed %d day(s)\n", len(stale))
	return nil
}

func checkWeekAggregates(ctx *cli.Context, fix bool) error {
	start, end := doctorWindow()
	weeks, err := ctx.Repo.WeeksInRange(start, end)
	if err != nil {
		return err
	}

	var stale []string
	for _, w := range weeks {
		if _, err := calendar.ParseWeekID(w.Week); err != nil {
			return fmt.Errorf("summary with malformed week id %q", w.Week)
		}
		entries, err := ctx.Repo.EntriesInRange(w.StartDate, w.EndDate)
		if err != nil {
			return err
		}
		sum := 0
		for _, e := range entries {
			sum += e.Minutes
		}
		if sum != w.TotalMin {
			stale = append(stale, w.Week)
		}
	}

	if len(stale) == 0 {
		return nil
	}
	if !fix {
		return fmt.Errorf("%d week(s) with stale totals (%v); rerun with --fix", len(stale), stale)
	}
	for _, week := range stale {
		if _, err := ctx.Repo.RecomputeWeek(week); err != nil {
			return fmt.Errorf("failed to recompute %s: %w", week, err)
		}
	}
	fmt.Printf("   Recomputed %d week(s)\n", len(stale))
	return nil
}

func doctorWindow() (string, string) {
	now := time.Now()
	return now.AddDate(0, 0, -doctorWindowDays).Format(constants.DateFormat),
		now.Format(constants.DateFormat)
}
