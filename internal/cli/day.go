package cli

import (
	"fmt"
	"time"

	"github.com/julianstephens/dopalog/internal/calendar"
	"github.com/julianstephens/dopalog/internal/selectors"
)

// DayCmd shows one day: checklist state, logged entries, totals, and
// reflection.
type DayCmd struct {
	Day string `arg:"" optional:"" default:"today" help:"Day to show (YYYY-MM-DD, today, yesterday)."`
}

func (c *DayCmd) Run(ctx *Context) error {
	day, err := ResolveDay(c.Day)
	if err != nil {
		return err
	}

	settings, err := ctx.Repo.Settings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	dayLog, err := ctx.Repo.Day(day)
	if err != nil {
		return err
	}
	entries, err := ctx.Repo.EntriesForDay(day)
	if err != nil {
		return err
	}

	fmt.Println(Title(calendar.RelativeLabel(day, time.Now())))
	fmt.Printf("  Fast-dopamine total: %s  %s\n",
		FormatMinutes(dayLog.TotalFastMin),
		UsageBar(selectors.CapUsageToday(dayLog, settings), 20))

	for _, section := range settings.Checklist {
		fmt.Println("\n" + Title(section.Title))
		for _, item := range section.Items {
			checked, ok := dayLog.Mark(item.ID)
			if !ok {
				checked = item.DefaultChecked
			}
			box := "[ ]"
			if checked {
				box = okStyle.Render("[x]")
			}
			fmt.Printf("  %s %s %s\n", box, item.Label, labelStyle.Render("("+item.ID+")"))
		}
	}

	if len(entries) > 0 {
		fmt.Println("\n" + Title("Entries"))
		for _, e := range entries {
			fmt.Printf("  %s  %-6s %s\n", e.ID, FormatMinutes(e.Minutes), e.Category)
		}
	}

	if dayLog.Reflection != "" {
		fmt.Println("\n" + Title("Reflection"))
		fmt.Println("  " + dayLog.Reflection)
	}
	return nil
}

// CheckCmd toggles a checklist item for a day.
type CheckCmd struct {
	Item string `arg:"" help:"Checklist item id (see 'dopalog day')."`
	Day  string `short:"d" default:"today" help:"Day to mark."`
	Undo bool   `short:"u" help:"Uncheck instead of check."`
}

func (c *CheckCmd) Run(ctx *Context) error {
	day, err := ResolveDay(c.Day)
	if err != nil {
		return err
	}

	if _, err := ctx.Repo.SetChecklistItem(day, c.Item, !c.Undo); err != nil {
		return err
	}

	state := "Checked"
	if c.Undo {
		state = "Unchecked"
	}
	fmt.Printf("%s %s %q for %s\n", okStyle.Render("✓"), state, c.Item, day)
	return nil
}

// ReflectCmd sets the free-text reflection for a day.
type ReflectCmd struct {
	Text string `arg:"" help:"Reflection text (empty string clears it)."`
	Day  string `short:"d" default:"today" help:"Day to reflect on."`
}

func (c *ReflectCmd) Run(ctx *Context) error {
	day, err := ResolveDay(c.Day)
	if err != nil {
		return err
	}
	if _, err := ctx.Repo.SetReflection(day, c.Text); err != nil {
		return err
	}
	fmt.Printf("%s Reflection saved for %s\n", okStyle.Render("✓"), day)
	return nil
}
