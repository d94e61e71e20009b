package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"

	apperrors "github.com/julianstephens/dopalog/internal/errors"
	"github.com/julianstephens/dopalog/internal/models"
	"github.com/julianstephens/dopalog/internal/selectors"
)

// LogCmd records a fast-dopamine activity entry. With no flags it opens
// an interactive form seeded from the configured categories and presets.
type LogCmd struct {
	Minutes     int    `arg:"" optional:"" help:"Minutes spent."`
	Category    string `short:"c" help:"Activity category."`
	Day         string `short:"d" default:"today" help:"Day to log against (YYYY-MM-DD, today, yesterday)."`
	Triggers    string `short:"t" help:"Comma-separated trigger tags."`
	Note        string `short:"n" help:"Optional note."`
	Replacement string `short:"r" help:"Replacement activity done instead or afterwards."`
}

func (c *LogCmd) Run(ctx *Context) error {
	day, err := ResolveDay(c.Day)
	if err != nil {
		return err
	}

	settings, err := ctx.Repo.Settings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	fields := models.EntryFields{
		Minutes:     c.Minutes,
		Category:    c.Category,
		Triggers:    SplitList(c.Triggers),
		Note:        c.Note,
		Replacement: c.Replacement,
	}

	if c.Minutes == 0 && c.Category == "" {
		fields, err = promptEntry(settings)
		if err != nil {
			return err
		}
	} else if c.Category == "" {
		return apperrors.Invalid("category", "required when minutes are given (use -c)")
	}

	entry, err := ctx.Repo.AddEntry(day, fields)
	if err != nil {
		return err
	}

	dayLog, err := ctx.Repo.Day(day)
	if err != nil {
		return fmt.Errorf("failed to read day: %w", err)
	}

	fmt.Printf("%s Logged %s of %s on %s\n",
		okStyle.Render("✓"), FormatMinutes(entry.Minutes), entry.Category, day)
	fmt.Printf("  Day total: %s  %s\n",
		FormatMinutes(dayLog.TotalFastMin),
		UsageBar(selectors.CapUsageToday(dayLog, settings), 20))

	ctx.PerformAutomaticBackup()
	return nil
}

func promptEntry(settings models.Settings) (models.EntryFields, error) {
	var fields models.EntryFields
	var minutesStr string
	confirm := true

	categoryOpts := huh.NewOptions(settings.Categories...)
	replacementOpts := append([]huh.Option[string]{huh.NewOption("(none)", "")},
		huh.NewOptions(settings.ReplacementOptions...)...)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Minutes").
				Value(&minutesStr).
				Validate(func(s string) error {
					n, err := strconv.Atoi(s)
					if err != nil || n <= 0 {
						return fmt.Errorf("enter a positive number of minutes")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Category").
				Options(categoryOpts...).
				Value(&fields.Category),
			huh.NewMultiSelect[string]().
				Title("Triggers").
				Options(huh.NewOptions(settings.TriggerPresets...)...).
				Value(&fields.Triggers),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Replacement activity").
				Options(replacementOpts...).
				Value(&fields.Replacement),
			huh.NewInput().
				Title("Note").
				Value(&fields.Note),
			huh.NewConfirm().
				Title("Save this entry?").
				Affirmative("Save").
				Negative("Discard").
				Value(&confirm),
		),
	)

	if err := form.Run(); err != nil {
		return fields, fmt.Errorf("form cancelled: %w", err)
	}
	if !confirm {
		return fields, fmt.Errorf("entry discarded")
	}
	fields.Minutes, _ = strconv.Atoi(minutesStr)
	return fields, nil
}
