package cli

import (
	"fmt"

	apperrors "github.com/julianstephens/dopalog/internal/errors"
	"github.com/julianstephens/dopalog/internal/models"
)

type EntryEditCmd struct {
	ID          string  `arg:"" help:"Entry id to edit."`
	Day         *string `short:"d" help:"Move the entry to another day (YYYY-MM-DD)."`
	Minutes     *int    `short:"m" help:"New minute count."`
	Category    *string `short:"c" help:"New category."`
	Triggers    *string `short:"t" help:"New comma-separated trigger tags."`
	Note        *string `short:"n" help:"New note."`
	Replacement *string `short:"r" help:"New replacement activity (empty to clear)."`
}

func (c *EntryEditCmd) Run(ctx *Context) error {
	patch := models.EntryPatch{
		Minutes:     c.Minutes,
		Category:    c.Category,
		Note:        c.Note,
		Replacement: c.Replacement,
	}
	if c.Day != nil {
		day, err := ResolveDay(*c.Day)
		if err != nil {
			return err
		}
		patch.Day = &day
	}
	if c.Triggers != nil {
		triggers := SplitList(*c.Triggers)
		patch.Triggers = &triggers
	}
	if patch == (models.EntryPatch{}) {
		return apperrors.Invalid("flags", "nothing to change; pass at least one field flag")
	}

	entry, err := ctx.Repo.UpdateEntry(c.ID, patch)
	if err != nil {
		return err
	}

	fmt.Printf("%s Updated entry %s: %s of %s on %s\n",
		okStyle.Render("✓"), entry.ID, FormatMinutes(entry.Minutes), entry.Category, entry.Day)
	ctx.PerformAutomaticBackup()
	return nil
}

type EntryDeleteCmd struct {
	ID string `arg:"" help:"Entry id to delete."`
}

func (c *EntryDeleteCmd) Run(ctx *Context) error {
	if err := ctx.Repo.DeleteEntry(c.ID); err != nil {
		return err
	}
	fmt.Printf("%s Deleted entry %s\n", okStyle.Render("✓"), c.ID)
	ctx.PerformAutomaticBackup()
	return nil
}

type EntryListCmd struct {
	Day  string `short:"d" help:"List a single day (YYYY-MM-DD, today, yesterday)."`
	From string `help:"Range start day (YYYY-MM-DD)."`
	To   string `help:"Range end day (YYYY-MM-DD)."`
}

func (c *EntryListCmd) Validate() error {
	if (c.From == "") != (c.To == "") {
		return fmt.Errorf("--from and --to must be used together")
	}
	if c.Day != "" && c.From != "" {
		return fmt.Errorf("use either --day or --from/--to, not both")
	}
	return nil
}

func (c *EntryListCmd) Run(ctx *Context) error {
	var entries []models.Entry
	var err error

	if c.From != "" {
		entries, err = ctx.Repo.EntriesInRange(c.From, c.To)
	} else {
		var day string
		day, err = ResolveDay(c.Day)
		if err != nil {
			return err
		}
		entries, err = ctx.Repo.EntriesForDay(day)
	}
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Println("No entries found.")
		return nil
	}

	for _, e := range entries {
		line := fmt.Sprintf("  %s  %s  %-6s %s", e.ID, e.Day, FormatMinutes(e.Minutes), e.Category)
		if len(e.Triggers) > 0 {
			line += labelStyle.Render(fmt.Sprintf("  triggers: %v", e.Triggers))
		}
		if e.Replacement != "" {
			line += okStyle.Render("  → " + e.Replacement)
		}
		fmt.Println(line)
		if e.Note != "" {
			fmt.Println(labelStyle.Render("      " + e.Note))
		}
	}
	fmt.Printf("\n%d entries\n", len(entries))
	return nil
}
