package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/dopalog/internal/cli"
	"github.com/julianstephens/dopalog/internal/constants"
	"github.com/julianstephens/dopalog/internal/models"
	"github.com/julianstephens/dopalog/internal/portability"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	Allowance      *int    `help:"Weekly allowance in minutes (or percent when mode is percentOfLeisure)."`
	Mode           *string `help:"Allowance mode: absolute or percentOfLeisure."`
	Leisure        *int    `help:"Weekly leisure minutes (basis for percentOfLeisure)."`
	Categories     *string `help:"Comma-separated activity categories."`
	Replacements   *string `help:"Comma-separated replacement activity options."`
	Triggers       *string `help:"Comma-separated trigger presets."`
	Theme          *string `help:"UI theme: system, light, or dark."`
	AccentHue      *int    `help:"Accent hue (0-360)."`
	EncryptExports *bool   `help:"Encrypt export snapshots with the keyring passphrase."`
	ChecklistFile  *string `help:"JSON file with the daily checklist template (sections of items)." type:"existingfile"`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Repo.Settings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if c.List {
		fmt.Println("Current Settings:")
		fmt.Printf("  Weekly Allowance:   %d %s\n", settings.WeeklyAllowanceMin, allowanceUnit(settings.AllowanceMode))
		fmt.Printf("  Allowance Mode:     %s\n", settings.AllowanceMode)
		fmt.Printf("  Weekly Leisure:     %d min\n", settings.WeeklyLeisureMin)
		fmt.Printf("  Categories:         %s\n", strings.Join(settings.Categories, ", "))
		fmt.Printf("  Replacements:       %s\n", strings.Join(settings.ReplacementOptions, ", "))
		fmt.Printf("  Trigger Presets:    %s\n", strings.Join(settings.TriggerPresets, ", "))
		fmt.Println("\nChecklist Template:")
		for _, section := range settings.Checklist {
			fmt.Printf("  %s:\n", section.Title)
			for _, item := range section.Items {
				fmt.Printf("    %-24s %s\n", item.ID, item.Label)
			}
		}
		fmt.Println("\nAppearance:")
		fmt.Printf("  Theme:              %s\n", settings.Theme)
		fmt.Printf("  Accent Hue:         %d\n", settings.AccentHue)
		fmt.Println("\nExports:")
		fmt.Printf("  Encrypt Exports:    %v\n", settings.EncryptExports)
		return nil
	}

	patch := models.SettingsPatch{
		WeeklyAllowanceMin: c.Allowance,
		WeeklyLeisureMin:   c.Leisure,
		Theme:              c.Theme,
		AccentHue:          c.AccentHue,
		EncryptExports:     c.EncryptExports,
	}
	if c.Mode != nil {
		mode := constants.AllowanceMode(*c.Mode)
		patch.AllowanceMode = &mode
	}
	if c.Categories != nil {
		list := cli.SplitList(*c.Categories)
		patch.Categories = &list
	}
	if c.Replacements != nil {
		list := cli.SplitList(*c.Replacements)
		patch.ReplacementOptions = &list
	}
	if c.Triggers != nil {
		list := cli.SplitList(*c.Triggers)
		patch.TriggerPresets = &list
	}
	if c.ChecklistFile != nil {
		sections, err := readChecklistFile(*c.ChecklistFile)
		if err != nil {
			return err
		}
		patch.Checklist = &sections
	}

	if patch == (models.SettingsPatch{}) {
		fmt.Println("No changes specified. Use --list to view settings or flags to update them.")
		return nil
	}

	if _, err := ctx.Repo.SaveSettings(patch); err != nil {
		return err
	}
	fmt.Println("Settings updated successfully.")
	return nil
}

func readChecklistFile(path string) ([]models.ChecklistSection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read checklist file: %w", err)
	}
	var sections []models.ChecklistSection
	if err := json.Unmarshal(data, &sections); err != nil {
		return nil, fmt.Errorf("failed to parse checklist file: %w", err)
	}
	for _, s := range sections {
		for _, item := range s.Items {
			if item.ID == "" || item.Label == "" {
				return nil, fmt.Errorf("checklist items need non-empty id and label")
			}
		}
	}
	return sections, nil
}

func allowanceUnit(mode constants.AllowanceMode) string {
	if mode == constants.AllowancePercentOfLeisure {
		return "% of leisure"
	}
	return "min"
}

// ExportKeyCmd stores the export-encryption passphrase in the OS keyring.
type ExportKeyCmd struct{}

func (c *ExportKeyCmd) Run(ctx *cli.Context) error {
	var passphrase, confirm string
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("New export passphrase").
			EchoMode(huh.EchoModePassword).
			Value(&passphrase).
			Validate(func(s string) error {
				if len(s) < 8 {
					return fmt.Errorf("use at least 8 characters")
				}
				return nil
			}),
		huh.NewInput().
			Title("Confirm passphrase").
			EchoMode(huh.EchoModePassword).
			Value(&confirm),
	))
	if err := form.Run(); err != nil {
		return fmt.Errorf("passphrase entry cancelled: %w", err)
	}
	if passphrase != confirm {
		return fmt.Errorf("passphrases do not match")
	}

	if err := portability.SetExportPassphrase(passphrase); err != nil {
		return fmt.Errorf("failed to store passphrase in keyring: %w", err)
	}
	fmt.Println("✓ Export passphrase stored in the OS keyring.")
	return nil
}
