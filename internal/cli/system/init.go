package system

import (
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/dopalog/internal/cli"
	"github.com/julianstephens/dopalog/internal/constants"
	"github.com/julianstephens/dopalog/internal/models"
)

type InitCmd struct {
	Force bool `help:"Force reset by deleting existing database before initialization."`
	Setup bool `help:"Run the interactive first-run setup after initializing."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	// If force flag is provided, delete existing database
	if c.Force {
		dbPath := ctx.Store.GetConfigPath()
		if _, err := os.Stat(dbPath); err == nil {
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing database: %w", err)
			}
			if err := os.Remove(dbPath); err != nil {
				return fmt.Errorf("failed to delete existing database: %w", err)
			}
			fmt.Printf("Deleted existing database at: %s\n", dbPath)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing database: %w", err)
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized dopalog storage at: %s\n", ctx.Store.GetConfigPath())

	// Seed the default settings row so first reads don't have to.
	if _, err := ctx.Repo.Settings(); err != nil {
		return fmt.Errorf("failed to seed settings: %w", err)
	}

	if c.Setup {
		if err := runSetup(ctx); err != nil {
			return err
		}
	}
	return nil
}

func runSetup(ctx *cli.Context) error {
	allowanceStr := strconv.Itoa(constants.DefaultWeeklyAllowanceMin)
	mode := string(constants.AllowanceAbsolute)
	leisureStr := strconv.Itoa(constants.DefaultWeeklyLeisureMin)

	positiveInt := func(s string) error {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return fmt.Errorf("enter a non-negative number")
		}
		return nil
	}

	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title("How should your weekly cap be set?").
			Options(
				huh.NewOption("Fixed minutes per week", string(constants.AllowanceAbsolute)),
				huh.NewOption("Percent of my leisure time", string(constants.AllowancePercentOfLeisure)),
			).
			Value(&mode),
		huh.NewInput().
			Title("Weekly allowance (minutes, or percent in percent mode)").
			Value(&allowanceStr).
			Validate(positiveInt),
		huh.NewInput().
			Title("Weekly leisure minutes (used only in percent mode)").
			Value(&leisureStr).
			Validate(positiveInt),
	))
	if err := form.Run(); err != nil {
		return fmt.Errorf("setup cancelled: %w", err)
	}

	allowance, _ := strconv.Atoi(allowanceStr)
	leisure, _ := strconv.Atoi(leisureStr)
	allowanceMode := constants.AllowanceMode(mode)

	patch := models.SettingsPatch{
		WeeklyAllowanceMin: &allowance,
		AllowanceMode:      &allowanceMode,
		WeeklyLeisureMin:   &leisure,
	}
	if _, err := ctx.Repo.SaveSettings(patch); err != nil {
		return err
	}
	fmt.Println("Setup complete.")
	return nil
}
