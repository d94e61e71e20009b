package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/dopalog/internal/cli"
	"github.com/julianstephens/dopalog/internal/cli/backups"
	"github.com/julianstephens/dopalog/internal/cli/settings"
	"github.com/julianstephens/dopalog/internal/cli/system"
	"github.com/julianstephens/dopalog/internal/constants"
	"github.com/julianstephens/dopalog/internal/logger"
	"github.com/julianstephens/dopalog/internal/repo"
	"github.com/julianstephens/dopalog/internal/storage/sqlite"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Database file path." type:"path" default:"~/.config/dopalog/dopalog.db"`
	Debug   bool   `help:"Enable debug logging to stderr."`

	Init    system.InitCmd    `cmd:"" help:"Initialize dopalog storage."`
	Migrate system.MigrateCmd `cmd:"" help:"Run database migrations."`
	Doctor  system.DoctorCmd  `cmd:"" help:"Run health checks and diagnostics."`

	Log   cli.LogCmd   `cmd:"" help:"Log a fast-dopamine activity." default:"1"`
	Day   cli.DayCmd   `cmd:"" help:"Show a day: checklist, entries, totals."`
	Check cli.CheckCmd `cmd:"" help:"Mark a checklist item for a day."`

	Reflect cli.ReflectCmd `cmd:"" help:"Write a reflection for a day."`
	Week    cli.WeekCmd    `cmd:"" help:"Show an ISO week summary."`
	Stats   cli.StatsCmd   `cmd:"" help:"Show breakdowns, patterns, and streaks."`

	Entry struct {
		Edit   cli.EntryEditCmd   `cmd:"" help:"Edit an entry (including moving it to another day)."`
		Delete cli.EntryDeleteCmd `cmd:"" help:"Delete an entry."`
		List   cli.EntryListCmd   `cmd:"" help:"List entries for a day or range."`
	} `cmd:"" help:"Manage logged entries."`

	Export cli.ExportCmd `cmd:"" help:"Export a snapshot of your data."`
	Import cli.ImportCmd `cmd:"" help:"Import a snapshot into the local database."`

	Backup struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`

	Settings struct {
		Manage    settings.SettingsCmd  `cmd:"" help:"Show or update settings." default:"1"`
		ExportKey settings.ExportKeyCmd `cmd:"" name:"export-key" help:"Store the export-encryption passphrase in the OS keyring."`
	} `cmd:"" help:"Manage application settings."`
}

// storeManagedCommands open the database themselves (or create it).
var storeManagedCommands = map[string]bool{
	"init":    true,
	"migrate": true,
	"doctor":  true,
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Local-first fast-dopamine habit tracker"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	if err := logger.Init(logger.Config{
		Debug:     CLI.Debug,
		ConfigDir: filepath.Dir(CLI.Config),
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize logging: %v\n", err)
		os.Exit(1)
	}

	store := sqlite.NewStore(CLI.Config)
	appCtx := &cli.Context{
		Store: store,
		Repo:  repo.New(store),
	}

	// Load the store before running the command; init/migrate/doctor
	// handle their own loading.
	root := strings.SplitN(ctx.Command(), " ", 2)[0]
	if !storeManagedCommands[root] {
		if err := store.Load(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()
	}

	if err := ctx.Run(appCtx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
