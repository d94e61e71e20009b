package system

import (
	"fmt"
	"io/fs"

	"github.com/julianstephens/dopalog/internal/cli"
	"github.com/julianstephens/dopalog/internal/migration"
	"github.com/julianstephens/dopalog/internal/storage/sqlite"
	"github.com/julianstephens/dopalog/migrations"
)

type MigrateCmd struct{}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	sqliteStore, ok := ctx.Store.(*sqlite.Store)
	if !ok {
		return fmt.Errorf("migrate command only supports SQLite storage")
	}

	// Open without schema validation so an outdated database can be reached.
	if err := sqliteStore.Open(); err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer sqliteStore.Close()

	db := sqliteStore.GetDB()
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}

	migrationFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return fmt.Errorf("failed to open migrations: %w", err)
	}

	runner := migration.NewRunner(db, migrationFS)
	count, err := runner.ApplyMigrations(func(msg string) {
		fmt.Println(msg)
	})
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	if count == 0 {
		fmt.Println("No migrations to apply. Database is up to date.")
	} else {
		fmt.Printf("\nSuccessfully applied %d migration(s).\n", count)
	}
	return nil
}
