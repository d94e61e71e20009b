package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/dopalog/internal/constants"
	"github.com/julianstephens/dopalog/internal/portability"
)

// ExportCmd writes a versioned JSON snapshot of a day range. When
// encrypted exports are enabled in settings (or --seal is passed) the
// snapshot is sealed with the keyring passphrase.
type ExportCmd struct {
	Out  string `short:"o" help:"Output file. Defaults to dopalog-export-<date>.json." type:"path"`
	From string `help:"Range start day (YYYY-MM-DD). Defaults to the beginning of time."`
	To   string `help:"Range end day (YYYY-MM-DD). Defaults to today."`
	Seal bool   `help:"Encrypt the snapshot regardless of settings."`
}

func (c *ExportCmd) Run(ctx *Context) error {
	from := c.From
	if from == "" {
		from = "0001-01-01"
	}
	to := c.To
	if to == "" {
		to = time.Now().Format(constants.DateFormat)
	}

	snap, err := portability.Export(ctx.Repo, from, to)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	settings, err := ctx.Repo.Settings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	if c.Seal || settings.EncryptExports {
		passphrase, err := portability.ExportPassphrase()
		if err != nil {
			return fmt.Errorf("no export passphrase in keyring (set one with 'dopalog settings export-key'): %w", err)
		}
		if data, err = portability.Seal(data, passphrase); err != nil {
			return fmt.Errorf("failed to seal snapshot: %w", err)
		}
	}

	out := c.Out
	if out == "" {
		out = fmt.Sprintf("dopalog-export-%s.json", time.Now().Format(constants.DateFormat))
	}
	if err := os.WriteFile(out, data, 0600); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}

	fmt.Printf("%s Exported %d entries, %d days, %d weeks to %s\n",
		okStyle.Render("✓"), len(snap.Entries), len(snap.Days), len(snap.Weeks), out)
	return nil
}

// ImportCmd merges a snapshot file into the local database. Entries that
// already exist are skipped; touched days and weeks are recomputed after
// the merge.
type ImportCmd struct {
	File string `arg:"" help:"Snapshot file to import." type:"path"`
}

func (c *ImportCmd) Run(ctx *Context) error {
	data, err := os.ReadFile(c.File)
	if err != nil {
		return fmt.Errorf("failed to read snapshot: %w", err)
	}

	if portability.IsSealed(data) {
		passphrase, err := portability.ExportPassphrase()
		if err != nil {
			// Keyring miss is recoverable: ask for the passphrase directly.
			prompt := huh.NewInput().
				Title("Snapshot is encrypted. Passphrase:").
				EchoMode(huh.EchoModePassword).
				Value(&passphrase)
			if err := prompt.Run(); err != nil {
				return fmt.Errorf("passphrase entry cancelled: %w", err)
			}
		}
		if data, err = portability.Open(data, passphrase); err != nil {
			return fmt.Errorf("failed to unseal snapshot: %w", err)
		}
	}

	var snap portability.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("failed to decode snapshot: %w", err)
	}

	ctx.PerformAutomaticBackup()

	stats, err := portability.Import(ctx.Repo, snap)
	if err != nil {
		return err
	}

	fmt.Printf("%s Imported %d entries (%d already present), recomputed %d days and %d weeks\n",
		okStyle.Render("✓"), stats.Entries, stats.Skipped, stats.DaysRecomputed, stats.Weeks)
	return nil
}
