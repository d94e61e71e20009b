package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/julianstephens/dopalog/internal/cli"
	"github.com/julianstephens/dopalog/internal/constants"
	"github.com/julianstephens/dopalog/internal/repo"
	"github.com/julianstephens/dopalog/internal/storage/sqlite"
)

func setupTestDB(t *testing.T) (*cli.Context, func()) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "test.db")

	store := sqlite.NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}

	ctx := &cli.Context{
		Store: store,
		Repo:  repo.New(store),
	}

	cleanup := func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	}

	return ctx, cleanup
}

func TestSettingsCmd_List(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	cmd := &SettingsCmd{List: true}
	if err := cmd.Run(ctx); err != nil {
		t.Errorf("settings list failed: %v", err)
	}
}

func TestSettingsCmd_UpdateAllowance(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	allowance := 300
	cmd := &SettingsCmd{Allowance: &allowance}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("settings update failed: %v", err)
	}

	settings, err := ctx.Repo.Settings()
	if err != nil {
		t.Fatalf("failed to reload settings: %v", err)
	}
	if settings.WeeklyAllowanceMin != 300 {
		t.Errorf("expected allowance 300, got %d", settings.WeeklyAllowanceMin)
	}
}

func TestSettingsCmd_PercentModeRequiresLeisure(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	mode := string(constants.AllowancePercentOfLeisure)
	cmd := &SettingsCmd{Mode: &mode}
	if err := cmd.Run(ctx); err == nil {
		t.Error("expected error switching to percent mode without leisure minutes")
	}

	leisure := 2800
	cmd = &SettingsCmd{Mode: &mode, Leisure: &leisure}
	if err := cmd.Run(ctx); err != nil {
		t.Errorf("percent mode with leisure should succeed: %v", err)
	}
}

func TestSettingsCmd_ChecklistFromFile(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	path := filepath.Join(t.TempDir(), "checklist.json")
	content := `[{"title":"Morning","items":[{"id":"cold-shower","label":"Cold shower"}]}]`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write checklist file: %v", err)
	}

	cmd := &SettingsCmd{ChecklistFile: &path}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("checklist update failed: %v", err)
	}

	settings, err := ctx.Repo.Settings()
	if err != nil {
		t.Fatalf("failed to reload settings: %v", err)
	}
	if _, ok := settings.TemplateItem("cold-shower"); !ok {
		t.Error("expected new checklist item in template")
	}
	if _, ok := settings.TemplateItem("plan-day"); ok {
		t.Error("old template items should be replaced")
	}
}

func TestSettingsCmd_NoChanges(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	before, err := ctx.Repo.Settings()
	if err != nil {
		t.Fatalf("failed to load settings: %v", err)
	}

	cmd := &SettingsCmd{}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("no-op settings run failed: %v", err)
	}

	after, err := ctx.Repo.Settings()
	if err != nil {
		t.Fatalf("failed to reload settings: %v", err)
	}
	if after.UpdatedAt != before.UpdatedAt {
		t.Error("no-op run should not rewrite settings")
	}
}
