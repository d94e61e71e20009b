package backup

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/julianstephens/dopalog/internal/storage/sqlite"
)

func setupDatabase(t *testing.T) string {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "dopalog.db")
	store := sqlite.NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("failed to close store: %v", err)
	}
	return dbPath
}

func TestCreateAndList(t *testing.T) {
	dbPath := setupDatabase(t)
	mgr := NewManager(dbPath)

	backupPath, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := os.Stat(backupPath); err != nil {
		t.Fatalf("backup file missing: %v", err)
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(backups) != 1 {
		t.Fatalf("List returned %d backups, want 1", len(backups))
	}
	if backups[0].Path != backupPath {
		t.Errorf("listed path = %s, want %s", backups[0].Path, backupPath)
	}
	if backups[0].Size == 0 {
		t.Error("backup file is empty")
	}
}

func TestCreateWithoutDatabase(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "missing.db"))
	if _, err := mgr.Create(); err == nil {
		t.Error("Create succeeded without a database")
	}
}

func TestListIgnoresForeignFiles(t *testing.T) {
	dbPath := setupDatabase(t)
	mgr := NewManager(dbPath)

	if _, err := mgr.Create(); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	for _, name := range []string{"notes.txt", "dopalog-garbage.db"} {
		if err := os.WriteFile(filepath.Join(mgr.BackupDir(), name), []byte("x"), 0600); err != nil {
			t.Fatalf("failed to plant file: %v", err)
		}
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(backups) != 1 {
		t.Errorf("List returned %d backups, want 1", len(backups))
	}
}

func TestRestore(t *testing.T) {
	dbPath := setupDatabase(t)
	mgr := NewManager(dbPath)

	backupPath, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := mgr.Restore(backupPath); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if err := verifyDatabase(dbPath); err != nil {
		t.Errorf("restored database invalid: %v", err)
	}

	// Restore saves the pre-restore database as another backup.
	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(backups) < 2 {
		t.Errorf("List returned %d backups after restore, want at least 2", len(backups))
	}
}

func TestRestoreRejectsInvalidBackup(t *testing.T) {
	dbPath := setupDatabase(t)
	mgr := NewManager(dbPath)

	bogus := filepath.Join(t.TempDir(), "bogus.db")
	if err := os.WriteFile(bogus, []byte("not a database"), 0600); err != nil {
		t.Fatalf("failed to write bogus file: %v", err)
	}
	if err := mgr.Restore(bogus); err == nil {
		t.Error("Restore accepted an invalid backup file")
	}
}
