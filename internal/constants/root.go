package constants

// AllowanceMode selects how the weekly cap is derived from settings
type AllowanceMode string

const (
	AppName           = "dopalog"
	DefaultConfigPath = "~/.config/dopalog/dopalog.db"
	Version           = "v0.2.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// MonthFormat is the month identifier format (YYYY-MM)
	MonthFormat = "2006-01"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "dopalog-"
	BackupFileSuffix = ".db"

	// Allowance mode constants
	AllowanceAbsolute         AllowanceMode = "absolute"
	AllowancePercentOfLeisure AllowanceMode = "percentOfLeisure"

	// SnapshotVersion is the schema version stamped on export snapshots.
	// Imports of any other version are rejected wholesale.
	SnapshotVersion = 1

	// KeyringService and KeyringExportKeyUser locate the export-encryption
	// passphrase in the OS keyring.
	KeyringService       = "dopalog"
	KeyringExportKeyUser = "export-encryption"

	// DefaultMovingAverageWindow is the trailing window used for stat trends.
	DefaultMovingAverageWindow = 7
)
