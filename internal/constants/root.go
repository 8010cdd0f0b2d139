package constants

import "time"

const (
	AppName            = "gradecalc"
	Version            = "v0.3.0"
	DefaultConfigDir   = "~/.config/gradecalc"
	DefaultStorePath   = "~/.config/gradecalc/gradecalc.db"
	DefaultConfigFile  = "~/.config/gradecalc/config.yaml"
	DefaultKeyringUser = "store-connection"

	// DefaultRecordKey names the single persisted record holding the calculator state.
	DefaultRecordKey = "gradeCalculatorData"

	// DefaultDebounce is the quiet period after the last edit before state is written.
	DefaultDebounce = 300 * time.Millisecond

	// Default category seeded on a fresh start or after a reset.
	DefaultCategoryName   = "Assignments"
	DefaultCategoryWeight = 100.0

	// Placeholder is rendered wherever a value has no data.
	Placeholder = "--"

	CategoryIDPrefix = "cat-"
	GradeIDPrefix    = "grade-"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "gradecalc-"

	// Lock constants
	LockfileName = "gradecalc.lock"

	// RedisKeyPrefix namespaces record keys in a shared Redis database.
	RedisKeyPrefix = "gradecalc:"

	// RecordTimeFormat is used for record timestamps shown to the user.
	RecordTimeFormat = "2006-01-02 15:04:05"
)
