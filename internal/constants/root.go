package constants

import (
	"slices"

	tea "github.com/charmbracelet/bubbletea"
)

// SessionState represents the current state of the TUI application
type SessionState int

// ConfirmationMsg is a message to trigger a confirmation dialog
type ConfirmationMsg struct {
	Message string
	Action  func() tea.Cmd
}

const (
	AppName            = "daybook"
	DefaultKeyringUser = "database-connection"
	DefaultConfigDir   = "~/.config/daybook"
	DefaultConfigFile  = "config.yaml"
	DefaultDBName      = "daybook.db"
	DefaultDiskvDir    = "store"
	DefaultLogDir      = "logs"
	Version            = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// Storage backends
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendDiskv    = "diskv"
	BackendMemory   = "memory"

	// Persisted keys
	KeyJournalData   = "journalData"
	KeyTaskData      = "taskData"
	KeyScheduleData  = "scheduleData"
	KeyChallengeData = "challengeData"
	KeyReviewedDates = "reviewedDates"

	// AgendaDays is the length of the schedule window
	AgendaDays = 14

	// MaxChallenges caps the challenge collection
	MaxChallenges = 5

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "daybook-"
	BackupFileSuffix = ".db"

	LockfileName = "daybook.lock"
)

const (
	StateDay SessionState = iota
	StateEditMeditation
	StateEditTask
	StateEditJourney
	StateEditSchedule
	StateEditChallenge
	StateConfirmation
)

// ReviewIntervals are the day offsets offered for time travel and counted as reviews
var ReviewIntervals = []int{1, 3, 7, 14, 30}

// IsReviewInterval reports whether days is one of ReviewIntervals
func IsReviewInterval(days int) bool {
	return slices.Contains(ReviewIntervals, days)
}
