package constants

// Default server configuration values
const (
	DefaultServerPort            = 8080
	DefaultServerReadTimeoutSec  = 15
	DefaultServerWriteTimeoutSec = 15
	DefaultServerIdleTimeoutSec  = 60
	DefaultGracefulShutdownSec   = 30
)

// Default Z-API gateway values
const (
	DefaultZAPIBaseURL    = "https://api.z-api.io"
	DefaultZAPITimeoutSec = 20
)

// Default retry/backoff values
const (
	DefaultBackoffInitialMs = 500
	DefaultBackoffMaxMs     = 10000
	DefaultMaxAttempts      = 3
)

// Default follow-up sweep values
const (
	DefaultSweepIntervalSec = 60
	DefaultShortIdleMin     = 5
	DefaultMidDelayMin      = 30
	DefaultLongDelayMin     = 1440

	// Minimum gap between outbound messages to the same phone before a
	// reminder may fire.
	AntiFloodWindowSec = 60
)

// Default lead sink values
const (
	DefaultLeadsBackend = "csv"
	DefaultLeadsCSVPath = "leads.csv"
	DefaultLeadsDBPath  = "leads.db"
)

// Phone number validation bounds
const (
	MinPhoneNumberLength = 8
	MaxPhoneNumberLength = 20
)
