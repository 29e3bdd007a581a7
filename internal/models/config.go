package models

// Config holds the application configuration
type Config struct {
	Server   ServerConfig   `json:"server"`
	ZAPI     ZAPIConfig     `json:"zapi"`
	Catalog  CatalogConfig  `json:"catalog"`
	Leads    LeadsConfig    `json:"leads"`
	FollowUp FollowUpConfig `json:"followUp"`
	SMTP     SMTPConfig     `json:"smtp"`
	Retry    RetryConfig    `json:"retry"`
	Tracing  TracingConfig  `json:"tracing"`
	LogLevel string         `json:"log_level"`
}

// ServerConfig holds HTTP server related configurations
type ServerConfig struct {
	Port            int `json:"port"`
	ReadTimeoutSec  int `json:"readTimeoutSec"`
	WriteTimeoutSec int `json:"writeTimeoutSec"`
	IdleTimeoutSec  int `json:"idleTimeoutSec"`
}

// ZAPIConfig holds Z-API gateway related configurations
type ZAPIConfig struct {
	BaseURL     string `json:"base_url"`
	InstanceID  string `json:"instance_id"`
	Token       string `json:"token"`
	ClientToken string `json:"client_token"`
	TimeoutSec  int    `json:"timeoutSec"`
	RetryCount  int    `json:"retry_count"`
}

// CatalogConfig holds the downloadable catalog resources per product line
type CatalogConfig struct {
	RezymolURL string `json:"rezymolUrl"`
	PittyURL   string `json:"pittyUrl"`
}

// LeadsConfig holds lead sink related configurations
type LeadsConfig struct {
	Backend string `json:"backend"` // "csv" or "sqlite"
	CSVPath string `json:"csvPath"`
	DBPath  string `json:"dbPath"`
}

// FollowUpConfig holds idle-reminder sweep configurations
type FollowUpConfig struct {
	Enabled          bool `json:"enabled"`
	SweepIntervalSec int  `json:"sweepIntervalSec"`
	ShortIdleMin     int  `json:"shortIdleMin"`
	MidDelayMin      int  `json:"midDelayMin"`
	LongDelayMin     int  `json:"longDelayMin"`
}

// SMTPConfig holds the optional catalog-request notification settings.
// Delivery is skipped entirely when Host or Username is empty.
type SMTPConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	From     string `json:"from"`
	To       string `json:"to"`
}

// RetryConfig holds retry related configurations
type RetryConfig struct {
	InitialBackoffMs int `json:"initialBackoffMs"`
	MaxBackoffMs     int `json:"maxBackoffMs"`
	MaxAttempts      int `json:"maxAttempts"`
}

// TracingConfig holds OpenTelemetry tracing configurations
type TracingConfig struct {
	Enabled        bool    `json:"enabled"`
	ServiceName    string  `json:"serviceName"`
	ServiceVersion string  `json:"serviceVersion"`
	Environment    string  `json:"environment"`
	OTLPEndpoint   string  `json:"otlpEndpoint"`
	SampleRate     float64 `json:"sampleRate"`
	UseStdout      bool    `json:"useStdout"`
}

type ConfigError struct {
	Message string
}

func (e ConfigError) Error() string {
	return e.Message
}
