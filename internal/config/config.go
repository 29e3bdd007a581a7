package config

import (
	"encoding/json"
	"os"
	"strconv"

	"zapbot/internal/constants"
	"zapbot/internal/models"
)

var (
	ErrMissingInstanceID  = models.ConfigError{Message: "missing Z-API instance ID"}
	ErrMissingToken       = models.ConfigError{Message: "missing Z-API token"}
	ErrInvalidLeadBackend = models.ConfigError{Message: "leads backend must be \"csv\" or \"sqlite\""}
)

// LoadConfig reads the JSON configuration file, applies defaults and
// environment overrides, and validates the result. Credentials are
// expected to arrive via environment variables in most deployments.
func LoadConfig(path string) (*models.Config, error) {
	var config models.Config

	if path != "" {
		file, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, err
			}
			// A missing file is fine: env-only configuration is supported.
		} else if err := json.Unmarshal(file, &config); err != nil {
			return nil, err
		}
	}

	applyDefaults(&config)
	applyEnvironmentOverrides(&config)

	if err := validate(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func applyDefaults(c *models.Config) {
	if c.Server.Port <= 0 {
		c.Server.Port = constants.DefaultServerPort
	}
	if c.Server.ReadTimeoutSec <= 0 {
		c.Server.ReadTimeoutSec = constants.DefaultServerReadTimeoutSec
	}
	if c.Server.WriteTimeoutSec <= 0 {
		c.Server.WriteTimeoutSec = constants.DefaultServerWriteTimeoutSec
	}
	if c.Server.IdleTimeoutSec <= 0 {
		c.Server.IdleTimeoutSec = constants.DefaultServerIdleTimeoutSec
	}

	if c.Retry.InitialBackoffMs <= 0 {
		c.Retry.InitialBackoffMs = constants.DefaultBackoffInitialMs
	}
	if c.Retry.MaxBackoffMs <= 0 {
		c.Retry.MaxBackoffMs = constants.DefaultBackoffMaxMs
	}
	if c.Retry.MaxAttempts <= 0 {
		c.Retry.MaxAttempts = constants.DefaultMaxAttempts
	}

	if c.ZAPI.BaseURL == "" {
		c.ZAPI.BaseURL = constants.DefaultZAPIBaseURL
	}
	if c.ZAPI.TimeoutSec <= 0 {
		c.ZAPI.TimeoutSec = constants.DefaultZAPITimeoutSec
	}
	// The gateway-specific knob wins; the generic retry section is the
	// fallback.
	if c.ZAPI.RetryCount <= 0 {
		c.ZAPI.RetryCount = c.Retry.MaxAttempts
	}

	if c.Leads.Backend == "" {
		c.Leads.Backend = constants.DefaultLeadsBackend
	}
	if c.Leads.CSVPath == "" {
		c.Leads.CSVPath = constants.DefaultLeadsCSVPath
	}
	if c.Leads.DBPath == "" {
		c.Leads.DBPath = constants.DefaultLeadsDBPath
	}

	if c.FollowUp.SweepIntervalSec <= 0 {
		c.FollowUp.SweepIntervalSec = constants.DefaultSweepIntervalSec
	}
	if c.FollowUp.ShortIdleMin <= 0 {
		c.FollowUp.ShortIdleMin = constants.DefaultShortIdleMin
	}
	if c.FollowUp.MidDelayMin <= 0 {
		c.FollowUp.MidDelayMin = constants.DefaultMidDelayMin
	}
	if c.FollowUp.LongDelayMin <= 0 {
		c.FollowUp.LongDelayMin = constants.DefaultLongDelayMin
	}

	if c.Tracing.ServiceName == "" {
		c.Tracing.ServiceName = "zapbot"
	}
	if c.Tracing.SampleRate <= 0 {
		c.Tracing.SampleRate = 1.0
	}
}

func applyEnvironmentOverrides(c *models.Config) {
	if v := os.Getenv("ZAPI_BASE"); v != "" {
		c.ZAPI.BaseURL = v
	}
	if v := os.Getenv("ZAPI_INSTANCE_ID"); v != "" {
		c.ZAPI.InstanceID = v
	}
	if v := os.Getenv("ZAPI_TOKEN"); v != "" {
		c.ZAPI.Token = v
	}
	if v := os.Getenv("ZAPI_CLIENT_TOKEN"); v != "" {
		c.ZAPI.ClientToken = v
	}
	if v := os.Getenv("CATALOG_REZYMOL_URL"); v != "" {
		c.Catalog.RezymolURL = v
	}
	if v := os.Getenv("CATALOG_PITTY_URL"); v != "" {
		c.Catalog.PittyURL = v
	}
	if v := os.Getenv("LEADS_CSV_PATH"); v != "" {
		c.Leads.CSVPath = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			c.Server.Port = port
		}
	}

	if v := os.Getenv("SMTP_HOST"); v != "" {
		c.SMTP.Host = v
	}
	if v := os.Getenv("SMTP_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			c.SMTP.Port = port
		}
	}
	if v := os.Getenv("SMTP_USERNAME"); v != "" {
		c.SMTP.Username = v
	}
	if v := os.Getenv("SMTP_PASSWORD"); v != "" {
		c.SMTP.Password = v
	}
	if v := os.Getenv("SMTP_FROM"); v != "" {
		c.SMTP.From = v
	}
	if v := os.Getenv("SMTP_TO"); v != "" {
		c.SMTP.To = v
	}
}

func validate(c *models.Config) error {
	if c.ZAPI.InstanceID == "" {
		return ErrMissingInstanceID
	}
	if c.ZAPI.Token == "" {
		return ErrMissingToken
	}
	if c.Leads.Backend != "csv" && c.Leads.Backend != "sqlite" {
		return ErrInvalidLeadBackend
	}
	return nil
}
