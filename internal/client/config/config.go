package config

import (
	"time"

	"github.com/dmitrijs2005/fotogen/internal/client/mirror"
)

const bytesPerMB = 1024 * 1024

// Config holds runtime settings for the FotoGen CLI.
type Config struct {
	// APIRoot is the backend REST root, e.g. http://localhost:5208/api.
	APIRoot        string
	RequestTimeout time.Duration

	// Entra ID app registration.
	ClientID   string
	Authority  string
	APIScope   string
	SignInMode string

	// StateDir holds the SQLite state database and the session lock.
	StateDir  string
	OutputDir string

	// MaxBatchBytes caps the summed size of a training selection.
	MaxBatchBytes int64
	LogLevel      string

	Mirror mirror.Config
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIRoot = "http://localhost:5208/api"
	c.RequestTimeout = 2 * time.Minute
	c.Authority = "https://login.microsoftonline.com/organizations"
	c.SignInMode = "interactive"
	c.StateDir = ".fotogen"
	c.OutputDir = "generated"
	c.MaxBatchBytes = 200 * bytesPerMB
	c.LogLevel = "warn"
	c.Mirror.Region = "us-east-1"
	c.Mirror.Expires = 15 * time.Minute
}

// Scopes returns the API scope requested at sign-in. An empty APIScope falls
// back to "<ClientID>/FotoGen".
func (c *Config) Scopes() []string {
	if c.APIScope != "" {
		return []string{c.APIScope}
	}
	if c.ClientID == "" {
		return nil
	}
	return []string{c.ClientID + "/FotoGen"}
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
