package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/fotogen/internal/flagx"
	"github.com/dmitrijs2005/fotogen/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations use
// timex.Duration so they may be written as "30s" or as nanoseconds.
type JsonConfig struct {
	APIRoot        string         `json:"api_root"`
	RequestTimeout timex.Duration `json:"request_timeout"`
	ClientID       string         `json:"client_id"`
	Authority      string         `json:"authority"`
	APIScope       string         `json:"api_scope"`
	SignInMode     string         `json:"sign_in_mode"`
	StateDir       string         `json:"state_dir"`
	OutputDir      string         `json:"output_dir"`
	MaxBatchMB     float64        `json:"max_batch_mb"`
	LogLevel       string         `json:"log_level"`
	Mirror         JsonMirror     `json:"mirror"`
}

type JsonMirror struct {
	Bucket    string         `json:"bucket"`
	Region    string         `json:"region"`
	Endpoint  string         `json:"endpoint"`
	AccessKey string         `json:"access_key"`
	SecretKey string         `json:"secret_key"`
	Expires   timex.Duration `json:"expires"`
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// parseJson overlays Config with the JSON file named by -c/-config.
// Fields missing from the file keep their current value. Read and
// unmarshal errors panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.APIRoot, jc.APIRoot)
	setString(&cfg.ClientID, jc.ClientID)
	setString(&cfg.Authority, jc.Authority)
	setString(&cfg.APIScope, jc.APIScope)
	setString(&cfg.SignInMode, jc.SignInMode)
	setString(&cfg.StateDir, jc.StateDir)
	setString(&cfg.OutputDir, jc.OutputDir)
	setString(&cfg.LogLevel, jc.LogLevel)
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.MaxBatchMB > 0 {
		cfg.MaxBatchBytes = int64(jc.MaxBatchMB * bytesPerMB)
	}

	setString(&cfg.Mirror.Bucket, jc.Mirror.Bucket)
	setString(&cfg.Mirror.Region, jc.Mirror.Region)
	setString(&cfg.Mirror.Endpoint, jc.Mirror.Endpoint)
	setString(&cfg.Mirror.AccessKey, jc.Mirror.AccessKey)
	setString(&cfg.Mirror.SecretKey, jc.Mirror.SecretKey)
	if jc.Mirror.Expires.Duration > 0 {
		cfg.Mirror.Expires = jc.Mirror.Expires.Duration
	}
}
