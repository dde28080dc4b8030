package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all client settings, populated from environment variables.
type Config struct {
	// Backend REST API.
	APIBaseURL     string        `envconfig:"API_BASE_URL" default:"http://localhost:8080/api"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"10s"`

	// Local session persistence. Empty disables persistence entirely; the
	// default of "~" expands to $HOME/.weather-alarm after loading.
	StateDir string `envconfig:"STATE_DIR" default:"~"`

	// Push support. An empty key disables the push capability.
	VAPIDPublicKey string `envconfig:"VAPID_PUBLIC_KEY"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`  // debug|info|warn|error
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"` // json|text

	// Watch mode.
	HTTPAddr      string        `envconfig:"HTTP_ADDR" default:":8080"`
	WatchInterval time.Duration `envconfig:"WATCH_INTERVAL" default:"5m"`
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	if cfg.APIBaseURL == "" {
		return nil, errors.New("API_BASE_URL is required")
	}
	if cfg.RequestTimeout <= 0 {
		return nil, errors.New("REQUEST_TIMEOUT must be positive")
	}
	if cfg.WatchInterval < time.Second {
		return nil, errors.New("WATCH_INTERVAL must be at least 1s")
	}

	if cfg.StateDir == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			// No home directory means no persistence, mirroring a browser
			// context without localStorage.
			cfg.StateDir = ""
		} else {
			cfg.StateDir = filepath.Join(home, ".weather-alarm")
		}
	}

	return &cfg, nil
}
