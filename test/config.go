package test

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// INTEGRATION_BADGER_PATH keeps the log on disk for inspection, a temp dir otherwise
	BadgerPath string `envconfig:"INTEGRATION_BADGER_PATH"`
	// INTEGRATION_COLOURS renders the terminal transcript in colour
	Colours  bool          `envconfig:"INTEGRATION_COLOURS" default:"false"`
	Timeout  time.Duration `envconfig:"INTEGRATION_TIMEOUT" default:"2s"`
	LogLevel string        `envconfig:"INTEGRATION_LOG_LEVEL" default:"ERROR"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
