package main

import (
	"github.com/kelseyhightower/envconfig"
)

// envPrefix namespaces every variable read by loadConfig.
const envPrefix = "poolctl"

// Config holds settings read from POOLCTL_* environment variables. Flags
// given on the command line take precedence.
type Config struct {
	Backing  string `envconfig:"BACKING" default:"heap"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"debug"`
	LogDir   string `envconfig:"LOG_DIR"`
	Log      bool   `envconfig:"LOG" default:"false"`
}

func loadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
