package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvConfig holds environment overrides. Empty values are unset.
type EnvConfig struct {
	Difficulty string `env:"TYPEMASTER_DIFFICULTY"`
	Passages   string `env:"TYPEMASTER_PASSAGES"`
	DBPath     string `env:"TYPEMASTER_DB"`
	LogLevel   string `env:"TYPEMASTER_LOG_LEVEL"`
	NoSound    bool   `env:"TYPEMASTER_NO_SOUND"`
}

// LoadEnv reads overrides from the process environment.
func LoadEnv() (EnvConfig, error) {
	var cfg EnvConfig
	if err := env.Parse(&cfg); err != nil {
		return EnvConfig{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
