package app

import (
	"errors"
	"fmt"
	"time"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// SpellPaths are spellbook files or directories.
	SpellPaths []string

	// Ticks caps the number of simulation steps. The run ends earlier once
	// every scheduled cast has finished.
	Ticks int
	// Tick is the simulated time of one step.
	Tick time.Duration
	// PoolSize is the number of spell instances and messages kept for reuse.
	PoolSize int

	LogFormat  string
	LogLevel   string
	StatusPort int
}

func NewConfig(cfg Config) (*Config, error) {
	if len(cfg.SpellPaths) == 0 {
		return nil, errors.New("SpellPaths is a required configuration field and cannot be empty")
	}
	if cfg.Ticks <= 0 {
		return nil, fmt.Errorf("Ticks must be positive, got %d", cfg.Ticks)
	}
	if cfg.Tick <= 0 {
		return nil, fmt.Errorf("Tick must be positive, got %s", cfg.Tick)
	}
	if cfg.PoolSize < 0 {
		return nil, fmt.Errorf("PoolSize must not be negative, got %d", cfg.PoolSize)
	}
	if cfg.StatusPort < 0 || cfg.StatusPort > 65535 {
		return nil, fmt.Errorf("StatusPort must be between 0 and 65535, got %d", cfg.StatusPort)
	}
	return &cfg, nil
}
