package config

import (
	"os"
	"time"
)

// Default values for configuration.
const (
	DefaultInputRoot      = "logs/raw"
	DefaultOutputRoot     = "logs/splits"
	DefaultReportsDir     = "out"
	DefaultWebhookTimeout = 10 * time.Second
)

// Environment variable names.
const (
	EnvInputRoot  = "PORTALSTATS_INPUT_ROOT"
	EnvOutputRoot = "PORTALSTATS_OUTPUT_ROOT"
	EnvReportsDir = "PORTALSTATS_REPORTS_DIR"
)

// DefaultConfig returns a configuration with the documented defaults.
func DefaultConfig() *Config {
	return &Config{
		InputRoot:  DefaultInputRoot,
		OutputRoot: DefaultOutputRoot,
		ReportsDir: DefaultReportsDir,
	}
}

// applyEnvironmentOverrides applies environment variable overrides to the config.
func (c *Config) applyEnvironmentOverrides() {
	if v := os.Getenv(EnvInputRoot); v != "" {
		c.InputRoot = v
	}
	if v := os.Getenv(EnvOutputRoot); v != "" {
		c.OutputRoot = v
	}
	if v := os.Getenv(EnvReportsDir); v != "" {
		c.ReportsDir = v
	}
}
