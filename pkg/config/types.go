// Package config provides configuration loading and validation for portalstats.
package config

import "time"

// Config is the root configuration structure loaded from YAML. Every field
// has a default; an absent config file is equivalent to an empty one.
type Config struct {
	// InputRoot is the directory scanned for raw portal log files
	// (.log and .arc).
	InputRoot string `yaml:"input_root"`

	// OutputRoot is the root of the per-date, per-user split tree.
	OutputRoot string `yaml:"output_root"`

	// ReportsDir is the directory report CSVs are written to.
	ReportsDir string `yaml:"reports_dir"`

	// Webhooks are dashboard ingest endpoints notified with the run report
	// after a split run.
	Webhooks []WebhookConfig `yaml:"webhooks,omitempty"`
}

// WebhookTrigger determines when a webhook fires.
type WebhookTrigger string

const (
	// WebhookTriggerOnFailures fires only when input files failed (default).
	WebhookTriggerOnFailures WebhookTrigger = "on_failures"
	// WebhookTriggerAlways fires after every run.
	WebhookTriggerAlways WebhookTrigger = "always"
	// WebhookTriggerNever disables the webhook.
	WebhookTriggerNever WebhookTrigger = "never"
)

// WebhookConfig defines a webhook endpoint for sending run reports.
type WebhookConfig struct {
	// Name is an optional identifier for the webhook.
	Name string `yaml:"name,omitempty"`

	// URL is the webhook endpoint (required).
	URL string `yaml:"url"`

	// Token is an optional bearer token for authentication. Supports
	// ${VAR} and $VAR environment expansion.
	Token string `yaml:"token,omitempty"`

	// Trigger determines when the webhook fires.
	// Defaults to "on_failures" if not specified.
	Trigger WebhookTrigger `yaml:"trigger,omitempty"`

	// Timeout is the HTTP request timeout.
	// Defaults to 10s if not specified.
	Timeout time.Duration `yaml:"timeout,omitempty"`
}
