// Package config is responsible for tend's configuration: notification
// defaults, retention policy, and system paths.
package config

import (
	"fmt"
	"time"
)

const Version = "v0.3.1"

type (
	// Config holds all configuration settings.
	Config struct {
		Notifications NotificationConfig
		Retention     RetentionConfig
		System        SystemConfig
	}

	// NotificationConfig holds the default notification preferences and
	// scheduling guards. Enabled, ReminderTimes, Sound, and Vibration
	// seed the persisted preferences on first run; the persisted copy
	// wins afterwards.
	NotificationConfig struct {
		Enabled       bool
		ReminderTimes []int
		Sound         string
		Vibration     bool
		// MinLeadBuffer suppresses all reminders for a session starting
		// sooner than this, so a reminder never fires seconds after the
		// session was created.
		MinLeadBuffer time.Duration
	}

	// RetentionConfig controls the reconciliation pass.
	RetentionConfig struct {
		// Days is how long completed sessions are kept before being
		// dropped permanently.
		Days int
		// CleanupInterval is the cadence of the background safety-net
		// pass.
		CleanupInterval time.Duration
	}

	// SystemConfig holds system-related settings.
	SystemConfig struct {
		ConfigPath string
		DBPath     string
		// DeliveryCmd is an optional command executed when a reminder is
		// delivered.
		DeliveryCmd string
	}

	// Option is a function that modifies Config.
	Option func(*Config) error
)

// New creates a new Config with default values and applies options.
func New(opts ...Option) (*Config, error) {
	cfg := &Config{}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("config option error: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Retention.Days < 0 {
		return errInvalidRetention
	}

	for _, m := range c.Notifications.ReminderTimes {
		if m <= 0 {
			return errInvalidLeadTime
		}
	}

	return nil
}
