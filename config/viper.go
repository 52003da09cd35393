package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// viperKeys defines the mapping between config keys and their Viper counterparts.
const (
	keyNotificationsEnabled = "notifications.enabled"
	keyReminderTimes        = "notifications.reminder_times"
	keyNotificationSound    = "notifications.sound"
	keyVibration            = "notifications.vibration"
	keyMinLeadBuffer        = "notifications.min_lead_buffer"
	keyRetentionDays        = "retention.days"
	keyCleanupInterval      = "retention.cleanup_interval"
	keyDeliveryCmd          = "settings.delivery_cmd"
)

// WithViperConfig returns an Option that loads configuration from Viper,
// writing a default config file on first run.
func WithViperConfig(configPath string) Option {
	return func(c *Config) error {
		v := viper.New()

		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")

		setViperDefaults(v)

		err := v.ReadInConfig()
		if err == nil {
			return loadViperConfig(v, c, configPath)
		}

		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("reading config file failed: %w", err)
		}

		if err := v.WriteConfig(); err != nil {
			return fmt.Errorf("writing default config failed: %w", err)
		}

		return loadViperConfig(v, c, configPath)
	}
}

func setViperDefaults(v *viper.Viper) {
	v.SetDefault(keyNotificationsEnabled, true)
	v.SetDefault(keyReminderTimes, []int{30})
	v.SetDefault(keyNotificationSound, "bell")
	v.SetDefault(keyVibration, true)
	v.SetDefault(keyMinLeadBuffer, "5m")
	v.SetDefault(keyRetentionDays, 7)
	v.SetDefault(keyCleanupInterval, "1h")
	v.SetDefault(keyDeliveryCmd, "")
}

// loadViperConfig transfers Viper values into the Config.
func loadViperConfig(v *viper.Viper, c *Config, configPath string) error {
	minLead, err := time.ParseDuration(v.GetString(keyMinLeadBuffer))
	if err != nil {
		return fmt.Errorf("invalid min_lead_buffer: %w", err)
	}

	interval, err := time.ParseDuration(v.GetString(keyCleanupInterval))
	if err != nil {
		return fmt.Errorf("invalid cleanup_interval: %w", err)
	}

	c.Notifications = NotificationConfig{
		Enabled:       v.GetBool(keyNotificationsEnabled),
		ReminderTimes: v.GetIntSlice(keyReminderTimes),
		Sound:         v.GetString(keyNotificationSound),
		Vibration:     v.GetBool(keyVibration),
		MinLeadBuffer: minLead,
	}

	c.Retention = RetentionConfig{
		Days:            v.GetInt(keyRetentionDays),
		CleanupInterval: interval,
	}

	c.System.ConfigPath = configPath
	c.System.DeliveryCmd = v.GetString(keyDeliveryCmd)

	return nil
}
