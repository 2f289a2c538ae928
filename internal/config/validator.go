package config

import (
	"fmt"
	"strings"
)

// Validate checks the config for required fields and sane values.
func Validate(cfg *Config) error {
	var errs []string

	if cfg.Device.Path == "" {
		errs = append(errs, "device.path is required")
	}
	if cfg.Device.Baud <= 0 {
		errs = append(errs, fmt.Sprintf("device.baud must be positive, got %d", cfg.Device.Baud))
	}
	if cfg.Device.ReadTimeoutMs < 0 {
		errs = append(errs, "device.read_timeout_ms must not be negative")
	}
	if cfg.Device.SettleMs < 0 {
		errs = append(errs, "device.settle_ms must not be negative")
	}
	if cfg.Device.BackoffMs < 0 {
		errs = append(errs, "device.backoff_ms must not be negative")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
