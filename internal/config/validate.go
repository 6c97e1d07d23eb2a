// internal/config/validate.go
package config

import (
	"fmt"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	// ------------------------------------------------------------
	// DEVICE
	// ------------------------------------------------------------

	if cfg.Device.Endpoint == "" {
		return fmt.Errorf("device: endpoint required")
	}

	if cfg.Device.Channels < 0 {
		return fmt.Errorf("device: channels must not be negative, got %d", cfg.Device.Channels)
	}

	if cfg.Device.TimeoutMs < 0 {
		return fmt.Errorf("device: timeout_ms must be >= 0, got %d", cfg.Device.TimeoutMs)
	}

	// Register map, when given, must cover every channel exactly once.
	if len(cfg.Device.Registers) > 0 {
		channels := cfg.Device.Channels
		if channels == 0 {
			channels = len(cfg.Device.Registers)
		}

		if len(cfg.Device.Registers) != channels {
			return fmt.Errorf(
				"device: registers has %d entries for %d channels",
				len(cfg.Device.Registers), channels,
			)
		}

		seen := make(map[uint16]int)
		for ch, addr := range cfg.Device.Registers {
			if prev, dup := seen[addr]; dup {
				return fmt.Errorf(
					"device: register %d mapped to channels %d and %d",
					addr, prev, ch,
				)
			}
			seen[addr] = ch
		}
	}

	// ------------------------------------------------------------
	// VERIFICATION
	// ------------------------------------------------------------

	if cfg.Verify.IntervalMs < 0 {
		return fmt.Errorf("verify: interval_ms must be >= 0, got %d", cfg.Verify.IntervalMs)
	}

	// ------------------------------------------------------------
	// TELEMETRY (OPT-IN)
	// ------------------------------------------------------------

	if cfg.Telemetry.Enabled {
		if cfg.Telemetry.Broker == "" {
			return fmt.Errorf("telemetry: broker required when enabled")
		}
		if cfg.Telemetry.Topic == "" {
			return fmt.Errorf("telemetry: topic required when enabled")
		}
		if cfg.Telemetry.QoS > 2 {
			return fmt.Errorf("telemetry: qos must be 0..2, got %d", cfg.Telemetry.QoS)
		}
	}

	return nil
}
