// internal/config/normalize.go
package config

import "fmt"

// Deployment defaults. The ADAM-6224 has four analog outputs mapped to
// registers 0..3 and answers on the standard Modbus TCP port.
const (
	DefaultChannels   = 4
	DefaultTimeoutMs  = 2000
	DefaultIntervalMs = 1000
)

// Normalize applies post-validation defaults.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.Device.Channels == 0 {
		if len(cfg.Device.Registers) > 0 {
			cfg.Device.Channels = len(cfg.Device.Registers)
		} else {
			cfg.Device.Channels = DefaultChannels
		}
	}

	if cfg.Device.TimeoutMs == 0 {
		cfg.Device.TimeoutMs = DefaultTimeoutMs
	}

	// Identity register map unless the deployment overrides it.
	if len(cfg.Device.Registers) == 0 {
		cfg.Device.Registers = make([]uint16, cfg.Device.Channels)
		for i := range cfg.Device.Registers {
			cfg.Device.Registers[i] = uint16(i)
		}
	}

	if cfg.Verify.IntervalMs == 0 {
		cfg.Verify.IntervalMs = DefaultIntervalMs
	}

	if cfg.Telemetry.Enabled && cfg.Telemetry.ClientID == "" {
		cfg.Telemetry.ClientID = fmt.Sprintf("aoctl-%s", cfg.Device.Endpoint)
	}
}
