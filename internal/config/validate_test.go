// internal/config/validate_test.go
package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func valid() *Config {
	return &Config{
		Device: DeviceConfig{
			Endpoint: "192.168.10.15:502",
			UnitID:   1,
			Channels: 4,
		},
	}
}

func TestValidate_OK(t *testing.T) {
	assert.NoError(t, Validate(valid()))
}

func TestValidate_EndpointRequired(t *testing.T) {
	cfg := valid()
	cfg.Device.Endpoint = ""
	assert.Error(t, Validate(cfg))
}

func TestValidate_RegisterCountMismatch(t *testing.T) {
	cfg := valid()
	cfg.Device.Registers = []uint16{0, 1, 2}
	assert.Error(t, Validate(cfg))
}

func TestValidate_DuplicateRegister(t *testing.T) {
	cfg := valid()
	cfg.Device.Registers = []uint16{0, 1, 1, 3}
	assert.Error(t, Validate(cfg))
}

func TestValidate_TelemetryRequirements(t *testing.T) {
	cfg := valid()
	cfg.Telemetry.Enabled = true
	assert.Error(t, Validate(cfg), "broker missing")

	cfg.Telemetry.Broker = "tcp://localhost:1883"
	assert.Error(t, Validate(cfg), "topic missing")

	cfg.Telemetry.Topic = "aoctl/readings"
	assert.NoError(t, Validate(cfg))

	cfg.Telemetry.QoS = 3
	assert.Error(t, Validate(cfg), "bad qos")
}

func TestNormalize_Defaults(t *testing.T) {
	cfg := valid()
	cfg.Device.Channels = 0
	require.NoError(t, Validate(cfg))

	Normalize(cfg)

	assert.Equal(t, DefaultChannels, cfg.Device.Channels)
	assert.Equal(t, DefaultTimeoutMs, cfg.Device.TimeoutMs)
	assert.Equal(t, DefaultIntervalMs, cfg.Verify.IntervalMs)
	assert.Equal(t, []uint16{0, 1, 2, 3}, cfg.Device.Registers)
}

func TestNormalize_ChannelsFromRegisters(t *testing.T) {
	cfg := valid()
	cfg.Device.Channels = 0
	cfg.Device.Registers = []uint16{10, 11}
	require.NoError(t, Validate(cfg))

	Normalize(cfg)

	assert.Equal(t, 2, cfg.Device.Channels)
	assert.Equal(t, []uint16{10, 11}, cfg.Device.Registers)
}
