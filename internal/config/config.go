// internal/config/config.go
package config

type Config struct {
	Device    DeviceConfig    `yaml:"device"`
	Verify    VerifyConfig    `yaml:"verify"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ---- DEVICE ----

type DeviceConfig struct {
	Endpoint  string `yaml:"endpoint"`
	UnitID    uint8  `yaml:"unit_id"`
	TimeoutMs int    `yaml:"timeout_ms"`
	Channels  int    `yaml:"channels"`

	// Registers maps channel i to its output register address.
	// Optional; empty means the identity map 0..channels-1.
	Registers []uint16 `yaml:"registers"`
}

// ---- VERIFICATION ----

type VerifyConfig struct {
	IntervalMs int `yaml:"interval_ms"`
}

// ---- TELEMETRY (OPT-IN) ----

type TelemetryConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Broker   string `yaml:"broker"`
	ClientID string `yaml:"client_id"`
	Topic    string `yaml:"topic"`
	QoS      byte   `yaml:"qos"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}
