// internal/device/builder.go
package device

import (
	"log/slog"
	"time"

	cfg "github.com/tamzrod/adam-aoctl/internal/config"
	dmodbus "github.com/tamzrod/adam-aoctl/internal/device/modbus"
)

// Build constructs a Controller over a Modbus TCP transport.
// The transport stays unconnected until the first operation needs it.
// The returned closer tears the session down.
func Build(d cfg.DeviceConfig, log *slog.Logger) (*Controller, func() error, error) {
	tr, err := dmodbus.New(dmodbus.Config{
		Endpoint: d.Endpoint,
		UnitID:   d.UnitID,
		Timeout:  time.Duration(d.TimeoutMs) * time.Millisecond,
	})
	if err != nil {
		return nil, nil, err
	}

	reg, err := NewRegistry(d.Registers)
	if err != nil {
		return nil, nil, err
	}

	ctrl, err := NewController(tr, reg, d.Endpoint, log)
	if err != nil {
		return nil, nil, err
	}

	return ctrl, tr.Close, nil
}
