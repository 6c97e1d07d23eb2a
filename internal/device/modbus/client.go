// internal/device/modbus/client.go
package modbus

import (
	"errors"
	"sync"
	"time"

	"github.com/goburrow/modbus"
)

// Client is a single Modbus TCP session implementing device.Transport.
// It serializes requests: the handler carries per-request state and the
// controller may be driven from more than one goroutine.
type Client struct {
	mu        sync.Mutex
	handler   *modbus.TCPClientHandler
	client    modbus.Client
	connected bool
}

type Config struct {
	Endpoint string
	UnitID   uint8
	Timeout  time.Duration
}

// New creates an unconnected client. The session opens on Connect.
func New(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("device modbus: endpoint required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Second
	}

	h := modbus.NewTCPClientHandler(cfg.Endpoint)
	h.Timeout = cfg.Timeout
	h.SlaveId = cfg.UnitID

	return &Client{
		handler: h,
		client:  modbus.NewClient(h),
	}, nil
}

func (c *Client) Connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.handler.Connect(); err != nil {
		c.connected = false
		return err
	}
	c.connected = true
	return nil
}

func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected {
		return nil
	}
	c.connected = false
	return c.handler.Close()
}

func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// WriteRegister writes one holding register (FC 6).
func (c *Client) WriteRegister(addr, value uint16) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := c.client.WriteSingleRegister(addr, value)
	if err != nil {
		c.markDead(err)
	}
	return err
}

// ReadRegisters reads qty holding registers starting at addr (FC 3).
func (c *Client) ReadRegisters(addr, qty uint16) ([]uint16, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	payload, err := c.client.ReadHoldingRegisters(addr, qty)
	if err != nil {
		c.markDead(err)
		return nil, err
	}
	return unpackRegisters(payload), nil
}

// markDead drops the connected flag on transport-level failures so the
// next operation triggers the controller's reconnect. Device exceptions
// (a live bus saying no) keep the session.
func (c *Client) markDead(err error) {
	var me *modbus.ModbusError
	if errors.As(err, &me) {
		return
	}
	c.connected = false
}

func unpackRegisters(data []byte) []uint16 {
	n := len(data) / 2
	out := make([]uint16, n)
	for i := 0; i < n; i++ {
		out[i] = uint16(data[2*i])<<8 | uint16(data[2*i+1])
	}
	return out
}
