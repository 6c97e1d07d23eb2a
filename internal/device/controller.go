// internal/device/controller.go
package device

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/tamzrod/adam-aoctl/internal/scale"
)

// Controller owns the transport session and the per-channel mode
// selection. Every operation runs under one mutex: the operator console
// and the verification loop share the same session and must never race
// on it.
type Controller struct {
	mu       sync.Mutex
	tr       Transport
	reg      *Registry
	endpoint string
	modes    []scale.Mode
	log      *slog.Logger
}

// NewController creates a controller with every channel in the default
// mode and no session open.
func NewController(tr Transport, reg *Registry, endpoint string, log *slog.Logger) (*Controller, error) {
	if tr == nil {
		return nil, errors.New("device: transport required")
	}
	if reg == nil {
		return nil, errors.New("device: registry required")
	}
	if log == nil {
		log = slog.Default()
	}
	modes := make([]scale.Mode, reg.Count())
	for i := range modes {
		modes[i] = scale.DefaultMode
	}
	return &Controller{
		tr:       tr,
		reg:      reg,
		endpoint: endpoint,
		modes:    modes,
		log:      log,
	}, nil
}

// ChannelCount returns the number of output channels.
func (c *Controller) ChannelCount() int { return c.reg.Count() }

// Connect opens the transport session. Calling it while already
// connected is safe; the transport decides.
func (c *Controller) Connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.tr.Connect(); err != nil {
		c.log.Error("connect failed", "endpoint", c.endpoint, "err", err)
		return &ConnectionError{Endpoint: c.endpoint, Err: err}
	}
	return nil
}

// Disconnect closes the session if one is open. No-op otherwise.
func (c *Controller) Disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disconnectLocked()
}

func (c *Controller) disconnectLocked() {
	if !c.tr.IsConnected() {
		return
	}
	if err := c.tr.Close(); err != nil {
		c.log.Warn("disconnect failed", "endpoint", c.endpoint, "err", err)
	}
}

// SelectMode records a channel's operating mode so that subsequent
// read-backs decode with it. It touches no hardware.
func (c *Controller) SelectMode(ch int, mode scale.Mode) error {
	if ch < 0 || ch >= c.reg.Count() {
		return &InvalidChannelError{Channel: ch, Count: c.reg.Count()}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.modes[ch] = mode
	return nil
}

// Mode returns the channel's currently selected operating mode.
func (c *Controller) Mode(ch int) scale.Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ch < 0 || ch >= len(c.modes) {
		return scale.DefaultMode
	}
	return c.modes[ch]
}

// ensureSessionLocked checks the session and performs exactly one
// reconnect attempt when it is absent or closed. It never retries.
func (c *Controller) ensureSessionLocked() error {
	if c.tr.IsConnected() {
		return nil
	}
	if err := c.tr.Connect(); err != nil {
		c.log.Error("reconnect failed", "endpoint", c.endpoint, "err", err)
		return &ConnectionError{Endpoint: c.endpoint, Err: err}
	}
	return nil
}

// SetChannel converts value in the given mode and writes the register
// code to the channel's output register. Validation errors are returned
// before any hardware contact; a dead session gets one reconnect attempt.
func (c *Controller) SetChannel(ch int, value float64, mode scale.Mode) error {
	addr, err := c.reg.Address(ch)
	if err != nil {
		return err
	}
	code, err := scale.ToRegister(value, mode)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.setLocked(ch, addr, code, mode)
}

func (c *Controller) setLocked(ch int, addr, code uint16, mode scale.Mode) error {
	if err := c.ensureSessionLocked(); err != nil {
		return err
	}
	if err := c.tr.WriteRegister(addr, code); err != nil {
		return &TransportError{Op: "write", Channel: ch, Addr: addr, Err: err}
	}
	c.modes[ch] = mode
	c.log.Debug("channel set",
		"channel", ch, "addr", addr, "code", code, "mode", mode.String())
	return nil
}

// ReadChannel reads the channel's raw register code. No engineering-unit
// conversion: the caller decodes with whatever mode it trusts.
func (c *Controller) ReadChannel(ch int) (uint16, error) {
	addr, err := c.reg.Address(ch)
	if err != nil {
		return 0, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureSessionLocked(); err != nil {
		return 0, err
	}
	regs, err := c.tr.ReadRegisters(addr, 1)
	if err != nil {
		return 0, &TransportError{Op: "read", Channel: ch, Addr: addr, Err: err}
	}
	if len(regs) != 1 {
		return 0, &TransportError{
			Op: "read", Channel: ch, Addr: addr,
			Err: errors.New("short register response"),
		}
	}
	return regs[0], nil
}

// InitializeOutputs connects, drives every channel to zero in the default
// mode, and disconnects on every path. The first channel failure aborts
// the remaining channels.
func (c *Controller) InitializeOutputs() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.tr.Connect(); err != nil {
		c.log.Error("initialize connect failed", "endpoint", c.endpoint, "err", err)
		return &ConnectionError{Endpoint: c.endpoint, Err: err}
	}
	defer c.disconnectLocked()

	for ch := 0; ch < c.reg.Count(); ch++ {
		addr, err := c.reg.Address(ch)
		if err != nil {
			return err
		}
		code, err := scale.ToRegister(0.0, scale.DefaultMode)
		if err != nil {
			return err
		}
		if err := c.setLocked(ch, addr, code, scale.DefaultMode); err != nil {
			c.log.Error("initialize aborted", "channel", ch, "err", err)
			return err
		}
	}

	c.log.Info("all outputs initialized to zero")
	return nil
}

// ShutdownOutputs connects and resets every channel to its mode's reset
// level. Unlike InitializeOutputs, a failed channel is logged and the
// remaining channels are still attempted. Disconnects exactly once on
// every path. Only a failed connect makes the whole operation fail.
func (c *Controller) ShutdownOutputs() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.tr.Connect(); err != nil {
		c.log.Error("shutdown connect failed", "endpoint", c.endpoint, "err", err)
		return &ConnectionError{Endpoint: c.endpoint, Err: err}
	}
	defer c.disconnectLocked()

	for ch := 0; ch < c.reg.Count(); ch++ {
		mode := c.modes[ch]
		addr, err := c.reg.Address(ch)
		if err != nil {
			c.log.Error("shutdown reset failed", "channel", ch, "err", err)
			continue
		}
		code, err := scale.ToRegister(mode.ResetValue(), mode)
		if err != nil {
			c.log.Error("shutdown reset failed", "channel", ch, "err", err)
			continue
		}
		if err := c.setLocked(ch, addr, code, mode); err != nil {
			c.log.Error("shutdown reset failed", "channel", ch, "err", err)
			continue
		}
		c.log.Info("channel reset on shutdown",
			"channel", ch, "value", mode.ResetValue(), "unit", mode.Unit())
	}

	return nil
}
