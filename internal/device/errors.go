// internal/device/errors.go
package device

import "fmt"

// InvalidChannelError reports a channel id outside the registry.
// Validation errors never reach the transport.
type InvalidChannelError struct {
	Channel int
	Count   int
}

func (e *InvalidChannelError) Error() string {
	return fmt.Sprintf("device: channel %d out of range 0-%d", e.Channel, e.Count-1)
}

// ConnectionError reports that the single reconnect attempt failed.
type ConnectionError struct {
	Endpoint string
	Err      error
}

func (e *ConnectionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("device: connection to %s failed", e.Endpoint)
	}
	return fmt.Sprintf("device: connection to %s failed: %v", e.Endpoint, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// TransportError reports a write or read the device or bus rejected,
// as opposed to a session that could not be established.
type TransportError struct {
	Op      string // "write" or "read"
	Channel int
	Addr    uint16
	Err     error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf(
		"device: %s failed channel=%d addr=%d: %v",
		e.Op, e.Channel, e.Addr, e.Err,
	)
}

func (e *TransportError) Unwrap() error { return e.Err }
