// internal/device/registry.go
package device

import (
	"errors"
	"fmt"
)

// Registry is the fixed channel-to-register map, established once at
// startup and immutable for the process lifetime.
type Registry struct {
	addrs []uint16
}

// NewRegistry builds a registry from one register address per channel.
// Addresses must be distinct.
func NewRegistry(addrs []uint16) (*Registry, error) {
	if len(addrs) == 0 {
		return nil, errors.New("device: at least one channel required")
	}
	seen := make(map[uint16]struct{}, len(addrs))
	for ch, a := range addrs {
		if _, dup := seen[a]; dup {
			return nil, fmt.Errorf("device: register %d mapped to more than one channel (channel %d)", a, ch)
		}
		seen[a] = struct{}{}
	}
	out := make([]uint16, len(addrs))
	copy(out, addrs)
	return &Registry{addrs: out}, nil
}

// DefaultRegistry maps channel i to register i, the ADAM-6224 layout.
func DefaultRegistry(channels int) (*Registry, error) {
	if channels <= 0 {
		return nil, errors.New("device: at least one channel required")
	}
	addrs := make([]uint16, channels)
	for i := range addrs {
		addrs[i] = uint16(i)
	}
	return NewRegistry(addrs)
}

// Count returns the number of channels.
func (r *Registry) Count() int { return len(r.addrs) }

// Address resolves a channel id to its register address.
// Out-of-range ids are rejected, never clamped.
func (r *Registry) Address(ch int) (uint16, error) {
	if ch < 0 || ch >= len(r.addrs) {
		return 0, &InvalidChannelError{Channel: ch, Count: len(r.addrs)}
	}
	return r.addrs[ch], nil
}
