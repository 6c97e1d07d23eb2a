// internal/scale/mode.go
package scale

import (
	"fmt"
	"strings"
)

// Mode is one of the device's analog output ranges.
// The set is closed: bounds are compile-time constants and no mode can be
// registered at runtime.
type Mode uint8

const (
	Bipolar5V Mode = iota // ±5V
	Bipolar10V
	Unipolar5V
	Unipolar10V
	Current4To20 // 4-20mA, 4 mA is the live-zero floor
)

// DefaultMode is the range every channel starts in and the range used for
// initialize/shutdown writes.
const DefaultMode = Bipolar5V

type modeSpec struct {
	label string
	min   float64
	max   float64
	unit  string
}

var modeSpecs = [...]modeSpec{
	Bipolar5V:    {label: "±5V", min: -5.0, max: 5.0, unit: "V"},
	Bipolar10V:   {label: "±10V", min: -10.0, max: 10.0, unit: "V"},
	Unipolar5V:   {label: "0-5V", min: 0.0, max: 5.0, unit: "V"},
	Unipolar10V:  {label: "0-10V", min: 0.0, max: 10.0, unit: "V"},
	Current4To20: {label: "4-20mA", min: 4.0, max: 20.0, unit: "mA"},
}

// Modes lists every mode in declaration order.
func Modes() []Mode {
	return []Mode{Bipolar5V, Bipolar10V, Unipolar5V, Unipolar10V, Current4To20}
}

func (m Mode) valid() bool {
	return int(m) < len(modeSpecs)
}

// Bounds returns the inclusive engineering-unit range of the mode.
func (m Mode) Bounds() (min, max float64) {
	s := modeSpecs[m]
	return s.min, s.max
}

// Unit returns the engineering unit label, "V" or "mA".
func (m Mode) Unit() string {
	return modeSpecs[m].unit
}

func (m Mode) String() string {
	if !m.valid() {
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
	return modeSpecs[m].label
}

// ResetValue is the level a channel is driven to on reset: 0 for voltage
// ranges, the 4 mA floor for the current range.
func (m Mode) ResetValue() float64 {
	if m == Current4To20 {
		return 4.0
	}
	return 0.0
}

// ParseMode resolves a mode from its label. Matching is case-insensitive
// and "+-" is accepted in place of "±" for plain-ASCII input.
func ParseMode(s string) (Mode, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.ReplaceAll(norm, "+-", "±")
	for _, m := range Modes() {
		if norm == strings.ToLower(modeSpecs[m].label) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("scale: unknown mode %q", s)
}
