// internal/scale/scale.go
package scale

import "fmt"

// Resolution is the highest register code the device accepts: the outputs
// are 12-bit, so codes run 0..4095.
const Resolution = 4095

// RangeError reports a value outside the active mode's bounds.
type RangeError struct {
	Value float64
	Mode  Mode
}

func (e *RangeError) Error() string {
	min, max := e.Mode.Bounds()
	return fmt.Sprintf(
		"scale: value %g out of range %g to %g %s (%s)",
		e.Value, min, max, e.Mode.Unit(), e.Mode,
	)
}

// ToRegister converts an engineering-unit value to a register code.
// Bounds are inclusive and compared exactly; a value outside them returns
// *RangeError. The scaled code is truncated toward zero, matching the
// device's integer semantics, so ToRegister(min)=0 and
// ToRegister(max)=Resolution exactly.
func ToRegister(value float64, m Mode) (uint16, error) {
	min, max := m.Bounds()
	if value < min || value > max {
		return 0, &RangeError{Value: value, Mode: m}
	}
	return uint16((value - min) / (max - min) * Resolution), nil
}

// FromRegister converts a raw register code back to engineering units.
// The code is not range-checked: it comes from a device read-back, and a
// code above Resolution simply maps linearly past the mode's maximum.
func FromRegister(code uint16, m Mode) float64 {
	min, max := m.Bounds()
	return min + float64(code)/Resolution*(max-min)
}
