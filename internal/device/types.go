// internal/device/types.go
package device

// Transport abstracts the Modbus session the controller drives.
// The controller depends on this contract only; the goburrow-backed
// implementation lives in the modbus subpackage.
type Transport interface {
	Connect() error
	Close() error
	IsConnected() bool

	// WriteRegister writes one holding register (FC 6).
	WriteRegister(addr, value uint16) error

	// ReadRegisters reads qty holding registers starting at addr (FC 3).
	ReadRegisters(addr, qty uint16) ([]uint16, error)
}
