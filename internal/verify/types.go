// internal/verify/types.go
package verify

import "github.com/tamzrod/adam-aoctl/internal/scale"

// Source abstracts the controller surface the verifier needs.
// The verifier depends on read-back only.
type Source interface {
	ChannelCount() int
	ReadChannel(ch int) (uint16, error)
	Mode(ch int) scale.Mode
}

// Observer receives the outcome of every per-channel read-back.
type Observer interface {
	Reading(ch int, value float64, unit string)
	ReadError(ch int, err error)
}
