// internal/telemetry/encode.go
package telemetry

import (
	"encoding/json"
	"time"
)

type readingDoc struct {
	Channel int     `json:"channel"`
	Value   float64 `json:"value"`
	Unit    string  `json:"unit"`
	Ts      int64   `json:"ts"`
}

type readErrorDoc struct {
	Channel int    `json:"channel"`
	Error   string `json:"error"`
	Ts      int64  `json:"ts"`
}

// encodeReading builds the JSON payload for one successful read-back.
// Pure; timestamps are millisecond epoch like the upstream broker expects.
func encodeReading(ch int, value float64, unit string, at time.Time) []byte {
	b, _ := json.Marshal(readingDoc{
		Channel: ch,
		Value:   value,
		Unit:    unit,
		Ts:      at.UnixMilli(),
	})
	return b
}

func encodeReadError(ch int, err error, at time.Time) []byte {
	b, _ := json.Marshal(readErrorDoc{
		Channel: ch,
		Error:   err.Error(),
		Ts:      at.UnixMilli(),
	})
	return b
}
