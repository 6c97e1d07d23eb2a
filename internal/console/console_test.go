// internal/console/console_test.go
package console

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamzrod/adam-aoctl/internal/device"
	"github.com/tamzrod/adam-aoctl/internal/scale"
)

// ---- fakes ----

type setCall struct {
	ch    int
	value float64
	mode  scale.Mode
}

type fakeController struct {
	modes   []scale.Mode
	sets    []setCall
	setErrs map[int]error // per-channel SetChannel error
	codes   []uint16
}

func newFakeController(channels int) *fakeController {
	f := &fakeController{
		modes:   make([]scale.Mode, channels),
		setErrs: map[int]error{},
		codes:   make([]uint16, channels),
	}
	return f
}

func (f *fakeController) ChannelCount() int { return len(f.modes) }

func (f *fakeController) SelectMode(ch int, mode scale.Mode) error {
	f.modes[ch] = mode
	return nil
}

func (f *fakeController) Mode(ch int) scale.Mode { return f.modes[ch] }

func (f *fakeController) SetChannel(ch int, value float64, mode scale.Mode) error {
	if err := f.setErrs[ch]; err != nil {
		return err
	}
	f.sets = append(f.sets, setCall{ch: ch, value: value, mode: mode})
	return nil
}

func (f *fakeController) ReadChannel(ch int) (uint16, error) {
	return f.codes[ch], nil
}

type fakeVerifier struct {
	running bool
	starts  int
	stops   int
}

func (f *fakeVerifier) Start() bool {
	f.starts++
	if f.running {
		return false
	}
	f.running = true
	return true
}

func (f *fakeVerifier) Stop() {
	f.stops++
	f.running = false
}

func (f *fakeVerifier) Running() bool { return f.running }

func newTestConsole(ctrl Controller, v Verifier) (*Console, *bytes.Buffer) {
	var buf bytes.Buffer
	return &Console{
		ctrl:     ctrl,
		verifier: v,
		out:      &buf,
		staged:   make([]float64, ctrl.ChannelCount()),
	}, &buf
}

// ---- tests ----

func TestApply_WritesStagedValuesInSelectedModes(t *testing.T) {
	ctrl := newFakeController(4)
	c, _ := newTestConsole(ctrl, &fakeVerifier{})

	c.dispatch("mode 1 4-20mA")
	c.dispatch("value 0 2.5")
	c.dispatch("value 1 12")
	c.dispatch("apply")

	require.Len(t, ctrl.sets, 4)
	assert.Equal(t, setCall{ch: 0, value: 2.5, mode: scale.Bipolar5V}, ctrl.sets[0])
	assert.Equal(t, setCall{ch: 1, value: 12, mode: scale.Current4To20}, ctrl.sets[1])
	assert.Equal(t, setCall{ch: 2, value: 0, mode: scale.Bipolar5V}, ctrl.sets[2])
}

func TestApply_ValidationErrorContinues(t *testing.T) {
	ctrl := newFakeController(4)
	ctrl.setErrs[1] = &scale.RangeError{Value: 99, Mode: scale.Bipolar5V}
	c, buf := newTestConsole(ctrl, &fakeVerifier{})

	c.dispatch("apply")

	require.Len(t, ctrl.sets, 3, "channels 0,2,3 still written")
	assert.Contains(t, buf.String(), "out of range")
}

func TestApply_ConnectionErrorAborts(t *testing.T) {
	ctrl := newFakeController(4)
	ctrl.setErrs[1] = &device.ConnectionError{Endpoint: "test:502"}
	c, buf := newTestConsole(ctrl, &fakeVerifier{})

	c.dispatch("apply")

	require.Len(t, ctrl.sets, 1, "channels after the connection failure are skipped")
	assert.Equal(t, 0, ctrl.sets[0].ch)
	assert.Contains(t, buf.String(), "aborting apply")
}

func TestReset_UsesResetLevelAndIsolatesFailures(t *testing.T) {
	ctrl := newFakeController(4)
	ctrl.modes[2] = scale.Current4To20
	ctrl.setErrs[0] = errors.New("write rejected")
	c, buf := newTestConsole(ctrl, &fakeVerifier{})

	c.dispatch("reset")

	require.Len(t, ctrl.sets, 3, "failure on channel 0 does not stop the rest")
	assert.Equal(t, setCall{ch: 1, value: 0, mode: scale.Bipolar5V}, ctrl.sets[0])
	assert.Equal(t, setCall{ch: 2, value: 4.0, mode: scale.Current4To20}, ctrl.sets[1])
	assert.Contains(t, buf.String(), "channel 0 reset error")
}

func TestRead_ConvertsWithSelectedMode(t *testing.T) {
	ctrl := newFakeController(4)
	ctrl.modes[3] = scale.Unipolar10V
	ctrl.codes[3] = 4095
	c, buf := newTestConsole(ctrl, &fakeVerifier{})

	c.dispatch("read 3")

	assert.Contains(t, buf.String(), "channel 3 current: 10.00V")
}

func TestVerifyToggle(t *testing.T) {
	v := &fakeVerifier{}
	c, buf := newTestConsole(newFakeController(4), v)

	c.dispatch("verify on")
	assert.True(t, v.running)

	c.dispatch("verify on")
	assert.Contains(t, buf.String(), "already running")
	assert.Equal(t, 2, v.starts)

	c.dispatch("verify off")
	assert.False(t, v.running)
	assert.Equal(t, 1, v.stops)
}

func TestBadInputs(t *testing.T) {
	ctrl := newFakeController(4)
	c, buf := newTestConsole(ctrl, &fakeVerifier{})

	c.dispatch("mode 9 ±5V")
	assert.Contains(t, buf.String(), "channel must be 0-3")

	buf.Reset()
	c.dispatch("value 0 abc")
	assert.Contains(t, buf.String(), "not a number")

	buf.Reset()
	c.dispatch("mode 0 0-20V")
	assert.Contains(t, buf.String(), "unknown mode")

	assert.Empty(t, ctrl.sets)
}

func TestExit(t *testing.T) {
	c, _ := newTestConsole(newFakeController(4), &fakeVerifier{})
	assert.True(t, c.dispatch("exit"))
	assert.False(t, c.dispatch("status"))
}

func TestObserverOutput(t *testing.T) {
	c, buf := newTestConsole(newFakeController(4), &fakeVerifier{})

	c.Reading(0, 2.5, "V")
	c.ReadError(1, errors.New("read failed"))

	out := buf.String()
	assert.True(t, strings.Contains(out, "channel 0 current: 2.50V"))
	assert.True(t, strings.Contains(out, "verify channel 1 error"))
}
