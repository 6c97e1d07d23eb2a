// Package console is the interactive operator front-end: per-channel mode
// selection and value entry, batch apply/reset, verification toggle. It
// talks to the controller in engineering units only; register addresses
// and codes never surface here.
package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/tamzrod/adam-aoctl/internal/device"
	"github.com/tamzrod/adam-aoctl/internal/scale"
)

// Controller is the device surface the console drives.
type Controller interface {
	ChannelCount() int
	SelectMode(ch int, mode scale.Mode) error
	Mode(ch int) scale.Mode
	SetChannel(ch int, value float64, mode scale.Mode) error
	ReadChannel(ch int) (uint16, error)
}

// Verifier is the read-back loop toggle.
type Verifier interface {
	Start() bool
	Stop()
	Running() bool
}

// Console handles the interactive command loop.
type Console struct {
	ctrl     Controller
	verifier Verifier
	rl       *readline.Instance
	out      io.Writer

	// staged engineering-unit values, written on apply
	staged []float64
}

// New creates a console on its own readline instance.
func New(ctrl Controller, verifier Verifier) (*Console, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "aoctl> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("console: readline: %w", err)
	}

	return &Console{
		ctrl:     ctrl,
		verifier: verifier,
		rl:       rl,
		out:      rl.Stdout(),
		staged:   make([]float64, ctrl.ChannelCount()),
	}, nil
}

// Run reads commands until exit, EOF, or context cancellation.
func (c *Console) Run(ctx context.Context) {
	defer c.rl.Close()

	c.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := c.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(c.out, "Exiting...")
			return
		}

		if c.dispatch(strings.TrimSpace(line)) {
			return
		}
	}
}

// dispatch handles one command line. Returns true on exit.
func (c *Console) dispatch(input string) bool {
	if input == "" {
		return false
	}

	fields := strings.Fields(input)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "mode":
		c.cmdMode(args)
	case "value":
		c.cmdValue(args)
	case "apply":
		c.cmdApply()
	case "reset":
		c.cmdReset()
	case "read":
		c.cmdRead(args)
	case "verify":
		c.cmdVerify(args)
	case "status":
		c.cmdStatus()
	case "modes":
		c.cmdModes()
	case "help":
		c.printHelp()
	case "exit", "quit":
		return true
	default:
		fmt.Fprintf(c.out, "unknown command %q, try help\n", cmd)
	}
	return false
}

func (c *Console) cmdMode(args []string) {
	if len(args) != 2 {
		fmt.Fprintln(c.out, "usage: mode <channel> <range>")
		return
	}
	ch, err := c.parseChannel(args[0])
	if err != nil {
		fmt.Fprintln(c.out, err)
		return
	}
	m, err := scale.ParseMode(args[1])
	if err != nil {
		fmt.Fprintln(c.out, err)
		return
	}
	if err := c.ctrl.SelectMode(ch, m); err != nil {
		fmt.Fprintln(c.out, err)
		return
	}
	min, max := m.Bounds()
	fmt.Fprintf(c.out, "channel %d mode %s, range %.1f%s to %.1f%s\n",
		ch, m, min, m.Unit(), max, m.Unit())
}

func (c *Console) cmdValue(args []string) {
	if len(args) != 2 {
		fmt.Fprintln(c.out, "usage: value <channel> <value>")
		return
	}
	ch, err := c.parseChannel(args[0])
	if err != nil {
		fmt.Fprintln(c.out, err)
		return
	}
	v, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		fmt.Fprintf(c.out, "not a number: %q\n", args[1])
		return
	}
	c.staged[ch] = v
	fmt.Fprintf(c.out, "channel %d staged at %.2f %s\n", ch, v, c.ctrl.Mode(ch).Unit())
}

// cmdApply writes every channel's staged value in its selected mode.
// Per-channel validation failures are reported and the batch continues;
// a connection failure aborts the remaining channels.
func (c *Console) cmdApply() {
	for ch := 0; ch < c.ctrl.ChannelCount(); ch++ {
		mode := c.ctrl.Mode(ch)
		value := c.staged[ch]

		err := c.ctrl.SetChannel(ch, value, mode)
		if err == nil {
			fmt.Fprintf(c.out, "channel %d set to %.2f %s (%s)\n",
				ch, value, mode.Unit(), mode)
			continue
		}

		fmt.Fprintf(c.out, "channel %d: %v\n", ch, err)

		var ce *device.ConnectionError
		if errors.As(err, &ce) {
			fmt.Fprintln(c.out, "connection failed, aborting apply")
			return
		}
	}
}

// cmdReset drives every channel to its mode's reset level. Failures are
// isolated per channel.
func (c *Console) cmdReset() {
	for ch := 0; ch < c.ctrl.ChannelCount(); ch++ {
		mode := c.ctrl.Mode(ch)
		value := mode.ResetValue()

		if err := c.ctrl.SetChannel(ch, value, mode); err != nil {
			fmt.Fprintf(c.out, "channel %d reset error: %v\n", ch, err)
			continue
		}
		c.staged[ch] = value
		fmt.Fprintf(c.out, "channel %d reset to %.1f %s (%s)\n",
			ch, value, mode.Unit(), mode)
	}
}

func (c *Console) cmdRead(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(c.out, "usage: read <channel>")
		return
	}
	ch, err := c.parseChannel(args[0])
	if err != nil {
		fmt.Fprintln(c.out, err)
		return
	}
	code, err := c.ctrl.ReadChannel(ch)
	if err != nil {
		fmt.Fprintf(c.out, "channel %d: %v\n", ch, err)
		return
	}
	mode := c.ctrl.Mode(ch)
	fmt.Fprintf(c.out, "channel %d current: %.2f%s\n",
		ch, scale.FromRegister(code, mode), mode.Unit())
}

func (c *Console) cmdVerify(args []string) {
	if len(args) != 1 || (args[0] != "on" && args[0] != "off") {
		fmt.Fprintln(c.out, "usage: verify on|off")
		return
	}
	if args[0] == "on" {
		if !c.verifier.Start() {
			fmt.Fprintln(c.out, "verification already running")
			return
		}
		fmt.Fprintln(c.out, "started real-time verification")
		return
	}
	if !c.verifier.Running() {
		fmt.Fprintln(c.out, "verification not running")
		return
	}
	c.verifier.Stop()
	fmt.Fprintln(c.out, "stopped real-time verification")
}

func (c *Console) cmdStatus() {
	for ch := 0; ch < c.ctrl.ChannelCount(); ch++ {
		mode := c.ctrl.Mode(ch)
		min, max := mode.Bounds()
		fmt.Fprintf(c.out, "channel %d: mode %-7s staged %.2f %s, range %.1f to %.1f\n",
			ch, mode, c.staged[ch], mode.Unit(), min, max)
	}
	if c.verifier.Running() {
		fmt.Fprintln(c.out, "verification: on")
	} else {
		fmt.Fprintln(c.out, "verification: off")
	}
}

func (c *Console) cmdModes() {
	for _, m := range scale.Modes() {
		min, max := m.Bounds()
		fmt.Fprintf(c.out, "%-7s %.1f to %.1f %s\n", m, min, max, m.Unit())
	}
}

func (c *Console) parseChannel(s string) (int, error) {
	ch, err := strconv.Atoi(s)
	if err != nil || ch < 0 || ch >= c.ctrl.ChannelCount() {
		return 0, fmt.Errorf("channel must be 0-%d", c.ctrl.ChannelCount()-1)
	}
	return ch, nil
}

func (c *Console) printHelp() {
	fmt.Fprintln(c.out, `commands:
  mode <ch> <range>   select a channel's range (see: modes)
  value <ch> <v>      stage an output value
  apply               write all staged values
  reset               drive all channels to their reset level
  read <ch>           read one channel back
  verify on|off       toggle periodic read-back verification
  status              show staged values and modes
  modes               list available ranges
  exit                quit`)
}

// ---- verify.Observer ----

// Reading prints one verification read-back.
func (c *Console) Reading(ch int, value float64, unit string) {
	fmt.Fprintf(c.out, "channel %d current: %.2f%s\n", ch, value, unit)
}

// ReadError prints one failed verification read.
func (c *Console) ReadError(ch int, err error) {
	fmt.Fprintf(c.out, "verify channel %d error: %v\n", ch, err)
}
