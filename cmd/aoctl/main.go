// Command aoctl drives the analog outputs of an ADAM-6224 class device
// over Modbus TCP: per-channel setpoints in engineering units, bulk
// initialize/reset, and periodic read-back verification.
//
// Usage:
//
//	aoctl -config <config.yaml> [-log-level debug|info|warn|error]
//
// Outputs are zeroed on startup and reset again on exit, including on
// SIGINT/SIGTERM.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tamzrod/adam-aoctl/internal/config"
	"github.com/tamzrod/adam-aoctl/internal/console"
	"github.com/tamzrod/adam-aoctl/internal/device"
	"github.com/tamzrod/adam-aoctl/internal/telemetry"
	"github.com/tamzrod/adam-aoctl/internal/verify"
)

func main() {
	var (
		cfgPath  = flag.String("config", "", "path to config file")
		logLevel = flag.String("log-level", "info", "log level: debug, info, warn, error")
	)
	flag.Parse()

	if *cfgPath == "" {
		log.Fatal("usage: aoctl -config <config.yaml>")
	}

	logger := newLogger(*logLevel)
	slog.SetDefault(logger)

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("config validation failed: %v", err)
	}
	config.Normalize(cfg)

	// --------------------
	// Build controller + verifier
	// --------------------

	ctrl, closeTransport, err := device.Build(cfg.Device, logger)
	if err != nil {
		log.Fatalf("controller build failed: %v", err)
	}
	defer closeTransport()

	ui, verifier, closeTelemetry, err := buildFrontend(cfg, ctrl, logger)
	if err != nil {
		log.Fatalf("frontend build failed: %v", err)
	}
	defer closeTelemetry()

	// --------------------
	// Initialize outputs (warn-and-continue, like a cold panel start)
	// --------------------

	if err := ctrl.InitializeOutputs(); err != nil {
		logger.Warn("could not initialize outputs to zero", "err", err)
	}

	// --------------------
	// Run console until exit or signal
	// --------------------

	ctx, cancel := context.WithCancel(context.Background())

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		s := <-sigs
		logger.Info("signal received", "signal", s.String())
		cancel()
	}()

	ui.Run(ctx)
	cancel()

	// --------------------
	// Guaranteed reset on the way out
	// --------------------

	verifier.Stop()

	if err := ctrl.ShutdownOutputs(); err != nil {
		logger.Error("shutdown reset failed", "err", err)
		os.Exit(1)
	}
	logger.Info("all outputs reset, exiting")
}

// buildFrontend wires the console and the verification loop, fanning
// verification events out to the MQTT publisher when telemetry is on.
func buildFrontend(cfg *config.Config, ctrl *device.Controller, logger *slog.Logger) (*console.Console, *verify.Verifier, func(), error) {
	interval := time.Duration(cfg.Verify.IntervalMs) * time.Millisecond

	// The observer chain is decided before the verifier exists, but the
	// console also needs the verifier for its verify on|off command, so
	// wire through a late-bound fan-out.
	fan := &fanout{}

	verifier, err := verify.New(ctrl, fan, interval, logger)
	if err != nil {
		return nil, nil, nil, err
	}

	ui, err := console.New(ctrl, verifier)
	if err != nil {
		return nil, nil, nil, err
	}
	fan.add(ui)

	closeTelemetry := func() {}
	if cfg.Telemetry.Enabled {
		pub, err := telemetry.New(telemetry.Config{
			Broker:   cfg.Telemetry.Broker,
			ClientID: cfg.Telemetry.ClientID,
			Topic:    cfg.Telemetry.Topic,
			QoS:      cfg.Telemetry.QoS,
			Username: cfg.Telemetry.Username,
			Password: cfg.Telemetry.Password,
		}, logger)
		if err != nil {
			return nil, nil, nil, err
		}
		fan.add(pub)
		closeTelemetry = pub.Close
	}

	return ui, verifier, closeTelemetry, nil
}

// fanout forwards verification events to every registered observer.
type fanout struct {
	obs []verify.Observer
}

func (f *fanout) add(o verify.Observer) { f.obs = append(f.obs, o) }

func (f *fanout) Reading(ch int, value float64, unit string) {
	for _, o := range f.obs {
		o.Reading(ch, value, unit)
	}
}

func (f *fanout) ReadError(ch int, err error) {
	for _, o := range f.obs {
		o.ReadError(ch, err)
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
