// internal/verify/verifier.go
package verify

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/tamzrod/adam-aoctl/internal/scale"
)

// Verifier is the periodic read-back task: while running it reads every
// channel each cycle, decodes with the channel's currently selected mode,
// and emits the result to the observer. Per-channel failures never abort
// a cycle.
type Verifier struct {
	src      Source
	obs      Observer
	interval time.Duration
	log      *slog.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	running bool
}

// New creates a stopped verifier.
func New(src Source, obs Observer, interval time.Duration, log *slog.Logger) (*Verifier, error) {
	if src == nil {
		return nil, errors.New("verify: source required")
	}
	if obs == nil {
		return nil, errors.New("verify: observer required")
	}
	if interval <= 0 {
		return nil, errors.New("verify: interval must be > 0")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Verifier{
		src:      src,
		obs:      obs,
		interval: interval,
		log:      log,
	}, nil
}

// Start launches the loop. Returns false when one is already running:
// there is never more than one loop instance.
func (v *Verifier) Start() bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.running {
		return false
	}

	ctx, cancel := context.WithCancel(context.Background())
	v.cancel = cancel
	v.done = make(chan struct{})
	v.running = true

	go v.run(ctx, v.done)

	v.log.Info("verification started", "interval", v.interval)
	return true
}

// Stop signals the loop and waits for it to finish. The stop is
// cooperative: an in-flight read completes, then the loop exits at its
// next suspension point. No-op when not running.
func (v *Verifier) Stop() {
	v.mu.Lock()
	if !v.running {
		v.mu.Unlock()
		return
	}
	cancel, done := v.cancel, v.done
	v.mu.Unlock()

	cancel()
	<-done

	v.mu.Lock()
	v.running = false
	v.mu.Unlock()

	v.log.Info("verification stopped")
}

// Running reports whether a loop is active.
func (v *Verifier) Running() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.running
}

// CycleOnce reads every channel once. Failures are isolated: an error on
// one channel is emitted and the remaining channels are still read.
func (v *Verifier) CycleOnce() {
	for ch := 0; ch < v.src.ChannelCount(); ch++ {
		code, err := v.src.ReadChannel(ch)
		if err != nil {
			v.obs.ReadError(ch, err)
			continue
		}
		mode := v.src.Mode(ch)
		v.obs.Reading(ch, scale.FromRegister(code, mode), mode.Unit())
	}
}

// run cycles first, then sleeps: the wait observes cancellation so a stop
// during the interval ends the loop without another cycle.
func (v *Verifier) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(v.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		v.CycleOnce()

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
