// Package runner drives the pad pool from a fixed-rate frame loop, the way a
// game engine would call its per-frame update.
package runner

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/soar/padstate/internal/gamepad"
	"github.com/soar/padstate/internal/logger"
	"github.com/soar/padstate/internal/source"
)

const DefaultFrameRate = 60

type Option func(*Runner)

// WithFrameRate sets the number of frames per second. Non-positive values
// keep the default.
func WithFrameRate(fps int) Option {
	return func(r *Runner) {
		if fps > 0 {
			r.frame = time.Second / time.Duration(fps)
		}
	}
}

func WithLogger(l logger.Logger) Option {
	return func(r *Runner) { r.log = l }
}

func WithClock(c gamepad.Clock) Option {
	return func(r *Runner) { r.clock = c }
}

// Runner owns the loop thread. The plugin and the source are only touched
// from inside Run; other goroutines reach them through Do.
type Runner struct {
	plugin *gamepad.Plugin
	src    source.Source
	pumper source.Pumper
	frame  time.Duration
	clock  gamepad.Clock
	log    logger.Logger

	states chan []gamepad.PadState
	calls  chan func(*gamepad.Plugin)
}

// New creates a runner for plugin, which must have been built on src.
func New(plugin *gamepad.Plugin, src source.Source, opts ...Option) *Runner {
	r := &Runner{
		plugin: plugin,
		src:    src,
		frame:  time.Second / DefaultFrameRate,
		clock:  gamepad.SystemClock{},
		log:    logger.Discard{},
		states: make(chan []gamepad.PadState, 64),
		calls:  make(chan func(*gamepad.Plugin), 16),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.pumper, _ = src.(source.Pumper)
	return r
}

// States returns the channel on which the pool state is published after
// every poll.
func (r *Runner) States() <-chan []gamepad.PadState {
	return r.states
}

// Do queues fn to run on the loop thread before the next frame. It blocks
// only while the queue is full.
func (r *Runner) Do(ctx context.Context, fn func(*gamepad.Plugin)) error {
	select {
	case r.calls <- fn:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run opens the source and drives the plugin until ctx is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := r.src.Open(); err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer func() {
		if err := r.src.Close(); err != nil {
			r.log.Warn("close source: %v", err)
		}
	}()

	if r.pumper != nil {
		r.pumper.Pump()
	}
	r.plugin.Start()
	defer r.plugin.Stop()
	r.publish()

	ticker := time.NewTicker(r.frame)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case fn := <-r.calls:
			fn(r.plugin)
		case <-ticker.C:
			r.Frame()
		}
	}
}

// Frame runs one iteration of the loop.
func (r *Runner) Frame() {
	if r.pumper != nil {
		r.pumper.Pump()
	}
	if r.plugin.Update(r.clock.Now()) {
		r.publish()
	}
}

func (r *Runner) publish() {
	select {
	case r.states <- r.plugin.States():
	default:
		// Drop if channel is full to avoid blocking the loop thread
	}
}
