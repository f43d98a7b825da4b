package sky

import (
	"context"
	"errors"
	"sync/atomic"
	"time"
)

// ErrLoopStopped is returned by Do once the loop has exited
var ErrLoopStopped = errors.New("sky loop stopped")

type command struct {
	fn   func(*World)
	done chan struct{}
}

// Loop owns a World and drives it on a fixed tick. All mutation goes through Do, so the
// world is only ever touched by the loop goroutine.
type Loop struct {
	world    *World
	interval time.Duration
	onFrame  func(Frame)

	commands chan command
	stopped  chan struct{}
	running  atomic.Bool
	frames   atomic.Uint64
}

// NewLoop creates a loop stepping world every interval. onFrame receives a snapshot after
// every step and every command; it runs on the loop goroutine and must not block.
func NewLoop(world *World, interval time.Duration, onFrame func(Frame)) *Loop {
	if interval <= 0 {
		interval = world.cfg.FrameInterval
	}
	return &Loop{
		world:    world,
		interval: interval,
		onFrame:  onFrame,
		commands: make(chan command),
		stopped:  make(chan struct{}),
	}
}

// Run starts the loop's main select and blocks until ctx is cancelled
func (l *Loop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return errors.New("sky loop already running")
	}
	defer close(l.stopped)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case cmd := <-l.commands:
			cmd.fn(l.world)
			close(cmd.done)
			l.publish()

		case <-ticker.C:
			l.world.Step()
			l.frames.Add(1)
			l.publish()
		}
	}
}

// Do runs fn on the loop goroutine and waits for it to finish
func (l *Loop) Do(ctx context.Context, fn func(*World)) error {
	cmd := command{fn: fn, done: make(chan struct{})}

	select {
	case l.commands <- cmd:
	case <-l.stopped:
		return ErrLoopStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-cmd.done:
		return nil
	case <-l.stopped:
		return ErrLoopStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Frames returns the number of simulation steps taken
func (l *Loop) Frames() uint64 {
	return l.frames.Load()
}

// Snapshot fetches a frame through the loop
func (l *Loop) Snapshot(ctx context.Context) (Frame, error) {
	var f Frame
	err := l.Do(ctx, func(w *World) {
		f = w.Snapshot()
	})
	return f, err
}

func (l *Loop) publish() {
	if l.onFrame != nil {
		l.onFrame(l.world.Snapshot())
	}
}
