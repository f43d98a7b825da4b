package ui

import "github.com/yourusername/wish-sky/internal/sky"

// FrameFeed hands frames from the sky loop to the renderer. Only the newest frame is kept,
// so a slow renderer skips frames instead of stalling the simulation.
type FrameFeed struct {
	ch chan sky.Frame
}

// NewFrameFeed creates an empty feed
func NewFrameFeed() *FrameFeed {
	return &FrameFeed{ch: make(chan sky.Frame, 1)}
}

// Publish replaces any unread frame with f. It never blocks; pass it to sky.NewLoop.
func (f *FrameFeed) Publish(frame sky.Frame) {
	for {
		select {
		case f.ch <- frame:
			return
		default:
		}
		select {
		case <-f.ch:
		default:
		}
	}
}

// C returns the channel frames arrive on
func (f *FrameFeed) C() <-chan sky.Frame {
	return f.ch
}
