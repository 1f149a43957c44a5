// Package irq bridges the RTC interrupt line into the cooperative poll loop.
//
// The edge handler runs in interrupt context: it only sets an atomic flag and
// posts a wake event. The poll loop drains the flag with a single atomic
// exchange, so a signal is never lost or delivered twice.
package irq

import "sync/atomic"

// Flag is a single-writer, single-reader interrupt flag.
type Flag struct {
	raised atomic.Bool
}

// Set raises the flag. Safe to call from the interrupt handler.
func (f *Flag) Set() {
	f.raised.Store(true)
}

// Drain clears the flag and reports whether it was raised.
func (f *Flag) Drain() bool {
	return f.raised.Swap(false)
}

// Pending reports whether the flag is raised without clearing it.
func (f *Flag) Pending() bool {
	return f.raised.Load()
}

// WakePoster is notified that a wake-worthy event occurred.
type WakePoster interface {
	PostWake()
}

// EdgeHandler is attached to the falling edge of the RTC interrupt pin.
type EdgeHandler struct {
	flag   *Flag
	poster WakePoster
}

// NewEdgeHandler creates a handler that raises flag and notifies poster.
func NewEdgeHandler(flag *Flag, poster WakePoster) *EdgeHandler {
	return &EdgeHandler{
		flag:   flag,
		poster: poster,
	}
}

// Fire is the interrupt service routine. It does not allocate, log or block.
func (h *EdgeHandler) Fire() {
	h.flag.Set()

	if h.poster != nil {
		h.poster.PostWake()
	}
}
