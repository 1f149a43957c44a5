// Package clock provides the time sources the scheduler reads from.
package clock

import (
	"sync"
	"time"
)

// Clock returns the current time.
type Clock interface {
	Now() time.Time
}

// Func adapts a plain function to the Clock interface.
type Func func() time.Time

// Now calls f.
func (f Func) Now() time.Time { return f() }

// System is an adjustable system clock. It follows its base source and can be
// set to an authoritative time (the hardware RTC) without touching the host clock.
type System struct {
	// Base is the free-running source the offset is applied to.
	Base func() time.Time

	mu     sync.RWMutex
	offset time.Duration
}

// NewSystem returns a System that follows time.Now.
func NewSystem() *System {
	return &System{
		Base: time.Now,
	}
}

// Now returns the base time corrected by the last Set.
func (s *System) Now() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.Base().Add(s.offset)
}

// Set makes Now report t at this instant and keep running from there.
func (s *System) Set(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.offset = t.Sub(s.Base())
}

// Offset returns the correction currently applied to the base source.
func (s *System) Offset() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.offset
}
