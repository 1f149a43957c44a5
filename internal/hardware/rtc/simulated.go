package rtc

import (
	"context"
	"sync"
	"time"
)

// SystemSetter receives the chip time on SyncToSystem.
type SystemSetter interface {
	Set(t time.Time)
}

// Simulated is an in-process RTC. It keeps its own time as the host time plus a
// drift, matches alarm registers once per minute and raises a falling edge on
// the interrupt line when a match occurs while the alarm is enabled.
type Simulated struct {
	// Now is the host time source the chip drifts from.
	Now func() time.Time

	mu        sync.Mutex
	drift     time.Duration
	system    SystemSetter
	regs      Registers
	enabled   bool
	lastMatch time.Time
	edge      func()
	syncs     int
}

// NewSimulated creates a chip whose time runs drift ahead of the host clock.
// SyncToSystem writes the chip time into system.
func NewSimulated(system SystemSetter, drift time.Duration) *Simulated {
	return &Simulated{
		Now:    time.Now,
		drift:  drift,
		system: system,
		regs:   Disarmed(),
	}
}

var _ Driver = (*Simulated)(nil)

// Time returns the chip time.
func (s *Simulated) Time() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.timeLocked()
}

func (s *Simulated) timeLocked() time.Time {
	return s.Now().Add(s.drift)
}

// AttachInterrupt connects the falling-edge handler of the interrupt pin.
func (s *Simulated) AttachInterrupt(handler func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.edge = handler
}

// SetAlarm writes the alarm registers and clears the match latch.
func (s *Simulated) SetAlarm(regs Registers) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.regs = regs
	s.lastMatch = time.Time{}

	return nil
}

// EnableAlarm activates the interrupt line.
func (s *Simulated) EnableAlarm() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.enabled = true

	return nil
}

// DisableAlarm deactivates the interrupt line.
func (s *Simulated) DisableAlarm() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.enabled = false

	return nil
}

// SyncToSystem copies the chip time into the system clock.
func (s *Simulated) SyncToSystem() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.syncs++

	if s.system != nil {
		s.system.Set(s.timeLocked())
	}

	return nil
}

// Registers returns the programmed alarm registers.
func (s *Simulated) Registers() Registers {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.regs
}

// Enabled reports whether the interrupt line is active.
func (s *Simulated) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.enabled
}

// Syncs returns how many times SyncToSystem was called.
func (s *Simulated) Syncs() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.syncs
}

// Poll checks the registers against the chip time and raises the interrupt
// on the first poll of a matching minute. It reports whether an edge was raised.
func (s *Simulated) Poll() bool {
	s.mu.Lock()

	now := s.timeLocked()
	minute := now.Truncate(time.Minute)

	if !s.enabled || !s.regs.Matches(now) || minute.Equal(s.lastMatch) {
		s.mu.Unlock()

		return false
	}

	s.lastMatch = minute
	edge := s.edge
	s.mu.Unlock()

	if edge != nil {
		edge()
	}

	return true
}

// Run polls the chip on every interval until ctx is canceled.
func (s *Simulated) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Poll()
		}
	}
}

// Raise pulls the interrupt line low regardless of the registers.
func (s *Simulated) Raise() {
	s.mu.Lock()
	edge := s.edge
	s.mu.Unlock()

	if edge != nil {
		edge()
	}
}
