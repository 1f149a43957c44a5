package power

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oshokin/rtc-alarm/internal/logger"
)

// Event is a power event bit.
type Event uint32

const (
	// Standby is the low-power phase where only wake sources stay active.
	Standby Event = 1 << iota
	// Wakeup is the fully awake phase.
	Wakeup
	// SilenceWakeup is awake without the display and user interaction.
	SilenceWakeup
	// RTCAlarm is posted by the RTC interrupt handler.
	RTCAlarm
)

// Phases masks the bits that describe the current power phase.
const Phases = Standby | Wakeup | SilenceWakeup

// DefaultInterval is the loop tick period used when none is configured.
const DefaultInterval = 100 * time.Millisecond

var (
	// ErrNotPhase is returned when a transition target is not a single phase bit.
	ErrNotPhase = errors.New("not a power phase")
	// ErrNotRunning is returned by Do when the dispatcher loop is not running.
	ErrNotRunning = errors.New("power dispatcher is not running")
)

// String renders the event bits joined by "|".
func (e Event) String() string {
	names := make([]string, 0, 4)

	for _, item := range []struct {
		bit  Event
		name string
	}{
		{Standby, "standby"},
		{Wakeup, "wakeup"},
		{SilenceWakeup, "silence_wakeup"},
		{RTCAlarm, "rtc_alarm"},
	} {
		if e&item.bit != 0 {
			names = append(names, item.name)
		}
	}

	if len(names) == 0 {
		return "none"
	}

	return strings.Join(names, "|")
}

// ParsePhase converts "standby", "wakeup" or "silence" into a phase bit.
func ParsePhase(name string) (Event, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "standby":
		return Standby, nil
	case "wakeup", "wake":
		return Wakeup, nil
	case "silence", "silence_wakeup", "silence-wakeup":
		return SilenceWakeup, nil
	default:
		return 0, fmt.Errorf("%q: %w", name, ErrNotPhase)
	}
}

// Handler is invoked with the current phase. Returning false is logged.
type Handler func(ctx context.Context, event Event) bool

type registration struct {
	mask Event
	name string
	fn   Handler
}

type task struct {
	fn   func(ctx context.Context)
	done chan struct{}
}

// Dispatcher drives the power phases and the cooperative loop.
type Dispatcher struct {
	// interval is the loop tick period.
	interval time.Duration
	// events holds the phase bits and pending event bits.
	events atomic.Uint32

	// mu protects handler lists and wake sources.
	mu            sync.Mutex
	stateHandlers []registration
	loopHandlers  []registration
	wakeSources   map[string]struct{}

	work    chan task
	stopped chan struct{}
	running atomic.Bool
}

// NewDispatcher creates a dispatcher in the Wakeup phase.
func NewDispatcher(interval time.Duration) *Dispatcher {
	if interval <= 0 {
		interval = DefaultInterval
	}

	d := &Dispatcher{
		interval:    interval,
		wakeSources: make(map[string]struct{}),
		work:        make(chan task),
		stopped:     make(chan struct{}),
	}

	d.events.Store(uint32(Wakeup))

	return d
}

// RegisterStateHandler subscribes fn to transitions into any phase in mask.
func (d *Dispatcher) RegisterStateHandler(mask Event, name string, fn Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stateHandlers = append(d.stateHandlers, registration{mask: mask & Phases, name: name, fn: fn})
}

// RegisterLoopHandler subscribes fn to loop ticks while the phase is in mask.
func (d *Dispatcher) RegisterLoopHandler(mask Event, name string, fn Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.loopHandlers = append(d.loopHandlers, registration{mask: mask & Phases, name: name, fn: fn})
}

// SetEvent sets event bits. Safe from interrupt context.
func (d *Dispatcher) SetEvent(e Event) {
	d.events.Or(uint32(e))
}

// ClearEvent clears event bits.
func (d *Dispatcher) ClearEvent(e Event) {
	d.events.And(^uint32(e))
}

// GetEvent reports whether any of the bits in e is set.
func (d *Dispatcher) GetEvent(e Event) bool {
	return Event(d.events.Load())&e != 0
}

// PostWake posts RTCAlarm. Safe from interrupt context.
func (d *Dispatcher) PostWake() {
	d.SetEvent(RTCAlarm)
}

// Phase returns the current phase bit.
func (d *Dispatcher) Phase() Event {
	return Event(d.events.Load()) & Phases
}

// InStandby reports whether the device is in standby.
func (d *Dispatcher) InStandby() bool {
	return d.GetEvent(Standby)
}

// EnableWakeSource arms a named wake source for the next standby.
func (d *Dispatcher) EnableWakeSource(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.wakeSources[name] = struct{}{}
}

// WakeSources lists the armed wake sources in name order.
func (d *Dispatcher) WakeSources() []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	names := make([]string, 0, len(d.wakeSources))
	for name := range d.wakeSources {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// Transition switches to phase and notifies the state handlers registered for it.
// Leaving standby disarms the wake sources.
func (d *Dispatcher) Transition(ctx context.Context, phase Event) error {
	if phase&Phases != phase || phase == 0 || phase&(phase-1) != 0 {
		return fmt.Errorf("%s: %w", phase, ErrNotPhase)
	}

	previous := d.Phase()

	d.ClearEvent(Phases &^ phase)
	d.SetEvent(phase)

	if previous == Standby && phase != Standby {
		d.mu.Lock()
		clear(d.wakeSources)
		d.mu.Unlock()
	}

	logger.DebugKV(ctx, "Power phase changed", "from", previous.String(), "to", phase.String())

	d.notify(ctx, d.snapshot(&d.stateHandlers), phase)

	return nil
}

// Tick runs one loop iteration. In standby a pending RTCAlarm with an armed
// wake source performs a silence wakeup; loop handlers run from the next tick.
func (d *Dispatcher) Tick(ctx context.Context) {
	phase := d.Phase()

	if phase == Standby {
		if d.GetEvent(RTCAlarm) && len(d.WakeSources()) > 0 {
			d.ClearEvent(RTCAlarm)

			//nolint:errcheck // SilenceWakeup is a valid phase.
			_ = d.Transition(ctx, SilenceWakeup)
		}

		return
	}

	d.ClearEvent(RTCAlarm)
	d.notify(ctx, d.snapshot(&d.loopHandlers), phase)
}

// Do runs fn on the dispatcher goroutine and waits for it to finish.
func (d *Dispatcher) Do(ctx context.Context, fn func(ctx context.Context)) error {
	t := task{fn: fn, done: make(chan struct{})}

	select {
	case d.work <- t:
	case <-d.stopped:
		return ErrNotRunning
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-t.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run ticks the loop and executes submitted work until ctx is canceled.
func (d *Dispatcher) Run(ctx context.Context) error {
	if !d.running.CompareAndSwap(false, true) {
		return nil
	}

	defer close(d.stopped)

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	logger.DebugKV(ctx, "Power loop started", "interval", d.interval.String())

	for {
		select {
		case <-ctx.Done():
			logger.Debug(ctx, "Power loop stopped")

			return nil
		case t := <-d.work:
			t.fn(ctx)
			close(t.done)
		case <-ticker.C:
			d.Tick(ctx)
		}
	}
}

func (d *Dispatcher) snapshot(list *[]registration) []registration {
	d.mu.Lock()
	defer d.mu.Unlock()

	return slices.Clone(*list)
}

func (d *Dispatcher) notify(ctx context.Context, handlers []registration, phase Event) {
	for _, h := range handlers {
		if h.mask&phase == 0 {
			continue
		}

		if !h.fn(ctx, phase) {
			logger.WarnKV(ctx, "Power handler reported failure", "handler", h.name, "phase", phase.String())
		}
	}
}
