package controller

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/oshokin/rtc-alarm/internal/domain/alarm"
	"github.com/oshokin/rtc-alarm/internal/events"
	"github.com/oshokin/rtc-alarm/internal/hardware/rtc"
	"github.com/oshokin/rtc-alarm/internal/irq"
	"github.com/oshokin/rtc-alarm/internal/logger"
	"github.com/oshokin/rtc-alarm/internal/power"
	repo "github.com/oshokin/rtc-alarm/internal/repository/state"
)

// WakeSource is the name of the RTC interrupt line armed for standby.
const WakeSource = "rtc_int"

// Resolver computes the next fire time of a config.
type Resolver interface {
	Next(ctx context.Context, cfg alarm.Config) alarm.Resolution
}

// PowerManager is the part of the power dispatcher the controller uses.
type PowerManager interface {
	irq.WakePoster

	RegisterStateHandler(mask power.Event, name string, fn power.Handler)
	RegisterLoopHandler(mask power.Event, name string, fn power.Handler)
	EnableWakeSource(name string)
	InStandby() bool
}

// InterruptPin connects a falling-edge handler to the RTC interrupt line.
type InterruptPin interface {
	AttachInterrupt(handler func())
}

// Deps are the collaborators of the controller. Repository may be nil.
type Deps struct {
	RTC        rtc.Driver
	Resolver   Resolver
	Repository repo.Repository
	Power      PowerManager
}

// Controller is the alarm state machine.
type Controller struct {
	rtc      rtc.Driver
	resolver Resolver
	repo     repo.Repository
	power    PowerManager
	registry *events.Registry
	flag     *irq.Flag
	edge     *irq.EdgeHandler

	// cfg is the authoritative alarm configuration.
	cfg alarm.Config
	// next is the last committed resolution.
	next alarm.Resolution
}

// New creates a disarmed controller with the default config (all days off, 00:00).
func New(deps Deps) *Controller {
	flag := new(irq.Flag)

	return &Controller{
		rtc:      deps.RTC,
		resolver: deps.Resolver,
		repo:     deps.Repository,
		power:    deps.Power,
		registry: events.NewRegistry("rtcctl"),
		flag:     flag,
		edge:     irq.NewEdgeHandler(flag, deps.Power),
	}
}

// Setup registers the power handlers, attaches the interrupt handler to pin
// and applies the persisted config if one exists.
func (c *Controller) Setup(ctx context.Context, pin InterruptPin) {
	ctx = logger.WithName(ctx, "rtcctl")

	if pin != nil {
		pin.AttachInterrupt(c.edge.Fire)
	}

	if c.power != nil {
		c.power.RegisterStateHandler(power.Standby|power.Wakeup|power.SilenceWakeup, "rtcctl", c.handlePowerEvent)
		c.power.RegisterLoopHandler(power.Wakeup|power.SilenceWakeup, "rtcctl loop", c.handleLoop)
	}

	c.load(ctx)
}

// Interrupt returns the edge handler to attach to the RTC interrupt line.
func (c *Controller) Interrupt() func() {
	return c.edge.Fire
}

// Subscribe registers fn for the events in mask.
func (c *Controller) Subscribe(mask alarm.Event, name string, fn events.Handler) (uuid.UUID, error) {
	return c.registry.Register(mask, name, fn)
}

// Unsubscribe removes a subscription.
func (c *Controller) Unsubscribe(id uuid.UUID) bool {
	return c.registry.Unregister(id)
}

// Config returns a copy of the current configuration.
func (c *Controller) Config() alarm.Config {
	return c.cfg
}

// Next returns the last committed resolution.
func (c *Controller) Next() alarm.Resolution {
	return c.next
}

// NextAlarmWeekday returns the weekday of the next fire, or alarm.NotSet when
// no weekday is enabled.
func (c *Controller) NextAlarmWeekday() int {
	if !c.cfg.Days.Any() {
		return alarm.NotSet
	}

	return c.next.Weekday()
}

// SetAlarm replaces the configuration and reprograms the hardware.
//
// Persistence failures are logged; the new config stays in effect for the
// session. Exactly one of EventEnabled or EventDisabled is sent when the armed
// state changes, and EventNextTermSet is always sent.
func (c *Controller) SetAlarm(ctx context.Context, cfg alarm.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	wasEnabled := c.cfg.Enabled
	if wasEnabled {
		c.disable(ctx)
	}

	c.cfg = cfg
	c.save(ctx)
	c.program(ctx)

	if cfg.Enabled {
		c.enable(ctx)
	}

	logger.InfoKV(ctx, "Alarm configured",
		"enabled", cfg.Enabled,
		"time", cfg.Clock(),
		"week_days", cfg.Days.String(),
		"next", c.describeNext(),
	)

	switch {
	case wasEnabled && !cfg.Enabled:
		c.send(ctx, alarm.EventDisabled)
	case !wasEnabled && cfg.Enabled:
		c.send(ctx, alarm.EventEnabled)
	}

	return nil
}

// Rearm resolves the next fire time of the current config and reprograms the
// hardware, disarming it around the register update.
func (c *Controller) Rearm(ctx context.Context) {
	if c.cfg.Enabled {
		c.disable(ctx)
	}

	c.program(ctx)

	if c.cfg.Enabled {
		c.enable(ctx)
	}
}

// Poll drains the interrupt flag and sends EventOccurred when it was raised.
// Nothing is drained in standby.
func (c *Controller) Poll(ctx context.Context) {
	if c.power != nil && c.power.InStandby() {
		return
	}

	if c.flag.Drain() {
		logger.InfoKV(ctx, "Alarm occurred", "next", c.describeNext())
		c.send(ctx, alarm.EventOccurred)
	}
}

func (c *Controller) handlePowerEvent(ctx context.Context, event power.Event) bool {
	switch event {
	case power.Standby:
		logger.Debug(ctx, "Go standby, arming RTC wake source")
		c.power.EnableWakeSource(WakeSource)
	case power.Wakeup:
		logger.Debug(ctx, "Go wakeup")
	case power.SilenceWakeup:
		logger.Debug(ctx, "Go silence wakeup")
	}

	return true
}

func (c *Controller) handleLoop(ctx context.Context, _ power.Event) bool {
	c.Poll(ctx)

	return true
}

// program resolves the config, writes the registers and commits the resolution.
func (c *Controller) program(ctx context.Context) {
	next := c.resolver.Next(ctx, c.cfg)

	regs := rtc.Disarmed()
	if next.Armed {
		// Matching by day of month instead of weekday avoids the weekday-repeat
		// misfire of the chip and a refire when the only day is today at now.
		regs = rtc.At(next.FireTime)
	}

	if err := c.rtc.SetAlarm(regs); err != nil {
		logger.ErrorKV(ctx, "Failed to program RTC alarm", "registers", regs.String(), "error", err)
	}

	c.next = next
	c.send(ctx, alarm.EventNextTermSet)
}

func (c *Controller) enable(ctx context.Context) {
	if err := c.rtc.EnableAlarm(); err != nil {
		logger.ErrorKV(ctx, "Failed to enable RTC alarm", "error", err)
	}
}

func (c *Controller) disable(ctx context.Context) {
	if err := c.rtc.DisableAlarm(); err != nil {
		logger.ErrorKV(ctx, "Failed to disable RTC alarm", "error", err)
	}
}

func (c *Controller) save(ctx context.Context) {
	if c.repo == nil {
		return
	}

	if err := c.repo.Save(ctx, c.cfg); err != nil {
		logger.ErrorKV(ctx, "Failed to persist alarm config", "error", err)
	}
}

func (c *Controller) load(ctx context.Context) {
	if c.repo == nil {
		return
	}

	cfg, err := c.repo.Load(ctx)

	switch {
	case err == nil:
		logger.InfoKV(ctx, "Loaded alarm config", "enabled", cfg.Enabled, "time", cfg.Clock(), "week_days", cfg.Days.String())

		if err = c.SetAlarm(ctx, cfg); err != nil {
			logger.ErrorKV(ctx, "Stored alarm config rejected", "error", err)
		}
	case errors.Is(err, repo.ErrNotFound):
		logger.Debug(ctx, "No stored alarm config, keeping defaults")
	default:
		logger.ErrorKV(ctx, "Failed to load alarm config, keeping defaults", "error", err)
	}
}

func (c *Controller) send(ctx context.Context, event alarm.Event) {
	c.registry.Send(ctx, event)
}

func (c *Controller) describeNext() string {
	if !c.next.Armed {
		return "not set"
	}

	return c.next.FireTime.Format("Mon 2006-01-02 15:04")
}
