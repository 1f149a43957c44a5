package scheduler

import (
	"context"

	"github.com/oshokin/rtc-alarm/internal/clock"
	"github.com/oshokin/rtc-alarm/internal/domain/alarm"
	"github.com/oshokin/rtc-alarm/internal/logger"
)

// Syncer pulls the hardware time into the system clock.
type Syncer interface {
	SyncToSystem() error
}

// Resolver resolves configs against the system clock after syncing it to the RTC.
type Resolver struct {
	// rtc is the authoritative time source.
	rtc Syncer
	// clock is the system clock the RTC is synced into.
	clock clock.Clock
}

// NewResolver creates a resolver reading time from c after syncing it from rtc.
func NewResolver(rtc Syncer, c clock.Clock) *Resolver {
	return &Resolver{
		rtc:   rtc,
		clock: c,
	}
}

// Next resolves cfg. When any weekday is enabled the system clock is first
// synchronized to the RTC, since it may have drifted while the CPU was off.
// A failed sync is logged and the current system time is used.
func (r *Resolver) Next(ctx context.Context, cfg alarm.Config) alarm.Resolution {
	if !cfg.Days.Any() {
		return alarm.Resolution{}
	}

	if r.rtc != nil {
		if err := r.rtc.SyncToSystem(); err != nil {
			logger.ErrorKV(ctx, "Failed to sync system clock from RTC", "error", err)
		}
	}

	return Resolve(cfg, r.clock.Now())
}
