package daemon

import (
	"context"

	"github.com/oshokin/rtc-alarm/internal/domain/alarm"
	"github.com/oshokin/rtc-alarm/internal/hardware/rtc"
	"github.com/oshokin/rtc-alarm/internal/power"
	"github.com/oshokin/rtc-alarm/internal/service/controller"
)

// service serializes transport calls onto the power loop goroutine, which
// owns the controller.
type service struct {
	ctl   *controller.Controller
	power *power.Dispatcher
	chip  *rtc.Simulated
}

func (s *service) Alarm(ctx context.Context) (alarm.Config, error) {
	var cfg alarm.Config

	err := s.power.Do(ctx, func(context.Context) {
		cfg = s.ctl.Config()
	})

	return cfg, err
}

func (s *service) SetAlarm(ctx context.Context, cfg alarm.Config) (alarm.Resolution, error) {
	var (
		next   alarm.Resolution
		setErr error
	)

	err := s.power.Do(ctx, func(loopCtx context.Context) {
		if setErr = s.ctl.SetAlarm(loopCtx, cfg); setErr == nil {
			next = s.ctl.Next()
		}
	})
	if err != nil {
		return alarm.Resolution{}, err
	}

	return next, setErr
}

func (s *service) NextAlarm(ctx context.Context) (alarm.Resolution, error) {
	var next alarm.Resolution

	err := s.power.Do(ctx, func(context.Context) {
		next = s.ctl.Next()
	})

	return next, err
}

func (s *service) SetPower(ctx context.Context, phase power.Event) error {
	var transitionErr error

	err := s.power.Do(ctx, func(loopCtx context.Context) {
		transitionErr = s.power.Transition(loopCtx, phase)
	})
	if err != nil {
		return err
	}

	return transitionErr
}

// RaiseInterrupt pulls the RTC interrupt line as the chip would on a match.
func (s *service) RaiseInterrupt(context.Context) error {
	s.chip.Raise()

	return nil
}
