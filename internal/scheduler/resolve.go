package scheduler

import (
	"time"

	"github.com/oshokin/rtc-alarm/internal/domain/alarm"
)

// Resolve computes the next fire time of cfg strictly after now.
//
// Calendar arithmetic happens in the location of now. The forward search walks
// at most a week; if no enabled day is found on the way (impossible once any
// day is enabled) it lands on the same weekday next week.
func Resolve(cfg alarm.Config, now time.Time) alarm.Resolution {
	if !cfg.Days.Any() {
		return alarm.Resolution{}
	}

	year, month, day := now.Date()
	loc := now.Location()
	today := now.Weekday()

	candidate := time.Date(year, month, day, cfg.Hour, cfg.Minute, 0, 0, loc)
	if cfg.Days.Has(today) && candidate.After(now) {
		return alarm.Resolution{FireTime: candidate, Armed: true}
	}

	for offset := 1; offset <= alarm.DaysInWeek; offset++ {
		weekday := time.Weekday((int(today) + offset) % alarm.DaysInWeek)
		if cfg.Days.Has(weekday) {
			return alarm.Resolution{
				FireTime: time.Date(year, month, day+offset, cfg.Hour, cfg.Minute, 0, 0, loc),
				Armed:    true,
			}
		}
	}

	return alarm.Resolution{
		FireTime: time.Date(year, month, day+alarm.DaysInWeek, cfg.Hour, cfg.Minute, 0, 0, loc),
		Armed:    true,
	}
}
