package alarm

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DaysInWeek is the number of entries in a Weekdays set.
const DaysInWeek = 7

// ErrUnknownWeekday is returned when a weekday name cannot be parsed.
var ErrUnknownWeekday = errors.New("unknown weekday")

// Weekdays is an ordered enable set indexed by time.Weekday (Sunday = 0).
type Weekdays [DaysInWeek]bool

// NewWeekdays builds a set with the provided days enabled.
func NewWeekdays(days ...time.Weekday) Weekdays {
	var w Weekdays

	for _, day := range days {
		w.Set(day, true)
	}

	return w
}

// WeekdaysFromBits unpacks the persisted form where bit i is weekday i.
func WeekdaysFromBits(bits uint8) Weekdays {
	var w Weekdays

	for i := range DaysInWeek {
		w[i] = (bits>>i)&1 != 0
	}

	return w
}

// Bits packs the set so that bit i is set when weekday i is enabled.
func (w Weekdays) Bits() uint8 {
	var bits uint8

	for i, enabled := range w {
		if enabled {
			bits |= 1 << i
		}
	}

	return bits
}

// Has reports whether the day is enabled. Out of range days are never enabled.
func (w Weekdays) Has(day time.Weekday) bool {
	if day < time.Sunday || day > time.Saturday {
		return false
	}

	return w[day]
}

// Set enables or disables a day. Out of range days are ignored.
func (w *Weekdays) Set(day time.Weekday, enabled bool) {
	if day < time.Sunday || day > time.Saturday {
		return
	}

	w[day] = enabled
}

// Any reports whether at least one day is enabled.
func (w Weekdays) Any() bool {
	for _, enabled := range w {
		if enabled {
			return true
		}
	}

	return false
}

// Days lists the enabled days in Sunday..Saturday order.
func (w Weekdays) Days() []time.Weekday {
	days := make([]time.Weekday, 0, DaysInWeek)

	for i, enabled := range w {
		if enabled {
			days = append(days, time.Weekday(i))
		}
	}

	return days
}

// Names lists the enabled days as short lowercase names ("mon", "wed").
func (w Weekdays) Names() []string {
	days := w.Days()
	names := make([]string, 0, len(days))

	for _, day := range days {
		names = append(names, ShortName(day))
	}

	return names
}

// String renders the set as a comma separated list of short names.
func (w Weekdays) String() string {
	if !w.Any() {
		return "none"
	}

	return strings.Join(w.Names(), ",")
}

// ShortName returns the three letter lowercase name of the day.
func ShortName(day time.Weekday) string {
	return strings.ToLower(day.String()[:3])
}

// ParseWeekday accepts full or three letter day names in any case.
func ParseWeekday(name string) (time.Weekday, error) {
	name = strings.ToLower(strings.TrimSpace(name))

	for day := time.Sunday; day <= time.Saturday; day++ {
		full := strings.ToLower(day.String())
		if name == full || name == full[:3] {
			return day, nil
		}
	}

	return time.Sunday, fmt.Errorf("%q: %w", name, ErrUnknownWeekday)
}

// ParseWeekdays parses a list of names, each of which may itself be comma separated.
func ParseWeekdays(names ...string) (Weekdays, error) {
	var w Weekdays

	for _, item := range names {
		for part := range strings.SplitSeq(item, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}

			day, err := ParseWeekday(part)
			if err != nil {
				return Weekdays{}, err
			}

			w.Set(day, true)
		}
	}

	return w, nil
}
