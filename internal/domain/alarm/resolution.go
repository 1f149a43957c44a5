package alarm

import "time"

// NotSet is the weekday index reported when no alarm is scheduled.
const NotSet = -1

// Resolution is the derived projection of a Config at a point in time.
// It is never persisted and is always recomputed from scratch.
type Resolution struct {
	// FireTime is the absolute time the alarm fires next. Zero when not armed.
	FireTime time.Time
	// Armed reports whether any weekday is enabled.
	Armed bool
}

// Weekday returns the weekday of the fire time, or NotSet when not armed.
func (r Resolution) Weekday() int {
	if !r.Armed {
		return NotSet
	}

	return int(r.FireTime.Weekday())
}
