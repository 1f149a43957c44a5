package rtc

import (
	"fmt"
	"time"
)

// NoAlarm marks an alarm register field as "do not match".
const NoAlarm uint8 = 0xFF

// Registers is the alarm register block of the chip.
type Registers struct {
	// Minute is matched against the minute of hour.
	Minute uint8
	// Hour is matched against the hour of day.
	Hour uint8
	// Day is matched against the day of month.
	Day uint8
	// Weekday is matched against the day of week (Sunday = 0).
	Weekday uint8
}

// Disarmed returns the register block with every field set to NoAlarm.
func Disarmed() Registers {
	return Registers{
		Minute:  NoAlarm,
		Hour:    NoAlarm,
		Day:     NoAlarm,
		Weekday: NoAlarm,
	}
}

// At returns registers matching t by minute, hour and day of month.
// The weekday field is left unmatched.
func At(t time.Time) Registers {
	return Registers{
		Minute:  uint8(t.Minute()), //nolint:gosec // Minute is always within 0..59.
		Hour:    uint8(t.Hour()),   //nolint:gosec // Hour is always within 0..23.
		Day:     uint8(t.Day()),    //nolint:gosec // Day is always within 1..31.
		Weekday: NoAlarm,
	}
}

// IsDisarmed reports whether no field is matched.
func (r Registers) IsDisarmed() bool {
	return r == Disarmed()
}

// Matches reports whether t satisfies every matched field.
// Disarmed registers never match.
func (r Registers) Matches(t time.Time) bool {
	if r.IsDisarmed() {
		return false
	}

	return field(r.Minute, t.Minute()) &&
		field(r.Hour, t.Hour()) &&
		field(r.Day, t.Day()) &&
		field(r.Weekday, int(t.Weekday()))
}

// String renders the registers as mm hh dd ww with "--" for unmatched fields.
func (r Registers) String() string {
	return fmt.Sprintf("min=%s hour=%s day=%s wday=%s",
		fieldString(r.Minute), fieldString(r.Hour), fieldString(r.Day), fieldString(r.Weekday))
}

func field(reg uint8, value int) bool {
	return reg == NoAlarm || int(reg) == value
}

func fieldString(reg uint8) string {
	if reg == NoAlarm {
		return "--"
	}

	return fmt.Sprintf("%02d", reg)
}

// Driver is the register-level interface of the RTC alarm.
type Driver interface {
	// SetAlarm writes the alarm registers.
	SetAlarm(regs Registers) error
	// EnableAlarm activates the interrupt line for alarm matches.
	EnableAlarm() error
	// DisableAlarm deactivates the interrupt line.
	DisableAlarm() error
	// SyncToSystem copies the chip time into the system clock.
	SyncToSystem() error
}
