package alarm

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// MaxHour is the largest valid hour of day.
	MaxHour = 23
	// MaxMinute is the largest valid minute of hour.
	MaxMinute = 59
)

var (
	// ErrInvalidHour is returned when the hour is outside 0..23.
	ErrInvalidHour = errors.New("hour must be within 0..23")
	// ErrInvalidMinute is returned when the minute is outside 0..59.
	ErrInvalidMinute = errors.New("minute must be within 0..59")
	// ErrInvalidTime is returned when a HH:MM string cannot be parsed.
	ErrInvalidTime = errors.New("time must be formatted as HH:MM")
)

// Config is the user-level alarm setting owned by the controller.
type Config struct {
	// Enabled indicates whether the hardware alarm is armed.
	Enabled bool
	// Hour is the hour of day the alarm fires at.
	Hour int
	// Minute is the minute of hour the alarm fires at.
	Minute int
	// Days holds the weekdays the alarm repeats on.
	Days Weekdays
}

// Validate checks that Hour and Minute are valid clock values.
func (c Config) Validate() error {
	if c.Hour < 0 || c.Hour > MaxHour {
		return fmt.Errorf("%d: %w", c.Hour, ErrInvalidHour)
	}

	if c.Minute < 0 || c.Minute > MaxMinute {
		return fmt.Errorf("%d: %w", c.Minute, ErrInvalidMinute)
	}

	return nil
}

// Clock renders the time of day as HH:MM.
func (c Config) Clock() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// ParseClock parses a HH:MM string into hour and minute.
func ParseClock(value string) (hour, minute int, err error) {
	value = strings.TrimSpace(value)

	if _, err = fmt.Sscanf(value, "%d:%d", &hour, &minute); err != nil {
		return 0, 0, fmt.Errorf("%q: %w", value, ErrInvalidTime)
	}

	check := Config{Hour: hour, Minute: minute}
	if err = check.Validate(); err != nil {
		return 0, 0, err
	}

	return hour, minute, nil
}
