// Package controller owns the alarm configuration and drives the RTC alarm.
//
// Every configuration change disarms the hardware, persists the config,
// resolves the next fire time, reprograms the registers and re-arms the
// hardware when enabled, then notifies subscribers. Power phase changes arm
// the RTC interrupt as a wake source for standby, and the power loop drains
// the interrupt flag into EventOccurred notifications.
//
// The controller is not safe for concurrent use: all calls must come from the
// power loop goroutine or be serialized by the caller.
package controller
