// Package power implements the power-management dispatcher of the device.
//
// The dispatcher owns the power phase (Wakeup, SilenceWakeup or Standby),
// fans phase changes out to registered state handlers, runs loop handlers on
// every tick of the phases they registered for, and collects wake sources for
// standby. All handlers run on the dispatcher goroutine; other goroutines hand
// work to it through Do. Only SetEvent and PostWake may be called from
// interrupt context.
package power
