// Package scheduler resolves a weekly alarm configuration into the next
// absolute fire time.
//
// Resolve is pure: given a Config and the current time it returns the next
// Resolution. Resolver wraps it with the hardware clock synchronization that
// must happen before the current time is read.
package scheduler
