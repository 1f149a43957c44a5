// Package httpapi exposes the alarm daemon over a small JSON HTTP API used
// for debugging and for simulating power transitions and RTC interrupts.
package httpapi
