// Package daemon runs rtc-alarmd: it wires the alarm controller to the
// simulated RTC, the power loop, the alarm record storage and the control
// transports, and serves until its context is canceled.
package daemon
