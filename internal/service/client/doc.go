// Package client implements the rtc-alarmctl commands on top of the gRPC
// control API.
package client
