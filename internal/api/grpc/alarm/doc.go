// Package alarm implements the gRPC control API of the alarm daemon.
//
// The service rtcalarm.v1.AlarmControl is registered by hand on top of the
// protobuf well-known types (Empty and Struct), so no generated stubs are
// needed. The package provides the service descriptor, a client and the
// conversions between domain types and Struct messages.
package alarm
