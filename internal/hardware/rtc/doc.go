// Package rtc describes the real-time-clock alarm peripheral the scheduler
// programs and ships a simulated PCF8563-style chip for hosts without one.
//
// The alarm is matched field by field (minute, hour, day of month, weekday).
// A field holding NoAlarm is ignored; all fields holding NoAlarm means no
// alarm is programmed at all.
package rtc
