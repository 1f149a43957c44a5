// Package alarm contains core domain types for the weekly RTC alarm.
//
// It defines Config (the user-level alarm setting), Weekdays (an ordered
// Sunday..Saturday enable set), Resolution (the derived next fire time) and
// Event (the notifications the controller fans out to subscribers).
package alarm
