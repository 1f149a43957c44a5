package alarm

import "strings"

// Event identifies a notification fanned out by the controller.
// Values are bit flags so subscribers can register for several at once.
type Event uint8

const (
	// EventEnabled is sent when the alarm goes from disarmed to armed.
	EventEnabled Event = 1 << iota
	// EventDisabled is sent when the alarm goes from armed to disarmed.
	EventDisabled
	// EventOccurred is sent when a hardware alarm interrupt has been drained.
	EventOccurred
	// EventNextTermSet is sent each time a fire time (or the disarmed registers) is committed.
	EventNextTermSet
)

// AllEvents is the mask matching every event.
const AllEvents = EventEnabled | EventDisabled | EventOccurred | EventNextTermSet

//nolint:gochecknoglobals // Lookup table for String.
var eventNames = []struct {
	event Event
	name  string
}{
	{EventEnabled, "alarm_enabled"},
	{EventDisabled, "alarm_disabled"},
	{EventOccurred, "alarm_occurred"},
	{EventNextTermSet, "alarm_next_term_set"},
}

// Has reports whether every bit of other is set in e.
func (e Event) Has(other Event) bool {
	return other != 0 && e&other == other
}

// String renders the event (or mask) as a list of names joined by "|".
func (e Event) String() string {
	if e == 0 {
		return "none"
	}

	names := make([]string, 0, len(eventNames))

	for _, item := range eventNames {
		if e&item.event != 0 {
			names = append(names, item.name)
		}
	}

	if len(names) == 0 {
		return "unknown"
	}

	return strings.Join(names, "|")
}
