package alarm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestConfigValidate checks hour and minute bounds.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, Config{Hour: 0, Minute: 0}.Validate())
	require.NoError(t, Config{Hour: 23, Minute: 59}.Validate())
	require.ErrorIs(t, Config{Hour: 24}.Validate(), ErrInvalidHour)
	require.ErrorIs(t, Config{Hour: -1}.Validate(), ErrInvalidHour)
	require.ErrorIs(t, Config{Minute: 60}.Validate(), ErrInvalidMinute)
}

// TestParseClock verifies HH:MM parsing and validation.
func TestParseClock(t *testing.T) {
	t.Parallel()

	hour, minute, err := ParseClock("07:30")
	require.NoError(t, err)
	require.Equal(t, 7, hour)
	require.Equal(t, 30, minute)

	_, _, err = ParseClock("seven")
	require.ErrorIs(t, err, ErrInvalidTime)

	_, _, err = ParseClock("25:00")
	require.ErrorIs(t, err, ErrInvalidHour)

	require.Equal(t, "07:05", Config{Hour: 7, Minute: 5}.Clock())
}

// TestResolutionWeekday verifies the NotSet sentinel for unarmed resolutions.
func TestResolutionWeekday(t *testing.T) {
	t.Parallel()

	require.Equal(t, NotSet, Resolution{}.Weekday())

	fire := time.Date(2026, time.October, 21, 7, 30, 0, 0, time.UTC)
	require.Equal(t, int(time.Wednesday), Resolution{FireTime: fire, Armed: true}.Weekday())
}

// TestEventString checks single events and masks render readable names.
func TestEventString(t *testing.T) {
	t.Parallel()

	require.Equal(t, "alarm_occurred", EventOccurred.String())
	require.Equal(t, "alarm_enabled|alarm_next_term_set", (EventEnabled | EventNextTermSet).String())
	require.Equal(t, "none", Event(0).String())
	require.True(t, AllEvents.Has(EventDisabled))
	require.False(t, EventEnabled.Has(EventDisabled))
}
