package alarm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestWeekdaysBits verifies packing and unpacking of the persisted bit form.
func TestWeekdaysBits(t *testing.T) {
	t.Parallel()

	w := NewWeekdays(time.Monday, time.Wednesday, time.Friday)
	require.Equal(t, uint8(0b0101010), w.Bits())
	require.Equal(t, w, WeekdaysFromBits(w.Bits()))

	// Bit 7 is not a weekday and is dropped.
	require.Equal(t, NewWeekdays(time.Sunday), WeekdaysFromBits(0b10000001))

	require.False(t, Weekdays{}.Any())
	require.Equal(t, uint8(0), Weekdays{}.Bits())
}

// TestWeekdaysSetHas checks bounds handling for Set and Has.
func TestWeekdaysSetHas(t *testing.T) {
	t.Parallel()

	var w Weekdays

	w.Set(time.Saturday, true)
	w.Set(time.Weekday(9), true)

	require.True(t, w.Has(time.Saturday))
	require.False(t, w.Has(time.Weekday(9)))
	require.False(t, w.Has(time.Weekday(-1)))
	require.Equal(t, []time.Weekday{time.Saturday}, w.Days())
	require.Equal(t, "sat", w.String())
	require.Equal(t, "none", Weekdays{}.String())
}

// TestParseWeekdays covers short, full and comma separated names.
func TestParseWeekdays(t *testing.T) {
	t.Parallel()

	w, err := ParseWeekdays("Mon,wednesday", " FRI ")
	require.NoError(t, err)
	require.Equal(t, NewWeekdays(time.Monday, time.Wednesday, time.Friday), w)
	require.Equal(t, []string{"mon", "wed", "fri"}, w.Names())

	_, err = ParseWeekdays("mon,someday")
	require.ErrorIs(t, err, ErrUnknownWeekday)
}
