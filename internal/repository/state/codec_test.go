package state

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/rtc-alarm/internal/domain/alarm"
)

// TestEncodeFields checks the document carries every record key.
func TestEncodeFields(t *testing.T) {
	t.Parallel()

	data, err := Encode(alarm.Config{
		Enabled: true,
		Hour:    7,
		Minute:  30,
		Days:    alarm.NewWeekdays(time.Monday, time.Wednesday, time.Friday),
	})
	require.NoError(t, err)

	require.JSONEq(t, `{"version":1,"enabled":true,"hour":7,"minute":30,"week_days":42}`, string(data))
}

// TestDecode covers accepted and rejected documents.
func TestDecode(t *testing.T) {
	t.Parallel()

	cfg, err := Decode([]byte(`{"version":1,"enabled":true,"hour":23,"minute":59,"week_days":127}`))
	require.NoError(t, err)
	require.Equal(t, alarm.Config{
		Enabled: true,
		Hour:    23,
		Minute:  59,
		Days:    alarm.WeekdaysFromBits(127),
	}, cfg)

	// Missing fields keep defaults, missing version is accepted.
	cfg, err = Decode([]byte(`{"hour":6}`))
	require.NoError(t, err)
	require.Equal(t, alarm.Config{Hour: 6}, cfg)

	for name, doc := range map[string]string{
		"not json":        `{"hour":`,
		"array":           `[1,2,3]`,
		"hour range":      `{"hour":24}`,
		"minute fraction": `{"minute":1.5}`,
		"negative days":   `{"week_days":-1}`,
		"days range":      `{"week_days":128}`,
		"enabled type":    `{"enabled":"yes"}`,
		"hour type":       `{"hour":"7"}`,
		"version":         `{"version":2}`,
		"version zero":    `{"version":0}`,
	} {
		_, err = Decode([]byte(doc))
		require.ErrorIs(t, err, ErrCorrupt, name)
	}
}
