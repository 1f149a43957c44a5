package events

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/oshokin/rtc-alarm/internal/domain/alarm"
)

// TestRegistry_SendOrderAndMask verifies in-order delivery filtered by mask.
func TestRegistry_SendOrderAndMask(t *testing.T) {
	t.Parallel()

	var (
		ctx   = context.Background()
		r     = NewRegistry("test")
		calls []string
	)

	record := func(name string, result bool) Handler {
		return func(_ context.Context, e alarm.Event) bool {
			calls = append(calls, name+":"+e.String())

			return result
		}
	}

	_, err := r.Register(alarm.AllEvents, "first", record("first", true))
	require.NoError(t, err)

	_, err = r.Register(alarm.EventOccurred, "second", record("second", false))
	require.NoError(t, err)

	_, err = r.Register(alarm.EventEnabled|alarm.EventOccurred, "third", record("third", true))
	require.NoError(t, err)

	require.True(t, r.Send(ctx, alarm.EventNextTermSet))
	require.False(t, r.Send(ctx, alarm.EventOccurred))

	require.Equal(t, []string{
		"first:alarm_next_term_set",
		"first:alarm_occurred",
		"second:alarm_occurred",
		"third:alarm_occurred",
	}, calls)
}

// TestRegistry_RegisterValidation rejects nil handlers and empty masks.
func TestRegistry_RegisterValidation(t *testing.T) {
	t.Parallel()

	r := NewRegistry("test")

	_, err := r.Register(alarm.EventEnabled, "nil", nil)
	require.ErrorIs(t, err, ErrNilHandler)

	_, err = r.Register(0, "empty", func(context.Context, alarm.Event) bool { return true })
	require.ErrorIs(t, err, ErrEmptyMask)

	require.Zero(t, r.Len())
}

// TestRegistry_Unregister removes only the given subscription.
func TestRegistry_Unregister(t *testing.T) {
	t.Parallel()

	r := NewRegistry("test")
	count := 0
	handler := func(context.Context, alarm.Event) bool {
		count++

		return true
	}

	id, err := r.Register(alarm.AllEvents, "a", handler)
	require.NoError(t, err)

	_, err = r.Register(alarm.AllEvents, "b", handler)
	require.NoError(t, err)

	require.True(t, r.Unregister(id))
	require.False(t, r.Unregister(id))
	require.False(t, r.Unregister(uuid.New()))
	require.Equal(t, 1, r.Len())

	r.Send(context.Background(), alarm.EventDisabled)
	require.Equal(t, 1, count)
}
