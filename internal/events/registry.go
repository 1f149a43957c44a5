// Package events implements the subscriber registry the alarm controller
// publishes to. Delivery is synchronous, one call per subscriber per event, in
// registration order.
package events

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/oshokin/rtc-alarm/internal/domain/alarm"
	"github.com/oshokin/rtc-alarm/internal/logger"
)

// Handler receives an event. Returning false marks the delivery as failed;
// the remaining subscribers are still called.
type Handler func(ctx context.Context, event alarm.Event) bool

var (
	// ErrNilHandler is returned when registering a nil handler.
	ErrNilHandler = errors.New("handler must be provided")
	// ErrEmptyMask is returned when registering for no event.
	ErrEmptyMask = errors.New("event mask must not be empty")
)

type subscription struct {
	id   uuid.UUID
	mask alarm.Event
	name string
	fn   Handler
}

// Registry fans events out to subscribers.
type Registry struct {
	// name identifies the registry in logs.
	name string

	mu   sync.RWMutex
	subs []subscription
}

// NewRegistry creates an empty registry.
func NewRegistry(name string) *Registry {
	return &Registry{
		name: name,
	}
}

// Register subscribes fn to every event in mask and returns the subscription id.
func (r *Registry) Register(mask alarm.Event, name string, fn Handler) (uuid.UUID, error) {
	if fn == nil {
		return uuid.Nil, ErrNilHandler
	}

	if mask&alarm.AllEvents == 0 {
		return uuid.Nil, ErrEmptyMask
	}

	id := uuid.New()

	r.mu.Lock()
	defer r.mu.Unlock()

	r.subs = append(r.subs, subscription{
		id:   id,
		mask: mask & alarm.AllEvents,
		name: name,
		fn:   fn,
	})

	return id, nil
}

// Unregister removes a subscription. It reports whether the id was known.
func (r *Registry) Unregister(id uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	before := len(r.subs)
	r.subs = slices.DeleteFunc(r.subs, func(s subscription) bool { return s.id == id })

	return len(r.subs) != before
}

// Len returns the number of subscriptions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.subs)
}

// Send delivers event to each matching subscriber and reports whether all of them succeeded.
// Subscribers may register or unregister from inside a handler; the change applies to the next Send.
func (r *Registry) Send(ctx context.Context, event alarm.Event) bool {
	r.mu.RLock()
	subs := slices.Clone(r.subs)
	r.mu.RUnlock()

	ok := true

	for _, s := range subs {
		if s.mask&event == 0 {
			continue
		}

		if !s.fn(ctx, event) {
			logger.DebugKV(ctx, "Subscriber rejected event", "registry", r.name, "subscriber", s.name, "event", event.String())

			ok = false
		}
	}

	return ok
}
