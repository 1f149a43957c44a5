package state

import (
	"context"

	"github.com/oshokin/rtc-alarm/internal/domain/alarm"
)

// Repository defines persistence operations for the alarm configuration.
type Repository interface {
	// Load returns the stored config, ErrNotFound or ErrCorrupt.
	Load(ctx context.Context) (alarm.Config, error)
	// Save replaces the stored config.
	Save(ctx context.Context, cfg alarm.Config) error
}
