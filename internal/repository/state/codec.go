package state

import (
	"errors"
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/oshokin/rtc-alarm/internal/domain/alarm"
)

// SchemaVersion is written to every record.
const SchemaVersion = 1

// Record keys.
const (
	versionKey  = "version"
	enabledKey  = "enabled"
	hourKey     = "hour"
	minuteKey   = "minute"
	weekDaysKey = "week_days"
)

const weekDaysMax = 1<<alarm.DaysInWeek - 1

var (
	// ErrNotFound is returned when no record has been stored yet.
	ErrNotFound = errors.New("alarm record not found")
	// ErrCorrupt is returned when the stored record cannot be decoded.
	ErrCorrupt = errors.New("alarm record is corrupt")
)

// Encode renders cfg as the persisted JSON document.
func Encode(cfg alarm.Config) ([]byte, error) {
	doc, err := structpb.NewStruct(map[string]any{
		versionKey:  SchemaVersion,
		enabledKey:  cfg.Enabled,
		hourKey:     cfg.Hour,
		minuteKey:   cfg.Minute,
		weekDaysKey: int(cfg.Days.Bits()),
	})
	if err != nil {
		return nil, fmt.Errorf("build alarm record: %w", err)
	}

	marshalOptions := protojson.MarshalOptions{
		Multiline: true,
		Indent:    "  ",
	}

	data, err := marshalOptions.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode alarm record: %w", err)
	}

	return data, nil
}

// Decode parses a persisted document. Missing fields keep their zero value;
// wrong types, out of range values or an unknown version yield ErrCorrupt.
func Decode(data []byte) (alarm.Config, error) {
	var doc structpb.Struct
	if err := protojson.Unmarshal(data, &doc); err != nil {
		return alarm.Config{}, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}

	fields := doc.GetFields()

	version, err := intField(fields, versionKey, SchemaVersion)
	if err != nil {
		return alarm.Config{}, err
	}

	if _, ok := fields[versionKey]; ok && version != SchemaVersion {
		return alarm.Config{}, fmt.Errorf("%w: unsupported version %d", ErrCorrupt, version)
	}

	var cfg alarm.Config

	if cfg.Enabled, err = boolField(fields, enabledKey); err != nil {
		return alarm.Config{}, err
	}

	if cfg.Hour, err = intField(fields, hourKey, alarm.MaxHour); err != nil {
		return alarm.Config{}, err
	}

	if cfg.Minute, err = intField(fields, minuteKey, alarm.MaxMinute); err != nil {
		return alarm.Config{}, err
	}

	bits, err := intField(fields, weekDaysKey, weekDaysMax)
	if err != nil {
		return alarm.Config{}, err
	}

	cfg.Days = alarm.WeekdaysFromBits(uint8(bits)) //nolint:gosec // Bounded by weekDaysMax.

	return cfg, nil
}

func boolField(fields map[string]*structpb.Value, key string) (bool, error) {
	value, ok := fields[key]
	if !ok {
		return false, nil
	}

	b, ok := value.GetKind().(*structpb.Value_BoolValue)
	if !ok {
		return false, fmt.Errorf("%w: %s must be a boolean", ErrCorrupt, key)
	}

	return b.BoolValue, nil
}

func intField(fields map[string]*structpb.Value, key string, maxValue int) (int, error) {
	value, ok := fields[key]
	if !ok {
		return 0, nil
	}

	n, ok := value.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, fmt.Errorf("%w: %s must be a number", ErrCorrupt, key)
	}

	number := n.NumberValue
	if number != math.Trunc(number) || number < 0 || number > float64(maxValue) {
		return 0, fmt.Errorf("%w: %s must be an integer within 0..%d", ErrCorrupt, key, maxValue)
	}

	return int(number), nil
}
