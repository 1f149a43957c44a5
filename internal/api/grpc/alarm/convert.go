package alarm

import (
	"errors"
	"fmt"
	"math"
	"time"

	"google.golang.org/protobuf/types/known/structpb"

	domain "github.com/oshokin/rtc-alarm/internal/domain/alarm"
)

// Message keys.
const (
	enabledKey  = "enabled"
	hourKey     = "hour"
	minuteKey   = "minute"
	weekDaysKey = "week_days"
	nextKey     = "next"
	armedKey    = "armed"
	fireTimeKey = "fire_time"
	weekdayKey  = "weekday"
)

// ErrBadMessage is returned when a Struct message cannot be converted.
var ErrBadMessage = errors.New("malformed alarm message")

// ConfigToStruct converts a config into its message form.
func ConfigToStruct(cfg domain.Config) (*structpb.Struct, error) {
	return structpb.NewStruct(configFields(cfg))
}

// ConfigFromStruct converts a message into a config. Missing fields are zero.
func ConfigFromStruct(msg *structpb.Struct) (domain.Config, error) {
	var cfg domain.Config

	fields := msg.GetFields()

	if v, ok := fields[enabledKey]; ok {
		b, isBool := v.GetKind().(*structpb.Value_BoolValue)
		if !isBool {
			return domain.Config{}, fmt.Errorf("%w: %s must be a boolean", ErrBadMessage, enabledKey)
		}

		cfg.Enabled = b.BoolValue
	}

	var err error

	if cfg.Hour, err = intValue(fields, hourKey); err != nil {
		return domain.Config{}, err
	}

	if cfg.Minute, err = intValue(fields, minuteKey); err != nil {
		return domain.Config{}, err
	}

	if v, ok := fields[weekDaysKey]; ok {
		list, isList := v.GetKind().(*structpb.Value_ListValue)
		if !isList {
			return domain.Config{}, fmt.Errorf("%w: %s must be a list of weekday names", ErrBadMessage, weekDaysKey)
		}

		names := make([]string, 0, len(list.ListValue.GetValues()))

		for _, item := range list.ListValue.GetValues() {
			s, isString := item.GetKind().(*structpb.Value_StringValue)
			if !isString {
				return domain.Config{}, fmt.Errorf("%w: %s must be a list of weekday names", ErrBadMessage, weekDaysKey)
			}

			names = append(names, s.StringValue)
		}

		if cfg.Days, err = domain.ParseWeekdays(names...); err != nil {
			return domain.Config{}, fmt.Errorf("%w: %w", ErrBadMessage, err)
		}
	}

	return cfg, nil
}

// AlarmToStruct converts a config and its resolution into the SetAlarm reply.
func AlarmToStruct(cfg domain.Config, next domain.Resolution) (*structpb.Struct, error) {
	fields := configFields(cfg)
	fields[nextKey] = resolutionFields(next)

	return structpb.NewStruct(fields)
}

// ResolutionToStruct converts a resolution into its message form.
func ResolutionToStruct(next domain.Resolution) (*structpb.Struct, error) {
	return structpb.NewStruct(resolutionFields(next))
}

// ResolutionFromStruct converts a message into a resolution.
func ResolutionFromStruct(msg *structpb.Struct) (domain.Resolution, error) {
	fields := msg.GetFields()

	if !fields[armedKey].GetBoolValue() {
		return domain.Resolution{}, nil
	}

	fireTime, err := time.Parse(time.RFC3339, fields[fireTimeKey].GetStringValue())
	if err != nil {
		return domain.Resolution{}, fmt.Errorf("%w: %s: %w", ErrBadMessage, fireTimeKey, err)
	}

	return domain.Resolution{FireTime: fireTime, Armed: true}, nil
}

func configFields(cfg domain.Config) map[string]any {
	names := cfg.Days.Names()
	days := make([]any, 0, len(names))

	for _, name := range names {
		days = append(days, name)
	}

	return map[string]any{
		enabledKey:  cfg.Enabled,
		hourKey:     cfg.Hour,
		minuteKey:   cfg.Minute,
		weekDaysKey: days,
	}
}

func resolutionFields(next domain.Resolution) map[string]any {
	fields := map[string]any{
		armedKey:    next.Armed,
		fireTimeKey: "",
		weekdayKey:  "",
	}

	if next.Armed {
		fields[fireTimeKey] = next.FireTime.Format(time.RFC3339)
		fields[weekdayKey] = domain.ShortName(next.FireTime.Weekday())
	}

	return fields
}

func intValue(fields map[string]*structpb.Value, key string) (int, error) {
	v, ok := fields[key]
	if !ok {
		return 0, nil
	}

	n, isNumber := v.GetKind().(*structpb.Value_NumberValue)
	if !isNumber || n.NumberValue != math.Trunc(n.NumberValue) ||
		n.NumberValue < math.MinInt32 || n.NumberValue > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %s must be an integer", ErrBadMessage, key)
	}

	return int(n.NumberValue), nil
}
