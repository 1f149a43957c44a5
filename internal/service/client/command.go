package client

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/oshokin/rtc-alarm/internal/config"
	"github.com/oshokin/rtc-alarm/internal/domain/alarm"
	"github.com/oshokin/rtc-alarm/internal/logger"
)

// Options configures how rtc-alarmctl reaches the daemon.
type Options struct {
	// ConfigPath to YAML settings file, defaults to standard filename if empty.
	ConfigPath string

	// ServerAddress overrides the control address from config when specified.
	ServerAddress string

	// Output receives the command output, os.Stdout when nil.
	Output io.Writer
}

// SetOptions describes the change requested by "rtc-alarmctl set".
// Empty fields keep the current value.
type SetOptions struct {
	// At is the HH:MM time of day.
	At string
	// Days lists weekday names, each entry may be comma separated.
	Days []string
	// Disable stores the config disarmed.
	Disable bool
	// Retry keeps pushing the config until the daemon answers.
	Retry bool
}

// defaultPushInterval defines retry delay when pushing the config to the daemon.
const defaultPushInterval = 1 * time.Second

// RunGet prints the current alarm config.
func RunGet(ctx context.Context, opts *Options) error {
	return withClient(ctx, opts, func(ctx context.Context, client *Client, out io.Writer) error {
		cfg, err := client.Alarm(ctx)
		if err != nil {
			return err
		}

		_, err = fmt.Fprintln(out, formatConfig(cfg))

		return err
	})
}

// RunNext prints the next fire time.
func RunNext(ctx context.Context, opts *Options) error {
	return withClient(ctx, opts, func(ctx context.Context, client *Client, out io.Writer) error {
		next, err := client.NextAlarm(ctx)
		if err != nil {
			return err
		}

		_, err = fmt.Fprintln(out, formatNext(next))

		return err
	})
}

// RunSet merges set into the current config and pushes it to the daemon.
func RunSet(ctx context.Context, opts *Options, set *SetOptions) error {
	return withClient(ctx, opts, func(ctx context.Context, client *Client, out io.Writer) error {
		attempt := func() (bool, error) {
			current, err := client.Alarm(ctx)
			if err != nil {
				if !set.Retry {
					return false, err
				}

				logger.ErrorKV(ctx, "GetAlarm failed", "error", err)

				return false, nil
			}

			cfg, err := set.apply(current)
			if err != nil {
				return false, err
			}

			applied, next, err := client.SetAlarm(ctx, cfg)
			if err != nil {
				if !set.Retry {
					return false, err
				}

				logger.ErrorKV(ctx, "SetAlarm failed", "error", err)

				return false, nil
			}

			_, err = fmt.Fprintf(out, "%s\n%s\n", formatConfig(applied), formatNext(next))

			return true, err
		}

		if done, err := attempt(); err != nil || done {
			return err
		}

		ticker := time.NewTicker(defaultPushInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				done, err := attempt()
				if err != nil || done {
					return err
				}
			}
		}
	})
}

func (s *SetOptions) apply(cfg alarm.Config) (alarm.Config, error) {
	cfg.Enabled = !s.Disable

	if s.At != "" {
		hour, minute, err := alarm.ParseClock(s.At)
		if err != nil {
			return alarm.Config{}, err
		}

		cfg.Hour, cfg.Minute = hour, minute
	}

	if len(s.Days) > 0 {
		days, err := alarm.ParseWeekdays(s.Days...)
		if err != nil {
			return alarm.Config{}, err
		}

		cfg.Days = days
	}

	return cfg, nil
}

func withClient(
	ctx context.Context,
	opts *Options,
	fn func(ctx context.Context, client *Client, out io.Writer) error,
) error {
	ctx = logger.WithName(ctx, "rtc-alarmctl")

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	address := cfg.ControlAddress
	if opts.ServerAddress != "" {
		address = opts.ServerAddress
	}

	client, err := Dial(ctx, address, WithCallTimeout(cfg.Timeout))
	if err != nil {
		return err
	}

	defer func() {
		_ = client.Close()
	}()

	logger.DebugKV(ctx, "Connected to alarm daemon", "control_addr", address)

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	return fn(ctx, client, out)
}

func formatConfig(cfg alarm.Config) string {
	status := "disabled"
	if cfg.Enabled {
		status = "enabled"
	}

	return fmt.Sprintf("alarm %s at %s on %s", status, cfg.Clock(), cfg.Days)
}

func formatNext(next alarm.Resolution) string {
	if !next.Armed {
		return "next alarm: not set"
	}

	return "next alarm: " + next.FireTime.Format("Mon 2006-01-02 15:04 MST")
}
