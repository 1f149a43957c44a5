package daemon

import (
	"context"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/rtc-alarm/internal/config"
	"github.com/oshokin/rtc-alarm/internal/domain/alarm"
	"github.com/oshokin/rtc-alarm/internal/power"
	"github.com/oshokin/rtc-alarm/internal/service/client"
)

func testSettings(t *testing.T, storage string) *config.Config {
	t.Helper()

	settings := &config.Config{
		ControlAddress: "127.0.0.1:0",
		HTTPAddress:    "127.0.0.1:0",
		Storage:        storage,
		StateFile:      filepath.Join(t.TempDir(), "rtc-alarm.state"),
		PollInterval:   10 * time.Millisecond,
		Timeout:        2 * time.Second,
	}
	require.NoError(t, config.Validate(settings))

	return settings
}

// start serves a daemon until the returned stop function is called.
func start(t *testing.T, settings *config.Config) (*Daemon, func()) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())

	d, err := New(ctx, settings)
	require.NoError(t, err)

	served := make(chan error, 1)

	go func() {
		served <- d.Serve(ctx)
	}()

	stop := func() {
		cancel()

		select {
		case err := <-served:
			require.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("daemon did not stop")
		}
	}

	return d, stop
}

func post(t *testing.T, d *Daemon, path string) int {
	t.Helper()

	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, "http://"+d.HTTPAddress()+path, nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	_ = resp.Body.Close()

	return resp.StatusCode
}

func TestDaemon_SetAlarmPersistsAcrossRestart(t *testing.T) {
	t.Parallel()

	for _, storage := range []string{config.StorageFile, config.StorageSQLite} {
		t.Run(storage, func(t *testing.T) {
			t.Parallel()

			settings := testSettings(t, storage)
			d, stop := start(t, settings)

			c, err := client.Dial(context.Background(), d.ControlAddress())
			require.NoError(t, err)

			defer func() { _ = c.Close() }()

			// Three hours ahead keeps the chip from matching during the test.
			at := time.Now().Add(3 * time.Hour)
			cfg := alarm.Config{
				Enabled: true,
				Hour:    at.Hour(),
				Minute:  at.Minute(),
				Days:    alarm.NewWeekdays(at.Weekday()),
			}

			applied, next, err := c.SetAlarm(context.Background(), cfg)
			require.NoError(t, err)
			require.Equal(t, cfg, applied)
			require.True(t, next.Armed)
			require.Equal(t, int(at.Weekday()), next.Weekday())

			require.True(t, d.chip.Enabled())
			require.False(t, d.chip.Registers().IsDisarmed())

			stop()

			// A new instance over the same record restores the alarm.
			settings.ControlAddress = "127.0.0.1:0"
			settings.HTTPAddress = "127.0.0.1:0"

			restarted, stopRestarted := start(t, settings)
			defer stopRestarted()

			c2, err := client.Dial(context.Background(), restarted.ControlAddress())
			require.NoError(t, err)

			defer func() { _ = c2.Close() }()

			got, err := c2.Alarm(context.Background())
			require.NoError(t, err)
			require.Equal(t, cfg, got)

			restoredNext, err := c2.NextAlarm(context.Background())
			require.NoError(t, err)
			require.True(t, restoredNext.Armed)
			require.True(t, restarted.chip.Enabled())
		})
	}
}

func TestDaemon_InterruptInStandbyWakesSilently(t *testing.T) {
	t.Parallel()

	d, stop := start(t, testSettings(t, config.StorageFile))
	defer stop()

	var (
		occurred     atomic.Int32
		subscribeErr error
	)

	require.NoError(t, d.dispatcher.Do(context.Background(), func(context.Context) {
		_, subscribeErr = d.controller.Subscribe(alarm.EventOccurred, "test", func(context.Context, alarm.Event) bool {
			occurred.Add(1)

			return true
		})
	}))
	require.NoError(t, subscribeErr)

	require.Equal(t, http.StatusNoContent, post(t, d, "/api/power/standby"))
	require.Equal(t, []string{"rtc_int"}, d.dispatcher.WakeSources())

	require.Equal(t, http.StatusAccepted, post(t, d, "/api/rtc/interrupt"))

	require.Eventually(t, func() bool {
		return occurred.Load() == 1
	}, 2*time.Second, 10*time.Millisecond)

	require.Equal(t, power.SilenceWakeup, d.dispatcher.Phase())
	require.Empty(t, d.dispatcher.WakeSources())

	// Interrupts while awake are delivered on the next loop tick.
	require.Equal(t, http.StatusNoContent, post(t, d, "/api/power/wakeup"))
	require.Equal(t, http.StatusAccepted, post(t, d, "/api/rtc/interrupt"))

	require.Eventually(t, func() bool {
		return occurred.Load() == 2
	}, 2*time.Second, 10*time.Millisecond)
}

func TestNew_RejectsBusyAddress(t *testing.T) {
	t.Parallel()

	settings := testSettings(t, config.StorageFile)
	d, stop := start(t, settings)
	defer stop()

	busy := *settings
	busy.ControlAddress = d.ControlAddress()
	busy.HTTPAddress = ""

	_, err := New(context.Background(), &busy)
	require.Error(t, err)
}

// freeAddress reserves a loopback port and releases it for the daemon to bind.
func freeAddress(t *testing.T) string {
	t.Helper()

	listener, err := new(net.ListenConfig).Listen(context.Background(), "tcp", "127.0.0.1:0")
	require.NoError(t, err)

	address := listener.Addr().String()
	require.NoError(t, listener.Close())

	return address
}

func TestRun_UsesSettingsFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "settings.yaml")
	statePath := filepath.Join(dir, "alarm.db")
	address := freeAddress(t)

	require.NoError(t, config.Save(cfgPath, &config.Config{
		ControlAddress: address,
		Storage:        config.StorageSQLite,
		StateFile:      filepath.Join(dir, "ignored.db"),
		PollInterval:   10 * time.Millisecond,
		Timeout:        2 * time.Second,
	}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() {
		done <- Run(ctx, &Options{ConfigPath: cfgPath, StateFile: statePath})
	}()

	c, err := client.Dial(context.Background(), address)
	require.NoError(t, err)

	defer func() { _ = c.Close() }()

	cfg := alarm.Config{Hour: 6, Minute: 5, Days: alarm.NewWeekdays(time.Saturday, time.Sunday)}

	require.Eventually(t, func() bool {
		_, _, setErr := c.SetAlarm(context.Background(), cfg)

		return setErr == nil
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	require.NoError(t, <-done)

	require.FileExists(t, statePath)
	require.NoFileExists(t, filepath.Join(dir, "ignored.db"))
}

func TestRun_RejectsBadSettings(t *testing.T) {
	t.Parallel()

	err := Run(context.Background(), &Options{ConfigPath: filepath.Join(t.TempDir(), "missing.yaml")})
	require.Error(t, err)

	err = Run(context.Background(), &Options{
		ConfigPath: writeSettings(t, "storage: tape\n"),
	})
	require.Error(t, err)
}

func writeSettings(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	return path
}
