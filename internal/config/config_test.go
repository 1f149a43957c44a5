package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestValidate checks defaults and format validations.
func TestValidate(t *testing.T) {
	t.Parallel()

	settings := new(Config)
	require.NoError(t, Validate(settings))
	require.Equal(t, DefaultControlAddress, settings.ControlAddress)
	require.Equal(t, StorageFile, settings.Storage)
	require.Equal(t, DefaultStateFilename, settings.StateFile)
	require.Equal(t, DefaultPollInterval, settings.PollInterval)
	require.Equal(t, DefaultTimeout, settings.Timeout)

	require.Error(t, Validate(&Config{ControlAddress: "no-port"}))
	require.Error(t, Validate(&Config{HTTPAddress: "no-port"}))
	require.ErrorIs(t, Validate(&Config{Storage: "postgres"}), errUnknownStorage)
	require.ErrorIs(t, Validate(&Config{LogLevel: "chatty"}), errUnknownLogLevel)
	require.NoError(t, Validate(&Config{Storage: StorageSQLite, HTTPAddress: ":8080", LogLevel: "debug"}))
}

// TestSaveLoadRoundtrip ensures settings are persisted and loaded back correctly.
func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.yaml")

	settings := &Config{
		ControlAddress: "127.0.0.1:50099",
		HTTPAddress:    "127.0.0.1:8099",
		Storage:        StorageSQLite,
		StateFile:      "/var/lib/rtc-alarm/alarm.db",
		PollInterval:   250 * time.Millisecond,
		RTCDrift:       3 * time.Second,
		LogLevel:       "warn",
	}

	require.NoError(t, Save(path, settings))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, settings, loaded)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(DefaultFilePermissions), info.Mode().Perm())
}

// TestLoadMissing distinguishes the default path from an explicit one.
func TestLoadMissing(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)

	require.Error(t, Save("", nil))
}
