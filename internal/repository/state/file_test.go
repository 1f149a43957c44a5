package state

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/rtc-alarm/internal/domain/alarm"
)

// TestFileRepository_NotFound verifies Load returns ErrNotFound for a missing file.
func TestFileRepository_NotFound(t *testing.T) {
	t.Parallel()

	repo := NewFileRepository(filepath.Join(t.TempDir(), "missing.json"))

	_, err := repo.Load(context.Background())
	require.ErrorIs(t, err, ErrNotFound)
}

// TestFileRepository_SaveLoad_Roundtrip ensures Save followed by Load returns an equal config.
func TestFileRepository_SaveLoad_Roundtrip(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "rtcctr.json")
	repo := NewFileRepository(file)

	want := alarm.Config{
		Enabled: true,
		Hour:    7,
		Minute:  30,
		Days:    alarm.NewWeekdays(time.Monday, time.Wednesday, time.Friday),
	}

	require.NoError(t, repo.Save(context.Background(), want))

	got, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, want, got)

	// Overwrite replaces the record and leaves no temporary files behind.
	want = alarm.Config{Hour: 22, Minute: 5, Days: alarm.NewWeekdays(time.Sunday)}
	require.NoError(t, repo.Save(context.Background(), want))

	got, err = repo.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, want, got)

	entries, err := os.ReadDir(filepath.Dir(file))
	require.NoError(t, err)
	require.Len(t, entries, 1)

	info, err := os.Stat(file)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(filePermissions), info.Mode().Perm())
}

// TestFileRepository_Corrupt verifies a malformed record is reported as corrupt.
func TestFileRepository_Corrupt(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "rtcctr.json")
	require.NoError(t, os.WriteFile(file, []byte("{\"hour\": 99}"), filePermissions))

	_, err := NewFileRepository(file).Load(context.Background())
	require.ErrorIs(t, err, ErrCorrupt)
}

// TestFileRepository_SaveFailure reports write errors to the caller.
func TestFileRepository_SaveFailure(t *testing.T) {
	t.Parallel()

	repo := NewFileRepository(filepath.Join(t.TempDir(), "missing-dir", "rtcctr.json"))
	require.Error(t, repo.Save(context.Background(), alarm.Config{}))
}
