package state

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/oshokin/rtc-alarm/internal/domain/alarm"
)

// filePermissions restricts the record to the owner.
const filePermissions = 0o600

// FileRepository persists the alarm config to a JSON file on disk.
type FileRepository struct {
	// path is the filesystem location of the record.
	path string
	// mu serializes access to the record.
	mu sync.Mutex
}

var _ Repository = (*FileRepository)(nil)

// NewFileRepository creates a repository that reads/writes the record at path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{
		path: filepath.Clean(path),
	}
}

// Path returns the record location.
func (r *FileRepository) Path() string {
	return r.path
}

// Load reads the record from disk.
func (r *FileRepository) Load(_ context.Context) (alarm.Config, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	contents, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return alarm.Config{}, ErrNotFound
		}

		return alarm.Config{}, fmt.Errorf("read alarm file: %w", err)
	}

	return Decode(contents)
}

// Save writes the record next to the old one and renames it into place, so
// readers see either the previous record or the new one.
func (r *FileRepository) Save(_ context.Context, cfg alarm.Config) error {
	data, err := Encode(cfg)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	tmp, err := os.CreateTemp(filepath.Dir(r.path), "."+filepath.Base(r.path)+".*")
	if err != nil {
		return fmt.Errorf("create temporary alarm file: %w", err)
	}

	tmpName := tmp.Name()

	defer func() {
		// Only present when something failed before the rename.
		_ = os.Remove(tmpName)
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()

		return fmt.Errorf("write alarm file: %w", err)
	}

	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()

		return fmt.Errorf("sync alarm file: %w", err)
	}

	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close alarm file: %w", err)
	}

	if err = os.Chmod(tmpName, filePermissions); err != nil {
		return fmt.Errorf("chmod alarm file: %w", err)
	}

	if err = os.Rename(tmpName, r.path); err != nil {
		return fmt.Errorf("replace alarm file: %w", err)
	}

	return nil
}
