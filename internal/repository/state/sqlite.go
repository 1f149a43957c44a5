package state

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sync"

	"crawshaw.io/sqlite"
	"crawshaw.io/sqlite/sqlitex"

	"github.com/oshokin/rtc-alarm/internal/domain/alarm"
)

// recordKey is the kv row holding the alarm record.
const recordKey = "rtcctl"

//go:embed migrations/*.sql
var migrationFiles embed.FS

// SQLiteRepository persists the alarm record in a SQLite key/value table.
type SQLiteRepository struct {
	// conn is the single connection used for every statement.
	conn *sqlite.Conn
	// mu serializes statements on conn.
	mu sync.Mutex
}

var _ Repository = (*SQLiteRepository)(nil)

// OpenSQLite opens (creating if needed) the database at path and migrates it.
func OpenSQLite(path string) (*SQLiteRepository, error) {
	conn, err := sqlite.OpenConn(path, 0)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	scripts, err := fs.Sub(migrationFiles, "migrations")
	if err != nil {
		_ = conn.Close()

		return nil, fmt.Errorf("load migrations: %w", err)
	}

	if err = migrate(conn, scripts); err != nil {
		_ = conn.Close()

		return nil, fmt.Errorf("migrate sqlite %s: %w", path, err)
	}

	return &SQLiteRepository{
		conn: conn,
	}, nil
}

// Load reads the record row.
func (r *SQLiteRepository) Load(_ context.Context) (alarm.Config, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var (
		value string
		found bool
	)

	err := sqlitex.Exec(r.conn, "SELECT value FROM kv WHERE key = ?", func(stmt *sqlite.Stmt) error {
		value = stmt.ColumnText(0)
		found = true

		return nil
	}, recordKey)
	if err != nil {
		return alarm.Config{}, fmt.Errorf("select alarm record: %w", err)
	}

	if !found {
		return alarm.Config{}, ErrNotFound
	}

	return Decode([]byte(value))
}

// Save replaces the record row in a single statement.
func (r *SQLiteRepository) Save(_ context.Context, cfg alarm.Config) error {
	data, err := Encode(cfg)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err = sqlitex.Exec(r.conn, "INSERT OR REPLACE INTO kv (key, value) VALUES (?, ?)", nil, recordKey, string(data)); err != nil {
		return fmt.Errorf("store alarm record: %w", err)
	}

	return nil
}

// Close releases the connection.
func (r *SQLiteRepository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.conn.Close()
}
