package state

import (
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"

	"crawshaw.io/sqlite"
	"crawshaw.io/sqlite/sqlitex"
)

// migrate runs the *.sql scripts of fsys that are newer than the database
// user_version, in name order, inside one savepoint.
func migrate(conn *sqlite.Conn, fsys fs.FS) (err error) {
	release := sqlitex.Save(conn)
	defer release(&err)

	var oldVersion int
	if err = sqlitex.ExecTransient(conn, "PRAGMA user_version", func(stmt *sqlite.Stmt) error {
		oldVersion = stmt.ColumnInt(0)

		return nil
	}); err != nil {
		return fmt.Errorf("get schema version: %w", err)
	}

	scripts, err := fs.Glob(fsys, "*.sql")
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}

	currentVersion := len(scripts)
	if oldVersion >= currentVersion {
		return nil
	}

	sort.Strings(scripts)

	for _, script := range scripts[oldVersion:] {
		if err = runScript(conn, fsys, script); err != nil {
			return err
		}
	}

	if err = sqlitex.ExecTransient(conn, "PRAGMA user_version="+strconv.Itoa(currentVersion), nil); err != nil {
		return fmt.Errorf("set schema version: %w", err)
	}

	return nil
}

func runScript(conn *sqlite.Conn, fsys fs.FS, script string) error {
	buf, err := fs.ReadFile(fsys, script)
	if err != nil {
		return fmt.Errorf("read %s: %w", script, err)
	}

	queries := strings.TrimSpace(string(buf))

	for i := 0; queries != ""; i++ {
		stmt, trailingBytes, err := conn.PrepareTransient(queries)
		if err != nil {
			return fmt.Errorf("prepare %s, statement %d: %w", script, i, err)
		}

		queries = strings.TrimSpace(queries[len(queries)-trailingBytes:])

		_, err = stmt.Step()
		_ = stmt.Finalize()

		if err != nil {
			return fmt.Errorf("execute %s, statement %d: %w", script, i, err)
		}
	}

	return nil
}
