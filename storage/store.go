// Package storage persists smoothing sessions in SQLite.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite"
)

// ErrNoSession is returned when frames are recorded before a session began.
var ErrNoSession = errors.New("storage: no active session")

type DB struct {
	*sql.DB
	logger *slog.Logger
}

var pragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA busy_timeout=5000",
	"PRAGMA synchronous=NORMAL",
	"PRAGMA foreign_keys=ON",
}

// Open opens (creating if needed) the database at path and migrates it to
// the latest schema. logger may be nil.
func Open(path string, logger *slog.Logger) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// One connection keeps PRAGMAs and :memory: databases consistent.
	sqlDB.SetMaxOpenConns(1)
	for _, p := range pragmas {
		if _, err := sqlDB.Exec(p); err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("%s: %w", p, err)
		}
	}
	db := &DB{DB: sqlDB, logger: logger}
	if err := db.MigrateUp(); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return db, nil
}
