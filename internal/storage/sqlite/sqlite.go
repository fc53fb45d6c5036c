// Package sqlite provides a SQLite-backed implementation of the
// storage.Store interface.
package sqlite

import (
	"database/sql"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/splitledger/splitledger/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// pairStripes is the number of lock stripes serializing balance writes.
const pairStripes = 64

// SQLiteStore implements storage.Store using SQLite.
//
// Balance writes are serialized per (group, canonical pair) through a striped
// mutex set: two deltas for the same pair always contend for the same stripe,
// while deltas for different pairs almost always proceed concurrently.
type SQLiteStore struct {
	db        *sql.DB
	pairLocks [pairStripes]sync.Mutex
}

// New creates a new SQLiteStore with the given database path. It creates the
// parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Pragmas go in the DSN so every pooled connection gets them. WAL keeps
	// readers unblocked while a balance write is in flight; the busy timeout
	// lets concurrent writers queue instead of failing with SQLITE_BUSY.
	dsn := dbPath + "?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// pairLock returns the mutex guarding writes to one (group, pair) key.
func (s *SQLiteStore) pairLock(groupID, userA, userB string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(groupID))
	h.Write([]byte{0})
	h.Write([]byte(userA))
	h.Write([]byte{0})
	h.Write([]byte(userB))
	return &s.pairLocks[h.Sum32()%pairStripes]
}

// repeatPlaceholder returns a string of ", ?" repeated n times. Used for
// building IN clauses with multiple placeholders.
func repeatPlaceholder(n int) string {
	if n <= 0 {
		return ""
	}
	result := ""
	for i := 0; i < n; i++ {
		result += ", ?"
	}
	return result
}
