// Package repositories persists preview sessions and connectivity checks in badger.
package repositories

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"

	"folio/app/logging"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrClosed   = errors.New("store is closed")
)

// Store owns the badger handle shared by the repositories.
type Store struct {
	db     *badger.DB
	mutex  sync.RWMutex
	dbPath string
	closed bool
}

// NewStore opens the badger database at path. An empty path opens an
// in-memory database.
func NewStore(path string, logger *zap.Logger) (*Store, error) {
	inMemory := path == ""
	if !inMemory {
		if err := os.MkdirAll(path, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	opts := badger.DefaultOptions(path).
		WithInMemory(inMemory).
		WithLogger(newBadgerLogger(logger)).
		WithSyncWrites(false).
		WithNumVersionsToKeep(1).
		WithNumGoroutines(1)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	return &Store{db: db, dbPath: path}, nil
}

// DB returns the underlying database.
func (s *Store) DB() *badger.DB {
	return s.db
}

// Path returns the data directory, empty for in-memory stores.
func (s *Store) Path() string {
	return s.dbPath
}

func (s *Store) Close() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

// Clear drops every key.
func (s *Store) Clear() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.closed {
		return ErrClosed
	}
	return s.db.DropAll()
}

// Backup writes a full backup to w.
func (s *Store) Backup(w io.Writer) (uint64, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if s.closed {
		return 0, ErrClosed
	}
	return s.db.Backup(w, 0)
}

// Restore loads a backup produced by Backup.
func (s *Store) Restore(r io.Reader) (err error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.closed {
		return ErrClosed
	}
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic occurred during restore: %v", rec)
		}
	}()
	return s.db.Load(r, 16)
}

// badgerLogger routes badger's log output through zap.
type badgerLogger struct {
	*zap.SugaredLogger
}

func newBadgerLogger(logger *zap.Logger) badger.Logger {
	return badgerLogger{logging.OrNop(logger).Named("badger").Sugar()}
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.Warnf(format, args...)
}

// Infof is demoted to debug; badger is chatty at info.
func (l badgerLogger) Infof(format string, args ...interface{}) {
	l.Debugf(format, args...)
}
