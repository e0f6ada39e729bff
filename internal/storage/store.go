// Package storage persists small JSON documents under string keys.
package storage

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// Keys of the documents the application persists.
const (
	KeyNotificationSettings = "notification-settings"
	KeyTimerSettings        = "timer-settings"
	KeySessionHistory       = "session-history"
	KeySystemPermission     = "system-alert-permission"
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// ErrClosed is returned by a Store after Close.
var ErrClosed = errors.New("store closed")

// Store is a key-value blob store. A missing key is reported with ok=false.
type Store interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Close() error
}

// OpError records the store operation and key that failed.
type OpError struct {
	Op  string
	Key string
	Err error
}

func (e *OpError) Error() string {
	if e == nil {
		return ""
	}
	if e.Key != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

func wrapErr(op, key string, err error) error {
	if err == nil {
		return nil
	}
	return &OpError{Op: op, Key: key, Err: err}
}

// Open creates the named backend inside dataDir.
func Open(backend, dataDir string, logger zerolog.Logger) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case BackendFile:
		return NewFileStore(filepath.Join(dataDir, fileStoreName), logger)
	case BackendSQLite, "":
		return NewSQLiteStore(WithDSN(filepath.Join(dataDir, sqliteFileName)), WithLogger(logger))
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", backend)
	}
}
