package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "embed"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

const sqliteFileName = "focusloop.db"

// DefaultDirPermissions is used when creating the database directory.
const DefaultDirPermissions = 0o755

//go:embed migrations_sqlite.sql
var sqliteMigrations string

// Opts configures NewSQLiteStore.
type Opts struct {
	DSN    string
	Logger zerolog.Logger
}

// Option defines a configuration option for the SQLite store.
type Option func(*Opts)

// WithDSN sets the database file path.
func WithDSN(dsn string) Option {
	return func(o *Opts) { o.DSN = dsn }
}

// WithLogger sets the logger used for store diagnostics.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *Opts) { o.Logger = logger }
}

// SQLiteStore keeps entries in a key/value table.
type SQLiteStore struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewSQLiteStore opens the database at the configured DSN, creating its
// directory and table when needed.
func NewSQLiteStore(opts ...Option) (*SQLiteStore, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.DSN == "" {
		return nil, wrapErr("open", "", errors.New("database DSN not set"))
	}

	if cfg.DSN != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.DSN), DefaultDirPermissions); err != nil {
			return nil, wrapErr("open", "", fmt.Errorf("create database directory: %w", err))
		}
	}

	db, err := sql.Open("sqlite3", cfg.DSN)
	if err != nil {
		return nil, wrapErr("open", "", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, wrapErr("open", "", fmt.Errorf("ping database: %w", err))
	}
	if _, err := db.Exec(sqliteMigrations); err != nil {
		_ = db.Close()
		return nil, wrapErr("open", "", fmt.Errorf("run migrations: %w", err))
	}

	cfg.Logger.Debug().Str("dsn", cfg.DSN).Msg("sqlite store ready")
	return &SQLiteStore{db: db, logger: cfg.Logger}, nil
}

func (store *SQLiteStore) Get(key string) (string, bool, error) {
	var value string
	err := store.db.QueryRow("SELECT value FROM entries WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, wrapErr("get", key, err)
	}
	return value, true, nil
}

func (store *SQLiteStore) Set(key, value string) error {
	_, err := store.db.Exec(
		"INSERT INTO entries (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP) "+
			"ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at",
		key, value,
	)
	return wrapErr("set", key, err)
}

func (store *SQLiteStore) Close() error {
	return wrapErr("close", "", store.db.Close())
}
