package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

const fileStoreName = "store.yaml"

type yamlDocument struct {
	Version int               `yaml:"version"`
	Entries map[string]string `yaml:"entries"`
}

// FileStore keeps every entry in a single YAML file. The whole file is
// rewritten on each Set.
type FileStore struct {
	mu      sync.Mutex
	path    string
	entries map[string]string
	closed  bool
	logger  zerolog.Logger
}

// NewFileStore loads path. A missing file starts empty; so does a file that
// cannot be parsed, after logging a warning.
func NewFileStore(path string, logger zerolog.Logger) (*FileStore, error) {
	store := &FileStore{
		path:    path,
		entries: map[string]string{},
		logger:  logger,
	}

	rawData, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return store, nil
		}
		return nil, wrapErr("open", "", fmt.Errorf("read store file: %w", err))
	}

	var fileData yamlDocument
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("store file unreadable, starting empty")
		return store, nil
	}
	for key, value := range fileData.Entries {
		store.entries[key] = value
	}
	return store, nil
}

// Path returns the backing file.
func (store *FileStore) Path() string {
	return store.path
}

func (store *FileStore) Get(key string) (string, bool, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.closed {
		return "", false, wrapErr("get", key, ErrClosed)
	}
	value, ok := store.entries[key]
	return value, ok, nil
}

func (store *FileStore) Set(key, value string) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.closed {
		return wrapErr("set", key, ErrClosed)
	}

	previous, existed := store.entries[key]
	store.entries[key] = value
	if err := store.flushLocked(); err != nil {
		if existed {
			store.entries[key] = previous
		} else {
			delete(store.entries, key)
		}
		return wrapErr("set", key, err)
	}
	return nil
}

func (store *FileStore) Close() error {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.closed = true
	return nil
}

func (store *FileStore) flushLocked() error {
	if err := os.MkdirAll(filepath.Dir(store.path), 0o755); err != nil {
		return fmt.Errorf("create store directory: %w", err)
	}

	serialized, err := yaml.Marshal(yamlDocument{Version: 1, Entries: store.entries})
	if err != nil {
		return fmt.Errorf("marshal store yaml: %w", err)
	}

	tmpPath := store.path + ".tmp"
	if err := os.WriteFile(tmpPath, serialized, 0o644); err != nil {
		return fmt.Errorf("write store file: %w", err)
	}
	if err := os.Rename(tmpPath, store.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replace store file: %w", err)
	}
	return nil
}
