package storage

import "sync"

// MemoryStore is a Store that lives only as long as the process.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]string
	closed  bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: map[string]string{}}
}

func (store *MemoryStore) Get(key string) (string, bool, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.closed {
		return "", false, wrapErr("get", key, ErrClosed)
	}
	value, ok := store.entries[key]
	return value, ok, nil
}

func (store *MemoryStore) Set(key, value string) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.closed {
		return wrapErr("set", key, ErrClosed)
	}
	store.entries[key] = value
	return nil
}

func (store *MemoryStore) Close() error {
	store.mu.Lock()
	store.closed = true
	store.mu.Unlock()
	return nil
}
