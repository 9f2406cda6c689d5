package cart

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrEntryNotFound is returned by EntryStore.Read when no entry exists
// for the key. Callers treat it the same as an empty cart.
var ErrEntryNotFound = errors.New("cart: entry not found")

// EntryStore is the durable storage behind the cart store. One entry per
// visitor session, holding the serialized cart. Implementations can use
// the local filesystem or any other key-value backend.
type EntryStore interface {
	// Read returns the stored entry for key, or ErrEntryNotFound.
	Read(key string) ([]byte, error)

	// Write stores the entry for key, replacing any previous value.
	Write(key string, data []byte) error
}

// LocalEntryStore implements EntryStore using one file per key under a
// base directory. This is the production implementation for single-host
// deployments.
type LocalEntryStore struct {
	basePath string
}

// NewLocalEntryStore creates a local filesystem entry store.
// The directory is created if it doesn't exist.
func NewLocalEntryStore(basePath string) (*LocalEntryStore, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cart storage directory: %w", err)
	}

	return &LocalEntryStore{basePath: basePath}, nil
}

// Read returns the stored entry for key.
func (s *LocalEntryStore) Read(key string) ([]byte, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("failed to read cart entry: %w", err)
	}

	return data, nil
}

// Write stores the entry for key.
func (s *LocalEntryStore) Write(key string, data []byte) error {
	if err := os.WriteFile(s.path(key), data, 0o644); err != nil {
		return fmt.Errorf("failed to write cart entry: %w", err)
	}

	return nil
}

// path maps a key to a file path. Keys are session IDs (UUIDs), but the
// key is sanitized anyway so a hostile cookie can't escape the base dir.
func (s *LocalEntryStore) path(key string) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, key)

	return filepath.Join(s.basePath, safe+".json")
}

// MemoryEntryStore is an in-memory EntryStore for tests.
type MemoryEntryStore struct {
	entries map[string][]byte
}

// NewMemoryEntryStore creates an empty in-memory entry store.
func NewMemoryEntryStore() *MemoryEntryStore {
	return &MemoryEntryStore{entries: make(map[string][]byte)}
}

// Read returns the stored entry for key.
func (s *MemoryEntryStore) Read(key string) ([]byte, error) {
	data, ok := s.entries[key]
	if !ok {
		return nil, ErrEntryNotFound
	}
	return data, nil
}

// Write stores the entry for key.
func (s *MemoryEntryStore) Write(key string, data []byte) error {
	s.entries[key] = append([]byte(nil), data...)
	return nil
}
