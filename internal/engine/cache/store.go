package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const fileExtension = ".json"

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// Cache errors.
var (
	ErrNotFound   = constError("cache entry not found")
	ErrExpired    = constError("cache entry expired")
	ErrInvalidKey = constError("cache key cannot be empty")
	ErrNoDir      = constError("cache directory cannot be empty")
)

// Key derives a stable cache key from parts.
func Key(parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return hex.EncodeToString(sum[:])
}

// FileStore keeps one JSON file per entry in a directory. It is safe for
// concurrent use within a process.
type FileStore struct {
	dir string
	ttl time.Duration
	now func() time.Time
	mu  sync.RWMutex
}

// NewFileStore creates dir if needed. A ttl <= 0 selects DefaultTTL.
func NewFileStore(dir string, ttl time.Duration) (*FileStore, error) {
	if dir == "" {
		return nil, ErrNoDir
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &FileStore{dir: dir, ttl: ttl, now: time.Now}, nil
}

// Dir returns the cache directory.
func (s *FileStore) Dir() string { return s.dir }

// TTL returns the lifetime of new entries.
func (s *FileStore) TTL() time.Duration { return s.ttl }

func (s *FileStore) path(key string) string {
	safe := strings.NewReplacer("/", "_", "\\", "_", ":", "_").Replace(key)
	return filepath.Join(s.dir, safe+fileExtension)
}

// Get returns the entry for key, ErrNotFound or ErrExpired. Expired
// entries are removed.
func (s *FileStore) Get(key string) (*Entry, error) {
	if key == "" {
		return nil, ErrInvalidKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.path(key)
	data, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading cache file: %w", err)
	}
	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("decoding cache entry: %w", err)
	}
	if e.ExpiredAt(s.now()) {
		_ = os.Remove(p)
		return nil, ErrExpired
	}
	return &e, nil
}

// Set writes data under key, replacing any previous entry.
func (s *FileStore) Set(key string, data json.RawMessage) error {
	if key == "" {
		return ErrInvalidKey
	}
	encoded, err := json.MarshalIndent(newEntry(key, data, s.now(), s.ttl), "", "  ")
	if err != nil {
		return fmt.Errorf("encoding cache entry: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.path(key)
	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, encoded, 0o600); err != nil {
		return fmt.Errorf("writing cache file: %w", err)
	}
	if err := os.Rename(tmp, p); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replacing cache file: %w", err)
	}
	return nil
}

// Delete removes key. Missing entries are not an error.
func (s *FileStore) Delete(key string) error {
	if key == "" {
		return ErrInvalidKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("deleting cache file: %w", err)
	}
	return nil
}

// Clear removes every entry and returns how many were deleted.
func (s *FileStore) Clear() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("reading cache directory: %w", err)
	}
	removed := 0
	for _, de := range entries {
		if de.IsDir() || filepath.Ext(de.Name()) != fileExtension {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, de.Name())); err != nil {
			return removed, fmt.Errorf("removing %s: %w", de.Name(), err)
		}
		removed++
	}
	return removed, nil
}

// SaveJSON encodes v and stores it under key.
func SaveJSON(s *FileStore, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding cached value: %w", err)
	}
	return s.Set(key, data)
}

// LoadJSON decodes the value stored under key.
func LoadJSON[T any](s *FileStore, key string) (T, *Entry, error) {
	var v T
	e, err := s.Get(key)
	if err != nil {
		return v, nil, err
	}
	if err := json.Unmarshal(e.Data, &v); err != nil {
		return v, nil, fmt.Errorf("decoding cached value: %w", err)
	}
	return v, e, nil
}
