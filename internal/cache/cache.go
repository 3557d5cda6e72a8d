// Package cache stores compiler output keyed by content hash. Lookups hit an
// in-process LRU first and fall back to files under the user cache directory.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

const memEntries = 64

type Store struct {
	dir string
	mem *lru.Cache[string, []byte]
}

// New returns a store rooted at dir. An empty dir disables the disk layer.
func New(dir string) (*Store, error) {
	mem, err := lru.New[string, []byte](memEntries)
	if err != nil {
		return nil, err
	}
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return &Store{dir: dir, mem: mem}, nil
}

var (
	defaultOnce  sync.Once
	defaultStore *Store
)

// Default returns the shared store under ~/.mythx/cache. If the home directory
// is unavailable the store is memory only.
func Default() *Store {
	defaultOnce.Do(func() {
		dir, err := Dir()
		if err != nil {
			dir = ""
		}
		s, err := New(dir)
		if err != nil {
			s, _ = New("")
		}
		defaultStore = s
	})
	return defaultStore
}

// Dir returns the cache directory path.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".mythx", "cache"), nil
}

// Key computes a unique key filename using inputs (e.g., source hash + compiler version)
func Key(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

func (s *Store) Load(key string) ([]byte, bool) {
	if b, ok := s.mem.Get(key); ok {
		return b, true
	}
	if s.dir == "" {
		return nil, false
	}
	b, err := os.ReadFile(filepath.Join(s.dir, key))
	if err != nil {
		return nil, false
	}
	s.mem.Add(key, b)
	return b, true
}

func (s *Store) Store(key string, data []byte) error {
	s.mem.Add(key, data)
	if s.dir == "" {
		return nil
	}
	return os.WriteFile(filepath.Join(s.dir, key), data, 0o644)
}
