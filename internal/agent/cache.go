package agent

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Cache keys shared by every agent of a session.
const (
	CountKey       = "hemkey-visitor-count"
	IncrementedKey = "hemkey-visitor-incremented"
)

// Cache is the durable per-session store that survives remounts.
type Cache interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}

// MemoryCache is a Cache that lives as long as the process.
type MemoryCache struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{values: make(map[string]string)}
}

func (m *MemoryCache) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok
}

func (m *MemoryCache) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

// FileCache keeps the session values in a single JSON object on disk.
// No locking across processes; one session owns one file.
type FileCache struct {
	mu     sync.Mutex
	path   string
	values map[string]string
}

// NewFileCache loads path. A missing file starts an empty cache.
func NewFileCache(path string) (*FileCache, error) {
	fc := &FileCache{path: path, values: make(map[string]string)}

	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fc, nil
		}
		return nil, fmt.Errorf("read cache: %w", err)
	}
	if err := json.Unmarshal(b, &fc.values); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	if fc.values == nil {
		fc.values = make(map[string]string)
	}
	return fc, nil
}

func (f *FileCache) Get(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.values[key]
	return v, ok
}

func (f *FileCache) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.values[key] = value

	b, err := json.MarshalIndent(f.values, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	if dir := filepath.Dir(f.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create cache dir: %w", err)
		}
	}
	if err := os.WriteFile(f.path, b, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}
