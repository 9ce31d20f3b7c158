package counter

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	jsoniter "github.com/json-iterator/go"

	"hemkey/internal/models"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// FileStore keeps the count in a single JSON file.
//
// Increment is read-modify-write with no locking and no atomic rename.
// Concurrent increments, in this process or another, can lose updates.
type FileStore struct {
	path string
	now  func() time.Time
}

// NewFileStore returns a store backed by the JSON file at path.
// The file and its directory are created on the first increment.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path, now: time.Now}
}

// Path returns the location of the counter file.
func (s *FileStore) Path() string {
	return s.path
}

// Backend implements Store.
func (s *FileStore) Backend() string {
	return BackendFile
}

// Read returns the stored count. Any read or decode failure yields 0.
func (s *FileStore) Read(_ context.Context) (int64, error) {
	return s.load(), nil
}

// Increment writes count+1 and returns it. A failed write is logged and the
// computed value is still returned, so the file can lag behind the reply.
func (s *FileStore) Increment(_ context.Context) (int64, error) {
	next := s.load() + 1
	if err := s.save(next); err != nil {
		slog.Error("failed to write visitor counter file", "path", s.path, "error", err)
	}
	return next, nil
}

// Close implements Store.
func (s *FileStore) Close() error {
	return nil
}

// Record returns the full on-disk record, or a zero record if there is none.
func (s *FileStore) Record() models.CounterRecord {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return models.CounterRecord{}
	}
	var rec models.CounterRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return models.CounterRecord{}
	}
	return rec
}

func (s *FileStore) load() int64 {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			slog.Error("failed to read visitor counter file", "path", s.path, "error", err)
		}
		return 0
	}

	var rec models.CounterRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		slog.Error("failed to parse visitor counter file", "path", s.path, "error", err)
		return 0
	}
	if rec.Count < 0 {
		return 0
	}
	return rec.Count
}

func (s *FileStore) save(count int64) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(models.CounterRecord{
		Count:       count,
		LastUpdated: s.now().UTC(),
	}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}
