package account

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/conicapps/launcher-core/internal/conicerr"
)

// jsonStore persists a slice of T as a single JSON array file. Every
// mutation loads the whole file, applies an in-memory edit, and writes
// it back via a temp-file-then-rename, mirroring the teacher's
// writeStream discipline (util.go) so a crash mid-write never leaves a
// truncated store on disk.
type jsonStore[T any] struct {
	mu   sync.Mutex
	path string
}

func newJSONStore[T any](path string) *jsonStore[T] {
	return &jsonStore[T]{path: path}
}

func (s *jsonStore[T]) load() ([]T, error) {
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, conicerr.IO(err)
	}
	if len(raw) == 0 {
		return nil, nil
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, conicerr.JSONParse(err)
	}
	return items, nil
}

func (s *jsonStore[T]) save(items []T) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return conicerr.IO(err)
	}
	raw, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return conicerr.IO(err)
	}
	tmp := s.path + ".part"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return conicerr.IO(err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return conicerr.IO(err)
	}
	return nil
}

// mutate loads, hands the slice to fn for in-place editing, and saves
// the result — all under the store's lock, giving callers a simple
// read-modify-write primitive without exposing the file format.
func (s *jsonStore[T]) mutate(fn func([]T) []T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load()
	if err != nil {
		return err
	}
	items = fn(items)
	return s.save(items)
}

func (s *jsonStore[T]) list() ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}
