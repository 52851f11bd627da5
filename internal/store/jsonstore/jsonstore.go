package jsonstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/Makepad-fr/planner/internal/model"
	"github.com/Makepad-fr/planner/internal/store"
)

// JSON-backed storage. Single file, human-readable, portable.
// The mutex serializes writers inside one process only.

// DefaultFileName is used when the server is given no path.
const DefaultFileName = "foods.json"

// Store reads and rewrites the whole file on every call.
type Store struct {
	mu   sync.Mutex
	path string
}

// Open returns a store backed by path, creating its directory.
// An empty path means DefaultFileName in the working directory.
func Open(path string) (*Store, error) {
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getwd: %w", err)
		}
		path = filepath.Join(wd, DefaultFileName)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir: %w", err)
	}
	return &Store{path: path}, nil
}

func (s *Store) List(_ context.Context) ([]model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) Append(_ context.Context, name string) (model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items, err := s.load()
	if err != nil {
		return model.Item{}, err
	}
	if slices.ContainsFunc(items, func(it model.Item) bool { return it.Name == name }) {
		return model.Item{}, store.ErrExists
	}
	it := model.Item{ID: uuid.NewString(), Name: name}
	if err := s.save(append(items, it)); err != nil {
		return model.Item{}, err
	}
	return it, nil
}

func (s *Store) Delete(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	items, err := s.load()
	if err != nil {
		return err
	}
	i := slices.IndexFunc(items, func(it model.Item) bool { return it.Name == name })
	if i < 0 {
		return store.ErrNotFound
	}
	return s.save(slices.Delete(items, i, i+1))
}

func (s *Store) Close() error { return nil }

// Path is the backing file.
func (s *Store) Path() string { return s.path }

func (s *Store) load() ([]model.Item, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []model.Item{}, nil
		}
		return nil, fmt.Errorf("read file: %w", err)
	}
	var items []model.Item
	if err := json.Unmarshal(b, &items); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	if items == nil {
		items = []model.Item{}
	}
	return items, nil
}

func (s *Store) save(items []model.Item) error {
	b, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

var _ store.Store = (*Store)(nil)
