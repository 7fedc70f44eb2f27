package jsonfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/wadjakorntonsri/metrikenos/pkg/core/domain"
)

// collection is one JSON array on disk, read and rewritten as a whole.
// The mutex serialises read-modify-write cycles within this process only.
type collection[T any] struct {
	mu   sync.Mutex
	path string
}

func newCollection[T any](dir, name string) *collection[T] {
	return &collection[T]{path: filepath.Join(dir, name)}
}

// read loads the whole array. A missing file is an empty collection.
func (c *collection[T]) read() ([]T, error) {
	data, err := os.ReadFile(c.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", domain.ErrStore, filepath.Base(c.path), err)
	}
	if len(data) == 0 {
		return []T{}, nil
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %v", domain.ErrStore, filepath.Base(c.path), err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// write replaces the file with the pretty-printed array via a temp file and rename
func (c *collection[T]) write(items []T) error {
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encoding %s: %v", domain.ErrStore, filepath.Base(c.path), err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(c.path), filepath.Base(c.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: writing %s: %v", domain.ErrStore, filepath.Base(c.path), err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: writing %s: %v", domain.ErrStore, filepath.Base(c.path), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: writing %s: %v", domain.ErrStore, filepath.Base(c.path), err)
	}
	if err := os.Rename(tmp.Name(), c.path); err != nil {
		return fmt.Errorf("%w: replacing %s: %v", domain.ErrStore, filepath.Base(c.path), err)
	}
	return nil
}

// list returns the collection under lock
func (c *collection[T]) list() ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.read()
}

// find returns a copy of the first item matching match, or nil
func (c *collection[T]) find(match func(*T) bool) (*T, error) {
	items, err := c.list()
	if err != nil {
		return nil, err
	}
	for i := range items {
		if match(&items[i]) {
			item := items[i]
			return &item, nil
		}
	}
	return nil, nil
}

// prepend inserts item at the head and persists
func (c *collection[T]) prepend(item T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.read()
	if err != nil {
		return err
	}
	items = append([]T{item}, items...)
	return c.write(items)
}

// modify applies fn to the first matching item and persists. It reports
// whether an item matched; nothing is written when none did.
func (c *collection[T]) modify(match func(*T) bool, fn func(*T)) (*T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.read()
	if err != nil {
		return nil, err
	}
	for i := range items {
		if !match(&items[i]) {
			continue
		}
		fn(&items[i])
		if err := c.write(items); err != nil {
			return nil, err
		}
		item := items[i]
		return &item, nil
	}
	return nil, nil
}

// replaceAll overwrites the whole collection
func (c *collection[T]) replaceAll(items []T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.write(items)
}
