package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// File persists every key in a single JSON document on disk, the
// terminal client's equivalent of a browser's local storage.  Each
// write rewrites the whole document through a temp file and a rename,
// so a crash leaves either the old or the new document.
type File struct {
	mu   sync.Mutex
	path string
}

// NewFile returns a store backed by the document at path.  The file and
// its parent directory are created on the first write.
func NewFile(path string) *File {
	return &File{path: path}
}

// Path returns the location of the backing document.
func (f *File) Path() string { return f.path }

func (f *File) Get(_ context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, err := f.load()
	if err != nil {
		return nil, err
	}
	v, ok := doc[key]
	if !ok {
		return nil, ErrNotFound
	}
	return []byte(v), nil
}

func (f *File) Set(_ context.Context, key string, value []byte) error {
	if !json.Valid(value) {
		return fmt.Errorf("file storage: value for %q is not valid JSON", key)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, err := f.load()
	if err != nil {
		return err
	}
	doc[key] = json.RawMessage(append([]byte(nil), value...))
	return f.save(doc)
}

func (f *File) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, err := f.load()
	if err != nil {
		return err
	}
	if _, ok := doc[key]; !ok {
		return nil
	}
	delete(doc, key)
	return f.save(doc)
}

func (f *File) load() (map[string]json.RawMessage, error) {
	doc := map[string]json.RawMessage{}
	b, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return doc, nil
		}
		return nil, fmt.Errorf("file storage: read %s: %w", f.path, err)
	}
	if len(b) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("file storage: decode %s: %w", f.path, err)
	}
	return doc, nil
}

func (f *File) save(doc map[string]json.RawMessage) error {
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("file storage: encode: %w", err)
	}
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("file storage: mkdir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".state-*.json")
	if err != nil {
		return fmt.Errorf("file storage: temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("file storage: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("file storage: close: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("file storage: rename: %w", err)
	}
	return nil
}
