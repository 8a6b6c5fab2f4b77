package suggestionstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"fretloop-scheduler/internal/models"
)

// File is the persistent Store variant: it serializes the pending
// suggestion to a known JSON file path, surviving process restarts.
// Writes are atomic via a temp-file-then-rename.
type File struct {
	mu   sync.Mutex
	path string
}

// NewFile returns a Store backed by the JSON file at path.
func NewFile(path string) *File {
	return &File{path: path}
}

func (f *File) Save(s models.Suggestion) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create suggestion store dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create suggestion temp file: %w", err)
	}
	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("encode suggestion: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close suggestion temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("persist suggestion file: %w", err)
	}
	return nil
}

func (f *File) Load() (*models.Suggestion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read suggestion file: %w", err)
	}

	var s models.Suggestion
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode suggestion file: %w", err)
	}
	return &s, nil
}

func (f *File) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clear suggestion file: %w", err)
	}
	return nil
}

var _ Store = (*File)(nil)
