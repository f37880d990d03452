package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/bethropolis/waypoint/internal/logger"
)

type fileEntry struct {
	Value   string    `toml:"value"`
	Expires time.Time `toml:"expires,omitempty"`
}

type fileData struct {
	Entries map[string]fileEntry `toml:"entries"`
}

// File keeps entries in a TOML file, rewritten on every change.
type File struct {
	mu   sync.Mutex
	path string
	data fileData
	now  func() time.Time
}

// OpenFile loads path, creating the store empty when the file does not exist.
func OpenFile(path string) (*File, error) {
	f := &File{path: path, now: time.Now, data: fileData{Entries: map[string]fileEntry{}}}
	meta, err := toml.DecodeFile(path, &f.data)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		logger.Debugf("store: %s does not exist yet", path)
	case err != nil:
		return nil, fmt.Errorf("store: read %s: %w", path, err)
	default:
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			logger.Warnf("store: unknown keys in %s: %v", path, undecoded)
		}
	}
	if f.data.Entries == nil {
		f.data.Entries = map[string]fileEntry{}
	}
	return f, nil
}

func (f *File) Get(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.data.Entries[key]
	if !ok || expired(e.Expires, f.now()) {
		return "", false, nil
	}
	return e.Value, true, nil
}

func (f *File) Set(_ context.Context, key, value string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data.Entries[key] = fileEntry{Value: value, Expires: expiry(f.now(), ttl)}
	return f.flush()
}

func (f *File) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.data.Entries[key]; !ok {
		return nil
	}
	delete(f.data.Entries, key)
	return f.flush()
}

func (f *File) Close() error { return nil }

// flush drops expired entries and writes the file atomically. Callers hold mu.
func (f *File) flush() error {
	now := f.now()
	for k, e := range f.data.Entries {
		if expired(e.Expires, now) {
			delete(f.data.Entries, k)
		}
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(f.data); err != nil {
		return fmt.Errorf("store: encode: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("store: write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("store: replace %s: %w", f.path, err)
	}
	return nil
}
