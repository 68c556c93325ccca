// Package presets persists named layer stacks as flat JSON files, one file
// per preset.
package presets

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lumafx/lumafx/internal/stack"
)

// ErrNotFound reports a preset key with no backing file.
var ErrNotFound = errors.New("presets: not found")

// Preset is one saved layer stack.
type Preset struct {
	Name     string        `json:"name"`
	Category string        `json:"category"`
	Layers   []stack.Layer `json:"layers"`
}

// Store reads and writes presets under a single directory.
type Store struct {
	dir string
}

// NewStore initializes a Store rooted at dir.
func NewStore(dir string) (*Store, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, errors.New("presets: directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("presets: ensure directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// List loads every preset, keyed by filename without extension. Unreadable
// files are skipped rather than failing the whole listing.
func (s *Store) List() (map[string]Preset, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("presets: read directory: %w", err)
	}
	out := make(map[string]Preset)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, name))
		if err != nil {
			continue
		}
		var p Preset
		if err := json.Unmarshal(data, &p); err != nil {
			continue
		}
		out[strings.TrimSuffix(name, ".json")] = p
	}
	return out, nil
}

// Save persists a preset under a slug derived from its name and returns the
// slug.
func (s *Store) Save(name string, layers []stack.Layer) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("presets: name is required")
	}
	if len(layers) == 0 {
		return "", errors.New("presets: no layers to save")
	}
	key := slugify(name)
	if key == "" {
		key = fmt.Sprintf("preset_%d", time.Now().Unix())
	}
	data, err := json.MarshalIndent(Preset{Name: name, Category: "My Presets", Layers: layers}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("presets: encode: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, key+".json"), data, 0o644); err != nil {
		return "", fmt.Errorf("presets: write: %w", err)
	}
	return key, nil
}

// Delete removes a preset by key. Keys that would escape the preset
// directory are rejected.
func (s *Store) Delete(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("presets: key is required")
	}
	path := filepath.Join(s.dir, key+".json")
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	root, err := filepath.Abs(s.dir)
	if err != nil {
		return err
	}
	if !strings.HasPrefix(abs, root+string(filepath.Separator)) {
		return errors.New("presets: invalid key")
	}
	if err := os.Remove(abs); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrNotFound
		}
		return fmt.Errorf("presets: delete: %w", err)
	}
	return nil
}

// slugify lowercases the name and keeps alphanumerics, spaces, underscores
// and dashes, with spaces collapsed to underscores.
func slugify(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		case r == ' ':
			b.WriteByte('_')
		}
	}
	return b.String()
}
