// Package shaders serves the GPU-side effect sources the preview renderer
// mirrors the CPU registry with: a manifest of built-in effects plus an
// overlay of user-dropped custom shaders. Custom shaders are a preview-only
// extension; the CPU registry stays closed.
package shaders

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound reports a missing manifest or shader file.
var ErrNotFound = errors.New("shaders: not found")

// CustomShader describes one user-provided shader file.
type CustomShader struct {
	ID          string `json:"id"`
	Filename    string `json:"filename"`
	HasMetadata bool   `json:"hasMetadata"`
}

// Library resolves manifest and shader files under a root directory holding
// effects.json and an optional custom/ subdirectory.
type Library struct {
	dir string
}

// NewLibrary returns a Library rooted at dir.
func NewLibrary(dir string) *Library {
	return &Library{dir: dir}
}

// Manifest loads effects.json and merges any custom shaders into its
// "effects" object. Custom entries without a metadata sidecar get minimal
// generated metadata.
func (l *Library) Manifest() (map[string]any, error) {
	data, err := os.ReadFile(filepath.Join(l.dir, "effects.json"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("shaders: read manifest: %w", err)
	}
	var manifest map[string]any
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("shaders: parse manifest: %w", err)
	}

	effects, _ := manifest["effects"].(map[string]any)
	if effects == nil {
		effects = make(map[string]any)
		manifest["effects"] = effects
	}
	custom, err := l.ListCustom()
	if err != nil {
		return nil, err
	}
	for _, shader := range custom {
		meta := map[string]any{
			"name":     titleCase(shader.ID),
			"category": "Custom",
			"params": []any{map[string]any{
				"name": "amount", "label": "Amount",
				"min": 0.0, "max": 1.0, "default": 0.5, "step": 0.01,
			}},
		}
		if shader.HasMetadata {
			raw, err := os.ReadFile(filepath.Join(l.dir, "custom", shader.ID+".json"))
			if err == nil {
				var parsed map[string]any
				if json.Unmarshal(raw, &parsed) == nil {
					meta = parsed
				}
			}
		}
		meta["shader"] = "custom/" + shader.Filename
		meta["isCustom"] = true
		effects[shader.ID] = meta
	}
	return manifest, nil
}

// File returns the source of one shader by its manifest-relative path, e.g.
// "basic/desaturate.glsl" or "custom/myeffect.glsl". Paths escaping the
// shader root are rejected.
func (l *Library) File(relPath string) ([]byte, error) {
	path := filepath.Join(l.dir, filepath.FromSlash(relPath))
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	root, err := filepath.Abs(l.dir)
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(abs, root+string(filepath.Separator)) {
		return nil, errors.New("shaders: invalid path")
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("shaders: read file: %w", err)
	}
	return data, nil
}

// titleCase turns a snake_case shader id into a display name.
func titleCase(id string) string {
	words := strings.Split(id, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// ListCustom enumerates the custom shader files. Underscore-prefixed files
// are treated as includes and skipped.
func (l *Library) ListCustom() ([]CustomShader, error) {
	entries, err := os.ReadDir(filepath.Join(l.dir, "custom"))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("shaders: list custom: %w", err)
	}
	var out []CustomShader
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".glsl") || strings.HasPrefix(name, "_") {
			continue
		}
		id := strings.TrimSuffix(name, ".glsl")
		_, metaErr := os.Stat(filepath.Join(l.dir, "custom", id+".json"))
		out = append(out, CustomShader{
			ID:          id,
			Filename:    name,
			HasMetadata: metaErr == nil,
		})
	}
	return out, nil
}
