package shaders

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func testShaderDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "effects.json"),
		`{"effects":{"desaturate":{"name":"Desaturate","category":"Tone","shader":"basic/desaturate.glsl"}}}`)
	writeFile(t, filepath.Join(dir, "basic", "desaturate.glsl"), "// desaturate")
	return dir
}

func TestManifestWithoutCustomDir(t *testing.T) {
	l := NewLibrary(testShaderDir(t))
	manifest, err := l.Manifest()
	if err != nil {
		t.Fatalf("Manifest: %v", err)
	}
	effects, ok := manifest["effects"].(map[string]any)
	if !ok {
		t.Fatalf("manifest has no effects object: %v", manifest)
	}
	if _, ok := effects["desaturate"]; !ok {
		t.Fatalf("built-in entry missing: %v", effects)
	}
}

func TestManifestMissing(t *testing.T) {
	l := NewLibrary(t.TempDir())
	if _, err := l.Manifest(); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Manifest = %v, want ErrNotFound", err)
	}
}

func TestManifestMergesCustomShaders(t *testing.T) {
	dir := testShaderDir(t)
	writeFile(t, filepath.Join(dir, "custom", "wave_warp.glsl"), "// custom shader")
	writeFile(t, filepath.Join(dir, "custom", "described.glsl"), "// custom shader")
	writeFile(t, filepath.Join(dir, "custom", "described.json"),
		`{"name":"Described","category":"Custom"}`)
	writeFile(t, filepath.Join(dir, "custom", "_include.glsl"), "// shared include")

	l := NewLibrary(dir)
	manifest, err := l.Manifest()
	if err != nil {
		t.Fatalf("Manifest: %v", err)
	}
	effects := manifest["effects"].(map[string]any)

	generated, ok := effects["wave_warp"].(map[string]any)
	if !ok {
		t.Fatalf("custom shader missing from manifest: %v", effects)
	}
	if generated["name"] != "Wave Warp" || generated["shader"] != "custom/wave_warp.glsl" {
		t.Fatalf("generated metadata = %v", generated)
	}
	if generated["isCustom"] != true {
		t.Fatalf("custom entry not flagged: %v", generated)
	}

	described, ok := effects["described"].(map[string]any)
	if !ok {
		t.Fatalf("sidecar shader missing from manifest: %v", effects)
	}
	if described["name"] != "Described" {
		t.Fatalf("sidecar metadata not used: %v", described)
	}

	if _, ok := effects["_include"]; ok {
		t.Fatalf("underscore-prefixed include leaked into the manifest")
	}
}

func TestListCustomFlagsMetadata(t *testing.T) {
	dir := testShaderDir(t)
	writeFile(t, filepath.Join(dir, "custom", "plain.glsl"), "//")
	writeFile(t, filepath.Join(dir, "custom", "meta.glsl"), "//")
	writeFile(t, filepath.Join(dir, "custom", "meta.json"), "{}")

	l := NewLibrary(dir)
	custom, err := l.ListCustom()
	if err != nil {
		t.Fatalf("ListCustom: %v", err)
	}
	if len(custom) != 2 {
		t.Fatalf("ListCustom returned %d shaders, want 2: %v", len(custom), custom)
	}
	byID := make(map[string]CustomShader)
	for _, c := range custom {
		byID[c.ID] = c
	}
	if byID["plain"].HasMetadata || !byID["meta"].HasMetadata {
		t.Fatalf("metadata flags wrong: %v", byID)
	}
}

func TestFileServesAndGuards(t *testing.T) {
	dir := testShaderDir(t)
	l := NewLibrary(dir)

	data, err := l.File("basic/desaturate.glsl")
	if err != nil {
		t.Fatalf("File: %v", err)
	}
	if string(data) != "// desaturate" {
		t.Fatalf("File returned %q", data)
	}

	if _, err := l.File("basic/missing.glsl"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing file = %v, want ErrNotFound", err)
	}
	if _, err := l.File("../escape.glsl"); err == nil {
		t.Fatalf("traversal path accepted")
	}
}

func TestTitleCase(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"wave_warp", "Wave Warp"},
		{"glow", "Glow"},
		{"double__under", "Double  Under"},
	}
	for _, tc := range tests {
		if got := titleCase(tc.in); got != tc.want {
			t.Fatalf("titleCase(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
