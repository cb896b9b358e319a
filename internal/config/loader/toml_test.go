package loader

import (
	"io/fs"
	"strings"
	"testing"
	"time"
)

// MemFS is an in-memory FileSystem used to exercise TOMLLoader without
// touching disk.
type MemFS struct {
	files map[string][]byte
}

func NewMemFS() *MemFS {
	return &MemFS{files: make(map[string][]byte)}
}

func (m *MemFS) AddFile(path string, content string) {
	m.files[path] = []byte(content)
}

func (m *MemFS) Open(name string) (fs.File, error) {
	return nil, fs.ErrNotExist
}

func (m *MemFS) ReadFile(path string) ([]byte, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return data, nil
}

func (m *MemFS) Stat(path string) (fs.FileInfo, error) {
	if _, ok := m.files[path]; ok {
		return &memFileInfo{name: path}, nil
	}
	return nil, fs.ErrNotExist
}

type memFileInfo struct {
	name string
}

func (f *memFileInfo) Name() string       { return f.name }
func (f *memFileInfo) Size() int64        { return 0 }
func (f *memFileInfo) Mode() fs.FileMode  { return 0644 }
func (f *memFileInfo) ModTime() time.Time { return time.Now() }
func (f *memFileInfo) IsDir() bool        { return false }
func (f *memFileInfo) Sys() any           { return nil }

func TestTOMLLoader_Load(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/settings.toml", `
[vision]
timeoutMs = 8000
backend = "gpt-4-vision"

[screen]
width = 1920
height = 1080
`)

	loader := NewTOMLLoaderWithFS(memfs, "/settings.toml")
	config, err := loader.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	vision, ok := config["vision"].(map[string]any)
	if !ok {
		t.Fatal("expected vision to be a map")
	}
	if vision["timeoutMs"] != int64(8000) {
		t.Errorf("timeoutMs = %v (%T), want 8000", vision["timeoutMs"], vision["timeoutMs"])
	}
	if vision["backend"] != "gpt-4-vision" {
		t.Errorf("backend = %v, want gpt-4-vision", vision["backend"])
	}

	screen, ok := config["screen"].(map[string]any)
	if !ok {
		t.Fatal("expected screen to be a map")
	}
	if screen["width"] != int64(1920) {
		t.Errorf("width = %v, want 1920", screen["width"])
	}
}

func TestTOMLLoader_LoadNonExistentReturnsNilNotError(t *testing.T) {
	memfs := NewMemFS()
	loader := NewTOMLLoaderWithFS(memfs, "/nonexistent.toml")

	config, err := loader.Load()
	if err != nil {
		t.Fatalf("expected no error for a missing settings.toml, got: %v", err)
	}
	if config != nil {
		t.Error("expected a nil config for a missing file")
	}
}

func TestTOMLLoader_LoadInvalidSyntaxReportsPath(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/protocol.toml", `
[executor
dryRun = true
`)

	loader := NewTOMLLoaderWithFS(memfs, "/protocol.toml")
	_, err := loader.Load()
	if err == nil {
		t.Fatal("expected a parse error")
	}

	parseErr, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("expected *ParseError, got %T", err)
	}
	if parseErr.Path != "/protocol.toml" {
		t.Errorf("Path = %q, want /protocol.toml", parseErr.Path)
	}
}

func TestTOMLLoader_LoadFromReader(t *testing.T) {
	loader := &TOMLLoader{}

	reader := strings.NewReader(`
backend = "claude-vision"
timeoutMs = 6000
`)
	config, err := loader.LoadFromReader(reader)
	if err != nil {
		t.Fatalf("LoadFromReader failed: %v", err)
	}

	if config["backend"] != "claude-vision" {
		t.Errorf("backend = %v, want claude-vision", config["backend"])
	}
	if config["timeoutMs"] != int64(6000) {
		t.Errorf("timeoutMs = %v, want 6000", config["timeoutMs"])
	}
}

func TestTOMLLoader_LoadWithIncludesMergesUnderIncludingFile(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/protocol.toml", `
"@include" = ["shared-steps.toml"]

[executor]
dryRun = true
`)
	memfs.AddFile("/shared-steps.toml", `
[executor]
dryRun = false
maxRetries = 3

[vision]
backend = "gpt-4-vision"
`)

	loader := NewTOMLLoaderWithFS(memfs, "/protocol.toml")
	config, err := loader.LoadWithIncludes("/protocol.toml", 5)
	if err != nil {
		t.Fatalf("LoadWithIncludes failed: %v", err)
	}

	executor, ok := config["executor"].(map[string]any)
	if !ok {
		t.Fatal("expected executor to be a map")
	}
	if executor["dryRun"] != true {
		t.Errorf("dryRun = %v, want true (the including file overrides the shared include)", executor["dryRun"])
	}
	if executor["maxRetries"] != int64(3) {
		t.Errorf("maxRetries = %v, want 3 (inherited from the included file)", executor["maxRetries"])
	}

	vision, ok := config["vision"].(map[string]any)
	if !ok {
		t.Fatal("expected vision to be a map")
	}
	if vision["backend"] != "gpt-4-vision" {
		t.Errorf("backend = %v, want gpt-4-vision (from the included file)", vision["backend"])
	}

	if _, found := config["@include"]; found {
		t.Error("@include should be stripped from the resolved config")
	}
}

func TestTOMLLoader_LoadWithIncludesDepthExceeded(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/a.toml", `"@include" = ["b.toml"]`)
	memfs.AddFile("/b.toml", `"@include" = ["c.toml"]`)
	memfs.AddFile("/c.toml", `"@include" = ["d.toml"]`)
	memfs.AddFile("/d.toml", `value = 1`)

	loader := NewTOMLLoaderWithFS(memfs, "/a.toml")

	if _, err := loader.LoadWithIncludes("/a.toml", 2); err == nil {
		t.Fatal("expected a depth-exceeded error for a 4-file chain at depth 2")
	} else if !strings.Contains(err.Error(), "depth exceeded") {
		t.Errorf("expected a depth exceeded error, got: %v", err)
	}

	config, err := loader.LoadWithIncludes("/a.toml", 5)
	if err != nil {
		t.Fatalf("expected success at depth 5, got: %v", err)
	}
	if config["value"] != int64(1) {
		t.Errorf("value = %v, want 1", config["value"])
	}
}

func TestTOMLLoader_LoadWithIncludesRejectsMalformedIncludeList(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/protocol.toml", `"@include" = 5`)

	loader := NewTOMLLoaderWithFS(memfs, "/protocol.toml")
	if _, err := loader.LoadWithIncludes("/protocol.toml", 5); err == nil {
		t.Error("expected an error for a non-string, non-array @include value")
	}
}
