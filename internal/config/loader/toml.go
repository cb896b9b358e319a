package loader

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/vireodyne/protoctl/internal/config/layer"
)

// TOMLLoader reads a settings.toml or protocol.toml file into a nested
// map, the shape Config layers merge on top of each other.
type TOMLLoader struct {
	fs   FileSystem
	path string
}

func NewTOMLLoader(path string) *TOMLLoader {
	return &TOMLLoader{fs: DefaultFS(), path: path}
}

// NewTOMLLoaderWithFS builds a loader against a FileSystem other than
// the OS — used in tests to exercise parsing and include resolution
// without touching disk.
func NewTOMLLoaderWithFS(fs FileSystem, path string) *TOMLLoader {
	return &TOMLLoader{fs: fs, path: path}
}

// Load reads the loader's configured path.
func (l *TOMLLoader) Load() (map[string]any, error) {
	return l.LoadFrom(l.path)
}

// LoadFrom reads path, returning (nil, nil) if it does not exist —
// settings.toml and protocol.toml are both optional.
func (l *TOMLLoader) LoadFrom(path string) (map[string]any, error) {
	data, err := l.fs.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	return l.parse(path, data)
}

// LoadFromReader parses TOML already in memory, for callers that
// don't have a path (e.g. a settings document submitted over HTTP).
func (l *TOMLLoader) LoadFromReader(r io.Reader) (map[string]any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return l.parse("<reader>", data)
}

func (l *TOMLLoader) parse(source string, data []byte) (map[string]any, error) {
	var config map[string]any
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, &ParseError{Path: source, Message: err.Error(), Err: err}
	}
	return config, nil
}

// LoadWithIncludes loads path and resolves its top-level "@include"
// key: a string or list of TOML files, relative to path's directory,
// whose settings are merged in underneath it — so a protocol.toml can
// pull in a shared library of step definitions without duplicating
// them. maxDepth bounds the include chain to guard against a cycle.
func (l *TOMLLoader) LoadWithIncludes(path string, maxDepth int) (map[string]any, error) {
	if maxDepth <= 0 {
		return nil, fmt.Errorf("include depth exceeded for %s", path)
	}

	config, err := l.LoadFrom(path)
	if err != nil {
		return nil, err
	}
	if config == nil {
		return nil, nil
	}

	includes, hasIncludes := config["@include"]
	if !hasIncludes {
		return config, nil
	}
	delete(config, "@include")

	includeList, err := asPathList(includes)
	if err != nil {
		return nil, err
	}

	baseDir := filepath.Dir(path)
	for _, inc := range includeList {
		incPath := inc
		if !filepath.IsAbs(inc) {
			incPath = filepath.Join(baseDir, inc)
		}

		incConfig, err := l.LoadWithIncludes(incPath, maxDepth-1)
		if err != nil {
			return nil, fmt.Errorf("loading include %s: %w", incPath, err)
		}

		// The including file takes priority over what it includes.
		config = layer.DeepMerge(incConfig, config)
	}

	return config, nil
}

func asPathList(v any) ([]string, error) {
	switch v := v.(type) {
	case string:
		return []string{v}, nil
	case []string:
		return v, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("@include must be a string or array of strings")
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("@include must be a string or array of strings, got %T", v)
	}
}

// ParseError describes a TOML syntax error found while loading a
// configuration file.
type ParseError struct {
	Path    string
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	switch {
	case e.Line > 0 && e.Column > 0:
		return fmt.Sprintf("parse error in %s at line %d, column %d: %s", e.Path, e.Line, e.Column, e.Message)
	case e.Line > 0:
		return fmt.Sprintf("parse error in %s at line %d: %s", e.Path, e.Line, e.Message)
	default:
		return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
	}
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
