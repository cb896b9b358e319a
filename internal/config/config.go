package config

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/vireodyne/protoctl/internal/config/layer"
	"github.com/vireodyne/protoctl/internal/config/loader"
	"github.com/vireodyne/protoctl/internal/config/notify"
	"github.com/vireodyne/protoctl/internal/config/schema"
	"github.com/vireodyne/protoctl/internal/config/watcher"
)

// Config provides unified access to the protocol engine's configuration
// system. It manages configuration loading, validation, live reloading,
// and change notification across the vision.*, executor.*, screen.*,
// and safety.* surface.
type Config struct {
	mu sync.RWMutex

	// Layer manager for merged configuration
	layers *layer.Manager

	// Schema validator
	validator *schema.Validator

	// File watcher for live reload
	watcher *watcher.Watcher

	// Change notifier
	notifier *notify.Notifier

	// Configuration paths
	userConfigDir    string
	projectConfigDir string

	// Options
	enableWatcher bool
	enableSchema  bool

	// Type errors recorded by the section accessors, keyed by path
	configErrors map[string]error
}

// Option configures a Config instance.
type Option func(*Config)

// WithUserConfigDir sets the user configuration directory.
func WithUserConfigDir(dir string) Option {
	return func(c *Config) {
		c.userConfigDir = dir
	}
}

// WithProjectConfigDir sets the project configuration directory.
func WithProjectConfigDir(dir string) Option {
	return func(c *Config) {
		c.projectConfigDir = dir
	}
}

// WithWatcher enables file watching for live reload.
func WithWatcher(enable bool) Option {
	return func(c *Config) {
		c.enableWatcher = enable
	}
}

// WithSchemaValidation enables schema validation.
func WithSchemaValidation(enable bool) Option {
	return func(c *Config) {
		c.enableSchema = enable
	}
}

// New creates a new Config instance with the given options.
func New(opts ...Option) *Config {
	c := &Config{
		layers:        layer.NewManager(),
		notifier:      notify.New(),
		enableWatcher: true,
		enableSchema:  true,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.userConfigDir == "" {
		c.userConfigDir = defaultUserConfigDir()
	}

	if c.enableSchema {
		if s, err := schema.LoadEmbedded(); err == nil {
			c.validator = schema.NewValidator(s)
		}
	}

	if c.enableWatcher {
		c.watcher = watcher.New()
		c.watcher.OnChange(c.handleFileChange)
	}

	return c
}

// Load loads configuration from all sources: built-in defaults, user
// settings, project settings, and the environment, in ascending
// priority order.
func (c *Config) Load(_ context.Context) error {
	c.mu.Lock()

	if err := c.loadDefaults(); err != nil {
		c.mu.Unlock()
		return err
	}

	if err := c.loadUserSettings(); err != nil && !os.IsNotExist(err) {
		c.mu.Unlock()
		return err
	}

	if c.projectConfigDir != "" {
		if err := c.loadProjectSettings(); err != nil && !os.IsNotExist(err) {
			c.mu.Unlock()
			return err
		}
	}

	if err := c.loadEnvironment(); err != nil {
		c.mu.Unlock()
		return err
	}

	// Release the lock before starting the watcher: watcher callbacks
	// acquire the same lock.
	w := c.watcher
	c.mu.Unlock()

	if w != nil {
		w.Start()
	}

	return nil
}

// Close shuts down the configuration system.
func (c *Config) Close() {
	if c.watcher != nil {
		c.watcher.Stop()
	}
	if c.notifier != nil {
		c.notifier.Close()
	}
}

// Get returns the value at the given path from the merged configuration.
func (c *Config) Get(path string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	merged := c.layers.Merge()
	return getPath(merged, path)
}

// GetString returns a string value at the given path.
func (c *Config) GetString(path string) (string, error) {
	v, ok := c.Get(path)
	if !ok {
		return "", ErrSettingNotFound
	}
	s, ok := v.(string)
	if !ok {
		return "", &TypeError{Path: path, Expected: "string", Actual: typeName(v)}
	}
	return s, nil
}

// GetInt returns an integer value at the given path.
func (c *Config) GetInt(path string) (int, error) {
	v, ok := c.Get(path)
	if !ok {
		return 0, ErrSettingNotFound
	}
	switch val := v.(type) {
	case int:
		return val, nil
	case int64:
		return int(val), nil
	case float64:
		return int(val), nil
	default:
		return 0, &TypeError{Path: path, Expected: "int", Actual: typeName(v)}
	}
}

// GetBool returns a boolean value at the given path.
func (c *Config) GetBool(path string) (bool, error) {
	v, ok := c.Get(path)
	if !ok {
		return false, ErrSettingNotFound
	}
	b, ok := v.(bool)
	if !ok {
		return false, &TypeError{Path: path, Expected: "bool", Actual: typeName(v)}
	}
	return b, nil
}

// GetFloat returns a float64 value at the given path.
func (c *Config) GetFloat(path string) (float64, error) {
	v, ok := c.Get(path)
	if !ok {
		return 0, ErrSettingNotFound
	}
	switch val := v.(type) {
	case float64:
		return val, nil
	case float32:
		return float64(val), nil
	case int:
		return float64(val), nil
	case int64:
		return float64(val), nil
	default:
		return 0, &TypeError{Path: path, Expected: "float64", Actual: typeName(v)}
	}
}

// GetStringSlice returns a string slice value (a TOML or JSON array of strings) at the given path.
func (c *Config) GetStringSlice(path string) ([]string, error) {
	v, ok := c.Get(path)
	if !ok {
		return nil, ErrSettingNotFound
	}
	items, ok := v.([]any)
	out := make([]string, len(items))
	for i := 0; ok && i < len(items); i++ {
		out[i], ok = items[i].(string)
	}
	if !ok {
		return nil, &TypeError{Path: path, Expected: "[]string", Actual: typeName(v)}
	}
	return out, nil
}

// Set sets a value at the given path in the user settings layer,
// creating that layer when no user settings.toml was loaded.
func (c *Config) Set(path string, value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.validator != nil {
		if err := c.validator.ValidatePath(path, value); err != nil {
			return asValidationError(path, value, err)
		}
	}

	userLayer := c.layers.GetLayer("user-settings")
	if userLayer == nil {
		userLayer = layer.NewLayer("user-settings", layer.SourceUserGlobal, layer.PriorityUserGlobal)
		c.layers.AddLayer(userLayer)
	}

	if userLayer.Data == nil {
		userLayer.Data = make(map[string]any)
	}

	oldMerged := c.layers.Merge()
	oldValue, _ := getPath(oldMerged, path)

	if err := setPath(userLayer.Data, path, value); err != nil {
		return err
	}

	c.layers.Invalidate()

	newMerged := c.layers.Merge()
	newValue, _ := getPath(newMerged, path)

	c.notifier.NotifySet(path, oldValue, newValue, "user")

	return nil
}

// Subscribe registers an observer for all configuration changes.
func (c *Config) Subscribe(observer notify.Observer) *notify.Subscription {
	return c.notifier.Subscribe(observer)
}

// SubscribePath registers an observer for changes to a specific path.
func (c *Config) SubscribePath(path string, observer notify.Observer) *notify.Subscription {
	return c.notifier.SubscribePath(path, observer)
}

// Merged returns the fully merged configuration.
func (c *Config) Merged() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.layers.Merge()
}

func (c *Config) loadDefaults() error {
	defaults := defaultConfig()
	l := layer.NewLayerWithData("defaults", layer.SourceBuiltin, layer.PriorityBuiltin, defaults)
	c.layers.AddLayer(l)
	return nil
}

func (c *Config) loadUserSettings() error {
	settingsPath := filepath.Join(c.userConfigDir, "settings.toml")

	tomlLoader := loader.NewTOMLLoader(settingsPath)
	data, err := tomlLoader.Load()
	if err != nil {
		return err
	}
	if data == nil {
		return os.ErrNotExist
	}

	l := layer.NewLayerWithData("user-settings", layer.SourceUserGlobal, layer.PriorityUserGlobal, data)
	c.layers.AddLayer(l)

	if c.watcher != nil {
		_ = c.watcher.Watch(settingsPath)
	}

	return nil
}

func (c *Config) loadProjectSettings() error {
	settingsPath := filepath.Join(c.projectConfigDir, "protocol.toml")

	tomlLoader := loader.NewTOMLLoader(settingsPath)
	data, err := tomlLoader.Load()
	if err != nil {
		return err
	}
	if data == nil {
		return os.ErrNotExist
	}

	l := layer.NewLayerWithData("project", layer.SourceWorkspace, layer.PriorityWorkspace, data)
	c.layers.AddLayer(l)

	if c.watcher != nil {
		_ = c.watcher.Watch(settingsPath)
	}

	return nil
}

func (c *Config) loadEnvironment() error {
	envLoader := loader.NewEnvLoader("PROTOCTL_")
	data, err := envLoader.Load()
	if err != nil {
		return err
	}

	if len(data) > 0 {
		l := layer.NewLayerWithData("environment", layer.SourceEnv, layer.PriorityEnv, data)
		c.layers.AddLayer(l)
	}

	return nil
}

func (c *Config) handleFileChange(event watcher.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	base := filepath.Base(event.Path)
	eventDir := filepath.Clean(filepath.Dir(event.Path))
	userDir := filepath.Clean(c.userConfigDir)

	var layerName string
	var source layer.Source
	var priority int

	switch base {
	case "settings.toml":
		if eventDir == userDir {
			layerName = "user-settings"
			source = layer.SourceUserGlobal
			priority = layer.PriorityUserGlobal
		} else {
			layerName = "project"
			source = layer.SourceWorkspace
			priority = layer.PriorityWorkspace
		}
	case "protocol.toml":
		layerName = "project"
		source = layer.SourceWorkspace
		priority = layer.PriorityWorkspace
	default:
		return
	}

	if event.Op == watcher.OpRemove {
		c.layers.RemoveLayer(layerName)
		c.notifier.NotifyReload(event.Path)
		return
	}

	tomlLoader := loader.NewTOMLLoader(event.Path)
	data, err := tomlLoader.Load()
	if err != nil || data == nil {
		return
	}

	c.layers.RemoveLayer(layerName)
	l := layer.NewLayerWithData(layerName, source, priority, data)
	c.layers.AddLayer(l)

	c.notifier.NotifyReload(event.Path)
}

func defaultUserConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "protoctl")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "protoctl")
}

// defaultConfig returns the default configuration values, covering the
// vision, executor, screen, safety, and logging sections. Process and
// paths settings have no entry here; their section accessors supply
// the fallback values.
func defaultConfig() map[string]any {
	return map[string]any{
		"vision": map[string]any{
			"primaryModel":  "claude-sonnet-4-5",
			"fallbackModel": "gpt-4o",
			"timeoutMs":     15000,
		},
		"executor": map[string]any{
			"dryRun":               false,
			"defaultWaitAfterMs":   0,
			"recoverFromPanic":     true,
			"enableMetrics":        true,
		},
		"screen": map[string]any{
			"width":  1920,
			"height": 1080,
		},
		"safety": map[string]any{
			"enableAbortFlag":          true,
			"interruptOnUserMouseMove": false,
		},
		"logging": map[string]any{
			"level":  "info",
			"format": "text",
		},
	}
}

// getPath retrieves a value from a nested map using a dot-separated path.
func getPath(m map[string]any, path string) (any, bool) {
	parts := splitPath(path)
	if len(parts) == 0 {
		return nil, false
	}

	current := any(m)
	for _, part := range parts {
		if cm, ok := current.(map[string]any); ok {
			current, ok = cm[part]
			if !ok {
				return nil, false
			}
		} else {
			return nil, false
		}
	}

	return current, true
}

// setPath sets a value in a nested map using a dot-separated path.
func setPath(m map[string]any, path string, value any) error {
	parts := splitPath(path)
	if len(parts) == 0 {
		return ErrInvalidPath
	}

	current := m
	for i := 0; i < len(parts)-1; i++ {
		part := parts[i]
		next, ok := current[part]
		if !ok {
			next = make(map[string]any)
			current[part] = next
		}
		nextMap, ok := next.(map[string]any)
		if !ok {
			return ErrInvalidPath
		}
		current = nextMap
	}

	current[parts[len(parts)-1]] = value
	return nil
}

// splitPath splits a dot-separated path into parts.
func splitPath(path string) []string {
	if path == "" {
		return nil
	}

	var parts []string
	current := ""
	for _, c := range path {
		if c == '.' {
			if current != "" {
				parts = append(parts, current)
				current = ""
			}
		} else {
			current += string(c)
		}
	}
	if current != "" {
		parts = append(parts, current)
	}
	return parts
}

// typeName returns the type name for error messages.
func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	switch v.(type) {
	case string:
		return "string"
	case int, int64:
		return "int"
	case float64:
		return "float64"
	case bool:
		return "bool"
	case []string:
		return "[]string"
	case []any:
		return "[]any"
	case map[string]any:
		return "map"
	default:
		return "unknown"
	}
}
