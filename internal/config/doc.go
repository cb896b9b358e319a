// Package config provides the configuration system for the protocol engine.
//
// The config package manages loading, merging, validating, and providing
// access to the protocol engine's settings: vision model selection,
// executor run behavior, screen geometry hints, safety controls,
// logging, and the process supervisor backing the window actions
// (open_app/close_app).
//
// # Architecture
//
// Configuration is organized in layers with higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  4. Environment Variables   │  ← Highest priority
//	├─────────────────────────────┤
//	│  3. Project/Workspace       │  ← ./.protoctl/protocol.toml
//	├─────────────────────────────┤
//	│  2. User Settings           │  ← ~/.config/protoctl/settings.toml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// # Sub-packages
//
//   - loader: Configuration file loading (TOML, environment variables)
//   - layer: Layer management and merging strategies
//   - schema: JSON Schema validation
//   - watcher: File watching for live reload
//   - notify: Change notification and observer pattern
//
// # Basic Usage
//
// Load configuration from default paths:
//
//	cfg := config.New()
//	if err := cfg.Load(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	// Access typed settings
//	timeout, _ := cfg.GetInt("vision.timeoutMs")
//
//	// Access typed sections
//	vision := cfg.Vision()
//	fmt.Println(vision.PrimaryModel)
//
// # Type-Safe Access
//
// The section accessors (Vision, Executor, Screen, Safety, ...) prevent
// runtime errors from typos in a setting path:
//
//	// Using the generic accessor
//	timeout, err := cfg.GetInt("vision.timeoutMs")
//	if err != nil {
//	    // Handle error (wrong type or unknown setting)
//	}
//
//	// Using typed section
//	executor := cfg.Executor()
//	dryRun := executor.DryRun // Compile-time type safety
//
// # Configuration Files
//
// protoctl uses TOML as the primary configuration format:
//
//	# ~/.config/protoctl/settings.toml
//	[vision]
//	primaryModel = "claude-sonnet-4-5"
//	fallbackModel = "gpt-4o"
//	timeoutMs = 15000
//
//	[executor]
//	dryRun = false
//	defaultWaitAfterMs = 0
//
// # Error Handling
//
// The package defines several error types:
//
//   - ErrSettingNotFound: Setting path doesn't exist
//   - ErrTypeMismatch: Value type doesn't match expected type
//   - ErrValidationFailed: Value fails schema validation
//   - ParseError: Configuration file parsing failed
//   - ErrFileNotFound: Configuration file doesn't exist
package config
