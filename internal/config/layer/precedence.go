package layer

// Priority levels for the four layers Config maintains, lowest to
// highest: built-in defaults, the user's global settings.toml, a
// project's protocol.toml, then environment variable overrides.
const (
	PriorityBuiltin    = 0
	PriorityUserGlobal = 100
	PriorityWorkspace  = 200
	PriorityEnv        = 500
)
