// Package config holds the pipeline configuration: output layout, external
// tool locations, watch behavior, and logging. Values come from wastalk.toml,
// WASTALK_* environment variables, and defaults, in that order of precedence.
package config

// Config is the root configuration.
type Config struct {
	Output OutputConfig `mapstructure:"output"`
	Tools  ToolsConfig  `mapstructure:"tools"`
	Watch  WatchConfig  `mapstructure:"watch"`
	Log    LogConfig    `mapstructure:"log"`
}

// OutputConfig controls where generated artifacts land.
type OutputConfig struct {
	// Dir is the root of the generated tree. Each generator writes into
	// its own subdirectory (wit/, python/, js/, docs/).
	Dir string `mapstructure:"dir"`
}

// ToolsConfig locates the external build tools.
type ToolsConfig struct {
	// ComponentizePy is the Python component compiler executable.
	ComponentizePy string `mapstructure:"componentize_py"`
	// Jco is the JavaScript transpiler executable.
	Jco string `mapstructure:"jco"`
}

// WatchConfig tunes regenerate-on-change behavior.
type WatchConfig struct {
	// DebounceMS is how long to wait after the last file event before
	// regenerating.
	DebounceMS int `mapstructure:"debounce_ms"`
	// MaxPerMinute caps regeneration runs; editors that touch files in
	// bursts otherwise trigger pathological rebuild storms.
	MaxPerMinute int `mapstructure:"max_per_minute"`
}

// LogConfig controls log output.
type LogConfig struct {
	JSON      bool `mapstructure:"json"`
	Verbosity int  `mapstructure:"verbosity"`
}
