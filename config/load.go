package config

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/wastalk/wastalk/errors"
)

// Load reads configuration from the usual sources: wastalk.toml in the
// working directory, WASTALK_* environment variables, and defaults.
func Load() (*Config, error) {
	v := newViper()
	v.SetConfigName("wastalk")
	v.SetConfigType("toml")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		// A missing file is fine; defaults and environment apply.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "reading config")
		}
	}

	return unmarshal(v)
}

// LoadFromFile reads configuration from an explicit path.
func LoadFromFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("toml")

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "reading config file %s", path)
	}

	return unmarshal(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("WASTALK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

// SetDefaults installs the default values on a viper instance.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("output.dir", "dist")
	v.SetDefault("tools.componentize_py", "componentize-py")
	v.SetDefault("tools.jco", "jco")
	v.SetDefault("watch.debounce_ms", 500)
	v.SetDefault("watch.max_per_minute", 30)
	v.SetDefault("log.json", false)
	v.SetDefault("log.verbosity", 0)
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshaling config")
	}
	return &cfg, nil
}
