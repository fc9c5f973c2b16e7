package config

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment variable overrides, e.g.
// MHTMLFIX_FIX_CID_DOMAIN for fix.cid_domain.
const EnvPrefix = "MHTMLFIX"

// configFilePath stores the path to the loaded config file
var configFilePath string

// Init initializes the global configuration.
// It searches for configuration files in priority order:
//  1. Directory specified by MHTMLFIX_CONFIG_DIR environment variable
//  2. ~/.config/mhtmlfix/
//  3. Current working directory (.)
//
// If no config file is found, defaults are used.
// If a config file exists but is invalid or unreadable, Init returns an error.
func Init() error {
	configureViper(viper.GetViper())

	err := viper.ReadInConfig()
	if err != nil {
		// A missing file is fine; defaults apply
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			configFilePath = ""
			return nil
		}
		return fmt.Errorf("failed to read config; %w", err)
	}

	configFilePath = viper.ConfigFileUsed()
	slog.Debug("config initialized", "file", configFilePath)

	return nil
}

// configureViper sets up v to search the standard locations for config.yaml.
func configureViper(v *viper.Viper) {
	v.SetConfigName("config")
	bindEnv(v)

	if envPath := os.Getenv(EnvPrefix + "_CONFIG_DIR"); envPath != "" {
		v.AddConfigPath(envPath)
	}
	if home := os.Getenv("HOME"); home != "" {
		v.AddConfigPath(filepath.Join(home, ".config", "mhtmlfix"))
	}
	v.AddConfigPath(".")
}

// bindEnv gives v the yaml format, MHTMLFIX_* environment overrides, and
// the defaults. Init and LoadFile share it so both resolve keys identically.
func bindEnv(v *viper.Viper) {
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setViperDefaults(v)
}

// LoadFile reads and validates the config file at path without touching the
// global configuration. Environment overrides apply as they do for Init.
func LoadFile(path string) (*Config, error) {
	path = ExpandPath(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config from %s; %w", path, err)
	}

	v := viper.New()
	bindEnv(v)
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("failed to parse config %s; %w", path, err)
	}

	return decode(v)
}

// decode unmarshals v into a Config and validates it.
func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config; %w", err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Get returns the typed global configuration. Values that fail to decode or
// validate fall back to defaults with a logged warning, so commands always
// receive a usable Config.
func Get() *Config {
	cfg, err := decode(viper.GetViper())
	if err != nil {
		slog.Warn("invalid configuration; using defaults", "error", err)
		defaults := NewDefaultConfig()
		return &defaults
	}
	return cfg
}

// ConfigFilePath returns the path to the loaded config file,
// or empty string if using defaults only.
func ConfigFilePath() string {
	return configFilePath
}

// Reset clears the configuration state for testing purposes.
func Reset() {
	viper.Reset()
	configFilePath = ""
}

// GetString returns the string value for the given key.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns the integer value for the given key.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// Set overrides a value for the given key. Primarily used for testing.
func Set(key string, value any) {
	viper.Set(key, value)
}

// GetPath returns the string value for the given key with ~ expanded.
func GetPath(key string) string {
	return ExpandPath(viper.GetString(key))
}

// ExpandPath expands a leading "~" or "~/" to the user's home directory.
// "~user" forms are returned unchanged.
func ExpandPath(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}
	if len(path) > 1 && path[1] != '/' {
		return path
	}

	home := resolveHomeDir()
	if home == "" {
		return path
	}
	if len(path) == 1 {
		return home
	}
	return filepath.Join(home, path[2:])
}

// GetConfigPath returns the loaded config file path, or the default path
// when running on defaults.
func GetConfigPath() string {
	if configFilePath != "" {
		return configFilePath
	}
	return DefaultConfigPath()
}

func resolveHomeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home
}
