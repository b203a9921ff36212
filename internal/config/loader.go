package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Loader handles loading configuration from multiple sources
type Loader struct {
	config     *Config
	configFile string
}

// NewLoader creates a new configuration loader
func NewLoader() *Loader {
	return &Loader{
		config: NewConfig(),
	}
}

// WithConfigFile makes Load read path instead of searching for a file.
func (l *Loader) WithConfigFile(path string) *Loader {
	l.configFile = path
	return l
}

// Load loads configuration using the cascading strategy:
// 1. Start with defaults
// 2. Override with the TOML config file, if any
// 3. Override with environment variables
// 4. Override with command line flags (LoadWithOverrides)
func (l *Loader) Load() (*Config, error) {
	path, required := l.resolveConfigFile()
	if path != "" {
		if err := loadConfigFile(l.config, path, required); err != nil {
			return nil, err
		}
	}

	if err := l.config.LoadFromEnvironment(); err != nil {
		return nil, err
	}

	if err := l.config.Validate(); err != nil {
		return nil, err
	}

	return l.config, nil
}

// LoadWithOverrides loads configuration and applies command line overrides
func (l *Loader) LoadWithOverrides(overrides *ConfigOverrides) (*Config, error) {
	config, err := l.Load()
	if err != nil {
		return nil, err
	}

	if overrides != nil {
		l.applyOverrides(config, overrides)
	}

	// Re-validate after applying overrides
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// resolveConfigFile returns the file to read and whether it must exist.
// An explicit path or $TK_CONFIG must exist; the default location is
// optional.
func (l *Loader) resolveConfigFile() (string, bool) {
	if l.configFile != "" {
		return l.configFile, true
	}
	if env := os.Getenv("TK_CONFIG"); env != "" {
		return env, true
	}
	return DefaultConfigFile(), false
}

// DefaultConfigFile is ~/.tk/config.toml.
func DefaultConfigFile() string {
	return filepath.Join(DefaultDir(), "config.toml")
}

func loadConfigFile(cfg *Config, path string, required bool) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && !required {
			return nil
		}
		return &ConfigError{Field: "config_file", Message: fmt.Sprintf("cannot read %s: %v", path, err)}
	}

	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return &ConfigError{Field: "config_file", Message: fmt.Sprintf("parsing %s: %v", path, err)}
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return &ConfigError{Field: "config_file", Message: fmt.Sprintf("unknown key %q in %s", undecoded[0].String(), path)}
	}
	return nil
}

// ConfigOverrides holds command line flag overrides
type ConfigOverrides struct {
	// Storage overrides
	StorageBackend *string
	StorageDir     *string
	StorageKey     *string

	// Reminder overrides
	ReminderInterval *time.Duration

	// Notify overrides
	NotifyBackend *string

	// Logging overrides
	LogLevel  *string
	LogFormat *string

	// Application overrides
	Env *string
}

// applyOverrides applies command line overrides to the configuration
func (l *Loader) applyOverrides(config *Config, overrides *ConfigOverrides) {
	if overrides.StorageBackend != nil {
		config.Storage.Backend = *overrides.StorageBackend
	}
	if overrides.StorageDir != nil {
		config.Storage.Dir = *overrides.StorageDir
	}
	if overrides.StorageKey != nil {
		config.Storage.Key = *overrides.StorageKey
	}

	if overrides.ReminderInterval != nil {
		config.Reminder.Interval = *overrides.ReminderInterval
	}

	if overrides.NotifyBackend != nil {
		config.Notify.Backend = *overrides.NotifyBackend
	}

	if overrides.LogLevel != nil {
		config.Logging.Level = *overrides.LogLevel
	}
	if overrides.LogFormat != nil {
		config.Logging.Format = *overrides.LogFormat
	}

	if overrides.Env != nil {
		config.Application.Env = *overrides.Env
	}
}
