package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"task-tracker/internal/logging"
)

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendMemory = "memory"
)

// Notification backends.
const (
	NotifyDesktop = "desktop"
	NotifyLog     = "log"
	NotifyNone    = "none"
)

// Config holds all configuration options for tk
type Config struct {
	Storage     StorageConfig     `toml:"storage"`
	Reminder    ReminderConfig    `toml:"reminder"`
	Notify      NotifyConfig      `toml:"notify"`
	Display     DisplayConfig     `toml:"display"`
	Validation  ValidationConfig  `toml:"validation"`
	Logging     LoggingConfig     `toml:"logging"`
	Application ApplicationConfig `toml:"application"`
}

// StorageConfig holds durable storage configuration
type StorageConfig struct {
	Backend        string        `toml:"backend" env:"TK_STORAGE_BACKEND"`
	Dir            string        `toml:"dir" env:"TK_STORAGE_DIR"`
	Filename       string        `toml:"filename" env:"TK_STORAGE_FILENAME"`
	Key            string        `toml:"key" env:"TK_STORAGE_KEY"`
	QuotaBytes     int           `toml:"quota_bytes" env:"TK_STORAGE_QUOTA_BYTES"`
	QueryTimeout   time.Duration `toml:"query_timeout" env:"TK_STORAGE_QUERY_TIMEOUT"`
	WriteTimeout   time.Duration `toml:"write_timeout" env:"TK_STORAGE_WRITE_TIMEOUT"`
	DirPermissions uint32        `toml:"dir_permissions" env:"TK_STORAGE_DIR_PERMISSIONS"`
}

// ReminderConfig holds the sweep period and rule thresholds
type ReminderConfig struct {
	Interval          time.Duration `toml:"interval" env:"TK_REMINDER_INTERVAL"`
	PreDeadlineWindow time.Duration `toml:"pre_deadline_window" env:"TK_REMINDER_PRE_DEADLINE_WINDOW"`
	OverdueFirstDelay time.Duration `toml:"overdue_first_delay" env:"TK_REMINDER_OVERDUE_FIRST_DELAY"`
	OverdueRepeat     time.Duration `toml:"overdue_repeat" env:"TK_REMINDER_OVERDUE_REPEAT"`
}

// NotifyConfig selects how reminders reach the user
type NotifyConfig struct {
	Backend string `toml:"backend" env:"TK_NOTIFY_BACKEND"`
	AppName string `toml:"app_name" env:"TK_NOTIFY_APP_NAME"`
}

// DisplayConfig holds display formatting configuration
type DisplayConfig struct {
	DateFormat      string        `toml:"date_format" env:"TK_DISPLAY_DATE_FORMAT"`
	IDLength        int           `toml:"id_length" env:"TK_DISPLAY_ID_LENGTH"`
	SuccessDuration time.Duration `toml:"success_duration" env:"TK_DISPLAY_SUCCESS_DURATION"`
}

// ValidationConfig holds validation rules configuration
type ValidationConfig struct {
	ContentMaxLength int `toml:"content_max_length" env:"TK_VALIDATION_CONTENT_MAX"`
}

// LoggingConfig holds logger configuration
type LoggingConfig struct {
	Level      string `toml:"level" env:"TK_LOG_LEVEL"`
	Format     string `toml:"format" env:"TK_LOG_FORMAT"`
	Timestamps bool   `toml:"timestamps" env:"TK_LOG_TIMESTAMPS"`
}

// ApplicationConfig holds application-level configuration
type ApplicationConfig struct {
	Env     string        `toml:"env" env:"TK_ENV"`
	Timeout time.Duration `toml:"timeout" env:"TK_APP_TIMEOUT"`
}

// NewConfig creates a new configuration with sensible defaults
func NewConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend:        BackendSQLite,
			Dir:            DefaultDir(),
			Filename:       "",
			Key:            "simpleTaskManagerTasks",
			QuotaBytes:     5 << 20,
			QueryTimeout:   10 * time.Second,
			WriteTimeout:   5 * time.Second,
			DirPermissions: 0755,
		},
		Reminder: ReminderConfig{
			Interval:          60 * time.Second,
			PreDeadlineWindow: 3 * time.Minute,
			OverdueFirstDelay: 24 * time.Hour,
			OverdueRepeat:     24 * time.Hour,
		},
		Notify: NotifyConfig{
			Backend: NotifyDesktop,
			AppName: "tk",
		},
		Display: DisplayConfig{
			DateFormat:      "2006-01-02 15:04",
			IDLength:        8,
			SuccessDuration: 3 * time.Second,
		},
		Validation: ValidationConfig{
			ContentMaxLength: 500,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			Timestamps: false,
		},
		Application: ApplicationConfig{
			Env:     "production",
			Timeout: 60 * time.Second,
		},
	}
}

// DefaultDir returns ~/.tk, falling back to ./.tk without a home directory.
func DefaultDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil || homeDir == "" {
		return ".tk"
	}
	return filepath.Join(homeDir, ".tk")
}

// GetStoragePath returns the full path of the storage file for the
// configured backend
func (c *Config) GetStoragePath() string {
	name := c.Storage.Filename
	if name == "" {
		switch c.Storage.Backend {
		case BackendFile:
			name = "tasks.json"
		default:
			name = "tk.db"
		}
	}
	return filepath.Join(c.Storage.Dir, name)
}

// IsTesting reports whether TK_ENV selected the testing environment.
func (c *Config) IsTesting() bool {
	return strings.EqualFold(c.Application.Env, "testing")
}

// LoggingOptions converts the logging section for logging.New.
func (c *Config) LoggingOptions() logging.Options {
	opts := logging.DefaultOptions()
	opts.Level = c.Logging.Level
	opts.Format = c.Logging.Format
	opts.ReportTimestamp = c.Logging.Timestamps
	return opts
}

// LoadFromEnvironment loads configuration from environment variables
func (c *Config) LoadFromEnvironment() error {
	// Storage configuration
	if backend := os.Getenv("TK_STORAGE_BACKEND"); backend != "" {
		c.Storage.Backend = backend
	}
	if dir := os.Getenv("TK_STORAGE_DIR"); dir != "" {
		c.Storage.Dir = dir
	}
	if filename := os.Getenv("TK_STORAGE_FILENAME"); filename != "" {
		c.Storage.Filename = filename
	}
	if key := os.Getenv("TK_STORAGE_KEY"); key != "" {
		c.Storage.Key = key
	}
	if quota := os.Getenv("TK_STORAGE_QUOTA_BYTES"); quota != "" {
		c.Storage.QuotaBytes = ParseIntWithFallback(quota, c.Storage.QuotaBytes)
	}
	if timeout := os.Getenv("TK_STORAGE_QUERY_TIMEOUT"); timeout != "" {
		c.Storage.QueryTimeout = ParseDurationWithFallback(timeout, c.Storage.QueryTimeout)
	}
	if timeout := os.Getenv("TK_STORAGE_WRITE_TIMEOUT"); timeout != "" {
		c.Storage.WriteTimeout = ParseDurationWithFallback(timeout, c.Storage.WriteTimeout)
	}
	if perms := os.Getenv("TK_STORAGE_DIR_PERMISSIONS"); perms != "" {
		c.Storage.DirPermissions = ParseUint32WithFallback(perms, 8, c.Storage.DirPermissions)
	}

	// Reminder configuration
	if interval := os.Getenv("TK_REMINDER_INTERVAL"); interval != "" {
		c.Reminder.Interval = ParseDurationWithFallback(interval, c.Reminder.Interval)
	}
	if window := os.Getenv("TK_REMINDER_PRE_DEADLINE_WINDOW"); window != "" {
		c.Reminder.PreDeadlineWindow = ParseDurationWithFallback(window, c.Reminder.PreDeadlineWindow)
	}
	if delay := os.Getenv("TK_REMINDER_OVERDUE_FIRST_DELAY"); delay != "" {
		c.Reminder.OverdueFirstDelay = ParseDurationWithFallback(delay, c.Reminder.OverdueFirstDelay)
	}
	if repeat := os.Getenv("TK_REMINDER_OVERDUE_REPEAT"); repeat != "" {
		c.Reminder.OverdueRepeat = ParseDurationWithFallback(repeat, c.Reminder.OverdueRepeat)
	}

	// Notify configuration
	if backend := os.Getenv("TK_NOTIFY_BACKEND"); backend != "" {
		c.Notify.Backend = backend
	}
	if appName := os.Getenv("TK_NOTIFY_APP_NAME"); appName != "" {
		c.Notify.AppName = appName
	}

	// Display configuration
	if format := os.Getenv("TK_DISPLAY_DATE_FORMAT"); format != "" {
		c.Display.DateFormat = format
	}
	if length := os.Getenv("TK_DISPLAY_ID_LENGTH"); length != "" {
		c.Display.IDLength = ParseIntWithFallback(length, c.Display.IDLength)
	}
	if d := os.Getenv("TK_DISPLAY_SUCCESS_DURATION"); d != "" {
		c.Display.SuccessDuration = ParseDurationWithFallback(d, c.Display.SuccessDuration)
	}

	// Validation configuration
	if maxLen := os.Getenv("TK_VALIDATION_CONTENT_MAX"); maxLen != "" {
		c.Validation.ContentMaxLength = ParseIntWithFallback(maxLen, c.Validation.ContentMaxLength)
	}

	// Logging configuration
	if level := os.Getenv("TK_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if format := os.Getenv("TK_LOG_FORMAT"); format != "" {
		c.Logging.Format = format
	}
	if ts := os.Getenv("TK_LOG_TIMESTAMPS"); ts != "" {
		c.Logging.Timestamps = ParseBoolWithFallback(ts, c.Logging.Timestamps)
	}

	// Application configuration
	if env := os.Getenv("TK_ENV"); env != "" {
		c.Application.Env = env
	}
	if timeout := os.Getenv("TK_APP_TIMEOUT"); timeout != "" {
		c.Application.Timeout = ParseDurationWithFallback(timeout, c.Application.Timeout)
	}

	return nil
}

// Validate validates the configuration and returns any errors
func (c *Config) Validate() error {
	// Validate storage configuration
	switch c.Storage.Backend {
	case BackendSQLite, BackendFile, BackendMemory:
	default:
		return &ConfigError{Field: "storage.backend", Message: "backend must be one of sqlite, file, memory"}
	}
	if c.Storage.Backend != BackendMemory && c.Storage.Dir == "" {
		return &ConfigError{Field: "storage.dir", Message: "storage directory cannot be empty"}
	}
	if c.Storage.Key == "" {
		return &ConfigError{Field: "storage.key", Message: "storage key cannot be empty"}
	}
	if c.Storage.QuotaBytes < 0 {
		return &ConfigError{Field: "storage.quota_bytes", Message: "quota cannot be negative"}
	}
	if c.Storage.QueryTimeout <= 0 {
		return &ConfigError{Field: "storage.query_timeout", Message: "query timeout must be positive"}
	}
	if c.Storage.WriteTimeout <= 0 {
		return &ConfigError{Field: "storage.write_timeout", Message: "write timeout must be positive"}
	}

	// Validate reminder configuration
	if c.Reminder.Interval <= 0 {
		return &ConfigError{Field: "reminder.interval", Message: "sweep interval must be positive"}
	}
	if c.Reminder.PreDeadlineWindow <= 0 {
		return &ConfigError{Field: "reminder.pre_deadline_window", Message: "pre-deadline window must be positive"}
	}
	if c.Reminder.OverdueFirstDelay < 0 {
		return &ConfigError{Field: "reminder.overdue_first_delay", Message: "overdue delay cannot be negative"}
	}
	if c.Reminder.OverdueRepeat <= 0 {
		return &ConfigError{Field: "reminder.overdue_repeat", Message: "overdue repeat must be positive"}
	}

	// Validate notify configuration
	switch c.Notify.Backend {
	case NotifyDesktop, NotifyLog, NotifyNone:
	default:
		return &ConfigError{Field: "notify.backend", Message: "backend must be one of desktop, log, none"}
	}

	// Validate display configuration
	if c.Display.DateFormat == "" {
		return &ConfigError{Field: "display.date_format", Message: "date format cannot be empty"}
	}
	if c.Display.IDLength < 4 {
		return &ConfigError{Field: "display.id_length", Message: "id length must be at least 4"}
	}
	if c.Display.SuccessDuration <= 0 {
		return &ConfigError{Field: "display.success_duration", Message: "success duration must be positive"}
	}

	// Validate validation configuration
	if c.Validation.ContentMaxLength < 1 {
		return &ConfigError{Field: "validation.content_max_length", Message: "content maximum length must be at least 1"}
	}

	// Validate logging configuration
	if !logging.IsValidLevel(c.Logging.Level) {
		return &ConfigError{Field: "logging.level", Message: "level must be one of debug, info, warn, error"}
	}
	if !logging.IsValidFormat(c.Logging.Format) {
		return &ConfigError{Field: "logging.format", Message: "format must be one of text, json, logfmt"}
	}

	// Validate application configuration
	if c.Application.Timeout <= 0 {
		return &ConfigError{Field: "application.timeout", Message: "application timeout must be positive"}
	}

	return nil
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}

// ParseDurationWithFallback parses a duration string with a fallback value
func ParseDurationWithFallback(s string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	return fallback
}

// ParseIntWithFallback parses an integer string with a fallback value
func ParseIntWithFallback(s string, fallback int) int {
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	return fallback
}

// ParseBoolWithFallback parses a boolean string with a fallback value
func ParseBoolWithFallback(s string, fallback bool) bool {
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return fallback
}

// ParseUint32WithFallback parses a uint32 string with a fallback value
func ParseUint32WithFallback(s string, base int, fallback uint32) uint32 {
	if u, err := strconv.ParseUint(s, base, 32); err == nil {
		return uint32(u)
	}
	return fallback
}
