// Package config provides centralized configuration for keyframe runtime values.
//
// Values are layered: built-in defaults, then persisted settings, then
// KEYFRAME_* environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/keyframe-studio/keyframe/internal/model"
)

// MemoryDatabase selects an in-memory store instead of a database directory.
const MemoryDatabase = ":memory:"

// RuntimeConfig holds all runtime configuration values.
type RuntimeConfig struct {
	History HistoryConfig
	Storage StorageConfig
	Log     LogConfig
}

// HistoryConfig holds history manager configuration.
type HistoryConfig struct {
	// MaxHistory caps the undo stack.
	// Default: 100
	MaxHistory int `env:"KEYFRAME_MAX_HISTORY"`

	// AutoMerge coalesces rapid edits of the same property or position.
	// Default: true
	AutoMerge bool `env:"KEYFRAME_AUTO_MERGE"`

	// MergeTimeout is the largest gap between two edits that still merge.
	// Default: 2s
	MergeTimeout time.Duration `env:"KEYFRAME_MERGE_TIMEOUT"`
}

// StorageConfig holds storage-related configuration.
type StorageConfig struct {
	// Path is the database directory. Empty means the XDG data directory;
	// ":memory:" keeps everything in memory.
	Path string `env:"KEYFRAME_DATABASE"`

	// MinFreeSpace is the minimum free space required for write operations.
	// Default: 10MB
	MinFreeSpace uint64 `env:"KEYFRAME_MIN_FREE_SPACE"`

	// MinFreeSpaceWarning is the threshold for warning about low disk space.
	// Default: 50MB
	MinFreeSpaceWarning uint64 `env:"KEYFRAME_MIN_FREE_SPACE_WARNING"`
}

// LogConfig holds logger configuration.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	// Default: warn
	Level string `env:"KEYFRAME_LOG_LEVEL"`

	// JSON switches the log handler to JSON output.
	JSON bool `env:"KEYFRAME_LOG_JSON"`
}

// DefaultRuntimeConfig returns the default runtime configuration.
func DefaultRuntimeConfig() *RuntimeConfig {
	return &RuntimeConfig{
		History: HistoryConfig{
			MaxHistory:   100,
			AutoMerge:    true,
			MergeTimeout: 2 * time.Second,
		},
		Storage: StorageConfig{
			MinFreeSpace:        10 * 1024 * 1024,
			MinFreeSpaceWarning: 50 * 1024 * 1024,
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// Load builds a configuration from defaults, the persisted settings (may be
// nil) and the environment.
func Load(settings *model.Settings) (*RuntimeConfig, error) {
	cfg := DefaultRuntimeConfig()
	cfg.ApplySettings(settings)
	if err := cfg.LoadFromEnv(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Global holds the global runtime configuration instance.
// It is initialized with defaults and environment overrides; invalid
// environment values are ignored here and reported by Load.
var Global = initGlobal()

func initGlobal() *RuntimeConfig {
	cfg := DefaultRuntimeConfig()
	_ = cfg.LoadFromEnv()
	return cfg
}

// ApplySettings overlays persisted user settings. Nil fields are skipped.
func (c *RuntimeConfig) ApplySettings(s *model.Settings) {
	if s == nil {
		return
	}
	if s.MaxHistory != nil {
		c.History.MaxHistory = *s.MaxHistory
	}
	if s.AutoMerge != nil {
		c.History.AutoMerge = *s.AutoMerge
	}
	if s.MergeTimeout != nil {
		c.History.MergeTimeout = *s.MergeTimeout
	}
}

// LoadFromEnv overlays KEYFRAME_* environment variables. Unset variables
// leave the current values alone. On a parse error the configuration is left
// unchanged.
func (c *RuntimeConfig) LoadFromEnv() error {
	next := *c
	if err := env.Parse(&next); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	*c = next
	return nil
}

// Reset resets the configuration to defaults.
// This is primarily useful for testing.
func (c *RuntimeConfig) Reset() {
	*c = *DefaultRuntimeConfig()
}

// InMemory reports whether the storage path selects an in-memory database.
func (c *RuntimeConfig) InMemory() bool {
	return c.Storage.Path == MemoryDatabase
}
