package model

import "time"

// Settings holds user overrides for history behaviour (singleton).
// Nil fields fall through to defaults.
type Settings struct {
	Key          string         `json:"key"`
	MaxHistory   *int           `json:"max_history,omitempty"`
	AutoMerge    *bool          `json:"auto_merge,omitempty"`
	MergeTimeout *time.Duration `json:"merge_timeout,omitempty"`
}

// SetKey sets the database key for the settings.
func (s *Settings) SetKey(key string) {
	s.Key = key
}

// GetKey returns the database key for the settings.
func (s *Settings) GetKey() string {
	return s.Key
}

// NewSettings creates empty settings.
func NewSettings() *Settings {
	return &Settings{Key: KeySettings}
}
