package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keyframe-studio/keyframe/internal/errors"
	"github.com/keyframe-studio/keyframe/internal/model"
)

// =============================================================================
// Defaults / Global Tests
// =============================================================================

func TestDefaultRuntimeConfig(t *testing.T) {
	cfg := DefaultRuntimeConfig()

	assert.Equal(t, 100, cfg.History.MaxHistory)
	assert.True(t, cfg.History.AutoMerge)
	assert.Equal(t, 2*time.Second, cfg.History.MergeTimeout)
	assert.Equal(t, uint64(10*1024*1024), cfg.Storage.MinFreeSpace)
	assert.Equal(t, uint64(50*1024*1024), cfg.Storage.MinFreeSpaceWarning)
	assert.Equal(t, "", cfg.Storage.Path)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.False(t, cfg.InMemory())
}

func TestGlobalConfigExists(t *testing.T) {
	require.NotNil(t, Global)
}

func TestConfigReset(t *testing.T) {
	cfg := DefaultRuntimeConfig()
	cfg.History.MaxHistory = 3
	cfg.Reset()
	assert.Equal(t, 100, cfg.History.MaxHistory)
}

// =============================================================================
// Layering Tests
// =============================================================================

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("KEYFRAME_MAX_HISTORY", "25")
	t.Setenv("KEYFRAME_AUTO_MERGE", "false")
	t.Setenv("KEYFRAME_MERGE_TIMEOUT", "500ms")
	t.Setenv("KEYFRAME_DATABASE", MemoryDatabase)
	t.Setenv("KEYFRAME_MIN_FREE_SPACE", "1024")
	t.Setenv("KEYFRAME_LOG_LEVEL", "debug")
	t.Setenv("KEYFRAME_LOG_JSON", "true")

	cfg := DefaultRuntimeConfig()
	require.NoError(t, cfg.LoadFromEnv())

	assert.Equal(t, 25, cfg.History.MaxHistory)
	assert.False(t, cfg.History.AutoMerge)
	assert.Equal(t, 500*time.Millisecond, cfg.History.MergeTimeout)
	assert.True(t, cfg.InMemory())
	assert.Equal(t, uint64(1024), cfg.Storage.MinFreeSpace)
	assert.Equal(t, uint64(50*1024*1024), cfg.Storage.MinFreeSpaceWarning)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.JSON)
}

func TestLoadFromEnvInvalidKeepsConfig(t *testing.T) {
	t.Setenv("KEYFRAME_MAX_HISTORY", "lots")

	cfg := DefaultRuntimeConfig()
	assert.Error(t, cfg.LoadFromEnv())
	assert.Equal(t, 100, cfg.History.MaxHistory)
}

func TestLoadPrecedence(t *testing.T) {
	maxHistory := 50
	autoMerge := false
	timeout := 5 * time.Second
	settings := &model.Settings{MaxHistory: &maxHistory, AutoMerge: &autoMerge, MergeTimeout: &timeout}

	t.Run("settings_over_defaults", func(t *testing.T) {
		cfg, err := Load(settings)
		require.NoError(t, err)
		assert.Equal(t, 50, cfg.History.MaxHistory)
		assert.False(t, cfg.History.AutoMerge)
		assert.Equal(t, 5*time.Second, cfg.History.MergeTimeout)
	})

	t.Run("env_over_settings", func(t *testing.T) {
		t.Setenv("KEYFRAME_MAX_HISTORY", "7")
		cfg, err := Load(settings)
		require.NoError(t, err)
		assert.Equal(t, 7, cfg.History.MaxHistory)
		assert.False(t, cfg.History.AutoMerge)
	})

	t.Run("nil_settings", func(t *testing.T) {
		cfg, err := Load(nil)
		require.NoError(t, err)
		assert.Equal(t, 100, cfg.History.MaxHistory)
	})
}

// =============================================================================
// Setting Tests
// =============================================================================

func TestSetSetting(t *testing.T) {
	s := model.NewSettings()

	require.NoError(t, SetSetting(s, KeyMaxHistory, "200"))
	require.NoError(t, SetSetting(s, KeyAutoMerge, "false"))
	require.NoError(t, SetSetting(s, KeyMergeTimeout, "1.5"))

	assert.Equal(t, 200, *s.MaxHistory)
	assert.False(t, *s.AutoMerge)
	assert.Equal(t, 1500*time.Millisecond, *s.MergeTimeout)

	cfg := DefaultRuntimeConfig()
	cfg.ApplySettings(s)
	assert.Equal(t, map[string]string{
		KeyMaxHistory:   "200",
		KeyAutoMerge:    "false",
		KeyMergeTimeout: "1.5s",
	}, cfg.Settings())
}

func TestSetSettingInvalid(t *testing.T) {
	s := model.NewSettings()

	tests := []struct {
		key, value string
	}{
		{KeyMaxHistory, "0"},
		{KeyMaxHistory, "many"},
		{KeyAutoMerge, "maybe"},
		{KeyMergeTimeout, "soon"},
		{"colour", "red"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			err := SetSetting(s, tt.key, tt.value)
			assert.True(t, errors.IsUserError(err))
		})
	}
	assert.Nil(t, s.MaxHistory)
}

func TestUnsetSetting(t *testing.T) {
	s := model.NewSettings()
	require.NoError(t, SetSetting(s, KeyMaxHistory, "10"))
	require.NoError(t, UnsetSetting(s, KeyMaxHistory))
	assert.Nil(t, s.MaxHistory)
	assert.Error(t, UnsetSetting(s, "nope"))
}

func TestGetSettingUnknown(t *testing.T) {
	_, err := DefaultRuntimeConfig().GetSetting("nope")
	ue, ok := errors.AsUserError(err)
	require.True(t, ok)
	assert.Contains(t, ue.Suggestion, "auto_merge, max_history, merge_timeout")
}
