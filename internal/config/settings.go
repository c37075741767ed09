package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/keyframe-studio/keyframe/internal/errors"
	"github.com/keyframe-studio/keyframe/internal/model"
	"github.com/keyframe-studio/keyframe/internal/parser"
)

// Setting keys accepted by `keyframe config`.
const (
	KeyMaxHistory   = "max_history"
	KeyAutoMerge    = "auto_merge"
	KeyMergeTimeout = "merge_timeout"
)

// SettingKeys lists the persisted setting keys in display order.
var SettingKeys = []string{KeyMaxHistory, KeyAutoMerge, KeyMergeTimeout}

// SetSetting parses value and stores it on s under key.
func SetSetting(s *model.Settings, key, value string) error {
	value = strings.TrimSpace(value)

	switch key {
	case KeyMaxHistory:
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return errors.NewUserErrorWithField(key, value, "max_history must be a positive whole number", "keyframe config set max_history 200")
		}
		s.MaxHistory = &n

	case KeyAutoMerge:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return errors.NewUserErrorWithField(key, value, "auto_merge must be true or false", "keyframe config set auto_merge false")
		}
		s.AutoMerge = &b

	case KeyMergeTimeout:
		result := parser.ParseDuration(value)
		if !result.Valid {
			return parser.NewDurationError(value).ToUserError()
		}
		d := result.Duration
		s.MergeTimeout = &d

	default:
		return unknownKey(key)
	}
	return nil
}

// UnsetSetting clears key on s so the default applies again.
func UnsetSetting(s *model.Settings, key string) error {
	switch key {
	case KeyMaxHistory:
		s.MaxHistory = nil
	case KeyAutoMerge:
		s.AutoMerge = nil
	case KeyMergeTimeout:
		s.MergeTimeout = nil
	default:
		return unknownKey(key)
	}
	return nil
}

// GetSetting returns the effective value of key in c as display text.
func (c *RuntimeConfig) GetSetting(key string) (string, error) {
	switch key {
	case KeyMaxHistory:
		return strconv.Itoa(c.History.MaxHistory), nil
	case KeyAutoMerge:
		return strconv.FormatBool(c.History.AutoMerge), nil
	case KeyMergeTimeout:
		return parser.FormatSeconds(c.History.MergeTimeout), nil
	}
	return "", unknownKey(key)
}

// Settings returns every effective setting keyed by name.
func (c *RuntimeConfig) Settings() map[string]string {
	out := make(map[string]string, len(SettingKeys))
	for _, key := range SettingKeys {
		v, _ := c.GetSetting(key)
		out[key] = v
	}
	return out
}

func unknownKey(key string) error {
	keys := append([]string(nil), SettingKeys...)
	sort.Strings(keys)
	return errors.NewUserErrorWithField("key", key, "unknown setting",
		fmt.Sprintf("Valid keys: %s", strings.Join(keys, ", ")))
}
