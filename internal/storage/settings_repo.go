package storage

import (
	"github.com/keyframe-studio/keyframe/internal/model"
)

// SettingsRepo provides operations for the Settings singleton.
type SettingsRepo struct {
	db *DB
}

// NewSettingsRepo creates a new settings repository.
func NewSettingsRepo(db *DB) *SettingsRepo {
	return &SettingsRepo{db: db}
}

// Get retrieves the settings, returning empty settings if none are stored.
// Empty settings are not persisted until Save is called.
func (r *SettingsRepo) Get() (*model.Settings, error) {
	settings := &model.Settings{}
	err := r.db.Get(model.KeySettings, settings)
	if err == nil {
		return settings, nil
	}
	if !IsErrKeyNotFound(err) {
		return nil, err
	}
	return model.NewSettings(), nil
}

// Save stores the settings.
func (r *SettingsRepo) Save(settings *model.Settings) error {
	settings.Key = model.KeySettings
	return r.db.Set(settings)
}
