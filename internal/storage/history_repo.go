package storage

import (
	"github.com/keyframe-studio/keyframe/internal/model"
)

// HistoryRepo stores the undo/redo journal between sessions.
type HistoryRepo struct {
	db *DB
}

// NewHistoryRepo creates a new history repository.
func NewHistoryRepo(db *DB) *HistoryRepo {
	return &HistoryRepo{db: db}
}

// Get retrieves the saved history, or nil if none has been saved.
func (r *HistoryRepo) Get() (*model.HistoryState, error) {
	state := &model.HistoryState{}
	if err := r.db.Get(model.KeyHistory, state); err != nil {
		if IsErrKeyNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return state, nil
}

// Save stores the history state.
func (r *HistoryRepo) Save(state *model.HistoryState) error {
	state.Key = model.KeyHistory
	return r.db.Set(state)
}

// Clear removes the saved history.
func (r *HistoryRepo) Clear() error {
	return r.db.Delete(model.KeyHistory)
}
