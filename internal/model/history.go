package model

import (
	"encoding/json"
	"time"
)

// CommandKind identifies a command variant in the history journal.
type CommandKind string

const (
	KindAddElement    CommandKind = "add_element"
	KindRemoveElement CommandKind = "remove_element"
	KindModifyElement CommandKind = "modify_element"
	KindMoveElement   CommandKind = "move_element"
	KindReorderLayer  CommandKind = "reorder_layer"
	KindApplySolution CommandKind = "apply_solution"
	KindGroup         CommandKind = "group"
	KindCheckpoint    CommandKind = "checkpoint"
)

// CommandRecord is the persisted form of one command.
type CommandRecord struct {
	Kind           CommandKind     `json:"kind"`
	ID             string          `json:"id"`
	Description    string          `json:"description"`
	Timestamp      time.Time       `json:"timestamp"`
	Executed       bool            `json:"executed"`
	ElementID      string          `json:"element_id,omitempty"`
	CheckpointID   string          `json:"checkpoint_id,omitempty"`
	CheckpointName string          `json:"checkpoint_name,omitempty"`
	Payload        json.RawMessage `json:"payload,omitempty"`
	Children       []CommandRecord `json:"children,omitempty"`
}

// HistoryState stores both stacks of the history manager between sessions.
// Undo is oldest first; Redo has the most recently undone command last.
type HistoryState struct {
	Key     string          `json:"key"`
	Undo    []CommandRecord `json:"undo"`
	Redo    []CommandRecord `json:"redo"`
	SavedAt time.Time       `json:"saved_at"`
}

// SetKey sets the database key for this history state.
func (h *HistoryState) SetKey(key string) {
	h.Key = key
}

// GetKey returns the database key for this history state.
func (h *HistoryState) GetKey() string {
	return h.Key
}

// NewHistoryState creates a history state for the given stacks.
func NewHistoryState(undo, redo []CommandRecord) *HistoryState {
	return &HistoryState{
		Key:     KeyHistory,
		Undo:    undo,
		Redo:    redo,
		SavedAt: time.Now().UTC(),
	}
}
