package output

import (
	"time"

	"github.com/keyframe-studio/keyframe/internal/errors"
	"github.com/keyframe-studio/keyframe/internal/history"
	"github.com/keyframe-studio/keyframe/internal/model"
)

// JSONFormatter provides JSON-specific formatting.
type JSONFormatter struct {
	*Formatter
}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter(f *Formatter) *JSONFormatter {
	return &JSONFormatter{Formatter: f}
}

// ElementOutput represents an element in JSON output.
type ElementOutput struct {
	ID         string         `json:"id"`
	Name       string         `json:"name,omitempty"`
	Kind       string         `json:"kind,omitempty"`
	X          float64        `json:"x"`
	Y          float64        `json:"y"`
	Layer      int            `json:"layer"`
	Solution   string         `json:"solution,omitempty"`
	Properties map[string]any `json:"properties,omitempty"`
	CreatedAt  string         `json:"created_at"`
}

// NewElementOutput creates an ElementOutput from an Element.
func NewElementOutput(el *model.Element) *ElementOutput {
	return &ElementOutput{
		ID:         el.ID,
		Name:       el.Name,
		Kind:       el.Kind,
		X:          el.Position.X,
		Y:          el.Position.Y,
		Layer:      el.Layer,
		Solution:   el.Solution,
		Properties: el.Properties,
		CreatedAt:  el.CreatedAt.Format(time.RFC3339),
	}
}

// ElementsResponse represents the element list output in JSON.
type ElementsResponse struct {
	Elements []*ElementOutput `json:"elements"`
	Count    int              `json:"count"`
}

// NewElementsResponse creates an ElementsResponse from elements.
func NewElementsResponse(els []*model.Element) *ElementsResponse {
	outputs := make([]*ElementOutput, len(els))
	for i, el := range els {
		outputs[i] = NewElementOutput(el)
	}
	return &ElementsResponse{Elements: outputs, Count: len(els)}
}

// HistoryResponse represents the history timeline in JSON.
type HistoryResponse struct {
	Entries   []history.Entry `json:"entries"`
	UndoCount int             `json:"undo_count"`
	RedoCount int             `json:"redo_count"`
}

// NewHistoryResponse creates a HistoryResponse. Entries is never null.
func NewHistoryResponse(entries []history.Entry, stats history.Stats) *HistoryResponse {
	if entries == nil {
		entries = []history.Entry{}
	}
	return &HistoryResponse{Entries: entries, UndoCount: stats.UndoCount, RedoCount: stats.RedoCount}
}

// ActionResponse reports the result of a history-changing command.
type ActionResponse struct {
	Status    string   `json:"status"`
	Action    string   `json:"action"`
	Commands  []string `json:"commands"`
	UndoCount int      `json:"undo_count"`
	RedoCount int      `json:"redo_count"`
}

// NewActionResponse creates an ActionResponse.
func NewActionResponse(action string, descriptions []string, stats history.Stats) *ActionResponse {
	if descriptions == nil {
		descriptions = []string{}
	}
	return &ActionResponse{
		Status:    "ok",
		Action:    action,
		Commands:  descriptions,
		UndoCount: stats.UndoCount,
		RedoCount: stats.RedoCount,
	}
}

// CheckpointResponse represents a created checkpoint in JSON.
type CheckpointResponse struct {
	Status       string `json:"status"`
	CheckpointID string `json:"checkpoint_id"`
	Name         string `json:"name"`
}

// DependenciesResponse lists the commands related to one command.
type DependenciesResponse struct {
	Command      history.Entry   `json:"command"`
	Dependencies []history.Entry `json:"dependencies"`
}

// StatsResponse represents history statistics in JSON.
type StatsResponse struct {
	UndoCount           int     `json:"undo_count"`
	RedoCount           int     `json:"redo_count"`
	TotalOperations     int     `json:"total_operations"`
	MaxHistory          int     `json:"max_history"`
	AutoMerge           bool    `json:"auto_merge"`
	MergeTimeoutSeconds float64 `json:"merge_timeout_seconds"`
}

// NewStatsResponse creates a StatsResponse from Stats.
func NewStatsResponse(s history.Stats) *StatsResponse {
	return &StatsResponse{
		UndoCount:           s.UndoCount,
		RedoCount:           s.RedoCount,
		TotalOperations:     s.TotalOperations,
		MaxHistory:          s.MaxHistory,
		AutoMerge:           s.AutoMerge,
		MergeTimeoutSeconds: s.MergeTimeout.Seconds(),
	}
}

// ErrorResponse represents an error in JSON.
type ErrorResponse struct {
	Status     string `json:"status"`
	Error      string `json:"error"`
	Category   string `json:"category"`
	Suggestion string `json:"suggestion,omitempty"`
}

// NewErrorResponse creates an ErrorResponse from an error.
func NewErrorResponse(err error) *ErrorResponse {
	return &ErrorResponse{
		Status:     "error",
		Error:      err.Error(),
		Category:   errors.Classify(err).String(),
		Suggestion: errors.GetSuggestion(err),
	}
}

// PrintElement prints a single element.
func (j *JSONFormatter) PrintElement(el *model.Element) error {
	return j.JSON(NewElementOutput(el))
}

// PrintElements prints the element list.
func (j *JSONFormatter) PrintElements(els []*model.Element) error {
	return j.JSON(NewElementsResponse(els))
}

// PrintHistory prints the history timeline.
func (j *JSONFormatter) PrintHistory(entries []history.Entry, stats history.Stats) error {
	return j.JSON(NewHistoryResponse(entries, stats))
}

// PrintAction prints the result of an undo, redo or execute.
func (j *JSONFormatter) PrintAction(action string, descriptions []string, stats history.Stats) error {
	return j.JSON(NewActionResponse(action, descriptions, stats))
}

// PrintStats prints history statistics.
func (j *JSONFormatter) PrintStats(s history.Stats) error {
	return j.JSON(NewStatsResponse(s))
}

// PrintError prints an error.
func (j *JSONFormatter) PrintError(err error) error {
	return j.JSON(NewErrorResponse(err))
}
