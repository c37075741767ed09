// Package history owns the undo and redo stacks for stage edits.
//
// A Manager runs commands, decides when a new command coalesces with the
// previous one, caps history length, and provides checkpoint and selective
// undo on top of the plain stack operations. It never touches element storage
// directly; commands do that through their command.Store.
package history

import (
	"log/slog"
	"sync"
	"time"

	"github.com/keyframe-studio/keyframe/internal/command"
	"github.com/keyframe-studio/keyframe/internal/errors"
	"github.com/keyframe-studio/keyframe/internal/logging"
	"github.com/keyframe-studio/keyframe/internal/model"
)

// Defaults for Options.
const (
	DefaultMaxHistory   = 100
	DefaultAutoMerge    = true
	DefaultMergeTimeout = 2 * time.Second
)

// Options configures a Manager.
type Options struct {
	// MaxHistory caps the undo stack. Values below 1 use DefaultMaxHistory.
	MaxHistory int
	// AutoMerge enables coalescing of consecutive mergeable commands.
	AutoMerge bool
	// MergeTimeout is the largest timestamp gap that still allows a merge.
	MergeTimeout time.Duration

	Logger  *slog.Logger
	Metrics *Metrics
}

// DefaultOptions returns the default configuration.
func DefaultOptions() Options {
	return Options{
		MaxHistory:   DefaultMaxHistory,
		AutoMerge:    DefaultAutoMerge,
		MergeTimeout: DefaultMergeTimeout,
	}
}

// Stats summarizes the manager state.
type Stats struct {
	UndoCount       int           `json:"undo_count"`
	RedoCount       int           `json:"redo_count"`
	TotalOperations int           `json:"total_operations"`
	MaxHistory      int           `json:"max_history"`
	AutoMerge       bool          `json:"auto_merge"`
	MergeTimeout    time.Duration `json:"merge_timeout"`
}

// Entry is one line of history as shown to users.
type Entry struct {
	ID             string            `json:"id"`
	Kind           model.CommandKind `json:"kind"`
	Description    string            `json:"description"`
	Timestamp      time.Time         `json:"timestamp"`
	Executed       bool              `json:"executed"`
	ElementID      string            `json:"element_id,omitempty"`
	CheckpointID   string            `json:"checkpoint_id,omitempty"`
	CheckpointName string            `json:"checkpoint_name,omitempty"`
	// Current marks the newest executed entry.
	Current bool `json:"current,omitempty"`
}

// Marker returns the display marker for the entry.
func (e Entry) Marker() string {
	if e.Executed {
		return "✓"
	}
	return "○"
}

func (e Entry) String() string {
	return e.Marker() + " " + e.Description
}

// Manager owns the undo and redo stacks. All methods are safe for concurrent
// use; each one runs as a single critical section.
type Manager struct {
	mu   sync.Mutex
	opts Options
	log  *slog.Logger

	// undo is oldest first. redo has the next command to redo last.
	undo []command.Command
	redo []command.Command
}

// New creates an empty manager.
func New(opts Options) *Manager {
	m := &Manager{}
	m.setOptions(opts)
	m.log = opts.Logger
	if m.log == nil {
		m.log = logging.Component("history")
	}
	return m
}

// Options returns the current configuration.
func (m *Manager) Options() Options {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.opts
}

// SetOptions changes MaxHistory, AutoMerge and MergeTimeout. Lowering
// MaxHistory evicts the oldest entries immediately.
func (m *Manager) SetOptions(opts Options) {
	m.mu.Lock()
	defer m.mu.Unlock()

	opts.Logger = m.opts.Logger
	opts.Metrics = m.opts.Metrics
	m.setOptions(opts)
	m.enforceCap()
	m.updateDepth()
}

func (m *Manager) setOptions(opts Options) {
	if opts.MaxHistory < 1 {
		opts.MaxHistory = DefaultMaxHistory
	}
	if opts.MergeTimeout < 0 {
		opts.MergeTimeout = 0
	}
	m.opts = opts
}

// =============================================================================
// Execute / Undo / Redo
// =============================================================================

// Execute runs cmd and records it. When auto-merge applies, the previous
// entry is replaced by the merged command instead. On failure neither stack
// changes.
func (m *Manager) Execute(cmd command.Command) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	err := m.execute(cmd)
	m.opts.Metrics.observe(OpExecute, err)
	return err
}

func (m *Manager) execute(cmd command.Command) error {
	info := cmd.Info()
	log := m.log.With(logging.KeyOperation, OpExecute, logging.KeyCommandID, info.ID)

	if merged, ok := m.mergeCandidate(cmd); ok {
		if err := command.Safe(merged.Execute); err != nil {
			log.Warn("merged command failed", logging.KeyError, err)
			return err
		}
		m.undo[len(m.undo)-1] = merged
		m.opts.Metrics.merged()
		m.updateDepth()
		log.Debug("merged into previous command", logging.KeyDescription, merged.Info().Description)
		return nil
	}

	if err := command.Safe(cmd.Execute); err != nil {
		log.Warn("command failed", logging.KeyDescription, info.Description, logging.KeyError, err)
		return err
	}

	m.redo = nil
	m.undo = append(m.undo, cmd)
	m.enforceCap()
	m.updateDepth()
	log.Debug("command executed", logging.KeyDescription, info.Description)
	return nil
}

// mergeCandidate returns the command that would replace the top of the undo
// stack if cmd were merged into it.
func (m *Manager) mergeCandidate(cmd command.Command) (command.Command, bool) {
	if !m.opts.AutoMerge || len(m.undo) == 0 {
		return nil, false
	}
	last := m.undo[len(m.undo)-1]
	if cmd.Info().Timestamp.Sub(last.Info().Timestamp) > m.opts.MergeTimeout {
		return nil, false
	}
	merger, ok := last.(command.Merger)
	if !ok || !merger.CanMergeWith(cmd) {
		return nil, false
	}
	merged := merger.MergeWith(cmd)
	if merged == nil {
		return nil, false
	}
	return merged, true
}

// enforceCap drops the oldest entries without undoing them.
func (m *Manager) enforceCap() {
	over := len(m.undo) - m.opts.MaxHistory
	if over <= 0 {
		return
	}
	for i := 0; i < over; i++ {
		m.undo[i] = nil
	}
	m.undo = append(m.undo[:0], m.undo[over:]...)
	m.opts.Metrics.evicted(over)
	m.log.Debug("history cap reached", logging.KeyCount, over)
}

// Undo reverses the most recent command and moves it to the redo stack.
// If the command's Undo fails it stays on the undo stack.
func (m *Manager) Undo() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	err := m.undoOne()
	m.opts.Metrics.observe(OpUndo, err)
	return err
}

func (m *Manager) undoOne() error {
	if len(m.undo) == 0 {
		return errors.ErrNothingToUndo
	}
	top := len(m.undo) - 1
	cmd := m.undo[top]
	m.undo = m.undo[:top]

	if err := command.Safe(cmd.Undo); err != nil {
		m.undo = append(m.undo, cmd)
		m.log.Warn("undo failed",
			logging.KeyCommandID, cmd.Info().ID,
			logging.KeyDescription, cmd.Info().Description,
			logging.KeyError, err)
		return errors.Wrapf(err, "undo %q", cmd.Info().Description)
	}

	m.redo = append(m.redo, cmd)
	m.updateDepth()
	return nil
}

// Redo re-executes the most recently undone command.
// If the command's Execute fails it stays on the redo stack.
func (m *Manager) Redo() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	err := m.redoOne()
	m.opts.Metrics.observe(OpRedo, err)
	return err
}

func (m *Manager) redoOne() error {
	if len(m.redo) == 0 {
		return errors.ErrNothingToRedo
	}
	top := len(m.redo) - 1
	cmd := m.redo[top]
	m.redo = m.redo[:top]

	if err := command.Safe(cmd.Execute); err != nil {
		m.redo = append(m.redo, cmd)
		m.log.Warn("redo failed",
			logging.KeyCommandID, cmd.Info().ID,
			logging.KeyDescription, cmd.Info().Description,
			logging.KeyError, err)
		return errors.Wrapf(err, "redo %q", cmd.Info().Description)
	}

	m.undo = append(m.undo, cmd)
	m.enforceCap()
	m.updateDepth()
	return nil
}

// UndoN undoes up to n commands, stopping at the first failure, and returns
// how many succeeded.
func (m *Manager) UndoN(n int) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.undoN(n)
}

func (m *Manager) undoN(n int) int {
	done := 0
	for done < n {
		err := m.undoOne()
		m.opts.Metrics.observe(OpUndo, err)
		if err != nil {
			break
		}
		done++
	}
	return done
}

// RedoN redoes up to n commands, stopping at the first failure, and returns
// how many succeeded.
func (m *Manager) RedoN(n int) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	done := 0
	for done < n {
		err := m.redoOne()
		m.opts.Metrics.observe(OpRedo, err)
		if err != nil {
			break
		}
		done++
	}
	return done
}

// =============================================================================
// Checkpoints and selective undo
// =============================================================================

// CreateCheckpoint records a named marker and returns its checkpoint ID.
func (m *Manager) CreateCheckpoint(name string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := command.NewCheckpoint(name)
	err := m.execute(cp)
	m.opts.Metrics.observe(OpCheckpoint, err)
	if err != nil {
		return "", err
	}
	m.log.Debug("checkpoint created",
		logging.KeyCheckpointID, cp.CheckpointID,
		logging.KeyDescription, cp.Description)
	return cp.CheckpointID, nil
}

// UndoToCheckpoint undoes every command recorded after the checkpoint, which
// stays on the undo stack. It fails with errors.ErrCheckpointNotFound when
// the checkpoint is not in history, for example after eviction.
func (m *Manager) UndoToCheckpoint(checkpointID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	err := m.undoToCheckpoint(checkpointID)
	m.opts.Metrics.observe(OpUndoToCheckpoint, err)
	return err
}

func (m *Manager) undoToCheckpoint(checkpointID string) error {
	idx := m.findCheckpoint(checkpointID)
	if idx < 0 {
		return errors.Wrapf(errors.ErrCheckpointNotFound, "checkpoint %q", checkpointID)
	}

	steps := len(m.undo) - idx - 1
	done := m.undoN(steps)
	if done != steps {
		return errors.Wrapf(errors.ErrPartialUndo, "checkpoint %q: undid %d of %d steps", checkpointID, done, steps)
	}

	m.log.Debug("returned to checkpoint",
		logging.KeyCheckpointID, checkpointID,
		logging.KeyCount, done)
	return nil
}

// findCheckpoint returns the index of the checkpoint in the undo stack,
// matching by checkpoint ID first and then by name, or -1.
func (m *Manager) findCheckpoint(ref string) int {
	if ref == "" {
		return -1
	}
	for i, cmd := range m.undo {
		if cmd.Info().CheckpointID == ref {
			return i
		}
	}
	for i := len(m.undo) - 1; i >= 0; i-- {
		if m.undo[i].Info().CheckpointName == ref {
			return i
		}
	}
	return -1
}

// SelectiveUndo undoes one command out of order and drops it from history.
// It refuses with errors.ErrDependencyConflict when a later command touches
// the same elements. A selectively undone command cannot be redone.
func (m *Manager) SelectiveUndo(commandID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	err := m.selectiveUndo(commandID)
	m.opts.Metrics.observe(OpSelectiveUndo, err)
	return err
}

func (m *Manager) selectiveUndo(commandID string) error {
	idx := m.findCommand(commandID)
	if idx < 0 {
		return errors.Wrapf(errors.ErrCommandNotFound, "command %q", commandID)
	}

	cmd := m.undo[idx]
	if deps := Dependents(m.undo, idx); len(deps) > 0 {
		return errors.Wrapf(errors.ErrDependencyConflict, "%q is needed by %q", cmd.Info().Description, deps[0].Info().Description)
	}

	if err := command.Safe(cmd.Undo); err != nil {
		m.log.Warn("selective undo failed",
			logging.KeyCommandID, commandID,
			logging.KeyError, err)
		return errors.Wrapf(err, "undo %q", cmd.Info().Description)
	}

	m.undo = append(m.undo[:idx], m.undo[idx+1:]...)
	m.updateDepth()
	return nil
}

// Dependencies returns the IDs of the other commands in the undo stack that
// touch the same elements as the named command.
func (m *Manager) Dependencies(commandID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.findCommand(commandID)
	if idx < 0 {
		return nil, errors.Wrapf(errors.ErrCommandNotFound, "command %q", commandID)
	}

	ids := []string{}
	for _, cmd := range related(m.undo, idx) {
		ids = append(ids, cmd.Info().ID)
	}
	return ids, nil
}

// findCommand returns the undo stack index of the command with id, or -1.
// A unique ID prefix of at least four characters also matches.
func (m *Manager) findCommand(id string) int {
	if id == "" {
		return -1
	}
	match := -1
	for i, cmd := range m.undo {
		cid := cmd.Info().ID
		if cid == id {
			return i
		}
		if len(id) >= 4 && len(cid) > len(id) && cid[:len(id)] == id {
			if match >= 0 {
				return -1
			}
			match = i
		}
	}
	return match
}

// =============================================================================
// Queries
// =============================================================================

// CanUndo reports whether the undo stack is non-empty.
func (m *Manager) CanUndo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.undo) > 0
}

// CanRedo reports whether the redo stack is non-empty.
func (m *Manager) CanRedo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.redo) > 0
}

// UndoDescription returns the description of the command Undo would reverse.
func (m *Manager) UndoDescription() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.undo) == 0 {
		return "", false
	}
	return m.undo[len(m.undo)-1].Info().Description, true
}

// RedoDescription returns the description of the command Redo would apply.
func (m *Manager) RedoDescription() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.redo) == 0 {
		return "", false
	}
	return m.redo[len(m.redo)-1].Info().Description, true
}

// Entries returns the timeline oldest first: the undo stack followed by the
// redo stack in the order Redo would replay it.
func (m *Manager) Entries() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries := make([]Entry, 0, len(m.undo)+len(m.redo))
	for i, cmd := range m.undo {
		e := newEntry(cmd)
		e.Current = i == len(m.undo)-1
		entries = append(entries, e)
	}
	for i := len(m.redo) - 1; i >= 0; i-- {
		entries = append(entries, newEntry(m.redo[i]))
	}
	return entries
}

// History returns the timeline as display strings. Executed entries are
// marked ✓ and entries waiting on redo ○.
func (m *Manager) History() []string {
	entries := m.Entries()
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = e.String()
	}
	return lines
}

// Checkpoints returns the checkpoint entries still on the undo stack.
func (m *Manager) Checkpoints() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []Entry
	for _, cmd := range m.undo {
		if cmd.Info().CheckpointID != "" {
			out = append(out, newEntry(cmd))
		}
	}
	return out
}

// Stats returns stack sizes and configuration.
func (m *Manager) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	return Stats{
		UndoCount:       len(m.undo),
		RedoCount:       len(m.redo),
		TotalOperations: len(m.undo) + len(m.redo),
		MaxHistory:      m.opts.MaxHistory,
		AutoMerge:       m.opts.AutoMerge,
		MergeTimeout:    m.opts.MergeTimeout,
	}
}

// Clear drops both stacks without undoing anything.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.undo = nil
	m.redo = nil
	m.updateDepth()
}

func newEntry(cmd command.Command) Entry {
	info := cmd.Info()
	return Entry{
		ID:             info.ID,
		Kind:           command.KindOf(cmd),
		Description:    info.Description,
		Timestamp:      info.Timestamp,
		Executed:       info.Executed,
		ElementID:      info.ElementID,
		CheckpointID:   info.CheckpointID,
		CheckpointName: info.CheckpointName,
	}
}

func (m *Manager) updateDepth() {
	m.opts.Metrics.depth(len(m.undo), len(m.redo))
}

// =============================================================================
// Persistence
// =============================================================================

// Snapshot encodes both stacks for storage.
func (m *Manager) Snapshot() (*model.HistoryState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	undo, err := command.EncodeAll(m.undo)
	if err != nil {
		return nil, errors.Wrap(err, "snapshot undo stack")
	}
	redo, err := command.EncodeAll(m.redo)
	if err != nil {
		return nil, errors.Wrap(err, "snapshot redo stack")
	}
	return model.NewHistoryState(undo, redo), nil
}

// Restore replaces both stacks with the decoded contents of state, binding
// every command to store. Nothing changes if any record fails to decode.
func (m *Manager) Restore(store command.Store, state *model.HistoryState) error {
	if state == nil {
		return nil
	}

	undo, err := command.DecodeAll(store, state.Undo)
	if err != nil {
		return errors.Wrap(err, "restore undo stack")
	}
	redo, err := command.DecodeAll(store, state.Redo)
	if err != nil {
		return errors.Wrap(err, "restore redo stack")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.undo = undo
	m.redo = redo
	m.enforceCap()
	m.updateDepth()
	m.log.Debug("history restored",
		logging.KeyUndoDepth, len(m.undo),
		logging.KeyRedoDepth, len(m.redo))
	return nil
}
