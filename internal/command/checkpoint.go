package command

import "fmt"

// Checkpoint is a named marker in history. Execute and Undo only flip Executed.
type Checkpoint struct {
	Meta
}

// NewCheckpoint creates a checkpoint with a fresh checkpoint ID.
func NewCheckpoint(name string) *Checkpoint {
	meta := newMeta(fmt.Sprintf("Checkpoint: %s", name), "")
	meta.CheckpointID = NewID()
	meta.CheckpointName = name
	return &Checkpoint{Meta: meta}
}

func (c *Checkpoint) Execute() error {
	c.Executed = true
	return nil
}

func (c *Checkpoint) Undo() error {
	c.Executed = false
	return nil
}
