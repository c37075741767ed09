// Package command defines reversible units of work on stage elements.
//
// A Command captures, at construction time, everything it needs to apply and
// reverse one edit. Commands mutate elements only through a Store and never
// own it. Execute must be re-appliable: running it on an already applied
// command writes the same final state again.
package command

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/keyframe-studio/keyframe/internal/errors"
	"github.com/keyframe-studio/keyframe/internal/model"
)

// Store is the element-store capability set commands depend on.
// Missing elements are reported with errors.ErrElementNotFound.
type Store interface {
	Add(el *model.Element) error
	Remove(id string) (*model.Element, error)
	Get(id string) (*model.Element, error)
	Update(el *model.Element) error
}

// Command is a reversible unit of work. A nil error means success; a failed
// Execute or Undo leaves Executed unchanged.
type Command interface {
	Info() *Meta
	Execute() error
	Undo() error
}

// Merger is implemented by commands that can coalesce with a later command.
// Commands that do not implement it never merge.
type Merger interface {
	CanMergeWith(other Command) bool
	// MergeWith returns a new command holding the receiver's prior state and
	// other's final state.
	MergeWith(other Command) Command
}

// Targeter is implemented by commands that touch more than one element.
type Targeter interface {
	Targets() []string
}

// Meta is the metadata shared by every command. Optional fields are empty
// when a variant does not carry them.
type Meta struct {
	ID          string
	Description string
	Timestamp   time.Time
	Executed    bool

	ElementID      string
	CheckpointID   string
	CheckpointName string
}

// Info returns the command metadata.
func (m *Meta) Info() *Meta {
	return m
}

func (m *Meta) String() string {
	return m.Description
}

func newMeta(description, elementID string) Meta {
	return Meta{
		ID:          NewID(),
		Description: description,
		Timestamp:   time.Now().UTC(),
		ElementID:   elementID,
	}
}

// NewID returns a time-ordered unique identifier.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Safe runs op and converts a panic into an error wrapping
// errors.ErrCommandPanicked.
func Safe(op func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", errors.ErrCommandPanicked, r)
		}
	}()
	return op()
}
