package command

import (
	"fmt"

	"github.com/keyframe-studio/keyframe/internal/errors"
	"github.com/keyframe-studio/keyframe/internal/model"
)

// ApplySolution applies a named configuration to an element.
type ApplySolution struct {
	Meta
	store    Store
	Solution model.Solution
	Previous model.Solution
}

// NewApplySolution creates a command applying solution to the element with
// id. previous is the configuration solution replaces; callers usually build
// it with model.CaptureSolution.
func NewApplySolution(store Store, id string, solution, previous model.Solution) *ApplySolution {
	return &ApplySolution{
		Meta:     newMeta(fmt.Sprintf("Apply %s to %s", solution.Name, id), id),
		store:    store,
		Solution: solution,
		Previous: previous,
	}
}

func (c *ApplySolution) Execute() error {
	if err := update(c.store, c.ElementID, c.Solution.ApplyTo); err != nil {
		return err
	}
	c.Executed = true
	return nil
}

func (c *ApplySolution) Undo() error {
	if err := update(c.store, c.ElementID, c.Previous.ApplyTo); err != nil {
		return errors.Wrap(err, "undo")
	}
	c.Executed = false
	return nil
}
