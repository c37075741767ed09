package command

import (
	"fmt"

	"github.com/keyframe-studio/keyframe/internal/errors"
	"github.com/keyframe-studio/keyframe/internal/model"
)

// ReorderLayer moves an element to another layer index.
type ReorderLayer struct {
	Meta
	store    Store
	OldIndex int
	NewIndex int
}

// NewReorderLayer creates a layer change from oldIndex to newIndex.
func NewReorderLayer(store Store, id string, oldIndex, newIndex int) *ReorderLayer {
	return &ReorderLayer{
		Meta:     newMeta(fmt.Sprintf("Move %s to layer %d", id, newIndex), id),
		store:    store,
		OldIndex: oldIndex,
		NewIndex: newIndex,
	}
}

func (c *ReorderLayer) Execute() error {
	if err := c.setLayer(c.NewIndex); err != nil {
		return err
	}
	c.Executed = true
	return nil
}

func (c *ReorderLayer) Undo() error {
	if err := c.setLayer(c.OldIndex); err != nil {
		return errors.Wrap(err, "undo")
	}
	c.Executed = false
	return nil
}

func (c *ReorderLayer) setLayer(index int) error {
	return update(c.store, c.ElementID, func(el *model.Element) error {
		el.Layer = index
		return nil
	})
}
