package command

import (
	"fmt"

	"github.com/keyframe-studio/keyframe/internal/errors"
	"github.com/keyframe-studio/keyframe/internal/model"
)

// AddElement places an element on the stage.
type AddElement struct {
	Meta
	store   Store
	element *model.Element
}

// NewAddElement creates a command that adds el. The element is copied.
func NewAddElement(store Store, el *model.Element) *AddElement {
	return &AddElement{
		Meta:    newMeta(fmt.Sprintf("Add element %s", el.ID), el.ID),
		store:   store,
		element: el.Clone(),
	}
}

// Element returns a copy of the element this command adds.
func (c *AddElement) Element() *model.Element {
	return c.element.Clone()
}

func (c *AddElement) Execute() error {
	if err := c.store.Add(c.element.Clone()); err != nil {
		return errors.Wrapf(err, "add %s", c.ElementID)
	}
	c.Executed = true
	return nil
}

func (c *AddElement) Undo() error {
	if _, err := c.store.Remove(c.ElementID); err != nil {
		return errors.Wrapf(err, "undo add %s", c.ElementID)
	}
	c.Executed = false
	return nil
}

// RemoveElement takes an element off the stage, keeping a copy for undo.
type RemoveElement struct {
	Meta
	store   Store
	removed *model.Element
}

// NewRemoveElement creates a command that removes the element with id.
func NewRemoveElement(store Store, id string) *RemoveElement {
	return &RemoveElement{
		Meta:  newMeta(fmt.Sprintf("Remove element %s", id), id),
		store: store,
	}
}

// Removed returns a copy of the element captured by the last Execute.
func (c *RemoveElement) Removed() *model.Element {
	return c.removed.Clone()
}

func (c *RemoveElement) Execute() error {
	el, err := c.store.Remove(c.ElementID)
	if err != nil {
		return errors.Wrapf(err, "remove %s", c.ElementID)
	}
	if el == nil {
		return errors.Wrapf(errors.ErrElementNotFound, "remove %s", c.ElementID)
	}
	c.removed = el.Clone()
	c.Executed = true
	return nil
}

func (c *RemoveElement) Undo() error {
	if c.removed == nil {
		return errors.Wrapf(errors.ErrElementNotFound, "undo remove %s: nothing captured", c.ElementID)
	}
	if err := c.store.Add(c.removed.Clone()); err != nil {
		return errors.Wrapf(err, "undo remove %s", c.ElementID)
	}
	c.Executed = false
	return nil
}
