package command

import (
	"fmt"

	"github.com/keyframe-studio/keyframe/internal/errors"
	"github.com/keyframe-studio/keyframe/internal/model"
)

// ModifyElement changes one property of an element.
type ModifyElement struct {
	Meta
	store    Store
	Property string
	OldValue any
	NewValue any
}

// NewModifyElement creates a property change. oldValue must be read by the
// caller before the change is applied.
func NewModifyElement(store Store, id, property string, oldValue, newValue any) *ModifyElement {
	return &ModifyElement{
		Meta:     newMeta(fmt.Sprintf("Change %s.%s", id, property), id),
		store:    store,
		Property: property,
		OldValue: model.NormalizeValue(oldValue),
		NewValue: model.NormalizeValue(newValue),
	}
}

func (c *ModifyElement) Execute() error {
	if err := c.set(c.NewValue); err != nil {
		return err
	}
	c.Executed = true
	return nil
}

func (c *ModifyElement) Undo() error {
	if err := c.set(c.OldValue); err != nil {
		return errors.Wrap(err, "undo")
	}
	c.Executed = false
	return nil
}

func (c *ModifyElement) set(value any) error {
	return update(c.store, c.ElementID, func(el *model.Element) error {
		return el.SetProperty(c.Property, value)
	})
}

// CanMergeWith reports whether other changes the same property of the same element.
func (c *ModifyElement) CanMergeWith(other Command) bool {
	o, ok := other.(*ModifyElement)
	return ok && o.ElementID == c.ElementID && o.Property == c.Property
}

func (c *ModifyElement) MergeWith(other Command) Command {
	if !c.CanMergeWith(other) {
		return c
	}
	o := other.(*ModifyElement)
	merged := NewModifyElement(c.store, c.ElementID, c.Property, c.OldValue, o.NewValue)
	merged.Timestamp = o.Timestamp
	return merged
}

// MoveElement changes an element's position.
type MoveElement struct {
	Meta
	store Store
	From  model.Position
	To    model.Position
}

// NewMoveElement creates a move from one position to another.
func NewMoveElement(store Store, id string, from, to model.Position) *MoveElement {
	return &MoveElement{
		Meta:  newMeta(fmt.Sprintf("Move %s to %s", id, to), id),
		store: store,
		From:  from,
		To:    to,
	}
}

func (c *MoveElement) Execute() error {
	if err := c.moveTo(c.To); err != nil {
		return err
	}
	c.Executed = true
	return nil
}

func (c *MoveElement) Undo() error {
	if err := c.moveTo(c.From); err != nil {
		return errors.Wrap(err, "undo")
	}
	c.Executed = false
	return nil
}

func (c *MoveElement) moveTo(pos model.Position) error {
	return update(c.store, c.ElementID, func(el *model.Element) error {
		el.Position = pos
		return nil
	})
}

// CanMergeWith reports whether other moves the same element.
func (c *MoveElement) CanMergeWith(other Command) bool {
	o, ok := other.(*MoveElement)
	return ok && o.ElementID == c.ElementID
}

func (c *MoveElement) MergeWith(other Command) Command {
	if !c.CanMergeWith(other) {
		return c
	}
	o := other.(*MoveElement)
	merged := NewMoveElement(c.store, c.ElementID, c.From, o.To)
	merged.Timestamp = o.Timestamp
	return merged
}

// update loads an element, applies fn and writes it back. Nothing is written
// if fn fails.
func update(store Store, id string, fn func(el *model.Element) error) error {
	el, err := store.Get(id)
	if err != nil {
		return errors.Wrapf(err, "update %s", id)
	}
	if el == nil {
		return errors.Wrapf(errors.ErrElementNotFound, "update %s", id)
	}
	if err := fn(el); err != nil {
		return errors.Wrapf(err, "update %s", id)
	}
	if err := store.Update(el); err != nil {
		return errors.Wrapf(err, "update %s", id)
	}
	return nil
}
