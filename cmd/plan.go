package cmd

import (
	"github.com/keyframe-studio/keyframe/internal/command"
	"github.com/keyframe-studio/keyframe/internal/errors"
	"github.com/keyframe-studio/keyframe/internal/model"
	"github.com/keyframe-studio/keyframe/internal/validate"
)

// planner builds commands against the stage as it will look once the
// commands already planned have run. A batch can therefore edit an element
// it adds earlier in the same file.
type planner struct {
	store command.Store
	// staged holds planned element state. A nil entry marks a removal.
	staged map[string]*model.Element
}

func newPlanner(store command.Store) *planner {
	return &planner{store: store, staged: make(map[string]*model.Element)}
}

func (p *planner) lookup(id string) (*model.Element, error) {
	if el, ok := p.staged[id]; ok {
		if el == nil {
			return nil, errors.Wrapf(errors.ErrElementNotFound, "element %q", id)
		}
		return el, nil
	}
	el, err := p.store.Get(id)
	if err != nil {
		return nil, err
	}
	p.staged[id] = el.Clone()
	return p.staged[id], nil
}

func (p *planner) exists(id string) (bool, error) {
	_, err := p.lookup(id)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, errors.ErrElementNotFound):
		return false, nil
	default:
		return false, err
	}
}

// Add plans adding a new element.
func (p *planner) Add(id, name, kind string, pos model.Position, layer int) (command.Command, error) {
	return p.AddElement(model.NewElement(id, validate.SanitizeName(name), kind, pos, layer))
}

// AddElement plans adding el as given, including its solution and custom
// properties.
func (p *planner) AddElement(el *model.Element) (command.Command, error) {
	if err := validate.ElementID(el.ID); err != nil {
		return nil, err
	}
	if err := validate.ElementName(el.Name); err != nil {
		return nil, err
	}
	if err := validate.Kind(el.Kind); err != nil {
		return nil, err
	}
	if err := p.position(el.Position); err != nil {
		return nil, err
	}
	if err := validate.NonNegative("layer", el.Layer); err != nil {
		return nil, err
	}
	for _, name := range el.PropertyNames() {
		if err := validate.PropertyName(name); err != nil {
			return nil, err
		}
	}
	found, err := p.exists(el.ID)
	if err != nil {
		return nil, err
	}
	if found {
		return nil, errors.Wrapf(errors.ErrElementExists, "element %q", el.ID)
	}

	p.staged[el.ID] = el.Clone()
	return command.NewAddElement(p.store, el), nil
}

// Remove plans removing an element.
func (p *planner) Remove(id string) (command.Command, error) {
	if _, err := p.lookup(id); err != nil {
		return nil, err
	}
	p.staged[id] = nil
	return command.NewRemoveElement(p.store, id), nil
}

// Set plans changing one property. The current value is captured as the
// undo value; a value of the wrong type is rejected here.
func (p *planner) Set(id, property string, value any) (command.Command, error) {
	if err := validate.PropertyName(property); err != nil {
		return nil, err
	}
	el, err := p.lookup(id)
	if err != nil {
		return nil, err
	}
	old, _ := el.Property(property)
	if err := el.SetProperty(property, value); err != nil {
		return nil, err
	}
	return command.NewModifyElement(p.store, id, property, old, value), nil
}

// Move plans moving an element to pos.
func (p *planner) Move(id string, pos model.Position) (command.Command, error) {
	if err := p.position(pos); err != nil {
		return nil, err
	}
	el, err := p.lookup(id)
	if err != nil {
		return nil, err
	}
	from := el.Position
	el.Position = pos
	return command.NewMoveElement(p.store, id, from, pos), nil
}

// Layer plans moving an element to another layer.
func (p *planner) Layer(id string, index int) (command.Command, error) {
	if err := validate.NonNegative("layer", index); err != nil {
		return nil, err
	}
	el, err := p.lookup(id)
	if err != nil {
		return nil, err
	}
	old := el.Layer
	el.Layer = index
	return command.NewReorderLayer(p.store, id, old, index), nil
}

// Apply plans applying a named solution.
func (p *planner) Apply(id string, sol model.Solution) (command.Command, error) {
	if err := validate.SolutionName(sol.Name); err != nil {
		return nil, err
	}
	for name := range sol.Properties {
		if err := validate.PropertyName(name); err != nil {
			return nil, err
		}
	}
	el, err := p.lookup(id)
	if err != nil {
		return nil, err
	}
	prev := model.CaptureSolution(el, sol)
	if err := sol.ApplyTo(el); err != nil {
		return nil, err
	}
	return command.NewApplySolution(p.store, id, sol, prev), nil
}

func (p *planner) position(pos model.Position) error {
	if err := validate.Coordinate("x", pos.X); err != nil {
		return err
	}
	return validate.Coordinate("y", pos.Y)
}
