package model

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/keyframe-studio/keyframe/internal/errors"
)

// Built-in property names addressable through Property/SetProperty.
const (
	PropName     = "name"
	PropKind     = "kind"
	PropX        = "x"
	PropY        = "y"
	PropLayer    = "layer"
	PropSolution = "solution"
)

// BuiltinProperties lists the property names backed by struct fields.
var BuiltinProperties = []string{PropName, PropKind, PropX, PropY, PropLayer, PropSolution}

// Position is an element's location on the stage.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p Position) String() string {
	return fmt.Sprintf("(%g, %g)", p.X, p.Y)
}

// Element is an entity placed on the stage.
type Element struct {
	Key        string         `json:"key"`
	ID         string         `json:"id"`
	Name       string         `json:"name,omitempty"`
	Kind       string         `json:"kind,omitempty"`
	Position   Position       `json:"position"`
	Layer      int            `json:"layer"`
	Solution   string         `json:"solution,omitempty"`
	Properties map[string]any `json:"properties,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// SetKey sets the database key for this element.
func (e *Element) SetKey(key string) {
	e.Key = key
}

// GetKey returns the database key for this element.
func (e *Element) GetKey() string {
	return e.Key
}

// GenerateElementKey generates the database key for an element ID.
func GenerateElementKey(id string) string {
	return fmt.Sprintf("%s:%s", PrefixElement, id)
}

// NewElement creates a new element with its key derived from id.
func NewElement(id, name, kind string, pos Position, layer int) *Element {
	return &Element{
		Key:       GenerateElementKey(id),
		ID:        id,
		Name:      name,
		Kind:      kind,
		Position:  pos,
		Layer:     layer,
		CreatedAt: time.Now().UTC(),
	}
}

// Property returns the value of a built-in or custom property.
func (e *Element) Property(name string) (any, bool) {
	switch name {
	case PropName:
		return e.Name, true
	case PropKind:
		return e.Kind, true
	case PropX:
		return e.Position.X, true
	case PropY:
		return e.Position.Y, true
	case PropLayer:
		return e.Layer, true
	case PropSolution:
		return e.Solution, true
	}
	v, ok := e.Properties[name]
	return v, ok
}

// SetProperty sets a built-in or custom property. A nil value deletes a
// custom property and zeroes a built-in one.
func (e *Element) SetProperty(name string, value any) error {
	if name == "" {
		return errors.Wrap(errors.ErrInvalidProperty, "empty property name")
	}

	switch name {
	case PropName, PropKind, PropSolution:
		s, err := asString(name, value)
		if err != nil {
			return err
		}
		switch name {
		case PropName:
			e.Name = s
		case PropKind:
			e.Kind = s
		default:
			e.Solution = s
		}
		return nil

	case PropX, PropY:
		f, err := asFloat(name, value)
		if err != nil {
			return err
		}
		if name == PropX {
			e.Position.X = f
		} else {
			e.Position.Y = f
		}
		return nil

	case PropLayer:
		f, err := asFloat(name, value)
		if err != nil {
			return err
		}
		if f != math.Trunc(f) {
			return errors.Wrapf(errors.ErrInvalidProperty, "layer must be a whole number, got %v", value)
		}
		e.Layer = int(f)
		return nil
	}

	if value == nil {
		delete(e.Properties, name)
		return nil
	}
	if e.Properties == nil {
		e.Properties = make(map[string]any)
	}
	e.Properties[name] = NormalizeValue(value)
	return nil
}

// PropertyNames returns the custom property names in sorted order.
func (e *Element) PropertyNames() []string {
	names := make([]string, 0, len(e.Properties))
	for k := range e.Properties {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Clone returns a deep copy of the element.
func (e *Element) Clone() *Element {
	if e == nil {
		return nil
	}
	c := *e
	if e.Properties != nil {
		c.Properties = make(map[string]any, len(e.Properties))
		for k, v := range e.Properties {
			c.Properties[k] = cloneValue(v)
		}
	}
	return &c
}

// NormalizeValue converts integer kinds to float64 so values compare equal
// after a JSON round trip through the store.
func NormalizeValue(v any) any {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case float32:
		return float64(n)
	case uint:
		return float64(n)
	case []any:
		out := make([]any, len(n))
		for i, item := range n {
			out[i] = NormalizeValue(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(n))
		for k, item := range n {
			out[k] = NormalizeValue(item)
		}
		return out
	}
	return v
}

func cloneValue(v any) any {
	switch n := v.(type) {
	case []any:
		out := make([]any, len(n))
		for i, item := range n {
			out[i] = cloneValue(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(n))
		for k, item := range n {
			out[k] = cloneValue(item)
		}
		return out
	}
	return v
}

func asString(name string, value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case fmt.Stringer:
		return v.String(), nil
	}
	return "", errors.Wrapf(errors.ErrInvalidProperty, "%s expects text, got %T", name, value)
}

func asFloat(name string, value any) (float64, error) {
	switch v := NormalizeValue(value).(type) {
	case nil:
		return 0, nil
	case float64:
		return v, nil
	}
	return 0, errors.Wrapf(errors.ErrInvalidProperty, "%s expects a number, got %T", name, value)
}
