package model

// Solution is a named configuration applied to an element: the solution name
// plus the property values it sets.
type Solution struct {
	Name       string         `json:"name"`
	Properties map[string]any `json:"properties,omitempty"`
}

// CaptureSolution snapshots what applying next would overwrite on el: the
// current solution name and the current value of every property next sets.
// Properties absent on el are recorded as nil so restoring removes them.
func CaptureSolution(el *Element, next Solution) Solution {
	prev := Solution{
		Name:       el.Solution,
		Properties: make(map[string]any, len(next.Properties)),
	}
	for k := range next.Properties {
		if v, ok := el.Property(k); ok {
			prev.Properties[k] = cloneValue(v)
		} else {
			prev.Properties[k] = nil
		}
	}
	return prev
}

// ApplyTo writes the solution onto el.
func (s Solution) ApplyTo(el *Element) error {
	el.Solution = s.Name
	for k, v := range s.Properties {
		if err := el.SetProperty(k, v); err != nil {
			return err
		}
	}
	return nil
}
