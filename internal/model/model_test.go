package model

import (
	"encoding/json"
	"testing"

	"github.com/keyframe-studio/keyframe/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Element Tests
// =============================================================================

func TestNewElement(t *testing.T) {
	el := NewElement("hero", "Hero", "sprite", Position{X: 10, Y: 20}, 2)

	assert.Equal(t, "element:hero", el.Key)
	assert.Equal(t, "hero", el.ID)
	assert.Equal(t, "Hero", el.Name)
	assert.Equal(t, "sprite", el.Kind)
	assert.Equal(t, Position{X: 10, Y: 20}, el.Position)
	assert.Equal(t, 2, el.Layer)
	assert.False(t, el.CreatedAt.IsZero())
}

func TestElementSetGetKey(t *testing.T) {
	el := &Element{}
	el.SetKey("element:abc")
	assert.Equal(t, "element:abc", el.GetKey())
}

func TestElementProperty(t *testing.T) {
	el := NewElement("hero", "Hero", "sprite", Position{X: 1, Y: 2}, 3)
	el.Solution = "glow"
	el.Properties = map[string]any{"opacity": 0.5}

	tests := []struct {
		name string
		want any
		ok   bool
	}{
		{PropName, "Hero", true},
		{PropKind, "sprite", true},
		{PropX, 1.0, true},
		{PropY, 2.0, true},
		{PropLayer, 3, true},
		{PropSolution, "glow", true},
		{"opacity", 0.5, true},
		{"missing", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := el.Property(tt.name)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestElementSetProperty(t *testing.T) {
	t.Run("builtins", func(t *testing.T) {
		el := NewElement("hero", "", "", Position{}, 0)

		require.NoError(t, el.SetProperty(PropName, "Villain"))
		require.NoError(t, el.SetProperty(PropX, 4))
		require.NoError(t, el.SetProperty(PropY, 5.5))
		require.NoError(t, el.SetProperty(PropLayer, 7.0))

		assert.Equal(t, "Villain", el.Name)
		assert.Equal(t, Position{X: 4, Y: 5.5}, el.Position)
		assert.Equal(t, 7, el.Layer)
	})

	t.Run("custom_set_and_delete", func(t *testing.T) {
		el := NewElement("hero", "", "", Position{}, 0)

		require.NoError(t, el.SetProperty("opacity", 1))
		assert.Equal(t, 1.0, el.Properties["opacity"])

		require.NoError(t, el.SetProperty("opacity", nil))
		_, ok := el.Property("opacity")
		assert.False(t, ok)
	})

	t.Run("type_errors", func(t *testing.T) {
		el := NewElement("hero", "", "", Position{}, 0)

		assert.True(t, errors.Is(el.SetProperty(PropX, "left"), errors.ErrInvalidProperty))
		assert.True(t, errors.Is(el.SetProperty(PropName, 3), errors.ErrInvalidProperty))
		assert.True(t, errors.Is(el.SetProperty(PropLayer, 1.5), errors.ErrInvalidProperty))
		assert.True(t, errors.Is(el.SetProperty("", 1), errors.ErrInvalidProperty))
	})
}

func TestElementClone(t *testing.T) {
	el := NewElement("hero", "Hero", "sprite", Position{X: 1}, 0)
	el.Properties = map[string]any{
		"tags": []any{"a", "b"},
		"meta": map[string]any{"depth": 1.0},
	}

	c := el.Clone()
	assert.Equal(t, el, c)

	c.Properties["tags"].([]any)[0] = "z"
	c.Properties["meta"].(map[string]any)["depth"] = 9.0
	c.Position.X = 99

	assert.Equal(t, "a", el.Properties["tags"].([]any)[0])
	assert.Equal(t, 1.0, el.Properties["meta"].(map[string]any)["depth"])
	assert.Equal(t, 1.0, el.Position.X)

	var nilEl *Element
	assert.Nil(t, nilEl.Clone())
}

func TestElementJSONRoundTripKeepsValues(t *testing.T) {
	el := NewElement("hero", "Hero", "sprite", Position{X: 1, Y: 2}, 3)
	require.NoError(t, el.SetProperty("count", 4))

	data, err := json.Marshal(el)
	require.NoError(t, err)

	var back Element
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, el.Properties, back.Properties)
	assert.Equal(t, el.Position, back.Position)
}

func TestPropertyNames(t *testing.T) {
	el := &Element{Properties: map[string]any{"b": 1.0, "a": 2.0}}
	assert.Equal(t, []string{"a", "b"}, el.PropertyNames())
}

// =============================================================================
// Solution Tests
// =============================================================================

func TestCaptureSolution(t *testing.T) {
	el := NewElement("hero", "", "", Position{}, 0)
	el.Solution = "plain"
	el.Properties = map[string]any{"opacity": 1.0}

	next := Solution{Name: "ghost", Properties: map[string]any{"opacity": 0.3, "blur": 2.0}}
	prev := CaptureSolution(el, next)

	assert.Equal(t, "plain", prev.Name)
	assert.Equal(t, 1.0, prev.Properties["opacity"])
	v, ok := prev.Properties["blur"]
	assert.True(t, ok)
	assert.Nil(t, v)
}

func TestSolutionApplyAndRestore(t *testing.T) {
	el := NewElement("hero", "", "", Position{}, 0)
	el.Properties = map[string]any{"opacity": 1.0}

	next := Solution{Name: "ghost", Properties: map[string]any{"opacity": 0.3, "blur": 2.0}}
	prev := CaptureSolution(el, next)

	require.NoError(t, next.ApplyTo(el))
	assert.Equal(t, "ghost", el.Solution)
	assert.Equal(t, 0.3, el.Properties["opacity"])
	assert.Equal(t, 2.0, el.Properties["blur"])

	require.NoError(t, prev.ApplyTo(el))
	assert.Equal(t, "", el.Solution)
	assert.Equal(t, map[string]any{"opacity": 1.0}, el.Properties)
}

// =============================================================================
// History / Settings Tests
// =============================================================================

func TestNewHistoryState(t *testing.T) {
	undo := []CommandRecord{{Kind: KindAddElement, ID: "a"}}
	state := NewHistoryState(undo, nil)

	assert.Equal(t, KeyHistory, state.GetKey())
	assert.Len(t, state.Undo, 1)
	assert.Empty(t, state.Redo)
	assert.False(t, state.SavedAt.IsZero())

	state.SetKey("other")
	assert.Equal(t, "other", state.Key)
}

func TestNewSettings(t *testing.T) {
	s := NewSettings()
	assert.Equal(t, KeySettings, s.GetKey())
	assert.Nil(t, s.MaxHistory)
	assert.Nil(t, s.AutoMerge)
	assert.Nil(t, s.MergeTimeout)
}

// =============================================================================
// Interface Tests
// =============================================================================

func TestModelInterface(t *testing.T) {
	var _ Model = &Element{}
	var _ Model = &HistoryState{}
	var _ Model = &Settings{}
}
