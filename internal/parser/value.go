package parser

import (
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/keyframe-studio/keyframe/internal/errors"
	"github.com/keyframe-studio/keyframe/internal/model"
)

// ParseValue converts a command-line property value into a typed value.
// Numbers, booleans, null, flow lists and flow maps are decoded as YAML
// scalars and collections; anything else is kept as text. Integers come back
// as float64.
func ParseValue(input string) any {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return ""
	}

	var v any
	if err := yaml.Unmarshal([]byte(trimmed), &v); err != nil {
		return input
	}
	switch v.(type) {
	case nil:
		if trimmed == "null" || trimmed == "~" {
			return nil
		}
		return input
	case string:
		return v
	}
	return model.NormalizeValue(v)
}

// ParseAssignments parses key=value pairs into a property map.
func ParseAssignments(pairs []string) (map[string]any, error) {
	props := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, NewAssignmentError(pair)
		}
		props[key] = ParseValue(value)
	}
	return props, nil
}

// ParsePosition parses x and y coordinates.
func ParsePosition(x, y string) (model.Position, error) {
	px, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
	if err != nil {
		return model.Position{}, NewPositionError(x)
	}
	py, err := strconv.ParseFloat(strings.TrimSpace(y), 64)
	if err != nil {
		return model.Position{}, NewPositionError(y)
	}
	return model.Position{X: px, Y: py}, nil
}

// ParseLayer parses a non-negative layer index.
func ParseLayer(input string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || n < 0 {
		return 0, errors.NewUserErrorWithField("layer", input, "invalid layer index", "Layers are whole numbers starting at 0.").
			WithCause(errors.ErrInvalidProperty)
	}
	return n, nil
}
