package command

import (
	"fmt"

	"github.com/keyframe-studio/keyframe/internal/logging"
)

// Group executes child commands as one all-or-nothing edit. Children run in
// order and are undone in reverse.
type Group struct {
	Meta
	Children []Command
}

// NewGroup creates a group over children.
func NewGroup(description string, children ...Command) *Group {
	return &Group{
		Meta:     newMeta(description, ""),
		Children: children,
	}
}

// Add appends a child command.
func (g *Group) Add(child Command) {
	g.Children = append(g.Children, child)
}

// Execute runs every child in order. If a child fails, the children that
// already ran are undone in reverse and the failure is returned.
func (g *Group) Execute() error {
	for i, child := range g.Children {
		if err := Safe(child.Execute); err != nil {
			g.rollback(i)
			return fmt.Errorf("%s: step %d (%s): %w", g.Description, i+1, child.Info().Description, err)
		}
	}
	g.Executed = true
	return nil
}

// rollback undoes children[0:n] in reverse.
func (g *Group) rollback(n int) {
	log := logging.Component("command").With(logging.KeyCommandID, g.ID)
	for i := n - 1; i >= 0; i-- {
		child := g.Children[i]
		if !child.Info().Executed {
			continue
		}
		if err := Safe(child.Undo); err != nil {
			log.Error("group rollback step failed",
				logging.KeyDescription, child.Info().Description,
				logging.KeyError, err)
		}
	}
}

// Undo undoes executed children in reverse. A failing child is logged and the
// remaining children are still undone; the group always ends up undone.
func (g *Group) Undo() error {
	log := logging.Component("command").With(logging.KeyCommandID, g.ID)
	for i := len(g.Children) - 1; i >= 0; i-- {
		child := g.Children[i]
		if !child.Info().Executed {
			continue
		}
		if err := Safe(child.Undo); err != nil {
			log.Warn("group undo step failed",
				logging.KeyDescription, child.Info().Description,
				logging.KeyError, err)
		}
	}
	g.Executed = false
	return nil
}

// Targets returns the element IDs touched by the group's children.
func (g *Group) Targets() []string {
	seen := make(map[string]bool)
	var ids []string
	for _, child := range g.Children {
		var childIDs []string
		if t, ok := child.(Targeter); ok {
			childIDs = t.Targets()
		} else if id := child.Info().ElementID; id != "" {
			childIDs = []string{id}
		}
		for _, id := range childIDs {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	return ids
}
