package cmd

import (
	"github.com/spf13/cobra"

	"github.com/keyframe-studio/keyframe/internal/model"
	"github.com/keyframe-studio/keyframe/internal/parser"
)

// Add command flags.
var (
	addFlagName  string
	addFlagKind  string
	addFlagX     float64
	addFlagY     float64
	addFlagLayer int
)

// addCmd adds an element to the stage.
var addCmd = &cobra.Command{
	Use:   "add ID",
	Short: "Add an element to the stage",
	Long: `Add a new element. The element ID is how every other command refers to it.

Examples:
  keyframe add hero
  keyframe add hero --name "Hero" --kind sprite --x 10 --y 20
  keyframe add backdrop --kind image --layer 0`,
	Args: cobra.ExactArgs(1),
	RunE: runAdd,
}

// removeCmd removes an element.
var removeCmd = &cobra.Command{
	Use:               "remove ID",
	Aliases:           []string{"rm"},
	Short:             "Remove an element from the stage",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeElementArgs,
	RunE:              runRemove,
}

// setCmd changes one property.
var setCmd = &cobra.Command{
	Use:   "set ID PROPERTY VALUE",
	Short: "Change a property of an element",
	Long: `Change one property. Built-in properties are name, kind, x, y, layer and
solution; any other name is stored as a custom property. Values are read as
numbers, booleans, lists or maps when they look like one, and null removes a
custom property.

Rapid changes to the same property merge into one history entry.

Examples:
  keyframe set hero name "Hero"
  keyframe set hero opacity 0.5
  keyframe set hero tags "[walk, idle]"
  keyframe set hero opacity null`,
	Args:              cobra.ExactArgs(3),
	ValidArgsFunction: completeElementArgs,
	RunE:              runSet,
}

// moveCmd moves an element.
var moveCmd = &cobra.Command{
	Use:   "move ID X Y",
	Short: "Move an element",
	Long: `Move an element to a new position. Use -- before negative coordinates.

Examples:
  keyframe move hero 40 20
  keyframe move hero -- -10 5.5`,
	Args:              cobra.ExactArgs(3),
	ValidArgsFunction: completeElementArgs,
	RunE:              runMove,
}

// layerCmd changes an element's layer.
var layerCmd = &cobra.Command{
	Use:               "layer ID INDEX",
	Short:             "Move an element to another layer",
	Args:              cobra.ExactArgs(2),
	ValidArgsFunction: completeElementArgs,
	RunE:              runLayer,
}

// applyCmd applies a solution.
var applyCmd = &cobra.Command{
	Use:   "apply ID SOLUTION [KEY=VALUE...]",
	Short: "Apply a named solution to an element",
	Long: `Apply a named configuration. The listed properties are set together and
the solution name is recorded on the element. Undo restores the previous
solution and every property it changed.

Examples:
  keyframe apply hero ghost opacity=0.3 blur=2
  keyframe apply hero plain`,
	Args:              cobra.MinimumNArgs(2),
	ValidArgsFunction: completeElementArgs,
	RunE:              runApply,
}

// elementsCmd lists elements.
var elementsCmd = &cobra.Command{
	Use:     "elements",
	Aliases: []string{"ls", "list"},
	Short:   "List elements on the stage",
	Args:    cobra.NoArgs,
	RunE:    runElements,
}

// showCmd shows one element.
var showCmd = &cobra.Command{
	Use:               "show ID",
	Short:             "Show an element",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeElementArgs,
	RunE:              runShow,
}

func init() {
	addCmd.Flags().StringVarP(&addFlagName, "name", "n", "", "Display name")
	addCmd.Flags().StringVarP(&addFlagKind, "kind", "k", "", "Element kind, e.g. sprite")
	addCmd.Flags().Float64Var(&addFlagX, "x", 0, "X position")
	addCmd.Flags().Float64Var(&addFlagY, "y", 0, "Y position")
	addCmd.Flags().IntVarP(&addFlagLayer, "layer", "l", 0, "Layer index")

	rootCmd.AddCommand(addCmd, removeCmd, setCmd, moveCmd, layerCmd, applyCmd, elementsCmd, showCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	pos := model.Position{X: addFlagX, Y: addFlagY}
	c, err := newPlanner(ctx.Elements).Add(args[0], addFlagName, addFlagKind, pos, addFlagLayer)
	if err != nil {
		return err
	}
	return record(c)
}

func runRemove(cmd *cobra.Command, args []string) error {
	c, err := newPlanner(ctx.Elements).Remove(args[0])
	if err != nil {
		return err
	}
	return record(c)
}

func runSet(cmd *cobra.Command, args []string) error {
	c, err := newPlanner(ctx.Elements).Set(args[0], args[1], parser.ParseValue(args[2]))
	if err != nil {
		return err
	}
	return record(c)
}

func runMove(cmd *cobra.Command, args []string) error {
	pos, err := parser.ParsePosition(args[1], args[2])
	if err != nil {
		return err
	}
	c, err := newPlanner(ctx.Elements).Move(args[0], pos)
	if err != nil {
		return err
	}
	return record(c)
}

func runLayer(cmd *cobra.Command, args []string) error {
	index, err := parser.ParseLayer(args[1])
	if err != nil {
		return err
	}
	c, err := newPlanner(ctx.Elements).Layer(args[0], index)
	if err != nil {
		return err
	}
	return record(c)
}

func runApply(cmd *cobra.Command, args []string) error {
	props, err := parser.ParseAssignments(args[2:])
	if err != nil {
		return err
	}
	sol := model.Solution{Name: args[1], Properties: props}
	c, err := newPlanner(ctx.Elements).Apply(args[0], sol)
	if err != nil {
		return err
	}
	return record(c)
}

func runElements(cmd *cobra.Command, args []string) error {
	els, err := ctx.Elements.ListByLayer()
	if err != nil {
		return err
	}
	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintElements(els)
	}
	ctx.CLIFormatter().PrintElements(els)
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	el, err := ctx.Elements.Get(args[0])
	if err != nil {
		return err
	}
	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintElement(el)
	}
	ctx.CLIFormatter().PrintElement(el)
	return nil
}
