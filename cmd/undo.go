package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/keyframe-studio/keyframe/internal/errors"
	"github.com/keyframe-studio/keyframe/internal/history"
	"github.com/keyframe-studio/keyframe/internal/validate"
)

// Undo command flags.
var (
	undoFlagCount int
	undoFlagID    string
	undoFlagTo    string
	redoFlagCount int
)

// undoCmd represents the undo command.
var undoCmd = &cobra.Command{
	Use:   "undo",
	Short: "Undo the last edit",
	Long: `Undo the most recent edit, several edits, one specific edit, or every
edit made since a checkpoint.

Undoing one specific edit (--id) is refused when a later edit touches the
same elements; that edit cannot be redone afterwards.

Examples:
  keyframe undo
  keyframe undo -n 3
  keyframe undo --to blocking
  keyframe undo --id 0190c3a2`,
	Args: cobra.NoArgs,
	RunE: runUndo,
}

// redoCmd represents the redo command.
var redoCmd = &cobra.Command{
	Use:   "redo",
	Short: "Redo the last undone edit",
	Long: `Redo edits undone with 'keyframe undo'. Recording a new edit clears the
redo history.

Examples:
  keyframe redo
  keyframe redo -n 2`,
	Args: cobra.NoArgs,
	RunE: runRedo,
}

func init() {
	undoCmd.Flags().IntVarP(&undoFlagCount, "count", "n", 1, "Number of edits to undo")
	undoCmd.Flags().StringVar(&undoFlagID, "id", "", "Undo only the edit with this command ID")
	undoCmd.Flags().StringVar(&undoFlagTo, "to", "", "Undo back to a checkpoint (name or ID)")
	undoCmd.MarkFlagsMutuallyExclusive("count", "id", "to")
	undoCmd.RegisterFlagCompletionFunc("to", completeCheckpoints)
	undoCmd.RegisterFlagCompletionFunc("id", completeCommandIDs)

	redoCmd.Flags().IntVarP(&redoFlagCount, "count", "n", 1, "Number of edits to redo")

	rootCmd.AddCommand(undoCmd, redoCmd)
}

func runUndo(cmd *cobra.Command, args []string) error {
	switch {
	case undoFlagID != "":
		return undoSelected(undoFlagID)
	case undoFlagTo != "":
		return undoToCheckpoint(undoFlagTo)
	}
	if err := validate.InRange("count", undoFlagCount, 1, ctx.History.Stats().MaxHistory); err != nil {
		return err
	}

	descs := pending(ctx.History.Entries(), true, undoFlagCount)
	if undoFlagCount == 1 {
		if err := ctx.History.Undo(); err != nil {
			return err
		}
	} else {
		done := ctx.History.UndoN(undoFlagCount)
		if done == 0 {
			return nothingDone("undo")
		}
		descs = descs[:min(done, len(descs))]
	}
	if err := ctx.Commit(); err != nil {
		return err
	}
	return printAction("Undid", descs...)
}

func runRedo(cmd *cobra.Command, args []string) error {
	if err := validate.InRange("count", redoFlagCount, 1, ctx.History.Stats().MaxHistory); err != nil {
		return err
	}

	descs := pending(ctx.History.Entries(), false, redoFlagCount)
	if redoFlagCount == 1 {
		if err := ctx.History.Redo(); err != nil {
			return err
		}
	} else {
		done := ctx.History.RedoN(redoFlagCount)
		if done == 0 {
			return nothingDone("redo")
		}
		descs = descs[:min(done, len(descs))]
	}
	if err := ctx.Commit(); err != nil {
		return err
	}
	return printAction("Redid", descs...)
}

// pending returns the descriptions of up to n entries the next undo (or redo)
// calls will touch, in the order they will run.
func pending(entries []history.Entry, executed bool, n int) []string {
	var descs []string
	if executed {
		for i := len(entries) - 1; i >= 0 && len(descs) < n; i-- {
			if entries[i].Executed {
				descs = append(descs, entries[i].Description)
			}
		}
		return descs
	}
	for _, e := range entries {
		if len(descs) == n {
			break
		}
		if !e.Executed {
			descs = append(descs, e.Description)
		}
	}
	return descs
}

// nothingDone explains a multi-step undo or redo that did not run at all.
func nothingDone(op string) error {
	if op == "undo" && !ctx.History.CanUndo() {
		return errors.ErrNothingToUndo
	}
	if op == "redo" && !ctx.History.CanRedo() {
		return errors.ErrNothingToRedo
	}
	return fmt.Errorf("%s failed; run with --debug for details", op)
}

func undoSelected(ref string) error {
	if err := validate.CommandRef(ref); err != nil {
		return err
	}
	desc := ref
	for _, e := range ctx.History.Entries() {
		if e.Executed && strings.HasPrefix(e.ID, ref) {
			desc = e.Description
			break
		}
	}
	if err := ctx.History.SelectiveUndo(ref); err != nil {
		return err
	}
	if err := ctx.Commit(); err != nil {
		return err
	}
	return printAction("Undid", desc)
}

func undoToCheckpoint(ref string) error {
	before := pending(ctx.History.Entries(), true, ctx.History.Stats().UndoCount)
	if err := ctx.History.UndoToCheckpoint(ref); err != nil {
		// Steps that succeeded already changed the stage.
		if cerr := ctx.Commit(); cerr != nil {
			return errors.Join(err, cerr)
		}
		return err
	}
	if err := ctx.Commit(); err != nil {
		return err
	}
	undone := len(before) - ctx.History.Stats().UndoCount
	return printAction("Undid", before[:undone]...)
}
