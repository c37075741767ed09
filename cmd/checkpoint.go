package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/keyframe-studio/keyframe/internal/output"
	"github.com/keyframe-studio/keyframe/internal/validate"
)

// checkpointCmd creates a named checkpoint.
var checkpointCmd = &cobra.Command{
	Use:     "checkpoint NAME",
	Aliases: []string{"cp"},
	Short:   "Mark the current state with a name",
	Long: `Record a named marker in history. 'keyframe undo --to NAME' later undoes
every edit made after it. Checkpoints are part of history, so they age out
with the edits around them.

Examples:
  keyframe checkpoint blocking
  keyframe checkpoint "before lighting"
  keyframe checkpoint list`,
	Args: cobra.ExactArgs(1),
	RunE: runCheckpoint,
}

// checkpointListCmd lists checkpoints.
var checkpointListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List checkpoints still in history",
	Args:    cobra.NoArgs,
	RunE:    runCheckpointList,
}

func init() {
	checkpointCmd.AddCommand(checkpointListCmd)
	rootCmd.AddCommand(checkpointCmd)
}

func runCheckpoint(cmd *cobra.Command, args []string) error {
	name := validate.StripControlChars(args[0])
	if err := validate.CheckpointName(name); err != nil {
		return err
	}

	id, err := ctx.History.CreateCheckpoint(name)
	if err != nil {
		return err
	}
	if err := ctx.Commit(); err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(&output.CheckpointResponse{
			Status:       "created",
			CheckpointID: id,
			Name:         name,
		})
	}
	cli := ctx.CLIFormatter()
	cli.Success(fmt.Sprintf("Checkpoint '%s' created", name))
	cli.Muted("  " + id)
	return nil
}

func runCheckpointList(cmd *cobra.Command, args []string) error {
	entries := ctx.History.Checkpoints()
	if ctx.IsJSON() {
		return ctx.Formatter.JSON(output.NewHistoryResponse(entries, ctx.History.Stats()))
	}
	ctx.CLIFormatter().PrintCheckpoints(entries, time.Now())
	return nil
}
