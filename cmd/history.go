package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/keyframe-studio/keyframe/internal/errors"
	"github.com/keyframe-studio/keyframe/internal/history"
	"github.com/keyframe-studio/keyframe/internal/output"
	"github.com/keyframe-studio/keyframe/internal/parser"
	"github.com/keyframe-studio/keyframe/internal/validate"
)

// History command flags.
var (
	historyFlagSince string
	historyFlagLimit int
	clearFlagForce   bool
)

// historyCmd shows the timeline.
var historyCmd = &cobra.Command{
	Use:     "history",
	Aliases: []string{"h", "log"},
	Short:   "Show the edit history",
	Long: `Show recorded edits oldest first. ✓ marks edits that are applied and ○
marks undone edits that 'keyframe redo' would apply again.

Examples:
  keyframe history
  keyframe history --since "10 minutes ago"
  keyframe history --since today --limit 20`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

// historyClearCmd drops both stacks.
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget every undo and redo step",
	Long: `Drop the whole history. The stage itself is left as it is; only the
ability to undo or redo earlier edits is lost.`,
	Args: cobra.NoArgs,
	RunE: runHistoryClear,
}

// depsCmd shows which edits touch the same elements as one edit.
var depsCmd = &cobra.Command{
	Use:   "deps COMMAND-ID",
	Short: "Show edits that share elements with an edit",
	Long: `List the other applied edits that touch any element the given edit
touches. Any later one among them blocks 'keyframe undo --id'.

Examples:
  keyframe deps 0190c3a2`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeCommandIDArgs,
	RunE:              runDeps,
}

func init() {
	historyCmd.Flags().StringVarP(&historyFlagSince, "since", "s", "", "Only show edits since a time, e.g. '1 hour ago'")
	historyCmd.Flags().IntVarP(&historyFlagLimit, "limit", "l", 0, "Show at most this many of the newest entries")
	historyClearCmd.Flags().BoolVar(&clearFlagForce, "force", false, "Confirm clearing history")

	historyCmd.AddCommand(historyClearCmd)
	rootCmd.AddCommand(historyCmd, depsCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	if err := validate.NonNegative("limit", historyFlagLimit); err != nil {
		return err
	}

	entries := ctx.History.Entries()
	if historyFlagSince != "" {
		result := parser.ParseTimestamp(historyFlagSince)
		if result.Error != nil {
			return result.Error
		}
		entries = since(entries, result)
	}
	if historyFlagLimit > 0 && len(entries) > historyFlagLimit {
		entries = entries[len(entries)-historyFlagLimit:]
	}

	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintHistory(entries, ctx.History.Stats())
	}
	ctx.CLIFormatter().PrintHistory(entries)
	return nil
}

func since(entries []history.Entry, from parser.TimestampResult) []history.Entry {
	out := entries[:0:0]
	for _, e := range entries {
		if !e.Timestamp.Before(from.Time) {
			out = append(out, e)
		}
	}
	return out
}

func runHistoryClear(cmd *cobra.Command, args []string) error {
	if !clearFlagForce {
		return errors.NewUserError("clearing history cannot be undone",
			"Run 'keyframe history clear --force' to confirm")
	}

	stats := ctx.History.Stats()
	ctx.History.Clear()
	if err := ctx.Commit(); err != nil {
		return err
	}
	ctx.Logger().Info("history cleared", "undo", stats.UndoCount, "redo", stats.RedoCount)

	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintAction("cleared", []string{}, ctx.History.Stats())
	}
	ctx.CLIFormatter().Success("History cleared")
	return nil
}

func runDeps(cmd *cobra.Command, args []string) error {
	ref := args[0]
	if err := validate.CommandRef(ref); err != nil {
		return err
	}

	ids, err := ctx.History.Dependencies(ref)
	if err != nil {
		return err
	}

	entries := ctx.History.Entries()
	byID := make(map[string]history.Entry, len(entries))
	var target history.Entry
	for _, e := range entries {
		byID[e.ID] = e
		if e.Executed && target.ID == "" && strings.HasPrefix(e.ID, ref) {
			target = e
		}
	}
	deps := make([]history.Entry, 0, len(ids))
	for _, id := range ids {
		deps = append(deps, byID[id])
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(&output.DependenciesResponse{Command: target, Dependencies: deps})
	}
	ctx.CLIFormatter().PrintDependencies(target, deps)
	return nil
}
