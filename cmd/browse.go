package cmd

import (
	"github.com/spf13/cobra"

	"github.com/keyframe-studio/keyframe/internal/tui"
)

// browseCmd opens the history browser.
var browseCmd = &cobra.Command{
	Use:     "browse",
	Aliases: []string{"tui", "b"},
	Short:   "Browse history interactively",
	Long: `Open an interactive view of the edit history.

Keyboard Controls:
  ↑/↓ or k/j  Select an entry
  u           Undo the last edit
  r           Redo
  c           Undo back to the selected checkpoint
  x           Undo only the selected edit
  q           Quit

Changes are saved as they are made.`,
	Args: cobra.NoArgs,
	RunE: runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	return tui.Run(tui.BrowserConfig{
		Manager: ctx.History,
		Commit:  ctx.Commit,
	})
}
