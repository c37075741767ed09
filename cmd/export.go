package cmd

import (
	"encoding/json"
	"time"

	"github.com/spf13/cobra"

	"github.com/keyframe-studio/keyframe/internal/model"
	"github.com/keyframe-studio/keyframe/internal/storage"
	"github.com/keyframe-studio/keyframe/internal/validate"
)

// BackupVersion is the current backup file version.
const BackupVersion = "1"

var exportFlagOutput string

// exportCmd writes a backup of the stage.
var exportCmd = &cobra.Command{
	Use:     "export",
	Aliases: []string{"dump"},
	Short:   "Export the stage and its history",
	Long: `Write every element, the saved settings and the edit history as JSON.
'keyframe import' reads the elements back.

Examples:
  keyframe export
  keyframe export -o scene1.json`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportFlagOutput, "output", "o", "", "Output file (stdout if omitted)")
	rootCmd.AddCommand(exportCmd)
}

// Backup is the export file format.
type Backup struct {
	Version    string              `json:"version"`
	ExportedAt string              `json:"exported_at"`
	Settings   *model.Settings     `json:"settings,omitempty"`
	Elements   []*model.Element    `json:"elements"`
	History    *model.HistoryState `json:"history,omitempty"`
}

func runExport(cmd *cobra.Command, args []string) error {
	els, err := ctx.Elements.List()
	if err != nil {
		return err
	}
	if els == nil {
		els = []*model.Element{}
	}
	state, err := ctx.History.Snapshot()
	if err != nil {
		return err
	}

	backup := &Backup{
		Version:    BackupVersion,
		ExportedAt: time.Now().Format(time.RFC3339),
		Settings:   ctx.Settings,
		Elements:   els,
		History:    state,
	}

	if exportFlagOutput == "" {
		return ctx.Formatter.JSON(backup)
	}

	data, err := json.MarshalIndent(backup, "", "  ")
	if err != nil {
		return err
	}
	path := exportFlagOutput
	if err := storage.SafeWrite(path, append(data, '\n'), 0o644); err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(map[string]any{
			"status":   "exported",
			"file":     path,
			"elements": len(els),
			"history":  len(state.Undo) + len(state.Redo),
		})
	}
	cli := ctx.CLIFormatter()
	cli.Success("Backup created: " + validate.TruncateString(path, 60))
	cli.Printf("  Elements: %d\n", len(els))
	cli.Printf("  History:  %d\n", len(state.Undo)+len(state.Redo))
	return nil
}
