package cmd

import (
	"github.com/spf13/cobra"

	"github.com/keyframe-studio/keyframe/internal/storage"
)

// checkCmd verifies the database.
var checkCmd = &cobra.Command{
	Use:     "check",
	Aliases: []string{"doctor"},
	Short:   "Check the database for damaged records",
	Long: `Read back every element, the history journal and the settings record and
report any that no longer decode. Exits with an error when damage is found.

Examples:
  keyframe check
  keyframe check --format json`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

// CheckResponse is the JSON form of a database check.
type CheckResponse struct {
	*storage.RecoveryStatus
	Elements int      `json:"elements"`
	Warnings []string `json:"warnings,omitempty"`
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	status := storage.CheckDatabaseIntegrity(ctx.DB)
	count, err := ctx.Elements.Count()
	if err != nil && status.Healthy {
		return err
	}

	if ctx.IsJSON() {
		if jerr := ctx.Formatter.JSON(&CheckResponse{
			RecoveryStatus: status,
			Elements:       count,
			Warnings:       ctx.Warnings,
		}); jerr != nil {
			return jerr
		}
		return status.Err()
	}

	cli := ctx.CLIFormatter()
	if !status.Healthy {
		cli.Error("Database has damaged records")
		for _, msg := range status.Errors {
			cli.Printf("  %s\n", msg)
		}
		return status.Err()
	}
	cli.Success("Database OK")
	cli.Printf("  Records:   %d\n", status.Checked)
	cli.Printf("  Elements:  %d\n", count)
	return nil
}
