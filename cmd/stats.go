package cmd

import (
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
)

var statsFlagMetrics bool

// statsCmd shows history statistics.
var statsCmd = &cobra.Command{
	Use:     "stats",
	Aliases: []string{"stat"},
	Short:   "Show history statistics",
	Long: `Show how many edits can be undone and redone and the current history
settings. --metrics prints the session's counters and gauges in the
Prometheus text format instead.

Examples:
  keyframe stats
  keyframe stats --format json
  keyframe stats --metrics`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&statsFlagMetrics, "metrics", false, "Print metrics in Prometheus text format")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	if statsFlagMetrics {
		return writeMetrics(cmd)
	}

	stats := ctx.History.Stats()
	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintStats(stats)
	}
	ctx.CLIFormatter().PrintStats(stats)
	return nil
}

func writeMetrics(cmd *cobra.Command) error {
	families, err := ctx.Registry.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(cmd.OutOrStdout(), mf); err != nil {
			return err
		}
	}
	return nil
}
