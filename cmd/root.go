// Package cmd provides the CLI commands for keyframe.
package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/keyframe-studio/keyframe/internal/command"
	"github.com/keyframe-studio/keyframe/internal/errors"
	"github.com/keyframe-studio/keyframe/internal/output"
	"github.com/keyframe-studio/keyframe/internal/parser"
	"github.com/keyframe-studio/keyframe/internal/runtime"
)

// Version information (set at build time via ldflags).
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// Global flags.
var (
	flagFormat string
	flagColor  string
	flagDebug  bool
)

// ctx is the shared runtime context.
var ctx *runtime.Context

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "keyframe",
	Short: "Undoable stage editing for animation scenes",
	Long: `Keyframe edits the elements of an animation stage from the command line.
Every edit is recorded, so it can be undone, redone, grouped, or rolled
back to a named checkpoint, even from a later session.

Examples:
  keyframe add hero --name Hero --x 10 --y 20
  keyframe move hero 40 20
  keyframe checkpoint blocking
  keyframe undo
  keyframe undo --to blocking
  keyframe history`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for completion and help commands
		if cmd.Name() == "completion" || cmd.Name() == "help" || cmd.Name() == "version" {
			return nil
		}
		return openContext(cmd)
	},
	RunE: runHistory,
}

// openContext creates the runtime context for one invocation.
func openContext(cmd *cobra.Command) error {
	opts := runtime.DefaultOptions()
	opts.Format = output.ParseFormat(flagFormat)
	opts.ColorMode = parseColorMode(flagColor)
	opts.Debug = flagDebug

	c, err := runtime.New(opts)
	if err != nil {
		return err
	}
	c.Formatter.Writer = cmd.OutOrStdout()
	ctx = c

	if !ctx.IsJSON() {
		for _, w := range ctx.Warnings {
			fmt.Fprintln(cmd.ErrOrStderr(), "Warning: "+w)
		}
	}
	return nil
}

func parseColorMode(s string) output.ColorMode {
	switch s {
	case "always":
		return output.ColorAlways
	case "never":
		return output.ColorNever
	default:
		return output.ColorAuto
	}
}

// closeContext releases the database. It runs after every command, including
// failed ones.
func closeContext() error {
	if ctx == nil {
		return nil
	}
	err := ctx.Close()
	ctx = nil
	return err
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		printError(rootCmd.ErrOrStderr(), err)
	}
	if cerr := closeContext(); cerr != nil && err == nil {
		printError(rootCmd.ErrOrStderr(), cerr)
		err = cerr
	}
	return err
}

// printError reports err in the selected output format.
func printError(w io.Writer, err error) {
	if ctx != nil && ctx.IsJSON() {
		if jerr := ctx.JSONFormatter().PrintError(err); jerr == nil {
			return
		}
	}
	var perr *parser.ParseError
	if errors.As(err, &perr) {
		fmt.Fprintln(w, "Error: "+perr.FormatWithExamples())
		return
	}
	fmt.Fprintln(w, "Error: "+errors.FormatByCategory(err))
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagFormat, "format", "f", "cli",
		"Output format: cli, json, plain")
	rootCmd.PersistentFlags().StringVar(&flagColor, "color", "auto",
		"Color output: auto, always, never")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false,
		"Enable debug output")

	rootCmd.AddCommand(versionCmd)
}

// versionCmd shows version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("keyframe %s\n", Version)
		cmd.Printf("  commit: %s\n", Commit)
		cmd.Printf("  built: %s\n", BuildTime)
	},
}

// printAction reports an edit, undo or redo in the selected format.
func printAction(verb string, descriptions ...string) error {
	stats := ctx.History.Stats()
	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintAction(verb, descriptions, stats)
	}
	ctx.CLIFormatter().PrintAction(verb, descriptions, stats)
	return nil
}

// record executes c through the history manager, saves the journal and
// reports it.
func record(c command.Command) error {
	if err := ctx.Run(c); err != nil {
		return err
	}
	return printAction("Done", c.Info().Description)
}
