package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/keyframe-studio/keyframe/internal/config"
)

// configCmd represents the config command.
var configCmd = &cobra.Command{
	Use:     "config",
	Aliases: []string{"cfg", "settings"},
	Short:   "Manage history settings",
	Long: `View and change the settings saved with the stage.

Keys:
  max_history     Most edits kept for undo (default 100)
  auto_merge      Merge rapid edits of the same property (default true)
  merge_timeout   Longest gap between edits that still merge (default 2s)

KEYFRAME_MAX_HISTORY, KEYFRAME_AUTO_MERGE and KEYFRAME_MERGE_TIMEOUT
override the saved values.

Examples:
  keyframe config get
  keyframe config set max_history 200
  keyframe config set merge_timeout 500ms
  keyframe config unset auto_merge`,
}

// configGetCmd gets configuration values.
var configGetCmd = &cobra.Command{
	Use:               "get [KEY]",
	Short:             "Show effective settings",
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completeSettingKeys,
	RunE:              runConfigGet,
}

// configSetCmd sets configuration values.
var configSetCmd = &cobra.Command{
	Use:               "set KEY VALUE",
	Short:             "Save a setting",
	Args:              cobra.ExactArgs(2),
	ValidArgsFunction: completeSettingKeys,
	RunE:              runConfigSet,
}

// configUnsetCmd restores a default.
var configUnsetCmd = &cobra.Command{
	Use:               "unset KEY",
	Short:             "Restore a setting to its default",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeSettingKeys,
	RunE:              runConfigUnset,
}

func init() {
	configCmd.AddCommand(configGetCmd, configSetCmd, configUnsetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	settings := ctx.Config.Settings()
	if len(args) == 1 {
		v, err := ctx.Config.GetSetting(args[0])
		if err != nil {
			return err
		}
		settings = map[string]string{args[0]: v}
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(settings)
	}
	ctx.CLIFormatter().PrintSettings(settings)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key := strings.ToLower(args[0])
	if err := config.SetSetting(ctx.Settings, key, args[1]); err != nil {
		return err
	}
	return saveSetting(cmd, key)
}

func runConfigUnset(cmd *cobra.Command, args []string) error {
	key := strings.ToLower(args[0])
	if err := config.UnsetSetting(ctx.Settings, key); err != nil {
		return err
	}
	return saveSetting(cmd, key)
}

func saveSetting(cmd *cobra.Command, key string) error {
	if err := ctx.SaveSettings(ctx.Settings); err != nil {
		return err
	}
	v, err := ctx.Config.GetSetting(key)
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(map[string]string{key: v})
	}
	ctx.CLIFormatter().Success(fmt.Sprintf("%s = %s", key, v))
	if env := envName(key); os.Getenv(env) != "" {
		ctx.CLIFormatter().Warning(fmt.Sprintf("%s is set and overrides the saved value", env))
	}
	return nil
}

func envName(key string) string {
	return "KEYFRAME_" + strings.ToUpper(key)
}
