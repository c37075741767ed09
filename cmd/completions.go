package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/keyframe-studio/keyframe/internal/config"
	"github.com/keyframe-studio/keyframe/internal/runtime"
)

// withCompletionContext runs fn with a runtime context. Shell completion
// skips the persistent pre-run hook, so one is opened here when needed.
func withCompletionContext(fn func(c *runtime.Context) []string) []string {
	if ctx != nil {
		return fn(ctx)
	}
	c, err := runtime.New(runtime.DefaultOptions())
	if err != nil {
		return nil
	}
	defer c.Close()
	return fn(c)
}

// completeElementArgs completes the element ID in the first argument.
func completeElementArgs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return completeElements(toComplete), cobra.ShellCompDirectiveNoFileComp
}

func completeElements(toComplete string) []string {
	return withCompletionContext(func(c *runtime.Context) []string {
		els, err := c.Elements.List()
		if err != nil {
			return nil
		}
		var completions []string
		for _, el := range els {
			if strings.HasPrefix(el.ID, toComplete) {
				completions = append(completions, el.ID+"\t"+el.Name)
			}
		}
		return completions
	})
}

// completeCheckpoints completes checkpoint names still in history.
func completeCheckpoints(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return withCompletionContext(func(c *runtime.Context) []string {
		var completions []string
		for _, e := range c.History.Checkpoints() {
			if strings.HasPrefix(e.CheckpointName, toComplete) {
				completions = append(completions, e.CheckpointName)
			}
		}
		return completions
	}), cobra.ShellCompDirectiveNoFileComp
}

// completeCommandIDs completes IDs of applied edits.
func completeCommandIDs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return withCompletionContext(func(c *runtime.Context) []string {
		var completions []string
		for _, e := range c.History.Entries() {
			if e.Executed && strings.HasPrefix(e.ID, toComplete) {
				completions = append(completions, e.ID+"\t"+e.Description)
			}
		}
		return completions
	}), cobra.ShellCompDirectiveNoFileComp
}

// completeCommandIDArgs completes a command ID in the first argument.
func completeCommandIDArgs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return completeCommandIDs(cmd, args, toComplete)
}

// completeSettingKeys completes setting keys in the first argument.
func completeSettingKeys(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var completions []string
	for _, key := range config.SettingKeys {
		if strings.HasPrefix(key, toComplete) {
			completions = append(completions, key)
		}
	}
	return completions, cobra.ShellCompDirectiveNoFileComp
}
