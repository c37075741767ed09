package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/keyframe-studio/keyframe/internal/command"
	"github.com/keyframe-studio/keyframe/internal/errors"
	"github.com/keyframe-studio/keyframe/internal/model"
)

// Import command flags.
var (
	importFlagDryRun bool
	importFlagForce  bool
)

// importCmd adds the elements of a backup to the stage.
var importCmd = &cobra.Command{
	Use:     "import FILE",
	Aliases: []string{"restore"},
	Short:   "Add the elements of an exported backup",
	Long: `Add the elements of a file written by 'keyframe export'. The import is a
single edit, so 'keyframe undo' takes it back. Elements whose ID is already
on the stage are skipped unless --force replaces them.

Examples:
  keyframe import scene1.json
  keyframe import scene1.json --dry-run
  keyframe import scene1.json --force`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().BoolVar(&importFlagDryRun, "dry-run", false, "Preview the import without making changes")
	importCmd.Flags().BoolVar(&importFlagForce, "force", false, "Replace elements that already exist")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return errors.NewUserErrorWithField("file", args[0], "cannot read backup file", "Check the file path").WithCause(err)
	}

	var backup Backup
	if err := json.Unmarshal(data, &backup); err != nil || backup.Version == "" {
		return errors.NewUserErrorWithField("file", args[0], "not a keyframe backup",
			"Create one with 'keyframe export -o FILE'")
	}

	group, skipped, err := planImport(backup.Elements, filepath.Base(args[0]))
	if err != nil {
		return err
	}
	for _, id := range skipped {
		ctx.Logger().Info("import skipped existing element", "element_id", id)
	}

	if len(group.Children) == 0 {
		if ctx.IsJSON() {
			return ctx.Formatter.JSON(map[string]any{"status": "unchanged", "skipped": skipped})
		}
		ctx.CLIFormatter().Muted(fmt.Sprintf("Nothing to import (%d already on stage)", len(skipped)))
		return nil
	}

	if importFlagDryRun {
		descs := make([]string, len(group.Children))
		for i, child := range group.Children {
			descs[i] = child.Info().Description
		}
		return printAction("Planned", descs...)
	}
	return record(group)
}

// planImport builds one group adding every element. Existing elements are
// replaced with --force and skipped otherwise.
func planImport(els []*model.Element, name string) (*command.Group, []string, error) {
	p := newPlanner(ctx.Elements)
	group := command.NewGroup(fmt.Sprintf("Import %s", name))
	var skipped []string

	for _, el := range els {
		if el == nil {
			continue
		}
		found, err := p.exists(el.ID)
		if err != nil {
			return nil, nil, err
		}
		if found {
			if !importFlagForce {
				skipped = append(skipped, el.ID)
				continue
			}
			rm, err := p.Remove(el.ID)
			if err != nil {
				return nil, nil, err
			}
			group.Add(rm)
		}

		add, err := p.AddElement(el.Clone())
		if err != nil {
			return nil, nil, errors.Wrapf(err, "element %q", el.ID)
		}
		group.Add(add)
	}
	return group, skipped, nil
}
