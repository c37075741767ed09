package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/keyframe-studio/keyframe/internal/command"
	"github.com/keyframe-studio/keyframe/internal/errors"
	"github.com/keyframe-studio/keyframe/internal/model"
	"github.com/keyframe-studio/keyframe/internal/validate"
)

var batchFlagDryRun bool

// batchCmd runs a file of edits as one undoable step.
var batchCmd = &cobra.Command{
	Use:   "batch FILE",
	Short: "Run a YAML file of edits as one undoable step",
	Long: `Run several edits as a single history entry. If any edit fails, the ones
already applied are rolled back and nothing is recorded. Use - to read from
standard input.

File format:
  description: Block out scene one
  operations:
    - op: add
      id: hero
      name: Hero
      x: 10
      y: 20
    - op: set
      id: hero
      property: opacity
      value: 0.5
    - op: move
      id: hero
      x: 40
      y: 20
    - op: layer
      id: hero
      layer: 2
    - op: apply
      id: hero
      solution: ghost
      properties: {opacity: 0.3}
    - op: remove
      id: extra

Examples:
  keyframe batch scene1.yaml
  keyframe batch --dry-run scene1.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().BoolVarP(&batchFlagDryRun, "dry-run", "n", false, "Show the planned edits without applying them")
	rootCmd.AddCommand(batchCmd)
}

// batchFile is the on-disk batch format.
type batchFile struct {
	Description string    `yaml:"description"`
	Operations  []batchOp `yaml:"operations"`
}

// batchOp is one edit in a batch file. Which fields apply depends on Op.
type batchOp struct {
	Op         string         `yaml:"op"`
	ID         string         `yaml:"id"`
	Name       string         `yaml:"name"`
	Kind       string         `yaml:"kind"`
	X          float64        `yaml:"x"`
	Y          float64        `yaml:"y"`
	Layer      int            `yaml:"layer"`
	Property   string         `yaml:"property"`
	Value      any            `yaml:"value"`
	Solution   string         `yaml:"solution"`
	Properties map[string]any `yaml:"properties"`
}

func runBatch(cmd *cobra.Command, args []string) error {
	path := args[0]
	var r io.Reader = cmd.InOrStdin()
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return errors.NewUserErrorWithField("file", path, "cannot open batch file", "Check the file path").WithCause(err)
		}
		defer f.Close()
		r = f
	}

	file, err := readBatch(r)
	if err != nil {
		return err
	}
	group, err := planBatch(newPlanner(ctx.Elements), file, batchName(path))
	if err != nil {
		return err
	}

	if batchFlagDryRun {
		descs := make([]string, len(group.Children))
		for i, child := range group.Children {
			descs[i] = child.Info().Description
		}
		return printAction("Planned", descs...)
	}
	return record(group)
}

func batchName(path string) string {
	if path == "-" {
		return "stdin"
	}
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

// readBatch decodes a batch file.
func readBatch(r io.Reader) (*batchFile, error) {
	var file batchFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && err != io.EOF {
		return nil, errors.NewUserError("cannot parse batch file: "+err.Error(),
			"See 'keyframe batch --help' for the file format")
	}
	return &file, nil
}

// planBatch turns file into one group. Every operation is validated against
// the stage as the earlier operations leave it.
func planBatch(p *planner, file *batchFile, name string) (*command.Group, error) {
	if len(file.Operations) == 0 {
		return nil, errors.Wrapf(errors.ErrEmptyGroup, "batch %s", name)
	}

	desc := validate.SanitizeDescription(file.Description)
	if desc == "" {
		desc = fmt.Sprintf("Batch %s (%d edits)", name, len(file.Operations))
	}

	group := command.NewGroup(desc)
	for i, op := range file.Operations {
		c, err := planOp(p, op)
		if err != nil {
			return nil, errors.Wrapf(err, "operation %d (%s)", i+1, op.Op)
		}
		group.Add(c)
	}
	return group, nil
}

func planOp(p *planner, op batchOp) (command.Command, error) {
	switch strings.ToLower(op.Op) {
	case "add":
		return p.Add(op.ID, op.Name, op.Kind, model.Position{X: op.X, Y: op.Y}, op.Layer)
	case "remove":
		return p.Remove(op.ID)
	case "set":
		return p.Set(op.ID, op.Property, model.NormalizeValue(op.Value))
	case "move":
		return p.Move(op.ID, model.Position{X: op.X, Y: op.Y})
	case "layer":
		return p.Layer(op.ID, op.Layer)
	case "apply":
		props := make(map[string]any, len(op.Properties))
		for k, v := range op.Properties {
			props[k] = model.NormalizeValue(v)
		}
		return p.Apply(op.ID, model.Solution{Name: op.Solution, Properties: props})
	}
	return nil, errors.NewUserErrorWithField("op", op.Op, "unknown batch operation",
		"Operations are add, remove, set, move, layer and apply")
}
