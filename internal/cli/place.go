package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/netarc/pkg/graph"
)

// placeCommand creates the place command for filling in node coordinates.
func (c *CLI) placeCommand() *cobra.Command {
	var (
		flags  pipelineFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "place [file]",
		Short: "Lay out nodes without coordinates using Graphviz",
		Long: `Lay out a diagram with Graphviz and write it back with every node placed.

With the neato engine, nodes that already have coordinates stay pinned.
The dot engine requires a diagram without any positions. The output format
follows the extension of the output file.`,
		Example: `  # Place nodes, writing net.placed.yaml
  netarc place net.yaml

  # Hierarchical layout, printed as JSON
  netarc place net.json --engine dot -o -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPlace(cmd.Context(), args[0], output, &flags)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <file>.placed.<ext>, - for stdout)")

	return cmd
}

func (c *CLI) runPlace(ctx context.Context, input, output string, flags *pipelineFlags) error {
	d, err := graph.ReadDiagramFile(input)
	if err != nil {
		return err
	}

	runner, cfg, err := c.newRunner(flags.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	placed, hit, err := runner.Place(ctx, d, flags.options(cfg))
	if err != nil {
		return fmt.Errorf("place: %w", err)
	}
	prog.done("placed", "nodes", placed)

	if output == "-" {
		return graph.WriteDiagram(d, c.Out, graph.FormatJSON)
	}
	if output == "" {
		output = outputBase(input) + ".placed." + graph.FormatFromPath(input)
	}
	if err := graph.WriteDiagramFile(d, output); err != nil {
		return err
	}

	if placed == 0 {
		printSuccess(c.Out, "All %d nodes already placed", len(d.Nodes))
	} else {
		status := "fresh"
		if hit {
			status = "cached"
		}
		printSuccess(c.Out, "Placed %d of %d nodes (%s)", placed, len(d.Nodes), status)
	}
	printFile(c.Out, output)
	return nil
}
