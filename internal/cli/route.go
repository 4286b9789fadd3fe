package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/netarc/pkg/graph"
)

// routeCommand creates the route command for computing edge geometry.
func (c *CLI) routeCommand() *cobra.Command {
	var (
		flags  pipelineFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "route [file]",
		Short: "Route the edges of a diagram and write the layout as JSON",
		Long: `Route every edge of a diagram as a curved arc and write the resulting layout.

Nodes without coordinates are placed first. The layout holds the sampled
polyline, the final curvature and the arrow segment of every routed edge.`,
		Example: `  # Route a diagram, writing net.layout.json
  netarc route net.yaml

  # Print the layout to stdout
  netarc route net.json -o -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRoute(cmd.Context(), args[0], output, &flags)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <file>.layout.json, - for stdout)")

	return cmd
}

func (c *CLI) runRoute(ctx context.Context, input, output string, flags *pipelineFlags) error {
	d, err := graph.ReadDiagramFile(input)
	if err != nil {
		return err
	}

	runner, cfg, err := c.newRunner(flags.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()
	opts := flags.options(cfg)

	prog := newProgress(c.Logger)
	if !d.Placed() {
		placed, hit, err := runner.Place(ctx, d, opts)
		if err != nil {
			return fmt.Errorf("place: %w", err)
		}
		c.Logger.Debug("placed nodes", "count", placed, "cached", hit)
	}

	layout, hit, err := runner.Route(ctx, d, opts)
	if err != nil {
		return fmt.Errorf("route: %w", err)
	}
	prog.done("routed", "edges", len(layout.Edges))

	if output == "-" {
		data, err := graph.MarshalLayout(layout)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(c.Out, string(data))
		return err
	}
	if output == "" {
		output = outputBase(input) + ".layout.json"
	}
	if err := graph.WriteLayoutFile(layout, output); err != nil {
		return err
	}

	printSuccess(c.Out, "Routed %s", input)
	printStats(c.Out, len(layout.Edges), len(layout.Skipped), countExhausted(layout), hit)
	printFile(c.Out, output)
	c.printSkipped(layout)
	return nil
}

// countExhausted counts edges where either avoidance search gave up.
func countExhausted(l graph.Layout) int {
	n := 0
	for _, e := range l.Edges {
		if e.CrossingExhausted || e.SelfCoverExhausted {
			n++
		}
	}
	return n
}

func (c *CLI) printSkipped(l graph.Layout) {
	for _, s := range l.Skipped {
		printWarning(c.Out, "skipped %s → %s: %s", s.From, s.To, s.Reason)
	}
}
