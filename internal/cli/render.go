package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/netarc/pkg/graph"
	"github.com/matzehuels/netarc/pkg/pipeline"
)

// renderFlags holds the options of the render command.
type renderFlags struct {
	pipelineFlags
	output     string
	formats    string
	labels     bool
	background string
	scale      float64
}

// renderCommand creates the render command for producing diagram images.
func (c *CLI) renderCommand() *cobra.Command {
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Route a diagram and render it to SVG, PNG, PDF, DOT or JSON",
		Long: `Route a diagram and render the result.

Multiple formats can be rendered at once. With a single format, -o names the
output file exactly; with several, its extension is replaced per format.
PDF output requires rsvg-convert on the PATH.`,
		Example: `  # Render to net.svg
  netarc render net.yaml

  # Render SVG and PNG with node labels
  netarc render net.yaml -f svg,png --labels -o out/net`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], &flags)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file or base name")
	cmd.Flags().StringVarP(&flags.formats, "format", "f", "", "output formats, comma separated: "+pipeline.FormatList()+" (default svg)")
	cmd.Flags().BoolVar(&flags.labels, "labels", false, "draw node labels")
	cmd.Flags().StringVar(&flags.background, "background", "", "background colour (default white for png, none for svg)")
	cmd.Flags().Float64Var(&flags.scale, "scale", 0, "pixels per view unit for png output (default 2)")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, flags *renderFlags) error {
	formats := parseFormats(flags.formats)
	if err := pipeline.ValidateFormats(formats); err != nil {
		return err
	}

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
	opts.Formats = formats
	opts.Labels = flags.labels
	opts.Background = flags.background
	opts.Scale = flags.scale

	spin := newSpinner(ctx, c.Err, "Rendering "+filepath.Base(input))
	spin.Start()
	res, err := runner.Execute(ctx, d, opts)
	spin.Stop()
	if err != nil {
		if spin.Cancelled() {
			return context.Canceled
		}
		return err
	}

	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		path := outputPath(input, flags.output, format, len(formats) > 1)
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}
		}
		if err := os.WriteFile(path, res.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", format, err)
		}
		paths = append(paths, path)
	}

	printSuccess(c.Out, "Rendered %s", input)
	printStats(c.Out, res.Stats.Routed, res.Stats.Skipped, res.Stats.Exhausted, res.CacheInfo.RouteHit)
	for _, p := range paths {
		printFile(c.Out, p)
	}
	c.printSkipped(res.Layout)
	return nil
}

// outputPath names the file for one rendered format. The JSON layout gets a
// ".layout.json" suffix so it never overwrites a JSON diagram input.
func outputPath(input, output, format string, multi bool) string {
	if output != "" && !multi {
		return output
	}
	base := outputBase(input)
	if output != "" {
		base = outputBase(output)
	}
	if format == pipeline.FormatJSON {
		return base + ".layout.json"
	}
	return base + "." + format
}
