// Package cli implements the netarc command-line interface.
package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/netarc/internal/config"
	"github.com/matzehuels/netarc/pkg/buildinfo"
	"github.com/matzehuels/netarc/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "netarc"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Out receives command output; Err receives progress and logs.
	Out io.Writer
	Err io.Writer

	configPath string
	config     *config.Config
}

// New creates a new CLI instance with a default logger writing to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Out:    os.Stdout,
		Err:    w,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "netarc routes the edges of network diagrams",
		Long:         `netarc routes the edges of directed network diagrams as curved arcs that bend around unrelated nodes, stay visible next to large endpoints and carry an arrowhead at a visible point.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/netarc/config.toml)")

	// Register all subcommands
	root.AddCommand(c.routeCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.placeCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config & Runner Factory
// =============================================================================

// loadConfig reads the config once per invocation.
func (c *CLI) loadConfig() (*config.Config, error) {
	if c.config != nil {
		return c.config, nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	c.config = cfg
	return cfg, nil
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, *config.Config, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	if noCache {
		return pipeline.NewRunner(nil, nil, c.Logger), cfg, nil
	}
	cc, err := cfg.OpenCache("")
	if err != nil {
		c.Logger.Warn("cache disabled", "error", err)
		return pipeline.NewRunner(nil, nil, c.Logger), cfg, nil
	}
	r := pipeline.NewRunner(cc, nil, c.Logger)
	r.TTL = cfg.Cache.TTL
	return r, cfg, nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// pipelineFlags are the flags shared by route and render.
type pipelineFlags struct {
	engine      string
	samples     int
	parallelism int
	noCache     bool
	refresh     bool
}

func (f *pipelineFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.engine, "engine", "", "placement engine for nodes without coordinates: neato, dot")
	cmd.Flags().IntVar(&f.samples, "samples", 0, "points per edge for edges that set none")
	cmd.Flags().IntVarP(&f.parallelism, "parallelism", "j", 0, "edges routed at once (default GOMAXPROCS)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "ignore cached results")
}

// options merges the flags over the config file defaults.
func (f *pipelineFlags) options(cfg *config.Config) pipeline.Options {
	opts := pipeline.Options{
		Engine:      cfg.Router.Engine,
		Samples:     cfg.Router.Samples,
		Parallelism: cfg.Router.Parallelism,
		Refresh:     f.refresh,
	}
	if f.engine != "" {
		opts.Engine = f.engine
	}
	if f.samples > 0 {
		opts.Samples = f.samples
	}
	if f.parallelism > 0 {
		opts.Parallelism = f.parallelism
	}
	return opts
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(strings.ToLower(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// outputBase strips the extension from input to name outputs.
func outputBase(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input))
}
