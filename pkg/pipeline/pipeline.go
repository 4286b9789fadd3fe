// Package pipeline provides the place → route → render pipeline for netarc.
//
// The CLI and the HTTP API both run diagrams through this package, so that
// defaults, caching and output formats behave the same at every entry point.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Place: compute coordinates for nodes that have none (Graphviz)
//  2. Route: bow every edge around the nodes and place its arrow
//  3. Render: produce the requested outputs (SVG, PNG, PDF, DOT, JSON)
//
// Each stage is cached independently. Placement and routing are keyed by a
// hash of the diagram, rendering by a hash of the routed layout.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, diagram, pipeline.Options{
//	    Formats: []string{pipeline.FormatSVG},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/netarc/pkg/cache"
	"github.com/matzehuels/netarc/pkg/errors"
	"github.com/matzehuels/netarc/pkg/graph"
	"github.com/matzehuels/netarc/pkg/render/nodelink"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultEngine is the Graphviz engine used to place unplaced nodes.
	DefaultEngine = nodelink.EngineNeato

	// DefaultScale is the PNG resolution multiplier.
	DefaultScale = 2.0
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatDOT  = "dot"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatDOT:  true,
	FormatJSON: true,
}

// ContentTypes maps output formats to their MIME types.
var ContentTypes = map[string]string{
	FormatSVG:  "image/svg+xml",
	FormatPNG:  "image/png",
	FormatPDF:  "application/pdf",
	FormatDOT:  "text/vnd.graphviz",
	FormatJSON: "application/json",
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Place options
	Engine string `json:"engine,omitempty"`

	// Route options
	Parallelism int  `json:"parallelism,omitempty"`
	Samples     int  `json:"samples,omitempty"` // Default samples for edges that set none
	Refresh     bool `json:"refresh,omitempty"`

	// Render options
	Formats    []string `json:"formats,omitempty"`
	Labels     bool     `json:"labels,omitempty"`
	Background string   `json:"background,omitempty"`
	Scale      float64  `json:"scale,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// DiagramHash is the content hash of the placed diagram.
	DiagramHash string

	// Layout is the routed geometry.
	Layout graph.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	Placed     int // Nodes positioned by Graphviz
	Routed     int
	Skipped    int
	Exhausted  int
	PlaceTime  time.Duration
	RouteTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	PlaceHit  bool
	RouteHit  bool
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	return errors.ValidateFormat(format, ValidFormats)
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateEngine checks that a placement engine is valid.
func ValidateEngine(engine string) error {
	return errors.ValidateFormat(engine, nodelink.ValidEngines)
}

// FormatList returns the supported formats as a sorted, comma separated
// string for help texts.
func FormatList() string {
	names := make([]string, 0, len(ValidFormats))
	for f := range ValidFormats {
		names = append(names, f)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the options and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Engine == "" {
		o.Engine = DefaultEngine
	}
	if err := ValidateEngine(o.Engine); err != nil {
		return err
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Parallelism < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "parallelism must not be negative, got %d", o.Parallelism)
	}
	if o.Samples < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "samples must not be negative, got %d", o.Samples)
	}
	if o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scale must not be negative, got %v", o.Scale)
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// LayoutKeyOpts returns cache key options for routing.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{Engine: o.Engine, Samples: o.Samples}
}

// ArtifactKeyOpts returns cache key options for rendering one format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{Format: format, Labels: o.Labels, Background: o.Background}
	if format == FormatPNG {
		opts.Scale = o.Scale
	}
	return opts
}
