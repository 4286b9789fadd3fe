package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/netarc/pkg/cache"
	"github.com/matzehuels/netarc/pkg/graph"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it so that caching behaves the same everywhere.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different diagrams.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL overrides the expiry of cache entries. Zero keeps the per-type
	// defaults.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete place → route → render pipeline with caching.
// Nodes without coordinates are placed in d itself.
func (r *Runner) Execute(ctx context.Context, d *graph.Diagram, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}

	result := &Result{Artifacts: make(map[string][]byte)}
	result.Stats.NodeCount = len(d.Nodes)
	result.Stats.EdgeCount = len(d.Edges)

	// Stage 1: Place
	placed, placeHit, dur, err := r.place(ctx, d, opts)
	if err != nil {
		return nil, fmt.Errorf("place: %w", err)
	}
	result.Stats.Placed = placed
	result.Stats.PlaceTime = dur
	result.CacheInfo.PlaceHit = placeHit
	if placed > 0 {
		r.Logger.Info("placed nodes",
			"engine", opts.Engine,
			"nodes", placed,
			"cached", placeHit,
			"duration", dur)
	}

	// Stage 2: Route
	layout, hash, routeHit, dur, err := r.route(ctx, d, opts)
	if err != nil {
		return nil, fmt.Errorf("route: %w", err)
	}
	result.DiagramHash = hash
	result.Layout = layout
	result.Stats.RouteTime = dur
	result.Stats.Routed = len(layout.Edges)
	result.Stats.Skipped = len(layout.Skipped)
	for _, e := range layout.Edges {
		if e.CrossingExhausted || e.SelfCoverExhausted {
			result.Stats.Exhausted++
		}
	}
	result.CacheInfo.RouteHit = routeHit

	r.Logger.Info("routed edges",
		"edges", result.Stats.Routed,
		"skipped", result.Stats.Skipped,
		"exhausted", result.Stats.Exhausted,
		"cached", routeHit,
		"duration", dur)

	// Stage 3: Render
	artifacts, renderHit, dur, err := r.render(ctx, layout, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = dur
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", dur)

	return result, nil
}

// Place positions the unplaced nodes of d with caching. It reports the
// number of nodes positioned and whether the positions came from cache.
func (r *Runner) Place(ctx context.Context, d *graph.Diagram, opts Options) (int, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return 0, false, err
	}
	n, hit, _, err := r.place(ctx, d, opts)
	return n, hit, err
}

// Route routes the edges of a placed diagram with caching.
func (r *Runner) Route(ctx context.Context, d *graph.Diagram, opts Options) (graph.Layout, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return graph.Layout{}, false, err
	}
	l, _, hit, _, err := r.route(ctx, d, opts)
	return l, hit, err
}

// Render produces every format in opts from a routed layout with caching.
func (r *Runner) Render(ctx context.Context, l graph.Layout, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	artifacts, hit, _, err := r.render(ctx, l, opts)
	return artifacts, hit, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// ttl returns the expiry for an entry with the given default.
func (r *Runner) ttl(def time.Duration) time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return def
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
