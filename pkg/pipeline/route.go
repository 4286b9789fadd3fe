package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/netarc/pkg/cache"
	"github.com/matzehuels/netarc/pkg/graph"
	"github.com/matzehuels/netarc/pkg/observability"
	"github.com/matzehuels/netarc/pkg/route"
)

// route routes every edge of a placed diagram. It returns the layout, the
// hash of the routed diagram and whether the layout came from cache.
func (r *Runner) route(ctx context.Context, d *graph.Diagram, opts Options) (graph.Layout, string, bool, time.Duration, error) {
	start := time.Now()
	work := withSampleDefault(d, opts.Samples)

	hash, err := hashDiagram(work)
	if err != nil {
		return graph.Layout{}, "", false, 0, err
	}
	key := r.Keyer.LayoutKey(hash, opts.LayoutKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if cached, err := graph.UnmarshalLayout(data); err == nil {
				return cached, hash, true, time.Since(start), nil
			}
		}
	}

	l, err := RouteDiagram(ctx, work, opts)
	if err != nil {
		return graph.Layout{}, hash, false, 0, err
	}

	if data, err := graph.MarshalLayout(l); err == nil {
		_ = r.Cache.Set(ctx, key, data, r.ttl(cache.LayoutTTL))
	}
	return l, hash, false, time.Since(start), nil
}

// RouteDiagram routes a placed diagram without caching.
func RouteDiagram(ctx context.Context, d *graph.Diagram, opts Options) (graph.Layout, error) {
	reg, err := d.Registry()
	if err != nil {
		return graph.Layout{}, err
	}
	specs := d.EdgeSpecs()

	hooks := observability.Pipeline()
	hooks.OnRouteStart(ctx, reg.Len(), len(specs))
	start := time.Now()

	sink := graph.NewLayoutSink(d, reg)
	rt := route.Router{Logger: opts.Logger, Parallelism: opts.Parallelism}
	sum, err := rt.Route(ctx, reg, specs, sink)
	hooks.OnRouteComplete(ctx, sum.Routed, time.Since(start), err)
	if err != nil {
		return graph.Layout{}, err
	}
	return sink.Layout(sum), nil
}

// withSampleDefault returns d with samples as its default edge sample
// count, unless the diagram sets its own. d itself is not modified.
func withSampleDefault(d *graph.Diagram, samples int) *graph.Diagram {
	if samples <= 0 || d.Defaults.Samples != nil {
		return d
	}
	work := *d
	work.Defaults.Samples = &samples
	return &work
}
