package route

import (
	"context"
	"fmt"
	"io"
	"runtime"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/netarc/pkg/network"
	"github.com/matzehuels/netarc/pkg/observability"
)

// Router routes a batch of edges against one registry.
type Router struct {
	// Logger receives per-edge debug output and warnings. Nil is silent.
	Logger *log.Logger

	// Parallelism bounds the number of edges routed at once.
	// Zero uses GOMAXPROCS.
	Parallelism int
}

// Skip records an edge dropped because of a missing endpoint.
type Skip struct {
	Index    int
	From, To string
	Reason   string
}

// Summary describes a routed batch.
type Summary struct {
	Edges      int
	Routed     int
	Exhausted  int
	Degenerate int
	Iterations int
	Skipped    []Skip
}

// Route routes every spec and emits the results to sink in spec order.
// Routing is parallel; emission is not. A nil sink discards geometry.
//
// The first configuration error aborts the batch. Exhausted searches are
// logged and counted, never fatal.
func (rt *Router) Route(ctx context.Context, reg *network.Registry, specs []network.EdgeSpec, sink Sink) (Summary, error) {
	results := make([]Result, len(specs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(rt.parallelism())
	for i, spec := range specs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := Route(reg, spec)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}

	hooks := observability.Route()
	sum := Summary{Edges: len(specs)}
	for i, res := range results {
		if res.Skipped {
			rt.logger().Warn("skipping edge", "from", res.Spec.From, "to", res.Spec.To, "reason", res.SkipReason)
			hooks.OnEdgeSkipped(ctx, res.Spec.From, res.Spec.To, res.SkipReason)
			sum.Skipped = append(sum.Skipped, Skip{Index: i, From: res.Spec.From, To: res.Spec.To, Reason: res.SkipReason})
			continue
		}

		rt.report(ctx, res)
		sum.Routed++
		sum.Iterations += res.Iterations()
		if res.Exhausted() {
			sum.Exhausted++
		}
		if res.Degenerate {
			sum.Degenerate++
		}

		if sink == nil {
			continue
		}
		ref := refOf(i, res)
		if err := sink.EmitPolyline(ref, res.Polyline.DrawPoints()); err != nil {
			return sum, fmt.Errorf("emit edge %s->%s: %w", res.Spec.From, res.Spec.To, err)
		}
		if res.Arrow != nil {
			if err := sink.EmitArrow(ref, *res.Arrow); err != nil {
				return sum, fmt.Errorf("emit arrow %s->%s: %w", res.Spec.From, res.Spec.To, err)
			}
		}
	}
	return sum, nil
}

func (rt *Router) report(ctx context.Context, res Result) {
	logger := rt.logger()
	hooks := observability.Route()
	from, to := res.Spec.From, res.Spec.To

	if res.CrossingExhausted {
		logger.Warn("crossing search exhausted", "from", from, "to", to, "curvature", res.Curvature)
		hooks.OnSearchExhausted(ctx, from, to, observability.PassCrossing)
	}
	if res.SelfCoverExhausted {
		logger.Warn("self-cover search exhausted", "from", from, "to", to, "curvature", res.Curvature)
		hooks.OnSearchExhausted(ctx, from, to, observability.PassSelfCover)
	}
	if res.Degenerate {
		logger.Debug("degenerate edge", "from", from, "to", to)
	}
	logger.Debug("routed edge", "from", from, "to", to,
		"curvature", res.Curvature, "requested", res.Spec.Curvature,
		"iterations", res.Iterations(), "domain", res.Domain.Kind)
	hooks.OnEdgeRouted(ctx, from, to, res.Curvature, res.Iterations())
}

func (rt *Router) parallelism() int {
	if rt.Parallelism > 0 {
		return rt.Parallelism
	}
	return runtime.GOMAXPROCS(0)
}

var discard = log.New(io.Discard)

func (rt *Router) logger() *log.Logger {
	if rt.Logger != nil {
		return rt.Logger
	}
	return discard
}
