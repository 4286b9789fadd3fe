package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/matzehuels/netarc/pkg/cache"
	"github.com/matzehuels/netarc/pkg/graph"
	"github.com/matzehuels/netarc/pkg/observability"
	"github.com/matzehuels/netarc/pkg/render/nodelink"
)

// place fills in missing node coordinates. Cached entries hold the
// positions of the nodes placed by Graphviz, keyed by the unplaced diagram.
func (r *Runner) place(ctx context.Context, d *graph.Diagram, opts Options) (int, bool, time.Duration, error) {
	if d.Placed() {
		return 0, false, 0, nil
	}
	start := time.Now()

	hash, err := hashDiagram(d)
	if err != nil {
		return 0, false, 0, err
	}
	key := r.Keyer.PlacementKey(hash, opts.Engine)

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if n, ok := applyPositions(d, data); ok {
				return n, true, time.Since(start), nil
			}
			// Stale or foreign entry; fall through to recompute.
		}
	}

	hooks := observability.Pipeline()
	hooks.OnPlaceStart(ctx, opts.Engine, len(d.Nodes))
	unplaced := make(map[string]bool)
	for i := range d.Nodes {
		if !d.Nodes[i].Placed() {
			unplaced[d.Nodes[i].ID] = true
		}
	}
	n, err := nodelink.Place(ctx, d, opts.Engine)
	hooks.OnPlaceComplete(ctx, opts.Engine, time.Since(start), err)
	if err != nil {
		return 0, false, 0, err
	}

	pos := make(map[string]graph.Point, len(unplaced))
	for id, p := range d.Positions() {
		if unplaced[id] {
			pos[id] = graph.PointOf(p)
		}
	}
	if data, err := json.Marshal(pos); err == nil {
		_ = r.Cache.Set(ctx, key, data, r.ttl(cache.LayoutTTL))
	}
	return n, false, time.Since(start), nil
}

// applyPositions sets cached positions on the unplaced nodes of d. It
// changes nothing unless the entry covers every unplaced node.
func applyPositions(d *graph.Diagram, data []byte) (int, bool) {
	var pos map[string]graph.Point
	if err := json.Unmarshal(data, &pos); err != nil {
		return 0, false
	}
	for i := range d.Nodes {
		if _, ok := pos[d.Nodes[i].ID]; !ok && !d.Nodes[i].Placed() {
			return 0, false
		}
	}
	n := 0
	for i := range d.Nodes {
		if !d.Nodes[i].Placed() {
			d.Nodes[i].SetCenter(pos[d.Nodes[i].ID].Vec())
			n++
		}
	}
	return n, true
}

// hashDiagram is the content hash of a diagram's canonical JSON form.
func hashDiagram(d *graph.Diagram) (string, error) {
	data, err := graph.MarshalDiagram(d)
	if err != nil {
		return "", err
	}
	return cache.Hash(data), nil
}
