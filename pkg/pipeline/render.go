package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/netarc/pkg/cache"
	"github.com/matzehuels/netarc/pkg/errors"
	"github.com/matzehuels/netarc/pkg/graph"
	"github.com/matzehuels/netarc/pkg/observability"
	"github.com/matzehuels/netarc/pkg/render"
	"github.com/matzehuels/netarc/pkg/render/nodelink"
	"github.com/matzehuels/netarc/pkg/render/raster"
	"github.com/matzehuels/netarc/pkg/render/svg"
)

// render produces every requested format, reading and filling the
// artifact cache per format. The bool reports whether all came from cache.
func (r *Runner) render(ctx context.Context, l graph.Layout, opts Options) (map[string][]byte, bool, time.Duration, error) {
	start := time.Now()

	layoutData, err := graph.MarshalLayout(l)
	if err != nil {
		return nil, false, 0, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)

	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit && !opts.Refresh {
			artifacts[format] = data
			continue
		}
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		return artifacts, true, time.Since(start), nil
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, missing)
	rendered, err := Render(ctx, l, missing, opts)
	hooks.OnRenderComplete(ctx, missing, time.Since(start), err)
	if err != nil {
		return nil, false, 0, err
	}

	for format, data := range rendered {
		artifacts[format] = data
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		_ = r.Cache.Set(ctx, key, data, r.ttl(cache.ArtifactTTL))
	}
	return artifacts, false, time.Since(start), nil
}

// Render generates output artifacts in the given formats without caching.
func Render(ctx context.Context, l graph.Layout, formats []string, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(formats))
	var svgData []byte

	for _, format := range formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = renderSVG(l, opts)
			svgData = data
		case FormatPNG:
			data, err = raster.Render(l, raster.WithScale(opts.Scale), raster.WithBackground(opts.Background))
		case FormatPDF:
			if svgData == nil {
				svgData = renderSVG(l, opts)
			}
			data, err = render.ToPDF(ctx, svgData)
		case FormatDOT:
			data = []byte(nodelink.ToDOT(l, nodelink.Options{Labels: opts.Labels}))
		case FormatJSON:
			data, err = graph.MarshalLayout(l)
		default:
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

func renderSVG(l graph.Layout, opts Options) []byte {
	var svgOpts []svg.Option
	if opts.Background != "" {
		svgOpts = append(svgOpts, svg.WithBackground(opts.Background))
	}
	if opts.Labels {
		svgOpts = append(svgOpts, svg.WithLabels())
	}
	return svg.Render(l, svgOpts...)
}
