package nodelink

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/netarc/pkg/errors"
	"github.com/matzehuels/netarc/pkg/graph"
)

// Placement engines.
const (
	EngineNeato = "neato"
	EngineDot   = "dot"
)

// ValidEngines lists the supported placement engines.
var ValidEngines = map[string]bool{EngineNeato: true, EngineDot: true}

// defaultNodeRadius is the view radius used to space nodes without one.
const defaultNodeRadius = 12.0

// Place computes positions for the nodes of d that have none, using
// Graphviz. Positions are written in inches, which become the diagram's
// world units.
//
// With neato, already placed nodes are pinned and keep their coordinates.
// The dot engine cannot pin nodes, so it requires a fully unplaced diagram.
// Place reports how many nodes it positioned.
func Place(ctx context.Context, d *graph.Diagram, engine string) (int, error) {
	if engine == "" {
		engine = EngineNeato
	}
	if err := errors.ValidateFormat(engine, ValidEngines); err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidInput, err, "placement engine")
	}

	missing := 0
	for i := range d.Nodes {
		if !d.Nodes[i].Placed() {
			missing++
		}
	}
	if missing == 0 {
		return 0, nil
	}
	if engine == EngineDot && missing != len(d.Nodes) {
		return 0, errors.New(errors.ErrCodeInvalidInput,
			"dot placement cannot keep %d fixed nodes; use neato", len(d.Nodes)-missing)
	}

	layout := graphviz.NEATO
	if engine == EngineDot {
		layout = graphviz.DOT
	}
	out, err := run(ctx, placementDOT(d), layout, graphviz.Format("plain"))
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInternal, err, "graphviz placement")
	}
	pos, err := parsePlain(out)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInternal, err, "read graphviz placement")
	}

	placed := 0
	for i := range d.Nodes {
		n := &d.Nodes[i]
		if n.Placed() {
			continue
		}
		p, ok := pos[n.ID]
		if !ok {
			return placed, errors.New(errors.ErrCodeInternal, "graphviz returned no position for %q", n.ID)
		}
		n.SetCenter(p)
		placed++
	}
	return placed, nil
}

// placementDOT describes the diagram topology. Node sizes come from the
// view radii so that large nodes get more room.
func placementDOT(d *graph.Diagram) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  overlap=false;\n")
	buf.WriteString("  node [shape=circle, fixedsize=true, label=\"\"];\n")
	for i := range d.Nodes {
		n := &d.Nodes[i]
		r := n.Radius
		if r <= 0 {
			r = defaultNodeRadius
		}
		attrs := []string{fmt.Sprintf("width=%.4f", 2*r/pointsPerInch)}
		if n.Placed() {
			c := n.Center()
			attrs = append(attrs, fmt.Sprintf("pos=\"%g,%g!\"", c.X, c.Y))
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}
	for _, e := range d.Edges {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
	}
	buf.WriteString("}\n")
	return buf.String()
}

// parsePlain reads node centres from Graphviz "plain" output:
//
//	graph scale width height
//	node name x y width height label style shape color fillcolor
//	edge tail head n x1 y1 ... style color
//	stop
func parsePlain(out []byte) (map[string]r2.Vec, error) {
	pos := make(map[string]r2.Vec)
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		fields := splitPlain(sc.Text())
		if len(fields) == 0 || fields[0] != "node" {
			continue
		}
		if len(fields) < 4 {
			return nil, fmt.Errorf("short node line %q", sc.Text())
		}
		x, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, fmt.Errorf("node %s: x: %w", fields[1], err)
		}
		y, err := strconv.ParseFloat(fields[3], 64)
		if err != nil {
			return nil, fmt.Errorf("node %s: y: %w", fields[1], err)
		}
		pos[fields[1]] = r2.Vec{X: x, Y: y}
	}
	return pos, sc.Err()
}

// splitPlain splits a plain-format line on spaces, keeping double-quoted
// fields together and unescaping \" inside them.
func splitPlain(line string) []string {
	var fields []string
	var cur strings.Builder
	inQuote, escaped, started := false, false, false
	for _, r := range line {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case inQuote && r == '\\':
			escaped = true
		case r == '"':
			inQuote = !inQuote
			started = true
		case r == ' ' && !inQuote:
			if started {
				fields = append(fields, cur.String())
				cur.Reset()
				started = false
			}
		default:
			cur.WriteRune(r)
			started = true
		}
	}
	if started {
		fields = append(fields, cur.String())
	}
	return fields
}
