package nodelink

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/routetrace/pkg/graph"
	"github.com/matzehuels/routetrace/pkg/trace"
)

// Colors used in diagrams.
const (
	colorRoute     = "#d62828"
	colorRouteFill = "#cfe8ff"
	colorExtracted = "#ffd166"
	colorBetter    = "#2a9d8f"
	colorTie       = "#f4a261"
	colorNone      = "#adb5bd"
	colorFinal     = "#e9ecef"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Highlight is a route to draw in the accent color.
	Highlight trace.Path
	// Step overlays the state of a trace at one step.
	Step *trace.Step
	// Merge draws two opposite edges with equal weight as a single
	// undirected line.
	Merge bool
}

// ToDOT converts a graph to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG], [RenderPDF], or [RenderPNG].
func ToDOT(g *graph.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=16, width=0.6, fixedsize=false];\n")
	buf.WriteString("  edge [fontsize=12, arrowsize=0.7];\n")
	buf.WriteString("  nodesep=0.4;\n")
	buf.WriteString("\n")

	route := routeEdges(opts.Highlight)
	onRoute := make(map[string]bool, len(opts.Highlight))
	for _, id := range opts.Highlight {
		onRoute[id] = true
	}

	for _, n := range g.Nodes() {
		attrs := nodeAttrs(n.ID, opts, onRoute)
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	drawn := make(map[graph.EdgeKey]bool)
	for _, e := range g.Edges() {
		if drawn[e.Key()] {
			continue
		}
		undirected := false
		if opts.Merge {
			if back, ok := g.Edge(e.To, e.From); ok && back.Weight == e.Weight {
				undirected = true
				drawn[back.Key()] = true
			}
		}
		drawn[e.Key()] = true

		attrs := edgeAttrs(e, undirected, opts, route)
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.From, e.To, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func routeEdges(p trace.Path) map[graph.EdgeKey]bool {
	out := make(map[graph.EdgeKey]bool, len(p))
	for i := 0; i+1 < len(p); i++ {
		out[graph.EdgeKey{From: p[i], To: p[i+1]}] = true
	}
	return out
}

func nodeAttrs(id string, opts Options, onRoute map[string]bool) []string {
	label := id
	if s := opts.Step; s != nil && s.Dist.Reached(id) {
		label = id + "\n" + graph.FormatWeight(s.Dist.Get(id))
	}
	attrs := []string{fmt.Sprintf("label=%q", label)}

	switch {
	case opts.Step != nil && opts.Step.Type == trace.StepExtract && opts.Step.Extracted == id:
		attrs = append(attrs, "fillcolor=\""+colorExtracted+"\"")
	case onRoute[id]:
		attrs = append(attrs, "fillcolor=\""+colorRouteFill+"\"", "color=\""+colorRoute+"\"")
	case opts.Step != nil && inQueue(opts.Step, id):
		attrs = append(attrs, "style=\"filled,dashed\"")
	case opts.Step != nil && opts.Step.Dist.Reached(id):
		attrs = append(attrs, "fillcolor=\""+colorFinal+"\"")
	}
	if n := len(opts.Highlight); n > 0 && (opts.Highlight[0] == id || opts.Highlight[n-1] == id) {
		attrs = append(attrs, "peripheries=2")
	}
	return attrs
}

func edgeAttrs(e graph.Edge, undirected bool, opts Options, route map[graph.EdgeKey]bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", graph.FormatWeight(e.Weight))}
	if undirected {
		attrs = append(attrs, "dir=none")
	}

	onRoute := route[e.Key()] || (undirected && route[e.Key().Reverse()])
	if onRoute {
		attrs = append(attrs, "color=\""+colorRoute+"\"", "fontcolor=\""+colorRoute+"\"", "penwidth=3")
	}

	if s := opts.Step; s != nil && s.Edge != nil {
		k := s.Edge.Key()
		if k == e.Key() || (undirected && k == e.Key().Reverse()) {
			attrs = append(attrs, "color=\""+stepColor(s.Type)+"\"", "penwidth=3", "style=bold")
		}
	}
	return attrs
}

func stepColor(t trace.StepType) string {
	switch t {
	case trace.StepRelaxBetter:
		return colorBetter
	case trace.StepRelaxTie:
		return colorTie
	default:
		return colorNone
	}
}

func inQueue(s *trace.Step, id string) bool {
	for _, q := range s.Queue {
		if q.Node == id {
			return true
		}
	}
	return false
}
