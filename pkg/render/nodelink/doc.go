// Package nodelink renders route graphs as node-link diagrams.
//
// # Overview
//
// Nodes appear as circles labeled with their ID and directed edges carry
// their weight. A chosen route can be highlighted and a trace step can be
// overlaid, showing the node just extracted, the edge being relaxed and the
// tentative distance of every reached node.
//
// # Usage
//
// Convert a graph to DOT, then render to SVG:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Highlight: path, Merge: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output, use the render functions:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0) // 2x scale
//
// # Options
//
//   - Highlight: route drawn in the accent color, endpoints double-circled
//   - Step: trace step overlay (extracted node, relaxed edge, distances)
//   - Merge: draw symmetric pairs with equal weight as one undirected line
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
