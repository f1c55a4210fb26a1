// Package render turns graphs and traces into pictures.
//
// The [nodelink] subpackage produces Graphviz DOT source for a graph, with
// an optional highlighted route and per-step trace annotations, and renders
// it to SVG in-process:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Highlight: path})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [ToPDF] and [ToPNG] convert any SVG to other formats using the external
// rsvg-convert tool (from librsvg):
//
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0) // 2x scale
package render
