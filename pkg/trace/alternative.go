package trace

import "github.com/matzehuels/routetrace/pkg/graph"

// Alternative is a route that avoids at least one edge of the best path.
// Its cost may equal the best cost when the graph holds ties.
type Alternative struct {
	Path Path    `json:"path"`
	Cost float64 `json:"cost"`
}

// NextBest suggests the cheapest route that differs from best.
//
// For each edge of best it removes that edge from a copy of g, recomputes
// source → target, and keeps the cheapest reachable path that is not best.
// Earlier removals win ties. Returns nil when best has fewer than two nodes or
// no alternative exists. g is not modified.
func NextBest(g *graph.Graph, source, target string, best Path) *Alternative {
	if len(best) < 2 {
		return nil
	}
	var alt *Alternative
	for i := 0; i+1 < len(best); i++ {
		u, v := best[i], best[i+1]
		if !g.HasEdge(u, v) {
			continue
		}
		h := g.Clone()
		h.DeleteEdge(u, v)

		res := Compute(h, source, target)
		cost, ok := res.Distance()
		if !ok {
			continue
		}
		paths, _ := AllShortestPaths(res.Pred, source, target, 1)
		if len(paths) == 0 || paths[0].Equal(best) {
			continue
		}
		if alt == nil || cost < alt.Cost-Epsilon {
			alt = &Alternative{Path: paths[0], Cost: cost}
		}
	}
	return alt
}
