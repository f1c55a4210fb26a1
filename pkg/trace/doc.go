// Package trace computes shortest paths over a [graph.Graph] and records every
// step of the computation for later replay.
//
// # Computation
//
// [Compute] runs Dijkstra's algorithm from a source node and stops once the
// target is extracted. Each event is appended to the returned [Trace]:
//
//   - init: the frontier holds only the source
//   - extract: a node is finalized
//   - relax-better: an edge strictly improved a distance
//   - relax-tie: an edge matched the current distance within [Epsilon]
//   - relax-none: an edge brought no improvement (always recorded)
//
// Every [Step] holds deep copies of the frontier, distances and predecessor
// sets at that moment, so a trace can be rendered at any index without
// re-running the search. Unreached distances are +Inf in memory and null in
// JSON.
//
// The frontier is a plain ordered slice. Graphs here have at most a few dozen
// nodes, so a heap buys nothing and would obscure the insertion order that
// makes equal-distance ties deterministic.
//
// # Enumeration
//
// Predecessor sets keep every node that reaches a target at minimum cost.
// [AllShortestPaths] walks them backwards to list each distinct shortest
// path, up to a limit:
//
//	res := trace.Compute(g, "A", "D")
//	paths, capped := trace.AllShortestPaths(res.Pred, "A", "D", 0)
//	for _, p := range paths {
//	    fmt.Println(p) // A → B → D
//	}
//	if capped {
//	    // more paths may exist
//	}
//
// [NextBest] suggests the cheapest route that avoids at least one edge of a
// chosen shortest path.
package trace
