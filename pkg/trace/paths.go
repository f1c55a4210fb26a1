package trace

import (
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/routetrace/pkg/graph"
)

// DefaultPathLimit caps AllShortestPaths when no limit is given.
const DefaultPathLimit = 50

// pathSeparator joins node IDs in Path.String.
const pathSeparator = " → "

// Path is a node sequence from source to target, both inclusive.
type Path []string

// String renders the path as "A → B → D".
func (p Path) String() string {
	return strings.Join(p, pathSeparator)
}

// Cost sums the weights of the path edges in g.
// It fails if a consecutive pair is not an edge of g.
func (p Path) Cost(g *graph.Graph) (float64, error) {
	var total float64
	for i := 0; i+1 < len(p); i++ {
		e, ok := g.Edge(p[i], p[i+1])
		if !ok {
			return 0, fmt.Errorf("path %s: no edge %s->%s", p, p[i], p[i+1])
		}
		total += e.Weight
	}
	return total, nil
}

// Equal reports whether p and q visit the same nodes in the same order.
func (p Path) Equal(q Path) bool {
	return slices.Equal(p, q)
}

// AllShortestPaths enumerates every minimum-cost path from source to target
// by walking predecessor sets backwards from target.
//
// Predecessors are visited in insertion order, so the output order is
// deterministic. Only simple paths are produced and duplicates are dropped.
// At most limit paths are returned (limit <= 0 means DefaultPathLimit); the
// second result reports whether that cap was hit, in which case the list may
// be incomplete. An unreachable target yields an empty list.
func AllShortestPaths(pred Predecessors, source, target string, limit int) ([]Path, bool) {
	if limit <= 0 {
		limit = DefaultPathLimit
	}
	if source == target {
		return []Path{{source}}, limit == 1
	}

	e := &enumerator{
		pred:   pred,
		source: source,
		limit:  limit,
		seen:   make(map[string]bool),
		onPath: make(map[string]bool),
	}
	e.walk(target, nil)
	return e.paths, len(e.paths) >= limit
}

type enumerator struct {
	pred   Predecessors
	source string
	limit  int
	paths  []Path
	seen   map[string]bool
	onPath map[string]bool
}

// walk extends suffix (which ends at the target) backwards through node.
func (e *enumerator) walk(node string, suffix []string) {
	if len(e.paths) >= e.limit {
		return
	}
	if node == e.source {
		p := make(Path, 0, len(suffix)+1)
		p = append(p, node)
		p = append(p, suffix...)
		key := strings.Join(p, "\x00")
		if !e.seen[key] {
			e.seen[key] = true
			e.paths = append(e.paths, p)
		}
		return
	}
	if e.onPath[node] {
		return
	}
	e.onPath[node] = true
	defer delete(e.onPath, node)

	next := append([]string{node}, suffix...)
	for _, parent := range e.pred.Get(node).Items() {
		e.walk(parent, next)
		if len(e.paths) >= e.limit {
			return
		}
	}
}
