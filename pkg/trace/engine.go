package trace

import (
	"math"
	"slices"

	"github.com/matzehuels/routetrace/pkg/graph"
)

// Epsilon is the tolerance used when comparing path costs.
const Epsilon = 1e-9

// Compute runs an instrumented Dijkstra search from source and stops as soon
// as target is extracted. Every queue operation and relaxation is recorded.
//
// The caller validates source and target (see graph.ValidateEndpoints).
// Distances and predecessor sets cover every node in g at call time; nodes
// that cannot be reached keep +Inf and an empty set. Compute does not modify g.
func Compute(g *graph.Graph, source, target string) *Result {
	r := &run{
		dist:      make(Distances, g.NodeCount()),
		pred:      make(Predecessors, g.NodeCount()),
		finalized: make(map[string]bool, g.NodeCount()),
	}
	for _, id := range g.NodeIDs() {
		r.dist[id] = math.Inf(1)
		r.pred[id] = &NodeSet{}
	}
	r.dist[source] = 0
	if _, ok := r.pred[source]; !ok {
		r.pred[source] = &NodeSet{}
	}

	r.push(source, 0)
	r.record(StepInit, nil, "")

	for len(r.frontier) > 0 {
		u := r.pop()
		if r.finalized[u.Node] {
			continue
		}
		r.finalized[u.Node] = true
		r.record(StepExtract, nil, u.Node)
		if u.Node == target {
			break
		}
		for _, e := range g.OutgoingEdges(u.Node) {
			r.relax(u.Node, e)
		}
	}

	return &Result{
		Source: source,
		Target: target,
		Trace:  r.trace,
		Dist:   r.dist,
		Pred:   r.pred,
	}
}

// run holds the mutable state of one computation.
type run struct {
	dist      Distances
	pred      Predecessors
	finalized map[string]bool
	frontier  []QueueEntry
	trace     Trace
}

// relax evaluates edge e leaving u and records the outcome.
func (r *run) relax(u string, e graph.Edge) {
	alt := r.dist[u] + e.Weight
	cur := r.dist.Get(e.To)
	typ := StepRelaxNone

	switch {
	case r.finalized[e.To]:
	case alt < cur-Epsilon:
		r.dist[e.To] = alt
		r.predSet(e.To).Reset(u)
		r.push(e.To, alt)
		typ = StepRelaxBetter
	case math.Abs(alt-cur) <= Epsilon:
		r.predSet(e.To).Add(u)
		typ = StepRelaxTie
	}
	r.record(typ, &e, u)
}

func (r *run) predSet(id string) *NodeSet {
	s, ok := r.pred[id]
	if !ok {
		s = &NodeSet{}
		r.pred[id] = s
	}
	return s
}

// push inserts after every entry whose distance is <= d, which keeps equal
// distances in insertion order.
func (r *run) push(id string, d float64) {
	i := len(r.frontier)
	for j, q := range r.frontier {
		if q.Dist > d {
			i = j
			break
		}
	}
	r.frontier = slices.Insert(r.frontier, i, QueueEntry{Node: id, Dist: d})
}

func (r *run) pop() QueueEntry {
	q := r.frontier[0]
	r.frontier = r.frontier[1:]
	return q
}

func (r *run) record(typ StepType, e *graph.Edge, extracted string) {
	var edge *graph.Edge
	if e != nil {
		c := *e
		edge = &c
	}
	r.trace = append(r.trace, Step{
		Type:      typ,
		Edge:      edge,
		Extracted: extracted,
		Queue:     append([]QueueEntry{}, r.frontier...),
		Dist:      r.dist.Clone(),
		Pred:      r.pred.Clone(),
	})
}
