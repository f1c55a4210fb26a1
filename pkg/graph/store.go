package graph

import (
	"math"
	"slices"

	rterrors "github.com/matzehuels/routetrace/pkg/errors"
)

// Graph is a mutable set of nodes and directed weighted edges.
//
// Nodes and edges remember their insertion order. Every listing method
// returns items in that order so repeated computations over the same graph
// observe identical traversal order.
type Graph struct {
	nodes     map[string]Node
	nodeOrder []string
	edges     map[EdgeKey]Edge
	edgeOrder []EdgeKey
	out       map[string][]EdgeKey
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[string]Node),
		edges: make(map[EdgeKey]Edge),
		out:   make(map[string][]EdgeKey),
	}
}

// =============================================================================
// Nodes
// =============================================================================

// AddNode inserts n if no node with the same ID exists.
// It reports whether the node was inserted; an existing node is left untouched.
func (g *Graph) AddNode(n Node) bool {
	if _, ok := g.nodes[n.ID]; ok {
		return false
	}
	g.nodes[n.ID] = n
	g.nodeOrder = append(g.nodeOrder, n.ID)
	return true
}

// RemoveNode deletes the node and every edge incident to it.
// It reports whether the node existed.
func (g *Graph) RemoveNode(id string) bool {
	if _, ok := g.nodes[id]; !ok {
		return false
	}
	for _, k := range slices.Clone(g.edgeOrder) {
		if k.From == id || k.To == id {
			g.DeleteEdge(k.From, k.To)
		}
	}
	delete(g.nodes, id)
	delete(g.out, id)
	g.nodeOrder = slices.DeleteFunc(g.nodeOrder, func(s string) bool { return s == id })
	return true
}

// HasNode reports whether a node with the given ID exists.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// Node returns the node with the given ID.
func (g *Graph) Node(id string) (Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []Node {
	out := make([]Node, 0, len(g.nodeOrder))
	for _, id := range g.nodeOrder {
		out = append(out, g.nodes[id])
	}
	return out
}

// NodeIDs returns all node IDs in insertion order.
func (g *Graph) NodeIDs() []string {
	return slices.Clone(g.nodeOrder)
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// =============================================================================
// Edges
// =============================================================================

// UpsertEdge inserts e or replaces the edge with the same (From, To) key.
// A replaced edge keeps its original position in the listing order.
//
// UpsertEdge only enforces the structural invariants (no self-loop,
// finite non-negative weight). Endpoint existence and duplicate checks
// belong to ValidateEdge.
func (g *Graph) UpsertEdge(e Edge) error {
	v := rterrors.NewValidation(rterrors.ErrCodeInvalidEdge, "invalid edge")
	v.Check(e.From != e.To, problemSelfLoop)
	checkWeight(v, e.Weight)
	if err := v.Err(); err != nil {
		return err
	}

	k := e.Key()
	if _, ok := g.edges[k]; !ok {
		g.edgeOrder = append(g.edgeOrder, k)
		g.out[e.From] = append(g.out[e.From], k)
	}
	g.edges[k] = e
	return nil
}

// DeleteEdge removes the directed edge from → to.
// It reports whether the edge existed.
func (g *Graph) DeleteEdge(from, to string) bool {
	k := EdgeKey{From: from, To: to}
	if _, ok := g.edges[k]; !ok {
		return false
	}
	delete(g.edges, k)
	g.edgeOrder = slices.DeleteFunc(g.edgeOrder, func(x EdgeKey) bool { return x == k })
	g.out[from] = slices.DeleteFunc(g.out[from], func(x EdgeKey) bool { return x == k })
	if len(g.out[from]) == 0 {
		delete(g.out, from)
	}
	return true
}

// Connect upserts a and b in both directions with the same weight.
func (g *Graph) Connect(a, b string, weight float64) error {
	if err := g.UpsertEdge(Edge{From: a, To: b, Weight: weight}); err != nil {
		return err
	}
	return g.UpsertEdge(Edge{From: b, To: a, Weight: weight})
}

// Disconnect removes both directions between a and b.
// It reports whether at least one direction existed.
func (g *Graph) Disconnect(a, b string) bool {
	ab := g.DeleteEdge(a, b)
	ba := g.DeleteEdge(b, a)
	return ab || ba
}

// HasEdge reports whether the directed edge from → to exists.
func (g *Graph) HasEdge(from, to string) bool {
	_, ok := g.edges[EdgeKey{From: from, To: to}]
	return ok
}

// Edge returns the directed edge from → to.
func (g *Graph) Edge(from, to string) (Edge, bool) {
	e, ok := g.edges[EdgeKey{From: from, To: to}]
	return e, ok
}

// Edges returns all edges in insertion order.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, 0, len(g.edgeOrder))
	for _, k := range g.edgeOrder {
		out = append(out, g.edges[k])
	}
	return out
}

// OutgoingEdges returns the edges leaving id in insertion order.
// Returns nil for unknown nodes or nodes without outgoing edges.
func (g *Graph) OutgoingEdges(id string) []Edge {
	keys := g.out[id]
	if len(keys) == 0 {
		return nil
	}
	out := make([]Edge, len(keys))
	for i, k := range keys {
		out[i] = g.edges[k]
	}
	return out
}

// EdgeCount returns the number of directed edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// =============================================================================
// Copying
// =============================================================================

// Clone returns a deep copy of the graph with identical ordering.
func (g *Graph) Clone() *Graph {
	c := &Graph{
		nodes:     make(map[string]Node, len(g.nodes)),
		nodeOrder: slices.Clone(g.nodeOrder),
		edges:     make(map[EdgeKey]Edge, len(g.edges)),
		edgeOrder: slices.Clone(g.edgeOrder),
		out:       make(map[string][]EdgeKey, len(g.out)),
	}
	for id, n := range g.nodes {
		c.nodes[id] = n
	}
	for k, e := range g.edges {
		c.edges[k] = e
	}
	for id, keys := range g.out {
		c.out[id] = slices.Clone(keys)
	}
	return c
}

// Snapshot returns the serializable form of the graph.
func (g *Graph) Snapshot() Snapshot {
	return Snapshot{Nodes: g.Nodes(), Edges: g.Edges()}
}

// FromSnapshot builds a graph from its serialized form.
//
// Every edge is checked with ValidateEdge, so dangling endpoints, self-loops,
// invalid weights and duplicate keys are all rejected. Node IDs are taken
// verbatim; callers normalize user input before it reaches a snapshot.
func FromSnapshot(s Snapshot) (*Graph, error) {
	g := New()
	for _, n := range s.Nodes {
		if n.ID == "" {
			return nil, rterrors.New(rterrors.ErrCodeInvalidNode, "node id is required")
		}
		if !g.AddNode(n) {
			return nil, rterrors.New(rterrors.ErrCodeInvalidNode, "duplicate node %q", n.ID)
		}
	}
	for _, e := range s.Edges {
		if err := validateEdge(g, e, EdgeOptions{}); err != nil {
			return nil, err
		}
		if err := g.UpsertEdge(e); err != nil {
			return nil, err
		}
	}
	return g, nil
}

func checkWeight(v *rterrors.Validation, w float64) {
	switch {
	case math.IsNaN(w) || math.IsInf(w, 0):
		v.Add(problemWeightNaN)
	case w < 0:
		v.Add(problemWeightNegative)
	}
}
