package graph

import (
	"math"
	"strconv"
	"strings"

	rterrors "github.com/matzehuels/routetrace/pkg/errors"
)

const (
	problemFromRequired   = "origin node is required"
	problemToRequired     = "destination node is required"
	problemSelfLoop       = "self-loops are not allowed (origin equals destination)"
	problemWeightNaN      = "weight must be a number"
	problemWeightNegative = "weight cannot be negative"
	problemEdgeExists     = "edge already exists"
)

// EdgeOptions tunes ValidateEdge.
type EdgeOptions struct {
	// AllowExisting accepts an edge whose (From, To) key is already present,
	// turning the insertion into an update.
	AllowExisting bool
}

// NormalizeNodeID trims surrounding whitespace and upper-cases raw.
func NormalizeNodeID(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// ParseWeight parses a user-supplied weight. Unparseable input yields NaN so
// that ValidateEdge reports it alongside every other problem.
func ParseWeight(raw string) float64 {
	w, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return math.NaN()
	}
	return w
}

// ValidateNodeCount checks that n lies within [MinNodes, MaxNodes].
func ValidateNodeCount(n int) error {
	if n < MinNodes || n > MaxNodes {
		return rterrors.New(rterrors.ErrCodeInvalidNodeCount,
			"node count must be between %d and %d, got %d", MinNodes, MaxNodes, n)
	}
	return nil
}

// ValidateEdge checks e against g and returns an INVALID_EDGE error listing
// every problem found. Endpoint IDs are normalized before checking.
//
// Reported problems: missing endpoints, self-loop, non-numeric weight,
// negative weight, unknown endpoint nodes, and (unless opts.AllowExisting)
// an edge that already exists.
func ValidateEdge(g *Graph, e Edge, opts EdgeOptions) error {
	e.From = NormalizeNodeID(e.From)
	e.To = NormalizeNodeID(e.To)
	return validateEdge(g, e, opts)
}

func validateEdge(g *Graph, e Edge, opts EdgeOptions) error {
	v := rterrors.NewValidation(rterrors.ErrCodeInvalidEdge, "invalid edge")
	from, to := e.From, e.To

	v.Check(from != "", problemFromRequired)
	v.Check(to != "", problemToRequired)
	if from != "" && to != "" {
		v.Check(from != to, problemSelfLoop)
	}
	checkWeight(v, e.Weight)
	if from != "" && !g.HasNode(from) {
		v.Addf("node %q does not exist", from)
	}
	if to != "" && !g.HasNode(to) {
		v.Addf("node %q does not exist", to)
	}
	if !opts.AllowExisting && from != "" && to != "" {
		v.Check(!g.HasEdge(from, to), problemEdgeExists)
	}
	return v.Err()
}

// AddEdge normalizes the endpoints of e, validates it and inserts it.
// The stored edge is returned on success.
func (g *Graph) AddEdge(e Edge, opts EdgeOptions) (Edge, error) {
	e.From = NormalizeNodeID(e.From)
	e.To = NormalizeNodeID(e.To)
	if err := validateEdge(g, e, opts); err != nil {
		return Edge{}, err
	}
	if err := g.UpsertEdge(e); err != nil {
		return Edge{}, err
	}
	return e, nil
}

// InsertNode normalizes the ID of n and adds it. An empty or already used ID
// fails with INVALID_NODE.
func (g *Graph) InsertNode(n Node) (Node, error) {
	n.ID = NormalizeNodeID(n.ID)
	v := rterrors.NewValidation(rterrors.ErrCodeInvalidNode, "invalid node")
	if v.Check(n.ID != "", "node id is required") && g.HasNode(n.ID) {
		v.Addf("node %q already exists", n.ID)
	}
	if err := v.Err(); err != nil {
		return Node{}, err
	}
	g.AddNode(n)
	return n, nil
}

// DeleteNode normalizes id and removes the node with its incident edges.
// An unknown node fails with NODE_NOT_FOUND.
func (g *Graph) DeleteNode(id string) error {
	id = NormalizeNodeID(id)
	if !g.RemoveNode(id) {
		return rterrors.New(rterrors.ErrCodeNodeNotFound, "node %q does not exist", id)
	}
	return nil
}

// RemoveEdge normalizes the endpoints and deletes the edge from → to.
// A missing edge fails with NOT_FOUND.
func (g *Graph) RemoveEdge(from, to string) error {
	from, to = NormalizeNodeID(from), NormalizeNodeID(to)
	if !g.DeleteEdge(from, to) {
		return rterrors.New(rterrors.ErrCodeNotFound, "edge %s does not exist", EdgeKey{From: from, To: to})
	}
	return nil
}

// ValidateEndpoints rejects a degenerate shortest-path request before any
// computation: a missing selection, an unknown node, identical endpoints, or
// a graph without edges. All problems are reported as INVALID_REQUEST.
func ValidateEndpoints(g *Graph, source, target string) error {
	v := rterrors.NewValidation(rterrors.ErrCodeInvalidRequest, "invalid route request")
	v.Check(source != "", "origin is required")
	v.Check(target != "", "destination is required")
	if source != "" && !g.HasNode(source) {
		v.Addf("origin %q does not exist", source)
	}
	if target != "" && !g.HasNode(target) {
		v.Addf("destination %q does not exist", target)
	}
	if source != "" && source == target {
		v.Add("origin and destination must differ")
	}
	v.Check(g.EdgeCount() > 0, "graph has no edges")
	return v.Err()
}
