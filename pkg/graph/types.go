package graph

import (
	"fmt"
	"strconv"
)

// =============================================================================
// Constants
// =============================================================================

// Node count bounds for interactive maps.
const (
	MinNodes = 8
	MaxNodes = 16
)

// edgeKeySeparator joins the endpoints of an edge key in its string form.
const edgeKeySeparator = "->"

// =============================================================================
// Node
// =============================================================================

// Node is a labeled point of interest. X and Y are rendering payload only.
type Node struct {
	ID string  `json:"id" toml:"id"`
	X  float64 `json:"x" toml:"x"`
	Y  float64 `json:"y" toml:"y"`
}

// =============================================================================
// Edge
// =============================================================================

// Edge is a directed, weighted connection between two nodes.
type Edge struct {
	From   string  `json:"from" toml:"from"`
	To     string  `json:"to" toml:"to"`
	Weight float64 `json:"weight" toml:"weight"`
}

// Key returns the identity of the edge in a Graph.
func (e Edge) Key() EdgeKey { return EdgeKey{From: e.From, To: e.To} }

// String returns a compact representation such as "A->B (5)".
func (e Edge) String() string {
	return fmt.Sprintf("%s%s%s (%s)", e.From, edgeKeySeparator, e.To, FormatWeight(e.Weight))
}

// EdgeKey identifies a directed edge by its ordered endpoints.
type EdgeKey struct {
	From string
	To   string
}

// String returns the key in "A->B" form.
func (k EdgeKey) String() string { return k.From + edgeKeySeparator + k.To }

// Reverse returns the key of the opposite direction.
func (k EdgeKey) Reverse() EdgeKey { return EdgeKey{From: k.To, To: k.From} }

// =============================================================================
// Snapshot - Wire Format
// =============================================================================

// Snapshot is the serialization format for a Graph.
// Nodes and edges appear in insertion order so that a round-trip through
// FromSnapshot reproduces identical traversal order.
type Snapshot struct {
	Nodes []Node `json:"nodes" toml:"nodes"`
	Edges []Edge `json:"edges" toml:"edges"`
}

// FormatWeight renders a weight without a trailing ".0" for whole numbers.
func FormatWeight(w float64) string {
	return strconv.FormatFloat(w, 'f', -1, 64)
}
