package graph

import (
	"math"
	"math/rand/v2"
	"strings"

	rterrors "github.com/matzehuels/routetrace/pkg/errors"
)

// Preset graph names accepted by FromPreset.
const (
	PresetSample  = "sample"
	PresetTieDemo = "tie-demo"
	PresetRandom  = "random"
	PresetEmpty   = "empty"
)

// FromPreset builds a named starting graph. An empty name means
// PresetSample. n and seed are only used by PresetRandom.
func FromPreset(name string, n int, seed uint64) (*Graph, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", PresetSample:
		return Sample(), nil
	case PresetTieDemo:
		return TieDemo(), nil
	case PresetRandom:
		return Random(n, rand.New(rand.NewPCG(seed, seed)))
	case PresetEmpty:
		return New(), nil
	default:
		return nil, rterrors.New(rterrors.ErrCodeInvalidInput,
			"unknown graph preset %q (want sample, tie-demo, random or empty)", name)
	}
}

// Sample returns the eight-node example graph (A..H on a circle) with six
// directed edges. The cheapest A → D route is A → C → E → D with cost 4.
func Sample() *Graph {
	g := New()
	for _, n := range circle(8, 450, 350, 220) {
		g.AddNode(n)
	}
	for _, e := range []Edge{
		{From: "A", To: "B", Weight: 3},
		{From: "A", To: "C", Weight: 2},
		{From: "B", To: "D", Weight: 5},
		{From: "C", To: "D", Weight: 4},
		{From: "C", To: "E", Weight: 1},
		{From: "E", To: "D", Weight: 1},
	} {
		_ = g.UpsertEdge(e)
	}
	return g
}

// tieDemoNodes is the sixteen-point planning map, in percent coordinates.
var tieDemoNodes = []Node{
	{ID: "A", X: 5, Y: 60}, {ID: "I", X: 20, Y: 64}, {ID: "B", X: 22, Y: 50}, {ID: "C", X: 36, Y: 40},
	{ID: "D", X: 50, Y: 28}, {ID: "E", X: 68, Y: 38}, {ID: "F", X: 90, Y: 50}, {ID: "G", X: 70, Y: 62},
	{ID: "H", X: 48, Y: 56}, {ID: "J", X: 95, Y: 42}, {ID: "K", X: 12, Y: 28}, {ID: "L", X: 28, Y: 18},
	{ID: "M", X: 70, Y: 16}, {ID: "N", X: 84, Y: 24}, {ID: "O", X: 52, Y: 10}, {ID: "P", X: 38, Y: 12},
}

// tieDemoEdges are undirected street segments in meters. K → E costs 700
// along both K-L-P-O-M-E and K-B-C-D-E, and every other route is longer.
var tieDemoEdges = []Edge{
	{From: "A", To: "I", Weight: 130}, {From: "A", To: "B", Weight: 150},
	{From: "B", To: "C", Weight: 160}, {From: "C", To: "D", Weight: 170},
	{From: "D", To: "E", Weight: 190}, {From: "E", To: "F", Weight: 220},
	{From: "F", To: "G", Weight: 190}, {From: "G", To: "I", Weight: 210},
	{From: "I", To: "H", Weight: 170}, {From: "H", To: "C", Weight: 200},
	{From: "H", To: "E", Weight: 200}, {From: "E", To: "J", Weight: 180},
	{From: "D", To: "M", Weight: 190}, {From: "M", To: "N", Weight: 160},
	{From: "N", To: "J", Weight: 150}, {From: "M", To: "O", Weight: 140},
	{From: "O", To: "P", Weight: 150}, {From: "P", To: "L", Weight: 130},
	{From: "L", To: "K", Weight: 120}, {From: "K", To: "B", Weight: 180},
	{From: "M", To: "E", Weight: 160},
}

// TieDemo returns the sixteen-node planning map. Every segment is two-way.
// Routing K → E yields two distinct shortest paths of 700 m.
func TieDemo() *Graph {
	g := New()
	for _, n := range tieDemoNodes {
		g.AddNode(n)
	}
	for _, e := range tieDemoEdges {
		_ = g.Connect(e.From, e.To, e.Weight)
	}
	return g
}

// Random builds n nodes labeled A, B, C, ... on a circle. Each node gets two
// or three edges to the nodes that follow it around the circle, with integer
// weights in [1, 9]. The node count must satisfy ValidateNodeCount.
func Random(n int, rng *rand.Rand) (*Graph, error) {
	if err := ValidateNodeCount(n); err != nil {
		return nil, err
	}
	g := New()
	nodes := circle(n, 520, 380, 260)
	for _, node := range nodes {
		g.AddNode(node)
	}
	for i, u := range nodes {
		fanout := 2 + rng.IntN(2)
		for k := 1; k <= fanout; k++ {
			v := nodes[(i+k)%n]
			_ = g.UpsertEdge(Edge{From: u.ID, To: v.ID, Weight: float64(1 + rng.IntN(9))})
		}
	}
	return g, nil
}

// circle places n letter-labeled nodes evenly on a circle.
func circle(n int, cx, cy, r float64) []Node {
	out := make([]Node, n)
	for i := range n {
		a := float64(i) / float64(n) * 2 * math.Pi
		out[i] = Node{
			ID: string(rune('A' + i)),
			X:  cx + r*math.Cos(a),
			Y:  cy + r*math.Sin(a),
		}
	}
	return out
}
