package graph

import (
	"math/rand/v2"
	"reflect"
	"testing"
)

func TestSample(t *testing.T) {
	g := Sample()
	if g.NodeCount() != 8 {
		t.Errorf("NodeCount() = %d, want 8", g.NodeCount())
	}
	if g.EdgeCount() != 6 {
		t.Errorf("EdgeCount() = %d, want 6", g.EdgeCount())
	}
	if err := ValidateNodeCount(g.NodeCount()); err != nil {
		t.Errorf("sample fails node count: %v", err)
	}
	if e, ok := g.Edge("E", "D"); !ok || e.Weight != 1 {
		t.Errorf("Edge(E, D) = %v, %v", e, ok)
	}
	if g.HasEdge("D", "E") {
		t.Error("sample edges must be directed")
	}
}

func TestTieDemo(t *testing.T) {
	g := TieDemo()
	if g.NodeCount() != 16 {
		t.Errorf("NodeCount() = %d, want 16", g.NodeCount())
	}
	if g.EdgeCount() != 2*len(tieDemoEdges) {
		t.Errorf("EdgeCount() = %d, want %d", g.EdgeCount(), 2*len(tieDemoEdges))
	}
	for _, e := range g.Edges() {
		back, ok := g.Edge(e.To, e.From)
		if !ok || back.Weight != e.Weight {
			t.Errorf("edge %v has no symmetric twin", e)
		}
	}

	routes := [][]string{
		{"K", "L", "P", "O", "M", "E"},
		{"K", "B", "C", "D", "E"},
	}
	for _, r := range routes {
		var total float64
		for i := 0; i+1 < len(r); i++ {
			e, ok := g.Edge(r[i], r[i+1])
			if !ok {
				t.Fatalf("missing edge %s->%s", r[i], r[i+1])
			}
			total += e.Weight
		}
		if total != 700 {
			t.Errorf("route %v costs %v, want 700", r, total)
		}
	}
}

func TestRandom(t *testing.T) {
	t.Run("Deterministic", func(t *testing.T) {
		a, err := Random(10, rand.New(rand.NewPCG(1, 2)))
		if err != nil {
			t.Fatal(err)
		}
		b, _ := Random(10, rand.New(rand.NewPCG(1, 2)))
		if !reflect.DeepEqual(a.Snapshot(), b.Snapshot()) {
			t.Error("same seed produced different graphs")
		}
	})

	t.Run("Shape", func(t *testing.T) {
		for n := MinNodes; n <= MaxNodes; n++ {
			g, err := Random(n, rand.New(rand.NewPCG(uint64(n), 7)))
			if err != nil {
				t.Fatalf("Random(%d) error: %v", n, err)
			}
			if g.NodeCount() != n {
				t.Errorf("Random(%d) has %d nodes", n, g.NodeCount())
			}
			for _, id := range g.NodeIDs() {
				out := g.OutgoingEdges(id)
				if len(out) < 2 || len(out) > 3 {
					t.Errorf("node %s has %d outgoing edges, want 2 or 3", id, len(out))
				}
				for _, e := range out {
					if e.Weight < 1 || e.Weight > 9 {
						t.Errorf("edge %v weight out of range", e)
					}
				}
			}
		}
	})

	t.Run("BadCount", func(t *testing.T) {
		for _, n := range []int{0, 7, 17} {
			if _, err := Random(n, rand.New(rand.NewPCG(1, 1))); err == nil {
				t.Errorf("Random(%d) succeeded", n)
			}
		}
	})
}

func TestFromPreset(t *testing.T) {
	tests := []struct {
		name      string
		n         int
		wantNodes int
		wantErr   bool
	}{
		{"", 0, 8, false},
		{"sample", 0, 8, false},
		{"Tie-Demo", 0, 16, false},
		{"random", 10, 10, false},
		{"random", 3, 0, true},
		{"empty", 0, 0, false},
		{"grid", 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := FromPreset(tt.name, tt.n, 7)
			if (err != nil) != tt.wantErr {
				t.Fatalf("FromPreset(%q) error = %v", tt.name, err)
			}
			if err == nil && g.NodeCount() != tt.wantNodes {
				t.Errorf("NodeCount() = %d, want %d", g.NodeCount(), tt.wantNodes)
			}
		})
	}

	a, _ := FromPreset(PresetRandom, 12, 99)
	b, _ := FromPreset(PresetRandom, 12, 99)
	if !reflect.DeepEqual(a.Snapshot(), b.Snapshot()) {
		t.Error("same seed should build the same random graph")
	}
}
