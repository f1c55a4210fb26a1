package trace

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/matzehuels/routetrace/pkg/graph"
)

func TestAllShortestPathsScenarioA(t *testing.T) {
	res := Compute(scenarioA(t), "A", "D")
	paths, capped := AllShortestPaths(res.Pred, "A", "D", 0)
	want := []Path{{"A", "B", "D"}, {"A", "C", "D"}}
	if !reflect.DeepEqual(paths, want) {
		t.Errorf("paths = %v, want %v", paths, want)
	}
	if capped {
		t.Error("capped = true")
	}
}

func TestAllShortestPathsSourceIsTarget(t *testing.T) {
	paths, _ := AllShortestPaths(Predecessors{}, "A", "A", 0)
	if !reflect.DeepEqual(paths, []Path{{"A"}}) {
		t.Errorf("paths = %v, want [[A]]", paths)
	}
}

func TestAllShortestPathsSkipsCycles(t *testing.T) {
	pred := Predecessors{
		"D": NewNodeSet("B"),
		"B": NewNodeSet("C"),
		"C": NewNodeSet("B", "A"),
	}
	paths, _ := AllShortestPaths(pred, "A", "D", 0)
	want := []Path{{"A", "C", "B", "D"}}
	if !reflect.DeepEqual(paths, want) {
		t.Errorf("paths = %v, want %v", paths, want)
	}
}

func TestAllShortestPathsDeadEnd(t *testing.T) {
	pred := Predecessors{
		"D": NewNodeSet("X", "B"),
		"B": NewNodeSet("A"),
		"X": NewNodeSet(),
	}
	paths, _ := AllShortestPaths(pred, "A", "D", 0)
	if !reflect.DeepEqual(paths, []Path{{"A", "B", "D"}}) {
		t.Errorf("paths = %v", paths)
	}
}

// diamonds chains k diamonds, giving 2^k equal-cost paths from S to the last
// join node.
func diamonds(t *testing.T, k int) (*graph.Graph, string) {
	var edges []graph.Edge
	prev := "S"
	for i := 0; i < k; i++ {
		a, b, join := fmt.Sprintf("a%d", i), fmt.Sprintf("b%d", i), fmt.Sprintf("m%d", i)
		edges = append(edges,
			graph.Edge{From: prev, To: a, Weight: 1},
			graph.Edge{From: prev, To: b, Weight: 1},
			graph.Edge{From: a, To: join, Weight: 1},
			graph.Edge{From: b, To: join, Weight: 1},
		)
		prev = join
	}
	return buildGraph(t, edges...), prev
}

func TestAllShortestPathsLimit(t *testing.T) {
	g, target := diamonds(t, 3)
	res := Compute(g, "S", target)

	tests := []struct {
		limit      int
		wantLen    int
		wantCapped bool
	}{
		{limit: 5, wantLen: 5, wantCapped: true},
		{limit: 8, wantLen: 8, wantCapped: true},
		{limit: 9, wantLen: 8, wantCapped: false},
		{limit: 0, wantLen: 8, wantCapped: false},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("limit%d", tt.limit), func(t *testing.T) {
			paths, capped := AllShortestPaths(res.Pred, "S", target, tt.limit)
			if len(paths) != tt.wantLen || capped != tt.wantCapped {
				t.Errorf("got %d paths capped=%v, want %d capped=%v",
					len(paths), capped, tt.wantLen, tt.wantCapped)
			}
			seen := map[string]bool{}
			for _, p := range paths {
				if seen[p.String()] {
					t.Errorf("duplicate path %s", p)
				}
				seen[p.String()] = true
				if cost, err := p.Cost(g); err != nil || cost != 6 {
					t.Errorf("path %s cost = %v, %v; want 6", p, cost, err)
				}
			}
		})
	}
}

func TestAllShortestPathsDefaultLimit(t *testing.T) {
	g, target := diamonds(t, 6) // 64 paths
	res := Compute(g, "S", target)
	paths, capped := AllShortestPaths(res.Pred, "S", target, 0)
	if len(paths) != DefaultPathLimit || !capped {
		t.Errorf("got %d paths capped=%v, want %d capped", len(paths), capped, DefaultPathLimit)
	}
}

func TestPathCost(t *testing.T) {
	g := scenarioA(t)
	if c, err := (Path{"A", "B", "D"}).Cost(g); err != nil || c != 3 {
		t.Errorf("Cost() = %v, %v", c, err)
	}
	if _, err := (Path{"A", "D"}).Cost(g); err == nil {
		t.Error("Cost() over missing edge succeeded")
	}
	if c, err := (Path{"A"}).Cost(g); err != nil || c != 0 {
		t.Errorf("single-node Cost() = %v, %v", c, err)
	}
}

func TestPathString(t *testing.T) {
	if got := (Path{"A", "B", "D"}).String(); got != "A → B → D" {
		t.Errorf("String() = %q", got)
	}
}
