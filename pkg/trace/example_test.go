package trace_test

import (
	"fmt"

	"github.com/matzehuels/routetrace/pkg/graph"
	"github.com/matzehuels/routetrace/pkg/trace"
)

func ExampleCompute() {
	g := graph.New()
	for _, id := range []string{"A", "B", "C", "D"} {
		g.AddNode(graph.Node{ID: id})
	}
	_ = g.UpsertEdge(graph.Edge{From: "A", To: "B", Weight: 1})
	_ = g.UpsertEdge(graph.Edge{From: "B", To: "D", Weight: 2})
	_ = g.UpsertEdge(graph.Edge{From: "A", To: "C", Weight: 1})
	_ = g.UpsertEdge(graph.Edge{From: "C", To: "D", Weight: 2})

	res := trace.Compute(g, "A", "D")
	for i, s := range res.Trace {
		switch {
		case s.Edge != nil:
			fmt.Printf("%d %s %s->%s\n", i, s.Type, s.Edge.From, s.Edge.To)
		case s.Type == trace.StepExtract:
			fmt.Printf("%d %s %s\n", i, s.Type, s.Extracted)
		default:
			fmt.Printf("%d %s\n", i, s.Type)
		}
	}
	// Output:
	// 0 init
	// 1 extract A
	// 2 relax-better A->B
	// 3 relax-better A->C
	// 4 extract B
	// 5 relax-better B->D
	// 6 extract C
	// 7 relax-tie C->D
	// 8 extract D
}

func ExampleAllShortestPaths() {
	g := graph.TieDemo()
	res := trace.Compute(g, "K", "E")

	d, _ := res.Distance()
	paths, _ := trace.AllShortestPaths(res.Pred, "K", "E", 0)
	fmt.Printf("distance %v m, %d routes\n", d, len(paths))
	// Output:
	// distance 700 m, 2 routes
}
