package graph_test

import (
	"fmt"
	"os"

	"github.com/matzehuels/routetrace/pkg/errors"
	"github.com/matzehuels/routetrace/pkg/graph"
)

func ExampleWrite() {
	g := graph.New()
	g.AddNode(graph.Node{ID: "A"})
	g.AddNode(graph.Node{ID: "B", X: 10})
	_ = g.UpsertEdge(graph.Edge{From: "A", To: "B", Weight: 5})

	if err := graph.Write(g, os.Stdout, graph.FormatJSON); err != nil {
		fmt.Println("Error:", err)
	}
	// Output:
	// {
	//   "nodes": [
	//     {
	//       "id": "A",
	//       "x": 0,
	//       "y": 0
	//     },
	//     {
	//       "id": "B",
	//       "x": 10,
	//       "y": 0
	//     }
	//   ],
	//   "edges": [
	//     {
	//       "from": "A",
	//       "to": "B",
	//       "weight": 5
	//     }
	//   ]
	// }
}

func ExampleValidateEdge() {
	g := graph.New()
	g.AddNode(graph.Node{ID: "A"})

	err := graph.ValidateEdge(g, graph.Edge{From: "a", To: "z", Weight: -2}, graph.EdgeOptions{})
	for _, p := range errors.Problems(err) {
		fmt.Println("-", p)
	}
	// Output:
	// - weight cannot be negative
	// - node "Z" does not exist
}

func ExampleGraph_Connect() {
	g := graph.New()
	g.AddNode(graph.Node{ID: "A"})
	g.AddNode(graph.Node{ID: "B"})
	_ = g.Connect("A", "B", 3)

	for _, e := range g.Edges() {
		fmt.Println(e)
	}
	// Output:
	// A->B (3)
	// B->A (3)
}
