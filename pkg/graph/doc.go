// Package graph provides the mutable weighted graph that routetrace computes
// shortest paths over, together with its validation rules and wire format.
//
// # Model
//
// A [Graph] holds [Node] values keyed by ID and directed [Edge] values keyed
// by the ordered pair (From, To). Inserting an edge whose key already exists
// replaces it. Undirected connections are two independent edges, one per
// direction; [Graph.Connect] is a convenience that writes both with the same
// weight.
//
// Node coordinates are opaque payload for renderers and never influence
// path computation.
//
// # Validation
//
// Validation is a set of pure functions shared by every mutation path
// (CLI commands, HTTP handlers, file import):
//
//	graph.NormalizeNodeID(" a ")            // "A"
//	graph.ValidateNodeCount(12)             // nil (range 8..16)
//	graph.ValidateEdge(g, e, graph.EdgeOptions{})
//	graph.ValidateEndpoints(g, "A", "D")
//
// Validation failures are *errors.Error values whose Problems field lists
// every human-readable problem found, not just the first one.
//
// # Serialization
//
// [Snapshot] is the canonical wire format, used for JSON and TOML files,
// API payloads and session storage:
//
//	{
//	  "nodes": [{"id": "A", "x": 0, "y": 0}, {"id": "B", "x": 10, "y": 0}],
//	  "edges": [{"from": "A", "to": "B", "weight": 5}]
//	}
//
// Common operations:
//
//	g, _ := graph.ReadFile("map.toml")     // File → Graph
//	graph.WriteFile(g, "map.json")         // Graph → File
//	data, _ := graph.Marshal(g)            // Graph → JSON bytes
//
// # Concurrency
//
// Graph is not safe for concurrent mutation. Readers may share a Graph
// once no more writes happen.
package graph
