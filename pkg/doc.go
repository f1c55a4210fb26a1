// Package pkg provides the core libraries for routetrace.
//
// # Overview
//
// Routetrace computes shortest routes on small weighted maps and records each
// step of the search so it can be inspected and replayed. The pkg directory
// is organized into four areas:
//
//  1. Domain logic ([graph], [trace], [playback], [matrix])
//  2. Output ([render] and render/nodelink)
//  3. Infrastructure ([cache], [session], [observability], [errors])
//  4. Orchestration ([pipeline])
//
// # Architecture
//
// The typical data flow through routetrace:
//
//	graph file / preset / edits
//	         ↓
//	    [graph] package (validated weighted digraph)
//	         ↓
//	    [pipeline] package (cache lookup, compute, enumerate paths)
//	         ↓
//	    [trace] package (instrumented search + step trace)
//	         ↓
//	    [session] package (persisted graph + run)
//	         ↓
//	    [playback] / [matrix] / render/nodelink
//
// # Quick Start
//
// Compute a route and list every shortest path:
//
//	import (
//	    "github.com/matzehuels/routetrace/pkg/graph"
//	    "github.com/matzehuels/routetrace/pkg/trace"
//	)
//
//	g := graph.Sample()
//	res := trace.Compute(g, "A", "D")
//	paths, _ := trace.AllShortestPaths(res.Pred, "A", "D", trace.DefaultPathLimit)
//	for _, p := range paths {
//	    fmt.Println(p) // A → C → E → D
//	}
//
// # Main Packages
//
// ## Domain Logic
//
// [graph] - Directed weighted graph with insertion-ordered nodes and edges,
// edge validation, JSON/TOML files and the sample, tie-demo and random
// presets.
//
// [trace] - Dijkstra search that records init, extract and relax steps with
// deep copies of the queue, distances and predecessor sets. Enumerates all
// shortest paths and suggests a next best route.
//
// [playback] - Timer-driven cursor over a trace with play, pause, seek, step
// and speed control.
//
// [matrix] - Adjacency and weight matrices with CSV and JSON export.
//
// ## Visualization
//
// [render/nodelink] - Node-link diagrams via Graphviz with a highlighted route
// and per-step overlays.
//
// [render] - Format conversion (SVG to PDF/PNG).
//
// ## Infrastructure
//
// [pipeline] - Complete route run (validate → compute → paths → alternative)
// used by the CLI and the HTTP server.
//
// [cache] - Run cache with file, Redis and null backends.
//
// [session] - Persisted graph and run per user, with memory, file and Redis
// stores and the CLI workspace.
//
// [observability] - Hook interfaces for pipeline, cache and HTTP events.
//
// [errors] - Coded errors with validation problem lists.
package pkg
