package graph

import (
	"math"
	"reflect"
	"testing"

	rterrors "github.com/matzehuels/routetrace/pkg/errors"
)

func TestNormalizeNodeID(t *testing.T) {
	tests := map[string]string{
		"a":     "A",
		"  b ":  "B",
		"Ab":    "AB",
		"":      "",
		"\tz\n": "Z",
	}
	for in, want := range tests {
		if got := NormalizeNodeID(in); got != want {
			t.Errorf("NormalizeNodeID(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestValidateNodeCount(t *testing.T) {
	tests := []struct {
		n       int
		wantErr bool
	}{
		{7, true},
		{8, false},
		{12, false},
		{16, false},
		{17, true},
		{0, true},
	}
	for _, tt := range tests {
		err := ValidateNodeCount(tt.n)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateNodeCount(%d) error = %v, wantErr %v", tt.n, err, tt.wantErr)
		}
		if err != nil && !rterrors.Is(err, rterrors.ErrCodeInvalidNodeCount) {
			t.Errorf("ValidateNodeCount(%d) code = %q", tt.n, rterrors.GetCode(err))
		}
	}
}

func TestParseWeight(t *testing.T) {
	if got := ParseWeight(" 4.5 "); got != 4.5 {
		t.Errorf("ParseWeight(4.5) = %v", got)
	}
	if got := ParseWeight("abc"); !math.IsNaN(got) {
		t.Errorf("ParseWeight(abc) = %v, want NaN", got)
	}
}

func TestValidateEdge(t *testing.T) {
	g := New()
	g.AddNode(Node{ID: "A"})
	g.AddNode(Node{ID: "B"})
	_ = g.UpsertEdge(Edge{From: "A", To: "B", Weight: 1})

	tests := []struct {
		name string
		edge Edge
		opts EdgeOptions
		want []string
	}{
		{
			name: "Valid",
			edge: Edge{From: "b", To: " a ", Weight: 2},
		},
		{
			name: "MissingEndpoints",
			edge: Edge{Weight: 1},
			want: []string{problemFromRequired, problemToRequired},
		},
		{
			name: "SelfLoop",
			edge: Edge{From: "A", To: "a", Weight: 1},
			want: []string{problemSelfLoop},
		},
		{
			name: "NegativeAndUnknown",
			edge: Edge{From: "A", To: "Z", Weight: -3},
			want: []string{problemWeightNegative, `node "Z" does not exist`},
		},
		{
			name: "NonNumeric",
			edge: Edge{From: "X", To: "Y", Weight: math.NaN()},
			want: []string{problemWeightNaN, `node "X" does not exist`, `node "Y" does not exist`},
		},
		{
			name: "Duplicate",
			edge: Edge{From: "A", To: "B", Weight: 4},
			want: []string{problemEdgeExists},
		},
		{
			name: "DuplicateAllowed",
			edge: Edge{From: "A", To: "B", Weight: 4},
			opts: EdgeOptions{AllowExisting: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEdge(g, tt.edge, tt.opts)
			if tt.want == nil {
				if err != nil {
					t.Fatalf("ValidateEdge() error: %v", err)
				}
				return
			}
			if !rterrors.Is(err, rterrors.ErrCodeInvalidEdge) {
				t.Fatalf("ValidateEdge() error = %v, want INVALID_EDGE", err)
			}
			if got := rterrors.Problems(err); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("problems = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAddEdge(t *testing.T) {
	g := New()
	g.AddNode(Node{ID: "A"})
	g.AddNode(Node{ID: "B"})

	e, err := g.AddEdge(Edge{From: " a", To: "b ", Weight: 3}, EdgeOptions{})
	if err != nil {
		t.Fatalf("AddEdge() error: %v", err)
	}
	if e.From != "A" || e.To != "B" {
		t.Errorf("AddEdge() = %v, want normalized ids", e)
	}
	if !g.HasEdge("A", "B") {
		t.Error("edge not stored")
	}

	if _, err := g.AddEdge(Edge{From: "A", To: "B", Weight: 9}, EdgeOptions{}); err == nil {
		t.Error("AddEdge() duplicate succeeded")
	}
	if _, err := g.AddEdge(Edge{From: "A", To: "B", Weight: 9}, EdgeOptions{AllowExisting: true}); err != nil {
		t.Errorf("AddEdge() update error: %v", err)
	}
	if got, _ := g.Edge("A", "B"); got.Weight != 9 {
		t.Errorf("weight = %v after update, want 9", got.Weight)
	}
}

func TestValidateEndpoints(t *testing.T) {
	g := Sample()
	empty := New()
	empty.AddNode(Node{ID: "A"})
	empty.AddNode(Node{ID: "B"})

	tests := []struct {
		name           string
		g              *Graph
		source, target string
		wantErr        bool
	}{
		{"Valid", g, "A", "D", false},
		{"MissingSource", g, "", "D", true},
		{"MissingTarget", g, "A", "", true},
		{"UnknownNode", g, "A", "Z", true},
		{"SameNode", g, "A", "A", true},
		{"NoEdges", empty, "A", "B", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEndpoints(tt.g, tt.source, tt.target)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateEndpoints() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !rterrors.Is(err, rterrors.ErrCodeInvalidRequest) {
				t.Errorf("code = %q, want INVALID_REQUEST", rterrors.GetCode(err))
			}
		})
	}
}

func TestInsertNode(t *testing.T) {
	g := Sample()
	n, err := g.InsertNode(Node{ID: " z ", X: 1, Y: 2})
	if err != nil {
		t.Fatalf("InsertNode: %v", err)
	}
	if n.ID != "Z" || !g.HasNode("Z") {
		t.Errorf("inserted %+v, HasNode(Z) = %v", n, g.HasNode("Z"))
	}

	tests := []struct {
		id      string
		problem string
	}{
		{"  ", "node id is required"},
		{"a", `node "A" already exists`},
	}
	for _, tt := range tests {
		_, err := g.InsertNode(Node{ID: tt.id})
		if !rterrors.Is(err, rterrors.ErrCodeInvalidNode) {
			t.Errorf("InsertNode(%q) err = %v, want INVALID_NODE", tt.id, err)
			continue
		}
		if got := rterrors.Problems(err); len(got) != 1 || got[0] != tt.problem {
			t.Errorf("InsertNode(%q) problems = %q, want %q", tt.id, got, tt.problem)
		}
	}
}

func TestDeleteNodeAndRemoveEdge(t *testing.T) {
	g := Sample()
	if err := g.RemoveEdge("c", "e"); err != nil {
		t.Fatalf("RemoveEdge(c, e): %v", err)
	}
	if err := g.RemoveEdge("C", "E"); !rterrors.Is(err, rterrors.ErrCodeNotFound) {
		t.Errorf("second RemoveEdge err = %v, want NOT_FOUND", err)
	}
	if err := g.DeleteNode("d"); err != nil {
		t.Fatalf("DeleteNode(d): %v", err)
	}
	if g.HasEdge("A", "D") || g.HasEdge("B", "D") || g.EdgeCount() != 2 {
		t.Errorf("edges after DeleteNode: %v", g.Edges())
	}
	if err := g.DeleteNode("D"); !rterrors.Is(err, rterrors.ErrCodeNodeNotFound) {
		t.Errorf("DeleteNode of missing node err = %v", err)
	}
}
