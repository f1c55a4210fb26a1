package matrix

import (
	"bytes"
	"encoding/json"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/routetrace/pkg/graph"
)

func smallGraph() *graph.Graph {
	g := graph.New()
	for _, id := range []string{"C", "A", "B"} {
		g.AddNode(graph.Node{ID: id})
	}
	_ = g.UpsertEdge(graph.Edge{From: "A", To: "B", Weight: 3})
	_ = g.UpsertEdge(graph.Edge{From: "B", To: "C", Weight: 1.5})
	_ = g.UpsertEdge(graph.Edge{From: "C", To: "A", Weight: 0})
	return g
}

func TestNewAdjacency(t *testing.T) {
	m := NewAdjacency(smallGraph())
	if !reflect.DeepEqual(m.IDs, []string{"A", "B", "C"}) {
		t.Fatalf("IDs = %v, want sorted", m.IDs)
	}
	want := [][]float64{
		{0, 1, 0},
		{0, 0, 1},
		{1, 0, 0},
	}
	if got := m.Rows(); !reflect.DeepEqual(got, want) {
		t.Errorf("Rows() = %v, want %v", got, want)
	}
}

func TestNewWeights(t *testing.T) {
	m := NewWeights(smallGraph())
	inf := math.Inf(1)
	want := [][]float64{
		{0, 3, inf},
		{inf, 0, 1.5},
		{0, inf, 0},
	}
	if got := m.Rows(); !reflect.DeepEqual(got, want) {
		t.Errorf("Rows() = %v, want %v", got, want)
	}
	if v, ok := m.Lookup("B", "C"); !ok || v != 1.5 {
		t.Errorf("Lookup(B, C) = %v, %v", v, ok)
	}
	if _, ok := m.Lookup("B", "Z"); ok {
		t.Error("Lookup of unknown node succeeded")
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"", Adjacency, false},
		{"adj", Adjacency, false},
		{"Adjacency", Adjacency, false},
		{"weights", Weights, false},
		{"w", Weights, false},
		{"incidence", "", true},
	}
	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseKind(%q) = %q, %v", tt.in, got, err)
		}
	}
	if _, err := Build(smallGraph(), Kind("x")); err == nil {
		t.Error("Build with unknown kind succeeded")
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := NewWeights(smallGraph()).WriteCSV(&buf); err != nil {
		t.Fatalf("WriteCSV() error: %v", err)
	}
	want := strings.Join([]string{
		",A,B,C",
		"A,0,3,inf",
		"B,inf,0,1.5",
		"C,0,inf,0",
		"",
	}, "\n")
	if buf.String() != want {
		t.Errorf("WriteCSV() =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestMarshalJSON(t *testing.T) {
	data, err := json.Marshal(NewWeights(smallGraph()))
	if err != nil {
		t.Fatal(err)
	}
	want := `{"kind":"weights","ids":["A","B","C"],"rows":[[0,3,null],[null,0,1.5],[0,null,0]]}`
	if string(data) != want {
		t.Errorf("MarshalJSON() = %s, want %s", data, want)
	}
}

func TestFormatCell(t *testing.T) {
	if FormatCell(math.Inf(1)) != "∞" || FormatCell(700) != "700" || FormatCell(2.5) != "2.5" {
		t.Error("FormatCell mismatch")
	}
	if NewAdjacency(smallGraph()).FileName() != "matrix_adjacency.csv" {
		t.Error("FileName mismatch")
	}
}
