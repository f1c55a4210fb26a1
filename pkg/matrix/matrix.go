// Package matrix builds adjacency and weight matrices from a graph and
// exports them as CSV or JSON.
//
// Rows are origins and columns are destinations, both ordered by node ID.
// In a weight matrix the diagonal is 0 and a missing edge is +Inf, written
// as "∞" in tables and "inf" in CSV.
package matrix

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"slices"
	"strings"

	rterrors "github.com/matzehuels/routetrace/pkg/errors"
	"github.com/matzehuels/routetrace/pkg/graph"
)

// Kind selects which matrix to build.
type Kind string

// Matrix kinds.
const (
	Adjacency Kind = "adjacency"
	Weights   Kind = "weights"
)

// ParseKind accepts the kind names and their short forms "adj" and "w".
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "adj", string(Adjacency):
		return Adjacency, nil
	case "w", "weight", string(Weights):
		return Weights, nil
	default:
		return "", rterrors.New(rterrors.ErrCodeInvalidInput,
			"unknown matrix type %q (want adjacency or weights)", s)
	}
}

// Matrix is a square, row-major matrix labeled by node IDs.
type Matrix struct {
	Kind Kind
	IDs  []string
	data []float64
}

// Build creates the matrix of the given kind for g.
func Build(g *graph.Graph, kind Kind) (*Matrix, error) {
	switch kind {
	case Adjacency:
		return NewAdjacency(g), nil
	case Weights:
		return NewWeights(g), nil
	default:
		return nil, rterrors.New(rterrors.ErrCodeInvalidInput, "unknown matrix type %q", kind)
	}
}

// NewAdjacency returns a 0/1 matrix with 1 where a directed edge exists.
func NewAdjacency(g *graph.Graph) *Matrix {
	m := newMatrix(g, Adjacency, 0, 0)
	for _, e := range g.Edges() {
		m.set(e.From, e.To, 1)
	}
	return m
}

// NewWeights returns the edge weight matrix. The diagonal is 0 and pairs
// without an edge hold +Inf.
func NewWeights(g *graph.Graph) *Matrix {
	m := newMatrix(g, Weights, 0, math.Inf(1))
	for _, e := range g.Edges() {
		m.set(e.From, e.To, e.Weight)
	}
	return m
}

func newMatrix(g *graph.Graph, kind Kind, diag, fill float64) *Matrix {
	ids := g.NodeIDs()
	slices.Sort(ids)
	n := len(ids)
	m := &Matrix{Kind: kind, IDs: ids, data: make([]float64, n*n)}
	for i := range n {
		for j := range n {
			if i == j {
				m.data[i*n+j] = diag
			} else {
				m.data[i*n+j] = fill
			}
		}
	}
	return m
}

// Size returns the number of rows (and columns).
func (m *Matrix) Size() int { return len(m.IDs) }

// At returns the cell at (row, col).
func (m *Matrix) At(row, col int) float64 {
	return m.data[row*len(m.IDs)+col]
}

// Lookup returns the cell for the ordered pair (from, to).
func (m *Matrix) Lookup(from, to string) (float64, bool) {
	i, j := m.index(from), m.index(to)
	if i < 0 || j < 0 {
		return 0, false
	}
	return m.At(i, j), true
}

// Rows returns a copy of the cells as a slice of rows.
func (m *Matrix) Rows() [][]float64 {
	n := len(m.IDs)
	out := make([][]float64, n)
	for i := range n {
		out[i] = slices.Clone(m.data[i*n : (i+1)*n])
	}
	return out
}

func (m *Matrix) index(id string) int {
	i, ok := slices.BinarySearch(m.IDs, id)
	if !ok {
		return -1
	}
	return i
}

func (m *Matrix) set(from, to string, v float64) {
	i, j := m.index(from), m.index(to)
	if i < 0 || j < 0 {
		return
	}
	m.data[i*len(m.IDs)+j] = v
}

// =============================================================================
// Formatting
// =============================================================================

// FormatCell renders a cell for display: "∞" for +Inf, otherwise the shortest
// decimal form.
func FormatCell(v float64) string {
	if math.IsInf(v, 1) {
		return "∞"
	}
	return graph.FormatWeight(v)
}

func csvCell(v float64) string {
	if math.IsInf(v, 1) {
		return "inf"
	}
	return graph.FormatWeight(v)
}

// WriteCSV writes the matrix with a header row of IDs and one labeled row
// per node.
func (m *Matrix) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	header := append([]string{""}, m.IDs...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for i, id := range m.IDs {
		row := make([]string, 0, len(m.IDs)+1)
		row = append(row, id)
		for j := range m.IDs {
			row = append(row, csvCell(m.At(i, j)))
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %s: %w", id, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// FileName returns the conventional export name, e.g. "matrix_weights.csv".
func (m *Matrix) FileName() string {
	return fmt.Sprintf("matrix_%s.csv", m.Kind)
}

// MarshalJSON encodes {kind, ids, rows} with +Inf as null.
func (m *Matrix) MarshalJSON() ([]byte, error) {
	rows := make([][]*float64, m.Size())
	for i := range rows {
		rows[i] = make([]*float64, m.Size())
		for j := range rows[i] {
			if v := m.At(i, j); !math.IsInf(v, 1) {
				rows[i][j] = &v
			}
		}
	}
	return json.Marshal(struct {
		Kind Kind         `json:"kind"`
		IDs  []string     `json:"ids"`
		Rows [][]*float64 `json:"rows"`
	}{m.Kind, m.IDs, rows})
}
