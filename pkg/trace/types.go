package trace

import (
	"encoding/json"
	"math"
	"slices"
	"strings"

	"github.com/matzehuels/routetrace/pkg/graph"
)

// StepType names the event a Step records.
type StepType string

// Step types in the order they can first appear in a trace.
const (
	StepInit        StepType = "init"
	StepExtract     StepType = "extract"
	StepRelaxBetter StepType = "relax-better"
	StepRelaxTie    StepType = "relax-tie"
	StepRelaxNone   StepType = "relax-none"
)

// IsRelax reports whether t is one of the relaxation events.
func (t StepType) IsRelax() bool {
	return t == StepRelaxBetter || t == StepRelaxTie || t == StepRelaxNone
}

// =============================================================================
// Distances
// =============================================================================

// Distances maps node IDs to their best known distance from the source.
// Unreached nodes hold +Inf, which is encoded as null in JSON.
type Distances map[string]float64

// Get returns the distance for id, or +Inf when id is unknown.
func (d Distances) Get(id string) float64 {
	if v, ok := d[id]; ok {
		return v
	}
	return math.Inf(1)
}

// Reached reports whether id has a finite distance.
func (d Distances) Reached(id string) bool {
	return !math.IsInf(d.Get(id), 1)
}

// Clone returns an independent copy.
func (d Distances) Clone() Distances {
	out := make(Distances, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// MarshalJSON encodes +Inf as null.
func (d Distances) MarshalJSON() ([]byte, error) {
	out := make(map[string]*float64, len(d))
	for k, v := range d {
		if math.IsInf(v, 1) {
			out[k] = nil
			continue
		}
		out[k] = &v
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes null as +Inf.
func (d *Distances) UnmarshalJSON(data []byte) error {
	var in map[string]*float64
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	out := make(Distances, len(in))
	for k, v := range in {
		if v == nil {
			out[k] = math.Inf(1)
			continue
		}
		out[k] = *v
	}
	*d = out
	return nil
}

// =============================================================================
// NodeSet
// =============================================================================

// NodeSet is an insertion-ordered set of node IDs, encoded as a JSON array.
type NodeSet struct {
	items []string
}

// NewNodeSet returns a set holding ids in order, without duplicates.
func NewNodeSet(ids ...string) *NodeSet {
	s := &NodeSet{}
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Add inserts id and reports whether it was absent.
func (s *NodeSet) Add(id string) bool {
	if s.Has(id) {
		return false
	}
	s.items = append(s.items, id)
	return true
}

// Reset replaces the contents with the single element id.
func (s *NodeSet) Reset(id string) {
	s.items = []string{id}
}

// Has reports whether id is in the set.
func (s *NodeSet) Has(id string) bool {
	return s != nil && slices.Contains(s.items, id)
}

// Len returns the number of elements.
func (s *NodeSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

// Items returns the elements in insertion order.
func (s *NodeSet) Items() []string {
	if s == nil {
		return nil
	}
	return slices.Clone(s.items)
}

// Clone returns an independent copy.
func (s *NodeSet) Clone() *NodeSet {
	if s == nil {
		return &NodeSet{}
	}
	return &NodeSet{items: slices.Clone(s.items)}
}

// String renders the set as "{A, B}".
func (s *NodeSet) String() string {
	return "{" + strings.Join(s.Items(), ", ") + "}"
}

// MarshalJSON encodes the set as an array, never null.
func (s *NodeSet) MarshalJSON() ([]byte, error) {
	if s == nil || len(s.items) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(s.items)
}

// UnmarshalJSON decodes an array, dropping duplicates.
func (s *NodeSet) UnmarshalJSON(data []byte) error {
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	s.items = nil
	for _, id := range ids {
		s.Add(id)
	}
	return nil
}

// Predecessors maps each node to the set of nodes that reach it along a
// shortest path found so far.
type Predecessors map[string]*NodeSet

// Get returns the predecessor set of id, or an empty set.
func (p Predecessors) Get(id string) *NodeSet {
	if s, ok := p[id]; ok && s != nil {
		return s
	}
	return &NodeSet{}
}

// Clone returns a deep copy.
func (p Predecessors) Clone() Predecessors {
	out := make(Predecessors, len(p))
	for k, v := range p {
		out[k] = v.Clone()
	}
	return out
}

// =============================================================================
// Trace
// =============================================================================

// QueueEntry is one element of the frontier snapshot.
type QueueEntry struct {
	Node string  `json:"node"`
	Dist float64 `json:"dist"`
}

// Step is one recorded event of a computation. Queue, Dist and Pred are
// deep copies taken at the moment of the event.
type Step struct {
	Type      StepType     `json:"type"`
	Edge      *graph.Edge  `json:"edge,omitempty"`
	Extracted string       `json:"extracted,omitempty"`
	Queue     []QueueEntry `json:"queue"`
	Dist      Distances    `json:"dist"`
	Pred      Predecessors `json:"pred"`
}

// Trace is the ordered record of a computation. It is never modified after
// Compute returns and may be shared between readers.
type Trace []Step

// Result is the outcome of Compute.
type Result struct {
	Source string       `json:"source"`
	Target string       `json:"target"`
	Trace  Trace        `json:"trace"`
	Dist   Distances    `json:"dist"`
	Pred   Predecessors `json:"pred"`
}

// Reached reports whether the target has a finite distance.
func (r *Result) Reached() bool {
	return r.Dist.Reached(r.Target)
}

// Distance returns the target distance and whether it was reached.
func (r *Result) Distance() (float64, bool) {
	d := r.Dist.Get(r.Target)
	return d, !math.IsInf(d, 1)
}

// Summary condenses a run for persistence and display.
// Distance is nil when the target was not reached.
type Summary struct {
	Source   string   `json:"source"`
	Target   string   `json:"target"`
	Distance *float64 `json:"distance"`
}

// Summary returns the condensed form of r.
func (r *Result) Summary() Summary {
	s := Summary{Source: r.Source, Target: r.Target}
	if d, ok := r.Distance(); ok {
		s.Distance = &d
	}
	return s
}
