package nodelink

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/routetrace/pkg/graph"
	"github.com/matzehuels/routetrace/pkg/trace"
)

func sample(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.New()
	for _, id := range []string{"A", "B", "C"} {
		g.AddNode(graph.Node{ID: id})
	}
	_ = g.Connect("A", "B", 2)
	_ = g.UpsertEdge(graph.Edge{From: "B", To: "C", Weight: 1})
	return g
}

func TestToDOT(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		want    []string
		notWant []string
	}{
		{
			name: "Plain",
			want: []string{
				"digraph G {",
				`"A" [label="A"]`,
				`"A" -> "B" [label="2"]`,
				`"B" -> "A" [label="2"]`,
				`"B" -> "C" [label="1"]`,
			},
			notWant: []string{"dir=none", "penwidth"},
		},
		{
			name: "Merge",
			opts: Options{Merge: true},
			want: []string{`"A" -> "B" [label="2", dir=none]`},
			notWant: []string{`"B" -> "A"`},
		},
		{
			name: "Highlight",
			opts: Options{Highlight: trace.Path{"A", "B", "C"}},
			want: []string{
				`"B" -> "C" [label="1", color="` + colorRoute + `"`,
				"peripheries=2",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dot := ToDOT(sample(t), tt.opts)
			for _, w := range tt.want {
				if !strings.Contains(dot, w) {
					t.Errorf("DOT missing %s\n%s", w, dot)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(dot, w) {
					t.Errorf("DOT unexpectedly contains %s\n%s", w, dot)
				}
			}
		})
	}
}

func TestToDOTStepOverlay(t *testing.T) {
	g := sample(t)
	res := trace.Compute(g, "A", "C")

	// Step 2 relaxes A->B for the first time.
	step := res.Trace[2]
	if step.Type != trace.StepRelaxBetter {
		t.Fatalf("step type = %s", step.Type)
	}
	dot := ToDOT(g, Options{Step: &step})
	for _, w := range []string{
		`label="A\n0"`,
		`label="B\n2"`,
		`label="C"`,
		`color="` + colorBetter + `"`,
	} {
		if !strings.Contains(dot, w) {
			t.Errorf("DOT missing %s\n%s", w, dot)
		}
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(context.Background(), ToDOT(sample(t), Options{Merge: true}))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	s := string(svg)
	if !strings.Contains(s, "<svg") || !strings.Contains(s, `viewBox="0 0 `) {
		t.Errorf("unexpected SVG output: %.200s", s)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" height="20pt" viewBox="0.00 0.00 10.00 20.00"><g/></svg>`)
	out := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10.00 20.00" width="10" height="20"><g/></svg>`
	if out != want {
		t.Errorf("normalizeViewBox() = %s, want %s", out, want)
	}
	if got := string(normalizeViewBox([]byte("<svg></svg>"))); got != "<svg></svg>" {
		t.Errorf("no viewBox changed output: %s", got)
	}
}
