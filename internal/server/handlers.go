package server

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	rterrors "github.com/matzehuels/routetrace/pkg/errors"
	"github.com/matzehuels/routetrace/pkg/graph"
	"github.com/matzehuels/routetrace/pkg/matrix"
	"github.com/matzehuels/routetrace/pkg/pipeline"
	"github.com/matzehuels/routetrace/pkg/render/nodelink"
	"github.com/matzehuels/routetrace/pkg/session"
	"github.com/matzehuels/routetrace/pkg/trace"
)

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// Sessions
// =============================================================================

type createSessionRequest struct {
	Graph  *graph.Snapshot `json:"graph,omitempty"`
	Sample string          `json:"sample,omitempty"`
	N      int             `json:"n,omitempty"`
	Seed   uint64          `json:"seed,omitempty"`
}

func (req createSessionRequest) build() (*graph.Graph, error) {
	if req.Graph != nil {
		if req.Sample != "" {
			return nil, rterrors.New(rterrors.ErrCodeInvalidInput, "graph and sample are mutually exclusive")
		}
		return graph.FromSnapshot(*req.Graph)
	}
	return graph.FromPreset(req.Sample, req.N, req.Seed)
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if r.ContentLength != 0 {
		if err := decode(r, &req); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	g, err := req.build()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sess, err := session.New(g, s.ttl)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.Set(r.Context(), sess); err != nil {
		s.writeError(w, r, fmt.Errorf("store session: %w", err))
		return
	}
	s.logger.Info("session created", "id", sess.ID, "nodes", g.NodeCount(), "edges", g.EdgeCount())
	writeJSON(w, http.StatusCreated, sess)
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Graph edits
// =============================================================================

// editGraph loads the session graph, applies edit and stores the result with
// the run cleared.
func (s *Server) editGraph(w http.ResponseWriter, r *http.Request, edit func(g *graph.Graph) error) {
	sess, g, err := s.load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := edit(g); err != nil {
		s.writeError(w, r, err)
		return
	}
	sess.SetGraph(g)
	if err := s.save(r.Context(), sess); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) replaceGraph(w http.ResponseWriter, r *http.Request) {
	var snap graph.Snapshot
	if err := decode(r, &snap); err != nil {
		s.writeError(w, r, err)
		return
	}
	next, err := graph.FromSnapshot(snap)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.editGraph(w, r, func(g *graph.Graph) error {
		*g = *next
		return nil
	})
}

type nodeRequest struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

func (s *Server) addNode(w http.ResponseWriter, r *http.Request) {
	var req nodeRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.editGraph(w, r, func(g *graph.Graph) error {
		_, err := g.InsertNode(graph.Node{ID: req.ID, X: req.X, Y: req.Y})
		return err
	})
}

func (s *Server) removeNode(w http.ResponseWriter, r *http.Request) {
	s.editGraph(w, r, func(g *graph.Graph) error {
		return g.DeleteNode(chi.URLParam(r, "node"))
	})
}

type edgeRequest struct {
	From    string   `json:"from"`
	To      string   `json:"to"`
	Weight  *float64 `json:"weight"`
	Both    bool     `json:"both,omitempty"`
	Replace bool     `json:"replace,omitempty"`
}

func (s *Server) addEdge(w http.ResponseWriter, r *http.Request) {
	var req edgeRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	weight := math.NaN()
	if req.Weight != nil {
		weight = *req.Weight
	}
	opts := graph.EdgeOptions{AllowExisting: req.Replace}
	s.editGraph(w, r, func(g *graph.Graph) error {
		e, err := g.AddEdge(graph.Edge{From: req.From, To: req.To, Weight: weight}, opts)
		if err != nil || !req.Both {
			return err
		}
		_, err = g.AddEdge(graph.Edge{From: e.To, To: e.From, Weight: weight}, opts)
		return err
	})
}

func (s *Server) deleteEdge(w http.ResponseWriter, r *http.Request) {
	s.editGraph(w, r, func(g *graph.Graph) error {
		return g.RemoveEdge(chi.URLParam(r, "from"), chi.URLParam(r, "to"))
	})
}

// =============================================================================
// Runs
// =============================================================================

func (s *Server) run(w http.ResponseWriter, r *http.Request) {
	var opts pipeline.Options
	if err := decode(r, &opts); err != nil {
		s.writeError(w, r, err)
		return
	}
	sess, g, err := s.load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Logger = s.logger
	res, err := s.runner.Execute(r.Context(), g, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sess.SetRun(res.SessionRun())
	if err := s.save(r.Context(), sess); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type pathResponse struct {
	PathIndex int        `json:"path_index"`
	Path      trace.Path `json:"path"`
	Count     int        `json:"count"`
}

func (s *Server) nextPath(w http.ResponseWriter, r *http.Request) {
	sess, err := s.loadRun(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	idx := sess.NextPath()
	if err := s.save(r.Context(), sess); err != nil {
		s.writeError(w, r, err)
		return
	}
	p, _ := sess.SelectedPath()
	writeJSON(w, http.StatusOK, pathResponse{PathIndex: idx, Path: p, Count: len(sess.Run.Paths)})
}

type stepsResponse struct {
	Source  string        `json:"source"`
	Target  string        `json:"target"`
	Summary trace.Summary `json:"summary"`
	Steps   trace.Trace   `json:"steps"`
}

func (s *Server) steps(w http.ResponseWriter, r *http.Request) {
	sess, err := s.loadRun(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	run := sess.Run
	writeJSON(w, http.StatusOK, stepsResponse{
		Source:  run.Source,
		Target:  run.Target,
		Summary: run.Summary,
		Steps:   run.Trace,
	})
}

// =============================================================================
// Views
// =============================================================================

func (s *Server) matrix(w http.ResponseWriter, r *http.Request) {
	kind, err := matrix.ParseKind(r.URL.Query().Get("type"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	_, g, err := s.load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	m, err := matrix.Build(g, kind)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	switch format := r.URL.Query().Get("format"); format {
	case "", "json":
		writeJSON(w, http.StatusOK, m)
	case "csv":
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", m.FileName()))
		if err := m.WriteCSV(w); err != nil {
			s.logger.Error("write csv", "error", err)
		}
	default:
		s.writeError(w, r, rterrors.New(rterrors.ErrCodeInvalidFormat, "unsupported matrix format %q (want json or csv)", format))
	}
}

func (s *Server) render(w http.ResponseWriter, r *http.Request) {
	sess, g, err := s.load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	q := r.URL.Query()
	opts := nodelink.Options{Merge: q.Get("merge") == "true"}
	if p, ok := sess.SelectedPath(); ok {
		opts.Highlight = p
	}
	if raw := q.Get("step"); raw != "" {
		i, err := strconv.Atoi(raw)
		if err != nil || !sess.HasRun() || i < 0 || i >= len(sess.Run.Trace) {
			s.writeError(w, r, rterrors.New(rterrors.ErrCodeInvalidInput, "step %q is out of range", raw))
			return
		}
		opts.Step = &sess.Run.Trace[i]
	}
	dot := nodelink.ToDOT(g, opts)

	switch format := q.Get("format"); format {
	case "", "dot":
		w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
		_, _ = w.Write([]byte(dot))
	case "svg":
		svg, err := nodelink.RenderSVG(r.Context(), dot)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "image/svg+xml")
		_, _ = w.Write(svg)
	default:
		s.writeError(w, r, rterrors.New(rterrors.ErrCodeInvalidFormat, "unsupported render format %q (want dot or svg)", format))
	}
}

// =============================================================================
// Helpers
// =============================================================================

func (s *Server) load(ctx context.Context, id string) (*session.Session, *graph.Graph, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	g, err := sess.LoadGraph()
	if err != nil {
		return nil, nil, fmt.Errorf("load session graph: %w", err)
	}
	return sess, g, nil
}

func (s *Server) loadRun(ctx context.Context, id string) (*session.Session, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !sess.HasRun() {
		return nil, rterrors.New(rterrors.ErrCodeNotFound, "session has no route run yet")
	}
	return sess, nil
}

func (s *Server) save(ctx context.Context, sess *session.Session) error {
	sess.Touch(s.ttl)
	if err := s.store.Set(ctx, sess); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}
