// Package session persists a user's working state between requests.
//
// A [Session] holds the graph being edited, the last route run over it and
// the index of the route currently selected for display. Editing the graph
// through [Session.SetGraph] drops the run so stale traces are never shown.
//
// Three [Store] backends are provided:
//   - [MemoryStore]: in-process storage for tests and single-instance servers
//   - [RedisStore]: shared storage for multi-instance deployments
//   - [FileStore]: JSON files for the CLI workspace
//
// # Usage
//
//	sess, err := session.New(graph.Sample(), session.DefaultTTL)
//	if err != nil {
//	    return err
//	}
//	if err := store.Set(ctx, sess); err != nil {
//	    return err
//	}
//
//	sess, err = store.Get(ctx, id)
//	if errors.Is(err, session.ErrNotFound) {
//	    // unknown or expired
//	}
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/routetrace/pkg/graph"
	"github.com/matzehuels/routetrace/pkg/trace"
)

// Sentinel errors for session operations.
var (
	// ErrNotFound is returned when a session does not exist.
	ErrNotFound = errors.New("session not found")

	// ErrExpired is returned when a session has exceeded its TTL. It wraps
	// ErrNotFound so callers can treat both the same way.
	ErrExpired = errExpired{}
)

type errExpired struct{}

func (errExpired) Error() string        { return "session expired" }
func (errExpired) Is(target error) bool { return target == ErrNotFound }

// DefaultTTL is the default session lifetime, refreshed on every write.
const DefaultTTL = 24 * time.Hour

// Run is the stored outcome of one route computation.
type Run struct {
	Source      string             `json:"source"`
	Target      string             `json:"target"`
	Summary     trace.Summary      `json:"summary"`
	Trace       trace.Trace        `json:"trace"`
	Paths       []trace.Path       `json:"paths"`
	Truncated   bool               `json:"truncated,omitempty"`
	Alternative *trace.Alternative `json:"alternative,omitempty"`
	PathIndex   int                `json:"path_index"`
}

// Session is the persisted working state of one user.
type Session struct {
	ID        string         `json:"id"`
	Graph     graph.Snapshot `json:"graph"`
	Run       *Run           `json:"run,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	ExpiresAt time.Time      `json:"expires_at"`
}

// New creates a session holding a snapshot of g.
func New(g *graph.Graph, ttl time.Duration) (*Session, error) {
	return NewWithID(uuid.NewString(), g, ttl)
}

// NewWithID creates a session with a caller-chosen id.
func NewWithID(id string, g *graph.Graph, ttl time.Duration) (*Session, error) {
	if id == "" {
		return nil, errors.New("session id is required")
	}
	if g == nil {
		g = graph.New()
	}
	now := time.Now()
	return &Session{
		ID:        id,
		Graph:     g.Snapshot(),
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(ttl),
	}, nil
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Touch marks the session as updated and extends its lifetime.
func (s *Session) Touch(ttl time.Duration) {
	s.UpdatedAt = time.Now()
	s.ExpiresAt = s.UpdatedAt.Add(ttl)
}

// LoadGraph rebuilds the stored graph, validating it on the way.
func (s *Session) LoadGraph() (*graph.Graph, error) {
	return graph.FromSnapshot(s.Graph)
}

// SetGraph stores a snapshot of g and discards the run computed on the
// previous graph.
func (s *Session) SetGraph(g *graph.Graph) {
	s.Graph = g.Snapshot()
	s.Run = nil
}

// SetRun replaces the stored run and selects its first path.
func (s *Session) SetRun(r Run) {
	r.PathIndex = 0
	s.Run = &r
}

// HasRun reports whether a run is stored.
func (s *Session) HasRun() bool { return s.Run != nil }

// SelectedPath returns the currently selected shortest path.
func (s *Session) SelectedPath() (trace.Path, bool) {
	if s.Run == nil || len(s.Run.Paths) == 0 {
		return nil, false
	}
	i := s.Run.PathIndex
	if i < 0 || i >= len(s.Run.Paths) {
		i = 0
	}
	return s.Run.Paths[i], true
}

// NextPath advances the selection to the next shortest path, wrapping
// around, and returns the new index. It returns -1 when there is nothing to
// select.
func (s *Session) NextPath() int {
	if s.Run == nil || len(s.Run.Paths) == 0 {
		return -1
	}
	s.Run.PathIndex = (s.Run.PathIndex + 1) % len(s.Run.Paths)
	return s.Run.PathIndex
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID. It returns ErrNotFound for unknown ids
	// and ErrExpired for sessions past their expiry, which are removed.
	Get(ctx context.Context, id string) (*Session, error)

	// Set stores a session.
	Set(ctx context.Context, sess *Session) error

	// Delete removes a session. Deleting a missing session is not an error.
	Delete(ctx context.Context, id string) error

	// Cleanup removes expired sessions (may be a no-op for Redis).
	Cleanup(ctx context.Context) error

	// Close releases resources held by the store.
	Close() error
}
