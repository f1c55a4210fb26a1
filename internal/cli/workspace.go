package cli

import (
	"context"
	"errors"

	rterrors "github.com/matzehuels/routetrace/pkg/errors"
	"github.com/matzehuels/routetrace/pkg/graph"
	"github.com/matzehuels/routetrace/pkg/session"
)

// errNoWorkspace is returned by commands that need a graph before one exists.
var errNoWorkspace = rterrors.New(rterrors.ErrCodeSessionNotFound,
	"no workspace graph; create one with 'routetrace graph new'")

// openWorkspace opens the workspace in the configured store directory.
func (c *CLI) openWorkspace() (*session.Workspace, error) {
	return session.NewWorkspace(c.Config.Store.Dir, c.Config.Store.TTL())
}

// loadWorkspace returns the workspace session and its graph.
func (c *CLI) loadWorkspace(ctx context.Context) (*session.Workspace, *session.Session, *graph.Graph, error) {
	ws, err := c.openWorkspace()
	if err != nil {
		return nil, nil, nil, err
	}
	sess, err := ws.Load(ctx)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, nil, nil, errNoWorkspace
		}
		return nil, nil, nil, err
	}
	g, err := sess.LoadGraph()
	if err != nil {
		return nil, nil, nil, err
	}
	return ws, sess, g, nil
}

// loadRun returns the workspace session, requiring a stored route run.
func (c *CLI) loadRun(ctx context.Context) (*session.Workspace, *session.Session, *graph.Graph, error) {
	ws, sess, g, err := c.loadWorkspace(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	if !sess.HasRun() {
		return nil, nil, nil, rterrors.New(rterrors.ErrCodeNotFound,
			"no route computed yet; run 'routetrace solve SOURCE TARGET'")
	}
	return ws, sess, g, nil
}

// editWorkspace applies edit to the workspace graph and saves it. Any stored
// run is discarded because it no longer matches the graph.
func (c *CLI) editWorkspace(ctx context.Context, edit func(*graph.Graph) error) (*graph.Graph, error) {
	ws, sess, g, err := c.loadWorkspace(ctx)
	if err != nil {
		return nil, err
	}
	if err := edit(g); err != nil {
		return nil, err
	}
	sess.SetGraph(g)
	if err := ws.Save(ctx, sess); err != nil {
		return nil, err
	}
	return g, nil
}

// saveGraph replaces the workspace with a fresh session holding g.
func (c *CLI) saveGraph(ctx context.Context, g *graph.Graph) (*session.Workspace, error) {
	ws, err := c.openWorkspace()
	if err != nil {
		return nil, err
	}
	sess, err := session.NewWithID(session.WorkspaceID, g, ws.TTL())
	if err != nil {
		return nil, err
	}
	return ws, ws.Save(ctx, sess)
}
