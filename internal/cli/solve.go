package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/routetrace/pkg/graph"
	"github.com/matzehuels/routetrace/pkg/pipeline"
	"github.com/matzehuels/routetrace/pkg/session"
)

// solveOpts holds the flags of "solve".
type solveOpts struct {
	limit   int
	alt     bool
	json    bool
	noCache bool
	refresh bool
}

// solveCommand creates the solve command.
func (c *CLI) solveCommand() *cobra.Command {
	var opts solveOpts

	cmd := &cobra.Command{
		Use:   "solve SOURCE TARGET",
		Short: "Compute the shortest routes between two nodes",
		Long: `Compute the shortest routes from SOURCE to TARGET on the workspace graph.

The full step trace is stored in the workspace for 'steps', 'play' and
'render'. Every shortest path is listed up to --limit; --alt also looks for
the cheapest route that avoids part of the best one.`,
		Example: `  routetrace solve A D
  routetrace solve k e --alt --limit 5
  routetrace solve A D --json | jq .summary`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSolve(cmd, args[0], args[1], opts)
		},
	}

	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 0, "maximum number of shortest paths (default from config)")
	cmd.Flags().BoolVar(&opts.alt, "alt", false, "also suggest the next best route")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the full result as JSON")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the run cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even when cached")

	return cmd
}

func (c *CLI) runSolve(cmd *cobra.Command, source, target string, opts solveOpts) error {
	ctx := cmd.Context()
	ws, sess, g, err := c.loadWorkspace(ctx)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	limit := opts.limit
	if limit == 0 {
		limit = c.Config.Paths.Limit
	}
	res, err := runner.Execute(ctx, g, pipeline.Options{
		Source:      source,
		Target:      target,
		Limit:       limit,
		Alternative: opts.alt,
		Refresh:     opts.refresh,
		Logger:      loggerFromContext(ctx),
	})
	if err != nil {
		return err
	}

	sess.SetRun(res.SessionRun())
	if err := ws.Save(ctx, sess); err != nil {
		return err
	}

	if opts.json {
		return writeJSON(cmd.OutOrStdout(), res)
	}
	printRoute(cmd.OutOrStdout(), res)
	printStats(res.Stats.NodeCount, res.Stats.EdgeCount, res.Stats.Steps, res.CacheHit)
	if res.Reached {
		printNewline()
		printNextStep("Replay the search", "routetrace play")
	}
	return nil
}

func printRoute(w io.Writer, res *pipeline.Result) {
	d, ok := res.Distance()
	if !ok {
		fmt.Fprintf(w, "%s no route from %s to %s\n",
			StyleWarning.Render(iconWarning), res.Source, res.Target)
		return
	}
	fmt.Fprintf(w, "%s %s → %s  distance %s\n",
		styleIconSuccess.Render(iconSuccess), res.Source, res.Target, StyleNumber.Render(graph.FormatWeight(d)))
	printPaths(w, res.SessionRun())
	if res.Alternative != nil {
		fmt.Fprintf(w, "  %s %s  %s\n", StyleDim.Render("next best"),
			res.Alternative.Path, StyleDim.Render("("+graph.FormatWeight(res.Alternative.Cost)+")"))
	}
}

// printPaths lists the shortest paths of run, marking the selected one.
func printPaths(w io.Writer, run session.Run) {
	for i, p := range run.Paths {
		marker := "  "
		line := StyleValue.Render(p.String())
		if i == run.PathIndex {
			marker = StyleRoute.Render("▸ ")
			line = StyleRoute.Render(p.String())
		}
		fmt.Fprintf(w, "  %s%s\n", marker, line)
	}
	if run.Truncated {
		fmt.Fprintf(w, "  %s\n", StyleWarning.Render(fmt.Sprintf("showing the first %d paths", len(run.Paths))))
	}
}

// pathsCommand lists the stored shortest paths and cycles the selection.
func (c *CLI) pathsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "paths",
		Short: "List the shortest paths of the last route",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, sess, _, err := c.loadRun(cmd.Context())
			if err != nil {
				return err
			}
			run := *sess.Run
			if len(run.Paths) == 0 {
				printWarning("No route from %s to %s", run.Source, run.Target)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s → %s  %d shortest path(s)\n", run.Source, run.Target, len(run.Paths))
			printPaths(cmd.OutOrStdout(), run)
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "next",
		Short: "Select the next shortest path for render and play",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ws, sess, _, err := c.loadRun(ctx)
			if err != nil {
				return err
			}
			i := sess.NextPath()
			if i < 0 {
				printWarning("No route from %s to %s", sess.Run.Source, sess.Run.Target)
				return nil
			}
			if err := ws.Save(ctx, sess); err != nil {
				return err
			}
			p, _ := sess.SelectedPath()
			fmt.Fprintf(cmd.OutOrStdout(), "%d/%d %s\n", i+1, len(sess.Run.Paths), p)
			return nil
		},
	})

	return cmd
}

// writeJSON writes v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
