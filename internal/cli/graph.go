package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	rterrors "github.com/matzehuels/routetrace/pkg/errors"
	"github.com/matzehuels/routetrace/pkg/graph"
)

// graphCommand creates the graph command and its editing subcommands.
func (c *CLI) graphCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Create, edit and inspect the workspace graph",
		Long: `Create, edit and inspect the workspace graph.

Every edit discards the route computed on the previous graph.`,
	}

	cmd.AddCommand(c.graphNewCommand())
	cmd.AddCommand(c.graphImportCommand())
	cmd.AddCommand(c.graphExportCommand())
	cmd.AddCommand(c.graphShowCommand())
	cmd.AddCommand(c.graphAddNodeCommand())
	cmd.AddCommand(c.graphRemoveNodeCommand())
	cmd.AddCommand(c.graphAddEdgeCommand())
	cmd.AddCommand(c.graphDelEdgeCommand())

	return cmd
}

// graphNewOpts holds the flags of "graph new".
type graphNewOpts struct {
	tieDemo bool
	random  int
	seed    uint64
	empty   bool
}

func (o graphNewOpts) preset() string {
	switch {
	case o.tieDemo:
		return graph.PresetTieDemo
	case o.random > 0:
		return graph.PresetRandom
	case o.empty:
		return graph.PresetEmpty
	default:
		return graph.PresetSample
	}
}

func (c *CLI) graphNewCommand() *cobra.Command {
	var opts graphNewOpts

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Start a new workspace graph",
		Long: `Start a new workspace graph from a preset.

Without flags the eight-node sample map is used. --random N builds a random
map of N nodes (8 to 16); pass --seed to reproduce one.`,
		Example: `  routetrace graph new
  routetrace graph new --tie-demo
  routetrace graph new --random 12 --seed 42`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			preset := opts.preset()
			if preset == graph.PresetRandom && !cmd.Flags().Changed("seed") {
				opts.seed = uint64(time.Now().UnixNano())
			}
			g, err := graph.FromPreset(preset, opts.random, opts.seed)
			if err != nil {
				return err
			}
			ws, err := c.saveGraph(cmd.Context(), g)
			if err != nil {
				return err
			}

			printSuccess("Created %s graph", preset)
			printStats(g.NodeCount(), g.EdgeCount(), 0, false)
			if preset == graph.PresetRandom {
				printDetail("Seed: %d", opts.seed)
			}
			printDetail("Workspace: %s", ws.Path())
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.tieDemo, "tie-demo", false, "sixteen-node map with tied routes")
	cmd.Flags().IntVar(&opts.random, "random", 0, "random map with N nodes")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "seed for --random")
	cmd.Flags().BoolVar(&opts.empty, "empty", false, "start without nodes")
	cmd.Flags().Bool("sample", false, "eight-node sample map (default)")
	cmd.MarkFlagsMutuallyExclusive("sample", "tie-demo", "random", "empty")

	return cmd
}

func (c *CLI) graphImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Replace the workspace graph with a JSON or TOML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prog := newProgress(loggerFromContext(cmd.Context()))
			g, err := graph.ReadFile(args[0])
			if err != nil {
				return err
			}
			if _, err := c.saveGraph(cmd.Context(), g); err != nil {
				return err
			}
			prog.done("Loaded " + args[0])
			printSuccess("Imported %s", args[0])
			printStats(g.NodeCount(), g.EdgeCount(), 0, false)
			return nil
		},
	}
}

func (c *CLI) graphExportCommand() *cobra.Command {
	var (
		output string
		format string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the workspace graph as JSON or TOML",
		Example: `  routetrace graph export > map.json
  routetrace graph export -o map.toml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, g, err := c.loadWorkspace(cmd.Context())
			if err != nil {
				return err
			}
			if output == "" {
				return graph.Write(g, cmd.OutOrStdout(), graph.Format(format))
			}
			f := graph.Format(format)
			if !cmd.Flags().Changed("format") {
				if f, err = graph.FormatFromPath(output); err != nil {
					return err
				}
			}
			file, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create %s: %w", output, err)
			}
			defer file.Close()
			if err := graph.Write(g, file, f); err != nil {
				return err
			}
			printSuccess("Exported graph")
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", string(graph.FormatJSON), "json or toml")

	return cmd
}

func (c *CLI) graphShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the nodes and edges of the workspace graph",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, sess, g, err := c.loadWorkspace(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			nodes := make([][]string, 0, g.NodeCount())
			for _, n := range g.Nodes() {
				nodes = append(nodes, []string{n.ID, graph.FormatWeight(n.X), graph.FormatWeight(n.Y)})
			}
			fmt.Fprintln(out, StyleTitle.Render("Nodes"))
			fmt.Fprintln(out, renderTable([]string{"ID", "X", "Y"}, nodes, nil))

			edges := make([][]string, 0, g.EdgeCount())
			for _, e := range g.Edges() {
				edges = append(edges, []string{e.From, e.To, graph.FormatWeight(e.Weight)})
			}
			fmt.Fprintln(out, StyleTitle.Render("Edges"))
			fmt.Fprintln(out, renderTable([]string{"From", "To", "Weight"}, edges, nil))

			if sess.HasRun() {
				printDetail("Route %s → %s computed; see 'routetrace paths'", sess.Run.Source, sess.Run.Target)
			}
			return nil
		},
	}
}

func (c *CLI) graphAddNodeCommand() *cobra.Command {
	var x, y float64

	cmd := &cobra.Command{
		Use:   "add-node ID",
		Short: "Add a node",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var added graph.Node
			_, err := c.editWorkspace(cmd.Context(), func(g *graph.Graph) error {
				n, err := g.InsertNode(graph.Node{ID: args[0], X: x, Y: y})
				added = n
				return err
			})
			if err != nil {
				return err
			}
			printSuccess("Added node %s", StyleHighlight.Render(added.ID))
			return nil
		},
	}

	cmd.Flags().Float64Var(&x, "x", 0, "horizontal position")
	cmd.Flags().Float64Var(&y, "y", 0, "vertical position")

	return cmd
}

func (c *CLI) graphRemoveNodeCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "remove-node ID",
		Aliases: []string{"rm-node"},
		Short:   "Remove a node and its edges",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := graph.NormalizeNodeID(args[0])
			if _, err := c.editWorkspace(cmd.Context(), func(g *graph.Graph) error {
				return g.DeleteNode(id)
			}); err != nil {
				return err
			}
			printSuccess("Removed node %s", StyleHighlight.Render(id))
			return nil
		},
	}
}

func (c *CLI) graphAddEdgeCommand() *cobra.Command {
	var both, replace bool

	cmd := &cobra.Command{
		Use:   "add-edge FROM TO WEIGHT",
		Short: "Add a directed edge",
		Long: `Add a directed edge FROM → TO with a non-negative WEIGHT.

--both also adds TO → FROM with the same weight. --replace updates the weight
of an existing edge instead of failing.`,
		Example: `  routetrace graph add-edge A B 3
  routetrace graph add-edge a c 2.5 --both`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			e := graph.Edge{From: args[0], To: args[1], Weight: graph.ParseWeight(args[2])}
			opts := graph.EdgeOptions{AllowExisting: replace}

			var added []graph.Edge
			_, err := c.editWorkspace(cmd.Context(), func(g *graph.Graph) error {
				if both {
					rev := graph.Edge{From: e.To, To: e.From, Weight: e.Weight}
					if err := graph.ValidateEdge(g, rev, opts); err != nil {
						return err
					}
				}
				stored, err := g.AddEdge(e, opts)
				if err != nil {
					return err
				}
				added = append(added, stored)
				if both {
					rev, err := g.AddEdge(graph.Edge{From: stored.To, To: stored.From, Weight: stored.Weight}, opts)
					if err != nil {
						return err
					}
					added = append(added, rev)
				}
				return nil
			})
			if err != nil {
				return err
			}
			for _, e := range added {
				printSuccess("Added edge %s", e)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&both, "both", false, "also add the reverse edge")
	cmd.Flags().BoolVar(&replace, "replace", false, "update an existing edge")

	return cmd
}

func (c *CLI) graphDelEdgeCommand() *cobra.Command {
	var both bool

	cmd := &cobra.Command{
		Use:     "del-edge FROM TO",
		Aliases: []string{"rm-edge"},
		Short:   "Delete a directed edge",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, to := graph.NormalizeNodeID(args[0]), graph.NormalizeNodeID(args[1])
			_, err := c.editWorkspace(cmd.Context(), func(g *graph.Graph) error {
				if err := g.RemoveEdge(from, to); err != nil {
					return err
				}
				if both {
					if err := g.RemoveEdge(to, from); err != nil && !rterrors.IsNotFound(err) {
						return err
					}
				}
				return nil
			})
			if err != nil {
				return err
			}
			printSuccess("Deleted edge %s", graph.EdgeKey{From: from, To: to})
			return nil
		},
	}

	cmd.Flags().BoolVar(&both, "both", false, "also delete the reverse edge if present")

	return cmd
}
