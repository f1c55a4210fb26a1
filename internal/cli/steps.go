package cli

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/routetrace/pkg/trace"
)

// stepsCommand prints the recorded trace of the last route.
func (c *CLI) stepsCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "steps",
		Short: "Print the step trace of the last route",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, sess, g, err := c.loadRun(cmd.Context())
			if err != nil {
				return err
			}
			run := sess.Run
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), struct {
					Source  string        `json:"source"`
					Target  string        `json:"target"`
					Summary trace.Summary `json:"summary"`
					Steps   trace.Trace   `json:"steps"`
				}{run.Source, run.Target, run.Summary, run.Trace})
			}

			ids := g.NodeIDs()
			slices.Sort(ids)
			fmt.Fprintln(cmd.OutOrStdout(), renderSteps(run.Trace, ids))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the trace as JSON")

	return cmd
}

// renderSteps renders a trace as a table with one row per step.
func renderSteps(t trace.Trace, ids []string) string {
	rows := make([][]string, len(t))
	for i, s := range t {
		rows[i] = stepRow(i, s, ids)
	}
	return renderTable([]string{"#", "Type", "Edge", "Node", "Queue", "Distances"}, rows,
		func(row, col int) lipgloss.Style {
			if col == 1 && row < len(t) {
				return stepStyle(t[row].Type)
			}
			return lipgloss.NewStyle()
		})
}

func stepRow(i int, s trace.Step, ids []string) []string {
	edge := ""
	if s.Edge != nil {
		edge = s.Edge.String()
	}
	return []string{
		strconv.Itoa(i + 1),
		string(s.Type),
		edge,
		s.Extracted,
		formatQueue(s.Queue),
		formatDistances(ids, s.Dist),
	}
}
