package cli

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/routetrace/pkg/matrix"
)

// matrixCommand prints or exports the adjacency or weight matrix.
func (c *CLI) matrixCommand() *cobra.Command {
	var (
		kind   string
		csv    bool
		output string
	)

	cmd := &cobra.Command{
		Use:   "matrix",
		Short: "Show the adjacency or weight matrix of the workspace graph",
		Long: `Show the adjacency or weight matrix of the workspace graph.

Rows are origins and columns destinations, ordered by node ID. In the weight
matrix a missing edge is ∞ (written "inf" in CSV).`,
		Example: `  routetrace matrix --type weights
  routetrace matrix --csv -o .`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := matrix.ParseKind(kind)
			if err != nil {
				return err
			}
			_, _, g, err := c.loadWorkspace(cmd.Context())
			if err != nil {
				return err
			}
			m, err := matrix.Build(g, k)
			if err != nil {
				return err
			}

			if output != "" {
				return writeMatrixFile(m, output)
			}
			if csv {
				return m.WriteCSV(cmd.OutOrStdout())
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderMatrix(m))
			return nil
		},
	}

	cmd.Flags().StringVarP(&kind, "type", "t", string(matrix.Adjacency), "adjacency or weights")
	cmd.Flags().BoolVar(&csv, "csv", false, "print CSV instead of a table")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write CSV to a file, or to matrix_<type>.csv in a directory")

	return cmd
}

func writeMatrixFile(m *matrix.Matrix, output string) error {
	if info, err := os.Stat(output); err == nil && info.IsDir() {
		output = filepath.Join(output, m.FileName())
	}
	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("create %s: %w", output, err)
	}
	defer f.Close()
	if err := m.WriteCSV(f); err != nil {
		return err
	}
	printSuccess("Exported %s matrix", m.Kind)
	printFile(output)
	return nil
}

func renderMatrix(m *matrix.Matrix) string {
	headers := append([]string{""}, m.IDs...)
	rows := make([][]string, m.Size())
	for i, id := range m.IDs {
		row := make([]string, 0, m.Size()+1)
		row = append(row, id)
		for j := range m.IDs {
			row = append(row, matrix.FormatCell(m.At(i, j)))
		}
		rows[i] = row
	}
	return renderTable(headers, rows, func(row, col int) lipgloss.Style {
		if col == 0 {
			return styleHeader
		}
		if row >= m.Size() || row == col-1 {
			return StyleDim
		}
		if v := m.At(row, col-1); v != 0 && !math.IsInf(v, 1) {
			return StyleNumber
		}
		return StyleDim
	})
}
