package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	rterrors "github.com/matzehuels/routetrace/pkg/errors"
	"github.com/matzehuels/routetrace/pkg/render"
	"github.com/matzehuels/routetrace/pkg/render/nodelink"
	"github.com/matzehuels/routetrace/pkg/session"
	"github.com/matzehuels/routetrace/pkg/trace"
)

// Output formats of the render command.
const (
	formatDOT = "dot"
	formatSVG = "svg"
	formatPNG = "png"
	formatPDF = "pdf"
)

// renderOpts holds the flags of "render".
type renderOpts struct {
	output string
	format string
	merge  bool
	step   int
	scale  float64
}

// renderCommand draws the workspace graph with the selected route.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Draw the workspace graph and the selected route",
		Long: `Draw the workspace graph as a node-link diagram.

The shortest path selected with 'paths next' is highlighted. --step N overlays
the state of the search after step N (1-based). PNG and PDF output require
rsvg-convert (librsvg).`,
		Example: `  routetrace render -o route.svg
  routetrace render --step 3 -o step3.png
  routetrace render -f dot | dot -Tpng > route.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout; format from extension)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "dot, svg, png or pdf (default svg)")
	cmd.Flags().BoolVar(&opts.merge, "merge", true, "draw symmetric edge pairs as one line")
	cmd.Flags().IntVar(&opts.step, "step", 0, "overlay trace step N")
	cmd.Flags().Float64Var(&opts.scale, "scale", 2, "PNG scale factor")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, opts renderOpts) error {
	ctx := cmd.Context()
	format, err := renderFormat(opts)
	if err != nil {
		return err
	}

	_, sess, g, err := c.loadWorkspace(ctx)
	if err != nil {
		return err
	}
	dotOpts := nodelink.Options{Merge: opts.merge}
	if p, ok := sess.SelectedPath(); ok {
		dotOpts.Highlight = p
	}
	if opts.step != 0 {
		step, err := selectStep(sess.Run, opts.step)
		if err != nil {
			return err
		}
		dotOpts.Step = step
	}

	prog := newProgress(loggerFromContext(ctx))
	dot := nodelink.ToDOT(g, dotOpts)
	var data []byte
	switch format {
	case formatDOT:
		data = []byte(dot)
	case formatSVG:
		data, err = nodelink.RenderSVG(ctx, dot)
	case formatPNG, formatPDF:
		if !render.Available() {
			return rterrors.New(rterrors.ErrCodeUnsupported,
				"%s output requires rsvg-convert (install librsvg)", format)
		}
		if format == formatPNG {
			data, err = nodelink.RenderPNG(ctx, dot, opts.scale)
		} else {
			data, err = nodelink.RenderPDF(ctx, dot)
		}
	}
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %d nodes as %s", g.NodeCount(), format))

	if opts.output == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}
	printSuccess("Rendered %s", strings.ToUpper(format))
	printFile(opts.output)
	return nil
}

// renderFormat resolves the output format from --format or the file extension.
func renderFormat(opts renderOpts) (string, error) {
	format := strings.ToLower(opts.format)
	if format == "" && opts.output != "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(opts.output)), ".")
	}
	if format == "" {
		format = formatSVG
	}
	switch format {
	case formatDOT, formatSVG, formatPNG, formatPDF:
		return format, nil
	default:
		return "", rterrors.New(rterrors.ErrCodeInvalidFormat,
			"unsupported render format %q (want dot, svg, png or pdf)", format)
	}
}

// selectStep returns step n (1-based) of the stored run.
func selectStep(run *session.Run, n int) (*trace.Step, error) {
	if run == nil {
		return nil, rterrors.New(rterrors.ErrCodeNotFound,
			"no route computed yet; run 'routetrace solve SOURCE TARGET'")
	}
	if n < 1 || n > len(run.Trace) {
		return nil, rterrors.New(rterrors.ErrCodeInvalidInput,
			"step must be between 1 and %d, got %d", len(run.Trace), n)
	}
	return &run.Trace[n-1], nil
}
