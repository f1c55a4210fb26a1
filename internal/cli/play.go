package cli

import (
	"context"
	"fmt"
	"io"
	"slices"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/routetrace/pkg/playback"
	"github.com/matzehuels/routetrace/pkg/session"
)

// playOpts holds the flags of "play".
type playOpts struct {
	speed    float64
	interval time.Duration
	paused   bool
	plain    bool
}

// playCommand replays the stored trace step by step.
func (c *CLI) playCommand() *cobra.Command {
	var opts playOpts

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Replay the search of the last route step by step",
		Long: `Replay the search of the last route step by step.

The interactive view supports pause, single stepping and speed changes.
--plain prints one line per step instead, for pipes and logs.`,
		Example: `  routetrace play
  routetrace play --speed 2
  routetrace play --plain --interval 100ms`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, sess, g, err := c.loadRun(cmd.Context())
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("speed") {
				opts.speed = c.Config.Playback.Speed
			}
			if !cmd.Flags().Changed("interval") {
				opts.interval = c.Config.Playback.Interval()
			}
			ids := g.NodeIDs()
			slices.Sort(ids)

			if opts.plain {
				return playPlain(cmd.Context(), cmd.OutOrStdout(), *sess.Run, ids, opts)
			}
			return playInteractive(cmd.Context(), *sess.Run, ids, opts)
		},
	}

	cmd.Flags().Float64VarP(&opts.speed, "speed", "s", 1, "speed multiplier")
	cmd.Flags().DurationVar(&opts.interval, "interval", playback.DefaultInterval, "delay between steps at speed 1")
	cmd.Flags().BoolVar(&opts.paused, "paused", false, "start paused on the first step")
	cmd.Flags().BoolVar(&opts.plain, "plain", false, "print steps as lines instead of the interactive view")

	return cmd
}

func playInteractive(ctx context.Context, run session.Run, ids []string, opts playOpts) error {
	feed := newFrameFeed()
	player := playback.New(feed.push,
		playback.WithInterval(opts.interval),
		playback.WithSpeed(opts.speed))
	defer player.Destroy()

	player.Load(run.Trace)
	if !opts.paused {
		player.Play()
	}

	p := tea.NewProgram(newPlayModel(player, feed, run, ids), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// playPlain plays the trace on the real clock and prints each frame until
// the last one.
func playPlain(ctx context.Context, w io.Writer, run session.Run, ids []string, opts playOpts) error {
	if len(run.Trace) == 0 {
		printWarning("Empty trace")
		return nil
	}
	// Without seeking the player delivers exactly one frame per step.
	frames := make(chan playback.Frame, len(run.Trace))
	player := playback.New(func(f playback.Frame) {
		select {
		case frames <- f:
		default:
		}
	}, playback.WithInterval(opts.interval), playback.WithSpeed(opts.speed))
	defer player.Destroy()

	player.Load(run.Trace)
	player.Play()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case f := <-frames:
			row := stepRow(f.Index, f.Step, ids)
			fmt.Fprintf(w, "%3s/%d  %-12s %-14s %-3s [%s] %s\n",
				row[0], f.Total, row[1], row[2], row[3], row[4], row[5])
			if f.Last() {
				fmt.Fprintln(w, summaryLine(run))
				return nil
			}
		}
	}
}
