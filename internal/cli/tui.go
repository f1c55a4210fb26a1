package cli

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/routetrace/pkg/graph"
	"github.com/matzehuels/routetrace/pkg/playback"
	"github.com/matzehuels/routetrace/pkg/session"
)

// Speed bounds of the player view.
const (
	minSpeed    = 0.25
	maxSpeed    = 8
	speedFactor = 1.5
)

var (
	playLabelStyle = lipgloss.NewStyle().Foreground(colorGray).Width(11)
	playBarDone    = lipgloss.NewStyle().Foreground(colorCyan)
	playBarTodo    = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// Frame Feed
// =============================================================================

// frameMsg carries the newest frame from the player into the program.
type frameMsg playback.Frame

// frameFeed is a one-slot mailbox that always holds the newest frame. The
// player calls push with its lock held, so push never blocks.
type frameFeed chan playback.Frame

func newFrameFeed() frameFeed { return make(frameFeed, 1) }

func (f frameFeed) push(fr playback.Frame) {
	select {
	case <-f:
	default:
	}
	f <- fr
}

// waitForFrame blocks until the player publishes a frame.
func waitForFrame(f frameFeed) tea.Cmd {
	return func() tea.Msg {
		fr, ok := <-f
		if !ok {
			return nil
		}
		return frameMsg(fr)
	}
}

// =============================================================================
// PlayModel - Interactive trace playback
// =============================================================================

// PlayModel is the bubbletea model for replaying a route trace.
type PlayModel struct {
	Player *playback.Player
	Run    session.Run
	IDs    []string

	feed     frameFeed
	frame    playback.Frame
	hasFrame bool
	quitting bool
}

// newPlayModel creates a model for run. The caller loads the trace into
// player after subscribing it with feed.push.
func newPlayModel(player *playback.Player, feed frameFeed, run session.Run, ids []string) PlayModel {
	return PlayModel{Player: player, Run: run, IDs: ids, feed: feed}
}

func (m PlayModel) Init() tea.Cmd {
	return waitForFrame(m.feed)
}

func (m PlayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		m.frame = playback.Frame(msg)
		m.hasFrame = true
		return m, waitForFrame(m.feed)
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			m.Player.Destroy()
			return m, tea.Quit
		case " ", "p":
			m.togglePlay()
		case "left", "h":
			m.Player.StepBy(-1)
		case "right", "l":
			m.Player.StepBy(1)
		case "home", "g":
			m.Player.Seek(0)
		case "end", "G":
			m.Player.Seek(m.Player.Len() - 1)
		case "r":
			m.Player.Replay()
		case "+", "=":
			m.Player.SetSpeed(math.Min(m.Player.Speed()*speedFactor, maxSpeed))
		case "-", "_":
			m.Player.SetSpeed(math.Max(m.Player.Speed()/speedFactor, minSpeed))
		}
	}
	return m, nil
}

func (m PlayModel) togglePlay() {
	switch m.Player.State() {
	case playback.Playing:
		m.Player.Pause()
	case playback.Finished:
		m.Player.Replay()
	default:
		m.Player.Play()
	}
}

func (m PlayModel) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder

	b.WriteString(StyleTitle.Render(fmt.Sprintf("Route %s → %s", m.Run.Source, m.Run.Target)))
	b.WriteString("  ")
	b.WriteString(StyleDim.Render(fmt.Sprintf("%s · %sx", m.Player.State(), graph.FormatWeight(m.Player.Speed()))))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("space play/pause  ←/→ step  home/end jump  r replay  +/- speed  q quit"))
	b.WriteString("\n\n")

	if !m.hasFrame {
		b.WriteString(StyleDim.Render("  empty trace"))
		b.WriteString("\n")
		return b.String()
	}

	f := m.frame
	b.WriteString(progressBar(f.Index, f.Total, 32))
	b.WriteString(StyleDim.Render(fmt.Sprintf("  %d/%d", f.Index+1, f.Total)))
	b.WriteString("\n\n")

	s := f.Step
	b.WriteString(playLabelStyle.Render("step") + stepStyle(s.Type).Render(string(s.Type)) + "\n")
	if s.Extracted != "" {
		b.WriteString(playLabelStyle.Render("node") + StyleHighlight.Render(s.Extracted) + "\n")
	}
	if s.Edge != nil {
		b.WriteString(playLabelStyle.Render("edge") + StyleValue.Render(s.Edge.String()) + "\n")
	}
	b.WriteString(playLabelStyle.Render("queue") + StyleValue.Render(formatQueue(s.Queue)) + "\n")
	b.WriteString(playLabelStyle.Render("distances") + StyleValue.Render(formatDistances(m.IDs, s.Dist)) + "\n")

	if f.Last() {
		b.WriteString("\n")
		b.WriteString(summaryLine(m.Run))
		b.WriteString("\n")
	}
	return b.String()
}

// summaryLine describes the outcome shown once playback reaches the end.
func summaryLine(run session.Run) string {
	if run.Summary.Distance == nil {
		return StyleWarning.Render(fmt.Sprintf("no route from %s to %s", run.Source, run.Target))
	}
	line := StyleSuccess.Render("distance "+graph.FormatWeight(*run.Summary.Distance))
	if p, ok := (&session.Session{Run: &run}).SelectedPath(); ok {
		line += "  " + StyleRoute.Render(p.String())
	}
	return line
}

func progressBar(index, total, width int) string {
	if total <= 0 {
		return ""
	}
	done := width
	if total > 1 {
		done = (index * width) / (total - 1)
	}
	return playBarDone.Render(strings.Repeat("▰", done)) + playBarTodo.Render(strings.Repeat("▱", width-done))
}
