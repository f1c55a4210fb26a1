package cli

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/routetrace/pkg/graph"
	"github.com/matzehuels/routetrace/pkg/playback"
	"github.com/matzehuels/routetrace/pkg/session"
	"github.com/matzehuels/routetrace/pkg/trace"
)

// stoppedTimer never fires; the tests drive the player by keys only.
type stoppedTimer struct{}

func (stoppedTimer) Stop() bool { return true }

type manualScheduler struct{ armed int }

func (s *manualScheduler) AfterFunc(time.Duration, func()) playback.Timer {
	s.armed++
	return stoppedTimer{}
}

func newTestPlayModel(t *testing.T) (PlayModel, *manualScheduler) {
	t.Helper()
	res := trace.Compute(graph.Sample(), "A", "D")
	paths, _ := trace.AllShortestPaths(res.Pred, "A", "D", 0)
	s := res.Summary()
	run := session.Run{Source: "A", Target: "D", Summary: s, Trace: res.Trace, Paths: paths}

	sched := &manualScheduler{}
	feed := newFrameFeed()
	player := playback.New(feed.push, playback.WithScheduler(sched))
	player.Load(run.Trace)
	return newPlayModel(player, feed, run, graph.Sample().NodeIDs()), sched
}

func key(s string) tea.KeyMsg {
	switch s {
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "end":
		return tea.KeyMsg{Type: tea.KeyEnd}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

// drain feeds the newest published frame into the model.
func drain(t *testing.T, m PlayModel) PlayModel {
	t.Helper()
	msg := waitForFrame(m.feed)()
	next, _ := m.Update(msg)
	return next.(PlayModel)
}

func TestPlayModelKeys(t *testing.T) {
	m, sched := newTestPlayModel(t)
	m = drain(t, m)
	if !m.hasFrame || m.frame.Index != 0 {
		t.Fatalf("initial frame = %+v", m.frame)
	}

	m.Update(key("right"))
	m.Update(key("right"))
	m = drain(t, m)
	if m.frame.Index != 2 || m.Player.Cursor() != 2 {
		t.Errorf("after two steps: frame %d, cursor %d", m.frame.Index, m.Player.Cursor())
	}

	m.Update(key("left"))
	if m.Player.Cursor() != 1 {
		t.Errorf("after step back: cursor %d", m.Player.Cursor())
	}

	m.Update(key(" "))
	if m.Player.State() != playback.Playing || sched.armed != 1 {
		t.Errorf("space: state %v, armed %d", m.Player.State(), sched.armed)
	}
	m.Update(key(" "))
	if m.Player.State() != playback.Paused {
		t.Errorf("second space: state %v", m.Player.State())
	}

	m.Update(key("+"))
	if m.Player.Speed() != speedFactor {
		t.Errorf("speed = %v", m.Player.Speed())
	}
	for range 20 {
		m.Update(key("-"))
	}
	if m.Player.Speed() != minSpeed {
		t.Errorf("speed floor = %v", m.Player.Speed())
	}

	m.Update(key("end"))
	m = drain(t, m)
	if !m.frame.Last() {
		t.Errorf("end: frame %d of %d", m.frame.Index, m.frame.Total)
	}
	if view := m.View(); !strings.Contains(view, "distance 4") {
		t.Errorf("final view missing summary:\n%s", view)
	}
}

func TestPlayModelQuit(t *testing.T) {
	m, _ := newTestPlayModel(t)
	next, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
	if next.(PlayModel).View() != "" {
		t.Error("view not cleared on quit")
	}
	if m.Player.Len() != 0 {
		t.Error("player not destroyed on quit")
	}
}

func TestFrameFeedKeepsNewest(t *testing.T) {
	feed := newFrameFeed()
	feed.push(playback.Frame{Index: 0, Total: 3})
	feed.push(playback.Frame{Index: 1, Total: 3})
	feed.push(playback.Frame{Index: 2, Total: 3})

	msg := waitForFrame(feed)()
	if f, ok := msg.(frameMsg); !ok || f.Index != 2 {
		t.Errorf("waitForFrame() = %#v, want newest frame", msg)
	}
}

func TestProgressBar(t *testing.T) {
	if got := progressBar(0, 5, 8); strings.Count(got, "▰") != 0 || strings.Count(got, "▱") != 8 {
		t.Errorf("progressBar(0) = %q", got)
	}
	if got := progressBar(4, 5, 8); strings.Count(got, "▰") != 8 {
		t.Errorf("progressBar(last) = %q", got)
	}
	if got := progressBar(0, 1, 8); strings.Count(got, "▰") != 8 {
		t.Errorf("progressBar(single) = %q", got)
	}
}
