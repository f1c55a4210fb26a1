package playback

import (
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/routetrace/pkg/graph"
	"github.com/matzehuels/routetrace/pkg/trace"
)

// manualScheduler queues callbacks until the test fires them.
type manualScheduler struct {
	mu      sync.Mutex
	pending []*manualTimer
	delays  []time.Duration
}

type manualTimer struct {
	f       func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

func (s *manualScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &manualTimer{f: f}
	s.pending = append(s.pending, t)
	s.delays = append(s.delays, d)
	return t
}

// live returns the timers that have neither fired nor been stopped.
func (s *manualScheduler) live() []*manualTimer {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*manualTimer
	for _, t := range s.pending {
		if !t.stopped && !t.fired {
			out = append(out, t)
		}
	}
	return out
}

// fire runs the oldest live timer and reports whether one existed.
func (s *manualScheduler) fire() bool {
	live := s.live()
	if len(live) == 0 {
		return false
	}
	live[0].fired = true
	live[0].f()
	return true
}

func (s *manualScheduler) lastDelay() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.delays[len(s.delays)-1]
}

type recorder struct {
	mu     sync.Mutex
	frames []Frame
}

func (r *recorder) on(f Frame) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = append(r.frames, f)
}

func (r *recorder) indexes() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]int, len(r.frames))
	for i, f := range r.frames {
		out[i] = f.Index
	}
	return out
}

func sampleTrace(t *testing.T) trace.Trace {
	t.Helper()
	g := graph.New()
	for _, id := range []string{"A", "B", "C", "D"} {
		g.AddNode(graph.Node{ID: id})
	}
	for _, e := range []graph.Edge{
		{From: "A", To: "B", Weight: 1},
		{From: "B", To: "D", Weight: 2},
		{From: "A", To: "C", Weight: 1},
		{From: "C", To: "D", Weight: 2},
	} {
		_ = g.UpsertEdge(e)
	}
	return trace.Compute(g, "A", "D").Trace // 9 steps
}

func newTestPlayer(t *testing.T) (*Player, *manualScheduler, *recorder) {
	t.Helper()
	s := &manualScheduler{}
	r := &recorder{}
	p := New(r.on, WithScheduler(s))
	t.Cleanup(p.Destroy)
	return p, s, r
}

func TestLoad(t *testing.T) {
	p, _, r := newTestPlayer(t)
	if p.State() != Idle {
		t.Fatalf("new player state = %v, want idle", p.State())
	}
	tr := sampleTrace(t)
	p.Load(tr)

	if p.State() != Paused || p.Cursor() != 0 || p.Len() != len(tr) {
		t.Errorf("after Load: state=%v cursor=%d len=%d", p.State(), p.Cursor(), p.Len())
	}
	if got := r.indexes(); !reflect.DeepEqual(got, []int{0}) {
		t.Errorf("frames = %v, want [0]", got)
	}
	if r.frames[0].Total != len(tr) || r.frames[0].Step.Type != trace.StepInit {
		t.Errorf("first frame = %+v", r.frames[0])
	}
}

func TestLoadEmpty(t *testing.T) {
	p, s, r := newTestPlayer(t)
	p.Load(nil)
	p.Play()
	if p.State() != Idle || len(r.indexes()) != 0 || len(s.live()) != 0 {
		t.Errorf("empty trace: state=%v frames=%v", p.State(), r.indexes())
	}
	if _, ok := p.Frame(); ok {
		t.Error("Frame() ok with no trace")
	}
}

func TestPlayToEnd(t *testing.T) {
	p, s, r := newTestPlayer(t)
	tr := sampleTrace(t)
	p.Load(tr)
	p.Play()
	if p.State() != Playing {
		t.Fatalf("state = %v, want playing", p.State())
	}

	fired := 0
	for s.fire() {
		fired++
		if n := len(s.live()); n > 1 {
			t.Fatalf("%d advances pending, want at most 1", n)
		}
	}
	if fired != len(tr)-1 {
		t.Errorf("fired %d advances, want %d", fired, len(tr)-1)
	}
	if p.State() != Finished || p.Cursor() != len(tr)-1 {
		t.Errorf("state=%v cursor=%d, want finished at %d", p.State(), p.Cursor(), len(tr)-1)
	}
	want := []int{0, 1, 2, 3, 4, 5, 6, 7, 8}
	if got := r.indexes(); !reflect.DeepEqual(got, want) {
		t.Errorf("frames = %v, want %v", got, want)
	}
	if f, _ := p.Frame(); !f.Last() {
		t.Error("final frame not marked last")
	}

	// Finished stays finished.
	p.Play()
	p.Pause()
	if p.State() != Finished {
		t.Errorf("state = %v after Play/Pause when finished", p.State())
	}
}

func TestPlayPauseSeekZero(t *testing.T) {
	for advances := 0; advances < 5; advances++ {
		p, s, r := newTestPlayer(t)
		p.Load(sampleTrace(t))
		initial := r.frames[0]

		p.Play()
		for i := 0; i < advances; i++ {
			s.fire()
		}
		p.Pause()
		p.Seek(0)

		f, _ := p.Frame()
		if !reflect.DeepEqual(f, initial) {
			t.Errorf("after %d advances: frame %+v differs from initial", advances, f.Index)
		}
		last := r.frames[len(r.frames)-1]
		if !reflect.DeepEqual(last, initial) {
			t.Errorf("after %d advances: last notification differs from initial", advances)
		}
		if p.State() != Paused || len(s.live()) != 0 {
			t.Errorf("state=%v pending=%d, want paused with nothing pending", p.State(), len(s.live()))
		}
	}
}

func TestPauseCancelsInFlightCallback(t *testing.T) {
	p, s, r := newTestPlayer(t)
	p.Load(sampleTrace(t))
	p.Play()

	pending := s.live()[0]
	p.Pause()
	if !pending.stopped {
		t.Error("Pause did not stop the timer")
	}
	// Simulate a callback that raced past Stop.
	pending.f()
	if p.Cursor() != 0 || len(r.indexes()) != 1 {
		t.Errorf("stale callback advanced: cursor=%d frames=%v", p.Cursor(), r.indexes())
	}
}

func TestSeek(t *testing.T) {
	p, s, r := newTestPlayer(t)
	tr := sampleTrace(t)
	p.Load(tr)

	p.Seek(-5)
	if p.Cursor() != 0 {
		t.Errorf("Seek(-5) cursor = %d", p.Cursor())
	}
	p.Seek(100)
	if p.Cursor() != len(tr)-1 || p.State() != Paused {
		t.Errorf("Seek(100) cursor=%d state=%v", p.Cursor(), p.State())
	}
	p.StepBy(-2)
	if p.Cursor() != len(tr)-3 {
		t.Errorf("StepBy(-2) cursor = %d", p.Cursor())
	}
	if len(s.live()) != 0 {
		t.Error("seek while paused scheduled an advance")
	}
	if got := r.indexes(); !reflect.DeepEqual(got, []int{0, 0, 8, 6}) {
		t.Errorf("frames = %v", got)
	}
}

func TestSeekWhilePlaying(t *testing.T) {
	p, s, _ := newTestPlayer(t)
	tr := sampleTrace(t)
	p.Load(tr)
	p.Play()
	first := s.live()[0]

	p.Seek(4)
	if !first.stopped {
		t.Error("old advance still pending")
	}
	if n := len(s.live()); n != 1 {
		t.Fatalf("%d advances pending, want 1", n)
	}
	s.fire()
	if p.Cursor() != 5 || p.State() != Playing {
		t.Errorf("cursor=%d state=%v, want 5 playing", p.Cursor(), p.State())
	}

	p.Seek(len(tr) - 1)
	if p.State() != Finished || len(s.live()) != 0 {
		t.Errorf("seek to last while playing: state=%v pending=%d", p.State(), len(s.live()))
	}
}

func TestSeekBackFromFinished(t *testing.T) {
	p, s, _ := newTestPlayer(t)
	p.Load(sampleTrace(t))
	p.Play()
	for s.fire() {
	}
	p.Seek(3)
	if p.State() != Paused {
		t.Fatalf("state = %v, want paused", p.State())
	}
	p.Play()
	if p.State() != Playing {
		t.Errorf("state = %v after Play, want playing", p.State())
	}
}

func TestPlayAtLastStepFinishes(t *testing.T) {
	p, s, _ := newTestPlayer(t)
	p.Load(sampleTrace(t))
	p.Seek(100)
	p.Play()
	if p.State() != Finished || len(s.live()) != 0 {
		t.Errorf("state=%v pending=%d", p.State(), len(s.live()))
	}
}

func TestSetSpeed(t *testing.T) {
	p, s, _ := newTestPlayer(t)
	p.Load(sampleTrace(t))

	tests := []struct {
		speed float64
		want  time.Duration
	}{
		{1, 700 * time.Millisecond},
		{2, 350 * time.Millisecond},
		{0.5, 1400 * time.Millisecond},
		{0, 700 * time.Millisecond},
		{-3, 700 * time.Millisecond},
	}
	for _, tt := range tests {
		p.SetSpeed(tt.speed)
		if got := p.Delay(); got != tt.want {
			t.Errorf("SetSpeed(%v) delay = %v, want %v", tt.speed, got, tt.want)
		}
	}

	p.SetSpeed(4)
	p.Play()
	if got := s.lastDelay(); got != 175*time.Millisecond {
		t.Errorf("scheduled delay = %v, want 175ms", got)
	}
	// A speed change applies from the next advance.
	p.SetSpeed(1)
	s.fire()
	if got := s.lastDelay(); got != 700*time.Millisecond {
		t.Errorf("next delay = %v, want 700ms", got)
	}
}

func TestReplay(t *testing.T) {
	p, s, _ := newTestPlayer(t)
	p.Load(sampleTrace(t))
	p.Play()
	for s.fire() {
	}
	p.Replay()
	if p.Cursor() != 0 || p.State() != Playing || len(s.live()) != 1 {
		t.Errorf("after Replay: cursor=%d state=%v pending=%d", p.Cursor(), p.State(), len(s.live()))
	}
}

func TestLoadReplacesPlayback(t *testing.T) {
	p, s, r := newTestPlayer(t)
	p.Load(sampleTrace(t))
	p.Play()
	s.fire()
	old := s.live()[0]

	p.Load(sampleTrace(t)[:2])
	if !old.stopped || p.State() != Paused || p.Cursor() != 0 || p.Len() != 2 {
		t.Errorf("Load did not reset: state=%v cursor=%d len=%d", p.State(), p.Cursor(), p.Len())
	}
	if got := r.indexes(); !reflect.DeepEqual(got, []int{0, 1, 0}) {
		t.Errorf("frames = %v", got)
	}
}

func TestDestroy(t *testing.T) {
	p, s, r := newTestPlayer(t)
	p.Load(sampleTrace(t))
	p.Play()
	pending := s.live()[0]

	p.Destroy()
	p.Destroy()
	if !pending.stopped {
		t.Error("Destroy left an advance pending")
	}
	pending.f()
	p.Load(sampleTrace(t))
	p.Play()
	p.Seek(3)
	if p.State() != Idle || p.Len() != 0 || len(s.live()) != 0 {
		t.Errorf("destroyed player reacted: state=%v len=%d", p.State(), p.Len())
	}
	if got := r.indexes(); !reflect.DeepEqual(got, []int{0}) {
		t.Errorf("frames after destroy = %v", got)
	}
}

func TestSystemScheduler(t *testing.T) {
	done := make(chan Frame, 16)
	p := New(func(f Frame) {
		if f.Last() {
			done <- f
		}
	}, WithInterval(time.Millisecond))
	defer p.Destroy()

	tr := sampleTrace(t)
	p.Load(tr)
	p.Play()
	select {
	case f := <-done:
		if f.Index != len(tr)-1 {
			t.Errorf("final index = %d", f.Index)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("playback did not finish")
	}
	if p.State() != Finished {
		t.Errorf("state = %v, want finished", p.State())
	}
}

func TestStateString(t *testing.T) {
	for s, want := range map[State]string{Idle: "idle", Paused: "paused", Playing: "playing", Finished: "finished", State(9): "unknown"} {
		if s.String() != want {
			t.Errorf("%d.String() = %q, want %q", s, s.String(), want)
		}
	}
}
