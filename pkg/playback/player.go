// Package playback replays a recorded trace one step at a time.
//
// A [Player] walks a [trace.Trace] forward on a timer, notifying a single
// subscriber with the current [Frame] on every move. It supports play, pause,
// seek, single stepping and variable speed:
//
//	p := playback.New(func(f playback.Frame) {
//	    fmt.Printf("%d/%d %s\n", f.Index+1, f.Total, f.Step.Type)
//	})
//	defer p.Destroy()
//	p.Load(res.Trace) // notifies step 0, paused
//	p.Play()
//
// At most one advance is pending at any time. Cancelling (pause, seek, load,
// destroy) takes effect synchronously: a timer callback that was already in
// flight observes a stale generation and returns without touching state.
package playback

import (
	"math"
	"sync"
	"time"

	"github.com/matzehuels/routetrace/pkg/trace"
)

// DefaultInterval is the delay between steps at speed 1.
const DefaultInterval = 700 * time.Millisecond

// State is the playback state.
type State int

// Playback states.
const (
	Idle     State = iota // no trace loaded
	Paused                // trace loaded, not advancing
	Playing               // advancing on a timer
	Finished              // cursor on the last step, not advancing
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Paused:
		return "paused"
	case Playing:
		return "playing"
	case Finished:
		return "finished"
	default:
		return "unknown"
	}
}

// Frame is the step a player currently shows.
type Frame struct {
	Index int
	Total int
	Step  trace.Step
}

// Last reports whether the frame is the final step of its trace.
func (f Frame) Last() bool { return f.Index == f.Total-1 }

// Subscriber receives frames. It runs with the player locked and must not
// call back into the player synchronously.
type Subscriber func(Frame)

// Option configures a Player.
type Option func(*Player)

// WithScheduler replaces the system timer, typically with a manual clock
// in tests.
func WithScheduler(s Scheduler) Option {
	return func(p *Player) { p.sched = s }
}

// WithInterval sets the delay between steps at speed 1.
func WithInterval(d time.Duration) Option {
	return func(p *Player) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithSpeed sets the initial speed multiplier.
func WithSpeed(s float64) Option {
	return func(p *Player) { p.speed = normalizeSpeed(s) }
}

// Player is a timer-driven cursor over a trace. It is safe for concurrent use.
type Player struct {
	mu        sync.Mutex
	sched     Scheduler
	interval  time.Duration
	speed     float64
	sub       Subscriber
	steps     trace.Trace
	cursor    int
	state     State
	gen       uint64
	timer     Timer
	destroyed bool
}

// New returns an idle player that reports frames to sub. sub may be nil.
func New(sub Subscriber, opts ...Option) *Player {
	p := &Player{
		sched:    SystemScheduler{},
		interval: DefaultInterval,
		speed:    1,
		sub:      sub,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// =============================================================================
// Controls
// =============================================================================

// Load replaces the trace, cancels any pending advance and rewinds to step 0.
// The player ends up paused and the first frame is delivered synchronously.
// An empty trace leaves the player idle.
func (p *Player) Load(t trace.Trace) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.destroyed {
		return
	}
	p.cancel()
	p.steps = t
	p.cursor = 0
	if len(t) == 0 {
		p.state = Idle
		return
	}
	p.state = Paused
	p.notify()
}

// Play starts advancing from the current step. It does nothing unless the
// player is paused. Playing from the last step finishes immediately.
func (p *Player) Play() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.destroyed || p.state != Paused {
		return
	}
	if p.cursor >= len(p.steps)-1 {
		p.state = Finished
		return
	}
	p.state = Playing
	p.schedule()
}

// Pause stops advancing. A finished player stays finished.
func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != Playing {
		return
	}
	p.cancel()
	p.state = Paused
}

// Seek moves the cursor to i, clamped to the trace, and delivers the frame.
//
// A playing player keeps playing from the new position with a fresh delay,
// unless i is the last step, which finishes playback. A finished player that
// seeks back becomes paused.
func (p *Player) Seek(i int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seek(i)
}

// StepBy moves the cursor by delta steps.
func (p *Player) StepBy(delta int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seek(p.cursor + delta)
}

// Replay rewinds to step 0 and starts playing.
func (p *Player) Replay() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.destroyed || len(p.steps) == 0 {
		return
	}
	p.cancel()
	p.state = Paused
	p.seek(0)
	if len(p.steps) > 1 {
		p.state = Playing
		p.schedule()
	} else {
		p.state = Finished
	}
}

// SetSpeed sets the speed multiplier. Values <= 0 (or not finite) mean 1.
// The new speed applies from the next scheduled advance.
func (p *Player) SetSpeed(s float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.speed = normalizeSpeed(s)
}

// Destroy cancels playback, drops the trace and detaches the subscriber.
// Every later call on the player is a no-op.
func (p *Player) Destroy() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.destroyed {
		return
	}
	p.cancel()
	p.destroyed = true
	p.sub = nil
	p.steps = nil
	p.cursor = 0
	p.state = Idle
}

// =============================================================================
// Queries
// =============================================================================

// State returns the current state.
func (p *Player) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Cursor returns the current step index.
func (p *Player) Cursor() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cursor
}

// Len returns the number of steps in the loaded trace.
func (p *Player) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.steps)
}

// Speed returns the speed multiplier.
func (p *Player) Speed() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.speed
}

// Delay returns the time between steps at the current speed.
func (p *Player) Delay() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.delay()
}

// Frame returns the current frame, or false when no trace is loaded.
func (p *Player) Frame() (Frame, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.steps) == 0 {
		return Frame{}, false
	}
	return p.frame(), true
}

// =============================================================================
// Internal (callers hold p.mu)
// =============================================================================

func (p *Player) seek(i int) {
	if p.destroyed || len(p.steps) == 0 {
		return
	}
	last := len(p.steps) - 1
	p.cursor = max(0, min(i, last))

	switch p.state {
	case Playing:
		p.cancel()
		if p.cursor == last {
			p.state = Finished
		} else {
			p.schedule()
		}
	case Finished:
		if p.cursor < last {
			p.state = Paused
		}
	}
	p.notify()
}

// schedule arms the single pending advance.
func (p *Player) schedule() {
	p.gen++
	gen := p.gen
	p.timer = p.sched.AfterFunc(p.delay(), func() { p.advance(gen) })
}

// cancel disarms the pending advance. Bumping the generation makes a
// callback that already started return without effect.
func (p *Player) cancel() {
	p.gen++
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
}

func (p *Player) advance(gen uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.gen || p.state != Playing {
		return
	}
	p.timer = nil
	last := len(p.steps) - 1
	if p.cursor < last {
		p.cursor++
	}
	if p.cursor >= last {
		p.state = Finished
	}
	p.notify()
	if p.state == Playing {
		p.schedule()
	}
}

func (p *Player) notify() {
	if p.sub != nil && len(p.steps) > 0 {
		p.sub(p.frame())
	}
}

func (p *Player) frame() Frame {
	return Frame{Index: p.cursor, Total: len(p.steps), Step: p.steps[p.cursor]}
}

func (p *Player) delay() time.Duration {
	return time.Duration(float64(p.interval) / p.speed)
}

func normalizeSpeed(s float64) float64 {
	if s <= 0 || math.IsNaN(s) || math.IsInf(s, 0) {
		return 1
	}
	return s
}
