// Package engine converts playback telemetry into intensity events: it
// owns the loaded timeline, the resolver cursor, the intensity scale, and
// the playback state machine.
package engine

import (
	"fmt"
	"sync"

	"github.com/dkrahn/vibesync/internal/events"
	"github.com/dkrahn/vibesync/internal/protocol"
	"github.com/dkrahn/vibesync/internal/script"
)

// State is the observed playback state.
type State string

const (
	StateIdle    State = "idle"
	StatePlaying State = "playing"
	StatePaused  State = "paused"
	StateEnded   State = "ended"
)

// Sink receives the outbound events the engine constructs. The real sink
// is the protocol dispatcher.
type Sink interface {
	Dispatch(protocol.Event)
}

// Engine is the single owner of all mutable sync state. Every handler runs
// under one mutex, so signals arriving from concurrent HTTP requests are
// serialized into one logical event-handling context.
type Engine struct {
	sink Sink

	mu       sync.Mutex
	state    State
	timeline script.Timeline
	cursor   int
	scale    float64
	title    string
}

// Status is a point-in-time snapshot for the status endpoint.
type Status struct {
	State        State  `json:"state"`
	ScriptTitle  string `json:"script_title,omitempty"`
	ActionCount  int    `json:"action_count"`
	ScalePercent int    `json:"scale_percent"`
}

// New creates an engine in the idle state with the given scale percentage.
func New(sink Sink, scalePercent int) *Engine {
	e := &Engine{
		sink:  sink,
		state: StateIdle,
		scale: 0.5,
	}
	if err := e.SetScalePercent(scalePercent); err != nil {
		e.scale = 0.5
	}
	return e
}

// HandlePlay processes a play transition.
func (e *Engine) HandlePlay() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == StatePlaying {
		return
	}
	e.state = StatePlaying

	events.Emit("info", "playback.play", "", nil)
	e.sink.Dispatch(protocol.NewPlay())
}

// HandlePause processes a pause transition. Pauses observed outside of
// playback are stale signals and ignored.
func (e *Engine) HandlePause() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StatePlaying {
		return
	}
	e.state = StatePaused

	events.Emit("info", "playback.pause", "", nil)
	e.sink.Dispatch(protocol.NewPause())
}

// HandleEnded processes end of stream. It is treated as an implicit pause
// so devices stop rather than running indefinitely.
func (e *Engine) HandleEnded() {
	e.mu.Lock()
	defer e.mu.Unlock()

	wasPlaying := e.state == StatePlaying
	e.state = StateEnded

	if !wasPlaying {
		return
	}
	events.Emit("info", "playback.ended", "", nil)
	e.sink.Dispatch(protocol.NewPause())
}

// HandleTimeUpdate processes a periodic position signal. paused reports
// the source's paused flag at signal time; a paused or non-playing signal
// is stale and produces nothing.
func (e *Engine) HandleTimeUpdate(positionMs int64, paused bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StatePlaying || paused {
		return
	}

	level, cursor, ok := Resolve(e.timeline, positionMs, e.cursor)
	source := protocol.SourceFunscript
	if ok {
		e.cursor = cursor
	} else {
		level = Estimate(float64(positionMs) / 1000)
		source = protocol.SourceEstimated
	}

	out := clampUnit(level * e.scale)

	events.Emit("info", "playback.tick", "", map[string]interface{}{
		"position_ms": positionMs,
		"level":       out,
		"source":      string(source),
	})
	e.sink.Dispatch(protocol.NewIntensityTick(out, positionMs, source))
}

// LoadScript replaces the timeline and resets the cursor, in any playback
// state. Input is assumed validated at the load boundary.
func (e *Engine) LoadScript(title string, actions []script.Action) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.timeline = script.NewTimeline(actions)
	e.cursor = 0
	e.title = title
}

// ClearScript empties the timeline; subsequent ticks use the estimator.
func (e *Engine) ClearScript() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.timeline = script.Timeline{}
	e.cursor = 0
	e.title = ""

	events.Emit("info", "script.cleared", "", nil)
}

// SetScalePercent sets the intensity scale from an integer percentage.
func (e *Engine) SetScalePercent(percent int) error {
	if percent < 0 || percent > 100 {
		return fmt.Errorf("scale percent out of range: %d", percent)
	}

	e.mu.Lock()
	e.scale = float64(percent) / 100
	e.mu.Unlock()

	events.Emit("info", "scale.changed", "", map[string]interface{}{
		"percent": percent,
	})
	return nil
}

// SendTest dispatches a test event at the given level, bypassing the
// timeline but not the dispatch path.
func (e *Engine) SendTest(level float64) {
	e.sink.Dispatch(protocol.NewTest(clampUnit(level)))
}

// Status returns a snapshot of the engine state.
func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()

	return Status{
		State:        e.state,
		ScriptTitle:  e.title,
		ActionCount:  e.timeline.Len(),
		ScalePercent: int(e.scale*100 + 0.5),
	}
}
