// Package script holds the timed-action data model: funscript actions,
// normalized timelines, and conversion from Lovense pattern data.
package script

import "sort"

// Action is a single keyframe: a target device position at an absolute
// playback time.
type Action struct {
	At  int64 `json:"at"`  // milliseconds from playback start
	Pos int   `json:"pos"` // device position, nominally 0..100
}

// Timeline is an immutable, time-ordered sequence of actions for one loaded
// script. It is replaced wholesale on script load or clear, never mutated.
type Timeline struct {
	actions []Action
}

// NewTimeline copies the input and sorts it ascending by At. The sort is
// stable, so actions sharing a timestamp keep their source order.
func NewTimeline(actions []Action) Timeline {
	out := make([]Action, len(actions))
	copy(out, actions)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].At < out[j].At
	})
	return Timeline{actions: out}
}

// Empty returns true if the timeline holds no actions.
func (t Timeline) Empty() bool {
	return len(t.actions) == 0
}

// Len returns the number of actions.
func (t Timeline) Len() int {
	return len(t.actions)
}

// Action returns the action at index i. The index must be in range.
func (t Timeline) Action(i int) Action {
	return t.actions[i]
}

// Actions returns a copy of the ordered actions.
func (t Timeline) Actions() []Action {
	out := make([]Action, len(t.actions))
	copy(out, t.actions)
	return out
}
