package engine

import "github.com/dkrahn/vibesync/internal/script"

// Resolve maps a playback position to a normalized intensity in [0,1].
//
// cursor is a scan hint: the index of the last action known to be at or
// before the previous query. Under monotonically increasing queries the
// forward scan is amortized O(1) per call; a backward seek is detected
// (the action under the cursor is later than the query) and restarts the
// scan from the beginning instead of silently skipping earlier actions.
//
// ok is false when the timeline is empty; the caller falls back to the
// estimator.
func Resolve(tl script.Timeline, queryMs int64, cursor int) (level float64, newCursor int, ok bool) {
	level, newCursor, _, ok = resolve(tl, queryMs, cursor)
	return level, newCursor, ok
}

// resolve additionally reports the number of actions examined, so tests
// can bound cumulative scan work.
func resolve(tl script.Timeline, queryMs int64, cursor int) (float64, int, int, bool) {
	n := tl.Len()
	if n == 0 {
		return 0, 0, 0, false
	}

	if cursor < 0 {
		cursor = 0
	}
	if cursor >= n {
		cursor = n - 1
	}
	if tl.Action(cursor).At > queryMs {
		// Backward seek: restart the scan.
		cursor = 0
	}

	start := cursor - 1
	if start < 0 {
		start = 0
	}

	current, next := -1, -1
	steps := 0
	for i := start; i < n; i++ {
		steps++
		if tl.Action(i).At <= queryMs {
			current = i
		} else {
			next = i
			break
		}
	}

	if current < 0 {
		// Query precedes the first action: hold its position.
		return clampUnit(float64(tl.Action(0).Pos) / 100), 0, steps, true
	}
	if next < 0 {
		// Query is past the last action: hold the last position.
		return clampUnit(float64(tl.Action(current).Pos) / 100), current, steps, true
	}

	a := tl.Action(current)
	b := tl.Action(next)
	progress := float64(queryMs-a.At) / float64(b.At-a.At)
	pos := float64(a.Pos) + float64(b.Pos-a.Pos)*progress
	return clampUnit(pos / 100), current, steps, true
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
