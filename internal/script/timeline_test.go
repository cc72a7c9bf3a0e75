package script

import "testing"

func TestNewTimelineSortsByTimestamp(t *testing.T) {
	tl := NewTimeline([]Action{
		{At: 3000, Pos: 30},
		{At: 1000, Pos: 10},
		{At: 2000, Pos: 20},
	})

	if tl.Len() != 3 {
		t.Fatalf("expected 3 actions, got %d", tl.Len())
	}

	var prev int64 = -1
	for i := 0; i < tl.Len(); i++ {
		if tl.Action(i).At < prev {
			t.Errorf("actions not sorted: index %d has at=%d after %d", i, tl.Action(i).At, prev)
		}
		prev = tl.Action(i).At
	}
	if tl.Action(0).Pos != 10 || tl.Action(1).Pos != 20 || tl.Action(2).Pos != 30 {
		t.Errorf("unexpected order after sort: %+v", tl.Actions())
	}
}

func TestNewTimelineSortIsStable(t *testing.T) {
	// Equal timestamps must keep source order.
	tl := NewTimeline([]Action{
		{At: 500, Pos: 1},
		{At: 500, Pos: 2},
		{At: 100, Pos: 0},
		{At: 500, Pos: 3},
	})

	want := []int{0, 1, 2, 3}
	for i, pos := range want {
		if tl.Action(i).Pos != pos {
			t.Errorf("index %d: expected pos %d, got %d", i, pos, tl.Action(i).Pos)
		}
	}
}

func TestNewTimelineCopiesInput(t *testing.T) {
	raw := []Action{{At: 200, Pos: 50}, {At: 100, Pos: 25}}
	tl := NewTimeline(raw)

	raw[0].Pos = 99
	raw[1].Pos = 99

	if tl.Action(0).Pos != 25 || tl.Action(1).Pos != 50 {
		t.Errorf("timeline shares storage with caller input: %+v", tl.Actions())
	}
}

func TestEmptyTimeline(t *testing.T) {
	tl := NewTimeline(nil)
	if !tl.Empty() {
		t.Error("expected empty timeline")
	}
	if tl.Len() != 0 {
		t.Errorf("expected length 0, got %d", tl.Len())
	}

	full := NewTimeline([]Action{{At: 0, Pos: 0}})
	if full.Empty() {
		t.Error("expected non-empty timeline")
	}
}
