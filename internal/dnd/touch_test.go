package dnd

import "testing"

// touchLog records which gestures fired, in order.
type touchLog struct {
	events []string
}

func (l *touchLog) controller() *TouchController {
	return NewTouchController(TouchCallbacks{
		Tap:        func(ItemHandle) { l.events = append(l.events, "tap") },
		LongPress:  func(ItemHandle) { l.events = append(l.events, "longpress") },
		DragStart:  func(ItemHandle) { l.events = append(l.events, "dragstart") },
		DragMove:   func(x, y int) { l.events = append(l.events, "dragmove") },
		Drop:       func(x, y int) { l.events = append(l.events, "drop") },
		DragCancel: func() { l.events = append(l.events, "cancel") },
	})
}

func (l *touchLog) want(t *testing.T, want ...string) {
	t.Helper()
	if len(l.events) != len(want) {
		t.Fatalf("events = %v; want %v", l.events, want)
	}
	for i := range want {
		if l.events[i] != want[i] {
			t.Fatalf("events = %v; want %v", l.events, want)
		}
	}
}

var row = ItemHandle{CollectionSteps, "a"}

func TestTapUnderBothThresholds(t *testing.T) {
	// Scenario E: movement under the threshold and release before the
	// long-press delay is a tap, not a drag and not a selection.
	var l touchLog
	c := l.controller()
	seq := c.Press(10, 10, row, false)
	c.Move(12, 11) // below threshold
	c.Release()
	c.TimerFired(seq) // delay elapses after the finger already lifted
	l.want(t, "tap")
	if c.State() != TouchIdle {
		t.Fatalf("state = %v; want idle", c.State())
	}
}

func TestMovementPastThresholdStartsDrag(t *testing.T) {
	var l touchLog
	c := l.controller()
	seq := c.Press(10, 10, row, false)
	c.Move(10+DefaultMoveThreshold, 10)
	c.Move(30, 30)
	c.TimerFired(seq) // timer lost the race; must be ignored
	c.Release()
	l.want(t, "dragstart", "dragmove", "dragmove", "drop")
}

func TestLongPressBeatsMovementAndSwallowsRelease(t *testing.T) {
	var l touchLog
	c := l.controller()
	seq := c.Press(10, 10, row, false)
	c.TimerFired(seq)
	c.Release() // must not also fire tap
	l.want(t, "longpress")
	if c.State() != TouchIdle {
		t.Fatalf("state = %v; want idle", c.State())
	}
}

func TestStaleTimerFromEarlierGestureIgnored(t *testing.T) {
	var l touchLog
	c := l.controller()
	old := c.Press(10, 10, row, false)
	c.Release() // tap; invalidates old
	_ = c.Press(20, 20, ItemHandle{CollectionSteps, "b"}, false)
	c.TimerFired(old) // recycled-row timer from the first gesture
	l.want(t, "tap")
	if c.State() != TouchPressed {
		t.Fatalf("second gesture must still be pressed, got %v", c.State())
	}
}

func TestDragHandleStartsDragOnAnyMovement(t *testing.T) {
	var l touchLog
	c := l.controller()
	c.Press(10, 10, row, true)
	c.Move(11, 10) // one cell, below the generic threshold
	l.want(t, "dragstart", "dragmove")
}

func TestCancelDuringDrag(t *testing.T) {
	var l touchLog
	c := l.controller()
	c.Press(10, 10, row, false)
	c.Move(30, 30)
	c.Cancel()
	l.want(t, "dragstart", "dragmove", "cancel")
	if c.State() != TouchIdle {
		t.Fatalf("state = %v; want idle", c.State())
	}
}

func TestCancelWhilePressedInvalidatesTimer(t *testing.T) {
	var l touchLog
	c := l.controller()
	seq := c.Press(10, 10, row, false)
	c.Cancel()
	c.TimerFired(seq)
	l.want(t) // nothing fires: no tap, no long-press, no cancel callback
}

func TestMoveWhileIdleIsIgnored(t *testing.T) {
	var l touchLog
	c := l.controller()
	c.Move(50, 50)
	c.Release()
	l.want(t)
}
