package dnd

import "time"

// TouchState is the synthetic drag state machine. Transitions:
//
//	idle -> pressed               press
//	pressed -> dragging           movement past threshold (or any movement
//	                              when the press started on a drag handle)
//	pressed -> longPressed        long-press timer fires first
//	pressed -> idle               release (tap)
//	longPressed -> idle           release (swallowed, no tap)
//	dragging -> idle              release (drop) or cancel
type TouchState int

const (
	TouchIdle TouchState = iota
	TouchPressed
	TouchDragging
	TouchLongPressed
)

const (
	// DefaultLongPressDelay distinguishes a held press from a tap.
	DefaultLongPressDelay = 450 * time.Millisecond
	// DefaultMoveThreshold is the movement (either axis) past which a press
	// becomes a drag. Units are the host's; the controller treats them as
	// opaque.
	DefaultMoveThreshold = 6
)

// TouchCallbacks receive the interpreted gestures. Nil callbacks are skipped.
type TouchCallbacks struct {
	// Tap fires on release before both the movement threshold and the
	// long-press delay.
	Tap func(target ItemHandle)
	// LongPress fires when the timer beats movement; the host force-selects
	// the target. The following release is swallowed.
	LongPress func(target ItemHandle)
	// DragStart fires once when movement wins; the host builds the payload
	// here.
	DragStart func(target ItemHandle)
	// DragMove fires on every move while dragging (ghost position, drop
	// target recompute).
	DragMove func(x, y int)
	// Drop fires on release while dragging, at the last known position.
	Drop func(x, y int)
	// DragCancel fires when a drag is abandoned without a release.
	DragCancel func()
}

// TouchController synthesizes tap / long-press / drag semantics from raw
// press, move, and release events on platforms without native drag support.
//
// Timers are driven externally: Press returns a sequence number the host
// schedules a callback for; TimerFired ignores sequences from earlier
// sessions, so orphaned timers on recycled rows can never fire into a newer
// gesture.
type TouchController struct {
	LongPressDelay time.Duration
	MoveThreshold  int
	Callbacks      TouchCallbacks

	state          TouchState
	seq            int
	target         ItemHandle
	viaHandle      bool
	startX, startY int
	lastX, lastY   int
}

func NewTouchController(cb TouchCallbacks) *TouchController {
	return &TouchController{
		LongPressDelay: DefaultLongPressDelay,
		MoveThreshold:  DefaultMoveThreshold,
		Callbacks:      cb,
	}
}

func (t *TouchController) State() TouchState { return t.state }

// Target returns the item under the initial press.
func (t *TouchController) Target() ItemHandle { return t.target }

// Press starts a gesture on target. viaHandle marks a press on the
// selection-mode drag handle, where any movement starts the drag
// immediately. Returns the timer sequence the host should fire
// LongPressDelay from now.
func (t *TouchController) Press(x, y int, target ItemHandle, viaHandle bool) int {
	t.seq++
	t.state = TouchPressed
	t.target = target
	t.viaHandle = viaHandle
	t.startX, t.startY = x, y
	t.lastX, t.lastY = x, y
	return t.seq
}

// Move updates the gesture with a new position.
func (t *TouchController) Move(x, y int) {
	switch t.state {
	case TouchPressed:
		t.lastX, t.lastY = x, y
		dx := abs(x - t.startX)
		dy := abs(y - t.startY)
		if t.viaHandle && (dx > 0 || dy > 0) || dx >= t.MoveThreshold || dy >= t.MoveThreshold {
			// Movement beats the long-press timer; the pending sequence is
			// invalidated below by the state check in TimerFired.
			t.state = TouchDragging
			if t.Callbacks.DragStart != nil {
				t.Callbacks.DragStart(t.target)
			}
			if t.Callbacks.DragMove != nil {
				t.Callbacks.DragMove(x, y)
			}
		}
	case TouchDragging:
		t.lastX, t.lastY = x, y
		if t.Callbacks.DragMove != nil {
			t.Callbacks.DragMove(x, y)
		}
	}
}

// TimerFired delivers the long-press timer. Stale sequences (a newer press,
// or a press already resolved into a drag or release) are ignored.
func (t *TouchController) TimerFired(seq int) {
	if seq != t.seq || t.state != TouchPressed {
		return
	}
	t.state = TouchLongPressed
	if t.Callbacks.LongPress != nil {
		t.Callbacks.LongPress(t.target)
	}
}

// Release ends the gesture: tap, swallowed long-press release, or drop.
func (t *TouchController) Release() {
	prev := t.state
	t.reset()
	switch prev {
	case TouchPressed:
		if t.Callbacks.Tap != nil {
			t.Callbacks.Tap(t.target)
		}
	case TouchLongPressed:
		// Swallowed: long-press already fired, the release must not also tap.
	case TouchDragging:
		if t.Callbacks.Drop != nil {
			t.Callbacks.Drop(t.lastX, t.lastY)
		}
	}
}

// Cancel abandons the gesture (pointer left the surface, session changed).
// An in-flight drag gets DragCancel; a pending long-press timer is
// invalidated either way.
func (t *TouchController) Cancel() {
	prev := t.state
	t.reset()
	if prev == TouchDragging && t.Callbacks.DragCancel != nil {
		t.Callbacks.DragCancel()
	}
}

// reset invalidates any pending timer and returns to idle without touching
// the recorded target/position (Release still needs them).
func (t *TouchController) reset() {
	t.seq++
	t.state = TouchIdle
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
