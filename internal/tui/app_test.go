package tui

import (
	"fmt"
	"testing"
	"time"

	"stride-cli/internal/dnd"
	"stride-cli/internal/model"
	"stride-cli/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

func testModel(t *testing.T) appModel {
	t.Helper()
	db := &store.DB{
		Goals: []model.Goal{{ID: "goal-1", Title: "Run a marathon"}},
		Steps: []model.Step{
			{ID: "s-a", GoalID: "goal-1", Description: "Buy shoes", Timestamp: 1000},
			{ID: "s-b", GoalID: "goal-1", Description: "Plan route", Timestamp: 1001},
			{ID: "s-c", GoalID: "goal-1", Description: "First 5k", Timestamp: 1002},
		},
		Archive: []model.ArchiveItem{{ID: "r-1", Description: "Stretch"}},
	}
	m := newAppModel(t.TempDir(), db, "test")

	n := 0
	m.engine = dnd.Engine{
		NewID: func(kind string) string {
			n++
			return fmt.Sprintf("%s-%02d", kind, n)
		},
		Now: func() time.Time { return time.UnixMilli(50_000) },
	}
	m.openGoal("goal-1")
	return resize(m, 90, 20)
}

func resize(m appModel, w, h int) appModel {
	next, _ := m.Update(tea.WindowSizeMsg{Width: w, Height: h})
	return next.(appModel)
}

func key(m appModel, s string) (appModel, tea.Cmd) {
	var msg tea.KeyMsg
	switch s {
	case " ":
		msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEscape}
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
	next, cmd := m.Update(msg)
	return next.(appModel), cmd
}

func mouse(m appModel, msg tea.MouseMsg) appModel {
	next, _ := m.Update(msg)
	return next.(appModel)
}

func stepOrder(m appModel) []string {
	steps := m.db.StepsForGoal("goal-1")
	ids := make([]string, len(steps))
	for i, s := range steps {
		ids[i] = s.ID
	}
	return ids
}

func sameIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// dragStep drags the step at row fromY to pointer position (5, toY) with
// enough horizontal travel to pass the movement threshold.
func dragStep(m appModel, fromY, toY int) appModel {
	m = mouse(m, tea.MouseMsg{X: 5, Y: fromY, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m = mouse(m, tea.MouseMsg{X: 11, Y: fromY, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	m = mouse(m, tea.MouseMsg{X: 5, Y: toY, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	return mouse(m, tea.MouseMsg{X: 5, Y: toY, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
}

func TestMouseDragReordersSteps(t *testing.T) {
	m := testModel(t)

	// Grab s-b (row 5) and drop it above s-a: the only sibling center below
	// pointer y=3 is s-a's.
	m = dragStep(m, editorTopY+1, editorTopY-1)

	if got := stepOrder(m); !sameIDs(got, []string{"s-b", "s-a", "s-c"}) {
		t.Fatalf("order = %v; want [s-b s-a s-c]", got)
	}
	if m.dragging {
		t.Fatal("drag state must clear after drop")
	}
}

func TestKeyboardMoveMatchesMouseDrag(t *testing.T) {
	viaMouse := dragStep(testModel(t), editorTopY+1, editorTopY-1)

	viaKeys := testModel(t)
	viaKeys, _ = key(viaKeys, "j") // cursor to s-b
	viaKeys, _ = key(viaKeys, "K")

	if !sameIDs(stepOrder(viaMouse), stepOrder(viaKeys)) {
		t.Fatalf("mouse order %v != keyboard order %v", stepOrder(viaMouse), stepOrder(viaKeys))
	}
}

func TestTapTogglesStepCompletion(t *testing.T) {
	m := testModel(t)
	m = mouse(m, tea.MouseMsg{X: 5, Y: editorTopY, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m = mouse(m, tea.MouseMsg{X: 5, Y: editorTopY, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})

	if !m.db.StepsForGoal("goal-1")[0].Completed {
		t.Fatal("tap on a step must toggle completion")
	}
	if got := stepOrder(m); !sameIDs(got, []string{"s-a", "s-b", "s-c"}) {
		t.Fatalf("tap must not reorder: %v", got)
	}
}

func TestMouseDropClearsSelection(t *testing.T) {
	m := testModel(t)
	m.sel.Toggle(dnd.CollectionSteps, "s-a")
	m.sel.Toggle(dnd.CollectionSteps, "s-b")

	// Drag the two-step selection below s-c.
	m = dragStep(m, editorTopY, editorTopY+3)

	if got := stepOrder(m); !sameIDs(got, []string{"s-c", "s-a", "s-b"}) {
		t.Fatalf("order = %v; want [s-c s-a s-b]", got)
	}
	if m.sel.Active() {
		t.Fatal("a landed drop must clear the selection")
	}
}

func TestTapTogglesSelectionWhileActive(t *testing.T) {
	m := testModel(t)
	m, _ = key(m, " ") // select s-a: selection mode on

	// A plain tap on s-b joins it to the selection instead of completing it.
	m = mouse(m, tea.MouseMsg{X: 5, Y: editorTopY + 1, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m = mouse(m, tea.MouseMsg{X: 5, Y: editorTopY + 1, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	if !m.sel.Has(dnd.CollectionSteps, "s-b") {
		t.Fatal("tap in selection mode must toggle the item into the selection")
	}
	if m.db.StepsForGoal("goal-1")[1].Completed {
		t.Fatal("tap in selection mode must not toggle completion")
	}

	// Tapping it again toggles it back out.
	m = mouse(m, tea.MouseMsg{X: 5, Y: editorTopY + 1, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m = mouse(m, tea.MouseMsg{X: 5, Y: editorTopY + 1, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	if m.sel.Has(dnd.CollectionSteps, "s-b") {
		t.Fatal("second tap must toggle the item back out")
	}
	if !m.sel.Has(dnd.CollectionSteps, "s-a") {
		t.Fatal("toggling one item must not drop the rest of the selection")
	}
}

func TestLongPressTimerSelectsWithoutDrag(t *testing.T) {
	m := testModel(t)
	m = mouse(m, tea.MouseMsg{X: 5, Y: editorTopY, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})

	next, _ := m.Update(longPressMsg{seq: 1})
	m = next.(appModel)
	if !m.sel.Has(dnd.CollectionSteps, "s-a") {
		t.Fatal("long press must force-select the pressed item")
	}

	// The swallowed release must not toggle completion.
	m = mouse(m, tea.MouseMsg{X: 5, Y: editorTopY, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	if m.db.StepsForGoal("goal-1")[0].Completed {
		t.Fatal("release after long press must be swallowed")
	}
}

func TestStaleLongPressTimerIgnoredAfterDragStarts(t *testing.T) {
	m := testModel(t)
	m = mouse(m, tea.MouseMsg{X: 5, Y: editorTopY + 1, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m = mouse(m, tea.MouseMsg{X: 11, Y: editorTopY + 1, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	if !m.dragging {
		t.Fatal("movement past threshold must start the drag")
	}
	selected := m.sel.Count()

	next, _ := m.Update(longPressMsg{seq: 1})
	m = next.(appModel)
	if m.sel.Count() != selected {
		t.Fatal("timer firing after the drag started must not touch the selection")
	}
	if !m.dragging {
		t.Fatal("timer firing after the drag started must not break the drag")
	}

	// The gesture still resolves as a normal drop.
	m = mouse(m, tea.MouseMsg{X: 5, Y: editorTopY - 1, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	m = mouse(m, tea.MouseMsg{X: 5, Y: editorTopY - 1, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	if got := stepOrder(m); !sameIDs(got, []string{"s-b", "s-a", "s-c"}) {
		t.Fatalf("order = %v; want [s-b s-a s-c]", got)
	}
}

func TestShiftClickRangeSelects(t *testing.T) {
	m := testModel(t)

	// Ctrl+click anchors on s-a, shift+click on s-c extends.
	m = mouse(m, tea.MouseMsg{X: 5, Y: editorTopY, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft, Ctrl: true})
	m = mouse(m, tea.MouseMsg{X: 5, Y: editorTopY, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	m = mouse(m, tea.MouseMsg{X: 5, Y: editorTopY + 2, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft, Shift: true})
	m = mouse(m, tea.MouseMsg{X: 5, Y: editorTopY + 2, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})

	for _, id := range []string{"s-a", "s-b", "s-c"} {
		if !m.sel.Has(dnd.CollectionSteps, id) {
			t.Fatalf("range select must include %s", id)
		}
	}
}

func TestDropOnTemplatesPanelPromptsForName(t *testing.T) {
	m := testModel(t)

	// Drag s-a over the templates panel (x=65) and release.
	m = mouse(m, tea.MouseMsg{X: 5, Y: editorTopY, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m = mouse(m, tea.MouseMsg{X: 30, Y: editorTopY, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	m = mouse(m, tea.MouseMsg{X: 65, Y: editorTopY, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	m = mouse(m, tea.MouseMsg{X: 65, Y: editorTopY, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})

	if m.modal != modalTemplateName {
		t.Fatalf("modal = %v; want template-name prompt", m.modal)
	}
	if len(m.pendingFold.Steps) != 1 || m.pendingFold.Steps[0].ID != "s-a" {
		t.Fatalf("pendingFold = %+v; want the dragged step", m.pendingFold)
	}
	if len(m.db.Sets) != 0 {
		t.Fatal("no template may exist before the name is confirmed")
	}

	// Cancelling leaves everything untouched.
	m, _ = key(m, "esc")
	if len(m.db.Sets) != 0 || len(m.db.StepsForGoal("goal-1")) != 3 {
		t.Fatal("cancelled fold must be a complete no-op")
	}
	if m.pendingFold.Count() != 0 {
		t.Fatal("cancelled fold must drop the pending payload")
	}
}

func TestArchiveKeyDeduplicatesAndReports(t *testing.T) {
	m := testModel(t)
	m.db.Archive = append(m.db.Archive, model.ArchiveItem{ID: "r-2", Description: "Buy shoes"})

	// Archive the cursor step, whose description already exists.
	m, cmd := key(m, "a")
	if cmd == nil {
		t.Fatal("dedup skip must surface a notification")
	}
	if got := len(m.db.Archive); got != 2 {
		t.Fatalf("archive len = %d; duplicate description must not be added", got)
	}
	if got := len(m.db.StepsForGoal("goal-1")); got != 2 {
		t.Fatalf("steps len = %d; source step must still be removed", got)
	}
}

func TestEscClearsSelectionBeforeLeaving(t *testing.T) {
	m := testModel(t)
	m, _ = key(m, " ")
	if !m.sel.Active() {
		t.Fatal("space must select the cursor item")
	}
	m, _ = key(m, "esc")
	if m.sel.Active() {
		t.Fatal("first esc clears the selection")
	}
	if m.view != viewEditor {
		t.Fatal("first esc must stay in the editor")
	}
	m, _ = key(m, "esc")
	if m.view != viewGoals {
		t.Fatal("second esc returns to the goals view")
	}
}

func TestRenameBlocksDraggingEditedItem(t *testing.T) {
	m := testModel(t)
	m, _ = key(m, "r")
	if m.modal != modalRename || !m.edit.Editing() {
		t.Fatal("rename must open the prompt and mark the item as editing")
	}
	if m.edit.Draggable(dnd.ItemHandle{Collection: dnd.CollectionSteps, ID: "s-a"}) {
		t.Fatal("the item being renamed must not be draggable")
	}
}
