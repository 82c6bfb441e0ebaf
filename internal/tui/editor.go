package tui

import (
	"time"

	"stride-cli/internal/dnd"

	tea "github.com/charmbracelet/bubbletea"
)

const doubleClickWindow = 400 * time.Millisecond

// syncLayout refreshes the layout's collection counts before any hit test or
// render; everything else in editorLayout is derived.
func (m *appModel) syncLayout() {
	m.layout.width, m.layout.height = m.width, m.height
	for p := 0; p < panelCount; p++ {
		m.layout.counts[p] = m.collectionLen(dnd.Collection(p))
	}
}

func (m appModel) cursorHandle() (dnd.ItemHandle, bool) {
	ids := m.orderedIDs(m.focus)
	cur := m.cursor[m.focus]
	if cur < 0 || cur >= len(ids) {
		return dnd.ItemHandle{}, false
	}
	return dnd.ItemHandle{Collection: m.focus, ID: ids[cur]}, true
}

// bindTouch rebinds the gesture callbacks to this Update's model copy. The
// controller outlives any single Update, so closures from a previous cycle
// would mutate a stale copy.
func (m *appModel) bindTouch(cmds *[]tea.Cmd) {
	m.touch.Callbacks = dnd.TouchCallbacks{
		Tap:       func(h dnd.ItemHandle) { *cmds = append(*cmds, m.handleTap(h)) },
		LongPress: func(h dnd.ItemHandle) { m.sel.ForceSelect(h.Collection, h.ID) },
		DragStart: func(h dnd.ItemHandle) { m.startDrag(h) },
		DragMove:  func(x, y int) { m.trackDrag(x, y) },
		Drop:      func(x, y int) { *cmds = append(*cmds, m.finishDrop(x, y)) },
		DragCancel: func() {
			m.clearDrag()
		},
	}
}

func (m appModel) updateEditorMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	m.syncLayout()
	var cmds []tea.Cmd
	m.bindTouch(&cmds)

	switch msg.Button {
	case tea.MouseButtonWheelUp, tea.MouseButtonWheelDown:
		if c, ok := m.layout.panelAt(msg.X); ok {
			delta := 1
			if msg.Button == tea.MouseButtonWheelUp {
				delta = -1
			}
			m.layout.scroll[c] += delta
			max := m.collectionLen(c) - m.layout.visibleRows()
			if m.layout.scroll[c] > max {
				m.layout.scroll[c] = max
			}
			if m.layout.scroll[c] < 0 {
				m.layout.scroll[c] = 0
			}
		}
		return m, nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		c, okPanel := m.layout.panelAt(msg.X)
		if !okPanel {
			return m, nil
		}
		idx, okRow := m.layout.rowAt(c, msg.Y)
		if !okRow {
			// Pressing empty panel space drops out of selection mode.
			m.sel.ClearAll()
			return m, nil
		}
		h := dnd.ItemHandle{Collection: c, ID: m.orderedIDs(c)[idx]}
		if !m.edit.Draggable(h) {
			return m, nil
		}
		m.pressShift = msg.Shift
		m.pressCtrl = msg.Ctrl
		// The two-cell gutter acts as a drag handle while selection mode is
		// on: any movement from it starts the drag.
		viaHandle := m.sel.Active() && msg.X < m.layout.panelX(int(c))+2
		seq := m.touch.Press(msg.X, msg.Y, h, viaHandle)
		delay := m.touch.LongPressDelay
		cmds = append(cmds, tea.Tick(delay, func(time.Time) tea.Msg { return longPressMsg{seq} }))
		return m, tea.Batch(cmds...)

	case tea.MouseActionMotion:
		m.touch.Move(msg.X, msg.Y)
		return m, tea.Batch(cmds...)

	case tea.MouseActionRelease:
		if msg.Button != tea.MouseButtonLeft && msg.Button != tea.MouseButtonNone {
			return m, nil
		}
		m.touch.Release()
		return m, tea.Batch(cmds...)
	}
	return m, nil
}

// handleTap resolves a completed click: modified clicks mutate the
// selection, and while selection mode is active a plain click toggles
// membership instead of the item's default action. Otherwise a plain click
// moves the cursor (and, on the steps panel, toggles completion), and a
// quick second click opens the inline rename.
func (m *appModel) handleTap(h dnd.ItemHandle) tea.Cmd {
	c := h.Collection
	ids := m.orderedIDs(c)
	m.focus = c
	for i, id := range ids {
		if id == h.ID {
			m.cursor[c] = i
		}
	}

	switch {
	case m.pressCtrl:
		m.sel.Toggle(c, h.ID)
	case m.pressShift:
		m.sel.RangeSelect(c, m.sel.Anchor(c), h.ID, ids)
	default:
		if m.sel.Active() {
			m.sel.Toggle(c, h.ID)
			return nil
		}
		now := time.Now()
		if m.lastClickOn == h && now.Sub(m.lastClickAt) < doubleClickWindow {
			m.lastClickAt = time.Time{}
			return m.beginRename(h)
		}
		m.lastClickAt = now
		m.lastClickOn = h
		if c == dnd.CollectionSteps {
			return m.toggleComplete(h.ID)
		}
	}
	return nil
}

func (m *appModel) startDrag(h dnd.ItemHandle) {
	if !m.edit.Draggable(h) {
		return
	}
	p := dnd.BuildPayload(m.sel, h, m.sources())
	if p.Empty() {
		return
	}
	m.payload = p
	m.dragging = true
	m.haveTarget = false
}

func (m *appModel) trackDrag(x, y int) {
	if !m.dragging {
		return
	}
	m.dragX, m.dragY = x, y
	panel, ok := m.layout.panelAt(x)
	if !ok {
		m.haveTarget = false
		return
	}
	sibs := m.layout.siblings(panel, m.payload, m.orderedIDs(panel))
	tgt, ok := dnd.ResolveTarget(panel, m.payload, y, sibs, m.collectionLen(panel))
	m.target, m.haveTarget = tgt, ok
}

func (m *appModel) finishDrop(x, y int) tea.Cmd {
	if !m.dragging {
		return nil
	}
	m.trackDrag(x, y)
	if !m.haveTarget {
		m.clearDrag()
		return nil
	}
	payload, tgt := m.payload, m.target
	m.debugLogf("drop panel=%s kind=%d index=%d payload=%d", tgt.Panel, tgt.Kind, tgt.Index, payload.Count())

	if tgt.Kind == dnd.DropFold {
		m.clearDrag()
		m.pendingFold = payload
		m.openModal(modalTemplateName, "Template name", "")
		return nil
	}

	src := m.sources()
	switch tgt.Panel {
	case dnd.CollectionSteps:
		return m.applyResult(m.engine.CommitToSteps(m.goalID, src, payload, tgt.Index), "")
	case dnd.CollectionArchive:
		return m.applyResult(m.engine.CommitToArchive(src, payload, tgt.Index), "")
	case dnd.CollectionSets:
		return m.applyResult(m.engine.CommitSetsReorder(src, payload, tgt.Index), "")
	}
	m.clearDrag()
	return nil
}

// applyResult writes a commit back into the workspace. A landed commit ends
// selection mode; a no-op result leaves everything (selection included)
// untouched. Dedup skips are reported either way.
func (m *appModel) applyResult(res dnd.Result, format string, args ...any) tea.Cmd {
	m.clearDrag()
	if !res.Changed() {
		if res.Skipped > 0 {
			return m.notify("skipped %d duplicate(s)", res.Skipped)
		}
		return nil
	}
	if res.StepsChanged {
		m.db.SetStepsForGoal(m.goalID, res.Steps)
	}
	if res.ArchiveChanged {
		m.db.SetArchive(res.Archive)
	}
	if res.SetsChanged {
		m.db.SetSets(res.Sets)
	}
	m.sel.ClearAll()
	m.clampCursors()
	m.persist()
	if res.Skipped > 0 {
		return m.notify("skipped %d duplicate(s)", res.Skipped)
	}
	if format != "" {
		return m.notify(format, args...)
	}
	return nil
}

func (m appModel) updateEditorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.syncLayout()

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "q", "esc":
		if m.dragging {
			m.touch.Cancel()
			m.clearDrag()
			return m, nil
		}
		if m.sel.Active() {
			m.sel.ClearAll()
			return m, nil
		}
		m.refreshGoals()
		m.view = viewGoals
		return m, nil

	case "tab":
		m.focus = (m.focus + 1) % panelCount
		return m, nil
	case "shift+tab":
		m.focus = (m.focus + panelCount - 1) % panelCount
		return m, nil

	case "j", "down":
		if m.cursor[m.focus] < m.collectionLen(m.focus)-1 {
			m.cursor[m.focus]++
		}
		m.layout.clampScroll(m.focus, m.cursor[m.focus])
		return m, nil
	case "k", "up":
		if m.cursor[m.focus] > 0 {
			m.cursor[m.focus]--
		}
		m.layout.clampScroll(m.focus, m.cursor[m.focus])
		return m, nil

	case " ":
		if h, ok := m.cursorHandle(); ok {
			m.sel.Toggle(h.Collection, h.ID)
		}
		return m, nil

	case "shift+down", "shift+up":
		ids := m.orderedIDs(m.focus)
		if len(ids) == 0 {
			return m, nil
		}
		if msg.String() == "shift+down" && m.cursor[m.focus] < len(ids)-1 {
			m.cursor[m.focus]++
		}
		if msg.String() == "shift+up" && m.cursor[m.focus] > 0 {
			m.cursor[m.focus]--
		}
		anchor := m.sel.Anchor(m.focus)
		if anchor == "" {
			anchor = ids[m.cursor[m.focus]]
		}
		m.sel.RangeSelect(m.focus, anchor, ids[m.cursor[m.focus]], ids)
		m.layout.clampScroll(m.focus, m.cursor[m.focus])
		return m, nil

	case "x", "enter":
		if m.focus == dnd.CollectionSteps {
			if h, ok := m.cursorHandle(); ok {
				return m, m.toggleComplete(h.ID)
			}
		}
		if m.focus == dnd.CollectionSets {
			return m, m.applyTemplateAtCursor()
		}
		return m, nil

	case "J", "shift+j":
		return m, m.keyboardMove(1)
	case "K", "shift+k":
		return m, m.keyboardMove(-1)

	case "a":
		return m, m.archiveSelected()
	case "u":
		return m, m.unarchiveAtCursor()
	case "t":
		return m, m.beginFold()
	case "p":
		return m, m.applyTemplateAtCursor()
	case "n":
		switch m.focus {
		case dnd.CollectionSteps:
			m.openModal(modalNewStep, "New step", "")
		case dnd.CollectionArchive:
			m.openModal(modalNewArchiveItem, "New archive item", "")
		case dnd.CollectionSets:
			return m, m.notify("select steps and press t to save a template")
		}
		return m, nil
	case "r":
		if h, ok := m.cursorHandle(); ok {
			return m, m.beginRename(h)
		}
		return m, nil
	case "d":
		return m, m.deleteSelected()

	case "o":
		m.returnView = viewEditor
		m.view = viewNotes
		return m, nil
	case "g":
		m.refreshGoals()
		m.view = viewGoals
		return m, nil
	case "?":
		m.returnView = viewEditor
		m.view = viewHelp
		return m, nil
	}
	return m, nil
}

func (m *appModel) toggleComplete(stepID string) tea.Cmd {
	steps := m.steps()
	for i := range steps {
		if steps[i].ID == stepID {
			steps[i].Completed = !steps[i].Completed
		}
	}
	m.db.SetStepsForGoal(m.goalID, steps)
	m.persist()
	return nil
}

func (m *appModel) beginRename(h dnd.ItemHandle) tea.Cmd {
	var current string
	switch h.Collection {
	case dnd.CollectionSteps:
		for _, s := range m.steps() {
			if s.ID == h.ID {
				current = s.Description
			}
		}
	case dnd.CollectionArchive:
		for _, a := range m.db.Archive {
			if a.ID == h.ID {
				current = a.Description
			}
		}
	case dnd.CollectionSets:
		for _, s := range m.db.Sets {
			if s.ID == h.ID {
				current = s.Name
			}
		}
	}
	m.edit.Begin(h)
	m.modalFor = h
	m.openModal(modalRename, "Rename", current)
	return nil
}

// keyboardMove nudges the focused panel's selection (or the cursor item) one
// slot up or down through the same commit path a mouse drop takes.
func (m *appModel) keyboardMove(delta int) tea.Cmd {
	c := m.focus
	ids := m.orderedIDs(c)
	if len(ids) == 0 {
		return nil
	}
	moved := m.sel.IDs(c, ids)
	if len(moved) == 0 {
		if h, ok := m.cursorHandle(); ok {
			moved = []string{h.ID}
		} else {
			return nil
		}
	}

	inMoved := make(map[string]bool, len(moved))
	for _, id := range moved {
		inMoved[id] = true
	}
	first, last := -1, -1
	for i, id := range ids {
		if inMoved[id] {
			if first < 0 {
				first = i
			}
			last = i
		}
	}

	var drop int
	if delta > 0 {
		drop = last + 2
		if drop > len(ids) {
			return nil
		}
	} else {
		drop = first - 1
		if drop < 0 {
			return nil
		}
	}

	grab := dnd.ItemHandle{Collection: c, ID: moved[0]}
	temp := dnd.NewSelection()
	temp.Replace(c, moved...)
	p := dnd.BuildPayload(temp, grab, m.sources())

	src := m.sources()
	var res dnd.Result
	switch c {
	case dnd.CollectionSteps:
		res = m.engine.CommitToSteps(m.goalID, src, p, drop)
	case dnd.CollectionArchive:
		res = m.engine.CommitToArchive(src, p, drop)
	case dnd.CollectionSets:
		res = m.engine.CommitSetsReorder(src, p, drop)
	}
	cmd := m.applyResult(res, "")
	if res.Changed() {
		// Unlike a drop, a keyboard move re-selects the moved items so
		// repeated presses keep nudging them.
		m.sel.Replace(c, moved...)
		m.cursor[c] += delta
		m.clampCursors()
		m.layout.clampScroll(c, m.cursor[c])
	}
	return cmd
}

// archiveSelected sends the selection (or the cursor step) to the end of the
// archive, with the same dedup/move semantics as a drag.
func (m *appModel) archiveSelected() tea.Cmd {
	grab, ok := m.cursorHandle()
	if m.sel.Active() {
		grab = dnd.ItemHandle{}
		for _, c := range []dnd.Collection{dnd.CollectionSteps, dnd.CollectionArchive, dnd.CollectionSets} {
			if ids := m.sel.IDs(c, m.orderedIDs(c)); len(ids) > 0 {
				grab = dnd.ItemHandle{Collection: c, ID: ids[0]}
				break
			}
		}
		ok = grab.ID != ""
	}
	if !ok {
		return nil
	}
	p := dnd.BuildPayload(m.sel, grab, m.sources())
	if p.Empty() {
		return nil
	}
	res := m.engine.CommitToArchive(m.sources(), p, len(m.db.Archive))
	return m.applyResult(res, "archived %d", res.Inserted)
}

// unarchiveAtCursor copies nothing: it moves the archive cursor item back to
// the end of the step list.
func (m *appModel) unarchiveAtCursor() tea.Cmd {
	if m.focus != dnd.CollectionArchive {
		return nil
	}
	h, ok := m.cursorHandle()
	if !ok {
		return nil
	}
	temp := dnd.NewSelection()
	temp.Replace(dnd.CollectionArchive, h.ID)
	p := dnd.BuildPayload(temp, h, m.sources())
	res := m.engine.CommitToSteps(m.goalID, m.sources(), p, len(m.steps()))
	return m.applyResult(res, "")
}

// beginFold opens the template-name prompt over the current selection (or
// cursor step). The payload is snapshotted now; collections change only on
// confirm.
func (m *appModel) beginFold() tea.Cmd {
	grab, ok := m.cursorHandle()
	if m.sel.Active() {
		for _, c := range []dnd.Collection{dnd.CollectionSteps, dnd.CollectionArchive, dnd.CollectionSets} {
			if ids := m.sel.IDs(c, m.orderedIDs(c)); len(ids) > 0 {
				grab, ok = dnd.ItemHandle{Collection: c, ID: ids[0]}, true
				break
			}
		}
	}
	if !ok {
		return nil
	}
	p := dnd.BuildPayload(m.sel, grab, m.sources())
	if len(p.Steps) == 0 && len(p.Archive) == 0 {
		return m.notify("select steps or archive items first")
	}
	p.Sets = nil // folding only captures step-like items
	m.pendingFold = p
	m.openModal(modalTemplateName, "Template name", "")
	return nil
}

func (m *appModel) applyTemplateAtCursor() tea.Cmd {
	if m.focus != dnd.CollectionSets {
		return nil
	}
	h, ok := m.cursorHandle()
	if !ok {
		return nil
	}
	set, ok := m.db.FindSet(h.ID)
	if !ok {
		return nil
	}
	m.db.SetStepsForGoal(m.goalID, m.engine.ApplyTemplate(m.goalID, m.steps(), *set))
	m.persist()
	return m.notify("applied %q (%d steps)", set.Name, len(set.Steps))
}

// deleteSelected removes the selection (or the cursor item) outright. Unlike
// archiving, deletion does not keep a copy anywhere.
func (m *appModel) deleteSelected() tea.Cmd {
	targets := map[dnd.Collection]map[string]bool{}
	if m.sel.Active() {
		for _, c := range []dnd.Collection{dnd.CollectionSteps, dnd.CollectionArchive, dnd.CollectionSets} {
			for _, id := range m.sel.IDs(c, m.orderedIDs(c)) {
				if targets[c] == nil {
					targets[c] = map[string]bool{}
				}
				targets[c][id] = true
			}
		}
	} else if h, ok := m.cursorHandle(); ok {
		targets[h.Collection] = map[string]bool{h.ID: true}
	}
	if len(targets) == 0 {
		return nil
	}

	n := 0
	if ids := targets[dnd.CollectionSteps]; len(ids) > 0 {
		steps := m.steps()
		kept := steps[:0]
		for _, s := range steps {
			if !ids[s.ID] {
				kept = append(kept, s)
			}
		}
		n += len(steps) - len(kept)
		m.db.SetStepsForGoal(m.goalID, kept)
	}
	if ids := targets[dnd.CollectionArchive]; len(ids) > 0 {
		kept := m.db.Archive[:0]
		for _, a := range m.db.Archive {
			if !ids[a.ID] {
				kept = append(kept, a)
			}
		}
		n += len(m.db.Archive) - len(kept)
		m.db.SetArchive(kept)
	}
	if ids := targets[dnd.CollectionSets]; len(ids) > 0 {
		kept := m.db.Sets[:0]
		for _, s := range m.db.Sets {
			if !ids[s.ID] {
				kept = append(kept, s)
			}
		}
		n += len(m.db.Sets) - len(kept)
		m.db.SetSets(kept)
	}

	m.sel.ClearAll()
	m.clampCursors()
	m.persist()
	return m.notify("deleted %d item(s)", n)
}
