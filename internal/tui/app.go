package tui

import (
	"context"
	"fmt"
	"time"

	"stride-cli/internal/dnd"
	"stride-cli/internal/model"
	"stride-cli/internal/store"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type view int

const (
	viewGoals view = iota
	viewEditor
	viewTags
	viewNotes
	viewHelp
)

type modalKind int

const (
	modalNone modalKind = iota
	modalNewGoal
	modalNewStep
	modalNewArchiveItem
	modalTemplateName
	modalRename
	modalNewTag
	modalRenameTag
)

type longPressMsg struct{ seq int }

type flashDoneMsg struct{ seq int }

type appModel struct {
	dir       string
	workspace string
	store     store.Store
	db        *store.DB
	engine    dnd.Engine

	width  int
	height int

	view       view
	returnView view

	goalsList list.Model
	tagsList  list.Model

	goalID string

	// Drag/selection engine state for the editor.
	sel    *dnd.Selection
	touch  *dnd.TouchController
	edit   dnd.InlineEdit
	layout editorLayout

	focus  dnd.Collection
	cursor [panelCount]int

	dragging   bool
	payload    dnd.Payload
	dragX      int
	dragY      int
	target     dnd.Target
	haveTarget bool

	// pendingFold holds the payload while the template-name prompt is open:
	// the fold-into-template continuation resumes on confirm, and a cancel
	// leaves every collection untouched.
	pendingFold dnd.Payload

	modal    modalKind
	modalFor dnd.ItemHandle
	input    textinput.Model

	// Modifier state captured at press time, consulted when the gesture
	// resolves into a tap.
	pressShift bool
	pressCtrl  bool

	// Double-click gate for inline rename.
	lastClickAt time.Time
	lastClickOn dnd.ItemHandle

	minibuffer string
	flashSeq   int

	debugEnabled bool
	debugLogPath string
}

// Run starts the interactive TUI on an already-loaded workspace.
func Run(dir string, db *store.DB, workspace string) error {
	m := newAppModel(dir, db, workspace)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion())
	_, err := p.Run()
	return err
}

func newAppModel(dir string, db *store.DB, workspace string) appModel {
	m := appModel{
		dir:       dir,
		workspace: workspace,
		store:     store.Store{Dir: dir},
		db:        db,
		view:      viewGoals,
		sel:       dnd.NewSelection(),
		engine:    dnd.Engine{NewID: store.NewRandomID, Now: time.Now},
	}
	m.touch = dnd.NewTouchController(dnd.TouchCallbacks{})
	m.debugEnabled, m.debugLogPath = debugFromEnv()

	m.goalsList = newCompactList("Goals")
	m.tagsList = newCompactList("Tags")

	m.input = textinput.New()
	m.input.CharLimit = 200
	m.input.Width = 40

	m.refreshGoals()
	m.refreshTags()

	if db.CurrentGoalID != "" {
		if _, ok := db.FindGoal(db.CurrentGoalID); ok {
			m.goalID = db.CurrentGoalID
			m.view = viewEditor
		}
	}
	return m
}

func (m appModel) Init() tea.Cmd { return nil }

// steps returns the current goal's ordered steps.
func (m appModel) steps() []model.Step {
	return m.db.StepsForGoal(m.goalID)
}

// sources snapshots the three collections for the dnd engine.
func (m appModel) sources() dnd.Sources {
	return dnd.Sources{
		Steps:   m.steps(),
		Archive: m.db.Archive,
		Sets:    m.db.Sets,
	}
}

func (m appModel) orderedIDs(c dnd.Collection) []string {
	switch c {
	case dnd.CollectionSteps:
		steps := m.steps()
		ids := make([]string, len(steps))
		for i, s := range steps {
			ids[i] = s.ID
		}
		return ids
	case dnd.CollectionArchive:
		ids := make([]string, len(m.db.Archive))
		for i, a := range m.db.Archive {
			ids[i] = a.ID
		}
		return ids
	case dnd.CollectionSets:
		ids := make([]string, len(m.db.Sets))
		for i, s := range m.db.Sets {
			ids[i] = s.ID
		}
		return ids
	}
	return nil
}

func (m appModel) collectionLen(c dnd.Collection) int {
	return len(m.orderedIDs(c))
}

// notify puts a short-lived message on the status line.
func (m *appModel) notify(format string, args ...any) tea.Cmd {
	m.minibuffer = fmt.Sprintf(format, args...)
	m.flashSeq++
	seq := m.flashSeq
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg { return flashDoneMsg{seq} })
}

// persist writes the whole workspace state. Persistence failures surface on
// the status line; in-memory state stays authoritative for the session.
func (m *appModel) persist() {
	if err := m.store.Save(context.Background(), m.db); err != nil {
		m.debugLogf("save failed: %v", err)
		m.minibuffer = "save failed: " + err.Error()
	}
}

// openGoal switches the editor to a goal, clearing any session state that
// belonged to the previous goal.
func (m *appModel) openGoal(goalID string) {
	m.goalID = goalID
	m.db.CurrentGoalID = goalID
	m.sel.ClearAll()
	m.clearDrag()
	m.edit.End()
	m.cursor = [panelCount]int{}
	m.layout.scroll = [panelCount]int{}
	m.focus = dnd.CollectionSteps
	m.view = viewEditor
	m.persist()
}

func (m *appModel) clearDrag() {
	m.dragging = false
	m.payload = dnd.Payload{}
	m.haveTarget = false
	m.target = dnd.Target{}
}

func (m *appModel) clampCursors() {
	for p := 0; p < panelCount; p++ {
		c := dnd.Collection(p)
		n := m.collectionLen(c)
		if m.cursor[p] >= n {
			m.cursor[p] = n - 1
		}
		if m.cursor[p] < 0 {
			m.cursor[p] = 0
		}
	}
}
