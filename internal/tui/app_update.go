package tui

import (
	"strings"

	"stride-cli/internal/dnd"
	"stride-cli/internal/model"
	"stride-cli/internal/store"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout.width, m.layout.height = msg.Width, msg.Height
		m.goalsList.SetSize(msg.Width-2, msg.Height-4)
		m.tagsList.SetSize(msg.Width-2, msg.Height-4)
		return m, nil

	case flashDoneMsg:
		if msg.seq == m.flashSeq {
			m.minibuffer = ""
		}
		return m, nil

	case longPressMsg:
		var cmds []tea.Cmd
		m.bindTouch(&cmds)
		m.touch.TimerFired(msg.seq)
		return m, tea.Batch(cmds...)

	case tea.MouseMsg:
		if m.view == viewEditor && m.modal == modalNone {
			return m.updateEditorMouse(msg)
		}
		return m, nil

	case tea.KeyMsg:
		if m.modal != modalNone {
			return m.updateModalKey(msg)
		}
		switch m.view {
		case viewGoals:
			return m.updateGoalsKey(msg)
		case viewEditor:
			return m.updateEditorKey(msg)
		case viewTags:
			return m.updateTagsKey(msg)
		case viewNotes, viewHelp:
			m.view = m.returnView
			return m, nil
		}
	}
	return m, nil
}

func (m appModel) updateGoalsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.goalsList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.goalsList, cmd = m.goalsList.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "enter":
		if it, ok := m.goalsList.SelectedItem().(goalItem); ok {
			m.openGoal(it.goal.ID)
		}
		return m, nil
	case "n":
		m.openModal(modalNewGoal, "New goal", "")
		return m, nil
	case "r":
		if it, ok := m.goalsList.SelectedItem().(goalItem); ok {
			m.modalFor = dnd.ItemHandle{ID: it.goal.ID}
			m.openModal(modalRename, "Rename goal", it.goal.Title)
		}
		return m, nil
	case "d":
		if it, ok := m.goalsList.SelectedItem().(goalItem); ok {
			m.db.DeleteGoal(it.goal.ID)
			m.persist()
			m.refreshGoals()
			return m, m.notify("deleted %q", it.goal.Title)
		}
		return m, nil
	case "t":
		m.view = viewTags
		return m, nil
	case "?":
		m.returnView = viewGoals
		m.view = viewHelp
		return m, nil
	}

	var cmd tea.Cmd
	m.goalsList, cmd = m.goalsList.Update(msg)
	return m, cmd
}

func (m appModel) updateTagsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.tagsList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.tagsList, cmd = m.tagsList.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "q", "esc":
		m.view = viewGoals
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	case "n":
		m.openModal(modalNewTag, "New tag", "")
		return m, nil
	case "r":
		if it, ok := m.tagsList.SelectedItem().(tagItem); ok {
			m.modalFor = dnd.ItemHandle{ID: it.tag.ID}
			m.openModal(modalRenameTag, "Rename tag", it.tag.Name)
		}
		return m, nil
	case "d":
		if it, ok := m.tagsList.SelectedItem().(tagItem); ok {
			m.db.DeleteTag(it.tag.ID)
			m.persist()
			m.refreshTags()
			m.refreshGoals()
			return m, m.notify("deleted #%s", it.tag.Name)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.tagsList, cmd = m.tagsList.Update(msg)
	return m, cmd
}

func (m *appModel) openModal(kind modalKind, prompt, initial string) {
	m.modal = kind
	m.input.Prompt = prompt + ": "
	m.input.SetValue(initial)
	m.input.CursorEnd()
	m.input.Focus()
}

func (m *appModel) closeModal() {
	m.modal = modalNone
	m.modalFor = dnd.ItemHandle{}
	m.input.Blur()
	m.input.SetValue("")
	m.edit.End()
}

func (m appModel) updateModalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		// Cancel must leave every collection untouched, including a pending
		// fold-into-template.
		m.pendingFold = dnd.Payload{}
		m.closeModal()
		return m, nil
	case "enter":
		return m.confirmModal()
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m appModel) confirmModal() (tea.Model, tea.Cmd) {
	value := strings.TrimSpace(m.input.Value())
	kind := m.modal
	target := m.modalFor
	m.closeModal()

	switch kind {
	case modalNewGoal:
		if value == "" {
			return m, nil
		}
		g := model.Goal{
			ID:        store.NewRandomID("goal"),
			Title:     value,
			CreatedAt: m.engine.Now(),
			UpdatedAt: m.engine.Now(),
		}
		m.db.Goals = append(m.db.Goals, g)
		m.persist()
		m.refreshGoals()
		return m, m.notify("added %q", value)

	case modalNewStep:
		if value == "" {
			return m, nil
		}
		steps := append(m.steps(), model.Step{
			ID:          m.engine.NewID("step"),
			GoalID:      m.goalID,
			Description: value,
		})
		m.db.SetStepsForGoal(m.goalID, m.engine.RestampSteps(steps))
		m.persist()
		return m, nil

	case modalNewArchiveItem:
		if value == "" {
			return m, nil
		}
		for _, a := range m.db.Archive {
			if a.Description == value {
				return m, m.notify("already archived")
			}
		}
		m.db.SetArchive(append(m.db.Archive, model.ArchiveItem{
			ID:          m.engine.NewID("arch"),
			Description: value,
		}))
		m.persist()
		return m, nil

	case modalTemplateName:
		pending := m.pendingFold
		m.pendingFold = dnd.Payload{}
		res := m.engine.FoldIntoSet(m.sources(), pending, value)
		return m, m.applyResult(res, "saved template %q", value)

	case modalRename:
		return m, m.renameTarget(target, value)

	case modalNewTag:
		if value == "" {
			return m, nil
		}
		if _, ok := m.db.FindTag(value); ok {
			return m, m.notify("tag exists")
		}
		m.db.Tags = append(m.db.Tags, model.Tag{
			ID:        store.NewRandomID("tag"),
			Name:      value,
			CreatedAt: m.engine.Now(),
		})
		m.persist()
		m.refreshTags()
		return m, nil

	case modalRenameTag:
		if value == "" {
			return m, nil
		}
		for i := range m.db.Tags {
			if m.db.Tags[i].ID == target.ID {
				old := m.db.Tags[i].Name
				m.db.Tags[i].Name = value
				for gi := range m.db.Goals {
					for ti, tag := range m.db.Goals[gi].Tags {
						if tag == old {
							m.db.Goals[gi].Tags[ti] = value
						}
					}
				}
			}
		}
		m.persist()
		m.refreshTags()
		m.refreshGoals()
		return m, nil
	}
	return m, nil
}

// renameTarget applies a confirmed rename to whatever the modal was opened
// for: a goal (from the goals view) or an item in one of the editor panels.
func (m *appModel) renameTarget(target dnd.ItemHandle, value string) tea.Cmd {
	if value == "" || target.ID == "" {
		return nil
	}

	if m.view == viewGoals {
		for i := range m.db.Goals {
			if m.db.Goals[i].ID == target.ID {
				m.db.Goals[i].Title = value
				m.db.Goals[i].UpdatedAt = m.engine.Now()
			}
		}
		m.persist()
		m.refreshGoals()
		return nil
	}

	switch target.Collection {
	case dnd.CollectionSteps:
		steps := m.steps()
		for i := range steps {
			if steps[i].ID == target.ID {
				steps[i].Description = value
			}
		}
		m.db.SetStepsForGoal(m.goalID, steps)
	case dnd.CollectionArchive:
		// The archive is deduplicated by description; a rename that collides
		// with an existing entry is refused rather than silently merged.
		for _, a := range m.db.Archive {
			if a.ID != target.ID && a.Description == value {
				return m.notify("already archived")
			}
		}
		for i := range m.db.Archive {
			if m.db.Archive[i].ID == target.ID {
				m.db.Archive[i].Description = value
			}
		}
	case dnd.CollectionSets:
		for i := range m.db.Sets {
			if m.db.Sets[i].ID == target.ID {
				m.db.Sets[i].Name = value
			}
		}
	}
	m.persist()
	return nil
}
