package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
)

func (m appModel) View() string {
	switch m.view {
	case viewGoals:
		return m.goalsView()
	case viewEditor:
		return m.editorView()
	case viewTags:
		return m.tagsView()
	case viewNotes:
		return m.notesView()
	case viewHelp:
		return m.helpView()
	}
	return ""
}

func (m appModel) goalsView() string {
	var b strings.Builder
	b.WriteString(m.goalsList.View())
	b.WriteString("\n")
	if m.modal != modalNone {
		b.WriteString(padLine(m.input.View(), m.width))
	} else if m.minibuffer != "" {
		b.WriteString(padLine(m.minibuffer, m.width))
	} else {
		b.WriteString(padLine(styleMuted.Render("enter: open  n: new  r: rename  d: delete  t: tags  ?: help  q: quit"), m.width))
	}
	return b.String()
}

func (m appModel) tagsView() string {
	var b strings.Builder
	b.WriteString(m.tagsList.View())
	b.WriteString("\n")
	if m.modal != modalNone {
		b.WriteString(padLine(m.input.View(), m.width))
	} else if m.minibuffer != "" {
		b.WriteString(padLine(m.minibuffer, m.width))
	} else {
		b.WriteString(padLine(styleMuted.Render("n: new  r: rename  d: delete  esc: back"), m.width))
	}
	return b.String()
}

const helpText = `# stride

Track goals as ordered steps, with a shared archive of things you do
again and reusable template sets.

## Panels

| key | action |
|-----|--------|
| tab | cycle panel focus |
| j/k | move cursor |
| space | select / deselect |
| shift+click, shift+up/down | range select |
| ctrl+click | toggle selection |
| long press | add to selection |
| J/K | move item(s) up/down |
| x / enter | toggle done (steps) |
| a | archive selected |
| u | unarchive (archive panel) |
| t | save selection as template |
| p / enter | apply template (templates panel) |
| n | new item in focused panel |
| r / double-click | rename |
| d | delete selected |
| o | goal notes |

Drag with the mouse to reorder or move items between panels. Dropping
steps on the Templates panel saves them as a new template set.
`

func (m appModel) notesView() string {
	goal, ok := m.db.FindGoal(m.goalID)
	if !ok {
		return styleMuted.Render("no goal open")
	}
	body := goal.Notes
	if strings.TrimSpace(body) == "" {
		body = "*no notes*"
	}
	return styleHeader.Render(goal.Title) + "\n\n" +
		renderMarkdown(body, m.width-2) + "\n\n" +
		styleMuted.Render("press any key to go back")
}

func (m appModel) helpView() string {
	return renderMarkdown(helpText, m.width-2) + "\n\n" +
		styleMuted.Render("press any key to go back")
}

func (m *appModel) refreshGoals() {
	items := make([]list.Item, 0, len(m.db.Goals))
	for _, g := range m.db.Goals {
		if g.Archived {
			continue
		}
		done, all := 0, 0
		for _, s := range m.db.StepsForGoal(g.ID) {
			all++
			if s.Completed {
				done++
			}
		}
		items = append(items, goalItem{goal: g, done: done, all: all})
	}
	m.goalsList.SetItems(items)
	m.goalsList.Title = fmt.Sprintf("Goals — %s", m.workspace)
}

func (m *appModel) refreshTags() {
	items := make([]list.Item, 0, len(m.db.Tags))
	for _, t := range m.db.Tags {
		uses := 0
		for _, g := range m.db.Goals {
			for _, name := range g.Tags {
				if name == t.Name {
					uses++
				}
			}
		}
		items = append(items, tagItem{tag: t, uses: uses})
	}
	m.tagsList.SetItems(items)
}
