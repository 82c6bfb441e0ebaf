package tui

import (
	"fmt"
	"strings"

	"stride-cli/internal/dnd"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

var panelTitles = [panelCount]string{"Steps", "Archive", "Templates"}

func (m appModel) editorView() string {
	m.syncLayout()
	pw := m.layout.panelWidth()

	var b strings.Builder

	title := "(no goal)"
	if goal, ok := m.db.FindGoal(m.goalID); ok {
		title = goal.Title
	}
	done, all := 0, 0
	for _, s := range m.steps() {
		all++
		if s.Completed {
			done++
		}
	}
	header := styleHeader.Render(title) +
		styleMuted.Render(fmt.Sprintf("  %d/%d done  ·  %s", done, all, m.workspace))
	b.WriteString(padLine(header, m.width))
	b.WriteString("\n\n")

	// Panel title row; the fold target glows when a drop would create a
	// template.
	var titles [panelCount]string
	for p := 0; p < panelCount; p++ {
		c := dnd.Collection(p)
		st := styleTitle
		if c == m.focus {
			st = styleFocusT
		}
		if m.dragging && m.haveTarget && m.target.Panel == c && m.target.Kind == dnd.DropFold {
			st = styleMarker
		}
		label := fmt.Sprintf("%s (%d)", panelTitles[p], m.collectionLen(c))
		titles[p] = padLine(st.Render(label), pw)
	}
	b.WriteString(joinPanels(titles, pw))
	b.WriteString("\n")

	var rules [panelCount]string
	for p := 0; p < panelCount; p++ {
		rules[p] = styleMuted.Render(strings.Repeat("─", pw))
	}
	b.WriteString(joinPanels(rules, pw))
	b.WriteString("\n")

	panels := [panelCount][]string{
		m.renderSteps(pw),
		m.renderArchive(pw),
		m.renderSets(pw),
	}
	for row := 0; row < m.layout.visibleRows(); row++ {
		var cells [panelCount]string
		for p := 0; p < panelCount; p++ {
			if row < len(panels[p]) {
				cells[p] = panels[p][row]
			} else {
				cells[p] = strings.Repeat(" ", pw)
			}
		}
		b.WriteString(joinPanels(cells, pw))
		b.WriteString("\n")
	}

	b.WriteString(padLine(m.statusLine(), m.width))
	b.WriteString("\n")
	b.WriteString(padLine(styleMuted.Render(m.helpLine()), m.width))
	return b.String()
}

func (m appModel) statusLine() string {
	if m.modal != modalNone {
		return m.input.View()
	}
	if m.dragging {
		verb := "insert"
		if m.haveTarget && m.target.Kind == dnd.DropFold {
			verb = "fold into a new template"
		}
		return styleMarker.Render(fmt.Sprintf("dragging %d item(s) — release to %s, esc to cancel", m.payload.Count(), verb))
	}
	if m.minibuffer != "" {
		return m.minibuffer
	}
	if n := m.sel.Count(); n > 0 {
		return styleMuted.Render(fmt.Sprintf("%d selected", n))
	}
	return ""
}

func (m appModel) helpLine() string {
	switch m.focus {
	case dnd.CollectionArchive:
		return "tab: panel  space: select  J/K: move  u: unarchive  n: new  r: rename  d: delete  q: back"
	case dnd.CollectionSets:
		return "tab: panel  space: select  J/K: move  enter: apply  r: rename  d: delete  q: back"
	default:
		return "tab: panel  space: select  J/K: move  x: done  a: archive  t: template  o: notes  q: back"
	}
}

// rowPrefix builds the two-cell gutter: insertion marker, cursor, selection.
func (m appModel) rowPrefix(c dnd.Collection, idx int) (string, bool) {
	atTarget := m.dragging && m.haveTarget &&
		m.target.Panel == c && m.target.Kind == dnd.DropInsert && m.target.Index == idx
	cur := c == m.focus && idx == m.cursor[c]
	switch {
	case atTarget:
		return styleMarker.Render("▸ "), cur
	case m.sel.Has(c, m.orderedIDs(c)[idx]):
		return styleMarker.Render("┃ "), cur
	case cur:
		return styleCursor.Render("› "), cur
	default:
		return "  ", cur
	}
}

func (m appModel) rowLine(c dnd.Collection, idx int, body string, pw int) string {
	prefix, cur := m.rowPrefix(c, idx)
	id := m.orderedIDs(c)[idx]

	st := lipgloss.NewStyle()
	switch {
	case m.dragging && m.payload.Contains(c, id):
		st = styleGhost
	case m.sel.Has(c, id):
		st = styleRowSel
	case cur:
		st = styleCursor
	}
	return prefix + fitLine(st.Render(body), pw-2)
}

func (m appModel) renderSteps(pw int) []string {
	steps := m.steps()
	var out []string
	for row := 0; row < m.layout.visibleRows(); row++ {
		idx := m.layout.scroll[dnd.CollectionSteps] + row
		if idx >= len(steps) {
			out = append(out, m.trailingMarker(dnd.CollectionSteps, idx, pw))
			break
		}
		s := steps[idx]
		box := "[ ] "
		body := box + s.Description
		if s.Completed {
			body = styleDone.Render("[x] ") + s.Description
		}
		out = append(out, m.rowLine(dnd.CollectionSteps, idx, body, pw))
	}
	return out
}

func (m appModel) renderArchive(pw int) []string {
	var out []string
	for row := 0; row < m.layout.visibleRows(); row++ {
		idx := m.layout.scroll[dnd.CollectionArchive] + row
		if idx >= len(m.db.Archive) {
			out = append(out, m.trailingMarker(dnd.CollectionArchive, idx, pw))
			break
		}
		out = append(out, m.rowLine(dnd.CollectionArchive, idx, m.db.Archive[idx].Description, pw))
	}
	return out
}

func (m appModel) renderSets(pw int) []string {
	var out []string
	for row := 0; row < m.layout.visibleRows(); row++ {
		idx := m.layout.scroll[dnd.CollectionSets] + row
		if idx >= len(m.db.Sets) {
			out = append(out, m.trailingMarker(dnd.CollectionSets, idx, pw))
			break
		}
		ts := m.db.Sets[idx]
		body := fmt.Sprintf("%s (%d)", ts.Name, len(ts.Steps))
		out = append(out, m.rowLine(dnd.CollectionSets, idx, body, pw))
	}
	return out
}

// trailingMarker draws the insertion indicator for a drop past the last row.
func (m appModel) trailingMarker(c dnd.Collection, idx int, pw int) string {
	if m.dragging && m.haveTarget &&
		m.target.Panel == c && m.target.Kind == dnd.DropInsert && m.target.Index == idx {
		return styleMarker.Render("▸ ") + strings.Repeat(" ", pw-2)
	}
	return strings.Repeat(" ", pw)
}

func joinPanels(cells [panelCount]string, pw int) string {
	gap := strings.Repeat(" ", panelGap)
	parts := make([]string, 0, panelCount)
	for p := 0; p < panelCount; p++ {
		parts = append(parts, fitLine(cells[p], pw))
	}
	return strings.Join(parts, gap)
}

// fitLine pads or truncates a styled line to exactly w display cells.
func fitLine(s string, w int) string {
	if w < 0 {
		w = 0
	}
	sw := xansi.StringWidth(s)
	if sw < w {
		return s + strings.Repeat(" ", w-sw)
	}
	if sw > w {
		return xansi.Cut(s, 0, w)
	}
	return s
}

func padLine(s string, w int) string {
	return fitLine(s, w)
}
