package tui

import (
	"fmt"
	"io"
	"strings"

	"stride-cli/internal/model"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

type goalItem struct {
	goal model.Goal
	done int
	all  int
}

func (g goalItem) Title() string {
	title := g.goal.Title
	if g.all > 0 {
		title += fmt.Sprintf("  (%d/%d)", g.done, g.all)
	}
	if len(g.goal.Tags) > 0 {
		title += "  #" + strings.Join(g.goal.Tags, " #")
	}
	return title
}

func (g goalItem) FilterValue() string { return g.goal.Title }

type tagItem struct {
	tag  model.Tag
	uses int
}

func (t tagItem) Title() string {
	return fmt.Sprintf("#%s  (%d)", t.tag.Name, t.uses)
}

func (t tagItem) FilterValue() string { return t.tag.Name }

type compactItemDelegate struct {
	normal   lipgloss.Style
	selected lipgloss.Style
}

func newCompactItemDelegate() compactItemDelegate {
	return compactItemDelegate{
		normal: lipgloss.NewStyle(),
		selected: lipgloss.NewStyle().
			Foreground(colorSelectedFg).
			Background(colorSelectedBg).
			Bold(true),
	}
}

func (d compactItemDelegate) Height() int  { return 1 }
func (d compactItemDelegate) Spacing() int { return 0 }
func (d compactItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d compactItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	contentW := m.Width()
	if contentW < 4 {
		fmt.Fprint(w, "")
		return
	}

	style := d.normal
	if index == m.Index() {
		style = d.selected
	}

	txt := ""
	if t, ok := item.(interface{ Title() string }); ok {
		txt = t.Title()
	} else {
		txt = fmt.Sprint(item)
	}

	line := txt
	lineW := xansi.StringWidth(line)
	if lineW < contentW {
		line += strings.Repeat(" ", contentW-lineW)
	} else if lineW > contentW {
		line = xansi.Cut(line, 0, contentW)
	}

	fmt.Fprint(w, style.Render(line))
}

func newCompactList(title string) list.Model {
	l := list.New(nil, newCompactItemDelegate(), 0, 0)
	l.Title = title
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(true)
	l.DisableQuitKeybindings()
	l.Styles.Title = styleTitle
	return l
}
