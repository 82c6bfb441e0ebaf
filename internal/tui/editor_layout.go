package tui

import "stride-cli/internal/dnd"

// Editor screen layout, kept as pure math so mouse hit-testing and the
// drop-geometry inputs are testable without a terminal.
//
// Row map:
//
//	0             header
//	1             (blank)
//	2             panel titles
//	3             title underline
//	4 ..          item rows (one line each)
//	height-2      status / minibuffer
//	height-1      key help
const (
	editorTopY = 4
	panelGap   = 2
	panelCount = 3
)

// editorLayout mirrors exactly what the editor view renders. counts hold the
// full collection lengths (ghosted rows included); scroll is the first
// visible full-list index per panel.
type editorLayout struct {
	width  int
	height int
	scroll [panelCount]int
	counts [panelCount]int
}

func (l editorLayout) panelWidth() int {
	w := (l.width - panelGap*(panelCount-1)) / panelCount
	if w < 10 {
		w = 10
	}
	return w
}

func (l editorLayout) panelX(p int) int {
	return p * (l.panelWidth() + panelGap)
}

// visibleRows is how many item lines fit between the panel header and the
// status line.
func (l editorLayout) visibleRows() int {
	n := l.height - editorTopY - 2
	if n < 1 {
		n = 1
	}
	return n
}

// panelAt maps an x coordinate to the panel under it.
func (l editorLayout) panelAt(x int) (dnd.Collection, bool) {
	pw := l.panelWidth()
	for p := 0; p < panelCount; p++ {
		x0 := l.panelX(p)
		if x >= x0 && x < x0+pw {
			return dnd.Collection(p), true
		}
	}
	return 0, false
}

// rowAt maps a y coordinate inside a panel to a full-list index.
func (l editorLayout) rowAt(c dnd.Collection, y int) (int, bool) {
	if y < editorTopY || y >= editorTopY+l.visibleRows() {
		return 0, false
	}
	idx := l.scroll[c] + (y - editorTopY)
	if idx < 0 || idx >= l.counts[c] {
		return 0, false
	}
	return idx, true
}

// rowY is the inverse of rowAt: the screen line of a full-list index, if
// currently visible.
func (l editorLayout) rowY(c dnd.Collection, idx int) (int, bool) {
	rel := idx - l.scroll[c]
	if rel < 0 || rel >= l.visibleRows() {
		return 0, false
	}
	return editorTopY + rel, true
}

// siblings builds the drop-geometry input for a panel: every visible row
// that is not part of the drag, with its full-list index and vertical
// center (rows are one line tall, so the center is the row line itself).
func (l editorLayout) siblings(c dnd.Collection, p dnd.Payload, ids []string) []dnd.Sibling {
	var out []dnd.Sibling
	for idx, id := range ids {
		if p.Contains(c, id) {
			continue
		}
		if y, ok := l.rowY(c, idx); ok {
			out = append(out, dnd.Sibling{Index: idx, CenterY: y})
		}
	}
	return out
}

// clampScroll keeps the cursor row visible.
func (l *editorLayout) clampScroll(c dnd.Collection, cursor int) {
	vis := l.visibleRows()
	if cursor < l.scroll[c] {
		l.scroll[c] = cursor
	}
	if cursor >= l.scroll[c]+vis {
		l.scroll[c] = cursor - vis + 1
	}
	if l.scroll[c] < 0 {
		l.scroll[c] = 0
	}
}
