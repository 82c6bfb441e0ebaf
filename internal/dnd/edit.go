package dnd

// InlineEdit tracks which item (if any) is mid-rename. A renaming item keeps
// its row but must not be draggable while the editor is open.
type InlineEdit struct {
	active bool
	item   ItemHandle
}

func (e *InlineEdit) Begin(item ItemHandle) {
	e.active = true
	e.item = item
}

func (e *InlineEdit) End() {
	e.active = false
	e.item = ItemHandle{}
}

func (e InlineEdit) Editing() bool { return e.active }

// Item returns the handle under edit (zero value when inactive).
func (e InlineEdit) Item() ItemHandle { return e.item }

// Draggable reports whether the given item may start a drag.
func (e InlineEdit) Draggable(item ItemHandle) bool {
	return !(e.active && e.item == item)
}
