package dnd

// Sibling is one non-dragged row of a candidate panel, as measured by the
// host: its index in the full list (ghosted rows included) and the vertical
// center of its rendered box.
type Sibling struct {
	Index   int
	CenterY int
}

// DropIndex converts a pointer Y coordinate into an insertion index.
//
// Among the non-dragged siblings, it finds the one whose vertical center is
// closest below the pointer (offset = pointerY - centerY, smallest negative
// offset wins) and returns that sibling's index in the full list. If the
// pointer is below every remaining sibling, the index is fullLen.
//
// The returned index is therefore relative to final positions after the
// dragged items are removed only in the user's eye; the commit engine
// re-anchors it against the pre-removal array (see adjustDropIndex).
func DropIndex(pointerY int, siblings []Sibling, fullLen int) int {
	idx := fullLen
	best := 0
	found := false
	for _, s := range siblings {
		off := pointerY - s.CenterY
		if off >= 0 {
			continue
		}
		if !found || off > best {
			best = off
			idx = s.Index
			found = true
		}
	}
	return idx
}

// DropKind says what a release over a panel would do.
type DropKind int

const (
	// DropNone: the panel rejects this payload; no insertion marker.
	DropNone DropKind = iota
	// DropInsert: an index-based insert/reorder into the panel's collection.
	DropInsert
	// DropFold: fold the payload into a new named template set (copy
	// semantics, side channel, no index).
	DropFold
)

// Accepts resolves the cross-panel compatibility matrix:
//   - the steps panel takes all three groups (archive/set items become new
//     steps);
//   - the archive panel takes steps and set items (deduplicated) plus its own
//     reorders;
//   - the sets panel only reorders sets; a payload of purely steps/archive
//     items triggers fold-into-template instead.
func Accepts(panel Collection, p Payload) DropKind {
	if p.Empty() {
		return DropNone
	}
	switch panel {
	case CollectionSteps, CollectionArchive:
		return DropInsert
	case CollectionSets:
		if len(p.Sets) > 0 {
			return DropInsert
		}
		return DropFold
	default:
		return DropNone
	}
}

// Target is a resolved drop location.
type Target struct {
	Panel Collection
	Kind  DropKind
	Index int // meaningful only for DropInsert
}

// ResolveTarget combines Accepts and DropIndex. ok=false means the panel is
// not a valid target for this payload and the indicator should be cleared.
func ResolveTarget(panel Collection, p Payload, pointerY int, siblings []Sibling, fullLen int) (Target, bool) {
	switch Accepts(panel, p) {
	case DropInsert:
		return Target{Panel: panel, Kind: DropInsert, Index: DropIndex(pointerY, siblings, fullLen)}, true
	case DropFold:
		return Target{Panel: panel, Kind: DropFold}, true
	default:
		return Target{}, false
	}
}
