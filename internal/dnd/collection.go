// Package dnd implements the multi-source drag-and-drop reorganization and
// selection engine behind the steps editor: selection across the three step
// collections (current steps, archive, template sets), drag payload
// snapshots, drop-target resolution, commit math, and the synthetic
// press/long-press/drag state machine.
//
// The package is pure: it never touches the terminal or the store. Hosts
// adapt layout measurements into the geometry inputs and apply the proposed
// collection replacements through their own setters.
package dnd

// Collection identifies one of the three sibling ordered collections of an
// editing session.
type Collection int

const (
	CollectionSteps Collection = iota
	CollectionArchive
	CollectionSets
)

func (c Collection) String() string {
	switch c {
	case CollectionSteps:
		return "steps"
	case CollectionArchive:
		return "archive"
	case CollectionSets:
		return "sets"
	default:
		return "unknown"
	}
}

// ParseCollection maps a wire kind back to a Collection.
func ParseCollection(s string) (Collection, bool) {
	switch s {
	case "steps":
		return CollectionSteps, true
	case "archive":
		return CollectionArchive, true
	case "sets":
		return CollectionSets, true
	default:
		return 0, false
	}
}

// ItemHandle names a single item by collection and id.
type ItemHandle struct {
	Collection Collection
	ID         string
}
