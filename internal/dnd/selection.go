package dnd

import "strings"

// Selection tracks which items are selected in each of the three
// collections, plus the last-selected id per collection (the range-selection
// anchor).
//
// Selection sets must stay subsets of the ids that currently exist in their
// collection: callers replace collections wholesale, so Prune must run after
// every replacement and before any read of selection state.
type Selection struct {
	ids  map[Collection]map[string]struct{}
	last map[Collection]string
}

func NewSelection() *Selection {
	return &Selection{
		ids:  map[Collection]map[string]struct{}{},
		last: map[Collection]string{},
	}
}

// Toggle flips membership of id and records it as the range anchor.
// Malformed (empty) ids are ignored.
func (s *Selection) Toggle(c Collection, id string) {
	id = strings.TrimSpace(id)
	if id == "" {
		return
	}
	set := s.ids[c]
	if set == nil {
		set = map[string]struct{}{}
		s.ids[c] = set
	}
	if _, ok := set[id]; ok {
		delete(set, id)
	} else {
		set[id] = struct{}{}
	}
	s.last[c] = id
}

// RangeSelect selects the contiguous slice of orderedIDs between anchorID
// and targetID, inclusive of both ends regardless of direction, replacing
// the previous selection for that collection.
//
// anchorID must be the current last-selected id for the collection and both
// ids must exist in orderedIDs; otherwise this degrades to a plain Toggle of
// targetID. The anchor is kept so repeated shift-clicks extend from the same
// end.
func (s *Selection) RangeSelect(c Collection, anchorID, targetID string, orderedIDs []string) {
	anchorID = strings.TrimSpace(anchorID)
	targetID = strings.TrimSpace(targetID)
	if targetID == "" {
		return
	}
	ai, ti := -1, -1
	for i, id := range orderedIDs {
		if id == anchorID {
			ai = i
		}
		if id == targetID {
			ti = i
		}
	}
	if anchorID == "" || anchorID != s.last[c] || ai < 0 || ti < 0 {
		s.Toggle(c, targetID)
		return
	}
	lo, hi := ai, ti
	if lo > hi {
		lo, hi = hi, lo
	}
	set := map[string]struct{}{}
	for _, id := range orderedIDs[lo : hi+1] {
		set[id] = struct{}{}
	}
	s.ids[c] = set
	s.last[c] = anchorID
}

// ForceSelect adds id without removing others. Used by long-press.
func (s *Selection) ForceSelect(c Collection, id string) {
	id = strings.TrimSpace(id)
	if id == "" {
		return
	}
	set := s.ids[c]
	if set == nil {
		set = map[string]struct{}{}
		s.ids[c] = set
	}
	set[id] = struct{}{}
	s.last[c] = id
}

// Replace drops the collection's selection and selects exactly the given ids.
func (s *Selection) Replace(c Collection, ids ...string) {
	set := map[string]struct{}{}
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id != "" {
			set[id] = struct{}{}
		}
	}
	s.ids[c] = set
}

// ClearAll empties all three sets and all anchors.
func (s *Selection) ClearAll() {
	s.ids = map[Collection]map[string]struct{}{}
	s.last = map[Collection]string{}
}

// Prune removes selected ids that are no longer present in validIDs.
// The anchor is dropped too when its item disappeared.
func (s *Selection) Prune(c Collection, validIDs []string) {
	set := s.ids[c]
	if len(set) == 0 && s.last[c] == "" {
		return
	}
	valid := make(map[string]struct{}, len(validIDs))
	for _, id := range validIDs {
		valid[id] = struct{}{}
	}
	for id := range set {
		if _, ok := valid[id]; !ok {
			delete(set, id)
		}
	}
	if _, ok := valid[s.last[c]]; !ok {
		delete(s.last, c)
	}
}

// Anchor returns the last-selected id for the collection ("" if none).
func (s *Selection) Anchor(c Collection) string { return s.last[c] }

func (s *Selection) Has(c Collection, id string) bool {
	_, ok := s.ids[c][id]
	return ok
}

func (s *Selection) CountIn(c Collection) int { return len(s.ids[c]) }

func (s *Selection) Count() int {
	n := 0
	for _, set := range s.ids {
		n += len(set)
	}
	return n
}

// Active reports selection mode: true iff any of the three sets is
// non-empty. While active, per-item taps toggle selection instead of
// performing the item's default action.
func (s *Selection) Active() bool { return s.Count() > 0 }

// IDs returns the selected ids of a collection in the order of orderedIDs.
// Ids missing from orderedIDs are omitted (they are stale and due a Prune).
func (s *Selection) IDs(c Collection, orderedIDs []string) []string {
	set := s.ids[c]
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for _, id := range orderedIDs {
		if _, ok := set[id]; ok {
			out = append(out, id)
		}
	}
	return out
}
