package dnd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"stride-cli/internal/model"
)

// ItemRef is a payload reference to a step or archive item: just enough to
// re-create the item in any destination collection.
type ItemRef struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

// SetRef is a payload reference to a whole template set.
type SetRef struct {
	ID    string    `json:"id"`
	Name  string    `json:"name"`
	Steps []ItemRef `json:"steps"`
}

// Payload is the immutable snapshot of the items being dragged, grouped by
// source collection. It is a deep copy taken at drag start: later mutation
// of the source collections must not change it.
type Payload struct {
	Steps   []ItemRef `json:"steps,omitempty"`
	Archive []ItemRef `json:"archive,omitempty"`
	Sets    []SetRef  `json:"sets,omitempty"`
}

// Sources bundles the three collections as the host currently renders them.
type Sources struct {
	Steps   []model.Step
	Archive []model.ArchiveItem
	Sets    []model.TemplateSet
}

// BuildPayload snapshots the dragged items at the moment a drag gesture is
// recognized.
//
// If the grabbed item is not currently selected, the selection collapses to
// just that item (replaced, not merged) before the snapshot: dragging an
// unselected item always drags only that item. Items within each group keep
// the collection's current order, not selection order.
func BuildPayload(sel *Selection, grab ItemHandle, src Sources) Payload {
	if !sel.Has(grab.Collection, grab.ID) {
		sel.ClearAll()
		sel.Toggle(grab.Collection, grab.ID)
	}

	var p Payload
	for _, st := range src.Steps {
		if sel.Has(CollectionSteps, st.ID) {
			p.Steps = append(p.Steps, ItemRef{ID: st.ID, Description: st.Description})
		}
	}
	for _, a := range src.Archive {
		if sel.Has(CollectionArchive, a.ID) {
			p.Archive = append(p.Archive, ItemRef{ID: a.ID, Description: a.Description})
		}
	}
	for _, ts := range src.Sets {
		if sel.Has(CollectionSets, ts.ID) {
			ref := SetRef{ID: ts.ID, Name: ts.Name}
			for _, sub := range ts.Steps {
				ref.Steps = append(ref.Steps, ItemRef{ID: sub.ID, Description: sub.Description})
			}
			p.Sets = append(p.Sets, ref)
		}
	}
	return p
}

func (p Payload) Empty() bool {
	return len(p.Steps) == 0 && len(p.Archive) == 0 && len(p.Sets) == 0
}

// Count returns the number of top-level dragged items.
func (p Payload) Count() int {
	return len(p.Steps) + len(p.Archive) + len(p.Sets)
}

// Contains reports whether the item is part of the drag. Hosts use this to
// render payload members ghosted (present but inert) while a drag is active.
func (p Payload) Contains(c Collection, id string) bool {
	switch c {
	case CollectionSteps:
		for _, r := range p.Steps {
			if r.ID == id {
				return true
			}
		}
	case CollectionArchive:
		for _, r := range p.Archive {
			if r.ID == id {
				return true
			}
		}
	case CollectionSets:
		for _, r := range p.Sets {
			if r.ID == id {
				return true
			}
		}
	}
	return false
}

// wireGroup is the serialized form: a tagged union, one entry per non-empty
// group. Decoding validates the tag and the item shape and rejects anything
// unexpected, so a corrupted payload aborts the drop instead of committing
// garbage.
type wireGroup struct {
	Kind  string          `json:"kind"`
	Items json.RawMessage `json:"items"`
}

// Encode serializes the payload for transports that need a flat byte string
// (the native drag data channel).
func (p Payload) Encode() ([]byte, error) {
	var groups []wireGroup
	add := func(kind string, v any) error {
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		groups = append(groups, wireGroup{Kind: kind, Items: b})
		return nil
	}
	if len(p.Steps) > 0 {
		if err := add("steps", p.Steps); err != nil {
			return nil, err
		}
	}
	if len(p.Archive) > 0 {
		if err := add("archive", p.Archive); err != nil {
			return nil, err
		}
	}
	if len(p.Sets) > 0 {
		if err := add("sets", p.Sets); err != nil {
			return nil, err
		}
	}
	return json.Marshal(groups)
}

// DecodePayload parses a serialized payload. Any shape mismatch returns an
// error; callers treat that as a silent no-op, never a partial commit.
func DecodePayload(b []byte) (Payload, error) {
	var groups []wireGroup
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&groups); err != nil {
		return Payload{}, fmt.Errorf("drag payload: %w", err)
	}
	var p Payload
	seen := map[string]bool{}
	for _, g := range groups {
		if seen[g.Kind] {
			return Payload{}, fmt.Errorf("drag payload: duplicate group %q", g.Kind)
		}
		seen[g.Kind] = true
		switch g.Kind {
		case "steps":
			if err := json.Unmarshal(g.Items, &p.Steps); err != nil {
				return Payload{}, fmt.Errorf("drag payload steps: %w", err)
			}
		case "archive":
			if err := json.Unmarshal(g.Items, &p.Archive); err != nil {
				return Payload{}, fmt.Errorf("drag payload archive: %w", err)
			}
		case "sets":
			if err := json.Unmarshal(g.Items, &p.Sets); err != nil {
				return Payload{}, fmt.Errorf("drag payload sets: %w", err)
			}
		default:
			return Payload{}, fmt.Errorf("drag payload: unknown group %q", g.Kind)
		}
	}
	for _, r := range append(append([]ItemRef{}, p.Steps...), p.Archive...) {
		if r.ID == "" {
			return Payload{}, errors.New("drag payload: item without id")
		}
	}
	for _, s := range p.Sets {
		if s.ID == "" {
			return Payload{}, errors.New("drag payload: set without id")
		}
	}
	return p, nil
}
