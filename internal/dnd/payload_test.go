package dnd

import (
	"reflect"
	"testing"

	"stride-cli/internal/model"
)

func testSources() Sources {
	return Sources{
		Steps: []model.Step{
			{ID: "a", Description: "Buy milk", Timestamp: 1},
			{ID: "b", Description: "Walk dog", Timestamp: 2},
			{ID: "c", Description: "Read book", Completed: true, Timestamp: 3},
		},
		Archive: []model.ArchiveItem{
			{ID: "r1", Description: "Stretch"},
			{ID: "r2", Description: "Buy milk"},
		},
		Sets: []model.TemplateSet{
			{ID: "t1", Name: "Morning", Steps: []model.SubStep{
				{ID: "m1", Description: "Wake up"},
				{ID: "m2", Description: "Coffee"},
			}},
		},
	}
}

func TestBuildPayloadCollapsesToUnselectedGrab(t *testing.T) {
	sel := NewSelection()
	sel.Toggle(CollectionSteps, "a")
	sel.Toggle(CollectionArchive, "r1")

	// Grabbing an item outside the selection drags only that item and
	// replaces the selection.
	p := BuildPayload(sel, ItemHandle{CollectionSteps, "b"}, testSources())
	if len(p.Steps) != 1 || p.Steps[0].ID != "b" {
		t.Fatalf("payload steps = %+v; want just b", p.Steps)
	}
	if len(p.Archive) != 0 || len(p.Sets) != 0 {
		t.Fatalf("payload must not carry the replaced selection: %+v", p)
	}
	if sel.Has(CollectionArchive, "r1") || sel.Has(CollectionSteps, "a") {
		t.Fatalf("selection must be replaced, not merged")
	}
	if !sel.Has(CollectionSteps, "b") {
		t.Fatalf("grabbed item must be selected")
	}
}

func TestBuildPayloadPreservesCollectionOrder(t *testing.T) {
	sel := NewSelection()
	// Select in reverse order; payload must follow collection order.
	sel.Toggle(CollectionSteps, "c")
	sel.ForceSelect(CollectionSteps, "a")

	p := BuildPayload(sel, ItemHandle{CollectionSteps, "a"}, testSources())
	got := []string{p.Steps[0].ID, p.Steps[1].ID}
	if !reflect.DeepEqual(got, []string{"a", "c"}) {
		t.Fatalf("payload order = %v; want collection order [a c]", got)
	}
}

func TestBuildPayloadIsASnapshot(t *testing.T) {
	src := testSources()
	sel := NewSelection()
	sel.Toggle(CollectionSets, "t1")
	p := BuildPayload(sel, ItemHandle{CollectionSets, "t1"}, src)

	// Mutate the source after the drag started.
	src.Sets[0].Name = "Changed"
	src.Sets[0].Steps[0].Description = "Changed"

	if p.Sets[0].Name != "Morning" || p.Sets[0].Steps[0].Description != "Wake up" {
		t.Fatalf("payload must be a deep copy, got %+v", p.Sets[0])
	}
}

func TestPayloadContains(t *testing.T) {
	sel := NewSelection()
	sel.Toggle(CollectionSteps, "a")
	p := BuildPayload(sel, ItemHandle{CollectionSteps, "a"}, testSources())
	if !p.Contains(CollectionSteps, "a") {
		t.Fatalf("expected ghost membership for a")
	}
	if p.Contains(CollectionSteps, "b") || p.Contains(CollectionArchive, "a") {
		t.Fatalf("ghost membership must be per collection and id")
	}
}

func TestPayloadEncodeDecodeRoundTrip(t *testing.T) {
	sel := NewSelection()
	sel.Toggle(CollectionSteps, "a")
	sel.ForceSelect(CollectionSteps, "b")
	sel.ForceSelect(CollectionArchive, "r2")
	sel.ForceSelect(CollectionSets, "t1")
	p := BuildPayload(sel, ItemHandle{CollectionSteps, "a"}, testSources())

	b, err := p.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := DecodePayload(b)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(got, p) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, p)
	}
}

func TestDecodePayloadRejectsMalformedShapes(t *testing.T) {
	cases := []struct {
		name string
		in   string
	}{
		{"not json", `{{{`},
		{"wrong root", `{"steps": []}`},
		{"unknown kind", `[{"kind":"bogus","items":[]}]`},
		{"unknown field", `[{"kind":"steps","items":[],"extra":1}]`},
		{"duplicate group", `[{"kind":"steps","items":[]},{"kind":"steps","items":[]}]`},
		{"item without id", `[{"kind":"steps","items":[{"description":"x"}]}]`},
		{"set without id", `[{"kind":"sets","items":[{"name":"x","steps":[]}]}]`},
		{"wrong item shape", `[{"kind":"archive","items":[1,2,3]}]`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := DecodePayload([]byte(tc.in)); err == nil {
				t.Fatalf("expected decode error for %s", tc.in)
			}
		})
	}
}
