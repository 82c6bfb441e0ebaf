package dnd

import "testing"

func TestDropIndexPicksClosestSiblingBelowPointer(t *testing.T) {
	// Rows rendered at centers 10, 20, 30, 40 (full indices 0..3).
	sibs := []Sibling{{0, 10}, {1, 20}, {2, 30}, {3, 40}}

	cases := []struct {
		name     string
		pointerY int
		want     int
	}{
		{"above everything", 0, 0},
		{"between first and second", 15, 1},
		{"exactly on a center targets the next slot", 20, 2},
		{"between third and fourth", 35, 3},
		{"below everything", 99, 4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DropIndex(tc.pointerY, sibs, 4); got != tc.want {
				t.Fatalf("DropIndex(%d) = %d; want %d", tc.pointerY, got, tc.want)
			}
		})
	}
}

func TestDropIndexSkipsGhostedRows(t *testing.T) {
	// Full list has 5 rows; rows 1 and 2 are being dragged, so only rows
	// 0, 3, 4 are siblings. Indices stay in full-list coordinates.
	sibs := []Sibling{{0, 10}, {3, 40}, {4, 50}}
	if got := DropIndex(15, sibs, 5); got != 3 {
		t.Fatalf("DropIndex over ghost gap = %d; want 3", got)
	}
	if got := DropIndex(60, sibs, 5); got != 5 {
		t.Fatalf("DropIndex below all = %d; want full length 5", got)
	}
}

func TestDropIndexEmptyPanel(t *testing.T) {
	if got := DropIndex(12, nil, 0); got != 0 {
		t.Fatalf("DropIndex on empty panel = %d; want 0", got)
	}
}

func TestAcceptsMatrix(t *testing.T) {
	steps := Payload{Steps: []ItemRef{{ID: "a"}}}
	archive := Payload{Archive: []ItemRef{{ID: "r"}}}
	sets := Payload{Sets: []SetRef{{ID: "t"}}}
	mixed := Payload{Steps: []ItemRef{{ID: "a"}}, Sets: []SetRef{{ID: "t"}}}

	cases := []struct {
		name  string
		panel Collection
		p     Payload
		want  DropKind
	}{
		{"steps accepts steps", CollectionSteps, steps, DropInsert},
		{"steps accepts archive", CollectionSteps, archive, DropInsert},
		{"steps accepts sets", CollectionSteps, sets, DropInsert},
		{"archive accepts steps", CollectionArchive, steps, DropInsert},
		{"archive accepts own reorder", CollectionArchive, archive, DropInsert},
		{"archive accepts sets", CollectionArchive, sets, DropInsert},
		{"sets reorders sets", CollectionSets, sets, DropInsert},
		{"sets folds pure steps", CollectionSets, steps, DropFold},
		{"sets folds pure archive", CollectionSets, archive, DropFold},
		{"sets with sets group reorders", CollectionSets, mixed, DropInsert},
		{"empty payload rejected", CollectionSteps, Payload{}, DropNone},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Accepts(tc.panel, tc.p); got != tc.want {
				t.Fatalf("Accepts(%v) = %v; want %v", tc.panel, got, tc.want)
			}
		})
	}
}

func TestResolveTarget(t *testing.T) {
	p := Payload{Steps: []ItemRef{{ID: "a"}}}

	tgt, ok := ResolveTarget(CollectionSteps, p, 15, []Sibling{{0, 10}, {1, 20}}, 2)
	if !ok || tgt.Kind != DropInsert || tgt.Index != 1 {
		t.Fatalf("ResolveTarget insert = %+v ok=%v", tgt, ok)
	}

	tgt, ok = ResolveTarget(CollectionSets, p, 15, nil, 0)
	if !ok || tgt.Kind != DropFold {
		t.Fatalf("ResolveTarget fold = %+v ok=%v", tgt, ok)
	}

	if _, ok := ResolveTarget(CollectionSets, Payload{}, 0, nil, 0); ok {
		t.Fatalf("empty payload must clear the indicator")
	}
}
