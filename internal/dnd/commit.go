package dnd

import (
	"strings"
	"time"

	"stride-cli/internal/model"
)

// Engine applies resolved drops to the three collections. It never mutates
// the inputs: every commit returns full replacement slices for the host to
// push through its setters.
//
// NewID mints ids for destination-typed copies (foreign items always get
// fresh ids). Now anchors the timestamp restamp. Both are injected so commit
// math stays deterministic under test.
type Engine struct {
	NewID func(kind string) string
	Now   func() time.Time
}

// Result is the outcome of a commit: the proposed replacement collections,
// per-collection change flags, and counts for user feedback.
type Result struct {
	Steps   []model.Step
	Archive []model.ArchiveItem
	Sets    []model.TemplateSet

	StepsChanged   bool
	ArchiveChanged bool
	SetsChanged    bool

	// Inserted counts items placed into the destination; Skipped counts
	// archive inserts dropped by description dedup.
	Inserted int
	Skipped  int
}

// Changed reports whether the commit proposes any mutation at all.
func (r Result) Changed() bool {
	return r.StepsChanged || r.ArchiveChanged || r.SetsChanged
}

// noop returns the sources unchanged.
func noop(src Sources) Result {
	return Result{Steps: src.Steps, Archive: src.Archive, Sets: src.Sets}
}

// effectivePayload filters a payload snapshot against what still exists in
// the sources. Items deleted since the drag started simply drop out; a fully
// stale payload becomes empty and the commit is a silent no-op.
func effectivePayload(src Sources, p Payload) Payload {
	steps := make(map[string]bool, len(src.Steps))
	for _, st := range src.Steps {
		steps[st.ID] = true
	}
	arch := make(map[string]bool, len(src.Archive))
	for _, a := range src.Archive {
		arch[a.ID] = true
	}
	sets := make(map[string]bool, len(src.Sets))
	for _, s := range src.Sets {
		sets[s.ID] = true
	}
	var out Payload
	for _, r := range p.Steps {
		if steps[r.ID] {
			out.Steps = append(out.Steps, r)
		}
	}
	for _, r := range p.Archive {
		if arch[r.ID] {
			out.Archive = append(out.Archive, r)
		}
	}
	for _, r := range p.Sets {
		if sets[r.ID] {
			out.Sets = append(out.Sets, r)
		}
	}
	return out
}

// adjustDropIndex re-anchors a full-list drop index against the pre-removal
// destination array: the index moves down by one for every moved item that
// originally sat before it. This keeps the drop pinned to the sibling the
// user targeted rather than to a stale absolute position.
func adjustDropIndex(dropIndex int, movedOrigIdx []int, remainingLen int) int {
	adj := dropIndex
	for _, i := range movedOrigIdx {
		if i < dropIndex {
			adj--
		}
	}
	if adj < 0 {
		adj = 0
	}
	if adj > remainingLen {
		adj = remainingLen
	}
	return adj
}

// foreignRefs flattens the payload groups that are foreign to the given
// destination, in payload group order.
func foreignRefs(p Payload, dest Collection) []ItemRef {
	var out []ItemRef
	if dest != CollectionSteps {
		out = append(out, p.Steps...)
	}
	if dest != CollectionArchive {
		out = append(out, p.Archive...)
	}
	if dest != CollectionSets {
		for _, s := range p.Sets {
			out = append(out, s.Steps...)
		}
	}
	return out
}

// CommitToSteps drops the payload onto the step-list panel at dropIndex.
// Native steps are reordered (completion state preserved); archive items and
// set sub-steps become new steps with fresh ids. Moved archive items and
// moved sets are removed from their origin collections.
func (e Engine) CommitToSteps(goalID string, src Sources, p Payload, dropIndex int) Result {
	p = effectivePayload(src, p)
	if p.Empty() {
		return noop(src)
	}

	byID := make(map[string]model.Step, len(src.Steps))
	for _, st := range src.Steps {
		byID[st.ID] = st
	}

	// Native reorder set: only payload steps that still exist in the source.
	var native []model.Step
	moved := map[string]bool{}
	var movedIdx []int
	for _, ref := range p.Steps {
		if st, ok := byID[ref.ID]; ok {
			native = append(native, st)
			moved[ref.ID] = true
		}
	}
	for i, st := range src.Steps {
		if moved[st.ID] {
			movedIdx = append(movedIdx, i)
		}
	}

	var foreign []model.Step
	for _, ref := range foreignRefs(p, CollectionSteps) {
		foreign = append(foreign, model.Step{
			ID:          e.NewID("step"),
			GoalID:      goalID,
			Description: ref.Description,
		})
	}

	if len(native) == 0 && len(foreign) == 0 {
		return noop(src)
	}

	remaining := make([]model.Step, 0, len(src.Steps))
	for _, st := range src.Steps {
		if !moved[st.ID] {
			remaining = append(remaining, st)
		}
	}
	at := adjustDropIndex(dropIndex, movedIdx, len(remaining))

	next := make([]model.Step, 0, len(remaining)+len(native)+len(foreign))
	next = append(next, remaining[:at]...)
	next = append(next, native...)
	next = append(next, foreign...)
	next = append(next, remaining[at:]...)

	res := noop(src)
	if len(foreign) == 0 && sameStepOrder(src.Steps, next) {
		// Pure reorder to the current position: nothing to do, keep ids and
		// timestamps untouched.
		return res
	}

	res.Steps = e.RestampSteps(next)
	res.StepsChanged = true
	res.Inserted = len(native) + len(foreign)

	res.Archive, res.ArchiveChanged = removeArchiveItems(src.Archive, idSet(p.Archive))
	res.Sets, res.SetsChanged = removeSets(src.Sets, setIDSet(p.Sets))
	return res
}

// CommitToArchive drops the payload onto the archive panel. Inserts are
// deduplicated by description against the items already there; duplicates
// are dropped silently, but move semantics still apply to the source even
// when the destination insert is filtered.
func (e Engine) CommitToArchive(src Sources, p Payload, dropIndex int) Result {
	p = effectivePayload(src, p)
	if p.Empty() {
		return noop(src)
	}

	byID := make(map[string]model.ArchiveItem, len(src.Archive))
	for _, a := range src.Archive {
		byID[a.ID] = a
	}

	var native []model.ArchiveItem
	moved := map[string]bool{}
	var movedIdx []int
	for _, ref := range p.Archive {
		if a, ok := byID[ref.ID]; ok {
			native = append(native, a)
			moved[ref.ID] = true
		}
	}
	for i, a := range src.Archive {
		if moved[a.ID] {
			movedIdx = append(movedIdx, i)
		}
	}

	foreign := foreignRefs(p, CollectionArchive)
	if len(native) == 0 && len(foreign) == 0 {
		return noop(src)
	}

	remaining := make([]model.ArchiveItem, 0, len(src.Archive))
	seen := map[string]bool{}
	for _, a := range src.Archive {
		if !moved[a.ID] {
			remaining = append(remaining, a)
			seen[a.Description] = true
		}
	}

	// Combined insert set, native first, deduplicated by description.
	var insert []model.ArchiveItem
	skipped := 0
	for _, a := range native {
		if seen[a.Description] {
			skipped++
			continue
		}
		seen[a.Description] = true
		insert = append(insert, a)
	}
	for _, ref := range foreign {
		if seen[ref.Description] {
			skipped++
			continue
		}
		seen[ref.Description] = true
		insert = append(insert, model.ArchiveItem{ID: e.NewID("arch"), Description: ref.Description})
	}

	at := adjustDropIndex(dropIndex, movedIdx, len(remaining))
	next := make([]model.ArchiveItem, 0, len(remaining)+len(insert))
	next = append(next, remaining[:at]...)
	next = append(next, insert...)
	next = append(next, remaining[at:]...)

	res := noop(src)
	res.Inserted = len(insert)
	res.Skipped = skipped

	if !sameArchiveOrder(src.Archive, next) {
		res.Archive = next
		res.ArchiveChanged = true
	}

	// Steps moved into the archive leave the step list; survivors get fresh
	// monotonic timestamps.
	if stepIDs := idSet(p.Steps); len(stepIDs) > 0 {
		kept := make([]model.Step, 0, len(src.Steps))
		removed := false
		for _, st := range src.Steps {
			if stepIDs[st.ID] {
				removed = true
				continue
			}
			kept = append(kept, st)
		}
		if removed {
			res.Steps = e.RestampSteps(kept)
			res.StepsChanged = true
		}
	}
	res.Sets, res.SetsChanged = removeSets(src.Sets, setIDSet(p.Sets))

	if !res.Changed() {
		return noop(src)
	}
	return res
}

// CommitSetsReorder reorders template sets within their panel. Foreign
// groups in the payload are ignored here: the sets panel only accepts the
// sets group for index-based drops (anything else folds, see FoldIntoSet).
func (e Engine) CommitSetsReorder(src Sources, p Payload, dropIndex int) Result {
	p = effectivePayload(src, p)
	if len(p.Sets) == 0 {
		return noop(src)
	}

	byID := make(map[string]model.TemplateSet, len(src.Sets))
	for _, s := range src.Sets {
		byID[s.ID] = s
	}
	var native []model.TemplateSet
	moved := map[string]bool{}
	var movedIdx []int
	for _, ref := range p.Sets {
		if s, ok := byID[ref.ID]; ok {
			native = append(native, s)
			moved[ref.ID] = true
		}
	}
	if len(native) == 0 {
		return noop(src)
	}
	for i, s := range src.Sets {
		if moved[s.ID] {
			movedIdx = append(movedIdx, i)
		}
	}

	remaining := make([]model.TemplateSet, 0, len(src.Sets))
	for _, s := range src.Sets {
		if !moved[s.ID] {
			remaining = append(remaining, s)
		}
	}
	at := adjustDropIndex(dropIndex, movedIdx, len(remaining))
	next := make([]model.TemplateSet, 0, len(src.Sets))
	next = append(next, remaining[:at]...)
	next = append(next, native...)
	next = append(next, remaining[at:]...)

	res := noop(src)
	if sameSetOrder(src.Sets, next) {
		return res
	}
	res.Sets = next
	res.SetsChanged = true
	res.Inserted = len(native)
	return res
}

// FoldIntoSet bundles the payload's steps and archive items into a new named
// template set appended to the collection. Copy semantics: the source items
// stay where they are. Sub-step ids are freshly minted.
func (e Engine) FoldIntoSet(src Sources, p Payload, name string) Result {
	name = strings.TrimSpace(name)
	if name == "" {
		return noop(src)
	}
	var subs []model.SubStep
	for _, ref := range p.Steps {
		subs = append(subs, model.SubStep{ID: e.NewID("sub"), Description: ref.Description})
	}
	for _, ref := range p.Archive {
		subs = append(subs, model.SubStep{ID: e.NewID("sub"), Description: ref.Description})
	}
	if len(subs) == 0 {
		return noop(src)
	}
	res := noop(src)
	next := make([]model.TemplateSet, 0, len(src.Sets)+1)
	next = append(next, src.Sets...)
	next = append(next, model.TemplateSet{ID: e.NewID("set"), Name: name, Steps: subs})
	res.Sets = next
	res.SetsChanged = true
	res.Inserted = len(subs)
	return res
}

// ApplyTemplate appends a template set's sub-steps to a goal's step list as
// fresh steps (new ids, restamped order).
func (e Engine) ApplyTemplate(goalID string, steps []model.Step, set model.TemplateSet) []model.Step {
	next := make([]model.Step, 0, len(steps)+len(set.Steps))
	next = append(next, steps...)
	for _, sub := range set.Steps {
		next = append(next, model.Step{
			ID:          e.NewID("step"),
			GoalID:      goalID,
			Description: sub.Description,
		})
	}
	return e.RestampSteps(next)
}

// RestampSteps reassigns monotonically increasing timestamps from array
// position, re-deriving the "timestamp encodes order" invariant. The base is
// pushed past every existing stamp so repeated commits within one clock tick
// still increase strictly.
func (e Engine) RestampSteps(steps []model.Step) []model.Step {
	base := e.Now().UnixMilli()
	for _, st := range steps {
		if st.Timestamp >= base {
			base = st.Timestamp + 1
		}
	}
	out := make([]model.Step, len(steps))
	for i, st := range steps {
		st.Timestamp = base + int64(i)
		out[i] = st
	}
	return out
}

func idSet(refs []ItemRef) map[string]bool {
	if len(refs) == 0 {
		return nil
	}
	m := make(map[string]bool, len(refs))
	for _, r := range refs {
		m[r.ID] = true
	}
	return m
}

func setIDSet(refs []SetRef) map[string]bool {
	if len(refs) == 0 {
		return nil
	}
	m := make(map[string]bool, len(refs))
	for _, r := range refs {
		m[r.ID] = true
	}
	return m
}

func removeArchiveItems(items []model.ArchiveItem, ids map[string]bool) ([]model.ArchiveItem, bool) {
	if len(ids) == 0 {
		return items, false
	}
	kept := make([]model.ArchiveItem, 0, len(items))
	removed := false
	for _, a := range items {
		if ids[a.ID] {
			removed = true
			continue
		}
		kept = append(kept, a)
	}
	if !removed {
		return items, false
	}
	return kept, true
}

func removeSets(sets []model.TemplateSet, ids map[string]bool) ([]model.TemplateSet, bool) {
	if len(ids) == 0 {
		return sets, false
	}
	kept := make([]model.TemplateSet, 0, len(sets))
	removed := false
	for _, s := range sets {
		if ids[s.ID] {
			removed = true
			continue
		}
		kept = append(kept, s)
	}
	if !removed {
		return sets, false
	}
	return kept, true
}

func sameStepOrder(a, b []model.Step) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			return false
		}
	}
	return true
}

func sameArchiveOrder(a, b []model.ArchiveItem) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			return false
		}
	}
	return true
}

func sameSetOrder(a, b []model.TemplateSet) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			return false
		}
	}
	return true
}
