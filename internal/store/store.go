package store

import (
	"sort"
	"strings"

	"stride-cli/internal/model"
)

// Store reads and writes one workspace directory. Each workspace is an
// independent local database: its own goals, steps, archive, template sets,
// and tags, in a single SQLite file under Dir.
type Store struct {
	Dir string
}

// DB is the full in-memory state of a workspace.
type DB struct {
	Version int

	Goals   []model.Goal
	Steps   []model.Step
	Archive []model.ArchiveItem
	Sets    []model.TemplateSet
	Tags    []model.Tag

	CurrentGoalID string
}

// FindGoal returns the goal with the given id.
func (db *DB) FindGoal(id string) (*model.Goal, bool) {
	for i := range db.Goals {
		if db.Goals[i].ID == id {
			return &db.Goals[i], true
		}
	}
	return nil, false
}

// FindGoalByRef resolves an id or an exact (case-insensitive) title.
func (db *DB) FindGoalByRef(ref string) (*model.Goal, bool) {
	ref = strings.TrimSpace(ref)
	if g, ok := db.FindGoal(ref); ok {
		return g, true
	}
	for i := range db.Goals {
		if strings.EqualFold(db.Goals[i].Title, ref) {
			return &db.Goals[i], true
		}
	}
	return nil, false
}

// FindSet returns the template set with the given id or exact name.
func (db *DB) FindSet(ref string) (*model.TemplateSet, bool) {
	ref = strings.TrimSpace(ref)
	for i := range db.Sets {
		if db.Sets[i].ID == ref || strings.EqualFold(db.Sets[i].Name, ref) {
			return &db.Sets[i], true
		}
	}
	return nil, false
}

// FindTag resolves a tag by id or exact name.
func (db *DB) FindTag(ref string) (*model.Tag, bool) {
	ref = strings.TrimSpace(ref)
	for i := range db.Tags {
		if db.Tags[i].ID == ref || strings.EqualFold(db.Tags[i].Name, ref) {
			return &db.Tags[i], true
		}
	}
	return nil, false
}

// StepsForGoal returns the goal's steps ordered by timestamp (then id, for
// determinism if stamps ever collide). The returned slice is a copy.
func (db *DB) StepsForGoal(goalID string) []model.Step {
	var out []model.Step
	for _, st := range db.Steps {
		if st.GoalID == goalID {
			out = append(out, st)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Timestamp != out[j].Timestamp {
			return out[i].Timestamp < out[j].Timestamp
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// SetStepsForGoal replaces the goal's step list wholesale, keeping steps of
// other goals untouched. The caller is responsible for timestamp order
// (the dnd engine restamps on every committed change).
func (db *DB) SetStepsForGoal(goalID string, steps []model.Step) {
	kept := make([]model.Step, 0, len(db.Steps))
	for _, st := range db.Steps {
		if st.GoalID != goalID {
			kept = append(kept, st)
		}
	}
	for _, st := range steps {
		st.GoalID = goalID
		kept = append(kept, st)
	}
	db.Steps = kept
}

// SetArchive replaces the archive collection wholesale.
func (db *DB) SetArchive(items []model.ArchiveItem) { db.Archive = items }

// SetSets replaces the template-set collection wholesale.
func (db *DB) SetSets(sets []model.TemplateSet) { db.Sets = sets }

// DeleteGoal removes a goal and its steps.
func (db *DB) DeleteGoal(id string) {
	kept := db.Goals[:0]
	for _, g := range db.Goals {
		if g.ID != id {
			kept = append(kept, g)
		}
	}
	db.Goals = kept
	steps := db.Steps[:0]
	for _, st := range db.Steps {
		if st.GoalID != id {
			steps = append(steps, st)
		}
	}
	db.Steps = steps
	if db.CurrentGoalID == id {
		db.CurrentGoalID = ""
	}
}

// DeleteTag removes a tag and strips its name from all goals.
func (db *DB) DeleteTag(id string) {
	name := ""
	kept := db.Tags[:0]
	for _, tg := range db.Tags {
		if tg.ID == id {
			name = tg.Name
			continue
		}
		kept = append(kept, tg)
	}
	db.Tags = kept
	if name == "" {
		return
	}
	for i := range db.Goals {
		tags := db.Goals[i].Tags[:0]
		for _, t := range db.Goals[i].Tags {
			if t != name {
				tags = append(tags, t)
			}
		}
		db.Goals[i].Tags = tags
	}
}
