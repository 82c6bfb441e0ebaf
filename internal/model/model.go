package model

import "time"

// Goal is a tracked event: a goal, project, or show being watched.
// Its progress is decomposed into ordered Steps.
type Goal struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Notes     string    `json:"notes,omitempty"` // markdown
	Tags      []string  `json:"tags,omitempty"`  // tag names
	Archived  bool      `json:"archived"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Step is an ordered, completable unit of progress belonging to one goal.
//
// Order is encoded in Timestamp (unix milliseconds): the step list is always
// sorted ascending by Timestamp, and every committed reorder reassigns fresh
// monotonically increasing timestamps from array position. The persisted
// order is never trusted independently of array position.
type Step struct {
	ID          string `json:"id"`
	GoalID      string `json:"goalId"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
	Timestamp   int64  `json:"timestamp"`
}

// ArchiveItem is a reusable description-only step template.
// Descriptions are unique within the archive collection.
type ArchiveItem struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

// SubStep is an unnamed step-descriptor inside a TemplateSet.
// Its id is unique only within its set; ids are freshly minted whenever
// content is copied in from elsewhere.
type SubStep struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

// TemplateSet is a named, ordered bundle of sub-steps usable to
// bulk-populate a goal's steps.
type TemplateSet struct {
	ID    string    `json:"id"`
	Name  string    `json:"name"`
	Steps []SubStep `json:"steps"`
}

// Tag labels goals for filtering.
type Tag struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}
