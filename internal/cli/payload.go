package cli

import (
	"stride-cli/internal/dnd"
	"stride-cli/internal/store"
)

// sourcesFor snapshots the three drag collections the way the TUI editor
// sees them, so CLI commands run through the same commit engine.
func sourcesFor(db *store.DB, goalID string) dnd.Sources {
	return dnd.Sources{
		Steps:   db.StepsForGoal(goalID),
		Archive: db.Archive,
		Sets:    db.Sets,
	}
}

// stepsPayload builds a drag payload from step indexes of one goal.
func stepsPayload(db *store.DB, goalID string, idxs []int) dnd.Payload {
	steps := db.StepsForGoal(goalID)
	ids := make([]string, 0, len(idxs))
	for _, i := range idxs {
		ids = append(ids, steps[i].ID)
	}
	return collectionPayload(db, goalID, dnd.CollectionSteps, ids)
}

// collectionPayload builds a payload from explicit ids in one collection.
func collectionPayload(db *store.DB, goalID string, c dnd.Collection, ids []string) dnd.Payload {
	if len(ids) == 0 {
		return dnd.Payload{}
	}
	sel := dnd.NewSelection()
	sel.Replace(c, ids...)
	grab := dnd.ItemHandle{Collection: c, ID: ids[0]}
	return dnd.BuildPayload(sel, grab, sourcesFor(db, goalID))
}
