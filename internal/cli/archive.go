package cli

import (
	"strings"

	"stride-cli/internal/dnd"
	"stride-cli/internal/model"
	"stride-cli/internal/store"

	"github.com/spf13/cobra"
)

func newArchiveCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Archive commands (the shared pile of reusable steps)",
	}
	cmd.AddCommand(newArchiveListCmd(app))
	cmd.AddCommand(newArchiveAddCmd(app))
	cmd.AddCommand(newArchiveRestoreCmd(app))
	cmd.AddCommand(newArchiveDeleteCmd(app))
	return cmd
}

func newArchiveListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List archive items in order",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": listOf(db.Archive)})
		},
	}
	return cmd
}

func newArchiveAddCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <description>...",
		Short: "Add items directly to the archive (duplicates are skipped)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}

			existing := make(map[string]bool, len(db.Archive))
			for _, a := range db.Archive {
				existing[a.Description] = true
			}
			added, skipped := 0, 0
			for _, desc := range args {
				desc = strings.TrimSpace(desc)
				if desc == "" || existing[desc] {
					skipped++
					continue
				}
				existing[desc] = true
				db.Archive = append(db.Archive, model.ArchiveItem{
					ID:          store.NewRandomID("arch"),
					Description: desc,
				})
				added++
			}
			if added > 0 {
				if err := s.Save(cmd.Context(), db); err != nil {
					return writeErr(cmd, err)
				}
			}
			return writeOut(cmd, app, map[string]any{
				"data": listOf(db.Archive),
				"meta": map[string]any{"added": added, "skippedDuplicates": skipped},
			})
		},
	}
	return cmd
}

func newArchiveRestoreCmd(app *App) *cobra.Command {
	var goalRef string

	cmd := &cobra.Command{
		Use:   "restore <pos>...",
		Short: "Move archive items back onto a goal as steps",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			g, ok := db.FindGoalByRef(goalRef)
			if !ok {
				return writeErr(cmd, errNotFound("goal", goalRef))
			}
			idxs, err := parsePositions(args, len(db.Archive))
			if err != nil {
				return writeErr(cmd, err)
			}
			ids := make([]string, 0, len(idxs))
			for _, i := range idxs {
				ids = append(ids, db.Archive[i].ID)
			}

			eng := newEngine()
			p := collectionPayload(db, g.ID, dnd.CollectionArchive, ids)
			res := eng.CommitToSteps(g.ID, sourcesFor(db, g.ID), p, len(db.StepsForGoal(g.ID)))
			if res.StepsChanged {
				db.SetStepsForGoal(g.ID, res.Steps)
			}
			if res.ArchiveChanged {
				db.SetArchive(res.Archive)
			}
			if res.Changed() {
				if err := s.Save(cmd.Context(), db); err != nil {
					return writeErr(cmd, err)
				}
			}
			return writeOut(cmd, app, map[string]any{"data": listOf(db.StepsForGoal(g.ID))})
		},
	}

	cmd.Flags().StringVar(&goalRef, "goal", "", "Goal to restore onto")
	_ = cmd.MarkFlagRequired("goal")
	return cmd
}

func newArchiveDeleteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "delete <pos>...",
		Aliases: []string{"rm"},
		Short:   "Delete archive items",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			idxs, err := parsePositions(args, len(db.Archive))
			if err != nil {
				return writeErr(cmd, err)
			}
			drop := make(map[int]bool, len(idxs))
			for _, i := range idxs {
				drop[i] = true
			}
			kept := db.Archive[:0]
			for i, a := range db.Archive {
				if !drop[i] {
					kept = append(kept, a)
				}
			}
			db.SetArchive(kept)
			if err := s.Save(cmd.Context(), db); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": listOf(db.Archive)})
		},
	}
	return cmd
}
