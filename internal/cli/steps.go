package cli

import (
	"strings"

	"stride-cli/internal/model"

	"github.com/spf13/cobra"
)

func newStepsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "steps",
		Short: "Step commands",
	}
	cmd.AddCommand(newStepsAddCmd(app))
	cmd.AddCommand(newStepsListCmd(app))
	cmd.AddCommand(newStepsDoneCmd(app, true))
	cmd.AddCommand(newStepsDoneCmd(app, false))
	cmd.AddCommand(newStepsMoveCmd(app))
	cmd.AddCommand(newStepsRenameCmd(app))
	cmd.AddCommand(newStepsArchiveCmd(app))
	cmd.AddCommand(newStepsDeleteCmd(app))
	return cmd
}

func newStepsAddCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <goal> <description>...",
		Short: "Append steps to a goal",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			g, ok := db.FindGoalByRef(args[0])
			if !ok {
				return writeErr(cmd, errNotFound("goal", args[0]))
			}

			eng := newEngine()
			steps := db.StepsForGoal(g.ID)
			var added []model.Step
			for _, desc := range args[1:] {
				desc = strings.TrimSpace(desc)
				if desc == "" {
					continue
				}
				st := model.Step{
					ID:          eng.NewID("step"),
					GoalID:      g.ID,
					Description: desc,
				}
				steps = append(steps, st)
				added = append(added, st)
			}
			db.SetStepsForGoal(g.ID, eng.RestampSteps(steps))
			if err := s.Save(cmd.Context(), db); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": listOf(added)})
		},
	}
	return cmd
}

func newStepsListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list <goal>",
		Short: "List a goal's steps in order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			g, ok := db.FindGoalByRef(args[0])
			if !ok {
				return writeErr(cmd, errNotFound("goal", args[0]))
			}
			return writeOut(cmd, app, map[string]any{"data": listOf(db.StepsForGoal(g.ID))})
		},
	}
	return cmd
}

func newStepsDoneCmd(app *App, done bool) *cobra.Command {
	use, short := "done <goal> <pos>...", "Mark steps completed"
	if !done {
		use, short = "undone <goal> <pos>...", "Mark steps not completed"
	}
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			g, ok := db.FindGoalByRef(args[0])
			if !ok {
				return writeErr(cmd, errNotFound("goal", args[0]))
			}
			steps := db.StepsForGoal(g.ID)
			idxs, err := parsePositions(args[1:], len(steps))
			if err != nil {
				return writeErr(cmd, err)
			}
			for _, i := range idxs {
				steps[i].Completed = done
			}
			db.SetStepsForGoal(g.ID, steps)
			if err := s.Save(cmd.Context(), db); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": steps})
		},
	}
	return cmd
}

func newStepsMoveCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "move <goal> <from> <to>",
		Short: "Move a step to a new 1-based position",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			g, ok := db.FindGoalByRef(args[0])
			if !ok {
				return writeErr(cmd, errNotFound("goal", args[0]))
			}
			steps := db.StepsForGoal(g.ID)
			from, err := parsePositions(args[1:2], len(steps))
			if err != nil {
				return writeErr(cmd, err)
			}
			to, err := parsePositions(args[2:3], len(steps))
			if err != nil {
				return writeErr(cmd, err)
			}

			// "Move to position p" in user terms is an insertion either
			// before (moving up) or after (moving down) the occupant of p.
			drop := to[0]
			if to[0] >= from[0] {
				drop = to[0] + 1
			}

			eng := newEngine()
			p := stepsPayload(db, g.ID, []int{from[0]})
			res := eng.CommitToSteps(g.ID, sourcesFor(db, g.ID), p, drop)
			if res.StepsChanged {
				db.SetStepsForGoal(g.ID, res.Steps)
				if err := s.Save(cmd.Context(), db); err != nil {
					return writeErr(cmd, err)
				}
			}
			return writeOut(cmd, app, map[string]any{"data": listOf(db.StepsForGoal(g.ID))})
		},
	}
	return cmd
}

func newStepsRenameCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rename <goal> <pos> <description>",
		Short: "Rewrite a step's description",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			g, ok := db.FindGoalByRef(args[0])
			if !ok {
				return writeErr(cmd, errNotFound("goal", args[0]))
			}
			steps := db.StepsForGoal(g.ID)
			idxs, err := parsePositions(args[1:2], len(steps))
			if err != nil {
				return writeErr(cmd, err)
			}
			steps[idxs[0]].Description = strings.TrimSpace(args[2])
			db.SetStepsForGoal(g.ID, steps)
			if err := s.Save(cmd.Context(), db); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": steps[idxs[0]]})
		},
	}
	return cmd
}

func newStepsArchiveCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive <goal> <pos>...",
		Short: "Move steps into the archive (duplicates are skipped, steps still leave the goal)",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			g, ok := db.FindGoalByRef(args[0])
			if !ok {
				return writeErr(cmd, errNotFound("goal", args[0]))
			}
			steps := db.StepsForGoal(g.ID)
			idxs, err := parsePositions(args[1:], len(steps))
			if err != nil {
				return writeErr(cmd, err)
			}

			eng := newEngine()
			p := stepsPayload(db, g.ID, idxs)
			res := eng.CommitToArchive(sourcesFor(db, g.ID), p, len(db.Archive))
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
			return writeOut(cmd, app, map[string]any{
				"data": listOf(db.Archive),
				"meta": map[string]any{"archived": res.Inserted, "skippedDuplicates": res.Skipped},
			})
		},
	}
	return cmd
}

func newStepsDeleteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "delete <goal> <pos>...",
		Aliases: []string{"rm"},
		Short:   "Delete steps without archiving them",
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			g, ok := db.FindGoalByRef(args[0])
			if !ok {
				return writeErr(cmd, errNotFound("goal", args[0]))
			}
			steps := db.StepsForGoal(g.ID)
			idxs, err := parsePositions(args[1:], len(steps))
			if err != nil {
				return writeErr(cmd, err)
			}
			drop := make(map[int]bool, len(idxs))
			for _, i := range idxs {
				drop[i] = true
			}
			kept := steps[:0]
			for i, st := range steps {
				if !drop[i] {
					kept = append(kept, st)
				}
			}
			db.SetStepsForGoal(g.ID, kept)
			if err := s.Save(cmd.Context(), db); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": listOf(kept)})
		},
	}
	return cmd
}
