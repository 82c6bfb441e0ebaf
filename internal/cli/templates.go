package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

func newTemplatesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Template set commands",
	}
	cmd.AddCommand(newTemplatesListCmd(app))
	cmd.AddCommand(newTemplatesShowCmd(app))
	cmd.AddCommand(newTemplatesCreateCmd(app))
	cmd.AddCommand(newTemplatesApplyCmd(app))
	cmd.AddCommand(newTemplatesRenameCmd(app))
	cmd.AddCommand(newTemplatesDeleteCmd(app))
	return cmd
}

func newTemplatesListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List template sets",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			out := make([]map[string]any, 0, len(db.Sets))
			for _, ts := range db.Sets {
				out = append(out, map[string]any{
					"id":    ts.ID,
					"name":  ts.Name,
					"steps": len(ts.Steps),
				})
			}
			return writeOut(cmd, app, map[string]any{"data": out})
		},
	}
	return cmd
}

func newTemplatesShowCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <template>",
		Short: "Show a template set with its steps",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			ts, ok := db.FindSet(args[0])
			if !ok {
				return writeErr(cmd, errNotFound("template", args[0]))
			}
			return writeOut(cmd, app, map[string]any{"data": ts})
		},
	}
	return cmd
}

func newTemplatesCreateCmd(app *App) *cobra.Command {
	var goalRef string

	// Folding from the CLI is copy semantics, same as dropping steps on the
	// templates panel: the source steps stay on the goal.
	cmd := &cobra.Command{
		Use:   "create <name> <pos>...",
		Short: "Save a goal's steps as a reusable template set",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			g, ok := db.FindGoalByRef(goalRef)
			if !ok {
				return writeErr(cmd, errNotFound("goal", goalRef))
			}
			steps := db.StepsForGoal(g.ID)
			idxs, err := parsePositions(args[1:], len(steps))
			if err != nil {
				return writeErr(cmd, err)
			}

			eng := newEngine()
			p := stepsPayload(db, g.ID, idxs)
			res := eng.FoldIntoSet(sourcesFor(db, g.ID), p, strings.TrimSpace(args[0]))
			if !res.SetsChanged {
				return writeOut(cmd, app, map[string]any{"data": nil})
			}
			db.SetSets(res.Sets)
			if err := s.Save(cmd.Context(), db); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": res.Sets[len(res.Sets)-1]})
		},
	}

	cmd.Flags().StringVar(&goalRef, "goal", "", "Goal whose steps to fold")
	_ = cmd.MarkFlagRequired("goal")
	return cmd
}

func newTemplatesApplyCmd(app *App) *cobra.Command {
	var goalRef string

	cmd := &cobra.Command{
		Use:   "apply <template>",
		Short: "Append a template's steps to a goal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			g, ok := db.FindGoalByRef(goalRef)
			if !ok {
				return writeErr(cmd, errNotFound("goal", goalRef))
			}
			ts, ok := db.FindSet(args[0])
			if !ok {
				return writeErr(cmd, errNotFound("template", args[0]))
			}

			eng := newEngine()
			db.SetStepsForGoal(g.ID, eng.ApplyTemplate(g.ID, db.StepsForGoal(g.ID), *ts))
			if err := s.Save(cmd.Context(), db); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": listOf(db.StepsForGoal(g.ID))})
		},
	}

	cmd.Flags().StringVar(&goalRef, "goal", "", "Goal to apply onto")
	_ = cmd.MarkFlagRequired("goal")
	return cmd
}

func newTemplatesRenameCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rename <template> <name>",
		Short: "Rename a template set",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			ts, ok := db.FindSet(args[0])
			if !ok {
				return writeErr(cmd, errNotFound("template", args[0]))
			}
			ts.Name = strings.TrimSpace(args[1])
			if err := s.Save(cmd.Context(), db); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": ts})
		},
	}
	return cmd
}

func newTemplatesDeleteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "delete <template>",
		Aliases: []string{"rm"},
		Short:   "Delete a template set",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			ts, ok := db.FindSet(args[0])
			if !ok {
				return writeErr(cmd, errNotFound("template", args[0]))
			}
			id := ts.ID
			kept := db.Sets[:0]
			for _, other := range db.Sets {
				if other.ID != id {
					kept = append(kept, other)
				}
			}
			db.SetSets(kept)
			if err := s.Save(cmd.Context(), db); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"deleted": id}})
		},
	}
	return cmd
}
