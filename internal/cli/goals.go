package cli

import (
	"strings"
	"time"

	"stride-cli/internal/model"
	"stride-cli/internal/store"

	"github.com/spf13/cobra"
)

func newGoalsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goals",
		Short: "Goal commands",
	}
	cmd.AddCommand(newGoalsCreateCmd(app))
	cmd.AddCommand(newGoalsListCmd(app))
	cmd.AddCommand(newGoalsShowCmd(app))
	cmd.AddCommand(newGoalsRenameCmd(app))
	cmd.AddCommand(newGoalsDeleteCmd(app))
	cmd.AddCommand(newGoalsArchiveCmd(app))
	cmd.AddCommand(newGoalsUnarchiveCmd(app))
	cmd.AddCommand(newGoalsUseCmd(app))
	cmd.AddCommand(newGoalsTagCmd(app))
	cmd.AddCommand(newGoalsUntagCmd(app))
	return cmd
}

func newGoalsCreateCmd(app *App) *cobra.Command {
	var notes string
	var tags []string

	cmd := &cobra.Command{
		Use:     "create <title>",
		Aliases: []string{"add"},
		Short:   "Create a goal",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}

			now := time.Now().UTC()
			g := model.Goal{
				ID:        store.NewRandomID("goal"),
				Title:     strings.TrimSpace(args[0]),
				Notes:     notes,
				Tags:      tags,
				CreatedAt: now,
				UpdatedAt: now,
			}
			db.Goals = append(db.Goals, g)
			if err := s.Save(cmd.Context(), db); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": g})
		},
	}

	cmd.Flags().StringVar(&notes, "notes", "", "Free-form notes (markdown)")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Tag name (repeatable)")
	return cmd
}

func newGoalsListCmd(app *App) *cobra.Command {
	var tag string
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List goals",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}

			out := make([]map[string]any, 0, len(db.Goals))
			for _, g := range db.Goals {
				if g.Archived && !all {
					continue
				}
				if tag != "" && !hasTag(g, tag) {
					continue
				}
				done, total := 0, 0
				for _, st := range db.StepsForGoal(g.ID) {
					total++
					if st.Completed {
						done++
					}
				}
				out = append(out, map[string]any{
					"goal":    g,
					"done":    done,
					"total":   total,
					"current": g.ID == db.CurrentGoalID,
				})
			}
			return writeOut(cmd, app, map[string]any{"data": out})
		},
	}

	cmd.Flags().StringVar(&tag, "tag", "", "Only goals carrying this tag")
	cmd.Flags().BoolVar(&all, "all", false, "Include archived goals")
	return cmd
}

func newGoalsShowCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <goal>",
		Short: "Show a goal with its steps",
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
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"goal":  g,
				"steps": db.StepsForGoal(g.ID),
			}})
		},
	}
	return cmd
}

func newGoalsRenameCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rename <goal> <title>",
		Short: "Rename a goal",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			g, ok := db.FindGoalByRef(args[0])
			if !ok {
				return writeErr(cmd, errNotFound("goal", args[0]))
			}
			g.Title = strings.TrimSpace(args[1])
			g.UpdatedAt = time.Now().UTC()
			if err := s.Save(cmd.Context(), db); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": g})
		},
	}
	return cmd
}

func newGoalsDeleteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "delete <goal>",
		Aliases: []string{"rm"},
		Short:   "Delete a goal and its steps",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			g, ok := db.FindGoalByRef(args[0])
			if !ok {
				return writeErr(cmd, errNotFound("goal", args[0]))
			}
			id := g.ID
			db.DeleteGoal(id)
			if err := s.Save(cmd.Context(), db); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"deleted": id}})
		},
	}
	return cmd
}

func newGoalsArchiveCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive <goal>",
		Short: "Archive a goal (hidden from the default list, steps kept)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setGoalArchived(cmd, app, args[0], true)
		},
	}
	return cmd
}

func newGoalsUnarchiveCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unarchive <goal>",
		Short: "Bring an archived goal back",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setGoalArchived(cmd, app, args[0], false)
		},
	}
	return cmd
}

func setGoalArchived(cmd *cobra.Command, app *App, ref string, archived bool) error {
	db, s, err := loadDB(cmd, app)
	if err != nil {
		return writeErr(cmd, err)
	}
	g, ok := db.FindGoalByRef(ref)
	if !ok {
		return writeErr(cmd, errNotFound("goal", ref))
	}
	g.Archived = archived
	g.UpdatedAt = time.Now().UTC()
	if archived && db.CurrentGoalID == g.ID {
		db.CurrentGoalID = ""
	}
	if err := s.Save(cmd.Context(), db); err != nil {
		return writeErr(cmd, err)
	}
	return writeOut(cmd, app, map[string]any{"data": g})
}

func newGoalsUseCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "use <goal>",
		Short: "Set the goal the TUI opens on",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			g, ok := db.FindGoalByRef(args[0])
			if !ok {
				return writeErr(cmd, errNotFound("goal", args[0]))
			}
			db.CurrentGoalID = g.ID
			if err := s.Save(cmd.Context(), db); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"current": g.ID}})
		},
	}
	return cmd
}

func newGoalsTagCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag <goal> <tag>",
		Short: "Add a tag to a goal (creating the tag if needed)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			g, ok := db.FindGoalByRef(args[0])
			if !ok {
				return writeErr(cmd, errNotFound("goal", args[0]))
			}
			name := strings.TrimSpace(args[1])
			if name == "" {
				return writeErr(cmd, errNotFound("tag", args[1]))
			}
			if _, ok := db.FindTag(name); !ok {
				db.Tags = append(db.Tags, model.Tag{
					ID:        store.NewRandomID("tag"),
					Name:      name,
					CreatedAt: time.Now().UTC(),
				})
			}
			if !hasTag(*g, name) {
				g.Tags = append(g.Tags, name)
			}
			if err := s.Save(cmd.Context(), db); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": g})
		},
	}
	return cmd
}

func newGoalsUntagCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "untag <goal> <tag>",
		Short: "Remove a tag from a goal",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			g, ok := db.FindGoalByRef(args[0])
			if !ok {
				return writeErr(cmd, errNotFound("goal", args[0]))
			}
			kept := g.Tags[:0]
			for _, t := range g.Tags {
				if t != args[1] {
					kept = append(kept, t)
				}
			}
			g.Tags = kept
			if err := s.Save(cmd.Context(), db); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": g})
		},
	}
	return cmd
}

func hasTag(g model.Goal, name string) bool {
	for _, t := range g.Tags {
		if t == name {
			return true
		}
	}
	return false
}
