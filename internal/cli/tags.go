package cli

import (
	"strings"
	"time"

	"stride-cli/internal/model"
	"stride-cli/internal/store"

	"github.com/spf13/cobra"
)

func newTagsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tags",
		Short: "Tag commands",
	}
	cmd.AddCommand(newTagsListCmd(app))
	cmd.AddCommand(newTagsCreateCmd(app))
	cmd.AddCommand(newTagsRenameCmd(app))
	cmd.AddCommand(newTagsDeleteCmd(app))
	return cmd
}

func newTagsListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tags with usage counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			out := make([]map[string]any, 0, len(db.Tags))
			for _, t := range db.Tags {
				uses := 0
				for _, g := range db.Goals {
					if hasTag(g, t.Name) {
						uses++
					}
				}
				out = append(out, map[string]any{"tag": t, "uses": uses})
			}
			return writeOut(cmd, app, map[string]any{"data": out})
		},
	}
	return cmd
}

func newTagsCreateCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "create <name>",
		Aliases: []string{"add"},
		Short:   "Create a tag",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			name := strings.TrimSpace(args[0])
			if name == "" {
				return writeErr(cmd, errNotFound("tag", args[0]))
			}
			if _, ok := db.FindTag(name); ok {
				return writeOut(cmd, app, map[string]any{"data": nil, "meta": map[string]any{"exists": true}})
			}
			t := model.Tag{
				ID:        store.NewRandomID("tag"),
				Name:      name,
				CreatedAt: time.Now().UTC(),
			}
			db.Tags = append(db.Tags, t)
			if err := s.Save(cmd.Context(), db); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": t})
		},
	}
	return cmd
}

func newTagsRenameCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rename <tag> <name>",
		Short: "Rename a tag everywhere it is used",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			t, ok := db.FindTag(args[0])
			if !ok {
				return writeErr(cmd, errNotFound("tag", args[0]))
			}
			old := t.Name
			t.Name = strings.TrimSpace(args[1])
			for gi := range db.Goals {
				for ti, name := range db.Goals[gi].Tags {
					if name == old {
						db.Goals[gi].Tags[ti] = t.Name
					}
				}
			}
			if err := s.Save(cmd.Context(), db); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": t})
		},
	}
	return cmd
}

func newTagsDeleteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "delete <tag>",
		Aliases: []string{"rm"},
		Short:   "Delete a tag and strip it from goals",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			t, ok := db.FindTag(args[0])
			if !ok {
				return writeErr(cmd, errNotFound("tag", args[0]))
			}
			id := t.ID
			db.DeleteTag(id)
			if err := s.Save(cmd.Context(), db); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"deleted": id}})
		},
	}
	return cmd
}
