package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"stride-cli/internal/dnd"
	"stride-cli/internal/format"
	"stride-cli/internal/store"
	"stride-cli/internal/tui"

	"github.com/spf13/cobra"
)

type App struct {
	Dir        string
	Workspace  string
	PrettyJSON bool
	Format     string
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "stride",
		Short:        "Goal tracker with draggable steps, a reuse archive, and templates",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  stride

  # Scriptable commands
  stride goals list
  stride steps add marathon "Buy shoes"
  stride steps move marathon 3 1
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("STRIDE_DIR", ""), "Path to store dir (advanced: overrides workspace resolution; use for fixtures/tests)")
	cmd.PersistentFlags().StringVar(&app.Workspace, "workspace", envOr("STRIDE_WORKSPACE", ""), "Workspace name (default: 'default')")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("STRIDE_FORMAT", "json"), "Output format (json)")

	cmd.AddCommand(newInitCmd(app))
	cmd.AddCommand(newDocsCmd(app))
	cmd.AddCommand(newWorkspaceCmd(app))
	cmd.AddCommand(newGoalsCmd(app))
	cmd.AddCommand(newStepsCmd(app))
	cmd.AddCommand(newArchiveCmd(app))
	cmd.AddCommand(newTemplatesCmd(app))
	cmd.AddCommand(newTagsCmd(app))

	return cmd
}

func newInitCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the workspace database if it does not exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := s.Save(cmd.Context(), db); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"dir":   app.Dir,
				"goals": len(db.Goals),
			}})
		},
	}
	return cmd
}

func runTUI(cmd *cobra.Command, app *App) error {
	db, _, err := loadDB(cmd, app)
	if err != nil {
		return err
	}
	name := app.Workspace
	if name == "" {
		name = store.CurrentWorkspaceName()
	}
	return tui.Run(app.Dir, db, name)
}

func loadDB(cmd *cobra.Command, app *App) (*store.DB, store.Store, error) {
	dir, err := store.ResolveDir(app.Dir, app.Workspace)
	if err != nil {
		return nil, store.Store{}, err
	}
	app.Dir = dir

	s := store.Store{Dir: dir}
	db, err := s.Load(cmd.Context())
	if err != nil {
		return nil, s, err
	}
	return db, s, nil
}

func newEngine() dnd.Engine {
	return dnd.Engine{NewID: store.NewRandomID, Now: time.Now}
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

// listOf keeps empty collections as [] in the envelope rather than null.
func listOf[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}

// parsePositions parses 1-based list positions ("3" or "1,2,4") against a
// list of the given length.
func parsePositions(args []string, length int) ([]int, error) {
	var out []int
	for _, a := range args {
		for _, part := range strings.Split(a, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			n, err := strconv.Atoi(part)
			if err != nil {
				return nil, fmt.Errorf("bad position %q", part)
			}
			if n < 1 || n > length {
				return nil, errBadPosition(n, length)
			}
			out = append(out, n-1)
		}
	}
	return out, nil
}
