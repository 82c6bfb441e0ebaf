package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// Workspaces are independent local databases. Each lives in its own
// directory under the stride home:
//
//	$STRIDE_HOME (default ~/.stride)
//	  workspaces/
//	    default/stride.sqlite
//	    work/stride.sqlite
//
// Resolution order for the active workspace: --workspace flag,
// $STRIDE_WORKSPACE, the "current_workspace" marker file, "default".

const defaultWorkspace = "default"

var workspaceNameRe = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]*$`)

func HomeDir() (string, error) {
	if dir := strings.TrimSpace(os.Getenv("STRIDE_HOME")); dir != "" {
		return filepath.Clean(dir), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".stride"), nil
}

func workspacesDir(home string) string {
	return filepath.Join(home, "workspaces")
}

// ResolveDir turns (explicit dir, workspace name) into the store directory.
// An explicit dir wins outright (fixtures, tests). Otherwise the workspace
// name is resolved under the stride home, creating the directory on demand.
func ResolveDir(dir, workspace string) (string, error) {
	if strings.TrimSpace(dir) != "" {
		return filepath.Clean(dir), nil
	}
	home, err := HomeDir()
	if err != nil {
		return "", err
	}
	name := strings.TrimSpace(workspace)
	if name == "" {
		name = strings.TrimSpace(os.Getenv("STRIDE_WORKSPACE"))
	}
	if name == "" {
		name = currentWorkspace(home)
	}
	if name == "" {
		name = defaultWorkspace
	}
	if !workspaceNameRe.MatchString(name) {
		return "", fmt.Errorf("invalid workspace name %q", name)
	}
	ws := filepath.Join(workspacesDir(home), name)
	if err := os.MkdirAll(ws, 0o755); err != nil {
		return "", err
	}
	return ws, nil
}

// ListWorkspaces returns the workspace names under home, sorted.
func ListWorkspaces() ([]string, error) {
	home, err := HomeDir()
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(workspacesDir(home))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() && workspaceNameRe.MatchString(e.Name()) {
			out = append(out, e.Name())
		}
	}
	sort.Strings(out)
	return out, nil
}

// CreateWorkspace makes a new empty workspace directory.
func CreateWorkspace(name string) (string, error) {
	name = strings.TrimSpace(name)
	if !workspaceNameRe.MatchString(name) {
		return "", fmt.Errorf("invalid workspace name %q", name)
	}
	home, err := HomeDir()
	if err != nil {
		return "", err
	}
	ws := filepath.Join(workspacesDir(home), name)
	if _, err := os.Stat(ws); err == nil {
		return "", fmt.Errorf("workspace %q already exists", name)
	}
	if err := os.MkdirAll(ws, 0o755); err != nil {
		return "", err
	}
	return ws, nil
}

// UseWorkspace records name as the current workspace.
func UseWorkspace(name string) error {
	name = strings.TrimSpace(name)
	if !workspaceNameRe.MatchString(name) {
		return fmt.Errorf("invalid workspace name %q", name)
	}
	home, err := HomeDir()
	if err != nil {
		return err
	}
	if _, err := os.Stat(filepath.Join(workspacesDir(home), name)); err != nil {
		return fmt.Errorf("workspace %q does not exist", name)
	}
	if err := os.MkdirAll(home, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(home, "current_workspace"), []byte(name+"\n"), 0o644)
}

// CurrentWorkspaceName reports the active workspace name for display.
func CurrentWorkspaceName() string {
	home, err := HomeDir()
	if err != nil {
		return defaultWorkspace
	}
	if name := currentWorkspace(home); name != "" {
		return name
	}
	return defaultWorkspace
}

func currentWorkspace(home string) string {
	b, err := os.ReadFile(filepath.Join(home, "current_workspace"))
	if err != nil {
		return ""
	}
	name := strings.TrimSpace(string(b))
	if !workspaceNameRe.MatchString(name) {
		return ""
	}
	return name
}
