package cli

import (
	"bytes"
	"encoding/json"
	"testing"
)

// run executes the root command in-process and decodes the JSON envelope.
func run(t *testing.T, args ...string) map[string]any {
	t.Helper()
	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("stride %v: %v\nstderr: %s", args, err, errOut.String())
	}
	var env map[string]any
	if err := json.Unmarshal(out.Bytes(), &env); err != nil {
		t.Fatalf("stride %v: bad JSON: %v\nstdout: %s", args, err, out.String())
	}
	if _, ok := env["data"]; !ok {
		t.Fatalf("stride %v: envelope missing data: %s", args, out.String())
	}
	return env
}

func mustFail(t *testing.T, args ...string) {
	t.Helper()
	cmd := NewRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	if err := cmd.Execute(); err == nil {
		t.Fatalf("stride %v: expected failure", args)
	}
}

func stepDescs(t *testing.T, env map[string]any) []string {
	t.Helper()
	items, ok := env["data"].([]any)
	if !ok {
		t.Fatalf("data is not a list: %#v", env["data"])
	}
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.(map[string]any)["description"].(string)
	}
	return out
}

func wantOrder(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("order = %v; want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v; want %v", got, want)
		}
	}
}

func TestGoalAndStepFlow(t *testing.T) {
	dir := t.TempDir()

	run(t, "--dir", dir, "goals", "create", "Marathon", "--notes", "spring race")
	run(t, "--dir", dir, "steps", "add", "Marathon", "Buy shoes", "Plan route", "First 5k")

	list := run(t, "--dir", dir, "steps", "list", "Marathon")
	wantOrder(t, stepDescs(t, list), []string{"Buy shoes", "Plan route", "First 5k"})

	// Move the last step to the top.
	moved := run(t, "--dir", dir, "steps", "move", "Marathon", "3", "1")
	wantOrder(t, stepDescs(t, moved), []string{"First 5k", "Buy shoes", "Plan route"})

	// And down past its old slot.
	moved = run(t, "--dir", dir, "steps", "move", "Marathon", "1", "3")
	wantOrder(t, stepDescs(t, moved), []string{"Buy shoes", "Plan route", "First 5k"})

	done := run(t, "--dir", dir, "steps", "done", "Marathon", "1")
	if !done["data"].([]any)[0].(map[string]any)["completed"].(bool) {
		t.Fatal("step 1 must be completed")
	}

	mustFail(t, "--dir", dir, "steps", "move", "Marathon", "9", "1")
	mustFail(t, "--dir", dir, "steps", "list", "no-such-goal")
}

func TestArchiveDedupAndRestore(t *testing.T) {
	dir := t.TempDir()

	run(t, "--dir", dir, "goals", "create", "Marathon")
	run(t, "--dir", dir, "steps", "add", "Marathon", "Buy shoes", "Plan route")
	run(t, "--dir", dir, "archive", "add", "Plan route")

	// Archiving a step whose description is already archived: the archive
	// keeps one copy, the step still leaves the goal.
	env := run(t, "--dir", dir, "steps", "archive", "Marathon", "2")
	meta := env["meta"].(map[string]any)
	if meta["skippedDuplicates"].(float64) != 1 {
		t.Fatalf("meta = %v; want one skipped duplicate", meta)
	}
	if got := len(env["data"].([]any)); got != 1 {
		t.Fatalf("archive len = %d; want 1", got)
	}
	list := run(t, "--dir", dir, "steps", "list", "Marathon")
	wantOrder(t, stepDescs(t, list), []string{"Buy shoes"})

	// Round trip: restore moves the item back as a step and out of the
	// archive.
	run(t, "--dir", dir, "archive", "restore", "1", "--goal", "Marathon")
	list = run(t, "--dir", dir, "steps", "list", "Marathon")
	wantOrder(t, stepDescs(t, list), []string{"Buy shoes", "Plan route"})
	if got := len(run(t, "--dir", dir, "archive", "list")["data"].([]any)); got != 0 {
		t.Fatalf("archive len = %d after restore; want 0", got)
	}
}

func TestTemplateFoldAndApply(t *testing.T) {
	dir := t.TempDir()

	run(t, "--dir", dir, "goals", "create", "Morning")
	run(t, "--dir", dir, "steps", "add", "Morning", "Wake up", "Coffee", "Stretch")

	// Folding copies: the goal keeps its steps.
	env := run(t, "--dir", dir, "templates", "create", "Routine", "1,2", "--goal", "Morning")
	set := env["data"].(map[string]any)
	if set["name"].(string) != "Routine" {
		t.Fatalf("template = %v", set)
	}
	if got := len(set["steps"].([]any)); got != 2 {
		t.Fatalf("template steps = %d; want 2", got)
	}
	list := run(t, "--dir", dir, "steps", "list", "Morning")
	if got := len(list["data"].([]any)); got != 3 {
		t.Fatalf("source steps = %d; folding must copy, not move", got)
	}

	run(t, "--dir", dir, "goals", "create", "Trip")
	applied := run(t, "--dir", dir, "templates", "apply", "Routine", "--goal", "Trip")
	wantOrder(t, stepDescs(t, applied), []string{"Wake up", "Coffee"})
}

func TestEmptyCollectionsListAsArrays(t *testing.T) {
	dir := t.TempDir()
	run(t, "--dir", dir, "goals", "create", "Marathon")

	for _, args := range [][]string{
		{"archive", "list"},
		{"steps", "list", "Marathon"},
		{"templates", "list"},
		{"tags", "list"},
	} {
		env := run(t, append([]string{"--dir", dir}, args...)...)
		if _, ok := env["data"].([]any); !ok {
			t.Fatalf("stride %v: empty data = %#v; want a JSON array", args, env["data"])
		}
	}
}

func TestGoalArchiveHidesFromList(t *testing.T) {
	dir := t.TempDir()

	run(t, "--dir", dir, "goals", "create", "Marathon")
	run(t, "--dir", dir, "goals", "create", "Old project")
	run(t, "--dir", dir, "steps", "add", "Old project", "Leftover step")
	run(t, "--dir", dir, "goals", "use", "Old project")

	run(t, "--dir", dir, "goals", "archive", "Old project")
	if got := len(run(t, "--dir", dir, "goals", "list")["data"].([]any)); got != 1 {
		t.Fatalf("visible goals = %d; want 1", got)
	}
	if got := len(run(t, "--dir", dir, "goals", "list", "--all")["data"].([]any)); got != 2 {
		t.Fatalf("all goals = %d; want 2", got)
	}
	// Archiving the current goal clears the TUI's open-goal pointer.
	for _, it := range run(t, "--dir", dir, "goals", "list", "--all")["data"].([]any) {
		if it.(map[string]any)["current"].(bool) {
			t.Fatalf("archived goal still current: %v", it)
		}
	}

	// Steps survive the round trip.
	run(t, "--dir", dir, "goals", "unarchive", "Old project")
	list := run(t, "--dir", dir, "steps", "list", "Old project")
	wantOrder(t, stepDescs(t, list), []string{"Leftover step"})
}

func TestTagsFlow(t *testing.T) {
	dir := t.TempDir()

	run(t, "--dir", dir, "goals", "create", "Marathon")
	run(t, "--dir", dir, "goals", "tag", "Marathon", "health")

	tags := run(t, "--dir", dir, "tags", "list")["data"].([]any)
	if len(tags) != 1 {
		t.Fatalf("tags = %v; want the auto-created tag", tags)
	}
	if tags[0].(map[string]any)["uses"].(float64) != 1 {
		t.Fatalf("tag uses = %v; want 1", tags[0])
	}

	run(t, "--dir", dir, "tags", "rename", "health", "fitness")
	goals := run(t, "--dir", dir, "goals", "list", "--tag", "fitness")["data"].([]any)
	if len(goals) != 1 {
		t.Fatalf("rename must follow through to goal tags: %v", goals)
	}

	run(t, "--dir", dir, "goals", "untag", "Marathon", "fitness")
	goals = run(t, "--dir", dir, "goals", "list", "--tag", "fitness")["data"].([]any)
	if len(goals) != 0 {
		t.Fatalf("untag must remove the goal from the filter: %v", goals)
	}
}

func TestDocsTopics(t *testing.T) {
	topics := run(t, "docs")["data"].(map[string]any)["topics"].([]any)
	if len(topics) == 0 {
		t.Fatal("docs must ship at least one topic")
	}
	if got := topics[0].(map[string]any)["slug"].(string); got != "getting-started" {
		t.Fatalf("first topic = %q; the reading order must start at getting-started", got)
	}
	body := run(t, "docs", "drag-and-drop")["data"].(map[string]any)["markdown"].(string)
	if body == "" {
		t.Fatal("topic body must not be empty")
	}
	mustFail(t, "docs", "no-such-topic")
}

func TestWorkspaceCommands(t *testing.T) {
	t.Setenv("STRIDE_HOME", t.TempDir())
	t.Setenv("STRIDE_WORKSPACE", "")

	run(t, "workspace", "create", "side", "--use")
	cur := run(t, "workspace", "current")["data"].(map[string]any)
	if cur["current"].(string) != "side" {
		t.Fatalf("current = %v; want side", cur)
	}

	// Goals land in the selected workspace, not in default.
	run(t, "goals", "create", "Side quest")
	if got := len(run(t, "goals", "list")["data"].([]any)); got != 1 {
		t.Fatalf("side workspace goals = %d; want 1", got)
	}
	if got := len(run(t, "--workspace", "default", "goals", "list")["data"].([]any)); got != 0 {
		t.Fatalf("default workspace goals = %d; want 0", got)
	}
}
