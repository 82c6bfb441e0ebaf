package main

import (
	"reflect"
	"testing"
)

func TestRewriteDirectGoalLookupArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "no args",
			in:   []string{"stride"},
			want: []string{"stride"},
		},
		{
			name: "direct goal id first token",
			in:   []string{"stride", "goal-abc123"},
			want: []string{"stride", "goals", "show", "goal-abc123"},
		},
		{
			name: "direct goal id after value flag",
			in:   []string{"stride", "--dir", "./tmp-test-ws", "goal-abc123"},
			want: []string{"stride", "--dir", "./tmp-test-ws", "goals", "show", "goal-abc123"},
		},
		{
			name: "direct goal id after equals flag",
			in:   []string{"stride", "--dir=./tmp-test-ws", "goal-abc123"},
			want: []string{"stride", "--dir=./tmp-test-ws", "goals", "show", "goal-abc123"},
		},
		{
			name: "direct goal id after bool flag",
			in:   []string{"stride", "--pretty", "goal-abc123"},
			want: []string{"stride", "--pretty", "goals", "show", "goal-abc123"},
		},
		{
			name: "direct goal id after double dash",
			in:   []string{"stride", "--dir", "./tmp-test-ws", "--", "goal-abc123"},
			want: []string{"stride", "--dir", "./tmp-test-ws", "--", "goals", "show", "goal-abc123"},
		},
		{
			name: "normal subcommand not rewritten",
			in:   []string{"stride", "goals", "show", "goal-abc123"},
			want: []string{"stride", "goals", "show", "goal-abc123"},
		},
		{
			name: "unknown command not rewritten",
			in:   []string{"stride", "wat"},
			want: []string{"stride", "wat"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := rewriteDirectGoalLookupArgs(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("rewriteDirectGoalLookupArgs:\n got: %#v\nwant: %#v", got, tt.want)
			}
		})
	}
}
