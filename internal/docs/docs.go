package docs

import (
	"embed"
	"strings"
)

//go:embed content/*.md
var contentFS embed.FS

// Topic is one embedded help page.
type Topic struct {
	Slug  string `json:"slug"`
	Title string `json:"title"`
}

// topics fixes the reading order: setup first, then the editor gestures,
// then the reuse features.
var topics = []Topic{
	{Slug: "getting-started", Title: "Getting started"},
	{Slug: "drag-and-drop", Title: "Drag and drop"},
	{Slug: "templates", Title: "Template sets"},
	{Slug: "workspaces", Title: "Workspaces"},
}

// Topics returns the embedded pages in reading order.
func Topics() []Topic {
	out := make([]Topic, len(topics))
	copy(out, topics)
	return out
}

// Get returns the markdown body for a topic slug.
func Get(slug string) (string, bool) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	for _, t := range topics {
		if t.Slug != slug {
			continue
		}
		b, err := contentFS.ReadFile("content/" + slug + ".md")
		if err != nil {
			return "", false
		}
		return string(b), true
	}
	return "", false
}
