package changelog

import (
	"fmt"
	"io"
)

const githubURL = "https://github.com"

// RenderGitHub writes GitHub release notes: an optional component update
// block followed by one section per non-empty category.
func RenderGitHub(w io.Writer, entries []Entry, updates []VersionUpdate) error {
	if err := writeLines(w, "## What's Changed"); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	if err := renderComponentUpdates(w, updates); err != nil {
		return fmt.Errorf("writing component updates: %w", err)
	}

	grouped := make(map[Section][]Entry)
	for _, e := range entries {
		s := SectionFor(e.Type)
		grouped[s] = append(grouped[s], e)
	}

	for _, s := range Sections() {
		if len(grouped[s]) == 0 {
			continue
		}
		if err := renderSection(w, s, grouped[s]); err != nil {
			return fmt.Errorf("writing section %s: %w", s, err)
		}
	}

	return nil
}

func renderComponentUpdates(w io.Writer, updates []VersionUpdate) error {
	var changed []VersionUpdate
	for _, u := range updates {
		if u.Changed() {
			changed = append(changed, u)
		}
	}
	if len(changed) == 0 {
		return nil
	}

	if err := writeLines(w, "", "### Component Updates", ""); err != nil {
		return err
	}
	for _, u := range changed {
		line := fmt.Sprintf("- %s: [%s](%s) → [%s](%s)",
			u.Component,
			u.Previous, tagURL(u.Repository, u.Previous),
			u.Current, tagURL(u.Repository, u.Current))
		if err := writeLines(w, line); err != nil {
			return err
		}
	}
	return nil
}

func renderSection(w io.Writer, s Section, entries []Entry) error {
	if err := writeLines(w, "", "### "+s.String(), ""); err != nil {
		return err
	}
	for _, e := range entries {
		line := fmt.Sprintf("- [%s] %s by @%s in #%s", e.Component, e.Title, e.Author, e.ID)
		if err := writeLines(w, line); err != nil {
			return err
		}
	}
	return nil
}

// tagURL links to the release page of tag in repository ("owner/name").
func tagURL(repository, tag string) string {
	return fmt.Sprintf("%s/%s/releases/tag/%s", githubURL, repository, tag)
}
