package changelog

import (
	"cmp"
	"fmt"
	"io"
	"regexp"
	"slices"
)

// scopedPrefixPattern matches a leading "type(scope): " prefix, greedy up to
// the last "): " in the title.
var scopedPrefixPattern = regexp.MustCompile(`^.*\): `)

// RenderRPM writes an RPM %changelog block. Entries are ordered by date and
// author, newest first, and grouped under one header per (date, author).
func RenderRPM(w io.Writer, entries []Entry, version string) error {
	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b Entry) int {
		if c := cmp.Compare(b.Date, a.Date); c != 0 {
			return c
		}
		return cmp.Compare(b.Author, a.Author)
	})

	for i, e := range sorted {
		if i == 0 || e.Date != sorted[i-1].Date || e.Author != sorted[i-1].Author {
			if i > 0 {
				if err := writeLines(w, ""); err != nil {
					return err
				}
			}
			header := fmt.Sprintf("* %s %s - %s", e.Date, e.Author, version)
			if err := writeLines(w, header); err != nil {
				return fmt.Errorf("writing header for %s: %w", e.Date, err)
			}
		}

		line := fmt.Sprintf("- [%s][%s] %s in #%s", e.Type, e.Component, CleanTitle(e.Title), e.ID)
		if err := writeLines(w, line); err != nil {
			return fmt.Errorf("writing entry #%s: %w", e.ID, err)
		}
	}

	return nil
}

// CleanTitle strips a scoped conventional-commit prefix ("feat(ui): ").
// Unscoped prefixes such as "feat: " are kept.
func CleanTitle(title string) string {
	return scopedPrefixPattern.ReplaceAllString(title, "")
}
