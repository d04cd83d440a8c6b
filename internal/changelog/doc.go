// Package changelog turns merged pull requests into release changelogs.
//
// This package implements:
//   - Entry, the normalized view of one merged pull request
//   - conventional-commit style classification of PR titles
//   - four independent renderers: GitHub release notes (Markdown),
//     Debian changelog stanza, RPM %changelog block and JSON
//
// Renderers are plain functions over an entry slice and their parameters.
// They never mutate the input slice and produce identical output for
// identical input.
package changelog
