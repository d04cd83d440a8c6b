package changelog

import "strings"

// TypeOther is the changelog type for titles without a recognizable prefix.
const TypeOther = "other"

// Classify derives the changelog type from a PR title using its
// conventional-commit prefix: "fix(auth): y" yields "fix".
func Classify(title string) string {
	prefix, _, found := strings.Cut(title, ":")
	if !found {
		return TypeOther
	}

	prefix, _, _ = strings.Cut(prefix, "(")
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" {
		return TypeOther
	}
	return prefix
}
