package github

import (
	"fmt"
	"net/url"
	"strings"
)

// Repository identifies a GitHub repository.
type Repository struct {
	Owner string
	Name  string
}

// ParseRepository parses an "owner/name" slug.
func ParseRepository(s string) (Repository, error) {
	owner, name, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return Repository{}, fmt.Errorf("invalid repository %q: expected owner/name", s)
	}
	return Repository{Owner: owner, Name: name}, nil
}

// String returns the "owner/name" slug.
func (r Repository) String() string {
	return r.Owner + "/" + r.Name
}

// path returns the API path prefix for the repository.
func (r Repository) path() string {
	return "repos/" + url.PathEscape(r.Owner) + "/" + url.PathEscape(r.Name)
}
