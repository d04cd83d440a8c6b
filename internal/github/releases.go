package github

import (
	"context"
	"net/url"
)

// release holds the fields read from a release object. The creation date is
// kept as the raw string so it can be validated and reported verbatim.
type release struct {
	TagName   string  `json:"tag_name"`
	CreatedAt *string `json:"created_at"`
}

// ReleaseDate returns the creation timestamp of the release tagged tag.
// A missing or malformed timestamp yields a *DateFormatError.
func (c *Client) ReleaseDate(ctx context.Context, repo Repository, tag string) (string, error) {
	var rel release
	if err := c.get(ctx, repo, "/releases/tags/"+url.PathEscape(tag), &rel); err != nil {
		return "", err
	}

	if rel.CreatedAt == nil || !ValidTimestamp(*rel.CreatedAt) {
		dateErr := &DateFormatError{Repository: repo.String(), Tag: tag}
		if rel.CreatedAt != nil {
			dateErr.Value = *rel.CreatedAt
		}
		return "", dateErr
	}

	c.logger.DebugContext(ctx, "resolved release date",
		"repository", repo.String(), "tag", tag, "created_at", *rel.CreatedAt)
	return *rel.CreatedAt, nil
}

// LatestReleaseTag returns the tag of the most recent release, or
// ErrNoReleases if the repository has none.
func (c *Client) LatestReleaseTag(ctx context.Context, repo Repository) (string, error) {
	var releases []release
	if err := c.get(ctx, repo, "/releases?per_page=1", &releases); err != nil {
		return "", err
	}
	if len(releases) == 0 || releases[0].TagName == "" {
		return "", ErrNoReleases
	}
	return releases[0].TagName, nil
}
