package github

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	ghapi "github.com/google/go-github/v72/github"

	"github.com/gnosis/gnosisvpn-release/internal/changelog"
)

// Window is the merge-time range of a component: Start is exclusive and End
// is inclusive.
type Window struct {
	Start time.Time
	End   time.Time
}

// Empty reports whether the window cannot contain any merge.
func (w Window) Empty() bool {
	return w.Start.IsZero() || w.End.IsZero() || w.Start.Equal(w.End)
}

// Contains reports whether t lies in (Start, End].
func (w Window) Contains(t time.Time) bool {
	return t.After(w.Start) && !t.After(w.End)
}

func (w Window) String() string {
	return fmt.Sprintf("(%s, %s]", w.Start.Format(time.RFC3339), w.End.Format(time.RFC3339))
}

// pullsPerPage is the page size of the single pull request listing. Only the
// first page is read.
const pullsPerPage = 100

// MergedPullRequests lists pull requests closed into branch and returns those
// merged inside window as entries tagged with component. An empty window
// returns nil without contacting the API.
func (c *Client) MergedPullRequests(ctx context.Context, repo Repository, window Window, component changelog.Component, branch string) ([]changelog.Entry, error) {
	if window.Empty() {
		c.logger.DebugContext(ctx, "skipping empty window",
			"repository", repo.String(), "component", component)
		return nil, nil
	}

	endpoint := fmt.Sprintf("/pulls?state=closed&base=%s&sort=updated&direction=desc&per_page=%d",
		url.QueryEscape(branch), pullsPerPage)

	var pulls []*ghapi.PullRequest
	if err := c.get(ctx, repo, endpoint, &pulls); err != nil {
		return nil, err
	}

	var entries []changelog.Entry
	for _, pr := range pulls {
		if pr == nil || pr.MergedAt == nil || !window.Contains(pr.MergedAt.Time) {
			continue
		}
		entries = append(entries, c.newEntry(pr, component))
	}

	c.logger.InfoContext(ctx, "collected merged pull requests",
		"repository", repo.String(),
		"component", component,
		"window", window.String(),
		"listed", len(pulls),
		"merged", len(entries))
	return entries, nil
}

// newEntry normalizes a pull request into a changelog entry.
func (c *Client) newEntry(pr *ghapi.PullRequest, component changelog.Component) changelog.Entry {
	labels := make([]string, 0, len(pr.Labels))
	for _, l := range pr.Labels {
		labels = append(labels, l.GetName())
	}

	date := c.now().Format(time.DateOnly)
	if pr.MergedAt != nil {
		date = pr.MergedAt.Format(time.DateOnly)
	}

	return changelog.Entry{
		ID:        strconv.Itoa(pr.GetNumber()),
		Title:     pr.GetTitle(),
		Author:    pr.GetUser().GetLogin(),
		Labels:    strings.Join(labels, ","),
		State:     strings.ToLower(pr.GetState()),
		Date:      date,
		Type:      changelog.Classify(pr.GetTitle()),
		Component: component,
	}
}
