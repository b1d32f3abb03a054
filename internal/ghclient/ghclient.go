// Package ghclient reads developer activity from the GitHub REST API.
package ghclient

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/devflow/devflow/internal/contract"
	"github.com/devflow/devflow/schema"
	"github.com/google/go-github/v62/github"
	"golang.org/x/sync/errgroup"
)

// pageSize is the largest page the REST API serves.
const pageSize = 100

// Client is an ActivitySource backed by go-github.
type Client struct {
	gh      *github.Client
	workers int
}

var _ contract.ActivitySource = &Client{} // Compile-time check

// NewClient returns a client authenticated with token. An empty token makes
// unauthenticated requests, which GitHub rate limits heavily.
func NewClient(token string, workers int) *Client {
	gh := github.NewClient(&http.Client{Timeout: 30 * time.Second})
	if token != "" {
		gh = gh.WithAuthToken(token)
	}
	return NewClientFrom(gh, workers)
}

// NewClientFrom wraps an existing go-github client, for example one pointed at
// GitHub Enterprise or a test server.
func NewClientFrom(gh *github.Client, workers int) *Client {
	if workers < 1 {
		workers = 1
	}
	return &Client{gh: gh, workers: workers}
}

// FetchEvents pulls every commit, PR, issue and review event for user in repos
// with since <= At < until. Repositories are fetched concurrently, bounded by
// the worker count. The result is sorted by time.
func (c *Client) FetchEvents(ctx context.Context, user string, repos []string, since, until time.Time) ([]schema.ActivityEvent, error) {
	perRepo := make([][]schema.ActivityEvent, len(repos))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)
	for i, repo := range repos {
		g.Go(func() error {
			owner, name, ok := strings.Cut(repo, "/")
			if !ok {
				return fmt.Errorf("invalid repository '%s'. expected owner/name", repo)
			}
			f := &repoFetcher{gh: c.gh, user: user, owner: owner, name: name, repo: repo, since: since, until: until}
			events, err := f.fetch(ctx)
			if err != nil {
				return err
			}
			contract.LogDebug("Fetched repository activity", "repo", repo, "events", len(events))
			perRepo[i] = events
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var events []schema.ActivityEvent
	for _, e := range perRepo {
		events = append(events, e...)
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].At.Before(events[j].At)
	})
	return events, nil
}

// repoFetcher collects the events of one user in one repository.
type repoFetcher struct {
	gh                *github.Client
	user              string
	owner, name, repo string
	since, until      time.Time
}

func (f *repoFetcher) fetch(ctx context.Context) ([]schema.ActivityEvent, error) {
	var events []schema.ActivityEvent

	commits, err := f.commits(ctx)
	if err != nil {
		return nil, err
	}
	events = append(events, commits...)

	opened, err := f.searchIssues(ctx, "is:pr author:"+f.user, "created", schema.PROpenedEvent, (*github.Issue).GetCreatedAt)
	if err != nil {
		return nil, err
	}
	events = append(events, opened...)

	// A merged PR is closed at its merge time.
	merged, err := f.searchIssues(ctx, "is:pr is:merged author:"+f.user, "merged", schema.PRMergedEvent, (*github.Issue).GetClosedAt)
	if err != nil {
		return nil, err
	}
	events = append(events, merged...)

	closed, err := f.searchIssues(ctx, "is:issue is:closed assignee:"+f.user, "closed", schema.IssueClosedEvent, (*github.Issue).GetClosedAt)
	if err != nil {
		return nil, err
	}
	events = append(events, closed...)

	reviews, err := f.reviews(ctx)
	if err != nil {
		return nil, err
	}
	return append(events, reviews...), nil
}

// inRange reports whether t falls in [since, until).
func (f *repoFetcher) inRange(t time.Time) bool {
	return !t.IsZero() && !t.Before(f.since) && t.Before(f.until)
}

// commits lists the user's commits and fetches each one for its stats and files.
func (f *repoFetcher) commits(ctx context.Context) ([]schema.ActivityEvent, error) {
	opts := &github.CommitsListOptions{
		Author:      f.user,
		Since:       f.since,
		Until:       f.until,
		ListOptions: github.ListOptions{PerPage: pageSize},
	}

	var events []schema.ActivityEvent
	for {
		page, resp, err := f.gh.Repositories.ListCommits(ctx, f.owner, f.name, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list commits for %s: %w", f.repo, err)
		}
		for _, rc := range page {
			full, _, err := f.gh.Repositories.GetCommit(ctx, f.owner, f.name, rc.GetSHA(), nil)
			if err != nil {
				return nil, fmt.Errorf("failed to get commit %s in %s: %w", rc.GetSHA(), f.repo, err)
			}
			at := commitTime(full)
			if !f.inRange(at) {
				continue
			}
			files := make([]string, 0, len(full.Files))
			for _, file := range full.Files {
				files = append(files, file.GetFilename())
			}
			events = append(events, schema.ActivityEvent{
				Kind:       schema.CommitEvent,
				Repository: f.repo,
				At:         at,
				Additions:  full.GetStats().GetAdditions(),
				Deletions:  full.GetStats().GetDeletions(),
				Files:      files,
			})
		}
		if resp == nil || resp.NextPage == 0 {
			return events, nil
		}
		opts.Page = resp.NextPage
	}
}

// commitTime prefers the author date and falls back to the committer date.
func commitTime(rc *github.RepositoryCommit) time.Time {
	if t := rc.GetCommit().GetAuthor().GetDate(); !t.IsZero() {
		return t.Time
	}
	return rc.GetCommit().GetCommitter().GetDate().Time
}

// dateRange renders the search qualifier covering since..until.
func (f *repoFetcher) dateRange(qualifier string) string {
	return fmt.Sprintf("%s:%s..%s", qualifier, f.since.UTC().Format(contract.DateFormat), f.until.UTC().Format(contract.DateFormat))
}

// search runs an issue search scoped to the repository and visits every hit.
func (f *repoFetcher) search(ctx context.Context, query string, visit func(*github.Issue) error) error {
	q := fmt.Sprintf("repo:%s %s", f.repo, query)
	opts := &github.SearchOptions{ListOptions: github.ListOptions{PerPage: pageSize}}
	for {
		result, resp, err := f.gh.Search.Issues(ctx, q, opts)
		if err != nil {
			return fmt.Errorf("failed to search %q: %w", q, err)
		}
		for _, issue := range result.Issues {
			if err := visit(issue); err != nil {
				return err
			}
		}
		if resp == nil || resp.NextPage == 0 {
			return nil
		}
		opts.Page = resp.NextPage
	}
}

// searchIssues turns each search hit into one event stamped by at.
func (f *repoFetcher) searchIssues(ctx context.Context, filter, qualifier string, kind schema.EventKind, at func(*github.Issue) github.Timestamp) ([]schema.ActivityEvent, error) {
	var events []schema.ActivityEvent
	err := f.search(ctx, filter+" "+f.dateRange(qualifier), func(issue *github.Issue) error {
		if t := at(issue).Time; f.inRange(t) {
			events = append(events, schema.ActivityEvent{Kind: kind, Repository: f.repo, At: t})
		}
		return nil
	})
	return events, err
}

// reviews finds PRs the user reviewed and emits one event per submitted review.
func (f *repoFetcher) reviews(ctx context.Context) ([]schema.ActivityEvent, error) {
	var events []schema.ActivityEvent
	query := fmt.Sprintf("is:pr reviewed-by:%s -author:%s %s", f.user, f.user, f.dateRange("updated"))
	err := f.search(ctx, query, func(issue *github.Issue) error {
		opts := &github.ListOptions{PerPage: pageSize}
		for {
			page, resp, err := f.gh.PullRequests.ListReviews(ctx, f.owner, f.name, issue.GetNumber(), opts)
			if err != nil {
				return fmt.Errorf("failed to list reviews of %s#%d: %w", f.repo, issue.GetNumber(), err)
			}
			for _, review := range page {
				if !strings.EqualFold(review.GetUser().GetLogin(), f.user) {
					continue
				}
				if t := review.GetSubmittedAt().Time; f.inRange(t) {
					events = append(events, schema.ActivityEvent{Kind: schema.ReviewEvent, Repository: f.repo, At: t})
				}
			}
			if resp == nil || resp.NextPage == 0 {
				return nil
			}
			opts.Page = resp.NextPage
		}
	})
	return events, err
}
