package ghclient

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/devflow/devflow/schema"
	"github.com/google/go-github/v62/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	since = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	until = time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
)

// fakeGitHub serves the handful of REST endpoints the client calls.
type fakeGitHub struct {
	mu      sync.Mutex
	queries []string
}

func (f *fakeGitHub) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /repos/octo/hello/commits", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "octocat", r.URL.Query().Get("author"))
		if r.URL.Query().Get("page") == "2" {
			fmt.Fprint(w, `[{"sha":"c2"}]`)
			return
		}
		next := fmt.Sprintf("<http://%s/repos/octo/hello/commits?page=2>; rel=\"next\"", r.Host)
		w.Header().Set("Link", next)
		fmt.Fprint(w, `[{"sha":"c1"},{"sha":"old"}]`)
	})
	mux.HandleFunc("GET /repos/octo/hello/commits/{sha}", func(w http.ResponseWriter, r *http.Request) {
		switch r.PathValue("sha") {
		case "c1":
			fmt.Fprint(w, `{"sha":"c1","commit":{"author":{"date":"2024-03-09T10:00:00Z"}},
				"stats":{"additions":10,"deletions":2},"files":[{"filename":"main.go"},{"filename":"README.md"}]}`)
		case "c2":
			fmt.Fprint(w, `{"sha":"c2","commit":{"committer":{"date":"2024-03-10T08:00:00Z"}},"stats":{"additions":5}}`)
		default:
			fmt.Fprint(w, `{"sha":"old","commit":{"author":{"date":"2024-02-01T10:00:00Z"}}}`)
		}
	})
	mux.HandleFunc("GET /repos/octo/empty/commits", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `[]`)
	})
	mux.HandleFunc("GET /repos/octo/hello/pulls/7/reviews", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `[
			{"user":{"login":"OctoCat"},"state":"APPROVED","submitted_at":"2024-03-11T16:00:00Z"},
			{"user":{"login":"hubot"},"state":"COMMENTED","submitted_at":"2024-03-11T17:00:00Z"},
			{"user":{"login":"octocat"},"state":"COMMENTED","submitted_at":"2024-02-20T17:00:00Z"}
		]`)
	})
	mux.HandleFunc("GET /search/issues", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		f.mu.Lock()
		f.queries = append(f.queries, q)
		f.mu.Unlock()

		if !strings.Contains(q, "repo:octo/hello") {
			fmt.Fprint(w, `{"total_count":0,"items":[]}`)
			return
		}
		switch {
		case strings.Contains(q, "reviewed-by:"):
			fmt.Fprint(w, `{"total_count":1,"items":[{"number":7}]}`)
		case strings.Contains(q, "is:merged"):
			fmt.Fprint(w, `{"total_count":1,"items":[{"number":3,"created_at":"2024-03-02T09:00:00Z","closed_at":"2024-03-12T12:00:00Z"}]}`)
		case strings.Contains(q, "is:issue"):
			fmt.Fprint(w, `{"total_count":1,"items":[{"number":5,"closed_at":"2024-03-13T12:00:00Z"}]}`)
		default:
			fmt.Fprint(w, `{"total_count":2,"items":[
				{"number":3,"created_at":"2024-03-02T09:00:00Z"},
				{"number":9,"created_at":"2024-02-27T09:00:00Z"}
			]}`)
		}
	})
	return mux
}

func newTestClient(t *testing.T, h http.Handler, workers int) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	gh := github.NewClient(srv.Client())
	base, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)
	gh.BaseURL = base
	return NewClientFrom(gh, workers)
}

func TestFetchEvents(t *testing.T) {
	fake := &fakeGitHub{}
	client := newTestClient(t, fake.handler(t), 2)

	events, err := client.FetchEvents(context.Background(), "octocat", []string{"octo/hello", "octo/empty"}, since, until)
	require.NoError(t, err)

	kinds := make([]schema.EventKind, 0, len(events))
	for _, e := range events {
		kinds = append(kinds, e.Kind)
		assert.Equal(t, "octo/hello", e.Repository)
	}
	assert.Equal(t, []schema.EventKind{
		schema.PROpenedEvent,    // 03-02
		schema.CommitEvent,      // 03-09
		schema.CommitEvent,      // 03-10
		schema.ReviewEvent,      // 03-11
		schema.PRMergedEvent,    // 03-12
		schema.IssueClosedEvent, // 03-13
	}, kinds)

	first := events[1]
	assert.Equal(t, time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC), first.At.UTC())
	assert.Equal(t, 10, first.Additions)
	assert.Equal(t, 2, first.Deletions)
	assert.Equal(t, []string{"main.go", "README.md"}, first.Files)

	second := events[2]
	assert.Equal(t, time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC), second.At.UTC())
	assert.Equal(t, 5, second.Additions)

	fake.mu.Lock()
	defer fake.mu.Unlock()
	assert.Contains(t, fake.queries, "repo:octo/hello is:pr author:octocat created:2024-03-01..2024-03-15")
	assert.Contains(t, fake.queries, "repo:octo/empty is:issue is:closed assignee:octocat closed:2024-03-01..2024-03-15")
}

func TestFetchEventsErrors(t *testing.T) {
	t.Run("invalid repository", func(t *testing.T) {
		client := newTestClient(t, http.NewServeMux(), 1)
		_, err := client.FetchEvents(context.Background(), "octocat", []string{"nope"}, since, until)
		assert.ErrorContains(t, err, "expected owner/name")
	})

	t.Run("api failure", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprint(w, `{"message":"boom"}`)
		})
		client := newTestClient(t, mux, 1)
		_, err := client.FetchEvents(context.Background(), "octocat", []string{"octo/hello"}, since, until)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to list commits for octo/hello")
	})
}

func TestNewClient(t *testing.T) {
	c := NewClient("", 0)
	assert.Equal(t, 1, c.workers)
	assert.NotNil(t, c.gh)

	c = NewClient("secret", 4)
	assert.Equal(t, 4, c.workers)
}
