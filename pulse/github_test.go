package pulse

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-github/v63/github"
	"github.com/gorilla/mux"
)

func newGitHubSource(t *testing.T) *GitHubSource {
	t.Helper()
	r := mux.NewRouter()
	r.HandleFunc("/repos/canonical/snapd/milestones", func(w http.ResponseWriter, req *http.Request) {
		ms := []map[string]any{
			{"number": 4, "title": "Pulse 12", "state": "open", "description": "Ship it",
				"created_at": "2024-02-26T09:00:00Z", "due_on": "2024-03-11T08:00:00Z"},
			{"number": 3, "title": "Pulse 11", "state": "closed",
				"created_at": "2024-02-12T09:00:00Z", "due_on": "2024-02-26T08:00:00Z"},
			{"number": 9, "title": "Backlog", "state": "open"},
		}
		if req.URL.Query().Get("state") == "open" {
			ms = []map[string]any{ms[0], ms[2]}
		}
		json.NewEncoder(w).Encode(ms)
	})
	r.HandleFunc("/repos/canonical/snapd/issues", func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Query().Get("milestone") != "4" {
			json.NewEncoder(w).Encode([]any{})
			return
		}
		// two pages to exercise pagination.
		if req.URL.Query().Get("page") == "" {
			next := *req.URL
			q := next.Query()
			q.Set("page", "2")
			next.RawQuery = q.Encode()
			w.Header().Set("Link", fmt.Sprintf(`<http://%s%s>; rel="next"`, req.Host, next.RequestURI()))
			json.NewEncoder(w).Encode([]map[string]any{
				{"number": 20, "title": "Later", "body": "PULSEDESC[12]: Second", "comments": 0,
					"html_url": "https://github.com/canonical/snapd/issues/20"},
			})
			return
		}
		json.NewEncoder(w).Encode([]map[string]any{
			{"number": 3, "title": "Earlier", "body": "", "comments": 1,
				"html_url": "https://github.com/canonical/snapd/issues/3"},
		})
	})
	r.HandleFunc("/repos/canonical/snapd/issues/{number}/comments", func(w http.ResponseWriter, req *http.Request) {
		json.NewEncoder(w).Encode([]map[string]any{
			{"id": 1, "body": "PULSEDESC: First", "created_at": "2024-03-01T12:00:00Z"},
		})
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	src, err := NewGitHubSource(context.Background(), "token", "canonical/snapd")
	if err != nil {
		t.Fatal(err)
	}
	u, err := url.Parse(srv.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	src.Client = github.NewClient(nil)
	src.Client.BaseURL = u
	return src
}

func TestGitHubSource(t *testing.T) {
	src := newGitHubSource(t)
	r, err := Build(context.Background(), src, Latest, Options{Keys: true})
	if err != nil {
		t.Fatal(err)
	}
	want := "## Pulse 12\n" +
		"Dates: February 26 – March 11\n" +
		"Ship it\n" +
		"\n" +
		`* \[[snapd#3](https://github.com/canonical/snapd/issues/3)\] First` + "\n" +
		`* \[[snapd#20](https://github.com/canonical/snapd/issues/20)\] Second` + "\n"
	if got := r.Markdown(); got != want {
		t.Errorf("unexpected report:\n%s\nwant:\n%s", got, want)
	}
}

func TestNewGitHubSourceBadRepo(t *testing.T) {
	for _, repo := range []string{"", "snapd", "/snapd", "canonical/"} {
		if _, err := NewGitHubSource(context.Background(), "", repo); err == nil || !strings.Contains(err.Error(), "owner/name") {
			t.Errorf("repo %q: expected error, got %v", repo, err)
		}
	}
}
