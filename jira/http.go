package jira

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"strconv"
	"strings"
)

const (
	apiPath   = "rest/api/2"
	agilePath = "rest/agile/1.0"
)

// maxResults is the page size requested from paginated endpoints.
// Jira may return fewer.
const maxResults = 50

type Client struct {
	*http.Client
	// BaseURL is the root of the Jira server,
	// such as https://example.atlassian.net.
	BaseURL  *url.URL
	Username string
	Password string
	Debug    bool
}

// Permalink returns the browsable URL of the issue with the given key.
func (c *Client) Permalink(key string) string {
	u := *c.BaseURL
	u.Path = path.Join(u.Path, "browse", key)
	return u.String()
}

// SearchIssues returns all issues matching the JQL query.
// If fields are given, only those fields are requested from Jira;
// others are left empty in the returned issues.
func (c *Client) SearchIssues(ctx context.Context, query string, fields ...string) ([]Issue, error) {
	var issues []Issue
	for {
		q := make(url.Values)
		q.Set("jql", query)
		q.Set("startAt", strconv.Itoa(len(issues)))
		q.Set("maxResults", strconv.Itoa(maxResults))
		if len(fields) > 0 {
			q.Set("fields", strings.Join(fields, ","))
		}
		page := struct {
			StartAt int
			Total   int
			Issues  []Issue
		}{}
		if err := c.get(ctx, c.endpoint(apiPath, "search", q), &page); err != nil {
			return nil, fmt.Errorf("search issues: %w", err)
		}
		issues = append(issues, page.Issues...)
		if len(page.Issues) == 0 || len(issues) >= page.Total {
			return issues, nil
		}
	}
}

func (c *Client) Issue(ctx context.Context, key string) (*Issue, error) {
	var is Issue
	if err := c.get(ctx, c.endpoint(apiPath, path.Join("issue", key), nil), &is); err != nil {
		return nil, fmt.Errorf("get issue %s: %w", key, err)
	}
	return &is, nil
}

func (c *Client) Comment(ctx context.Context, ikey, id string) (*Comment, error) {
	var cm Comment
	if err := c.get(ctx, c.endpoint(apiPath, path.Join("issue", ikey, "comment", id), nil), &cm); err != nil {
		return nil, fmt.Errorf("get comment %s from %s: %w", id, ikey, err)
	}
	return &cm, nil
}

// Sprints returns the sprints of the agile board.
// If states are given, such as "active" or "closed",
// only sprints in those states are returned.
func (c *Client) Sprints(ctx context.Context, board int, states ...string) ([]Sprint, error) {
	p := path.Join("board", strconv.Itoa(board), "sprint")
	var sprints []Sprint
	for {
		q := make(url.Values)
		q.Set("startAt", strconv.Itoa(len(sprints)))
		q.Set("maxResults", strconv.Itoa(maxResults))
		if len(states) > 0 {
			q.Set("state", strings.Join(states, ","))
		}
		page := struct {
			IsLast bool
			Values []Sprint
		}{}
		if err := c.get(ctx, c.endpoint(agilePath, p, q), &page); err != nil {
			return nil, fmt.Errorf("board %d sprints: %w", board, err)
		}
		sprints = append(sprints, page.Values...)
		if page.IsLast || len(page.Values) == 0 {
			return sprints, nil
		}
	}
}

// SprintsByName returns every sprint of the board keyed by name.
func (c *Client) SprintsByName(ctx context.Context, board int) (map[string]Sprint, error) {
	sprints, err := c.Sprints(ctx, board)
	if err != nil {
		return nil, err
	}
	m := make(map[string]Sprint, len(sprints))
	for _, s := range sprints {
		m[s.Name] = s
	}
	return m, nil
}

func (c *Client) endpoint(root, p string, q url.Values) *url.URL {
	u := *c.BaseURL
	u.Path = path.Join(u.Path, root, p)
	if q != nil {
		u.RawQuery = q.Encode()
	}
	return &u
}

func (c *Client) get(ctx context.Context, u *url.URL, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	if c.Client == nil {
		c.Client = http.DefaultClient
	}
	if c.Username != "" || c.Password != "" {
		req.SetBasicAuth(c.Username, c.Password)
	}
	req.Header.Set("Accept", "application/json")
	if c.Debug {
		fmt.Fprintln(os.Stderr, req.Method, req.URL)
	}
	resp, err := c.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		msg := apiError(resp.Body)
		if msg == "" {
			return nil, fmt.Errorf("%s %s: non-ok status: %s", req.Method, req.URL, resp.Status)
		}
		return nil, fmt.Errorf("%s %s: %s: %s", req.Method, req.URL, resp.Status, msg)
	}
	return resp, nil
}

// apiError returns the error messages Jira sends in the body of a failed request.
func apiError(r io.Reader) string {
	var e struct {
		ErrorMessages []string
		Errors        map[string]string
	}
	if err := json.NewDecoder(r).Decode(&e); err != nil {
		return ""
	}
	msgs := e.ErrorMessages
	for k, v := range e.Errors {
		msgs = append(msgs, k+": "+v)
	}
	return strings.Join(msgs, "; ")
}
