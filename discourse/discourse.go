// Package discourse is a minimal client for posting to Discourse forums.
//
// https://docs.discourse.org/
package discourse

import (
	"bytes"
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

// Error is the error body returned by Discourse for failed requests.
type Error struct {
	Errors    []string `json:"errors"`
	ErrorType string   `json:"error_type"`
}

func (e *Error) Error() string {
	if len(e.Errors) == 0 {
		if e.ErrorType != "" {
			return e.ErrorType
		}
		return "unknown"
	}
	return strings.Join(e.Errors, "; ")
}

type Post struct {
	ID         int    `json:"id"`
	TopicID    int    `json:"topic_id"`
	TopicSlug  string `json:"topic_slug"`
	PostNumber int    `json:"post_number"`
	Raw        string `json:"raw"`
	Username   string `json:"username"`
}

type Topic struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

type Client struct {
	*http.Client
	BaseURL  *url.URL
	Username string
	Key      string
	Debug    bool
}

// URL returns the address of the post on the forum.
func (c *Client) URL(p *Post) string {
	return c.link("t", p.TopicSlug, strconv.Itoa(p.TopicID), strconv.Itoa(p.PostNumber))
}

// UserAdminURL returns the address of the admin page of a forum user.
func (c *Client) UserAdminURL(id int, username string) string {
	return c.link("admin", "users", strconv.Itoa(id), username)
}

func (c *Client) link(elem ...string) string {
	u := *c.BaseURL
	u.Path = path.Join(append([]string{u.Path}, elem...)...)
	return u.String()
}

// CreatePost replies to the topic with raw, the Markdown text of the post.
func (c *Client) CreatePost(ctx context.Context, topic int, raw string) (*Post, error) {
	m := map[string]any{
		"topic_id": topic,
		"raw":      raw,
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	resp, err := c.post(ctx, "posts.json", bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	var p Post
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("decode created post: %w", err)
	}
	return &p, nil
}

func (c *Client) Topic(ctx context.Context, id int) (*Topic, error) {
	resp, err := c.get(ctx, path.Join("t", strconv.Itoa(id)+".json"))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	var t Topic
	if err := json.NewDecoder(resp.Body).Decode(&t); err != nil {
		return nil, fmt.Errorf("decode topic: %w", err)
	}
	return &t, nil
}

func (c *Client) get(ctx context.Context, p string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.link(p), nil)
	if err != nil {
		return nil, err
	}
	return c.do(req)
}

func (c *Client) post(ctx context.Context, p string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.link(p), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	if c.Client == nil {
		c.Client = http.DefaultClient
	}
	if c.Key != "" {
		req.Header.Set("Api-Key", c.Key)
		req.Header.Set("Api-Username", c.Username)
	}
	req.Header.Set("Accept", "application/json")
	if c.Debug {
		fmt.Fprintln(os.Stderr, req.Method, req.URL)
	}
	resp, err := c.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		defer resp.Body.Close()
		var e Error
		if err := json.NewDecoder(resp.Body).Decode(&e); err != nil {
			return nil, fmt.Errorf("%s %s: %s: decode error message: %w", req.Method, req.URL, resp.Status, err)
		}
		return nil, fmt.Errorf("%s %s: %s: %w", req.Method, req.URL, resp.Status, &e)
	}
	return resp, nil
}
