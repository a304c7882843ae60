package jira

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"olowe.co/compulsor/jira/jiratest"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	srv := jiratest.NewServer("testdata")
	t.Cleanup(srv.Close)
	u, err := url.Parse(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	return &Client{BaseURL: u, Username: "test", Password: "secret"}
}

func TestGet(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	issues, err := client.SearchIssues(ctx, `project = "TEST"`, "description", "comment")
	if err != nil {
		t.Fatal(err)
	}
	if len(issues) != 2 {
		t.Fatalf("got %d issues across pages, want 2", len(issues))
	}
	if issues[0].Key != "TEST-1" || issues[1].Key != "TEST-2" {
		t.Errorf("got issues %s, %s", issues[0].Key, issues[1].Key)
	}

	is, err := client.Issue(ctx, "TEST-1")
	if err != nil {
		t.Fatal(err)
	}
	if is.Summary != "Publish snap for the new kernel" {
		t.Errorf("unexpected summary %q", is.Summary)
	}

	c, err := client.Comment(ctx, "TEST-1", "69")
	if err != nil {
		t.Fatal(err)
	}
	if c.ID != "69" {
		t.Errorf("wanted comment id %s, got %s", "69", c.ID)
	}
}

func TestNotFound(t *testing.T) {
	client := newTestClient(t)
	_, err := client.Issue(context.Background(), "TEST-404")
	if err == nil {
		t.Fatal("nil error fetching missing issue")
	}
	if !strings.Contains(err.Error(), "does not exist") {
		t.Errorf("error %q does not carry jira error message", err)
	}
}

func TestSprints(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	all, err := client.SprintsByName(ctx, 7)
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"Pulse 11", "Pulse 12", "Pulse 13"} {
		if _, ok := all[name]; !ok {
			t.Errorf("missing sprint %s", name)
		}
	}
	if all["Pulse 12"].Goal != "Ship the kernel snap" {
		t.Errorf("unexpected goal %q", all["Pulse 12"].Goal)
	}

	active, err := client.Sprints(ctx, 7, "active")
	if err != nil {
		t.Fatal(err)
	}
	if len(active) != 1 || active[0].Name != "Pulse 12" {
		t.Errorf("active sprints = %v, want only Pulse 12", active)
	}
}

func TestPermalink(t *testing.T) {
	u, _ := url.Parse("https://example.atlassian.net/jira")
	c := &Client{BaseURL: u}
	want := "https://example.atlassian.net/jira/browse/TEST-1"
	if got := c.Permalink("TEST-1"); got != want {
		t.Errorf("permalink %s, want %s", got, want)
	}
}
