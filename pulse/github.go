package pulse

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/go-github/v63/github"
	"golang.org/x/oauth2"
)

// GitHubSource reads pulse sprints from the milestones of a GitHub repository.
// A milestone starts when it is created and ends on its due date;
// its description is the sprint goal.
type GitHubSource struct {
	Client *github.Client
	Owner  string
	Repo   string
}

// NewGitHubSource returns a source for repo, given as owner/name.
// If token is empty, requests are unauthenticated.
// Requests are sent with the HTTP client held by ctx under oauth2.HTTPClient, if any.
func NewGitHubSource(ctx context.Context, token, repo string) (*GitHubSource, error) {
	owner, name, ok := strings.Cut(repo, "/")
	if !ok || owner == "" || name == "" {
		return nil, fmt.Errorf("bad repository %q: want owner/name", repo)
	}
	var ts oauth2.TokenSource
	if token != "" {
		ts = oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	}
	hc := oauth2.NewClient(ctx, ts)
	return &GitHubSource{Client: github.NewClient(hc), Owner: owner, Repo: name}, nil
}

func (s *GitHubSource) milestones(ctx context.Context, state string) ([]*github.Milestone, error) {
	opt := &github.MilestoneListOptions{
		State:       state,
		Sort:        "due_on",
		Direction:   "asc",
		ListOptions: github.ListOptions{PerPage: 100},
	}
	var all []*github.Milestone
	for {
		ms, resp, err := s.Client.Issues.ListMilestones(ctx, s.Owner, s.Repo, opt)
		if err != nil {
			return nil, fmt.Errorf("list milestones: %w", err)
		}
		all = append(all, ms...)
		if resp.NextPage == 0 {
			return all, nil
		}
		opt.Page = resp.NextPage
	}
}

func (s *GitHubSource) Sprint(ctx context.Context, name string) (*Sprint, error) {
	ms, err := s.milestones(ctx, "all")
	if err != nil {
		return nil, err
	}
	for _, m := range ms {
		if m.GetTitle() == name {
			sp := fromMilestone(m)
			return &sp, nil
		}
	}
	return nil, fmt.Errorf("%s in %s/%s: %w", name, s.Owner, s.Repo, ErrNoSprint)
}

// ActiveSprints returns open pulse milestones, soonest due first.
func (s *GitHubSource) ActiveSprints(ctx context.Context) ([]Sprint, error) {
	ms, err := s.milestones(ctx, "open")
	if err != nil {
		return nil, err
	}
	var sprints []Sprint
	for _, m := range ms {
		if strings.HasPrefix(m.GetTitle(), SprintName("")) {
			sprints = append(sprints, fromMilestone(m))
		}
	}
	return sprints, nil
}

func (s *GitHubSource) Issues(ctx context.Context, sprint *Sprint) ([]Issue, error) {
	opt := &github.IssueListByRepoOptions{
		Milestone:   strconv.Itoa(sprint.ID),
		State:       "all",
		ListOptions: github.ListOptions{PerPage: 100},
	}
	var issues []Issue
	for {
		found, resp, err := s.Client.Issues.ListByRepo(ctx, s.Owner, s.Repo, opt)
		if err != nil {
			return nil, fmt.Errorf("list issues: %w", err)
		}
		for _, gi := range found {
			is := Issue{
				Key:         fmt.Sprintf("%s#%d", s.Repo, gi.GetNumber()),
				URL:         gi.GetHTMLURL(),
				Summary:     gi.GetTitle(),
				Description: gi.GetBody(),
			}
			if gi.GetComments() > 0 {
				is.Comments, err = s.comments(ctx, gi.GetNumber())
				if err != nil {
					return nil, err
				}
			}
			issues = append(issues, is)
		}
		if resp.NextPage == 0 {
			return issues, nil
		}
		opt.Page = resp.NextPage
	}
}

func (s *GitHubSource) comments(ctx context.Context, number int) ([]Comment, error) {
	opt := &github.IssueListCommentsOptions{
		ListOptions: github.ListOptions{PerPage: 100},
	}
	var comments []Comment
	for {
		found, resp, err := s.Client.Issues.ListComments(ctx, s.Owner, s.Repo, number, opt)
		if err != nil {
			return nil, fmt.Errorf("list comments of #%d: %w", number, err)
		}
		for _, c := range found {
			comments = append(comments, Comment{Body: c.GetBody(), Created: c.GetCreatedAt().Time})
		}
		if resp.NextPage == 0 {
			return comments, nil
		}
		opt.Page = resp.NextPage
	}
}

func fromMilestone(m *github.Milestone) Sprint {
	return Sprint{
		ID:    m.GetNumber(),
		Name:  m.GetTitle(),
		Start: m.GetCreatedAt().Time,
		End:   m.GetDueOn().Time,
		Goal:  m.GetDescription(),
	}
}
