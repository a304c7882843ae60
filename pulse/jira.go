package pulse

import (
	"context"
	"fmt"

	"olowe.co/compulsor/jira"
)

// JiraSource reads pulse sprints from a Jira agile board.
type JiraSource struct {
	Client *jira.Client
	Board  int
	// Project is the key of the project whose issues are searched.
	Project string
	// Fields lists extra fields, such as customfield_10100,
	// searched for markers alongside descriptions and comments.
	Fields []string

	sprints map[string]jira.Sprint
}

func (s *JiraSource) Sprint(ctx context.Context, name string) (*Sprint, error) {
	if s.sprints == nil {
		m, err := s.Client.SprintsByName(ctx, s.Board)
		if err != nil {
			return nil, err
		}
		s.sprints = m
	}
	js, ok := s.sprints[name]
	if !ok {
		return nil, fmt.Errorf("%s on board %d: %w", name, s.Board, ErrNoSprint)
	}
	sp := fromJiraSprint(js)
	return &sp, nil
}

func (s *JiraSource) ActiveSprints(ctx context.Context) ([]Sprint, error) {
	active, err := s.Client.Sprints(ctx, s.Board, "active")
	if err != nil {
		return nil, err
	}
	sprints := make([]Sprint, len(active))
	for i := range active {
		sprints[i] = fromJiraSprint(active[i])
	}
	return sprints, nil
}

func (s *JiraSource) Issues(ctx context.Context, sprint *Sprint) ([]Issue, error) {
	q := fmt.Sprintf("project = %q AND sprint = %q", s.Project, sprint.Name)
	fields := append([]string{"summary", "description", "comment"}, s.Fields...)
	found, err := s.Client.SearchIssues(ctx, q, fields...)
	if err != nil {
		return nil, err
	}
	issues := make([]Issue, len(found))
	for i, ji := range found {
		is := Issue{
			Key:         ji.Key,
			URL:         s.Client.Permalink(ji.Key),
			Summary:     ji.Summary,
			Description: ji.Description,
		}
		for _, name := range s.Fields {
			if text := ji.Field(name); text != "" {
				is.Fields = append(is.Fields, Field{Name: name, Text: text})
			}
		}
		for _, c := range ji.Comments {
			is.Comments = append(is.Comments, Comment{Body: c.Body, Created: c.Created})
		}
		issues[i] = is
	}
	return issues, nil
}

func fromJiraSprint(js jira.Sprint) Sprint {
	return Sprint{
		ID:    js.ID,
		Name:  js.Name,
		Start: js.Start,
		End:   js.End,
		Goal:  js.Goal,
	}
}
