package jira

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const timestamp = "2006-01-02T15:04:05.999-0700"

type Issue struct {
	ID          string
	URL         string
	Key         string
	Summary     string
	Description string
	Project     Project
	Reporter    User
	Created     time.Time
	Updated     time.Time
	Comments    []Comment

	// fields holds every field of the issue as returned by Jira,
	// including custom fields.
	fields map[string]json.RawMessage
}

type Project struct {
	ID  string `json:"id"`
	Key string `json:"key"`
	URL string `json:"self"`
}

type Comment struct {
	ID           string    `json:"id"`
	URL          string    `json:"self"`
	Body         string    `json:"body"`
	Created      time.Time `json:"created"`
	Updated      time.Time `json:"updated"`
	Author       User      `json:"author"`
	UpdateAuthor User      `json:"updateAuthor"`
}

type User struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
}

// Sprint is a sprint of an agile board.
type Sprint struct {
	ID    int
	URL   string
	Name  string
	State string
	Start time.Time
	End   time.Time
	Goal  string
}

// Field returns the text held by the named field.
// Strings are returned as is; option objects yield their value or name;
// arrays are joined by newlines. Unknown or empty fields return the empty string.
func (is *Issue) Field(name string) string {
	raw, ok := is.fields[name]
	if !ok {
		return ""
	}
	return fieldText(raw)
}

func fieldText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var opt struct {
		Value string `json:"value"`
		Name  string `json:"name"`
	}
	if err := json.Unmarshal(raw, &opt); err == nil {
		if opt.Value != "" {
			return opt.Value
		}
		return opt.Name
	}
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err == nil {
		var lines []string
		for _, elem := range list {
			if t := fieldText(elem); t != "" {
				lines = append(lines, t)
			}
		}
		return strings.Join(lines, "\n")
	}
	return ""
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(timestamp, s)
}

func (c *Comment) UnmarshalJSON(b []byte) error {
	type alias Comment
	aux := &struct {
		Created string `json:"created"`
		Updated string `json:"updated"`
		*alias
	}{
		alias: (*alias)(c),
	}
	if err := json.Unmarshal(b, aux); err != nil {
		return err
	}
	var err error
	c.Created, err = parseTime(aux.Created)
	if err != nil {
		return fmt.Errorf("parse created time: %w", err)
	}
	c.Updated, err = parseTime(aux.Updated)
	if err != nil {
		return fmt.Errorf("parse updated time: %w", err)
	}
	return nil
}

func (is *Issue) UnmarshalJSON(b []byte) error {
	aux := &struct {
		ID     string
		Self   string
		Key    string
		Fields json.RawMessage
	}{}
	if err := json.Unmarshal(b, aux); err != nil {
		return err
	}
	is.ID = aux.ID
	is.URL = aux.Self
	is.Key = aux.Key
	if len(aux.Fields) == 0 {
		return nil
	}

	if err := json.Unmarshal(aux.Fields, &is.fields); err != nil {
		return fmt.Errorf("unmarshal fields: %w", err)
	}
	iaux := &struct {
		Summary     string
		Description string
		Project     Project
		Reporter    User
		Created     string
		Updated     string
		Comment     struct {
			Comments []Comment
		}
	}{}
	if err := json.Unmarshal(aux.Fields, iaux); err != nil {
		return err
	}
	is.Summary = iaux.Summary
	is.Description = iaux.Description
	is.Project = iaux.Project
	is.Reporter = iaux.Reporter
	is.Comments = iaux.Comment.Comments

	var err error
	is.Created, err = parseTime(iaux.Created)
	if err != nil {
		return fmt.Errorf("created time: %w", err)
	}
	is.Updated, err = parseTime(iaux.Updated)
	if err != nil {
		return fmt.Errorf("updated time: %w", err)
	}
	return nil
}

func (s *Sprint) UnmarshalJSON(b []byte) error {
	aux := &struct {
		ID        int    `json:"id"`
		Self      string `json:"self"`
		Name      string `json:"name"`
		State     string `json:"state"`
		StartDate string `json:"startDate"`
		EndDate   string `json:"endDate"`
		Goal      string `json:"goal"`
	}{}
	if err := json.Unmarshal(b, aux); err != nil {
		return err
	}
	s.ID = aux.ID
	s.URL = aux.Self
	s.Name = aux.Name
	s.State = aux.State
	s.Goal = aux.Goal

	// future sprints have no dates yet.
	var err error
	if aux.StartDate != "" {
		s.Start, err = time.Parse(time.RFC3339, aux.StartDate)
		if err != nil {
			return fmt.Errorf("sprint %s start date: %w", s.Name, err)
		}
	}
	if aux.EndDate != "" {
		s.End, err = time.Parse(time.RFC3339, aux.EndDate)
		if err != nil {
			return fmt.Errorf("sprint %s end date: %w", s.Name, err)
		}
	}
	return nil
}
