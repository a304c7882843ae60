package pulse

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrNoSprint       = errors.New("no such sprint")
	ErrNoActiveSprint = errors.New("no active sprint")
)

// Latest is the pulse id which refers to the current sprint.
const Latest = "latest"

type Sprint struct {
	// ID identifies the sprint to its source,
	// such as a Jira sprint id or GitHub milestone number.
	ID    int
	Name  string
	Start time.Time
	End   time.Time
	Goal  string
}

// PulseID returns the last word of the sprint name,
// which is 12 for the sprint "Pulse 12".
func (s *Sprint) PulseID() string {
	f := strings.Fields(s.Name)
	if len(f) == 0 {
		return ""
	}
	return f[len(f)-1]
}

// Contains reports whether t falls on a day between the start and end
// days of the sprint, inclusive. The day of t is taken in its own location.
// A sprint without dates contains nothing.
func (s *Sprint) Contains(t time.Time) bool {
	if s.Start.IsZero() || s.End.IsZero() || t.IsZero() {
		return false
	}
	d := day(t)
	return !d.Before(day(s.Start)) && !d.After(day(s.End))
}

func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type Issue struct {
	Key         string
	URL         string
	Summary     string
	Description string
	Fields      []Field
	Comments    []Comment
}

// Field is the text of a tracker field other than the description.
type Field struct {
	Name string
	Text string
}

type Comment struct {
	Body    string
	Created time.Time
}

// Source is an issue tracker holding pulse sprints.
type Source interface {
	// Sprint returns the sprint with the given name.
	// The error wraps ErrNoSprint if there is none.
	Sprint(ctx context.Context, name string) (*Sprint, error)
	// ActiveSprints returns the sprints in progress.
	ActiveSprints(ctx context.Context) ([]Sprint, error)
	// Issues returns the issues planned in the sprint.
	Issues(ctx context.Context, sprint *Sprint) ([]Issue, error)
}

// SprintName returns the name of the sprint for a pulse id.
func SprintName(id string) string {
	return "Pulse " + id
}

// LatestID returns the pulse id of the first active sprint.
func LatestID(ctx context.Context, src Source) (string, error) {
	active, err := src.ActiveSprints(ctx)
	if err != nil {
		return "", fmt.Errorf("find active sprint: %w", err)
	}
	if len(active) == 0 {
		return "", ErrNoActiveSprint
	}
	return active[0].PulseID(), nil
}
