package pulse

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
)

// Options controls which items appear in a report and how.
type Options struct {
	// Keys links each item to the issue it came from.
	Keys bool
	// Private includes confidential items.
	Private bool
	// Tags, if set, limits the report to items carrying one of them.
	Tags []string
}

// Item is a marker selected for a report.
type Item struct {
	Marker
	Issue *Issue
	// Where names the part of the issue holding the marker:
	// "description", "comment" or a field name.
	Where string
}

// Warning describes a problem with a marker which did not stop the report.
type Warning struct {
	Issue  string
	Where  string
	Option string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s %s: marker option %q looks like a misspelling of %s; item treated as private", w.Issue, w.Where, w.Option, Confidential)
}

type Report struct {
	Sprint   Sprint
	Items    []Item
	Warnings []Warning
	Keys     bool
}

// Build gathers the report for the pulse with the given id from src.
// The id Latest refers to the first active sprint.
func Build(ctx context.Context, src Source, id string, opts Options) (*Report, error) {
	if id == Latest {
		var err error
		id, err = LatestID(ctx, src)
		if err != nil {
			return nil, err
		}
	}
	name := SprintName(id)
	sprint, err := src.Sprint(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("could not find sprint %s: %w", name, err)
	}
	issues, err := src.Issues(ctx, sprint)
	if err != nil {
		return nil, fmt.Errorf("issues in %s: %w", name, err)
	}
	r := &Report{Sprint: *sprint, Keys: opts.Keys}
	for i := range issues {
		r.collect(&issues[i])
	}
	r.Items = filter(r.Items, opts)
	sortItems(r.Items)
	return r, nil
}

func (r *Report) collect(is *Issue) {
	id := r.Sprint.PulseID()
	add := func(mk Marker, where string) {
		r.Items = append(r.Items, Item{Marker: mk, Issue: is, Where: where})
		for _, typo := range mk.Typos {
			r.Warnings = append(r.Warnings, Warning{Issue: is.Key, Where: where, Option: typo})
		}
	}

	for _, mk := range ParseMarkers(is.Description) {
		if mk.Pulse == id {
			add(mk, "description")
		}
	}
	for _, f := range is.Fields {
		for _, mk := range ParseMarkers(f.Text) {
			if mk.Pulse == id {
				add(mk, f.Name)
			}
		}
	}
	for _, c := range is.Comments {
		for _, mk := range ParseMarkers(c.Body) {
			if mk.Pulse == id || (mk.Pulse == "" && r.Sprint.Contains(c.Created)) {
				add(mk, "comment")
			}
		}
	}
}

func filter(items []Item, opts Options) []Item {
	var keep []Item
	for _, it := range items {
		if it.Private && !opts.Private {
			continue
		}
		if len(opts.Tags) > 0 && !it.HasTag(opts.Tags...) {
			continue
		}
		keep = append(keep, it)
	}
	return keep
}

var keyExp = regexp.MustCompile(`^(.*?)[-#]([0-9]+)$`)

// sortItems orders items by issue key, numerically within a project.
// Items from the same issue keep their relative order.
func sortItems(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		return keyLess(items[i].Issue.Key, items[j].Issue.Key)
	})
}

func keyLess(a, b string) bool {
	ma, mb := keyExp.FindStringSubmatch(a), keyExp.FindStringSubmatch(b)
	if ma == nil || mb == nil || ma[1] != mb[1] {
		if ma != nil && mb != nil {
			return ma[1] < mb[1]
		}
		return a < b
	}
	na, _ := strconv.Atoi(ma[2])
	nb, _ := strconv.Atoi(mb[2])
	return na < nb
}
