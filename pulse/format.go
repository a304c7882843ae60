package pulse

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// annotation marks text added for reviewers of a draft.
// Strip removes it before a report is published.
const annotation = "<!-- compulsor:"

const privateNote = annotation + "private -->"

const draftHelp = annotation + `
Review the report above before it is posted.
Items marked private come from confidential markers; remove any
that should not be published. The report must start with "## Pulse"
to be posted. Delete everything to skip posting.
-->`

var annotationExp = regexp.MustCompile(`(?s)[ \t]*<!-- compulsor:.*?-->`)

// Markdown returns the report as Markdown.
func (r *Report) Markdown() string {
	return r.render(false)
}

// Draft returns the report as Markdown annotated for review.
// Strip of a draft returns the same text as Markdown.
func (r *Report) Draft() string {
	return r.render(true)
}

func (r *Report) render(annotate bool) string {
	buf := &strings.Builder{}
	fmt.Fprintln(buf, "##", r.Sprint.Name)
	if !r.Sprint.Start.IsZero() && !r.Sprint.End.IsZero() {
		fmt.Fprintln(buf, formatRange(r.Sprint.Start, r.Sprint.End))
	}
	if r.Sprint.Goal != "" {
		fmt.Fprintln(buf, r.Sprint.Goal)
	}
	fmt.Fprintln(buf)
	for _, it := range r.Items {
		buf.WriteString(formatItem(it, r.Keys))
		if annotate && it.Private {
			buf.WriteString(" " + privateNote)
		}
		fmt.Fprintln(buf)
	}
	if annotate {
		fmt.Fprintln(buf)
		fmt.Fprintln(buf, draftHelp)
	}
	return normalize(buf.String())
}

func formatItem(it Item, keys bool) string {
	descr := ToMarkdown(it.Text)
	if keys {
		return fmt.Sprintf("* \\[[%s](%s)\\] %s", it.Issue.Key, it.Issue.URL, descr)
	}
	return "* " + descr
}

func formatRange(start, end time.Time) string {
	if start.Year() == end.Year() {
		return fmt.Sprintf("Dates: %s %d – %s %d", start.Month(), start.Day(), end.Month(), end.Day())
	}
	return fmt.Sprintf("Dates: %s %d, %d – %s %d, %d", start.Month(), start.Day(), start.Year(), end.Month(), end.Day(), end.Year())
}

// Strip removes review annotations from an edited draft
// and normalises whitespace. Strip is idempotent.
func Strip(text string) string {
	// Removing an annotation may join the text around it into another.
	for {
		s := annotationExp.ReplaceAllString(text, "")
		if s == text {
			break
		}
		text = s
	}
	return normalize(text)
}

// normalize trims trailing whitespace from every line,
// drops leading and trailing blank lines
// and ends non-empty text with a single newline.
func normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " \t\r")
	}
	text = strings.Trim(strings.Join(lines, "\n"), "\n")
	if text == "" {
		return ""
	}
	return text + "\n"
}
