package pulse

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestFormatRange(t *testing.T) {
	tests := []struct {
		start, end time.Time
		want       string
	}{
		{date(2024, time.February, 26), date(2024, time.March, 11), "Dates: February 26 – March 11"},
		{date(2024, time.December, 23), date(2025, time.January, 6), "Dates: December 23, 2024 – January 6, 2025"},
	}
	for _, tt := range tests {
		if got := formatRange(tt.start, tt.end); got != tt.want {
			t.Errorf("formatRange(%s, %s) = %q, want %q", tt.start, tt.end, got, tt.want)
		}
	}
}

func TestMarkdown(t *testing.T) {
	r, err := Build(context.Background(), newMemSource(), "12", Options{})
	if err != nil {
		t.Fatal(err)
	}
	want := `## Pulse 12
Dates: February 26 – March 11
Ship the kernel snap

* Other project
* Fixed ` + "`snapd`" + `
* Rolled out **new** builders
* Written during the sprint
`
	if got := r.Markdown(); got != want {
		t.Errorf("unexpected report:\n%s\nwant:\n%s", got, want)
	}

	r.Keys = true
	first := strings.Split(r.Markdown(), "\n")[4]
	wantFirst := `* \[[ABC-99](https://jira.example.com/browse/ABC-99)\] Other project`
	if first != wantFirst {
		t.Errorf("item with key = %q, want %q", first, wantFirst)
	}
}

func TestMarkdownEmpty(t *testing.T) {
	r := &Report{Sprint: Sprint{Name: "Pulse 1", Start: date(2024, time.January, 1), End: date(2024, time.January, 14)}}
	want := "## Pulse 1\nDates: January 1 – January 14\n"
	if got := r.Markdown(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestMarkdownUndated(t *testing.T) {
	r := &Report{Sprint: Sprint{Name: "Pulse 1", Start: date(2024, time.March, 1)}}
	if got, want := r.Markdown(), "## Pulse 1\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestDraftRoundTrip(t *testing.T) {
	for _, opts := range []Options{{}, {Private: true}, {Private: true, Keys: true}} {
		r, err := Build(context.Background(), newMemSource(), "12", opts)
		if err != nil {
			t.Fatal(err)
		}
		draft := r.Draft()
		if !strings.Contains(draft, annotation) {
			t.Fatalf("draft has no annotations:\n%s", draft)
		}
		if opts.Private && !strings.Contains(draft, "Partner deal "+privateNote) {
			t.Errorf("private item not annotated:\n%s", draft)
		}
		stripped := Strip(draft)
		if stripped != r.Markdown() {
			t.Errorf("Strip(draft) differs from report:\n%s\nwant:\n%s", stripped, r.Markdown())
		}
		if Strip(stripped) != stripped {
			t.Errorf("Strip is not idempotent on %q", stripped)
		}
	}
}

func TestStrip(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"only help", "\n" + draftHelp + "\n\n", ""},
		{"crlf", "## Pulse 1\r\n* a  \r\n\r\n", "## Pulse 1\n* a\n"},
		{"leading blank lines", "\n\n## Pulse 1\n", "## Pulse 1\n"},
		{"inline note", "* secret " + privateNote + "\n* public\n", "* secret\n* public\n"},
		{"other comments kept", "* a <!-- keep me -->\n", "* a <!-- keep me -->\n"},
		{
			"annotation joined by removal",
			"## Pulse 1\n* <!-- compu<!-- compulsor:x -->lsor: hidden -->visible\n",
			"## Pulse 1\n*visible\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Strip(tt.in)
			if got != tt.want {
				t.Errorf("Strip(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if again := Strip(got); again != got {
				t.Errorf("Strip not idempotent: %q then %q", got, again)
			}
		})
	}
}
