package jira

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDecode(t *testing.T) {
	names, err := filepath.Glob("testdata/issue/*.json")
	if err != nil {
		t.Fatal(err)
	}
	if len(names) == 0 {
		t.Fatal("no test issues")
	}
	for _, name := range names {
		f, err := os.Open(name)
		if err != nil {
			t.Fatal(err)
		}
		var is Issue
		if err := json.NewDecoder(f).Decode(&is); err != nil {
			t.Errorf("decode %s: %v", name, err)
		}
		f.Close()
	}
}

func readIssue(t *testing.T, name string) *Issue {
	t.Helper()
	b, err := os.ReadFile(name)
	if err != nil {
		t.Fatal(err)
	}
	var is Issue
	if err := json.Unmarshal(b, &is); err != nil {
		t.Fatal(err)
	}
	return &is
}

func TestIssueFields(t *testing.T) {
	is := readIssue(t, "testdata/issue/TEST-1.json")
	if is.Key != "TEST-1" {
		t.Errorf("key %s, want TEST-1", is.Key)
	}
	if is.Project.Key != "TEST" {
		t.Errorf("project key %q, want TEST", is.Project.Key)
	}
	if len(is.Comments) != 1 {
		t.Fatalf("got %d comments, want 1", len(is.Comments))
	}
	want := time.Date(2024, time.March, 4, 10, 0, 0, 0, time.UTC)
	if !is.Comments[0].Created.Equal(want) {
		t.Errorf("comment created %s, want %s", is.Comments[0].Created, want)
	}

	tests := []struct {
		field string
		want  string
	}{
		{"customfield_10100", "PULSEDESC[12,infra]: Rolled out new builders"},
		{"customfield_10200", "Green"},
		{"customfield_10300", "a\nb"},
		{"customfield_99999", ""},
		{"summary", "Publish snap for the new kernel"},
	}
	for _, tt := range tests {
		if got := is.Field(tt.field); got != tt.want {
			t.Errorf("field %s = %q, want %q", tt.field, got, tt.want)
		}
	}
}

func TestMissingTimestamps(t *testing.T) {
	is := readIssue(t, "testdata/issue/TEST-2.json")
	if !is.Created.IsZero() || !is.Updated.IsZero() {
		t.Errorf("expected zero timestamps, got %s and %s", is.Created, is.Updated)
	}
	if is.Description != "" {
		t.Errorf("null description decoded as %q", is.Description)
	}
}

func TestSprintDecode(t *testing.T) {
	var s Sprint
	b, err := os.ReadFile("testdata/sprint/3.json")
	if err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(b, &s); err != nil {
		t.Fatalf("decode future sprint: %v", err)
	}
	if !s.Start.IsZero() || !s.End.IsZero() {
		t.Errorf("future sprint has dates %s, %s", s.Start, s.End)
	}
	if s.State != "future" || s.Name != "Pulse 13" {
		t.Errorf("unexpected sprint %+v", s)
	}
}
