package pulse

import (
	"reflect"
	"testing"
)

func TestParseMarkers(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []Marker
	}{
		{"none", "nothing to see here", nil},
		{"plain", "PULSEDESC: Fixed the build", []Marker{{Text: "Fixed the build"}}},
		{"pulse", "PULSEDESC[12]: Published a snap\r\n", []Marker{{Pulse: "12", Text: "Published a snap"}}},
		{
			"options",
			"intro\nPULSEDESC[12, kernel,CONFIDENTIAL]: Partner work\nmore",
			[]Marker{{Pulse: "12", Tags: []string{"kernel"}, Private: true, Text: "Partner work"}},
		},
		{"lower case confidential", "PULSEDESC[confidential]: x", []Marker{{Private: true, Text: "x"}}},
		{
			"typo",
			"PULSEDESC[12,CONFIDENTAL]: x",
			[]Marker{{Pulse: "12", Private: true, Typos: []string{"CONFIDENTAL"}, Text: "x"}},
		},
		{
			"transposed",
			"PULSEDESC[Confidnetial]: x",
			[]Marker{{Private: true, Typos: []string{"Confidnetial"}, Text: "x"}},
		},
		{"not a typo", "PULSEDESC[confidence]: x", []Marker{{Tags: []string{"confidence"}, Text: "x"}}},
		{"digits then letters is a tag", "PULSEDESC[2fa]: Enabled 2FA", []Marker{{Tags: []string{"2fa"}, Text: "Enabled 2FA"}}},
		{"second number is a tag", "PULSEDESC[12,13]: x", []Marker{{Pulse: "12", Tags: []string{"13"}, Text: "x"}}},
		{"empty text", "PULSEDESC[12]:   \nPULSEDESC: y", []Marker{{Text: "y"}}},
		{"empty options", "PULSEDESC[]: x", []Marker{{Text: "x"}}},
		{
			"many",
			"PULSEDESC[12]: one\nPULSEDESC[13]: two",
			[]Marker{{Pulse: "12", Text: "one"}, {Pulse: "13", Text: "two"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseMarkers(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseMarkers(%q) = %+v, want %+v", tt.text, got, tt.want)
			}
		})
	}
}

func TestDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"CONFIDENTIAL", "CONFIDENTIAL", 0},
		{"CONFIDENTAL", "CONFIDENTIAL", 1},
		{"CONFIDENCIAL", "CONFIDENTIAL", 1},
		{"CONFIDNETIAL", "CONFIDENTIAL", 2},
		{"KERNEL", "CONFIDENTIAL", 10},
	}
	for _, tt := range tests {
		if got := distance(tt.a, tt.b); got != tt.want {
			t.Errorf("distance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestHasTag(t *testing.T) {
	mk := Marker{Tags: []string{"kernel", "Infra"}}
	if !mk.HasTag("infra") {
		t.Error("tags should match regardless of case")
	}
	if mk.HasTag("desktop") {
		t.Error("unexpected match of desktop")
	}
	if mk.HasTag() {
		t.Error("no tags should match nothing")
	}
}
