package pulse

import (
	"regexp"
	"strings"
)

// Confidential is the option marking an item private.
const Confidential = "CONFIDENTIAL"

// maxTypoDistance is the largest edit distance from Confidential
// at which an option is considered a misspelling of it.
const maxTypoDistance = 2

var markerExp = regexp.MustCompile(`PULSEDESC(?:\[([^\]]*)\])?:([^\n]+)`)

// Marker is a report snippet found in issue text.
type Marker struct {
	// Pulse is the id of the pulse named by the marker, if any.
	Pulse   string
	Tags    []string
	Private bool
	Text    string

	// Typos holds options which look like misspellings of Confidential.
	Typos []string
}

// ParseMarkers returns every marker in text, in order of appearance.
// Markers with no text are ignored.
func ParseMarkers(text string) []Marker {
	var markers []Marker
	for _, m := range markerExp.FindAllStringSubmatch(text, -1) {
		mk := Marker{Text: strings.TrimSpace(m[2])}
		if mk.Text == "" {
			continue
		}
		for _, opt := range strings.Split(m[1], ",") {
			mk.addOption(strings.TrimSpace(opt))
		}
		markers = append(markers, mk)
	}
	return markers
}

func (mk *Marker) addOption(opt string) {
	switch {
	case opt == "":
	case strings.EqualFold(opt, Confidential):
		mk.Private = true
	case isPulseID(opt) && mk.Pulse == "":
		mk.Pulse = opt
	case looksConfidential(opt):
		// Err on the side of not leaking anything.
		mk.Private = true
		mk.Typos = append(mk.Typos, opt)
	default:
		mk.Tags = append(mk.Tags, opt)
	}
}

func isPulseID(opt string) bool {
	for _, c := range opt {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// HasTag reports whether the marker carries any of tags.
func (mk *Marker) HasTag(tags ...string) bool {
	for _, want := range tags {
		for _, t := range mk.Tags {
			if strings.EqualFold(t, want) {
				return true
			}
		}
	}
	return false
}

func looksConfidential(opt string) bool {
	return distance(strings.ToUpper(opt), Confidential) <= maxTypoDistance
}

// distance returns the Levenshtein distance between a and b.
func distance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		cur[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(rb)]
}
