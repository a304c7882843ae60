package pulse

import (
	"regexp"
	"strings"
)

// https://jira.atlassian.com/secure/WikiRendererHelpAction.jspa?section=all

var (
	headingExp = regexp.MustCompile(`^h([1-6])\.\s+`)
	// monospace text and links are converted as a whole;
	// their contents are not subject to emphasis.
	tokenExp = regexp.MustCompile(`\{\{(.+?)\}\}|\[([^\[\]]+)\]`)
)

// ToMarkdown converts text written in Jira markup to Markdown.
// Only inline formatting, links, headings and quotes are handled;
// anything else passes through unchanged.
func ToMarkdown(text string) string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for i, line := range lines {
		prefix := ""
		if m := headingExp.FindStringSubmatch(line); m != nil {
			prefix = strings.Repeat("#", int(m[1][0]-'0')) + " "
			line = line[len(m[0]):]
		} else if rest, ok := strings.CutPrefix(line, "bq. "); ok {
			prefix = "> "
			line = rest
		}
		lines[i] = prefix + renderInline(line)
	}
	return strings.Join(lines, "\n")
}

func renderInline(s string) string {
	buf := &strings.Builder{}
	last := 0
	for _, loc := range tokenExp.FindAllStringSubmatchIndex(s, -1) {
		buf.WriteString(renderEmphasis(s[last:loc[0]]))
		if loc[2] >= 0 {
			buf.WriteString("`" + s[loc[2]:loc[3]] + "`")
		} else {
			buf.WriteString(renderLink(s[loc[4]:loc[5]]))
		}
		last = loc[1]
	}
	buf.WriteString(renderEmphasis(s[last:]))
	return buf.String()
}

func renderLink(link string) string {
	if user, ok := strings.CutPrefix(link, "~"); ok {
		return "@" + user
	}
	if title, u, ok := strings.Cut(link, "|"); ok {
		return "[" + renderEmphasis(title) + "](" + strings.TrimSpace(u) + ")"
	}
	if strings.Contains(link, "://") || strings.HasPrefix(link, "mailto:") {
		return "<" + link + ">"
	}
	// not a link, just brackets.
	return "[" + renderEmphasis(link) + "]"
}

func renderEmphasis(s string) string {
	s = emphasis(s, '*', "**")
	s = emphasis(s, '_', "*")
	s = emphasis(s, '-', "~~")
	s = emphasis(s, '+', "<ins>", "</ins>")
	return s
}

// emphasis replaces text enclosed by delim with text enclosed by wrap.
// If two wraps are given they are the opening and closing strings.
// Like Jira, delim only opens at the start of a word and closes at the end of one,
// so snake_case or dates such as 2024-01-02 are left alone.
func emphasis(s string, delim byte, wrap ...string) string {
	open, close := wrap[0], wrap[0]
	if len(wrap) > 1 {
		close = wrap[1]
	}
	buf := &strings.Builder{}
	for i := 0; i < len(s); {
		if s[i] == delim && opensAt(s, i) {
			if j := closesAt(s, i, delim); j > 0 {
				buf.WriteString(open)
				buf.WriteString(s[i+1 : j])
				buf.WriteString(close)
				i = j + 1
				continue
			}
		}
		buf.WriteByte(s[i])
		i++
	}
	return buf.String()
}

func opensAt(s string, i int) bool {
	if i+1 >= len(s) || isSpace(s[i+1]) {
		return false
	}
	return i == 0 || isSpace(s[i-1]) || strings.IndexByte(`([{>"'`, s[i-1]) >= 0
}

func closesAt(s string, i int, delim byte) int {
	for j := i + 2; j < len(s); j++ {
		if s[j] != delim || isSpace(s[j-1]) {
			continue
		}
		if j+1 == len(s) || isSpace(s[j+1]) || strings.IndexByte(`).,:;!?]}"'`, s[j+1]) >= 0 {
			return j
		}
	}
	return -1
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n'
}
