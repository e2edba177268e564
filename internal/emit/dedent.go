// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package emit

import "strings"

// Dedent removes the leading whitespace prefix shared by every non-blank
// line. Blank lines lose whatever part of the prefix they carry. Line
// endings are kept as they are.
func Dedent(content string) string {
	lines := strings.SplitAfter(content, "\n")

	prefix, found := "", false
	for _, l := range lines {
		if isBlank(l) {
			continue
		}
		ws := leadingWhitespace(l)
		if !found {
			prefix, found = ws, true
		} else {
			prefix = commonPrefix(prefix, ws)
		}
		if prefix == "" {
			return content
		}
	}
	if prefix == "" {
		return content
	}

	var b strings.Builder
	b.Grow(len(content))
	for _, l := range lines {
		switch {
		case strings.HasPrefix(l, prefix):
			b.WriteString(l[len(prefix):])
		case isBlank(l):
			b.WriteString(strings.TrimLeft(l, " \t"))
		default:
			b.WriteString(l)
		}
	}
	return b.String()
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

func leadingWhitespace(line string) string {
	return line[:len(line)-len(strings.TrimLeft(line, " \t"))]
}

func commonPrefix(a, b string) string {
	n := min(len(a), len(b))
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return a[:i]
}
