package util

import (
	"strings"
)

// LineByOffset returns the 1-based line number of a byte offset in source.
// Offsets beyond the source length count all of its lines.
func LineByOffset(source string, offset int) int {
	if offset < 0 {
		offset = 0
	}
	if offset > len(source) {
		offset = len(source)
	}
	return strings.Count(source[:offset], "\n") + 1
}

// Line returns the 1-based line of content, or "" when out of range.
func Line(content string, n int) string {
	lines := strings.Split(content, "\n")
	if n < 1 || n > len(lines) {
		return ""
	}
	return lines[n-1]
}

// ExtractSnippet returns up to maxLines lines around the [start,end] region.
func ExtractSnippet(content string, start, end, maxLines int) string {
	if maxLines <= 0 {
		maxLines = 8
	}
	lines := strings.Split(content, "\n")
	if start < 1 {
		start = 1
	}
	if end < start {
		end = start
	}
	s := max(0, start-1-maxLines/2)
	e := min(len(lines)-1, end-1+maxLines/2)
	if s > e {
		return ""
	}
	return strings.Join(lines[s:e+1], "\n")
}
