package content

import (
	"regexp"
	"strings"
)

var placeholder = regexp.MustCompile(`(?i)\b(lorem\s+ipsum|dolor\s+sit\s+amet|consectetur\s+adipiscing|sed\s+do\s+eiusmod|ut\s+labore\s+et\s+dolore|placeholder\s+text|sample\s+text\s+here)\b`)

// Sanitize trims s and returns "" when it looks like filler text.
func Sanitize(s string) string {
	s = strings.TrimSpace(s)
	if isPlaceholder(s) {
		return ""
	}
	return s
}

func isPlaceholder(s string) bool {
	return placeholder.MatchString(s)
}
