package util

import (
	"regexp"
	"strings"
	"unicode"
)

var reSpaces = regexp.MustCompile(`\s+`)

func NormalizeSpaces(input string) string {
	s := strings.ReplaceAll(input, "\u00a0", " ")
	s = strings.ReplaceAll(s, "\u3000", " ")
	return strings.TrimSpace(reSpaces.ReplaceAllString(s, " "))
}

// HeaderKey folds a column header for comparison: case and every kind of
// whitespace are ignored, so "平臺 SKU" and "平臺SKU" compare equal.
func HeaderKey(input string) string {
	out := strings.Builder{}
	for _, r := range strings.ToLower(input) {
		if unicode.IsSpace(r) {
			continue
		}
		out.WriteRune(r)
	}
	return out.String()
}

func SplitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	parts := strings.Split(text, "\n")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func StringPtr(v string) *string {
	return &v
}

func NonEmptyPtr(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

func Deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
