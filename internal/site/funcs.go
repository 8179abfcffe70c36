package site

import (
	"html/template"
	"strings"
	"time"
	"unicode"

	"github.com/zhou-zzz/blog/internal/model"
)

// Funcs returns the helpers available to layouts.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"formatDate": formatDate,
		"slugify":    Slugify,
		"join":       strings.Join,
		"add":        func(a, b int) int { return a + b },
		"sub":        func(a, b int) int { return a - b },
		"seq":        seq,
	}
}

// formatDate formats t with layout, or the site date layout when layout is
// empty. Zero times render as "".
func formatDate(layout string, t time.Time) string {
	if t.IsZero() {
		return ""
	}
	if layout == "" {
		layout = model.DateLayout
	}
	return t.Format(layout)
}

func seq(start, end int) []int {
	if start > end {
		return nil
	}
	out := make([]int, end-start+1)
	for i := range out {
		out[i] = start + i
	}
	return out
}

// Slugify converts a name to a URL path segment. Letters and digits are kept
// (lowercased), runs of spaces, hyphens and underscores become one hyphen,
// and everything else is dropped.
func Slugify(name string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.TrimSpace(name) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(unicode.ToLower(r))
		case r == ' ' || r == '-' || r == '_':
			pendingDash = true
		}
	}
	return b.String()
}
