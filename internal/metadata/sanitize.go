// file: internal/metadata/sanitize.go
// version: 1.0.0
// guid: 9a8b7c6d-5e4f-4a3b-2c1d-0e9f8a7b6c5d

package metadata

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// DefaultSanitizer normalizes text fields to NFC, strips control
// characters, collapses whitespace and drops empty or duplicate authors
// and tags.
type DefaultSanitizer struct{}

// Clean implements Sanitizer.
func (DefaultSanitizer) Clean(rec *Record) {
	if rec == nil {
		return
	}
	rec.Title = cleanText(rec.Title)
	rec.Publisher = cleanText(rec.Publisher)
	rec.Series = cleanText(rec.Series)
	rec.CoverURL = strings.TrimSpace(rec.CoverURL)
	if rec.Authors != nil {
		rec.Authors = cleanList(rec.Authors)
	}
	if rec.Tags != nil {
		rec.Tags = cleanList(rec.Tags)
	}
}

func cleanText(s string) string {
	if s == "" {
		return s
	}
	s = norm.NFC.String(s)
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && !unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, v := range in {
		v = cleanText(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
