// file: internal/metadata/types.go
// version: 1.0.0
// guid: 3cee5267-aeb8-4051-a7eb-fc053903c4ae

package metadata

import (
	"strings"
	"time"
)

// Identifier scheme names understood by the Biblionet source.
const (
	SchemeISBN      = "isbn"
	SchemeBiblionet = "biblionet"
)

// Identifier is one (scheme, value) pair.
type Identifier struct {
	Scheme string `json:"scheme"`
	Value  string `json:"value"`
}

// Identifiers is an ordered identifier set with unique schemes. The order
// in which identifiers were supplied becomes the relevance rank of the
// candidates built from them.
type Identifiers []Identifier

// Get returns the value for scheme, if present.
func (ids Identifiers) Get(scheme string) (string, bool) {
	scheme = normalizeScheme(scheme)
	for _, id := range ids {
		if id.Scheme == scheme {
			return id.Value, true
		}
	}
	return "", false
}

// Set replaces the value for scheme or appends it, returning the new set.
// Empty values remove the scheme.
func (ids Identifiers) Set(scheme, value string) Identifiers {
	scheme = normalizeScheme(scheme)
	value = strings.TrimSpace(value)
	out := make(Identifiers, 0, len(ids)+1)
	replaced := false
	for _, id := range ids {
		if id.Scheme != scheme {
			out = append(out, id)
			continue
		}
		if value != "" && !replaced {
			out = append(out, Identifier{Scheme: scheme, Value: value})
		}
		replaced = true
	}
	if !replaced && scheme != "" && value != "" {
		out = append(out, Identifier{Scheme: scheme, Value: value})
	}
	return out
}

// Map returns the identifiers as a plain map (order is lost).
func (ids Identifiers) Map() map[string]string {
	m := make(map[string]string, len(ids))
	for _, id := range ids {
		m[id.Scheme] = id.Value
	}
	return m
}

func normalizeScheme(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// SearchRequest is the immutable input of a single identify or cover call.
type SearchRequest struct {
	Title       string        `json:"title,omitempty"`
	Authors     []string      `json:"authors,omitempty"`
	Identifiers Identifiers   `json:"identifiers"`
	Timeout     time.Duration `json:"timeout,omitempty"`
}

// Candidate is one fully built lookup URL derived from one identifier.
type Candidate struct {
	URL    string
	Scheme string
	Value  string
	Rank   int
}

// Draft is the field-by-field optional result of parsing one response.
// Nil means "not extracted".
type Draft struct {
	BiblionetID *string
	Title       *string
	Authors     []string
	CoverURL    *string
	Publisher   *string
	Tags        []string
	Year        *string
	Series      *string
	SeriesIndex *string

	// FieldErrors lists fields that were present but unusable, or absent.
	FieldErrors []*FieldError
}

// Record is the finalized, normalized metadata emitted to callers.
type Record struct {
	Source          string      `json:"source"`
	Title           string      `json:"title,omitempty"`
	Authors         []string    `json:"authors,omitempty"`
	Identifiers     Identifiers `json:"identifiers,omitempty"`
	CoverURL        string      `json:"cover_url,omitempty"`
	Publisher       string      `json:"publisher,omitempty"`
	Tags            []string    `json:"tags,omitempty"`
	PubDate         *time.Time  `json:"pubdate,omitempty"`
	Series          string      `json:"series,omitempty"`
	SeriesIndex     *float64    `json:"series_index,omitempty"`
	SourceRelevance int         `json:"source_relevance"`
}

// Identifier returns the record's value for scheme.
func (r Record) Identifier(scheme string) string {
	v, _ := r.Identifiers.Get(scheme)
	return v
}

// Cover is a downloaded cover image.
type Cover struct {
	Source string
	URL    string
	Data   []byte
}
