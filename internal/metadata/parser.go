// file: internal/metadata/parser.go
// version: 1.0.0
// guid: a553e270-2d4e-42bf-b112-b680170e4edb

package metadata

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// notFoundMarker is the title tag of the service's HTML 404 page.
const notFoundMarker = "<title>404 - "

// Wire field names of the Biblionet JSON payload.
const (
	fieldID          = "biblionetid"
	fieldTitle       = "title"
	fieldAuthors     = "authors"
	fieldCoverURL    = "cover_url"
	fieldPublisher   = "publisher"
	fieldCategories  = "categories"
	fieldYear        = "yr_published"
	fieldSeries      = "series"
	fieldSeriesIndex = "series_index"
)

// ParseResponse turns one raw payload into a Draft. Only a 404 page or an
// undecodable body fail the whole response; every other problem is
// recorded as a FieldError and the field is left nil.
func ParseResponse(raw []byte) (*Draft, error) {
	raw = bytes.TrimSpace(raw)
	if bytes.Contains(raw, []byte(notFoundMarker)) {
		return nil, &ParseError{Err: ErrNotFound}
	}

	var root map[string]json.RawMessage
	if err := json.Unmarshal(raw, &root); err != nil {
		return nil, &ParseError{Err: fmt.Errorf("%w: %v", ErrDecode, err)}
	}
	if root == nil {
		return nil, &ParseError{Err: fmt.Errorf("%w: null document", ErrDecode)}
	}

	d := &Draft{}
	note := func(field string, err error) {
		d.FieldErrors = append(d.FieldErrors, &FieldError{Field: field, Err: err})
	}

	if v, err := scalarField(root, fieldID); err != nil {
		note(fieldID, err)
	} else {
		d.BiblionetID = &v
	}

	if v, err := stringField(root, fieldTitle); err != nil {
		note(fieldTitle, err)
	} else {
		v = strings.TrimSpace(v)
		d.Title = &v
	}

	// The service returns one concatenated author string, not a list.
	if v, err := stringField(root, fieldAuthors); err != nil {
		note(fieldAuthors, err)
	} else {
		d.Authors = []string{strings.TrimSpace(v)}
	}

	if v, err := stringField(root, fieldCoverURL); err != nil {
		note(fieldCoverURL, err)
	} else {
		d.CoverURL = &v
	}

	if v, err := stringField(root, fieldPublisher); err != nil {
		note(fieldPublisher, err)
	} else {
		d.Publisher = &v
	}

	if v, err := stringField(root, fieldCategories); err != nil {
		note(fieldCategories, err)
	} else {
		d.Tags = CleanTags(v)
	}

	if v, err := scalarField(root, fieldYear); err != nil {
		note(fieldYear, err)
	} else {
		d.Year = &v
	}

	// series and series_index are optional; only malformed values count.
	if _, ok := root[fieldSeries]; ok {
		if v, err := stringField(root, fieldSeries); err != nil {
			note(fieldSeries, err)
		} else {
			d.Series = &v
		}
	}
	if _, ok := root[fieldSeriesIndex]; ok {
		if v, err := scalarField(root, fieldSeriesIndex); err != nil {
			note(fieldSeriesIndex, err)
		} else {
			d.SeriesIndex = &v
		}
	}

	return d, nil
}

// CleanTags converts the categories string into a tag list: "DDC: " is
// collapsed to "DDC:", hyphens are removed (the words they joined become
// separate tags), the string is split on whitespace and the trailing
// token is dropped.
func CleanTags(categories string) []string {
	categories = strings.ReplaceAll(categories, "DDC: ", "DDC:")
	categories = strings.ReplaceAll(categories, "-", " ")
	tokens := strings.Fields(categories)
	if len(tokens) == 0 {
		return []string{}
	}
	return tokens[:len(tokens)-1]
}

func stringField(root map[string]json.RawMessage, name string) (string, error) {
	raw, ok := root[name]
	if !ok {
		return "", ErrFieldMissing
	}
	if isNull(raw) {
		return "", errNullValue
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("expected string: %w", err)
	}
	return s, nil
}

// scalarField accepts a string or a JSON number and returns it as text.
func scalarField(root map[string]json.RawMessage, name string) (string, error) {
	raw, ok := root[name]
	if !ok {
		return "", ErrFieldMissing
	}
	if isNull(raw) {
		return "", errNullValue
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s), nil
	}
	var n json.Number
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&n); err != nil {
		return "", fmt.Errorf("expected string or number, got %s", truncate(string(raw), 32))
	}
	if i, err := n.Int64(); err == nil {
		return strconv.FormatInt(i, 10), nil
	}
	return n.String(), nil
}

var errNullValue = errors.New("null value")

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
