// file: internal/metadata/record.go
// version: 1.0.0
// guid: 0f6f6a52-27a4-4d8e-9a38-61d1c5d1b7f2

package metadata

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Sentinel values the service puts in yr_published instead of a year.
const (
	YearNotFound   = "Year not found"
	YearParseError = "Error parsing year"
)

// BuildRecord finalizes a Draft into a Record for the given candidate.
// Conversion problems (series index, publication year) are returned as
// FieldErrors; the affected field is left unset and the record is still
// usable.
func BuildRecord(d *Draft, cand Candidate, source string) (Record, []*FieldError) {
	var errs []*FieldError
	rec := Record{
		Source:          source,
		Authors:         d.Authors,
		SourceRelevance: cand.Rank,
	}
	if d.Title != nil {
		rec.Title = *d.Title
	}

	if cand.Scheme != "" && cand.Value != "" {
		rec.Identifiers = rec.Identifiers.Set(cand.Scheme, cand.Value)
	}
	if d.BiblionetID != nil && *d.BiblionetID != "" {
		rec.Identifiers = rec.Identifiers.Set(SchemeBiblionet, *d.BiblionetID)
	}

	if d.SeriesIndex != nil {
		idx, err := strconv.ParseFloat(strings.TrimSpace(*d.SeriesIndex), 64)
		if err != nil {
			errs = append(errs, &FieldError{Field: fieldSeriesIndex, Err: err})
		} else {
			rec.SeriesIndex = &idx
		}
	}
	if d.Series != nil {
		rec.Series = strings.TrimSpace(*d.Series)
	}

	if d.CoverURL != nil {
		rec.CoverURL = *d.CoverURL
	}
	if d.Publisher != nil {
		rec.Publisher = *d.Publisher
	}
	if d.Tags != nil {
		rec.Tags = d.Tags
	}

	if d.Year != nil {
		pub, err := PublicationDate(*d.Year)
		switch {
		case err != nil:
			errs = append(errs, &FieldError{Field: fieldYear, Err: err})
		case pub != nil:
			rec.PubDate = pub
		}
	}

	return rec, errs
}

// PublicationDate converts a raw year into January 1 of that year (UTC).
// Sentinel values and empty strings yield nil without an error.
func PublicationDate(year string) (*time.Time, error) {
	year = strings.TrimSpace(year)
	if year == "" || year == YearNotFound || year == YearParseError {
		return nil, nil
	}
	y, err := strconv.Atoi(year)
	if err != nil {
		return nil, fmt.Errorf("year %q is not numeric: %w", year, err)
	}
	if y < 1 || y > 9999 {
		return nil, fmt.Errorf("year %d out of range", y)
	}
	t := time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC)
	return &t, nil
}
