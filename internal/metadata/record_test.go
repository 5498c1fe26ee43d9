// file: internal/metadata/record_test.go
// version: 1.0.0
// guid: 3d4e5f6a-7b8c-4d9e-8f0a-1b2c3d4e5f6a

package metadata

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestPublicationDate(t *testing.T) {
	got, err := PublicationDate("2001")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2001, time.January, 1, 0, 0, 0, 0, time.UTC), *got)

	for _, sentinel := range []string{YearNotFound, YearParseError, "", "  "} {
		got, err := PublicationDate(sentinel)
		assert.NoError(t, err, sentinel)
		assert.Nil(t, got, sentinel)
	}

	for _, garbage := range []string{"circa 1950", "19x3", "0", "-12", "12345"} {
		got, err := PublicationDate(garbage)
		assert.Error(t, err, garbage)
		assert.Nil(t, got, garbage)
	}
}

func TestBuildRecord(t *testing.T) {
	d := &Draft{
		BiblionetID: strPtr("123"),
		Title:       strPtr("Ο Καπετάν Μιχάλης"),
		Authors:     []string{"Νίκος Καζαντζάκης"},
		CoverURL:    strPtr("http://example.com/123.jpg"),
		Publisher:   strPtr("Καζαντζάκη"),
		Tags:        []string{"Fiction"},
		Year:        strPtr("1953"),
		Series:      strPtr(" Άπαντα "),
		SeriesIndex: strPtr("4"),
	}
	cand := Candidate{URL: "http://x/?isbn=9789600000001", Scheme: SchemeISBN, Value: "9789600000001", Rank: 2}

	rec, errs := BuildRecord(d, cand, "Biblionet")
	assert.Empty(t, errs)
	assert.Equal(t, "Biblionet", rec.Source)
	assert.Equal(t, "Ο Καπετάν Μιχάλης", rec.Title)
	assert.Equal(t, []string{"Νίκος Καζαντζάκης"}, rec.Authors)
	assert.Equal(t, "9789600000001", rec.Identifier(SchemeISBN))
	assert.Equal(t, "123", rec.Identifier(SchemeBiblionet))
	assert.Equal(t, "http://example.com/123.jpg", rec.CoverURL)
	assert.Equal(t, "Καζαντζάκη", rec.Publisher)
	assert.Equal(t, []string{"Fiction"}, rec.Tags)
	require.NotNil(t, rec.PubDate)
	assert.Equal(t, 1953, rec.PubDate.Year())
	assert.Equal(t, "Άπαντα", rec.Series)
	require.NotNil(t, rec.SeriesIndex)
	assert.Equal(t, 4.0, *rec.SeriesIndex)
	assert.Equal(t, 2, rec.SourceRelevance)
}

func TestBuildRecordSentinelYear(t *testing.T) {
	for _, y := range []string{YearNotFound, YearParseError} {
		rec, errs := BuildRecord(&Draft{Title: strPtr("T"), Year: strPtr(y)}, Candidate{}, "Biblionet")
		assert.Empty(t, errs)
		assert.Nil(t, rec.PubDate)
	}
}

func TestBuildRecordConversionFailuresAreIndependent(t *testing.T) {
	d := &Draft{
		Title:       strPtr("T"),
		Publisher:   strPtr("P"),
		Year:        strPtr("garbage"),
		SeriesIndex: strPtr("first"),
	}
	rec, errs := BuildRecord(d, Candidate{}, "Biblionet")

	require.Len(t, errs, 2)
	assert.Nil(t, rec.PubDate)
	assert.Nil(t, rec.SeriesIndex)
	assert.Equal(t, "P", rec.Publisher)
	assert.Equal(t, "T", rec.Title)
	assert.Empty(t, rec.Identifiers)
}
