// file: internal/metadata/sanitize_test.go
// version: 1.0.0
// guid: 4e5f6a7b-8c9d-4e0f-9a1b-2c3d4e5f6a7b

package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultSanitizer(t *testing.T) {
	rec := Record{
		// "ά" written as alpha + combining acute
		Title:     "Ο  Καπετα\u0301ν\tΜιχάλης\u0000",
		Publisher: "  Εστία ",
		Authors:   []string{"Νίκος Καζαντζάκης", " ", "Νίκος  Καζαντζάκης"},
		Tags:      []string{"Fiction", "", "Fiction", "Novel"},
		CoverURL:  " http://example.com/1.jpg\n",
	}
	DefaultSanitizer{}.Clean(&rec)

	assert.Equal(t, "Ο Καπετάν Μιχάλης", rec.Title)
	assert.Equal(t, "Εστία", rec.Publisher)
	assert.Equal(t, []string{"Νίκος Καζαντζάκης"}, rec.Authors)
	assert.Equal(t, []string{"Fiction", "Novel"}, rec.Tags)
	assert.Equal(t, "http://example.com/1.jpg", rec.CoverURL)
}

func TestDefaultSanitizerKeepsNilLists(t *testing.T) {
	rec := Record{Title: "T"}
	DefaultSanitizer{}.Clean(&rec)
	assert.Nil(t, rec.Authors)
	assert.Nil(t, rec.Tags)

	DefaultSanitizer{}.Clean(nil)
}
