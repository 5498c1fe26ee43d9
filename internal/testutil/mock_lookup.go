// file: internal/testutil/mock_lookup.go
// version: 2.0.0
// guid: c3d4e5f6-a7b8-9012-cdef-345678901abc

package testutil

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// KnownISBN resolves to KapetanMichalisResponse in MockLookupService.
const KnownISBN = "9789600000001"

// JPEGMagic is enough for http.DetectContentType to report image/jpeg.
var JPEGMagic = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}

// NotFoundPage is what the service answers, with status 200, for an
// unknown ISBN.
const NotFoundPage = "<html><head><title>404 - Not Found</title></head></html>"

// KapetanMichalisResponse is a full lookup payload. {{BASE}} is replaced
// with the mock server URL so the cover is served by the same mock.
const KapetanMichalisResponse = `{
	"biblionetid": "123",
	"title": "Ο Καπετάν Μιχάλης",
	"authors": "Νίκος Καζαντζάκης",
	"cover_url": "{{BASE}}/covers/123.jpg",
	"publisher": "Καζαντζάκη",
	"categories": "Fiction-Novel DDC:813 extra",
	"yr_published": "1953"
}`

// MockLookupService creates an httptest.Server that mimics the lookup
// service. responses maps the isbn query parameter to a body; nil uses
// KnownISBN -> KapetanMichalisResponse. Every /covers/ path returns
// JPEGMagic. The server is closed when the test ends.
func MockLookupService(t *testing.T, responses map[string]string) *httptest.Server {
	t.Helper()
	if responses == nil {
		responses = map[string]string{KnownISBN: KapetanMichalisResponse}
	}
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/covers/") {
			w.Header().Set("Content-Type", "image/jpeg")
			_, _ = w.Write(JPEGMagic)
			return
		}
		body, ok := responses[r.URL.Query().Get("isbn")]
		if !ok {
			_, _ = w.Write([]byte(NotFoundPage))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(strings.ReplaceAll(body, "{{BASE}}", srv.URL)))
	}))
	t.Cleanup(srv.Close)
	return srv
}
