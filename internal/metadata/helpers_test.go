// file: internal/metadata/helpers_test.go
// version: 1.0.0
// guid: 1b2c3d4e-5f6a-4b7c-8d9e-0f1a2b3c4d5e

package metadata

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const sampleBody = `{
	"biblionetid": "123",
	"title": "Ο Καπετάν Μιχάλης",
	"authors": "Νίκος Καζαντζάκης",
	"cover_url": "%s/covers/123.jpg",
	"publisher": "Καζαντζάκη",
	"categories": "Fiction-Novel DDC:813 extra",
	"yr_published": "2001"
}`

// jpegMagic is enough for http.DetectContentType to report image/jpeg.
var jpegMagic = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}

// backend is a fake lookup service keyed by the isbn query parameter.
type backend struct {
	*httptest.Server
	mu      sync.Mutex
	bodies  map[string]string
	delay   map[string]time.Duration
	lookups atomic.Int32
	covers  atomic.Int32
}

func newBackend(t *testing.T) *backend {
	t.Helper()
	b := &backend{bodies: map[string]string{}, delay: map[string]time.Duration{}}
	b.Server = httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(b.Close)
	return b
}

func (b *backend) serve(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/covers/") {
		b.covers.Add(1)
		if strings.Contains(r.URL.Path, "missing") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write(jpegMagic)
		return
	}

	b.lookups.Add(1)
	isbn := r.URL.Query().Get("isbn")
	b.mu.Lock()
	body, ok := b.bodies[isbn]
	d := b.delay[isbn]
	b.mu.Unlock()

	if d > 0 {
		time.Sleep(d)
	}
	if !ok {
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprint(w, "<html><head><title>404 - Not Found</title></head></html>")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = fmt.Fprint(w, body)
}

func (b *backend) set(isbn, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.bodies[isbn] = body
}

func (b *backend) slow(isbn string, d time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.delay[isbn] = d
}

func (b *backend) sample() string {
	return fmt.Sprintf(sampleBody, b.URL)
}

// recLogger captures log lines for assertions.
type recLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *recLogger) add(level, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, level+" "+fmt.Sprintf(format, args...))
}

func (l *recLogger) Info(format string, args ...any)  { l.add("INFO", format, args...) }
func (l *recLogger) Error(format string, args ...any) { l.add("ERROR", format, args...) }
func (l *recLogger) Exception(err error, format string, args ...any) {
	l.add("EXCEPTION", format+": %v", append(args, err)...)
}

func (l *recLogger) contains(substr string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, line := range l.lines {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}

func newTestSource(t *testing.T, baseURL string, opts ...Option) (*Source, *recLogger) {
	t.Helper()
	log := &recLogger{}
	cfg := Config{
		BaseURL:      baseURL + "/index.php",
		Timeout:      2 * time.Second,
		PollInterval: 10 * time.Millisecond,
	}
	src, err := NewSource(cfg, append([]Option{WithLogger(log)}, opts...)...)
	require.NoError(t, err)
	return src, log
}

func isbnRequest(isbn string) SearchRequest {
	return SearchRequest{Identifiers: Identifiers{}.Set(SchemeISBN, isbn)}
}

func drain[T any](ch chan T) []T {
	var out []T
	for {
		select {
		case v := <-ch:
			out = append(out, v)
		default:
			return out
		}
	}
}
