// file: internal/metadata/cover_test.go
// version: 2.0.0
// guid: 5fa1b8c9-d3e4-48f5-95a8-4ac57cde0b12

package metadata

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func biblionetRequest(id string) SearchRequest {
	return SearchRequest{Identifiers: Identifiers{}.Set(SchemeBiblionet, id)}
}

func TestDownloadCoverCacheHitSkipsIdentify(t *testing.T) {
	b := newBackend(t)
	src, _ := newTestSource(t, b.URL)
	src.covers.Set("123", b.URL+"/covers/123.jpg")

	out := make(chan Cover, 1)
	require.NoError(t, src.DownloadCover(context.Background(), biblionetRequest("123"), out))

	covers := drain(out)
	require.Len(t, covers, 1)
	assert.Equal(t, jpegMagic, covers[0].Data)
	assert.Equal(t, "image/jpeg", http.DetectContentType(covers[0].Data))
	assert.Equal(t, b.URL+"/covers/123.jpg", covers[0].URL)
	assert.Equal(t, int32(1), b.covers.Load())
	assert.Equal(t, int32(0), b.lookups.Load())
}

func TestDownloadCoverSmallVariant(t *testing.T) {
	b := newBackend(t)
	src, _ := newTestSource(t, b.URL)
	src.covers.Set("small/9", b.URL+"/covers/9-small.jpg")

	u, ok := src.CoverURLFor("9")
	require.True(t, ok)
	assert.Equal(t, b.URL+"/covers/9-small.jpg", u)
}

func TestDownloadCoverFallsBackToIdentify(t *testing.T) {
	b := newBackend(t)
	b.set("9789600000001", b.sample())
	src, log := newTestSource(t, b.URL)

	out := make(chan Cover, 1)
	require.NoError(t, src.DownloadCover(context.Background(), isbnRequest("9789600000001"), out))

	covers := drain(out)
	require.Len(t, covers, 1)
	assert.Equal(t, b.URL+"/covers/123.jpg", covers[0].URL)
	assert.Equal(t, int32(1), b.lookups.Load())
	assert.True(t, log.contains("No cached cover found, running identify"))

	// Second call resolves through the learned isbn mapping and the cache.
	require.NoError(t, src.DownloadCover(context.Background(), isbnRequest("9789600000001"), out))
	require.Len(t, drain(out), 1)
	assert.Equal(t, int32(1), b.lookups.Load())
	assert.Equal(t, int32(2), b.covers.Load())
}

func TestDownloadCoverNothingFound(t *testing.T) {
	b := newBackend(t)
	src, log := newTestSource(t, b.URL)

	out := make(chan Cover, 1)
	require.NoError(t, src.DownloadCover(context.Background(), isbnRequest("404"), out))
	assert.Empty(t, drain(out))
	assert.True(t, log.contains("No cover found"))
	assert.Equal(t, int32(0), b.covers.Load())
}

func TestDownloadCoverFetchFailureIsSwallowed(t *testing.T) {
	b := newBackend(t)
	src, log := newTestSource(t, b.URL)
	src.covers.Set("5", b.URL+"/covers/missing.jpg")

	out := make(chan Cover, 1)
	err := src.DownloadCover(context.Background(), biblionetRequest("5"), out)
	assert.NoError(t, err)
	assert.Empty(t, drain(out))
	assert.True(t, log.contains("Failed to download cover from"))
}

func TestDownloadCoverCancelledBeforeIdentify(t *testing.T) {
	b := newBackend(t)
	b.set("1", b.sample())
	src, _ := newTestSource(t, b.URL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := make(chan Cover, 1)
	require.NoError(t, src.DownloadCover(ctx, isbnRequest("1"), out))
	assert.Empty(t, drain(out))
	assert.Equal(t, int32(0), b.lookups.Load())
	assert.Equal(t, int32(0), b.covers.Load())
}

func TestResolveID(t *testing.T) {
	src, _ := newTestSource(t, "http://bookmeta.example")
	require.NoError(t, src.index.Remember("978", "55"))

	assert.Equal(t, "7", src.ResolveID(biblionetRequest("7")))
	assert.Equal(t, "55", src.ResolveID(isbnRequest("978")))
	assert.Equal(t, "", src.ResolveID(isbnRequest("979")))
	assert.Equal(t, "", src.ResolveID(SearchRequest{}))
}
