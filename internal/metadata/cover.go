// file: internal/metadata/cover.go
// version: 2.0.0
// guid: 4efaa7b8-e29a-47f3-84f7-39b46bfc9a01

package metadata

import (
	"context"
	"sort"

	"github.com/jdfalk/bookmeta/internal/metrics"
)

// ResolveID returns the remote id for a request: the biblionet identifier
// when given, else whatever a previous identify learned for the ISBN.
func (s *Source) ResolveID(req SearchRequest) string {
	if id, ok := req.Identifiers.Get(SchemeBiblionet); ok && id != "" {
		return id
	}
	if isbn, ok := req.Identifiers.Get(SchemeISBN); ok && isbn != "" {
		if id, ok := s.index.LookupISBN(isbn); ok {
			return id
		}
	}
	return ""
}

// ResolveCoverURL finds a cover URL for req, running a full identify pass
// only when the cover cache has nothing for the resolved id.
func (s *Source) ResolveCoverURL(ctx context.Context, req SearchRequest) string {
	if u, ok := s.CoverURLFor(s.ResolveID(req)); ok {
		metrics.IncCoverCache(metrics.CacheHit)
		return u
	}
	metrics.IncCoverCache(metrics.CacheMiss)

	s.log.Info("No cached cover found, running identify")
	recs := s.IdentifyRanked(ctx, req)
	if ctx.Err() != nil {
		return ""
	}
	for _, r := range recs {
		if r.CoverURL != "" {
			return r.CoverURL
		}
		if u, ok := s.CoverURLFor(r.Identifier(SchemeBiblionet)); ok {
			return u
		}
	}
	return ""
}

// DownloadCover resolves and fetches a cover, pushing at most one Cover on
// out. Missing covers and fetch failures are logged, never returned.
func (s *Source) DownloadCover(ctx context.Context, req SearchRequest, out chan<- Cover) error {
	coverURL := s.ResolveCoverURL(ctx, req)
	if coverURL == "" {
		s.log.Info("No cover found")
		return nil
	}
	if ctx.Err() != nil {
		return nil
	}

	s.log.Info("Downloading cover from: %s", coverURL)
	data, err := s.fetcher.Clone().Fetch(context.WithoutCancel(ctx), coverURL, s.requestTimeout(req))
	if err != nil {
		s.log.Exception(err, "Failed to download cover from: %s", coverURL)
		metrics.IncCoverDownload(false)
		return nil
	}
	metrics.IncCoverDownload(true)

	select {
	case out <- Cover{Source: s.cfg.Name, URL: coverURL, Data: data}:
	case <-ctx.Done():
	}
	return nil
}

// sortByRank orders records best first; ties keep source relevance order.
func (s *Source) sortByRank(req SearchRequest, recs []Record) {
	type scored struct {
		rec   Record
		score int
	}
	items := make([]scored, len(recs))
	for i, r := range recs {
		items[i] = scored{rec: r, score: s.ranker.Score(req, r)}
	}
	sort.SliceStable(items, func(a, b int) bool {
		if items[a].score != items[b].score {
			return items[a].score > items[b].score
		}
		return items[a].rec.SourceRelevance < items[b].rec.SourceRelevance
	})
	for i := range items {
		recs[i] = items[i].rec
	}
}

// relevanceRanker is the fallback Ranker: every record scores the same,
// so ordering falls back to source relevance.
type relevanceRanker struct{}

func (relevanceRanker) Score(SearchRequest, Record) int { return 0 }
