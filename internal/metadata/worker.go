// file: internal/metadata/worker.go
// version: 1.0.0
// guid: 7e3d2c1b-6a59-4b8c-9d0e-1f2a3b4c5d6e

package metadata

import (
	"context"
	"errors"
	"time"

	"github.com/jdfalk/bookmeta/internal/metrics"
)

// runWorker fetches one candidate and emits at most one record on out.
// Every failure is logged here; nothing is returned.
func (s *Source) runWorker(ctx context.Context, fetcher Fetcher, cand Candidate, timeout time.Duration, out chan<- Record) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Exception(nil, "get_details panicked for url %q: %v", cand.URL, r)
			metrics.IncFetch(metrics.OutcomeError)
		}
	}()

	if ctx.Err() != nil {
		s.log.Info("Skipping %s: identify was cancelled", cand.URL)
		metrics.IncFetch(metrics.OutcomeCanceled)
		return
	}

	rec, ok := s.fetchRecord(ctx, fetcher, cand, timeout)
	if !ok {
		return
	}

	s.sanitizer.Clean(&rec)

	select {
	case out <- rec:
		metrics.IncRecordsEmitted(s.cfg.Name)
	case <-ctx.Done():
		s.log.Info("Dropping result for %s: identify was cancelled", cand.URL)
	}
}

// fetchRecord performs the request and turns the response into a record.
// The request is detached from ctx cancellation: once issued it runs to
// completion or timeout.
func (s *Source) fetchRecord(ctx context.Context, fetcher Fetcher, cand Candidate, timeout time.Duration) (Record, bool) {
	start := time.Now()
	raw, err := fetcher.Fetch(context.WithoutCancel(ctx), cand.URL, timeout)
	metrics.ObserveFetchDuration(time.Since(start))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			s.log.Error("URL malformed: %q", cand.URL)
			metrics.IncFetch(metrics.OutcomeNotFound)
		case errors.Is(err, ErrTimeout):
			s.log.Error("Bookmeta for biblionet timed out. Try again later.")
			metrics.IncFetch(metrics.OutcomeTimeout)
		default:
			s.log.Exception(err, "Failed to make details query: %q", cand.URL)
			metrics.IncFetch(metrics.OutcomeError)
		}
		return Record{}, false
	}

	draft, err := ParseResponse(raw)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.log.Error("URL malformed: %q", cand.URL)
			metrics.IncFetch(metrics.OutcomeNotFound)
		} else {
			s.log.Exception(err, "Failed to parse book detail page: %q", cand.URL)
			metrics.IncFetch(metrics.OutcomeDecodeError)
		}
		return Record{}, false
	}
	for _, fe := range draft.FieldErrors {
		s.log.Error("Error parsing %s for url %q: %v", fe.Field, cand.URL, fe.Err)
	}

	rec, convErrs := BuildRecord(draft, cand, s.cfg.Name)
	for _, fe := range convErrs {
		s.log.Error("Error converting %s for url %q: %v", fe.Field, cand.URL, fe.Err)
	}

	s.remember(cand, draft)
	metrics.IncFetch(metrics.OutcomeOK)
	return rec, true
}

// remember records the cover URL and ISBN mapping learned from a draft.
func (s *Source) remember(cand Candidate, d *Draft) {
	if d.BiblionetID == nil || *d.BiblionetID == "" {
		return
	}
	id := *d.BiblionetID
	if d.CoverURL != nil && *d.CoverURL != "" {
		s.covers.Set(id, *d.CoverURL)
	}
	if cand.Scheme == SchemeISBN {
		if err := s.index.Remember(cand.Value, id); err != nil {
			s.log.Error("Failed to index isbn %s -> %s: %v", cand.Value, id, err)
		}
	}
}
