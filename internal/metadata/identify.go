// file: internal/metadata/identify.go
// version: 1.1.0
// guid: 2d9c8b7a-6f5e-4d3c-8b2a-1f0e9d8c7b6a

package metadata

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/jdfalk/bookmeta/internal/metrics"
)

const opIdentify = "identify"

// Candidates builds one lookup URL per recognized identifier, in the order
// the identifiers were supplied. That order is the relevance rank.
func (s *Source) Candidates(req SearchRequest) []Candidate {
	var out []Candidate
	for _, id := range req.Identifiers {
		param, ok := candidateSchemes[id.Scheme]
		if !ok || id.Value == "" {
			continue
		}
		out = append(out, Candidate{
			URL:    s.lookupURL(param, id.Value),
			Scheme: id.Scheme,
			Value:  id.Value,
			Rank:   len(out),
		})
	}
	return out
}

func (s *Source) lookupURL(param, value string) string {
	u := *s.base
	q := u.Query()
	q.Set(param, value)
	u.RawQuery = q.Encode()
	return u.String()
}

// Identify runs one worker per candidate and returns once all of them are
// done or ctx is cancelled. Records go straight to out, in completion
// order. Identifier-less searches (title/author only) are not attempted.
func (s *Source) Identify(ctx context.Context, req SearchRequest, out chan<- Record) error {
	cands := s.Candidates(req)
	if ctx.Err() != nil {
		return nil
	}
	s.log.Info("Matches are: %v", candidateURLs(cands))
	if len(cands) == 0 {
		return nil
	}

	start := time.Now()
	metrics.IncOperationStarted(opIdentify)
	timeout := s.requestTimeout(req)

	var wg sync.WaitGroup
	var running atomic.Int32
	pace := rate.NewLimiter(rate.Every(s.cfg.StaggerDelay), 1)

	for _, cand := range cands {
		// Don't send all requests at the same time.
		if !s.stagger(ctx, pace) {
			s.log.Info("Identify cancelled before starting %s", cand.URL)
			break
		}
		wg.Add(1)
		running.Add(1)
		go func(c Candidate) {
			defer wg.Done()
			defer running.Add(-1)
			s.runWorker(ctx, s.fetcher.Clone(), c, timeout, out)
		}(cand)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	tick := time.NewTicker(s.cfg.PollInterval)
	defer tick.Stop()
	for {
		select {
		case <-done:
			metrics.IncOperationCompleted(opIdentify)
			metrics.ObserveOperationDuration(opIdentify, time.Since(start))
			return nil
		case <-ctx.Done():
			s.log.Info("Identify cancelled with %d worker(s) still running", running.Load())
			metrics.IncOperationCanceled(opIdentify)
			return nil
		case <-tick.C:
			if n := running.Load(); n > 0 && time.Since(start) > 10*s.cfg.PollInterval {
				s.log.Info("Waiting for %d worker(s)", n)
			}
		}
	}
}

// IdentifyRanked runs Identify into a private queue and returns what arrived,
// best match first. Records still in flight when ctx is cancelled are
// dropped.
func (s *Source) IdentifyRanked(ctx context.Context, req SearchRequest) []Record {
	// One slot per candidate so workers never block on the private queue.
	results := make(chan Record, max(len(s.Candidates(req)), 1))
	if err := s.Identify(ctx, req, results); err != nil {
		s.log.Error("Identify failed: %v", err)
	}

	var recs []Record
	for {
		select {
		case r := <-results:
			recs = append(recs, r)
		default:
			s.sortByRank(req, recs)
			return recs
		}
	}
}

// stagger waits for the next start slot. Only cancellation stops it; a
// deadline that falls before the slot does not.
func (s *Source) stagger(ctx context.Context, pace *rate.Limiter) bool {
	r := pace.Reserve()
	d := r.Delay()
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return ctx.Err() == nil
	case <-ctx.Done():
		r.Cancel()
		return false
	}
}

func candidateURLs(cands []Candidate) []string {
	urls := make([]string, len(cands))
	for i, c := range cands {
		urls[i] = c.URL
	}
	return urls
}
