// file: internal/batch/batch.go
// version: 1.1.0
// guid: 6b7c8d9e-0f1a-4b2c-9d3e-4f5a6b7c8d9e

package batch

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jdfalk/bookmeta/internal/metadata"
)

// Identifier is the part of metadata.Source a batch run needs.
type Identifier interface {
	IdentifyRanked(ctx context.Context, req metadata.SearchRequest) []metadata.Record
}

// Result is the outcome for one ISBN.
type Result struct {
	ISBN    string            `json:"isbn"`
	Records []metadata.Record `json:"records"`
	Error   string            `json:"error,omitempty"`
}

// ErrNoMatch is reported in Result.Error when the source returned nothing.
const ErrNoMatch = "no match"

// ReadISBNs reads one ISBN per line. Blank lines, "#" comments and
// duplicates are skipped.
func ReadISBNs(r io.Reader) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = strings.TrimSpace(line[:i])
		}
		if line == "" || seen[line] {
			continue
		}
		seen[line] = true
		out = append(out, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read isbn list: %w", err)
	}
	return out, nil
}

// Run identifies every ISBN with at most workers lookups in flight.
// onDone, if set, is called once per finished ISBN and never concurrently.
// Results keep the input order; entries not finished before ctx was
// cancelled, including ones in flight at that moment, are left with only
// their ISBN set and are not passed to onDone.
func Run(ctx context.Context, src Identifier, isbns []string, workers int, onDone func(Result)) ([]Result, error) {
	if workers < 1 {
		workers = 1
	}
	results := make([]Result, len(isbns))
	for i, isbn := range isbns {
		results[i].ISBN = isbn
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	var mu sync.Mutex
	for i, isbn := range isbns {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			req := metadata.SearchRequest{
				Identifiers: metadata.Identifiers{}.Set(metadata.SchemeISBN, isbn),
			}
			res := Result{ISBN: isbn, Records: src.IdentifyRanked(ctx, req)}
			if err := ctx.Err(); err != nil {
				// A lookup cut short is not a miss.
				return err
			}
			if len(res.Records) == 0 {
				res.Error = ErrNoMatch
			}

			mu.Lock()
			results[i] = res
			if onDone != nil {
				onDone(res)
			}
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
