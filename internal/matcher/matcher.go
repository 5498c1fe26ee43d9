// file: internal/matcher/matcher.go
// version: 2.0.0
// guid: 1f2a3b4c-5d6e-7f8a-9b0c-1d2e3f4a5b6c

package matcher

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/jdfalk/bookmeta/internal/metadata"
)

// Score weights
const (
	identifierBonus = 200
	coverBonus      = 10
	containsBonus   = 15
)

// Ranker scores identify results against the query that produced them.
// It satisfies metadata.Ranker.
type Ranker struct{}

// NewRanker returns a Ranker.
func NewRanker() *Ranker {
	return &Ranker{}
}

// Score is higher for better matches. An ISBN identical to the requested one
// outweighs any title or author similarity.
func (r *Ranker) Score(req metadata.SearchRequest, rec metadata.Record) int {
	score := 0

	for _, scheme := range []string{metadata.SchemeISBN, metadata.SchemeBiblionet} {
		want, ok := req.Identifiers.Get(scheme)
		if ok && normalizeID(want) != "" && normalizeID(want) == normalizeID(rec.Identifier(scheme)) {
			score += identifierBonus
			break
		}
	}

	if req.Title != "" && rec.Title != "" {
		score += ScoreMatch(req.Title, rec.Title)
		if fuzzy.MatchNormalizedFold(Fold(req.Title), Fold(rec.Title)) {
			score += containsBonus
		}
	}

	score += authorScore(req.Authors, rec.Authors) / 2

	if rec.CoverURL != "" {
		score += coverBonus
	}
	return score
}

// authorScore returns the best pairing between requested and found authors.
func authorScore(want, got []string) int {
	best := 0
	for _, w := range want {
		for _, g := range got {
			best = max(best, ScoreMatch(w, g))
		}
	}
	return best
}

func normalizeID(s string) string {
	s = strings.ReplaceAll(s, "-", "")
	s = strings.ReplaceAll(s, " ", "")
	return strings.ToUpper(s)
}
