// file: internal/matcher/fuzzy.go
// version: 2.0.0
// guid: a1b2c3d4-e5f6-7890-abcd-ef1234567890

package matcher

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// LevenshteinDistance computes the edit distance between two strings,
// counted in runes and ignoring case.
func LevenshteinDistance(a, b string) int {
	ra := []rune(strings.ToLower(a))
	rb := []rune(strings.ToLower(b))
	la, lb := len(ra), len(rb)
	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}

	// Single-row DP
	prev := make([]int, lb+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= la; i++ {
		curr := make([]int, lb+1)
		curr[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(curr[j-1]+1, min(prev[j]+1, prev[j-1]+cost))
		}
		prev = curr
	}
	return prev[lb]
}

// ScoreMatch scores how well query matches target. Returns 0-100.
// Accents are folded first, so "Καζαντζάκης" and "ΚΑΖΑΝΤΖΑΚΗΣ" score 100.
func ScoreMatch(query, target string) int {
	if query == "" || target == "" {
		return 0
	}
	q := normalize(query)
	t := normalize(target)

	if q == "" || t == "" {
		return 0
	}

	if q == t {
		return 100
	}

	score := 0

	// Prefix match: target starts with query
	if strings.HasPrefix(t, q) {
		score = max(score, 90)
	}

	if strings.Contains(t, q) {
		// Shorter targets are more specific
		ratio := float64(runeLen(q)) / float64(runeLen(t))
		score = max(score, 60+int(ratio*25))
	}

	words := strings.Fields(t)
	for _, w := range words {
		if strings.HasPrefix(w, q) {
			score = max(score, 80)
			break
		}
	}

	score = max(score, similarity(q, t, 50))

	// Best single word
	for _, w := range words {
		score = max(score, similarity(q, w, 70))
	}

	return score
}

func similarity(a, b string, scale int) int {
	maxLen := max(runeLen(a), runeLen(b))
	if maxLen == 0 {
		return 0
	}
	s := int((1.0 - float64(LevenshteinDistance(a, b))/float64(maxLen)) * float64(scale))
	return max(s, 0)
}

func runeLen(s string) int {
	return len([]rune(s))
}

// Fold strips diacritics and case-folds s. Case folding maps the Greek
// final sigma onto σ, which strings.ToLower does not.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return cases.Fold().String(out)
}

// normalize folds s and strips everything but letters, digits and spaces.
func normalize(s string) string {
	s = Fold(s)
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
