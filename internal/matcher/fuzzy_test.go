// file: internal/matcher/fuzzy_test.go
// version: 2.0.0
// guid: b2c3d4e5-f6a7-8901-bcde-f23456789012

package matcher

import "testing"

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"saturday", "sunday", 3},
		{"abc", "abc", 0},
		{"ABC", "abc", 0}, // case insensitive
		{"αβγ", "αβδ", 1}, // counted in runes
	}
	for _, tt := range tests {
		got := LevenshteinDistance(tt.a, tt.b)
		if got != tt.want {
			t.Errorf("LevenshteinDistance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestScoreMatch(t *testing.T) {
	tests := []struct {
		query, target string
		minExpected   int
		maxExpected   int
	}{
		// Exact match
		{"Harry Potter", "Harry Potter", 100, 100},
		// Case insensitive exact
		{"harry potter", "Harry Potter", 100, 100},
		// Prefix
		{"Harry", "Harry Potter and the Philosopher's Stone", 80, 95},
		// Substring
		{"Potter", "Harry Potter", 60, 90},
		// Fuzzy (typo)
		{"Hary Poter", "Harry Potter", 30, 75},
		// No match
		{"xyzzy", "Harry Potter", 0, 20},
		// Empty
		{"", "Harry Potter", 0, 0},
		{"Harry", "", 0, 0},
	}
	for _, tt := range tests {
		score := ScoreMatch(tt.query, tt.target)
		if score < tt.minExpected || score > tt.maxExpected {
			t.Errorf("ScoreMatch(%q, %q) = %d, want [%d, %d]",
				tt.query, tt.target, score, tt.minExpected, tt.maxExpected)
		}
	}
}

func TestScoreMatch_Ranking(t *testing.T) {
	query := "dune"
	// Exact should beat substring which should beat fuzzy
	exact := ScoreMatch(query, "Dune")
	substring := ScoreMatch(query, "Dune Messiah")
	fuzzy := ScoreMatch(query, "June")

	if exact <= substring {
		t.Errorf("exact (%d) should beat substring (%d)", exact, substring)
	}
	if substring <= fuzzy {
		t.Errorf("substring (%d) should beat fuzzy (%d)", substring, fuzzy)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"Hello, World!", "hello world"},
		{"  spaces  ", "spaces"},
		{"it's a test", "its a test"},
	}
	for _, tt := range tests {
		got := normalize(tt.input)
		if got != tt.want {
			t.Errorf("normalize(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestScoreMatchFoldsGreekAccents(t *testing.T) {
	if got := ScoreMatch("Καζαντζάκης", "ΚΑΖΑΝΤΖΑΚΗΣ"); got != 100 {
		t.Errorf("ScoreMatch accent/case folded = %d, want 100", got)
	}
	if got := ScoreMatch("Ζορμπάς", "Βίος και πολιτεία του Αλέξη Ζορμπά"); got < 40 {
		t.Errorf("ScoreMatch word match = %d, want >= 40", got)
	}
}

func TestFold(t *testing.T) {
	tests := map[string]string{
		"Ο Καπετάν Μιχάλης": "ο καπεταν μιχαλησ",
		"Café":              "cafe",
		"":                  "",
	}
	for in, want := range tests {
		if got := Fold(in); got != want {
			t.Errorf("Fold(%q) = %q, want %q", in, got, want)
		}
	}
}
