package scoring

import "testing"

func TestDiceSimilarity(t *testing.T) {
	sim := DiceSimilarity{}

	tests := []struct {
		name     string
		a, b     string
		expected float64
	}{
		{name: "identical strings", a: "ship", b: "ship", expected: 1},
		{name: "both empty", a: "", b: "", expected: 1},
		{name: "empty vs word", a: "", b: "cat", expected: 0},
		{name: "single letter vs word", a: "c", b: "cat", expected: 0},
		{name: "no common bigrams", a: "xyz", b: "cat", expected: 0},
		{name: "night nacht", a: "night", b: "nacht", expected: 0.25},
		{name: "healed sealed", a: "healed", b: "sealed", expected: 0.8},
		{name: "whitespace ignored", a: "ca t", b: "cat", expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := sim.Compare(tt.a, tt.b)
			if result != tt.expected {
				t.Errorf("Compare(%q, %q) = %v, want %v", tt.a, tt.b, result, tt.expected)
			}
		})
	}
}

func TestSimplifyPhoneme(t *testing.T) {
	tests := []struct {
		word     string
		expected string
	}{
		{word: "phone", expected: "fana"},
		{word: "fone", expected: "fana"},
		{word: "knight", expected: "nagt"},
		{word: "ship", expected: "shap"},
		{word: "check", expected: "kak"},
		{word: "quick", expected: "kwak"},
		{word: "wrath", expected: "rat"},
		{word: "don't!", expected: "dant"},
		{word: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			result := SimplifyPhoneme(tt.word)
			if result != tt.expected {
				t.Errorf("SimplifyPhoneme(%q) = %q, want %q", tt.word, result, tt.expected)
			}
		})
	}
}

func TestScoreWord(t *testing.T) {
	tests := []struct {
		name             string
		target, observed string
		textAccuracy     int
		phonemeAccuracy  int
		combinedAccuracy int
		passed           bool
	}{
		{
			name:   "exact match passes",
			target: "ship", observed: "ship",
			textAccuracy: 100, phonemeAccuracy: 100, combinedAccuracy: 100, passed: true,
		},
		{
			name:   "disjoint alphabets score zero",
			target: "cat", observed: "xyz",
			textAccuracy: 0, phonemeAccuracy: 0, combinedAccuracy: 0, passed: false,
		},
		{
			name:   "ph digraph collapses for phoneme score",
			target: "phone", observed: "fone",
			textAccuracy: 57, phonemeAccuracy: 100, combinedAccuracy: 70, passed: false,
		},
		{
			name:   "close miss on short word",
			target: "ship", observed: "sip",
			textAccuracy: 40, phonemeAccuracy: 40, combinedAccuracy: 40, passed: false,
		},
		{
			name:   "empty observed scores zero",
			target: "cat", observed: "",
			textAccuracy: 0, phonemeAccuracy: 0, combinedAccuracy: 0, passed: false,
		},
		{
			name:   "case insensitive",
			target: "Ship", observed: "SHIP",
			textAccuracy: 100, phonemeAccuracy: 100, combinedAccuracy: 100, passed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ScoreWord(tt.target, tt.observed)
			if result.TextAccuracy != tt.textAccuracy {
				t.Errorf("TextAccuracy = %d, want %d", result.TextAccuracy, tt.textAccuracy)
			}
			if result.PhonemeAccuracy != tt.phonemeAccuracy {
				t.Errorf("PhonemeAccuracy = %d, want %d", result.PhonemeAccuracy, tt.phonemeAccuracy)
			}
			if result.CombinedAccuracy != tt.combinedAccuracy {
				t.Errorf("CombinedAccuracy = %d, want %d", result.CombinedAccuracy, tt.combinedAccuracy)
			}
			if result.Passed != tt.passed {
				t.Errorf("Passed = %v, want %v", result.Passed, tt.passed)
			}
		})
	}
}

func TestScoreWordDeterministic(t *testing.T) {
	first := ScoreWord("elephant", "elefant")
	second := ScoreWord("elephant", "elefant")
	if first != second {
		t.Errorf("repeated scoring differed: %+v vs %+v", first, second)
	}
}

func TestScoreWordPhonemeNotAlwaysHigher(t *testing.T) {
	// vowel collapse can make simplified forms less similar than raw text,
	// so phonemeAccuracy >= textAccuracy must not be assumed
	result := ScoreWord("beat", "bite")
	if result.TextAccuracy == 0 && result.PhonemeAccuracy == 0 {
		t.Skip("degenerate case, nothing to compare")
	}
	// simply asserting both are well-defined percentages
	if result.PhonemeAccuracy < 0 || result.PhonemeAccuracy > 100 {
		t.Errorf("PhonemeAccuracy out of range: %d", result.PhonemeAccuracy)
	}
	if result.TextAccuracy < 0 || result.TextAccuracy > 100 {
		t.Errorf("TextAccuracy out of range: %d", result.TextAccuracy)
	}
}

func TestRoundHalfUp(t *testing.T) {
	tests := []struct {
		in       float64
		expected int
	}{
		{0.4, 0},
		{0.5, 1},
		{69.9, 70},
		{84.5, 85},
		{100, 100},
	}

	for _, tt := range tests {
		if got := roundHalfUp(tt.in); got != tt.expected {
			t.Errorf("roundHalfUp(%v) = %d, want %d", tt.in, got, tt.expected)
		}
	}
}

func TestLevenshteinSimilarity(t *testing.T) {
	sim := LevenshteinSimilarity{}

	if got := sim.Compare("ship", "ship"); got != 1 {
		t.Errorf("identical strings = %v, want 1", got)
	}
	if got := sim.Compare("abc", "xyz"); got != 0 {
		t.Errorf("fully distinct strings = %v, want 0", got)
	}

	// pluggable metric property: still usable by the word scorer
	result := NewWordScorer(LevenshteinSimilarity{}).Score("ship", "ship")
	if result.CombinedAccuracy != 100 || !result.Passed {
		t.Errorf("exact match with levenshtein metric = %+v, want pass at 100", result)
	}
}
