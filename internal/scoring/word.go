package scoring

import (
	"math"
	"strings"
)

// Pass thresholds for word attempts
const (
	WordPassThreshold    = 80
	PhonemePassThreshold = 80
)

// WordScore is the result of scoring a spoken-word attempt against a target
// word. Accuracies are integer percentages.
type WordScore struct {
	TextAccuracy     int
	PhonemeAccuracy  int
	CombinedAccuracy int
	Passed           bool
}

// phonemeSubstitutions collapses common digraphs to an approximate sound.
// The table and its order are load-bearing: existing level difficulty was
// tuned against exactly these substitutions, applied in exactly this order.
var phonemeSubstitutions = [][2]string{
	{"ph", "f"},
	{"gh", "g"},
	{"kn", "n"},
	{"wr", "r"},
	{"wh", "w"},
	{"ck", "k"},
	{"qu", "kw"},
	{"th", "t"},
	{"ch", "k"},
}

// WordScorer scores spoken-word attempts with a pluggable similarity metric.
type WordScorer struct {
	sim Similarity
}

// NewWordScorer creates a scorer with the given similarity metric. A nil
// metric falls back to the bigram Dice coefficient.
func NewWordScorer(sim Similarity) *WordScorer {
	if sim == nil {
		sim = DiceSimilarity{}
	}
	return &WordScorer{sim: sim}
}

// Score compares an observed transcription against the target word. Both are
// lower-cased before comparison. The combined accuracy weighs raw text
// similarity at 70% and phoneme-simplified similarity at 30%; an attempt
// passes when both the combined and phoneme accuracies reach 80.
func (s *WordScorer) Score(target, observed string) WordScore {
	target = strings.ToLower(target)
	observed = strings.ToLower(observed)

	text := roundHalfUp(s.sim.Compare(observed, target) * 100)
	phoneme := roundHalfUp(s.sim.Compare(SimplifyPhoneme(observed), SimplifyPhoneme(target)) * 100)
	combined := roundHalfUp(0.7*float64(text) + 0.3*float64(phoneme))

	return WordScore{
		TextAccuracy:     text,
		PhonemeAccuracy:  phoneme,
		CombinedAccuracy: combined,
		Passed:           combined >= WordPassThreshold && phoneme >= PhonemePassThreshold,
	}
}

// ScoreWord scores a single attempt with the default Dice metric.
func ScoreWord(target, observed string) WordScore {
	return NewWordScorer(nil).Score(target, observed)
}

// SimplifyPhoneme reduces a word to a crude sound-alike form: digraph
// substitutions, all vowels collapsed to "a", non-letters stripped. It is not
// a phonetic analysis, just a cheap approximation that forgives the spelling
// slips dyslexic readers commonly make.
func SimplifyPhoneme(word string) string {
	word = strings.ToLower(word)
	for _, sub := range phonemeSubstitutions {
		word = strings.ReplaceAll(word, sub[0], sub[1])
	}

	var b strings.Builder
	for _, r := range word {
		switch {
		case r == 'a' || r == 'e' || r == 'i' || r == 'o' || r == 'u':
			b.WriteByte('a')
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
		}
	}
	return b.String()
}

func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}
