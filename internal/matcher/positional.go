package matcher

import (
	"strings"

	"github.com/quran-reader-api/internal/arabic"
)

// PositionalScorer compares the i-th spoken word against the i-th expected
// word only.
type PositionalScorer struct{}

// Score implements Scorer. It is the mean of WordScores.
func (p PositionalScorer) Score(expected, spoken string) float64 {
	scores := p.WordScores(expected, spoken)
	if len(scores) == 0 {
		return 0
	}
	var sum float64
	for _, s := range scores {
		sum += s
	}
	return sum / float64(len(scores))
}

// WordScores returns the character similarity of each aligned word pair for
// the first min(len(expected), len(spoken)) words.
func (PositionalScorer) WordScores(expected, spoken string) []float64 {
	exp := strings.Fields(arabic.Normalize(expected))
	spk := strings.Fields(arabic.Normalize(spoken))
	n := min(len(exp), len(spk))
	if n == 0 {
		return nil
	}
	scores := make([]float64, n)
	for i := 0; i < n; i++ {
		scores[i] = charSimilarity(exp[i], spk[i])
	}
	return scores
}

// charSimilarity is the share of aligned runes that are equal, over the
// longer word's length.
func charSimilarity(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	longest := max(len(ra), len(rb))
	if longest == 0 {
		return 0
	}
	same := 0
	for i := 0; i < min(len(ra), len(rb)); i++ {
		if ra[i] == rb[i] {
			same++
		}
	}
	return float64(same) / float64(longest)
}
