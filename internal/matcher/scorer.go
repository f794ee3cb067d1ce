// Package matcher scores how closely a spoken or typed query matches verse text.
//
// Two strategies are provided. VerseScorer ranks whole verses for retrieval.
// PositionalScorer compares word-by-word at aligned positions and drives the
// recitation correction view. They answer different questions and are kept
// separate.
package matcher

import (
	"strings"

	"github.com/quran-reader-api/internal/arabic"
)

// Scorer computes a similarity in [0,1] between the expected verse text and
// what was spoken. Scorers are not symmetric.
type Scorer interface {
	Score(expected, spoken string) float64
}

const (
	exactScore    = 1.0
	containsScore = 0.95
	prefixScore   = 0.9
	matchedWeight = 0.8
	partialWeight = 0.4
)

// VerseScorer is the whole-verse cascade used for verse retrieval.
type VerseScorer struct{}

// Score implements Scorer.
func (VerseScorer) Score(expected, spoken string) float64 {
	exp := arabic.Normalize(expected)
	spk := arabic.Normalize(spoken)
	if exp == "" || spk == "" {
		return 0
	}

	switch {
	case exp == spk:
		return exactScore
	case strings.Contains(exp, spk):
		return containsScore
	case strings.HasPrefix(exp, spk):
		return prefixScore
	}

	return wordOverlap(strings.Fields(exp), strings.Fields(spk))
}

// wordOverlap credits each spoken word as an exact match, a partial match
// (one word contains the other), or nothing.
func wordOverlap(expectedWords, spokenWords []string) float64 {
	if len(expectedWords) == 0 || len(spokenWords) == 0 {
		return 0
	}

	vocab := make(map[string]struct{}, len(expectedWords))
	for _, w := range expectedWords {
		vocab[w] = struct{}{}
	}

	var matched, partial int
	for _, sw := range spokenWords {
		if _, ok := vocab[sw]; ok {
			matched++
			continue
		}
		for _, ew := range expectedWords {
			if strings.HasPrefix(sw, ew) || strings.HasPrefix(ew, sw) ||
				strings.Contains(ew, sw) || strings.Contains(sw, ew) {
				partial++
				break
			}
		}
	}

	n := float64(len(spokenWords))
	return clamp(matchedWeight*float64(matched)/n + partialWeight*float64(partial)/n)
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
