// Package arabic canonicalizes Arabic text for comparison.
//
// Normalize strips diacritics and folds the orthographic letter variants that
// differ between fully vocalized Quran text and what a reader types or a
// speech recognizer returns. Two renderings of the same verse normalize to
// the same string.
package arabic

import (
	"strings"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

const (
	alef       = 'ا'
	heh        = 'ه'
	yeh        = 'ي'
	waw        = 'و'
	hamza      = 'ء'
	tatweel    = 'ـ'
	alefHamza  = 'أ'
	alefHamzaB = 'إ'
	alefMadda  = 'آ'
	alefWasla  = 'ٱ'
	tehMarbuta = 'ة'
	alefMaksur = 'ى'
	yehHamza   = 'ئ'
	wawHamza   = 'ؤ'
)

// isDiacritic reports whether r is a tashkeel mark or a Quranic annotation sign.
func isDiacritic(r rune) bool {
	switch {
	case r >= 0x0610 && r <= 0x061A:
		return true
	case r >= 0x064B && r <= 0x065F:
		return true
	case r == 0x0670:
		return true
	case r >= 0x06D6 && r <= 0x06DC:
		return true
	case r >= 0x06DF && r <= 0x06E8:
		return true
	case r >= 0x06EA && r <= 0x06ED:
		return true
	}
	return false
}

// isControl reports whether r is tatweel or an invisible directional/zero-width control.
func isControl(r rune) bool {
	switch {
	case r == tatweel, r == 0x061C, r == 0xFEFF:
		return true
	case r >= 0x200B && r <= 0x200F:
		return true
	case r >= 0x202A && r <= 0x202E:
		return true
	case r >= 0x2066 && r <= 0x2069:
		return true
	}
	return false
}

func foldLetter(r rune) rune {
	switch r {
	case alefHamza, alefHamzaB, alefMadda, alefWasla:
		return alef
	case tehMarbuta:
		return heh
	case alefMaksur, yehHamza:
		return yeh
	case wawHamza:
		return waw
	}
	return r
}

func newFolder() transform.Transformer {
	return transform.Chain(
		runes.Remove(runes.Predicate(isDiacritic)),
		runes.Remove(runes.Predicate(isControl)),
		runes.Map(foldLetter),
		runes.Remove(runes.Predicate(func(r rune) bool { return r == hamza })),
	)
}

// Normalize returns the canonical comparison form of text. It never fails and
// Normalize(Normalize(s)) == Normalize(s).
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	folded, _, err := transform.String(newFolder(), text)
	if err != nil {
		folded = text
	}
	return strings.Join(strings.Fields(folded), " ")
}
