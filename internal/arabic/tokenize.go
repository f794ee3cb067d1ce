package arabic

import (
	"strings"
	"unicode/utf8"
)

// minKeyTokenLen is the shortest token worth indexing.
const minKeyTokenLen = 2

// Tokenize splits the normalized form of text into words.
func Tokenize(text string) []string {
	return strings.Fields(Normalize(text))
}

// KeyTokens returns the tokens of text that are at least two letters long.
func KeyTokens(text string) []string {
	tokens := Tokenize(text)
	keys := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if utf8.RuneCountInString(tok) >= minKeyTokenLen {
			keys = append(keys, tok)
		}
	}
	return keys
}
