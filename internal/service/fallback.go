package service

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/octobees/place-finder/internal/entity"
	"github.com/octobees/place-finder/internal/lexicon"
)

const maxFallbackNames = 6

var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}][\p{L}\p{N}'&.\-]*`)

// FallbackExtract derives entities from text with the lexicon alone. It is
// deterministic and never calls out.
func FallbackExtract(text string, lex *lexicon.Lexicon) entity.ExtractedEntities {
	raw := rawEntities{
		placeTypes: lex.MatchTypes(text),
		locations:  lex.MatchLocations(text),
		placeNames: capitalizedPhrases(text, lex),
	}
	return raw.normalize(lex)
}

// capitalizedPhrases returns runs of capitalized words that are not part of
// the vocabulary, e.g. "Kopi Kenangan" in "cari Kopi Kenangan di Bandung".
func capitalizedPhrases(text string, lex *lexicon.Lexicon) []string {
	spans := tokenPattern.FindAllStringIndex(text, -1)
	tokens := make([]string, len(spans))
	for i, sp := range spans {
		tokens[i] = text[sp[0]:sp[1]]
	}
	masked := maskVocabulary(tokens, lex)

	var names []string
	var run []string
	flush := func() {
		if len(run) > 0 {
			names = append(names, strings.Join(run, " "))
			run = run[:0]
		}
	}
	for i, tok := range tokens {
		// Punctuation between words ends a phrase.
		if i > 0 && strings.TrimSpace(text[spans[i-1][1]:spans[i][0]]) != "" {
			flush()
		}
		if masked[i] || !startsUpper(tok) {
			flush()
			continue
		}
		trimmed := strings.TrimRight(tok, ".'-")
		run = append(run, trimmed)
		if trimmed != tok {
			flush()
		}
	}
	flush()

	out := make([]string, 0, len(names))
	for _, name := range names {
		if lex.IsKnownLocation(name) || lex.IsPlaceKeyword(name) {
			continue
		}
		out = append(out, name)
		if len(out) == maxFallbackNames {
			break
		}
	}
	return out
}

// maskVocabulary marks tokens covered by the longest vocabulary phrase
// starting at each position.
func maskVocabulary(tokens []string, lex *lexicon.Lexicon) []bool {
	masked := make([]bool, len(tokens))
	maxWords := lex.MaxPhraseWords()
	words := make([]string, len(tokens))
	for i, tok := range tokens {
		words[i] = strings.TrimRight(tok, ".'-")
	}

	for i := 0; i < len(tokens); {
		matched := 0
		for n := min(maxWords, len(tokens)-i); n >= 1; n-- {
			if lex.IsVocabulary(strings.Join(words[i:i+n], " ")) {
				matched = n
				break
			}
		}
		if matched == 0 {
			i++
			continue
		}
		for j := i; j < i+matched; j++ {
			masked[j] = true
		}
		i += matched
	}
	return masked
}

func startsUpper(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsUpper(r)
}
