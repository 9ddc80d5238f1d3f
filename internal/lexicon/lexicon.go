// Package lexicon holds the fixed vocabularies used to normalize and
// heuristically extract place intent: place-type synonyms, known locations
// and stop words.
package lexicon

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"unicode"

	"github.com/BurntSushi/toml"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Lexicon is immutable after construction and safe for concurrent use.
type Lexicon struct {
	synonyms  map[string]string
	keywords  []string
	isKeyword map[string]struct{}
	locations []string
	known     map[string]struct{}
	stopWords map[string]struct{}
	maxPhrase int
}

// fileLexicon mirrors the TOML overlay file.
//
//	locations  = ["labuan bajo"]
//	stop_words = ["dekat"]
//	[synonyms]
//	"toko buku" = "book_store"
type fileLexicon struct {
	Locations []string          `toml:"locations"`
	StopWords []string          `toml:"stop_words"`
	Synonyms  map[string]string `toml:"synonyms"`
}

// Default returns the built-in vocabulary.
func Default() *Lexicon {
	return build(defaultSynonyms, defaultLocations, defaultStopWords)
}

// LoadFile extends the built-in vocabulary with the entries of a TOML file.
// An empty path returns the defaults.
func LoadFile(path string) (*Lexicon, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("stat lexicon file: %w", err)
	}

	var overlay fileLexicon
	if _, err := toml.DecodeFile(path, &overlay); err != nil {
		return nil, fmt.Errorf("decode lexicon file: %w", err)
	}

	synonyms := make(map[string]string, len(defaultSynonyms)+len(overlay.Synonyms))
	for k, v := range defaultSynonyms {
		synonyms[k] = v
	}
	for k, v := range overlay.Synonyms {
		synonyms[Lower(k)] = Lower(v)
	}

	locations := append(append([]string{}, defaultLocations...), overlay.Locations...)
	stopWords := append(append([]string{}, defaultStopWords...), overlay.StopWords...)
	return build(synonyms, locations, stopWords), nil
}

func build(synonyms map[string]string, locations, stopWords []string) *Lexicon {
	l := &Lexicon{
		synonyms:  make(map[string]string, len(synonyms)),
		isKeyword: make(map[string]struct{}),
		known:     make(map[string]struct{}, len(locations)),
		stopWords: make(map[string]struct{}, len(stopWords)),
		maxPhrase: 1,
	}

	seen := make(map[string]struct{})
	addKeyword := func(kw string) {
		kw = strings.ReplaceAll(kw, "_", " ")
		if _, dup := seen[kw]; dup || kw == "" {
			return
		}
		seen[kw] = struct{}{}
		l.keywords = append(l.keywords, kw)
		l.isKeyword[kw] = struct{}{}
		l.trackPhrase(kw)
	}
	for k, v := range synonyms {
		k, v = Lower(k), Lower(v)
		l.synonyms[k] = v
		addKeyword(k)
		addKeyword(v)
	}
	// Longer phrases first so "coffee shop" wins over "coffee".
	sort.Slice(l.keywords, func(i, j int) bool {
		if len(l.keywords[i]) != len(l.keywords[j]) {
			return len(l.keywords[i]) > len(l.keywords[j])
		}
		return l.keywords[i] < l.keywords[j]
	})

	for _, loc := range locations {
		loc = Lower(loc)
		if _, dup := l.known[loc]; dup || loc == "" {
			continue
		}
		l.known[loc] = struct{}{}
		l.locations = append(l.locations, loc)
		l.trackPhrase(loc)
	}
	sort.SliceStable(l.locations, func(i, j int) bool { return len(l.locations[i]) > len(l.locations[j]) })

	for _, w := range stopWords {
		l.stopWords[Lower(w)] = struct{}{}
	}
	return l
}

func (l *Lexicon) trackPhrase(p string) {
	if n := len(strings.Fields(p)); n > l.maxPhrase {
		l.maxPhrase = n
	}
}

// CanonicalType maps a place type through the synonym table. Unknown types
// are returned lower-cased.
func (l *Lexicon) CanonicalType(t string) string {
	t = Lower(t)
	if t == "" {
		return ""
	}
	if canon, ok := l.synonyms[t]; ok {
		return canon
	}
	if strings.HasSuffix(t, "s") {
		if canon, ok := l.synonyms[strings.TrimSuffix(t, "s")]; ok {
			return canon
		}
	}
	return t
}

// MatchTypes returns the canonical place types whose keywords occur in text.
func (l *Lexicon) MatchTypes(text string) []string {
	haystack := padded(text)
	var out []string
	for _, kw := range l.keywords {
		if !containsPhrase(haystack, kw) {
			continue
		}
		out = append(out, l.keywordType(kw))
		// Consume the phrase so "coffee" is not matched again inside "coffee shop".
		haystack = strings.ReplaceAll(haystack, " "+kw+" ", "  ")
		haystack = strings.ReplaceAll(haystack, " "+kw+"s ", "  ")
	}
	return out
}

// keywordType resolves a matched keyword. Keywords are either synonym keys
// or canonical types with underscores rendered as spaces.
func (l *Lexicon) keywordType(kw string) string {
	if canon, ok := l.synonyms[kw]; ok {
		return canon
	}
	return strings.ReplaceAll(kw, " ", "_")
}

// MatchLocations returns the known locations mentioned in text.
func (l *Lexicon) MatchLocations(text string) []string {
	haystack := padded(text)
	var out []string
	for _, loc := range l.locations {
		if !containsPhrase(haystack, loc) {
			continue
		}
		out = append(out, loc)
		haystack = strings.ReplaceAll(haystack, " "+loc+" ", "  ")
	}
	return out
}

// IsKnownLocation reports whether s names a location in the table.
func (l *Lexicon) IsKnownLocation(s string) bool {
	_, ok := l.known[Lower(s)]
	return ok
}

// IsStopWord reports whether w is a filler word that never starts a name.
func (l *Lexicon) IsStopWord(w string) bool {
	_, ok := l.stopWords[Lower(w)]
	return ok
}

// IsPlaceKeyword reports whether s is a known type keyword or canonical
// type, tolerating a plural "s".
func (l *Lexicon) IsPlaceKeyword(s string) bool {
	s = strings.ReplaceAll(Lower(s), "_", " ")
	if _, ok := l.isKeyword[s]; ok {
		return true
	}
	_, ok := l.isKeyword[strings.TrimSuffix(s, "s")]
	return ok && strings.HasSuffix(s, "s")
}

// IsVocabulary reports whether phrase is a place keyword, a known location
// or a stop word.
func (l *Lexicon) IsVocabulary(phrase string) bool {
	return l.IsPlaceKeyword(phrase) || l.IsKnownLocation(phrase) || l.IsStopWord(phrase)
}

// MaxPhraseWords is the word count of the longest keyword or location.
func (l *Lexicon) MaxPhraseWords() int {
	return l.maxPhrase
}

// Lower lower-cases and trims s using Unicode-aware case folding.
func Lower(s string) string {
	return strings.TrimSpace(cases.Lower(language.Und).String(s))
}

// Title renders s in title case, e.g. "south jakarta" -> "South Jakarta".
func Title(s string) string {
	return cases.Title(language.Und).String(strings.TrimSpace(s))
}

func padded(text string) string {
	folded := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return ' '
	}, Lower(text))
	return " " + strings.Join(strings.Fields(folded), " ") + " "
}

func containsPhrase(haystack, phrase string) bool {
	return strings.Contains(haystack, " "+phrase+" ") || strings.Contains(haystack, " "+phrase+"s ")
}
