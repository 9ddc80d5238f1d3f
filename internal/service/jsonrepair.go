package service

import (
	"encoding/json"
	"errors"
	"regexp"
	"sort"
	"strings"
)

const maxCandidates = 16

var (
	fencePattern         = regexp.MustCompile("(?s)```[a-zA-Z]*\\s*(.*?)```")
	singleQuoteOpen      = regexp.MustCompile(`([{\[,:]\s*)'`)
	singleQuoteClose     = regexp.MustCompile(`'(\s*[}\],:])`)
	trailingCommaPattern = regexp.MustCompile(`,\s*([}\]])`)
	smartQuotes          = strings.NewReplacer("“", `"`, "”", `"`, "‘", "'", "’", "'")

	errNoJSONObject = errors.New("no JSON object found in model output")
)

// repairStrategy rewrites a candidate before it is decoded.
type repairStrategy struct {
	name   string
	repair func(string) string
}

var repairStrategies = []repairStrategy{
	{name: "raw", repair: func(s string) string { return s }},
	{name: "single_quotes", repair: normalizeQuotes},
	{name: "trailing_commas", repair: removeTrailingCommas},
	{name: "single_quotes+trailing_commas", repair: func(s string) string {
		return removeTrailingCommas(normalizeQuotes(s))
	}},
}

// parseJSONObject decodes the first usable JSON object in raw model output
// and names the strategy that produced it.
func parseJSONObject(raw string) (map[string]any, string, error) {
	text := stripFences(raw)
	prefix := ""
	if text != strings.TrimSpace(raw) {
		prefix = "fenced+"
	}

	if obj, ok := decodeObject(text); ok {
		return obj, prefix + "direct", nil
	}

	for _, candidate := range balancedCandidates(text) {
		for _, strategy := range repairStrategies {
			if obj, ok := decodeObject(strategy.repair(candidate)); ok {
				return obj, prefix + "balanced/" + strategy.name, nil
			}
		}
	}
	return nil, "", errNoJSONObject
}

func decodeObject(s string) (map[string]any, bool) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(s), &obj); err != nil || obj == nil {
		return nil, false
	}
	return obj, true
}

// stripFences returns the body of the first markdown code fence, or the
// trimmed input when there is none. An unterminated opening fence is
// dropped.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if m := fencePattern.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		if nl := strings.IndexByte(s, '\n'); nl >= 0 {
			s = s[nl+1:]
		}
		return strings.TrimSpace(s)
	}
	return s
}

// balancedCandidates lists every balanced {...} span, longest first.
// Double-quoted strings are skipped so braces inside values do not count.
func balancedCandidates(s string) []string {
	var spans []string
	seen := make(map[string]struct{})

	for start := 0; start < len(s); start++ {
		if s[start] != '{' {
			continue
		}
		end := matchBrace(s, start)
		if end < 0 {
			continue
		}
		span := s[start : end+1]
		if _, dup := seen[span]; dup {
			continue
		}
		seen[span] = struct{}{}
		spans = append(spans, span)
	}

	sort.SliceStable(spans, func(i, j int) bool { return len(spans[i]) > len(spans[j]) })
	if len(spans) > maxCandidates {
		spans = spans[:maxCandidates]
	}
	return spans
}

func matchBrace(s string, start int) int {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// normalizeQuotes turns single-quoted keys and values into double-quoted
// ones. Apostrophes inside words are left alone.
func normalizeQuotes(s string) string {
	s = smartQuotes.Replace(s)
	s = singleQuoteOpen.ReplaceAllString(s, `$1"`)
	return singleQuoteClose.ReplaceAllString(s, `"$1`)
}

func removeTrailingCommas(s string) string {
	return trailingCommaPattern.ReplaceAllString(s, "$1")
}
