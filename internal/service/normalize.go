package service

import (
	"strings"

	"github.com/octobees/place-finder/internal/entity"
	"github.com/octobees/place-finder/internal/lexicon"
)

// rawEntities holds extractor output before normalization.
type rawEntities struct {
	placeNames []string
	placeTypes []string
	locations  []string
}

// entitiesFromObject coerces a decoded JSON object. Fields that are not
// arrays and items that are not strings are dropped.
func entitiesFromObject(obj map[string]any) rawEntities {
	return rawEntities{
		placeNames: stringItems(obj["place_names"]),
		placeTypes: stringItems(obj["place_types"]),
		locations:  stringItems(obj["locations"]),
	}
}

func stringItems(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func (r rawEntities) normalize(lex *lexicon.Lexicon) entity.ExtractedEntities {
	out := entity.NewExtractedEntities()
	out.PlaceNames = appendUnique(out.PlaceNames, r.placeNames, strings.TrimSpace)
	out.PlaceTypes = appendUnique(out.PlaceTypes, r.placeTypes, lex.CanonicalType)
	out.Locations = appendUnique(out.Locations, r.locations, lexicon.Lower)
	return out
}

// appendUnique maps each value and appends the non-empty results not
// already present, comparing case-insensitively. First occurrence wins.
func appendUnique(dst, values []string, mapFn func(string) string) []string {
	seen := make(map[string]struct{}, len(dst)+len(values))
	for _, v := range dst {
		seen[lexicon.Lower(v)] = struct{}{}
	}
	for _, v := range values {
		v = mapFn(v)
		if v == "" {
			continue
		}
		key := lexicon.Lower(v)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		dst = append(dst, v)
	}
	return dst
}
