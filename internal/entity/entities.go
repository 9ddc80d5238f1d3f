package entity

// ExtractedEntities is the structured intent derived from a free-text prompt.
// All fields are non-nil and free of duplicates.
type ExtractedEntities struct {
	PlaceNames []string `json:"place_names"`
	PlaceTypes []string `json:"place_types"`
	Locations  []string `json:"locations"`
}

// NewExtractedEntities returns an empty, fully populated structure.
func NewExtractedEntities() ExtractedEntities {
	return ExtractedEntities{
		PlaceNames: []string{},
		PlaceTypes: []string{},
		Locations:  []string{},
	}
}

// Empty reports whether no entity of any kind was found.
func (e ExtractedEntities) Empty() bool {
	return len(e.PlaceNames) == 0 && len(e.PlaceTypes) == 0 && len(e.Locations) == 0
}
