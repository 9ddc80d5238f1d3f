package entity

// Coordinates is a WGS84 point.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Review is a single user review attached to a place detail lookup.
type Review struct {
	Author string `json:"author"`
	Rating int    `json:"rating"`
	Text   string `json:"text"`
	Time   int64  `json:"time,omitempty"`
}

// Suitability reports the aggregate suitability score and its breakdown.
type Suitability struct {
	Total     int            `json:"total"`
	Breakdown map[string]int `json:"breakdown"`
}

// Place is the canonical place record returned to clients.
//
// OpenNow is tri-state: nil means the provider did not report opening
// status and is serialized as JSON null.
type Place struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Address      string      `json:"address"`
	Coordinates  Coordinates `json:"coordinates"`
	Rating       *float64    `json:"rating,omitempty"`
	RatingCount  *int        `json:"rating_count,omitempty"`
	Categories   []string    `json:"categories"`
	OpenNow      *bool       `json:"open_now"`
	PriceLevel   *int        `json:"price_level,omitempty"`
	MapURL       string      `json:"map_url"`
	DirectionURL string      `json:"directions_url"`
	EmbedURL     string      `json:"embed_url"`

	Phone            *string      `json:"phone,omitempty"`
	Website          *string      `json:"website,omitempty"`
	OpeningHoursText []string     `json:"opening_hours_text,omitempty"`
	Reviews          []Review     `json:"reviews,omitempty"`
	PhotoURLs        []string     `json:"photo_urls,omitempty"`
	Suitability      *Suitability `json:"suitability,omitempty"`
}

// OpenState renders the tri-state opening flag for prompts and logs.
func (p Place) OpenState() string {
	switch {
	case p.OpenNow == nil:
		return "unknown"
	case *p.OpenNow:
		return "open"
	default:
		return "closed"
	}
}
