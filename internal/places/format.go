package places

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"googlemaps.github.io/maps"

	"github.com/octobees/place-finder/internal/entity"
)

const (
	// MaxResults caps every search before formatting.
	MaxResults = 5

	maxReviews = 3
	maxPhotos  = 3

	photoMaxWidth = 800
	photoEndpoint = "https://maps.googleapis.com/maps/api/place/photo"
)

// capLimit returns the effective result cap for a caller's limit.
func capLimit(limit int) int {
	if limit <= 0 || limit > MaxResults {
		return MaxResults
	}
	return limit
}

// MapURL links to the place on Google Maps.
func MapURL(placeID string, c entity.Coordinates) string {
	q := url.Values{}
	q.Set("api", "1")
	q.Set("query", formatLatLng(c))
	if placeID != "" {
		q.Set("query_place_id", placeID)
	}
	return "https://www.google.com/maps/search/?" + q.Encode()
}

// DirectionsURL opens turn-by-turn directions to the place.
func DirectionsURL(placeID string, c entity.Coordinates) string {
	q := url.Values{}
	q.Set("api", "1")
	q.Set("destination", formatLatLng(c))
	if placeID != "" {
		q.Set("destination_place_id", placeID)
	}
	return "https://www.google.com/maps/dir/?" + q.Encode()
}

// EmbedURL is suitable for an iframe and needs no API key.
func EmbedURL(name string, c entity.Coordinates) string {
	q := url.Values{}
	if name != "" {
		q.Set("q", name)
	} else {
		q.Set("q", formatLatLng(c))
	}
	q.Set("ll", formatLatLng(c))
	q.Set("output", "embed")
	return "https://www.google.com/maps?" + q.Encode()
}

func formatLatLng(c entity.Coordinates) string {
	return strconv.FormatFloat(c.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(c.Lng, 'f', -1, 64)
}

func photoURL(reference, apiKey string) string {
	q := url.Values{}
	q.Set("maxwidth", strconv.Itoa(photoMaxWidth))
	q.Set("photo_reference", reference)
	if apiKey != "" {
		q.Set("key", apiKey)
	}
	return photoEndpoint + "?" + q.Encode()
}

func newPlace(id, name, address string, loc maps.LatLng, rating float32, ratingCount int, types []string, hours *maps.OpeningHours, priceLevel int) entity.Place {
	coords := entity.Coordinates{Lat: loc.Lat, Lng: loc.Lng}
	p := entity.Place{
		ID:           id,
		Name:         strings.TrimSpace(name),
		Address:      strings.TrimSpace(address),
		Coordinates:  coords,
		Categories:   categories(types),
		MapURL:       MapURL(id, coords),
		DirectionURL: DirectionsURL(id, coords),
		EmbedURL:     EmbedURL(name, coords),
	}
	// The provider omits rating fields for places without reviews.
	if ratingCount > 0 || rating > 0 {
		r := float64(rating)
		n := ratingCount
		p.Rating = &r
		p.RatingCount = &n
	}
	if hours != nil && hours.OpenNow != nil {
		open := *hours.OpenNow
		p.OpenNow = &open
	}
	if priceLevel > 0 {
		level := priceLevel
		p.PriceLevel = &level
	}
	return p
}

func categories(types []string) []string {
	out := make([]string, 0, len(types))
	for _, t := range types {
		t = strings.TrimSpace(t)
		if t == "" || t == "point_of_interest" || t == "establishment" {
			continue
		}
		out = append(out, t)
	}
	return out
}

// formatSearchResults converts provider results in relevance order, keeping
// at most limit entries.
func formatSearchResults(results []maps.PlacesSearchResult, limit int) []entity.Place {
	limit = capLimit(limit)
	out := make([]entity.Place, 0, min(limit, len(results)))
	for _, r := range results {
		if len(out) == limit {
			break
		}
		if r.PlaceID == "" {
			continue
		}
		address := r.FormattedAddress
		if address == "" {
			address = r.Vicinity
		}
		out = append(out, newPlace(r.PlaceID, r.Name, address, r.Geometry.Location,
			r.Rating, r.UserRatingsTotal, r.Types, r.OpeningHours, r.PriceLevel))
	}
	return out
}

func formatDetails(r maps.PlaceDetailsResult, region, apiKey string) entity.Place {
	p := newPlace(r.PlaceID, r.Name, r.FormattedAddress, r.Geometry.Location,
		r.Rating, r.UserRatingsTotal, r.Types, r.OpeningHours, r.PriceLevel)

	rawPhone := r.InternationalPhoneNumber
	if rawPhone == "" {
		rawPhone = r.FormattedPhoneNumber
	}
	if phone := normalizePhone(rawPhone, region); phone != "" {
		p.Phone = &phone
	}
	if site := sanitizeWebsite(r.Website); site != "" {
		p.Website = &site
	}
	if r.OpeningHours != nil && len(r.OpeningHours.WeekdayText) > 0 {
		p.OpeningHoursText = append([]string(nil), r.OpeningHours.WeekdayText...)
	}

	for _, rv := range r.Reviews {
		if len(p.Reviews) == maxReviews {
			break
		}
		p.Reviews = append(p.Reviews, entity.Review{
			Author: rv.AuthorName,
			Rating: rv.Rating,
			Text:   strings.TrimSpace(rv.Text),
			Time:   int64(rv.Time),
		})
	}
	for _, ph := range r.Photos {
		if len(p.PhotoURLs) == maxPhotos {
			break
		}
		if ph.PhotoReference == "" {
			continue
		}
		p.PhotoURLs = append(p.PhotoURLs, photoURL(ph.PhotoReference, apiKey))
	}
	return p
}

// TextQuery renders the provider query for a set of subjects and a location.
func TextQuery(subjects []string, location string) string {
	subject := strings.TrimSpace(strings.Join(subjects, " "))
	location = strings.TrimSpace(location)
	switch {
	case subject == "":
		return location
	case location == "":
		return subject
	default:
		return fmt.Sprintf("%s in %s", subject, location)
	}
}
