package dto

import "github.com/octobees/place-finder/internal/entity"

// MaxNearbyRadius is the largest radius in meters accepted by the provider.
const MaxNearbyRadius = 50000

// NearbyRequest is the payload of POST /api/places/nearby.
type NearbyRequest struct {
	Location  *Location `json:"location"`
	PlaceType string    `json:"place_type"`
	Radius    uint      `json:"radius,omitempty"`
	Keyword   string    `json:"keyword,omitempty"`
}

// NearbyResponse lists nearby places.
type NearbyResponse struct {
	Places []entity.Place `json:"places"`
	Total  int            `json:"total"`
}

// HealthResponse is returned by the health check.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Cache     string `json:"cache,omitempty"`
}
