package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/octobees/place-finder/internal/dto"
	"github.com/octobees/place-finder/internal/entity"
	middlewarepkg "github.com/octobees/place-finder/internal/middleware"
	"github.com/octobees/place-finder/internal/service"
)

// PlaceLookup serves details and nearby searches.
type PlaceLookup interface {
	Details(ctx context.Context, placeID string) (*entity.Place, error)
	Nearby(ctx context.Context, q service.NearbyQuery) ([]entity.Place, error)
}

// PlacesHandler exposes place details and nearby search.
type PlacesHandler struct {
	places PlaceLookup
}

// NewPlacesHandler wires the handler.
func NewPlacesHandler(places PlaceLookup) *PlacesHandler {
	return &PlacesHandler{places: places}
}

// Details returns the extended record of one place.
func (h *PlacesHandler) Details(c echo.Context) error {
	rid := middlewarepkg.RequestIDFromContext(c)
	placeID := strings.TrimSpace(c.Param("place_id"))
	if placeID == "" {
		return ErrorWithDetail(c, http.StatusBadRequest, ErrorResponse{Message: "place_id is required", RequestID: rid})
	}

	place, err := h.places.Details(c.Request().Context(), placeID)
	switch {
	case errors.Is(err, service.ErrPlaceNotFound):
		return ErrorWithDetail(c, http.StatusNotFound, ErrorResponse{Message: "place not found", RequestID: rid})
	case errors.Is(err, service.ErrInvalidInput):
		return ErrorWithDetail(c, http.StatusBadRequest, ErrorResponse{Message: err.Error(), RequestID: rid})
	case err != nil:
		return ErrorWithDetail(c, http.StatusInternalServerError, ErrorResponse{Message: "failed to load place", RequestID: rid})
	}
	return Success(c, http.StatusOK, "", place)
}

// Nearby lists places of a type around a location.
func (h *PlacesHandler) Nearby(c echo.Context) error {
	rid := middlewarepkg.RequestIDFromContext(c)

	var req dto.NearbyRequest
	if err := c.Bind(&req); err != nil {
		return ErrorWithDetail(c, http.StatusBadRequest, ErrorResponse{Message: "invalid payload", RequestID: rid})
	}
	if req.Location != nil {
		if err := req.Location.Validate(); err != nil {
			return ErrorWithDetail(c, http.StatusBadRequest, ErrorResponse{Message: "location: " + err.Error(), RequestID: rid})
		}
	}
	if req.Radius > dto.MaxNearbyRadius {
		req.Radius = dto.MaxNearbyRadius
	}

	q := service.NearbyQuery{
		PlaceType: req.PlaceType,
		Radius:    req.Radius,
		Keyword:   strings.TrimSpace(req.Keyword),
	}
	if req.Location != nil {
		q.Location = &entity.Coordinates{Lat: req.Location.Lat, Lng: req.Location.Lng}
	}

	found, err := h.places.Nearby(c.Request().Context(), q)
	if errors.Is(err, service.ErrInvalidInput) {
		return ErrorWithDetail(c, http.StatusBadRequest, ErrorResponse{Message: err.Error(), RequestID: rid})
	}
	if err != nil {
		return ErrorWithDetail(c, http.StatusInternalServerError, ErrorResponse{Message: "nearby search failed", RequestID: rid})
	}
	return Success(c, http.StatusOK, "", dto.NearbyResponse{Places: found, Total: len(found)})
}
