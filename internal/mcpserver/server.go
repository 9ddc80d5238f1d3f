// Package mcpserver exposes the place finder as MCP tools.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/octobees/place-finder/internal/dto"
	"github.com/octobees/place-finder/internal/entity"
	"github.com/octobees/place-finder/internal/service"
)

// Version is reported in the MCP handshake.
const Version = "0.1.0"

// Resolver runs the place query pipeline.
type Resolver interface {
	Resolve(ctx context.Context, req service.QueryRequest) (*entity.QueryResult, error)
}

// Places serves details and nearby lookups.
type Places interface {
	Details(ctx context.Context, placeID string) (*entity.Place, error)
	Nearby(ctx context.Context, q service.NearbyQuery) ([]entity.Place, error)
}

// New creates an MCP server with the search_places, place_details and
// nearby_places tools registered.
func New(resolver Resolver, places Places, logger *zap.Logger) *mcp.Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	t := &tools{resolver: resolver, places: places, logger: logger.Named("mcp")}

	srv := mcp.NewServer(&mcp.Implementation{
		Name:    "place-finder",
		Version: Version,
	}, nil)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "search_places",
		Description: "Find places from a natural-language request (e.g. \"coffee shops in Jakarta\") and return a short summary plus the matching places",
	}, t.searchPlaces)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "place_details",
		Description: "Get phone, website, opening hours, reviews and photos for a place id returned by search_places",
	}, t.placeDetails)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "nearby_places",
		Description: "List places of one type around a coordinate",
	}, t.nearbyPlaces)

	return srv
}

type tools struct {
	resolver Resolver
	places   Places
	logger   *zap.Logger
}

type SearchPlacesInput struct {
	Prompt     string   `json:"prompt" jsonschema:"What to look for, in any language"`
	Lat        *float64 `json:"lat,omitempty" jsonschema:"Latitude of the user, used as a search bias"`
	Lng        *float64 `json:"lng,omitempty" jsonschema:"Longitude of the user, used as a search bias"`
	MaxResults int      `json:"max_results,omitempty" jsonschema:"Number of places to return, 1 to 10 (default 5)"`
}

type PlaceDetailsInput struct {
	PlaceID string `json:"place_id" jsonschema:"Provider place id"`
}

type NearbyPlacesInput struct {
	Lat       float64 `json:"lat" jsonschema:"Latitude of the center"`
	Lng       float64 `json:"lng" jsonschema:"Longitude of the center"`
	PlaceType string  `json:"place_type" jsonschema:"Place type such as cafe, pharmacy or apotek"`
	Radius    uint    `json:"radius,omitempty" jsonschema:"Search radius in meters"`
	Keyword   string  `json:"keyword,omitempty" jsonschema:"Optional keyword filter"`
}

func (t *tools) searchPlaces(ctx context.Context, _ *mcp.CallToolRequest, input SearchPlacesInput) (*mcp.CallToolResult, any, error) {
	in := dto.QueryRequest{Prompt: input.Prompt}
	if input.MaxResults != 0 {
		in.MaxResults = &input.MaxResults
	}
	switch {
	case input.Lat != nil && input.Lng != nil:
		in.UserLocation = &dto.Location{Lat: *input.Lat, Lng: *input.Lng}
	case input.Lat != nil || input.Lng != nil:
		return toolError("lat and lng must be given together"), nil, nil
	}
	in.Normalize()
	if err := in.Validate(service.MaxResultsLimit); err != nil {
		return toolError("%v", err), nil, nil
	}

	req := service.QueryRequest{
		Prompt:     in.Prompt,
		MaxResults: in.MaxResultsOr(service.DefaultMaxResults),
		UseCache:   in.CacheEnabled(),
	}
	if in.UserLocation != nil {
		req.UserLocation = &entity.Coordinates{Lat: in.UserLocation.Lat, Lng: in.UserLocation.Lng}
	}

	result, err := t.resolver.Resolve(ctx, req)
	if err != nil {
		var qe *service.QueryError
		if errors.As(err, &qe) && errors.Is(err, service.ErrNoResults) {
			return toolText(qe.NarrativeText), nil, nil
		}
		t.logger.Error("search_places failed", zap.Error(err))
		return toolError("failed to process query"), nil, nil
	}
	return toolJSON(result)
}

func (t *tools) placeDetails(ctx context.Context, _ *mcp.CallToolRequest, input PlaceDetailsInput) (*mcp.CallToolResult, any, error) {
	place, err := t.places.Details(ctx, input.PlaceID)
	switch {
	case errors.Is(err, service.ErrPlaceNotFound):
		return toolError("place %q not found", input.PlaceID), nil, nil
	case err != nil:
		return toolError("failed to load place: %v", err), nil, nil
	}
	return toolJSON(place)
}

func (t *tools) nearbyPlaces(ctx context.Context, _ *mcp.CallToolRequest, input NearbyPlacesInput) (*mcp.CallToolResult, any, error) {
	loc := dto.Location{Lat: input.Lat, Lng: input.Lng}
	if err := loc.Validate(); err != nil {
		return toolError("%v", err), nil, nil
	}
	radius := input.Radius
	if radius > dto.MaxNearbyRadius {
		radius = dto.MaxNearbyRadius
	}
	found, err := t.places.Nearby(ctx, service.NearbyQuery{
		Location:  &entity.Coordinates{Lat: loc.Lat, Lng: loc.Lng},
		PlaceType: input.PlaceType,
		Radius:    radius,
		Keyword:   input.Keyword,
	})
	if err != nil {
		return toolError("nearby search failed: %v", err), nil, nil
	}
	return toolJSON(map[string]any{"places": found, "total": len(found)})
}

func toolText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func toolError(format string, args ...any) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf(format, args...)}},
		IsError: true,
	}
}

func toolJSON(v any) (*mcp.CallToolResult, any, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return toolError("failed to marshal result: %v", err), nil, nil
	}
	return toolText(string(data)), nil, nil
}
