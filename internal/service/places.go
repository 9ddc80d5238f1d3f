package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/octobees/place-finder/internal/cache"
	"github.com/octobees/place-finder/internal/entity"
	"github.com/octobees/place-finder/internal/lexicon"
	"github.com/octobees/place-finder/internal/places"
	"github.com/octobees/place-finder/internal/service/scoring"
)

const defaultPlaceTTL = 24 * time.Hour

var (
	// ErrPlaceNotFound means the provider has no details for the id.
	ErrPlaceNotFound = errors.New("place not found")
	// ErrInvalidInput marks client errors detected before any provider call.
	ErrInvalidInput = errors.New("invalid input")
)

// NearbyQuery is a nearby search as received from a client. Location is a
// pointer so a missing location can be told apart from (0, 0).
type NearbyQuery struct {
	Location  *entity.Coordinates
	PlaceType string
	Radius    uint
	Keyword   string
}

// PlaceOptions tunes a PlaceService.
type PlaceOptions struct {
	DetailsTTL time.Duration
	Recorder   Recorder
	// Lexicon canonicalizes nearby place types, e.g. "apotek" -> "pharmacy".
	Lexicon *lexicon.Lexicon
}

// PlaceService serves place details and nearby lookups.
type PlaceService struct {
	provider places.Provider
	cache    *cache.Cache
	ttl      time.Duration
	recorder Recorder
	lex      *lexicon.Lexicon
	logger   *zap.Logger
	group    singleflight.Group
}

// NewPlaceService wires a place service. cache may be nil.
func NewPlaceService(provider places.Provider, c *cache.Cache, logger *zap.Logger, opts PlaceOptions) *PlaceService {
	if opts.DetailsTTL <= 0 {
		opts.DetailsTTL = defaultPlaceTTL
	}
	if opts.Recorder == nil {
		opts.Recorder = nopRecorder{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlaceService{
		provider: provider,
		cache:    c,
		ttl:      opts.DetailsTTL,
		recorder: opts.Recorder,
		lex:      opts.Lexicon,
		logger:   logger.Named("places"),
	}
}

// Details returns the extended record for placeID. Results are cached and
// concurrent lookups of the same id share one provider call.
func (s *PlaceService) Details(ctx context.Context, placeID string) (*entity.Place, error) {
	placeID = strings.TrimSpace(placeID)
	if placeID == "" {
		return nil, fmt.Errorf("%w: place_id is required", ErrInvalidInput)
	}

	var cached entity.Place
	hit := s.cache.Get(ctx, &cached, "place", placeID)
	s.recorder.CacheLookup(ctx, "place", hit)
	if hit {
		return &cached, nil
	}

	shared := context.WithoutCancel(ctx)
	v, err, dup := s.group.Do(placeID, func() (any, error) {
		place := s.provider.GetDetails(shared, placeID)
		if place == nil {
			return nil, ErrPlaceNotFound
		}
		place.Suitability = scoring.Suitability(*place)
		s.cache.Set(shared, place, s.ttl, "place", placeID)
		return place, nil
	})
	if err != nil {
		return nil, err
	}
	if dup {
		loggerFrom(ctx, s.logger).Debug("details lookup shared", zap.String("place_id", placeID))
	}
	place := *v.(*entity.Place)
	return &place, nil
}

// Nearby lists places of a type around a point. Missing location or type is
// rejected without calling the provider.
func (s *PlaceService) Nearby(ctx context.Context, q NearbyQuery) ([]entity.Place, error) {
	if q.Location == nil {
		return nil, fmt.Errorf("%w: location is required", ErrInvalidInput)
	}
	placeType := strings.TrimSpace(q.PlaceType)
	if placeType == "" {
		return nil, fmt.Errorf("%w: place_type is required", ErrInvalidInput)
	}
	if s.lex != nil {
		placeType = s.lex.CanonicalType(placeType)
	}

	found := s.provider.SearchNearby(ctx, places.NearbyRequest{
		Location: *q.Location,
		Type:     placeType,
		Radius:   q.Radius,
		Keyword:  q.Keyword,
	})
	if found == nil {
		found = []entity.Place{}
	}
	return found, nil
}
