// Package places adapts the Google Places web service into canonical place
// records.
package places

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"googlemaps.github.io/maps"

	"github.com/octobees/place-finder/internal/config"
	"github.com/octobees/place-finder/internal/entity"
)

const defaultProviderTimeout = 10 * time.Second

var detailFields = []maps.PlaceDetailsFieldMask{
	maps.PlaceDetailsFieldMaskPlaceID,
	maps.PlaceDetailsFieldMaskName,
	maps.PlaceDetailsFieldMaskFormattedAddress,
	maps.PlaceDetailsFieldMaskGeometry,
	maps.PlaceDetailsFieldMaskRatings,
	maps.PlaceDetailsFieldMaskUserRatingsTotal,
	maps.PlaceDetailsFieldMaskTypes,
	maps.PlaceDetailsFieldMaskOpeningHours,
	maps.PlaceDetailsFieldMaskPriceLevel,
	maps.PlaceDetailsFieldMaskFormattedPhoneNumber,
	maps.PlaceDetailsFieldMaskInternationalPhoneNumber,
	maps.PlaceDetailsFieldMaskWebsite,
	maps.PlaceDetailsFieldMaskReviews,
	maps.PlaceDetailsFieldMaskPhotos,
}

// SearchOptions narrows a text search. Zero values fall back to the
// configured defaults.
type SearchOptions struct {
	Location *entity.Coordinates
	Radius   uint
	Type     string
	Limit    int
}

// NearbyRequest describes a search around a fixed point.
type NearbyRequest struct {
	Location entity.Coordinates
	Type     string
	Radius   uint
	Keyword  string
	Limit    int
}

// Provider is the place lookup surface used by the pipeline. Failures are
// reported as empty results, never as errors.
type Provider interface {
	SearchByText(ctx context.Context, query string, opts SearchOptions) []entity.Place
	SearchNearby(ctx context.Context, req NearbyRequest) []entity.Place
	GetDetails(ctx context.Context, placeID string) *entity.Place
}

// GoogleProvider implements Provider on top of the Places web service.
type GoogleProvider struct {
	client   *maps.Client
	defaults config.MapsConfig
	timeout  time.Duration
	logger   *zap.Logger
}

// Option configures a GoogleProvider.
type Option func(*providerOptions)

type providerOptions struct {
	httpClient *http.Client
	timeout    time.Duration
}

// WithHTTPClient overrides the HTTP client used for provider calls.
func WithHTTPClient(client *http.Client) Option {
	return func(o *providerOptions) {
		if client != nil {
			o.httpClient = client
		}
	}
}

// WithTimeout bounds each provider call.
func WithTimeout(d time.Duration) Option {
	return func(o *providerOptions) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// NewGoogleProvider builds a provider from the maps configuration.
func NewGoogleProvider(cfg config.MapsConfig, logger *zap.Logger, opts ...Option) (*GoogleProvider, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("GOOGLE_MAPS_API_KEY is required")
	}
	o := providerOptions{timeout: defaultProviderTimeout}
	for _, opt := range opts {
		opt(&o)
	}
	if o.httpClient == nil {
		o.httpClient = &http.Client{Timeout: o.timeout}
	}

	clientOpts := []maps.ClientOption{
		maps.WithAPIKey(cfg.APIKey),
		maps.WithHTTPClient(o.httpClient),
	}
	if cfg.BaseURL != "" {
		clientOpts = append(clientOpts, maps.WithBaseURL(strings.TrimRight(cfg.BaseURL, "/")))
	}
	client, err := maps.NewClient(clientOpts...)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GoogleProvider{
		client:   client,
		defaults: cfg,
		timeout:  o.timeout,
		logger:   logger.Named("places"),
	}, nil
}

// callContext detaches provider calls from caller cancellation; each call
// runs to its own timeout.
func (p *GoogleProvider) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
}

// SearchByText runs a text search biased towards opts.Location or the
// configured default point.
func (p *GoogleProvider) SearchByText(ctx context.Context, query string, opts SearchOptions) []entity.Place {
	query = strings.TrimSpace(query)
	if query == "" {
		return []entity.Place{}
	}

	loc := entity.Coordinates{Lat: p.defaults.Lat, Lng: p.defaults.Lng}
	if opts.Location != nil {
		loc = *opts.Location
	}
	radius := opts.Radius
	if radius == 0 {
		radius = p.defaults.Radius
	}

	req := &maps.TextSearchRequest{
		Query:    query,
		Location: &maps.LatLng{Lat: loc.Lat, Lng: loc.Lng},
		Radius:   radius,
		Language: p.defaults.Language,
		Region:   p.defaults.Region,
	}
	if opts.Type != "" {
		req.Type = maps.PlaceType(opts.Type)
	}

	callCtx, cancel := p.callContext(ctx)
	defer cancel()

	resp, err := p.client.TextSearch(callCtx, req)
	if err != nil {
		p.logger.Warn("text search failed", zap.String("query", query), zap.Error(err))
		return []entity.Place{}
	}
	return formatSearchResults(resp.Results, opts.Limit)
}

// SearchNearby lists places of a type around a point.
func (p *GoogleProvider) SearchNearby(ctx context.Context, in NearbyRequest) []entity.Place {
	radius := in.Radius
	if radius == 0 {
		radius = p.defaults.Radius
	}
	req := &maps.NearbySearchRequest{
		Location: &maps.LatLng{Lat: in.Location.Lat, Lng: in.Location.Lng},
		Radius:   radius,
		Keyword:  strings.TrimSpace(in.Keyword),
		Language: p.defaults.Language,
		Type:     maps.PlaceType(in.Type),
	}

	callCtx, cancel := p.callContext(ctx)
	defer cancel()

	resp, err := p.client.NearbySearch(callCtx, req)
	if err != nil {
		p.logger.Warn("nearby search failed",
			zap.String("place_type", in.Type),
			zap.Float64("lat", in.Location.Lat),
			zap.Float64("lng", in.Location.Lng),
			zap.Error(err),
		)
		return []entity.Place{}
	}
	return formatSearchResults(resp.Results, in.Limit)
}

// GetDetails returns the extended record for placeID, or nil when the
// provider has none or fails.
func (p *GoogleProvider) GetDetails(ctx context.Context, placeID string) *entity.Place {
	placeID = strings.TrimSpace(placeID)
	if placeID == "" {
		return nil
	}
	req := &maps.PlaceDetailsRequest{
		PlaceID:  placeID,
		Language: p.defaults.Language,
		Region:   p.defaults.Region,
		Fields:   detailFieldMasks(),
	}

	callCtx, cancel := p.callContext(ctx)
	defer cancel()

	resp, err := p.client.PlaceDetails(callCtx, req)
	if err != nil {
		p.logger.Warn("place details failed", zap.String("place_id", placeID), zap.Error(err))
		return nil
	}
	if resp.PlaceID == "" {
		return nil
	}
	place := formatDetails(resp, p.defaults.Region, p.defaults.APIKey)
	return &place
}

func detailFieldMasks() []maps.PlaceDetailsFieldMask {
	return append([]maps.PlaceDetailsFieldMask(nil), detailFields...)
}
