package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/octobees/place-finder/internal/cache"
	"github.com/octobees/place-finder/internal/entity"
	"github.com/octobees/place-finder/internal/places"
)

const (
	// DefaultMaxResults applies when a query does not set max_results.
	DefaultMaxResults = 5
	// MaxResultsLimit is the largest accepted max_results.
	MaxResultsLimit = 10

	defaultQueryTTL = time.Hour
)

// Pipeline stage names used in logs and metrics.
const (
	StageExtract      = "extract"
	StageSearch       = "search"
	StageNarrate      = "narrate"
	StageNarrateEmpty = "narrate_empty"
)

// QueryRequest is one natural-language place search.
type QueryRequest struct {
	Prompt       string
	UserLocation *entity.Coordinates
	MaxResults   int
	UseCache     bool
	// RequestID is reused when set, otherwise one is generated.
	RequestID string
}

// QueryOptions tunes a QueryService.
type QueryOptions struct {
	CacheTTL     time.Duration
	Recorder     Recorder
	NewRequestID func() string
}

// QueryService resolves prompts into places and a narrative.
type QueryService struct {
	extractor EntityExtractor
	provider  places.Provider
	narrator  NarrativeGenerator
	cache     *cache.Cache
	logger    *zap.Logger
	ttl       time.Duration
	recorder  Recorder
	newID     func() string
}

// NewQueryService wires the pipeline. cache may be nil to disable caching.
func NewQueryService(extractor EntityExtractor, provider places.Provider, narrator NarrativeGenerator, c *cache.Cache, logger *zap.Logger, opts QueryOptions) *QueryService {
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = defaultQueryTTL
	}
	if opts.Recorder == nil {
		opts.Recorder = nopRecorder{}
	}
	if opts.NewRequestID == nil {
		opts.NewRequestID = uuid.NewString
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QueryService{
		extractor: extractor,
		provider:  provider,
		narrator:  narrator,
		cache:     c,
		logger:    logger.Named("query"),
		ttl:       opts.CacheTTL,
		recorder:  opts.Recorder,
		newID:     opts.NewRequestID,
	}
}

// Resolve runs the pipeline: cache check, extraction, provider search,
// truncation, narration and cache write. Unsuccessful outcomes are returned
// as *QueryError matching ErrNoResults or ErrQueryFailed.
func (s *QueryService) Resolve(ctx context.Context, req QueryRequest) (*entity.QueryResult, error) {
	start := time.Now()
	elapsedMs := func() float64 {
		return float64(time.Since(start).Microseconds()) / 1000
	}

	rid := strings.TrimSpace(req.RequestID)
	if rid == "" {
		rid = s.newID()
	}
	log := s.logger.With(zap.String("request_id", rid))
	ctx = withLogger(ctx, log)

	prompt := strings.TrimSpace(req.Prompt)
	maxResults := clampMaxResults(req.MaxResults)
	locKey := locationKey(req.UserLocation)

	fail := func(stage string, err error) error {
		log.Error("query failed", zap.String("stage", stage), zap.Error(err))
		s.recorder.QueryCompleted(ctx, OutcomeFailed, time.Since(start))
		return &QueryError{Kind: ErrQueryFailed, RequestID: rid, ProcessingTimeMs: elapsedMs(), Err: err}
	}

	if req.UseCache {
		var cached entity.QueryResult
		hit := s.cache.Get(ctx, &cached, prompt, locKey)
		s.recorder.CacheLookup(ctx, "query", hit)
		if hit {
			cached.RequestID = rid
			cached.Cached = true
			cached.ProcessingTimeMs = elapsedMs()
			log.Info("query served from cache", zap.Int("places", len(cached.Places)))
			s.recorder.QueryCompleted(ctx, OutcomeCached, time.Since(start))
			return &cached, nil
		}
	}

	entities, err := runStage(ctx, s, StageExtract, func() (entity.ExtractedEntities, error) {
		return s.extractor.Extract(ctx, prompt), nil
	})
	if err != nil {
		return nil, fail(StageExtract, err)
	}

	query, opts := buildSearch(entities, prompt, req.UserLocation, maxResults)
	log.Debug("entities extracted",
		zap.Strings("place_names", entities.PlaceNames),
		zap.Strings("place_types", entities.PlaceTypes),
		zap.Strings("locations", entities.Locations),
		zap.String("search_query", query),
	)

	found, err := runStage(ctx, s, StageSearch, func() ([]entity.Place, error) {
		return s.provider.SearchByText(ctx, query, opts), nil
	})
	if err != nil {
		return nil, fail(StageSearch, err)
	}

	if len(found) == 0 {
		text, err := runStage(ctx, s, StageNarrateEmpty, func() (string, error) {
			return s.narrator.Summarize(ctx, nil, prompt)
		})
		if err != nil {
			return nil, fail(StageNarrateEmpty, err)
		}
		log.Info("query matched no places", zap.String("search_query", query))
		s.recorder.QueryCompleted(ctx, OutcomeNotFound, time.Since(start))
		return nil, &QueryError{
			Kind:             ErrNoResults,
			RequestID:        rid,
			NarrativeText:    text,
			ProcessingTimeMs: elapsedMs(),
		}
	}

	if len(found) > maxResults {
		found = found[:maxResults]
	}

	text, err := runStage(ctx, s, StageNarrate, func() (string, error) {
		return s.narrator.Summarize(ctx, found, prompt)
	})
	if err != nil {
		return nil, fail(StageNarrate, err)
	}

	result := entity.QueryResult{
		NarrativeText: text,
		Places:        found,
		RequestID:     rid,
	}
	if req.UseCache && !s.cache.Set(ctx, result, s.ttl, prompt, locKey) {
		log.Debug("query result not cached")
	}

	result.ProcessingTimeMs = elapsedMs()
	log.Info("query resolved",
		zap.Int("places", len(found)),
		zap.Float64("processing_ms", result.ProcessingTimeMs),
	)
	s.recorder.QueryCompleted(ctx, OutcomeSuccess, time.Since(start))
	return &result, nil
}

// runStage times fn and converts a panic into an error.
func runStage[T any](ctx context.Context, s *QueryService, stage string, fn func() (T, error)) (out T, err error) {
	started := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s stage: %v", stage, r)
		}
		s.recorder.StageCompleted(ctx, stage, time.Since(started))
	}()
	return fn()
}

// buildSearch renders the provider query. Names and types are joined with
// the extracted locations; without any subject the raw prompt is used.
func buildSearch(e entity.ExtractedEntities, prompt string, userLocation *entity.Coordinates, limit int) (string, places.SearchOptions) {
	subjects := make([]string, 0, len(e.PlaceNames)+len(e.PlaceTypes))
	subjects = append(subjects, e.PlaceNames...)
	for _, t := range e.PlaceTypes {
		subjects = append(subjects, strings.ReplaceAll(t, "_", " "))
	}

	query := prompt
	if len(subjects) > 0 {
		query = places.TextQuery(subjects, strings.Join(e.Locations, ", "))
	}
	return query, places.SearchOptions{Location: userLocation, Limit: limit}
}

func clampMaxResults(n int) int {
	switch {
	case n <= 0:
		return DefaultMaxResults
	case n > MaxResultsLimit:
		return MaxResultsLimit
	default:
		return n
	}
}

// locationKey serializes the user location for cache keys.
func locationKey(loc *entity.Coordinates) string {
	if loc == nil {
		return ""
	}
	data, err := json.Marshal(loc)
	if err != nil {
		return ""
	}
	return string(data)
}
