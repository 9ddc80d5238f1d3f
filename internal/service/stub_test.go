package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/octobees/place-finder/internal/entity"
	"github.com/octobees/place-finder/internal/places"
)

type stubProvider struct {
	mu          sync.Mutex
	results     []entity.Place
	details     map[string]*entity.Place
	textCalls   atomic.Int32
	nearbyCalls atomic.Int32
	detailCalls atomic.Int32
	lastQuery   string
	lastOpts    places.SearchOptions
	lastNearby  places.NearbyRequest
	detailDelay time.Duration
}

func (s *stubProvider) SearchByText(ctx context.Context, query string, opts places.SearchOptions) []entity.Place {
	s.textCalls.Add(1)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastQuery = query
	s.lastOpts = opts
	out := append([]entity.Place{}, s.results...)
	if limit := opts.Limit; limit > 0 && limit < places.MaxResults && len(out) > limit {
		out = out[:limit]
	} else if len(out) > places.MaxResults {
		out = out[:places.MaxResults]
	}
	return out
}

func (s *stubProvider) SearchNearby(ctx context.Context, req places.NearbyRequest) []entity.Place {
	s.nearbyCalls.Add(1)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastNearby = req
	return append([]entity.Place{}, s.results...)
}

func (s *stubProvider) GetDetails(ctx context.Context, placeID string) *entity.Place {
	s.detailCalls.Add(1)
	if s.detailDelay > 0 {
		time.Sleep(s.detailDelay)
	}
	p, ok := s.details[placeID]
	if !ok {
		return nil
	}
	cp := *p
	return &cp
}

type stubExtractor struct {
	result entity.ExtractedEntities
	calls  atomic.Int32
	panics bool
}

func (s *stubExtractor) Extract(ctx context.Context, text string) entity.ExtractedEntities {
	s.calls.Add(1)
	if s.panics {
		panic("extractor exploded")
	}
	return s.result
}

type stubNarrator struct {
	mu           sync.Mutex
	text         string
	emptyText    string
	err          error
	summaryCalls int
	emptyCalls   int
	lastPlaces   []entity.Place
}

func (s *stubNarrator) Summarize(ctx context.Context, found []entity.Place, prompt string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(found) == 0 {
		s.emptyCalls++
		if s.err != nil {
			return "", s.err
		}
		return s.emptyText, nil
	}
	s.summaryCalls++
	s.lastPlaces = found
	if s.err != nil {
		return "", s.err
	}
	return s.text, nil
}

type recordingRecorder struct {
	mu       sync.Mutex
	outcomes []string
	stages   []string
	lookups  map[string][]bool
}

func newRecordingRecorder() *recordingRecorder {
	return &recordingRecorder{lookups: map[string][]bool{}}
}

func (r *recordingRecorder) QueryCompleted(_ context.Context, outcome string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, outcome)
}

func (r *recordingRecorder) StageCompleted(_ context.Context, stage string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stages = append(r.stages, stage)
}

func (r *recordingRecorder) CacheLookup(_ context.Context, kind string, hit bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lookups[kind] = append(r.lookups[kind], hit)
}

func ptr[T any](v T) *T { return &v }

func samplePlaces(n int) []entity.Place {
	out := make([]entity.Place, 0, n)
	for i := 0; i < n; i++ {
		c := entity.Coordinates{Lat: -6.2 + float64(i)/100, Lng: 106.8}
		id := string(rune('a'+i)) + "-place"
		out = append(out, entity.Place{
			ID:           id,
			Name:         "Coffee " + string(rune('A'+i)),
			Address:      "Jl. Sudirman No. 1, Jakarta",
			Coordinates:  c,
			Rating:       ptr(4.5),
			RatingCount:  ptr(100 * (i + 1)),
			Categories:   []string{"cafe"},
			MapURL:       places.MapURL(id, c),
			DirectionURL: places.DirectionsURL(id, c),
			EmbedURL:     places.EmbedURL("Coffee", c),
		})
	}
	return out
}
