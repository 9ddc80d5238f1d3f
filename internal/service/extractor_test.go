package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/octobees/place-finder/internal/entity"
	"github.com/octobees/place-finder/internal/lexicon"
	"github.com/octobees/place-finder/internal/llm"
)

func fixedGenerator(out string, err error) llm.Generator {
	return llm.GeneratorFunc(func(ctx context.Context, req llm.Request) (string, error) {
		return out, err
	})
}

func requireShape(t *testing.T, got entity.ExtractedEntities) {
	t.Helper()
	require.NotNil(t, got.PlaceNames)
	require.NotNil(t, got.PlaceTypes)
	require.NotNil(t, got.Locations)
	for _, field := range [][]string{got.PlaceNames, got.PlaceTypes, got.Locations} {
		seen := map[string]bool{}
		for _, v := range field {
			require.False(t, seen[lexicon.Lower(v)], "duplicate %q", v)
			seen[lexicon.Lower(v)] = true
		}
	}
}

func TestExtractNormalizesModelOutput(t *testing.T) {
	var got llm.Request
	gen := llm.GeneratorFunc(func(ctx context.Context, req llm.Request) (string, error) {
		got = req
		return `{"place_names":["Kopi Kenangan"," Kopi Kenangan ",""],
			"place_types":["Restoran","restaurant","kafe"],
			"locations":["Jakarta","jakarta",42]}`, nil
	})
	ex := NewExtractor(gen, nil, ExtractorOptions{}, nil)

	out := ex.Extract(context.Background(), "restoran dan kafe Kopi Kenangan di Jakarta")
	requireShape(t, out)
	require.Equal(t, []string{"Kopi Kenangan"}, out.PlaceNames)
	require.Equal(t, []string{"restaurant", "cafe"}, out.PlaceTypes)
	require.Equal(t, []string{"jakarta"}, out.Locations)

	require.Zero(t, got.Temperature)
	require.True(t, got.JSON)
	require.Equal(t, 256, got.MaxTokens)
	require.Contains(t, got.System, `"place_names"`)
}

func TestExtractWrongShapeYieldsEmptyArrays(t *testing.T) {
	ex := NewExtractor(fixedGenerator(`{"place_names":"Kopi","place_types":null,"locations":{"city":"bandung"}}`, nil), nil, ExtractorOptions{}, nil)

	out := ex.Extract(context.Background(), "Find coffee shops in Jakarta")
	requireShape(t, out)
	require.Equal(t, entity.NewExtractedEntities(), out)
}

func TestExtractUnreachableBackendFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	gen := llm.NewOllama(&http.Client{Timeout: time.Second}, url, "llama3.1")
	ex := NewExtractor(gen, nil, ExtractorOptions{Timeout: time.Second}, nil)

	out := ex.Extract(context.Background(), "Find coffee shops in Jakarta")
	requireShape(t, out)
	require.Equal(t, []string{"cafe"}, out.PlaceTypes)
	require.Equal(t, []string{"jakarta"}, out.Locations)
	require.Empty(t, out.PlaceNames)
}

func TestExtractRepairsMalformedJSON(t *testing.T) {
	const fixture = "Here you go:\n```json\n{'place_names': [], 'place_types': ['coffee shop',], 'locations': ['Jakarta',],}\n```"
	ex := NewExtractor(fixedGenerator(fixture, nil), nil, ExtractorOptions{}, nil)

	out := ex.Extract(context.Background(), "Find coffee shops in Jakarta")
	requireShape(t, out)
	require.Equal(t, []string{"cafe"}, out.PlaceTypes)
	require.Equal(t, []string{"jakarta"}, out.Locations)
	require.Empty(t, out.PlaceNames)
}

func TestExtractUnparseableOutputFallsBack(t *testing.T) {
	ex := NewExtractor(fixedGenerator("I cannot help with that.", nil), nil, ExtractorOptions{}, nil)

	out := ex.Extract(context.Background(), "cari apotek di Bandung")
	requireShape(t, out)
	require.Equal(t, []string{"pharmacy"}, out.PlaceTypes)
	require.Equal(t, []string{"bandung"}, out.Locations)
}

func TestExtractBackendErrorFallsBack(t *testing.T) {
	ex := NewExtractor(fixedGenerator("", errors.New("model overloaded")), nil, ExtractorOptions{}, nil)
	out := ex.Extract(context.Background(), "hotel di Bali")
	require.Equal(t, []string{"lodging"}, out.PlaceTypes)
	require.Equal(t, []string{"bali"}, out.Locations)
}

func TestExtractTimesOutIndependently(t *testing.T) {
	gen := llm.GeneratorFunc(func(ctx context.Context, req llm.Request) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})
	ex := NewExtractor(gen, nil, ExtractorOptions{Timeout: 50 * time.Millisecond}, nil)

	start := time.Now()
	out := ex.Extract(context.Background(), "Find coffee shops in Jakarta")
	require.Less(t, time.Since(start), 2*time.Second)
	require.Equal(t, []string{"cafe"}, out.PlaceTypes)
}

func TestExtractIgnoresCallerCancellation(t *testing.T) {
	gen := llm.GeneratorFunc(func(ctx context.Context, req llm.Request) (string, error) {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		return `{"place_names":[],"place_types":["museum"],"locations":[]}`, nil
	})
	ex := NewExtractor(gen, nil, ExtractorOptions{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out := ex.Extract(ctx, "museum")
	require.Equal(t, []string{"museum"}, out.PlaceTypes)
}

func TestExtractWithoutBackendUsesFallback(t *testing.T) {
	ex := NewExtractor(nil, nil, ExtractorOptions{}, nil)
	out := ex.Extract(context.Background(), "")
	requireShape(t, out)
	require.True(t, out.Empty())
}
