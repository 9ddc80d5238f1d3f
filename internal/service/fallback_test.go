package service

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/octobees/place-finder/internal/entity"
	"github.com/octobees/place-finder/internal/lexicon"
)

func TestFallbackExtract(t *testing.T) {
	lex := lexicon.Default()
	tests := []struct {
		name string
		text string
		want entity.ExtractedEntities
	}{
		{
			name: "named place in district",
			text: "cari Kopi Kenangan di Jakarta Selatan",
			want: entity.ExtractedEntities{
				PlaceNames: []string{"Kopi Kenangan"},
				PlaceTypes: []string{},
				Locations:  []string{"jakarta selatan"},
			},
		},
		{
			name: "type and city",
			text: "Find coffee shops in Jakarta",
			want: entity.ExtractedEntities{
				PlaceNames: []string{},
				PlaceTypes: []string{"cafe"},
				Locations:  []string{"jakarta"},
			},
		},
		{
			name: "names split by connector",
			text: "Apotek K-24 dan Starbucks Reserve di Bali",
			want: entity.ExtractedEntities{
				PlaceNames: []string{"K-24", "Starbucks Reserve"},
				PlaceTypes: []string{"pharmacy"},
				Locations:  []string{"bali"},
			},
		},
		{
			name: "capitalized question words",
			text: "Where Is The Best Sushi Tei In Bandung?",
			want: entity.ExtractedEntities{
				PlaceNames: []string{"Sushi Tei"},
				PlaceTypes: []string{},
				Locations:  []string{"bandung"},
			},
		},
		{
			name: "english auxiliaries",
			text: "Is There A Janji Jiwa Here",
			want: entity.ExtractedEntities{
				PlaceNames: []string{"Janji Jiwa"},
				PlaceTypes: []string{},
				Locations:  []string{},
			},
		},
		{
			name: "nothing recognizable",
			text: "hello there",
			want: entity.NewExtractedEntities(),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := FallbackExtract(tc.text, lex)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("entities mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFallbackExtractCapsNames(t *testing.T) {
	got := FallbackExtract("Alpha, Bravo, Charlie, Delta, Echo, Foxtrot, Golf", lexicon.Default())
	want := []string{"Alpha", "Bravo", "Charlie", "Delta", "Echo", "Foxtrot"}
	if diff := cmp.Diff(want, got.PlaceNames); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestFallbackExtractIsDeterministic(t *testing.T) {
	lex := lexicon.Default()
	const text = "Rekomendasi restoran Sate Khas Senayan dekat Jakarta Pusat"
	first := FallbackExtract(text, lex)
	for i := 0; i < 5; i++ {
		if diff := cmp.Diff(first, FallbackExtract(text, lex)); diff != "" {
			t.Fatalf("run %d differs (-first +got):\n%s", i, diff)
		}
	}
	if diff := cmp.Diff([]string{"Sate Khas Senayan"}, first.PlaceNames); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
}
