package places

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"googlemaps.github.io/maps"

	"github.com/octobees/place-finder/internal/entity"
)

func TestDerivedURLs(t *testing.T) {
	c := entity.Coordinates{Lat: -6.2, Lng: 106.816666}

	if got, want := MapURL("abc", c), "https://www.google.com/maps/search/?api=1&query=-6.2%2C106.816666&query_place_id=abc"; got != want {
		t.Fatalf("MapURL = %q, want %q", got, want)
	}
	if got, want := DirectionsURL("abc", c), "https://www.google.com/maps/dir/?api=1&destination=-6.2%2C106.816666&destination_place_id=abc"; got != want {
		t.Fatalf("DirectionsURL = %q, want %q", got, want)
	}
	if got, want := EmbedURL("Kopi & Co", c), "https://www.google.com/maps?ll=-6.2%2C106.816666&output=embed&q=Kopi+%26+Co"; got != want {
		t.Fatalf("EmbedURL = %q, want %q", got, want)
	}
	if MapURL("abc", c) != MapURL("abc", c) {
		t.Fatal("MapURL must be deterministic")
	}
}

func TestCapLimit(t *testing.T) {
	cases := map[int]int{0: 5, -1: 5, 2: 2, 5: 5, 9: 5}
	for in, want := range cases {
		if got := capLimit(in); got != want {
			t.Fatalf("capLimit(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestFormatSearchResultsCapsAndSkips(t *testing.T) {
	results := make([]maps.PlacesSearchResult, 0, 8)
	results = append(results, maps.PlacesSearchResult{Name: "no id"})
	for i := 0; i < 7; i++ {
		results = append(results, maps.PlacesSearchResult{PlaceID: string(rune('a' + i)), Name: "x", Vicinity: "near"})
	}

	got := formatSearchResults(results, 0)
	if len(got) != MaxResults {
		t.Fatalf("expected the entry without id to be skipped before capping, got %d", len(got))
	}
	if got[0].ID != "a" || got[len(got)-1].ID != "e" {
		t.Fatalf("unexpected order: first %q last %q", got[0].ID, got[len(got)-1].ID)
	}
	if got := formatSearchResults(results, 2); len(got) != 2 || got[1].ID != "b" {
		t.Fatalf("expected caller limit after skipping, got %+v", got)
	}
	if got[0].Address != "near" {
		t.Fatalf("expected vicinity fallback, got %q", got[0].Address)
	}
	for _, p := range got {
		if p.OpenNow != nil {
			t.Fatalf("open_now must be unknown without opening hours")
		}
		if p.Categories == nil {
			t.Fatalf("categories must be non-nil")
		}
	}
}

func TestTextQuery(t *testing.T) {
	tests := []struct {
		subjects []string
		location string
		want     string
	}{
		{[]string{"cafe"}, "jakarta", "cafe in jakarta"},
		{[]string{"Kopi Kenangan", "cafe"}, "", "Kopi Kenangan cafe"},
		{nil, "bandung", "bandung"},
		{nil, "", ""},
	}
	for _, tc := range tests {
		if got := TextQuery(tc.subjects, tc.location); got != tc.want {
			t.Fatalf("TextQuery(%v, %q) = %q, want %q", tc.subjects, tc.location, got, tc.want)
		}
	}
}

func TestSanitizeWebsite(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"example.com/menu?utm_campaign=x&fbclid=1&page=2", "https://example.com/menu?page=2"},
		{"http://Example.COM/#top", "http://example.com/"},
		{"https://bücher.example/", "https://xn--bcher-kva.example/"},
		{"ftp://example.com", ""},
		{"localhost", ""},
		{"  ", ""},
	}
	for _, tc := range tests {
		if got := sanitizeWebsite(tc.in); got != tc.want {
			t.Fatalf("sanitizeWebsite(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizePhone(t *testing.T) {
	if got := normalizePhone("not a phone", "ID"); got != "not a phone" {
		t.Fatalf("unparseable numbers must be kept raw, got %q", got)
	}
	if got := normalizePhone("", "ID"); got != "" {
		t.Fatalf("empty input must stay empty, got %q", got)
	}
	if got := normalizePhone("+1 650-253-0000", "ID"); got != "+1 650-253-0000" {
		t.Fatalf("unexpected US formatting %q", got)
	}
}

func TestFormatDetailsCaps(t *testing.T) {
	r := maps.PlaceDetailsResult{PlaceID: "p", Name: "n"}
	for i := 0; i < 5; i++ {
		r.Reviews = append(r.Reviews, maps.PlaceReview{AuthorName: "a", Rating: 5})
		r.Photos = append(r.Photos, maps.Photo{PhotoReference: "ref"})
	}
	got := formatDetails(r, "ID", "")
	want := []string{
		"https://maps.googleapis.com/maps/api/place/photo?maxwidth=800&photo_reference=ref",
		"https://maps.googleapis.com/maps/api/place/photo?maxwidth=800&photo_reference=ref",
		"https://maps.googleapis.com/maps/api/place/photo?maxwidth=800&photo_reference=ref",
	}
	if diff := cmp.Diff(want, got.PhotoURLs); diff != "" {
		t.Fatalf("photo urls mismatch (-want +got):\n%s", diff)
	}
	if len(got.Reviews) != 3 {
		t.Fatalf("expected 3 reviews, got %d", len(got.Reviews))
	}
	if got.Phone != nil || got.Website != nil {
		t.Fatalf("missing contact fields must stay nil")
	}
}
