package scoring

import (
	"math"
	"net/url"
	"strings"
	"unicode"

	"github.com/octobees/place-finder/internal/entity"
)

const (
	categoryRating       = "rating_quality"
	categoryReviews      = "review_volume"
	categoryAvailability = "availability"
	categoryProfile      = "profile_completeness"

	maxRating       = 40
	maxReviews      = 30
	maxAvailability = 10
	maxProfile      = 20
)

var freeHostingDomains = []string{
	"wordpress.com",
	"blogspot.com",
	"wixsite.com",
	"weebly.com",
	"linktr.ee",
	"business.site",
	"godaddysites.com",
	"notion.site",
	"instagram.com",
	"facebook.com",
}

// reviewTiers maps a minimum review count to its volume score, highest first.
var reviewTiers = []struct {
	min   int
	score int
}{
	{1000, 30},
	{500, 25},
	{100, 20},
	{50, 15},
	{10, 10},
	{1, 5},
}

// PlaceFeatures captures the signals used to rank how suitable a place is.
type PlaceFeatures struct {
	Rating      *float64
	RatingCount *int
	OpenNow     *bool
	Address     string
	Phone       string
	Website     string
	HasHours    bool
	PhotoCount  int
}

// ScoreResult reports the aggregate score and the per-category breakdown.
type ScoreResult struct {
	Total     int
	Breakdown map[string]int
}

// FeaturesOf extracts scoring signals from a place record.
func FeaturesOf(p entity.Place) PlaceFeatures {
	f := PlaceFeatures{
		Rating:      p.Rating,
		RatingCount: p.RatingCount,
		OpenNow:     p.OpenNow,
		Address:     p.Address,
		HasHours:    len(p.OpeningHoursText) > 0,
		PhotoCount:  len(p.PhotoURLs),
	}
	if p.Phone != nil {
		f.Phone = *p.Phone
	}
	if p.Website != nil {
		f.Website = *p.Website
	}
	return f
}

// ComputeScore evaluates the provided features and returns the score breakdown.
func ComputeScore(input PlaceFeatures) ScoreResult {
	breakdown := map[string]int{
		categoryRating:       scoreRating(input),
		categoryReviews:      scoreReviewVolume(input),
		categoryAvailability: scoreAvailability(input),
		categoryProfile:      scoreProfile(input),
	}

	total := 0
	for _, value := range breakdown {
		total += value
	}

	return ScoreResult{
		Total:     total,
		Breakdown: breakdown,
	}
}

// Suitability scores a place and returns the breakdown in record form.
func Suitability(p entity.Place) *entity.Suitability {
	res := ComputeScore(FeaturesOf(p))
	return &entity.Suitability{Total: res.Total, Breakdown: res.Breakdown}
}

// Ratings at or below 3.0 score nothing; 5.0 scores the maximum.
func scoreRating(input PlaceFeatures) int {
	if input.Rating == nil {
		return 0
	}
	score := int(math.Round((*input.Rating - 3.0) / 2.0 * maxRating))
	return clamp(score, 0, maxRating)
}

func scoreReviewVolume(input PlaceFeatures) int {
	if input.RatingCount == nil {
		return 0
	}
	for _, tier := range reviewTiers {
		if *input.RatingCount >= tier.min {
			return tier.score
		}
	}
	return 0
}

func scoreAvailability(input PlaceFeatures) int {
	switch {
	case input.OpenNow == nil:
		return maxAvailability / 2
	case *input.OpenNow:
		return maxAvailability
	default:
		return 0
	}
}

func scoreProfile(input PlaceFeatures) int {
	score := 0
	if hasCompleteAddress(input.Address) {
		score += 5
	}
	if strings.TrimSpace(input.Phone) != "" {
		score += 5
	}
	if highQualityDomain(input.Website) {
		score += 5
	}
	if input.HasHours || input.PhotoCount > 0 {
		score += 5
	}
	return min(score, maxProfile)
}

func hasCompleteAddress(raw string) bool {
	addr := strings.TrimSpace(raw)
	if len(addr) < 10 {
		return false
	}
	var hasLetter, hasDigit bool
	separatorCount := 0
	for _, r := range addr {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		case r == ',':
			separatorCount++
		}
	}
	return hasLetter && hasDigit && separatorCount >= 1
}

func highQualityDomain(raw string) bool {
	domain := extractDomain(raw)
	if domain == "" {
		return false
	}
	for _, bad := range freeHostingDomains {
		if domain == bad || strings.HasSuffix(domain, "."+bad) {
			return false
		}
	}
	return strings.Count(domain, ".") >= 1
}

func extractDomain(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	lowered := strings.ToLower(raw)
	if !strings.Contains(lowered, "://") {
		lowered = "https://" + lowered
	}
	parsed, err := url.Parse(lowered)
	if err != nil {
		return ""
	}
	host := strings.TrimSpace(strings.ToLower(parsed.Hostname()))
	return strings.TrimPrefix(host, "www.")
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
