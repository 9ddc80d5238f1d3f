package dto

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Prompt length bounds, counted in characters.
const (
	MinPromptLength = 3
	MaxPromptLength = 500
)

// Location is a client supplied point.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Validate checks the coordinate ranges.
func (l Location) Validate() error {
	if l.Lat < -90 || l.Lat > 90 {
		return fmt.Errorf("lat must be between -90 and 90")
	}
	if l.Lng < -180 || l.Lng > 180 {
		return fmt.Errorf("lng must be between -180 and 180")
	}
	return nil
}

// QueryRequest is the payload of POST /api/query. Optional numeric and
// boolean fields are pointers so defaults can be applied.
type QueryRequest struct {
	Prompt       string    `json:"prompt"`
	UserLocation *Location `json:"user_location,omitempty"`
	MaxResults   *int      `json:"max_results,omitempty"`
	UseCache     *bool     `json:"use_cache,omitempty"`
}

// Normalize trims the prompt.
func (r *QueryRequest) Normalize() {
	r.Prompt = strings.TrimSpace(r.Prompt)
}

// Validate reports the first client error in the payload.
func (r QueryRequest) Validate(maxResultsLimit int) error {
	n := utf8.RuneCountInString(r.Prompt)
	if n == 0 {
		return errors.New("prompt is required")
	}
	if n < MinPromptLength || n > MaxPromptLength {
		return fmt.Errorf("prompt must be between %d and %d characters", MinPromptLength, MaxPromptLength)
	}
	if r.UserLocation != nil {
		if err := r.UserLocation.Validate(); err != nil {
			return fmt.Errorf("user_location: %w", err)
		}
	}
	if r.MaxResults != nil && (*r.MaxResults < 1 || *r.MaxResults > maxResultsLimit) {
		return fmt.Errorf("max_results must be between 1 and %d", maxResultsLimit)
	}
	return nil
}

// CacheEnabled applies the default of true.
func (r QueryRequest) CacheEnabled() bool {
	return r.UseCache == nil || *r.UseCache
}

// MaxResultsOr returns max_results or def when omitted.
func (r QueryRequest) MaxResultsOr(def int) int {
	if r.MaxResults == nil {
		return def
	}
	return *r.MaxResults
}
