package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNoResults means the provider found no place for the query.
	ErrNoResults = errors.New("no places matched the query")
	// ErrQueryFailed is the generic failure surfaced to callers.
	ErrQueryFailed = errors.New("failed to process query")
)

// QueryError is returned by QueryService.Resolve for every unsuccessful
// outcome. It matches ErrNoResults or ErrQueryFailed with errors.Is and
// keeps the underlying cause for logs.
type QueryError struct {
	Kind      error
	RequestID string
	// NarrativeText is the apology generated for the not-found outcome.
	NarrativeText    string
	ProcessingTimeMs float64
	Err              error
}

func (e *QueryError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%v (request %s)", e.Kind, e.RequestID)
	}
	return fmt.Sprintf("%v (request %s): %v", e.Kind, e.RequestID, e.Err)
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *QueryError) Unwrap() []error {
	errs := []error{e.Kind}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}
