// Package search defines the search-engine capability used by discovery and
// its Google Custom Search implementation.
package search

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// MaxResults is the most results the engine will page through for one query.
const MaxResults = 100

// PageSize is the number of results returned per request.
const PageSize = 10

// Item is a single search result.
type Item struct {
	Title   string
	Link    string
	Snippet string
}

// Page is one page of results for a query.
type Page struct {
	Items []Item
	// TotalResults is the engine's estimate of results for the whole query.
	TotalResults int
}

// Client runs one paginated search request. start is 1-based.
type Client interface {
	Search(ctx context.Context, query string, start int) (*Page, error)
}

// ErrQuotaExhausted signals that the daily request quota has been used up.
var ErrQuotaExhausted = errors.New("search: daily request quota exhausted")

// APIError is a fault reported by the search provider.
type APIError struct {
	Code    int
	Message string
	Cause   error
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("search API error %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("search API error %d", e.Code)
}

func (e *APIError) Unwrap() error {
	return e.Cause
}

// Is matches ErrQuotaExhausted for rate-limit codes.
func (e *APIError) Is(target error) bool {
	return target == ErrQuotaExhausted && e.Code == http.StatusTooManyRequests
}

// IsQuotaExhausted returns true if err means no more searches can run today.
func IsQuotaExhausted(err error) bool {
	return errors.Is(err, ErrQuotaExhausted)
}

// Code returns the provider's error code, or 0 when err is not an APIError.
func Code(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return 0
}
