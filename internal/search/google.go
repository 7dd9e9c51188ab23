package search

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"

	"golang.org/x/time/rate"
	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// DefaultRequestsPerSecond keeps bursts well under the Custom Search per-minute cap.
const DefaultRequestsPerSecond = 1.0

// GoogleConfig configures the Custom Search client.
type GoogleConfig struct {
	APIKey            string
	EngineID          string
	RequestsPerSecond float64
	// ClientOptions are appended after the API key, e.g. a test endpoint.
	ClientOptions []option.ClientOption
	Verbose       bool
}

// Google runs queries against the Custom Search JSON API.
type Google struct {
	svc     *customsearch.Service
	cx      string
	limiter *rate.Limiter
	verbose bool
}

// NewGoogle creates a Custom Search client.
func NewGoogle(ctx context.Context, cfg GoogleConfig) (*Google, error) {
	if cfg.EngineID == "" {
		return nil, fmt.Errorf("search engine ID is required")
	}
	opts := []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	opts = append(opts, cfg.ClientOptions...)

	svc, err := customsearch.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create customsearch service: %w", err)
	}

	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = DefaultRequestsPerSecond
	}

	return &Google{
		svc:     svc,
		cx:      cfg.EngineID,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		verbose: cfg.Verbose,
	}, nil
}

// Search fetches one page of results starting at the 1-based offset start.
func (g *Google) Search(ctx context.Context, query string, start int) (*Page, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	if g.verbose {
		log.Printf("[search] q=%q start=%d", query, start)
	}

	resp, err := g.svc.Cse.List().Cx(g.cx).Q(query).Start(int64(start)).Context(ctx).Do()
	if err != nil {
		return nil, wrapError(err)
	}

	page := &Page{}
	if resp.SearchInformation != nil {
		if total, err := strconv.Atoi(resp.SearchInformation.TotalResults); err == nil {
			page.TotalResults = total
		}
	}
	for _, item := range resp.Items {
		page.Items = append(page.Items, Item{
			Title:   item.Title,
			Link:    item.Link,
			Snippet: item.Snippet,
		})
	}
	return page, nil
}

// wrapError converts a googleapi.Error into an APIError carrying its code.
func wrapError(err error) error {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return err
	}
	return &APIError{
		Code:    gerr.Code,
		Message: gerr.Message,
		Cause:   err,
	}
}
