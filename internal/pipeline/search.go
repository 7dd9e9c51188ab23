// Package pipeline provides the high-level orchestration of a discovery pass:
// generate queries, discover profiles, and queue them for outreach.
package pipeline

import (
	"context"
	"fmt"
	"io"

	"github.com/jonathan/connexion/internal/discovery"
	"github.com/jonathan/connexion/internal/index"
	"github.com/jonathan/connexion/internal/observability"
	"github.com/jonathan/connexion/internal/query"
	"github.com/jonathan/connexion/internal/queue"
	"github.com/jonathan/connexion/internal/search"
	"github.com/jonathan/connexion/internal/types"
)

// Pass step names reported through OnProgress.
const (
	StepQueries   = "queries"
	StepDiscovery = "discovery"
	StepQueue     = "queue"
)

// ProgressEvent represents a progress update during a pass
type ProgressEvent struct {
	Step    string `json:"step"`
	Message string `json:"message"`
	Content any    `json:"content,omitempty"`
}

// ProgressCallback is called when pass progress occurs
type ProgressCallback func(event ProgressEvent)

// SearchOptions holds everything one discovery pass needs
type SearchOptions struct {
	Criteria types.FilterCriteria
	// Repeat reruns queries that earlier passes already used.
	Repeat bool

	Client search.Client
	Index  *index.Index
	Queue  queue.Store

	// Shuffle overrides the query order, for tests.
	Shuffle func([]string)

	// Out receives step lines and, when Verbose, boxed summaries.
	Out        io.Writer
	Verbose    bool
	OnProgress ProgressCallback
}

// SearchSummary is the outcome of a pass
type SearchSummary struct {
	Queries []string
	Result  *discovery.Result
	// Queued counts discovered profiles that were not already queued.
	Queued int
}

// emitProgress calls the progress callback if configured
func emitProgress(opts *SearchOptions, step, message string, content any) {
	if opts.OnProgress != nil {
		opts.OnProgress(ProgressEvent{Step: step, Message: message, Content: content})
	}
}

// RunSearch runs one discovery pass. Each query's new profiles are queued
// before the index records them, so a profile is never indexed without being
// queued. Profiles found before a provider fault are still queued; the fault
// is reported in Result.Message.
func RunSearch(ctx context.Context, opts SearchOptions) (*SearchSummary, error) {
	out := opts.Out
	if out == nil {
		out = io.Discard
	}
	printer := observability.NewPrinter(out)
	if opts.Verbose {
		printer.PrintCriteria(opts.Criteria)
	}

	fmt.Fprintf(out, "Step 1/3: Generating queries...\n")
	queries, err := query.Generate(opts.Criteria, func(q string) bool {
		return opts.Index.Contains(index.Queries, q)
	}, opts.Repeat)
	if err != nil {
		return nil, fmt.Errorf("query generation failed: %w", err)
	}
	if opts.Verbose {
		printer.PrintQueries(queries)
	}
	emitProgress(&opts, StepQueries, fmt.Sprintf("Generated %d queries", len(queries)), queries)

	summary := &SearchSummary{Queries: queries}

	// an unreadable queue must stop the pass before the index records anything
	fmt.Fprintf(out, "Step 2/3: Checking queue...\n")
	if _, err := opts.Queue.Load(ctx); err != nil {
		return summary, fmt.Errorf("loading queue failed: %w", err)
	}

	fmt.Fprintf(out, "Step 3/3: Searching...\n")
	var queueErr error
	sink := func(ctx context.Context, found []types.CandidateProfile) error {
		added, err := queue.Append(ctx, opts.Queue, found)
		if err != nil {
			queueErr = err
			return err
		}
		summary.Queued += added
		return nil
	}
	d := discovery.New(opts.Client, opts.Index, discovery.Options{Shuffle: opts.Shuffle, Sink: sink, Verbose: opts.Verbose})
	res, discoverErr := d.Discover(ctx, queries)
	summary.Result = res
	emitProgress(&opts, StepDiscovery, fmt.Sprintf("Discovered %d new profiles", len(res.Profiles)), res)
	emitProgress(&opts, StepQueue, fmt.Sprintf("Queued %d profiles", summary.Queued), nil)

	if opts.Verbose {
		printer.PrintDiscovery(res, summary.Queued)
	}

	if queueErr != nil {
		return summary, fmt.Errorf("queueing profiles failed: %w", queueErr)
	}
	if discoverErr != nil {
		return summary, fmt.Errorf("discovery failed: %w", discoverErr)
	}
	return summary, nil
}
