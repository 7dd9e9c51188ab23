// Package discovery runs search queries and collects profiles that no earlier
// pass has seen.
package discovery

import (
	"context"
	"fmt"
	"log"
	"math/rand"

	"github.com/jonathan/connexion/internal/index"
	"github.com/jonathan/connexion/internal/search"
	"github.com/jonathan/connexion/internal/types"
)

// QuotaMessage is reported when the provider's daily quota ran out.
const QuotaMessage = "API request limit reached."

// Sink receives the new profiles of one query before they are recorded in
// the profile index. An error stops the pass and leaves them unrecorded.
type Sink func(ctx context.Context, profiles []types.CandidateProfile) error

// Options configures a Discoverer.
type Options struct {
	// Shuffle reorders queries in place. Defaults to a random shuffle.
	Shuffle func(queries []string)
	Sink    Sink
	Verbose bool
}

// Result is the outcome of one discovery pass.
type Result struct {
	// Profiles are newly discovered, in discovery order.
	Profiles []types.CandidateProfile
	// Message is empty on a clean pass, otherwise a human-readable reason the
	// pass stopped early.
	Message string
	// QueriesRun counts queries marked as used, including an aborted one.
	QueriesRun int
}

// Discoverer drives a search client over a set of queries.
type Discoverer struct {
	client  search.Client
	idx     *index.Index
	shuffle func([]string)
	sink    Sink
	verbose bool
}

// New creates a Discoverer that records seen profiles and used queries in idx.
func New(client search.Client, idx *index.Index, opts Options) *Discoverer {
	shuffle := opts.Shuffle
	if shuffle == nil {
		shuffle = func(q []string) {
			rand.Shuffle(len(q), func(i, j int) { q[i], q[j] = q[j], q[i] })
		}
	}
	return &Discoverer{
		client:  client,
		idx:     idx,
		shuffle: shuffle,
		sink:    opts.Sink,
		verbose: opts.Verbose,
	}
}

// ProviderMessage renders a search fault as the message stored on Result.
func ProviderMessage(err error) string {
	if search.IsQuotaExhausted(err) {
		return QuotaMessage
	}
	if code := search.Code(err); code != 0 {
		return fmt.Sprintf("Google API Error %d", code)
	}
	return fmt.Sprintf("Google API Error: %v", err)
}

// Discover runs every query, paging until the engine's result estimate (capped
// at search.MaxResults) is exhausted. A provider fault stops the pass; profiles
// found so far are kept and Result.Message describes the fault. A profile is
// recorded in the index only once the sink has accepted it. Both index domains
// are flushed before returning on every path.
func (d *Discoverer) Discover(ctx context.Context, queries []string) (res *Result, err error) {
	res = &Result{}
	defer func() {
		if flushErr := d.idx.FlushAll(context.WithoutCancel(ctx)); flushErr != nil {
			log.Printf("[discovery] Failed to flush index: %v", flushErr)
			if err == nil {
				err = flushErr
			}
		}
	}()

	order := append([]string(nil), queries...)
	d.shuffle(order)

	for _, q := range order {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return res, ctxErr
		}

		found, searchErr := d.runQuery(ctx, q)
		if d.sink != nil && len(found) > 0 {
			if sinkErr := d.sink(context.WithoutCancel(ctx), found); sinkErr != nil {
				return res, fmt.Errorf("handing off profiles from %q: %w", q, sinkErr)
			}
		}
		for _, p := range found {
			d.idx.Insert(index.Profiles, p.URL)
		}
		res.Profiles = append(res.Profiles, found...)

		// a query is spent once attempted, even if it found nothing or failed
		d.idx.Insert(index.Queries, q)
		res.QueriesRun++

		// checkpoint after every query
		if flushErr := d.idx.FlushAll(context.WithoutCancel(ctx)); flushErr != nil {
			log.Printf("[discovery] Checkpoint flush failed: %v", flushErr)
		}

		if d.verbose {
			log.Printf("[discovery] %d new profiles from %q", len(found), q)
		}

		if searchErr != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return res, ctxErr
			}
			res.Message = ProviderMessage(searchErr)
			log.Printf("[discovery] Stopping pass: %s (%v)", res.Message, searchErr)
			return res, nil
		}
	}

	return res, nil
}

// runQuery pages through one query and returns the profiles the index has not
// seen, including those from pages fetched before an error.
func (d *Discoverer) runQuery(ctx context.Context, q string) ([]types.CandidateProfile, error) {
	var found []types.CandidateProfile
	seen := make(map[string]bool)
	total := search.MaxResults
	for start := 1; total > start; start += search.PageSize {
		page, err := d.client.Search(ctx, q, start)
		if err != nil {
			return found, err
		}

		total = min(search.MaxResults, page.TotalResults)

		for _, item := range page.Items {
			if item.Link == "" || seen[item.Link] || d.idx.Contains(index.Profiles, item.Link) {
				continue
			}
			seen[item.Link] = true
			found = append(found, types.CandidateProfile{
				Title:   item.Title,
				URL:     item.Link,
				Snippet: item.Snippet,
			})
		}
	}
	return found, nil
}
