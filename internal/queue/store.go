// Package queue holds the list of candidate profiles waiting for outreach.
package queue

import (
	"context"
	"fmt"

	"github.com/jonathan/connexion/internal/types"
)

// Store persists the candidate queue. Save always replaces the whole queue.
type Store interface {
	Load(ctx context.Context) ([]types.CandidateProfile, error)
	Save(ctx context.Context, profiles []types.CandidateProfile) error
}

// StoreError represents a failure loading or saving the queue.
type StoreError struct {
	Message string
	Cause   error
}

func (e *StoreError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("queue store error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("queue store error: %s", e.Message)
}

func (e *StoreError) Unwrap() error {
	return e.Cause
}

// Remove returns profiles without any whose URL is in consumed, keeping order.
// URLs in consumed that are not queued are ignored.
func Remove(profiles []types.CandidateProfile, consumed []string) []types.CandidateProfile {
	drop := make(map[string]struct{}, len(consumed))
	for _, u := range consumed {
		drop[u] = struct{}{}
	}
	out := make([]types.CandidateProfile, 0, len(profiles))
	for _, p := range profiles {
		if _, ok := drop[p.URL]; !ok {
			out = append(out, p)
		}
	}
	return out
}

// Dedupe keeps the first occurrence of each URL.
func Dedupe(profiles []types.CandidateProfile) []types.CandidateProfile {
	seen := make(map[string]struct{}, len(profiles))
	out := make([]types.CandidateProfile, 0, len(profiles))
	for _, p := range profiles {
		if _, ok := seen[p.URL]; ok {
			continue
		}
		seen[p.URL] = struct{}{}
		out = append(out, p)
	}
	return out
}

// Merge appends discovered profiles whose URLs are not already queued.
func Merge(existing, discovered []types.CandidateProfile) []types.CandidateProfile {
	out := make([]types.CandidateProfile, 0, len(existing)+len(discovered))
	out = append(out, existing...)
	out = append(out, discovered...)
	return Dedupe(out)
}

// Append loads the queue, merges discovered into it and saves the result.
// It returns the number of profiles actually added.
func Append(ctx context.Context, s Store, discovered []types.CandidateProfile) (int, error) {
	existing, err := s.Load(ctx)
	if err != nil {
		return 0, err
	}
	merged := Merge(existing, discovered)
	if err := s.Save(ctx, merged); err != nil {
		return 0, err
	}
	return len(merged) - len(Dedupe(existing)), nil
}
