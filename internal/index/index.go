// Package index keeps the ordered, duplicate-free record of profiles and
// queries seen by earlier discovery passes.
package index

import (
	"context"
	"fmt"
	"log"
	"slices"

	"golang.org/x/sync/errgroup"
)

// Domain names one of the independently maintained sets.
type Domain string

const (
	Profiles Domain = "profiles"
	Queries  Domain = "queries"
)

// Domains lists every domain in flush order.
func Domains() []Domain {
	return []Domain{Profiles, Queries}
}

// Index holds one sorted set per domain. It is owned by a single run and is
// not safe for concurrent mutation.
type Index struct {
	store Store
	sets  map[Domain][]string
}

// New loads both domains from store. A missing or unreadable domain starts
// empty; load failures are logged and never returned.
func New(ctx context.Context, store Store) *Index {
	idx := &Index{
		store: store,
		sets:  make(map[Domain][]string, 2),
	}
	for _, d := range Domains() {
		keys, err := store.Load(ctx, d)
		if err != nil {
			log.Printf("[index] Could not load %s, starting empty: %v", d, err)
			keys = nil
		}
		idx.sets[d] = normalize(keys)
	}
	return idx
}

// normalize sorts and compacts keys so a hand-edited store still satisfies
// the ordering invariant.
func normalize(keys []string) []string {
	out := slices.Clone(keys)
	slices.Sort(out)
	return slices.Compact(out)
}

// Contains reports whether key is in the domain.
func (i *Index) Contains(d Domain, key string) bool {
	_, found := slices.BinarySearch(i.sets[d], key)
	return found
}

// Insert adds key at its sorted position. It returns false and leaves the set
// untouched when key is already present.
func (i *Index) Insert(d Domain, key string) bool {
	set := i.sets[d]
	pos, found := slices.BinarySearch(set, key)
	if found {
		return false
	}
	i.sets[d] = slices.Insert(set, pos, key)
	return true
}

// Len returns the number of keys in the domain.
func (i *Index) Len(d Domain) int {
	return len(i.sets[d])
}

// Keys returns a copy of the domain in ascending order.
func (i *Index) Keys(d Domain) []string {
	return slices.Clone(i.sets[d])
}

// Flush overwrites the stored copy of one domain.
func (i *Index) Flush(ctx context.Context, d Domain) error {
	if err := i.store.Save(ctx, d, i.Keys(d)); err != nil {
		return fmt.Errorf("failed to flush %s index: %w", d, err)
	}
	return nil
}

// FlushAll writes every domain. Domains live in separate stores, so the
// writes run concurrently.
func (i *Index) FlushAll(ctx context.Context) error {
	g, gCtx := errgroup.WithContext(ctx)
	for _, d := range Domains() {
		d := d
		keys := i.Keys(d)
		g.Go(func() error {
			if err := i.store.Save(gCtx, d, keys); err != nil {
				return fmt.Errorf("failed to flush %s index: %w", d, err)
			}
			return nil
		})
	}
	return g.Wait()
}
