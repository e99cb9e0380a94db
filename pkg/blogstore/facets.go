package blogstore

import (
	"context"
	"sync"
)

// facetIndex caches the derived browsing facets (categories and tag counts).
// The index is read-mostly and recomputed on demand from current post rows;
// every post-affecting write invalidates it, so staleness is bounded by one
// subsequent successful write.
type facetIndex struct {
	mu         sync.Mutex
	valid      bool
	gen        uint64
	categories []string
	tags       []TagCount
}

func (f *facetIndex) invalidate() {
	f.mu.Lock()
	f.valid = false
	f.gen++
	f.categories = nil
	f.tags = nil
	f.mu.Unlock()
}

// load returns the cached facets, recomputing them from the repository when
// the cache was invalidated. The repository queries run outside any store
// lock; only the cache swap is guarded. The generation counter keeps an
// invalidation that lands mid-recompute from being overwritten: a result
// computed against an older generation is returned to the caller but never
// cached, so the next read recomputes against current rows.
func (f *facetIndex) load(ctx context.Context, repo Repository) ([]string, []TagCount, error) {
	f.mu.Lock()
	if f.valid {
		categories, tags := f.categories, f.tags
		f.mu.Unlock()
		return categories, tags, nil
	}
	gen := f.gen
	f.mu.Unlock()

	categories, err := repo.DistinctCategories(ctx)
	if err != nil {
		return nil, nil, err
	}
	tags, err := repo.TagCounts(ctx)
	if err != nil {
		return nil, nil, err
	}

	f.mu.Lock()
	if f.gen == gen {
		f.valid = true
		f.categories = categories
		f.tags = tags
	}
	f.mu.Unlock()

	return categories, tags, nil
}
