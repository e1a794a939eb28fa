// Package testutil provides in-memory doubles for the two remote
// dependencies of a run: entity fetching and wiki page lookups. Both
// record their traffic so tests can assert on call patterns as well
// as results.
package testutil

import (
	"context"
	"sync"

	"wdlist/internal/wikibase"
)

// FixtureFetcher serves entities from a fixed map and records every
// batch it is asked for.
//
// Thread-safety: all methods are safe for concurrent use.
type FixtureFetcher struct {
	mu       sync.Mutex
	entities map[string]*wikibase.Entity
	batches  [][]string
	err      error
}

// NewFixtureFetcher creates a fetcher over the given entities.
func NewFixtureFetcher(entities ...*wikibase.Entity) *FixtureFetcher {
	m := make(map[string]*wikibase.Entity, len(entities))
	for _, e := range entities {
		m[e.ID] = e
	}
	return &FixtureFetcher{entities: m}
}

// Add registers another entity.
func (f *FixtureFetcher) Add(e *wikibase.Entity) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entities[e.ID] = e
}

// FailWith makes every subsequent fetch return err.
func (f *FixtureFetcher) FailWith(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

// FetchEntities returns the known subset of ids. Unknown ids are
// silently absent, matching the remote behavior for missing entities.
func (f *FixtureFetcher) FetchEntities(_ context.Context, ids []string) (map[string]*wikibase.Entity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batches = append(f.batches, append([]string{}, ids...))
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[string]*wikibase.Entity)
	for _, id := range ids {
		if e, ok := f.entities[id]; ok {
			out[id] = e
		}
	}
	return out, nil
}

// Batches returns every id batch requested so far.
func (f *FixtureFetcher) Batches() [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([][]string, len(f.batches))
	copy(out, f.batches)
	return out
}

// FixtureSite answers page and image lookups from fixed sets and
// records every title asked about.
//
// Thread-safety: all methods are safe for concurrent use.
type FixtureSite struct {
	mu           sync.Mutex
	pages        map[string]bool
	sharedImages map[string]bool
	pageErr      error
	imageErr     error
	pageCalls    []string
	imageCalls   []string
}

// NewFixtureSite creates a site double with no pages and no shared
// images.
func NewFixtureSite() *FixtureSite {
	return &FixtureSite{
		pages:        make(map[string]bool),
		sharedImages: make(map[string]bool),
	}
}

// AddPage marks a title as existing.
func (s *FixtureSite) AddPage(title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages[title] = true
}

// AddSharedImage marks a file title as served from the shared
// repository.
func (s *FixtureSite) AddSharedImage(title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sharedImages[title] = true
}

// FailPageLookups makes PageExists return err.
func (s *FixtureSite) FailPageLookups(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pageErr = err
}

// FailImageLookups makes ImageIsShared return err.
func (s *FixtureSite) FailImageLookups(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.imageErr = err
}

// PageExists reports whether the title was registered with AddPage.
func (s *FixtureSite) PageExists(_ context.Context, title string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pageCalls = append(s.pageCalls, title)
	if s.pageErr != nil {
		return false, s.pageErr
	}
	return s.pages[title], nil
}

// ImageIsShared reports whether the title was registered with
// AddSharedImage.
func (s *FixtureSite) ImageIsShared(_ context.Context, title string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.imageCalls = append(s.imageCalls, title)
	if s.imageErr != nil {
		return false, s.imageErr
	}
	return s.sharedImages[title], nil
}

// PageCalls returns every title passed to PageExists.
func (s *FixtureSite) PageCalls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{}, s.pageCalls...)
}

// ImageCalls returns every title passed to ImageIsShared.
func (s *FixtureSite) ImageCalls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{}, s.imageCalls...)
}
