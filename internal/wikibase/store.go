package wikibase

import (
	"context"
	"fmt"
	"log/slog"
)

// Fetcher retrieves entity documents from an external source. The
// live implementation talks to the wbgetentities API; tests use a
// fixture map; the SQLite cache wraps another Fetcher.
type Fetcher interface {
	FetchEntities(ctx context.Context, ids []string) (map[string]*Entity, error)
}

// fetchBatchSize is the wbgetentities maximum per request.
const fetchBatchSize = 50

// Store is the in-memory entity container for one run: load batches
// of ids up front, then resolve synchronously by id. Ids that the
// source does not know stay absent; loads are idempotent per id.
//
// Store is not safe for concurrent mutation. The pipeline owns it for
// the duration of a run; renderers only read it once the run is
// finalized.
type Store struct {
	fetcher  Fetcher
	entities map[string]*Entity
}

// NewStore creates an empty container over a fetcher.
func NewStore(fetcher Fetcher) *Store {
	return &Store{
		fetcher:  fetcher,
		entities: make(map[string]*Entity),
	}
}

// LoadEntities fetches every id not already present, in batches.
// A fetch failure is a dependency failure for the caller's run.
func (s *Store) LoadEntities(ctx context.Context, ids []string) error {
	var missing []string
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		if _, ok := s.entities[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	slog.Debug("loading entities", "count", len(missing))

	for start := 0; start < len(missing); start += fetchBatchSize {
		end := min(start+fetchBatchSize, len(missing))
		batch := missing[start:end]
		fetched, err := s.fetcher.FetchEntities(ctx, batch)
		if err != nil {
			return fmt.Errorf("load entities %v: %w", batch, err)
		}
		for id, e := range fetched {
			s.entities[id] = e
		}
	}
	return nil
}

// Get resolves a loaded entity by id.
func (s *Store) Get(id string) (*Entity, bool) {
	e, ok := s.entities[id]
	return e, ok
}

// Has reports whether an entity is loaded.
func (s *Store) Has(id string) bool {
	_, ok := s.entities[id]
	return ok
}

// Label returns the entity's label in the given language.
func (s *Store) Label(id, language string) (string, bool) {
	e, ok := s.entities[id]
	if !ok {
		return "", false
	}
	return e.Label(language)
}

// Len reports the number of loaded entities.
func (s *Store) Len() int {
	return len(s.entities)
}
