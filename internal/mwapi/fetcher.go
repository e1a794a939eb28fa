package mwapi

import (
	"context"
	"fmt"

	"wdlist/internal/wikibase"
)

// EntityFetcher adapts a Client to the entity store's fetch
// interface.
type EntityFetcher struct {
	client *Client
}

// NewEntityFetcher wraps a client for entity loading.
func NewEntityFetcher(c *Client) *EntityFetcher {
	return &EntityFetcher{client: c}
}

// FetchEntities loads one batch of entities. Ids the remote reports
// as missing are absent from the result, not errors.
func (f *EntityFetcher) FetchEntities(ctx context.Context, ids []string) (map[string]*wikibase.Entity, error) {
	if len(ids) == 0 {
		return map[string]*wikibase.Entity{}, nil
	}
	body, err := f.client.FetchEntityJSON(ctx, ids)
	if err != nil {
		return nil, err
	}
	entities, err := wikibase.ParseEntityResponse(body)
	if err != nil {
		return nil, fmt.Errorf("parse entity response: %w", err)
	}
	return entities, nil
}
