// Package wikibase models the slice of entity data the list engine
// consumes: labels, descriptions, sitelinks, and statements with
// qualifiers. The entity store itself is an external collaborator;
// this package defines the synchronous lookup contract
// (load a batch of ids, then resolve by id) and an in-memory
// container implementing it over any Fetcher.
package wikibase
