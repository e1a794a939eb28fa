// Package store is the durable entity cache. It keeps decoded
// entities in SQLite so repeated runs against overlapping item sets
// do not re-fetch the world, and wraps any upstream fetcher without
// changing its interface.
package store
