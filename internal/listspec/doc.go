// Package listspec resolves the declarative, text-embedded list
// specification into typed descriptors: column descriptors, link and
// sort modes, section grouping, and the full list-level parameter set.
//
// Resolution never fails. Malformed input degrades to a defined
// fallback (UnknownColumn, default numeric values) so that a broken
// spec still produces a renderable list.
package listspec
