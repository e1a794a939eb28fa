// Package model holds the result model: rows of cells of parts.
//
// CellPart is a sealed sum type of pure data; no part carries any
// formatting. All locale and link-style decisions happen at render
// time against the shared run context, which is what lets the patch
// pipeline rewrite parts in place before any output exists.
package model
