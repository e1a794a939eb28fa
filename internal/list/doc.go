// Package list owns a single list run: the row collection, the
// run-scoped caches, and the patch pipeline that transforms rows
// between building and rendering.
//
// The pipeline is an explicit ordered slice of named stages. The
// order is a correctness requirement, not an optimization: entity
// resolution must precede link localization, localization must
// precede shadow-file detection, and sorting always runs last. Tests
// invoke stages individually through RunStage.
//
// All mutation happens on the goroutine driving Run. Renderers
// receive the finalized List read-only and may run concurrently.
package list
