package list

import "context"

// SiteClient answers existence questions against the current wiki.
// The live implementation queries the MediaWiki API; tests use a
// fixture. Both checks are cosmetic inputs: callers treat a failed
// lookup as inconclusive rather than aborting the run.
type SiteClient interface {
	// PageExists reports whether a page with the given title exists
	// on the current wiki.
	PageExists(ctx context.Context, title string) (bool, error)

	// ImageIsShared reports whether the named file page (already
	// namespace-prefixed) is served from the shared media
	// repository. A local, non-shared file of the same name shadows
	// the shared one.
	ImageIsShared(ctx context.Context, title string) (bool, error)
}
