package model

// CellPart is a sealed interface over the result part variants. Only
// the types in this file implement it. Parts are immutable; pipeline
// stages replace parts rather than mutating them.
type CellPart interface {
	cellPart()
}

// NumberPart renders as the row's 1-based position within its section.
type NumberPart struct{}

// EntityPart references an entity by id. TryLocalize marks parts the
// localize stage may rewrite into a LocalLinkPart.
type EntityPart struct {
	ID          string
	TryLocalize bool
}

// LocalLinkPart links to a page on the current wiki.
type LocalLinkPart struct {
	Page  string
	Label string
}

// TimePart is precision-reduced time text.
type TimePart struct {
	Time string
}

// LocationPart is a geographic point.
type LocationPart struct {
	Lat float64
	Lon float64
}

// FilePart names a media file.
type FilePart struct {
	Name string
}

// URIPart is a bare URI.
type URIPart struct {
	URI string
}

// ExternalIDPart is an identifier in an external registry, rendered
// through the property's formatter URL.
type ExternalIDPart struct {
	Property string
	ID       string
}

// TextPart is plain text.
type TextPart struct {
	Text string
}

// ChainPart is an ordered list of sub-parts rendered together (claim
// value plus qualifier value).
type ChainPart struct {
	Parts []CellPart
}

func (NumberPart) cellPart()     {}
func (EntityPart) cellPart()     {}
func (LocalLinkPart) cellPart()  {}
func (TimePart) cellPart()       {}
func (LocationPart) cellPart()   {}
func (FilePart) cellPart()       {}
func (URIPart) cellPart()        {}
func (ExternalIDPart) cellPart() {}
func (TextPart) cellPart()       {}
func (ChainPart) cellPart()      {}

// WalkParts visits every part depth-first, descending into chains.
func WalkParts(parts []CellPart, visit func(CellPart)) {
	for _, p := range parts {
		if ch, ok := p.(ChainPart); ok {
			WalkParts(ch.Parts, visit)
			continue
		}
		visit(p)
	}
}

// TransformParts rebuilds a part list by applying fn to every
// non-chain part, descending into chains. The input is not modified.
func TransformParts(parts []CellPart, fn func(CellPart) CellPart) []CellPart {
	out := make([]CellPart, len(parts))
	for i, p := range parts {
		if ch, ok := p.(ChainPart); ok {
			out[i] = ChainPart{Parts: TransformParts(ch.Parts, fn)}
			continue
		}
		out[i] = fn(p)
	}
	return out
}

// Cell is an ordered sequence of parts (multi-valued claims yield one
// part per value).
type Cell struct {
	Parts []CellPart
}

// Row owns an entity id, one cell per column, a section id and the
// sortkey the sort stage derives. Only the patch pipeline mutates
// rows.
type Row struct {
	EntityID string
	Cells    []Cell
	Section  int
	SortKey  string
}
