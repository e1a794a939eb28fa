package list

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"wdlist/internal/listspec"
	"wdlist/internal/model"
	"wdlist/internal/sparql"
	"wdlist/internal/wikibase"
)

// formatterURLProperty holds the per-property URL template used to
// link external identifiers.
const formatterURLProperty = "P1630"

// Options configures a list run.
type Options struct {
	Wiki     string // current wiki id, e.g. "enwiki"
	Language string // site content language; Params.Language overrides
	Params   listspec.Params
	Store    *wikibase.Store
	Site     SiteClient

	// ShadowCheckWikis names the wikis where shadow-file removal
	// applies.
	ShadowCheckWikis []string

	// FileNamespace is the local file namespace prefix. Defaults to
	// "File".
	FileNamespace string
}

// List is the single mutable aggregate of a run. It owns the row
// collection and every run-scoped cache; nothing here is shared
// across runs.
type List struct {
	runID    string
	wiki     string
	language string
	params   listspec.Params
	columns  []listspec.Column
	store    *wikibase.Store
	site     SiteClient

	shadowCheckWikis []string
	fileNamespace    string

	results *sparql.ResultSet
	rows    []*model.Row

	// Run-scoped caches. pageCache is append-only, keyed by
	// normalized title.
	pageCache    map[string]bool
	shadowFiles  []string
	sectionNames map[int]string
}

// New creates a run context. The column slice is copied so label
// re-derivation cannot leak into the caller's params.
func New(opts Options) *List {
	language := opts.Language
	if opts.Params.Language != "" {
		language = opts.Params.Language
	}
	fileNS := opts.FileNamespace
	if fileNS == "" {
		fileNS = "File"
	}
	columns := make([]listspec.Column, len(opts.Params.Columns))
	copy(columns, opts.Params.Columns)

	return &List{
		runID:            uuid.Must(uuid.NewV7()).String(),
		wiki:             opts.Wiki,
		language:         language,
		params:           opts.Params,
		columns:          columns,
		store:            opts.Store,
		site:             opts.Site,
		shadowCheckWikis: opts.ShadowCheckWikis,
		fileNamespace:    fileNS,
		pageCache:        make(map[string]bool),
		sectionNames:     make(map[int]string),
	}
}

// RunID returns the unique token identifying this run in logs.
func (l *List) RunID() string { return l.runID }

// Wiki returns the current wiki id.
func (l *List) Wiki() string { return l.wiki }

// Language returns the working language.
func (l *List) Language() string { return l.language }

// Params returns the resolved list-level parameters.
func (l *List) Params() listspec.Params { return l.params }

// Columns returns the column descriptors with their current labels.
func (l *List) Columns() []listspec.Column { return l.columns }

// Rows returns the row collection. After Run it is finalized and must
// be consumed in order.
func (l *List) Rows() []*model.Row { return l.rows }

// Store returns the entity store backing this run.
func (l *List) Store() *wikibase.Store { return l.store }

// ShadowFiles returns the sorted filenames excluded as shadow files.
func (l *List) ShadowFiles() []string { return l.shadowFiles }

// Run executes the whole core flow over already-parsed query results:
// initial entity load, column relabeling, row building, then the
// patch pipeline. Any stage failure aborts; the caller discards the
// partially mutated List.
func (l *List) Run(ctx context.Context, results *sparql.ResultSet) error {
	l.results = results

	if err := l.loadInitialEntities(ctx); err != nil {
		return err
	}
	l.relabelColumns()

	l.rows = model.BuildRows(l.store, results, model.BuildOptions{
		Columns:       l.columns,
		Language:      l.language,
		Wiki:          l.wiki,
		OneRowPerItem: l.params.OneRowPerItem,
		LocalOnly:     l.params.Links == listspec.LinksLocal,
	})

	return l.Patch(ctx)
}

// primaryEntityIDs returns the deduplicated primary-variable entity
// ids in original binding order.
func (l *List) primaryEntityIDs() []string {
	primary := l.results.PrimaryVariable()
	var ids []string
	seen := make(map[string]bool)
	for _, b := range l.results.Bindings {
		if ev, ok := b[primary].(sparql.EntityValue); ok && !seen[ev.ID] {
			seen[ev.ID] = true
			ids = append(ids, ev.ID)
		}
	}
	return ids
}

// needsEntities reports whether any column, link mode, sort or
// section setting requires entity data before rows are built.
func (l *List) needsEntities() bool {
	for _, c := range l.columns {
		switch c.Type.(type) {
		case listspec.NumberColumn, listspec.ItemColumn, listspec.FieldColumn:
		default:
			return true
		}
	}
	switch l.params.Links {
	case listspec.LinksLocal, listspec.LinksRed, listspec.LinksRedOnly:
		return true
	}
	if _, ok := l.params.Sort.(listspec.SortByProperty); ok {
		return true
	}
	if _, ok := l.params.Section.(listspec.SectionByProperty); ok {
		return true
	}
	return false
}

// loadInitialEntities loads the primary entities and every identifier
// the column descriptors reference. An empty primary entity set is a
// dependency failure: there is nothing to show.
func (l *List) loadInitialEntities(ctx context.Context) error {
	primary := l.primaryEntityIDs()
	if len(primary) == 0 {
		return fmt.Errorf("no items to show")
	}
	if !l.needsEntities() {
		return nil
	}
	ids := append([]string{}, primary...)
	for _, c := range l.columns {
		ids = append(ids, columnEntityIDs(c)...)
	}
	if s, ok := l.params.Sort.(listspec.SortByProperty); ok {
		ids = append(ids, s.Property)
	}
	if s, ok := l.params.Section.(listspec.SectionByProperty); ok {
		ids = append(ids, s.Property)
	}
	if err := l.store.LoadEntities(ctx, ids); err != nil {
		return fmt.Errorf("load initial entities: %w", err)
	}
	return nil
}

// columnEntityIDs lists the identifiers a column descriptor itself
// references.
func columnEntityIDs(c listspec.Column) []string {
	switch t := c.Type.(type) {
	case listspec.PropertyColumn:
		return []string{t.Property}
	case listspec.PropertyQualifierColumn:
		return []string{t.Property, t.Qualifier}
	case listspec.PropertyQualifierValueColumn:
		return []string{t.Property, t.Value, t.Qualifier}
	default:
		return nil
	}
}

// relabelColumns re-derives property-based column labels from the
// loaded entities.
func (l *List) relabelColumns() {
	for i := range l.columns {
		l.columns[i].GenerateLabel(l.LabelWithFallback)
	}
}

// LabelWithFallback returns the entity's label in the working
// language, or the raw id when none exists.
func (l *List) LabelWithFallback(id string) string {
	if label, ok := l.store.Label(id, l.language); ok {
		return label
	}
	return id
}

// LocalPageExists consults the run-scoped page cache. Titles never
// checked (or whose check failed) count as missing.
func (l *List) LocalPageExists(title string) bool {
	return l.pageCache[l.NormalizeTitle(title)]
}

// NormalizeTitle normalizes a page title the way the wiki does for
// lookups: NFC form with the first letter uppercased.
func (l *List) NormalizeTitle(s string) string {
	s = norm.NFC.String(s)
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// FileNamespace returns the local file namespace prefix.
func (l *List) FileNamespace() string { return l.fileNamespace }

// ExternalIDURL resolves an external identifier to a full URL through
// the property's formatter URL template, substituting the decoded id
// for "$1". Returns false when the property carries no usable
// template.
func (l *List) ExternalIDURL(property, id string) (string, bool) {
	entity, ok := l.store.Get(property)
	if !ok {
		return "", false
	}
	decoded, err := url.QueryUnescape(id)
	if err != nil {
		return "", false
	}
	for _, st := range entity.StatementsFor(formatterURLProperty) {
		if sv, ok := st.MainSnak.Value.(wikibase.StringValue); ok {
			return strings.ReplaceAll(sv.Value, "$1", decoded), true
		}
	}
	return "", false
}

// LocationTemplate renders a coordinate for the current wiki. Three
// wikis carry their own formats; everything else gets the generic
// Coord template.
func (l *List) LocationTemplate(lat, lon float64) string {
	switch l.wiki {
	case "wikidatawiki":
		return fmt.Sprintf("%v/%v", lat, lon)
	case "commonswiki":
		return fmt.Sprintf("{{Inline coordinates|%v|%v|display=inline}}", lat, lon)
	case "dewiki":
		return fmt.Sprintf("{{Coordinate|text=DMS|NS=%v|EW=%v|simple=y|type=landmark}}", lat, lon)
	default:
		return fmt.Sprintf("{{Coord|%v|%v|display=inline}}", lat, lon)
	}
}

// SectionIDs returns the distinct section ids in render order:
// named sections ascending, then the unnamed catch-all section 0 when
// present.
func (l *List) SectionIDs() []int {
	seen := make(map[int]bool)
	var ids []int
	hasZero := false
	for _, row := range l.rows {
		if row.Section == 0 {
			hasZero = true
			continue
		}
		if !seen[row.Section] {
			seen[row.Section] = true
			ids = append(ids, row.Section)
		}
	}
	sort.Ints(ids)
	if hasZero {
		ids = append(ids, 0)
	}
	return ids
}

// SectionName returns the heading for a section id, if it has one.
func (l *List) SectionName(id int) (string, bool) {
	name, ok := l.sectionNames[id]
	return name, ok
}
