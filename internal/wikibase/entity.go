package wikibase

// Entity is one item or property with the projections the list engine
// needs. Instances are immutable after decoding.
type Entity struct {
	ID           string
	Type         string   // "item" or "property"
	Datatype     Datatype // declared value datatype, properties only
	Labels       map[string]string
	Descriptions map[string]string
	Sitelinks    map[string]string // site id -> page title
	Statements   []Statement
}

// Label returns the label in the given language.
func (e *Entity) Label(language string) (string, bool) {
	l, ok := e.Labels[language]
	return l, ok
}

// Description returns the description in the given language.
func (e *Entity) Description(language string) (string, bool) {
	d, ok := e.Descriptions[language]
	return d, ok
}

// Sitelink returns the page title the entity links to on a wiki.
func (e *Entity) Sitelink(site string) (string, bool) {
	t, ok := e.Sitelinks[site]
	return t, ok
}

// StatementsFor returns the claims for one property, in declaration
// order.
func (e *Entity) StatementsFor(property string) []Statement {
	var out []Statement
	for _, s := range e.Statements {
		if s.Property == property {
			out = append(out, s)
		}
	}
	return out
}
