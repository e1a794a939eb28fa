package testutil

import "wdlist/internal/wikibase"

// EntityBuilder assembles entities for tests without the JSON
// decoding detour.
type EntityBuilder struct {
	e *wikibase.Entity
}

// Item starts an item entity.
func Item(id string) *EntityBuilder {
	return &EntityBuilder{e: &wikibase.Entity{
		ID:           id,
		Type:         "item",
		Labels:       make(map[string]string),
		Descriptions: make(map[string]string),
		Sitelinks:    make(map[string]string),
	}}
}

// Property starts a property entity with a declared datatype.
func Property(id string, datatype wikibase.Datatype) *EntityBuilder {
	b := Item(id)
	b.e.Type = "property"
	b.e.Datatype = datatype
	return b
}

// Label adds a label.
func (b *EntityBuilder) Label(language, label string) *EntityBuilder {
	b.e.Labels[language] = label
	return b
}

// Description adds a description.
func (b *EntityBuilder) Description(language, text string) *EntityBuilder {
	b.e.Descriptions[language] = text
	return b
}

// Sitelink adds a sitelink.
func (b *EntityBuilder) Sitelink(site, title string) *EntityBuilder {
	b.e.Sitelinks[site] = title
	return b
}

// Claim adds a statement with the given main snak value.
func (b *EntityBuilder) Claim(property string, datatype wikibase.Datatype, value wikibase.DataValue) *EntityBuilder {
	b.e.Statements = append(b.e.Statements, wikibase.Statement{
		Property: property,
		MainSnak: wikibase.Snak{Property: property, Datatype: datatype, Value: value},
		Rank:     "normal",
	})
	return b
}

// QualifiedClaim adds a statement with qualifiers.
func (b *EntityBuilder) QualifiedClaim(property string, datatype wikibase.Datatype, value wikibase.DataValue, qualifiers ...wikibase.Snak) *EntityBuilder {
	b.e.Statements = append(b.e.Statements, wikibase.Statement{
		Property:   property,
		MainSnak:   wikibase.Snak{Property: property, Datatype: datatype, Value: value},
		Qualifiers: qualifiers,
		Rank:       "normal",
	})
	return b
}

// Build returns the assembled entity.
func (b *EntityBuilder) Build() *wikibase.Entity {
	return b.e
}
