package listspec

import (
	"regexp"
	"strings"
)

// ColumnType is a sealed interface over the recognized column roles.
// Only the types in this package implement it. The marker method
// pattern enables exhaustive type switches in the cell builder and
// both renderers.
type ColumnType interface {
	columnType()

	// Key returns the stable lowercase identifier used to name the
	// column in row templates (e.g. "p31", "p553_q866_p554", "label").
	Key() string
}

// NumberColumn renders the 1-based row number within its section.
type NumberColumn struct{}

// LabelColumn renders the item's localized label, linked to the local
// page when a sitelink exists.
type LabelColumn struct{}

// LabelLangColumn renders the item's label in a specific language,
// falling back to the working language.
type LabelLangColumn struct {
	Language string // lowercase language code
}

// DescriptionColumn renders the item's description in the working
// language.
type DescriptionColumn struct{}

// ItemColumn renders the item itself as an entity link.
type ItemColumn struct{}

// PropertyColumn renders the main values of all claims of a property.
type PropertyColumn struct {
	Property string // uppercase P-id
}

// PropertyQualifierColumn renders claim value and qualifier value
// together, for every qualifier of the given property.
type PropertyQualifierColumn struct {
	Property  string // uppercase P-id of the claim
	Qualifier string // uppercase P-id of the qualifier
}

// PropertyQualifierValueColumn renders the qualifier value of claims
// whose main value is a specific item (the two-hop P/Q/P form).
type PropertyQualifierValueColumn struct {
	Property  string // uppercase P-id of the claim
	Value     string // uppercase Q-id the claim value must match
	Qualifier string // uppercase P-id of the qualifier to render
}

// FieldColumn copies the raw query-result values bound to a variable.
type FieldColumn struct {
	Name string // variable name, case preserved
}

// UnknownColumn is the degrade target for unrecognized specs.
type UnknownColumn struct{}

func (NumberColumn) columnType()                 {}
func (LabelColumn) columnType()                  {}
func (LabelLangColumn) columnType()              {}
func (DescriptionColumn) columnType()            {}
func (ItemColumn) columnType()                   {}
func (PropertyColumn) columnType()               {}
func (PropertyQualifierColumn) columnType()      {}
func (PropertyQualifierValueColumn) columnType() {}
func (FieldColumn) columnType()                  {}
func (UnknownColumn) columnType()                {}

func (NumberColumn) Key() string      { return "number" }
func (LabelColumn) Key() string       { return "label" }
func (c LabelLangColumn) Key() string { return "label_" + c.Language }
func (DescriptionColumn) Key() string { return "desc" }
func (ItemColumn) Key() string        { return "item" }
func (c PropertyColumn) Key() string  { return strings.ToLower(c.Property) }

func (c PropertyQualifierColumn) Key() string {
	return strings.ToLower(c.Property) + "_" + strings.ToLower(c.Qualifier)
}

func (c PropertyQualifierValueColumn) Key() string {
	return strings.ToLower(c.Property) + "_" + strings.ToLower(c.Value) + "_" + strings.ToLower(c.Qualifier)
}

func (c FieldColumn) Key() string  { return strings.ToLower(c.Name) }
func (UnknownColumn) Key() string  { return "unknown" }

var (
	reLabelLang   = regexp.MustCompile(`(?i)^label/(.+)$`)
	reProperty    = regexp.MustCompile(`^[Pp]\d+$`)
	rePropQual    = regexp.MustCompile(`^\s*([Pp]\d+)\s*/\s*([Pp]\d+)\s*$`)
	rePropQualVal = regexp.MustCompile(`^\s*([Pp]\d+)\s*/\s*([Qq]\d+)\s*/\s*([Pp]\d+)\s*$`)
	reFieldRef    = regexp.MustCompile(`^\?(.+)$`)
)

// ResolveColumnType resolves a column key (the part left of any label
// separator) into a typed descriptor. Resolution is first-match-wins:
// literal keywords, label/<lang>, P-id, P/P, P/Q/P, ?field, Unknown.
// Property-like identifiers are normalized to uppercase; field names
// keep their case.
func ResolveColumnType(s string) ColumnType {
	switch strings.ToLower(s) {
	case "number":
		return NumberColumn{}
	case "label":
		return LabelColumn{}
	case "description":
		return DescriptionColumn{}
	case "item":
		return ItemColumn{}
	}
	if m := reLabelLang.FindStringSubmatch(s); m != nil {
		return LabelLangColumn{Language: strings.ToLower(m[1])}
	}
	if reProperty.MatchString(s) {
		return PropertyColumn{Property: strings.ToUpper(s)}
	}
	if m := rePropQual.FindStringSubmatch(s); m != nil {
		return PropertyQualifierColumn{
			Property:  strings.ToUpper(m[1]),
			Qualifier: strings.ToUpper(m[2]),
		}
	}
	if m := rePropQualVal.FindStringSubmatch(s); m != nil {
		return PropertyQualifierValueColumn{
			Property:  strings.ToUpper(m[1]),
			Value:     strings.ToUpper(m[2]),
			Qualifier: strings.ToUpper(m[3]),
		}
	}
	if m := reFieldRef.FindStringSubmatch(s); m != nil {
		return FieldColumn{Name: m[1]}
	}
	return UnknownColumn{}
}

// Column pairs a typed descriptor with its display label. The label is
// derived state: it starts as the spec text (or the explicit override)
// and is re-derived once entity labels are available.
type Column struct {
	Type  ColumnType
	Label string
}

// ParseColumn resolves one comma-list element, optionally of the form
// "key:label". The label part, when present, overrides the derived
// label verbatim.
func ParseColumn(s string) Column {
	if key, label, ok := strings.Cut(s, ":"); ok {
		key, label = strings.TrimSpace(key), strings.TrimSpace(label)
		if key != "" && label != "" {
			return Column{Type: ResolveColumnType(key), Label: label}
		}
	}
	s = strings.TrimSpace(s)
	return Column{Type: ResolveColumnType(s), Label: s}
}

// ParseColumns resolves a comma-separated column list. An empty spec
// yields the single default "item" column.
func ParseColumns(spec string) []Column {
	if strings.TrimSpace(spec) == "" {
		return []Column{ParseColumn("item")}
	}
	parts := strings.Split(spec, ",")
	cols := make([]Column, 0, len(parts))
	for _, p := range parts {
		cols = append(cols, ParseColumn(p))
	}
	return cols
}

// GenerateLabel re-derives the display label for property-based
// columns once entity labels have loaded. The labeler maps an id to
// its localized label, falling back to the raw id. Compound columns
// join their segment labels with "/". Non-property columns keep the
// label they were resolved with.
func (c *Column) GenerateLabel(labeler func(id string) string) {
	switch t := c.Type.(type) {
	case PropertyColumn:
		c.Label = labeler(t.Property)
	case PropertyQualifierColumn:
		c.Label = labeler(t.Property) + "/" + labeler(t.Qualifier)
	case PropertyQualifierValueColumn:
		c.Label = labeler(t.Property) + "/" + labeler(t.Value) + "/" + labeler(t.Qualifier)
	}
}
