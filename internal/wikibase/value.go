package wikibase

// Datatype is a property's declared value datatype. It selects both
// snak interpretation and the sort comparison rule.
type Datatype string

const (
	DatatypeItem         Datatype = "wikibase-item"
	DatatypeCommonsMedia Datatype = "commonsMedia"
	DatatypeExternalID   Datatype = "external-id"
	DatatypeString       Datatype = "string"
	DatatypeQuantity     Datatype = "quantity"
	DatatypeTime         Datatype = "time"
	DatatypeCoordinate   Datatype = "globe-coordinate"
	DatatypeMonolingual  Datatype = "monolingualtext"
	DatatypeURL          Datatype = "url"
)

// DataValue is a sealed interface over the snak value kinds the
// engine consumes. Only the types in this file implement it.
type DataValue interface {
	dataValue()
}

// EntityIDValue references another entity.
type EntityIDValue struct {
	ID string
}

// StringValue is a plain string; its meaning (text, file name,
// external id, URL) follows from the snak's datatype.
type StringValue struct {
	Value string
}

// QuantityValue keeps the amount as its raw signed decimal text.
type QuantityValue struct {
	Amount string // e.g. "+42", "-0.5"
}

// TimeValue is a point in time at a declared precision.
type TimeValue struct {
	Time      string // e.g. "+1952-03-11T00:00:00Z"
	Precision int    // 6 millennium .. 11 day
}

// CoordinateValue is a globe coordinate.
type CoordinateValue struct {
	Lat float64
	Lon float64
}

// MonolingualValue is text in a single declared language.
type MonolingualValue struct {
	Language string
	Text     string
}

func (EntityIDValue) dataValue()    {}
func (StringValue) dataValue()      {}
func (QuantityValue) dataValue()    {}
func (TimeValue) dataValue()        {}
func (CoordinateValue) dataValue()  {}
func (MonolingualValue) dataValue() {}

// Snak is one property-value assertion. Value is nil for the
// "novalue" and "somevalue" snak kinds.
type Snak struct {
	Property string
	Datatype Datatype
	Value    DataValue
}

// Statement is a claim: a main snak plus ordered qualifiers.
type Statement struct {
	Property   string
	MainSnak   Snak
	Qualifiers []Snak
	Rank       string
}

// QualifiersFor returns the qualifiers matching a property id, in
// declaration order (a linear scan; qualifier counts are tiny).
func (s *Statement) QualifiersFor(property string) []Snak {
	var out []Snak
	for _, q := range s.Qualifiers {
		if q.Property == property {
			out = append(out, q)
		}
	}
	return out
}
