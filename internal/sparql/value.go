package sparql

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// Value is a sealed interface over the typed query-binding values.
// Only IRI-classified and literal-classified variants in this package
// implement it. Values are immutable once parsed.
type Value interface {
	sparqlValue()
}

// EntityValue is an IRI under the entity path template, reduced to the
// bare entity id.
type EntityValue struct {
	ID string // e.g. "Q42"
}

// FileValue is an IRI under the shared media file path template,
// reduced to the percent-decoded file name with spaces.
type FileValue struct {
	Name string
}

// URIValue is any other IRI.
type URIValue struct {
	URI string
}

// TimeValue is a literal with the xsd:dateTime datatype, kept as raw
// text.
type TimeValue struct {
	Time string
}

// LocationValue is a literal with the geosparql WKT datatype, parsed
// from point text "lon lat" and stored as (lat, lon).
type LocationValue struct {
	Lat float64
	Lon float64
}

// LiteralValue is an untyped literal.
type LiteralValue struct {
	Text string
}

func (EntityValue) sparqlValue()   {}
func (FileValue) sparqlValue()     {}
func (URIValue) sparqlValue()      {}
func (TimeValue) sparqlValue()     {}
func (LocationValue) sparqlValue() {}
func (LiteralValue) sparqlValue()  {}

const (
	datatypeWKT      = "http://www.opengis.net/ont/geosparql#wktLiteral"
	datatypeDateTime = "http://www.w3.org/2001/XMLSchema#dateTime"
)

var (
	reEntityIRI = regexp.MustCompile(`^https?://www\.wikidata\.org/entity/([A-Z]\d+)$`)
	reFileIRI   = regexp.MustCompile(`^https?://commons\.wikimedia\.org/wiki/Special:FilePath/(.+?)$`)
	rePointWKT  = regexp.MustCompile(`^Point\((-?[0-9][0-9.]*) (-?[0-9][0-9.]*)\)$`)
)

// classifyValue turns one raw bound value into its Value variant.
// Returns an error for every combination the classification table does
// not cover: unknown term types, typed literals other than WKT points
// and xsd:dateTime, and malformed point text.
func classifyValue(raw rawValue) (Value, error) {
	switch raw.Type {
	case "uri":
		if m := reEntityIRI.FindStringSubmatch(raw.Value); m != nil {
			return EntityValue{ID: m[1]}, nil
		}
		if m := reFileIRI.FindStringSubmatch(raw.Value); m != nil {
			name, err := url.PathUnescape(m[1])
			if err != nil {
				return nil, fmt.Errorf("undecodable file path %q: %w", m[1], err)
			}
			return FileValue{Name: strings.ReplaceAll(name, "_", " ")}, nil
		}
		return URIValue{URI: raw.Value}, nil

	case "literal":
		switch raw.Datatype {
		case datatypeWKT:
			m := rePointWKT.FindStringSubmatch(raw.Value)
			if m == nil {
				return nil, fmt.Errorf("unsupported WKT literal %q", raw.Value)
			}
			// Point text is "lon lat"; stored as (lat, lon).
			lon, err := strconv.ParseFloat(m[1], 64)
			if err != nil {
				return nil, fmt.Errorf("bad longitude in %q: %w", raw.Value, err)
			}
			lat, err := strconv.ParseFloat(m[2], 64)
			if err != nil {
				return nil, fmt.Errorf("bad latitude in %q: %w", raw.Value, err)
			}
			return LocationValue{Lat: lat, Lon: lon}, nil
		case datatypeDateTime:
			return TimeValue{Time: raw.Value}, nil
		case "":
			return LiteralValue{Text: raw.Value}, nil
		default:
			return nil, fmt.Errorf("unsupported literal datatype %q", raw.Datatype)
		}

	default:
		return nil, fmt.Errorf("unsupported term type %q", raw.Type)
	}
}
