package model

import (
	"fmt"
	"regexp"
	"strconv"

	"wdlist/internal/sparql"
	"wdlist/internal/wikibase"
)

// PartFromValue converts a typed query-binding value into its part.
// Entity references are marked localizable; time text passes through
// unreduced because the query carries no precision.
func PartFromValue(v sparql.Value) CellPart {
	switch val := v.(type) {
	case sparql.EntityValue:
		return EntityPart{ID: val.ID, TryLocalize: true}
	case sparql.FileValue:
		return FilePart{Name: val.Name}
	case sparql.URIValue:
		return URIPart{URI: val.URI}
	case sparql.TimeValue:
		return TextPart{Text: val.Time}
	case sparql.LocationValue:
		return LocationPart{Lat: val.Lat, Lon: val.Lon}
	case sparql.LiteralValue:
		return TextPart{Text: val.Text}
	default:
		return TextPart{Text: fmt.Sprintf("%v", v)}
	}
}

// PartFromSnak converts a claim snak into its part. The snak datatype
// decides how string values are interpreted.
func PartFromSnak(snak wikibase.Snak) CellPart {
	if snak.Value == nil {
		return TextPart{Text: "No/unknown value"}
	}
	switch val := snak.Value.(type) {
	case wikibase.EntityIDValue:
		return EntityPart{ID: val.ID, TryLocalize: true}
	case wikibase.StringValue:
		switch snak.Datatype {
		case wikibase.DatatypeCommonsMedia:
			return FilePart{Name: val.Value}
		case wikibase.DatatypeExternalID:
			return ExternalIDPart{Property: snak.Property, ID: val.Value}
		default:
			return TextPart{Text: val.Value}
		}
	case wikibase.QuantityValue:
		return TextPart{Text: val.Amount}
	case wikibase.TimeValue:
		return TimePart{Time: ReduceTime(val)}
	case wikibase.CoordinateValue:
		return LocationPart{Lat: val.Lat, Lon: val.Lon}
	case wikibase.MonolingualValue:
		return TextPart{Text: val.Language + ":" + val.Text}
	default:
		return TextPart{Text: "No/unknown value"}
	}
}

var reTimeParts = regexp.MustCompile(`^\+?(-?\d+)-(\d{1,2})-(\d{1,2})T`)

// ReduceTime renders a time value at its stored precision:
// millennium, century, decade, year, year-month or full date. Values
// whose text does not parse pass through unchanged.
func ReduceTime(v wikibase.TimeValue) string {
	m := reTimeParts.FindStringSubmatch(v.Time)
	if m == nil {
		return v.Time
	}
	year, month, day := m[1], m[2], m[3]
	y, err := strconv.Atoi(year)
	if err != nil {
		return v.Time
	}
	switch v.Precision {
	case 6:
		return fmt.Sprintf("%dth millennium", y/1000+1)
	case 7:
		return fmt.Sprintf("%dth century", y/100+1)
	case 8:
		return fmt.Sprintf("%ds", (y/10)*10)
	case 9:
		return year
	case 10:
		return year + "-" + month
	case 11:
		return year + "-" + month + "-" + day
	default:
		return v.Time
	}
}
