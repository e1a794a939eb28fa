package store

import (
	"encoding/json"
	"fmt"

	"wdlist/internal/wikibase"
)

// The cache envelope tags each snak value with its kind so the sealed
// value types survive a JSON round trip.

const (
	valueKindEntity      = "entity"
	valueKindString      = "string"
	valueKindQuantity    = "quantity"
	valueKindTime        = "time"
	valueKindCoordinate  = "coordinate"
	valueKindMonolingual = "monolingual"
)

type cachedValue struct {
	Kind      string  `json:"kind"`
	ID        string  `json:"id,omitempty"`
	Value     string  `json:"value,omitempty"`
	Amount    string  `json:"amount,omitempty"`
	Time      string  `json:"time,omitempty"`
	Precision int     `json:"precision,omitempty"`
	Lat       float64 `json:"lat,omitempty"`
	Lon       float64 `json:"lon,omitempty"`
	Language  string  `json:"language,omitempty"`
	Text      string  `json:"text,omitempty"`
}

type cachedSnak struct {
	Property string       `json:"property"`
	Datatype string       `json:"datatype,omitempty"`
	Value    *cachedValue `json:"value,omitempty"`
}

type cachedStatement struct {
	Property   string       `json:"property"`
	MainSnak   cachedSnak   `json:"mainsnak"`
	Qualifiers []cachedSnak `json:"qualifiers,omitempty"`
	Rank       string       `json:"rank,omitempty"`
}

type cachedEntity struct {
	ID           string            `json:"id"`
	Type         string            `json:"type,omitempty"`
	Datatype     string            `json:"datatype,omitempty"`
	Labels       map[string]string `json:"labels,omitempty"`
	Descriptions map[string]string `json:"descriptions,omitempty"`
	Sitelinks    map[string]string `json:"sitelinks,omitempty"`
	Statements   []cachedStatement `json:"statements,omitempty"`
}

func encodeEntity(e *wikibase.Entity) ([]byte, error) {
	ce := cachedEntity{
		ID:           e.ID,
		Type:         e.Type,
		Datatype:     string(e.Datatype),
		Labels:       e.Labels,
		Descriptions: e.Descriptions,
		Sitelinks:    e.Sitelinks,
	}
	for _, st := range e.Statements {
		cs := cachedStatement{
			Property: st.Property,
			MainSnak: encodeSnak(st.MainSnak),
			Rank:     st.Rank,
		}
		for _, q := range st.Qualifiers {
			cs.Qualifiers = append(cs.Qualifiers, encodeSnak(q))
		}
		ce.Statements = append(ce.Statements, cs)
	}
	return json.Marshal(ce)
}

func encodeSnak(s wikibase.Snak) cachedSnak {
	return cachedSnak{
		Property: s.Property,
		Datatype: string(s.Datatype),
		Value:    encodeValue(s.Value),
	}
}

func encodeValue(v wikibase.DataValue) *cachedValue {
	switch t := v.(type) {
	case nil:
		return nil
	case wikibase.EntityIDValue:
		return &cachedValue{Kind: valueKindEntity, ID: t.ID}
	case wikibase.StringValue:
		return &cachedValue{Kind: valueKindString, Value: t.Value}
	case wikibase.QuantityValue:
		return &cachedValue{Kind: valueKindQuantity, Amount: t.Amount}
	case wikibase.TimeValue:
		return &cachedValue{Kind: valueKindTime, Time: t.Time, Precision: t.Precision}
	case wikibase.CoordinateValue:
		return &cachedValue{Kind: valueKindCoordinate, Lat: t.Lat, Lon: t.Lon}
	case wikibase.MonolingualValue:
		return &cachedValue{Kind: valueKindMonolingual, Language: t.Language, Text: t.Text}
	default:
		return nil
	}
}

func decodeEntity(data []byte) (*wikibase.Entity, error) {
	var ce cachedEntity
	if err := json.Unmarshal(data, &ce); err != nil {
		return nil, fmt.Errorf("decode cached entity: %w", err)
	}
	e := &wikibase.Entity{
		ID:           ce.ID,
		Type:         ce.Type,
		Datatype:     wikibase.Datatype(ce.Datatype),
		Labels:       ce.Labels,
		Descriptions: ce.Descriptions,
		Sitelinks:    ce.Sitelinks,
	}
	for _, cs := range ce.Statements {
		st := wikibase.Statement{
			Property: cs.Property,
			MainSnak: decodeSnak(cs.MainSnak),
			Rank:     cs.Rank,
		}
		for _, q := range cs.Qualifiers {
			st.Qualifiers = append(st.Qualifiers, decodeSnak(q))
		}
		e.Statements = append(e.Statements, st)
	}
	return e, nil
}

func decodeSnak(cs cachedSnak) wikibase.Snak {
	return wikibase.Snak{
		Property: cs.Property,
		Datatype: wikibase.Datatype(cs.Datatype),
		Value:    decodeValue(cs.Value),
	}
}

func decodeValue(cv *cachedValue) wikibase.DataValue {
	if cv == nil {
		return nil
	}
	switch cv.Kind {
	case valueKindEntity:
		return wikibase.EntityIDValue{ID: cv.ID}
	case valueKindString:
		return wikibase.StringValue{Value: cv.Value}
	case valueKindQuantity:
		return wikibase.QuantityValue{Amount: cv.Amount}
	case valueKindTime:
		return wikibase.TimeValue{Time: cv.Time, Precision: cv.Precision}
	case valueKindCoordinate:
		return wikibase.CoordinateValue{Lat: cv.Lat, Lon: cv.Lon}
	case valueKindMonolingual:
		return wikibase.MonolingualValue{Language: cv.Language, Text: cv.Text}
	default:
		return nil
	}
}
