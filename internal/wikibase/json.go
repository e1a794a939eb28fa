package wikibase

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Wire shapes of the wbgetentities response. Only the fields the
// engine consumes are decoded; everything else is dropped.

type rawTerm struct {
	Language string `json:"language"`
	Value    string `json:"value"`
}

type rawSitelink struct {
	Site  string `json:"site"`
	Title string `json:"title"`
}

type rawDataValue struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

type rawSnak struct {
	SnakType  string        `json:"snaktype"`
	Property  string        `json:"property"`
	Datatype  string        `json:"datatype"`
	DataValue *rawDataValue `json:"datavalue"`
}

type rawStatement struct {
	MainSnak        rawSnak              `json:"mainsnak"`
	Qualifiers      map[string][]rawSnak `json:"qualifiers"`
	QualifiersOrder []string             `json:"qualifiers-order"`
	Rank            string               `json:"rank"`
}

type rawEntity struct {
	ID           string                    `json:"id"`
	Type         string                    `json:"type"`
	Datatype     string                    `json:"datatype"`
	Labels       map[string]rawTerm        `json:"labels"`
	Descriptions map[string]rawTerm        `json:"descriptions"`
	Sitelinks    map[string]rawSitelink    `json:"sitelinks"`
	Claims       map[string][]rawStatement `json:"claims"`
}

type rawEntityEnvelope struct {
	Entities map[string]json.RawMessage `json:"entities"`
	Error    *struct {
		Code string `json:"code"`
		Info string `json:"info"`
	} `json:"error"`
}

// ParseEntity decodes one entity document.
func ParseEntity(data []byte) (*Entity, error) {
	var raw rawEntity
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode entity: %w", err)
	}
	if raw.ID == "" {
		return nil, fmt.Errorf("decode entity: missing id")
	}
	e := &Entity{
		ID:           raw.ID,
		Type:         raw.Type,
		Datatype:     Datatype(raw.Datatype),
		Labels:       termMap(raw.Labels),
		Descriptions: termMap(raw.Descriptions),
		Sitelinks:    make(map[string]string, len(raw.Sitelinks)),
	}
	for site, sl := range raw.Sitelinks {
		e.Sitelinks[site] = sl.Title
	}

	// Claims arrive keyed by property; flatten in sorted property
	// order so the statement sequence is deterministic.
	props := make([]string, 0, len(raw.Claims))
	for p := range raw.Claims {
		props = append(props, p)
	}
	sort.Strings(props)
	for _, p := range props {
		for _, rs := range raw.Claims[p] {
			st, err := decodeStatement(p, rs)
			if err != nil {
				return nil, fmt.Errorf("entity %s, property %s: %w", raw.ID, p, err)
			}
			e.Statements = append(e.Statements, st)
		}
	}
	return e, nil
}

// ParseEntityResponse decodes a wbgetentities envelope into entities
// keyed by id. Entities the API marks with a "missing" member are
// silently dropped.
func ParseEntityResponse(data []byte) (map[string]*Entity, error) {
	var env rawEntityEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode entity response: %w", err)
	}
	if env.Error != nil {
		return nil, fmt.Errorf("entity API error %s: %s", env.Error.Code, env.Error.Info)
	}
	out := make(map[string]*Entity, len(env.Entities))
	for id, doc := range env.Entities {
		var probe struct {
			Missing *string `json:"missing"`
		}
		if err := json.Unmarshal(doc, &probe); err == nil && probe.Missing != nil {
			continue
		}
		e, err := ParseEntity(doc)
		if err != nil {
			continue // malformed entry
		}
		out[id] = e
	}
	return out, nil
}

func termMap(raw map[string]rawTerm) map[string]string {
	out := make(map[string]string, len(raw))
	for lang, t := range raw {
		out[lang] = t.Value
	}
	return out
}

func decodeStatement(property string, raw rawStatement) (Statement, error) {
	main, err := decodeSnak(raw.MainSnak)
	if err != nil {
		return Statement{}, err
	}
	st := Statement{
		Property: property,
		MainSnak: main,
		Rank:     raw.Rank,
	}
	// qualifiers-order preserves the document's qualifier sequence;
	// the qualifiers map alone would iterate nondeterministically.
	order := raw.QualifiersOrder
	if len(order) == 0 {
		for p := range raw.Qualifiers {
			order = append(order, p)
		}
		sort.Strings(order)
	}
	for _, p := range order {
		for _, rq := range raw.Qualifiers[p] {
			q, err := decodeSnak(rq)
			if err != nil {
				return Statement{}, err
			}
			st.Qualifiers = append(st.Qualifiers, q)
		}
	}
	return st, nil
}

func decodeSnak(raw rawSnak) (Snak, error) {
	s := Snak{
		Property: raw.Property,
		Datatype: Datatype(raw.Datatype),
	}
	if raw.SnakType != "value" || raw.DataValue == nil {
		return s, nil // novalue / somevalue
	}
	v, err := decodeDataValue(*raw.DataValue)
	if err != nil {
		return Snak{}, err
	}
	s.Value = v
	return s, nil
}

func decodeDataValue(raw rawDataValue) (DataValue, error) {
	switch raw.Type {
	case "wikibase-entityid":
		var v struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(raw.Value, &v); err != nil {
			return nil, fmt.Errorf("decode entity-id value: %w", err)
		}
		return EntityIDValue{ID: v.ID}, nil
	case "string":
		var s string
		if err := json.Unmarshal(raw.Value, &s); err != nil {
			return nil, fmt.Errorf("decode string value: %w", err)
		}
		return StringValue{Value: s}, nil
	case "quantity":
		var v struct {
			Amount string `json:"amount"`
		}
		if err := json.Unmarshal(raw.Value, &v); err != nil {
			return nil, fmt.Errorf("decode quantity value: %w", err)
		}
		return QuantityValue{Amount: v.Amount}, nil
	case "time":
		var v struct {
			Time      string `json:"time"`
			Precision int    `json:"precision"`
		}
		if err := json.Unmarshal(raw.Value, &v); err != nil {
			return nil, fmt.Errorf("decode time value: %w", err)
		}
		return TimeValue{Time: v.Time, Precision: v.Precision}, nil
	case "globecoordinate":
		var v struct {
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		}
		if err := json.Unmarshal(raw.Value, &v); err != nil {
			return nil, fmt.Errorf("decode coordinate value: %w", err)
		}
		return CoordinateValue{Lat: v.Latitude, Lon: v.Longitude}, nil
	case "monolingualtext":
		var v struct {
			Language string `json:"language"`
			Text     string `json:"text"`
		}
		if err := json.Unmarshal(raw.Value, &v); err != nil {
			return nil, fmt.Errorf("decode monolingual value: %w", err)
		}
		return MonolingualValue{Language: v.Language, Text: v.Text}, nil
	default:
		return nil, fmt.Errorf("unknown datavalue type %q", raw.Type)
	}
}
