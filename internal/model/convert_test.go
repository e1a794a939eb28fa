package model

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"wdlist/internal/sparql"
	"wdlist/internal/wikibase"
)

func TestPartFromValue(t *testing.T) {
	tests := []struct {
		name string
		in   sparql.Value
		want CellPart
	}{
		{"entity is localizable", sparql.EntityValue{ID: "Q42"}, EntityPart{ID: "Q42", TryLocalize: true}},
		{"file", sparql.FileValue{Name: "Berlin.jpg"}, FilePart{Name: "Berlin.jpg"}},
		{"uri", sparql.URIValue{URI: "https://example.org"}, URIPart{URI: "https://example.org"}},
		{"time keeps raw text", sparql.TimeValue{Time: "1952-03-11T00:00:00Z"}, TextPart{Text: "1952-03-11T00:00:00Z"}},
		{"location", sparql.LocationValue{Lat: 52.5, Lon: 13.4}, LocationPart{Lat: 52.5, Lon: 13.4}},
		{"literal", sparql.LiteralValue{Text: "hello"}, TextPart{Text: "hello"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PartFromValue(tt.in))
		})
	}
}

func TestPartFromSnak(t *testing.T) {
	tests := []struct {
		name string
		in   wikibase.Snak
		want CellPart
	}{
		{
			"novalue snak",
			wikibase.Snak{Property: "P570", Datatype: wikibase.DatatypeTime},
			TextPart{Text: "No/unknown value"},
		},
		{
			"entity id",
			wikibase.Snak{Property: "P31", Value: wikibase.EntityIDValue{ID: "Q5"}},
			EntityPart{ID: "Q5", TryLocalize: true},
		},
		{
			"commons media string",
			wikibase.Snak{Property: "P18", Datatype: wikibase.DatatypeCommonsMedia, Value: wikibase.StringValue{Value: "Berlin.jpg"}},
			FilePart{Name: "Berlin.jpg"},
		},
		{
			"external id string",
			wikibase.Snak{Property: "P214", Datatype: wikibase.DatatypeExternalID, Value: wikibase.StringValue{Value: "113230702"}},
			ExternalIDPart{Property: "P214", ID: "113230702"},
		},
		{
			"plain string",
			wikibase.Snak{Property: "P1448", Datatype: wikibase.DatatypeString, Value: wikibase.StringValue{Value: "official name"}},
			TextPart{Text: "official name"},
		},
		{
			"quantity",
			wikibase.Snak{Property: "P1082", Value: wikibase.QuantityValue{Amount: "+3700000"}},
			TextPart{Text: "+3700000"},
		},
		{
			"time reduces by precision",
			wikibase.Snak{Property: "P569", Value: wikibase.TimeValue{Time: "+1952-03-11T00:00:00Z", Precision: 11}},
			TimePart{Time: "1952-03-11"},
		},
		{
			"coordinate",
			wikibase.Snak{Property: "P625", Value: wikibase.CoordinateValue{Lat: 52.5, Lon: 13.4}},
			LocationPart{Lat: 52.5, Lon: 13.4},
		},
		{
			"monolingual",
			wikibase.Snak{Property: "P1476", Value: wikibase.MonolingualValue{Language: "en", Text: "The Hitchhiker's Guide"}},
			TextPart{Text: "en:The Hitchhiker's Guide"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PartFromSnak(tt.in))
		})
	}
}

func TestReduceTime(t *testing.T) {
	tests := []struct {
		name      string
		time      string
		precision int
		want      string
	}{
		{"millennium", "+1952-03-11T00:00:00Z", 6, "2th millennium"},
		{"century", "+1952-03-11T00:00:00Z", 7, "20th century"},
		{"decade", "+1952-03-11T00:00:00Z", 8, "1950s"},
		{"year", "+1952-03-11T00:00:00Z", 9, "1952"},
		{"month", "+1952-03-11T00:00:00Z", 10, "1952-03"},
		{"day", "+1952-03-11T00:00:00Z", 11, "1952-03-11"},
		{"unknown precision passes through", "+1952-03-11T00:00:00Z", 14, "+1952-03-11T00:00:00Z"},
		{"unparseable passes through", "sometime", 11, "sometime"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ReduceTime(wikibase.TimeValue{Time: tt.time, Precision: tt.precision})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWalkAndTransformParts(t *testing.T) {
	parts := []CellPart{
		TextPart{Text: "a"},
		ChainPart{Parts: []CellPart{
			EntityPart{ID: "Q1", TryLocalize: true},
			TextPart{Text: "b"},
		}},
	}

	var visited []CellPart
	WalkParts(parts, func(p CellPart) { visited = append(visited, p) })
	assert.Len(t, visited, 3, "walk descends into chains")

	out := TransformParts(parts, func(p CellPart) CellPart {
		if ep, ok := p.(EntityPart); ok {
			return LocalLinkPart{Page: ep.ID, Label: ep.ID}
		}
		return p
	})

	chain, ok := out[1].(ChainPart)
	assert.True(t, ok)
	assert.Equal(t, LocalLinkPart{Page: "Q1", Label: "Q1"}, chain.Parts[0])

	// The input is untouched.
	original := parts[1].(ChainPart)
	assert.Equal(t, EntityPart{ID: "Q1", TryLocalize: true}, original.Parts[0])
}
