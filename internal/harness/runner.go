package harness

import (
	"context"
	"fmt"
	"os"
	"strings"

	"wdlist/internal/list"
	"wdlist/internal/listspec"
	"wdlist/internal/render"
	"wdlist/internal/sparql"
	"wdlist/internal/testutil"
	"wdlist/internal/wikibase"
)

// Run executes a scenario end to end and returns the rendered page
// body.
func Run(ctx context.Context, s *Scenario) (string, error) {
	raw, err := os.ReadFile(s.SparqlFile)
	if err != nil {
		return "", fmt.Errorf("read sparql fixture: %w", err)
	}
	results, err := sparql.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse sparql fixture: %w", err)
	}

	fetcher := testutil.NewFixtureFetcher()
	for _, ef := range s.Entities {
		entity, err := buildEntity(ef)
		if err != nil {
			return "", fmt.Errorf("scenario %s: %w", s.Name, err)
		}
		fetcher.Add(entity)
	}

	site := testutil.NewFixtureSite()
	for _, title := range s.Pages {
		site.AddPage(title)
	}
	for _, title := range s.SharedImages {
		site.AddSharedImage(title)
	}

	l := list.New(list.Options{
		Wiki:             s.Wiki,
		Language:         s.Language,
		Params:           listspec.ParamsFromValues(s.Params),
		Store:            wikibase.NewStore(fetcher),
		Site:             site,
		ShadowCheckWikis: s.ShadowCheckWikis,
	})
	if err := l.Run(ctx, results); err != nil {
		return "", fmt.Errorf("scenario %s: %w", s.Name, err)
	}

	var renderer render.Renderer = render.Wikitext{}
	if s.Format == "tabbed" {
		renderer = render.TabbedData{}
	}
	out, err := renderer.Render(l)
	if err != nil {
		return "", fmt.Errorf("scenario %s: render: %w", s.Name, err)
	}
	return out, nil
}

func buildEntity(ef EntityFixture) (*wikibase.Entity, error) {
	var b *testutil.EntityBuilder
	if ef.Type == "property" {
		b = testutil.Property(ef.ID, wikibase.Datatype(ef.Datatype))
	} else {
		b = testutil.Item(ef.ID)
	}
	for lang, label := range ef.Labels {
		b.Label(lang, label)
	}
	for lang, desc := range ef.Descriptions {
		b.Description(lang, desc)
	}
	for site, title := range ef.Sitelinks {
		b.Sitelink(site, title)
	}
	for _, cf := range ef.Claims {
		value, err := buildValue(cf.Value)
		if err != nil {
			return nil, fmt.Errorf("entity %s claim %s: %w", ef.ID, cf.Property, err)
		}
		datatype := wikibase.Datatype(cf.Datatype)
		if len(cf.Qualifiers) == 0 {
			b.Claim(cf.Property, datatype, value)
			continue
		}
		qualifiers := make([]wikibase.Snak, 0, len(cf.Qualifiers))
		for _, qf := range cf.Qualifiers {
			qv, err := buildValue(qf.Value)
			if err != nil {
				return nil, fmt.Errorf("entity %s qualifier %s: %w", ef.ID, qf.Property, err)
			}
			qualifiers = append(qualifiers, wikibase.Snak{
				Property: qf.Property,
				Datatype: wikibase.Datatype(qf.Datatype),
				Value:    qv,
			})
		}
		b.QualifiedClaim(cf.Property, datatype, value, qualifiers...)
	}
	return b.Build(), nil
}

func buildValue(vf ValueFixture) (wikibase.DataValue, error) {
	switch {
	case vf.Entity != "":
		return wikibase.EntityIDValue{ID: vf.Entity}, nil
	case vf.String != "":
		return wikibase.StringValue{Value: vf.String}, nil
	case vf.Amount != "":
		return wikibase.QuantityValue{Amount: vf.Amount}, nil
	case vf.Time != "":
		precision := vf.Precision
		if precision == 0 {
			precision = 11
		}
		return wikibase.TimeValue{Time: vf.Time, Precision: precision}, nil
	case len(vf.Coordinate) == 2:
		return wikibase.CoordinateValue{Lat: vf.Coordinate[0], Lon: vf.Coordinate[1]}, nil
	case vf.Monolingual != "":
		lang, text, ok := strings.Cut(vf.Monolingual, ":")
		if !ok {
			return nil, fmt.Errorf("monolingual value %q: want lang:text", vf.Monolingual)
		}
		return wikibase.MonolingualValue{Language: lang, Text: text}, nil
	default:
		return nil, fmt.Errorf("empty value fixture")
	}
}
