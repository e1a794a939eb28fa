package render_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wdlist/internal/list"
	"wdlist/internal/listspec"
	"wdlist/internal/render"
	"wdlist/internal/sparql"
	"wdlist/internal/testutil"
	"wdlist/internal/wikibase"
)

type renderFixture struct {
	fetcher *testutil.FixtureFetcher
	site    *testutil.FixtureSite
	params  map[string]string
	wiki    string
	shadow  []string
}

func newRenderFixture() *renderFixture {
	return &renderFixture{
		fetcher: testutil.NewFixtureFetcher(),
		site:    testutil.NewFixtureSite(),
		params:  map[string]string{},
		wiki:    "enwiki",
	}
}

func (f *renderFixture) run(t *testing.T, ids ...string) *list.List {
	t.Helper()
	results := &sparql.ResultSet{Variables: []string{"item"}}
	for _, id := range ids {
		results.Bindings = append(results.Bindings, sparql.Binding{"item": sparql.EntityValue{ID: id}})
	}
	l := list.New(list.Options{
		Wiki:             f.wiki,
		Language:         "en",
		Params:           listspec.ParamsFromValues(f.params),
		Store:            wikibase.NewStore(f.fetcher),
		Site:             f.site,
		ShadowCheckWikis: f.shadow,
	})
	require.NoError(t, l.Run(context.Background(), results))
	return l
}

func TestWikitextTable(t *testing.T) {
	f := newRenderFixture()
	f.fetcher.Add(testutil.Item("Q64").Label("en", "Berlin").Sitelink("enwiki", "Berlin").Build())
	f.fetcher.Add(testutil.Item("Q2").Label("en", "Ruritania").Build())
	f.params["columns"] = "number,label"

	out, err := render.Wikitext{}.Render(f.run(t, "Q64", "Q2"))
	require.NoError(t, err)

	want := strings.Join([]string{
		"{| class='wikitable sortable' style='width:100%'",
		"! number",
		"! label",
		"|-",
		"| style='text-align:right'| 1",
		"| [[Berlin]]",
		"|-",
		"| style='text-align:right'| 2",
		"| ''[[:d:Q2|Ruritania]]''",
		"|}",
		"",
	}, "\n")
	assert.Equal(t, want, out)
}

func TestWikitextRowTemplate(t *testing.T) {
	f := newRenderFixture()
	f.fetcher.Add(testutil.Item("Q64").Label("en", "Berlin").Sitelink("enwiki", "Berlin").Build())
	f.params["columns"] = "label"
	f.params["row_template"] = "City row"

	out, err := render.Wikitext{}.Render(f.run(t, "Q64"))
	require.NoError(t, err)

	assert.Contains(t, out, "{{City row\n| label = [[Berlin]]\n}}")
	assert.Contains(t, out, "! label\n{{City row",
		"a row-template run starts its first row without a separator")
}

func TestWikitextHeaderTemplate(t *testing.T) {
	f := newRenderFixture()
	f.fetcher.Add(testutil.Item("Q64").Label("en", "Berlin").Sitelink("enwiki", "Berlin").Build())
	f.params["columns"] = "label"
	f.params["header_template"] = "City header"

	out, err := render.Wikitext{}.Render(f.run(t, "Q64"))
	require.NoError(t, err)

	assert.Contains(t, out, "{{City header}}\n|-\n| [[Berlin]]")
	assert.NotContains(t, out, "wikitable", "header template replaces the built-in header")
}

func TestWikitextSkipTableKeepsHeaderTemplate(t *testing.T) {
	f := newRenderFixture()
	f.fetcher.Add(testutil.Item("Q64").Label("en", "Berlin").Sitelink("enwiki", "Berlin").Build())
	f.params["columns"] = "label"
	f.params["header_template"] = "City header"
	f.params["skip_table"] = "1"

	out, err := render.Wikitext{}.Render(f.run(t, "Q64"))
	require.NoError(t, err)

	assert.Contains(t, out, "{{City header}}\n| [[Berlin]]")
	assert.NotContains(t, out, "{|")
	assert.NotContains(t, out, "|}")
	assert.NotContains(t, out, "|-")
}

func TestWikitextSkipTable(t *testing.T) {
	f := newRenderFixture()
	f.fetcher.Add(testutil.Item("Q64").Label("en", "Berlin").Sitelink("enwiki", "Berlin").Build())
	f.fetcher.Add(testutil.Item("Q90").Label("en", "Paris").Sitelink("enwiki", "Paris").Build())
	f.params["columns"] = "label"
	f.params["row_template"] = "City row"
	f.params["skip_table"] = "1"

	out, err := render.Wikitext{}.Render(f.run(t, "Q64", "Q90"))
	require.NoError(t, err)

	assert.NotContains(t, out, "{|")
	assert.NotContains(t, out, "|}")
	assert.NotContains(t, out, "|-")
	assert.Contains(t, out, "{{City row\n| label = [[Berlin]]\n}}\n{{City row\n| label = [[Paris]]\n}}")
}

func TestWikitextSections(t *testing.T) {
	f := newRenderFixture()
	f.fetcher.Add(testutil.Property("P19", wikibase.DatatypeItem).Build())
	f.fetcher.Add(testutil.Item("Q64").Label("en", "Berlin").Build())
	f.fetcher.Add(testutil.Item("Q90").Label("en", "Paris").Build())
	for i, place := range []string{"Q64", "Q64", "Q90", "Q90"} {
		id := []string{"Q101", "Q102", "Q103", "Q104"}[i]
		f.fetcher.Add(testutil.Item(id).Label("en", "Person "+id).
			Claim("P19", wikibase.DatatypeItem, wikibase.EntityIDValue{ID: place}).
			Build())
	}
	f.params["columns"] = "label"
	f.params["section"] = "P19"

	out, err := render.Wikitext{}.Render(f.run(t, "Q101", "Q102", "Q103", "Q104"))
	require.NoError(t, err)

	assert.Contains(t, out, "== Berlin ==\n")
	assert.Contains(t, out, "== Paris ==\n")
	assert.Less(t, strings.Index(out, "== Berlin =="), strings.Index(out, "== Paris =="),
		"sections render in ascending label order")
}

func TestWikitextMiscSectionRendersLastWithHeading(t *testing.T) {
	f := newRenderFixture()
	f.fetcher.Add(testutil.Property("P19", wikibase.DatatypeItem).Build())
	f.fetcher.Add(testutil.Item("Q64").Label("en", "Berlin").Build())
	f.fetcher.Add(testutil.Item("Q90").Label("en", "Paris").Build())
	for i, place := range []string{"Q64", "Q64", "Q90"} {
		id := []string{"Q101", "Q102", "Q103"}[i]
		f.fetcher.Add(testutil.Item(id).Label("en", "Person "+id).
			Claim("P19", wikibase.DatatypeItem, wikibase.EntityIDValue{ID: place}).
			Build())
	}
	f.params["columns"] = "label"
	f.params["section"] = "P19"

	out, err := render.Wikitext{}.Render(f.run(t, "Q101", "Q102", "Q103"))
	require.NoError(t, err)

	assert.Contains(t, out, "== Misc ==\n")
	assert.NotContains(t, out, "== Paris ==", "undersized groups collapse into the catch-all")
	assert.Less(t, strings.Index(out, "== Berlin =="), strings.Index(out, "== Misc =="),
		"the catch-all section renders last")
}

func TestWikitextItemNumberSummary(t *testing.T) {
	f := newRenderFixture()
	f.fetcher.Add(testutil.Item("Q64").Label("en", "Berlin").Sitelink("enwiki", "Berlin").Build())
	f.fetcher.Add(testutil.Item("Q90").Label("en", "Paris").Sitelink("enwiki", "Paris").Build())
	f.params["columns"] = "label"
	f.params["summary"] = "itemnumber"

	out, err := render.Wikitext{}.Render(f.run(t, "Q64", "Q90"))
	require.NoError(t, err)

	assert.Contains(t, out, "\n----\n&sum; 2 items.\n")
}

func TestWikitextShadowFileDisclaimer(t *testing.T) {
	f := newRenderFixture()
	f.shadow = []string{"enwiki"}
	f.fetcher.Add(testutil.Item("Q1").
		Claim("P18", wikibase.DatatypeCommonsMedia, wikibase.StringValue{Value: "Shadowed.jpg"}).
		Build())
	f.params["columns"] = "P18"

	out, err := render.Wikitext{}.Render(f.run(t, "Q1"))
	require.NoError(t, err)

	assert.Contains(t, out, "shadow a file on [[:commons:|Commons]]")
	assert.Contains(t, out, "# [[:File:Shadowed.jpg|]]")
}

func TestWikitextZeroPartCellRendersEmpty(t *testing.T) {
	f := newRenderFixture()
	f.fetcher.Add(testutil.Item("Q1").Build())
	f.params["columns"] = "description"

	out, err := render.Wikitext{}.Render(f.run(t, "Q1"))
	require.NoError(t, err)

	assert.Contains(t, out, "|-\n| \n|}", "empty cell renders as empty string")
}

func TestWikitextLinkModes(t *testing.T) {
	setup := func(links string) *list.List {
		f := newRenderFixture()
		f.fetcher.Add(testutil.Item("Q2").Label("en", "Ruritania").Build())
		f.site.AddPage("Ruritania")
		f.params["columns"] = "item"
		if links != "" {
			f.params["links"] = links
		}
		return f.run(t, "Q2")
	}

	t.Run("text mode renders plain label", func(t *testing.T) {
		out, err := render.Wikitext{}.Render(setup("text"))
		require.NoError(t, err)
		assert.Contains(t, out, "| Ruritania\n")
		assert.NotContains(t, out, "[[")
	})
	t.Run("red mode links existing page to wikidata", func(t *testing.T) {
		out, err := render.Wikitext{}.Render(setup("red"))
		require.NoError(t, err)
		assert.Contains(t, out, "''[[:d:Q2|Ruritania]]''")
	})
	t.Run("reasonator mode", func(t *testing.T) {
		out, err := render.Wikitext{}.Render(setup("reasonator"))
		require.NoError(t, err)
		assert.Contains(t, out, "[https://reasonator.toolforge.org/?q=Q2 Ruritania]")
	})
}

func TestWikitextUnlabeledEntityRendersIDLink(t *testing.T) {
	for _, links := range []string{"", "text", "red", "reasonator"} {
		name := links
		if name == "" {
			name = "default"
		}
		t.Run(name, func(t *testing.T) {
			f := newRenderFixture()
			f.fetcher.Add(testutil.Item("Q2").Build())
			f.params["columns"] = "item"
			if links != "" {
				f.params["links"] = links
			}

			out, err := render.Wikitext{}.Render(f.run(t, "Q2"))
			require.NoError(t, err)
			assert.Contains(t, out, "''[[:d:Q2|Q2]]''")
			assert.NotContains(t, out, "[[Q2]]")
		})
	}
}

func TestWikitextFileAndCoordinateParts(t *testing.T) {
	f := newRenderFixture()
	f.fetcher.Add(testutil.Item("Q1").
		Claim("P18", wikibase.DatatypeCommonsMedia, wikibase.StringValue{Value: "Berlin.jpg"}).
		Claim("P625", wikibase.DatatypeCoordinate, wikibase.CoordinateValue{Lat: 52.5, Lon: 13.4}).
		Build())
	f.params["columns"] = "P18,P625"
	f.params["thumb"] = "90"

	out, err := render.Wikitext{}.Render(f.run(t, "Q1"))
	require.NoError(t, err)

	assert.Contains(t, out, "[[File:Berlin.jpg|thumb|90px|]]")
	assert.Contains(t, out, "{{Coord|52.5|13.4|display=inline}}")
}
