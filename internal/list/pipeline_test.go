package list_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wdlist/internal/list"
	"wdlist/internal/listspec"
	"wdlist/internal/model"
	"wdlist/internal/sparql"
	"wdlist/internal/testutil"
	"wdlist/internal/wikibase"
)

type runFixture struct {
	fetcher *testutil.FixtureFetcher
	site    *testutil.FixtureSite
	params  map[string]string
	wiki    string
	shadow  []string
}

func newRunFixture() *runFixture {
	return &runFixture{
		fetcher: testutil.NewFixtureFetcher(),
		site:    testutil.NewFixtureSite(),
		params:  map[string]string{},
		wiki:    "enwiki",
	}
}

func (f *runFixture) run(t *testing.T, results *sparql.ResultSet) *list.List {
	t.Helper()
	l := f.newList()
	require.NoError(t, l.Run(context.Background(), results))
	return l
}

func (f *runFixture) newList() *list.List {
	return list.New(list.Options{
		Wiki:             f.wiki,
		Language:         "en",
		Params:           listspec.ParamsFromValues(f.params),
		Store:            wikibase.NewStore(f.fetcher),
		Site:             f.site,
		ShadowCheckWikis: f.shadow,
	})
}

func itemResults(ids ...string) *sparql.ResultSet {
	rs := &sparql.ResultSet{Variables: []string{"item"}}
	for _, id := range ids {
		rs.Bindings = append(rs.Bindings, sparql.Binding{"item": sparql.EntityValue{ID: id}})
	}
	return rs
}

func cellParts(l *list.List, row, col int) []model.CellPart {
	return l.Rows()[row].Cells[col].Parts
}

func TestRunWithoutItemsFails(t *testing.T) {
	f := newRunFixture()
	err := f.newList().Run(context.Background(), &sparql.ResultSet{Variables: []string{"item"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no items to show")
}

func TestLocalizeItemLinks(t *testing.T) {
	f := newRunFixture()
	f.fetcher.Add(testutil.Item("Q64").Label("en", "Berlin City").Sitelink("enwiki", "Berlin").Build())
	f.fetcher.Add(testutil.Item("Q2").Label("en", "Ruritania").Build())
	f.params["columns"] = "item"

	l := f.run(t, itemResults("Q64", "Q2"))

	require.Len(t, l.Rows(), 2)
	assert.Equal(t, []model.CellPart{
		model.LocalLinkPart{Page: "Berlin", Label: "Berlin City"},
	}, cellParts(l, 0, 0), "sitelinked entities become local links")
	assert.Equal(t, []model.CellPart{
		model.EntityPart{ID: "Q2", TryLocalize: true},
	}, cellParts(l, 1, 0), "entities without a sitelink stay entity references")
}

func TestRedlinksOnlyFilter(t *testing.T) {
	f := newRunFixture()
	f.fetcher.Add(testutil.Item("Q64").Label("en", "Berlin").Sitelink("enwiki", "Berlin").Build())
	f.fetcher.Add(testutil.Item("Q2").Label("en", "Ruritania").Build())
	f.params["columns"] = "item"
	f.params["links"] = "red_only"

	l := f.run(t, itemResults("Q64", "Q2"))

	require.Len(t, l.Rows(), 1, "rows with a local article are dropped")
	assert.Equal(t, "Q2", l.Rows()[0].EntityID)
}

func TestRedlinksCacheWarmsPageLookups(t *testing.T) {
	f := newRunFixture()
	f.fetcher.Add(testutil.Item("Q2").Label("en", "Ruritania").Build())
	f.fetcher.Add(testutil.Item("Q3").Label("en", "Atlantis").Build())
	f.site.AddPage("Ruritania")
	f.params["columns"] = "item"
	f.params["links"] = "red"

	l := f.run(t, itemResults("Q2", "Q3"))

	assert.True(t, l.LocalPageExists("Ruritania"))
	assert.False(t, l.LocalPageExists("Atlantis"))
	assert.ElementsMatch(t, []string{"Ruritania", "Atlantis"}, f.site.PageCalls(),
		"one lookup per distinct label")
}

func TestRedlinksCacheLookupFailureCountsAsMissing(t *testing.T) {
	f := newRunFixture()
	f.fetcher.Add(testutil.Item("Q2").Label("en", "Ruritania").Build())
	f.site.FailPageLookups(fmt.Errorf("api down"))
	f.params["columns"] = "item"
	f.params["links"] = "red"

	l := f.run(t, itemResults("Q2"))

	assert.False(t, l.LocalPageExists("Ruritania"))
}

func TestRemoveShadowFiles(t *testing.T) {
	f := newRunFixture()
	f.shadow = []string{"enwiki"}
	f.fetcher.Add(testutil.Item("Q1").
		Claim("P18", wikibase.DatatypeCommonsMedia, wikibase.StringValue{Value: "Shared.jpg"}).
		Claim("P18", wikibase.DatatypeCommonsMedia, wikibase.StringValue{Value: "Shadowed.jpg"}).
		Build())
	f.site.AddSharedImage("File:Shared.jpg")
	f.params["columns"] = "P18"

	l := f.run(t, itemResults("Q1"))

	assert.Equal(t, []string{"Shadowed.jpg"}, l.ShadowFiles())
	assert.Equal(t, []model.CellPart{
		model.FilePart{Name: "Shared.jpg"},
	}, cellParts(l, 0, 0), "shadowed file parts removed from cells")
}

// Running the shadow stage again over already filtered rows reports
// the same files and changes nothing.
func TestRemoveShadowFilesIsIdempotent(t *testing.T) {
	f := newRunFixture()
	f.shadow = []string{"enwiki"}
	f.fetcher.Add(testutil.Item("Q1").
		Claim("P18", wikibase.DatatypeCommonsMedia, wikibase.StringValue{Value: "Shadowed.jpg"}).
		Build())
	f.params["columns"] = "P18"

	l := f.run(t, itemResults("Q1"))
	require.Equal(t, []string{"Shadowed.jpg"}, l.ShadowFiles())
	require.Empty(t, cellParts(l, 0, 0))

	require.NoError(t, l.RunStage(context.Background(), "remove_shadow_files"))

	assert.Equal(t, []string{"Shadowed.jpg"}, l.ShadowFiles())
	assert.Empty(t, cellParts(l, 0, 0))
}

func TestShadowCheckSkippedOffListedWikis(t *testing.T) {
	f := newRunFixture()
	f.shadow = []string{"dewiki"}
	f.fetcher.Add(testutil.Item("Q1").
		Claim("P18", wikibase.DatatypeCommonsMedia, wikibase.StringValue{Value: "Local.jpg"}).
		Build())
	f.params["columns"] = "P18"

	l := f.run(t, itemResults("Q1"))

	assert.Empty(t, l.ShadowFiles())
	assert.Empty(t, f.site.ImageCalls(), "no repository lookups off the listed wikis")
}

func TestShadowCheckLookupFailureKeepsFile(t *testing.T) {
	f := newRunFixture()
	f.shadow = []string{"enwiki"}
	f.fetcher.Add(testutil.Item("Q1").
		Claim("P18", wikibase.DatatypeCommonsMedia, wikibase.StringValue{Value: "Unknown.jpg"}).
		Build())
	f.site.FailImageLookups(fmt.Errorf("api down"))
	f.params["columns"] = "P18"

	l := f.run(t, itemResults("Q1"))

	assert.Empty(t, l.ShadowFiles())
	assert.Equal(t, []model.CellPart{
		model.FilePart{Name: "Unknown.jpg"},
	}, cellParts(l, 0, 0), "inconclusive lookups keep the file")
}

func TestRunStageUnknownName(t *testing.T) {
	f := newRunFixture()
	err := f.newList().RunStage(context.Background(), "polish_chrome")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown stage")
}

func TestColumnRelabeling(t *testing.T) {
	f := newRunFixture()
	f.fetcher.Add(testutil.Item("Q1").Build())
	f.fetcher.Add(testutil.Property("P1082", wikibase.DatatypeQuantity).Label("en", "population").Build())
	f.params["columns"] = "P1082"

	l := f.run(t, itemResults("Q1"))

	require.Len(t, l.Columns(), 1)
	assert.Equal(t, "population", l.Columns()[0].Label)
}

func TestExternalIDURL(t *testing.T) {
	f := newRunFixture()
	f.fetcher.Add(testutil.Item("Q1").
		Claim("P214", wikibase.DatatypeExternalID, wikibase.StringValue{Value: "113230702"}).
		Build())
	f.fetcher.Add(testutil.Property("P214", wikibase.DatatypeExternalID).
		Label("en", "VIAF ID").
		Claim("P1630", wikibase.DatatypeString, wikibase.StringValue{Value: "https://viaf.org/viaf/$1/"}).
		Build())
	f.params["columns"] = "P214"

	l := f.run(t, itemResults("Q1"))

	url, ok := l.ExternalIDURL("P214", "113230702")
	require.True(t, ok)
	assert.Equal(t, "https://viaf.org/viaf/113230702/", url)

	_, ok = l.ExternalIDURL("P999", "x")
	assert.False(t, ok, "unloaded property has no formatter")
}

func TestNormalizeTitle(t *testing.T) {
	f := newRunFixture()
	l := f.newList()

	assert.Equal(t, "Berlin", l.NormalizeTitle("berlin"))
	assert.Equal(t, "Berlin", l.NormalizeTitle("Berlin"))
	assert.Equal(t, "Österreich", l.NormalizeTitle("österreich"))
	assert.Equal(t, "", l.NormalizeTitle(""))
}
