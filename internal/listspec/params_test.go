package listspec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultParams(t *testing.T) {
	p := DefaultParams()

	assert.Equal(t, SortNone{}, p.Sort)
	assert.True(t, p.SortAscending)
	assert.Equal(t, SectionNone{}, p.Section)
	assert.Equal(t, DefaultMinSection, p.MinSection)
	assert.Equal(t, LinksAll, p.Links)
	assert.True(t, p.OneRowPerItem)
	assert.False(t, p.SkipTable)
	assert.Equal(t, DefaultThumbWidth, p.Thumb)
	require.Len(t, p.Columns, 1)
	assert.Equal(t, ItemColumn{}, p.Columns[0].Type)
}

func TestParamsFromValues(t *testing.T) {
	p := ParamsFromValues(map[string]string{
		"sparql":           "SELECT ?item WHERE { ?item wdt:P31 wd:Q5 }",
		"columns":          "number,label,P569",
		"sort":             "P569",
		"sort_order":       "desc",
		"section":          "P19",
		"min_section":      "3",
		"row_template":     "Person row",
		"header_template":  "Person header",
		"links":            "red_only",
		"one_row_per_item": "no",
		"skip_table":       "",
		"summary":          "itemnumber",
		"thumb":            "90",
		"language":         "DE",
		"wdedit":           "yes",
		"references":       "all",
	})

	assert.Equal(t, "SELECT ?item WHERE { ?item wdt:P31 wd:Q5 }", p.Sparql)
	require.Len(t, p.Columns, 3)
	assert.Equal(t, SortByProperty{Property: "P569"}, p.Sort)
	assert.False(t, p.SortAscending)
	assert.Equal(t, SectionByProperty{Property: "P19"}, p.Section)
	assert.Equal(t, 3, p.MinSection)
	assert.Equal(t, "Person row", p.RowTemplate)
	assert.Equal(t, "Person header", p.HeaderTemplate)
	assert.Equal(t, LinksRedOnly, p.Links)
	assert.False(t, p.OneRowPerItem)
	assert.True(t, p.SkipTable)
	assert.Equal(t, "ITEMNUMBER", p.Summary)
	assert.Equal(t, 90, p.Thumb)
	assert.Equal(t, "de", p.Language)
	assert.True(t, p.WikidataEdit)
	assert.True(t, p.References)
}

func TestParamsSkipTableByPresence(t *testing.T) {
	p := ParamsFromValues(map[string]string{"skip_table": "no"})
	assert.True(t, p.SkipTable, "any skip_table value enables it")

	p = ParamsFromValues(map[string]string{})
	assert.False(t, p.SkipTable)
}

func TestParamsMalformedValuesDegrade(t *testing.T) {
	p := ParamsFromValues(map[string]string{
		"sort":        "sideways",
		"section":     "chapter one",
		"links":       "rainbow",
		"min_section": "-4",
		"thumb":       "banana",
	})

	assert.Equal(t, SortNone{}, p.Sort)
	assert.Equal(t, SectionNone{}, p.Section)
	assert.Equal(t, LinksAll, p.Links)
	assert.Equal(t, DefaultMinSection, p.MinSection)
	assert.Equal(t, DefaultThumbWidth, p.Thumb)
}

func TestParseSortMode(t *testing.T) {
	assert.Equal(t, SortByLabel{}, ParseSortMode("label"))
	assert.Equal(t, SortByFamilyName{}, ParseSortMode("FAMILY_NAME"))
	assert.Equal(t, SortByProperty{Property: "P569"}, ParseSortMode("p569"))
	assert.Equal(t, SortNone{}, ParseSortMode(""))
}

func TestParseSectionMode(t *testing.T) {
	assert.Equal(t, SectionByProperty{Property: "P19"}, ParseSectionMode("p19"))
	assert.Equal(t, SectionByVariable{Variable: "REGION"}, ParseSectionMode("@region"))
	assert.Equal(t, SectionNone{}, ParseSectionMode("@"))
	assert.Equal(t, SectionNone{}, ParseSectionMode("nothing"))
}

func TestParseLinksMode(t *testing.T) {
	assert.Equal(t, LinksLocal, ParseLinksMode("local"))
	assert.Equal(t, LinksRed, ParseLinksMode("RED"))
	assert.Equal(t, LinksRedOnly, ParseLinksMode("red_only"))
	assert.Equal(t, LinksText, ParseLinksMode("text"))
	assert.Equal(t, LinksReasonator, ParseLinksMode("reasonator"))
	assert.Equal(t, LinksAll, ParseLinksMode("all"))
	assert.Equal(t, LinksAll, ParseLinksMode("whatever"))
}
