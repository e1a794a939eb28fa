package render

import (
	"encoding/json"
	"fmt"
	"strings"

	"wdlist/internal/list"
)

// tabbedPartLimit caps the size of one rendered cell part in runes.
// Oversized parts are truncated, not rejected.
const tabbedPartLimit = 380

// TabbedData renders the run as a Commons tabular-data page: a JSON
// document with a typed schema and one data row per list row.
type TabbedData struct{}

type tabbedTitle map[string]string

type tabbedField struct {
	Name  string      `json:"name"`
	Type  string      `json:"type"`
	Title tabbedTitle `json:"title"`
}

type tabbedSchema struct {
	Fields []tabbedField `json:"fields"`
}

type tabbedPage struct {
	License     string        `json:"license"`
	Description tabbedTitle   `json:"description"`
	Sources     string        `json:"sources"`
	Schema      tabbedSchema  `json:"schema"`
	Data        []interface{} `json:"data"`
}

// Render produces the JSON document. The first schema field is the
// numeric section id; every column becomes a string field named by
// position so relabeling never breaks consumers.
func (TabbedData) Render(l *list.List) (string, error) {
	lang := l.Language()

	fields := []tabbedField{{
		Name:  "section",
		Type:  "number",
		Title: tabbedTitle{lang: "Section"},
	}}
	for i, col := range l.Columns() {
		fields = append(fields, tabbedField{
			Name:  fmt.Sprintf("col_%d", i),
			Type:  "string",
			Title: tabbedTitle{lang: col.Label},
		})
	}

	var data []interface{}
	for _, section := range renderSections(l) {
		for i, row := range sectionRows(l, section) {
			f := &partFormatter{list: l, rowNum: i + 1}
			out := make([]interface{}, 0, len(row.Cells)+1)
			out = append(out, row.Section)
			for _, cell := range row.Cells {
				out = append(out, f.formatCellTabbed(cell))
			}
			data = append(data, out)
		}
	}
	if data == nil {
		data = []interface{}{}
	}

	page := tabbedPage{
		License:     "CC0-1.0",
		Description: tabbedTitle{lang: "Generated list"},
		Sources:     tabbedSources(l),
		Schema:      tabbedSchema{Fields: fields},
		Data:        data,
	}

	out, err := json.MarshalIndent(page, "", "    ")
	if err != nil {
		return "", fmt.Errorf("encode tabbed data: %w", err)
	}
	return string(out), nil
}

func tabbedSources(l *list.List) string {
	if sparql := l.Params().Sparql; sparql != "" {
		return "Generated from the Wikidata SPARQL query: " + sanitizeTabbedPart(sparql)
	}
	return "Generated from Wikidata"
}

// sanitizeTabbedPart flattens whitespace the tabular format cannot
// carry and enforces the part size limit.
func sanitizeTabbedPart(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\t", " ")
	runes := []rune(s)
	if len(runes) > tabbedPartLimit {
		return string(runes[:tabbedPartLimit])
	}
	return s
}
