package render

import (
	"wdlist/internal/list"
	"wdlist/internal/model"
)

// Renderer produces the full page body for a finalized run.
type Renderer interface {
	Render(l *list.List) (string, error)
}

// ForWiki selects the renderer the target wiki expects: the tabular
// JSON format on Commons data pages, wiki tables everywhere else.
func ForWiki(wiki string) Renderer {
	if wiki == "commonswiki" {
		return TabbedData{}
	}
	return Wikitext{}
}

// sectionRows returns the rows of one section in pipeline order.
func sectionRows(l *list.List, section int) []*model.Row {
	var rows []*model.Row
	for _, row := range l.Rows() {
		if row.Section == section {
			rows = append(rows, row)
		}
	}
	return rows
}

// renderSections returns the section ids to render. A run without
// rows still renders one empty unnamed section so the page keeps its
// table skeleton.
func renderSections(l *list.List) []int {
	ids := l.SectionIDs()
	if len(ids) == 0 {
		ids = []int{0}
	}
	return ids
}
