package render

import (
	"fmt"
	"strings"

	"wdlist/internal/list"
	"wdlist/internal/model"
)

// Wikitext renders the run as per-section wiki tables. Row and header
// templates, when configured, replace the built-in table markup.
type Wikitext struct{}

// Render produces the full wikitext body: one block per section in
// section order, then the shadow-file disclaimer and the item count
// footer when they apply.
func (Wikitext) Render(l *list.List) (string, error) {
	var b strings.Builder

	sections := renderSections(l)
	for _, id := range sections {
		if name, ok := l.SectionName(id); ok && len(sections) > 1 {
			fmt.Fprintf(&b, "== %s ==\n", name)
		}
		renderSectionWikitext(&b, l, id)
		b.WriteString("\n")
	}

	if shadow := l.ShadowFiles(); len(shadow) > 0 {
		b.WriteString("\n----\nThe following local image(s) are not shown in the above list, because they shadow a file on [[:commons:|Commons]]:\n")
		for _, name := range shadow {
			fmt.Fprintf(&b, "# [[:%s:%s|]]\n", l.FileNamespace(), name)
		}
	}
	if l.Params().Summary == "ITEMNUMBER" {
		fmt.Fprintf(&b, "\n----\n&sum; %d items.\n", len(l.Rows()))
	}

	return b.String(), nil
}

func renderSectionWikitext(b *strings.Builder, l *list.List, section int) {
	params := l.Params()

	if params.HeaderTemplate != "" {
		fmt.Fprintf(b, "{{%s}}\n", params.HeaderTemplate)
	} else if !params.SkipTable {
		b.WriteString("{| class='wikitable sortable' style='width:100%'\n")
		for _, col := range l.Columns() {
			fmt.Fprintf(b, "! %s\n", col.Label)
		}
	}

	rows := sectionRows(l, section)
	rendered := make([]string, 0, len(rows))
	for i, row := range rows {
		f := &partFormatter{list: l, rowNum: i + 1}
		rendered = append(rendered, renderRowWikitext(f, l, row))
	}

	separator := "\n|-\n"
	if params.SkipTable {
		separator = "\n"
	}
	if len(rendered) > 0 {
		if !params.SkipTable && params.RowTemplate == "" {
			b.WriteString("|-\n")
		}
		b.WriteString(strings.Join(rendered, separator))
	}

	if !params.SkipTable {
		b.WriteString("\n|}")
	}
}

// renderRowWikitext renders one row: a row-template call with one
// named argument per column, or plain table cells.
func renderRowWikitext(f *partFormatter, l *list.List, row *model.Row) string {
	cells := make([]string, len(row.Cells))
	for i, cell := range row.Cells {
		cells[i] = f.formatCell(cell, "<br/>")
	}

	if tmpl := l.Params().RowTemplate; tmpl != "" {
		var b strings.Builder
		fmt.Fprintf(&b, "{{%s", tmpl)
		for i, col := range l.Columns() {
			fmt.Fprintf(&b, "\n| %s = %s", col.Type.Key(), cells[i])
		}
		b.WriteString("\n}}")
		return b.String()
	}

	lines := make([]string, len(cells))
	for i, cell := range cells {
		lines[i] = "| " + cell
	}
	return strings.Join(lines, "\n")
}
