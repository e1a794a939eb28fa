package render

import (
	"fmt"
	"strings"

	"wdlist/internal/list"
	"wdlist/internal/listspec"
	"wdlist/internal/model"
)

// partFormatter renders cell parts against one run. rowNum is the
// 1-based row position within the current section, consumed by
// NumberPart.
type partFormatter struct {
	list   *list.List
	rowNum int
}

// format renders a single part as wikitext. Both renderers build on
// this; TabbedData sanitizes the result afterwards.
func (f *partFormatter) format(p model.CellPart) string {
	switch t := p.(type) {
	case model.NumberPart:
		return fmt.Sprintf("style='text-align:right'| %d", f.rowNum)

	case model.EntityPart:
		return f.formatEntity(t)

	case model.LocalLinkPart:
		if f.list.NormalizeTitle(t.Page) == f.list.NormalizeTitle(t.Label) {
			return fmt.Sprintf("[[%s]]", t.Page)
		}
		return fmt.Sprintf("[[%s|%s]]", t.Page, t.Label)

	case model.TimePart:
		return t.Time

	case model.LocationPart:
		return f.list.LocationTemplate(t.Lat, t.Lon)

	case model.FilePart:
		return fmt.Sprintf("[[%s:%s|thumb|%dpx|]]",
			f.list.FileNamespace(), t.Name, f.list.Params().Thumb)

	case model.URIPart:
		return t.URI

	case model.ExternalIDPart:
		if url, ok := f.list.ExternalIDURL(t.Property, t.ID); ok {
			return fmt.Sprintf("[%s %s]", url, t.ID)
		}
		return t.ID

	case model.TextPart:
		return t.Text

	case model.ChainPart:
		rendered := make([]string, 0, len(t.Parts))
		for _, sub := range t.Parts {
			rendered = append(rendered, f.format(sub))
		}
		return strings.Join(rendered, " — ")

	default:
		return ""
	}
}

// formatEntity renders an entity reference per the run's link mode.
// Localizable references that survived the localize stage have no
// article on the current wiki. An entity with no label in the working
// language always renders as the id link, whatever the mode.
func (f *partFormatter) formatEntity(p model.EntityPart) string {
	label, ok := f.list.Store().Label(p.ID, f.list.Language())
	if !ok {
		return fmt.Sprintf("''[[:d:%s|%s]]''", p.ID, p.ID)
	}

	switch f.list.Params().Links {
	case listspec.LinksText:
		return label
	case listspec.LinksRed, listspec.LinksRedOnly:
		if f.list.LocalPageExists(label) {
			return fmt.Sprintf("''[[:d:%s|%s]]''", p.ID, label)
		}
		return fmt.Sprintf("[[%s]]", label)
	case listspec.LinksReasonator:
		return fmt.Sprintf("[https://reasonator.toolforge.org/?q=%s %s]", p.ID, label)
	default:
		return fmt.Sprintf("''[[:d:%s|%s]]''", p.ID, label)
	}
}

// formatCell joins a cell's rendered parts. Zero parts render as the
// empty string.
func (f *partFormatter) formatCell(c model.Cell, sep string) string {
	if len(c.Parts) == 0 {
		return ""
	}
	rendered := make([]string, 0, len(c.Parts))
	for _, p := range c.Parts {
		rendered = append(rendered, f.format(p))
	}
	return strings.Join(rendered, sep)
}

// formatCellTabbed renders a cell for the tabular format. Each part is
// flattened and capped on its own before the parts are joined, so one
// oversized part cannot eat its neighbours.
func (f *partFormatter) formatCellTabbed(c model.Cell) string {
	if len(c.Parts) == 0 {
		return ""
	}
	rendered := make([]string, 0, len(c.Parts))
	for _, p := range c.Parts {
		rendered = append(rendered, sanitizeTabbedPart(f.format(p)))
	}
	return strings.Join(rendered, "<br/>")
}
