package list

import (
	"context"
	"sort"
	"strings"

	"wdlist/internal/listspec"
	"wdlist/internal/model"
	"wdlist/internal/sparql"
	"wdlist/internal/wikibase"
)

// miscSectionName heads the catch-all section that absorbs groups too
// small to stand on their own.
const miscSectionName = "Misc"

// stageAssignSections groups rows under headings. Property mode keys
// each row on the localized label of the first claim target of the
// section property; variable mode keys on the row's field value.
// Named sections get ids 1..n in ascending label order and groups
// smaller than the minimum collapse into section 0, rendered last.
func (l *List) stageAssignSections(context.Context) error {
	var keyFor func(*model.Row) string

	switch s := l.params.Section.(type) {
	case listspec.SectionNone:
		return nil
	case listspec.SectionByProperty:
		keyFor = func(row *model.Row) string {
			return l.sectionKeyByProperty(row, s.Property)
		}
	case listspec.SectionByVariable:
		keyFor = func(row *model.Row) string {
			return l.sectionKeyByVariable(row, s.Variable)
		}
	default:
		return nil
	}

	keys := make([]string, len(l.rows))
	counts := make(map[string]int)
	for i, row := range l.rows {
		keys[i] = keyFor(row)
		counts[keys[i]]++
	}

	minSize := l.params.MinSection
	if minSize < 1 {
		minSize = listspec.DefaultMinSection
	}

	var names []string
	for key, n := range counts {
		if key != "" && n >= minSize {
			names = append(names, key)
		}
	}
	sort.Strings(names)

	id := make(map[string]int, len(names))
	l.sectionNames = make(map[int]string, len(names)+1)
	for i, name := range names {
		id[name] = i + 1
		l.sectionNames[i+1] = name
	}
	if len(names) < len(counts) {
		l.sectionNames[0] = miscSectionName
	}

	for i, row := range l.rows {
		row.Section = id[keys[i]]
	}
	return nil
}

// sectionKeyByProperty returns the localized label of the first
// entity-valued claim of the section property, or "" when the row has
// none.
func (l *List) sectionKeyByProperty(row *model.Row, property string) string {
	entity, ok := l.store.Get(row.EntityID)
	if !ok {
		return ""
	}
	for _, st := range entity.StatementsFor(property) {
		if ev, ok := st.MainSnak.Value.(wikibase.EntityIDValue); ok {
			return l.LabelWithFallback(ev.ID)
		}
	}
	return ""
}

// sectionKeyByVariable returns the row's value for the named query
// variable as plain text. The variable name matches
// case-insensitively; the first binding of the row's entity wins.
func (l *List) sectionKeyByVariable(row *model.Row, variable string) string {
	name := variable
	for _, v := range l.results.Variables {
		if strings.EqualFold(v, variable) {
			name = v
			break
		}
	}
	primary := l.results.PrimaryVariable()
	for _, binding := range l.results.Bindings {
		ev, ok := binding[primary].(sparql.EntityValue)
		if !ok || ev.ID != row.EntityID {
			continue
		}
		if v, ok := binding[name]; ok {
			return sectionText(v)
		}
	}
	return ""
}

func sectionText(v sparql.Value) string {
	switch t := v.(type) {
	case sparql.LiteralValue:
		return t.Text
	case sparql.EntityValue:
		return t.ID
	case sparql.TimeValue:
		return t.Time
	case sparql.URIValue:
		return t.URI
	case sparql.FileValue:
		return t.Name
	default:
		return ""
	}
}
