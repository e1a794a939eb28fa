package model

import (
	"wdlist/internal/listspec"
	"wdlist/internal/sparql"
	"wdlist/internal/wikibase"
)

// BuildOptions selects how bindings become rows.
type BuildOptions struct {
	Columns  []listspec.Column
	Language string // working language
	Wiki     string // current wiki id, for Label column sitelinks

	// OneRowPerItem groups all bindings sharing a primary entity
	// into one row; otherwise every binding row becomes one row.
	OneRowPerItem bool

	// LocalOnly drops rows whose primary entity is not in the store
	// (link-mode "local").
	LocalOnly bool
}

// BuildRows constructs the row collection from typed bindings and the
// loaded entity store. Binding rows whose primary variable is not an
// entity reference are dropped; original order is preserved.
func BuildRows(store *wikibase.Store, results *sparql.ResultSet, opts BuildOptions) []*Row {
	primary := results.PrimaryVariable()
	b := &rowBuilder{store: store, opts: opts}

	if !opts.OneRowPerItem {
		var rows []*Row
		for _, binding := range results.Bindings {
			ev, ok := binding[primary].(sparql.EntityValue)
			if !ok {
				continue
			}
			if row := b.build(ev.ID, []sparql.Binding{binding}); row != nil {
				rows = append(rows, row)
			}
		}
		return rows
	}

	// One row per source entity: group bindings by primary entity,
	// keeping first-seen order.
	var order []string
	groups := make(map[string][]sparql.Binding)
	for _, binding := range results.Bindings {
		ev, ok := binding[primary].(sparql.EntityValue)
		if !ok {
			continue
		}
		if _, seen := groups[ev.ID]; !seen {
			order = append(order, ev.ID)
		}
		groups[ev.ID] = append(groups[ev.ID], binding)
	}
	var rows []*Row
	for _, id := range order {
		if row := b.build(id, groups[id]); row != nil {
			rows = append(rows, row)
		}
	}
	return rows
}

type rowBuilder struct {
	store *wikibase.Store
	opts  BuildOptions
}

func (b *rowBuilder) build(entityID string, bindings []sparql.Binding) *Row {
	if b.opts.LocalOnly && !b.store.Has(entityID) {
		return nil
	}
	row := &Row{
		EntityID: entityID,
		Cells:    make([]Cell, len(b.opts.Columns)),
	}
	for i, col := range b.opts.Columns {
		row.Cells[i] = b.buildCell(entityID, bindings, col)
	}
	return row
}

// buildCell dispatches on the column descriptor variant. Missing
// entities, labels and claims yield an empty cell, never an error.
func (b *rowBuilder) buildCell(entityID string, bindings []sparql.Binding, col listspec.Column) Cell {
	var cell Cell
	entity, haveEntity := b.store.Get(entityID)

	switch t := col.Type.(type) {
	case listspec.NumberColumn:
		cell.Parts = append(cell.Parts, NumberPart{})

	case listspec.ItemColumn:
		cell.Parts = append(cell.Parts, EntityPart{ID: entityID, TryLocalize: true})

	case listspec.LabelColumn:
		if !haveEntity {
			break
		}
		label, ok := entity.Label(b.opts.Language)
		if !ok {
			label = entityID
		}
		if page, ok := entity.Sitelink(b.opts.Wiki); ok {
			cell.Parts = append(cell.Parts, LocalLinkPart{Page: page, Label: label})
		} else {
			cell.Parts = append(cell.Parts, EntityPart{ID: entityID, TryLocalize: true})
		}

	case listspec.LabelLangColumn:
		if !haveEntity {
			break
		}
		if label, ok := entity.Label(t.Language); ok {
			cell.Parts = append(cell.Parts, TextPart{Text: label})
		} else if label, ok := entity.Label(b.opts.Language); ok {
			cell.Parts = append(cell.Parts, TextPart{Text: label})
		}

	case listspec.DescriptionColumn:
		if !haveEntity {
			break
		}
		if desc, ok := entity.Description(b.opts.Language); ok {
			cell.Parts = append(cell.Parts, TextPart{Text: desc})
		}

	case listspec.FieldColumn:
		for _, binding := range bindings {
			if v, ok := binding[t.Name]; ok {
				cell.Parts = append(cell.Parts, PartFromValue(v))
			}
		}

	case listspec.PropertyColumn:
		if !haveEntity {
			break
		}
		for _, st := range entity.StatementsFor(t.Property) {
			cell.Parts = append(cell.Parts, PartFromSnak(st.MainSnak))
		}

	case listspec.PropertyQualifierColumn:
		if !haveEntity {
			break
		}
		for _, st := range entity.StatementsFor(t.Property) {
			for _, q := range st.QualifiersFor(t.Qualifier) {
				cell.Parts = append(cell.Parts, ChainPart{Parts: []CellPart{
					PartFromSnak(st.MainSnak),
					PartFromSnak(q),
				}})
			}
		}

	case listspec.PropertyQualifierValueColumn:
		if !haveEntity {
			break
		}
		for _, st := range entity.StatementsFor(t.Property) {
			ev, ok := st.MainSnak.Value.(wikibase.EntityIDValue)
			if !ok || ev.ID != t.Value {
				continue
			}
			for _, q := range st.QualifiersFor(t.Qualifier) {
				cell.Parts = append(cell.Parts, PartFromSnak(q))
			}
		}

	case listspec.UnknownColumn:
		// Degrade target: renders empty.
	}
	return cell
}
