package list

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"wdlist/internal/listspec"
	"wdlist/internal/model"
	"wdlist/internal/wikibase"
)

// stage is one named step of the patch pipeline. Stages that do not
// apply to the current configuration return nil without touching the
// rows, so the stage list is the same for every run.
type stage struct {
	name string
	run  func(*List, context.Context) error
}

// stages is the patch pipeline in execution order. Entity gathering
// runs first because every later stage reads the store; sorting runs
// last because earlier stages add and remove rows.
var stages = []stage{
	{"gather_and_load_entities", (*List).stageGatherAndLoadEntities},
	{"assign_sections", (*List).stageAssignSections},
	{"redlinks_only_filter", (*List).stageRedlinksOnlyFilter},
	{"localize_item_links", (*List).stageLocalizeItemLinks},
	{"redlinks_cache", (*List).stageRedlinksCache},
	{"remove_shadow_files", (*List).stageRemoveShadowFiles},
	{"sort", (*List).stageSort},
}

// Patch runs every pipeline stage in order. The first failing stage
// aborts the run; its name is part of the returned error.
func (l *List) Patch(ctx context.Context) error {
	for _, s := range stages {
		slog.Debug("pipeline stage", "run_id", l.runID, "stage", s.name)
		if err := s.run(l, ctx); err != nil {
			return fmt.Errorf("stage %s: %w", s.name, err)
		}
	}
	return nil
}

// RunStage runs a single named stage. Tests use it to exercise stages
// in isolation.
func (l *List) RunStage(ctx context.Context, name string) error {
	for _, s := range stages {
		if s.name == name {
			if err := s.run(l, ctx); err != nil {
				return fmt.Errorf("stage %s: %w", s.name, err)
			}
			return nil
		}
	}
	return fmt.Errorf("unknown stage %q", name)
}

// stageGatherAndLoadEntities collects every entity id the built rows
// reference and loads them in one pass: localizable item parts, the
// properties behind external ids, and the claim targets of the sort
// and section properties.
func (l *List) stageGatherAndLoadEntities(ctx context.Context) error {
	seen := make(map[string]bool)
	var ids []string
	add := func(id string) {
		if id != "" && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	for _, row := range l.rows {
		for _, cell := range row.Cells {
			model.WalkParts(cell.Parts, func(p model.CellPart) {
				switch t := p.(type) {
				case model.EntityPart:
					if t.TryLocalize {
						add(t.ID)
					}
				case model.ExternalIDPart:
					add(t.Property)
				}
			})
		}
	}

	if s, ok := l.params.Sort.(listspec.SortByProperty); ok {
		l.addClaimTargets(s.Property, add)
	}
	if s, ok := l.params.Section.(listspec.SectionByProperty); ok {
		l.addClaimTargets(s.Property, add)
	}

	if len(ids) == 0 {
		return nil
	}
	if err := l.store.LoadEntities(ctx, ids); err != nil {
		return fmt.Errorf("load referenced entities: %w", err)
	}
	return nil
}

// addClaimTargets feeds add with the entity-valued main snak targets of
// the given property across every row's entity.
func (l *List) addClaimTargets(property string, add func(string)) {
	for _, row := range l.rows {
		entity, ok := l.store.Get(row.EntityID)
		if !ok {
			continue
		}
		for _, st := range entity.StatementsFor(property) {
			if ev, ok := st.MainSnak.Value.(wikibase.EntityIDValue); ok {
				add(ev.ID)
			}
		}
	}
}

// stageRedlinksOnlyFilter keeps only rows whose entity has no article
// on the current wiki. Rows whose entity never loaded stay in: absent
// data must not silently shrink the list.
func (l *List) stageRedlinksOnlyFilter(context.Context) error {
	if l.params.Links != listspec.LinksRedOnly {
		return nil
	}
	kept := l.rows[:0]
	for _, row := range l.rows {
		entity, ok := l.store.Get(row.EntityID)
		if ok {
			if _, linked := entity.Sitelink(l.wiki); linked {
				continue
			}
		}
		kept = append(kept, row)
	}
	l.rows = kept
	return nil
}

// stageLocalizeItemLinks rewrites localizable item parts into local
// links wherever the entity has an article on the current wiki. Parts
// without a sitelink pass through unchanged and render per link mode.
func (l *List) stageLocalizeItemLinks(context.Context) error {
	for _, row := range l.rows {
		for i := range row.Cells {
			row.Cells[i].Parts = model.TransformParts(row.Cells[i].Parts, func(p model.CellPart) model.CellPart {
				ep, ok := p.(model.EntityPart)
				if !ok || !ep.TryLocalize {
					return p
				}
				entity, ok := l.store.Get(ep.ID)
				if !ok {
					return p
				}
				page, ok := entity.Sitelink(l.wiki)
				if !ok {
					return p
				}
				label := page
				if lb, ok := entity.Label(l.language); ok {
					label = lb
				}
				return model.LocalLinkPart{Page: page, Label: label}
			})
		}
	}
	return nil
}

// stageRedlinksCache pre-answers the page-existence lookups the
// wikitext renderer will make for red links, one call per distinct
// label. A failed lookup counts as missing.
func (l *List) stageRedlinksCache(ctx context.Context) error {
	switch l.params.Links {
	case listspec.LinksRed, listspec.LinksRedOnly:
	default:
		return nil
	}

	seen := make(map[string]bool)
	var labels []string
	for _, row := range l.rows {
		for _, cell := range row.Cells {
			model.WalkParts(cell.Parts, func(p model.CellPart) {
				ep, ok := p.(model.EntityPart)
				if !ok {
					return
				}
				label := l.LabelWithFallback(ep.ID)
				key := l.NormalizeTitle(label)
				if !seen[key] {
					seen[key] = true
					labels = append(labels, label)
				}
			})
		}
	}

	for _, label := range labels {
		exists, err := l.site.PageExists(ctx, label)
		if err != nil {
			slog.Warn("page existence check failed",
				"run_id", l.runID, "title", label, "error", err)
			exists = false
		}
		l.pageCache[l.NormalizeTitle(label)] = exists
	}
	return nil
}

// stageRemoveShadowFiles strips file parts whose local page shadows
// the shared media file of the same name. Only top-level file parts
// are checked; files inside chains stay. The stage only applies on
// wikis known to host local files.
func (l *List) stageRemoveShadowFiles(ctx context.Context) error {
	if !l.shadowCheckApplies() {
		return nil
	}

	seen := make(map[string]bool)
	var names []string
	for _, row := range l.rows {
		for _, cell := range row.Cells {
			for _, p := range cell.Parts {
				if fp, ok := p.(model.FilePart); ok && !seen[fp.Name] {
					seen[fp.Name] = true
					names = append(names, fp.Name)
				}
			}
		}
	}
	sort.Strings(names)

	shadowed := make(map[string]bool)
	for _, name := range names {
		title := l.fileNamespace + ":" + name
		shared, err := l.site.ImageIsShared(ctx, title)
		if err != nil {
			slog.Warn("image repository check failed",
				"run_id", l.runID, "title", title, "error", err)
			continue
		}
		if !shared {
			shadowed[name] = true
		}
	}
	if len(shadowed) == 0 {
		return nil
	}

	for _, row := range l.rows {
		for i := range row.Cells {
			kept := row.Cells[i].Parts[:0]
			for _, p := range row.Cells[i].Parts {
				if fp, ok := p.(model.FilePart); ok && shadowed[fp.Name] {
					continue
				}
				kept = append(kept, p)
			}
			row.Cells[i].Parts = kept
		}
	}

	// Accumulate rather than rebuild so a second pass over already
	// filtered rows reports the same list.
	known := make(map[string]bool, len(l.shadowFiles))
	for _, name := range l.shadowFiles {
		known[name] = true
	}
	for _, name := range names {
		if shadowed[name] && !known[name] {
			l.shadowFiles = append(l.shadowFiles, name)
		}
	}
	sort.Strings(l.shadowFiles)
	return nil
}

func (l *List) shadowCheckApplies() bool {
	for _, w := range l.shadowCheckWikis {
		if w == l.wiki {
			return true
		}
	}
	return false
}
