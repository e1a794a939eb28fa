package listspec

import (
	"regexp"
	"strconv"
	"strings"
)

// LinksMode selects how entity references render and which rows
// survive the link-related pipeline stages.
type LinksMode int

const (
	LinksAll        LinksMode = iota // all link styles (default)
	LinksLocal                       // localized label as plain local link
	LinksRed                         // mark entities without a local page as redlinks
	LinksRedOnly                     // additionally drop rows that have a local page
	LinksText                        // plain localized text, no links
	LinksReasonator                  // external cross-reference links
)

// ParseLinksMode resolves the "links" option. Unrecognized values
// degrade to LinksAll.
func ParseLinksMode(s string) LinksMode {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "LOCAL":
		return LinksLocal
	case "RED":
		return LinksRed
	case "RED_ONLY":
		return LinksRedOnly
	case "TEXT":
		return LinksText
	case "REASONATOR":
		return LinksReasonator
	default:
		return LinksAll
	}
}

func (m LinksMode) String() string {
	switch m {
	case LinksLocal:
		return "local"
	case LinksRed:
		return "red"
	case LinksRedOnly:
		return "red_only"
	case LinksText:
		return "text"
	case LinksReasonator:
		return "reasonator"
	default:
		return "all"
	}
}

// SortMode is a sealed interface over the recognized sort settings.
type SortMode interface{ sortMode() }

// SortNone leaves the row collection in query order.
type SortNone struct{}

// SortByLabel sorts by the localized label of the row item.
type SortByLabel struct{}

// SortByFamilyName sorts by the last whitespace-delimited token of the
// localized label (surname-first ordering heuristic).
type SortByFamilyName struct{}

// SortByProperty sorts by the first claim value of a property, with a
// comparison rule selected by the property's declared datatype.
type SortByProperty struct {
	Property string // uppercase P-id
}

func (SortNone) sortMode()         {}
func (SortByLabel) sortMode()      {}
func (SortByFamilyName) sortMode() {}
func (SortByProperty) sortMode()   {}

var reSortProperty = regexp.MustCompile(`^P\d+$`)

// ParseSortMode resolves the "sort" option. Unrecognized values
// degrade to SortNone.
func ParseSortMode(s string) SortMode {
	switch v := strings.ToUpper(strings.TrimSpace(s)); {
	case v == "LABEL":
		return SortByLabel{}
	case v == "FAMILY_NAME":
		return SortByFamilyName{}
	case reSortProperty.MatchString(v):
		return SortByProperty{Property: v}
	default:
		return SortNone{}
	}
}

// SectionMode is a sealed interface over the recognized section
// grouping settings.
type SectionMode interface{ sectionMode() }

// SectionNone puts every row in the single unnamed section.
type SectionNone struct{}

// SectionByProperty groups rows by the first claim value of a
// property.
type SectionByProperty struct {
	Property string // uppercase P-id
}

// SectionByVariable groups rows by the value of a query variable.
// The variable name matches case-insensitively.
type SectionByVariable struct {
	Variable string
}

func (SectionNone) sectionMode()       {}
func (SectionByProperty) sectionMode() {}
func (SectionByVariable) sectionMode() {}

var reSectionProperty = regexp.MustCompile(`^[Pp]\d+$`)

// ParseSectionMode resolves the "section" option. Unrecognized values
// degrade to SectionNone.
func ParseSectionMode(s string) SectionMode {
	s = strings.TrimSpace(s)
	if reSectionProperty.MatchString(s) {
		return SectionByProperty{Property: strings.ToUpper(s)}
	}
	if strings.HasPrefix(s, "@") && len(s) > 1 {
		return SectionByVariable{Variable: strings.ToUpper(s[1:])}
	}
	return SectionNone{}
}

// Default numeric option values.
const (
	DefaultMinSection = 2
	DefaultThumbWidth = 128
)

// Params is the full, typed list-level parameter set. Missing or
// malformed optional values resolve to defaults and never fail.
type Params struct {
	Sparql         string
	Columns        []Column
	Sort           SortMode
	SortAscending  bool
	Section        SectionMode
	MinSection     int
	RowTemplate    string
	HeaderTemplate string
	Links          LinksMode
	OneRowPerItem  bool
	SkipTable      bool
	Summary        string // uppercased; "ITEMNUMBER" triggers the count footer
	Thumb          int    // image thumbnail width in px
	Language       string // working language override, empty = wiki default
	Autodesc       string
	WikidataEdit   bool
	References     bool
}

// DefaultParams returns the parameter set for an empty option map.
func DefaultParams() Params {
	return Params{
		Columns:       ParseColumns(""),
		Sort:          SortNone{},
		SortAscending: true,
		Section:       SectionNone{},
		MinSection:    DefaultMinSection,
		Links:         LinksAll,
		OneRowPerItem: true,
		Thumb:         DefaultThumbWidth,
	}
}

// ParamsFromValues resolves the raw option key/value map extracted
// from the embedding page. Every option is optional except sparql,
// whose absence is reported by the run, not here.
func ParamsFromValues(values map[string]string) Params {
	p := DefaultParams()
	get := func(key string) (string, bool) {
		v, ok := values[key]
		return strings.TrimSpace(v), ok
	}

	if v, ok := get("sparql"); ok {
		p.Sparql = v
	}
	if v, ok := get("columns"); ok {
		p.Columns = ParseColumns(v)
	}
	if v, ok := get("sort"); ok {
		p.Sort = ParseSortMode(v)
	}
	if v, ok := get("sort_order"); ok {
		p.SortAscending = !strings.EqualFold(v, "desc")
	}
	if v, ok := get("section"); ok {
		p.Section = ParseSectionMode(v)
	}
	if v, ok := get("min_section"); ok {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			p.MinSection = n
		}
	}
	if v, ok := get("row_template"); ok {
		p.RowTemplate = v
	}
	if v, ok := get("header_template"); ok {
		p.HeaderTemplate = v
	}
	if v, ok := get("links"); ok {
		p.Links = ParseLinksMode(v)
	}
	if v, ok := get("one_row_per_item"); ok {
		p.OneRowPerItem = !strings.EqualFold(v, "no")
	}
	if _, ok := get("skip_table"); ok {
		p.SkipTable = true
	}
	if v, ok := get("summary"); ok {
		p.Summary = strings.ToUpper(v)
	}
	if v, ok := get("thumb"); ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			p.Thumb = n
		}
	}
	if v, ok := get("language"); ok {
		p.Language = strings.ToLower(v)
	}
	if v, ok := get("autolist"); ok {
		p.Autodesc = strings.ToUpper(v)
	} else if v, ok := get("autodesc"); ok {
		p.Autodesc = strings.ToUpper(v)
	}
	if v, ok := get("wdedit"); ok {
		p.WikidataEdit = strings.EqualFold(v, "yes")
	}
	if v, ok := get("references"); ok {
		p.References = strings.EqualFold(v, "all")
	}
	return p
}
