package list

import (
	"context"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"wdlist/internal/listspec"
	"wdlist/internal/model"
	"wdlist/internal/wikibase"
)

// stageSort orders the row collection by the configured sort mode.
// The sort is stable, so rows with equal keys keep query order, and a
// descending sort is the exact reverse of the ascending one.
func (l *List) stageSort(context.Context) error {
	var compare func(a, b string) int

	switch s := l.params.Sort.(type) {
	case listspec.SortNone:
		return nil
	case listspec.SortByLabel:
		for _, row := range l.rows {
			row.SortKey = l.LabelWithFallback(row.EntityID)
		}
		compare = strings.Compare
	case listspec.SortByFamilyName:
		for _, row := range l.rows {
			row.SortKey = familyName(l.LabelWithFallback(row.EntityID))
		}
		compare = strings.Compare
	case listspec.SortByProperty:
		for _, row := range l.rows {
			row.SortKey = l.propertySortKey(row, s.Property)
		}
		compare = compareForDatatype(l.datatypeForProperty(s.Property))
	default:
		return nil
	}

	sort.SliceStable(l.rows, func(i, j int) bool {
		return compare(l.rows[i].SortKey, l.rows[j].SortKey) < 0
	})
	if !l.params.SortAscending {
		for i, j := 0, len(l.rows)-1; i < j; i, j = i+1, j-1 {
			l.rows[i], l.rows[j] = l.rows[j], l.rows[i]
		}
	}
	return nil
}

// familyName approximates a surname as the last whitespace-delimited
// token of the label.
func familyName(label string) string {
	fields := strings.Fields(label)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

// propertySortKey derives the row's key from the first claim of the
// sort property. Rows without such a claim key as empty and group at
// one end.
func (l *List) propertySortKey(row *model.Row, property string) string {
	entity, ok := l.store.Get(row.EntityID)
	if !ok {
		return ""
	}
	statements := entity.StatementsFor(property)
	if len(statements) == 0 {
		return ""
	}
	switch v := statements[0].MainSnak.Value.(type) {
	case wikibase.EntityIDValue:
		return l.LabelWithFallback(v.ID)
	case wikibase.QuantityValue:
		return v.Amount
	case wikibase.TimeValue:
		return v.Time
	case wikibase.MonolingualValue:
		return v.Text
	case wikibase.StringValue:
		return v.Value
	default:
		return ""
	}
}

// datatypeForProperty reads the property entity's declared datatype,
// defaulting to plain string comparison when the property never
// loaded.
func (l *List) datatypeForProperty(property string) wikibase.Datatype {
	if entity, ok := l.store.Get(property); ok && entity.Datatype != "" {
		return entity.Datatype
	}
	return wikibase.DatatypeString
}

// compareForDatatype selects the comparison rule: quantities compare
// numerically, times compare by signed year first, everything else
// compares as text.
func compareForDatatype(dt wikibase.Datatype) func(a, b string) int {
	switch dt {
	case wikibase.DatatypeQuantity:
		return compareQuantity
	case wikibase.DatatypeTime:
		return compareTime
	default:
		return strings.Compare
	}
}

func compareQuantity(a, b string) int {
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	if errA != nil || errB != nil {
		return strings.Compare(a, b)
	}
	switch {
	case fa < fb:
		return -1
	case fa > fb:
		return 1
	default:
		return 0
	}
}

// reTimeYear captures the signed year of a wikibase time string such
// as "+1999-05-01T00:00:00Z" or "-0500-01-01T00:00:00Z".
var reTimeYear = regexp.MustCompile(`^([+-]?\d+)(-.*)?$`)

// compareTime orders time strings by signed year so BCE dates sort
// before CE dates, then by the remainder lexicographically.
func compareTime(a, b string) int {
	ya, ra, okA := splitTimeYear(a)
	yb, rb, okB := splitTimeYear(b)
	if !okA || !okB {
		return strings.Compare(a, b)
	}
	switch {
	case ya < yb:
		return -1
	case ya > yb:
		return 1
	default:
		return strings.Compare(ra, rb)
	}
}

func splitTimeYear(s string) (year int64, rest string, ok bool) {
	m := reTimeYear.FindStringSubmatch(s)
	if m == nil {
		return 0, "", false
	}
	year, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, "", false
	}
	return year, m[2], true
}
